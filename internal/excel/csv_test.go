package excel_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/cdmasterk/orcafx/internal/excel"
	"github.com/cdmasterk/orcafx/internal/pricing"
)

func TestDetectDelimiter(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    rune
	}{
		{"comma", "type,price\ndiamond,10\npearl,2", ','},
		{"semicolon with decimal commas", "type;price\ndiamond;1.250,50\npearl;2,5", ';'},
		{"tab", "type\tprice\ndiamond\t10", '\t'},
		{"no delimiter", "type\n", ','},
		{"empty", "", ','},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, excel.DetectDelimiter(tt.content))
		})
	}
}

func TestDecodeText(t *testing.T) {
	t.Run("utf-8 with bom", func(t *testing.T) {
		got, err := excel.DecodeText([]byte("\xEF\xBB\xBFčist"))
		require.NoError(t, err)
		assert.Equal(t, "čist", got)
	})

	t.Run("windows-1250", func(t *testing.T) {
		raw, err := charmap.Windows1250.NewEncoder().String("Šibenik koralj đ")
		require.NoError(t, err)
		assert.Equal(t, excel.EncodingWindows1250, excel.DetectEncoding([]byte(raw)))

		got, err := excel.DecodeText([]byte(raw))
		require.NoError(t, err)
		assert.Equal(t, "Šibenik koralj đ", got)
	})
}

func TestParseComponentPricesCSV(t *testing.T) {
	content := "Type;Quality;Unit;Price\n" +
		"diamond;VVS-G;ct;1.250,50\n" +
		"\n" +
		"coral;Šibenik;pcs;4,20\n" +
		"ruby;A;ct;10\n"
	raw, err := charmap.Windows1250.NewEncoder().String(content)
	require.NoError(t, err)

	result, err := excel.ParseComponentPricesCSV(strings.NewReader(raw))
	require.NoError(t, err)

	require.Len(t, result.Prices, 2)
	assert.Equal(t, pricing.ComponentDiamond, result.Prices[0].ComponentType)
	assert.Equal(t, "1250.5", result.Prices[0].PricePerUnit.String())
	assert.Equal(t, pricing.ComponentCoral, result.Prices[1].ComponentType)
	assert.Equal(t, "Šibenik", *result.Prices[1].Quality)
	assert.Equal(t, "4.2", result.Prices[1].PricePerUnit.String())

	require.Len(t, result.Errors, 1)
	assert.Equal(t, 5, result.Errors[0].Row)
	assert.Contains(t, result.Errors[0].Message, "ruby")
}

func TestParseComponentPriceFile(t *testing.T) {
	csv := "component_type,price_per_unit\nother,15\n"
	result, err := excel.ParseComponentPriceFile("prices.CSV", strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, result.Prices, 1)
	assert.Equal(t, pricing.ComponentOther, result.Prices[0].ComponentType)

	buf := workbook(t, "", [][]any{{"component_type", "price_per_unit"}, {"pearl", 3}})
	result, err = excel.ParseComponentPriceFile("prices.xlsx", buf)
	require.NoError(t, err)
	require.Len(t, result.Prices, 1)
	assert.Equal(t, pricing.ComponentPearl, result.Prices[0].ComponentType)
}
