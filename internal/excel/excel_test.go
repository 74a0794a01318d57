package excel_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/cdmasterk/orcafx/internal/excel"
	"github.com/cdmasterk/orcafx/internal/pricing"
	"github.com/cdmasterk/orcafx/internal/pricing/pricingtest"
)

func workbook(t *testing.T, sheet string, rows [][]any) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	if sheet != "" {
		_, err := f.NewSheet(sheet)
		require.NoError(t, err)
	} else {
		sheet = f.GetSheetName(0)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}

	var buf bytes.Buffer
	_, err := f.WriteTo(&buf)
	require.NoError(t, err)
	return &buf
}

func TestParseComponentPrices(t *testing.T) {
	buf := workbook(t, "Components", [][]any{
		{"Type", "Quality", "Unit", "Price"},
		{"diamond", "VVS-G", "ct", "1.250,50"},
		{"Pearl", " AA ", "", 12.5},
		{},
		{"ruby", "A", "ct", "10"},
		{"coral", "", "pcs", "abc"},
		{"other", "", "kg", "3"},
		{"other", "", "pcs", "-1"},
	})

	result, err := excel.ParseComponentPrices(buf)
	require.NoError(t, err)

	require.Len(t, result.Prices, 2)
	assert.Equal(t, pricing.ComponentDiamond, result.Prices[0].ComponentType)
	assert.Equal(t, "VVS-G", *result.Prices[0].Quality)
	assert.Equal(t, pricing.UnitCarat, result.Prices[0].Unit)
	assert.Equal(t, "1250.5", result.Prices[0].PricePerUnit.String())
	assert.Equal(t, pricing.ComponentPearl, result.Prices[1].ComponentType)
	assert.Equal(t, "AA", *result.Prices[1].Quality)
	assert.Equal(t, pricing.UnitPieces, result.Prices[1].Unit)

	require.Len(t, result.Errors, 4)
	assert.Equal(t, 5, result.Errors[0].Row)
	assert.Contains(t, result.Errors[0].Message, "ruby")
	assert.Equal(t, 6, result.Errors[1].Row)
	assert.Contains(t, result.Errors[1].Message, "price_per_unit")
	assert.Contains(t, result.Errors[2].Message, "kg")
	assert.Contains(t, result.Errors[3].Message, "negative")
}

func TestParseComponentPricesMissingColumn(t *testing.T) {
	buf := workbook(t, "", [][]any{{"component_type", "quality"}, {"diamond", "VS"}})

	_, err := excel.ParseComponentPrices(buf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "price_per_unit")
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"12.5", "12.5"},
		{"1.234,56", "1234.56"},
		{"1,234.56", "1234.56"},
		{"€ 40", "40"},
		{"40 EUR", "40"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := excel.ParseAmount(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}

	_, err := excel.ParseAmount("")
	assert.Error(t, err)
}

func TestWriteCurrentPrices(t *testing.T) {
	snap := pricing.Snapshot{
		ProductKey:  "RING-001",
		ProductCode: pricingtest.Str("RING-001"),
		Brand:       pricingtest.Str("Orca"),
		Purity:      "18k",
		Metal:       "gold",
		Grams:       pricingtest.Dec("5"),
		NetCost:     pricingtest.Dec("245.00"),
		RetailNet:   pricingtest.Dec("686.00"),
		RetailGross: pricingtest.Dec("857.50"),
		RuleName:    "DEFAULT",
		TaxRate:     pricingtest.Dec("0.25"),
		CreatedAt:   time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}

	var buf bytes.Buffer
	require.NoError(t, excel.WriteCurrentPrices(&buf, []pricing.Snapshot{snap}))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{excel.PricesSheet}, f.GetSheetList())
	rows, err := f.GetRows(excel.PricesSheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "product_code", rows[0][0])
	assert.Equal(t, "created_at", rows[0][12])
	assert.Equal(t, "RING-001", rows[1][0])
	assert.Equal(t, "Orca", rows[1][2])
	assert.Equal(t, "DEFAULT", rows[1][10])
	assert.Equal(t, "2026-03-01T12:00:00Z", rows[1][12])

	gross, err := f.GetCellValue(excel.PricesSheet, "J2", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, "857.5", gross)
}
