package pricing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cdmasterk/orcafx/internal/pricing"
)

func TestPurityFactor(t *testing.T) {
	tests := []struct {
		label  string
		want   string
		wantOK bool
	}{
		{"18k", "0.75", true},
		{"18K", "0.75", true},
		{" 14k ", "0.585", true},
		{"22k", "0.916", true},
		{"24k", "0.999", true},
		{"925", "0.925", true},
		{"999", "0.999", true},
		{"12k", "0.5", true},
		{"800", "0.8", true},
		{"30k", "0", false},
		{"gold", "0", false},
		{"", "0", false},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			got, ok := pricing.PurityFactor(tt.label)
			assert.Equal(t, tt.wantOK, ok)
			assert.True(t, dec(tt.want).Equal(got), "got %s want %s", got, tt.want)
		})
	}
}

func TestRoundMoney(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2.344", "2.34"},
		{"2.345", "2.35"},
		{"2.355", "2.36"},
		{"-2.345", "-2.35"},
		{"245", "245.00"},
		{"318.5", "318.50"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, pricing.FormatMoney(pricing.RoundMoney(dec(tt.in))))
		})
	}
}

func TestMarkup(t *testing.T) {
	assert.Equal(t, "318.50", pricing.FormatMoney(pricing.Markup(dec("245"), dec("0.30"))))
	assert.Equal(t, "857.50", pricing.FormatMoney(pricing.Markup(dec("686"), dec("0.25"))))
	assert.Equal(t, "1.24", pricing.FormatMoney(pricing.Markup(dec("0.99"), dec("0.25"))))
}
