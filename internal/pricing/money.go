package pricing

import "github.com/shopspring/decimal"

// MoneyPlaces is the number of decimal places money is stored with.
const MoneyPlaces = 2

// RoundMoney rounds half away from zero to two decimal places.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyPlaces)
}

// FormatMoney renders d with exactly two decimal places.
func FormatMoney(d decimal.Decimal) string {
	return d.StringFixed(MoneyPlaces)
}

var one = decimal.NewFromInt(1)

// Markup returns base × (1 + fraction), rounded to money precision.
func Markup(base, fraction decimal.Decimal) decimal.Decimal {
	return RoundMoney(base.Mul(one.Add(fraction)))
}
