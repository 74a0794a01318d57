package pricing

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Purity labels offered when no custom label is configured.
var DefaultPurities = []string{"14k", "18k", "22k", "24k", "999", "925"}

// hallmarks maps common karat and fineness marks to their legal minimum
// fineness, which is what metal cost is computed from.
var hallmarks = map[string]string{
	"9k":  "0.375",
	"10k": "0.417",
	"14k": "0.585",
	"18k": "0.750",
	"22k": "0.916",
	"24k": "0.999",
	"375": "0.375",
	"585": "0.585",
	"750": "0.750",
	"925": "0.925",
	"999": "0.999",
}

var (
	karatDivisor    = decimal.NewFromInt(24)
	finenessDivisor = decimal.NewFromInt(1000)
)

// PurityFactor returns the fraction of pure metal for a purity label such
// as "18k" or "925". Unlisted karats are N/24 and unlisted three-digit
// fineness marks are N/1000.
func PurityFactor(label string) (decimal.Decimal, bool) {
	key := FoldKey(label)
	if v, ok := hallmarks[key]; ok {
		return decimal.RequireFromString(v), true
	}

	if k, ok := strings.CutSuffix(key, "k"); ok {
		n, err := strconv.Atoi(k)
		if err != nil || n <= 0 || n > 24 {
			return decimal.Zero, false
		}
		return decimal.NewFromInt(int64(n)).DivRound(karatDivisor, 3), true
	}

	if len(key) == 3 {
		n, err := strconv.Atoi(key)
		if err != nil || n <= 0 {
			return decimal.Zero, false
		}
		return decimal.NewFromInt(int64(n)).Div(finenessDivisor), true
	}
	return decimal.Zero, false
}
