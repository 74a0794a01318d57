package pricing_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cdmasterk/orcafx/internal/pricing"
	"github.com/cdmasterk/orcafx/internal/pricing/pricingtest"
)

func TestResolveQuantity(t *testing.T) {
	decPtr := pricingtest.DecPtr

	tests := []struct {
		name    string
		quality *string
		qty     *decimal.Decimal
		want    string
	}{
		{"no quality no qty", nil, nil, "0"},
		{"no quality zero qty", nil, decPtr("0"), "0"},
		{"quality without qty is one unit", str("AA"), nil, "1"},
		{"explicit qty", str("VVS-G"), decPtr("2.5"), "2.5"},
		{"explicit zero qty with quality", str("VVS-G"), decPtr("0"), "0"},
		{"qty without quality", nil, decPtr("3"), "3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := pricing.ResolveQuantity(tt.quality, tt.qty)
			assert.True(t, dec(tt.want).Equal(got), "got %s want %s", got, tt.want)
		})
	}
}

type failingPrices struct{}

func (failingPrices) LatestComponentPrice(context.Context, pricing.ComponentType, *string, time.Time) (*pricing.ComponentPrice, error) {
	return nil, errors.New("connection reset")
}

func TestComponentCoster(t *testing.T) {
	ctx := context.Background()
	store := pricingtest.New()
	store.AddComponentPrice(pricing.ComponentPrice{ComponentType: pricing.ComponentDiamond, Quality: str("VVS-G"), Unit: pricing.UnitCarat, PricePerUnit: dec("25")})
	store.AddComponentPrice(pricing.ComponentPrice{ComponentType: pricing.ComponentOther, Unit: pricing.UnitPieces, PricePerUnit: dec("4")})
	coster := pricing.NewComponentCoster(store)

	t.Run("qty times price per unit", func(t *testing.T) {
		cost, warn, err := coster.CostFor(ctx, pricing.ComponentDiamond, str("VVS-G"), pricingtest.DecPtr("2"), now)
		require.NoError(t, err)
		assert.Nil(t, warn)
		assert.Equal(t, "50.00", pricing.FormatMoney(cost))
	})

	t.Run("most recent entry wins", func(t *testing.T) {
		s := pricingtest.New()
		s.AddComponentPrice(pricing.ComponentPrice{ComponentType: pricing.ComponentPearl, Quality: str("AA"), PricePerUnit: dec("10"), ValidFrom: now.AddDate(0, -2, 0)})
		s.AddComponentPrice(pricing.ComponentPrice{ComponentType: pricing.ComponentPearl, Quality: str("AA"), PricePerUnit: dec("12"), ValidFrom: now.AddDate(0, -1, 0)})

		cost, _, err := pricing.NewComponentCoster(s).CostFor(ctx, pricing.ComponentPearl, str("AA"), nil, now)
		require.NoError(t, err)
		assert.Equal(t, "12.00", pricing.FormatMoney(cost))
	})

	t.Run("unused component does not look anything up", func(t *testing.T) {
		s := pricingtest.New()
		cost, warn, err := pricing.NewComponentCoster(s).CostFor(ctx, pricing.ComponentCoral, nil, nil, now)
		require.NoError(t, err)
		assert.Nil(t, warn)
		assert.True(t, cost.IsZero())
		assert.Zero(t, s.Reads)
	})

	t.Run("entry without quality grade", func(t *testing.T) {
		cost, warn, err := coster.CostFor(ctx, pricing.ComponentOther, nil, pricingtest.DecPtr("3"), now)
		require.NoError(t, err)
		assert.Nil(t, warn)
		assert.Equal(t, "12.00", pricing.FormatMoney(cost))
	})

	t.Run("missing price is a warning", func(t *testing.T) {
		cost, warn, err := coster.CostFor(ctx, pricing.ComponentDiamond, str("SI-H"), pricingtest.DecPtr("1"), now)
		require.NoError(t, err)
		require.NotNil(t, warn)
		assert.True(t, cost.IsZero())
		assert.Equal(t, pricing.ComponentDiamond, warn.ComponentType)
		assert.Contains(t, warn.Message(), `diamond price for quality "SI-H"`)
	})

	t.Run("store failure is an error", func(t *testing.T) {
		_, _, err := pricing.NewComponentCoster(failingPrices{}).CostFor(ctx, pricing.ComponentDiamond, str("VVS-G"), nil, now)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "connection reset")
	})
}
