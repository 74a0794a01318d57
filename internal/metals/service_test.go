package metals_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cdmasterk/orcafx/internal/metals"
	"github.com/cdmasterk/orcafx/internal/pricing"
	"github.com/cdmasterk/orcafx/internal/pricing/pricingtest"
	"github.com/cdmasterk/orcafx/internal/recalc"
)

type fixedFetcher struct {
	price *pricing.MetalPrice
	err   error
}

func (f fixedFetcher) FetchLatest(context.Context) (*pricing.MetalPrice, error) {
	if f.err != nil {
		return nil, f.err
	}
	p := *f.price
	return &p, nil
}

func TestRefreshStoresAndRecalculates(t *testing.T) {
	ctx := context.Background()
	store := pricingtest.Seeded()
	calc := pricing.NewCalculator(store, pricing.Config{}, nil, nil)
	runner := recalc.NewRunner(calc, store, 1, nil, nil)

	_, err := calc.Calculate(ctx, pricing.CalculateInput{
		ProductCode:       pricingtest.Str("RING-1"),
		Metal:             "gold",
		Purity:            "18k",
		Grams:             pricingtest.DecPtr("5"),
		MetalPricePerGram: pricingtest.DecPtr("60"),
		LaborCost:         pricingtest.Dec("20"),
	})
	require.NoError(t, err)

	fetcher := fixedFetcher{price: &pricing.MetalPrice{GoldPerGram: pricingtest.Dec("80"), SilverPerGram: pricingtest.Dec("0.8")}}
	svc := metals.NewService(fetcher, store, runner, nil, nil)

	result, err := svc.Refresh(ctx, false)
	require.NoError(t, err)
	assert.Nil(t, result.Recalc)
	assert.Empty(t, store.RecalcLogs())

	latest, err := store.LatestMetalPrice(ctx)
	require.NoError(t, err)
	assert.Equal(t, "80", latest.GoldPerGram.String())

	result, err = svc.Refresh(ctx, true)
	require.NoError(t, err)
	require.NotNil(t, result.Recalc)
	assert.Equal(t, 1, result.Recalc.Succeeded)
	assert.Equal(t, metals.TriggeredBy, store.RecalcLogs()[0].TriggeredBy)

	current, err := store.CurrentSnapshot(ctx, "RING-1")
	require.NoError(t, err)
	assert.Equal(t, "320.00", pricing.FormatMoney(current.NetCost))
}

func TestRefreshFetchFailure(t *testing.T) {
	store := pricingtest.New()
	svc := metals.NewService(fixedFetcher{err: errors.New("timeout")}, store, nil, nil, nil)

	_, err := svc.Refresh(context.Background(), true)
	require.Error(t, err)

	_, err = store.LatestMetalPrice(context.Background())
	assert.ErrorIs(t, err, pricing.ErrNotFound)
}
