package recalc_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cdmasterk/orcafx/internal/pricing"
	"github.com/cdmasterk/orcafx/internal/pricing/pricingtest"
	"github.com/cdmasterk/orcafx/internal/recalc"
)

func input(code string) pricing.CalculateInput {
	return pricing.CalculateInput{
		ProductCode:       pricingtest.Str(code),
		Metal:             "gold",
		Purity:            "18k",
		Grams:             pricingtest.DecPtr("5"),
		MetalPricePerGram: pricingtest.DecPtr("60"),
		LaborCost:         pricingtest.Dec("20"),
	}
}

func TestRunIsolatesFailures(t *testing.T) {
	for _, concurrency := range []int{1, 4} {
		t.Run("concurrency", func(t *testing.T) {
			store := pricingtest.Seeded()
			store.SupersedeErrFor = map[string]error{"B": errors.New("disk full")}
			calc := pricing.NewCalculator(store, pricing.Config{}, nil, nil)
			runner := recalc.NewRunner(calc, store, concurrency, nil, nil)

			bad := input("C")
			bad.Grams = nil
			report, err := runner.Run(context.Background(), []pricing.CalculateInput{input("A"), input("B"), bad, input("D")}, "test")
			require.NoError(t, err)

			assert.Equal(t, 2, report.Succeeded)
			require.Len(t, report.Failed, 2)
			assert.Equal(t, "B", report.Failed[0].ProductKey)
			assert.Contains(t, report.Failed[0].Error, "disk full")
			assert.Equal(t, "C", report.Failed[1].ProductKey)
			assert.Contains(t, report.Failed[1].Error, "grams")
			assert.False(t, report.Success())
			assert.NotEmpty(t, report.RunID)

			assert.Len(t, store.Snapshots("A"), 1)
			assert.Len(t, store.Snapshots("D"), 1)
			assert.Empty(t, store.Snapshots("B"))

			logs := store.RecalcLogs()
			require.Len(t, logs, 1)
			assert.Equal(t, report.RunID, logs[0].RunID)
			assert.Equal(t, 2, logs[0].RecalculatedCount)
			assert.Equal(t, 2, logs[0].FailedCount)
			assert.False(t, logs[0].Success)
			assert.Equal(t, "test", logs[0].TriggeredBy)
		})
	}
}

func TestRunCollectsWarnings(t *testing.T) {
	store := pricingtest.Seeded()
	calc := pricing.NewCalculator(store, pricing.Config{}, nil, nil)
	runner := recalc.NewRunner(calc, store, 1, nil, nil)

	in := input("PEARL-1")
	in.Pearl.Quality = pricingtest.Str("AAA")

	report, err := runner.Run(context.Background(), []pricing.CalculateInput{in}, "test")
	require.NoError(t, err)
	assert.True(t, report.Success())
	require.Len(t, report.Warnings["PEARL-1"], 1)
	assert.Equal(t, pricing.ComponentPearl, report.Warnings["PEARL-1"][0].ComponentType)
	assert.True(t, store.RecalcLogs()[0].Success)
}

func TestRunAllUsesLatestMetalPrice(t *testing.T) {
	ctx := context.Background()
	store := pricingtest.Seeded()
	calc := pricing.NewCalculator(store, pricing.Config{}, nil, nil)

	_, err := calc.Calculate(ctx, input("RING-1"))
	require.NoError(t, err)
	fixed := input("BROOCH-1")
	fixed.Metal = "platinum"
	fixed.PurityFactor = pricingtest.DecPtr("0.95")
	_, err = calc.Calculate(ctx, fixed)
	require.NoError(t, err)

	require.NoError(t, store.InsertMetalPrice(ctx, &pricing.MetalPrice{
		GoldPerGram: pricingtest.Dec("80"), SilverPerGram: pricingtest.Dec("1"), FetchedAt: time.Now(),
	}))

	report, err := recalc.NewRunner(calc, store, 2, nil, nil).RunAll(ctx, "metal-refresh")
	require.NoError(t, err)
	assert.Equal(t, 2, report.Succeeded)

	ring, err := store.CurrentSnapshot(ctx, "RING-1")
	require.NoError(t, err)
	assert.Equal(t, "80.00", pricing.FormatMoney(ring.MetalPricePerGram))
	assert.Equal(t, "320.00", pricing.FormatMoney(ring.NetCost))
	assert.Len(t, store.Snapshots("RING-1"), 2)

	brooch, err := store.CurrentSnapshot(ctx, "BROOCH-1")
	require.NoError(t, err)
	assert.Equal(t, "60.00", pricing.FormatMoney(brooch.MetalPricePerGram))
}

func TestRunCancelled(t *testing.T) {
	store := pricingtest.Seeded()
	calc := pricing.NewCalculator(store, pricing.Config{}, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := recalc.NewRunner(calc, store, 1, nil, nil).Run(ctx, []pricing.CalculateInput{input("A"), input("B")}, "test")
	require.NoError(t, err)
	assert.Zero(t, report.Succeeded)
	assert.Len(t, report.Failed, 2)
	assert.Zero(t, store.SnapshotCount())
	assert.Len(t, store.RecalcLogs(), 1)
}

func TestInputsFromSnapshots(t *testing.T) {
	stored := input("RING-9")
	silver := input("")
	silver.ProductCode = nil
	silver.Metal = "Silver"

	inputs := recalc.InputsFromSnapshots([]pricing.Snapshot{
		{ProductKey: "RING-9", Input: stored},
		{ProductKey: "CHAIN-3", Input: silver},
	})

	require.Len(t, inputs, 2)
	assert.Nil(t, inputs[0].MetalPricePerGram)
	assert.Equal(t, "RING-9", inputs[0].ProductKey())
	assert.Nil(t, inputs[1].MetalPricePerGram)
	assert.Equal(t, "CHAIN-3", inputs[1].ProductKey())
}
