package pricing_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cdmasterk/orcafx/internal/pricing"
	"github.com/cdmasterk/orcafx/internal/pricing/pricingtest"
)

func newCalculator(store pricing.Store) *pricing.Calculator {
	return pricing.NewCalculator(store, pricing.Config{}, nil, nil).WithClock(func() time.Time { return now })
}

// baseInput is the worked example: 60 €/g × 5 g × 0.75 plus 20 labor.
func baseInput() pricing.CalculateInput {
	return pricing.CalculateInput{
		ProductCode:       str("RING-001"),
		Metal:             "gold",
		Purity:            "18k",
		Grams:             pricingtest.DecPtr("5"),
		MetalPricePerGram: pricingtest.DecPtr("60"),
		LaborCost:         dec("20"),
	}
}

func money(t *testing.T, want string, got interface{ StringFixed(int32) string }) {
	t.Helper()
	assert.Equal(t, want, got.StringFixed(2))
}

func TestCalculateWorkedExample(t *testing.T) {
	store := pricingtest.Seeded()

	res, err := newCalculator(store).Calculate(context.Background(), baseInput())
	require.NoError(t, err)
	require.Empty(t, res.Warnings)

	snap := res.Snapshot
	money(t, "225.00", snap.MetalCost)
	money(t, "0.00", snap.StoneCost)
	money(t, "245.00", snap.NetCost)
	money(t, "318.50", snap.WholesaleNet)
	money(t, "686.00", snap.RetailNet)
	money(t, "857.50", snap.RetailGross)
	assert.Equal(t, "rul_default", snap.RuleID)
	assert.Equal(t, "HR", snap.TaxCountry)
	assert.Equal(t, "RING-001", snap.ProductKey)
	assert.True(t, snap.IsActive)
	assert.Len(t, store.Snapshots("RING-001"), 1)
}

func TestCalculateComponents(t *testing.T) {
	ctx := context.Background()

	newStore := func() *pricingtest.MemStore {
		s := pricingtest.Seeded()
		s.AddComponentPrice(pricing.ComponentPrice{ComponentType: pricing.ComponentDiamond, Quality: str("VVS-G"), Unit: pricing.UnitCarat, PricePerUnit: dec("40")})
		s.AddComponentPrice(pricing.ComponentPrice{ComponentType: pricing.ComponentPearl, Quality: str("AA"), PricePerUnit: dec("12.5")})
		return s
	}

	t.Run("manual amount overrides the price list", func(t *testing.T) {
		in := baseInput()
		in.Diamond = pricing.ComponentInput{Quality: str("VVS-G"), Qty: pricingtest.DecPtr("2"), ManualCost: pricingtest.DecPtr("50")}

		res, err := newCalculator(newStore()).Calculate(ctx, in)
		require.NoError(t, err)
		money(t, "50.00", res.Snapshot.StoneCost)
		money(t, "295.00", res.Snapshot.NetCost)
	})

	t.Run("blank manual amount is computed from the price list", func(t *testing.T) {
		s := newStore()
		s.AddComponentPrice(pricing.ComponentPrice{ComponentType: pricing.ComponentDiamond, Quality: str("VVS-G"), PricePerUnit: dec("25"), ValidFrom: now.AddDate(0, -1, 0)})
		in := baseInput()
		in.Diamond = pricing.ComponentInput{Quality: str("VVS-G"), Qty: pricingtest.DecPtr("2")}

		res, err := newCalculator(s).Calculate(ctx, in)
		require.NoError(t, err)
		money(t, "50.00", res.Snapshot.StoneCost)
		money(t, "295.00", res.Snapshot.NetCost)
	})

	t.Run("zero manual amount means compute", func(t *testing.T) {
		in := baseInput()
		in.Diamond = pricing.ComponentInput{Quality: str("VVS-G"), Qty: pricingtest.DecPtr("1"), ManualCost: pricingtest.DecPtr("0")}

		res, err := newCalculator(newStore()).Calculate(ctx, in)
		require.NoError(t, err)
		money(t, "40.00", res.Snapshot.StoneCost)
	})

	t.Run("quality without qty costs one unit", func(t *testing.T) {
		in := baseInput()
		in.Pearl = pricing.ComponentInput{Quality: str("AA")}

		res, err := newCalculator(newStore()).Calculate(ctx, in)
		require.NoError(t, err)
		money(t, "12.50", res.Snapshot.PearlCost)
		money(t, "257.50", res.Snapshot.NetCost)
	})

	t.Run("unpriced quality warns and costs zero", func(t *testing.T) {
		in := baseInput()
		in.Diamond = pricing.ComponentInput{Quality: str("SI-H"), Qty: pricingtest.DecPtr("1")}
		in.Coral = pricing.ComponentInput{Quality: str("Sardegna")}

		res, err := newCalculator(newStore()).Calculate(ctx, in)
		require.NoError(t, err)
		money(t, "245.00", res.Snapshot.NetCost)
		require.Len(t, res.Warnings, 2)
		assert.Equal(t, pricing.ComponentDiamond, res.Warnings[0].ComponentType)
		assert.Equal(t, "SI-H", *res.Warnings[0].Quality)
		assert.Equal(t, pricing.ComponentCoral, res.Warnings[1].ComponentType)
	})

	t.Run("bill of material fills quality and qty", func(t *testing.T) {
		s := newStore()
		require.NoError(t, s.AddProductComponent(ctx, &pricing.ProductComponent{
			ProductID: "prd_1", ComponentType: pricing.ComponentDiamond, Quality: str("VVS-G"), Qty: pricingtest.DecPtr("0.5"), Unit: pricing.UnitCarat,
		}))
		in := baseInput()
		in.ProductID = str("prd_1")
		in.UseBOM = true

		res, err := newCalculator(s).Calculate(ctx, in)
		require.NoError(t, err)
		money(t, "20.00", res.Snapshot.StoneCost)
		assert.Equal(t, "prd_1", res.Snapshot.ProductKey)
	})
}

func TestCalculateInputBlankAmounts(t *testing.T) {
	var in pricing.CalculateInput
	err := json.Unmarshal([]byte(`{"metal":"gold","purity":"18k","grams":"5","labor_cost":"","metal_price_per_gram":"",`+
		`"diamond":{"manual_cost":"","quality":"VVS-G","qty":"2"},"coral":{"qty":""}}`), &in)
	require.NoError(t, err)

	assert.Nil(t, in.MetalPricePerGram)
	assert.True(t, in.LaborCost.IsZero())
	money(t, "5.00", *in.Grams)
	assert.Nil(t, in.Diamond.ManualCost)
	money(t, "2.00", *in.Diamond.Qty)
	assert.Equal(t, "VVS-G", *in.Diamond.Quality)
	assert.Nil(t, in.Coral.Qty)

	err = json.Unmarshal([]byte(`{"metal":"gold","purity":"18k","diamond":{"qty":"two"}}`), &in)
	assert.Error(t, err)
}

func TestCalculateValidation(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(in *pricing.CalculateInput)
		field string
	}{
		{"missing grams", func(in *pricing.CalculateInput) { in.Grams = nil }, "grams"},
		{"zero grams", func(in *pricing.CalculateInput) { in.Grams = pricingtest.DecPtr("0") }, "grams"},
		{"missing purity", func(in *pricing.CalculateInput) { in.Purity = " " }, "purity"},
		{"missing metal", func(in *pricing.CalculateInput) { in.Metal = "" }, "metal"},
		{"missing product", func(in *pricing.CalculateInput) { in.ProductCode = nil }, "product_id"},
		{"negative qty", func(in *pricing.CalculateInput) { in.Pearl.Qty = pricingtest.DecPtr("-1") }, "pearl_qty"},
		{"unknown purity", func(in *pricing.CalculateInput) { in.Purity = "fancy" }, "purity_factor"},
		{"purity factor above one", func(in *pricing.CalculateInput) { in.PurityFactor = pricingtest.DecPtr("1.2") }, "purity_factor"},
		{"zero metal price", func(in *pricing.CalculateInput) { in.MetalPricePerGram = pricingtest.DecPtr("0") }, "metal_price_per_gram"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := pricingtest.Seeded()
			in := baseInput()
			tt.edit(&in)

			_, err := newCalculator(store).Calculate(context.Background(), in)

			var verr *pricing.InputValidationError
			require.True(t, errors.As(err, &verr), "got %v", err)
			assert.Equal(t, tt.field, verr.Field)
			assert.Zero(t, store.Reads, "validation must fail before any lookup")
			assert.Zero(t, store.SnapshotCount())
		})
	}
}

func TestCalculateMetalPriceFromStore(t *testing.T) {
	ctx := context.Background()
	store := pricingtest.Seeded()
	require.NoError(t, store.InsertMetalPrice(ctx, &pricing.MetalPrice{GoldPerGram: dec("60"), SilverPerGram: dec("0.9"), FetchedAt: now}))

	in := baseInput()
	in.MetalPricePerGram = nil

	res, err := newCalculator(store).Calculate(ctx, in)
	require.NoError(t, err)
	money(t, "60.00", res.Snapshot.MetalPricePerGram)
	money(t, "245.00", res.Snapshot.NetCost)

	in.Metal = "platinum"
	_, err = newCalculator(store).Calculate(ctx, in)
	var verr *pricing.InputValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "metal_price_per_gram", verr.Field)
}

func TestCalculateNoApplicableRule(t *testing.T) {
	store := pricingtest.New()
	store.AddTaxRate(pricing.TaxRate{CountryCode: "HR", Rate: dec("0.25")})
	store.AddRule(rule("rul_chains", 10, pricing.Scope{CategoryID: str("chains")}))

	in := baseInput()
	in.CategoryID = str("rings")

	_, err := newCalculator(store).Calculate(context.Background(), in)

	var noRule *pricing.NoApplicableRuleError
	require.True(t, errors.As(err, &noRule))
	assert.Zero(t, store.SnapshotCount())
}

func TestCalculateRuleOverride(t *testing.T) {
	ctx := context.Background()
	store := pricingtest.Seeded()
	special := rule("rul_special", 999, pricing.Scope{Brand: str("Elsewhere")})
	special.MarginRetail = dec("2.00")
	store.AddRule(special)

	in := baseInput()
	in.RuleID = str("rul_special")
	res, err := newCalculator(store).Calculate(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, "rul_special", res.Snapshot.RuleID)
	money(t, "735.00", res.Snapshot.RetailNet)

	in.RuleID = str("rul_missing")
	_, err = newCalculator(store).Calculate(ctx, in)
	var noRule *pricing.NoApplicableRuleError
	require.True(t, errors.As(err, &noRule))
	assert.Equal(t, "rul_missing", noRule.RuleID)
	assert.Contains(t, err.Error(), "rul_missing")
}

func TestCalculateMissingTaxRate(t *testing.T) {
	store := pricingtest.Seeded()
	in := baseInput()
	in.TaxCountry = "si"

	_, err := newCalculator(store).Calculate(context.Background(), in)

	var noTax *pricing.TaxRateNotFoundError
	require.True(t, errors.As(err, &noTax))
	assert.Equal(t, "SI", noTax.Country)
	assert.Zero(t, store.SnapshotCount())
}

func TestCalculateSupersedes(t *testing.T) {
	ctx := context.Background()
	store := pricingtest.Seeded()
	calc := newCalculator(store)

	first, err := calc.Calculate(ctx, baseInput())
	require.NoError(t, err)

	in := baseInput()
	in.LaborCost = dec("30")
	second, err := calc.Calculate(ctx, in)
	require.NoError(t, err)

	var active []pricing.Snapshot
	for _, s := range store.Snapshots("RING-001") {
		if s.IsActive {
			active = append(active, s)
		}
	}
	require.Len(t, active, 1)
	assert.Equal(t, second.Snapshot.ID, active[0].ID)
	assert.NotEqual(t, first.Snapshot.ID, second.Snapshot.ID)

	current, err := store.CurrentSnapshot(ctx, "RING-001")
	require.NoError(t, err)
	money(t, "255.00", current.NetCost)
}

func TestCalculateStaleSheetStampedAfterLatest(t *testing.T) {
	ctx := context.Background()
	store := pricingtest.Seeded()
	calc := newCalculator(store)

	stale, err := calc.Quote(ctx, baseInput())
	require.NoError(t, err)

	later := now.Add(time.Hour)
	_, err = calc.WithClock(func() time.Time { return later }).Calculate(ctx, baseInput())
	require.NoError(t, err)

	require.NoError(t, store.Supersede(ctx, stale.Snapshot))
	assert.True(t, stale.Snapshot.CreatedAt.After(later))

	for _, s := range store.Snapshots("RING-001") {
		if s.SupersededAt != nil {
			assert.False(t, s.SupersededAt.Before(s.CreatedAt))
		}
	}
	current, err := store.CurrentSnapshot(ctx, "RING-001")
	require.NoError(t, err)
	assert.Equal(t, stale.Snapshot.ID, current.ID)
}

func TestCalculatePersistenceError(t *testing.T) {
	ctx := context.Background()
	store := pricingtest.Seeded()
	calc := newCalculator(store)

	first, err := calc.Calculate(ctx, baseInput())
	require.NoError(t, err)

	boom := errors.New("connection lost")
	store.SupersedeErr = boom
	_, err = calc.Calculate(ctx, baseInput())

	var perr *pricing.PersistenceError
	require.True(t, errors.As(err, &perr))
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "RING-001")

	current, err := store.CurrentSnapshot(ctx, "RING-001")
	require.NoError(t, err)
	assert.Equal(t, first.Snapshot.ID, current.ID)
}

func TestQuoteDoesNotPersist(t *testing.T) {
	store := pricingtest.Seeded()

	res, err := newCalculator(store).Quote(context.Background(), baseInput())
	require.NoError(t, err)
	money(t, "857.50", res.Snapshot.RetailGross)
	assert.Zero(t, store.SnapshotCount())
}

func TestPreviewAgreesWithCalculate(t *testing.T) {
	ctx := context.Background()
	store := pricingtest.Seeded()
	store.AddCollection(pricing.Collection{ID: "col_mare", Name: "Mare", CategoryID: str("cat_rings")})
	store.AddRule(rule("rul_rings", 10, pricing.Scope{CategoryID: str("cat_rings")}))
	store.AddRule(rule("rul_rings_18k", 20, pricing.Scope{CategoryID: str("cat_rings"), Purity: str("18k")}))
	store.AddRule(rule("rul_orca", 5, pricing.Scope{Brand: str("Orca")}))
	store.AddRule(rule("rul_legacy_mare", 1, pricing.Scope{CollectionName: str("Mare")}))
	calc := newCalculator(store)

	tests := []struct {
		name     string
		edit     func(in *pricing.CalculateInput)
		wantRule string
	}{
		{"no taxonomy uses DEFAULT", func(in *pricing.CalculateInput) { in.Purity = "14k" }, "rul_default"},
		{"category and purity", func(in *pricing.CalculateInput) { in.CategoryID = str("cat_rings") }, "rul_rings_18k"},
		{"category only", func(in *pricing.CalculateInput) { in.CategoryID = str("cat_rings"); in.Purity = "14k" }, "rul_rings"},
		{"brand", func(in *pricing.CalculateInput) { in.Brand = str("Orca"); in.Purity = "14k" }, "rul_orca"},
		{"collection fills category", func(in *pricing.CalculateInput) { in.CollectionID = str("col_mare"); in.Purity = "14k" }, "rul_legacy_mare"},
		{"collection fills category and purity", func(in *pricing.CalculateInput) { in.CollectionID = str("col_mare") }, "rul_rings_18k"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := baseInput()
			tt.edit(&in)

			preview, err := calc.Preview(ctx, in.Attributes())
			require.NoError(t, err)

			res, err := calc.Calculate(ctx, in)
			require.NoError(t, err)

			assert.Equal(t, tt.wantRule, preview.Rule.ID)
			assert.Equal(t, preview.Rule.ID, res.Snapshot.RuleID)
		})
	}

	t.Run("DEFAULT label", func(t *testing.T) {
		preview, err := calc.Preview(ctx, pricing.Attributes{Purity: str("9k")})
		require.NoError(t, err)
		assert.True(t, preview.IsDefault)
		assert.Equal(t, pricing.DefaultRuleName, preview.RuleLabel())
	})
}
