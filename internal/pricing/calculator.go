package pricing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/cdmasterk/orcafx/internal/metrics"
	"github.com/cdmasterk/orcafx/internal/pkg/cuid2"
)

// ComponentInput carries one auxiliary component of a calculation request.
// A strictly positive ManualCost overrides the price list.
type ComponentInput struct {
	Quality    *string          `json:"quality,omitempty"`
	Qty        *decimal.Decimal `json:"qty,omitempty"`
	ManualCost *decimal.Decimal `json:"manual_cost,omitempty"`
}

// CalculateInput is everything needed to price one product.
type CalculateInput struct {
	ProductID   *string `json:"product_id,omitempty"`
	ProductCode *string `json:"product_code,omitempty"`

	CategoryID     *string `json:"category_id,omitempty"`
	CollectionID   *string `json:"collection_id,omitempty"`
	CollectionName *string `json:"collection_name,omitempty"`
	Brand          *string `json:"brand,omitempty"`

	Metal             string           `json:"metal"`
	Purity            string           `json:"purity"`
	PurityFactor      *decimal.Decimal `json:"purity_factor,omitempty"`
	Grams             *decimal.Decimal `json:"grams,omitempty"`
	MetalPricePerGram *decimal.Decimal `json:"metal_price_per_gram,omitempty"`

	Diamond ComponentInput `json:"diamond"`
	Pearl   ComponentInput `json:"pearl"`
	Coral   ComponentInput `json:"coral"`
	Other   ComponentInput `json:"other"`

	LaborCost  decimal.Decimal `json:"labor_cost"`
	TaxCountry string          `json:"tax_country,omitempty"`

	// RuleID forces a specific rule instead of resolving one.
	RuleID *string `json:"rule_id,omitempty"`
	// UseBOM fills missing component qualities and quantities from the
	// product's bill of material.
	UseBOM bool    `json:"use_bom,omitempty"`
	Notes  *string `json:"notes,omitempty"`
}

// UnmarshalJSON treats a blank qty or manual_cost as not given, so form
// posts with empty fields fall back to the price list.
func (c *ComponentInput) UnmarshalJSON(data []byte) error {
	data = nullBlankFields(data, "qty", "manual_cost")
	type plain ComponentInput
	return json.Unmarshal(data, (*plain)(c))
}

// UnmarshalJSON treats blank amount fields as not given.
func (in *CalculateInput) UnmarshalJSON(data []byte) error {
	data = nullBlankFields(data, "purity_factor", "grams", "metal_price_per_gram", "labor_cost")
	type plain CalculateInput
	return json.Unmarshal(data, (*plain)(in))
}

// nullBlankFields rewrites the named members of a JSON object to null when
// they hold an empty or whitespace-only string.
func nullBlankFields(data []byte, fields ...string) []byte {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil || obj == nil {
		return data
	}
	changed := false
	for _, name := range fields {
		raw, ok := obj[name]
		if !ok {
			continue
		}
		var str string
		if json.Unmarshal(raw, &str) == nil && strings.TrimSpace(str) == "" {
			obj[name] = json.RawMessage("null")
			changed = true
		}
	}
	if !changed {
		return data
	}
	out, err := json.Marshal(obj)
	if err != nil {
		return data
	}
	return out
}

// ProductKey identifies the product a snapshot belongs to: the product id
// when known, otherwise the product code.
func (in *CalculateInput) ProductKey() string {
	if in.ProductID != nil {
		return *in.ProductID
	}
	if in.ProductCode != nil {
		return *in.ProductCode
	}
	return ""
}

// Attributes returns the taxonomy attributes of the input.
func (in *CalculateInput) Attributes() Attributes {
	return Attributes{
		CategoryID:     in.CategoryID,
		CollectionID:   in.CollectionID,
		CollectionName: in.CollectionName,
		Brand:          in.Brand,
		Purity:         &in.Purity,
	}
}

// Component returns the input for the given component type.
func (in *CalculateInput) Component(t ComponentType) *ComponentInput {
	switch t {
	case ComponentDiamond:
		return &in.Diamond
	case ComponentPearl:
		return &in.Pearl
	case ComponentCoral:
		return &in.Coral
	default:
		return &in.Other
	}
}

// Result is a computed price sheet plus any non-fatal warnings.
type Result struct {
	Snapshot *Snapshot
	Warnings []ComponentPriceNotFoundWarning
}

// PreviewResult tells which rule a calculation would use.
type PreviewResult struct {
	Rule        Rule
	Specificity int
	IsDefault   bool
	Attributes  Attributes
}

// RuleLabel returns the rule id, or DEFAULT for the wildcard rule.
func (p PreviewResult) RuleLabel() string {
	if p.IsDefault {
		return DefaultRuleName
	}
	return p.Rule.ID
}

// Config holds calculator settings.
type Config struct {
	DefaultTaxCountry string
}

// Calculator computes and stores price sheets.
type Calculator struct {
	store    Store
	resolver *Resolver
	coster   *ComponentCoster
	config   Config
	metrics  *metrics.Recorder
	logger   zerolog.Logger
	now      func() time.Time
}

// NewCalculator creates a calculator over the given store.
func NewCalculator(store Store, config Config, recorder *metrics.Recorder, logger *zerolog.Logger) *Calculator {
	if config.DefaultTaxCountry == "" {
		config.DefaultTaxCountry = DefaultTaxCountry
	}
	l := zerolog.Nop()
	if logger != nil {
		l = logger.With().Str("component", "calculator").Logger()
	}
	return &Calculator{
		store:    store,
		resolver: NewResolver(store, recorder),
		coster:   NewComponentCoster(store),
		config:   config,
		metrics:  recorder,
		logger:   l,
		now:      time.Now,
	}
}

// WithClock replaces the calculator's time source.
func (c *Calculator) WithClock(now func() time.Time) *Calculator {
	c.now = now
	return c
}

// Preview returns the rule a calculation with these attributes would use.
func (c *Calculator) Preview(ctx context.Context, attrs Attributes) (PreviewResult, error) {
	attrs, err := c.prepareAttributes(ctx, attrs.normalized())
	if err != nil {
		return PreviewResult{}, err
	}
	res, err := c.resolver.Resolve(ctx, attrs, c.now())
	if err != nil {
		return PreviewResult{}, err
	}
	return PreviewResult{
		Rule:        res.Rule,
		Specificity: res.Specificity,
		IsDefault:   res.IsDefault(),
		Attributes:  attrs,
	}, nil
}

// Calculate prices one product and stores the result as its new current
// price sheet, superseding the previous one.
func (c *Calculator) Calculate(ctx context.Context, in CalculateInput) (*Result, error) {
	ctx, span := tracer.Start(ctx, "pricing.Calculate")
	defer span.End()

	start := time.Now()
	res, err := c.compute(ctx, in)
	if err == nil {
		if perr := c.store.Supersede(ctx, res.Snapshot); perr != nil {
			err = &PersistenceError{ProductKey: res.Snapshot.ProductKey, Err: perr}
		}
	}
	c.metrics.RecordCalculation(outcome(err), time.Since(start))

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(
		attribute.String("pricing.product_key", res.Snapshot.ProductKey),
		attribute.String("pricing.rule_id", res.Snapshot.RuleID),
		attribute.Int("pricing.warnings", len(res.Warnings)),
	)
	c.logger.Debug().
		Str("product_key", res.Snapshot.ProductKey).
		Str("snapshot_id", res.Snapshot.ID).
		Str("rule_id", res.Snapshot.RuleID).
		Str("retail_gross", FormatMoney(res.Snapshot.RetailGross)).
		Msg("Price sheet stored")
	return res, nil
}

// Quote computes a price sheet without storing it.
func (c *Calculator) Quote(ctx context.Context, in CalculateInput) (*Result, error) {
	return c.compute(ctx, in)
}

func (c *Calculator) compute(ctx context.Context, in CalculateInput) (*Result, error) {
	now := c.now()

	in = normalizeInput(in)
	if err := validateInput(&in); err != nil {
		return nil, err
	}

	factor, err := c.purityFactor(&in)
	if err != nil {
		return nil, err
	}

	pricePerGram, err := c.metalPricePerGram(ctx, &in)
	if err != nil {
		return nil, err
	}

	if in.UseBOM && in.ProductID != nil {
		if err := c.fillFromBOM(ctx, &in); err != nil {
			return nil, err
		}
	}

	attrs, err := c.prepareAttributes(ctx, in.Attributes())
	if err != nil {
		return nil, err
	}

	rule, err := c.pickRule(ctx, attrs, in.RuleID, now)
	if err != nil {
		return nil, err
	}

	country := in.TaxCountry
	if country == "" {
		country = c.config.DefaultTaxCountry
	}
	tax, err := c.store.ActiveTaxRate(ctx, country, now)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, &TaxRateNotFoundError{Country: country}
		}
		return nil, fmt.Errorf("failed to look up tax rate for %s: %w", country, err)
	}

	costs := make(map[ComponentType]decimal.Decimal, len(ComponentTypes))
	var warnings []ComponentPriceNotFoundWarning
	for _, t := range ComponentTypes {
		comp := in.Component(t)
		if comp.ManualCost != nil && comp.ManualCost.IsPositive() {
			costs[t] = RoundMoney(*comp.ManualCost)
			continue
		}
		cost, warn, err := c.coster.CostFor(ctx, t, comp.Quality, comp.Qty, now)
		if err != nil {
			return nil, err
		}
		if warn != nil {
			warnings = append(warnings, *warn)
			c.metrics.RecordMissingComponentPrice(string(t))
			c.logger.Warn().
				Str("product_key", in.ProductKey()).
				Str("component_type", string(t)).
				Msg(warn.Message())
		}
		costs[t] = RoundMoney(cost)
	}

	metalCost := RoundMoney(pricePerGram.Mul(*in.Grams).Mul(factor))
	labor := RoundMoney(in.LaborCost)
	netCost := metalCost.
		Add(costs[ComponentDiamond]).
		Add(costs[ComponentPearl]).
		Add(costs[ComponentCoral]).
		Add(costs[ComponentOther]).
		Add(labor)

	retailNet := Markup(netCost, rule.MarginRetail)

	snap := &Snapshot{
		ID:                cuid2.NewID("psh"),
		ProductKey:        in.ProductKey(),
		ProductID:         in.ProductID,
		ProductCode:       in.ProductCode,
		CategoryID:        attrs.CategoryID,
		CollectionID:      attrs.CollectionID,
		Brand:             attrs.Brand,
		Purity:            in.Purity,
		Metal:             in.Metal,
		Grams:             *in.Grams,
		MetalPricePerGram: pricePerGram,
		PurityFactor:      factor,
		MetalCost:         metalCost,
		StoneCost:         costs[ComponentDiamond],
		PearlCost:         costs[ComponentPearl],
		CoralCost:         costs[ComponentCoral],
		OtherCost:         costs[ComponentOther],
		LaborCost:         labor,
		RuleID:            rule.ID,
		RuleName:          rule.Name,
		MarginWholesale:   rule.MarginWholesale,
		MarginRetail:      rule.MarginRetail,
		NetCost:           netCost,
		WholesaleNet:      Markup(netCost, rule.MarginWholesale),
		RetailNet:         retailNet,
		RetailGross:       Markup(retailNet, tax.Rate),
		TaxCountry:        country,
		TaxRate:           tax.Rate,
		Notes:             in.Notes,
		Input:             in,
		IsActive:          true,
		CreatedAt:         now,
	}
	return &Result{Snapshot: snap, Warnings: warnings}, nil
}

func (c *Calculator) purityFactor(in *CalculateInput) (decimal.Decimal, error) {
	if in.PurityFactor != nil {
		f := *in.PurityFactor
		if !f.IsPositive() || f.GreaterThan(one) {
			return decimal.Zero, invalid("purity_factor", "must be greater than 0 and at most 1")
		}
		return f, nil
	}
	f, ok := PurityFactor(in.Purity)
	if !ok {
		return decimal.Zero, invalid("purity_factor", fmt.Sprintf("unknown purity %q; supply purity_factor explicitly", in.Purity))
	}
	return f, nil
}

func (c *Calculator) metalPricePerGram(ctx context.Context, in *CalculateInput) (decimal.Decimal, error) {
	if in.MetalPricePerGram != nil {
		if !in.MetalPricePerGram.IsPositive() {
			return decimal.Zero, invalid("metal_price_per_gram", "must be greater than 0")
		}
		return *in.MetalPricePerGram, nil
	}

	latest, err := c.store.LatestMetalPrice(ctx)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return decimal.Zero, invalid("metal_price_per_gram", "not supplied and no metal prices have been fetched")
		}
		return decimal.Zero, fmt.Errorf("failed to load metal prices: %w", err)
	}
	price, ok := latest.PerGram(in.Metal)
	if !ok {
		return decimal.Zero, invalid("metal_price_per_gram", fmt.Sprintf("not supplied and no stored price for metal %q", in.Metal))
	}
	return price, nil
}

func (c *Calculator) fillFromBOM(ctx context.Context, in *CalculateInput) error {
	lines, err := c.store.ProductComponents(ctx, *in.ProductID)
	if err != nil {
		return fmt.Errorf("failed to load bill of material for %s: %w", *in.ProductID, err)
	}

	latest := make(map[ComponentType]ProductComponent)
	for _, l := range lines {
		if !l.IsActive {
			continue
		}
		if cur, ok := latest[l.ComponentType]; !ok || l.ValidFrom.After(cur.ValidFrom) {
			latest[l.ComponentType] = l
		}
	}

	for t, line := range latest {
		comp := in.Component(t)
		if comp.Quality == nil {
			comp.Quality = NormalizeLabel(line.Quality)
		}
		if comp.Qty == nil {
			comp.Qty = line.Qty
		}
	}
	return nil
}

// prepareAttributes fills the category and legacy collection name from the
// collection when they were not given.
func (c *Calculator) prepareAttributes(ctx context.Context, attrs Attributes) (Attributes, error) {
	if attrs.CollectionID == nil || (attrs.CategoryID != nil && attrs.CollectionName != nil) {
		return attrs, nil
	}

	col, err := c.store.Collection(ctx, *attrs.CollectionID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return attrs, nil
		}
		return attrs, fmt.Errorf("failed to load collection %s: %w", *attrs.CollectionID, err)
	}
	if attrs.CategoryID == nil {
		attrs.CategoryID = NormalizeLabel(col.CategoryID)
	}
	if attrs.CollectionName == nil {
		attrs.CollectionName = NormalizeLabel(&col.Name)
	}
	return attrs, nil
}

func (c *Calculator) pickRule(ctx context.Context, attrs Attributes, ruleID *string, at time.Time) (Rule, error) {
	if ruleID == nil {
		res, err := c.resolver.Resolve(ctx, attrs, at)
		if err != nil {
			return Rule{}, err
		}
		return res.Rule, nil
	}

	rule, err := c.store.Rule(ctx, *ruleID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Rule{}, &NoApplicableRuleError{Attributes: attrs, RuleID: *ruleID}
		}
		return Rule{}, fmt.Errorf("failed to load pricing rule %s: %w", *ruleID, err)
	}
	if !rule.ActiveAt(at) {
		return Rule{}, &NoApplicableRuleError{Attributes: attrs, RuleID: *ruleID}
	}
	return *rule, nil
}

func normalizeInput(in CalculateInput) CalculateInput {
	in.ProductID = NormalizeLabel(in.ProductID)
	in.ProductCode = NormalizeLabel(in.ProductCode)
	in.CategoryID = NormalizeLabel(in.CategoryID)
	in.CollectionID = NormalizeLabel(in.CollectionID)
	in.CollectionName = NormalizeLabel(in.CollectionName)
	in.Brand = NormalizeLabel(in.Brand)
	in.RuleID = NormalizeLabel(in.RuleID)
	in.Notes = NormalizeLabel(in.Notes)
	in.Metal = FoldKey(in.Metal)
	if p := NormalizeLabel(&in.Purity); p != nil {
		in.Purity = *p
	} else {
		in.Purity = ""
	}
	in.TaxCountry = strings.ToUpper(strings.TrimSpace(in.TaxCountry))
	for _, t := range ComponentTypes {
		comp := in.Component(t)
		comp.Quality = NormalizeLabel(comp.Quality)
	}
	return in
}

func validateInput(in *CalculateInput) error {
	if in.ProductKey() == "" {
		return invalid("product_id", "product_id or product_code is required")
	}
	if in.Metal == "" {
		return invalid("metal", "is required")
	}
	if in.Purity == "" {
		return invalid("purity", "is required")
	}
	if in.Grams == nil {
		return invalid("grams", "is required")
	}
	if !in.Grams.IsPositive() {
		return invalid("grams", "must be greater than 0")
	}
	if in.LaborCost.IsNegative() {
		return invalid("labor_cost", "must not be negative")
	}
	for _, t := range ComponentTypes {
		comp := in.Component(t)
		if comp.Qty != nil && comp.Qty.IsNegative() {
			return invalid(string(t)+"_qty", "must not be negative")
		}
	}
	return nil
}

func outcome(err error) string {
	var (
		validation *InputValidationError
		noRule     *NoApplicableRuleError
		noTax      *TaxRateNotFoundError
		persist    *PersistenceError
	)
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &validation):
		return "invalid_input"
	case errors.As(err, &noRule):
		return "no_rule"
	case errors.As(err, &noTax):
		return "no_tax_rate"
	case errors.As(err, &persist):
		return "persistence_error"
	default:
		return "error"
	}
}
