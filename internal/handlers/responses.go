package handlers

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/cdmasterk/orcafx/internal/pricing"
)

// SnapshotResponse is a price sheet with money rendered as fixed two-decimal strings.
type SnapshotResponse struct {
	ID          string  `json:"id" jsonschema:"required"`
	ProductKey  string  `json:"product_key" jsonschema:"required"`
	ProductID   *string `json:"product_id,omitempty"`
	ProductCode *string `json:"product_code,omitempty"`

	CategoryID   *string `json:"category_id,omitempty"`
	CollectionID *string `json:"collection_id,omitempty"`
	Brand        *string `json:"brand,omitempty"`
	Purity       string  `json:"purity"`
	Metal        string  `json:"metal"`

	Grams             string `json:"grams"`
	MetalPricePerGram string `json:"metal_price_per_gram"`
	PurityFactor      string `json:"purity_factor"`

	MetalCost string `json:"metal_cost"`
	StoneCost string `json:"stone_cost"`
	PearlCost string `json:"pearl_cost"`
	CoralCost string `json:"coral_cost"`
	OtherCost string `json:"other_cost"`
	LaborCost string `json:"labor_cost"`

	RuleID          string `json:"rule_id"`
	RuleName        string `json:"rule_name"`
	MarginWholesale string `json:"margin_wholesale"`
	MarginRetail    string `json:"margin_retail"`

	NetCost      string `json:"net_cost" jsonschema:"required"`
	WholesaleNet string `json:"wholesale_net" jsonschema:"required"`
	RetailNet    string `json:"retail_net" jsonschema:"required"`
	RetailGross  string `json:"retail_gross" jsonschema:"required"`

	TaxCountry string `json:"tax_country"`
	TaxRate    string `json:"tax_rate"`

	Notes *string                `json:"notes,omitempty"`
	Input pricing.CalculateInput `json:"input"`

	IsActive     bool       `json:"is_active"`
	CreatedAt    time.Time  `json:"created_at"`
	SupersededAt *time.Time `json:"superseded_at,omitempty"`
}

func money(d decimal.Decimal) string {
	return pricing.FormatMoney(d)
}

// NewSnapshotResponse renders a snapshot for the API.
func NewSnapshotResponse(s *pricing.Snapshot) SnapshotResponse {
	return SnapshotResponse{
		ID:                s.ID,
		ProductKey:        s.ProductKey,
		ProductID:         s.ProductID,
		ProductCode:       s.ProductCode,
		CategoryID:        s.CategoryID,
		CollectionID:      s.CollectionID,
		Brand:             s.Brand,
		Purity:            s.Purity,
		Metal:             s.Metal,
		Grams:             s.Grams.String(),
		MetalPricePerGram: money(s.MetalPricePerGram),
		PurityFactor:      s.PurityFactor.String(),
		MetalCost:         money(s.MetalCost),
		StoneCost:         money(s.StoneCost),
		PearlCost:         money(s.PearlCost),
		CoralCost:         money(s.CoralCost),
		OtherCost:         money(s.OtherCost),
		LaborCost:         money(s.LaborCost),
		RuleID:            s.RuleID,
		RuleName:          s.RuleName,
		MarginWholesale:   s.MarginWholesale.String(),
		MarginRetail:      s.MarginRetail.String(),
		NetCost:           money(s.NetCost),
		WholesaleNet:      money(s.WholesaleNet),
		RetailNet:         money(s.RetailNet),
		RetailGross:       money(s.RetailGross),
		TaxCountry:        s.TaxCountry,
		TaxRate:           s.TaxRate.String(),
		Notes:             s.Notes,
		Input:             s.Input,
		IsActive:          s.IsActive,
		CreatedAt:         s.CreatedAt,
		SupersededAt:      s.SupersededAt,
	}
}

func newSnapshotResponses(snaps []pricing.Snapshot) []SnapshotResponse {
	out := make([]SnapshotResponse, 0, len(snaps))
	for i := range snaps {
		out = append(out, NewSnapshotResponse(&snaps[i]))
	}
	return out
}

// WarningResponse is a component that was costed at zero.
type WarningResponse struct {
	ComponentType pricing.ComponentType `json:"component_type"`
	Quality       *string               `json:"quality,omitempty"`
	Message       string                `json:"message"`
}

func newWarningResponses(warnings []pricing.ComponentPriceNotFoundWarning) []WarningResponse {
	out := make([]WarningResponse, 0, len(warnings))
	for _, w := range warnings {
		out = append(out, WarningResponse{ComponentType: w.ComponentType, Quality: w.Quality, Message: w.Message()})
	}
	return out
}

// CalculateResponse is the result of a calculation or quote.
type CalculateResponse struct {
	Snapshot SnapshotResponse  `json:"snapshot" jsonschema:"required"`
	Warnings []WarningResponse `json:"warnings"`
	Stored   bool              `json:"stored"`
}

// ComponentPriceResponse is a price list entry with its price as a money string.
type ComponentPriceResponse struct {
	ID            string                `json:"id"`
	ComponentType pricing.ComponentType `json:"component_type"`
	Quality       *string               `json:"quality,omitempty"`
	Unit          pricing.Unit          `json:"unit"`
	PricePerUnit  string                `json:"price_per_unit"`
	IsActive      bool                  `json:"is_active"`
	ValidFrom     time.Time             `json:"valid_from"`
	ValidTo       *time.Time            `json:"valid_to,omitempty"`
}

func newComponentPriceResponse(p *pricing.ComponentPrice) ComponentPriceResponse {
	return ComponentPriceResponse{
		ID:            p.ID,
		ComponentType: p.ComponentType,
		Quality:       p.Quality,
		Unit:          p.Unit,
		PricePerUnit:  money(p.PricePerUnit),
		IsActive:      p.IsActive,
		ValidFrom:     p.ValidFrom,
		ValidTo:       p.ValidTo,
	}
}
