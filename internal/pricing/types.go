package pricing

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultRuleName is the name given to rules created without one.
const DefaultRuleName = "DEFAULT"

// DefaultTaxCountry is used when a calculation does not name a tax country.
const DefaultTaxCountry = "HR"

// ComponentType identifies an auxiliary cost component of a jewelry item.
type ComponentType string

const (
	ComponentDiamond ComponentType = "diamond"
	ComponentPearl   ComponentType = "pearl"
	ComponentCoral   ComponentType = "coral"
	ComponentOther   ComponentType = "other"
)

// ComponentTypes lists the component types in calculation order.
var ComponentTypes = []ComponentType{ComponentDiamond, ComponentPearl, ComponentCoral, ComponentOther}

// Valid reports whether t is a known component type.
func (t ComponentType) Valid() bool {
	switch t {
	case ComponentDiamond, ComponentPearl, ComponentCoral, ComponentOther:
		return true
	}
	return false
}

// Unit is the unit a component price is quoted in.
type Unit string

const (
	UnitCarat  Unit = "ct"
	UnitGram   Unit = "g"
	UnitPieces Unit = "pcs"
)

// Valid reports whether u is a known unit.
func (u Unit) Valid() bool {
	switch u {
	case UnitCarat, UnitGram, UnitPieces:
		return true
	}
	return false
}

// Metal names understood by the metal price lookup.
const (
	MetalGold   = "gold"
	MetalSilver = "silver"
)

// Scope narrows the products a rule applies to. A nil field is a wildcard.
// CollectionName is the legacy free-text collection and is only consulted
// when CollectionID is nil.
type Scope struct {
	CategoryID     *string `json:"category_id,omitempty"`
	CollectionID   *string `json:"collection_id,omitempty"`
	CollectionName *string `json:"collection_name,omitempty"`
	Brand          *string `json:"brand,omitempty"`
	Purity         *string `json:"purity,omitempty"`
}

// Attributes are the product facts a rule is resolved against.
type Attributes struct {
	CategoryID     *string `json:"category_id,omitempty"`
	CollectionID   *string `json:"collection_id,omitempty"`
	CollectionName *string `json:"collection_name,omitempty"`
	Brand          *string `json:"brand,omitempty"`
	Purity         *string `json:"purity,omitempty"`
}

// Rule is a pricing rule: a scope plus the margins applied to net cost.
type Rule struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Scope           Scope           `json:"scope"`
	MarginWholesale decimal.Decimal `json:"margin_wholesale"`
	MarginRetail    decimal.Decimal `json:"margin_retail"`
	StoneMarkup     decimal.Decimal `json:"stone_markup"`
	LaborMarkup     decimal.Decimal `json:"labor_markup"`
	Priority        int             `json:"priority"`
	IsActive        bool            `json:"is_active"`
	ValidFrom       time.Time       `json:"valid_from"`
	ValidTo         *time.Time      `json:"valid_to,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

// NewRule returns a rule carrying the defaults an administrator starts from.
func NewRule() Rule {
	return Rule{
		Name:            DefaultRuleName,
		MarginWholesale: decimal.RequireFromString("0.30"),
		MarginRetail:    decimal.RequireFromString("1.80"),
		StoneMarkup:     decimal.Zero,
		LaborMarkup:     decimal.Zero,
		Priority:        100,
		IsActive:        true,
	}
}

// IsDefault reports whether the rule has an all-wildcard scope.
func (r *Rule) IsDefault() bool {
	return r.Scope == Scope{}
}

// ActiveAt reports whether the rule is active and inside its validity window.
func (r *Rule) ActiveAt(at time.Time) bool {
	return activeAt(r.IsActive, r.ValidFrom, r.ValidTo, at)
}

// ComponentPrice is one entry of a component price list.
type ComponentPrice struct {
	ID            string          `json:"id"`
	ComponentType ComponentType   `json:"component_type"`
	Quality       *string         `json:"quality,omitempty"`
	Unit          Unit            `json:"unit"`
	PricePerUnit  decimal.Decimal `json:"price_per_unit"`
	IsActive      bool            `json:"is_active"`
	ValidFrom     time.Time       `json:"valid_from"`
	ValidTo       *time.Time      `json:"valid_to,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// ActiveAt reports whether the entry may be used for a calculation at the given time.
func (p *ComponentPrice) ActiveAt(at time.Time) bool {
	return activeAt(p.IsActive, p.ValidFrom, p.ValidTo, at)
}

// TaxRate is a VAT rate for one country.
type TaxRate struct {
	ID          string          `json:"id"`
	CountryCode string          `json:"country_code"`
	Name        string          `json:"name"`
	Rate        decimal.Decimal `json:"rate"`
	IsActive    bool            `json:"is_active"`
	ValidFrom   time.Time       `json:"valid_from"`
	ValidTo     *time.Time      `json:"valid_to,omitempty"`
}

// ActiveAt reports whether the rate is in effect at the given time.
func (t *TaxRate) ActiveAt(at time.Time) bool {
	return activeAt(t.IsActive, t.ValidFrom, t.ValidTo, at)
}

// MetalPrice is one fetch of spot prices, in EUR.
type MetalPrice struct {
	ID            string          `json:"id"`
	GoldPerOz     decimal.Decimal `json:"gold_oz"`
	SilverPerOz   decimal.Decimal `json:"silver_oz"`
	GoldPerGram   decimal.Decimal `json:"gold_g"`
	SilverPerGram decimal.Decimal `json:"silver_g"`
	FetchedAt     time.Time       `json:"fetched_at"`
}

// PerGram returns the per-gram price for the named metal.
func (m *MetalPrice) PerGram(metal string) (decimal.Decimal, bool) {
	switch metal {
	case MetalGold:
		return m.GoldPerGram, m.GoldPerGram.IsPositive()
	case MetalSilver:
		return m.SilverPerGram, m.SilverPerGram.IsPositive()
	}
	return decimal.Zero, false
}

// Category is a product category.
type Category struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Collection is a product collection, optionally nested under a category.
type Collection struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	CategoryID *string   `json:"category_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// ProductComponent is one bill-of-material line of a product.
type ProductComponent struct {
	ID            string           `json:"id"`
	ProductID     string           `json:"product_id"`
	ComponentType ComponentType    `json:"component_type"`
	Quality       *string          `json:"quality,omitempty"`
	Qty           *decimal.Decimal `json:"qty,omitempty"`
	Unit          Unit             `json:"unit"`
	IsActive      bool             `json:"is_active"`
	ValidFrom     time.Time        `json:"valid_from"`
}

// Snapshot is an immutable computed price sheet for one product.
type Snapshot struct {
	ID          string  `json:"id"`
	ProductKey  string  `json:"product_key"`
	ProductID   *string `json:"product_id,omitempty"`
	ProductCode *string `json:"product_code,omitempty"`

	CategoryID   *string `json:"category_id,omitempty"`
	CollectionID *string `json:"collection_id,omitempty"`
	Brand        *string `json:"brand,omitempty"`
	Purity       string  `json:"purity"`
	Metal        string  `json:"metal"`

	Grams             decimal.Decimal `json:"grams"`
	MetalPricePerGram decimal.Decimal `json:"metal_price_per_gram"`
	PurityFactor      decimal.Decimal `json:"purity_factor"`

	MetalCost decimal.Decimal `json:"metal_cost"`
	StoneCost decimal.Decimal `json:"stone_cost"`
	PearlCost decimal.Decimal `json:"pearl_cost"`
	CoralCost decimal.Decimal `json:"coral_cost"`
	OtherCost decimal.Decimal `json:"other_cost"`
	LaborCost decimal.Decimal `json:"labor_cost"`

	RuleID          string          `json:"rule_id"`
	RuleName        string          `json:"rule_name"`
	MarginWholesale decimal.Decimal `json:"margin_wholesale"`
	MarginRetail    decimal.Decimal `json:"margin_retail"`

	NetCost      decimal.Decimal `json:"net_cost"`
	WholesaleNet decimal.Decimal `json:"wholesale_net"`
	RetailNet    decimal.Decimal `json:"retail_net"`
	RetailGross  decimal.Decimal `json:"retail_gross"`

	TaxCountry string          `json:"tax_country"`
	TaxRate    decimal.Decimal `json:"tax_rate"`

	Notes *string        `json:"notes,omitempty"`
	Input CalculateInput `json:"input"`

	IsActive     bool       `json:"is_active"`
	CreatedAt    time.Time  `json:"created_at"`
	SupersededAt *time.Time `json:"superseded_at,omitempty"`
}

func activeAt(isActive bool, from time.Time, to *time.Time, at time.Time) bool {
	if !isActive {
		return false
	}
	if from.After(at) {
		return false
	}
	return to == nil || to.After(at)
}
