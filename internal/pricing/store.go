package pricing

import (
	"context"
	"time"
)

// RuleStore provides pricing rules.
type RuleStore interface {
	// ActiveRules returns the rules that may apply at the given time. It may
	// return extra rules; the resolver filters again.
	ActiveRules(ctx context.Context, at time.Time) ([]Rule, error)
	// Rule returns a rule by id, wrapping ErrNotFound if it does not exist.
	Rule(ctx context.Context, id string) (*Rule, error)
}

// ComponentPriceStore provides component price list entries.
type ComponentPriceStore interface {
	// LatestComponentPrice returns the most recently valid active entry for
	// the type and quality at the given time, wrapping ErrNotFound if none.
	// A nil quality matches entries without a quality grade.
	LatestComponentPrice(ctx context.Context, componentType ComponentType, quality *string, at time.Time) (*ComponentPrice, error)
}

// TaxRateStore provides tax rates.
type TaxRateStore interface {
	ActiveTaxRate(ctx context.Context, country string, at time.Time) (*TaxRate, error)
}

// MetalPriceStore provides spot metal prices.
type MetalPriceStore interface {
	LatestMetalPrice(ctx context.Context) (*MetalPrice, error)
}

// TaxonomyStore provides collection reference data.
type TaxonomyStore interface {
	Collection(ctx context.Context, id string) (*Collection, error)
}

// BOMStore provides product bills of material.
type BOMStore interface {
	ProductComponents(ctx context.Context, productID string) ([]ProductComponent, error)
}

// SnapshotStore persists price sheets.
type SnapshotStore interface {
	// Supersede atomically deactivates the active snapshot for the product
	// and inserts snap as the new active one. On error nothing changes.
	Supersede(ctx context.Context, snap *Snapshot) error
	// CurrentSnapshot returns the active snapshot for a product key.
	CurrentSnapshot(ctx context.Context, productKey string) (*Snapshot, error)
	// ActiveSnapshots returns every active snapshot.
	ActiveSnapshots(ctx context.Context) ([]Snapshot, error)
}

// Store is everything the calculator reads from and writes to.
type Store interface {
	RuleStore
	ComponentPriceStore
	TaxRateStore
	MetalPriceStore
	TaxonomyStore
	BOMStore
	SnapshotStore
}
