package pricing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ResolveQuantity applies the quantity defaulting policy. A quality with no
// quantity means exactly one unit. No quality and no (or zero) quantity means
// the component is not used. An explicit quantity is taken as given.
func ResolveQuantity(quality *string, qty *decimal.Decimal) decimal.Decimal {
	if qty == nil {
		if quality != nil {
			return decimal.NewFromInt(1)
		}
		return decimal.Zero
	}
	return *qty
}

// ComponentCoster prices auxiliary components from the price lists.
type ComponentCoster struct {
	prices ComponentPriceStore
}

// NewComponentCoster creates a coster over the given price store.
func NewComponentCoster(prices ComponentPriceStore) *ComponentCoster {
	return &ComponentCoster{prices: prices}
}

// CostFor returns qty × price_per_unit for the most recent active entry of
// (componentType, quality). A missing entry costs zero and yields a warning.
func (c *ComponentCoster) CostFor(ctx context.Context, componentType ComponentType, quality *string, qty *decimal.Decimal, at time.Time) (decimal.Decimal, *ComponentPriceNotFoundWarning, error) {
	quality = NormalizeLabel(quality)
	n := ResolveQuantity(quality, qty)
	if !n.IsPositive() {
		return decimal.Zero, nil, nil
	}

	entry, err := c.prices.LatestComponentPrice(ctx, componentType, quality, at)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return decimal.Zero, &ComponentPriceNotFoundWarning{ComponentType: componentType, Quality: quality}, nil
		}
		return decimal.Zero, nil, fmt.Errorf("failed to look up %s price: %w", componentType, err)
	}
	return n.Mul(entry.PricePerUnit), nil, nil
}
