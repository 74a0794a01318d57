package metals

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/cdmasterk/orcafx/internal/metrics"
	"github.com/cdmasterk/orcafx/internal/pricing"
	"github.com/cdmasterk/orcafx/internal/recalc"
)

// TriggeredBy names recalculation runs started by a metal price refresh.
const TriggeredBy = "metal-refresh"

// Fetcher returns the latest spot prices.
type Fetcher interface {
	FetchLatest(ctx context.Context) (*pricing.MetalPrice, error)
}

// Store persists fetched prices.
type Store interface {
	InsertMetalPrice(ctx context.Context, m *pricing.MetalPrice) error
}

// Recalculator reprices every product with a current price sheet.
type Recalculator interface {
	RunAll(ctx context.Context, triggeredBy string) (*recalc.Report, error)
}

// RefreshResult is the outcome of one refresh.
type RefreshResult struct {
	Price  *pricing.MetalPrice `json:"price"`
	Recalc *recalc.Report      `json:"recalc,omitempty"`
}

// Service fetches and stores metal prices, optionally repricing products.
type Service struct {
	fetcher Fetcher
	store   Store
	recalc  Recalculator
	metrics *metrics.Recorder
	logger  zerolog.Logger
}

// NewService creates a service. recalculator may be nil when refreshes
// never trigger a recalculation.
func NewService(fetcher Fetcher, store Store, recalculator Recalculator, recorder *metrics.Recorder, logger *zerolog.Logger) *Service {
	l := zerolog.Nop()
	if logger != nil {
		l = logger.With().Str("component", "metals").Logger()
	}
	return &Service{
		fetcher: fetcher,
		store:   store,
		recalc:  recalculator,
		metrics: recorder,
		logger:  l,
	}
}

// Refresh fetches the latest prices and stores them. With withRecalc set,
// every current price sheet is then recalculated against the new price.
func (s *Service) Refresh(ctx context.Context, withRecalc bool) (*RefreshResult, error) {
	price, err := s.fetcher.FetchLatest(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.store.InsertMetalPrice(ctx, price); err != nil {
		return nil, fmt.Errorf("failed to store metal price: %w", err)
	}

	s.metrics.RecordMetalPrice(pricing.MetalGold, price.GoldPerGram.InexactFloat64())
	s.metrics.RecordMetalPrice(pricing.MetalSilver, price.SilverPerGram.InexactFloat64())
	s.logger.Info().
		Str("gold_g", price.GoldPerGram.String()).
		Str("silver_g", price.SilverPerGram.String()).
		Msg("Metal prices refreshed")

	result := &RefreshResult{Price: price}
	if !withRecalc || s.recalc == nil {
		return result, nil
	}

	report, err := s.recalc.RunAll(ctx, TriggeredBy)
	if err != nil {
		return result, fmt.Errorf("metal prices stored but recalculation failed: %w", err)
	}
	result.Recalc = report
	return result, nil
}
