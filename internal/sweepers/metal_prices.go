package sweepers

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/cdmasterk/orcafx/internal/metals"
)

// Refresher fetches and stores the latest metal prices.
type Refresher interface {
	Refresh(ctx context.Context, withRecalc bool) (*metals.RefreshResult, error)
}

// MetalPriceSweeper periodically refreshes metal prices
type MetalPriceSweeper struct {
	refresher  Refresher
	logger     *zerolog.Logger
	interval   time.Duration
	withRecalc bool
	stopChan   chan struct{}
	stopOnce   sync.Once
}

// NewMetalPriceSweeper creates a new sweeper. With withRecalc set, every
// refresh also recalculates the current price sheets.
func NewMetalPriceSweeper(refresher Refresher, logger *zerolog.Logger, interval time.Duration, withRecalc bool) *MetalPriceSweeper {
	return &MetalPriceSweeper{
		refresher:  refresher,
		logger:     logger,
		interval:   interval,
		withRecalc: withRecalc,
		stopChan:   make(chan struct{}),
	}
}

// Start runs the refresh loop until ctx is cancelled or Stop is called
func (s *MetalPriceSweeper) Start(ctx context.Context) {
	s.logger.Info().
		Dur("interval", s.interval).
		Bool("recalc", s.withRecalc).
		Msg("Starting metal price sweeper")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("Metal price sweeper stopping (context cancelled)")
			return
		case <-s.stopChan:
			s.logger.Info().Msg("Metal price sweeper stopping (stop signal)")
			return
		case <-ticker.C:
			s.RefreshOnce(ctx)
		}
	}
}

// Stop signals the sweeper to stop
func (s *MetalPriceSweeper) Stop() {
	s.stopOnce.Do(func() { close(s.stopChan) })
}

// RefreshOnce runs one refresh and logs the outcome.
func (s *MetalPriceSweeper) RefreshOnce(ctx context.Context) {
	s.logger.Debug().Msg("Running metal price refresh")

	result, err := s.refresher.Refresh(ctx, s.withRecalc)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to refresh metal prices")
		return
	}

	if result.Recalc != nil {
		s.logger.Info().
			Str("run_id", result.Recalc.RunID).
			Int("recalculated", result.Recalc.Succeeded).
			Int("failed", len(result.Recalc.Failed)).
			Msg("Recalculated prices after metal refresh")
	}
}
