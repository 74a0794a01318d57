package sweepers_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/cdmasterk/orcafx/internal/metals"
	"github.com/cdmasterk/orcafx/internal/pricing"
	"github.com/cdmasterk/orcafx/internal/sweepers"
)

type countingRefresher struct {
	calls      atomic.Int32
	withRecalc atomic.Bool
	err        error
}

func (r *countingRefresher) Refresh(ctx context.Context, withRecalc bool) (*metals.RefreshResult, error) {
	r.calls.Add(1)
	r.withRecalc.Store(withRecalc)
	if r.err != nil {
		return nil, r.err
	}
	return &metals.RefreshResult{Price: &pricing.MetalPrice{}}, nil
}

func TestMetalPriceSweeperTicks(t *testing.T) {
	logger := zerolog.Nop()
	refresher := &countingRefresher{}
	sweeper := sweepers.NewMetalPriceSweeper(refresher, &logger, 10*time.Millisecond, true)

	done := make(chan struct{})
	go func() {
		sweeper.Start(context.Background())
		close(done)
	}()

	assert.Eventually(t, func() bool { return refresher.calls.Load() >= 2 }, time.Second, 5*time.Millisecond)
	sweeper.Stop()
	sweeper.Stop()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
	assert.True(t, refresher.withRecalc.Load())
}

func TestMetalPriceSweeperStopsOnCancel(t *testing.T) {
	logger := zerolog.Nop()
	refresher := &countingRefresher{err: errors.New("upstream down")}
	sweeper := sweepers.NewMetalPriceSweeper(refresher, &logger, 5*time.Millisecond, false)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sweeper.Start(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool { return refresher.calls.Load() >= 1 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop after cancel")
	}
}
