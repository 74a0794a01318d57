// Package recalc recalculates price sheets in bulk.
package recalc

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/semaphore"

	"github.com/cdmasterk/orcafx/internal/metrics"
	"github.com/cdmasterk/orcafx/internal/pricing"
)

var tracer = otel.Tracer("github.com/cdmasterk/orcafx/internal/recalc")

// Calculator prices and stores one product.
type Calculator interface {
	Calculate(ctx context.Context, in pricing.CalculateInput) (*pricing.Result, error)
}

// Store provides the active price sheets and records each run.
type Store interface {
	ActiveSnapshots(ctx context.Context) ([]pricing.Snapshot, error)
	InsertRecalcLog(ctx context.Context, l *pricing.RecalcLog) error
}

// Report summarizes one recalculation run.
type Report struct {
	RunID       string                                            `json:"run_id"`
	TriggeredBy string                                            `json:"triggered_by"`
	StartedAt   time.Time                                         `json:"started_at"`
	FinishedAt  time.Time                                         `json:"finished_at"`
	Succeeded   int                                               `json:"succeeded"`
	Failed      []pricing.RecalcFailure                           `json:"failed"`
	Warnings    map[string][]pricing.ComponentPriceNotFoundWarning `json:"warnings,omitempty"`
}

// Success reports whether every product was recalculated.
func (r *Report) Success() bool {
	return len(r.Failed) == 0
}

// Log converts the report into its audit record.
func (r *Report) Log() *pricing.RecalcLog {
	return &pricing.RecalcLog{
		RunID:             r.RunID,
		TriggeredAt:       r.StartedAt,
		FinishedAt:        r.FinishedAt,
		TriggeredBy:       r.TriggeredBy,
		Success:           r.Success(),
		RecalculatedCount: r.Succeeded,
		FailedCount:       len(r.Failed),
		Failures:          r.Failed,
	}
}

// Runner recalculates many products, isolating failures per product.
type Runner struct {
	calc        Calculator
	store       Store
	concurrency int
	metrics     *metrics.Recorder
	logger      zerolog.Logger
}

// NewRunner creates a runner. A concurrency below 1 runs products one at a time.
func NewRunner(calc Calculator, store Store, concurrency int, recorder *metrics.Recorder, logger *zerolog.Logger) *Runner {
	if concurrency < 1 {
		concurrency = 1
	}
	l := zerolog.Nop()
	if logger != nil {
		l = logger.With().Str("component", "recalc").Logger()
	}
	return &Runner{
		calc:        calc,
		store:       store,
		concurrency: concurrency,
		metrics:     recorder,
		logger:      l,
	}
}

type outcome struct {
	key      string
	warnings []pricing.ComponentPriceNotFoundWarning
	err      error
}

// Run calculates every input and writes a recalc log row. A failing product
// is recorded in the report and does not stop the others. The returned
// error is set only when the log row could not be written.
func (r *Runner) Run(ctx context.Context, inputs []pricing.CalculateInput, triggeredBy string) (*Report, error) {
	ctx, span := tracer.Start(ctx, "recalc.Run")
	defer span.End()

	report := &Report{
		RunID:       uuid.NewString(),
		TriggeredBy: triggeredBy,
		StartedAt:   time.Now(),
		Failed:      []pricing.RecalcFailure{},
	}
	span.SetAttributes(
		attribute.String("recalc.run_id", report.RunID),
		attribute.Int("recalc.products", len(inputs)),
	)
	r.logger.Info().
		Str("run_id", report.RunID).
		Str("triggered_by", triggeredBy).
		Int("products", len(inputs)).
		Int("concurrency", r.concurrency).
		Msg("Starting price recalculation")

	results := make([]outcome, len(inputs))
	sem := semaphore.NewWeighted(int64(r.concurrency))
	var wg sync.WaitGroup

	for i, in := range inputs {
		results[i].key = in.ProductKey()
		if err := sem.Acquire(ctx, 1); err != nil {
			results[i].err = fmt.Errorf("recalculation cancelled: %w", err)
			continue
		}

		wg.Add(1)
		go func(i int, in pricing.CalculateInput) {
			defer sem.Release(1)
			defer wg.Done()

			res, err := r.calc.Calculate(ctx, in)
			if err != nil {
				results[i].err = err
				return
			}
			results[i].key = res.Snapshot.ProductKey
			results[i].warnings = res.Warnings
		}(i, in)
	}
	wg.Wait()

	for _, res := range results {
		if res.err != nil {
			r.logger.Error().Err(res.err).Str("product_key", res.key).Msg("Price recalculation failed")
			report.Failed = append(report.Failed, pricing.RecalcFailure{ProductKey: res.key, Error: res.err.Error()})
			continue
		}
		report.Succeeded++
		if len(res.warnings) > 0 {
			if report.Warnings == nil {
				report.Warnings = make(map[string][]pricing.ComponentPriceNotFoundWarning)
			}
			report.Warnings[res.key] = res.warnings
		}
	}
	report.FinishedAt = time.Now()

	r.metrics.RecordRecalcRun(report.Success(), report.Succeeded, len(report.Failed))
	r.logger.Info().
		Str("run_id", report.RunID).
		Int("succeeded", report.Succeeded).
		Int("failed", len(report.Failed)).
		Dur("duration", report.FinishedAt.Sub(report.StartedAt)).
		Msg("Price recalculation finished")

	// The audit row is written even when the run itself was cancelled.
	if err := r.store.InsertRecalcLog(context.WithoutCancel(ctx), report.Log()); err != nil {
		return report, fmt.Errorf("failed to write recalc log: %w", err)
	}
	return report, nil
}

// RunAll recalculates every product with an active price sheet from its
// stored input, using the latest metal price instead of the stored one.
func (r *Runner) RunAll(ctx context.Context, triggeredBy string) (*Report, error) {
	snapshots, err := r.store.ActiveSnapshots(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load current price sheets: %w", err)
	}
	return r.Run(ctx, InputsFromSnapshots(snapshots), triggeredBy)
}

// InputsFromSnapshots rebuilds calculation inputs from stored price sheets.
// Gold and silver inputs drop their stored metal price so the latest fetched
// price applies.
func InputsFromSnapshots(snapshots []pricing.Snapshot) []pricing.CalculateInput {
	inputs := make([]pricing.CalculateInput, 0, len(snapshots))
	for _, s := range snapshots {
		in := s.Input
		if in.ProductKey() == "" {
			if s.ProductID != nil {
				in.ProductID = s.ProductID
			} else {
				key := s.ProductKey
				in.ProductCode = &key
			}
		}
		switch pricing.FoldKey(in.Metal) {
		case pricing.MetalGold, pricing.MetalSilver:
			in.MetalPricePerGram = nil
		}
		inputs = append(inputs, in)
	}
	return inputs
}
