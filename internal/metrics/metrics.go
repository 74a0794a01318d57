package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// calculations counts price sheet calculations by outcome.
	calculations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pricing_calculations_total",
		Help: "Total number of price sheet calculations by outcome",
	}, []string{"outcome"}) // outcome: ok, invalid_input, no_rule, no_tax_rate, persistence_error, error

	calculationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "pricing_calculation_duration_seconds",
		Help:    "Time taken to calculate and store a price sheet",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	})

	// componentPriceMissing counts components costed at zero for lack of a price.
	componentPriceMissing = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pricing_component_price_missing_total",
		Help: "Total number of component lookups with no active price on file",
	}, []string{"component_type"})

	ruleResolutions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pricing_rule_resolutions_total",
		Help: "Total number of rule resolutions by matched specificity",
	}, []string{"specificity"})

	recalcRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pricing_recalc_runs_total",
		Help: "Total number of mass recalculation runs",
	}, []string{"success"})

	recalcProducts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pricing_recalc_products_total",
		Help: "Total number of products processed by mass recalculation",
	}, []string{"outcome"}) // outcome: ok, failed

	// metalPricePerGram holds the latest stored spot price per gram in EUR.
	metalPricePerGram = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "pricing_metal_price_per_gram",
		Help: "Latest metal spot price per gram in EUR",
	}, []string{"metal"})
)

// Recorder records pricing metrics. A nil *Recorder is valid and records nothing.
type Recorder struct{}

// NewRecorder creates a new metrics recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// RecordCalculation records a finished calculation.
func (r *Recorder) RecordCalculation(outcome string, duration time.Duration) {
	if r == nil {
		return
	}
	calculations.WithLabelValues(outcome).Inc()
	calculationDuration.Observe(duration.Seconds())
}

// RecordMissingComponentPrice records a component costed at zero.
func (r *Recorder) RecordMissingComponentPrice(componentType string) {
	if r == nil {
		return
	}
	componentPriceMissing.WithLabelValues(componentType).Inc()
}

// RecordRuleResolution records the specificity of a resolved rule.
func (r *Recorder) RecordRuleResolution(specificity int) {
	if r == nil {
		return
	}
	ruleResolutions.WithLabelValues(strconv.Itoa(specificity)).Inc()
}

// RecordRecalcRun records a mass recalculation run.
func (r *Recorder) RecordRecalcRun(success bool, succeeded, failed int) {
	if r == nil {
		return
	}
	recalcRuns.WithLabelValues(strconv.FormatBool(success)).Inc()
	recalcProducts.WithLabelValues("ok").Add(float64(succeeded))
	recalcProducts.WithLabelValues("failed").Add(float64(failed))
}

// RecordMetalPrice records the latest per-gram price of a metal.
func (r *Recorder) RecordMetalPrice(metal string, perGram float64) {
	if r == nil {
		return
	}
	metalPricePerGram.WithLabelValues(metal).Set(perGram)
}
