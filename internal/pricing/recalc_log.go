package pricing

import "time"

// RecalcFailure records one product that failed during mass recalculation.
type RecalcFailure struct {
	ProductKey string `json:"product_key"`
	Error      string `json:"error"`
}

// RecalcLog is the audit record of one mass recalculation run.
type RecalcLog struct {
	ID                string          `json:"id"`
	RunID             string          `json:"run_id"`
	TriggeredAt       time.Time       `json:"triggered_at"`
	FinishedAt        time.Time       `json:"finished_at"`
	TriggeredBy       string          `json:"triggered_by"`
	Success           bool            `json:"success"`
	RecalculatedCount int             `json:"recalculated_count"`
	FailedCount       int             `json:"failed_count"`
	Failures          []RecalcFailure `json:"failures,omitempty"`
}
