// Package handlers implements the pricing HTTP API on gin.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cdmasterk/orcafx/internal/metals"
	"github.com/cdmasterk/orcafx/internal/pricing"
	"github.com/cdmasterk/orcafx/internal/recalc"
)

// Store is the persistence the handlers read and manage reference data through.
type Store interface {
	ListRules(ctx context.Context, includeInactive bool) ([]pricing.Rule, error)
	CreateRule(ctx context.Context, r *pricing.Rule) error
	DeactivateRule(ctx context.Context, id string) error

	ListComponentPrices(ctx context.Context, componentType *pricing.ComponentType, includeInactive bool) ([]pricing.ComponentPrice, error)
	CreateComponentPrice(ctx context.Context, p *pricing.ComponentPrice) error
	DeactivateComponentPrice(ctx context.Context, id string) error
	ComponentQualities(ctx context.Context, componentType pricing.ComponentType) ([]string, error)

	ListTaxRates(ctx context.Context, includeInactive bool) ([]pricing.TaxRate, error)
	CreateTaxRate(ctx context.Context, t *pricing.TaxRate) error
	DeactivateTaxRate(ctx context.Context, id string) error

	ListCategories(ctx context.Context) ([]pricing.Category, error)
	CreateCategory(ctx context.Context, c *pricing.Category) error
	DeleteCategory(ctx context.Context, id string) error
	ListCollections(ctx context.Context) ([]pricing.Collection, error)
	CreateCollection(ctx context.Context, c *pricing.Collection) error
	DeleteCollection(ctx context.Context, id string) error

	CurrentSnapshot(ctx context.Context, productKey string) (*pricing.Snapshot, error)
	ActiveSnapshots(ctx context.Context) ([]pricing.Snapshot, error)
	SnapshotHistory(ctx context.Context, productKey string) ([]pricing.Snapshot, error)
	SnapshotAt(ctx context.Context, productKey string, at time.Time) (*pricing.Snapshot, error)
	SearchCurrent(ctx context.Context, query string, limit int) ([]pricing.Snapshot, error)

	LatestMetalPrice(ctx context.Context) (*pricing.MetalPrice, error)
	LatestRecalcLog(ctx context.Context) (*pricing.RecalcLog, error)
}

// Calculator prices products.
type Calculator interface {
	Calculate(ctx context.Context, in pricing.CalculateInput) (*pricing.Result, error)
	Quote(ctx context.Context, in pricing.CalculateInput) (*pricing.Result, error)
	Preview(ctx context.Context, attrs pricing.Attributes) (pricing.PreviewResult, error)
}

// Recalculator runs mass recalculations.
type Recalculator interface {
	Run(ctx context.Context, inputs []pricing.CalculateInput, triggeredBy string) (*recalc.Report, error)
	RunAll(ctx context.Context, triggeredBy string) (*recalc.Report, error)
}

// MetalRefresher fetches and stores spot metal prices.
type MetalRefresher interface {
	Refresh(ctx context.Context, withRecalc bool) (*metals.RefreshResult, error)
}

// TriggeredByAPI names recalculation runs started over HTTP.
const TriggeredByAPI = "api"

var (
	store          Store
	calculator     Calculator
	recalcRunner   Recalculator
	metalRefresher MetalRefresher
)

// InitPricing sets the dependencies the pricing handlers use. refresher may
// be nil when no metal price feed is configured.
func InitPricing(s Store, calc Calculator, runner Recalculator, refresher MetalRefresher) {
	store = s
	calculator = calc
	recalcRunner = runner
	metalRefresher = refresher
}

// statusFor maps an error to the HTTP status it is reported with.
func statusFor(err error) int {
	var (
		invalid   *pricing.InputValidationError
		noRule    *pricing.NoApplicableRuleError
		noTaxRate *pricing.TaxRateNotFoundError
	)
	switch {
	case errors.As(err, &invalid):
		return http.StatusBadRequest
	case errors.As(err, &noRule), errors.As(err, &noTaxRate):
		return http.StatusUnprocessableEntity
	case errors.Is(err, pricing.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, metals.ErrMissingAPIKey):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

// respondError writes err as {"error": "..."} with its mapped status. Server
// errors are attached to the context so the request logger records them.
func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}

func badRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": msg})
}
