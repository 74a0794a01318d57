package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cdmasterk/orcafx/internal/metals"
	"github.com/cdmasterk/orcafx/internal/pricing"
	"github.com/cdmasterk/orcafx/internal/recalc"
)

// MetalPriceResponse is one stored fetch of spot prices in EUR.
type MetalPriceResponse struct {
	ID            string    `json:"id"`
	GoldPerOz     string    `json:"gold_oz"`
	SilverPerOz   string    `json:"silver_oz"`
	GoldPerGram   string    `json:"gold_g"`
	SilverPerGram string    `json:"silver_g"`
	FetchedAt     time.Time `json:"fetched_at"`
}

func newMetalPriceResponse(m *pricing.MetalPrice) MetalPriceResponse {
	return MetalPriceResponse{
		ID:            m.ID,
		GoldPerOz:     m.GoldPerOz.StringFixed(4),
		SilverPerOz:   m.SilverPerOz.StringFixed(4),
		GoldPerGram:   m.GoldPerGram.StringFixed(4),
		SilverPerGram: m.SilverPerGram.StringFixed(4),
		FetchedAt:     m.FetchedAt,
	}
}

// RefreshMetalsResponse is the outcome of a metal price refresh.
type RefreshMetalsResponse struct {
	Price  MetalPriceResponse `json:"price"`
	Recalc *recalc.Report     `json:"recalc,omitempty"`
	// Error is set when prices were stored but the recalculation failed.
	Error string `json:"error,omitempty"`
}

// GetLatestMetalPrice returns the most recently fetched metal prices
// @Summary Latest metal price
// @Tags metals
// @Produce json
// @Success 200 {object} MetalPriceResponse
// @Failure 404 {object} map[string]string "No metal price fetched yet"
// @Router /internal/metals/latest [get]
func GetLatestMetalPrice(c *gin.Context) {
	m, err := store.LatestMetalPrice(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newMetalPriceResponse(m))
}

// RefreshMetalPrices fetches and stores spot prices, optionally repricing every product
// @Summary Refresh metal prices
// @Tags metals
// @Produce json
// @Param recalc query bool false "Recalculate every current price sheet afterwards"
// @Success 200 {object} RefreshMetalsResponse
// @Failure 503 {object} map[string]string "Metal price feed not configured"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /internal/metals/refresh [post]
func RefreshMetalPrices(c *gin.Context) {
	if metalRefresher == nil {
		respondError(c, metals.ErrMissingAPIKey)
		return
	}
	withRecalc := false
	if raw := c.Query("recalc"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			badRequest(c, "recalc must be a boolean")
			return
		}
		withRecalc = v
	}

	res, err := metalRefresher.Refresh(c.Request.Context(), withRecalc)
	if res == nil {
		if err == nil {
			err = errors.New("metal price refresh returned no result")
		}
		respondError(c, err)
		return
	}
	resp := RefreshMetalsResponse{Price: newMetalPriceResponse(res.Price), Recalc: res.Recalc}
	if err != nil {
		_ = c.Error(err)
		resp.Error = err.Error()
	}
	c.JSON(http.StatusOK, resp)
}

// GetLatestRecalcLog returns the last mass recalculation record
// @Summary Latest recalculation log
// @Tags price-sheets
// @Produce json
// @Success 200 {object} pricing.RecalcLog
// @Failure 404 {object} map[string]string "No recalculation has run"
// @Router /internal/recalc/latest [get]
func GetLatestRecalcLog(c *gin.Context) {
	l, err := store.LatestRecalcLog(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, l)
}
