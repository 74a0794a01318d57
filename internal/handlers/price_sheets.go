package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cdmasterk/orcafx/internal/excel"
	"github.com/cdmasterk/orcafx/internal/pricing"
	"github.com/cdmasterk/orcafx/internal/recalc"
)

// MaxSearchResults caps the current price search.
const MaxSearchResults = 200

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// RecalculateRequest selects the products of a mass recalculation: either
// explicit inputs or every product with a current price sheet.
type RecalculateRequest struct {
	Inputs []pricing.CalculateInput `json:"inputs,omitempty"`
	All    bool                     `json:"all,omitempty"`
}

// SearchCurrentQuery searches current prices by product code or key.
type SearchCurrentQuery struct {
	Q     string `form:"q"`
	Limit int    `form:"limit" binding:"omitempty,min=1,max=200"`
}

// CalculatePriceSheet prices a product and stores the result as its current price sheet
// @Summary Calculate price sheet
// @Description Prices a product and atomically supersedes its current price sheet. Components without a price on file are costed at zero and reported as warnings.
// @Tags price-sheets
// @Accept json
// @Produce json
// @Param input body pricing.CalculateInput true "Costing input"
// @Success 201 {object} CalculateResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 422 {object} map[string]string "No applicable rule or tax rate"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /internal/price-sheets/calculate [post]
func CalculatePriceSheet(c *gin.Context) {
	price(c, true)
}

// QuotePriceSheet prices a product without storing the result
// @Summary Quote price sheet
// @Tags price-sheets
// @Accept json
// @Produce json
// @Param input body pricing.CalculateInput true "Costing input"
// @Success 200 {object} CalculateResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 422 {object} map[string]string "No applicable rule or tax rate"
// @Router /internal/price-sheets/quote [post]
func QuotePriceSheet(c *gin.Context) {
	price(c, false)
}

func price(c *gin.Context, persist bool) {
	var in pricing.CalculateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}

	var (
		res *pricing.Result
		err error
	)
	if persist {
		res, err = calculator.Calculate(c.Request.Context(), in)
	} else {
		res, err = calculator.Quote(c.Request.Context(), in)
	}
	if err != nil {
		respondError(c, err)
		return
	}

	status := http.StatusOK
	if persist {
		status = http.StatusCreated
	}
	c.JSON(status, CalculateResponse{
		Snapshot: NewSnapshotResponse(res.Snapshot),
		Warnings: newWarningResponses(res.Warnings),
		Stored:   persist,
	})
}

// RecalculatePriceSheets reprices many products, isolating failures per product
// @Summary Recalculate price sheets
// @Description Recalculates the given inputs, or with all=true every product with a current price sheet using the latest metal price. A recalc log row is always written.
// @Tags price-sheets
// @Accept json
// @Produce json
// @Param request body RecalculateRequest true "Products to recalculate"
// @Success 200 {object} recalc.Report
// @Failure 400 {object} map[string]string "Bad request"
// @Router /internal/price-sheets/recalculate [post]
func RecalculatePriceSheets(c *gin.Context) {
	var req RecalculateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}
	if req.All == (len(req.Inputs) > 0) {
		badRequest(c, "provide either inputs or all=true")
		return
	}

	var (
		report *recalc.Report
		err    error
	)
	if req.All {
		report, err = recalcRunner.RunAll(c.Request.Context(), TriggeredByAPI)
	} else {
		report, err = recalcRunner.Run(c.Request.Context(), req.Inputs, TriggeredByAPI)
	}
	if report == nil {
		respondError(c, err)
		return
	}
	// The run finished; only its log row failed to write.
	if err != nil {
		_ = c.Error(err)
	}
	c.JSON(http.StatusOK, report)
}

// SearchCurrentPrices lists current price sheets matching a product code or key
// @Summary Search current prices
// @Tags price-sheets
// @Produce json
// @Param q query string false "Substring of product code or key"
// @Param limit query int false "Maximum results" default(200) minimum(1) maximum(200)
// @Success 200 {array} SnapshotResponse
// @Router /internal/price-sheets/current [get]
func SearchCurrentPrices(c *gin.Context) {
	var q SearchCurrentQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err.Error())
		return
	}
	if q.Limit == 0 {
		q.Limit = MaxSearchResults
	}
	snaps, err := store.SearchCurrent(c.Request.Context(), q.Q, q.Limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newSnapshotResponses(snaps))
}

// GetCurrentPrice returns the active price sheet of a product
// @Summary Get current price
// @Tags price-sheets
// @Produce json
// @Param productKey path string true "Product id or code"
// @Success 200 {object} SnapshotResponse
// @Failure 404 {object} map[string]string "Not found"
// @Router /internal/price-sheets/current/{productKey} [get]
func GetCurrentPrice(c *gin.Context) {
	snap, err := store.CurrentSnapshot(c.Request.Context(), c.Param("productKey"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, NewSnapshotResponse(snap))
}

// GetPriceHistory returns every price sheet of a product, newest first
// @Summary Get price history
// @Tags price-sheets
// @Produce json
// @Param productKey path string true "Product id or code"
// @Success 200 {array} SnapshotResponse
// @Router /internal/price-sheets/history/{productKey} [get]
func GetPriceHistory(c *gin.Context) {
	snaps, err := store.SnapshotHistory(c.Request.Context(), c.Param("productKey"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newSnapshotResponses(snaps))
}

// GetPriceAt returns the price sheet that was in effect at a point in time
// @Summary Get price at time
// @Tags price-sheets
// @Produce json
// @Param productKey path string true "Product id or code"
// @Param t query string true "RFC 3339 timestamp"
// @Success 200 {object} SnapshotResponse
// @Failure 400 {object} map[string]string "Bad request"
// @Failure 404 {object} map[string]string "Not found"
// @Router /internal/price-sheets/at/{productKey} [get]
func GetPriceAt(c *gin.Context) {
	raw := c.Query("t")
	if raw == "" {
		badRequest(c, "t is required")
		return
	}
	at, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		badRequest(c, fmt.Sprintf("t must be an RFC 3339 timestamp: %v", err))
		return
	}
	snap, err := store.SnapshotAt(c.Request.Context(), c.Param("productKey"), at)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, NewSnapshotResponse(snap))
}

// ExportCurrentPrices downloads current prices as a workbook
// @Summary Export current prices
// @Tags price-sheets
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param q query string false "Substring of product code or key; without it every current price is exported"
// @Success 200 {file} file
// @Router /internal/price-sheets/export [get]
func ExportCurrentPrices(c *gin.Context) {
	var (
		snaps []pricing.Snapshot
		err   error
	)
	if q := c.Query("q"); q != "" {
		snaps, err = store.SearchCurrent(c.Request.Context(), q, MaxSearchResults)
	} else {
		snaps, err = store.ActiveSnapshots(c.Request.Context())
	}
	if err != nil {
		respondError(c, err)
		return
	}
	var buf bytes.Buffer
	if err := excel.WriteCurrentPrices(&buf, snaps); err != nil {
		respondError(c, err)
		return
	}
	filename := fmt.Sprintf("current-prices-%s.xlsx", time.Now().UTC().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
