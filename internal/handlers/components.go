package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/cdmasterk/orcafx/internal/excel"
	"github.com/cdmasterk/orcafx/internal/pricing"
)

// maxImportSize bounds uploaded component workbooks.
const maxImportSize = 10 << 20

// ListComponentPricesQuery filters the component price list.
type ListComponentPricesQuery struct {
	Type            string `form:"type"`
	IncludeInactive bool   `form:"include_inactive"`
}

// CreateComponentPriceRequest adds a component price list entry.
type CreateComponentPriceRequest struct {
	ComponentType pricing.ComponentType `json:"component_type" binding:"required"`
	Quality       *string               `json:"quality,omitempty"`
	Unit          pricing.Unit          `json:"unit,omitempty"`
	PricePerUnit  decimal.Decimal       `json:"price_per_unit"`
	ValidFrom     *time.Time            `json:"valid_from,omitempty"`
	ValidTo       *time.Time            `json:"valid_to,omitempty"`
}

// ComponentPrice validates the request and builds the entry.
func (r CreateComponentPriceRequest) ComponentPrice() (pricing.ComponentPrice, error) {
	p := pricing.ComponentPrice{
		ComponentType: pricing.ComponentType(pricing.FoldKey(string(r.ComponentType))),
		Quality:       pricing.NormalizeLabel(r.Quality),
		Unit:          pricing.Unit(pricing.FoldKey(string(r.Unit))),
		PricePerUnit:  r.PricePerUnit,
		ValidTo:       r.ValidTo,
	}
	if !p.ComponentType.Valid() {
		return p, &pricing.InputValidationError{Field: "component_type", Reason: fmt.Sprintf("unknown component type %q", r.ComponentType)}
	}
	if p.Unit == "" {
		p.Unit = pricing.UnitPieces
	}
	if !p.Unit.Valid() {
		return p, &pricing.InputValidationError{Field: "unit", Reason: fmt.Sprintf("unknown unit %q", r.Unit)}
	}
	if p.PricePerUnit.IsNegative() {
		return p, &pricing.InputValidationError{Field: "price_per_unit", Reason: "must not be negative"}
	}
	if r.ValidFrom != nil {
		p.ValidFrom = *r.ValidFrom
	}
	return p, nil
}

// ImportComponentsResponse reports a workbook import.
type ImportComponentsResponse struct {
	Imported int                      `json:"imported"`
	Prices   []ComponentPriceResponse `json:"prices"`
	Errors   []excel.RowError         `json:"errors"`
}

func componentTypeParam(raw string) (*pricing.ComponentType, error) {
	if raw == "" {
		return nil, nil
	}
	t := pricing.ComponentType(pricing.FoldKey(raw))
	if !t.Valid() {
		return nil, &pricing.InputValidationError{Field: "type", Reason: fmt.Sprintf("unknown component type %q", raw)}
	}
	return &t, nil
}

// ListComponentPrices returns component price list entries
// @Summary List component prices
// @Tags components
// @Produce json
// @Param type query string false "Component type" Enums(diamond, pearl, coral, other)
// @Param include_inactive query bool false "Include deactivated entries"
// @Success 200 {array} ComponentPriceResponse
// @Failure 400 {object} map[string]string "Bad request"
// @Router /internal/components [get]
func ListComponentPrices(c *gin.Context) {
	var q ListComponentPricesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err.Error())
		return
	}
	componentType, err := componentTypeParam(q.Type)
	if err != nil {
		respondError(c, err)
		return
	}
	prices, err := store.ListComponentPrices(c.Request.Context(), componentType, q.IncludeInactive)
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]ComponentPriceResponse, 0, len(prices))
	for i := range prices {
		out = append(out, newComponentPriceResponse(&prices[i]))
	}
	c.JSON(http.StatusOK, out)
}

// CreateComponentPrice adds a component price list entry
// @Summary Create component price
// @Tags components
// @Accept json
// @Produce json
// @Param price body CreateComponentPriceRequest true "Price list entry"
// @Success 201 {object} ComponentPriceResponse
// @Failure 400 {object} map[string]string "Bad request"
// @Router /internal/components [post]
func CreateComponentPrice(c *gin.Context) {
	var req CreateComponentPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}
	p, err := req.ComponentPrice()
	if err != nil {
		respondError(c, err)
		return
	}
	if err := store.CreateComponentPrice(c.Request.Context(), &p); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newComponentPriceResponse(&p))
}

// DeactivateComponentPrice retires a component price list entry
// @Summary Deactivate component price
// @Tags components
// @Param id path string true "Entry ID"
// @Success 204
// @Failure 404 {object} map[string]string "Not found"
// @Router /internal/components/{id} [delete]
func DeactivateComponentPrice(c *gin.Context) {
	if err := store.DeactivateComponentPrice(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListComponentQualities returns the distinct qualities with an active price
// @Summary List component qualities
// @Tags components
// @Produce json
// @Param type query string true "Component type" Enums(diamond, pearl, coral, other)
// @Success 200 {array} string
// @Failure 400 {object} map[string]string "Bad request"
// @Router /internal/components/qualities [get]
func ListComponentQualities(c *gin.Context) {
	componentType, err := componentTypeParam(c.Query("type"))
	if err != nil {
		respondError(c, err)
		return
	}
	if componentType == nil {
		badRequest(c, "type is required")
		return
	}
	qualities, err := store.ComponentQualities(c.Request.Context(), *componentType)
	if err != nil {
		respondError(c, err)
		return
	}
	if qualities == nil {
		qualities = []string{}
	}
	c.JSON(http.StatusOK, qualities)
}

// ImportComponentPrices loads price list entries from an uploaded workbook
// @Summary Import component prices
// @Description Reads an xlsx workbook or a CSV export with component_type, quality, unit and price_per_unit columns. Bad rows are reported and skipped.
// @Tags components
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "xlsx workbook or csv file"
// @Success 200 {object} ImportComponentsResponse
// @Failure 400 {object} map[string]string "Bad request"
// @Router /internal/components/import [post]
func ImportComponentPrices(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		badRequest(c, "file is required")
		return
	}
	if header.Size > maxImportSize {
		badRequest(c, fmt.Sprintf("file is larger than %d bytes", maxImportSize))
		return
	}
	f, err := header.Open()
	if err != nil {
		respondError(c, fmt.Errorf("failed to open upload: %w", err))
		return
	}
	defer f.Close()

	parsed, err := excel.ParseComponentPriceFile(header.Filename, f)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	ctx := c.Request.Context()
	resp := ImportComponentsResponse{
		Prices: make([]ComponentPriceResponse, 0, len(parsed.Prices)),
		Errors: parsed.Errors,
	}
	for i := range parsed.Prices {
		p := parsed.Prices[i]
		if err := store.CreateComponentPrice(ctx, &p); err != nil {
			respondError(c, err)
			return
		}
		resp.Prices = append(resp.Prices, newComponentPriceResponse(&p))
	}
	resp.Imported = len(resp.Prices)
	if resp.Errors == nil {
		resp.Errors = []excel.RowError{}
	}
	c.JSON(http.StatusOK, resp)
}
