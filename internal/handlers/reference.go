package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/cdmasterk/orcafx/internal/pricing"
)

// CreateTaxRateRequest adds a VAT rate for a country.
type CreateTaxRateRequest struct {
	CountryCode string          `json:"country_code" binding:"required,len=2"`
	Name        string          `json:"name" binding:"required"`
	Rate        decimal.Decimal `json:"rate"`
	ValidFrom   *time.Time      `json:"valid_from,omitempty"`
	ValidTo     *time.Time      `json:"valid_to,omitempty"`
}

// CreateCategoryRequest adds a product category.
type CreateCategoryRequest struct {
	Name string `json:"name" binding:"required"`
}

// CreateCollectionRequest adds a product collection.
type CreateCollectionRequest struct {
	Name       string  `json:"name" binding:"required"`
	CategoryID *string `json:"category_id,omitempty"`
}

// ListTaxRates returns tax rates
// @Summary List tax rates
// @Tags reference
// @Produce json
// @Param include_inactive query bool false "Include deactivated rates"
// @Success 200 {array} pricing.TaxRate
// @Router /internal/tax-rates [get]
func ListTaxRates(c *gin.Context) {
	var q ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err.Error())
		return
	}
	rates, err := store.ListTaxRates(c.Request.Context(), q.IncludeInactive)
	if err != nil {
		respondError(c, err)
		return
	}
	if rates == nil {
		rates = []pricing.TaxRate{}
	}
	c.JSON(http.StatusOK, rates)
}

// CreateTaxRate adds a tax rate
// @Summary Create tax rate
// @Tags reference
// @Accept json
// @Produce json
// @Param rate body CreateTaxRateRequest true "Tax rate"
// @Success 201 {object} pricing.TaxRate
// @Failure 400 {object} map[string]string "Bad request"
// @Router /internal/tax-rates [post]
func CreateTaxRate(c *gin.Context) {
	var req CreateTaxRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}
	if req.Rate.IsNegative() || req.Rate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		respondError(c, &pricing.InputValidationError{Field: "rate", Reason: "must be a fraction between 0 and 1"})
		return
	}
	t := pricing.TaxRate{
		CountryCode: strings.ToUpper(req.CountryCode),
		Name:        req.Name,
		Rate:        req.Rate,
		ValidTo:     req.ValidTo,
	}
	if req.ValidFrom != nil {
		t.ValidFrom = *req.ValidFrom
	}
	if err := store.CreateTaxRate(c.Request.Context(), &t); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, t)
}

// DeactivateTaxRate retires a tax rate
// @Summary Deactivate tax rate
// @Tags reference
// @Param id path string true "Tax rate ID"
// @Success 204
// @Failure 404 {object} map[string]string "Not found"
// @Router /internal/tax-rates/{id} [delete]
func DeactivateTaxRate(c *gin.Context) {
	if err := store.DeactivateTaxRate(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListCategories returns product categories
// @Summary List categories
// @Tags reference
// @Produce json
// @Success 200 {array} pricing.Category
// @Router /internal/categories [get]
func ListCategories(c *gin.Context) {
	categories, err := store.ListCategories(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if categories == nil {
		categories = []pricing.Category{}
	}
	c.JSON(http.StatusOK, categories)
}

// CreateCategory adds a product category
// @Summary Create category
// @Tags reference
// @Accept json
// @Produce json
// @Param category body CreateCategoryRequest true "Category"
// @Success 201 {object} pricing.Category
// @Router /internal/categories [post]
func CreateCategory(c *gin.Context) {
	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}
	category := pricing.Category{Name: strings.TrimSpace(req.Name)}
	if err := store.CreateCategory(c.Request.Context(), &category); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, category)
}

// DeleteCategory removes a product category
// @Summary Delete category
// @Tags reference
// @Param id path string true "Category ID"
// @Success 204
// @Failure 404 {object} map[string]string "Not found"
// @Router /internal/categories/{id} [delete]
func DeleteCategory(c *gin.Context) {
	if err := store.DeleteCategory(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListCollections returns product collections
// @Summary List collections
// @Tags reference
// @Produce json
// @Success 200 {array} pricing.Collection
// @Router /internal/collections [get]
func ListCollections(c *gin.Context) {
	collections, err := store.ListCollections(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if collections == nil {
		collections = []pricing.Collection{}
	}
	c.JSON(http.StatusOK, collections)
}

// CreateCollection adds a product collection
// @Summary Create collection
// @Tags reference
// @Accept json
// @Produce json
// @Param collection body CreateCollectionRequest true "Collection"
// @Success 201 {object} pricing.Collection
// @Router /internal/collections [post]
func CreateCollection(c *gin.Context) {
	var req CreateCollectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}
	collection := pricing.Collection{Name: strings.TrimSpace(req.Name), CategoryID: req.CategoryID}
	if err := store.CreateCollection(c.Request.Context(), &collection); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, collection)
}

// DeleteCollection removes a product collection
// @Summary Delete collection
// @Tags reference
// @Param id path string true "Collection ID"
// @Success 204
// @Failure 404 {object} map[string]string "Not found"
// @Router /internal/collections/{id} [delete]
func DeleteCollection(c *gin.Context) {
	if err := store.DeleteCollection(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
