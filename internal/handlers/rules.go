package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/cdmasterk/orcafx/internal/pricing"
)

// ListQuery filters list endpoints that can include retired rows.
type ListQuery struct {
	IncludeInactive bool `form:"include_inactive"`
}

// CreateRuleRequest creates a pricing rule. Omitted margins and priority
// take the DEFAULT rule values.
type CreateRuleRequest struct {
	Name            string           `json:"name"`
	CategoryID      *string          `json:"category_id,omitempty"`
	CollectionID    *string          `json:"collection_id,omitempty"`
	CollectionName  *string          `json:"collection_name,omitempty"`
	Brand           *string          `json:"brand,omitempty"`
	Purity          *string          `json:"purity,omitempty"`
	MarginWholesale *decimal.Decimal `json:"margin_wholesale,omitempty"`
	MarginRetail    *decimal.Decimal `json:"margin_retail,omitempty"`
	StoneMarkup     *decimal.Decimal `json:"stone_markup,omitempty"`
	LaborMarkup     *decimal.Decimal `json:"labor_markup,omitempty"`
	Priority        *int             `json:"priority,omitempty"`
	ValidFrom       *time.Time       `json:"valid_from,omitempty"`
	ValidTo         *time.Time       `json:"valid_to,omitempty"`
}

// Rule builds the rule the request describes.
func (r CreateRuleRequest) Rule() (pricing.Rule, error) {
	rule := pricing.NewRule()
	if r.Name != "" {
		rule.Name = r.Name
	}
	rule.Scope = pricing.Scope{
		CategoryID:     r.CategoryID,
		CollectionID:   r.CollectionID,
		CollectionName: r.CollectionName,
		Brand:          r.Brand,
		Purity:         r.Purity,
	}.Normalized()

	fractions := []struct {
		field string
		value *decimal.Decimal
		dst   *decimal.Decimal
	}{
		{"margin_wholesale", r.MarginWholesale, &rule.MarginWholesale},
		{"margin_retail", r.MarginRetail, &rule.MarginRetail},
		{"stone_markup", r.StoneMarkup, &rule.StoneMarkup},
		{"labor_markup", r.LaborMarkup, &rule.LaborMarkup},
	}
	for _, f := range fractions {
		if f.value == nil {
			continue
		}
		if f.value.IsNegative() {
			return pricing.Rule{}, &pricing.InputValidationError{Field: f.field, Reason: "must not be negative"}
		}
		*f.dst = *f.value
	}

	if r.Priority != nil {
		rule.Priority = *r.Priority
	}
	if r.ValidFrom != nil {
		rule.ValidFrom = *r.ValidFrom
	}
	if r.ValidTo != nil {
		if r.ValidFrom != nil && !r.ValidTo.After(*r.ValidFrom) {
			return pricing.Rule{}, &pricing.InputValidationError{Field: "valid_to", Reason: "must be after valid_from"}
		}
		rule.ValidTo = r.ValidTo
	}
	return rule, nil
}

// PreviewResponse tells which rule a calculation would use.
type PreviewResponse struct {
	// RuleID is the rule id, or DEFAULT for the wildcard rule.
	RuleID          string             `json:"rule_id" jsonschema:"required"`
	ResolvedRuleID  string             `json:"resolved_rule_id"`
	RuleName        string             `json:"rule_name"`
	Specificity     int                `json:"specificity"`
	IsDefault       bool               `json:"is_default"`
	MarginWholesale string             `json:"margin_wholesale"`
	MarginRetail    string             `json:"margin_retail"`
	StoneMarkup     string             `json:"stone_markup"`
	LaborMarkup     string             `json:"labor_markup"`
	Attributes      pricing.Attributes `json:"attributes"`
}

// ListRules returns pricing rules
// @Summary List pricing rules
// @Tags rules
// @Produce json
// @Param include_inactive query bool false "Include deactivated rules"
// @Success 200 {array} pricing.Rule
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /internal/rules [get]
func ListRules(c *gin.Context) {
	var q ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err.Error())
		return
	}
	rules, err := store.ListRules(c.Request.Context(), q.IncludeInactive)
	if err != nil {
		respondError(c, err)
		return
	}
	if rules == nil {
		rules = []pricing.Rule{}
	}
	c.JSON(http.StatusOK, rules)
}

// CreateRule creates a pricing rule
// @Summary Create pricing rule
// @Tags rules
// @Accept json
// @Produce json
// @Param rule body CreateRuleRequest true "Rule"
// @Success 201 {object} pricing.Rule
// @Failure 400 {object} map[string]string "Bad request"
// @Router /internal/rules [post]
func CreateRule(c *gin.Context) {
	var req CreateRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}
	rule, err := req.Rule()
	if err != nil {
		respondError(c, err)
		return
	}
	if err := store.CreateRule(c.Request.Context(), &rule); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rule)
}

// DeactivateRule retires a pricing rule
// @Summary Deactivate pricing rule
// @Tags rules
// @Param id path string true "Rule ID"
// @Success 204
// @Failure 404 {object} map[string]string "Not found"
// @Router /internal/rules/{id} [delete]
func DeactivateRule(c *gin.Context) {
	if err := store.DeactivateRule(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// PreviewRule reports the rule a calculation with the given attributes would use
// @Summary Preview rule resolution
// @Tags rules
// @Accept json
// @Produce json
// @Param attributes body pricing.Attributes true "Product attributes"
// @Success 200 {object} PreviewResponse
// @Failure 422 {object} map[string]string "No applicable rule"
// @Router /internal/rules/preview [post]
func PreviewRule(c *gin.Context) {
	var attrs pricing.Attributes
	if err := c.ShouldBindJSON(&attrs); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}
	res, err := calculator.Preview(c.Request.Context(), attrs)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, PreviewResponse{
		RuleID:          res.RuleLabel(),
		ResolvedRuleID:  res.Rule.ID,
		RuleName:        res.Rule.Name,
		Specificity:     res.Specificity,
		IsDefault:       res.IsDefault,
		MarginWholesale: res.Rule.MarginWholesale.String(),
		MarginRetail:    res.Rule.MarginRetail.String(),
		StoneMarkup:     res.Rule.StoneMarkup.String(),
		LaborMarkup:     res.Rule.LaborMarkup.String(),
		Attributes:      res.Attributes,
	})
}
