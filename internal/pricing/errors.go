package pricing

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is wrapped by stores when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// InputValidationError reports a missing or malformed costing input.
type InputValidationError struct {
	Field  string
	Reason string
}

func (e *InputValidationError) Error() string {
	return fmt.Sprintf("invalid input %s: %s", e.Field, e.Reason)
}

func invalid(field, reason string) error {
	return &InputValidationError{Field: field, Reason: reason}
}

// NoApplicableRuleError means no active pricing rule matched. RuleID is set
// when the caller asked for a specific rule that could not be used.
type NoApplicableRuleError struct {
	Attributes Attributes
	RuleID     string
}

func (e *NoApplicableRuleError) Error() string {
	if e.RuleID != "" {
		return fmt.Sprintf("pricing rule %q does not exist or is not active", e.RuleID)
	}
	return fmt.Sprintf("no active pricing rule matches %s and no DEFAULT rule is active; check the pricing rule configuration",
		describeAttributes(e.Attributes))
}

// TaxRateNotFoundError means there is no tax rate in effect for a country.
type TaxRateNotFoundError struct {
	Country string
}

func (e *TaxRateNotFoundError) Error() string {
	return fmt.Sprintf("no active tax rate for country %q", e.Country)
}

// PersistenceError wraps a failed snapshot write. The previously active
// snapshot is left in place.
type PersistenceError struct {
	ProductKey string
	Err        error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to save price sheet for product %q: %v", e.ProductKey, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// ComponentPriceNotFoundWarning is returned alongside a snapshot when a
// component had no active price on file and was costed at zero.
type ComponentPriceNotFoundWarning struct {
	ComponentType ComponentType `json:"component_type"`
	Quality       *string       `json:"quality,omitempty"`
}

// Message describes the missing price for operators.
func (w ComponentPriceNotFoundWarning) Message() string {
	if w.Quality == nil {
		return fmt.Sprintf("no active %s price without a quality grade is on file; cost set to 0", w.ComponentType)
	}
	return fmt.Sprintf("no active %s price for quality %q is on file; cost set to 0", w.ComponentType, *w.Quality)
}

// String implements fmt.Stringer.
func (w ComponentPriceNotFoundWarning) String() string {
	return w.Message()
}

func describeAttributes(a Attributes) string {
	var parts []string
	add := func(name string, v *string) {
		if v != nil {
			parts = append(parts, fmt.Sprintf("%s=%q", name, *v))
		}
	}
	add("category_id", a.CategoryID)
	add("collection_id", a.CollectionID)
	add("collection_name", a.CollectionName)
	add("brand", a.Brand)
	add("purity", a.Purity)
	if len(parts) == 0 {
		return "a product with no taxonomy attributes"
	}
	return strings.Join(parts, ", ")
}
