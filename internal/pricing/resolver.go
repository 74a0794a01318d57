package pricing

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/cdmasterk/orcafx/internal/metrics"
)

var tracer = otel.Tracer("github.com/cdmasterk/orcafx/internal/pricing")

// Match reports whether the scope applies to the attributes and, if so, how
// many scope fields were pinned. The collection counts once whether it was
// matched by id or by legacy name.
func (s Scope) Match(a Attributes) (specificity int, ok bool) {
	fields := []struct{ want, got *string }{
		{s.CategoryID, a.CategoryID},
		{s.Brand, a.Brand},
		{s.Purity, a.Purity},
	}
	switch {
	case s.CollectionID != nil:
		fields = append(fields, struct{ want, got *string }{s.CollectionID, a.CollectionID})
	case s.CollectionName != nil:
		fields = append(fields, struct{ want, got *string }{s.CollectionName, a.CollectionName})
	}

	for _, f := range fields {
		if f.want == nil {
			continue
		}
		if f.got == nil || *f.got != *f.want {
			return 0, false
		}
		specificity++
	}
	return specificity, true
}

// Resolution is the outcome of rule resolution.
type Resolution struct {
	Rule        Rule
	Specificity int
}

// IsDefault reports whether the wildcard rule was chosen.
func (r Resolution) IsDefault() bool {
	return r.Rule.IsDefault()
}

// SelectRule picks the applicable rule from rules. Candidates must be active
// at the given time and match every pinned scope field. The winner has the
// highest specificity, then the lowest priority, then the earliest
// valid_from, then the lowest id.
func SelectRule(rules []Rule, attrs Attributes, at time.Time) (Resolution, bool) {
	attrs = attrs.normalized()

	var candidates []Resolution
	for _, rule := range rules {
		if !rule.ActiveAt(at) {
			continue
		}
		spec, ok := rule.Scope.Normalized().Match(attrs)
		if !ok {
			continue
		}
		candidates = append(candidates, Resolution{Rule: rule, Specificity: spec})
	}
	if len(candidates) == 0 {
		return Resolution{}, false
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.Specificity != b.Specificity {
			return a.Specificity > b.Specificity
		}
		if a.Rule.Priority != b.Rule.Priority {
			return a.Rule.Priority < b.Rule.Priority
		}
		if !a.Rule.ValidFrom.Equal(b.Rule.ValidFrom) {
			return a.Rule.ValidFrom.Before(b.Rule.ValidFrom)
		}
		return a.Rule.ID < b.Rule.ID
	})
	return candidates[0], true
}

// Resolver selects pricing rules from a RuleStore.
type Resolver struct {
	rules   RuleStore
	metrics *metrics.Recorder
}

// NewResolver creates a resolver over the given rule store.
func NewResolver(rules RuleStore, recorder *metrics.Recorder) *Resolver {
	return &Resolver{rules: rules, metrics: recorder}
}

// Resolve returns the rule that applies to attrs at the given time, or a
// NoApplicableRuleError.
func (r *Resolver) Resolve(ctx context.Context, attrs Attributes, at time.Time) (Resolution, error) {
	ctx, span := tracer.Start(ctx, "pricing.Resolve")
	defer span.End()

	rules, err := r.rules.ActiveRules(ctx, at)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "load rules")
		return Resolution{}, fmt.Errorf("failed to load pricing rules: %w", err)
	}

	res, ok := SelectRule(rules, attrs, at)
	if !ok {
		err := &NoApplicableRuleError{Attributes: attrs.normalized()}
		span.SetStatus(codes.Error, err.Error())
		return Resolution{}, err
	}

	span.SetAttributes(
		attribute.String("pricing.rule_id", res.Rule.ID),
		attribute.Int("pricing.specificity", res.Specificity),
	)
	r.metrics.RecordRuleResolution(res.Specificity)
	return res, nil
}
