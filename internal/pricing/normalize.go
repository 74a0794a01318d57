package pricing

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// NormalizeLabel trims a label and converts it to Unicode NFC so that
// composed and decomposed forms of the same text compare equal. Blank
// labels become nil.
func NormalizeLabel(s *string) *string {
	if s == nil {
		return nil
	}
	v := norm.NFC.String(strings.TrimSpace(*s))
	if v == "" {
		return nil
	}
	return &v
}

// FoldKey returns a case-folded form of s for keyword lookups such as
// metal names and hallmark labels.
func FoldKey(s string) string {
	return cases.Fold().String(norm.NFC.String(strings.TrimSpace(s)))
}

func (a Attributes) normalized() Attributes {
	return Attributes{
		CategoryID:     NormalizeLabel(a.CategoryID),
		CollectionID:   NormalizeLabel(a.CollectionID),
		CollectionName: NormalizeLabel(a.CollectionName),
		Brand:          NormalizeLabel(a.Brand),
		Purity:         NormalizeLabel(a.Purity),
	}
}

// Normalized returns the scope with every label normalized.
func (s Scope) Normalized() Scope {
	return Scope{
		CategoryID:     NormalizeLabel(s.CategoryID),
		CollectionID:   NormalizeLabel(s.CollectionID),
		CollectionName: NormalizeLabel(s.CollectionName),
		Brand:          NormalizeLabel(s.Brand),
		Purity:         NormalizeLabel(s.Purity),
	}
}
