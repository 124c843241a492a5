package catalog

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/width"
)

// SortKey pairs a display string with the normalized form used for grouping.
// Songs whose keys have equal Sort values share a category.
type SortKey struct {
	Str  string // original value
	Sort string // normalized value
}

// NewSortKey builds a SortKey from a raw attribute value.
func NewSortKey(s string) SortKey {
	return SortKey{Str: s, Sort: Normalize(s)}
}

// Normalize folds case and character width and collapses runs of whitespace.
func Normalize(s string) string {
	s = width.Fold.String(s)
	s = cases.Fold().String(s) // Casers are stateful, never share one
	return strings.Join(strings.Fields(s), " ")
}

func (k SortKey) String() string {
	return k.Str
}

// IsEmpty reports whether the key carries no value.
func (k SortKey) IsEmpty() bool {
	return k.Sort == ""
}
