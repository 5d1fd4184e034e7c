package transform

import (
	"slices"
	"sort"
)

// OneHotEncoder maps a categorical value to one indicator per known category.
// Categories are kept sorted; values not seen at fit time match nothing.
type OneHotEncoder struct {
	Categories []string
}

// FitEncoder builds the sorted vocabulary of the distinct values.
func FitEncoder(values []string) OneHotEncoder {
	cats := slices.Clone(values)
	sort.Strings(cats)
	return OneHotEncoder{Categories: slices.Compact(cats)}
}

// Index returns the indicator position of v, or false when v is unknown.
func (e OneHotEncoder) Index(v string) (int, bool) {
	i := sort.SearchStrings(e.Categories, v)
	if i < len(e.Categories) && e.Categories[i] == v {
		return i, true
	}
	return 0, false
}

// Len returns the number of indicator columns.
func (e OneHotEncoder) Len() int {
	return len(e.Categories)
}
