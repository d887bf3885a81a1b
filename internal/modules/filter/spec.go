// Package filter narrows and orders the catalog for browsing and mirrors the
// chosen criteria into URL query parameters.
package filter

import (
	"fmt"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
)

// SortKey selects the ordering of browse results.
type SortKey string

const (
	SortFeatured  SortKey = "featured"
	SortPriceLow  SortKey = "price-low"
	SortPriceHigh SortKey = "price-high"
	SortNameAsc   SortKey = "name-asc"
	SortNameDesc  SortKey = "name-desc"
)

// SortKeys lists every key in display order.
var SortKeys = []SortKey{SortFeatured, SortPriceLow, SortPriceHigh, SortNameAsc, SortNameDesc}

// Valid reports whether k is a known sort key.
func (k SortKey) Valid() bool { return slices.Contains(SortKeys, k) }

// Spec is the complete set of narrowing and ordering criteria. The zero value
// matches every product in catalog order.
type Spec struct {
	SearchTerm string
	MinPrice   decimal.Decimal
	// MaxPrice is unbounded when not Valid.
	MaxPrice    decimal.NullDecimal
	Categories  []string
	InStockOnly bool
	Sort        SortKey
}

// Normalize trims the search term, turns the categories into a sorted set and
// fills in the default sort key.
func (s Spec) Normalize() Spec {
	s.SearchTerm = strings.TrimSpace(s.SearchTerm)
	s.Categories = categorySet(s.Categories)
	if s.Sort == "" {
		s.Sort = SortFeatured
	}
	return s
}

func categorySet(in []string) []string {
	out := make([]string, 0, len(in))
	for _, c := range in {
		c = strings.TrimSpace(c)
		if c != "" {
			out = append(out, c)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// Equal compares two specs field by field, treating categories as sets.
func (s Spec) Equal(o Spec) bool {
	a, b := s.Normalize(), o.Normalize()
	if a.MaxPrice.Valid != b.MaxPrice.Valid {
		return false
	}
	if a.MaxPrice.Valid && !a.MaxPrice.Decimal.Equal(b.MaxPrice.Decimal) {
		return false
	}
	return a.SearchTerm == b.SearchTerm &&
		a.MinPrice.Equal(b.MinPrice) &&
		slices.Equal(a.Categories, b.Categories) &&
		a.InStockOnly == b.InStockOnly &&
		a.Sort == b.Sort
}

// WithCategory returns a copy of s with category toggled in or out of the set.
func (s Spec) WithCategory(category string) Spec {
	cats := slices.Clone(s.Categories)
	if i := slices.Index(cats, category); i >= 0 {
		cats = slices.Delete(cats, i, i+1)
	} else {
		cats = append(cats, category)
	}
	s.Categories = categorySet(cats)
	return s
}

// ValidationError reports an unusable query parameter.
type ValidationError struct {
	Param string
	Value string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %q", e.Param, e.Value)
}
