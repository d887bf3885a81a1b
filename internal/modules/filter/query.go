package filter

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Query parameter names.
const (
	ParamSearch     = "q"
	ParamMinPrice   = "min_price"
	ParamMaxPrice   = "max_price"
	ParamCategories = "categories"
	ParamInStock    = "in_stock"
	ParamSort       = "sort"
)

// SerializeToQuery encodes spec as a query string without the leading '?'.
// Default values are omitted, so the zero spec encodes to "". Categories are
// comma-joined in sorted order; an empty set produces no parameter.
func SerializeToQuery(spec Spec) string {
	spec = spec.Normalize()
	v := url.Values{}
	if spec.SearchTerm != "" {
		v.Set(ParamSearch, spec.SearchTerm)
	}
	if !spec.MinPrice.IsZero() {
		v.Set(ParamMinPrice, spec.MinPrice.String())
	}
	if spec.MaxPrice.Valid {
		v.Set(ParamMaxPrice, spec.MaxPrice.Decimal.String())
	}
	if len(spec.Categories) > 0 {
		v.Set(ParamCategories, strings.Join(spec.Categories, ","))
	}
	if spec.InStockOnly {
		v.Set(ParamInStock, "true")
	}
	if spec.Sort != SortFeatured {
		v.Set(ParamSort, string(spec.Sort))
	}
	return v.Encode()
}

// ParseFromQuery decodes a query string (with or without the leading '?').
// Absent parameters take their defaults; malformed ones are rejected with a
// *ValidationError.
func ParseFromQuery(query string) (Spec, error) {
	v, err := url.ParseQuery(strings.TrimPrefix(query, "?"))
	if err != nil {
		return Spec{}, &ValidationError{Param: "query", Value: query}
	}
	return FromValues(v)
}

// FromValues decodes already-parsed query parameters.
func FromValues(v url.Values) (Spec, error) {
	spec := Spec{SearchTerm: v.Get(ParamSearch), Sort: SortFeatured}

	if raw := v.Get(ParamMinPrice); raw != "" {
		d, err := decimal.NewFromString(raw)
		if err != nil || d.IsNegative() {
			return Spec{}, &ValidationError{Param: ParamMinPrice, Value: raw}
		}
		spec.MinPrice = d
	}
	if raw := v.Get(ParamMaxPrice); raw != "" {
		d, err := decimal.NewFromString(raw)
		if err != nil || d.IsNegative() {
			return Spec{}, &ValidationError{Param: ParamMaxPrice, Value: raw}
		}
		spec.MaxPrice = decimal.NewNullDecimal(d)
	}
	if raw := v.Get(ParamCategories); raw != "" {
		spec.Categories = strings.Split(raw, ",")
	}
	if raw := v.Get(ParamInStock); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return Spec{}, &ValidationError{Param: ParamInStock, Value: raw}
		}
		spec.InStockOnly = b
	}
	if raw := v.Get(ParamSort); raw != "" {
		k := SortKey(raw)
		if !k.Valid() {
			return Spec{}, &ValidationError{Param: ParamSort, Value: raw}
		}
		spec.Sort = k
	}
	return spec.Normalize(), nil
}
