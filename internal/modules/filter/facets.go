package filter

import (
	"slices"

	"github.com/shopspring/decimal"

	"github.com/georgemunganga/storefront/internal/modules/catalog"
)

// Facets summarises a product list for building filter controls.
type Facets struct {
	Availability Availability `json:"availability"`
	Categories   []string     `json:"categories"`
	PriceRange   *PriceRange  `json:"price_range,omitempty"`
}

// Availability counts products with and without stock.
type Availability struct {
	InStock    int `json:"in_stock"`
	OutOfStock int `json:"out_of_stock"`
}

// PriceRange is the cheapest and dearest price in the list.
type PriceRange struct {
	Min decimal.Decimal `json:"min"`
	Max decimal.Decimal `json:"max"`
}

// ComputeFacets derives the filter controls for products. PriceRange is nil
// for an empty list.
func ComputeFacets(products []*catalog.Product) Facets {
	f := Facets{Categories: []string{}}
	for i, p := range products {
		if p.InStock() {
			f.Availability.InStock++
		} else {
			f.Availability.OutOfStock++
		}
		if !slices.Contains(f.Categories, p.Category) {
			f.Categories = append(f.Categories, p.Category)
		}
		if i == 0 {
			f.PriceRange = &PriceRange{Min: p.Price, Max: p.Price}
			continue
		}
		f.PriceRange.Min = decimal.Min(f.PriceRange.Min, p.Price)
		f.PriceRange.Max = decimal.Max(f.PriceRange.Max, p.Price)
	}
	slices.Sort(f.Categories)
	return f
}
