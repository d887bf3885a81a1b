package filter

import (
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/georgemunganga/storefront/internal/modules/catalog"
)

// Engine applies specs using the name ordering rules of one locale.
type Engine struct{ tag language.Tag }

// NewEngine returns an engine for a BCP 47 locale, falling back to English
// when the locale does not parse.
func NewEngine(locale string) *Engine {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}
	return &Engine{tag: tag}
}

var defaultEngine = NewEngine("en")

// Apply filters and sorts products with the English collation.
func Apply(products []*catalog.Product, spec Spec) []*catalog.Product {
	return defaultEngine.Apply(products, spec)
}

// Apply returns the products matching every predicate of spec, ordered by its
// sort key. The input slice is not modified. Sorting is stable, so products
// that compare equal keep their catalog order.
func (e *Engine) Apply(products []*catalog.Product, spec Spec) []*catalog.Product {
	spec = spec.Normalize()
	term := strings.ToLower(spec.SearchTerm)

	out := make([]*catalog.Product, 0, len(products))
	for _, p := range products {
		if matches(p, spec, term) {
			out = append(out, p)
		}
	}

	switch spec.Sort {
	case SortPriceLow:
		slices.SortStableFunc(out, func(a, b *catalog.Product) int { return a.Price.Cmp(b.Price) })
	case SortPriceHigh:
		slices.SortStableFunc(out, func(a, b *catalog.Product) int { return b.Price.Cmp(a.Price) })
	case SortNameAsc, SortNameDesc:
		// Collators keep scratch buffers; one per call keeps Apply safe for
		// concurrent use.
		col := collate.New(e.tag, collate.IgnoreCase)
		desc := spec.Sort == SortNameDesc
		slices.SortStableFunc(out, func(a, b *catalog.Product) int {
			if desc {
				return col.CompareString(b.Name, a.Name)
			}
			return col.CompareString(a.Name, b.Name)
		})
	}
	return out
}

func matches(p *catalog.Product, spec Spec, term string) bool {
	textOK := term == "" ||
		strings.Contains(strings.ToLower(p.Name), term) ||
		strings.Contains(strings.ToLower(p.Description), term) ||
		strings.Contains(strings.ToLower(p.Category), term)
	minOK := p.Price.GreaterThanOrEqual(spec.MinPrice)
	maxOK := !spec.MaxPrice.Valid || p.Price.LessThanOrEqual(spec.MaxPrice.Decimal)
	categoryOK := len(spec.Categories) == 0 || slices.Contains(spec.Categories, p.Category)
	stockOK := !spec.InStockOnly || p.Stock > 0
	return textOK && minOK && maxOK && categoryOK && stockOK
}
