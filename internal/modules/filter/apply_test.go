package filter

import (
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/georgemunganga/storefront/internal/modules/catalog"
)

func product(id, name, category string, price int64, stock int) *catalog.Product {
	return &catalog.Product{ID: id, Name: name, Category: category, Price: decimal.NewFromInt(price), Stock: stock}
}

func ids(products []*catalog.Product) []string {
	out := make([]string, 0, len(products))
	for _, p := range products {
		out = append(out, p.ID)
	}
	return out
}

func TestApply_PriceRangeAndStock(t *testing.T) {
	products := []*catalog.Product{
		product("1", "Rice", "A", 100, 5),
		product("2", "Sugar", "B", 300, 0),
	}
	got := Apply(products, Spec{
		MinPrice:    decimal.Zero,
		MaxPrice:    decimal.NewNullDecimal(decimal.NewFromInt(200)),
		InStockOnly: true,
	})
	if diff := cmp.Diff([]string{"1"}, ids(got)); diff != "" {
		t.Errorf("Apply() mismatch (-want +got):\n%s", diff)
	}
}

func TestApply_PriceBoundsInclusive(t *testing.T) {
	products := []*catalog.Product{
		product("a", "A", "X", 100, 1),
		product("b", "B", "X", 200, 1),
		product("c", "C", "X", 300, 1),
	}
	got := Apply(products, Spec{
		MinPrice: decimal.NewFromInt(100),
		MaxPrice: decimal.NewNullDecimal(decimal.NewFromInt(200)),
	})
	assert.Equal(t, []string{"a", "b"}, ids(got))

	// Unset max is unbounded.
	got = Apply(products, Spec{MinPrice: decimal.NewFromInt(150)})
	assert.Equal(t, []string{"b", "c"}, ids(got))
}

func TestApply_SearchMatchesNameDescriptionOrCategory(t *testing.T) {
	products := []*catalog.Product{
		{ID: "1", Name: "Pishori RICE", Category: "Grains"},
		{ID: "2", Name: "Beans", Description: "goes well with rice", Category: "Pulses"},
		{ID: "3", Name: "Salt", Category: "Ricettes"},
		{ID: "4", Name: "Tea", Category: "Beverages"},
	}
	got := Apply(products, Spec{SearchTerm: "  Rice "})
	assert.Equal(t, []string{"1", "2", "3"}, ids(got))
}

func TestApply_EmptyCategorySetMatchesAll(t *testing.T) {
	products := catalog.SampleProducts("KES")
	all := Apply(products, Spec{})

	var every []string
	for _, p := range products {
		every = append(every, p.Category)
	}
	explicit := Apply(products, Spec{Categories: every})

	assert.Equal(t, ids(all), ids(explicit))
	assert.Len(t, all, len(products))
}

func TestApply_CategoryFilter(t *testing.T) {
	got := Apply(catalog.SampleProducts("KES"), Spec{Categories: []string{"Oils", "Pulses"}})
	assert.Equal(t, []string{"oil-20l", "beans-90kg"}, ids(got))
}

func TestApply_PriceSortsAreReversedWithoutTies(t *testing.T) {
	products := []*catalog.Product{
		product("m", "M", "X", 500, 1),
		product("l", "L", "X", 100, 1),
		product("h", "H", "X", 900, 1),
	}
	low := ids(Apply(products, Spec{Sort: SortPriceLow}))
	high := ids(Apply(products, Spec{Sort: SortPriceHigh}))

	assert.Equal(t, []string{"l", "m", "h"}, low)
	reversed := slices.Clone(high)
	slices.Reverse(reversed)
	assert.Equal(t, low, reversed)
}

func TestApply_PriceSortIsStable(t *testing.T) {
	products := []*catalog.Product{
		product("t1", "T1", "X", 200, 1),
		product("c", "C", "X", 100, 1),
		product("t2", "T2", "X", 200, 1),
		product("t3", "T3", "X", 200, 1),
	}
	assert.Equal(t, []string{"c", "t1", "t2", "t3"}, ids(Apply(products, Spec{Sort: SortPriceLow})))
	assert.Equal(t, []string{"t1", "t2", "t3", "c"}, ids(Apply(products, Spec{Sort: SortPriceHigh})))
}

func TestApply_NameSortIsLocaleAware(t *testing.T) {
	products := []*catalog.Product{
		product("z", "zucchini", "X", 1, 1),
		product("e", "Éclair", "X", 1, 1),
		product("a", "apple", "X", 1, 1),
		product("b", "Banana", "X", 1, 1),
	}
	assert.Equal(t, []string{"a", "b", "e", "z"}, ids(Apply(products, Spec{Sort: SortNameAsc})))
	assert.Equal(t, []string{"z", "e", "b", "a"}, ids(Apply(products, Spec{Sort: SortNameDesc})))
}

func TestApply_FeaturedKeepsCatalogOrderAndInput(t *testing.T) {
	products := catalog.SampleProducts("KES")
	before := ids(products)
	got := Apply(products, Spec{Sort: SortPriceHigh})
	assert.NotEqual(t, before, ids(got))
	assert.Equal(t, before, ids(products), "input must not be reordered")
	assert.Equal(t, before, ids(Apply(products, Spec{})))
}

func TestComputeFacets(t *testing.T) {
	f := ComputeFacets(catalog.SampleProducts("KES"))
	assert.Equal(t, Availability{InStock: 6, OutOfStock: 2}, f.Availability)
	assert.Equal(t, []string{"Baking", "Beverages", "Grains", "Household", "Oils", "Pulses"}, f.Categories)
	assert.True(t, f.PriceRange.Min.Equal(decimal.NewFromInt(620)))
	assert.True(t, f.PriceRange.Max.Equal(decimal.NewFromInt(9800)))

	empty := ComputeFacets(nil)
	assert.Nil(t, empty.PriceRange)
	assert.Empty(t, empty.Categories)
}
