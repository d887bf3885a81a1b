package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// SampleProducts is the starter wholesale catalog used by demo mode and the
// seed command.
func SampleProducts(currency string) []*Product {
	base := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	mk := func(i int, id, name, category, desc string, price int64, stock int) *Product {
		at := base.Add(time.Duration(i) * time.Minute)
		return &Product{
			ID:          id,
			Name:        name,
			Description: desc,
			Category:    category,
			Price:       decimal.NewFromInt(price),
			Currency:    currency,
			Stock:       stock,
			Images:      []string{"/images/products/" + id + ".jpg"},
			CreatedAt:   at,
			UpdatedAt:   at,
		}
	}
	return []*Product{
		mk(0, "rice-25kg", "Pishori Rice 25kg", "Grains", "Aromatic long-grain rice, wholesale sack", 1250, 40),
		mk(1, "sugar-50kg", "Brown Sugar 50kg", "Baking", "Bulk brown sugar for bakeries and retailers", 3200, 12),
		mk(2, "oil-20l", "Sunflower Cooking Oil 20L", "Oils", "Refined sunflower oil jerrycan", 4100, 25),
		mk(3, "flour-24kg", "Maize Flour 24kg Bale", "Grains", "Sifted maize meal, 12 x 2kg packs", 1480, 0),
		mk(4, "beans-90kg", "Rosecoco Beans 90kg", "Pulses", "Sorted dry beans, export grade", 9800, 6),
		mk(5, "salt-20kg", "Iodised Salt 20kg", "Baking", "Fine table salt bale", 620, 100),
		mk(6, "tea-5kg", "Black Tea Dust 5kg", "Beverages", "Strong CTC tea dust for catering", 2150, 18),
		mk(7, "soap-carton", "Bar Soap Carton", "Household", "Carton of 40 multipurpose bar soaps", 1890, 0),
	}
}

// Seed inserts products that are not present yet.
func Seed(ctx context.Context, repo Repository, products []*Product) (int, error) {
	inserted := 0
	for _, p := range products {
		_, err := repo.GetByID(ctx, p.ID)
		if err == nil {
			continue
		}
		if !errors.Is(err, ErrNotFound) {
			return inserted, err
		}
		if err := repo.Create(ctx, p); err != nil {
			return inserted, err
		}
		inserted++
	}
	return inserted, nil
}
