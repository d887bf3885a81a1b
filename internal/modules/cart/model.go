package cart

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidQuantity is returned for quantities below one.
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	// ErrLineNotFound is returned when editing a product that is not in the cart.
	ErrLineNotFound = errors.New("product is not in the cart")
)

// Line is one product's aggregated quantity. Name, price and image are
// captured when the product is first added and are not refreshed later.
type Line struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	Image     string          `json:"image,omitempty"`
}

// LineTotal is price times quantity.
func (l Line) LineTotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Summary is the cart as rendered: its lines plus the badge count and total.
type Summary struct {
	Lines []Line          `json:"lines"`
	Count int             `json:"count"`
	Total decimal.Decimal `json:"total"`
}

func summarize(lines []Line) Summary {
	s := Summary{Lines: make([]Line, len(lines)), Total: decimal.Zero}
	copy(s.Lines, lines)
	for _, l := range lines {
		s.Count += l.Quantity
		s.Total = s.Total.Add(l.LineTotal())
	}
	return s
}
