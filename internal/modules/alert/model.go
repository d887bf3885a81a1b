// Package alert lets a visitor ask to be told when a product drops to a price.
package alert

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("price alert not found")

// PriceAlert is a visitor's threshold on one product.
type PriceAlert struct {
	ID                     string          `json:"id"`
	ProductID              string          `json:"product_id"`
	ProductName            string          `json:"product_name"`
	CurrentPriceAtCreation decimal.Decimal `json:"current_price_at_creation"`
	DesiredPrice           decimal.Decimal `json:"desired_price"`
	Email                  string          `json:"email,omitempty"`
	CreatedAt              time.Time       `json:"created_at"`
}

// ValidationError names the request field that was rejected.
type ValidationError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (a PriceAlert) valid() bool {
	return a.ID != "" && a.ProductID != "" && a.DesiredPrice.IsPositive()
}
