package order

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound  = errors.New("order not found")
	ErrEmptyCart = errors.New("cart is empty")
	ErrNoPhone   = errors.New("no WhatsApp number configured")
)

// OrderStatus is where staff are with an order after it was handed off.
type OrderStatus string

const (
	StatusHandedOff OrderStatus = "HANDED_OFF"
	StatusConfirmed OrderStatus = "CONFIRMED"
	StatusFulfilled OrderStatus = "FULFILLED"
	StatusCancelled OrderStatus = "CANCELLED"
)

// Order records a cart that was sent to the shop over WhatsApp. The shop
// never receives it through this service; the record lets staff match the
// incoming message by its number.
type Order struct {
	ID          string          `json:"id"`
	OrderNumber string          `json:"order_number"`
	SessionID   string          `json:"-"`
	Phone       string          `json:"phone"`
	Status      OrderStatus     `json:"status"`
	Currency    string          `json:"currency"`
	Total       decimal.Decimal `json:"total"`
	Summary     string          `json:"summary"`
	DeepLink    string          `json:"deep_link"`
	Lines       []*Line         `json:"lines,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// Line is a cart line frozen at checkout.
type Line struct {
	ID        string          `json:"id"`
	OrderID   string          `json:"order_id"`
	Position  int             `json:"position"`
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// UpdateStatusRequest is the payload for advancing an order's status.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}
