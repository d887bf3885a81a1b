package order

import "context"

// Repository defines data access for orders.
type Repository interface {
	// CreateOrder persists a new order and its lines atomically.
	CreateOrder(ctx context.Context, o *Order) error

	// GetOrderByNumber retrieves an order with its lines by its human-readable number.
	GetOrderByNumber(ctx context.Context, orderNumber string) (*Order, error)

	// ListRecent returns the newest orders first, without lines.
	ListRecent(ctx context.Context, limit int) ([]*Order, error)

	// UpdateStatus advances an order to a new status.
	UpdateStatus(ctx context.Context, orderNumber string, status OrderStatus) error
}
