package order

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"
)

type memoryRepo struct {
	mu     sync.RWMutex
	orders []*Order
}

// NewMemoryRepository keeps orders in process. Used by tests and the
// terminal storefront.
func NewMemoryRepository() Repository { return &memoryRepo{} }

func cloneOrder(o *Order, withLines bool) *Order {
	c := *o
	c.Lines = nil
	if withLines {
		for _, l := range o.Lines {
			lc := *l
			c.Lines = append(c.Lines, &lc)
		}
	}
	return &c
}

func (r *memoryRepo) CreateOrder(_ context.Context, o *Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.orders {
		if existing.OrderNumber == o.OrderNumber {
			return fmt.Errorf("insert order: duplicate order number %s", o.OrderNumber)
		}
	}
	r.orders = append(r.orders, cloneOrder(o, true))
	return nil
}

func (r *memoryRepo) GetOrderByNumber(_ context.Context, orderNumber string) (*Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, o := range r.orders {
		if o.OrderNumber == orderNumber {
			return cloneOrder(o, true), nil
		}
	}
	return nil, ErrNotFound
}

func (r *memoryRepo) ListRecent(_ context.Context, limit int) ([]*Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Order, 0, min(limit, len(r.orders)))
	for _, o := range slices.Backward(r.orders) {
		if len(out) == limit {
			break
		}
		out = append(out, cloneOrder(o, false))
	}
	return out, nil
}

func (r *memoryRepo) UpdateStatus(_ context.Context, orderNumber string, status OrderStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.orders {
		if o.OrderNumber == orderNumber {
			o.Status = status
			o.UpdatedAt = time.Now().UTC()
			return nil
		}
	}
	return ErrNotFound
}
