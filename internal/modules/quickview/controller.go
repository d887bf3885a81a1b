// Package quickview drives the single product detail modal: open, adjust the
// quantity, add to cart, close.
package quickview

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/georgemunganga/storefront/internal/modules/cart"
	"github.com/georgemunganga/storefront/internal/modules/catalog"
	"github.com/georgemunganga/storefront/internal/modules/notify"
)

// State is the modal lifecycle position.
type State string

const (
	StateClosed  State = "closed"
	StateLoading State = "loading"
	StateShown   State = "shown"
	StateError   State = "error"
)

var (
	// ErrStale is returned by Open when the modal was closed or reopened
	// while the product lookup was in flight. The late result is discarded.
	ErrStale = errors.New("quick view superseded")
	// ErrNotShown is returned by operations that need a product on screen.
	ErrNotShown = errors.New("quick view is not showing a product")
	// ErrOutOfStock is returned when adding a product with no stock.
	ErrOutOfStock = errors.New("product is out of stock")
)

// Lookup fetches a product for display.
type Lookup interface {
	GetProduct(ctx context.Context, id string) (*catalog.Product, error)
}

// View is what the modal renders.
type View struct {
	State     State            `json:"state"`
	ProductID string           `json:"product_id,omitempty"`
	Product   *catalog.Product `json:"product,omitempty"`
	Quantity  int              `json:"quantity,omitempty"`
	// MaxQuantity is the stepper's upper bound, the product's stock.
	MaxQuantity int    `json:"max_quantity,omitempty"`
	Error       string `json:"error,omitempty"`
	NotFound    bool   `json:"not_found,omitempty"`
}

// Controller owns one visitor's modal. Only one product is ever open; opening
// another closes the current one first.
type Controller struct {
	lookup     Lookup
	cart       *cart.Store
	toasts     *notify.Emitter
	closeDelay time.Duration
	log        *zap.Logger

	mu         sync.Mutex
	view       View
	token      uint64
	closeTimer *time.Timer
}

// NewController wires a modal to the visitor's cart and toast stack.
// closeDelay is how long the modal lingers after a successful add.
func NewController(lookup Lookup, c *cart.Store, toasts *notify.Emitter, closeDelay time.Duration, log *zap.Logger) *Controller {
	return &Controller{
		lookup:     lookup,
		cart:       c,
		toasts:     toasts,
		closeDelay: closeDelay,
		log:        log,
		view:       View{State: StateClosed},
	}
}

// View returns the current modal state.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view
}

// Open shows productID. The lookup runs without the lock held; if Close or
// another Open happens meanwhile the result is dropped and ErrStale returned.
func (c *Controller) Open(ctx context.Context, productID string) (View, error) {
	c.mu.Lock()
	c.resetLocked()
	token := c.token
	c.view = View{State: StateLoading, ProductID: productID}
	c.mu.Unlock()

	p, err := c.lookup.GetProduct(ctx, productID)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.token != token {
		c.log.Debug("discarding stale quick view lookup", zap.String("product_id", productID))
		return c.view, ErrStale
	}

	switch {
	case errors.Is(err, catalog.ErrNotFound):
		c.view = View{State: StateError, ProductID: productID, NotFound: true, Error: "This product is no longer available."}
	case err != nil:
		c.log.Warn("quick view lookup failed", zap.String("product_id", productID), zap.Error(err))
		c.view = View{State: StateError, ProductID: productID, Error: "Could not load product. Try again."}
	default:
		c.view = View{
			State:       StateShown,
			ProductID:   productID,
			Product:     p,
			Quantity:    1,
			MaxQuantity: p.Stock,
		}
	}
	return c.view, nil
}

// SetQuantity moves the stepper, clamping into [1, stock].
func (c *Controller) SetQuantity(q int) (View, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.view.State != StateShown {
		return c.view, ErrNotShown
	}
	c.view.Quantity = clamp(q, c.view.MaxQuantity)
	return c.view, nil
}

// Step adds delta to the stepper quantity.
func (c *Controller) Step(delta int) (View, error) {
	c.mu.Lock()
	q := c.view.Quantity + delta
	c.mu.Unlock()
	return c.SetQuantity(q)
}

// AddToCart adds the shown product at the stepper quantity, announces it and
// schedules the modal to close after the configured delay.
func (c *Controller) AddToCart(ctx context.Context) (cart.Summary, error) {
	c.mu.Lock()
	if c.view.State != StateShown {
		c.mu.Unlock()
		return c.cart.Summary(), ErrNotShown
	}
	p, qty, token := c.view.Product, c.view.Quantity, c.token
	c.mu.Unlock()

	if !p.InStock() {
		return c.cart.Summary(), ErrOutOfStock
	}
	sum, err := c.cart.Add(ctx, p, qty)
	if err != nil {
		return sum, err
	}
	c.toasts.Emit(notify.LevelSuccess, fmt.Sprintf("Added %d x %s to cart", qty, p.Name))

	c.mu.Lock()
	if c.token == token {
		if c.closeTimer != nil {
			c.closeTimer.Stop()
		}
		c.closeTimer = time.AfterFunc(c.closeDelay, func() { c.closeIfCurrent(token) })
	}
	c.mu.Unlock()
	return sum, nil
}

// Close tears the modal down from any state and invalidates pending lookups
// and auto-close timers.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetLocked()
}

func (c *Controller) closeIfCurrent(token uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.token == token {
		c.resetLocked()
	}
}

func (c *Controller) resetLocked() {
	c.token++
	if c.closeTimer != nil {
		c.closeTimer.Stop()
		c.closeTimer = nil
	}
	c.view = View{State: StateClosed}
}

func clamp(q, max int) int {
	if q > max {
		q = max
	}
	if q < 1 {
		q = 1
	}
	return q
}
