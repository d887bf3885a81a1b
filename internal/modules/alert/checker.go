package alert

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/georgemunganga/storefront/internal/modules/catalog"
	"github.com/georgemunganga/storefront/internal/modules/notify"
)

// PriceFeed reports what a product costs right now.
type PriceFeed interface {
	CurrentPrice(ctx context.Context, productID string) (decimal.Decimal, error)
}

// Target is one visitor's alerts and the toast stack they are told through.
type Target struct {
	Book   *Book
	Toasts *notify.Emitter
}

// Targets enumerates the visitors whose alerts should be checked.
type Targets interface {
	AlertTargets() []Target
}

// Checker matches alerts against the price feed. An alert fires once: the
// visitor gets a toast and the alert is removed.
type Checker struct {
	feed     PriceFeed
	targets  Targets
	currency string
	log      *zap.Logger
}

func NewChecker(feed PriceFeed, targets Targets, currency string, log *zap.Logger) *Checker {
	return &Checker{feed: feed, targets: targets, currency: currency, log: log}
}

// Check runs one pass over every target and returns how many alerts fired.
func (c *Checker) Check(ctx context.Context) int {
	prices := make(map[string]decimal.Decimal)
	missing := make(map[string]bool)
	fired := 0

	for _, t := range c.targets.AlertTargets() {
		for _, a := range t.Book.List() {
			if ctx.Err() != nil {
				return fired
			}
			if missing[a.ProductID] {
				continue
			}
			price, ok := prices[a.ProductID]
			if !ok {
				p, err := c.feed.CurrentPrice(ctx, a.ProductID)
				if err != nil {
					if !errors.Is(err, catalog.ErrNotFound) {
						c.log.Warn("price lookup failed", zap.String("product_id", a.ProductID), zap.Error(err))
					}
					missing[a.ProductID] = true
					continue
				}
				prices[a.ProductID], price = p, p
			}
			if price.GreaterThan(a.DesiredPrice) {
				continue
			}
			if err := t.Book.Remove(ctx, a.ID); err != nil {
				// removed by the visitor since List
				continue
			}
			t.Toasts.Emit(notify.LevelSuccess, fmt.Sprintf("Price drop: %s is now %s %s (your target %s)",
				a.ProductName, c.currency, price.StringFixed(2), a.DesiredPrice.StringFixed(2)))
			c.log.Info("price alert fired",
				zap.String("alert_id", a.ID),
				zap.String("product_id", a.ProductID),
				zap.String("price", price.String()))
			fired++
		}
	}
	return fired
}

// Run checks every interval until ctx is cancelled.
func (c *Checker) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	c.log.Info("price alert checker started", zap.Duration("interval", interval))
	for {
		select {
		case <-ctx.Done():
			c.log.Info("price alert checker stopped")
			return nil
		case <-ticker.C:
			if n := c.Check(ctx); n > 0 {
				c.log.Debug("price alert pass", zap.Int("fired", n))
			}
		}
	}
}
