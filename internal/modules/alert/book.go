package alert

import (
	"context"
	"encoding/json"
	"errors"
	"net/mail"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/georgemunganga/storefront/internal/modules/catalog"
	"github.com/georgemunganga/storefront/internal/platform/blobstore"
)

// Book holds one visitor's price alerts, persisted as a single blob that is
// rewritten on every change. Like the cart, write failures are only logged.
type Book struct {
	key   string
	blobs blobstore.Store
	log   *zap.Logger
	now   func() time.Time

	mu     sync.Mutex
	alerts []PriceAlert
}

func NewBook(key string, blobs blobstore.Store, log *zap.Logger) *Book {
	return &Book{key: key, blobs: blobs, log: log.With(zap.String("alerts", key)), now: time.Now}
}

// Hydrate loads the persisted alerts, treating absent or malformed data as an
// empty list.
func (b *Book) Hydrate(ctx context.Context) {
	raw, err := b.blobs.Load(ctx, b.key)
	if err != nil {
		if !errors.Is(err, blobstore.ErrNotFound) {
			b.log.Warn("alert snapshot unavailable, starting empty", zap.Error(err))
		}
		return
	}
	var stored []PriceAlert
	if err := json.Unmarshal(raw, &stored); err != nil {
		b.log.Warn("alert snapshot malformed, starting empty", zap.Error(err))
		return
	}
	stored = slices.DeleteFunc(stored, func(a PriceAlert) bool { return !a.valid() })

	b.mu.Lock()
	b.alerts = stored
	b.mu.Unlock()
}

// Create validates and records an alert for p. Nothing changes when
// validation fails.
func (b *Book) Create(ctx context.Context, p *catalog.Product, desired decimal.Decimal, email string) (PriceAlert, error) {
	email = strings.TrimSpace(email)
	switch {
	case !desired.IsPositive():
		return PriceAlert{}, &ValidationError{Field: "desired_price", Reason: "must be greater than zero"}
	case !desired.LessThan(p.Price):
		return PriceAlert{}, &ValidationError{Field: "desired_price", Reason: "must be below the current price"}
	}
	if email != "" {
		addr, err := mail.ParseAddress(email)
		if err != nil || addr.Address != email {
			return PriceAlert{}, &ValidationError{Field: "email", Reason: "not a valid address"}
		}
	}

	a := PriceAlert{
		ID:                     uuid.NewString(),
		ProductID:              p.ID,
		ProductName:            p.Name,
		CurrentPriceAtCreation: p.Price,
		DesiredPrice:           desired,
		Email:                  email,
		CreatedAt:              b.now().UTC(),
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.alerts = append(b.alerts, a)
	b.persistLocked(ctx)
	return a, nil
}

// Remove deletes an alert by id.
func (b *Book) Remove(ctx context.Context, id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	i := slices.IndexFunc(b.alerts, func(a PriceAlert) bool { return a.ID == id })
	if i < 0 {
		return ErrNotFound
	}
	b.alerts = slices.Delete(b.alerts, i, i+1)
	b.persistLocked(ctx)
	return nil
}

// List returns the alerts oldest first.
func (b *Book) List() []PriceAlert {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.alerts)
}

func (b *Book) persistLocked(ctx context.Context) {
	alerts := b.alerts
	if alerts == nil {
		alerts = []PriceAlert{}
	}
	raw, err := json.Marshal(alerts)
	if err != nil {
		b.log.Warn("alert snapshot encode failed", zap.Error(err))
		return
	}
	if err := b.blobs.Save(ctx, b.key, raw); err != nil {
		b.log.Warn("alert snapshot write failed", zap.Error(err))
	}
}
