package cart

import (
	"context"
	"encoding/json"
	"errors"
	"slices"
	"sync"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/georgemunganga/storefront/internal/modules/catalog"
	"github.com/georgemunganga/storefront/internal/platform/blobstore"
)

// Store is one visitor's cart. Every mutation rewrites the whole persisted
// snapshot and then notifies listeners. Persistence failures are logged and
// otherwise ignored: the in-memory cart stays authoritative.
type Store struct {
	key   string
	blobs blobstore.Store
	log   *zap.Logger

	mu        sync.Mutex
	lines     []Line
	listeners []func(Summary)
}

// NewStore returns an empty cart persisted under key.
func NewStore(key string, blobs blobstore.Store, log *zap.Logger) *Store {
	return &Store{key: key, blobs: blobs, log: log.With(zap.String("cart", key))}
}

// Hydrate replaces the in-memory cart with the persisted snapshot. Missing or
// unreadable snapshots, and lines that violate the cart invariants, are
// dropped.
func (s *Store) Hydrate(ctx context.Context) {
	raw, err := s.blobs.Load(ctx, s.key)
	if err != nil {
		if !errors.Is(err, blobstore.ErrNotFound) {
			s.log.Warn("cart snapshot unavailable, starting empty", zap.Error(err))
		}
		return
	}
	var stored []Line
	if err := json.Unmarshal(raw, &stored); err != nil {
		s.log.Warn("cart snapshot malformed, starting empty", zap.Error(err))
		return
	}

	lines := make([]Line, 0, len(stored))
	for _, l := range stored {
		if l.ProductID == "" || l.Quantity < 1 {
			continue
		}
		if i := indexOf(lines, l.ProductID); i >= 0 {
			lines[i].Quantity += l.Quantity
			continue
		}
		lines = append(lines, l)
	}

	s.mu.Lock()
	s.lines = lines
	s.mu.Unlock()
}

// Add puts quantity units of p in the cart, merging with an existing line.
func (s *Store) Add(ctx context.Context, p *catalog.Product, quantity int) (Summary, error) {
	if quantity < 1 {
		return s.Summary(), ErrInvalidQuantity
	}
	return s.mutate(ctx, func(lines []Line) ([]Line, error) {
		if i := indexOf(lines, p.ID); i >= 0 {
			lines[i].Quantity += quantity
			return lines, nil
		}
		return append(lines, Line{
			ProductID: p.ID,
			Name:      p.Name,
			Price:     p.Price,
			Quantity:  quantity,
			Image:     p.Thumbnail(),
		}), nil
	})
}

// Remove deletes the line for productID. Removing an absent product is a no-op.
func (s *Store) Remove(ctx context.Context, productID string) Summary {
	sum, _ := s.mutate(ctx, func(lines []Line) ([]Line, error) {
		return slices.DeleteFunc(lines, func(l Line) bool { return l.ProductID == productID }), nil
	})
	return sum
}

// SetQuantity overwrites a line's quantity. Quantities below one are rejected
// and leave the cart unchanged.
func (s *Store) SetQuantity(ctx context.Context, productID string, quantity int) (Summary, error) {
	if quantity < 1 {
		return s.Summary(), ErrInvalidQuantity
	}
	return s.mutate(ctx, func(lines []Line) ([]Line, error) {
		i := indexOf(lines, productID)
		if i < 0 {
			return nil, ErrLineNotFound
		}
		lines[i].Quantity = quantity
		return lines, nil
	})
}

// Clear empties the cart.
func (s *Store) Clear(ctx context.Context) Summary {
	sum, _ := s.mutate(ctx, func([]Line) ([]Line, error) { return nil, nil })
	return sum
}

// Count is the sum of quantities across all lines.
func (s *Store) Count() int { return s.Summary().Count }

// Total is the sum of price times quantity across all lines.
func (s *Store) Total() decimal.Decimal { return s.Summary().Total }

// Lines returns a copy of the cart lines in insertion order.
func (s *Store) Lines() []Line { return s.Summary().Lines }

// Summary returns the current cart state.
func (s *Store) Summary() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return summarize(s.lines)
}

// OnChange registers fn to be called with the new state after every mutation.
func (s *Store) OnChange(fn func(Summary)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// mutate applies fn to a copy of the lines; on success the copy becomes the
// cart, is persisted and is announced. fn's error leaves the cart untouched.
func (s *Store) mutate(ctx context.Context, fn func([]Line) ([]Line, error)) (Summary, error) {
	s.mu.Lock()
	next, err := fn(slices.Clone(s.lines))
	if err != nil {
		sum := summarize(s.lines)
		s.mu.Unlock()
		return sum, err
	}
	s.lines = next
	s.persistLocked(ctx)
	sum := summarize(s.lines)
	listeners := slices.Clone(s.listeners)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(sum)
	}
	return sum, nil
}

func (s *Store) persistLocked(ctx context.Context) {
	lines := s.lines
	if lines == nil {
		lines = []Line{}
	}
	raw, err := json.Marshal(lines)
	if err != nil {
		s.log.Warn("cart snapshot encode failed", zap.Error(err))
		return
	}
	if err := s.blobs.Save(ctx, s.key, raw); err != nil {
		s.log.Warn("cart snapshot write failed", zap.Error(err))
	}
}

func indexOf(lines []Line, productID string) int {
	return slices.IndexFunc(lines, func(l Line) bool { return l.ProductID == productID })
}
