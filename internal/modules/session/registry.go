package session

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/georgemunganga/storefront/internal/modules/alert"
	"github.com/georgemunganga/storefront/internal/modules/cart"
	"github.com/georgemunganga/storefront/internal/modules/notify"
	"github.com/georgemunganga/storefront/internal/modules/quickview"
	"github.com/georgemunganga/storefront/internal/platform/blobstore"
)

var (
	ErrNoSession = errors.New("request has no session")
	ErrClosed    = errors.New("session registry closed")
)

// Session is everything one visitor has open.
type Session struct {
	ID        string
	Cart      *cart.Store
	Alerts    *alert.Book
	Toasts    *notify.Emitter
	QuickView *quickview.Controller

	lastSeen time.Time
}

func (s *Session) close() {
	s.QuickView.Close()
	s.Toasts.Close()
}

// Options tune the per-visitor components.
type Options struct {
	ToastTTL   time.Duration
	CloseDelay time.Duration
}

// Registry builds sessions on first use and keeps them until they go idle.
// Carts and alerts are hydrated from the blob store when a session is built,
// so dropping an idle session loses no data.
type Registry struct {
	blobs    blobstore.Store
	products quickview.Lookup
	opts     Options
	log      *zap.Logger
	now      func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
	closed   bool
}

func NewRegistry(blobs blobstore.Store, products quickview.Lookup, opts Options, log *zap.Logger) *Registry {
	return &Registry{
		blobs:    blobs,
		products: products,
		opts:     opts,
		log:      log,
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
}

// Get returns the session for id, building and hydrating it if needed.
func (reg *Registry) Get(ctx context.Context, id string) (*Session, error) {
	reg.mu.Lock()
	if reg.closed {
		reg.mu.Unlock()
		return nil, ErrClosed
	}
	if s, ok := reg.sessions[id]; ok {
		s.lastSeen = reg.now()
		reg.mu.Unlock()
		return s, nil
	}
	reg.mu.Unlock()

	built := reg.build(ctx, id)

	reg.mu.Lock()
	defer reg.mu.Unlock()
	if reg.closed {
		built.close()
		return nil, ErrClosed
	}
	// another request may have built it meanwhile
	if s, ok := reg.sessions[id]; ok {
		built.close()
		s.lastSeen = reg.now()
		return s, nil
	}
	built.lastSeen = reg.now()
	reg.sessions[id] = built
	reg.log.Debug("session started", zap.String("session", id))
	return built, nil
}

func (reg *Registry) build(ctx context.Context, id string) *Session {
	log := reg.log.With(zap.String("session", id))
	c := cart.NewStore(CartKey(id), reg.blobs, log)
	c.Hydrate(ctx)
	alerts := alert.NewBook(AlertsKey(id), reg.blobs, log)
	alerts.Hydrate(ctx)
	toasts := notify.NewEmitter(reg.opts.ToastTTL, log)
	return &Session{
		ID:        id,
		Cart:      c,
		Alerts:    alerts,
		Toasts:    toasts,
		QuickView: quickview.NewController(reg.products, c, toasts, reg.opts.CloseDelay, log),
	}
}

// CartKey and AlertsKey are the blob keys of a session's persisted state.
func CartKey(id string) string   { return "cart:" + id }
func AlertsKey(id string) string { return "price_alerts:" + id }

// FromRequest returns the session of the visitor making r.
func (reg *Registry) FromRequest(r *http.Request) (*Session, error) {
	id, ok := IDFromContext(r.Context())
	if !ok {
		return nil, ErrNoSession
	}
	return reg.Get(r.Context(), id)
}

func (reg *Registry) Cart(r *http.Request) (*cart.Store, error) {
	s, err := reg.FromRequest(r)
	if err != nil {
		return nil, err
	}
	return s.Cart, nil
}

func (reg *Registry) Alerts(r *http.Request) (*alert.Book, error) {
	s, err := reg.FromRequest(r)
	if err != nil {
		return nil, err
	}
	return s.Alerts, nil
}

func (reg *Registry) Toasts(r *http.Request) (*notify.Emitter, error) {
	s, err := reg.FromRequest(r)
	if err != nil {
		return nil, err
	}
	return s.Toasts, nil
}

func (reg *Registry) QuickView(r *http.Request) (*quickview.Controller, error) {
	s, err := reg.FromRequest(r)
	if err != nil {
		return nil, err
	}
	return s.QuickView, nil
}

// Each calls fn for every live session. fn runs without the registry lock.
func (reg *Registry) Each(fn func(*Session)) {
	reg.mu.Lock()
	live := make([]*Session, 0, len(reg.sessions))
	for _, s := range reg.sessions {
		live = append(live, s)
	}
	reg.mu.Unlock()
	for _, s := range live {
		fn(s)
	}
}

// AlertTargets lists the alert books of live sessions for the price checker.
func (reg *Registry) AlertTargets() []alert.Target {
	var targets []alert.Target
	reg.Each(func(s *Session) {
		targets = append(targets, alert.Target{Book: s.Alerts, Toasts: s.Toasts})
	})
	return targets
}

// Len is the number of live sessions.
func (reg *Registry) Len() int {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	return len(reg.sessions)
}

// Sweep drops sessions not used for longer than idle and returns how many.
func (reg *Registry) Sweep(idle time.Duration) int {
	cutoff := reg.now().Add(-idle)
	var dropped []*Session

	reg.mu.Lock()
	for id, s := range reg.sessions {
		if s.lastSeen.Before(cutoff) {
			dropped = append(dropped, s)
			delete(reg.sessions, id)
		}
	}
	reg.mu.Unlock()

	for _, s := range dropped {
		s.close()
	}
	if len(dropped) > 0 {
		reg.log.Debug("idle sessions dropped", zap.Int("count", len(dropped)))
	}
	return len(dropped)
}

// RunSweeper sweeps every interval until ctx is cancelled.
func (reg *Registry) RunSweeper(ctx context.Context, idle, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			reg.Sweep(idle)
		}
	}
}

// Close stops every session's timers. Later lookups fail with ErrClosed.
func (reg *Registry) Close() {
	reg.mu.Lock()
	sessions := reg.sessions
	reg.sessions = make(map[string]*Session)
	reg.closed = true
	reg.mu.Unlock()

	for _, s := range sessions {
		s.close()
	}
}
