// Package notify keeps the short-lived toast messages shown to a visitor.
package notify

import (
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Level is the visual weight of a toast.
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Toast is one transient notification.
type Toast struct {
	ID        string    `json:"id"`
	Level     Level     `json:"level"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// Emitter stacks toasts and dismisses each one after a fixed TTL. It is safe
// for concurrent use. Subscribers are called without the lock held.
type Emitter struct {
	ttl time.Duration
	log *zap.Logger

	mu          sync.Mutex
	toasts      []Toast
	timers      map[string]*time.Timer
	subscribers map[int]func([]Toast)
	nextSub     int
	closed      bool
}

func NewEmitter(ttl time.Duration, log *zap.Logger) *Emitter {
	return &Emitter{
		ttl:         ttl,
		log:         log,
		timers:      make(map[string]*time.Timer),
		subscribers: make(map[int]func([]Toast)),
	}
}

// Notify emits an info toast.
func (e *Emitter) Notify(message string) Toast { return e.Emit(LevelInfo, message) }

// Emit enqueues a toast. After Close the toast is returned but not shown.
func (e *Emitter) Emit(level Level, message string) Toast {
	t := Toast{ID: uuid.NewString(), Level: level, Message: message, CreatedAt: time.Now()}
	e.log.Debug("toast", zap.String("level", string(level)), zap.String("message", message))

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return t
	}
	e.toasts = append(e.toasts, t)
	e.timers[t.ID] = time.AfterFunc(e.ttl, func() { e.Dismiss(t.ID) })
	active, subs := e.snapshotLocked()
	e.mu.Unlock()

	publish(subs, active)
	return t
}

// Dismiss removes a toast early. It reports whether the toast was still shown.
func (e *Emitter) Dismiss(id string) bool {
	e.mu.Lock()
	i := slices.IndexFunc(e.toasts, func(t Toast) bool { return t.ID == id })
	if i < 0 {
		e.mu.Unlock()
		return false
	}
	e.toasts = slices.Delete(e.toasts, i, i+1)
	if timer, ok := e.timers[id]; ok {
		timer.Stop()
		delete(e.timers, id)
	}
	active, subs := e.snapshotLocked()
	e.mu.Unlock()

	publish(subs, active)
	return true
}

// Active returns the toasts currently shown, oldest first.
func (e *Emitter) Active() []Toast {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.toasts)
}

// Subscribe registers fn to receive the active toasts after every change and
// returns a function that unregisters it.
func (e *Emitter) Subscribe(fn func([]Toast)) func() {
	e.mu.Lock()
	defer e.mu.Unlock()
	id := e.nextSub
	e.nextSub++
	e.subscribers[id] = fn
	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		delete(e.subscribers, id)
	}
}

// Close stops all pending dismiss timers and drops the shown toasts.
func (e *Emitter) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	for id, timer := range e.timers {
		timer.Stop()
		delete(e.timers, id)
	}
	e.toasts = nil
	e.closed = true
}

func (e *Emitter) snapshotLocked() ([]Toast, []func([]Toast)) {
	subs := make([]func([]Toast), 0, len(e.subscribers))
	for _, fn := range e.subscribers {
		subs = append(subs, fn)
	}
	return slices.Clone(e.toasts), subs
}

func publish(subs []func([]Toast), active []Toast) {
	for _, fn := range subs {
		fn(active)
	}
}
