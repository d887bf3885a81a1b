package notify

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestEmitter_Stacks(t *testing.T) {
	e := NewEmitter(time.Hour, zap.NewNop())
	defer e.Close()

	a := e.Notify("Added to cart")
	b := e.Emit(LevelError, "Could not load product")

	active := e.Active()
	require.Len(t, active, 2)
	assert.Equal(t, a.ID, active[0].ID)
	assert.Equal(t, b.ID, active[1].ID)
	assert.Equal(t, LevelError, active[1].Level)
}

func TestEmitter_AutoDismiss(t *testing.T) {
	e := NewEmitter(20*time.Millisecond, zap.NewNop())
	defer e.Close()

	e.Notify("short lived")
	require.Len(t, e.Active(), 1)
	assert.Eventually(t, func() bool { return len(e.Active()) == 0 }, time.Second, 5*time.Millisecond)
}

func TestEmitter_Dismiss(t *testing.T) {
	e := NewEmitter(time.Hour, zap.NewNop())
	defer e.Close()

	toast := e.Notify("bye")
	assert.True(t, e.Dismiss(toast.ID))
	assert.False(t, e.Dismiss(toast.ID))
	assert.Empty(t, e.Active())
}

func TestEmitter_Subscribe(t *testing.T) {
	e := NewEmitter(time.Hour, zap.NewNop())
	defer e.Close()

	var calls atomic.Int32
	var last atomic.Int32
	unsubscribe := e.Subscribe(func(active []Toast) {
		calls.Add(1)
		last.Store(int32(len(active)))
	})

	toast := e.Notify("one")
	e.Notify("two")
	e.Dismiss(toast.ID)
	assert.EqualValues(t, 3, calls.Load())
	assert.EqualValues(t, 1, last.Load())

	unsubscribe()
	e.Notify("three")
	assert.EqualValues(t, 3, calls.Load())
}

func TestEmitter_CloseStopsTimers(t *testing.T) {
	e := NewEmitter(time.Hour, zap.NewNop())
	e.Notify("pending")
	e.Close()
	assert.Empty(t, e.Active())

	e.Notify("after close")
	assert.Empty(t, e.Active())
}
