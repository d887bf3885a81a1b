package quickview

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"github.com/georgemunganga/storefront/internal/modules/cart"
	"github.com/georgemunganga/storefront/internal/modules/catalog"
	"github.com/georgemunganga/storefront/internal/modules/notify"
	"github.com/georgemunganga/storefront/internal/platform/blobstore"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var (
	beans = &catalog.Product{ID: "beans", Name: "Beans", Price: decimal.NewFromInt(9800), Stock: 6}
	flour = &catalog.Product{ID: "flour", Name: "Flour", Price: decimal.NewFromInt(1480), Stock: 0}
)

type mapLookup map[string]*catalog.Product

func (m mapLookup) GetProduct(_ context.Context, id string) (*catalog.Product, error) {
	if p, ok := m[id]; ok {
		return p, nil
	}
	return nil, catalog.ErrNotFound
}

// gatedLookup blocks until release is closed so a test can act mid-lookup.
type gatedLookup struct {
	started chan struct{}
	release chan struct{}
}

func (g gatedLookup) GetProduct(context.Context, string) (*catalog.Product, error) {
	close(g.started)
	<-g.release
	return beans, nil
}

type fixture struct {
	qv     *Controller
	cart   *cart.Store
	toasts *notify.Emitter
}

func newFixture(t *testing.T, lookup Lookup, closeDelay time.Duration) fixture {
	t.Helper()
	c := cart.NewStore("cart:qv", blobstore.NewMemory(), zap.NewNop())
	toasts := notify.NewEmitter(time.Minute, zap.NewNop())
	qv := NewController(lookup, c, toasts, closeDelay, zap.NewNop())
	t.Cleanup(func() {
		qv.Close()
		toasts.Close()
	})
	return fixture{qv: qv, cart: c, toasts: toasts}
}

func TestController_OpenShowsProduct(t *testing.T) {
	f := newFixture(t, mapLookup{"beans": beans}, time.Hour)
	assert.Equal(t, StateClosed, f.qv.View().State)

	v, err := f.qv.Open(context.Background(), "beans")
	require.NoError(t, err)
	assert.Equal(t, StateShown, v.State)
	assert.Equal(t, 1, v.Quantity)
	assert.Equal(t, 6, v.MaxQuantity)
}

func TestController_OpenMissingProduct(t *testing.T) {
	f := newFixture(t, mapLookup{}, time.Hour)

	v, err := f.qv.Open(context.Background(), "ghost")
	require.NoError(t, err)
	assert.Equal(t, StateError, v.State)
	assert.True(t, v.NotFound)
	assert.NotEmpty(t, v.Error)
}

type brokenLookup struct{}

func (brokenLookup) GetProduct(context.Context, string) (*catalog.Product, error) {
	return nil, errors.New("connection reset")
}

func TestController_OpenLookupFailure(t *testing.T) {
	f := newFixture(t, brokenLookup{}, time.Hour)

	v, err := f.qv.Open(context.Background(), "beans")
	require.NoError(t, err)
	assert.Equal(t, StateError, v.State)
	assert.False(t, v.NotFound)
}

func TestController_QuantityIsClamped(t *testing.T) {
	f := newFixture(t, mapLookup{"beans": beans}, time.Hour)
	_, err := f.qv.Open(context.Background(), "beans")
	require.NoError(t, err)

	tests := []struct {
		set  int
		want int
	}{
		{set: 3, want: 3},
		{set: 0, want: 1},
		{set: -5, want: 1},
		{set: 7, want: 6},
		{set: 600, want: 6},
	}
	for _, tt := range tests {
		v, err := f.qv.SetQuantity(tt.set)
		require.NoError(t, err)
		assert.Equal(t, tt.want, v.Quantity, "set %d", tt.set)
	}

	v, err := f.qv.Step(-1)
	require.NoError(t, err)
	assert.Equal(t, 5, v.Quantity)
	v, _ = f.qv.Step(+4)
	assert.Equal(t, 6, v.Quantity)
}

func TestController_RequiresShownProduct(t *testing.T) {
	f := newFixture(t, mapLookup{}, time.Hour)

	_, err := f.qv.SetQuantity(2)
	assert.ErrorIs(t, err, ErrNotShown)
	_, err = f.qv.AddToCart(context.Background())
	assert.ErrorIs(t, err, ErrNotShown)
}

func TestController_AddToCartAndAutoClose(t *testing.T) {
	f := newFixture(t, mapLookup{"beans": beans}, 20*time.Millisecond)
	ctx := context.Background()
	_, err := f.qv.Open(ctx, "beans")
	require.NoError(t, err)
	_, err = f.qv.SetQuantity(4)
	require.NoError(t, err)

	sum, err := f.qv.AddToCart(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, sum.Count)
	assert.Equal(t, 4, f.cart.Count())

	toasts := f.toasts.Active()
	require.Len(t, toasts, 1)
	assert.Equal(t, notify.LevelSuccess, toasts[0].Level)
	assert.Contains(t, toasts[0].Message, "Beans")

	assert.Equal(t, StateShown, f.qv.View().State, "modal lingers before closing")
	assert.Eventually(t, func() bool { return f.qv.View().State == StateClosed }, time.Second, 5*time.Millisecond)
}

func TestController_OutOfStockCannotBeAdded(t *testing.T) {
	f := newFixture(t, mapLookup{"flour": flour}, time.Hour)
	ctx := context.Background()
	_, err := f.qv.Open(ctx, "flour")
	require.NoError(t, err)

	_, err = f.qv.AddToCart(ctx)
	assert.ErrorIs(t, err, ErrOutOfStock)
	assert.Zero(t, f.cart.Count())
	assert.Empty(t, f.toasts.Active())
}

func TestController_CloseDuringLookupDiscardsResult(t *testing.T) {
	g := gatedLookup{started: make(chan struct{}), release: make(chan struct{})}
	f := newFixture(t, g, time.Hour)

	done := make(chan error, 1)
	go func() {
		_, err := f.qv.Open(context.Background(), "beans")
		done <- err
	}()

	<-g.started
	assert.Equal(t, StateLoading, f.qv.View().State)
	f.qv.Close()
	close(g.release)

	assert.ErrorIs(t, <-done, ErrStale)
	assert.Equal(t, StateClosed, f.qv.View().State)
}

func TestController_ReopenCancelsPendingAutoClose(t *testing.T) {
	f := newFixture(t, mapLookup{"beans": beans, "flour": flour}, 30*time.Millisecond)
	ctx := context.Background()
	_, err := f.qv.Open(ctx, "beans")
	require.NoError(t, err)
	_, err = f.qv.AddToCart(ctx)
	require.NoError(t, err)

	v, err := f.qv.Open(ctx, "flour")
	require.NoError(t, err)
	assert.Equal(t, "flour", v.ProductID)

	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, StateShown, f.qv.View().State)
	assert.Equal(t, "flour", f.qv.View().ProductID)
}
