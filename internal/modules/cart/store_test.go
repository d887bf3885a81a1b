package cart

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/georgemunganga/storefront/internal/modules/catalog"
	"github.com/georgemunganga/storefront/internal/platform/blobstore"
)

var rice = &catalog.Product{ID: "r1", Name: "Rice", Price: decimal.NewFromInt(1250), Stock: 10, Images: []string{"rice.jpg"}}

func newTestStore(blobs blobstore.Store) *Store {
	return NewStore("cart:test", blobs, zap.NewNop())
}

func TestStore_Scenario(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(blobstore.NewMemory())

	sum, err := s.Add(ctx, rice, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Count)
	assert.True(t, s.Total().Equal(decimal.NewFromInt(1250)))

	_, err = s.Add(ctx, rice, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, s.Count())
	assert.True(t, s.Total().Equal(decimal.NewFromInt(3750)))
	assert.Len(t, s.Lines(), 1)

	s.Remove(ctx, "r1")
	assert.Equal(t, 0, s.Count())
	assert.True(t, s.Total().IsZero())
}

func TestStore_AddMergesLines(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(blobstore.NewMemory())

	want := 0
	for _, n := range []int{1, 4, 2, 7} {
		_, err := s.Add(ctx, rice, n)
		require.NoError(t, err)
		want += n
	}
	lines := s.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, want, lines[0].Quantity)
}

func TestStore_TotalIsSumOfLines(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(blobstore.NewMemory())
	oil := &catalog.Product{ID: "o1", Name: "Oil", Price: decimal.RequireFromString("4100.50")}

	_, _ = s.Add(ctx, rice, 3)
	_, _ = s.Add(ctx, oil, 2)

	want := decimal.Zero
	for _, l := range s.Lines() {
		want = want.Add(l.Price.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	assert.True(t, s.Total().Equal(want))
	assert.True(t, s.Total().Equal(decimal.RequireFromString("11951")))
}

func TestStore_RejectsNonPositiveAdd(t *testing.T) {
	s := newTestStore(blobstore.NewMemory())
	for _, n := range []int{0, -3} {
		_, err := s.Add(context.Background(), rice, n)
		assert.ErrorIs(t, err, ErrInvalidQuantity)
	}
	assert.Zero(t, s.Count())
}

func TestStore_SnapshotsProductAtAddTime(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(blobstore.NewMemory())
	p := *rice
	_, _ = s.Add(ctx, &p, 1)

	p.Name = "Renamed"
	p.Price = decimal.NewFromInt(1)
	_, _ = s.Add(ctx, &p, 1)

	line := s.Lines()[0]
	assert.Equal(t, "Rice", line.Name)
	assert.True(t, line.Price.Equal(decimal.NewFromInt(1250)))
	assert.Equal(t, "rice.jpg", line.Image)
}

func TestStore_SetQuantity(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(blobstore.NewMemory())
	_, _ = s.Add(ctx, rice, 2)

	sum, err := s.SetQuantity(ctx, "r1", 5)
	require.NoError(t, err)
	assert.Equal(t, 5, sum.Count)

	sum, err = s.SetQuantity(ctx, "r1", 0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)
	assert.Equal(t, 5, sum.Count, "invalid quantity is ignored")

	_, err = s.SetQuantity(ctx, "ghost", 2)
	assert.ErrorIs(t, err, ErrLineNotFound)
}

func TestStore_RemoveAbsentIsNoop(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(blobstore.NewMemory())
	_, _ = s.Add(ctx, rice, 2)
	sum := s.Remove(ctx, "ghost")
	assert.Equal(t, 2, sum.Count)
}

func TestStore_PersistsAndHydrates(t *testing.T) {
	ctx := context.Background()
	blobs := blobstore.NewMemory()
	s := newTestStore(blobs)
	_, _ = s.Add(ctx, rice, 3)

	restored := newTestStore(blobs)
	restored.Hydrate(ctx)
	assert.Equal(t, 3, restored.Count())
	assert.True(t, restored.Total().Equal(decimal.NewFromInt(3750)))

	s.Clear(ctx)
	raw, err := blobs.Load(ctx, "cart:test")
	require.NoError(t, err)
	assert.Equal(t, "[]", string(raw))
}

func TestStore_HydrateToleratesBadData(t *testing.T) {
	ctx := context.Background()
	tests := map[string]string{
		"malformed":     `{not json`,
		"wrong shape":   `{"lines":1}`,
		"invalid lines": `[{"product_id":"","quantity":2},{"product_id":"x","quantity":0}]`,
		"null":          `null`,
	}
	for name, raw := range tests {
		t.Run(name, func(t *testing.T) {
			blobs := blobstore.NewMemory()
			require.NoError(t, blobs.Save(ctx, "cart:test", []byte(raw)))
			s := newTestStore(blobs)
			s.Hydrate(ctx)
			assert.Zero(t, s.Count())
		})
	}

	t.Run("duplicate lines merge", func(t *testing.T) {
		blobs := blobstore.NewMemory()
		require.NoError(t, blobs.Save(ctx, "cart:test",
			[]byte(`[{"product_id":"r1","name":"Rice","price":"1250","quantity":1},{"product_id":"r1","name":"Rice","price":1250,"quantity":2}]`)))
		s := newTestStore(blobs)
		s.Hydrate(ctx)
		require.Len(t, s.Lines(), 1)
		assert.Equal(t, 3, s.Count())
	})
}

type failingBlobs struct{ blobstore.Store }

func (failingBlobs) Save(context.Context, string, []byte) error { return errors.New("quota exceeded") }

func TestStore_SwallowsWriteFailures(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	s := NewStore("cart:test", failingBlobs{blobstore.NewMemory()}, zap.New(core))

	sum, err := s.Add(context.Background(), rice, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, sum.Count)
	assert.Equal(t, 2, s.Count(), "in-memory state stays authoritative")
	assert.Equal(t, 1, logs.FilterMessage("cart snapshot write failed").Len())
}

func TestStore_OnChange(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(blobstore.NewMemory())
	var badges []int
	s.OnChange(func(sum Summary) { badges = append(badges, sum.Count) })

	_, _ = s.Add(ctx, rice, 1)
	_, _ = s.Add(ctx, rice, 2)
	_, _ = s.Add(ctx, rice, 0) // rejected, no render
	s.Remove(ctx, "r1")

	assert.Equal(t, []int{1, 3, 0}, badges)
}
