package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock lets tests advance time explicitly.
type fakeClock struct {
	t time.Time
}

func (f *fakeClock) Now() time.Time          { return f.t }
func (f *fakeClock) Advance(d time.Duration) { f.t = f.t.Add(d) }

func newTestStore(capacity int) (*MemoryStore, *fakeClock) {
	clock := &fakeClock{t: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
	store := NewMemoryStore(capacity)
	store.now = clock.Now
	return store, clock
}

func TestMemoryStoreTTL(t *testing.T) {
	ctx := context.Background()
	store, clock := newTestStore(10)

	require.NoError(t, store.Set(ctx, "k", "v", 60*time.Second))

	val, found, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "v", val)

	clock.Advance(61 * time.Second)

	_, found, err = store.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, found, "entry should expire after its TTL")
	assert.Equal(t, 0, store.Len(), "expired entry should be purged on read")
}

func TestMemoryStoreFIFOEviction(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(3)

	for i := 0; i < 3; i++ {
		require.NoError(t, store.Set(ctx, fmt.Sprintf("k%d", i), "v", time.Minute))
	}

	// Re-setting k0 must not refresh its eviction position.
	require.NoError(t, store.Set(ctx, "k0", "v2", time.Minute))
	require.NoError(t, store.Set(ctx, "k3", "v", time.Minute))

	_, found, _ := store.Get(ctx, "k0")
	assert.False(t, found, "oldest-inserted key should be evicted first")

	for _, key := range []string{"k1", "k2", "k3"} {
		_, found, _ := store.Get(ctx, key)
		assert.True(t, found, "key %s should survive", key)
	}
	assert.Equal(t, 3, store.Len())
}

func TestMemoryStoreClear(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(10)

	require.NoError(t, store.Set(ctx, "a", "1", time.Minute))
	require.NoError(t, store.Set(ctx, "b", "2", time.Minute))
	require.NoError(t, store.Clear(ctx))

	assert.Equal(t, 0, store.Len())
	_, found, _ := store.Get(ctx, "a")
	assert.False(t, found)
}

func TestMemoryStoreIncrWithExpiry(t *testing.T) {
	ctx := context.Background()
	store, clock := newTestStore(10)

	window := 60 * time.Second

	for want := int64(1); want <= 3; want++ {
		got, err := store.IncrWithExpiry(ctx, "counter", window)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	// Increments inside the window must not slide the expiry.
	clock.Advance(59 * time.Second)
	got, err := store.IncrWithExpiry(ctx, "counter", window)
	require.NoError(t, err)
	assert.Equal(t, int64(4), got)

	clock.Advance(2 * time.Second)
	got, err = store.IncrWithExpiry(ctx, "counter", window)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got, "counter should reset after the window elapses")
}
