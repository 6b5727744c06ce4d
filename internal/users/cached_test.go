package users

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omarluq/authgate/internal/cache"
)

func newTestCache(t *testing.T) cache.Cache[[]Principal] {
	t.Helper()
	c, err := cache.New[[]Principal](&cache.Config{
		Mode:      cache.ModeSingle,
		Ristretto: cache.RistrettoConfig{NumCounters: 1_000, MaxCost: 100, BufferItems: 64},
	})
	require.NoError(t, err)
	return c
}

func waitCache(c cache.Cache[[]Principal]) {
	if w, ok := c.(cache.Waiter); ok {
		w.Wait()
	}
}

func TestCachedStore_HitSkipsBackend(t *testing.T) {
	t.Parallel()

	backend := &countingStore{next: newTestStore()}
	c := newTestCache(t)
	store := NewCachedStore(backend, c, time.Minute, zerolog.Nop())
	t.Cleanup(func() { _ = store.Close() })

	ctx := context.Background()
	criteria := Criteria{AttrEmail: "bob@example.com"}

	first, err := store.Search(ctx, criteria)
	require.NoError(t, err)
	require.Len(t, first, 1)
	waitCache(c)

	second, err := store.Search(ctx, criteria)
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, "u1", second[0].ID())
	assert.Equal(t, int32(1), backend.calls.Load())

	// Cached principals still check the secret.
	assert.True(t, second[0].ValidatePassword("H0lberton"))
	assert.False(t, second[0].ValidatePassword("wrong"))
}

func TestCachedStore_EmptyResultNotCached(t *testing.T) {
	t.Parallel()

	mem := NewMemoryStore()
	backend := &countingStore{next: mem}
	c := newTestCache(t)
	store := NewCachedStore(backend, c, time.Minute, zerolog.Nop())
	t.Cleanup(func() { _ = store.Close() })

	ctx := context.Background()
	criteria := Criteria{AttrEmail: "late@example.com"}

	found, err := store.Search(ctx, criteria)
	require.NoError(t, err)
	assert.Empty(t, found)
	waitCache(c)

	mem.Add(NewUser("late", "late@example.com", "pwd"))

	found, err = store.Search(ctx, criteria)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, int32(2), backend.calls.Load())
}

func TestCachedStore_ErrorNotCached(t *testing.T) {
	t.Parallel()

	backend := &countingStore{next: newTestStore(), err: errors.New("db down")}
	c := newTestCache(t)
	store := NewCachedStore(backend, c, time.Minute, zerolog.Nop())
	t.Cleanup(func() { _ = store.Close() })

	ctx := context.Background()
	criteria := Criteria{AttrID: "u1"}

	_, err := store.Search(ctx, criteria)
	require.Error(t, err)
	waitCache(c)

	backend.setErr(nil)
	found, err := store.Search(ctx, criteria)
	require.NoError(t, err)
	assert.Len(t, found, 1)
}

func TestCachedStore_ClosedCacheFallsThrough(t *testing.T) {
	t.Parallel()

	backend := &countingStore{next: newTestStore()}
	c := newTestCache(t)
	store := NewCachedStore(backend, c, 0, zerolog.Nop())
	require.NoError(t, store.Close())

	found, err := store.Search(context.Background(), Criteria{AttrID: "u2"})
	require.NoError(t, err)
	assert.Len(t, found, 1)
	assert.Equal(t, DefaultCacheTTL, store.ttl)
}

func TestCachedStore_Stats(t *testing.T) {
	t.Parallel()

	c := newTestCache(t)
	store := NewCachedStore(newTestStore(), c, time.Minute, zerolog.Nop())
	t.Cleanup(func() { _ = store.Close() })

	ctx := context.Background()
	criteria := Criteria{AttrEmail: "bob@example.com"}

	_, err := store.Search(ctx, criteria)
	require.NoError(t, err)
	waitCache(c)
	_, err = store.Search(ctx, criteria)
	require.NoError(t, err)

	stats := store.Stats()
	assert.Equal(t, uint64(1), stats.Hits)
	assert.Equal(t, uint64(1), stats.Misses)
}
