package users

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBreakerConfig_Defaults(t *testing.T) {
	t.Parallel()

	var cfg BreakerConfig
	assert.Equal(t, DefaultFailureThreshold, cfg.GetFailureThreshold())
	assert.Equal(t, 30*time.Second, cfg.GetOpenDuration())
	assert.Equal(t, DefaultHalfOpenProbes, cfg.GetHalfOpenProbes())

	cfg = BreakerConfig{FailureThreshold: 2, OpenDurationMS: 10, HalfOpenProbes: 3}
	assert.Equal(t, 2, cfg.GetFailureThreshold())
	assert.Equal(t, 10*time.Millisecond, cfg.GetOpenDuration())
	assert.Equal(t, 3, cfg.GetHalfOpenProbes())
}

func TestGuardedStore_PassesThrough(t *testing.T) {
	t.Parallel()

	store := NewGuardedStore(newTestStore(), BreakerConfig{}, zerolog.Nop())

	found, err := store.Search(context.Background(), Criteria{AttrEmail: "alice@example.com"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "u2", found[0].ID())
	assert.Equal(t, gobreaker.StateClosed, store.State())
}

func TestGuardedStore_OpensAndRecovers(t *testing.T) {
	t.Parallel()

	backend := &countingStore{next: newTestStore(), err: errors.New("db down")}
	store := NewGuardedStore(backend, BreakerConfig{
		FailureThreshold: 2,
		OpenDurationMS:   50,
		HalfOpenProbes:   1,
	}, zerolog.Nop())

	ctx := context.Background()
	criteria := Criteria{AttrID: "u1"}

	for range 2 {
		_, err := store.Search(ctx, criteria)
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrCircuitOpen)
	}
	assert.Equal(t, gobreaker.StateOpen, store.State())

	_, err := store.Search(ctx, criteria)
	require.ErrorIs(t, err, ErrCircuitOpen)
	assert.Equal(t, int32(2), backend.calls.Load(), "open breaker does not call the store")

	backend.setErr(nil)
	time.Sleep(80 * time.Millisecond)

	found, err := store.Search(ctx, criteria)
	require.NoError(t, err)
	assert.Len(t, found, 1)
	assert.Equal(t, gobreaker.StateClosed, store.State())
}

func TestGuardedStore_CanceledContextDoesNotTrip(t *testing.T) {
	t.Parallel()

	store := NewGuardedStore(newTestStore(), BreakerConfig{FailureThreshold: 1}, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for range 3 {
		_, err := store.Search(ctx, Criteria{})
		require.ErrorIs(t, err, context.Canceled)
	}
	assert.Equal(t, gobreaker.StateClosed, store.State())
}
