package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dgraph-io/ristretto/v2"
	"github.com/rs/zerolog"
)

// ristrettoCache implements Cache with Ristretto as the backend.
// Writes are buffered by Ristretto and may be dropped by its admission
// policy, so a Set is a hint, never a guarantee.
type ristrettoCache[V any] struct {
	cache  *ristretto.Cache[string, V]
	log    zerolog.Logger
	closed atomic.Bool
	mu     sync.RWMutex
}

func newRistrettoCache[V any](cfg RistrettoConfig) (*ristrettoCache[V], error) {
	log := logger().With().Str("backend", "ristretto").Logger()

	bufferItems := cfg.BufferItems
	if bufferItems <= 0 {
		bufferItems = 64
	}

	cache, err := ristretto.NewCache(&ristretto.Config[string, V]{
		NumCounters:        cfg.NumCounters,
		MaxCost:            cfg.MaxCost,
		BufferItems:        bufferItems,
		Metrics:            true,
		IgnoreInternalCost: true,
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to create ristretto cache")
		return nil, err
	}

	log.Info().
		Int64("num_counters", cfg.NumCounters).
		Int64("max_cost", cfg.MaxCost).
		Msg("ristretto cache created")

	return &ristrettoCache[V]{cache: cache, log: log}, nil
}

// withOpen runs fn under the read lock if the cache is still open.
func (r *ristrettoCache[V]) withOpen(ctx context.Context, fn func()) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed.Load() {
		return ErrClosed
	}
	fn()
	return nil
}

func (r *ristrettoCache[V]) Get(ctx context.Context, key string) (V, error) {
	var (
		value V
		found bool
	)
	if err := r.withOpen(ctx, func() { value, found = r.cache.Get(key) }); err != nil {
		return value, err
	}
	if !found {
		return value, ErrNotFound
	}
	return value, nil
}

func (r *ristrettoCache[V]) SetWithTTL(ctx context.Context, key string, value V, ttl time.Duration) error {
	return r.withOpen(ctx, func() {
		if !r.cache.SetWithTTL(key, value, 1, ttl) {
			r.log.Debug().Str("key", key).Dur("ttl", ttl).Msg("cache set dropped")
		}
	})
}

// Wait blocks until buffered writes are applied.
func (r *ristrettoCache[V]) Wait() {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if !r.closed.Load() {
		r.cache.Wait()
	}
}

// Close releases the cache. It is idempotent.
func (r *ristrettoCache[V]) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed.Load() {
		return nil
	}
	r.closed.Store(true)

	r.cache.Wait()
	r.cache.Close()
	r.log.Info().Msg("ristretto cache closed")
	return nil
}

// Stats returns current cache statistics.
func (r *ristrettoCache[V]) Stats() Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed.Load() {
		return Stats{}
	}

	metrics := r.cache.Metrics
	return Stats{
		Hits:      metrics.Hits(),
		Misses:    metrics.Misses(),
		KeyCount:  metrics.KeysAdded() - metrics.KeysEvicted(),
		Evictions: metrics.KeysEvicted(),
	}
}

var (
	_ Cache[struct{}] = (*ristrettoCache[struct{}])(nil)
	_ StatsProvider   = (*ristrettoCache[struct{}])(nil)
	_ Waiter          = (*ristrettoCache[struct{}])(nil)
)
