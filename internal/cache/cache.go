// Package cache provides a typed, in-process cache abstraction for authgate.
//
// Two backends are available:
//   - Single mode (Ristretto): bounded local cache with TTL support
//   - Disabled mode (Noop): stores nothing, every Get is a miss
//
// Values are held as-is (no serialization), so a cache is only shared
// within one process. All implementations are safe for concurrent use.
//
// Basic usage:
//
//	c, err := cache.New[[]users.Principal](&cache.Config{
//		Mode:      cache.ModeSingle,
//		Ristretto: cache.DefaultRistrettoConfig(),
//	})
//	if err != nil {
//		return err
//	}
//	defer c.Close()
//
//	err = c.SetWithTTL(ctx, key, found, time.Minute)
//
//	found, err := c.Get(ctx, key)
//	if errors.Is(err, cache.ErrNotFound) {
//		// Cache miss
//	}
package cache

import (
	"context"
	"time"
)

// Cache defines the typed cache operations.
// All implementations must be safe for concurrent use.
type Cache[V any] interface {
	// Get retrieves a value from the cache.
	// Returns ErrNotFound if the key does not exist.
	// Returns ErrClosed if the cache has been closed.
	Get(ctx context.Context, key string) (V, error)

	// SetWithTTL stores a value that stops being retrievable after ttl.
	SetWithTTL(ctx context.Context, key string, value V, ttl time.Duration) error

	// Close releases resources. Close is idempotent; every other operation
	// returns ErrClosed afterwards.
	Close() error
}

// Stats provides cache statistics for observability.
type Stats struct {
	Hits      uint64 `json:"hits"`
	Misses    uint64 `json:"misses"`
	KeyCount  uint64 `json:"key_count"`
	Evictions uint64 `json:"evictions"`
}

// StatsProvider is an optional interface for caches that report statistics.
//
//	if sp, ok := c.(cache.StatsProvider); ok {
//		stats := sp.Stats()
//	}
type StatsProvider interface {
	Stats() Stats
}

// Waiter is an optional interface for caches whose writes become visible
// asynchronously. Wait blocks until earlier writes are applied.
type Waiter interface {
	Wait()
}
