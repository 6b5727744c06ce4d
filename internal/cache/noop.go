package cache

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// noopCache stores nothing. Writes succeed and reads miss.
type noopCache[V any] struct {
	log    zerolog.Logger
	closed atomic.Bool
}

func newNoopCache[V any]() *noopCache[V] {
	log := logger().With().Str("backend", "noop").Logger()
	log.Debug().Str("note", "caching is disabled").Msg("noop cache created")
	return &noopCache[V]{log: log}
}

func (c *noopCache[V]) Get(_ context.Context, _ string) (V, error) {
	var zero V
	if c.closed.Load() {
		return zero, ErrClosed
	}
	return zero, ErrNotFound
}

func (c *noopCache[V]) SetWithTTL(_ context.Context, _ string, _ V, _ time.Duration) error {
	if c.closed.Load() {
		return ErrClosed
	}
	return nil
}

// Close marks the cache as closed. It is idempotent.
func (c *noopCache[V]) Close() error {
	c.closed.Store(true)
	return nil
}

// Stats always reports zeroes.
func (c *noopCache[V]) Stats() Stats {
	return Stats{}
}

var (
	_ Cache[struct{}] = (*noopCache[struct{}])(nil)
	_ StatsProvider   = (*noopCache[struct{}])(nil)
)
