package users

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"
)

// Default breaker settings.
const (
	DefaultFailureThreshold = 5
	DefaultOpenDurationMS   = 30000
	DefaultHalfOpenProbes   = 1
)

// BreakerConfig defines how GuardedStore trips.
type BreakerConfig struct {
	// FailureThreshold is the number of consecutive lookup errors that open
	// the breaker. Default: 5
	FailureThreshold int `yaml:"failure_threshold" toml:"failure_threshold"`

	// OpenDurationMS is how long the breaker stays open before probing.
	// Default: 30000
	OpenDurationMS int `yaml:"open_duration_ms" toml:"open_duration_ms"`

	// HalfOpenProbes is the number of lookups let through while half-open.
	// Default: 1
	HalfOpenProbes int `yaml:"half_open_probes" toml:"half_open_probes"`

	// Enabled turns the breaker on.
	Enabled bool `yaml:"enabled" toml:"enabled"`
}

// GetFailureThreshold returns the configured threshold or the default.
func (c *BreakerConfig) GetFailureThreshold() int {
	if c.FailureThreshold <= 0 {
		return DefaultFailureThreshold
	}
	return c.FailureThreshold
}

// GetOpenDuration returns the open duration or the default.
func (c *BreakerConfig) GetOpenDuration() time.Duration {
	if c.OpenDurationMS <= 0 {
		return time.Duration(DefaultOpenDurationMS) * time.Millisecond
	}
	return time.Duration(c.OpenDurationMS) * time.Millisecond
}

// GetHalfOpenProbes returns the configured probe count or the default.
func (c *BreakerConfig) GetHalfOpenProbes() int {
	if c.HalfOpenProbes <= 0 {
		return DefaultHalfOpenProbes
	}
	return c.HalfOpenProbes
}

// BreakerState is the state of a GuardedStore's breaker.
type BreakerState = gobreaker.State

// GuardedStore fails lookups fast while the wrapped store keeps erroring.
// While open, Search returns ErrCircuitOpen without calling the store, which
// the auth layer treats like any other lookup failure.
type GuardedStore struct {
	next Store
	cb   *gobreaker.CircuitBreaker[[]Principal]
}

// Ensure GuardedStore implements Store.
var _ Store = (*GuardedStore)(nil)

// NewGuardedStore wraps next with a circuit breaker.
func NewGuardedStore(next Store, cfg BreakerConfig, logger zerolog.Logger) *GuardedStore {
	threshold := uint32(cfg.GetFailureThreshold()) //nolint:gosec // positive by construction

	settings := gobreaker.Settings{
		Name:        "user-store",
		MaxRequests: uint32(cfg.GetHalfOpenProbes()), //nolint:gosec // positive by construction
		Timeout:     cfg.GetOpenDuration(),
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			event := logger.Info()
			if to == gobreaker.StateOpen {
				event = logger.Warn()
			}
			event.
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("circuit breaker state change")
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
	}

	return &GuardedStore{
		next: next,
		cb:   gobreaker.NewCircuitBreaker[[]Principal](settings),
	}
}

// Search implements Store.
func (g *GuardedStore) Search(ctx context.Context, criteria Criteria) ([]Principal, error) {
	found, err := g.cb.Execute(func() ([]Principal, error) {
		return g.next.Search(ctx, criteria)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, ErrCircuitOpen
	}
	return found, err
}

// State returns the current breaker state.
func (g *GuardedStore) State() BreakerState {
	return g.cb.State()
}
