package users

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/omarluq/authgate/internal/cache"
)

// DefaultCacheTTL is used when a CachedStore is built with a non-positive TTL.
const DefaultCacheTTL = time.Minute

// CachedStore memoizes successful, non-empty lookups of another Store.
//
// Errors and empty results are never cached: a user created after a miss
// becomes visible on the next lookup. Cached principals still validate
// secrets themselves, so caching never widens what a lookup grants.
type CachedStore struct {
	next  Store
	cache cache.Cache[[]Principal]
	log   zerolog.Logger
	ttl   time.Duration
}

var (
	_ Store               = (*CachedStore)(nil)
	_ cache.StatsProvider = (*CachedStore)(nil)
)

// NewCachedStore wraps next with a lookup cache.
func NewCachedStore(next Store, c cache.Cache[[]Principal], ttl time.Duration, logger zerolog.Logger) *CachedStore {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &CachedStore{
		next:  next,
		cache: c,
		ttl:   ttl,
		log:   logger.With().Str("component", "user_cache").Logger(),
	}
}

// Search implements Store.
func (s *CachedStore) Search(ctx context.Context, criteria Criteria) ([]Principal, error) {
	key := criteria.Key()

	cached, err := s.cache.Get(ctx, key)
	switch {
	case err == nil:
		return cached, nil
	case errors.Is(err, cache.ErrNotFound):
	default:
		// A broken cache must not break lookups.
		s.log.Debug().Err(err).Msg("user cache read failed")
	}

	found, err := s.next.Search(ctx, criteria)
	if err != nil || len(found) == 0 {
		return found, err
	}

	if err := s.cache.SetWithTTL(ctx, key, found, s.ttl); err != nil {
		s.log.Debug().Err(err).Msg("user cache write failed")
	}
	return found, nil
}

// Stats reports the lookup cache counters, all zero when the backend keeps
// none.
func (s *CachedStore) Stats() cache.Stats {
	if sp, ok := s.cache.(cache.StatsProvider); ok {
		return sp.Stats()
	}
	return cache.Stats{}
}

// Close closes the underlying cache.
func (s *CachedStore) Close() error {
	return s.cache.Close()
}
