package di

import (
	"fmt"

	"github.com/samber/do/v2"
	"github.com/samber/lo"

	"github.com/omarluq/authgate/internal/cache"
	"github.com/omarluq/authgate/internal/config"
	"github.com/omarluq/authgate/internal/users"
)

// UserStoreService wraps the user store the auth layer searches.
// Lookups go through the cache first, then the breaker, then memory. With
// user_cache disabled the cache layer is a noop that always misses.
type UserStoreService struct {
	Store   users.Store
	Memory  *users.MemoryStore
	Guarded *users.GuardedStore
	Cached  *users.CachedStore
}

// NewUserStore builds the store from the configured users.
func NewUserStore(i do.Injector) (*UserStoreService, error) {
	cfg := do.MustInvoke[*ConfigService](i).Get()
	logger := *do.MustInvoke[*LoggerService](i).Logger

	memory := users.NewMemoryStore(lo.Map(cfg.Users, func(u config.UserConfig, _ int) *users.User {
		return u.ToUser()
	})...)

	svc := &UserStoreService{Store: memory, Memory: memory}

	if cfg.UserBreaker.Enabled {
		svc.Guarded = users.NewGuardedStore(svc.Store, cfg.UserBreaker, logger)
		svc.Store = svc.Guarded
	}

	c, err := cache.New[[]users.Principal](cfg.UserCache.CacheConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to create user cache: %w", err)
	}
	svc.Cached = users.NewCachedStore(svc.Store, c, cfg.UserCache.GetTTL(), logger)
	svc.Store = svc.Cached

	logger.Info().
		Int("users", memory.Len()).
		Bool("cache", cfg.UserCache.IsEnabled()).
		Bool("breaker", svc.Guarded != nil).
		Msg("user store ready")

	return svc, nil
}

// Shutdown implements do.Shutdowner.
func (u *UserStoreService) Shutdown() error {
	return u.Cached.Close()
}
