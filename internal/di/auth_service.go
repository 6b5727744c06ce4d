package di

import (
	"sync/atomic"

	"github.com/rs/zerolog"
	"github.com/samber/do/v2"

	"github.com/omarluq/authgate/internal/auth"
	"github.com/omarluq/authgate/internal/config"
	"github.com/omarluq/authgate/internal/session"
	"github.com/omarluq/authgate/internal/users"
)

// AuthService holds the authenticator for the configured auth type and
// swaps it when the config is reloaded.
type AuthService struct {
	current  atomic.Pointer[auth.Authenticator]
	store    users.Store
	sessions *session.Registry
	log      zerolog.Logger
}

// NewAuth builds the authenticator from the current config and rebuilds it
// on every reload.
func NewAuth(i do.Injector) (*AuthService, error) {
	cfgSvc := do.MustInvoke[*ConfigService](i)
	logger := *do.MustInvoke[*LoggerService](i).Logger
	storeSvc := do.MustInvoke[*UserStoreService](i)
	sessSvc := do.MustInvoke[*SessionService](i)

	svc := &AuthService{
		store:    storeSvc.Store,
		sessions: sessSvc.Registry,
		log:      logger.With().Str("component", "auth").Logger(),
	}

	a, err := svc.Build(cfgSvc.Get())
	if err != nil {
		return nil, err
	}
	svc.current.Store(a)

	cfgSvc.OnReload(func(cfg *config.Config) error {
		next, err := svc.Build(cfg)
		if err != nil {
			svc.log.Error().Err(err).Msg("auth rebuild failed, keeping previous authenticator")
			return err
		}
		svc.current.Store(next)
		svc.log.Info().Str("type", cfg.Auth.Type).Msg("authenticator reloaded")
		return nil
	})

	return svc, nil
}

// Build creates the authenticator described by cfg. It returns nil when no
// auth type is configured.
func (s *AuthService) Build(cfg *config.Config) (*auth.Authenticator, error) {
	if !cfg.Auth.IsEnabled() {
		s.log.Warn().Msg("authentication disabled")
		return nil, nil
	}

	t := auth.Type(cfg.Auth.Type)
	if t == auth.TypeSession && cfg.Auth.SessionName == "" {
		s.log.Warn().Msg("session_auth without a session name, every session lookup will fail")
	}

	strategy, err := auth.NewStrategy(t, auth.Deps{
		Store:       s.store,
		Sessions:    s.sessions,
		SessionName: cfg.Auth.SessionName,
		Logger:      s.log,
	})
	if err != nil {
		return nil, err
	}

	return auth.NewAuthenticator(auth.Options{
		Logger:        s.log,
		ExcludedPaths: auth.NewExcludedPaths(cfg.Auth.ExcludedPaths...),
		SessionName:   cfg.Auth.SessionName,
		Strategies:    []auth.Strategy{strategy},
	}), nil
}

// Current returns the active authenticator, nil when auth is disabled.
// It satisfies auth.Provider.
func (s *AuthService) Current() *auth.Authenticator {
	return s.current.Load()
}
