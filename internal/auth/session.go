package auth

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/samber/mo"

	"github.com/omarluq/authgate/internal/session"
	"github.com/omarluq/authgate/internal/users"
)

// SessionAuth resolves principals from a session cookie issued by a
// session.Registry.
type SessionAuth struct {
	registry   *session.Registry
	store      users.Store
	cookieName string
	log        zerolog.Logger
}

// Ensure SessionAuth implements Strategy.
var _ Strategy = (*SessionAuth)(nil)

// NewSessionAuth creates a session strategy reading the cookie cookieName.
// With an empty cookieName no request ever resolves.
func NewSessionAuth(
	registry *session.Registry,
	store users.Store,
	cookieName string,
	logger zerolog.Logger,
) *SessionAuth {
	return &SessionAuth{
		registry:   registry,
		store:      store,
		cookieName: cookieName,
		log:        logger.With().Str("auth_type", string(TypeSession)).Logger(),
	}
}

// Type implements Strategy.
func (s *SessionAuth) Type() Type { return TypeSession }

// CookieName returns the configured session cookie name.
func (s *SessionAuth) CookieName() string { return s.cookieName }

// CurrentUser implements Strategy.
func (s *SessionAuth) CurrentUser(ctx context.Context, r *http.Request) mo.Option[users.Principal] {
	if s.registry == nil {
		return mo.None[users.Principal]()
	}

	userID, ok := SessionCookie(r, s.cookieName).
		FlatMap(s.registry.UserIDForSession).
		Get()
	if !ok {
		return mo.None[users.Principal]()
	}

	return lookupUser(
		ctx,
		s.store,
		users.Criteria{users.AttrID: userID},
		func(users.Principal) bool { return true },
		&s.log,
	)
}
