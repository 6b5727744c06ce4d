package auth

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/samber/mo"

	"github.com/omarluq/authgate/internal/users"
)

// BasicAuth resolves principals from an "Authorization: Basic" header.
// The identifier is the user's email address.
type BasicAuth struct {
	store users.Store
	log   zerolog.Logger
}

// Ensure BasicAuth implements Strategy.
var _ Strategy = (*BasicAuth)(nil)

// NewBasicAuth creates a Basic strategy that looks users up in store.
func NewBasicAuth(store users.Store, logger zerolog.Logger) *BasicAuth {
	return &BasicAuth{
		store: store,
		log:   logger.With().Str("auth_type", string(TypeBasic)).Logger(),
	}
}

// Type implements Strategy.
func (b *BasicAuth) Type() Type { return TypeBasic }

// CurrentUser implements Strategy.
func (b *BasicAuth) CurrentUser(ctx context.Context, r *http.Request) mo.Option[users.Principal] {
	decoded, ok := AuthorizationHeader(r).
		FlatMap(ExtractEncodedPart).
		FlatMap(Decode).
		Get()
	if !ok {
		return mo.None[users.Principal]()
	}

	creds, ok := SplitCredentials(decoded).Get()
	if !ok {
		b.log.Debug().Msg("basic credentials without delimiter")
		return mo.None[users.Principal]()
	}

	return b.UserFromCredentials(ctx, creds)
}

// UserFromCredentials returns the user whose email is creds.Identifier if
// creds.Secret is its password.
func (b *BasicAuth) UserFromCredentials(ctx context.Context, creds Credentials) mo.Option[users.Principal] {
	if creds.Identifier == "" || creds.Secret == "" {
		return mo.None[users.Principal]()
	}
	return lookupUser(
		ctx,
		b.store,
		users.Criteria{users.AttrEmail: creds.Identifier},
		func(p users.Principal) bool { return p.ValidatePassword(creds.Secret) },
		&b.log,
	)
}
