package auth

import (
	"context"

	"github.com/samber/mo"

	"github.com/omarluq/authgate/internal/users"
)

type principalKey struct{}

// WithPrincipal returns a copy of ctx carrying p.
func WithPrincipal(ctx context.Context, p users.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromContext returns the principal stored by WithPrincipal.
func PrincipalFromContext(ctx context.Context) mo.Option[users.Principal] {
	p, ok := ctx.Value(principalKey{}).(users.Principal)
	if !ok || p == nil {
		return mo.None[users.Principal]()
	}
	return mo.Some(p)
}
