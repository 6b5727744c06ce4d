package auth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omarluq/authgate/internal/auth"
	"github.com/omarluq/authgate/internal/session"
	"github.com/omarluq/authgate/internal/users"
)

// fixedStrategy resolves every request to the same result and counts calls.
type fixedStrategy struct {
	result mo.Option[users.Principal]
	calls  *int
}

func (f fixedStrategy) CurrentUser(context.Context, *http.Request) mo.Option[users.Principal] {
	*f.calls++
	return f.result
}

func (fixedStrategy) Type() auth.Type { return auth.TypeNone }

func newTestAuthenticator(t *testing.T, typ auth.Type) (*auth.Authenticator, *session.Registry) {
	t.Helper()

	registry := session.NewRegistry()
	strategy, err := auth.NewStrategy(typ, auth.Deps{
		Store:       newUserStore(),
		Sessions:    registry,
		SessionName: testCookie,
		Logger:      zerolog.Nop(),
	})
	require.NoError(t, err)

	return auth.NewAuthenticator(auth.Options{
		Strategies:    []auth.Strategy{strategy},
		ExcludedPaths: auth.NewExcludedPaths("/api/v1/status/", "/api/v1/unauthorized/", "/api/v1/forbidden/"),
		SessionName:   testCookie,
		Logger:        zerolog.Nop(),
	}), registry
}

func TestAuthenticator_Authenticate(t *testing.T) {
	t.Parallel()

	a, _ := newTestAuthenticator(t, auth.TypeBasic)

	tests := []struct {
		name   string
		path   string
		header string
		want   auth.Outcome
	}{
		{name: "excluded path", path: "/api/v1/status", want: auth.OutcomeExcluded},
		{name: "excluded path ignores bad credentials", path: "/api/v1/status/", header: "Basic !!", want: auth.OutcomeExcluded},
		{name: "no credentials", path: "/api/v1/users/me", want: auth.OutcomeUnauthorized},
		{name: "bad credentials", path: "/api/v1/users/me", header: auth.EncodeBasic(testEmail, "nope"), want: auth.OutcomeForbidden},
		{name: "wrong scheme is forbidden", path: "/api/v1/users/me", header: "Bearer abc", want: auth.OutcomeForbidden},
		{name: "valid credentials", path: "/api/v1/users/me", header: auth.EncodeBasic(testEmail, testPassword), want: auth.OutcomeAuthenticated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodGet, tt.path, http.NoBody)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			result := a.Authenticate(context.Background(), req)
			assert.Equal(t, tt.want, result.Outcome, result.Outcome.String())
			assert.Equal(t, tt.want == auth.OutcomeAuthenticated, result.Principal.IsPresent())
		})
	}
}

func TestAuthenticator_NilRequest(t *testing.T) {
	t.Parallel()

	a, _ := newTestAuthenticator(t, auth.TypeSession)
	assert.True(t, a.CurrentUser(context.Background(), nil).IsAbsent())
	assert.Equal(t, auth.OutcomeUnauthorized, a.Authenticate(context.Background(), nil).Outcome)
	assert.False(t, a.HasCredentials(nil))
}

func TestAuthenticator_SessionCookie(t *testing.T) {
	t.Parallel()

	a, registry := newTestAuthenticator(t, auth.TypeSession)
	sid := registry.CreateSession("u-bob").MustGet()

	result := a.Authenticate(context.Background(), cookieRequest(sid))
	require.Equal(t, auth.OutcomeAuthenticated, result.Outcome)
	assert.Equal(t, "u-bob", result.Principal.MustGet().ID())

	assert.Equal(t, auth.OutcomeForbidden, a.Authenticate(context.Background(), cookieRequest("stale")).Outcome)
	assert.Equal(t, []auth.Type{auth.TypeSession}, a.Types())
	assert.Equal(t, testCookie, a.SessionName())
}

func TestAuthenticator_FirstResolvingStrategyWins(t *testing.T) {
	t.Parallel()

	var firstCalls, secondCalls, thirdCalls int
	bob := users.NewUser("u-bob", testEmail, testPassword)

	a := auth.NewAuthenticator(auth.Options{
		Strategies: []auth.Strategy{
			fixedStrategy{result: mo.None[users.Principal](), calls: &firstCalls},
			nil,
			fixedStrategy{result: mo.Some[users.Principal](bob), calls: &secondCalls},
			fixedStrategy{result: mo.None[users.Principal](), calls: &thirdCalls},
		},
		Logger: zerolog.Nop(),
	})

	got := a.CurrentUser(context.Background(), basicRequest(""))
	require.True(t, got.IsPresent())
	assert.Equal(t, "u-bob", got.MustGet().ID())
	assert.Equal(t, 1, firstCalls)
	assert.Equal(t, 1, secondCalls)
	assert.Zero(t, thirdCalls)
	assert.Equal(t, auth.TypeNone, a.Type())
}

func TestAuthenticator_NoStrategies(t *testing.T) {
	t.Parallel()

	a := auth.NewAuthenticator(auth.Options{Logger: zerolog.Nop()})

	assert.True(t, a.RequiresAuth("/api/v1/status"), "no exclusions configured")
	assert.Equal(t, 0, a.ExcludedPaths().Len())
	result := a.Authenticate(context.Background(), basicRequest(auth.EncodeBasic(testEmail, testPassword)))
	assert.Equal(t, auth.OutcomeForbidden, result.Outcome)
}

func TestOutcome_StatusCode(t *testing.T) {
	t.Parallel()

	assert.Zero(t, auth.OutcomeExcluded.StatusCode())
	assert.Zero(t, auth.OutcomeAuthenticated.StatusCode())
	assert.Equal(t, http.StatusUnauthorized, auth.OutcomeUnauthorized.StatusCode())
	assert.Equal(t, http.StatusForbidden, auth.OutcomeForbidden.StatusCode())
	assert.Equal(t, "unknown", auth.Outcome(99).String())
}

func TestPrincipalContext(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	assert.True(t, auth.PrincipalFromContext(ctx).IsAbsent())

	bob := users.NewUser("u-bob", testEmail, testPassword)
	got := auth.PrincipalFromContext(auth.WithPrincipal(ctx, bob))
	require.True(t, got.IsPresent())
	assert.Equal(t, "u-bob", got.MustGet().ID())
}
