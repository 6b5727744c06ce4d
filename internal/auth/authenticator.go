package auth

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"github.com/samber/mo"

	"github.com/omarluq/authgate/internal/users"
)

// Outcome is the terminal state of authenticating one request.
type Outcome int

const (
	// OutcomeExcluded means the path needs no authentication.
	OutcomeExcluded Outcome = iota
	// OutcomeUnauthorized means no credential was presented.
	OutcomeUnauthorized
	// OutcomeForbidden means a credential was presented but did not resolve.
	OutcomeForbidden
	// OutcomeAuthenticated means the request resolved to a principal.
	OutcomeAuthenticated
)

// String returns the outcome name used in logs.
func (o Outcome) String() string {
	switch o {
	case OutcomeExcluded:
		return "excluded"
	case OutcomeUnauthorized:
		return "unauthorized"
	case OutcomeForbidden:
		return "forbidden"
	case OutcomeAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// StatusCode returns the HTTP status a rejected request is answered with,
// or 0 when the request may proceed.
func (o Outcome) StatusCode() int {
	switch o {
	case OutcomeUnauthorized:
		return http.StatusUnauthorized
	case OutcomeForbidden:
		return http.StatusForbidden
	default:
		return 0
	}
}

// Result contains the outcome of an authentication attempt.
type Result struct {
	Principal mo.Option[users.Principal]
	Outcome   Outcome
}

// Allowed reports whether the request may proceed.
func (r Result) Allowed() bool {
	return r.Outcome == OutcomeExcluded || r.Outcome == OutcomeAuthenticated
}

// Options configure an Authenticator.
type Options struct {
	Logger        zerolog.Logger
	ExcludedPaths *ExcludedPaths
	SessionName   string
	Strategies    []Strategy
}

// Authenticator composes strategies behind one path policy. Strategies are
// tried in order and the first one that resolves a principal wins.
// An Authenticator is immutable and safe for concurrent use.
type Authenticator struct {
	excluded    *ExcludedPaths
	log         zerolog.Logger
	sessionName string
	strategies  []Strategy
}

// Ensure Authenticator implements Strategy.
var _ Strategy = (*Authenticator)(nil)

// NewAuthenticator creates an Authenticator. Nil strategies are dropped.
func NewAuthenticator(opts Options) *Authenticator {
	excluded := opts.ExcludedPaths
	if excluded == nil {
		excluded = NewExcludedPaths()
	}
	return &Authenticator{
		excluded:    excluded,
		log:         opts.Logger.With().Str("component", "authenticator").Logger(),
		sessionName: opts.SessionName,
		strategies:  lo.Compact(opts.Strategies),
	}
}

// Type returns TypeNone since this is a meta-strategy.
func (a *Authenticator) Type() Type { return TypeNone }

// Types returns the configured strategy types in evaluation order.
func (a *Authenticator) Types() []Type {
	return lo.Map(a.strategies, func(s Strategy, _ int) Type { return s.Type() })
}

// ExcludedPaths returns the path rules this authenticator was built with.
func (a *Authenticator) ExcludedPaths() *ExcludedPaths { return a.excluded }

// SessionName returns the session cookie name.
func (a *Authenticator) SessionName() string { return a.sessionName }

// RequiresAuth reports whether path needs authentication.
func (a *Authenticator) RequiresAuth(path string) bool {
	return RequiresAuth(path, a.excluded)
}

// HasCredentials reports whether r carries an Authorization header or a
// session cookie.
func (a *Authenticator) HasCredentials(r *http.Request) bool {
	return AuthorizationHeader(r).IsPresent() || SessionCookie(r, a.sessionName).IsPresent()
}

// CurrentUser implements Strategy.
func (a *Authenticator) CurrentUser(ctx context.Context, r *http.Request) mo.Option[users.Principal] {
	if r == nil {
		return mo.None[users.Principal]()
	}

	// Once a principal is found the remaining strategies are skipped.
	return lo.Reduce(a.strategies, func(acc mo.Option[users.Principal], s Strategy, _ int) mo.Option[users.Principal] {
		if acc.IsPresent() {
			return acc
		}
		return s.CurrentUser(ctx, r)
	}, mo.None[users.Principal]())
}

// Authenticate runs the full decision for r: path policy, credential
// presence, then principal resolution.
func (a *Authenticator) Authenticate(ctx context.Context, r *http.Request) Result {
	if r == nil {
		return Result{Outcome: OutcomeUnauthorized, Principal: mo.None[users.Principal]()}
	}
	if !a.RequiresAuth(requestPath(r)) {
		return Result{Outcome: OutcomeExcluded, Principal: mo.None[users.Principal]()}
	}
	if !a.HasCredentials(r) {
		return Result{Outcome: OutcomeUnauthorized, Principal: mo.None[users.Principal]()}
	}

	principal := a.CurrentUser(ctx, r)
	if principal.IsAbsent() {
		return Result{Outcome: OutcomeForbidden, Principal: principal}
	}
	return Result{Outcome: OutcomeAuthenticated, Principal: principal}
}

func requestPath(r *http.Request) string {
	if r.URL == nil {
		return ""
	}
	return r.URL.Path
}
