// Package auth decides whether a request needs authentication and resolves
// it to a users.Principal through interchangeable strategies: none, Basic
// credentials and session cookies.
//
// Nothing in this package returns an error. Every failure is an absent
// principal or "authentication required", so ambiguity always resolves
// toward denying access.
package auth

import (
	"context"
	"net/http"

	"github.com/samber/mo"

	"github.com/omarluq/authgate/internal/users"
)

// Type represents the authentication strategy.
type Type string

const (
	// TypeNone never resolves a principal.
	TypeNone Type = "none"
	// TypeBasic resolves principals from an Authorization: Basic header.
	TypeBasic Type = "basic_auth"
	// TypeSession resolves principals from a session cookie.
	TypeSession Type = "session_auth"
)

// Valid reports whether t names a known strategy.
func (t Type) Valid() bool {
	switch t {
	case TypeNone, TypeBasic, TypeSession:
		return true
	default:
		return false
	}
}

// Strategy resolves a request to the principal it was made by.
type Strategy interface {
	// CurrentUser returns the authenticated principal, or None when the
	// request is nil or carries no valid credential.
	CurrentUser(ctx context.Context, r *http.Request) mo.Option[users.Principal]

	// Type returns the strategy type.
	Type() Type
}

// NoAuth is the base strategy. It never resolves a principal.
type NoAuth struct{}

// CurrentUser implements Strategy.
func (NoAuth) CurrentUser(context.Context, *http.Request) mo.Option[users.Principal] {
	return mo.None[users.Principal]()
}

// Type implements Strategy.
func (NoAuth) Type() Type { return TypeNone }
