// Package users defines the user-store collaborator the auth layer resolves
// principals through, plus an in-memory store and two Store decorators: a
// lookup cache and a circuit breaker.
package users

import (
	"context"
	"errors"
	"net/url"
)

// Attribute names understood by Search criteria.
const (
	AttrID        = "id"
	AttrEmail     = "email"
	AttrFirstName = "first_name"
	AttrLastName  = "last_name"
)

// Errors returned by stores.
var (
	// ErrCircuitOpen is returned by GuardedStore while the breaker is open.
	ErrCircuitOpen = errors.New("users: store circuit open")

	// ErrStoreClosed is returned after a store has been closed.
	ErrStoreClosed = errors.New("users: store closed")
)

// Principal is an authenticated (or authenticatable) user.
type Principal interface {
	// ID returns the stable user identifier.
	ID() string

	// ValidatePassword reports whether secret matches the stored credential.
	ValidatePassword(secret string) bool
}

// Criteria selects users by attribute equality. An empty Criteria matches
// every user.
type Criteria map[string]string

// Key returns a canonical, order-independent encoding of the criteria.
func (c Criteria) Key() string {
	values := make(url.Values, len(c))
	for k, v := range c {
		values.Set(k, v)
	}
	return values.Encode()
}

// Store looks users up by attribute.
type Store interface {
	// Search returns every user matching all criteria. No match is an empty
	// result, not an error.
	Search(ctx context.Context, criteria Criteria) ([]Principal, error)
}
