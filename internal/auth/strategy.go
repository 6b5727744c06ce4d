package auth

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/omarluq/authgate/internal/session"
	"github.com/omarluq/authgate/internal/users"
)

// Deps are the collaborators strategies may need.
type Deps struct {
	Store       users.Store
	Sessions    *session.Registry
	SessionName string
	Logger      zerolog.Logger
}

// NewStrategy builds the strategy named by t.
func NewStrategy(t Type, deps Deps) (Strategy, error) {
	switch t {
	case TypeNone:
		return NoAuth{}, nil
	case TypeBasic:
		if deps.Store == nil {
			return nil, fmt.Errorf("auth: %s requires a user store", t)
		}
		return NewBasicAuth(deps.Store, deps.Logger), nil
	case TypeSession:
		if deps.Store == nil || deps.Sessions == nil {
			return nil, fmt.Errorf("auth: %s requires a user store and a session registry", t)
		}
		return NewSessionAuth(deps.Sessions, deps.Store, deps.SessionName, deps.Logger), nil
	default:
		return nil, fmt.Errorf("auth: unknown type %q", t)
	}
}
