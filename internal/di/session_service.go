package di

import (
	"github.com/samber/do/v2"

	"github.com/omarluq/authgate/internal/session"
)

// SessionService owns the process-wide session registry.
type SessionService struct {
	Registry *session.Registry
}

// NewSessions creates an empty registry.
func NewSessions(i do.Injector) (*SessionService, error) {
	logger := do.MustInvoke[*LoggerService](i).Logger
	return &SessionService{Registry: session.NewRegistry(session.WithLogger(*logger))}, nil
}
