// Package session keeps the in-process mapping from opaque session ids to
// user ids used by session-cookie authentication.
package session

import (
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/samber/mo"
)

// Registry maps session ids to user ids.
//
// Entries are created, never removed, and live for the lifetime of the
// process. A Registry is safe for concurrent use.
type Registry struct {
	userIDBySessionID map[string]string
	newID             func() string
	log               zerolog.Logger
	mu                sync.RWMutex
}

// Option configures a Registry.
type Option func(*Registry)

// WithIDGenerator replaces the random session id generator.
func WithIDGenerator(fn func() string) Option {
	return func(r *Registry) {
		if fn != nil {
			r.newID = fn
		}
	}
}

// WithLogger sets the registry logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(r *Registry) {
		r.log = logger.With().Str("component", "session_registry").Logger()
	}
}

// NewRegistry creates an empty registry issuing random UUIDv4 session ids.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		userIDBySessionID: make(map[string]string),
		newID:             uuid.NewString,
		log:               zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// maxIDAttempts bounds how many ids CreateSession draws before giving up.
const maxIDAttempts = 8

// CreateSession issues a fresh session id for userID.
// It returns None when userID is empty or the generator keeps returning
// empty or taken ids.
func (r *Registry) CreateSession(userID string) mo.Option[string] {
	if userID == "" {
		return mo.None[string]()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for range maxIDAttempts {
		sessionID := r.newID()
		if _, taken := r.userIDBySessionID[sessionID]; taken || sessionID == "" {
			continue
		}
		r.userIDBySessionID[sessionID] = userID

		r.log.Debug().Str("user_id", userID).Msg("session created")
		return mo.Some(sessionID)
	}

	r.log.Warn().Str("user_id", userID).Int("attempts", maxIDAttempts).Msg("no free session id")
	return mo.None[string]()
}

// UserIDForSession returns the user id a session was created for.
// It returns None for an empty or unknown session id.
func (r *Registry) UserIDForSession(sessionID string) mo.Option[string] {
	if sessionID == "" {
		return mo.None[string]()
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	userID, ok := r.userIDBySessionID[sessionID]
	if !ok {
		return mo.None[string]()
	}
	return mo.Some(userID)
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.userIDBySessionID)
}
