package server

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/omarluq/authgate/internal/auth"
	"github.com/omarluq/authgate/internal/config"
	"github.com/omarluq/authgate/internal/session"
	"github.com/omarluq/authgate/internal/users"
)

// Deps are the collaborators the routes need.
type Deps struct {
	Logger   zerolog.Logger
	Config   config.RuntimeConfig
	Auth     auth.Provider
	Store    users.Store
	Sessions *session.Registry
}

// SetupRoutes creates the HTTP handler with all routes configured.
// Routes (each also answers with a trailing slash):
//   - GET  /api/v1/status             - liveness, excluded from auth by default
//   - GET  /api/v1/stats              - user count and user cache counters
//   - GET  /api/v1/unauthorized       - always 401
//   - GET  /api/v1/forbidden          - always 403
//   - GET  /api/v1/users              - every user
//   - GET  /api/v1/users/me           - the authenticated user
//   - GET  /api/v1/users/{id}         - one user
//   - POST /api/v1/auth_session/login - email/password form login
//
// Middleware runs request ID first, then request logging, then auth.
func SetupRoutes(deps Deps) http.Handler {
	h := &handlers{
		store:    deps.Store,
		sessions: deps.Sessions,
		config:   deps.Config,
	}

	mux := http.NewServeMux()
	handle(mux, http.MethodGet, "/api/v1/status", h.status)
	handle(mux, http.MethodGet, "/api/v1/stats", h.stats)
	handle(mux, http.MethodGet, "/api/v1/unauthorized", h.unauthorized)
	handle(mux, http.MethodGet, "/api/v1/forbidden", h.forbidden)
	handle(mux, http.MethodGet, "/api/v1/users", h.listUsers)
	handle(mux, http.MethodGet, "/api/v1/users/me", h.me)
	handle(mux, http.MethodGet, "/api/v1/users/{id}", h.getUser)
	handle(mux, http.MethodPost, "/api/v1/auth_session/login", h.login)
	mux.HandleFunc("/", h.notFound)

	var handler http.Handler = mux
	handler = auth.Middleware(deps.Auth)(handler)
	handler = LoggingMiddleware()(handler)
	handler = RequestIDMiddleware(deps.Logger)(handler)
	return handler
}

// handle registers h for path with and without a trailing slash.
func handle(mux *http.ServeMux, method, path string, h http.HandlerFunc) {
	mux.HandleFunc(method+" "+path, h)
	mux.HandleFunc(method+" "+path+"/{$}", h)
}
