package auth

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"
)

// Provider returns the authenticator for the current request. A nil
// authenticator disables authentication.
type Provider func() *Authenticator

// ErrorResponse is the JSON body of a rejected request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Middleware returns HTTP middleware enforcing a.
func (a *Authenticator) Middleware() func(http.Handler) http.Handler {
	return Middleware(func() *Authenticator { return a })
}

// Middleware returns HTTP middleware that authenticates every request with
// the authenticator returned by current. Excluded paths pass through.
// Requests without credentials get 401, requests whose credentials do not
// resolve get 403, and authenticated requests carry their principal in the
// request context.
func Middleware(current Provider) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			a := current()
			if a == nil {
				next.ServeHTTP(w, r)
				return
			}
			a.Serve(w, r, next)
		})
	}
}

// Serve authenticates r and either rejects it or hands it to next.
func (a *Authenticator) Serve(w http.ResponseWriter, r *http.Request, next http.Handler) {
	ctx := r.Context()
	result := a.Authenticate(ctx, r)
	log := zerolog.Ctx(ctx)

	if !result.Allowed() {
		log.Warn().
			Str("path", r.URL.Path).
			Str("outcome", result.Outcome.String()).
			Msg("authentication failed")
		WriteError(w, result.Outcome.StatusCode(), http.StatusText(result.Outcome.StatusCode()))
		return
	}

	if p, ok := result.Principal.Get(); ok {
		log.Debug().Str("user_id", p.ID()).Msg("authentication succeeded")
		r = r.WithContext(WithPrincipal(ctx, p))
	}
	next.ServeHTTP(w, r)
}

// WriteError writes a JSON error body with the given status.
func WriteError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck // the status line is already written
	json.NewEncoder(w).Encode(ErrorResponse{Error: message})
}
