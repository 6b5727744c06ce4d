package server

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/omarluq/authgate/internal/auth"
	"github.com/omarluq/authgate/internal/cache"
	"github.com/omarluq/authgate/internal/config"
	"github.com/omarluq/authgate/internal/session"
	"github.com/omarluq/authgate/internal/users"
)

type handlers struct {
	store    users.Store
	sessions *session.Registry
	config   config.RuntimeConfig
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error().Err(err).Msg("failed to write response")
	}
}

func (h *handlers) status(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "OK"})
}

type statsResponse struct {
	UserCache *cache.Stats `json:"user_cache,omitempty"`
	Users     int          `json:"users"`
}

func (h *handlers) stats(w http.ResponseWriter, r *http.Request) {
	all, ok := h.search(w, r, users.Criteria{})
	if !ok {
		return
	}
	resp := statsResponse{Users: len(all)}
	if sp, ok := h.store.(cache.StatsProvider); ok {
		stats := sp.Stats()
		resp.UserCache = &stats
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *handlers) unauthorized(w http.ResponseWriter, _ *http.Request) {
	auth.WriteError(w, http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
}

func (h *handlers) forbidden(w http.ResponseWriter, _ *http.Request) {
	auth.WriteError(w, http.StatusForbidden, http.StatusText(http.StatusForbidden))
}

func (h *handlers) notFound(w http.ResponseWriter, _ *http.Request) {
	auth.WriteError(w, http.StatusNotFound, "Not found")
}

func (h *handlers) listUsers(w http.ResponseWriter, r *http.Request) {
	all, ok := h.search(w, r, users.Criteria{})
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, lo.Map(all, func(p users.Principal, _ int) users.View {
		return users.ViewOf(p)
	}))
}

func (h *handlers) me(w http.ResponseWriter, r *http.Request) {
	p, ok := auth.PrincipalFromContext(r.Context()).Get()
	if !ok {
		h.notFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, users.ViewOf(p))
}

func (h *handlers) getUser(w http.ResponseWriter, r *http.Request) {
	found, ok := h.search(w, r, users.Criteria{users.AttrID: r.PathValue("id")})
	if !ok {
		return
	}
	p, ok := lo.First(found)
	if !ok {
		h.notFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, users.ViewOf(p))
}

// login checks an email/password form, opens a session and sets the
// session cookie.
func (h *handlers) login(w http.ResponseWriter, r *http.Request) {
	email := r.PostFormValue("email")
	if email == "" {
		auth.WriteError(w, http.StatusBadRequest, "email missing")
		return
	}
	password := r.PostFormValue("password")
	if password == "" {
		auth.WriteError(w, http.StatusBadRequest, "password missing")
		return
	}

	cookieName := h.config.Get().Auth.SessionName
	if cookieName == "" || h.sessions == nil {
		auth.WriteError(w, http.StatusNotImplemented, "session authentication not configured")
		return
	}

	found, ok := h.search(w, r, users.Criteria{users.AttrEmail: email})
	if !ok {
		return
	}
	if len(found) == 0 {
		auth.WriteError(w, http.StatusNotFound, "no user found for this email")
		return
	}

	user, ok := lo.Find(found, func(p users.Principal) bool {
		return p.ValidatePassword(password)
	})
	if !ok {
		auth.WriteError(w, http.StatusUnauthorized, "wrong password")
		return
	}

	sessionID, ok := h.sessions.CreateSession(user.ID()).Get()
	if !ok {
		auth.WriteError(w, http.StatusInternalServerError, "could not create session")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    sessionID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	zerolog.Ctx(r.Context()).Info().Str("user_id", user.ID()).Msg("session opened")
	writeJSON(w, http.StatusOK, users.ViewOf(user))
}

// search runs a store lookup and answers 503 itself when the store fails.
func (h *handlers) search(w http.ResponseWriter, r *http.Request, criteria users.Criteria) ([]users.Principal, bool) {
	found, err := h.store.Search(r.Context(), criteria)
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("user store lookup failed")
		auth.WriteError(w, http.StatusServiceUnavailable, "user store unavailable")
		return nil, false
	}
	return found, true
}
