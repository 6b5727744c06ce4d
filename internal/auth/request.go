package auth

import (
	"net/http"

	"github.com/samber/mo"
)

// AuthorizationHeaderName is the header Basic credentials are read from.
const AuthorizationHeaderName = "Authorization"

// AuthorizationHeader returns the Authorization header of r.
func AuthorizationHeader(r *http.Request) mo.Option[string] {
	if r == nil {
		return mo.None[string]()
	}
	return nonEmpty(r.Header.Get(AuthorizationHeaderName))
}

// SessionCookie returns the value of the cookie called name.
// It is None when r, name or the cookie value is empty.
func SessionCookie(r *http.Request, name string) mo.Option[string] {
	if r == nil || name == "" {
		return mo.None[string]()
	}
	cookie, err := r.Cookie(name)
	if err != nil {
		return mo.None[string]()
	}
	return nonEmpty(cookie.Value)
}

func nonEmpty(s string) mo.Option[string] {
	if s == "" {
		return mo.None[string]()
	}
	return mo.Some(s)
}
