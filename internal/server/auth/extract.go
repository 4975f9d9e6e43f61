package auth

import (
	"net/http"
	"strings"
)

// CookieName is the cookie the session token travels in.
const CookieName = "token"

// TokenFromRequest pulls a bearer token out of r, checking the token cookie
// first and the Authorization header second. The cookie wins when both are
// present. ok is false when no credential is found at all; absence is a
// normal state, distinct from an invalid token.
func TokenFromRequest(r *http.Request) (token string, ok bool) {
	if c, err := r.Cookie(CookieName); err == nil && c.Value != "" {
		return c.Value, true
	}

	h := r.Header.Get("Authorization")
	if v, found := strings.CutPrefix(h, "Bearer "); found && v != "" {
		return v, true
	}

	return "", false
}
