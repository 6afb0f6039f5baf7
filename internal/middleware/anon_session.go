package middleware

import (
	"net/http"

	"github.com/google/uuid"
)

// AnonSessionCookie is the cookie carrying the opaque identifier that
// tracks likes from anonymous browsers.
const AnonSessionCookie = "anon_session"

const anonSessionMaxAge = 365 * 24 * 60 * 60

// AnonSession sets an anonymous session identifier cookie on first
// visit. The identifier is opaque and never interpreted; it only groups
// likes from the same browser. The cookie is set on the response, so the
// current request still reads as having no session id — callers that
// require one (like toggling) reject the request and the retry carries it.
func AnonSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := r.Cookie(AnonSessionCookie); err != nil {
			http.SetCookie(w, &http.Cookie{
				Name:     AnonSessionCookie,
				Value:    "anon_" + uuid.NewString(),
				Path:     "/",
				MaxAge:   anonSessionMaxAge,
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
				Secure:   r.TLS != nil,
			})
		}
		next.ServeHTTP(w, r)
	})
}

// AnonSessionID returns the request's anonymous session identifier, or
// an empty string when the cookie is absent.
func AnonSessionID(r *http.Request) string {
	cookie, err := r.Cookie(AnonSessionCookie)
	if err != nil {
		return ""
	}
	return cookie.Value
}
