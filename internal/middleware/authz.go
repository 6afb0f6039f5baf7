package middleware

import (
	"net/http"

	"basalt-wiki/internal/session"

	"github.com/casbin/casbin/v2"
)

// Authorizer creates a new middleware for authorization.
// It resolves the request's subject from the session, attaches the user
// info to the context, and enforces the Casbin policy for the route.
func Authorizer(e *casbin.Enforcer, sm session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Get the user's subject from the session.
			// If not present, it will be an empty string.
			subject := sm.GetString(r.Context(), "user_subject")
			if subject == "" {
				subject = "anonymous"
			}

			userInfo := &UserInfo{Subject: subject}
			if subject != "anonymous" {
				userInfo.UserID = sm.GetInt64(r.Context(), "user_id")
				userInfo.Name = sm.GetString(r.Context(), "user_name")
				isAdmin, err := e.HasRoleForUser(subject, "admin")
				if err == nil {
					userInfo.IsAdmin = isAdmin
				}
			}
			r = r.WithContext(SetUserInfo(r.Context(), userInfo))

			// Use Casbin to enforce the policy.
			allowed, err := e.Enforce(subject, r.URL.Path, r.Method)
			if err != nil {
				http.Error(w, "Authorization error", http.StatusInternalServerError)
				return
			}

			if !allowed {
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
