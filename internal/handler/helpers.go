package handler

import (
	"errors"
	"net/http"

	"basalt-wiki/internal/middleware"
	"basalt-wiki/internal/service"
)

// statusFor maps service sentinel errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrIdentityRequired):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, service.ErrSlugExists), errors.Is(err, service.ErrCategoryNotEmpty):
		return http.StatusConflict
	case errors.Is(err, service.ErrEmptyComment):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// appError wraps a service error into an AppError with the mapped status.
func appError(err error, msg string) *middleware.AppError {
	return &middleware.AppError{Error: err, Message: msg, Code: statusFor(err)}
}

// resolveViewer applies the like-identity resolution order for a
// request: an authenticated user wins, otherwise the anonymous session
// cookie, otherwise the viewer is unidentified.
func resolveViewer(r *http.Request) service.Viewer {
	userInfo := middleware.GetUserInfo(r.Context())
	if userInfo.Authenticated() {
		return service.AuthenticatedViewer(userInfo.UserID)
	}
	return service.AnonymousViewer(middleware.AnonSessionID(r))
}

// isHTMX reports whether the request came from HTMX and full-page
// behavior should be replaced by partial swaps.
func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}
