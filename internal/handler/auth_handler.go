package handler

import (
	"crypto/rand"
	"encoding/base64"
	"io"
	"net/http"
	"time"

	"basalt-wiki/internal/auth"
	"basalt-wiki/internal/data"
	"basalt-wiki/internal/session"

	"github.com/casbin/casbin/v2"
)

// AuthHandler holds the dependencies for the authentication handlers.
type AuthHandler struct {
	auth     *auth.Authenticator
	sessions session.Manager
	enforcer *casbin.Enforcer
	users    *data.UserRepository
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(a *auth.Authenticator, sm session.Manager, e *casbin.Enforcer, users *data.UserRepository) *AuthHandler {
	return &AuthHandler{auth: a, sessions: sm, enforcer: e, users: users}
}

// handleLogin redirects the user to the OIDC provider to log in.
// It uses a random 'state' string for CSRF protection.
func (h *AuthHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	state, err := randString(16)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	// Store the state in a short-lived cookie to verify on callback.
	http.SetCookie(w, &http.Cookie{
		Name:     "state",
		Value:    state,
		Path:     "/",
		MaxAge:   int(10 * time.Minute / time.Second),
		HttpOnly: true,
		Secure:   r.TLS != nil,
	})
	http.Redirect(w, r, h.auth.AuthCodeURL(state), http.StatusFound)
}

// handleCallback is the redirect URL for the OIDC provider. It exchanges
// the code, verifies the ID token, upserts the local user row and binds
// the identity to the server-side session.
func (h *AuthHandler) handleCallback(w http.ResponseWriter, r *http.Request) {
	// Verify the state parameter to prevent CSRF attacks.
	stateCookie, err := r.Cookie("state")
	if err != nil {
		http.Error(w, "state cookie not found", http.StatusBadRequest)
		return
	}
	if r.URL.Query().Get("state") != stateCookie.Value {
		http.Error(w, "state did not match", http.StatusBadRequest)
		return
	}

	// Exchange the authorization code for an OAuth2 token.
	oauth2Token, err := h.auth.Exchange(r.Context(), r.URL.Query().Get("code"))
	if err != nil {
		http.Error(w, "Failed to exchange token: "+err.Error(), http.StatusInternalServerError)
		return
	}

	// Extract the ID Token from the OAuth2 token.
	rawIDToken, ok := oauth2Token.Extra("id_token").(string)
	if !ok {
		http.Error(w, "No id_token field in oauth2 token", http.StatusInternalServerError)
		return
	}

	// Verify the ID Token's signature and claims.
	// The OIDC library internally checks the nonce, issuer, audience, and expiry.
	claims, err := h.auth.VerifyAndExtract(r.Context(), rawIDToken)
	if err != nil {
		http.Error(w, "Failed to verify ID Token: "+err.Error(), http.StatusInternalServerError)
		return
	}

	user, err := h.users.Upsert(r.Context(), &data.User{
		Subject: claims.Subject,
		Name:    claims.Name,
		Email:   claims.Email,
		Picture: claims.Picture,
	})
	if err != nil {
		http.Error(w, "Failed to store user", http.StatusInternalServerError)
		return
	}

	// Every logged-in subject gets the "user" role.
	if has, _ := h.enforcer.HasRoleForUser(claims.Subject, "user"); !has {
		if _, err := h.enforcer.AddRoleForUser(claims.Subject, "user"); err != nil {
			http.Error(w, "Failed to grant role", http.StatusInternalServerError)
			return
		}
	}

	// Rotate the session token on privilege change.
	if err := h.sessions.RenewToken(r.Context()); err != nil {
		http.Error(w, "Failed to renew session", http.StatusInternalServerError)
		return
	}
	h.sessions.Put(r.Context(), "user_subject", user.Subject)
	h.sessions.Put(r.Context(), "user_id", user.ID)
	h.sessions.Put(r.Context(), "user_name", user.Name)

	// Redirect user to the home page after successful login.
	http.Redirect(w, r, "/", http.StatusFound)
}

// handleLogout destroys the session and returns to the home page.
func (h *AuthHandler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Destroy(r.Context()); err != nil {
		http.Error(w, "Failed to destroy session", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

// randString is a helper function to generate a random string for the 'state' parameter.
func randString(nByte int) (string, error) {
	b := make([]byte, nByte)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
