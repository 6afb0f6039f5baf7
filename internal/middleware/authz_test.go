//go:build unit

package middleware

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"basalt-wiki/internal/auth"
	"basalt-wiki/internal/config"
	"basalt-wiki/internal/logger"

	"github.com/casbin/casbin/v2"
)

// stubSessionManager backs the session.Manager interface with a plain map so
// the authorizer can be exercised without a real session store.
type stubSessionManager struct {
	values map[string]interface{}
}

func (s *stubSessionManager) LoadAndSave(next http.Handler) http.Handler { return next }
func (s *stubSessionManager) Put(ctx context.Context, key string, val interface{}) {
	s.values[key] = val
}

func (s *stubSessionManager) GetString(ctx context.Context, key string) string {
	v, _ := s.values[key].(string)
	return v
}

func (s *stubSessionManager) GetInt64(ctx context.Context, key string) int64 {
	v, _ := s.values[key].(int64)
	return v
}

func (s *stubSessionManager) PopString(ctx context.Context, key string) string {
	v := s.GetString(ctx, key)
	delete(s.values, key)
	return v
}

func (s *stubSessionManager) Destroy(ctx context.Context) error  { return nil }
func (s *stubSessionManager) Remove(ctx context.Context, key string) { delete(s.values, key) }
func (s *stubSessionManager) RenewToken(ctx context.Context) error   { return nil }

func newTestEnforcer(t *testing.T) *casbin.Enforcer {
	t.Helper()

	e, err := casbin.NewEnforcer("../../configs/auth_model.conf")
	if err != nil {
		t.Fatalf("creating enforcer: %v", err)
	}

	log := logger.New(config.LogConfig{Level: "error", Format: "json"}, io.Discard)
	auth.SeedDefaultPolicies(e, []string{"oidc|root"}, log)

	if _, err := e.AddRoleForUser("oidc|alice", "user"); err != nil {
		t.Fatalf("granting user role: %v", err)
	}
	return e
}

func TestAuthorizer_PolicyMatrix(t *testing.T) {
	e := newTestEnforcer(t)

	tests := []struct {
		name     string
		subject  string
		method   string
		path     string
		wantCode int
	}{
		{"anonymous can read home", "", http.MethodGet, "/", http.StatusOK},
		{"anonymous can read a page", "", http.MethodGet, "/c/consensus/raft", http.StatusOK},
		{"anonymous can toggle a like", "", http.MethodPost, "/pages/7/like", http.StatusOK},
		{"anonymous cannot comment", "", http.MethodPost, "/pages/7/comments", http.StatusForbidden},
		{"anonymous cannot open the dashboard", "", http.MethodGet, "/dash", http.StatusForbidden},
		{"user can comment", "oidc|alice", http.MethodPost, "/pages/7/comments", http.StatusOK},
		{"user can delete a comment", "oidc|alice", http.MethodPost, "/comments/3/delete", http.StatusOK},
		{"user inherits anonymous reads", "oidc|alice", http.MethodGet, "/search", http.StatusOK},
		{"user cannot open the dashboard", "oidc|alice", http.MethodGet, "/dash", http.StatusForbidden},
		{"admin can open the dashboard", "oidc|root", http.MethodGet, "/dash", http.StatusOK},
		{"admin can post settings", "oidc|root", http.MethodPost, "/dash/settings", http.StatusOK},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			sm := &stubSessionManager{values: map[string]interface{}{}}
			if tc.subject != "" {
				sm.values["user_subject"] = tc.subject
				sm.values["user_id"] = int64(1)
				sm.values["user_name"] = "Test User"
			}

			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			})
			handler := Authorizer(e, sm)(next)

			req := httptest.NewRequest(tc.method, tc.path, nil)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tc.wantCode {
				t.Fatalf("%s %s as %q: got status %d, want %d", tc.method, tc.path, tc.subject, rec.Code, tc.wantCode)
			}
		})
	}
}

func TestAuthorizer_AttachesUserInfo(t *testing.T) {
	e := newTestEnforcer(t)

	sm := &stubSessionManager{values: map[string]interface{}{
		"user_subject": "oidc|root",
		"user_id":      int64(42),
		"user_name":    "Root",
	}}

	var got *UserInfo
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = GetUserInfo(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/dash", nil)
	rec := httptest.NewRecorder()
	Authorizer(e, sm)(next).ServeHTTP(rec, req)

	if got == nil {
		t.Fatal("expected user info on the request context")
	}
	if got.Subject != "oidc|root" || got.UserID != 42 || got.Name != "Root" {
		t.Fatalf("unexpected user info: %+v", got)
	}
	if !got.IsAdmin {
		t.Fatal("expected the admin flag to be set for an admin subject")
	}
}

func TestAuthorizer_AnonymousGetsAnonymousSubject(t *testing.T) {
	e := newTestEnforcer(t)
	sm := &stubSessionManager{values: map[string]interface{}{}}

	var got *UserInfo
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = GetUserInfo(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	Authorizer(e, sm)(next).ServeHTTP(httptest.NewRecorder(), req)

	if got == nil || got.Subject != "anonymous" {
		t.Fatalf("expected anonymous subject, got %+v", got)
	}
	if got.IsAdmin {
		t.Fatal("anonymous visitors must not be admins")
	}
}
