//go:build unit

package handler

import (
	"errors"
	"net/http"
	"testing"

	"basalt-wiki/internal/service"
)

func TestStatusFor(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"not found", service.ErrNotFound, http.StatusNotFound},
		{"identity required", service.ErrIdentityRequired, http.StatusUnauthorized},
		{"forbidden", service.ErrForbidden, http.StatusForbidden},
		{"slug exists", service.ErrSlugExists, http.StatusConflict},
		{"category not empty", service.ErrCategoryNotEmpty, http.StatusConflict},
		{"empty comment", service.ErrEmptyComment, http.StatusBadRequest},
		{"wrapped sentinel", errors.New("wrapped"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := statusFor(tc.err); got != tc.want {
				t.Errorf("statusFor(%v) = %d, want %d", tc.err, got, tc.want)
			}
		})
	}
}
