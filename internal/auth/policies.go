package auth

import (
	"fmt"

	"basalt-wiki/internal/logger"

	"github.com/casbin/casbin/v2"
)

// SeedDefaultPolicies ensures that the application has a baseline set of authorization rules.
// It checks if each default policy exists before adding it, making the operation idempotent
// and safe to run on every application start.
func SeedDefaultPolicies(e casbin.IEnforcer, adminSubjects []string, log logger.Logger) {
	log.Info("Seeding default authorization policies...")

	// Anonymous visitors can read everything and toggle likes (anonymous
	// likes are tracked by session identifier). Logged-in users can also
	// comment. Admins get the dashboard.
	policies := [][]string{
		{"anonymous", "/", "GET"},
		{"anonymous", "/c/*", "GET"},
		{"anonymous", "/search", "GET"},
		{"anonymous", "/api/search", "GET"},
		{"anonymous", "/auth/*", "GET"},
		{"anonymous", "/static/*", "GET"},
		{"anonymous", "/robots.txt", "GET"},
		{"anonymous", "/sitemap.xml", "GET"},
		{"anonymous", "/pages/:id/like", "POST"},

		{"user", "/pages/:id/comments", "POST"},
		{"user", "/comments/:id/delete", "POST"},

		{"admin", "/dash", "GET"},
		{"admin", "/dash/*", "GET"},
		{"admin", "/dash/*", "POST"},
	}
	for _, p := range policies {
		if has, _ := e.HasPolicy(p); !has {
			if _, err := e.AddPolicy(p); err != nil {
				log.Error(err, fmt.Sprintf("Failed to add policy %v", p))
			}
		}
	}

	// Role hierarchy: user inherits anonymous, admin inherits user.
	roles := [][]string{
		{"user", "anonymous"},
		{"admin", "user"},
	}
	for _, r := range roles {
		if has, _ := e.HasRoleForUser(r[0], r[1]); !has {
			if _, err := e.AddRoleForUser(r[0], r[1]); err != nil {
				log.Error(err, fmt.Sprintf("Failed to add role %s -> %s", r[0], r[1]))
			}
		}
	}

	// Subjects from config get the admin role.
	for _, subject := range adminSubjects {
		if has, _ := e.HasRoleForUser(subject, "admin"); !has {
			if _, err := e.AddRoleForUser(subject, "admin"); err != nil {
				log.Error(err, fmt.Sprintf("Failed to grant admin to %s", subject))
			}
		}
	}
	log.Info("Policy seeding complete.")
}
