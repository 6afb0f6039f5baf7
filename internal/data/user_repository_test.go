//go:build integration

package data

import (
	"context"
	"testing"
)

func TestUserRepository_UpsertCreatesThenUpdates(t *testing.T) {
	db, teardown := setupTestDB(t)
	defer teardown()
	repo := NewUserRepository(db)
	ctx := context.Background()

	created, err := repo.Upsert(ctx, &User{Subject: "oidc|alice", Name: "Alice", Email: "alice@example.com"})
	if err != nil {
		t.Fatalf("first Upsert failed: %v", err)
	}
	if created.ID == 0 {
		t.Fatal("Upsert did not fill in the generated id")
	}

	updated, err := repo.Upsert(ctx, &User{Subject: "oidc|alice", Name: "Alice B", Email: "alice@example.com"})
	if err != nil {
		t.Fatalf("second Upsert failed: %v", err)
	}
	if updated.ID != created.ID {
		t.Errorf("Upsert created a second row: id %d != %d", updated.ID, created.ID)
	}

	stored, err := repo.GetBySubject(ctx, "oidc|alice")
	if err != nil {
		t.Fatalf("GetBySubject failed: %v", err)
	}
	if stored.Name != "Alice B" {
		t.Errorf("Name = %q after re-login, want the refreshed profile", stored.Name)
	}
}

func TestUserRepository_UpsertPreservesAdmin(t *testing.T) {
	db, teardown := setupTestDB(t)
	defer teardown()
	repo := NewUserRepository(db)
	ctx := context.Background()

	if _, err := repo.Upsert(ctx, &User{Subject: "oidc|alice", Name: "Alice", IsAdmin: true}); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	// A later login without the admin flag must not demote the user.
	if _, err := repo.Upsert(ctx, &User{Subject: "oidc|alice", Name: "Alice"}); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	stored, err := repo.GetBySubject(ctx, "oidc|alice")
	if err != nil {
		t.Fatalf("GetBySubject failed: %v", err)
	}
	if !stored.IsAdmin {
		t.Error("IsAdmin was dropped by a later upsert")
	}
}

func TestUserRepository_GetMissing(t *testing.T) {
	db, teardown := setupTestDB(t)
	defer teardown()
	repo := NewUserRepository(db)
	ctx := context.Background()

	user, err := repo.GetBySubject(ctx, "oidc|nobody")
	if err != nil {
		t.Fatalf("GetBySubject failed: %v", err)
	}
	if user != nil {
		t.Errorf("GetBySubject for a missing subject = %+v, want nil", user)
	}
}
