//go:build integration

package data

import (
	"context"
	"testing"
)

func TestLikeRepository_ToggleForUser(t *testing.T) {
	db, teardown := setupTestDB(t)
	defer teardown()
	repo := NewLikeRepository(db)
	ctx := context.Background()
	pageID := seedPage(t, db)

	liked, err := repo.ToggleForUser(ctx, pageID, 1)
	if err != nil {
		t.Fatalf("first toggle failed: %v", err)
	}
	if !liked {
		t.Error("first toggle: liked = false, want true")
	}

	exists, err := repo.ExistsForUser(ctx, pageID, 1)
	if err != nil {
		t.Fatalf("ExistsForUser failed: %v", err)
	}
	if !exists {
		t.Error("ExistsForUser = false after a like")
	}

	liked, err = repo.ToggleForUser(ctx, pageID, 1)
	if err != nil {
		t.Fatalf("second toggle failed: %v", err)
	}
	if liked {
		t.Error("second toggle: liked = true, want false")
	}

	count, err := repo.CountForPage(ctx, pageID)
	if err != nil {
		t.Fatalf("CountForPage failed: %v", err)
	}
	if count != 0 {
		t.Errorf("CountForPage = %d after an even number of toggles, want 0", count)
	}
}

func TestLikeRepository_ToggleForSession(t *testing.T) {
	db, teardown := setupTestDB(t)
	defer teardown()
	repo := NewLikeRepository(db)
	ctx := context.Background()
	pageID := seedPage(t, db)

	liked, err := repo.ToggleForSession(ctx, pageID, "anon_abc")
	if err != nil {
		t.Fatalf("first toggle failed: %v", err)
	}
	if !liked {
		t.Error("first toggle: liked = false, want true")
	}

	liked, err = repo.ToggleForSession(ctx, pageID, "anon_abc")
	if err != nil {
		t.Fatalf("second toggle failed: %v", err)
	}
	if liked {
		t.Error("second toggle: liked = true, want false")
	}
}

func TestLikeRepository_IdentitiesAreSeparate(t *testing.T) {
	db, teardown := setupTestDB(t)
	defer teardown()
	repo := NewLikeRepository(db)
	ctx := context.Background()
	pageID := seedPage(t, db)

	if _, err := repo.ToggleForUser(ctx, pageID, 1); err != nil {
		t.Fatalf("user toggle failed: %v", err)
	}
	if _, err := repo.ToggleForSession(ctx, pageID, "anon_abc"); err != nil {
		t.Fatalf("session toggle failed: %v", err)
	}

	// The user's like and the session's like are separate rows.
	count, err := repo.CountForPage(ctx, pageID)
	if err != nil {
		t.Fatalf("CountForPage failed: %v", err)
	}
	if count != 2 {
		t.Errorf("CountForPage = %d, want 2", count)
	}

	// Toggling one off leaves the other intact.
	if _, err := repo.ToggleForUser(ctx, pageID, 1); err != nil {
		t.Fatalf("user untoggle failed: %v", err)
	}
	exists, err := repo.ExistsForSession(ctx, pageID, "anon_abc")
	if err != nil {
		t.Fatalf("ExistsForSession failed: %v", err)
	}
	if !exists {
		t.Error("the session like vanished when the user like was removed")
	}
}

func TestLikeRepository_ExistsAgainstEmptyStore(t *testing.T) {
	db, teardown := setupTestDB(t)
	defer teardown()
	repo := NewLikeRepository(db)
	ctx := context.Background()
	pageID := seedPage(t, db)

	exists, err := repo.ExistsForUser(ctx, pageID, 1)
	if err != nil {
		t.Fatalf("ExistsForUser failed: %v", err)
	}
	if exists {
		t.Error("ExistsForUser = true on an empty store")
	}
}
