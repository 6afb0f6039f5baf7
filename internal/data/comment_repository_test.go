//go:build integration

package data

import (
	"context"
	"testing"
)

func TestCommentRepository_CreateAndListWithAuthors(t *testing.T) {
	db, teardown := setupTestDB(t)
	defer teardown()
	repo := NewCommentRepository(db)
	ctx := context.Background()
	pageID := seedPage(t, db)

	first := &Comment{PageID: pageID, UserID: 1, Content: "first"}
	if err := repo.Create(ctx, first); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if first.ID == 0 {
		t.Fatal("Create did not fill in the generated id")
	}
	second := &Comment{PageID: pageID, UserID: 1, Content: "second"}
	if err := repo.Create(ctx, second); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	comments, err := repo.GetByPageID(ctx, pageID)
	if err != nil {
		t.Fatalf("GetByPageID failed: %v", err)
	}
	if len(comments) != 2 {
		t.Fatalf("GetByPageID returned %d comments, want 2", len(comments))
	}
	// Newest first.
	if comments[0].Content != "second" || comments[1].Content != "first" {
		t.Errorf("comment order = [%s %s], want [second first]", comments[0].Content, comments[1].Content)
	}
	if comments[0].AuthorName != "Alice" {
		t.Errorf("AuthorName = %q, want the joined user name", comments[0].AuthorName)
	}

	count, err := repo.CountForPage(ctx, pageID)
	if err != nil {
		t.Fatalf("CountForPage failed: %v", err)
	}
	if count != 2 {
		t.Errorf("CountForPage = %d, want 2", count)
	}
}

func TestCommentRepository_Delete(t *testing.T) {
	db, teardown := setupTestDB(t)
	defer teardown()
	repo := NewCommentRepository(db)
	ctx := context.Background()
	pageID := seedPage(t, db)

	comment := &Comment{PageID: pageID, UserID: 1, Content: "gone soon"}
	if err := repo.Create(ctx, comment); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := repo.Delete(ctx, comment.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	got, err := repo.GetByID(ctx, comment.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got != nil {
		t.Errorf("GetByID after delete = %+v, want nil", got)
	}

	if err := repo.Delete(ctx, comment.ID); err == nil {
		t.Error("deleting a missing comment succeeded, want error")
	}
}
