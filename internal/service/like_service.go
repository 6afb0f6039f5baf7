package service

import (
	"context"
	"fmt"
)

// LikeRepository defines the store operations for like rows.
type LikeRepository interface {
	ExistsForUser(ctx context.Context, pageID, userID int64) (bool, error)
	ExistsForSession(ctx context.Context, pageID int64, sessionID string) (bool, error)
	ToggleForUser(ctx context.Context, pageID, userID int64) (bool, error)
	ToggleForSession(ctx context.Context, pageID int64, sessionID string) (bool, error)
	CountForPage(ctx context.Context, pageID int64) (int, error)
}

// LikeServicer defines the like operations exposed to handlers.
type LikeServicer interface {
	HasLiked(ctx context.Context, pageID int64, viewer Viewer) (bool, error)
	ToggleLike(ctx context.Context, pageID int64, viewer Viewer) (bool, error)
	LikeCount(ctx context.Context, pageID int64) (int, error)
}

// LikeService resolves viewer identity and flips like state.
type LikeService struct {
	pages PageRepository
	likes LikeRepository
}

// NewLikeService creates a new LikeService.
func NewLikeService(pages PageRepository, likes LikeRepository) *LikeService {
	return &LikeService{pages: pages, likes: likes}
}

// HasLiked reports whether the viewer has liked the page. An
// unidentified viewer has liked nothing; the store is not consulted.
func (s *LikeService) HasLiked(ctx context.Context, pageID int64, viewer Viewer) (bool, error) {
	switch viewer.Kind() {
	case ViewerAuthenticated:
		return s.likes.ExistsForUser(ctx, pageID, viewer.UserID())
	case ViewerAnonymous:
		return s.likes.ExistsForSession(ctx, pageID, viewer.SessionID())
	default:
		return false, nil
	}
}

// ToggleLike flips the viewer's like on the page and returns the new
// state: true when the page is now liked, false when the like was
// removed. An unidentified viewer is rejected with ErrIdentityRequired;
// a deleted page with ErrNotFound. The find-and-flip runs as a single
// store transaction, so rapid double toggles cannot insert twice.
func (s *LikeService) ToggleLike(ctx context.Context, pageID int64, viewer Viewer) (bool, error) {
	if viewer.Kind() == ViewerUnidentified {
		return false, ErrIdentityRequired
	}

	page, err := s.pages.GetPageByID(ctx, pageID)
	if err != nil {
		return false, fmt.Errorf("failed to check page before toggle: %w", err)
	}
	if page == nil {
		return false, ErrNotFound
	}

	if viewer.Kind() == ViewerAuthenticated {
		return s.likes.ToggleForUser(ctx, pageID, viewer.UserID())
	}
	return s.likes.ToggleForSession(ctx, pageID, viewer.SessionID())
}

// LikeCount returns the number of likes on a page.
func (s *LikeService) LikeCount(ctx context.Context, pageID int64) (int, error) {
	return s.likes.CountForPage(ctx, pageID)
}
