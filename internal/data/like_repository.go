package data

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// LikeRepository handles like rows. A like belongs to either a user or an
// anonymous session; the two cases are separate methods so no caller ever
// builds a row with both columns (or neither) populated.
type LikeRepository struct {
	db *sqlx.DB
}

// NewLikeRepository creates a new LikeRepository.
func NewLikeRepository(db *sqlx.DB) *LikeRepository {
	return &LikeRepository{db: db}
}

// ExistsForUser reports whether the user has liked the page.
func (r *LikeRepository) ExistsForUser(ctx context.Context, pageID, userID int64) (bool, error) {
	return r.exists(ctx, `SELECT id FROM likes WHERE page_id = ? AND user_id = ?`, pageID, userID)
}

// ExistsForSession reports whether the anonymous session has liked the page.
func (r *LikeRepository) ExistsForSession(ctx context.Context, pageID int64, sessionID string) (bool, error) {
	return r.exists(ctx, `SELECT id FROM likes WHERE page_id = ? AND session_id = ?`, pageID, sessionID)
}

func (r *LikeRepository) exists(ctx context.Context, query string, args ...interface{}) (bool, error) {
	var id int64
	err := r.db.GetContext(ctx, &id, query, args...)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("failed to look up like: %w", err)
	}
	return true, nil
}

// ToggleForUser flips the user's like on a page and reports the new state.
func (r *LikeRepository) ToggleForUser(ctx context.Context, pageID, userID int64) (bool, error) {
	return r.toggle(ctx,
		`SELECT id FROM likes WHERE page_id = ? AND user_id = ?`,
		`INSERT INTO likes (page_id, user_id) VALUES (?, ?)`,
		pageID, userID)
}

// ToggleForSession flips the anonymous session's like on a page and
// reports the new state.
func (r *LikeRepository) ToggleForSession(ctx context.Context, pageID int64, sessionID string) (bool, error) {
	return r.toggle(ctx,
		`SELECT id FROM likes WHERE page_id = ? AND session_id = ?`,
		`INSERT INTO likes (page_id, session_id) VALUES (?, ?)`,
		pageID, sessionID)
}

// toggle performs the check and the matching write inside one transaction
// so two rapid toggles from the same viewer cannot both observe "absent"
// and both insert. The unique indexes on (page_id, user_id) and
// (page_id, session_id) back this up at the schema level.
func (r *LikeRepository) toggle(ctx context.Context, findQuery, insertQuery string, pageID int64, ident interface{}) (bool, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin toggle transaction: %w", err)
	}
	defer tx.Rollback()

	var likeID int64
	err = tx.GetContext(ctx, &likeID, findQuery, pageID, ident)
	switch {
	case err == nil:
		// Unlike
		if _, err := tx.ExecContext(ctx, `DELETE FROM likes WHERE id = ?`, likeID); err != nil {
			return false, fmt.Errorf("failed to delete like: %w", err)
		}
		if err := tx.Commit(); err != nil {
			return false, fmt.Errorf("failed to commit unlike: %w", err)
		}
		return false, nil
	case err == sql.ErrNoRows:
		// Like
		if _, err := tx.ExecContext(ctx, insertQuery, pageID, ident); err != nil {
			return false, fmt.Errorf("failed to insert like: %w", err)
		}
		if err := tx.Commit(); err != nil {
			return false, fmt.Errorf("failed to commit like: %w", err)
		}
		return true, nil
	default:
		return false, fmt.Errorf("failed to look up existing like: %w", err)
	}
}

// CountForPage returns the number of likes on a page.
func (r *LikeRepository) CountForPage(ctx context.Context, pageID int64) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM likes WHERE page_id = ?`, pageID)
	if err != nil {
		return 0, fmt.Errorf("failed to count likes: %w", err)
	}
	return count, nil
}
