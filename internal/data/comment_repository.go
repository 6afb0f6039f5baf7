package data

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// CommentRepository handles database operations for comments.
type CommentRepository struct {
	db *sqlx.DB
}

// NewCommentRepository creates a new CommentRepository.
func NewCommentRepository(db *sqlx.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

// Create inserts a comment and fills in its generated ID.
func (r *CommentRepository) Create(ctx context.Context, comment *Comment) error {
	query := `INSERT INTO comments (page_id, user_id, content) VALUES (:page_id, :user_id, :content)`
	res, err := r.db.NamedExecContext(ctx, query, comment)
	if err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get comment insert id: %w", err)
	}
	comment.ID = id
	return nil
}

// GetByID retrieves a comment by its ID. Returns nil when absent.
func (r *CommentRepository) GetByID(ctx context.Context, id int64) (*Comment, error) {
	var comment Comment
	query := `SELECT id, page_id, user_id, content, created_at FROM comments WHERE id = ?`
	if err := r.db.GetContext(ctx, &comment, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get comment by id: %w", err)
	}
	return &comment, nil
}

// GetByPageID retrieves a page's comments newest first, with author info.
func (r *CommentRepository) GetByPageID(ctx context.Context, pageID int64) ([]*Comment, error) {
	var comments []*Comment
	query := `SELECT c.id, c.page_id, c.user_id, c.content, c.created_at,
	                 u.name AS author_name, u.picture AS author_picture
	          FROM comments c
	          JOIN users u ON u.id = c.user_id
	          WHERE c.page_id = ?
	          ORDER BY c.id DESC`
	if err := r.db.SelectContext(ctx, &comments, query, pageID); err != nil {
		return nil, fmt.Errorf("failed to get comments by page id: %w", err)
	}
	return comments, nil
}

// CountForPage returns the number of comments on a page.
func (r *CommentRepository) CountForPage(ctx context.Context, pageID int64) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM comments WHERE page_id = ?`, pageID)
	if err != nil {
		return 0, fmt.Errorf("failed to count comments: %w", err)
	}
	return count, nil
}

// Delete removes a comment by its ID.
func (r *CommentRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM comments WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("no comment found to delete with id %d", id)
	}
	return nil
}
