package data

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// SQLPageRepository is a concrete implementation of the page repository using sqlx.
type SQLPageRepository struct {
	db *sqlx.DB
}

// NewSQLPageRepository creates a new SQLPageRepository.
func NewSQLPageRepository(db *sqlx.DB) *SQLPageRepository {
	return &SQLPageRepository{db: db}
}

// CreatePage inserts a new page and fills in its generated ID.
func (r *SQLPageRepository) CreatePage(ctx context.Context, page *Page) error {
	query := `INSERT INTO pages (slug, title, subtitle, markdown, category_id)
	          VALUES (:slug, :title, :subtitle, :markdown, :category_id)`
	res, err := r.db.NamedExecContext(ctx, query, page)
	if err != nil {
		return fmt.Errorf("failed to execute create page query: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get page insert id: %w", err)
	}
	page.ID = id
	return nil
}

// GetPageByID retrieves a single page by its ID. Returns nil when absent.
func (r *SQLPageRepository) GetPageByID(ctx context.Context, id int64) (*Page, error) {
	var page Page
	query := `SELECT * FROM pages WHERE id = ?`
	if err := r.db.GetContext(ctx, &page, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get page by id: %w", err)
	}
	return &page, nil
}

// GetPageBySlug retrieves a page by its slug within a category.
// Returns nil when absent.
func (r *SQLPageRepository) GetPageBySlug(ctx context.Context, categoryID int64, slug string) (*Page, error) {
	var page Page
	query := `SELECT * FROM pages WHERE category_id = ? AND slug = ?`
	if err := r.db.GetContext(ctx, &page, query, categoryID, slug); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get page by slug: %w", err)
	}
	return &page, nil
}

// GetPagesByCategoryID retrieves all pages in a category, newest first.
func (r *SQLPageRepository) GetPagesByCategoryID(ctx context.Context, categoryID int64) ([]*Page, error) {
	var pages []*Page
	query := `SELECT * FROM pages WHERE category_id = ? ORDER BY id DESC`
	if err := r.db.SelectContext(ctx, &pages, query, categoryID); err != nil {
		return nil, fmt.Errorf("failed to get pages by category id: %w", err)
	}
	return pages, nil
}

// GetAllPages retrieves all pages in insertion order.
func (r *SQLPageRepository) GetAllPages(ctx context.Context) ([]*Page, error) {
	var pages []*Page
	query := `SELECT * FROM pages ORDER BY id`
	if err := r.db.SelectContext(ctx, &pages, query); err != nil {
		return nil, fmt.Errorf("failed to get all pages: %w", err)
	}
	return pages, nil
}

// GetRecentPages retrieves the most recently created pages.
func (r *SQLPageRepository) GetRecentPages(ctx context.Context, limit int) ([]*Page, error) {
	var pages []*Page
	query := `SELECT * FROM pages ORDER BY id DESC LIMIT ?`
	if err := r.db.SelectContext(ctx, &pages, query, limit); err != nil {
		return nil, fmt.Errorf("failed to get recent pages: %w", err)
	}
	return pages, nil
}

// CountPagesByCategoryID returns the number of pages referencing a category.
func (r *SQLPageRepository) CountPagesByCategoryID(ctx context.Context, categoryID int64) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM pages WHERE category_id = ?`
	if err := r.db.GetContext(ctx, &count, query, categoryID); err != nil {
		return 0, fmt.Errorf("failed to count pages by category id: %w", err)
	}
	return count, nil
}

// UpdatePage updates an existing page.
func (r *SQLPageRepository) UpdatePage(ctx context.Context, page *Page) error {
	query := `UPDATE pages SET slug = :slug, title = :title, subtitle = :subtitle,
	          markdown = :markdown, category_id = :category_id, updated_at = :updated_at
	          WHERE id = :id`
	result, err := r.db.NamedExecContext(ctx, query, page)
	if err != nil {
		return fmt.Errorf("failed to update page: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("no page found to update with id %d", page.ID)
	}
	return nil
}

// DeletePage removes a page and everything referencing it. Comments and
// likes are removed in the same transaction so a half-deleted page is
// never observable.
func (r *SQLPageRepository) DeletePage(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin delete page transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM comments WHERE page_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete page comments: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM likes WHERE page_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete page likes: %w", err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM pages WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete page: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("no page found to delete with id %d", id)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit delete page transaction: %w", err)
	}
	return nil
}
