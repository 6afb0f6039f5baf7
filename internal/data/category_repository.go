package data

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// CategoryRepository handles database operations for categories.
type CategoryRepository struct {
	DB *sqlx.DB
}

// NewCategoryRepository creates a new CategoryRepository.
func NewCategoryRepository(db *sqlx.DB) *CategoryRepository {
	return &CategoryRepository{DB: db}
}

// GetAll retrieves all categories, newest first.
func (r *CategoryRepository) GetAll(ctx context.Context) ([]*Category, error) {
	var categories []*Category
	err := r.DB.SelectContext(ctx, &categories, "SELECT * FROM categories ORDER BY id DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to get all categories: %w", err)
	}
	return categories, nil
}

// GetBySlug finds a category by its slug.
func (r *CategoryRepository) GetBySlug(ctx context.Context, slug string) (*Category, error) {
	var category Category
	err := r.DB.GetContext(ctx, &category, "SELECT * FROM categories WHERE slug = ?", slug)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Not found is not an error
		}
		return nil, fmt.Errorf("failed to get category by slug: %w", err)
	}
	return &category, nil
}

// GetByID finds a category by its ID.
func (r *CategoryRepository) GetByID(ctx context.Context, id int64) (*Category, error) {
	var category Category
	err := r.DB.GetContext(ctx, &category, "SELECT * FROM categories WHERE id = ?", id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Not found is not an error
		}
		return nil, fmt.Errorf("failed to get category by id: %w", err)
	}
	return &category, nil
}

// Create inserts a new category and returns its ID.
func (r *CategoryRepository) Create(ctx context.Context, category *Category) (int64, error) {
	res, err := r.DB.NamedExecContext(ctx,
		"INSERT INTO categories (slug, title, subtitle) VALUES (:slug, :title, :subtitle)", category)
	if err != nil {
		return 0, fmt.Errorf("failed to create category: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get category insert id: %w", err)
	}
	return id, nil
}

// Update rewrites a category's slug, title and subtitle.
func (r *CategoryRepository) Update(ctx context.Context, category *Category) error {
	res, err := r.DB.NamedExecContext(ctx,
		"UPDATE categories SET slug = :slug, title = :title, subtitle = :subtitle WHERE id = :id", category)
	if err != nil {
		return fmt.Errorf("failed to update category: %w", err)
	}
	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("no category found to update with id %d", category.ID)
	}
	return nil
}

// Delete removes a category by its ID. Callers are responsible for
// refusing deletion while pages still reference the category.
func (r *CategoryRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM categories WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("no category found to delete with id %d", id)
	}
	return nil
}
