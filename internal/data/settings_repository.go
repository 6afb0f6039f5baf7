package data

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// SettingsRepository handles the site-wide settings singleton.
type SettingsRepository struct {
	db *sqlx.DB
}

// NewSettingsRepository creates a new SettingsRepository.
func NewSettingsRepository(db *sqlx.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// Get returns the settings row, or nil when none has been saved yet.
func (r *SettingsRepository) Get(ctx context.Context) (*Settings, error) {
	var settings Settings
	err := r.db.GetContext(ctx, &settings, `SELECT * FROM settings WHERE id = 1`)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}
	return &settings, nil
}

// Save writes the settings singleton, creating the row on first save.
func (r *SettingsRepository) Save(ctx context.Context, settings *Settings) error {
	settings.ID = 1
	query := `INSERT INTO settings (id, sitename, subtitle, disclaimer)
	          VALUES (:id, :sitename, :subtitle, :disclaimer)
	          ON CONFLICT(id) DO UPDATE SET
	              sitename = excluded.sitename,
	              subtitle = excluded.subtitle,
	              disclaimer = excluded.disclaimer`
	if r.db.DriverName() == "mysql" {
		query = `INSERT INTO settings (id, sitename, subtitle, disclaimer)
		         VALUES (:id, :sitename, :subtitle, :disclaimer)
		         ON DUPLICATE KEY UPDATE
		             sitename = VALUES(sitename),
		             subtitle = VALUES(subtitle),
		             disclaimer = VALUES(disclaimer)`
	}
	if _, err := r.db.NamedExecContext(ctx, query, settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}
