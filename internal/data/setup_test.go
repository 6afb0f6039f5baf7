//go:build integration

package data

import (
	"testing"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// setupTestDB creates a new in-memory SQLite database with the full
// schema and returns it with a teardown function to be deferred.
func setupTestDB(t *testing.T) (*sqlx.DB, func()) {
	t.Helper()

	// Use a non-shared in-memory database for complete test isolation.
	db, err := sqlx.Connect("sqlite3", "file::memory:")
	if err != nil {
		t.Fatalf("Failed to connect to sqlite test database: %v", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("Failed to enable foreign keys: %v", err)
	}

	schema := `
	CREATE TABLE categories (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		slug       TEXT NOT NULL UNIQUE,
		title      TEXT NOT NULL,
		subtitle   TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	CREATE TABLE pages (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		slug        TEXT NOT NULL,
		title       TEXT NOT NULL,
		subtitle    TEXT NOT NULL DEFAULT '',
		markdown    TEXT NOT NULL DEFAULT '',
		category_id INTEGER NOT NULL REFERENCES categories (id),
		created_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE (category_id, slug)
	);
	CREATE TABLE users (
		id       INTEGER PRIMARY KEY AUTOINCREMENT,
		subject  TEXT NOT NULL UNIQUE,
		name     TEXT NOT NULL DEFAULT '',
		email    TEXT NOT NULL DEFAULT '',
		picture  TEXT NOT NULL DEFAULT '',
		is_admin BOOLEAN NOT NULL DEFAULT 0
	);
	CREATE TABLE comments (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		page_id    INTEGER NOT NULL REFERENCES pages (id),
		user_id    INTEGER NOT NULL REFERENCES users (id),
		content    TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	CREATE TABLE likes (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		page_id    INTEGER NOT NULL REFERENCES pages (id),
		user_id    INTEGER REFERENCES users (id),
		session_id TEXT,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		CHECK ((user_id IS NULL) <> (session_id IS NULL)),
		UNIQUE (page_id, user_id),
		UNIQUE (page_id, session_id)
	);
	CREATE TABLE settings (
		id         INTEGER PRIMARY KEY CHECK (id = 1),
		sitename   TEXT NOT NULL,
		subtitle   TEXT NOT NULL DEFAULT '',
		disclaimer TEXT NOT NULL DEFAULT ''
	);`
	db.MustExec(schema)

	teardown := func() {
		db.Close()
	}
	return db, teardown
}

// seedPage inserts a category, a user and a page and returns the page id.
func seedPage(t *testing.T, db *sqlx.DB) int64 {
	t.Helper()
	db.MustExec(`INSERT INTO categories (slug, title) VALUES ('consensus', 'Consensus')`)
	db.MustExec(`INSERT INTO users (subject, name) VALUES ('oidc|alice', 'Alice')`)
	res := db.MustExec(`INSERT INTO pages (slug, title, category_id) VALUES ('raft', 'Raft', 1)`)
	id, err := res.LastInsertId()
	if err != nil {
		t.Fatalf("Failed to read inserted page id: %v", err)
	}
	return id
}
