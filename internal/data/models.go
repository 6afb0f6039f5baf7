package data

import (
	"database/sql"
	"time"
)

// Category groups wiki pages under a url-safe slug.
type Category struct {
	ID        int64     `db:"id"`
	Slug      string    `db:"slug"`
	Title     string    `db:"title"`
	Subtitle  string    `db:"subtitle"`
	CreatedAt time.Time `db:"created_at"`
}

// Page is a single wiki page. Slug is unique within its category.
type Page struct {
	ID         int64     `db:"id"`
	Slug       string    `db:"slug"`
	Title      string    `db:"title"`
	Subtitle   string    `db:"subtitle"`
	Markdown   string    `db:"markdown"`
	CategoryID int64     `db:"category_id"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

// User is an account resolved from the OIDC provider.
type User struct {
	ID      int64  `db:"id"`
	Subject string `db:"subject"`
	Name    string `db:"name"`
	Email   string `db:"email"`
	Picture string `db:"picture"`
	IsAdmin bool   `db:"is_admin"`
}

// Comment is an authenticated user's comment on a page.
type Comment struct {
	ID        int64     `db:"id"`
	PageID    int64     `db:"page_id"`
	UserID    int64     `db:"user_id"`
	Content   string    `db:"content"`
	CreatedAt time.Time `db:"created_at"`

	// Populated by joined queries only.
	AuthorName    string `db:"author_name"`
	AuthorPicture string `db:"author_picture"`
}

// Like records one like per viewer per page. Exactly one of UserID and
// SessionID is set; rows are only written through LikeRepository, which
// takes the identity kind explicitly.
type Like struct {
	ID        int64          `db:"id"`
	PageID    int64          `db:"page_id"`
	UserID    sql.NullInt64  `db:"user_id"`
	SessionID sql.NullString `db:"session_id"`
	CreatedAt time.Time      `db:"created_at"`
}

// Settings is the site-wide singleton row.
type Settings struct {
	ID         int64  `db:"id"`
	Sitename   string `db:"sitename"`
	Subtitle   string `db:"subtitle"`
	Disclaimer string `db:"disclaimer"`
}
