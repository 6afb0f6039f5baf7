package service

import "errors"

// Sentinel errors surfaced to the handler layer, which maps them to
// HTTP status codes. Anything else is treated as an internal failure.
var (
	// ErrNotFound is returned when a referenced category, page or
	// comment no longer exists.
	ErrNotFound = errors.New("not found")

	// ErrIdentityRequired is returned when a like is toggled with
	// neither an authenticated user nor a session identifier.
	ErrIdentityRequired = errors.New("session identity required")

	// ErrSlugExists is returned when a category slug, or a page slug
	// within its category, collides with an existing one.
	ErrSlugExists = errors.New("slug already exists")

	// ErrCategoryNotEmpty is returned when deleting a category that
	// still has pages.
	ErrCategoryNotEmpty = errors.New("category still has pages")

	// ErrForbidden is returned when the caller lacks permission for
	// the operation, e.g. deleting another user's comment.
	ErrForbidden = errors.New("forbidden")

	// ErrEmptyComment is returned when a comment has no content after
	// trimming.
	ErrEmptyComment = errors.New("comment cannot be empty")
)
