package service

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"sort"
	"strings"
	"time"

	"basalt-wiki/internal/data"
	"basalt-wiki/internal/search"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// PageRepository defines the store operations for pages.
type PageRepository interface {
	CreatePage(ctx context.Context, page *data.Page) error
	GetPageByID(ctx context.Context, id int64) (*data.Page, error)
	GetPageBySlug(ctx context.Context, categoryID int64, slug string) (*data.Page, error)
	GetPagesByCategoryID(ctx context.Context, categoryID int64) ([]*data.Page, error)
	GetAllPages(ctx context.Context) ([]*data.Page, error)
	GetRecentPages(ctx context.Context, limit int) ([]*data.Page, error)
	CountPagesByCategoryID(ctx context.Context, categoryID int64) (int, error)
	UpdatePage(ctx context.Context, page *data.Page) error
	DeletePage(ctx context.Context, id int64) error
}

// CategoryRepository defines the store operations for categories.
type CategoryRepository interface {
	GetAll(ctx context.Context) ([]*data.Category, error)
	GetBySlug(ctx context.Context, slug string) (*data.Category, error)
	GetByID(ctx context.Context, id int64) (*data.Category, error)
	Create(ctx context.Context, category *data.Category) (int64, error)
	Update(ctx context.Context, category *data.Category) error
	Delete(ctx context.Context, id int64) error
}

// CommentRepository defines the store operations for comments.
type CommentRepository interface {
	Create(ctx context.Context, comment *data.Comment) error
	GetByID(ctx context.Context, id int64) (*data.Comment, error)
	GetByPageID(ctx context.Context, pageID int64) ([]*data.Comment, error)
	CountForPage(ctx context.Context, pageID int64) (int, error)
	Delete(ctx context.Context, id int64) error
}

// SettingsRepository defines the store operations for the settings singleton.
type SettingsRepository interface {
	Get(ctx context.Context) (*data.Settings, error)
	Save(ctx context.Context, settings *data.Settings) error
}

// HTMLCache caches rendered page HTML.
type HTMLCache interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte, ttl time.Duration) error
}

// PageIndex is the native text index used by the category-scoped search
// path. A nil index means that path falls back to the in-memory scorer.
type PageIndex interface {
	IndexPage(id int64, title, subtitle string, categoryID int64) error
	DeletePage(id int64) error
	Search(query string, categoryID int64, limit int) ([]int64, error)
}

// PageResult is a page decorated with its owning category and its
// current like and comment counts.
type PageResult struct {
	data.Page
	Category     *data.Category
	LikeCount    int
	CommentCount int
}

// PageView is a full page ready for rendering.
type PageView struct {
	PageResult
	HTML     template.HTML
	Comments []*data.Comment
}

// SearchOptions scope and cap a search. A zero Limit uses the
// configured default.
type SearchOptions struct {
	CategorySlug string
	Limit        int
}

const renderCacheTTL = 24 * time.Hour

// WikiService provides the wiki's business logic: content queries,
// relevance search, admin mutations, comments and settings.
type WikiService struct {
	pages       PageRepository
	categories  CategoryRepository
	comments    CommentRepository
	likes       LikeRepository
	settings    SettingsRepository
	cache       HTMLCache
	index       PageIndex
	sanitizer   *bluemonday.Policy
	markdown    goldmark.Markdown
	resultLimit int
}

// NewWikiService creates a new WikiService. cache and index may be nil;
// rendering then skips caching and scoped search uses the scorer.
func NewWikiService(
	pages PageRepository,
	categories CategoryRepository,
	comments CommentRepository,
	likes LikeRepository,
	settings SettingsRepository,
	cache HTMLCache,
	index PageIndex,
	resultLimit int,
) *WikiService {
	if resultLimit <= 0 {
		resultLimit = 20
	}
	return &WikiService{
		pages:      pages,
		categories: categories,
		comments:   comments,
		likes:      likes,
		settings:   settings,
		cache:      cache,
		index:      index,
		sanitizer:  bluemonday.UGCPolicy(),
		markdown: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
		),
		resultLimit: resultLimit,
	}
}

// SearchPages returns pages matching the query ranked by relevance,
// capped and decorated with category and counts. An empty or
// whitespace-only query yields an empty result, never an error, as does
// an unknown category slug.
func (s *WikiService) SearchPages(ctx context.Context, query string, opts SearchOptions) ([]*PageResult, error) {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return []*PageResult{}, nil
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = s.resultLimit
	}

	var candidates []*data.Page
	if opts.CategorySlug != "" {
		category, err := s.categories.GetBySlug(ctx, opts.CategorySlug)
		if err != nil {
			return nil, err
		}
		if category == nil {
			return []*PageResult{}, nil
		}
		if s.index != nil {
			ids, err := s.index.Search(trimmed, category.ID, limit)
			if err == nil {
				return s.decorateByIDs(ctx, ids)
			}
			// Index failure degrades to the scorer path.
		}
		candidates, err = s.pages.GetPagesByCategoryID(ctx, category.ID)
		if err != nil {
			return nil, err
		}
	} else {
		var err error
		candidates, err = s.pages.GetAllPages(ctx)
		if err != nil {
			return nil, err
		}
	}

	byID := make(map[int64]*data.Page, len(candidates))
	docs := make([]search.Document, len(candidates))
	for i, p := range candidates {
		byID[p.ID] = p
		docs[i] = search.Document{ID: p.ID, Title: p.Title, Subtitle: p.Subtitle}
	}

	ranked := search.Rank(docs, trimmed, limit)
	pages := make([]*data.Page, len(ranked))
	for i, doc := range ranked {
		pages[i] = byID[doc.ID]
	}
	return s.decorate(ctx, pages)
}

// ListCategories returns all categories, newest first.
func (s *WikiService) ListCategories(ctx context.Context) ([]*data.Category, error) {
	return s.categories.GetAll(ctx)
}

// GetCategoryBySlug resolves a category or ErrNotFound.
func (s *WikiService) GetCategoryBySlug(ctx context.Context, slug string) (*data.Category, error) {
	category, err := s.categories.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, ErrNotFound
	}
	return category, nil
}

// GetCategoryByID resolves a category or ErrNotFound.
func (s *WikiService) GetCategoryByID(ctx context.Context, id int64) (*data.Category, error) {
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, ErrNotFound
	}
	return category, nil
}

// CategoryPages returns a category and its pages with counts.
func (s *WikiService) CategoryPages(ctx context.Context, slug string) (*data.Category, []*PageResult, error) {
	category, err := s.GetCategoryBySlug(ctx, slug)
	if err != nil {
		return nil, nil, err
	}
	pages, err := s.pages.GetPagesByCategoryID(ctx, category.ID)
	if err != nil {
		return nil, nil, err
	}
	results, err := s.decorate(ctx, pages)
	if err != nil {
		return nil, nil, err
	}
	return category, results, nil
}

// ViewPage resolves a page by category and page slug and renders it.
func (s *WikiService) ViewPage(ctx context.Context, categorySlug, pageSlug string) (*PageView, error) {
	category, err := s.GetCategoryBySlug(ctx, categorySlug)
	if err != nil {
		return nil, err
	}
	page, err := s.pages.GetPageBySlug(ctx, category.ID, pageSlug)
	if err != nil {
		return nil, err
	}
	if page == nil {
		return nil, ErrNotFound
	}

	results, err := s.decorate(ctx, []*data.Page{page})
	if err != nil {
		return nil, err
	}
	html, err := s.renderMarkdown(page)
	if err != nil {
		return nil, err
	}
	comments, err := s.comments.GetByPageID(ctx, page.ID)
	if err != nil {
		return nil, err
	}
	return &PageView{PageResult: *results[0], HTML: html, Comments: comments}, nil
}

// RecentPages returns the most recently created pages with counts.
func (s *WikiService) RecentPages(ctx context.Context, limit int) ([]*PageResult, error) {
	if limit <= 0 {
		limit = 10
	}
	pages, err := s.pages.GetRecentPages(ctx, limit)
	if err != nil {
		return nil, err
	}
	return s.decorate(ctx, pages)
}

// MostLikedPages returns pages ordered by like count, capped at limit.
func (s *WikiService) MostLikedPages(ctx context.Context, limit int) ([]*PageResult, error) {
	if limit <= 0 {
		limit = 10
	}
	pages, err := s.pages.GetAllPages(ctx)
	if err != nil {
		return nil, err
	}
	results, err := s.decorate(ctx, pages)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].LikeCount > results[j].LikeCount
	})
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// AllPages returns every page with its category, for the admin dashboard
// and the sitemap.
func (s *WikiService) AllPages(ctx context.Context) ([]*PageResult, error) {
	pages, err := s.pages.GetAllPages(ctx)
	if err != nil {
		return nil, err
	}
	return s.decorate(ctx, pages)
}

// GetPageByID resolves a page or ErrNotFound, for the admin edit form.
func (s *WikiService) GetPageByID(ctx context.Context, id int64) (*data.Page, error) {
	page, err := s.pages.GetPageByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if page == nil {
		return nil, ErrNotFound
	}
	return page, nil
}

// CreateCategory creates a category, rejecting duplicate slugs.
func (s *WikiService) CreateCategory(ctx context.Context, slug, title, subtitle string) (*data.Category, error) {
	existing, err := s.categories.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrSlugExists
	}
	category := &data.Category{Slug: slug, Title: title, Subtitle: subtitle}
	id, err := s.categories.Create(ctx, category)
	if err != nil {
		return nil, err
	}
	category.ID = id
	return category, nil
}

// UpdateCategory rewrites a category, rejecting slug collisions with
// other categories.
func (s *WikiService) UpdateCategory(ctx context.Context, id int64, slug, title, subtitle string) error {
	category, err := s.GetCategoryByID(ctx, id)
	if err != nil {
		return err
	}
	existing, err := s.categories.GetBySlug(ctx, slug)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != id {
		return ErrSlugExists
	}
	category.Slug = slug
	category.Title = title
	category.Subtitle = subtitle
	return s.categories.Update(ctx, category)
}

// DeleteCategory removes a category. Deletion is refused while any page
// still references it; nothing is deleted in that case.
func (s *WikiService) DeleteCategory(ctx context.Context, id int64) error {
	if _, err := s.GetCategoryByID(ctx, id); err != nil {
		return err
	}
	count, err := s.pages.CountPagesByCategoryID(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrCategoryNotEmpty
	}
	return s.categories.Delete(ctx, id)
}

// CreatePage creates a page, rejecting a slug that collides within the
// same category. The same slug in a different category is fine.
func (s *WikiService) CreatePage(ctx context.Context, slug, title, subtitle, markdown string, categoryID int64) (*data.Page, error) {
	if _, err := s.GetCategoryByID(ctx, categoryID); err != nil {
		return nil, err
	}
	existing, err := s.pages.GetPageBySlug(ctx, categoryID, slug)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrSlugExists
	}
	page := &data.Page{Slug: slug, Title: title, Subtitle: subtitle, Markdown: markdown, CategoryID: categoryID}
	if err := s.pages.CreatePage(ctx, page); err != nil {
		return nil, err
	}
	s.reindex(page)
	return page, nil
}

// UpdatePage rewrites a page, with the same slug collision rule as
// CreatePage.
func (s *WikiService) UpdatePage(ctx context.Context, id int64, slug, title, subtitle, markdown string, categoryID int64) (*data.Page, error) {
	page, err := s.GetPageByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.GetCategoryByID(ctx, categoryID); err != nil {
		return nil, err
	}
	existing, err := s.pages.GetPageBySlug(ctx, categoryID, slug)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.ID != id {
		return nil, ErrSlugExists
	}

	page.Slug = slug
	page.Title = title
	page.Subtitle = subtitle
	page.Markdown = markdown
	page.CategoryID = categoryID
	page.UpdatedAt = time.Now()
	if err := s.pages.UpdatePage(ctx, page); err != nil {
		return nil, err
	}
	s.reindex(page)
	return page, nil
}

// DeletePage removes a page together with its comments and likes.
func (s *WikiService) DeletePage(ctx context.Context, id int64) error {
	if _, err := s.GetPageByID(ctx, id); err != nil {
		return err
	}
	if err := s.pages.DeletePage(ctx, id); err != nil {
		return err
	}
	if s.index != nil {
		// Best effort; a stale index entry points at a 404, nothing worse.
		_ = s.index.DeletePage(id)
	}
	return nil
}

// ReindexAll rebuilds the search index from the store, used at boot.
func (s *WikiService) ReindexAll(ctx context.Context) error {
	if s.index == nil {
		return nil
	}
	pages, err := s.pages.GetAllPages(ctx)
	if err != nil {
		return err
	}
	for _, page := range pages {
		if err := s.index.IndexPage(page.ID, page.Title, page.Subtitle, page.CategoryID); err != nil {
			return fmt.Errorf("failed to reindex page %d: %w", page.ID, err)
		}
	}
	return nil
}

// AddComment creates a comment by an authenticated user. Content is
// trimmed and must be non-empty.
func (s *WikiService) AddComment(ctx context.Context, pageID, userID int64, content string) (*data.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyComment
	}
	page, err := s.pages.GetPageByID(ctx, pageID)
	if err != nil {
		return nil, err
	}
	if page == nil {
		return nil, ErrNotFound
	}
	comment := &data.Comment{PageID: pageID, UserID: userID, Content: content}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// DeleteComment removes a comment. Only its author or an administrator
// may do so.
func (s *WikiService) DeleteComment(ctx context.Context, commentID, userID int64, isAdmin bool) error {
	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment == nil {
		return ErrNotFound
	}
	if comment.UserID != userID && !isAdmin {
		return ErrForbidden
	}
	return s.comments.Delete(ctx, commentID)
}

// PageComments returns a page's comments with author info, newest first.
func (s *WikiService) PageComments(ctx context.Context, pageID int64) ([]*data.Comment, error) {
	return s.comments.GetByPageID(ctx, pageID)
}

// GetSettings returns the site settings, falling back to defaults when
// none have been saved.
func (s *WikiService) GetSettings(ctx context.Context) (*data.Settings, error) {
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	if settings == nil {
		return &data.Settings{Sitename: "Basalt Wiki"}, nil
	}
	return settings, nil
}

// SaveSettings writes the site settings singleton.
func (s *WikiService) SaveSettings(ctx context.Context, settings *data.Settings) error {
	return s.settings.Save(ctx, settings)
}

// decorate attaches the owning category and current counts to pages.
// Categories are memoized per call; the data set is small.
func (s *WikiService) decorate(ctx context.Context, pages []*data.Page) ([]*PageResult, error) {
	categories := make(map[int64]*data.Category)
	results := make([]*PageResult, 0, len(pages))
	for _, page := range pages {
		category, ok := categories[page.CategoryID]
		if !ok {
			var err error
			category, err = s.categories.GetByID(ctx, page.CategoryID)
			if err != nil {
				return nil, err
			}
			categories[page.CategoryID] = category
		}
		likeCount, err := s.likes.CountForPage(ctx, page.ID)
		if err != nil {
			return nil, err
		}
		commentCount, err := s.comments.CountForPage(ctx, page.ID)
		if err != nil {
			return nil, err
		}
		results = append(results, &PageResult{
			Page:         *page,
			Category:     category,
			LikeCount:    likeCount,
			CommentCount: commentCount,
		})
	}
	return results, nil
}

// decorateByIDs loads pages by id preserving order, skipping ids that no
// longer resolve, then decorates them.
func (s *WikiService) decorateByIDs(ctx context.Context, ids []int64) ([]*PageResult, error) {
	pages := make([]*data.Page, 0, len(ids))
	for _, id := range ids {
		page, err := s.pages.GetPageByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if page == nil {
			continue
		}
		pages = append(pages, page)
	}
	return s.decorate(ctx, pages)
}

// renderMarkdown converts a page's markdown to sanitized HTML, cached by
// page id and update time so edits invalidate naturally.
func (s *WikiService) renderMarkdown(page *data.Page) (template.HTML, error) {
	key := fmt.Sprintf("page-html:%d:%d", page.ID, page.UpdatedAt.Unix())
	if s.cache != nil {
		if cached, err := s.cache.Get(key); err == nil && cached != nil {
			return template.HTML(cached), nil
		}
	}

	var buf bytes.Buffer
	if err := s.markdown.Convert([]byte(page.Markdown), &buf); err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	safe := s.sanitizer.SanitizeBytes(buf.Bytes())

	if s.cache != nil {
		// Best effort; a cache write failure only costs a re-render.
		_ = s.cache.Set(key, safe, renderCacheTTL)
	}
	return template.HTML(safe), nil
}

// reindex updates the search index after a page write, best effort.
func (s *WikiService) reindex(page *data.Page) {
	if s.index == nil {
		return
	}
	_ = s.index.IndexPage(page.ID, page.Title, page.Subtitle, page.CategoryID)
}
