package handler

import (
	"net/http"

	"basalt-wiki/internal/config"
	"basalt-wiki/internal/middleware"
	"basalt-wiki/internal/service"
	"basalt-wiki/internal/view"
)

// SearchHandler serves the search page and the header quick-search
// partial.
type SearchHandler struct {
	wiki *service.WikiService
	view *view.View
	cfg  config.SearchConfig
}

// NewSearchHandler creates a new SearchHandler.
func NewSearchHandler(wiki *service.WikiService, v *view.View, cfg config.SearchConfig) *SearchHandler {
	return &SearchHandler{wiki: wiki, view: v, cfg: cfg}
}

// searchHandler renders the full search results page. An empty query
// renders the page with no results rather than an error.
func (h *SearchHandler) searchHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	ctx := r.Context()
	query := r.URL.Query().Get("q")
	categorySlug := r.URL.Query().Get("category")

	results, err := h.wiki.SearchPages(ctx, query, service.SearchOptions{
		CategorySlug: categorySlug,
		Limit:        h.cfg.ResultLimit,
	})
	if err != nil {
		return appError(err, "Search failed")
	}
	settings, err := h.wiki.GetSettings(ctx)
	if err != nil {
		return appError(err, "Failed to load settings")
	}

	data := map[string]interface{}{
		"Settings": settings,
		"UserInfo": middleware.GetUserInfo(ctx),
		"Query":    query,
		"Category": categorySlug,
		"Results":  results,
	}
	if err := h.view.Render(w, r, "search.html", data); err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to render search page", Code: http.StatusInternalServerError}
	}
	return nil
}

// quickSearchHandler renders the dropdown partial behind the header
// search box, capped tighter than the full page.
func (h *SearchHandler) quickSearchHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	ctx := r.Context()
	query := r.URL.Query().Get("q")

	results, err := h.wiki.SearchPages(ctx, query, service.SearchOptions{
		Limit: h.cfg.QuickLimit,
	})
	if err != nil {
		return appError(err, "Search failed")
	}

	data := map[string]interface{}{
		"Results": results,
	}
	if err := h.view.Render(w, r, "quick_search.html", data); err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to render search results", Code: http.StatusInternalServerError}
	}
	return nil
}
