package handler

import (
	"net/http"

	"basalt-wiki/internal/logger"
	"basalt-wiki/internal/middleware"
	"basalt-wiki/internal/service"
	"basalt-wiki/internal/view"

	"github.com/go-chi/chi/v5"
)

// WikiHandler serves the public content pages.
type WikiHandler struct {
	wiki  *service.WikiService
	likes service.LikeServicer
	view  *view.View
	log   logger.Logger
}

// NewWikiHandler creates a new WikiHandler with the given dependencies.
func NewWikiHandler(wiki *service.WikiService, likes service.LikeServicer, v *view.View, log logger.Logger) *WikiHandler {
	return &WikiHandler{wiki: wiki, likes: likes, view: v, log: log}
}

// homeHandler renders the landing page: categories, recent pages and the
// most liked pages.
func (h *WikiHandler) homeHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	ctx := r.Context()
	settings, err := h.wiki.GetSettings(ctx)
	if err != nil {
		return appError(err, "Failed to load settings")
	}
	categories, err := h.wiki.ListCategories(ctx)
	if err != nil {
		return appError(err, "Failed to load categories")
	}
	recent, err := h.wiki.RecentPages(ctx, 10)
	if err != nil {
		return appError(err, "Failed to load recent pages")
	}
	mostLiked, err := h.wiki.MostLikedPages(ctx, 10)
	if err != nil {
		return appError(err, "Failed to load most liked pages")
	}

	data := map[string]interface{}{
		"Settings":   settings,
		"UserInfo":   middleware.GetUserInfo(ctx),
		"Categories": categories,
		"Recent":     recent,
		"MostLiked":  mostLiked,
	}
	if err := h.view.Render(w, r, "home.html", data); err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to render home page", Code: http.StatusInternalServerError}
	}
	return nil
}

// categoryHandler lists a category's pages with like and comment counts.
func (h *WikiHandler) categoryHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	ctx := r.Context()
	slug := chi.URLParam(r, "category")

	category, pages, err := h.wiki.CategoryPages(ctx, slug)
	if err != nil {
		return appError(err, "Category not found")
	}
	settings, err := h.wiki.GetSettings(ctx)
	if err != nil {
		return appError(err, "Failed to load settings")
	}

	data := map[string]interface{}{
		"Settings": settings,
		"UserInfo": middleware.GetUserInfo(ctx),
		"Category": category,
		"Pages":    pages,
	}
	if err := h.view.Render(w, r, "category.html", data); err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to render category page", Code: http.StatusInternalServerError}
	}
	return nil
}

// pageHandler renders a single wiki page: markdown body, comments and
// the viewer's like state.
func (h *WikiHandler) pageHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	ctx := r.Context()
	categorySlug := chi.URLParam(r, "category")
	pageSlug := chi.URLParam(r, "page")

	page, err := h.wiki.ViewPage(ctx, categorySlug, pageSlug)
	if err != nil {
		return appError(err, "Page not found")
	}
	settings, err := h.wiki.GetSettings(ctx)
	if err != nil {
		return appError(err, "Failed to load settings")
	}

	liked, err := h.likes.HasLiked(ctx, page.ID, resolveViewer(r))
	if err != nil {
		return appError(err, "Failed to load like state")
	}

	data := map[string]interface{}{
		"Settings": settings,
		"UserInfo": middleware.GetUserInfo(ctx),
		"Page":     page,
		"Liked":    liked,
	}
	if err := h.view.Render(w, r, "page.html", data); err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to render page", Code: http.StatusInternalServerError}
	}
	return nil
}
