package handler

import (
	"net/http"
	"strconv"

	"basalt-wiki/internal/data"
	"basalt-wiki/internal/logger"
	"basalt-wiki/internal/middleware"
	"basalt-wiki/internal/service"
	"basalt-wiki/internal/view"

	"github.com/go-chi/chi/v5"
)

// AdminHandler serves the content-management dashboard. Authorization
// happens in the router middleware; none of these handlers re-check the
// admin role.
type AdminHandler struct {
	wiki *service.WikiService
	view *view.View
	log  logger.Logger
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(wiki *service.WikiService, v *view.View, log logger.Logger) *AdminHandler {
	return &AdminHandler{wiki: wiki, view: v, log: log}
}

// dashboardHandler lists all pages and categories plus the settings form.
func (h *AdminHandler) dashboardHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	ctx := r.Context()
	pages, err := h.wiki.AllPages(ctx)
	if err != nil {
		return appError(err, "Failed to load pages")
	}
	categories, err := h.wiki.ListCategories(ctx)
	if err != nil {
		return appError(err, "Failed to load categories")
	}
	settings, err := h.wiki.GetSettings(ctx)
	if err != nil {
		return appError(err, "Failed to load settings")
	}

	data := map[string]interface{}{
		"Settings":   settings,
		"UserInfo":   middleware.GetUserInfo(ctx),
		"Pages":      pages,
		"Categories": categories,
	}
	if err := h.view.Render(w, r, "dash.html", data); err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to render dashboard", Code: http.StatusInternalServerError}
	}
	return nil
}

// newCategoryHandler renders an empty category form.
func (h *AdminHandler) newCategoryHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	return h.renderCategoryForm(w, r, &data.Category{})
}

// editCategoryHandler renders the form for an existing category.
func (h *AdminHandler) editCategoryHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	id, appErr := pathID(r)
	if appErr != nil {
		return appErr
	}
	category, err := h.wiki.GetCategoryByID(r.Context(), id)
	if err != nil {
		return appError(err, "Category not found")
	}
	return h.renderCategoryForm(w, r, category)
}

func (h *AdminHandler) renderCategoryForm(w http.ResponseWriter, r *http.Request, category *data.Category) *middleware.AppError {
	data := map[string]interface{}{
		"UserInfo": middleware.GetUserInfo(r.Context()),
		"Category": category,
	}
	if err := h.view.Render(w, r, "category_form.html", data); err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to render category form", Code: http.StatusInternalServerError}
	}
	return nil
}

// saveCategoryHandler creates or updates a category from the form.
func (h *AdminHandler) saveCategoryHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	ctx := r.Context()
	slug := r.FormValue("slug")
	title := r.FormValue("title")
	subtitle := r.FormValue("subtitle")

	if idStr := chi.URLParam(r, "id"); idStr != "" {
		id, appErr := pathID(r)
		if appErr != nil {
			return appErr
		}
		if err := h.wiki.UpdateCategory(ctx, id, slug, title, subtitle); err != nil {
			return appError(err, "Failed to update category")
		}
	} else {
		if _, err := h.wiki.CreateCategory(ctx, slug, title, subtitle); err != nil {
			return appError(err, "Failed to create category")
		}
	}
	http.Redirect(w, r, "/dash", http.StatusFound)
	return nil
}

// deleteCategoryHandler removes an empty category.
func (h *AdminHandler) deleteCategoryHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	id, appErr := pathID(r)
	if appErr != nil {
		return appErr
	}
	if err := h.wiki.DeleteCategory(r.Context(), id); err != nil {
		return appError(err, "Failed to delete category")
	}
	http.Redirect(w, r, "/dash", http.StatusFound)
	return nil
}

// newPageHandler renders an empty page form.
func (h *AdminHandler) newPageHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	return h.renderPageForm(w, r, &data.Page{})
}

// editPageHandler renders the form for an existing page.
func (h *AdminHandler) editPageHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	id, appErr := pathID(r)
	if appErr != nil {
		return appErr
	}
	page, err := h.wiki.GetPageByID(r.Context(), id)
	if err != nil {
		return appError(err, "Page not found")
	}
	return h.renderPageForm(w, r, page)
}

func (h *AdminHandler) renderPageForm(w http.ResponseWriter, r *http.Request, page *data.Page) *middleware.AppError {
	categories, err := h.wiki.ListCategories(r.Context())
	if err != nil {
		return appError(err, "Failed to load categories")
	}
	data := map[string]interface{}{
		"UserInfo":   middleware.GetUserInfo(r.Context()),
		"Page":       page,
		"Categories": categories,
	}
	if err := h.view.Render(w, r, "page_form.html", data); err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to render page form", Code: http.StatusInternalServerError}
	}
	return nil
}

// savePageHandler creates or updates a page from the form.
func (h *AdminHandler) savePageHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	ctx := r.Context()
	categoryID, err := strconv.ParseInt(r.FormValue("category_id"), 10, 64)
	if err != nil {
		return &middleware.AppError{Error: err, Message: "Invalid category id", Code: http.StatusBadRequest}
	}
	slug := r.FormValue("slug")
	title := r.FormValue("title")
	subtitle := r.FormValue("subtitle")
	markdown := r.FormValue("markdown")

	if idStr := chi.URLParam(r, "id"); idStr != "" {
		id, appErr := pathID(r)
		if appErr != nil {
			return appErr
		}
		if _, err := h.wiki.UpdatePage(ctx, id, slug, title, subtitle, markdown, categoryID); err != nil {
			return appError(err, "Failed to update page")
		}
	} else {
		if _, err := h.wiki.CreatePage(ctx, slug, title, subtitle, markdown, categoryID); err != nil {
			return appError(err, "Failed to create page")
		}
	}
	http.Redirect(w, r, "/dash", http.StatusFound)
	return nil
}

// deletePageHandler removes a page and cascades to its comments and likes.
func (h *AdminHandler) deletePageHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	id, appErr := pathID(r)
	if appErr != nil {
		return appErr
	}
	if err := h.wiki.DeletePage(r.Context(), id); err != nil {
		return appError(err, "Failed to delete page")
	}
	http.Redirect(w, r, "/dash", http.StatusFound)
	return nil
}

// saveSettingsHandler writes the site settings singleton.
func (h *AdminHandler) saveSettingsHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	settings := &data.Settings{
		Sitename:   r.FormValue("sitename"),
		Subtitle:   r.FormValue("subtitle"),
		Disclaimer: r.FormValue("disclaimer"),
	}
	if err := h.wiki.SaveSettings(r.Context(), settings); err != nil {
		return appError(err, "Failed to save settings")
	}
	http.Redirect(w, r, "/dash", http.StatusFound)
	return nil
}

func pathID(r *http.Request) (int64, *middleware.AppError) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, &middleware.AppError{Error: err, Message: "Invalid id", Code: http.StatusBadRequest}
	}
	return id, nil
}
