package handler

import (
	"io/fs"
	"net/http"

	appmw "basalt-wiki/internal/middleware"
	"basalt-wiki/internal/session"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter creates and configures a new chi router.
func NewRouter(
	wikiHandler *WikiHandler,
	searchHandler *SearchHandler,
	likeHandler *LikeHandler,
	commentHandler *CommentHandler,
	adminHandler *AdminHandler,
	authHandler *AuthHandler,
	seoHandler *SeoHandler,
	authzMiddleware func(http.Handler) http.Handler,
	errorMiddleware func(appmw.AppHandler) http.Handler,
	sessionManager session.Manager,
	staticFS fs.FS,
) *chi.Mux {
	r := chi.NewRouter()

	// A good base middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(sessionManager.LoadAndSave)
	r.Use(appmw.SettingsMiddleware)
	r.Use(appmw.AnonSession)

	// SEO and static assets skip session-bound authorization entirely.
	r.Get("/robots.txt", seoHandler.robotsHandler)
	r.Get("/sitemap.xml", seoHandler.sitemapHandler)
	r.Handle("/static/*", http.FileServer(http.FS(staticFS)))

	// Authentication routes
	r.Get("/auth/login", authHandler.handleLogin)
	r.Get("/auth/callback", authHandler.handleCallback)
	r.Get("/auth/logout", authHandler.handleLogout)

	// Everything else goes through the Casbin authorizer; the role
	// policies decide who may reach which route.
	r.Group(func(r chi.Router) {
		r.Use(authzMiddleware)

		r.Method(http.MethodGet, "/", errorMiddleware(wikiHandler.homeHandler))
		r.Method(http.MethodGet, "/c/{category}", errorMiddleware(wikiHandler.categoryHandler))
		r.Method(http.MethodGet, "/c/{category}/{page}", errorMiddleware(wikiHandler.pageHandler))

		r.Method(http.MethodGet, "/search", errorMiddleware(searchHandler.searchHandler))
		r.Method(http.MethodGet, "/api/search", errorMiddleware(searchHandler.quickSearchHandler))

		r.Method(http.MethodPost, "/pages/{id}/like", errorMiddleware(likeHandler.toggleHandler))
		r.Method(http.MethodPost, "/pages/{id}/comments", errorMiddleware(commentHandler.createHandler))
		r.Method(http.MethodPost, "/comments/{id}/delete", errorMiddleware(commentHandler.deleteHandler))

		r.Method(http.MethodGet, "/dash", errorMiddleware(adminHandler.dashboardHandler))
		r.Method(http.MethodGet, "/dash/categories/new", errorMiddleware(adminHandler.newCategoryHandler))
		r.Method(http.MethodPost, "/dash/categories", errorMiddleware(adminHandler.saveCategoryHandler))
		r.Method(http.MethodGet, "/dash/categories/{id}/edit", errorMiddleware(adminHandler.editCategoryHandler))
		r.Method(http.MethodPost, "/dash/categories/{id}", errorMiddleware(adminHandler.saveCategoryHandler))
		r.Method(http.MethodPost, "/dash/categories/{id}/delete", errorMiddleware(adminHandler.deleteCategoryHandler))
		r.Method(http.MethodGet, "/dash/pages/new", errorMiddleware(adminHandler.newPageHandler))
		r.Method(http.MethodPost, "/dash/pages", errorMiddleware(adminHandler.savePageHandler))
		r.Method(http.MethodGet, "/dash/pages/{id}/edit", errorMiddleware(adminHandler.editPageHandler))
		r.Method(http.MethodPost, "/dash/pages/{id}", errorMiddleware(adminHandler.savePageHandler))
		r.Method(http.MethodPost, "/dash/pages/{id}/delete", errorMiddleware(adminHandler.deletePageHandler))
		r.Method(http.MethodPost, "/dash/settings", errorMiddleware(adminHandler.saveSettingsHandler))
	})

	return r
}
