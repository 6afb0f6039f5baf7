package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"basalt-wiki/internal/auth"
	"basalt-wiki/internal/cache"
	"basalt-wiki/internal/config"
	"basalt-wiki/internal/data"
	"basalt-wiki/internal/handler"
	"basalt-wiki/internal/logger"
	"basalt-wiki/internal/middleware"
	"basalt-wiki/internal/search"
	"basalt-wiki/internal/service"
	"basalt-wiki/internal/view"
	"basalt-wiki/web"

	"github.com/alexedwards/scs/mysqlstore"
	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
)

func main() {
	// --- Configuration Loading ---
	cfg, err := config.LoadConfig()
	if err != nil {
		// Use fmt.Printf here because the logger is not yet initialized.
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// --- Logger Initialization ---
	log := logger.New(cfg.Log)

	// --- Database Initialization and Migration ---
	log.Info("Applying database migrations...")
	if err := data.ApplyMigrations(cfg.DB, filepath.Join("migrations", cfg.DB.Driver)); err != nil {
		log.Fatal(err, "Failed to apply migrations")
	}
	log.Info("Migrations applied successfully.")

	log.Info("Connecting to the database...")
	db, err := data.NewDB(cfg.DB)
	if err != nil {
		log.Fatal(err, "Failed to connect to database")
	}
	defer db.Close()
	log.Info("Database connection successful.")

	// --- Session Management Setup ---
	sessionManager := scs.New()
	if cfg.DB.Driver == "mysql" {
		sessionManager.Store = mysqlstore.New(db.DB)
	} else {
		sessionManager.Store = sqlite3store.New(db.DB)
	}
	sessionManager.Lifetime = time.Duration(cfg.Session.Lifetime) * time.Hour
	sessionManager.Cookie.Persist = true
	sessionManager.Cookie.SameSite = http.SameSiteLaxMode
	sessionManager.Cookie.Secure = cfg.Server.TLS.Enabled

	// --- Authentication and Authorization Setup ---
	log.Info("Initializing authentication and authorization...")
	authenticator, err := auth.NewAuthenticator(&cfg.OIDC)
	if err != nil {
		log.Fatal(err, "Failed to initialize authenticator")
	}
	enforcer, err := auth.NewEnforcer(cfg.DB.Driver, cfg.DB.DSN, "configs/auth_model.conf")
	if err != nil {
		log.Fatal(err, "Failed to initialize enforcer")
	}
	auth.SeedDefaultPolicies(enforcer, cfg.Admin.Subjects, log)
	log.Info("Auth components initialized and policies seeded.")

	// --- View Template Initialization ---
	log.Info("Initializing view templates...")
	viewService, err := view.New(web.TemplateFS)
	if err != nil {
		log.Fatal(err, "Failed to initialize view templates")
	}
	log.Info("View templates initialized.")

	// --- Cache Initialization ---
	log.Info("Initializing SQLite cache...")
	htmlCache, err := cache.New(cfg.Cache)
	if err != nil {
		log.Fatal(err, "Failed to initialize cache")
	}
	defer htmlCache.Close()
	log.Info("Cache initialized.")

	// --- Search Index Initialization ---
	// Without an index path the category-scoped search falls back to the
	// in-memory scorer, so the index is optional.
	var pageIndex service.PageIndex
	if cfg.Search.IndexPath != "" {
		log.Info("Opening search index...")
		idx, err := search.OpenIndex(cfg.Search.IndexPath)
		if err != nil {
			log.Fatal(err, "Failed to open search index")
		}
		defer idx.Close()
		pageIndex = idx
	}

	// --- Dependency Injection and Handler Initialization ---
	// Initialize the application layers, injecting dependencies from top to bottom.
	pageRepository := data.NewSQLPageRepository(db)
	categoryRepository := data.NewCategoryRepository(db)
	commentRepository := data.NewCommentRepository(db)
	likeRepository := data.NewLikeRepository(db)
	settingsRepository := data.NewSettingsRepository(db)
	userRepository := data.NewUserRepository(db)

	wikiService := service.NewWikiService(
		pageRepository,
		categoryRepository,
		commentRepository,
		likeRepository,
		settingsRepository,
		htmlCache,
		pageIndex,
		cfg.Search.ResultLimit,
	)
	likeService := service.NewLikeService(pageRepository, likeRepository)

	if pageIndex != nil {
		if err := wikiService.ReindexAll(context.Background()); err != nil {
			log.Fatal(err, "Failed to build search index")
		}
	}

	wikiHandler := handler.NewWikiHandler(wikiService, likeService, viewService, log)
	searchHandler := handler.NewSearchHandler(wikiService, viewService, cfg.Search)
	likeHandler := handler.NewLikeHandler(likeService, viewService)
	commentHandler := handler.NewCommentHandler(wikiService)
	adminHandler := handler.NewAdminHandler(wikiService, viewService, log)
	authHandler := handler.NewAuthHandler(authenticator, sessionManager, enforcer, userRepository)
	seoHandler := handler.NewSeoHandler(wikiService, cfg.Server.BaseURL)

	authzMiddleware := middleware.Authorizer(enforcer, sessionManager)
	errorMiddleware := middleware.Error(log, viewService)

	// --- Router Setup ---
	// The router is the central hub that directs incoming requests to the correct handlers.
	router := handler.NewRouter(
		wikiHandler,
		searchHandler,
		likeHandler,
		commentHandler,
		adminHandler,
		authHandler,
		seoHandler,
		authzMiddleware,
		errorMiddleware,
		sessionManager,
		web.StaticFS,
	)

	// --- Server Initialization and Graceful Shutdown ---
	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}
	go func() {
		if cfg.Server.TLS.Enabled {
			log.Info(fmt.Sprintf("Starting HTTPS server on %s", server.Addr))
			if err := server.ListenAndServeTLS(cfg.Server.TLS.CertFile, cfg.Server.TLS.KeyFile); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Fatal(err, "Could not start HTTPS server")
			}
		} else {
			log.Info(fmt.Sprintf("Starting HTTP server on %s", server.Addr))
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Fatal(err, "Could not start HTTP server")
			}
		}
	}()
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Warn("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Fatal(err, "Server forced to shutdown")
	}
	log.Info("Server exiting")
}
