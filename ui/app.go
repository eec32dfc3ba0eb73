// Package ui exposes the analysis pipeline over HTTP as JSON, plus a
// rendered HTML report. The core owns no wire protocol; this layer is
// the delivery adapter around it.
package ui

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"agora/domain/opinion"
)

// App represents the HTTP application
type App struct {
	router        *chi.Mux
	port          string
	defaultParams opinion.AnalysisParams
}

// Config holds application configuration
type Config struct {
	Port          string
	DefaultParams opinion.AnalysisParams
}

// NewApp creates a new HTTP application
func NewApp(config Config) *App {
	port := config.Port
	if port == "" {
		port = "8080"
	}
	app := &App{
		router:        chi.NewRouter(),
		port:          port,
		defaultParams: config.DefaultParams.Normalized(),
	}

	app.setupMiddleware()
	app.setupRoutes()

	return app
}

// setupMiddleware configures HTTP middleware
func (a *App) setupMiddleware() {
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Compress(5))
}

// setupRoutes configures the application routes
func (a *App) setupRoutes() {
	a.router.Get("/healthz", a.handleHealth)

	a.router.Post("/api/analyze", a.handleAnalyze)
	a.router.Post("/api/recommend-k", a.handleRecommendK)
	a.router.Post("/api/report", a.handleReport)
}

// Router exposes the underlying router (for tests and embedding)
func (a *App) Router() http.Handler {
	return a.router
}

// Start runs the HTTP server on the configured port
func (a *App) Start() error {
	return http.ListenAndServe(fmt.Sprintf(":%s", a.port), a.router)
}
