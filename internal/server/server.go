// Package server provides the HTTP server.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gqlforge/gqlforge/internal/app"
	"github.com/gqlforge/gqlforge/internal/server/handlers"
	servermw "github.com/gqlforge/gqlforge/internal/server/middleware"
	"github.com/gqlforge/gqlforge/web"
)

// Server represents the HTTP server.
type Server struct {
	app    *app.App
	server *http.Server
	router *chi.Mux
	csrf   *servermw.CSRFProtection
}

// New creates a new Server.
func New(application *app.App) *Server {
	s := &Server{
		app:    application,
		router: chi.NewRouter(),
		csrf:   servermw.NewCSRFProtection(servermw.DefaultCSRFConfig()),
	}

	s.setupMiddleware()
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", application.Config.Port),
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(servermw.SecurityHeaders)
	s.router.Use(servermw.Logger(s.app.Logger))
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(servermw.HTMX)
}

func (s *Server) setupRoutes() {
	// Static files
	s.router.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(web.StaticFS))))

	// Create handlers
	homeHandler := handlers.NewHomeHandler(s.app)
	generateHandler := handlers.NewGenerateHandler(s.app)
	mergeHandler := handlers.NewMergeHandler(s.app)
	schemasHandler := handlers.NewSchemasHandler(s.app)

	// Introspection of user-supplied endpoints fans out from the
	// generate route, so it carries the tightest limit.
	generateLimiter := servermw.NewRateLimiter(2, 5)

	// Pages and the import form carry CSRF protection. The generate and
	// merge APIs stay open for programmatic JSON or multipart use.
	s.router.Group(func(r chi.Router) {
		r.Use(s.csrf.Protect)

		r.Get("/", homeHandler.Index)
		r.Get("/browse", schemasHandler.Browse)
		r.Get("/merge", mergeHandler.Index)
		r.Get("/schema/{slug}", schemasHandler.View)

		r.Post("/schemas", schemasHandler.Create)
	})

	// Downloads
	s.router.Get("/schema/{slug}/sdl", schemasHandler.DownloadSDL)
	s.router.Get("/schema/{slug}/go", schemasHandler.DownloadGo)

	// API endpoints
	s.router.With(generateLimiter.Limit).Post("/api/generate", generateHandler.Generate)
	s.router.Post("/api/merge", mergeHandler.Merge)
	s.router.Get("/api/schemas", schemasHandler.List)
	s.router.Delete("/api/schema/{id}", schemasHandler.Delete)
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}
