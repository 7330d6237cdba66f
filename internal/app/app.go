// Package app provides the application container and dependency injection.
package app

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	"github.com/gqlforge/gqlforge/internal/graphql"
	"github.com/gqlforge/gqlforge/internal/merger"
	"github.com/gqlforge/gqlforge/internal/registry"
	"github.com/gqlforge/gqlforge/internal/storage"
)

// Config holds application configuration.
type Config struct {
	Port   int
	DBPath string
	Debug  bool
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Port:   8080,
		DBPath: "./gqlforge.db",
		Debug:  false,
	}
}

// App is the main application container.
type App struct {
	Config          *Config
	DB              *sql.DB
	Logger          *slog.Logger
	Merger          *merger.Merger
	RegistryService *registry.Service
	GraphQLClient   *graphql.Client
}

// New creates a new application instance.
func New(cfg *Config) (*App, error) {
	// Set up logger
	logLevel := slog.LevelInfo
	if cfg.Debug {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))

	// Initialize database and run migrations
	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// Initialize merger
	mergerInstance := merger.New()

	// Initialize registry service
	repo := registry.NewRepository(db)
	registryService := registry.NewService(repo)

	// Shared client for endpoint introspection
	client := graphql.NewClient()

	return &App{
		Config:          cfg,
		DB:              db,
		Logger:          logger,
		Merger:          mergerInstance,
		RegistryService: registryService,
		GraphQLClient:   client,
	}, nil
}

// Close cleans up application resources.
func (a *App) Close() error {
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}
