package app

import (
	"context"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/vividoc-ai/vividoc/pkg/config"
	"github.com/vividoc-ai/vividoc/pkg/server/api"
	"github.com/vividoc-ai/vividoc/pkg/server/httpx"
)

// App orchestrates the server runtime components:
// - HTTP server (REST API)
// - Background generation jobs
// - Lifecycle management
type App struct {
	HTTP   *http.Server
	Ready  *atomic.Bool
	Config config.ServerConfig
	Deps   *Deps
}

// New creates and configures a new server application.
func New(ctx context.Context, cfg config.ServerConfig, deps *Deps) (*App, error) {
	deps.Logger.Info().Msg("Initializing server application")

	if deps.Specs == nil {
		return nil, fmt.Errorf("spec store is required")
	}
	if deps.Generation == nil {
		return nil, fmt.Errorf("generation service is required")
	}
	if deps.Registry == nil {
		return nil, fmt.Errorf("job registry is required")
	}

	// Prepare API dependencies
	ready := &atomic.Bool{}
	apiDeps := &api.Deps{
		Specs:      deps.Specs,
		Generation: deps.Generation,
		Registry:   deps.Registry,
		Config:     api.DefaultConfig(), // Use default API config (30s handler timeout)
		Ready:      ready,
	}

	// Create router with all endpoints mounted
	router := httpx.NewRouter(cfg, apiDeps)

	if cfg.APIEnabled {
		deps.Logger.Info().Msg("API endpoints enabled")
	} else {
		deps.Logger.Warn().Msg("API endpoints disabled")
	}

	// Create HTTP server with middleware
	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Addr, cfg.Port),
		Handler:      httpx.Chain(cfg, router),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return &App{
		HTTP:   httpServer,
		Ready:  ready,
		Config: cfg,
		Deps:   deps,
	}, nil
}

// Run starts the server and blocks until shutdown.
func (a *App) Run(ctx context.Context) error {
	a.Deps.Logger.Info().
		Str("addr", a.HTTP.Addr).
		Bool("api", a.Config.APIEnabled).
		Msg("Starting ViviDoc server")

	// Start HTTP server in goroutine
	serverErr := make(chan error, 1)
	go func() {
		if err := a.HTTP.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- fmt.Errorf("HTTP server failed: %w", err)
		}
	}()

	// Mark as ready
	a.Ready.Store(true)
	a.Deps.Logger.Info().Msg("Server is ready and accepting connections")

	// Wait for shutdown signal or server error
	select {
	case <-ctx.Done():
		a.Deps.Logger.Info().Msg("Shutdown signal received")
	case err := <-serverErr:
		a.Deps.Logger.Error().Err(err).Msg("Server error")
		return err
	}

	// Graceful shutdown
	return a.shutdown()
}

// shutdown performs graceful shutdown of all components.
func (a *App) shutdown() error {
	a.Deps.Logger.Info().Msg("Initiating graceful shutdown")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Mark as not ready
	a.Ready.Store(false)

	// Shutdown HTTP server
	a.Deps.Logger.Info().Msg("Shutting down HTTP server...")
	if err := a.HTTP.Shutdown(shutdownCtx); err != nil {
		a.Deps.Logger.Error().Err(err).Msg("HTTP server shutdown failed")
		return err
	}
	a.Deps.Logger.Info().Msg("HTTP server stopped")

	a.Deps.Logger.Info().Msg("Server shutdown complete")
	return nil
}
