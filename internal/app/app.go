// Package app provides application lifecycle management for the catalog provider.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/stacklok/toolhive-catalog-provider/internal/config"
	"github.com/stacklok/toolhive-catalog-provider/internal/state"
)

// CatalogApp encapsulates all components needed to run the catalog provider.
// It provides lifecycle management and graceful shutdown capabilities.
type CatalogApp struct {
	config     *config.Config
	components *AppComponents
	httpServer *http.Server

	cleanup     func()
	cleanupOnce sync.Once
}

// Start starts the scheduler and the HTTP server.
// This method blocks until the HTTP server stops or encounters an error.
func (app *CatalogApp) Start() error {
	app.components.Scheduler.Start()

	slog.Info("Server listening", "address", app.httpServer.Addr)
	if err := app.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("HTTP server failed: %w", err)
	}

	return nil
}

// Stop gracefully stops the application with the given timeout.
// It stops the scheduler, waiting for running refreshes, and then shuts down the HTTP server.
func (app *CatalogApp) Stop(timeout time.Duration) error {
	slog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := app.components.Scheduler.Stop(shutdownCtx); err != nil {
		slog.Error("Failed to stop scheduler", "error", err)
	}

	if err := app.httpServer.Shutdown(shutdownCtx); err != nil {
		app.release()
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	app.release()
	slog.Info("Server shutdown complete")
	return nil
}

// RefreshAll refreshes every provider once, in provider order, without the scheduler.
// Task status is recorded as if the scheduler had run the tasks.
func (app *CatalogApp) RefreshAll(ctx context.Context) error {
	listener := state.NewListener(app.components.StateService)

	var errs []error
	for _, p := range app.components.providers {
		start := time.Now()
		listener.TaskStarted(ctx, p.TaskID())

		err := p.Refresh(ctx)
		listener.TaskFinished(ctx, p.TaskID(), time.Since(start), err)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", p.GetProviderName(), err))
		}
	}
	return errors.Join(errs...)
}

// Close releases storage resources without starting the app
func (app *CatalogApp) Close() {
	app.release()
}

func (app *CatalogApp) release() {
	app.cleanupOnce.Do(func() {
		if app.cleanup != nil {
			app.cleanup()
		}
	})
}

// GetConfig returns the application configuration
func (app *CatalogApp) GetConfig() *config.Config {
	return app.config
}

// GetHTTPServer returns the HTTP server (useful for testing to get the actual port)
func (app *CatalogApp) GetHTTPServer() *http.Server {
	return app.httpServer
}

// Components returns the built application components
func (app *CatalogApp) Components() *AppComponents {
	return app.components
}
