package storage

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/stacklok/toolhive-catalog-provider/internal/catalog"
	"github.com/stacklok/toolhive-catalog-provider/internal/catalog/store"
	"github.com/stacklok/toolhive-catalog-provider/internal/config"
	"github.com/stacklok/toolhive-catalog-provider/internal/scheduler"
	"github.com/stacklok/toolhive-catalog-provider/internal/state"
	"github.com/stacklok/toolhive-catalog-provider/internal/status"
)

const (
	locationsDirName = "locations"
	statusDirName    = "status"
)

// FileFactory creates file-based storage components.
// Locations and task statuses are kept in sibling directories under the configured path.
type FileFactory struct {
	config  *config.Config
	baseDir string

	// Created once and shared by all components
	statusPersistence status.StatusPersistence
}

var _ Factory = (*FileFactory)(nil)

// NewFileFactory creates a new file-based storage factory, ensuring the
// necessary directories exist.
func NewFileFactory(cfg *config.Config) (*FileFactory, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if cfg.Catalog.Storage == nil || cfg.Catalog.Storage.File == nil || cfg.Catalog.Storage.File.Path == "" {
		return nil, fmt.Errorf("file storage path is required")
	}

	baseDir := cfg.Catalog.Storage.File.Path
	for _, dir := range []string{locationsDirName, statusDirName} {
		if err := os.MkdirAll(filepath.Join(baseDir, dir), 0750); err != nil {
			return nil, fmt.Errorf("failed to create data directory %s: %w", baseDir, err)
		}
	}

	slog.Info("Creating file-based storage factory", "base_dir", baseDir)

	return &FileFactory{
		config:            cfg,
		baseDir:           baseDir,
		statusPersistence: status.NewFileStatusPersistence(filepath.Join(baseDir, statusDirName)),
	}, nil
}

// CreateCatalogStore creates a file-backed catalog store.
func (f *FileFactory) CreateCatalogStore(_ context.Context) (catalog.Store, error) {
	slog.Debug("Creating file-based catalog store")
	return store.NewFileStore(filepath.Join(f.baseDir, locationsDirName))
}

// CreateStateService creates a file-based state service for task status tracking.
func (f *FileFactory) CreateStateService(_ context.Context) (state.TaskStateService, error) {
	slog.Debug("Creating file-based state service")
	return state.NewStateService(f.config, f.statusPersistence, nil)
}

// CreateLocker returns nil, file storage assumes a single process.
func (*FileFactory) CreateLocker(_ context.Context) (scheduler.Locker, error) {
	return nil, nil
}

// Cleanup releases resources held by the file factory.
// For file storage, there are no resources to clean up.
func (*FileFactory) Cleanup() {
	slog.Debug("Cleaning up file storage factory (no-op)")
}
