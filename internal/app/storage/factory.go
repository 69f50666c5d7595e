// Package storage provides factory functions for creating storage-dependent components.
// It implements the Abstract Factory pattern to ensure related components (catalog store,
// task state service, scheduler locker) are created with compatible storage backends.
package storage

import (
	"context"
	"fmt"

	"github.com/stacklok/toolhive-catalog-provider/internal/catalog"
	"github.com/stacklok/toolhive-catalog-provider/internal/config"
	"github.com/stacklok/toolhive-catalog-provider/internal/scheduler"
	"github.com/stacklok/toolhive-catalog-provider/internal/state"
)

//go:generate mockgen -destination=mocks/mock_factory.go -package=mocks -source=factory.go Factory

// Factory creates storage-dependent components as a family.
// Implementations ensure all components are compatible with each other
// (e.g., all use the database or all use local files).
//
// It also manages the lifecycle of storage resources (e.g., database connections).
type Factory interface {
	// CreateCatalogStore creates the store that receives provider mutations.
	CreateCatalogStore(ctx context.Context) (catalog.Store, error)

	// CreateStateService creates a state service for task status tracking.
	CreateStateService(ctx context.Context) (state.TaskStateService, error)

	// CreateLocker creates the lock shared between replicas for globally scoped tasks.
	// Returns nil when the storage is local to the process.
	CreateLocker(ctx context.Context) (scheduler.Locker, error)

	// Cleanup releases any resources held by this factory.
	// Should be called when the application shuts down.
	Cleanup()
}

// NewStorageFactory creates a storage factory based on the configured storage type.
func NewStorageFactory(ctx context.Context, cfg *config.Config, opts ...DatabaseFactoryOption) (Factory, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	switch cfg.GetStorageType() {
	case config.StorageTypeDatabase:
		return NewDatabaseFactory(ctx, cfg, opts...)
	case config.StorageTypeFile:
		return NewFileFactory(cfg)
	case config.StorageTypeMemory:
		return NewMemoryFactory(cfg)
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.GetStorageType())
	}
}
