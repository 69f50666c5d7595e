package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/stacklok/toolhive-catalog-provider/internal/catalog"
	"github.com/stacklok/toolhive-catalog-provider/internal/catalog/store"
	"github.com/stacklok/toolhive-catalog-provider/internal/config"
	"github.com/stacklok/toolhive-catalog-provider/internal/scheduler"
	"github.com/stacklok/toolhive-catalog-provider/internal/state"
)

// MemoryFactory creates components that keep everything in process memory.
type MemoryFactory struct {
	config *config.Config
}

var _ Factory = (*MemoryFactory)(nil)

// NewMemoryFactory creates a new in-memory storage factory.
func NewMemoryFactory(cfg *config.Config) (*MemoryFactory, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	slog.Info("Creating in-memory storage factory")
	return &MemoryFactory{config: cfg}, nil
}

// CreateCatalogStore creates an in-memory catalog store.
func (*MemoryFactory) CreateCatalogStore(_ context.Context) (catalog.Store, error) {
	slog.Debug("Creating in-memory catalog store")
	return store.NewMemoryStore(), nil
}

// CreateStateService creates an in-memory state service.
func (m *MemoryFactory) CreateStateService(_ context.Context) (state.TaskStateService, error) {
	slog.Debug("Creating in-memory state service")
	return state.NewStateService(m.config, nil, nil)
}

// CreateLocker returns nil, a single process needs no shared lock.
func (*MemoryFactory) CreateLocker(_ context.Context) (scheduler.Locker, error) {
	return nil, nil
}

// Cleanup is a no-op for in-memory storage.
func (*MemoryFactory) Cleanup() {
	slog.Debug("Cleaning up in-memory storage factory (no-op)")
}
