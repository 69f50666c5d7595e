package state

import (
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stacklok/toolhive-catalog-provider/internal/config"
	"github.com/stacklok/toolhive-catalog-provider/internal/status"
)

// NewStateService creates a TaskStateService based on the configured storage type.
//
// For file storage, statuses are persisted through statusPersistence.
// For database storage, statuses live in the task_status table and pool must not be nil.
// Memory storage keeps statuses in process only.
func NewStateService(
	cfg *config.Config,
	statusPersistence status.StatusPersistence,
	pool *pgxpool.Pool,
) (TaskStateService, error) {
	switch cfg.GetStorageType() {
	case config.StorageTypeDatabase:
		if pool == nil {
			return nil, fmt.Errorf("database pool is required when storage type is database")
		}
		return NewDBStateService(pool), nil
	case config.StorageTypeFile:
		if statusPersistence == nil {
			return nil, fmt.Errorf("status persistence is required when storage type is file")
		}
		return NewFileStateService(statusPersistence), nil
	default:
		return NewMemoryStateService(), nil
	}
}
