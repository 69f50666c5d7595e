package state

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/stacklok/toolhive-catalog-provider/internal/status"
)

type fileStateService struct {
	// nil keeps statuses in memory only
	statusPersistence status.StatusPersistence

	mu             sync.RWMutex
	cachedStatuses map[string]*status.TaskStatus
}

var _ TaskStateService = (*fileStateService)(nil)

// NewFileStateService creates a new file-based task state service
func NewFileStateService(statusPersistence status.StatusPersistence) TaskStateService {
	return &fileStateService{
		statusPersistence: statusPersistence,
		cachedStatuses:    make(map[string]*status.TaskStatus),
	}
}

// NewMemoryStateService creates a task state service that does not outlive the process
func NewMemoryStateService() TaskStateService {
	return NewFileStateService(nil)
}

func (f *fileStateService) Initialize(ctx context.Context, taskIDs []string) error {
	statuses := make(map[string]*status.TaskStatus, len(taskIDs))
	for _, taskID := range taskIDs {
		statuses[taskID] = f.loadOrInitializeTaskStatus(ctx, taskID)
	}

	f.mu.Lock()
	f.cachedStatuses = statuses
	f.mu.Unlock()
	return nil
}

func (f *fileStateService) ListStatuses(_ context.Context) (map[string]*status.TaskStatus, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	result := make(map[string]*status.TaskStatus, len(f.cachedStatuses))
	for taskID, taskStatus := range f.cachedStatuses {
		result[taskID] = taskStatus.Copy()
	}
	return result, nil
}

func (f *fileStateService) GetStatus(_ context.Context, taskID string) (*status.TaskStatus, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	taskStatus, exists := f.cachedStatuses[taskID]
	if !exists || taskStatus == nil {
		return nil, fmt.Errorf("%w: %s", ErrTaskNotFound, taskID)
	}
	return taskStatus.Copy(), nil
}

func (f *fileStateService) UpdateStatusAtomically(
	ctx context.Context,
	taskID string,
	updateFn func(taskStatus *status.TaskStatus) bool,
) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	current, exists := f.cachedStatuses[taskID]
	if !exists || current == nil {
		return false, fmt.Errorf("%w: %s", ErrTaskNotFound, taskID)
	}

	// Work on a copy so a failed save leaves the cache untouched
	next := current.Copy()
	if !updateFn(next) {
		return false, nil
	}
	if f.statusPersistence != nil {
		if err := f.statusPersistence.SaveStatus(ctx, taskID, next); err != nil {
			return false, err
		}
	}
	f.cachedStatuses[taskID] = next
	return true, nil
}

// loadOrInitializeTaskStatus assumes a single process owns the backing files
func (f *fileStateService) loadOrInitializeTaskStatus(ctx context.Context, taskID string) *status.TaskStatus {
	if f.statusPersistence == nil {
		return initialStatus(taskID)
	}

	taskStatus, err := f.statusPersistence.LoadStatus(ctx, taskID)
	if err != nil {
		slog.WarnContext(ctx, "Failed to load task status, initializing with defaults", "task", taskID, "error", err)
		taskStatus = &status.TaskStatus{}
	}
	if taskStatus == nil {
		taskStatus = &status.TaskStatus{}
	}
	// persisted records are keyed by task id and may not repeat it
	taskStatus.TaskID = taskID

	switch {
	case taskStatus.Phase == "" && taskStatus.LastAttempt == nil:
		slog.InfoContext(ctx, "No previous task status found, initializing with defaults", "task", taskID)
		taskStatus = initialStatus(taskID)
		if err := f.statusPersistence.SaveStatus(ctx, taskID, taskStatus); err != nil {
			slog.WarnContext(ctx, "Failed to persist default task status", "task", taskID, "error", err)
		}

	case taskStatus.Phase == status.TaskPhaseRunning:
		slog.WarnContext(ctx, "Previous run was interrupted, resetting to Failed", "task", taskID)
		taskStatus.Phase = status.TaskPhaseFailed
		taskStatus.Message = messageInterrupted
		if err := f.statusPersistence.SaveStatus(ctx, taskID, taskStatus); err != nil {
			slog.WarnContext(ctx, "Failed to persist corrected task status", "task", taskID, "error", err)
		}

	case taskStatus.LastSuccess != nil:
		slog.InfoContext(ctx, "Loaded task status",
			"task", taskID,
			"phase", taskStatus.Phase,
			"last_success", taskStatus.LastSuccess.Format(time.RFC3339))

	default:
		slog.InfoContext(ctx, "Loaded task status", "task", taskID, "phase", taskStatus.Phase)
	}

	return taskStatus
}
