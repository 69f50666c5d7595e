// Package state tracks the status of provider refresh tasks across restarts.
package state

import (
	"context"
	"errors"

	"github.com/stacklok/toolhive-catalog-provider/internal/status"
)

// ErrTaskNotFound is returned when no status exists for a task id
var ErrTaskNotFound = errors.New("task status not found")

const (
	// messageNoPreviousRun is set on tasks that have never run
	messageNoPreviousRun = "No previous run found"

	// messageInterrupted is set on tasks found Running at startup
	messageInterrupted = "Previous run was interrupted"
)

// TaskStateService provides methods for inspecting and updating task status.
//
//go:generate mockgen -destination=mocks/mock_task_state_service.go -package=mocks github.com/stacklok/toolhive-catalog-provider/internal/state TaskStateService
type TaskStateService interface {
	// Initialize populates the state store with the set of task ids.
	// Statuses of tasks not in the set are dropped.
	Initialize(ctx context.Context, taskIDs []string) error
	// ListStatuses lists all known task statuses.
	ListStatuses(ctx context.Context) (map[string]*status.TaskStatus, error)
	// GetStatus returns the status of a task, or ErrTaskNotFound.
	GetStatus(ctx context.Context, taskID string) (*status.TaskStatus, error)
	// UpdateStatusAtomically fetches the status of a task, applies updateFn and
	// stores the result if updateFn returns true, as a single atomic action.
	UpdateStatusAtomically(
		ctx context.Context,
		taskID string,
		updateFn func(taskStatus *status.TaskStatus) bool,
	) (bool, error)
}

// initialStatus is the status of a task that has never run
func initialStatus(taskID string) *status.TaskStatus {
	return &status.TaskStatus{
		TaskID:  taskID,
		Phase:   status.TaskPhaseFailed,
		Message: messageNoPreviousRun,
	}
}
