// Package status provides task status tracking and persistence for provider refresh tasks.
package status

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

//go:generate mockgen -destination=mocks/mock_status_persistence.go -package=mocks -source=persistence.go StatusPersistence

const (
	// StatusFileName is the name of the status file
	StatusFileName = "status.json"
)

// StatusPersistence defines the interface for task status persistence
//
//nolint:revive // This name is fine
type StatusPersistence interface {
	// SaveStatus saves the status of a task to persistent storage
	SaveStatus(ctx context.Context, taskID string, status *TaskStatus) error

	// LoadStatus loads the status of a task from persistent storage.
	// Returns an empty TaskStatus if none was saved (first run)
	LoadStatus(ctx context.Context, taskID string) (*TaskStatus, error)

	// LoadAllStatus loads the status of every task
	LoadAllStatus(ctx context.Context) (map[string]*TaskStatus, error)
}

// fileStatusPersistence implements StatusPersistence using local filesystem
type fileStatusPersistence struct {
	basePath string
}

// NewFileStatusPersistence creates a new file-based status persistence.
// basePath is the base directory where per-task status directories will be stored
func NewFileStatusPersistence(basePath string) StatusPersistence {
	return &fileStatusPersistence{
		basePath: basePath,
	}
}

// taskDir encodes the task id since ids contain characters some filesystems reject
func (f *fileStatusPersistence) taskDir(taskID string) string {
	return filepath.Join(f.basePath, base64.RawURLEncoding.EncodeToString([]byte(taskID)))
}

// SaveStatus saves the task status to a JSON file in a task-specific directory
func (f *fileStatusPersistence) SaveStatus(_ context.Context, taskID string, status *TaskStatus) error {
	taskDir := f.taskDir(taskID)
	if err := os.MkdirAll(taskDir, 0750); err != nil {
		return fmt.Errorf("failed to create status directory for task '%s': %w", taskID, err)
	}

	filePath := filepath.Join(taskDir, StatusFileName)

	toSave := status.Copy()
	toSave.TaskID = taskID
	data, err := json.MarshalIndent(toSave, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal status data for task '%s': %w", taskID, err)
	}

	// Write to temporary file first for atomic operation
	tempPath := filePath + ".tmp"
	if err := os.WriteFile(tempPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write temporary status file for task '%s': %w", taskID, err)
	}

	if err := os.Rename(tempPath, filePath); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("failed to rename status file for task '%s': %w", taskID, err)
	}

	return nil
}

// LoadStatus loads the task status from its JSON file.
// Returns an empty TaskStatus if the file doesn't exist
func (f *fileStatusPersistence) LoadStatus(_ context.Context, taskID string) (*TaskStatus, error) {
	filePath := filepath.Join(f.taskDir(taskID), StatusFileName)

	// #nosec G304 -- filePath is built from the base path and an encoded task id
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return &TaskStatus{TaskID: taskID}, nil
		}
		return nil, fmt.Errorf("failed to read status file for task '%s': %w", taskID, err)
	}

	var status TaskStatus
	if err := json.Unmarshal(data, &status); err != nil {
		return nil, fmt.Errorf("failed to unmarshal status data for task '%s': %w", taskID, err)
	}
	status.TaskID = taskID

	return &status, nil
}

// LoadAllStatus loads the status of every task with a status directory
func (f *fileStatusPersistence) LoadAllStatus(ctx context.Context) (map[string]*TaskStatus, error) {
	result := make(map[string]*TaskStatus)

	entries, err := os.ReadDir(f.basePath)
	if err != nil {
		if os.IsNotExist(err) {
			return result, nil
		}
		return nil, fmt.Errorf("failed to read status directory: %w", err)
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		decoded, err := base64.RawURLEncoding.DecodeString(entry.Name())
		if err != nil {
			continue
		}

		taskID := string(decoded)
		status, err := f.LoadStatus(ctx, taskID)
		if err != nil {
			// Partial results are better than none
			slog.WarnContext(ctx, "Failed to load task status", "task", taskID, "error", err)
			continue
		}

		result[taskID] = status
	}

	return result, nil
}
