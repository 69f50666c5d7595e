package state

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stacklok/toolhive-catalog-provider/internal/status"
)

const (
	initializeStatusSQL = `INSERT INTO task_status (task_id, phase, message)
SELECT unnest($1::text[]), $2::text, $3::text
ON CONFLICT (task_id) DO NOTHING`

	deleteUnknownSQL = `DELETE FROM task_status WHERE NOT (task_id = ANY($1::text[]))`

	selectStatusColumns = `SELECT task_id, phase, message, last_attempt, last_success, attempt_count, duration_ms
FROM task_status`

	upsertStatusSQL = `INSERT INTO task_status
  (task_id, phase, message, last_attempt, last_success, attempt_count, duration_ms)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (task_id) DO UPDATE SET
  phase = EXCLUDED.phase,
  message = EXCLUDED.message,
  last_attempt = EXCLUDED.last_attempt,
  last_success = EXCLUDED.last_success,
  attempt_count = EXCLUDED.attempt_count,
  duration_ms = EXCLUDED.duration_ms`
)

// dbStateService keeps task statuses in the task_status table. Interrupted runs are not
// reset on startup since other replicas may be running them.
type dbStateService struct {
	pool *pgxpool.Pool
}

var _ TaskStateService = (*dbStateService)(nil)

// NewDBStateService creates a new database-backed task state service
func NewDBStateService(pool *pgxpool.Pool) TaskStateService {
	return &dbStateService{
		pool: pool,
	}
}

func (d *dbStateService) Initialize(ctx context.Context, taskIDs []string) error {
	if taskIDs == nil {
		taskIDs = []string{}
	}

	return pgx.BeginFunc(ctx, d.pool, func(tx pgx.Tx) error {
		if len(taskIDs) > 0 {
			if _, err := tx.Exec(ctx, initializeStatusSQL,
				taskIDs, string(status.TaskPhaseFailed), messageNoPreviousRun); err != nil {
				return fmt.Errorf("failed to initialize task statuses: %w", err)
			}
		}
		if _, err := tx.Exec(ctx, deleteUnknownSQL, taskIDs); err != nil {
			return fmt.Errorf("failed to delete stale task statuses: %w", err)
		}
		return nil
	})
}

func (d *dbStateService) ListStatuses(ctx context.Context) (map[string]*status.TaskStatus, error) {
	rows, err := d.pool.Query(ctx, selectStatusColumns)
	if err != nil {
		return nil, fmt.Errorf("failed to list task statuses: %w", err)
	}

	statuses, err := pgx.CollectRows(rows, scanStatus)
	if err != nil {
		return nil, fmt.Errorf("failed to read task statuses: %w", err)
	}

	result := make(map[string]*status.TaskStatus, len(statuses))
	for _, s := range statuses {
		result[s.TaskID] = s
	}
	return result, nil
}

func (d *dbStateService) GetStatus(ctx context.Context, taskID string) (*status.TaskStatus, error) {
	return getStatus(ctx, d.pool, taskID, "")
}

func (d *dbStateService) UpdateStatusAtomically(
	ctx context.Context,
	taskID string,
	updateFn func(taskStatus *status.TaskStatus) bool,
) (bool, error) {
	var updated bool
	err := pgx.BeginFunc(ctx, d.pool, func(tx pgx.Tx) error {
		current, err := getStatus(ctx, tx, taskID, " FOR UPDATE")
		if err != nil {
			return err
		}

		if !updateFn(current) {
			return nil
		}
		if _, err := tx.Exec(ctx, upsertStatusSQL,
			taskID,
			string(current.Phase),
			current.Message,
			current.LastAttempt,
			current.LastSuccess,
			current.AttemptCount,
			current.Duration.Milliseconds(),
		); err != nil {
			return fmt.Errorf("failed to update task status %s: %w", taskID, err)
		}
		updated = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return updated, nil
}

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func getStatus(ctx context.Context, q querier, taskID, suffix string) (*status.TaskStatus, error) {
	rows, err := q.Query(ctx, selectStatusColumns+" WHERE task_id = $1"+suffix, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to get task status %s: %w", taskID, err)
	}

	taskStatus, err := pgx.CollectExactlyOneRow(rows, scanStatus)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrTaskNotFound, taskID)
		}
		return nil, fmt.Errorf("failed to read task status %s: %w", taskID, err)
	}
	return taskStatus, nil
}

func scanStatus(row pgx.CollectableRow) (*status.TaskStatus, error) {
	var (
		s          status.TaskStatus
		phase      string
		durationMS int64
	)
	if err := row.Scan(&s.TaskID, &phase, &s.Message, &s.LastAttempt, &s.LastSuccess, &s.AttemptCount, &durationMS); err != nil {
		return nil, err
	}
	s.Phase = status.TaskPhase(phase)
	s.Duration = time.Duration(durationMS) * time.Millisecond
	return &s, nil
}
