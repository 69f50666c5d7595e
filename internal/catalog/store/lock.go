package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stacklok/toolhive-catalog-provider/internal/scheduler"
)

// AdvisoryLocker implements scheduler.Locker with session level PostgreSQL advisory locks,
// so a global task runs on one replica at a time. The lock holds a pool connection until
// it is released.
type AdvisoryLocker struct {
	pool *pgxpool.Pool
}

var _ scheduler.Locker = (*AdvisoryLocker)(nil)

// NewAdvisoryLocker creates a locker on an existing pool
func NewAdvisoryLocker(pool *pgxpool.Pool) *AdvisoryLocker {
	return &AdvisoryLocker{pool: pool}
}

// TryLock takes the advisory lock for name without waiting
func (l *AdvisoryLocker) TryLock(ctx context.Context, name string) (func(), bool, error) {
	conn, err := l.pool.Acquire(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("failed to acquire connection for lock %s: %w", name, err)
	}

	var acquired bool
	if err := conn.QueryRow(ctx, "SELECT pg_try_advisory_lock(hashtext($1))", name).Scan(&acquired); err != nil {
		conn.Release()
		return nil, false, fmt.Errorf("failed to take lock %s: %w", name, err)
	}
	if !acquired {
		conn.Release()
		return nil, false, nil
	}

	unlock := func() {
		defer conn.Release()
		// The task context may be gone by now
		if _, err := conn.Exec(context.Background(), "SELECT pg_advisory_unlock(hashtext($1))", name); err != nil {
			slog.Warn("Failed to release advisory lock", "lock", name, "error", err)
		}
	}
	return unlock, true, nil
}
