package state

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stacklok/toolhive-catalog-provider/database"
	"github.com/stacklok/toolhive-catalog-provider/internal/status"
)

func TestDBStateService(t *testing.T) {
	t.Parallel()

	pool, cleanup := database.SetupTestDB(t)
	t.Cleanup(cleanup)

	ctx := context.Background()
	service := NewDBStateService(pool)

	require.NoError(t, service.Initialize(ctx, []string{"a:refresh", "b:refresh"}))

	statuses, err := service.ListStatuses(ctx)
	require.NoError(t, err)
	require.Len(t, statuses, 2)
	assert.Equal(t, status.TaskPhaseFailed, statuses["a:refresh"].Phase)
	assert.Equal(t, messageNoPreviousRun, statuses["a:refresh"].Message)

	now := time.Now().UTC().Truncate(time.Millisecond)
	updated, err := service.UpdateStatusAtomically(ctx, "a:refresh", func(s *status.TaskStatus) bool {
		s.MarkStarted(now)
		s.MarkFinished(now, 1500*time.Millisecond, nil)
		return true
	})
	require.NoError(t, err)
	assert.True(t, updated)

	got, err := service.GetStatus(ctx, "a:refresh")
	require.NoError(t, err)
	assert.Equal(t, status.TaskPhaseComplete, got.Phase)
	assert.Equal(t, 1500*time.Millisecond, got.Duration)
	require.NotNil(t, got.LastSuccess)
	assert.True(t, now.Equal(*got.LastSuccess))

	updated, err = service.UpdateStatusAtomically(ctx, "a:refresh", func(*status.TaskStatus) bool { return false })
	require.NoError(t, err)
	assert.False(t, updated)

	// Re-initializing keeps known statuses and drops the rest
	require.NoError(t, service.Initialize(ctx, []string{"a:refresh"}))
	statuses, err = service.ListStatuses(ctx)
	require.NoError(t, err)
	require.Len(t, statuses, 1)
	assert.Equal(t, status.TaskPhaseComplete, statuses["a:refresh"].Phase)

	_, err = service.GetStatus(ctx, "b:refresh")
	assert.True(t, errors.Is(err, ErrTaskNotFound))
	_, err = service.UpdateStatusAtomically(ctx, "b:refresh", func(*status.TaskStatus) bool { return true })
	assert.True(t, errors.Is(err, ErrTaskNotFound))

	require.NoError(t, service.Initialize(ctx, nil))
	statuses, err = service.ListStatuses(ctx)
	require.NoError(t, err)
	assert.Empty(t, statuses)
}
