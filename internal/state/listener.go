package state

import (
	"context"
	"log/slog"
	"time"

	"github.com/stacklok/toolhive-catalog-provider/internal/scheduler"
	"github.com/stacklok/toolhive-catalog-provider/internal/status"
)

// Listener records task executions in a TaskStateService
type Listener struct {
	service TaskStateService
	now     func() time.Time
}

var _ scheduler.TaskListener = (*Listener)(nil)

// NewListener creates a scheduler listener backed by service
func NewListener(service TaskStateService) *Listener {
	return &Listener{service: service, now: time.Now}
}

// TaskStarted marks the task Running
func (l *Listener) TaskStarted(ctx context.Context, id string) {
	now := l.now().UTC()
	l.update(ctx, id, func(s *status.TaskStatus) bool {
		s.MarkStarted(now)
		return true
	})
}

// TaskFinished marks the task Complete or Failed
func (l *Listener) TaskFinished(ctx context.Context, id string, duration time.Duration, err error) {
	now := l.now().UTC()
	l.update(ctx, id, func(s *status.TaskStatus) bool {
		s.MarkFinished(now, duration, err)
		return true
	})
}

func (l *Listener) update(ctx context.Context, id string, fn func(*status.TaskStatus) bool) {
	// Status writes must not be cancelled along with the task
	ctx = context.WithoutCancel(ctx)
	if _, err := l.service.UpdateStatusAtomically(ctx, id, fn); err != nil {
		slog.WarnContext(ctx, "Failed to record task status", "task", id, "error", err)
	}
}
