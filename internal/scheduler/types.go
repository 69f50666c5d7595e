// Package scheduler runs recurring tasks registered by entity providers.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"
)

//go:generate mockgen -destination=mocks/mock_scheduler.go -package=mocks -source=types.go TaskRunner,Scheduler,TaskListener,Locker

// Scope values for a scheduled task
const (
	// ScopeGlobal runs the task on at most one replica at a time when a distributed lock is available
	ScopeGlobal = "global"

	// ScopeLocal runs the task on every replica
	ScopeLocal = "local"
)

var (
	// ErrTaskNotFound is returned when triggering a task id that was never registered
	ErrTaskNotFound = errors.New("task not found")

	// ErrTaskRunning is returned when triggering a task that is currently executing
	ErrTaskRunning = errors.New("task is already running")

	// ErrSchedulerStopped is returned when triggering a task after Stop
	ErrSchedulerStopped = errors.New("scheduler is stopped")

	// ErrTaskAlreadyRegistered is returned when a task id is registered twice
	ErrTaskAlreadyRegistered = errors.New("task is already registered")
)

// TaskFunc is the unit of work a task runs. The context carries the task timeout.
type TaskFunc func(ctx context.Context) error

// TaskInvocationDefinition names a task and the function it runs
type TaskInvocationDefinition struct {
	ID string
	Fn TaskFunc

	// Scope overrides the schedule scope when set
	Scope string
}

// TaskRunner registers a task to run on a fixed schedule
type TaskRunner interface {
	// Run registers the task. It returns once the task is registered, not when it first runs.
	Run(ctx context.Context, task TaskInvocationDefinition) error
}

// Frequency is how often a task runs. Exactly one of Interval, Cron or Manual is set.
type Frequency struct {
	Interval time.Duration
	Cron     string
	Manual   bool
}

// String renders the frequency for logs and listings
func (f Frequency) String() string {
	switch {
	case f.Manual:
		return "manual"
	case f.Cron != "":
		return fmt.Sprintf("cron(%s)", f.Cron)
	default:
		return fmt.Sprintf("every %s", f.Interval)
	}
}

// ScheduleDefinition describes when and for how long a task runs
type ScheduleDefinition struct {
	Frequency    Frequency
	Timeout      time.Duration
	InitialDelay time.Duration
	Scope        string
}

// Validate checks the definition is runnable
func (d ScheduleDefinition) Validate() error {
	set := 0
	if d.Frequency.Interval > 0 {
		set++
	}
	if d.Frequency.Cron != "" {
		set++
	}
	if d.Frequency.Manual {
		set++
	}
	if set != 1 {
		return fmt.Errorf("exactly one of interval, cron or manual frequency must be set")
	}
	if d.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if d.InitialDelay < 0 {
		return fmt.Errorf("initial delay must not be negative")
	}
	return nil
}

// TaskInfo describes a registered task
type TaskInfo struct {
	ID        string    `json:"id"`
	Frequency string    `json:"frequency"`
	Timeout   string    `json:"timeout"`
	Scope     string    `json:"scope"`
	Running   bool      `json:"running"`
	NextRun   time.Time `json:"nextRun,omitzero"`
}

// Scheduler owns task execution
type Scheduler interface {
	// CreateScheduledTaskRunner returns a runner that registers tasks on the given schedule
	CreateScheduledTaskRunner(schedule ScheduleDefinition) TaskRunner

	// TriggerTask starts a registered task now, outside its schedule
	TriggerTask(ctx context.Context, id string) error

	// Start begins running scheduled tasks
	Start()

	// Stop stops scheduling and waits for running tasks until ctx is done
	Stop(ctx context.Context) error

	// ListTasks returns the registered tasks sorted by id
	ListTasks() []TaskInfo
}

// TaskListener observes task executions
type TaskListener interface {
	TaskStarted(ctx context.Context, id string)
	TaskFinished(ctx context.Context, id string, duration time.Duration, err error)
}

// Locker provides a lock shared between replicas for globally scoped tasks
type Locker interface {
	// TryLock attempts to take the named lock without blocking.
	// When acquired is true, unlock must be called to release it.
	TryLock(ctx context.Context, name string) (unlock func(), acquired bool, err error)
}
