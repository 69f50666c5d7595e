package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/stacklok/toolhive-catalog-provider/internal/telemetry"
)

// Task run results reported to metrics
const (
	resultSucceeded = "succeeded"
	resultFailed    = "failed"
	resultSkipped   = "skipped"
)

// task is a registered task and its execution guard
type task struct {
	def      TaskInvocationDefinition
	schedule ScheduleDefinition
	entryID  cron.EntryID

	// running is held for the duration of an execution
	running sync.Mutex
	active  atomic.Bool
}

func (t *task) scope() string {
	if t.def.Scope != "" {
		return t.def.Scope
	}
	return t.schedule.Scope
}

// cronScheduler is the default implementation of Scheduler
type cronScheduler struct {
	cron   *cron.Cron
	logger *slog.Logger

	locker   Locker
	listener TaskListener
	metrics  *telemetry.SchedulerMetrics

	mu      sync.Mutex
	tasks   map[string]*task
	started bool
	// stopped rejects new executions so wg.Add never races with wg.Wait in Stop
	stopped bool

	// baseCtx is cancelled on Stop so running tasks observe shutdown
	baseCtx    context.Context
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
}

var _ Scheduler = (*cronScheduler)(nil)

// Option is a function that configures the scheduler
type Option func(*cronScheduler)

// WithLocker sets the lock used for globally scoped tasks.
// Without a locker, global tasks behave like local ones.
func WithLocker(locker Locker) Option {
	return func(s *cronScheduler) {
		s.locker = locker
	}
}

// WithTaskListener sets a listener notified of every task execution
func WithTaskListener(listener TaskListener) Option {
	return func(s *cronScheduler) {
		s.listener = listener
	}
}

// WithMetrics sets the scheduler metrics
func WithMetrics(metrics *telemetry.SchedulerMetrics) Option {
	return func(s *cronScheduler) {
		s.metrics = metrics
	}
}

// WithLogger sets the logger, defaulting to slog.Default()
func WithLogger(logger *slog.Logger) Option {
	return func(s *cronScheduler) {
		s.logger = logger
	}
}

// New creates a scheduler. Tasks may be registered before or after Start.
func New(opts ...Option) Scheduler {
	s := &cronScheduler{
		logger: slog.Default(),
		tasks:  make(map[string]*task),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.baseCtx, s.cancelFunc = context.WithCancel(context.Background())
	s.cron = cron.New(
		cron.WithParser(cronParser),
		cron.WithLogger(&cronLogger{logger: s.logger}),
		cron.WithChain(cron.Recover(&cronLogger{logger: s.logger})),
	)

	return s
}

// CreateScheduledTaskRunner returns a runner bound to the given schedule
func (s *cronScheduler) CreateScheduledTaskRunner(schedule ScheduleDefinition) TaskRunner {
	return &scheduledTaskRunner{scheduler: s, schedule: schedule}
}

// scheduledTaskRunner registers tasks on one schedule
type scheduledTaskRunner struct {
	scheduler *cronScheduler
	schedule  ScheduleDefinition
}

// Run registers the task with the scheduler
func (r *scheduledTaskRunner) Run(_ context.Context, def TaskInvocationDefinition) error {
	return r.scheduler.register(def, r.schedule)
}

func (s *cronScheduler) register(def TaskInvocationDefinition, schedule ScheduleDefinition) error {
	if def.ID == "" {
		return fmt.Errorf("task id is required")
	}
	if def.Fn == nil {
		return fmt.Errorf("task %s: function is required", def.ID)
	}
	if err := schedule.Validate(); err != nil {
		return fmt.Errorf("task %s: invalid schedule: %w", def.ID, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.tasks[def.ID]; exists {
		return fmt.Errorf("%w: %s", ErrTaskAlreadyRegistered, def.ID)
	}

	t := &task{def: def, schedule: schedule}
	if s.started {
		if err := s.addToCron(t, time.Now()); err != nil {
			return err
		}
	}
	s.tasks[def.ID] = t

	s.logger.Info("Registered scheduled task",
		"task_id", def.ID,
		"frequency", schedule.Frequency.String(),
		"timeout", schedule.Timeout,
		"initial_delay", schedule.InitialDelay,
		"scope", t.scope())

	return nil
}

// addToCron schedules a task. Must be called with s.mu held.
func (s *cronScheduler) addToCron(t *task, start time.Time) error {
	schedule, err := buildCronSchedule(t.schedule, start)
	if err != nil {
		return fmt.Errorf("task %s: %w", t.def.ID, err)
	}
	if schedule == nil {
		return nil
	}
	t.entryID = s.cron.Schedule(schedule, cron.FuncJob(func() {
		s.runScheduled(t)
	}))
	return nil
}

// Start begins running scheduled tasks
func (s *cronScheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return
	}

	now := time.Now()
	for _, id := range s.sortedIDs() {
		if err := s.addToCron(s.tasks[id], now); err != nil {
			s.logger.Error("Failed to schedule task", "task_id", id, "error", err)
		}
	}

	s.started = true
	s.cron.Start()
	s.logger.Info("Scheduler started", "task_count", len(s.tasks))
}

// Stop stops scheduling new runs and waits for running tasks until ctx is done
func (s *cronScheduler) Stop(ctx context.Context) error {
	s.logger.Info("Stopping scheduler")

	s.mu.Lock()
	s.stopped = true
	s.mu.Unlock()

	cronCtx := s.cron.Stop()
	s.cancelFunc()

	done := make(chan struct{})
	go func() {
		<-cronCtx.Done()
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Scheduler stopped")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("timed out waiting for running tasks: %w", ctx.Err())
	}
}

// TriggerTask runs a registered task now in the background
func (s *cronScheduler) TriggerTask(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return fmt.Errorf("%w: %s", ErrSchedulerStopped, id)
	}

	t, ok := s.tasks[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}

	if !t.running.TryLock() {
		return fmt.Errorf("%w: %s", ErrTaskRunning, id)
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer t.running.Unlock()
		s.execute(t, "manual")
	}()

	return nil
}

// ListTasks returns the registered tasks sorted by id
func (s *cronScheduler) ListTasks() []TaskInfo {
	s.mu.Lock()
	defer s.mu.Unlock()

	infos := make([]TaskInfo, 0, len(s.tasks))
	for _, id := range s.sortedIDs() {
		t := s.tasks[id]

		info := TaskInfo{
			ID:        id,
			Frequency: t.schedule.Frequency.String(),
			Timeout:   t.schedule.Timeout.String(),
			Scope:     t.scope(),
			Running:   t.active.Load(),
		}
		if t.entryID != 0 {
			info.NextRun = s.cron.Entry(t.entryID).Next
		}
		infos = append(infos, info)
	}
	return infos
}

// sortedIDs must be called with s.mu held
func (s *cronScheduler) sortedIDs() []string {
	ids := make([]string, 0, len(s.tasks))
	for id := range s.tasks {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// runScheduled is the cron job body. An execution that is still running when the
// next tick fires causes that tick to be skipped.
func (s *cronScheduler) runScheduled(t *task) {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.wg.Add(1)
	s.mu.Unlock()
	defer s.wg.Done()

	if !t.running.TryLock() {
		s.logger.Warn("Skipping scheduled run, previous run still in progress", "task_id", t.def.ID)
		s.metrics.RecordTaskRun(s.baseCtx, t.def.ID, resultSkipped)
		return
	}
	defer t.running.Unlock()

	s.execute(t, "schedule")
}

// execute runs the task once. The caller holds t.running.
func (s *cronScheduler) execute(t *task, trigger string) {
	id := t.def.ID
	logger := s.logger.With("task_id", id, "trigger", trigger)

	t.active.Store(true)
	defer t.active.Store(false)

	if t.scope() == ScopeGlobal && s.locker != nil {
		unlock, acquired, err := s.locker.TryLock(s.baseCtx, id)
		if err != nil {
			logger.Error("Failed to acquire task lock", "error", err)
			s.metrics.RecordTaskRun(s.baseCtx, id, resultFailed)
			return
		}
		if !acquired {
			logger.Debug("Task lock held by another instance, skipping run")
			s.metrics.RecordTaskRun(s.baseCtx, id, resultSkipped)
			return
		}
		defer unlock()
	}

	ctx, cancel := context.WithTimeout(s.baseCtx, t.schedule.Timeout)
	defer cancel()

	if s.listener != nil {
		s.listener.TaskStarted(ctx, id)
	}

	logger.Info("Running task")
	start := time.Now()
	err := t.def.Fn(ctx)
	duration := time.Since(start)

	if s.listener != nil {
		// The task context may have expired; report on a fresh one
		s.listener.TaskFinished(context.WithoutCancel(ctx), id, duration, err)
	}

	if err != nil {
		logger.Error("Task failed", "duration", duration, "error", err)
		s.metrics.RecordTaskRun(s.baseCtx, id, resultFailed)
		return
	}

	logger.Info("Task completed", "duration", duration)
	s.metrics.RecordTaskRun(s.baseCtx, id, resultSucceeded)
}

// cronLogger adapts slog to cron.Logger
type cronLogger struct {
	logger *slog.Logger
}

// Info implements cron.Logger
func (l *cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

// Error implements cron.Logger
func (l *cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
