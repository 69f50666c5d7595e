package status

import "time"

// TaskPhase represents the current phase of a provider refresh task
type TaskPhase string

const (
	// TaskPhaseRunning means the task is currently executing
	TaskPhaseRunning TaskPhase = "Running"

	// TaskPhaseComplete means the last run completed successfully
	TaskPhaseComplete TaskPhase = "Complete"

	// TaskPhaseFailed means the last run failed, or never ran
	TaskPhaseFailed TaskPhase = "Failed"
)

// TaskStatus represents the outcome of a task's recent runs
type TaskStatus struct {
	// TaskID is the scheduler task id, "<providerName>:refresh"
	TaskID string `json:"taskId"`

	// Phase represents the current task phase
	Phase TaskPhase `json:"phase"`

	// Message holds the error of the last failed run
	Message string `json:"message,omitempty"`

	// LastAttempt is the start of the last run
	LastAttempt *time.Time `json:"lastAttempt,omitempty"`

	// LastSuccess is the end of the last successful run
	LastSuccess *time.Time `json:"lastSuccess,omitempty"`

	// AttemptCount is the number of attempts since the last success
	AttemptCount int `json:"attemptCount,omitempty"`

	// Duration is how long the last finished run took
	Duration time.Duration `json:"duration,omitempty"`
}

// Copy returns a deep copy of the status
func (s *TaskStatus) Copy() *TaskStatus {
	if s == nil {
		return nil
	}
	c := *s
	if s.LastAttempt != nil {
		t := *s.LastAttempt
		c.LastAttempt = &t
	}
	if s.LastSuccess != nil {
		t := *s.LastSuccess
		c.LastSuccess = &t
	}
	return &c
}

// MarkStarted records the start of a run
func (s *TaskStatus) MarkStarted(now time.Time) {
	s.Phase = TaskPhaseRunning
	s.LastAttempt = &now
	s.AttemptCount++
}

// MarkFinished records the end of a run. A nil err completes it.
func (s *TaskStatus) MarkFinished(now time.Time, duration time.Duration, err error) {
	s.Duration = duration
	if err != nil {
		s.Phase = TaskPhaseFailed
		s.Message = err.Error()
		return
	}
	s.Phase = TaskPhaseComplete
	s.Message = ""
	s.LastSuccess = &now
	s.AttemptCount = 0
}
