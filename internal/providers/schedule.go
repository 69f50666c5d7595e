package providers

import (
	"errors"
	"fmt"

	"github.com/stacklok/toolhive-catalog-provider/internal/config"
	"github.com/stacklok/toolhive-catalog-provider/internal/scheduler"
)

// ErrMissingScheduleOrScheduler is returned when a provider is built with neither a task runner
// nor a scheduler to create one from configuration.
var ErrMissingScheduleOrScheduler = errors.New("Either schedule or scheduler must be provided") //nolint:staticcheck

// UnresolvedScheduleError is returned when only a scheduler is given and the instance
// configures no schedule.
type UnresolvedScheduleError struct {
	ProviderType string
	ID           string
}

func (e *UnresolvedScheduleError) Error() string {
	return fmt.Sprintf("No schedule provided neither via code nor config for %s:%s.", e.ProviderType, e.ID)
}

// ScheduleOptions are the caller-supplied ways to run a provider's refresh task
type ScheduleOptions struct {
	// Schedule runs the task directly and takes precedence over any configured schedule
	Schedule scheduler.TaskRunner

	// Scheduler creates a runner from the instance schedule when Schedule is nil
	Scheduler scheduler.Scheduler
}

// Validate fails when neither a runner nor a scheduler is set
func (o ScheduleOptions) Validate() error {
	if o.Schedule == nil && o.Scheduler == nil {
		return ErrMissingScheduleOrScheduler
	}
	return nil
}

// ResolveScheduleConfig returns the inline schedule, or the named schedule when only a key is
// set. It returns nil when the instance has neither.
func ResolveScheduleConfig(cfg *config.Config, inline *config.ScheduleConfig, key string) (*config.ScheduleConfig, error) {
	if inline != nil {
		return inline, nil
	}
	if key == "" {
		return nil, nil
	}
	if cfg == nil {
		return nil, fmt.Errorf("scheduleKey %q cannot be resolved without configuration", key)
	}

	named, ok := cfg.LookupSchedule(key)
	if !ok {
		return nil, fmt.Errorf("scheduleKey %q does not reference a configured schedule", key)
	}
	return named, nil
}

// ResolveTaskRunner applies the schedule precedence for one provider instance: the caller's
// runner wins, otherwise the scheduler builds one from the instance schedule.
func ResolveTaskRunner(
	opts ScheduleOptions,
	providerType, id string,
	instanceSchedule *config.ScheduleConfig,
) (scheduler.TaskRunner, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	if opts.Schedule != nil {
		return opts.Schedule, nil
	}

	if instanceSchedule == nil {
		return nil, &UnresolvedScheduleError{ProviderType: providerType, ID: id}
	}

	def, err := scheduler.ScheduleFromConfig(instanceSchedule)
	if err != nil {
		return nil, fmt.Errorf("invalid schedule for %s:%s: %w", providerType, id, err)
	}

	return opts.Scheduler.CreateScheduledTaskRunner(def), nil
}
