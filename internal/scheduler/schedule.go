package scheduler

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/stacklok/toolhive-catalog-provider/internal/config"
)

// cronParser accepts standard five field expressions plus descriptors such as @hourly
var cronParser = cron.NewParser(
	cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// ScheduleFromConfig converts a configured schedule into a definition
func ScheduleFromConfig(sc *config.ScheduleConfig) (ScheduleDefinition, error) {
	if err := sc.Validate(); err != nil {
		return ScheduleDefinition{}, err
	}

	def := ScheduleDefinition{
		Frequency: Frequency{
			Interval: sc.Frequency.Interval,
			Cron:     sc.Frequency.Cron,
			Manual:   sc.Frequency.IsManual(),
		},
		Timeout: sc.Timeout.Duration,
		Scope:   sc.Scope,
	}
	if def.Frequency.Manual || def.Frequency.Cron != "" {
		def.Frequency.Interval = 0
	}
	if sc.InitialDelay != nil {
		def.InitialDelay = sc.InitialDelay.Duration
	}
	if def.Scope == "" {
		def.Scope = ScopeGlobal
	}

	if def.Frequency.Cron != "" {
		if _, err := cronParser.Parse(def.Frequency.Cron); err != nil {
			return ScheduleDefinition{}, fmt.Errorf("invalid cron expression %q: %w", def.Frequency.Cron, err)
		}
	}

	return def, def.Validate()
}

// buildCronSchedule turns a definition into a cron schedule anchored at start.
// Manual definitions have no cron schedule.
func buildCronSchedule(def ScheduleDefinition, start time.Time) (cron.Schedule, error) {
	notBefore := start.Add(def.InitialDelay)

	switch {
	case def.Frequency.Manual:
		return nil, nil
	case def.Frequency.Cron != "":
		inner, err := cronParser.Parse(def.Frequency.Cron)
		if err != nil {
			return nil, fmt.Errorf("invalid cron expression %q: %w", def.Frequency.Cron, err)
		}
		return &delayedSchedule{inner: inner, notBefore: notBefore}, nil
	default:
		return &intervalSchedule{every: def.Frequency.Interval, first: notBefore}, nil
	}
}

// intervalSchedule fires first at a fixed time and then at a fixed interval after each run
type intervalSchedule struct {
	every time.Duration
	first time.Time
	fired atomic.Bool
}

// Next implements cron.Schedule
func (s *intervalSchedule) Next(t time.Time) time.Time {
	if !s.fired.Swap(true) {
		if s.first.After(t) {
			return s.first
		}
		return t
	}
	return t.Add(s.every)
}

// delayedSchedule holds back a cron schedule until the initial delay has passed
type delayedSchedule struct {
	inner     cron.Schedule
	notBefore time.Time
}

// Next implements cron.Schedule
func (s *delayedSchedule) Next(t time.Time) time.Time {
	if t.Before(s.notBefore) {
		return s.inner.Next(s.notBefore.Add(-time.Second))
	}
	return s.inner.Next(t)
}
