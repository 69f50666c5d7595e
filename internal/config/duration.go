package config

import (
	"fmt"
	"slices"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// FrequencyTriggerManual marks a task that only runs when triggered explicitly
	FrequencyTriggerManual = "manual"
)

// Duration is a time.Duration that unmarshals from either a Go duration string ("30m")
// or a human duration object ({hours: 1, minutes: 30}).
type Duration struct {
	time.Duration
}

// humanDuration is the object form of a duration. Months count as 30 days and years as 365.
type humanDuration struct {
	Years        int `yaml:"years"`
	Months       int `yaml:"months"`
	Weeks        int `yaml:"weeks"`
	Days         int `yaml:"days"`
	Hours        int `yaml:"hours"`
	Minutes      int `yaml:"minutes"`
	Seconds      int `yaml:"seconds"`
	Milliseconds int `yaml:"milliseconds"`
}

var humanDurationKeys = []string{"years", "months", "weeks", "days", "hours", "minutes", "seconds", "milliseconds"}

const day = 24 * time.Hour

func (h humanDuration) toDuration() time.Duration {
	return time.Duration(h.Years)*365*day +
		time.Duration(h.Months)*30*day +
		time.Duration(h.Weeks)*7*day +
		time.Duration(h.Days)*day +
		time.Duration(h.Hours)*time.Hour +
		time.Duration(h.Minutes)*time.Minute +
		time.Duration(h.Seconds)*time.Second +
		time.Duration(h.Milliseconds)*time.Millisecond
}

// NewDuration wraps a time.Duration
func NewDuration(d time.Duration) *Duration {
	return &Duration{Duration: d}
}

// UnmarshalYAML implements yaml.Unmarshaler
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		parsed, err := time.ParseDuration(node.Value)
		if err != nil {
			return fmt.Errorf("line %d: invalid duration %q: %w", node.Line, node.Value, err)
		}
		d.Duration = parsed
		return nil
	case yaml.MappingNode:
		// yaml.Node.Decode ignores unknown fields, which would turn a typo into a zero duration
		for i := 0; i < len(node.Content); i += 2 {
			key := node.Content[i]
			if !slices.Contains(humanDurationKeys, key.Value) {
				return fmt.Errorf("line %d: unknown duration unit %q", key.Line, key.Value)
			}
		}
		var h humanDuration
		if err := node.Decode(&h); err != nil {
			return fmt.Errorf("line %d: invalid duration object: %w", node.Line, err)
		}
		d.Duration = h.toDuration()
		return nil
	default:
		return fmt.Errorf("line %d: duration must be a string or an object", node.Line)
	}
}

// MarshalYAML implements yaml.Marshaler
func (d Duration) MarshalYAML() (any, error) {
	return d.String(), nil
}

// FrequencyConfig is how often a task runs: a fixed interval, a cron expression, or manual only
type FrequencyConfig struct {
	Interval time.Duration
	Cron     string
	Trigger  string
}

// UnmarshalYAML implements yaml.Unmarshaler
func (f *FrequencyConfig) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.MappingNode {
		var special struct {
			Cron    string `yaml:"cron"`
			Trigger string `yaml:"trigger"`
		}
		if err := node.Decode(&special); err == nil && (special.Cron != "" || special.Trigger != "") {
			f.Cron = special.Cron
			f.Trigger = special.Trigger
			return nil
		}
	}

	var d Duration
	if err := d.UnmarshalYAML(node); err != nil {
		return err
	}
	f.Interval = d.Duration
	return nil
}

// IsManual reports whether the frequency only allows explicit triggers
func (f *FrequencyConfig) IsManual() bool {
	return f != nil && f.Trigger == FrequencyTriggerManual
}

// ScheduleConfig is the configuration form of a task schedule
type ScheduleConfig struct {
	Frequency    *FrequencyConfig `yaml:"frequency"`
	Timeout      *Duration        `yaml:"timeout"`
	InitialDelay *Duration        `yaml:"initialDelay,omitempty"`

	// Scope is "global" (one runner across instances sharing a database) or "local"
	Scope string `yaml:"scope,omitempty"`
}
