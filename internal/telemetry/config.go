package telemetry

import (
	"errors"
	"fmt"
	"strings"

	"github.com/stacklok/toolhive-catalog-provider/internal/versions"
)

const (
	// DefaultServiceName is reported as service.name when the config leaves it empty
	DefaultServiceName = "thv-catalog-provider"

	// DefaultEndpoint is the OTLP HTTP collector address used when none is configured
	DefaultEndpoint = "localhost:4318"

	// DefaultSampling is the ratio of new traces kept when tracing.sampling is unset
	DefaultSampling = 0.05
)

// Config is the telemetry section of the catalog provider configuration
type Config struct {
	Enabled        bool   `yaml:"enabled"`
	ServiceName    string `yaml:"serviceName,omitempty"`
	ServiceVersion string `yaml:"serviceVersion,omitempty"`

	// Endpoint is the collector "host:port". The exporters append /v1/traces and /v1/metrics.
	Endpoint string `yaml:"endpoint,omitempty"`
	Insecure bool   `yaml:"insecure,omitempty"`

	// Headers are sent with every export, typically collector credentials
	Headers map[string]string `yaml:"headers,omitempty"`

	Tracing *TracingConfig `yaml:"tracing,omitempty"`
	Metrics *MetricsConfig `yaml:"metrics,omitempty"`
}

// TracingConfig controls refresh and API spans
type TracingConfig struct {
	Enabled bool `yaml:"enabled"`

	// Sampling is the ratio of new root traces kept, in (0, 1]. Traces started by
	// an API caller keep the caller's decision.
	Sampling *float64 `yaml:"sampling,omitempty"`
}

// MetricsConfig controls where refresh, scheduler and HTTP metrics are exported
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`

	// Prometheus serves the metrics on /metrics of the API server
	Prometheus bool `yaml:"prometheus,omitempty"`

	// DisableOTLP stops pushing metrics to the collector
	DisableOTLP bool `yaml:"disableOtlp,omitempty"`
}

// Exporter identifies the process and the collector it pushes to
type Exporter struct {
	ServiceName    string
	ServiceVersion string
	Endpoint       string
	Insecure       bool
	Headers        map[string]string
}

// Exporter resolves the export settings, filling in defaults. The service version
// defaults to the build version.
func (c *Config) Exporter() Exporter {
	exp := Exporter{
		ServiceName:    DefaultServiceName,
		ServiceVersion: versions.GetVersionInfo().Version,
		Endpoint:       DefaultEndpoint,
	}
	if c == nil {
		return exp
	}
	if c.ServiceName != "" {
		exp.ServiceName = c.ServiceName
	}
	if c.ServiceVersion != "" {
		exp.ServiceVersion = c.ServiceVersion
	}
	if c.Endpoint != "" {
		exp.Endpoint = c.Endpoint
	}
	exp.Insecure = c.Insecure
	exp.Headers = c.Headers
	return exp
}

// GetSampling returns the configured ratio or DefaultSampling
func (c *TracingConfig) GetSampling() float64 {
	if c == nil || c.Sampling == nil {
		return DefaultSampling
	}
	return *c.Sampling
}

// Validate reports every problem in an enabled telemetry section. A nil or
// disabled section is valid.
func (c *Config) Validate() error {
	if c == nil || !c.Enabled {
		return nil
	}

	var errs []error
	if strings.Contains(c.Endpoint, "://") || strings.Contains(c.Endpoint, "/") {
		errs = append(errs, fmt.Errorf("endpoint must be host:port without scheme or path, got %q", c.Endpoint))
	}
	if err := c.Tracing.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("tracing: %w", err))
	}
	if err := c.Metrics.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("metrics: %w", err))
	}
	return errors.Join(errs...)
}

// Validate checks the sampling ratio of enabled tracing
func (c *TracingConfig) Validate() error {
	if c == nil || !c.Enabled || c.Sampling == nil {
		return nil
	}
	if s := *c.Sampling; s <= 0 || s > 1 {
		return fmt.Errorf("sampling must be in (0, 1], got %g", s)
	}
	return nil
}

// Validate checks enabled metrics have somewhere to go
func (c *MetricsConfig) Validate() error {
	if c == nil || !c.Enabled {
		return nil
	}
	if c.DisableOTLP && !c.Prometheus {
		return errors.New("metrics are enabled but both OTLP and Prometheus export are off")
	}
	return nil
}
