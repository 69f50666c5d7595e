package telemetry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// Telemetry owns the process tracer and meter providers
type Telemetry struct {
	tracerProvider trace.TracerProvider
	meterProvider  metric.MeterProvider

	// promRegistry is set when metrics are served in Prometheus format
	promRegistry *prometheus.Registry

	shutdowns []func(context.Context) error
}

// New builds the providers described by cfg. A nil or disabled cfg yields no-op
// providers and a Shutdown that does nothing.
func New(ctx context.Context, cfg *Config) (*Telemetry, error) {
	if cfg == nil || !cfg.Enabled {
		slog.Debug("Telemetry disabled")
		return &Telemetry{
			tracerProvider: tracenoop.NewTracerProvider(),
			meterProvider:  metricnoop.NewMeterProvider(),
		}, nil
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid telemetry configuration: %w", err)
	}

	exp := cfg.Exporter()
	slog.Info("Initializing telemetry", "service_name", exp.ServiceName, "service_version", exp.ServiceVersion)

	t := &Telemetry{}

	tp, err := NewTracerProvider(ctx, exp, cfg.Tracing)
	if err != nil {
		return nil, fmt.Errorf("failed to create tracer provider: %w", err)
	}
	t.tracerProvider = tp
	if sdkTP, ok := tp.(*sdktrace.TracerProvider); ok {
		t.shutdowns = append(t.shutdowns, sdkTP.Shutdown)
	}

	if cfg.Metrics != nil && cfg.Metrics.Enabled && cfg.Metrics.Prometheus {
		t.promRegistry = prometheus.NewRegistry()
	}
	var registerer prometheus.Registerer
	if t.promRegistry != nil {
		registerer = t.promRegistry
	}

	mp, err := NewMeterProvider(ctx, exp, cfg.Metrics, registerer)
	if err != nil {
		_ = t.Shutdown(ctx)
		return nil, fmt.Errorf("failed to create meter provider: %w", err)
	}
	t.meterProvider = mp
	if sdkMP, ok := mp.(*sdkmetric.MeterProvider); ok {
		t.shutdowns = append(t.shutdowns, sdkMP.Shutdown)
	}

	return t, nil
}

// TracerProvider returns the tracer provider for refresh, store and API spans
func (t *Telemetry) TracerProvider() trace.TracerProvider {
	return t.tracerProvider
}

// MeterProvider returns the meter provider for refresh, scheduler and HTTP metrics
func (t *Telemetry) MeterProvider() metric.MeterProvider {
	return t.meterProvider
}

// MetricsHandler returns the Prometheus scrape handler, or nil when Prometheus export is off
func (t *Telemetry) MetricsHandler() http.Handler {
	if t.promRegistry == nil {
		return nil
	}
	return promhttp.HandlerFor(t.promRegistry, promhttp.HandlerOpts{})
}

// Shutdown flushes pending spans and metrics. Later calls return nil.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	shutdowns := t.shutdowns
	t.shutdowns = nil
	if len(shutdowns) == 0 {
		return nil
	}

	slog.Info("Shutting down telemetry")
	var errs []error
	for _, shutdown := range shutdowns {
		if err := shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("failed to flush telemetry: %w", err)
	}
	return nil
}
