// Package telemetry provides OpenTelemetry instrumentation for the catalog provider server.
package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	// CatalogMetricsMeterName is the name used for the catalog metrics meter
	CatalogMetricsMeterName = "github.com/stacklok/toolhive-catalog-provider/catalog"

	// RefreshMetricsMeterName is the name used for the provider refresh metrics meter
	RefreshMetricsMeterName = "github.com/stacklok/toolhive-catalog-provider/refresh"

	// SchedulerMetricsMeterName is the name used for the scheduler metrics meter
	SchedulerMetricsMeterName = "github.com/stacklok/toolhive-catalog-provider/scheduler"
)

// CatalogMetrics holds the OpenTelemetry instruments for catalog metrics
type CatalogMetrics struct {
	locationsTotal metric.Int64Gauge
}

// NewCatalogMetrics creates a new CatalogMetrics instance with the given meter provider.
// If provider is nil, it returns nil (no-op metrics).
func NewCatalogMetrics(provider metric.MeterProvider) (*CatalogMetrics, error) {
	if provider == nil {
		return nil, nil
	}

	meter := provider.Meter(CatalogMetricsMeterName)

	locationsTotal, err := meter.Int64Gauge(
		"thv_catalog_locations_total",
		metric.WithDescription("Number of locations emitted by each provider on its last refresh"),
		metric.WithUnit("{location}"),
	)
	if err != nil {
		return nil, err
	}

	return &CatalogMetrics{
		locationsTotal: locationsTotal,
	}, nil
}

// RecordLocationsTotal records the number of locations a provider emitted
func (m *CatalogMetrics) RecordLocationsTotal(ctx context.Context, providerName string, count int64) {
	if m == nil || m.locationsTotal == nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String("provider", providerName),
	}

	m.locationsTotal.Record(ctx, count, metric.WithAttributes(attrs...))
}

// RefreshMetrics holds the OpenTelemetry instruments for provider refresh metrics
type RefreshMetrics struct {
	refreshDuration metric.Float64Histogram
}

// NewRefreshMetrics creates a new RefreshMetrics instance with the given meter provider.
// If provider is nil, it returns nil (no-op metrics).
func NewRefreshMetrics(provider metric.MeterProvider) (*RefreshMetrics, error) {
	if provider == nil {
		return nil, nil
	}

	meter := provider.Meter(RefreshMetricsMeterName)

	refreshDuration, err := meter.Float64Histogram(
		"thv_catalog_refresh_duration_seconds",
		metric.WithDescription("Duration of provider refresh operations in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300),
	)
	if err != nil {
		return nil, err
	}

	return &RefreshMetrics{
		refreshDuration: refreshDuration,
	}, nil
}

// RecordRefreshDuration records the duration of a refresh for a provider
func (m *RefreshMetrics) RecordRefreshDuration(ctx context.Context, providerName string, duration time.Duration, success bool) {
	if m == nil || m.refreshDuration == nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String("provider", providerName),
		attribute.Bool("success", success),
	}

	m.refreshDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// SchedulerMetrics holds the OpenTelemetry instruments for scheduled task metrics
type SchedulerMetrics struct {
	taskRuns metric.Int64Counter
}

// NewSchedulerMetrics creates a new SchedulerMetrics instance with the given meter provider.
// If provider is nil, it returns nil (no-op metrics).
func NewSchedulerMetrics(provider metric.MeterProvider) (*SchedulerMetrics, error) {
	if provider == nil {
		return nil, nil
	}

	meter := provider.Meter(SchedulerMetricsMeterName)

	taskRuns, err := meter.Int64Counter(
		"thv_catalog_task_runs_total",
		metric.WithDescription("Number of scheduled task invocations by result"),
		metric.WithUnit("{run}"),
	)
	if err != nil {
		return nil, err
	}

	return &SchedulerMetrics{
		taskRuns: taskRuns,
	}, nil
}

// RecordTaskRun counts one task invocation. Result is one of succeeded, failed or skipped.
func (m *SchedulerMetrics) RecordTaskRun(ctx context.Context, taskID, result string) {
	if m == nil || m.taskRuns == nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String("task", taskID),
		attribute.String("result", result),
	}

	m.taskRuns.Add(ctx, 1, metric.WithAttributes(attrs...))
}
