package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func collectScope(t *testing.T, reader *sdkmetric.ManualReader, scopeName string) []metricdata.Metrics {
	t.Helper()

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	for _, scope := range rm.ScopeMetrics {
		if scope.Scope.Name == scopeName {
			return scope.Metrics
		}
	}
	return nil
}

func TestNewMetricsWithNilProvider(t *testing.T) {
	t.Parallel()

	catalogMetrics, err := NewCatalogMetrics(nil)
	require.NoError(t, err)
	assert.Nil(t, catalogMetrics)

	refreshMetrics, err := NewRefreshMetrics(nil)
	require.NoError(t, err)
	assert.Nil(t, refreshMetrics)

	schedulerMetrics, err := NewSchedulerMetrics(nil)
	require.NoError(t, err)
	assert.Nil(t, schedulerMetrics)

	// Recording on nil metrics should not panic
	catalogMetrics.RecordLocationsTotal(context.Background(), "provider", 3)
	refreshMetrics.RecordRefreshDuration(context.Background(), "provider", time.Second, true)
	schedulerMetrics.RecordTaskRun(context.Background(), "provider:refresh", "succeeded")
}

func TestCatalogMetrics_RecordLocationsTotal(t *testing.T) {
	t.Parallel()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer func() { _ = mp.Shutdown(context.Background()) }()

	metrics, err := NewCatalogMetrics(mp)
	require.NoError(t, err)
	require.NotNil(t, metrics)

	metrics.RecordLocationsTotal(context.Background(), "azureBlobStorage-provider:a", 42)
	metrics.RecordLocationsTotal(context.Background(), "azureBlobStorage-provider:b", 10)

	recorded := collectScope(t, reader, CatalogMetricsMeterName)
	require.Len(t, recorded, 1)
	assert.Equal(t, "thv_catalog_locations_total", recorded[0].Name)

	gauge, ok := recorded[0].Data.(metricdata.Gauge[int64])
	require.True(t, ok)
	assert.Len(t, gauge.DataPoints, 2)
}

func TestRefreshMetrics_RecordRefreshDuration(t *testing.T) {
	t.Parallel()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer func() { _ = mp.Shutdown(context.Background()) }()

	metrics, err := NewRefreshMetrics(mp)
	require.NoError(t, err)

	metrics.RecordRefreshDuration(context.Background(), "p", 2500*time.Millisecond, true)
	metrics.RecordRefreshDuration(context.Background(), "p", 500*time.Millisecond, false)

	recorded := collectScope(t, reader, RefreshMetricsMeterName)
	require.Len(t, recorded, 1)
	assert.Equal(t, "thv_catalog_refresh_duration_seconds", recorded[0].Name)

	histogram, ok := recorded[0].Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	// success=true and success=false produce separate series
	assert.Len(t, histogram.DataPoints, 2)
}

func TestSchedulerMetrics_RecordTaskRun(t *testing.T) {
	t.Parallel()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer func() { _ = mp.Shutdown(context.Background()) }()

	metrics, err := NewSchedulerMetrics(mp)
	require.NoError(t, err)

	metrics.RecordTaskRun(context.Background(), "p:refresh", "succeeded")
	metrics.RecordTaskRun(context.Background(), "p:refresh", "succeeded")
	metrics.RecordTaskRun(context.Background(), "p:refresh", "skipped")

	recorded := collectScope(t, reader, SchedulerMetricsMeterName)
	require.Len(t, recorded, 1)

	sum, ok := recorded[0].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, sum.DataPoints, 2)

	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	assert.Equal(t, int64(3), total)
}
