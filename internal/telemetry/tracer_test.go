package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

func TestNewTracerProvider(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		tracing *TracingConfig
		wantSDK bool
	}{
		{name: "no tracing section", tracing: nil},
		{name: "tracing disabled", tracing: &TracingConfig{Enabled: false, Sampling: floatPtr(1)}},
		{name: "tracing enabled", tracing: &TracingConfig{Enabled: true, Sampling: floatPtr(0.25)}, wantSDK: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ctx := context.Background()

			exp := Exporter{
				ServiceName:    "thv-catalog-provider",
				ServiceVersion: "v0.1.0",
				Endpoint:       "otel-collector:4318",
				Insecure:       true,
				Headers:        map[string]string{"x-collector-token": "secret"},
			}
			tp, err := NewTracerProvider(ctx, exp, tt.tracing)
			require.NoError(t, err)

			sdkTP, isSDK := tp.(*sdktrace.TracerProvider)
			assert.Equal(t, tt.wantSDK, isSDK)
			if isSDK {
				require.NoError(t, sdkTP.Shutdown(ctx))
				return
			}
			_, isNoop := tp.(noop.TracerProvider)
			assert.True(t, isNoop)
		})
	}
}

func TestNewSampler(t *testing.T) {
	t.Parallel()

	traceID, err := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	require.NoError(t, err)
	spanID, err := trace.SpanIDFromHex("00f067aa0ba902b7")
	require.NoError(t, err)

	sampledParent := trace.ContextWithRemoteSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
		Remote:     true,
	}))

	tests := []struct {
		name     string
		ctx      context.Context
		ratio    float64
		expected sdktrace.SamplingDecision
	}{
		{name: "refresh root span never sampled at zero ratio", ctx: context.Background(), ratio: 0, expected: sdktrace.Drop},
		{name: "refresh root span always sampled at full ratio", ctx: context.Background(), ratio: 1, expected: sdktrace.RecordAndSample},
		{name: "sampled API caller is honoured", ctx: sampledParent, ratio: 0, expected: sdktrace.RecordAndSample},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result := newSampler(tt.ratio).ShouldSample(sdktrace.SamplingParameters{
				ParentContext: tt.ctx,
				TraceID:       traceID,
				Name:          "StorageProvider.Refresh",
				Kind:          trace.SpanKindInternal,
			})
			assert.Equal(t, tt.expected, result.Decision)
		})
	}
}

func TestNewServiceResource(t *testing.T) {
	t.Parallel()

	res, err := newServiceResource(context.Background(), "thv-catalog-provider", "v0.1.0")
	require.NoError(t, err)

	name, ok := res.Set().Value(semconv.ServiceNameKey)
	require.True(t, ok)
	assert.Equal(t, "thv-catalog-provider", name.AsString())

	version, ok := res.Set().Value(semconv.ServiceVersionKey)
	require.True(t, ok)
	assert.Equal(t, "v0.1.0", version.AsString())
}
