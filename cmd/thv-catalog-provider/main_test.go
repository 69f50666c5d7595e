package main

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
)

func TestGetLogLevel(t *testing.T) {
	tests := []struct {
		name     string
		env      map[string]string
		expected slog.Level
	}{
		{name: "default", expected: slog.LevelInfo},
		{name: "prefixed debug", env: map[string]string{"THV_CATALOG_LOG_LEVEL": "debug"}, expected: slog.LevelDebug},
		{name: "fallback warn", env: map[string]string{"LOG_LEVEL": "WARNING"}, expected: slog.LevelWarn},
		{
			name:     "prefixed wins",
			env:      map[string]string{"THV_CATALOG_LOG_LEVEL": "error", "LOG_LEVEL": "debug"},
			expected: slog.LevelError,
		},
		{name: "invalid", env: map[string]string{"LOG_LEVEL": "loud"}, expected: slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("THV_CATALOG_LOG_LEVEL", "")
			t.Setenv("LOG_LEVEL", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			assert.Equal(t, tt.expected, getLogLevel())
		})
	}
}

func TestTraceHandlerInjectsIDs(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(&traceHandler{Handler: slog.NewJSONHandler(&buf, nil)})

	traceID, err := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	require.NoError(t, err)
	spanID, err := trace.SpanIDFromHex("00f067aa0ba902b7")
	require.NoError(t, err)
	ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	}))

	logger.With("provider", "azureBlobStorage-provider:test").InfoContext(ctx, "refreshed")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", record["trace_id"])
	assert.Equal(t, "00f067aa0ba902b7", record["span_id"])
	assert.Equal(t, "azureBlobStorage-provider:test", record["provider"])

	buf.Reset()
	logger.Info("no span")
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.NotContains(t, buf.String(), "trace_id")
}

func TestNewLoggerLevel(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	logger := newLogger(slog.LevelWarn)
	_, ok := logger.Handler().(*traceHandler)
	require.True(t, ok, "logger should inject trace ids")
	assert.False(t, logger.Enabled(ctx, slog.LevelInfo))
	assert.True(t, logger.Enabled(ctx, slog.LevelWarn))

	debug := newLogger(slog.LevelDebug)
	assert.True(t, debug.Enabled(ctx, slog.LevelDebug))
}
