package providers

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/mock/gomock"

	"github.com/stacklok/toolhive-catalog-provider/internal/catalog"
	catalogmocks "github.com/stacklok/toolhive-catalog-provider/internal/catalog/mocks"
	"github.com/stacklok/toolhive-catalog-provider/internal/scheduler"
	schedmocks "github.com/stacklok/toolhive-catalog-provider/internal/scheduler/mocks"
	"github.com/stacklok/toolhive-catalog-provider/internal/sources/mocks"
)

func newTestStorageProvider(
	t *testing.T,
	ctrl *gomock.Controller,
	keys []string,
	listErr error,
) (*StorageProvider, *tracetest.InMemoryExporter) {
	t.Helper()

	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	lister := mocks.NewMockObjectLister(ctrl)
	lister.EXPECT().ListObjects(gomock.Any(), "docs/").Return(seq(keys, listErr)).AnyTimes()

	runner := schedmocks.NewMockTaskRunner(ctrl)
	runner.EXPECT().Run(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, task scheduler.TaskInvocationDefinition) error {
			assert.Equal(t, "azureBlobStorage-provider:test:refresh", task.ID)
			return nil
		}).AnyTimes()

	return NewStorageProvider(StorageProviderConfig{
		Kind:        "azureBlobStorage",
		ID:          "test",
		StorageKind: "container",
		Location:    "container-1",
		Prefix:      "docs/",
		BaseURL:     "https://myaccount.blob.core.windows.net/container-1/",
		Lister:      lister,
		Runner:      runner,
		Tracer:      tp.Tracer("test"),
	}), exporter
}

func spanAttrs(span sdktrace.ReadOnlySpan) map[string]string {
	attrs := make(map[string]string)
	for _, kv := range span.Attributes() {
		attrs[string(kv.Key)] = kv.Value.Emit()
	}
	return attrs
}

func TestStorageProviderRefreshSpan(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	provider, exporter := newTestStorageProvider(t, ctrl, []string{"docs/a.yaml", "docs/b.yaml"}, nil)

	conn := catalogmocks.NewMockConnection(ctrl)
	conn.EXPECT().ApplyMutation(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, m catalog.Mutation) error {
			assert.Equal(t, catalog.MutationTypeFull, m.Type)
			require.Len(t, m.Entities, 2)
			assert.Equal(t, "https://myaccount.blob.core.windows.net/container-1/docs/a.yaml",
				m.Entities[0].Entity.Spec.Target)
			return nil
		})

	require.NoError(t, provider.Connect(context.Background(), conn))
	require.NoError(t, provider.Refresh(context.Background()))

	spans := exporter.GetSpans().Snapshots()
	require.Len(t, spans, 1)
	assert.Equal(t, "StorageProvider.Refresh", spans[0].Name())

	attrs := spanAttrs(spans[0])
	assert.Equal(t, "azureBlobStorage-provider:test", attrs["provider.name"])
	assert.Equal(t, "azureBlobStorage", attrs["provider.type"])
	assert.Equal(t, "container-1", attrs["storage.container"])
	assert.Equal(t, "docs/", attrs["storage.prefix"])
	assert.Equal(t, "2", attrs["result.count"])
	assert.NotEqual(t, codes.Error, spans[0].Status().Code)
}

func TestStorageProviderRefreshErrors(t *testing.T) {
	t.Parallel()

	t.Run("not connected", func(t *testing.T) {
		t.Parallel()

		provider, exporter := newTestStorageProvider(t, gomock.NewController(t), nil, nil)
		require.ErrorIs(t, provider.Refresh(context.Background()), ErrNotConnected)
		assert.Empty(t, exporter.GetSpans())
	})

	t.Run("listing error names the location and marks the span", func(t *testing.T) {
		t.Parallel()

		ctrl := gomock.NewController(t)
		listErr := errors.New("authorization failure")
		provider, exporter := newTestStorageProvider(t, ctrl, []string{"docs/a.yaml"}, listErr)

		require.NoError(t, provider.Connect(context.Background(), catalogmocks.NewMockConnection(ctrl)))
		err := provider.Refresh(context.Background())
		require.ErrorIs(t, err, listErr)
		assert.ErrorContains(t, err, "failed to list container container-1")

		spans := exporter.GetSpans().Snapshots()
		require.Len(t, spans, 1)
		assert.Equal(t, codes.Error, spans[0].Status().Code)
		assert.Equal(t, "container-1", spanAttrs(spans[0])["storage.container"])
	})

	t.Run("mutation error", func(t *testing.T) {
		t.Parallel()

		ctrl := gomock.NewController(t)
		mutationErr := errors.New("catalog unavailable")
		provider, _ := newTestStorageProvider(t, ctrl, []string{"docs/a.yaml"}, nil)

		conn := catalogmocks.NewMockConnection(ctrl)
		conn.EXPECT().ApplyMutation(gomock.Any(), gomock.Any()).Return(mutationErr)
		require.NoError(t, provider.Connect(context.Background(), conn))

		err := provider.Refresh(context.Background())
		require.ErrorIs(t, err, mutationErr)
		assert.ErrorContains(t, err, "azureBlobStorage-provider:test")
	})
}

func TestStorageProviderConnect(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	provider, _ := newTestStorageProvider(t, ctrl, nil, nil)

	assert.Equal(t, "azureBlobStorage-provider:test", provider.GetProviderName())
	assert.Equal(t, "azureBlobStorage-provider:test:refresh", provider.TaskID())
	assert.Equal(t, "https://myaccount.blob.core.windows.net/container-1/", provider.BaseURL())

	require.Error(t, provider.Connect(context.Background(), nil))
	require.NoError(t, provider.Connect(context.Background(), catalogmocks.NewMockConnection(ctrl)))
}
