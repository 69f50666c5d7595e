package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/stacklok/toolhive-catalog-provider/internal/api"
	"github.com/stacklok/toolhive-catalog-provider/internal/api/common"
	"github.com/stacklok/toolhive-catalog-provider/internal/service"
	"github.com/stacklok/toolhive-catalog-provider/internal/service/mocks"
)

// get serves one GET against a server backed by a fresh mock service
func get(t *testing.T, path string, expect func(*mocks.MockCatalogService), opts ...api.ServerOption) *httptest.ResponseRecorder {
	t.Helper()
	svc := mocks.NewMockCatalogService(gomock.NewController(t))
	if expect != nil {
		expect(svc)
	}
	rr := httptest.NewRecorder()
	api.NewServer(svc, opts...).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
	return rr
}

func TestOperationalEndpoints(t *testing.T) {
	t.Parallel()

	metrics := api.WithMetricsHandler(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("# catalog metrics"))
	}))

	tests := []struct {
		name       string
		path       string
		expect     func(*mocks.MockCatalogService)
		opts       []api.ServerOption
		wantStatus int
		wantBody   string
	}{
		{name: "health never consults the service", path: "/health", wantStatus: http.StatusOK, wantBody: `"healthy"`},
		{
			name: "ready once providers are connected",
			path: "/readiness",
			expect: func(m *mocks.MockCatalogService) {
				m.EXPECT().CheckReadiness(gomock.Any()).Return(nil)
			},
			wantStatus: http.StatusOK,
			wantBody:   "ready",
		},
		{
			name: "not ready before the first connect",
			path: "/readiness",
			expect: func(m *mocks.MockCatalogService) {
				m.EXPECT().CheckReadiness(gomock.Any()).Return(service.ErrNotReady)
			},
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   "providers are not connected yet",
		},
		{name: "metrics absent without exporter", path: "/metrics", wantStatus: http.StatusNotFound},
		{name: "metrics served by exporter", path: "/metrics", opts: []api.ServerOption{metrics}, wantStatus: http.StatusOK, wantBody: "# catalog metrics"},
		{name: "unknown catalog route", path: "/v1/unknown", wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rr := get(t, tt.path, tt.expect, tt.opts...)
			assert.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantBody != "" {
				assert.Contains(t, rr.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestVersionEndpoint(t *testing.T) {
	t.Parallel()

	rr := get(t, "/version", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var info api.VersionResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &info))
	assert.NotEmpty(t, info.Version)
	assert.NotEmpty(t, info.GoVersion)
	assert.NotEmpty(t, info.Platform)
}

func TestWithMiddlewares(t *testing.T) {
	t.Parallel()

	var order []string
	tag := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	rr := get(t, "/health", nil, api.WithMiddlewares(tag("outer"), tag("inner"), api.LoggingMiddleware))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, []string{"outer", "inner"}, order)
}

func TestErrorResponseShape(t *testing.T) {
	t.Parallel()

	rr := httptest.NewRecorder()
	common.WriteErrorResponse(rr, "provider not found", http.StatusNotFound)

	assert.Equal(t, http.StatusNotFound, rr.Code)
	var body common.ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "provider not found", body.Error)
}
