// Package v1 provides the catalog provider API v1 endpoints.
package v1

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/stacklok/toolhive-catalog-provider/internal/api/common"
	"github.com/stacklok/toolhive-catalog-provider/internal/catalog"
	"github.com/stacklok/toolhive-catalog-provider/internal/filtering"
	"github.com/stacklok/toolhive-catalog-provider/internal/scheduler"
	"github.com/stacklok/toolhive-catalog-provider/internal/service"
)

// LocationsResponse lists stored deferred entities
type LocationsResponse struct {
	Locations []catalog.StoredLocation `json:"locations"`
	Count     int                      `json:"count"`
}

// ProvidersResponse lists configured providers
type ProvidersResponse struct {
	Providers []service.ProviderInfo `json:"providers"`
}

// RefreshResponse acknowledges a refresh request
type RefreshResponse struct {
	Provider string `json:"provider"`
	Status   string `json:"status"`
}

// Routes handles HTTP requests for API v1 endpoints.
type Routes struct {
	service service.CatalogService
}

// NewRoutes creates a new Routes instance with the given service.
func NewRoutes(svc service.CatalogService) *Routes {
	return &Routes{
		service: svc,
	}
}

// Router creates and configures the HTTP router for API v1 endpoints.
func Router(svc service.CatalogService) http.Handler {
	routes := NewRoutes(svc)

	r := chi.NewRouter()

	r.Get("/locations", routes.listLocations)
	r.Get("/providers", routes.listProviders)
	r.Post("/providers/{providerName}/refresh", routes.refreshProvider)

	return r
}

func (routes *Routes) listLocations(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var opts []service.Option[service.ListLocationsOptions]
	if locationKey := query.Get("locationKey"); locationKey != "" {
		opts = append(opts, service.WithLocationKey(locationKey))
	}
	if include, exclude := query["include"], query["exclude"]; len(include) > 0 || len(exclude) > 0 {
		opts = append(opts, service.WithTargetPatterns(include, exclude))
	}

	locations, err := routes.service.ListLocations(r.Context(), opts...)
	if errors.Is(err, filtering.ErrInvalidPattern) {
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err != nil {
		common.WriteErrorResponse(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if locations == nil {
		locations = []catalog.StoredLocation{}
	}

	common.WriteJSONResponse(w, LocationsResponse{Locations: locations, Count: len(locations)}, http.StatusOK)
}

func (routes *Routes) listProviders(w http.ResponseWriter, r *http.Request) {
	providers, err := routes.service.ListProviders(r.Context())
	if err != nil {
		common.WriteErrorResponse(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if providers == nil {
		providers = []service.ProviderInfo{}
	}

	common.WriteJSONResponse(w, ProvidersResponse{Providers: providers}, http.StatusOK)
}

// refreshProvider starts the provider's task without waiting for it
func (routes *Routes) refreshProvider(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "providerName")

	err := routes.service.RefreshProvider(r.Context(), name)
	switch {
	case errors.Is(err, service.ErrProviderNotFound):
		common.WriteErrorResponse(w, "provider "+name+" not found", http.StatusNotFound)
		return
	case errors.Is(err, scheduler.ErrTaskRunning):
		common.WriteErrorResponse(w, "provider "+name+" is already refreshing", http.StatusConflict)
		return
	case errors.Is(err, scheduler.ErrSchedulerStopped):
		common.WriteErrorResponse(w, "server is shutting down", http.StatusServiceUnavailable)
		return
	case err != nil:
		slog.ErrorContext(r.Context(), "Failed to trigger refresh", "provider", name, "error", err)
		common.WriteErrorResponse(w, err.Error(), http.StatusInternalServerError)
		return
	}

	common.WriteJSONResponse(w, RefreshResponse{Provider: name, Status: "accepted"}, http.StatusAccepted)
}
