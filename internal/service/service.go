// Package service provides the read and control operations behind the catalog provider API
package service

import (
	"context"
	"errors"

	"github.com/stacklok/toolhive-catalog-provider/internal/catalog"
	"github.com/stacklok/toolhive-catalog-provider/internal/filtering"
	"github.com/stacklok/toolhive-catalog-provider/internal/scheduler"
	"github.com/stacklok/toolhive-catalog-provider/internal/status"
)

var (
	// ErrProviderNotFound is returned when no provider has the given name
	ErrProviderNotFound = errors.New("provider not found")
	// ErrNotReady is returned until every provider is connected
	ErrNotReady = errors.New("providers are not connected yet")
)

//go:generate mockgen -destination=mocks/mock_service.go -package=mocks -source=service.go CatalogService

// CatalogService defines the operations exposed over HTTP
type CatalogService interface {
	// CheckReadiness checks if providers are connected and the store is reachable
	CheckReadiness(ctx context.Context) error

	// ListLocations returns the stored deferred entities
	ListLocations(ctx context.Context, opts ...Option[ListLocationsOptions]) ([]catalog.StoredLocation, error)

	// ListProviders returns every configured provider with its task state
	ListProviders(ctx context.Context) ([]ProviderInfo, error)

	// RefreshProvider runs the provider's refresh task now
	RefreshProvider(ctx context.Context, name string) error
}

// Option is a function that sets an option for a service operation
type Option[T ListLocationsOptions] func(*T) error

// ListLocationsOptions is the options for the ListLocations operation
type ListLocationsOptions struct {
	LocationKey string
	Filter      filtering.TargetFilter
}

// WithLocationKey limits ListLocations to rows emitted under one location key
func WithLocationKey(locationKey string) Option[ListLocationsOptions] {
	return func(o *ListLocationsOptions) error {
		o.LocationKey = locationKey
		return nil
	}
}

// WithTargetPatterns keeps only locations whose target matches the include globs and none
// of the exclude globs. Invalid patterns fail with filtering.ErrInvalidPattern.
func WithTargetPatterns(include, exclude []string) Option[ListLocationsOptions] {
	return func(o *ListLocationsOptions) error {
		if len(include) == 0 && len(exclude) == 0 {
			return nil
		}
		filter, err := filtering.NewTargetFilter(include, exclude)
		if err != nil {
			return err
		}
		o.Filter = filter
		return nil
	}
}

// ProviderDescriptor identifies a connected provider
type ProviderDescriptor struct {
	Name   string
	Kind   string
	TaskID string
}

// ProviderInfo is a provider with the state of its refresh task
type ProviderInfo struct {
	Name   string              `json:"name"`
	Kind   string              `json:"kind"`
	TaskID string              `json:"taskId"`
	Task   *scheduler.TaskInfo `json:"task,omitempty"`
	Status *status.TaskStatus  `json:"status,omitempty"`
}
