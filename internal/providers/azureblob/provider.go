// Package azureblob provides the catalog entity provider that turns every blob in an
// Azure Blob Storage container into a Location entity.
package azureblob

import (
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/trace"

	"github.com/stacklok/toolhive-catalog-provider/internal/catalog"
	"github.com/stacklok/toolhive-catalog-provider/internal/config"
	"github.com/stacklok/toolhive-catalog-provider/internal/integrations"
	"github.com/stacklok/toolhive-catalog-provider/internal/providers"
	"github.com/stacklok/toolhive-catalog-provider/internal/scheduler"
	"github.com/stacklok/toolhive-catalog-provider/internal/sources"
	"github.com/stacklok/toolhive-catalog-provider/internal/telemetry"
)

const (
	// ProviderKind prefixes every provider name
	ProviderKind = "azureBlobStorage"

	// ProviderType names the provider in schedule errors
	ProviderType = "AzureBlobStorageEntityProvider"
)

// ErrNotConnected is returned by Refresh before Connect
var ErrNotConnected = providers.ErrNotConnected

// Options configure how providers are built
type Options struct {
	// Schedule runs the refresh task and takes precedence over configured schedules
	Schedule scheduler.TaskRunner

	// Scheduler creates a runner from each instance's schedule when Schedule is nil
	Scheduler scheduler.Scheduler

	// ListerFactory builds the container listers; defaults to the SDK backed factory
	ListerFactory sources.ListerFactory

	Logger         *slog.Logger
	Tracer         trace.Tracer
	RefreshMetrics *telemetry.RefreshMetrics
	CatalogMetrics *telemetry.CatalogMetrics
}

// EntityProvider emits one Location entity per blob in a container
type EntityProvider struct {
	*providers.StorageProvider
}

var _ catalog.EntityProvider = (*EntityProvider)(nil)

// FromConfig builds one provider per instance under catalog.providers.azureBlob, ordered by id
func FromConfig(cfg *config.Config, opts Options) ([]*EntityProvider, error) {
	schedOpts := providers.ScheduleOptions{Schedule: opts.Schedule, Scheduler: opts.Scheduler}
	if err := schedOpts.Validate(); err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, nil
	}

	if opts.ListerFactory == nil {
		opts.ListerFactory = sources.NewListerFactory()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	integs := integrations.NewAzureIntegrations(cfg.Integrations.AzureBlobStorage)

	var result []*EntityProvider
	for _, id := range cfg.AzureBlobProviderIDs() {
		instance := cfg.Catalog.Providers.AzureBlob[id]

		instanceSchedule, err := providers.ResolveScheduleConfig(cfg, instance.Schedule, instance.ScheduleKey)
		if err != nil {
			return nil, fmt.Errorf("%s:%s: %w", ProviderType, id, err)
		}

		runner, err := providers.ResolveTaskRunner(schedOpts, ProviderType, id, instanceSchedule)
		if err != nil {
			return nil, err
		}

		provider, err := newProvider(id, instance, integs, runner, opts)
		if err != nil {
			return nil, err
		}
		result = append(result, provider)
	}

	return result, nil
}

func newProvider(
	id string,
	instance *config.AzureBlobProviderConfig,
	integs *integrations.AzureIntegrations,
	runner scheduler.TaskRunner,
	opts Options,
) (*EntityProvider, error) {
	integ, err := integs.Resolve(instance.AccountName, instance.Host)
	if err != nil {
		return nil, fmt.Errorf("%s:%s: %w", ProviderType, id, err)
	}

	serviceURL, err := integ.ServiceURL()
	if err != nil {
		return nil, fmt.Errorf("%s:%s: %w", ProviderType, id, err)
	}

	lister, err := opts.ListerFactory.NewAzureContainerLister(integ, instance.ContainerName)
	if err != nil {
		return nil, fmt.Errorf("%s:%s: %w", ProviderType, id, err)
	}

	return &EntityProvider{providers.NewStorageProvider(providers.StorageProviderConfig{
		Kind:           ProviderKind,
		ID:             id,
		StorageKind:    "container",
		Location:       instance.ContainerName,
		Prefix:         instance.Prefix,
		BaseURL:        serviceURL + instance.ContainerName + "/",
		Lister:         lister,
		Runner:         runner,
		Logger:         opts.Logger,
		Tracer:         opts.Tracer,
		RefreshMetrics: opts.RefreshMetrics,
		CatalogMetrics: opts.CatalogMetrics,
	})}, nil
}
