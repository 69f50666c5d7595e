package app

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/trace"

	"github.com/stacklok/toolhive-catalog-provider/internal/catalog"
	"github.com/stacklok/toolhive-catalog-provider/internal/providers/awss3"
	"github.com/stacklok/toolhive-catalog-provider/internal/providers/azureblob"
	"github.com/stacklok/toolhive-catalog-provider/internal/scheduler"
	"github.com/stacklok/toolhive-catalog-provider/internal/service"
	"github.com/stacklok/toolhive-catalog-provider/internal/state"
	"github.com/stacklok/toolhive-catalog-provider/internal/telemetry"
)

const tracerName = "github.com/stacklok/toolhive-catalog-provider"

// refreshableProvider is a connected provider that can also be refreshed inline
type refreshableProvider interface {
	catalog.EntityProvider
	TaskID() string
	Refresh(ctx context.Context) error
}

// AppComponents groups all application components
//
//nolint:revive // This name is fine
type AppComponents struct {
	// Store receives provider mutations
	Store catalog.Store

	// StateService tracks the status of every refresh task
	StateService state.TaskStateService

	// Scheduler runs the provider refresh tasks
	Scheduler scheduler.Scheduler

	// Service backs the HTTP API
	Service *service.Service

	providers []refreshableProvider
}

type providerMetrics struct {
	scheduler *telemetry.SchedulerMetrics
	refresh   *telemetry.RefreshMetrics
	catalog   *telemetry.CatalogMetrics
}

func buildMetrics(b *catalogAppConfig) (*providerMetrics, error) {
	m := &providerMetrics{}
	if b.meterProvider == nil {
		return m, nil
	}

	var err error
	if m.scheduler, err = telemetry.NewSchedulerMetrics(b.meterProvider); err != nil {
		return nil, fmt.Errorf("failed to create scheduler metrics: %w", err)
	}
	if m.refresh, err = telemetry.NewRefreshMetrics(b.meterProvider); err != nil {
		return nil, fmt.Errorf("failed to create refresh metrics: %w", err)
	}
	if m.catalog, err = telemetry.NewCatalogMetrics(b.meterProvider); err != nil {
		return nil, fmt.Errorf("failed to create catalog metrics: %w", err)
	}
	slog.Info("Catalog metrics enabled")
	return m, nil
}

// buildCatalogComponents creates the storage backed components, builds every configured
// provider and connects it to the store
func buildCatalogComponents(ctx context.Context, b *catalogAppConfig) (*AppComponents, error) {
	slog.Info("Initializing catalog components")

	store := b.store
	if store == nil {
		var err error
		if store, err = b.storageFactory.CreateCatalogStore(ctx); err != nil {
			return nil, fmt.Errorf("failed to create catalog store: %w", err)
		}
	}

	stateService, err := b.storageFactory.CreateStateService(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create state service: %w", err)
	}

	metrics, err := buildMetrics(b)
	if err != nil {
		return nil, err
	}

	sched := b.scheduler
	if sched == nil {
		locker, err := b.storageFactory.CreateLocker(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to create scheduler locker: %w", err)
		}

		schedOpts := []scheduler.Option{
			scheduler.WithTaskListener(state.NewListener(stateService)),
			scheduler.WithMetrics(metrics.scheduler),
		}
		if locker != nil {
			schedOpts = append(schedOpts, scheduler.WithLocker(locker))
		}
		sched = scheduler.New(schedOpts...)
	}

	var tracer trace.Tracer
	if b.tracerProvider != nil {
		tracer = b.tracerProvider.Tracer(tracerName)
	}

	provs, err := buildProviders(ctx, b, sched, tracer, metrics)
	if err != nil {
		return nil, err
	}

	descriptors := make([]service.ProviderDescriptor, 0, len(provs))
	taskIDs := make([]string, 0, len(provs))
	for _, p := range provs {
		descriptors = append(descriptors, service.ProviderDescriptor{
			Name:   p.GetProviderName(),
			Kind:   providerKind(p),
			TaskID: p.TaskID(),
		})
		taskIDs = append(taskIDs, p.TaskID())
	}

	if err := stateService.Initialize(ctx, taskIDs); err != nil {
		return nil, fmt.Errorf("failed to initialize task state: %w", err)
	}

	for _, p := range provs {
		if err := p.Connect(ctx, catalog.NewConnection(store, p.GetProviderName())); err != nil {
			return nil, fmt.Errorf("failed to connect provider %s: %w", p.GetProviderName(), err)
		}
	}

	svc, err := service.New(store, sched, stateService, descriptors)
	if err != nil {
		return nil, fmt.Errorf("failed to create catalog service: %w", err)
	}
	svc.MarkConnected()

	slog.Info("Catalog components initialized successfully", "providers", len(provs))
	return &AppComponents{
		Store:        store,
		StateService: stateService,
		Scheduler:    sched,
		Service:      svc,
		providers:    provs,
	}, nil
}

func buildProviders(
	ctx context.Context,
	b *catalogAppConfig,
	sched scheduler.Scheduler,
	tracer trace.Tracer,
	metrics *providerMetrics,
) ([]refreshableProvider, error) {
	azureProviders, err := azureblob.FromConfig(b.config, azureblob.Options{
		Scheduler:      sched,
		ListerFactory:  b.listerFactory,
		Tracer:         tracer,
		RefreshMetrics: metrics.refresh,
		CatalogMetrics: metrics.catalog,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build azure blob storage providers: %w", err)
	}

	s3Providers, err := awss3.FromConfig(ctx, b.config, awss3.Options{
		Scheduler:      sched,
		ListerFactory:  b.listerFactory,
		Tracer:         tracer,
		RefreshMetrics: metrics.refresh,
		CatalogMetrics: metrics.catalog,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build aws s3 providers: %w", err)
	}

	result := make([]refreshableProvider, 0, len(azureProviders)+len(s3Providers))
	for _, p := range azureProviders {
		result = append(result, p)
	}
	for _, p := range s3Providers {
		result = append(result, p)
	}
	return result, nil
}

func providerKind(p refreshableProvider) string {
	switch p.(type) {
	case *azureblob.EntityProvider:
		return azureblob.ProviderKind
	case *awss3.EntityProvider:
		return awss3.ProviderKind
	default:
		return ""
	}
}
