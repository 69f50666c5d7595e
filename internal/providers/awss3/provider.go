// Package awss3 provides the catalog entity provider that turns every object in an
// S3 bucket into a Location entity.
package awss3

import (
	"context"
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
	ProviderKind = "awsS3"

	// ProviderType names the provider in schedule errors
	ProviderType = "AwsS3EntityProvider"
)

// ErrNotConnected is returned by Refresh before Connect
var ErrNotConnected = providers.ErrNotConnected

// Options configure how providers are built
type Options struct {
	Schedule      scheduler.TaskRunner
	Scheduler     scheduler.Scheduler
	ListerFactory sources.ListerFactory

	Logger         *slog.Logger
	Tracer         trace.Tracer
	RefreshMetrics *telemetry.RefreshMetrics
	CatalogMetrics *telemetry.CatalogMetrics
}

// EntityProvider emits one Location entity per object in a bucket
type EntityProvider struct {
	*providers.StorageProvider
}

var _ catalog.EntityProvider = (*EntityProvider)(nil)

// FromConfig builds one provider per instance under catalog.providers.awsS3, ordered by id
func FromConfig(ctx context.Context, cfg *config.Config, opts Options) ([]*EntityProvider, error) {
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

	integs := integrations.NewAwsIntegrations(cfg.Integrations.AwsS3)

	var result []*EntityProvider
	for _, id := range cfg.AwsS3ProviderIDs() {
		instance := cfg.Catalog.Providers.AwsS3[id]

		instanceSchedule, err := providers.ResolveScheduleConfig(cfg, instance.Schedule, instance.ScheduleKey)
		if err != nil {
			return nil, fmt.Errorf("%s:%s: %w", ProviderType, id, err)
		}

		runner, err := providers.ResolveTaskRunner(schedOpts, ProviderType, id, instanceSchedule)
		if err != nil {
			return nil, err
		}

		integ := integs.Resolve(instance.Endpoint)
		region := instance.Region
		if region == "" {
			region = integ.Region
		}
		endpoint := instance.Endpoint
		if endpoint == "" {
			endpoint = integ.Endpoint
		}

		lister, err := opts.ListerFactory.NewS3BucketLister(ctx, integ, instance.BucketName, region, endpoint)
		if err != nil {
			return nil, fmt.Errorf("%s:%s: %w", ProviderType, id, err)
		}

		result = append(result, &EntityProvider{providers.NewStorageProvider(providers.StorageProviderConfig{
			Kind:           ProviderKind,
			ID:             id,
			StorageKind:    "bucket",
			Location:       instance.BucketName,
			Prefix:         instance.Prefix,
			BaseURL:        integrations.BucketURL(instance.BucketName, region, endpoint),
			Lister:         lister,
			Runner:         runner,
			Logger:         opts.Logger,
			Tracer:         opts.Tracer,
			RefreshMetrics: opts.RefreshMetrics,
			CatalogMetrics: opts.CatalogMetrics,
		})})
	}

	return result, nil
}
