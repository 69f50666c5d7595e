package providers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/stacklok/toolhive-catalog-provider/internal/catalog"
	"github.com/stacklok/toolhive-catalog-provider/internal/otel"
	"github.com/stacklok/toolhive-catalog-provider/internal/scheduler"
	"github.com/stacklok/toolhive-catalog-provider/internal/sources"
	"github.com/stacklok/toolhive-catalog-provider/internal/telemetry"
)

// ErrNotConnected is returned by Refresh before Connect
var ErrNotConnected = errors.New("provider is not connected")

// StorageProviderConfig describes one object storage location served as Location entities
type StorageProviderConfig struct {
	// Kind prefixes the provider name, e.g. "azureBlobStorage"
	Kind string
	ID   string

	// StorageKind names the listed location in logs and errors ("container", "bucket")
	StorageKind string

	// Location is the container or bucket name
	Location string
	Prefix   string

	// BaseURL is the URL object keys are appended to
	BaseURL string

	Lister sources.ObjectLister
	Runner scheduler.TaskRunner

	Logger         *slog.Logger
	Tracer         trace.Tracer
	RefreshMetrics *telemetry.RefreshMetrics
	CatalogMetrics *telemetry.CatalogMetrics
}

// StorageProvider is the entity provider behaviour shared by the object storage providers:
// Connect registers the refresh task and each refresh submits one full mutation holding
// a Location entity per listed key.
type StorageProvider struct {
	cfg    StorageProviderConfig
	name   string
	logger *slog.Logger

	mu         sync.RWMutex
	connection catalog.Connection
}

var _ catalog.EntityProvider = (*StorageProvider)(nil)

// NewStorageProvider creates a provider for cfg
func NewStorageProvider(cfg StorageProviderConfig) *StorageProvider {
	name := ProviderName(cfg.Kind, cfg.ID)
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &StorageProvider{
		cfg:    cfg,
		name:   name,
		logger: logger.With("provider", name),
	}
}

// GetProviderName returns "<kind>-provider:<id>"
func (p *StorageProvider) GetProviderName() string {
	return p.name
}

// TaskID returns the id of the refresh task registered on Connect
func (p *StorageProvider) TaskID() string {
	return TaskID(p.name)
}

// BaseURL returns the URL object keys are appended to
func (p *StorageProvider) BaseURL() string {
	return p.cfg.BaseURL
}

// Connect stores the connection and registers the refresh task. It does not refresh.
func (p *StorageProvider) Connect(ctx context.Context, conn catalog.Connection) error {
	if conn == nil {
		return fmt.Errorf("connection is required")
	}

	p.mu.Lock()
	p.connection = conn
	p.mu.Unlock()

	err := p.cfg.Runner.Run(ctx, scheduler.TaskInvocationDefinition{
		ID: p.TaskID(),
		Fn: p.Refresh,
	})
	if err != nil {
		return fmt.Errorf("failed to schedule %s: %w", p.TaskID(), err)
	}
	return nil
}

// Refresh lists the location and submits the complete set of Location entities
func (p *StorageProvider) Refresh(ctx context.Context) (retErr error) {
	p.mu.RLock()
	conn := p.connection
	p.mu.RUnlock()
	if conn == nil {
		return ErrNotConnected
	}

	ctx, span := otel.StartSpan(ctx, p.cfg.Tracer, "StorageProvider.Refresh",
		trace.WithAttributes(
			otel.AttrProviderName.String(p.name),
			otel.AttrProviderType.String(p.cfg.Kind),
			otel.AttrContainer.String(p.cfg.Location),
			otel.AttrPrefix.String(p.cfg.Prefix),
		))
	defer span.End()

	start := time.Now()
	defer func() {
		otel.RecordError(span, retErr)
		p.cfg.RefreshMetrics.RecordRefreshDuration(ctx, p.name, time.Since(start), retErr == nil)
	}()

	p.logger.InfoContext(ctx, "Scanning "+p.cfg.StorageKind+" for catalog locations",
		p.cfg.StorageKind, p.cfg.Location,
		"prefix", p.cfg.Prefix)

	entities, err := ListLocationEntities(ctx, p.cfg.Lister, p.cfg.Prefix, p.cfg.BaseURL, p.name)
	if err != nil {
		return fmt.Errorf("failed to list %s %s: %w", p.cfg.StorageKind, p.cfg.Location, err)
	}

	p.logger.InfoContext(ctx, "Committing catalog locations", "count", len(entities))
	span.SetAttributes(otel.AttrResultCount.Int(len(entities)))

	err = conn.ApplyMutation(ctx, catalog.Mutation{
		Type:     catalog.MutationTypeFull,
		Entities: entities,
	})
	if err != nil {
		return fmt.Errorf("failed to apply mutation for %s: %w", p.name, err)
	}

	p.cfg.CatalogMetrics.RecordLocationsTotal(ctx, p.name, int64(len(entities)))
	return nil
}
