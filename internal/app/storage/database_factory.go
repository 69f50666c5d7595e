package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/trace"

	"github.com/stacklok/toolhive-catalog-provider/internal/app/storage/auth"
	"github.com/stacklok/toolhive-catalog-provider/internal/catalog"
	"github.com/stacklok/toolhive-catalog-provider/internal/catalog/store"
	"github.com/stacklok/toolhive-catalog-provider/internal/config"
	"github.com/stacklok/toolhive-catalog-provider/internal/scheduler"
	"github.com/stacklok/toolhive-catalog-provider/internal/state"
)

// poolPingTimeout bounds the startup connectivity check
const poolPingTimeout = 10 * time.Second

// DatabaseFactory builds the PostgreSQL catalog store, task state and advisory locker.
// They share one connection pool, closed by Cleanup.
type DatabaseFactory struct {
	config *config.Config
	pool   *pgxpool.Pool
	tracer trace.Tracer
}

var _ Factory = (*DatabaseFactory)(nil)

// DatabaseFactoryOption configures a DatabaseFactory
type DatabaseFactoryOption func(*DatabaseFactory)

// WithTracer traces catalog store queries with tracer
func WithTracer(tracer trace.Tracer) DatabaseFactoryOption {
	return func(f *DatabaseFactory) {
		f.tracer = tracer
	}
}

// NewDatabaseFactory opens the pool and checks the database is reachable
func NewDatabaseFactory(ctx context.Context, cfg *config.Config, opts ...DatabaseFactoryOption) (*DatabaseFactory, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if cfg.Database == nil {
		return nil, fmt.Errorf("database configuration is required for database storage type")
	}

	pool, err := buildDatabaseConnectionPool(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	factory := &DatabaseFactory{config: cfg, pool: pool}
	for _, opt := range opts {
		opt(factory)
	}
	return factory, nil
}

// Pool returns the shared connection pool
func (d *DatabaseFactory) Pool() *pgxpool.Pool {
	return d.pool
}

// CreateCatalogStore returns the PostgreSQL catalog store
func (d *DatabaseFactory) CreateCatalogStore(_ context.Context) (catalog.Store, error) {
	var opts []store.PostgresOption
	if d.tracer != nil {
		opts = append(opts, store.WithTracer(d.tracer))
	}
	return store.NewPostgresStore(d.pool, opts...)
}

// CreateStateService returns task status stored in the task_status table
func (d *DatabaseFactory) CreateStateService(_ context.Context) (state.TaskStateService, error) {
	return state.NewStateService(d.config, nil, d.pool)
}

// CreateLocker returns a locker on PostgreSQL advisory locks, so a globally scoped
// refresh runs on one replica at a time
func (d *DatabaseFactory) CreateLocker(_ context.Context) (scheduler.Locker, error) {
	return store.NewAdvisoryLocker(d.pool), nil
}

// Cleanup closes the pool
func (d *DatabaseFactory) Cleanup() {
	if d.pool != nil {
		slog.Info("Closing database connection pool")
		d.pool.Close()
	}
}

// newPoolConfig maps the database settings onto a pgx pool configuration. With dynamic
// auth each new connection signs a fresh token, since tokens expire.
func newPoolConfig(ctx context.Context, cfg *config.DatabaseConfig) (*pgxpool.Config, error) {
	connStr, err := cfg.GetConnectionString()
	if err != nil {
		return nil, err
	}
	poolConfig, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database connection string: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		poolConfig.MaxConns = cfg.MaxOpenConns
	}
	if cfg.MaxIdleConns > 0 {
		poolConfig.MinConns = cfg.MaxIdleConns
	}
	if cfg.ConnMaxLifetime != "" {
		if poolConfig.MaxConnLifetime, err = time.ParseDuration(cfg.ConnMaxLifetime); err != nil {
			return nil, fmt.Errorf("failed to parse connMaxLifetime: %w", err)
		}
	}

	if cfg.DynamicAuth != nil {
		if poolConfig.BeforeConnect, err = auth.NewDynamicAuth(ctx, cfg, cfg.User); err != nil {
			return nil, fmt.Errorf("failed to configure dynamic database authentication: %w", err)
		}
	}
	return poolConfig, nil
}

func buildDatabaseConnectionPool(ctx context.Context, cfg *config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolConfig, err := newPoolConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create database connection pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, poolPingTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to reach database %s:%d: %w", cfg.Host, cfg.Port, err)
	}

	slog.Info("Database connection pool ready",
		"host", cfg.Host,
		"database", cfg.Database,
		"max_conns", poolConfig.MaxConns,
		"dynamic_auth", cfg.DynamicAuth != nil)
	return pool, nil
}
