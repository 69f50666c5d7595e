package app

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/netip"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/stacklok/toolhive-catalog-provider/internal/api"
	"github.com/stacklok/toolhive-catalog-provider/internal/app/storage"
	"github.com/stacklok/toolhive-catalog-provider/internal/auth"
	"github.com/stacklok/toolhive-catalog-provider/internal/authz"
	"github.com/stacklok/toolhive-catalog-provider/internal/catalog"
	"github.com/stacklok/toolhive-catalog-provider/internal/config"
	"github.com/stacklok/toolhive-catalog-provider/internal/scheduler"
	"github.com/stacklok/toolhive-catalog-provider/internal/service"
	"github.com/stacklok/toolhive-catalog-provider/internal/sources"
	"github.com/stacklok/toolhive-catalog-provider/internal/telemetry"
)

const (
	defaultRequestTimeout = 10 * time.Second
	defaultReadTimeout    = 10 * time.Second
	defaultWriteTimeout   = 15 * time.Second
	defaultIdleTimeout    = 60 * time.Second
)

// CatalogAppOptions is a function that configures the catalog app builder
type CatalogAppOptions func(*catalogAppConfig) error

// catalogAppConfig collects the builder inputs. Component overrides are mainly for tests.
type catalogAppConfig struct {
	config *config.Config

	storageFactory storage.Factory
	store          catalog.Store
	scheduler      scheduler.Scheduler
	listerFactory  sources.ListerFactory

	// HTTP server options
	address        string
	middlewares    []func(http.Handler) http.Handler
	requestTimeout time.Duration
	readTimeout    time.Duration
	writeTimeout   time.Duration
	idleTimeout    time.Duration

	// Auth components
	authMiddleware  func(http.Handler) http.Handler
	authInfoHandler http.Handler
	authzMiddleware func(http.Handler) http.Handler

	// Telemetry components
	meterProvider  metric.MeterProvider
	tracerProvider trace.TracerProvider
	metricsHandler http.Handler
}

func baseConfig(opts ...CatalogAppOptions) (*catalogAppConfig, error) {
	cfg := &catalogAppConfig{
		requestTimeout: defaultRequestTimeout,
		readTimeout:    defaultReadTimeout,
		writeTimeout:   defaultWriteTimeout,
		idleTimeout:    defaultIdleTimeout,
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	if cfg.config == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if cfg.address == "" {
		cfg.address = cfg.config.GetServerAddress()
	}
	if server := cfg.config.Server; server != nil {
		for _, t := range []struct {
			from *config.Duration
			to   *time.Duration
		}{
			{server.RequestTimeout, &cfg.requestTimeout},
			{server.ReadTimeout, &cfg.readTimeout},
			{server.WriteTimeout, &cfg.writeTimeout},
			{server.IdleTimeout, &cfg.idleTimeout},
		} {
			if t.from != nil && t.from.Duration > 0 {
				*t.to = t.from.Duration
			}
		}
	}

	return cfg, nil
}

// NewCatalogApp builds every component from the configuration and returns an app ready to Start
func NewCatalogApp(
	ctx context.Context,
	opts ...CatalogAppOptions,
) (*CatalogApp, error) {
	cfg, err := baseConfig(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to build base configuration: %w", err)
	}

	// The factory is the single decision point for memory, file or database storage
	if cfg.storageFactory == nil {
		cfg.storageFactory, err = storage.NewStorageFactory(ctx, cfg.config, storageOptions(cfg)...)
		if err != nil {
			return nil, fmt.Errorf("failed to create storage factory: %w", err)
		}
	}

	var cleanupNeeded = true
	defer func() {
		if cleanupNeeded {
			cfg.storageFactory.Cleanup()
		}
	}()

	if cfg.authMiddleware == nil {
		cfg.authMiddleware, cfg.authInfoHandler, err = auth.NewAuthMiddleware(ctx, cfg.config.Auth, auth.DefaultValidatorFactory)
		if err != nil {
			return nil, fmt.Errorf("failed to build auth middleware: %w", err)
		}
	}

	if cfg.authzMiddleware == nil {
		cfg.authzMiddleware, err = buildAuthzMiddleware(cfg.config.Auth)
		if err != nil {
			return nil, fmt.Errorf("failed to build authorization middleware: %w", err)
		}
	}

	components, err := buildCatalogComponents(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build catalog components: %w", err)
	}

	httpServer, err := buildHTTPServer(cfg, components.Service)
	if err != nil {
		return nil, fmt.Errorf("failed to build HTTP server: %w", err)
	}

	// Cleanup is now handled by the app
	cleanupNeeded = false

	return &CatalogApp{
		config:     cfg.config,
		components: components,
		httpServer: httpServer,
		cleanup:    cfg.storageFactory.Cleanup,
	}, nil
}

// WithConfig sets the configuration
func WithConfig(c *config.Config) CatalogAppOptions {
	return func(cfg *catalogAppConfig) error {
		cfg.config = c
		return nil
	}
}

// WithAddress sets the HTTP server address, overriding server.address from the configuration.
// The host must be empty, localhost or an IP literal.
func WithAddress(addr string) CatalogAppOptions {
	return func(cfg *catalogAppConfig) error {
		host, port, err := net.SplitHostPort(addr)
		if err != nil {
			return fmt.Errorf("invalid address %q: %w", addr, err)
		}
		if n, err := strconv.ParseUint(port, 10, 16); err != nil || (n == 0 && port != "0") {
			return fmt.Errorf("invalid address %q: bad port %q", addr, port)
		}
		if host != "" && host != "localhost" {
			if _, err := netip.ParseAddr(host); err != nil {
				return fmt.Errorf("invalid address %q: host must be an IP address: %w", addr, err)
			}
		}

		cfg.address = addr
		return nil
	}
}

// WithMiddlewares sets custom HTTP middlewares
func WithMiddlewares(mw ...func(http.Handler) http.Handler) CatalogAppOptions {
	return func(cfg *catalogAppConfig) error {
		cfg.middlewares = mw
		return nil
	}
}

// WithAuthMiddleware replaces the middleware built from the auth configuration
func WithAuthMiddleware(mw func(http.Handler) http.Handler, infoHandler http.Handler) CatalogAppOptions {
	return func(cfg *catalogAppConfig) error {
		cfg.authMiddleware = mw
		cfg.authInfoHandler = infoHandler
		return nil
	}
}

// WithStorageFactory allows injecting a custom storage factory
func WithStorageFactory(f storage.Factory) CatalogAppOptions {
	return func(cfg *catalogAppConfig) error {
		cfg.storageFactory = f
		return nil
	}
}

// WithStore replaces the store the storage factory would create
func WithStore(s catalog.Store) CatalogAppOptions {
	return func(cfg *catalogAppConfig) error {
		cfg.store = s
		return nil
	}
}

// WithScheduler allows injecting a custom scheduler. Task status is only recorded
// when the scheduler reports to a state listener itself.
func WithScheduler(s scheduler.Scheduler) CatalogAppOptions {
	return func(cfg *catalogAppConfig) error {
		cfg.scheduler = s
		return nil
	}
}

// WithListerFactory allows injecting the factory that builds container and bucket listers
func WithListerFactory(f sources.ListerFactory) CatalogAppOptions {
	return func(cfg *catalogAppConfig) error {
		cfg.listerFactory = f
		return nil
	}
}

// WithMeterProvider sets the OpenTelemetry meter provider for HTTP and refresh metrics
func WithMeterProvider(mp metric.MeterProvider) CatalogAppOptions {
	return func(cfg *catalogAppConfig) error {
		cfg.meterProvider = mp
		return nil
	}
}

// WithTracerProvider sets the OpenTelemetry tracer provider for HTTP, refresh and store spans
func WithTracerProvider(tp trace.TracerProvider) CatalogAppOptions {
	return func(cfg *catalogAppConfig) error {
		cfg.tracerProvider = tp
		return nil
	}
}

// WithMetricsHandler serves the Prometheus exposition on /metrics
func WithMetricsHandler(h http.Handler) CatalogAppOptions {
	return func(cfg *catalogAppConfig) error {
		cfg.metricsHandler = h
		return nil
	}
}

// buildAuthzMiddleware returns nil unless authorization is configured in oauth mode
func buildAuthzMiddleware(a *config.AuthConfig) (func(http.Handler) http.Handler, error) {
	if a.GetMode() != config.AuthModeOAuth || a.Authorization == nil {
		return nil, nil
	}
	authorizer, err := authz.NewCedarAuthorizerFromFile(a.Authorization.PolicyFile)
	if err != nil {
		return nil, err
	}
	slog.Info("API authorization enabled", "policy_file", a.Authorization.PolicyFile)
	return authz.Middleware(authorizer, a.Authorization.GetScopeMapping()), nil
}

func storageOptions(b *catalogAppConfig) []storage.DatabaseFactoryOption {
	if b.tracerProvider == nil {
		return nil
	}
	return []storage.DatabaseFactoryOption{storage.WithTracer(b.tracerProvider.Tracer(tracerName))}
}

// middlewareChain orders the HTTP middlewares outermost first: tracing, metrics, the
// request handling chain, then authentication and authorization
func middlewareChain(b *catalogAppConfig) ([]func(http.Handler) http.Handler, error) {
	var chain []func(http.Handler) http.Handler

	if b.tracerProvider != nil {
		chain = append(chain, telemetry.TracingMiddleware(b.tracerProvider))
		slog.Info("HTTP tracing middleware enabled")
	}
	if b.meterProvider != nil {
		metricsMiddleware, err := telemetry.MetricsMiddleware(b.meterProvider)
		if err != nil {
			return nil, fmt.Errorf("failed to create metrics middleware: %w", err)
		}
		chain = append(chain, metricsMiddleware)
		slog.Info("HTTP metrics middleware enabled")
	}

	if b.middlewares != nil {
		chain = append(chain, b.middlewares...)
	} else {
		chain = append(chain,
			middleware.RequestID,
			middleware.RealIP,
			middleware.Recoverer,
			middleware.Timeout(b.requestTimeout),
			api.LoggingMiddleware,
		)
	}

	if b.authMiddleware != nil {
		chain = append(chain, auth.WrapWithPublicPaths(b.authMiddleware, b.config.Auth.GetPublicPaths()))
	}
	if b.authzMiddleware != nil {
		chain = append(chain, b.authzMiddleware)
	}
	return chain, nil
}

// buildHTTPServer wires the catalog API router into an http.Server
func buildHTTPServer(b *catalogAppConfig, svc service.CatalogService) (*http.Server, error) {
	chain, err := middlewareChain(b)
	if err != nil {
		return nil, err
	}

	serverOpts := []api.ServerOption{
		api.WithMiddlewares(chain...),
		api.WithAuthInfoHandler(b.authInfoHandler),
	}
	if b.metricsHandler != nil {
		serverOpts = append(serverOpts, api.WithMetricsHandler(b.metricsHandler))
	}

	slog.Info("HTTP server configured",
		"address", b.address,
		"request_timeout", b.requestTimeout,
		"middlewares", len(chain))
	return &http.Server{
		Addr:              b.address,
		Handler:           api.NewServer(svc, serverOpts...),
		ReadTimeout:       b.readTimeout,
		ReadHeaderTimeout: b.readTimeout,
		WriteTimeout:      b.writeTimeout,
		IdleTimeout:       b.idleTimeout,
	}, nil
}
