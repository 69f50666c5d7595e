package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	catalogapp "github.com/stacklok/toolhive-catalog-provider/internal/app"
	"github.com/stacklok/toolhive-catalog-provider/internal/config"
	"github.com/stacklok/toolhive-catalog-provider/internal/telemetry"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the catalog provider",
	Long: `Start the catalog provider: schedule every configured provider and serve the HTTP API.

The server requires a configuration file (--config) that specifies:
- Azure Blob Storage and S3 integrations (accounts, credentials)
- Provider instances with their containers, prefixes and schedules
- Storage for the emitted locations (memory, file or database)

See examples/ directory for sample configurations.`,
	RunE: runServe,
}

const (
	defaultGracefulTimeout = 30 * time.Second // Kubernetes-friendly shutdown time
	telemetryFlushTimeout  = 5 * time.Second
)

func init() {
	serveCmd.Flags().String("address", "", "Address to listen on (overrides server.address)")
	serveCmd.Flags().String("config", "", "Path to configuration file (YAML format, required)")

	if err := viper.BindPFlag("address", serveCmd.Flags().Lookup("address")); err != nil {
		slog.Error("Failed to bind address flag", "error", err)
	}
	if err := viper.BindPFlag("config", serveCmd.Flags().Lookup("config")); err != nil {
		slog.Error("Failed to bind config flag", "error", err)
	}
}

func runServe(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	configPath := viper.GetString("config")
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	slog.Info("Loaded configuration",
		"path", configPath,
		"azure_blob_providers", len(cfg.AzureBlobProviderIDs()),
		"aws_s3_providers", len(cfg.AwsS3ProviderIDs()),
		"storage", cfg.GetStorageType())

	tel, err := telemetry.New(ctx, cfg.Telemetry)
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), telemetryFlushTimeout)
		defer cancel()
		if err := tel.Shutdown(flushCtx); err != nil {
			slog.Error("Failed to shut down telemetry", "error", err)
		}
	}()

	opts := append([]catalogapp.CatalogAppOptions{catalogapp.WithConfig(cfg)}, telemetryOptions(cfg, tel)...)
	if address := viper.GetString("address"); address != "" {
		opts = append(opts, catalogapp.WithAddress(address))
	}

	catalogApp, err := catalogapp.NewCatalogApp(ctx, opts...)
	if err != nil {
		return fmt.Errorf("failed to build catalog provider: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- catalogApp.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		catalogApp.Close()
		return err
	case sig := <-quit:
		slog.Info("Received signal", "signal", sig.String())
	}

	return catalogApp.Stop(defaultGracefulTimeout)
}

// telemetryOptions wires the providers into the app only when telemetry is enabled
func telemetryOptions(cfg *config.Config, tel *telemetry.Telemetry) []catalogapp.CatalogAppOptions {
	if cfg.Telemetry == nil || !cfg.Telemetry.Enabled {
		return nil
	}

	opts := []catalogapp.CatalogAppOptions{
		catalogapp.WithTracerProvider(tel.TracerProvider()),
		catalogapp.WithMeterProvider(tel.MeterProvider()),
	}
	if handler := tel.MetricsHandler(); handler != nil {
		opts = append(opts, catalogapp.WithMetricsHandler(handler))
	}
	return opts
}
