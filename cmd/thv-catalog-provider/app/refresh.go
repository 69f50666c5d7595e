package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	catalogapp "github.com/stacklok/toolhive-catalog-provider/internal/app"
)

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Refresh every provider once and exit",
	Long: `Refresh every configured provider once, without the scheduler or the HTTP server.
Locations and task status are written to the configured storage. The command fails
when any provider fails, after all of them have run.`,
	RunE: runRefresh,
}

func init() {
	refreshCmd.Flags().String("config", "", "Path to configuration file (YAML format, required)")
	if err := refreshCmd.MarkFlagRequired("config"); err != nil {
		panic(err)
	}
}

func runRefresh(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return fmt.Errorf("failed to get config flag: %w", err)
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	catalogApp, err := catalogapp.NewCatalogApp(ctx, catalogapp.WithConfig(cfg))
	if err != nil {
		return fmt.Errorf("failed to build catalog provider: %w", err)
	}
	defer catalogApp.Close()

	if err := catalogApp.RefreshAll(ctx); err != nil {
		return fmt.Errorf("refresh failed: %w", err)
	}

	slog.Info("All providers refreshed")
	return nil
}
