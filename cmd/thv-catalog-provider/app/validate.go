package app

import (
	"fmt"

	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a configuration file",
	Long: `Parse and validate a configuration file without contacting any storage service.
Schedules, storage settings and provider instances are checked.`,
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().String("config", "", "Path to configuration file (YAML format, required)")
	if err := validateCmd.MarkFlagRequired("config"); err != nil {
		panic(err)
	}
}

func runValidate(cmd *cobra.Command, _ []string) error {
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return fmt.Errorf("failed to get config flag: %w", err)
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(cmd.OutOrStdout(),
		"Configuration is valid: %d Azure Blob Storage provider(s), %d S3 provider(s), %s storage\n",
		len(cfg.AzureBlobProviderIDs()), len(cfg.AwsS3ProviderIDs()), cfg.GetStorageType())
	return err
}
