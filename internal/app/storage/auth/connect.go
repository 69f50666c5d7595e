package auth

import (
	"context"
	"fmt"

	"github.com/stacklok/toolhive-catalog-provider/internal/config"
)

// MigrationConnectionString builds a connection string for running migrations.
// A dynamic auth token, when configured, is embedded as the password because
// golang-migrate opens its own connection.
//
// Without dynamic auth the configured password is used when one is available,
// otherwise the string carries no password and pgpass style fallbacks apply.
func MigrationConnectionString(ctx context.Context, cfg *config.DatabaseConfig) (string, error) {
	if cfg == nil {
		return "", fmt.Errorf("database configuration is required")
	}

	user := cfg.GetMigrationUser()

	token, err := ResolveAuthToken(ctx, cfg, user)
	if err != nil {
		return "", fmt.Errorf("failed to resolve auth token for migration user: %w", err)
	}

	if token == "" && cfg.DynamicAuth == nil && user == cfg.User {
		if password, err := cfg.GetPassword(); err == nil {
			token = password
		}
	}

	return cfg.BuildConnectionStringWithAuth(user, token), nil
}
