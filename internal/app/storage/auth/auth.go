// Package auth supplies database passwords that are minted per connection instead of configured.
package auth

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/stacklok/toolhive-catalog-provider/internal/app/storage/auth/aws"
	"github.com/stacklok/toolhive-catalog-provider/internal/config"
)

var (
	errNoDatabaseConfig = errors.New("database configuration is required")
	errNoAuthMethod     = errors.New("dynamic auth is configured but no supported auth method (e.g., awsRdsIam) is specified")
)

// tokenSource picks the configured dynamic auth method
func tokenSource(ctx context.Context, cfg *config.DatabaseConfig) (*aws.TokenSource, error) {
	if cfg.DynamicAuth.AWSRDSIAM != nil {
		return aws.NewTokenSource(ctx, cfg)
	}
	return nil, errNoAuthMethod
}

// ResolveAuthToken mints one token for user, or returns "" when dynamic auth is off.
// Migrations use it because golang-migrate opens its own connection without hooks.
func ResolveAuthToken(ctx context.Context, cfg *config.DatabaseConfig, user string) (string, error) {
	if cfg == nil {
		return "", errNoDatabaseConfig
	}
	if cfg.DynamicAuth == nil {
		return "", nil
	}

	source, err := tokenSource(ctx, cfg)
	if err != nil {
		return "", err
	}
	return source.Token(ctx, user)
}

// NewDynamicAuth returns a pgx BeforeConnect hook giving each new pool connection a fresh token
func NewDynamicAuth(
	ctx context.Context, cfg *config.DatabaseConfig, user string,
) (func(context.Context, *pgx.ConnConfig) error, error) {
	if cfg == nil {
		return nil, errNoDatabaseConfig
	}
	if cfg.DynamicAuth == nil {
		return nil, errors.New("dynamic authentication is not configured")
	}

	source, err := tokenSource(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return source.BeforeConnect(user), nil
}
