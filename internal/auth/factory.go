package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	thvauth "github.com/stacklok/toolhive/pkg/auth"

	"github.com/stacklok/toolhive-catalog-provider/internal/config"
)

// NewAuthMiddleware creates the authentication middleware for cfg. In oauth mode it also
// returns the protected resource metadata handler, which is nil when no resource URL is set.
func NewAuthMiddleware(
	ctx context.Context,
	cfg *config.AuthConfig,
	factory ValidatorFactory,
) (func(http.Handler) http.Handler, http.Handler, error) {
	switch cfg.GetMode() {
	case config.AuthModeAnonymous:
		slog.Info("API authentication disabled, serving anonymously")
		return anonymousMiddleware, nil, nil
	case config.AuthModeOAuth:
		return createOAuthMiddleware(ctx, cfg, factory)
	default:
		return nil, nil, fmt.Errorf("unsupported auth mode: %s", cfg.Mode)
	}
}

func createOAuthMiddleware(
	ctx context.Context,
	cfg *config.AuthConfig,
	factory ValidatorFactory,
) (func(http.Handler) http.Handler, http.Handler, error) {
	oauth := cfg.OAuth
	if oauth == nil {
		return nil, nil, errors.New("oauth configuration is required for oauth mode")
	}
	if factory == nil {
		factory = DefaultValidatorFactory
	}

	providers, err := issuerProviders(oauth.Providers)
	if err != nil {
		return nil, nil, err
	}

	m, err := newMultiProviderMiddleware(ctx, providers, oauth.ResourceURL, oauth.Realm, factory)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create multi-provider middleware: %w", err)
	}

	slog.Info("API authentication enabled", "mode", config.AuthModeOAuth, "providers", len(providers))
	if oauth.ResourceURL == "" {
		return m.Middleware, nil, nil
	}

	issuers := make([]string, 0, len(providers))
	for _, p := range providers {
		issuers = append(issuers, p.IssuerURL)
	}
	metadata, err := newProtectedResourceHandler(oauth.ResourceURL, issuers, oauth.ScopesSupported)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create protected resource handler: %w", err)
	}
	return m.Middleware, metadata, nil
}

// issuerProviders reads client secrets and builds one validator config per issuer
func issuerProviders(entries []config.OAuthProviderConfig) ([]providerConfig, error) {
	providers := make([]providerConfig, 0, len(entries))
	for _, p := range entries {
		secret, err := p.GetClientSecret()
		if err != nil {
			return nil, fmt.Errorf("failed to read client secret for provider %q: %w", p.Name, err)
		}
		providers = append(providers, providerConfig{
			Name:      p.Name,
			IssuerURL: p.IssuerURL,
			ValidatorConfig: thvauth.TokenValidatorConfig{
				Issuer:       p.IssuerURL,
				Audience:     p.Audience,
				ClientID:     p.ClientID,
				ClientSecret: secret,
				CACertPath:   p.CACertPath,
			},
		})
	}
	return providers, nil
}

// anonymousMiddleware passes requests through unchanged
func anonymousMiddleware(next http.Handler) http.Handler {
	return next
}
