package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

const (
	// AuthModeAnonymous serves every route without authentication
	AuthModeAnonymous = "anonymous"

	// AuthModeOAuth requires a bearer token validated by one of the configured OIDC providers
	AuthModeOAuth = "oauth"
)

// DefaultScopes are advertised in the protected resource metadata when none are configured
var DefaultScopes = []string{"catalog:read"}

// DefaultPublicPaths bypass authentication in oauth mode
var DefaultPublicPaths = []string{"/health", "/readiness", "/version", "/metrics", "/.well-known"}

// Authorization actions granted through scope mapping
const (
	ActionRead    = "read"
	ActionRefresh = "refresh"
)

// DefaultScopeMapping grants read to catalog:read and read plus refresh to catalog:refresh
var DefaultScopeMapping = []ScopeMappingEntry{
	{Scope: "catalog:read", Actions: []string{ActionRead}},
	{Scope: "catalog:refresh", Actions: []string{ActionRead, ActionRefresh}},
}

// AuthConfig configures authentication for the HTTP API
type AuthConfig struct {
	Mode  string       `yaml:"mode,omitempty"`
	OAuth *OAuthConfig `yaml:"oauth,omitempty"`

	// Authorization enables scope based Cedar policies in oauth mode
	Authorization *AuthorizationConfig `yaml:"authorization,omitempty"`

	// PublicPaths are added to DefaultPublicPaths
	PublicPaths []string `yaml:"publicPaths,omitempty"`
}

// OAuthConfig lists the token issuers accepted by the API
type OAuthConfig struct {
	// ResourceURL identifies this server in RFC 9728 metadata and WWW-Authenticate headers
	ResourceURL     string                `yaml:"resourceUrl,omitempty"`
	Realm           string                `yaml:"realm,omitempty"`
	ScopesSupported []string              `yaml:"scopesSupported,omitempty"`
	Providers       []OAuthProviderConfig `yaml:"providers"`
}

// OAuthProviderConfig configures one OIDC issuer
type OAuthProviderConfig struct {
	Name      string `yaml:"name"`
	IssuerURL string `yaml:"issuerUrl"`
	Audience  string `yaml:"audience"`
	ClientID  string `yaml:"clientId,omitempty"`

	// ClientSecretFile holds the secret used for token introspection
	ClientSecretFile string `yaml:"clientSecretFile,omitempty"`
	CACertPath       string `yaml:"caCertPath,omitempty"`
}

// AuthorizationConfig maps token scopes to actions evaluated by Cedar policies
type AuthorizationConfig struct {
	// PolicyFile replaces the built-in policies
	PolicyFile   string              `yaml:"policyFile,omitempty"`
	ScopeMapping []ScopeMappingEntry `yaml:"scopeMapping,omitempty"`
}

// ScopeMappingEntry grants actions to tokens carrying Scope
type ScopeMappingEntry struct {
	Scope   string   `yaml:"scope"`
	Actions []string `yaml:"actions"`
}

// GetScopeMapping returns the configured mapping or DefaultScopeMapping
func (a *AuthorizationConfig) GetScopeMapping() []ScopeMappingEntry {
	if a == nil || len(a.ScopeMapping) == 0 {
		return DefaultScopeMapping
	}
	return a.ScopeMapping
}

// GetMode returns the configured auth mode, defaulting to anonymous
func (a *AuthConfig) GetMode() string {
	if a == nil || a.Mode == "" {
		return AuthModeAnonymous
	}
	return a.Mode
}

// GetPublicPaths returns the default public paths followed by the configured ones
func (a *AuthConfig) GetPublicPaths() []string {
	paths := append([]string{}, DefaultPublicPaths...)
	if a != nil {
		paths = append(paths, a.PublicPaths...)
	}
	return paths
}

// GetClientSecret reads the client secret file, trimming surrounding whitespace
func (p *OAuthProviderConfig) GetClientSecret() (string, error) {
	if p.ClientSecretFile == "" {
		return "", nil
	}
	data, err := os.ReadFile(filepath.Clean(p.ClientSecretFile))
	if err != nil {
		return "", fmt.Errorf("failed to read client secret file: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// Validate checks the auth section. A nil config means anonymous mode.
func (a *AuthConfig) Validate() error {
	if a == nil {
		return nil
	}

	switch a.GetMode() {
	case AuthModeAnonymous:
		return nil
	case AuthModeOAuth:
	default:
		return fmt.Errorf("auth.mode must be %q or %q, got %q", AuthModeAnonymous, AuthModeOAuth, a.Mode)
	}

	if a.OAuth == nil {
		return errors.New("auth.oauth is required when mode is oauth")
	}
	if len(a.OAuth.Providers) == 0 {
		return errors.New("auth.oauth.providers must contain at least one provider")
	}

	var errs []error
	if a.Authorization != nil {
		for i, e := range a.Authorization.ScopeMapping {
			if e.Scope == "" {
				errs = append(errs, fmt.Errorf("auth.authorization.scopeMapping[%d]: scope is required", i))
			}
			for _, action := range e.Actions {
				if action != ActionRead && action != ActionRefresh {
					errs = append(errs, fmt.Errorf("auth.authorization.scopeMapping[%d]: unknown action %q", i, action))
				}
			}
		}
	}
	for i, p := range a.OAuth.Providers {
		prefix := fmt.Sprintf("auth.oauth.providers[%d]", i)
		if p.Name == "" {
			errs = append(errs, fmt.Errorf("%s: name is required", prefix))
		}
		if p.IssuerURL == "" {
			errs = append(errs, fmt.Errorf("%s: issuerUrl is required", prefix))
		} else if err := validateIssuerURL(p.IssuerURL); err != nil {
			errs = append(errs, fmt.Errorf("%s: issuerUrl %w", prefix, err))
		}
		if p.Audience == "" {
			errs = append(errs, fmt.Errorf("%s: audience is required", prefix))
		}
	}
	return errors.Join(errs...)
}

// validateIssuerURL requires HTTPS except for loopback development issuers
func validateIssuerURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return errors.New("must be an absolute URL with host")
	}
	if u.Scheme == "https" {
		return nil
	}
	if u.Scheme == "http" && isLoopback(u.Hostname()) {
		return nil
	}
	return errors.New("must use HTTPS")
}

func isLoopback(host string) bool {
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
