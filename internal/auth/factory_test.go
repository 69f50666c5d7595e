package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	thvauth "github.com/stacklok/toolhive/pkg/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/stacklok/toolhive-catalog-provider/internal/auth/mocks"
	"github.com/stacklok/toolhive-catalog-provider/internal/config"
)

func oauthConfig(resourceURL string, providers ...config.OAuthProviderConfig) *config.AuthConfig {
	return &config.AuthConfig{
		Mode:  config.AuthModeOAuth,
		OAuth: &config.OAuthConfig{ResourceURL: resourceURL, Providers: providers},
	}
}

func testProvider() config.OAuthProviderConfig {
	return config.OAuthProviderConfig{
		Name:      "test-provider",
		IssuerURL: "https://issuer.example.com",
		Audience:  "test-audience",
	}
}

func TestNewAuthMiddleware(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	mockFactory := func(_ context.Context, _ thvauth.TokenValidatorConfig) (TokenValidator, error) {
		return mocks.NewMockTokenValidator(ctrl), nil
	}

	tests := []struct {
		name        string
		config      *config.AuthConfig
		wantErr     string
		wantHandler bool
	}{
		{
			name:   "nil config is anonymous",
			config: nil,
		},
		{
			name:   "empty mode is anonymous",
			config: &config.AuthConfig{},
		},
		{
			name:   "explicit anonymous mode",
			config: &config.AuthConfig{Mode: config.AuthModeAnonymous},
		},
		{
			name:    "unsupported mode",
			config:  &config.AuthConfig{Mode: "custom"},
			wantErr: "unsupported auth mode",
		},
		{
			name:    "oauth without oauth section",
			config:  &config.AuthConfig{Mode: config.AuthModeOAuth},
			wantErr: "oauth configuration is required",
		},
		{
			name:    "oauth without providers",
			config:  oauthConfig("https://catalog.example.com"),
			wantErr: "at least one provider",
		},
		{
			name:        "oauth with resource url",
			config:      oauthConfig("https://catalog.example.com", testProvider()),
			wantHandler: true,
		},
		{
			name:   "oauth without resource url has no metadata handler",
			config: oauthConfig("", testProvider()),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mw, handler, err := NewAuthMiddleware(context.Background(), tt.config, mockFactory)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.NotNil(t, mw)
			if tt.wantHandler {
				assert.NotNil(t, handler)
			} else {
				assert.Nil(t, handler)
			}
		})
	}
}

func TestNewAuthMiddlewareClientSecretFile(t *testing.T) {
	t.Parallel()

	t.Run("reads client secret from file", func(t *testing.T) {
		t.Parallel()

		ctrl := gomock.NewController(t)
		var captured thvauth.TokenValidatorConfig
		factory := func(_ context.Context, cfg thvauth.TokenValidatorConfig) (TokenValidator, error) {
			captured = cfg
			return mocks.NewMockTokenValidator(ctrl), nil
		}

		secretFile := filepath.Join(t.TempDir(), "secret.txt")
		require.NoError(t, os.WriteFile(secretFile, []byte("my-test-secret\n"), 0600))

		p := testProvider()
		p.ClientID = "catalog"
		p.ClientSecretFile = secretFile

		_, _, err := NewAuthMiddleware(context.Background(), oauthConfig("https://catalog.example.com", p), factory)
		require.NoError(t, err)
		assert.Equal(t, "my-test-secret", captured.ClientSecret)
		assert.Equal(t, "catalog", captured.ClientID)
		assert.Equal(t, "https://issuer.example.com", captured.Issuer)
		assert.Equal(t, "test-audience", captured.Audience)
	})

	t.Run("missing secret file", func(t *testing.T) {
		t.Parallel()

		p := testProvider()
		p.ClientSecretFile = "/nonexistent/secret.txt"

		_, _, err := NewAuthMiddleware(context.Background(), oauthConfig("", p), DefaultValidatorFactory)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read client secret")
		assert.Contains(t, err.Error(), "test-provider")
	})
}

func TestAnonymousMiddleware(t *testing.T) {
	t.Parallel()

	called := false
	handler := anonymousMiddleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/locations", nil))

	assert.True(t, called)
	assert.Equal(t, http.StatusOK, rr.Code)
}
