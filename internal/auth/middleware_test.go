package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	thvauth "github.com/stacklok/toolhive/pkg/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/stacklok/toolhive-catalog-provider/internal/auth/mocks"
)

func providers(names ...string) []providerConfig {
	out := make([]providerConfig, 0, len(names))
	for _, n := range names {
		out = append(out, providerConfig{
			Name:      n,
			IssuerURL: "https://" + n + ".example.com",
			ValidatorConfig: thvauth.TokenValidatorConfig{
				Issuer:   "https://" + n + ".example.com",
				Audience: "test-audience",
			},
		})
	}
	return out
}

// factoryFor hands out the given validators in provider order
func factoryFor(validators ...TokenValidator) ValidatorFactory {
	i := 0
	return func(context.Context, thvauth.TokenValidatorConfig) (TokenValidator, error) {
		v := validators[i]
		i++
		return v, nil
	}
}

func TestNewMultiProviderMiddleware(t *testing.T) {
	t.Parallel()

	_, err := newMultiProviderMiddleware(context.Background(), nil, "", "", DefaultValidatorFactory)
	require.ErrorContains(t, err, "at least one provider must be configured")

	failing := func(context.Context, thvauth.TokenValidatorConfig) (TokenValidator, error) {
		return nil, errors.New("discovery failed")
	}
	_, err = newMultiProviderMiddleware(context.Background(), providers("okta"), "", "", failing)
	require.ErrorContains(t, err, `provider "okta"`)

	ctrl := gomock.NewController(t)
	m, err := newMultiProviderMiddleware(context.Background(), providers("okta"), "", "",
		factoryFor(mocks.NewMockTokenValidator(ctrl)))
	require.NoError(t, err)
	assert.Equal(t, defaultRealm, m.realm)
}

func TestMultiProviderMiddleware(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		authHeader string
		setupMock  func(*mocks.MockTokenValidator)
		wantStatus int
		wantCalled bool
	}{
		{
			name:       "missing authorization header",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "basic auth is rejected",
			authHeader: "Basic xyz",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "invalid token",
			authHeader: "Bearer bad",
			setupMock: func(m *mocks.MockTokenValidator) {
				m.EXPECT().ValidateToken(gomock.Any(), "bad").Return(nil, errors.New("expired"))
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "valid token",
			authHeader: "Bearer good",
			setupMock: func(m *mocks.MockTokenValidator) {
				m.EXPECT().ValidateToken(gomock.Any(), "good").Return(jwt.MapClaims{"sub": "user-1"}, nil)
			},
			wantStatus: http.StatusOK,
			wantCalled: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			validator := mocks.NewMockTokenValidator(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(validator)
			}

			m, err := newMultiProviderMiddleware(context.Background(), providers("test"), "", "", factoryFor(validator))
			require.NoError(t, err)

			var called bool
			var subject any
			handler := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
				claims, ok := ClaimsFromContext(r.Context())
				require.True(t, ok)
				subject = claims["sub"]
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodGet, "/v1/locations", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, tt.wantCalled, called)
			if tt.wantCalled {
				assert.Equal(t, "user-1", subject)
				return
			}

			assert.Contains(t, rr.Header().Get("WWW-Authenticate"), `Bearer realm="catalog-provider"`)
			var body struct {
				Error string `json:"error"`
			}
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
			assert.NotEmpty(t, body.Error)
		})
	}
}

func TestMultiProviderMiddlewareFallback(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	first := mocks.NewMockTokenValidator(ctrl)
	second := mocks.NewMockTokenValidator(ctrl)

	gomock.InOrder(
		first.EXPECT().ValidateToken(gomock.Any(), "tok").Return(nil, errors.New("wrong issuer")),
		second.EXPECT().ValidateToken(gomock.Any(), "tok").Return(jwt.MapClaims{"sub": "svc"}, nil),
	)

	m, err := newMultiProviderMiddleware(context.Background(), providers("kubernetes", "okta"), "", "",
		factoryFor(first, second))
	require.NoError(t, err)

	provider, claims, err := m.validateToken(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, "okta", provider)
	assert.Equal(t, "svc", claims["sub"])
}

func TestMultiProviderMiddlewareAllFail(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	first := mocks.NewMockTokenValidator(ctrl)
	second := mocks.NewMockTokenValidator(ctrl)
	first.EXPECT().ValidateToken(gomock.Any(), "tok").Return(nil, errors.New("wrong issuer"))
	second.EXPECT().ValidateToken(gomock.Any(), "tok").Return(nil, errors.New("bad audience"))

	m, err := newMultiProviderMiddleware(context.Background(), providers("kubernetes", "okta"), "", "",
		factoryFor(first, second))
	require.NoError(t, err)

	_, claims, err := m.validateToken(context.Background(), "tok")
	require.ErrorIs(t, err, errAllProvidersFailed)
	assert.Nil(t, claims)
	assert.Contains(t, err.Error(), "kubernetes: wrong issuer")
	assert.Contains(t, err.Error(), "okta: bad audience")
}

func TestSanitizeHeaderValue(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"plain":              "plain",
		"line\r\nbreak":      "linebreak",
		`say "hi"`:           `say \"hi\"`,
		"x\nInjected: value": "xInjected: value",
	}
	for in, want := range tests {
		assert.Equal(t, want, sanitizeHeaderValue(in), in)
	}
}

func TestMultiProviderMiddlewareWWWAuthenticate(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	m, err := newMultiProviderMiddleware(context.Background(), providers("test"),
		"https://catalog.example.com", "my\"realm", factoryFor(mocks.NewMockTokenValidator(ctrl)))
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	m.Middleware(http.NotFoundHandler()).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/providers", nil))

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t,
		`Bearer realm="my\"realm", error="invalid_request", error_description="missing or malformed authorization header", `+
			`resource_metadata="https://catalog.example.com/.well-known/oauth-protected-resource"`,
		rr.Header().Get("WWW-Authenticate"))
}
