package auth

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	thvauth "github.com/stacklok/toolhive/pkg/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAudience = "catalog-audience"

// testIssuer serves OIDC discovery and a JWKS for one RSA key
type testIssuer struct {
	*httptest.Server
	key   *rsa.PrivateKey
	keyID string
}

func newTestIssuer(t *testing.T) *testIssuer {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	ti := &testIssuer{key: key, keyID: "test-key-1"}

	mux := http.NewServeMux()
	mux.HandleFunc("/.well-known/openid-configuration", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"issuer":                 ti.URL,
			"jwks_uri":               ti.URL + "/.well-known/jwks.json",
			"authorization_endpoint": ti.URL + "/authorize",
			"token_endpoint":         ti.URL + "/token",
		})
	})
	mux.HandleFunc("/.well-known/jwks.json", func(w http.ResponseWriter, _ *http.Request) {
		pub := ti.key.PublicKey
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"keys": []map[string]any{{
				"kty": "RSA",
				"kid": ti.keyID,
				"use": "sig",
				"alg": "RS256",
				"n":   base64.RawURLEncoding.EncodeToString(pub.N.Bytes()),
				"e":   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(pub.E)).Bytes()),
			}},
		})
	})

	ti.Server = httptest.NewServer(mux)
	t.Cleanup(ti.Close)
	return ti
}

func (ti *testIssuer) token(t *testing.T, audience string, expiresIn time.Duration) string {
	t.Helper()

	tok := jwt.NewWithClaims(jwt.SigningMethodRS256, jwt.MapClaims{
		"iss": ti.URL,
		"sub": "user-123",
		"aud": audience,
		"exp": time.Now().Add(expiresIn).Unix(),
		"iat": time.Now().Add(-time.Minute).Unix(),
	})
	tok.Header["kid"] = ti.keyID
	signed, err := tok.SignedString(ti.key)
	require.NoError(t, err)
	return signed
}

func issuerMiddleware(t *testing.T, issuers ...*testIssuer) *multiProviderMiddleware {
	t.Helper()

	pcs := make([]providerConfig, 0, len(issuers))
	for i, ti := range issuers {
		pcs = append(pcs, providerConfig{
			Name:      string(rune('a' + i)),
			IssuerURL: ti.URL,
			ValidatorConfig: thvauth.TokenValidatorConfig{
				Issuer:            ti.URL,
				Audience:          testAudience,
				InsecureAllowHTTP: true,
				AllowPrivateIP:    true,
			},
		})
	}

	m, err := newMultiProviderMiddleware(context.Background(), pcs, "", "", DefaultValidatorFactory)
	require.NoError(t, err)
	return m
}

func TestIntegrationAuthMiddleware(t *testing.T) {
	t.Parallel()

	issuer := newTestIssuer(t)
	other := newTestIssuer(t)
	m := issuerMiddleware(t, issuer)

	handler := WrapWithPublicPaths(m.Middleware, []string{"/health"})(
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

	tests := []struct {
		name       string
		path       string
		token      string
		wantStatus int
	}{
		{name: "public path without token", path: "/health", wantStatus: http.StatusOK},
		{name: "protected path without token", path: "/v1/locations", wantStatus: http.StatusUnauthorized},
		{name: "valid token", path: "/v1/locations", token: issuer.token(t, testAudience, time.Hour), wantStatus: http.StatusOK},
		{name: "expired token", path: "/v1/locations", token: issuer.token(t, testAudience, -time.Hour), wantStatus: http.StatusUnauthorized},
		{name: "wrong audience", path: "/v1/locations", token: issuer.token(t, "someone-else", time.Hour), wantStatus: http.StatusUnauthorized},
		{name: "unknown issuer", path: "/v1/providers", token: other.token(t, testAudience, time.Hour), wantStatus: http.StatusUnauthorized},
		{name: "garbage token", path: "/v1/providers", token: "not-a-jwt", wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)
			assert.Equal(t, tt.wantStatus, rr.Code)
		})
	}
}

func TestIntegrationMultiProviderFallback(t *testing.T) {
	t.Parallel()

	first := newTestIssuer(t)
	second := newTestIssuer(t)
	m := issuerMiddleware(t, first, second)

	provider, claims, err := m.validateToken(context.Background(), second.token(t, testAudience, time.Hour))
	require.NoError(t, err)
	assert.Equal(t, "b", provider)
	assert.Equal(t, "user-123", claims["sub"])
}
