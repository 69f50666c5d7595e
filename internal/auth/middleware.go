// Package auth provides bearer token authentication for the catalog provider API.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	thvauth "github.com/stacklok/toolhive/pkg/auth"

	"github.com/stacklok/toolhive-catalog-provider/internal/api/common"
)

var errAllProvidersFailed = errors.New("all providers failed to validate token")

// RFC 6750 Section 3 error codes
const (
	errorCodeInvalidRequest = "invalid_request"
	errorCodeInvalidToken   = "invalid_token"
)

const defaultRealm = "catalog-provider"

type claimsContextKey struct{}

// WithClaims returns a copy of ctx carrying the authenticated token claims
func WithClaims(ctx context.Context, claims jwt.MapClaims) context.Context {
	return context.WithValue(ctx, claimsContextKey{}, claims)
}

// ClaimsFromContext returns the claims of the authenticated request, if any
func ClaimsFromContext(ctx context.Context) (jwt.MapClaims, bool) {
	claims, ok := ctx.Value(claimsContextKey{}).(jwt.MapClaims)
	return claims, ok
}

// namedValidator is one configured identity provider
type namedValidator struct {
	name      string
	validator TokenValidator
}

// multiProviderMiddleware accepts a token when any configured provider validates it.
// Providers are tried in configuration order.
type multiProviderMiddleware struct {
	validators  []namedValidator
	resourceURL string
	realm       string
}

func newMultiProviderMiddleware(
	ctx context.Context,
	providers []providerConfig,
	resourceURL string,
	realm string,
	factory ValidatorFactory,
) (*multiProviderMiddleware, error) {
	if len(providers) == 0 {
		return nil, errors.New("at least one provider must be configured")
	}
	if realm == "" {
		realm = defaultRealm
	}

	validators := make([]namedValidator, 0, len(providers))
	for _, pc := range providers {
		v, err := factory(ctx, pc.ValidatorConfig)
		if err != nil {
			return nil, fmt.Errorf("failed to create validator for provider %q: %w", pc.Name, err)
		}
		validators = append(validators, namedValidator{name: pc.Name, validator: v})
	}

	return &multiProviderMiddleware{validators: validators, resourceURL: resourceURL, realm: realm}, nil
}

// Middleware rejects catalog API requests without a valid bearer token and stores the
// claims of accepted tokens in the request context
func (m *multiProviderMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := slog.With("remote_addr", r.RemoteAddr, "path", r.URL.Path)

		token, err := thvauth.ExtractBearerToken(r)
		if err != nil {
			logger.Warn("Rejected request without bearer token", "error", err)
			m.reject(w, errorCodeInvalidRequest, "missing or malformed authorization header")
			return
		}

		provider, claims, err := m.validateToken(r.Context(), token)
		if err != nil {
			logger.Warn("Rejected bearer token", "error", err)
			m.reject(w, errorCodeInvalidToken, "token validation failed")
			return
		}

		logger.Debug("Authenticated request", "provider", provider, "subject", claims["sub"])
		next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
	})
}

// validateToken returns the first provider accepting token, or every provider's error
func (m *multiProviderMiddleware) validateToken(ctx context.Context, token string) (string, jwt.MapClaims, error) {
	errs := []error{errAllProvidersFailed}
	for _, nv := range m.validators {
		claims, err := nv.validator.ValidateToken(ctx, token)
		if err == nil {
			return nv.name, claims, nil
		}
		errs = append(errs, fmt.Errorf("%s: %w", nv.name, err))
	}
	return "", nil, errors.Join(errs...)
}

// sanitizeHeaderValue strips CR and LF and escapes quotes for use in a quoted-string
func sanitizeHeaderValue(s string) string {
	if !strings.ContainsAny(s, "\r\n\"") {
		return s
	}
	return strings.NewReplacer("\r", "", "\n", "", `"`, `\"`).Replace(s)
}

// bearerChallenge builds the RFC 6750 WWW-Authenticate value. The resource metadata
// parameter points clients at the protected resource document.
func bearerChallenge(realm, resourceURL, errCode, description string) string {
	var b strings.Builder
	fmt.Fprintf(&b, `Bearer realm="%s", error="%s", error_description="%s"`,
		sanitizeHeaderValue(realm), errCode, sanitizeHeaderValue(description))
	if resourceURL != "" {
		fmt.Fprintf(&b, `, resource_metadata="%s%s"`, sanitizeHeaderValue(resourceURL), WellKnownPath)
	}
	return b.String()
}

func (m *multiProviderMiddleware) reject(w http.ResponseWriter, errCode, description string) {
	w.Header().Set("WWW-Authenticate", bearerChallenge(m.realm, m.resourceURL, errCode, description))
	common.WriteErrorResponse(w, description, http.StatusUnauthorized)
}
