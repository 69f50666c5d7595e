package auth

import (
	"net/http"
	"path"
	"strings"

	"github.com/stacklok/toolhive/pkg/auth"
)

// providerConfig is one issuer the middleware accepts tokens from
type providerConfig struct {
	Name            string
	IssuerURL       string
	ValidatorConfig auth.TokenValidatorConfig
}

// normalizePath cleans p and roots it at "/"
func normalizePath(p string) string {
	return path.Clean("/" + p)
}

// IsPublicPath reports whether requestPath skips authentication. Matching is per
// path segment after cleaning, so /health covers /health/live but not /healthcheck,
// and /health/../v1/locations is not public. Encoded separators and dots never match.
func IsPublicPath(requestPath string, publicPaths []string) bool {
	lower := strings.ToLower(requestPath)
	if strings.Contains(lower, "%2f") || strings.Contains(lower, "%2e") {
		return false
	}

	cleaned := normalizePath(requestPath)
	for _, public := range publicPaths {
		if public == "" {
			continue
		}
		prefix := normalizePath(public)
		if prefix == "/" || cleaned == prefix || strings.HasPrefix(cleaned, prefix+"/") {
			return true
		}
	}
	return false
}

// WrapWithPublicPaths wraps an auth middleware so that requests to public paths skip it
func WrapWithPublicPaths(authMw func(http.Handler) http.Handler, publicPaths []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		protected := authMw(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if IsPublicPath(r.URL.Path, publicPaths) {
				next.ServeHTTP(w, r)
				return
			}
			protected.ServeHTTP(w, r)
		})
	}
}
