package authz

import (
	"net/http"
	"strings"

	"github.com/stacklok/toolhive-catalog-provider/internal/config"
)

const providersPrefix = "/v1/providers/"

// RouteAction returns the action a request needs. Reads are GET and HEAD, everything else
// is a refresh.
func RouteAction(method, _ string) string {
	if method == http.MethodGet || method == http.MethodHead {
		return config.ActionRead
	}
	return config.ActionRefresh
}

// providerFromPath extracts the provider name from /v1/providers/{name}/...
func providerFromPath(path string) string {
	rest, ok := strings.CutPrefix(path, providersPrefix)
	if !ok {
		return ""
	}
	name, _, _ := strings.Cut(rest, "/")
	return name
}
