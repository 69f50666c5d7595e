package authz

import (
	"slices"
	"strings"

	"github.com/stacklok/toolhive-catalog-provider/internal/config"
)

// ExtractScopes reads the space separated "scope" claim (RFC 6749) or, failing that,
// the "scp" array claim used by Azure AD and Auth0
func ExtractScopes(claims map[string]any) []string {
	if s, ok := claims["scope"].(string); ok && s != "" {
		return strings.Fields(s)
	}

	switch scp := claims["scp"].(type) {
	case []string:
		return slices.Clone(scp)
	case []any:
		scopes := make([]string, 0, len(scp))
		for _, v := range scp {
			if s, ok := v.(string); ok {
				scopes = append(scopes, s)
			}
		}
		return scopes
	case string:
		return strings.Fields(scp)
	}
	return nil
}

// MapScopesToActions returns the sorted, de-duplicated actions granted by scopes
func MapScopesToActions(scopes []string, mapping []config.ScopeMappingEntry) []string {
	var actions []string
	for _, entry := range mapping {
		if slices.Contains(scopes, entry.Scope) {
			actions = append(actions, entry.Actions...)
		}
	}
	slices.Sort(actions)
	return slices.Compact(actions)
}
