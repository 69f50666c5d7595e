package authz

import (
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/stacklok/toolhive-catalog-provider/internal/api/common"
	"github.com/stacklok/toolhive-catalog-provider/internal/auth"
	"github.com/stacklok/toolhive-catalog-provider/internal/config"
)

// ForbiddenResponse is the JSON body returned when authorization is denied
type ForbiddenResponse struct {
	Error   string           `json:"error"`
	Message string           `json:"message"`
	Details *ForbiddenDetail `json:"details,omitempty"`
}

// ForbiddenDetail tells the caller which action was required and which scopes grant it
type ForbiddenDetail struct {
	RequiredAction string   `json:"required_action"`
	UserScopes     []string `json:"user_scopes"`
	Hint           string   `json:"hint"`
}

// Middleware authorizes requests that carry token claims. Requests without claims
// arrived on a public path or in anonymous mode and pass through unchecked.
func Middleware(authorizer Authorizer, scopeMapping []config.ScopeMappingEntry) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := auth.ClaimsFromContext(r.Context())
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			scopes := ExtractScopes(claims)
			req := Request{
				GrantedActions: MapScopesToActions(scopes, scopeMapping),
				Action:         RouteAction(r.Method, r.URL.Path),
				ProviderName:   providerFromPath(r.URL.Path),
			}
			logger := slog.With("action", req.Action, "method", r.Method, "path", r.URL.Path)

			decision, err := authorizer.Authorize(r.Context(), req)
			switch {
			case err != nil:
				logger.Error("Authorization evaluation failed", "error", err)
				common.WriteErrorResponse(w, "authorization evaluation failed", http.StatusInternalServerError)
			case !decision.Allowed:
				logger.Warn("Authorization denied", "subject", claims["sub"], "scopes", scopes)
				common.WriteJSONResponse(w, forbidden(req.Action, scopes, scopeMapping), http.StatusForbidden)
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}

func forbidden(action string, scopes []string, scopeMapping []config.ScopeMappingEntry) ForbiddenResponse {
	if scopes == nil {
		scopes = []string{}
	}
	return ForbiddenResponse{
		Error:   "forbidden",
		Message: "You do not have permission to perform this action.",
		Details: &ForbiddenDetail{
			RequiredAction: action,
			UserScopes:     scopes,
			Hint:           buildHint(action, scopeMapping),
		},
	}
}

// buildHint lists the scopes that grant action
func buildHint(action string, scopeMapping []config.ScopeMappingEntry) string {
	var granting []string
	for _, entry := range scopeMapping {
		if slices.Contains(entry.Actions, action) {
			granting = append(granting, entry.Scope)
		}
	}
	if len(granting) == 0 {
		return "No configured scopes grant the required action."
	}
	return "This operation requires one of the following scopes: " + strings.Join(granting, ", ")
}
