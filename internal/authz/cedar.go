package authz

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	cedar "github.com/cedar-policy/cedar-go"
)

const (
	cedarNamespace = "ToolHive::Catalog"

	// globalResource names the catalog itself for routes that address no provider
	globalResource = "global"
)

// CedarAuthorizer evaluates requests against a Cedar policy set
type CedarAuthorizer struct {
	policySet *cedar.PolicySet
}

var _ Authorizer = (*CedarAuthorizer)(nil)

// NewCedarAuthorizer parses policyBytes, or the built-in policies when it is nil
func NewCedarAuthorizer(policyBytes []byte) (*CedarAuthorizer, error) {
	if policyBytes == nil {
		policyBytes = []byte(defaultPolicies)
	}

	ps, err := cedar.NewPolicySetFromBytes("policies.cedar", policyBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Cedar policies: %w", err)
	}

	return &CedarAuthorizer{policySet: ps}, nil
}

// NewCedarAuthorizerFromFile loads policies from path, or the built-in policies when path is empty
func NewCedarAuthorizerFromFile(path string) (*CedarAuthorizer, error) {
	if path == "" {
		return NewCedarAuthorizer(nil)
	}
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read policy file: %w", err)
	}
	return NewCedarAuthorizer(data)
}

// Authorize evaluates the policy set for an authenticated principal holding req.GrantedActions
func (a *CedarAuthorizer) Authorize(_ context.Context, req Request) (Decision, error) {
	principalUID := cedar.NewEntityUID(cedar.EntityType(cedarNamespace+"::User"), cedar.String("authenticated"))

	actionValues := make([]cedar.Value, len(req.GrantedActions))
	for i, action := range req.GrantedActions {
		actionValues[i] = cedar.String(action)
	}

	entities := cedar.EntityMap{
		principalUID: cedar.Entity{
			UID: principalUID,
			Attributes: cedar.NewRecord(cedar.RecordMap{
				"grantedActions": cedar.NewSet(actionValues...),
			}),
		},
	}

	resourceID := req.ProviderName
	if resourceID == "" {
		resourceID = globalResource
	}

	cedarReq := cedar.Request{
		Principal: principalUID,
		Action:    cedar.NewEntityUID(cedar.EntityType(cedarNamespace+"::Action"), cedar.String(req.Action)),
		Resource:  cedar.NewEntityUID(cedar.EntityType(cedarNamespace+"::Provider"), cedar.String(resourceID)),
		Context:   cedar.NewRecord(cedar.RecordMap{}),
	}

	decision, diagnostic := cedar.Authorize(a.policySet, entities, cedarReq)

	slog.Debug("Authorization decision",
		"action", req.Action,
		"decision", decision,
		"granted_actions", req.GrantedActions,
		"provider", resourceID,
	)

	reasons := make([]string, 0, len(diagnostic.Reasons))
	for _, r := range diagnostic.Reasons {
		reasons = append(reasons, string(r.PolicyID))
	}

	return Decision{
		Allowed: decision == cedar.Allow,
		Reasons: reasons,
	}, nil
}
