// Package authz provides Cedar-based authorization for the catalog provider API.
package authz

import "context"

//go:generate mockgen -destination=mocks/mock_authorizer.go -package=mocks -source=authorizer.go Authorizer

// Authorizer evaluates authorization decisions
type Authorizer interface {
	Authorize(ctx context.Context, req Request) (Decision, error)
}

// Request represents an authorization request
type Request struct {
	// GrantedActions are the actions granted to the caller through scope mapping
	GrantedActions []string

	// Action is the required action, read or refresh
	Action string

	// ProviderName is the entity provider addressed by the route, empty for catalog wide routes
	ProviderName string
}

// Decision represents the result of an authorization check
type Decision struct {
	Allowed bool

	// Reasons lists the policy ids that contributed to the decision
	Reasons []string
}
