package auth

//go:generate mockgen -destination=mocks/mock_validator.go -package=mocks -source=validator.go TokenValidator

import (
	"context"

	"github.com/golang-jwt/jwt/v5"
	thvauth "github.com/stacklok/toolhive/pkg/auth"
)

// TokenValidator checks a bearer token and returns its claims
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (jwt.MapClaims, error)
}

// ValidatorFactory creates a token validator for one OIDC provider
type ValidatorFactory func(ctx context.Context, cfg thvauth.TokenValidatorConfig) (TokenValidator, error)

// DefaultValidatorFactory discovers the issuer and validates tokens against its JWKS
var DefaultValidatorFactory ValidatorFactory = func(
	ctx context.Context,
	cfg thvauth.TokenValidatorConfig,
) (TokenValidator, error) {
	return thvauth.NewTokenValidator(ctx, cfg)
}
