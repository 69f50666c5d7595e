// Package aws issues AWS RDS IAM tokens used as database passwords.
package aws

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/ec2/imds"
	"github.com/aws/aws-sdk-go-v2/feature/rds/auth"
	"github.com/jackc/pgx/v5"

	"github.com/stacklok/toolhive-catalog-provider/internal/config"
)

// RegionDetect asks the EC2 instance metadata service for the region
const RegionDetect = "detect"

const imdsTimeout = 2 * time.Second

// ErrRegionNotConfigured is returned when awsRdsIam has no region
var ErrRegionNotConfigured = errors.New("AWS RDS IAM region is not configured")

// RegionDetector looks up the region the process runs in
type RegionDetector func(ctx context.Context) (string, error)

// TokenSource signs RDS IAM tokens for one database endpoint. Region and
// credentials are resolved once and reused for every token.
type TokenSource struct {
	endpoint string
	region   string
	creds    awssdk.CredentialsProvider
}

// NewTokenSource resolves the region and the default AWS credential chain for cfg
func NewTokenSource(ctx context.Context, cfg *config.DatabaseConfig) (*TokenSource, error) {
	return newTokenSource(ctx, cfg, regionFromIMDS)
}

func newTokenSource(ctx context.Context, cfg *config.DatabaseConfig, detect RegionDetector) (*TokenSource, error) {
	if cfg.DynamicAuth == nil || cfg.DynamicAuth.AWSRDSIAM == nil {
		return nil, errors.New("awsRdsIam dynamic auth is not configured")
	}

	region := cfg.DynamicAuth.AWSRDSIAM.Region
	switch region {
	case "":
		return nil, ErrRegionNotConfigured
	case RegionDetect:
		detected, err := detect(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to detect AWS region: %w", err)
		}
		region = detected
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &TokenSource{
		endpoint: net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		region:   region,
		creds:    awsCfg.Credentials,
	}, nil
}

// Region is the region tokens are signed for
func (s *TokenSource) Region() string {
	return s.region
}

// Token signs a token for user. Tokens are valid for 15 minutes.
func (s *TokenSource) Token(ctx context.Context, user string) (string, error) {
	token, err := auth.BuildAuthToken(ctx, s.endpoint, s.region, user, s.creds)
	if err != nil {
		return "", fmt.Errorf("failed to build RDS auth token for %s: %w", user, err)
	}
	return token, nil
}

// BeforeConnect returns a pgx hook that sets a fresh token as the password of every
// new pool connection
func (s *TokenSource) BeforeConnect(user string) func(context.Context, *pgx.ConnConfig) error {
	return func(ctx context.Context, connConfig *pgx.ConnConfig) error {
		token, err := s.Token(ctx, user)
		if err != nil {
			return err
		}
		connConfig.Password = token
		return nil
	}
}

func regionFromIMDS(ctx context.Context) (string, error) {
	client := imds.New(imds.Options{HTTPClient: &http.Client{Timeout: imdsTimeout}})
	out, err := client.GetRegion(ctx, &imds.GetRegionInput{})
	if err != nil {
		return "", err
	}
	return out.Region, nil
}
