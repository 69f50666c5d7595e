package integrations

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/stacklok/toolhive-catalog-provider/internal/config"
)

// DefaultAwsS3Host is the host matched when a provider has no custom endpoint
const DefaultAwsS3Host = "amazonaws.com"

// AwsS3Integration is a resolved S3 connection
type AwsS3Integration struct {
	config.AwsS3IntegrationConfig
}

// GetHost returns the host this integration serves
func (i *AwsS3Integration) GetHost() string {
	if i.Host != "" {
		return i.Host
	}
	if i.Endpoint != "" {
		if u, err := url.Parse(i.Endpoint); err == nil && u.Host != "" {
			return u.Host
		}
	}
	return DefaultAwsS3Host
}

// HasStaticCredentials reports whether access keys are configured
func (i *AwsS3Integration) HasStaticCredentials() bool {
	return i.AccessKeyID != "" && i.SecretAccessKey != ""
}

// LoadAWSConfig builds an SDK configuration for a region. Static keys are used when
// configured, otherwise the default credential chain.
func (i *AwsS3Integration) LoadAWSConfig(ctx context.Context, region string) (aws.Config, error) {
	if region == "" {
		region = i.Region
	}

	var opts []func(*awsconfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	if i.HasStaticCredentials() {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(i.AccessKeyID, i.SecretAccessKey, ""),
		))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return cfg, nil
}

// NewClient builds an S3 client for a region, honouring a custom endpoint
func (i *AwsS3Integration) NewClient(ctx context.Context, region, endpoint string) (*s3.Client, error) {
	cfg, err := i.LoadAWSConfig(ctx, region)
	if err != nil {
		return nil, err
	}

	if endpoint == "" {
		endpoint = i.Endpoint
	}

	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
		if i.S3ForcePathStyle {
			o.UsePathStyle = true
		}
	}), nil
}

// BucketURL returns the public base URL of a bucket with a single trailing slash
func BucketURL(bucket, region, endpoint string) string {
	if endpoint != "" {
		return strings.TrimRight(endpoint, "/") + "/" + bucket + "/"
	}
	if region == "" {
		return fmt.Sprintf("https://%s.s3.amazonaws.com/", bucket)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/", bucket, region)
}

// AwsIntegrations looks up configured S3 integrations
type AwsIntegrations struct {
	integrations []config.AwsS3IntegrationConfig
}

// NewAwsIntegrations wraps the configured S3 integrations
func NewAwsIntegrations(integrations []config.AwsS3IntegrationConfig) *AwsIntegrations {
	return &AwsIntegrations{integrations: integrations}
}

// Resolve returns the integration whose host matches the endpoint (or amazonaws.com when
// endpoint is empty). Without a match it returns an integration using the default chain.
func (a *AwsIntegrations) Resolve(endpoint string) *AwsS3Integration {
	host := DefaultAwsS3Host
	if endpoint != "" {
		if u, err := url.Parse(endpoint); err == nil && u.Host != "" {
			host = u.Host
		}
	}

	for _, integ := range a.integrations {
		candidate := &AwsS3Integration{AwsS3IntegrationConfig: integ}
		if hostMatches(candidate.GetHost(), host) {
			return candidate
		}
	}

	return &AwsS3Integration{AwsS3IntegrationConfig: config.AwsS3IntegrationConfig{Endpoint: endpoint}}
}

// hostMatches accepts exact matches and subdomains, so s3.amazonaws.com serves amazonaws.com
func hostMatches(configured, wanted string) bool {
	configured = strings.ToLower(configured)
	wanted = strings.ToLower(wanted)
	return configured == wanted ||
		strings.HasSuffix(configured, "."+wanted) ||
		strings.HasSuffix(wanted, "."+configured)
}
