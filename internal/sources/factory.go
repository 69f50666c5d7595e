package sources

import (
	"context"
	"fmt"

	"github.com/stacklok/toolhive-catalog-provider/internal/integrations"
)

// defaultListerFactory builds listers backed by the cloud SDK clients
type defaultListerFactory struct{}

var _ ListerFactory = (*defaultListerFactory)(nil)

// NewListerFactory creates a new lister factory
func NewListerFactory() ListerFactory {
	return &defaultListerFactory{}
}

// NewAzureContainerLister creates a blob client for the integration and binds it to the container
func (*defaultListerFactory) NewAzureContainerLister(
	integ *integrations.AzureBlobStorageIntegration,
	containerName string,
) (ObjectLister, error) {
	if integ == nil {
		return nil, fmt.Errorf("azure integration is required")
	}
	if containerName == "" {
		return nil, fmt.Errorf("container name is required")
	}

	client, err := integ.NewClient()
	if err != nil {
		return nil, fmt.Errorf("failed to create blob client for account %s: %w", integ.AccountName, err)
	}

	return NewAzureContainerLister(client, containerName), nil
}

// NewS3BucketLister creates an S3 client for the integration and binds it to the bucket
func (*defaultListerFactory) NewS3BucketLister(
	ctx context.Context,
	integ *integrations.AwsS3Integration,
	bucket, region, endpoint string,
) (ObjectLister, error) {
	if integ == nil {
		return nil, fmt.Errorf("s3 integration is required")
	}
	if bucket == "" {
		return nil, fmt.Errorf("bucket name is required")
	}

	client, err := integ.NewClient(ctx, region, endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to create s3 client for bucket %s: %w", bucket, err)
	}

	return NewS3BucketLister(client, bucket), nil
}
