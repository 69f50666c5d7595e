package sources

import (
	"context"
	"iter"

	"github.com/stacklok/toolhive-catalog-provider/internal/integrations"
)

//go:generate mockgen -destination=mocks/mock_sources.go -package=mocks -source=types.go ObjectLister,ListerFactory

// ObjectLister enumerates object keys in a single container or bucket
type ObjectLister interface {
	// ListObjects yields every key under prefix in listing order, following pagination
	// until exhausted. A listing failure is yielded once as the final element.
	ListObjects(ctx context.Context, prefix string) iter.Seq2[string, error]
}

// ListerFactory creates object listers bound to resolved integrations
type ListerFactory interface {
	// NewAzureContainerLister returns a lister for a blob container
	NewAzureContainerLister(integ *integrations.AzureBlobStorageIntegration, containerName string) (ObjectLister, error)

	// NewS3BucketLister returns a lister for an S3 bucket
	NewS3BucketLister(ctx context.Context, integ *integrations.AwsS3Integration, bucket, region, endpoint string) (ObjectLister, error)
}

// Collect drains a lister into a slice, stopping at the first error
func Collect(ctx context.Context, lister ObjectLister, prefix string) ([]string, error) {
	var keys []string
	for key, err := range lister.ListObjects(ctx, prefix) {
		if err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, nil
}
