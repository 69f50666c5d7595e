package sources

import (
	"context"
	"fmt"
	"iter"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/runtime"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
)

// AzureBlobClient is the subset of the blob service client used for listing.
// *azblob.Client satisfies it.
type AzureBlobClient interface {
	NewListBlobsFlatPager(containerName string, o *azblob.ListBlobsFlatOptions) *runtime.Pager[azblob.ListBlobsFlatResponse]
}

// azureContainerLister lists blobs in a container through the flat listing API
type azureContainerLister struct {
	client        AzureBlobClient
	containerName string
}

var _ ObjectLister = (*azureContainerLister)(nil)

// NewAzureContainerLister creates a lister for a container using an existing client
func NewAzureContainerLister(client AzureBlobClient, containerName string) ObjectLister {
	return &azureContainerLister{
		client:        client,
		containerName: containerName,
	}
}

// ListObjects yields blob names page by page
func (l *azureContainerLister) ListObjects(ctx context.Context, prefix string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		opts := &azblob.ListBlobsFlatOptions{}
		if prefix != "" {
			opts.Prefix = &prefix
		}

		pager := l.client.NewListBlobsFlatPager(l.containerName, opts)
		for pager.More() {
			page, err := pager.NextPage(ctx)
			if err != nil {
				yield("", fmt.Errorf("failed to list blobs in container %s: %w", l.containerName, err))
				return
			}

			if page.Segment == nil {
				continue
			}
			for _, item := range page.Segment.BlobItems {
				if item == nil || item.Name == nil {
					continue
				}
				if !yield(*item.Name, nil) {
					return
				}
			}
		}
	}
}
