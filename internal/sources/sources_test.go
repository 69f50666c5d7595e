package sources

import (
	"context"
	"errors"
	"testing"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/runtime"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/container"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stacklok/toolhive-catalog-provider/internal/config"
	"github.com/stacklok/toolhive-catalog-provider/internal/integrations"
)

// fakeBlobClient serves pre-built pages and records the requested prefix
type fakeBlobClient struct {
	pages     [][]string
	failAt    int
	prefix    string
	container string
	fetches   int
}

func (f *fakeBlobClient) NewListBlobsFlatPager(
	containerName string,
	o *azblob.ListBlobsFlatOptions,
) *runtime.Pager[azblob.ListBlobsFlatResponse] {
	f.container = containerName
	if o != nil && o.Prefix != nil {
		f.prefix = *o.Prefix
	}

	return runtime.NewPager(runtime.PagingHandler[azblob.ListBlobsFlatResponse]{
		More: func(page azblob.ListBlobsFlatResponse) bool {
			return page.NextMarker != nil && *page.NextMarker != ""
		},
		Fetcher: func(_ context.Context, _ *azblob.ListBlobsFlatResponse) (azblob.ListBlobsFlatResponse, error) {
			idx := f.fetches
			f.fetches++
			if f.failAt > 0 && idx == f.failAt {
				return azblob.ListBlobsFlatResponse{}, errors.New("service unavailable")
			}

			items := make([]*container.BlobItem, 0, len(f.pages[idx]))
			for _, name := range f.pages[idx] {
				items = append(items, &container.BlobItem{Name: to.Ptr(name)})
			}

			resp := azblob.ListBlobsFlatResponse{}
			resp.Segment = &container.BlobFlatListSegment{BlobItems: items}
			if idx+1 < len(f.pages) {
				resp.NextMarker = to.Ptr("marker")
			}
			return resp, nil
		},
	})
}

func TestAzureContainerLister(t *testing.T) {
	t.Parallel()

	t.Run("follows pagination", func(t *testing.T) {
		t.Parallel()

		client := &fakeBlobClient{pages: [][]string{{"key1", "key2"}, {"key3"}, {"key4"}}}
		lister := NewAzureContainerLister(client, "container-1")

		keys, err := Collect(context.Background(), lister, "")
		require.NoError(t, err)
		assert.Equal(t, []string{"key1", "key2", "key3", "key4"}, keys)
		assert.Equal(t, "container-1", client.container)
		assert.Equal(t, 3, client.fetches)
	})

	t.Run("passes the prefix", func(t *testing.T) {
		t.Parallel()

		client := &fakeBlobClient{pages: [][]string{{"catalog/a.yaml"}}}
		keys, err := Collect(context.Background(), NewAzureContainerLister(client, "c"), "catalog/")
		require.NoError(t, err)
		assert.Equal(t, []string{"catalog/a.yaml"}, keys)
		assert.Equal(t, "catalog/", client.prefix)
	})

	t.Run("empty container", func(t *testing.T) {
		t.Parallel()

		client := &fakeBlobClient{pages: [][]string{{}}}
		keys, err := Collect(context.Background(), NewAzureContainerLister(client, "c"), "")
		require.NoError(t, err)
		assert.Empty(t, keys)
	})

	t.Run("page failure surfaces after earlier keys", func(t *testing.T) {
		t.Parallel()

		client := &fakeBlobClient{pages: [][]string{{"key1"}, {"key2"}}, failAt: 1}
		var seen []string
		var lastErr error
		for key, err := range NewAzureContainerLister(client, "c").ListObjects(context.Background(), "") {
			if err != nil {
				lastErr = err
				break
			}
			seen = append(seen, key)
		}
		assert.Equal(t, []string{"key1"}, seen)
		require.ErrorContains(t, lastErr, "service unavailable")

		_, err := Collect(context.Background(), NewAzureContainerLister(
			&fakeBlobClient{pages: [][]string{{"key1"}, {"key2"}}, failAt: 1}, "c"), "")
		require.Error(t, err)
	})

	t.Run("consumer can stop early", func(t *testing.T) {
		t.Parallel()

		client := &fakeBlobClient{pages: [][]string{{"key1", "key2"}, {"key3"}}}
		for range NewAzureContainerLister(client, "c").ListObjects(context.Background(), "") {
			break
		}
		assert.Equal(t, 1, client.fetches)
	})
}

// fakeS3Client serves pages keyed by continuation token
type fakeS3Client struct {
	pages  [][]string
	inputs []*s3.ListObjectsV2Input
	err    error
}

func (f *fakeS3Client) ListObjectsV2(
	_ context.Context,
	in *s3.ListObjectsV2Input,
	_ ...func(*s3.Options),
) (*s3.ListObjectsV2Output, error) {
	f.inputs = append(f.inputs, in)
	if f.err != nil {
		return nil, f.err
	}

	idx := len(f.inputs) - 1
	out := &s3.ListObjectsV2Output{}
	for _, key := range f.pages[idx] {
		out.Contents = append(out.Contents, s3types.Object{Key: aws.String(key)})
	}
	if idx+1 < len(f.pages) {
		out.IsTruncated = aws.Bool(true)
		out.NextContinuationToken = aws.String("token")
	}
	return out, nil
}

func TestS3BucketLister(t *testing.T) {
	t.Parallel()

	t.Run("follows pagination", func(t *testing.T) {
		t.Parallel()

		client := &fakeS3Client{pages: [][]string{{"key1", "key2"}, {"key3"}}}
		keys, err := Collect(context.Background(), NewS3BucketLister(client, "my-bucket"), "prefix/")
		require.NoError(t, err)
		assert.Equal(t, []string{"key1", "key2", "key3"}, keys)
		require.Len(t, client.inputs, 2)
		assert.Equal(t, "my-bucket", aws.ToString(client.inputs[0].Bucket))
		assert.Equal(t, "prefix/", aws.ToString(client.inputs[0].Prefix))
		assert.Equal(t, "token", aws.ToString(client.inputs[1].ContinuationToken))
	})

	t.Run("listing error", func(t *testing.T) {
		t.Parallel()

		client := &fakeS3Client{err: errors.New("access denied")}
		_, err := Collect(context.Background(), NewS3BucketLister(client, "my-bucket"), "")
		require.ErrorContains(t, err, "failed to list objects in bucket my-bucket")
		require.ErrorContains(t, err, "access denied")
	})
}

func TestListerFactory(t *testing.T) {
	t.Parallel()

	factory := NewListerFactory()

	_, err := factory.NewAzureContainerLister(nil, "c")
	require.Error(t, err)

	integ := &integrations.AzureBlobStorageIntegration{
		AzureBlobStorageIntegrationConfig: config.AzureBlobStorageIntegrationConfig{
			AccountName: "myaccount",
			SasToken:    "sv=2024-01-01&sig=abc",
		},
	}
	_, err = factory.NewAzureContainerLister(integ, "")
	require.ErrorContains(t, err, "container name is required")

	lister, err := factory.NewAzureContainerLister(integ, "container-1")
	require.NoError(t, err)
	assert.IsType(t, &azureContainerLister{}, lister)

	_, err = factory.NewS3BucketLister(context.Background(), &integrations.AwsS3Integration{}, "", "", "")
	require.ErrorContains(t, err, "bucket name is required")

	s3Integ := &integrations.AwsS3Integration{
		AwsS3IntegrationConfig: config.AwsS3IntegrationConfig{AccessKeyID: "AKIA", SecretAccessKey: "secret"},
	}
	lister, err = factory.NewS3BucketLister(context.Background(), s3Integ, "my-bucket", "eu-west-1", "")
	require.NoError(t, err)
	assert.IsType(t, &s3BucketLister{}, lister)
}
