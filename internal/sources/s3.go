package sources

import (
	"context"
	"fmt"
	"iter"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// s3BucketLister lists objects in a bucket with ListObjectsV2
type s3BucketLister struct {
	client s3.ListObjectsV2APIClient
	bucket string
}

var _ ObjectLister = (*s3BucketLister)(nil)

// NewS3BucketLister creates a lister for a bucket using an existing client
func NewS3BucketLister(client s3.ListObjectsV2APIClient, bucket string) ObjectLister {
	return &s3BucketLister{
		client: client,
		bucket: bucket,
	}
}

// ListObjects yields object keys page by page
func (l *s3BucketLister) ListObjects(ctx context.Context, prefix string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		input := &s3.ListObjectsV2Input{Bucket: aws.String(l.bucket)}
		if prefix != "" {
			input.Prefix = aws.String(prefix)
		}

		paginator := s3.NewListObjectsV2Paginator(l.client, input)
		for paginator.HasMorePages() {
			page, err := paginator.NextPage(ctx)
			if err != nil {
				yield("", fmt.Errorf("failed to list objects in bucket %s: %w", l.bucket, err))
				return
			}

			for _, obj := range page.Contents {
				if obj.Key == nil {
					continue
				}
				if !yield(*obj.Key, nil) {
					return
				}
			}
		}
	}
}
