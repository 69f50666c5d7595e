// Package sources enumerates object keys in cloud storage containers.
//
// The package defines the ObjectLister interface which abstracts listing
// every key under a prefix, following the service's pagination until the
// listing is exhausted. Listers yield keys lazily through an iter.Seq2 so a
// caller can stop early, and surface a failed page as the final element.
//
// Architecture:
//   - ObjectLister: Lists keys in one container or bucket
//   - ListerFactory: Builds listers from resolved integrations
//   - AzureBlobClient: Narrow view of the blob client, used for testing
//
// Current implementations:
//   - azureContainerLister: Azure Blob Storage flat blob listing
//   - s3BucketLister: Amazon S3 (and compatible) ListObjectsV2
package sources
