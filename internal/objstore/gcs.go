// Package objstore provides object-store access for CSV exports and the
// account roster.
package objstore

import (
	"context"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
)

// Client defines the object-store operations the pipeline needs.
// Implementations must be safe for concurrent use.
type Client interface {
	// List returns the keys of all objects under prefix, in listing order.
	List(ctx context.Context, prefix string) ([]string, error)

	// Download returns the full contents of the object at key.
	Download(ctx context.Context, key string) ([]byte, error)
}

// GCS implements Client against a Google Cloud Storage bucket.
type GCS struct {
	client *storage.Client
	bucket *storage.BucketHandle
}

// NewGCS creates a GCS client for the named bucket using ambient credentials.
func NewGCS(ctx context.Context, bucketName string) (*GCS, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	return &GCS{
		client: client,
		bucket: client.Bucket(bucketName),
	}, nil
}

// List enumerates object keys under prefix.
func (g *GCS) List(ctx context.Context, prefix string) ([]string, error) {
	var keys []string

	it := g.bucket.Objects(ctx, &storage.Query{Prefix: prefix})
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list objects under %q: %w", prefix, err)
		}
		keys = append(keys, attrs.Name)
	}

	return keys, nil
}

// Download reads the whole object at key into memory.
func (g *GCS) Download(ctx context.Context, key string) ([]byte, error) {
	rc, err := g.bucket.Object(key).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to open object %q: %w", key, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to read object %q: %w", key, err)
	}
	return data, nil
}

// Close releases the underlying storage client.
func (g *GCS) Close() error {
	return g.client.Close()
}
