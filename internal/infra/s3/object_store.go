package s3

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
)

// ObjectStore wraps a minio client for a single bucket and knows how to
// build the public URL for an uploaded object.
type ObjectStore struct {
	client    *minio.Client
	bucket    string
	publicURL string
}

func NewObjectStore(client *minio.Client, bucket, publicURL string) *ObjectStore {
	return &ObjectStore{
		client:    client,
		bucket:    bucket,
		publicURL: strings.TrimRight(publicURL, "/"),
	}
}

func (s *ObjectStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	if s.client == nil {
		return fmt.Errorf("object storage is not configured")
	}

	_, err := s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("put object %q: %w", key, err)
	}
	return nil
}

func (s *ObjectStore) Delete(ctx context.Context, key string) error {
	if s.client == nil {
		return fmt.Errorf("object storage is not configured")
	}

	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove object %q: %w", key, err)
	}
	return nil
}

func (s *ObjectStore) PublicURL(key string) string {
	return s.publicURL + "/" + key
}
