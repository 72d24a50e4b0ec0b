package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// GCSStore keeps media in a Google Cloud Storage bucket.
type GCSStore struct {
	client     *storage.Client
	bucketName string
}

// NewGCSStore creates a GCS-backed store. An empty credentials path falls
// back to application default credentials.
func NewGCSStore(ctx context.Context, bucketName, credentialsPath string) (*GCSStore, error) {
	var opts []option.ClientOption
	if credentialsPath != "" {
		if _, err := os.Stat(credentialsPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("service account key not found at path: %s", credentialsPath)
		}
		opts = append(opts, option.WithCredentialsFile(credentialsPath))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS storage client: %w", err)
	}
	return &GCSStore{client: client, bucketName: bucketName}, nil
}

func (s *GCSStore) Put(ctx context.Context, filename, contentType string, r io.Reader) (string, string, error) {
	name := ObjectName(filename)
	writer := s.client.Bucket(s.bucketName).Object(name).NewWriter(ctx)
	writer.ContentType = contentType

	if _, err := io.Copy(writer, r); err != nil {
		_ = writer.Close()
		return "", "", fmt.Errorf("failed to copy %s to GCS object %s: %w", filename, name, err)
	}
	if err := writer.Close(); err != nil {
		return "", "", fmt.Errorf("failed to close GCS writer for %s: %w", name, err)
	}
	return name, fmt.Sprintf("https://storage.googleapis.com/%s/%s", s.bucketName, name), nil
}

func (s *GCSStore) Delete(ctx context.Context, key string) error {
	err := s.client.Bucket(s.bucketName).Object(key).Delete(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return ErrObjectNotFound
	}
	return err
}

func (s *GCSStore) Close() error {
	return s.client.Close()
}
