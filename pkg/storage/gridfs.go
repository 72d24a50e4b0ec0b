package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const gridFSBucketName = "media"

// GridFSStore keeps media in a MongoDB GridFS bucket and serves it through
// the API under baseURL.
type GridFSStore struct {
	bucket  *gridfs.Bucket
	baseURL string
}

// NewGridFSStore creates a new GridFSStore
func NewGridFSStore(db *mongo.Database, baseURL string) (*GridFSStore, error) {
	bucket, err := gridfs.NewBucket(db, options.GridFSBucket().SetName(gridFSBucketName))
	if err != nil {
		return nil, fmt.Errorf("failed to open gridfs bucket: %w", err)
	}
	return &GridFSStore{bucket: bucket, baseURL: baseURL}, nil
}

func (s *GridFSStore) Put(_ context.Context, filename, contentType string, r io.Reader) (string, string, error) {
	name := ObjectName(filename)
	opts := options.GridFSUpload().SetMetadata(bson.D{
		{Key: "contentType", Value: contentType},
		{Key: "originalName", Value: filename},
	})
	id, err := s.bucket.UploadFromStream(name, r, opts)
	if err != nil {
		return "", "", fmt.Errorf("failed to upload %s to gridfs: %w", filename, err)
	}
	key := id.Hex()
	return key, s.baseURL + "/media/" + key, nil
}

func (s *GridFSStore) Delete(_ context.Context, key string) error {
	id, err := primitive.ObjectIDFromHex(key)
	if err != nil {
		return fmt.Errorf("invalid media key %q: %w", key, err)
	}
	if err := s.bucket.Delete(id); err != nil {
		if errors.Is(err, gridfs.ErrFileNotFound) {
			return ErrObjectNotFound
		}
		return err
	}
	return nil
}

// Open streams the object to w and returns its stored content type.
func (s *GridFSStore) Open(_ context.Context, key string, w io.Writer) (string, error) {
	id, err := primitive.ObjectIDFromHex(key)
	if err != nil {
		return "", ErrObjectNotFound
	}
	stream, err := s.bucket.OpenDownloadStream(id)
	if err != nil {
		if errors.Is(err, gridfs.ErrFileNotFound) {
			return "", ErrObjectNotFound
		}
		return "", err
	}
	defer stream.Close()

	contentType := "application/octet-stream"
	if meta := stream.GetFile().Metadata; meta != nil {
		if ct, ok := meta.Lookup("contentType").StringValueOK(); ok && ct != "" {
			contentType = ct
		}
	}

	if _, err := io.Copy(w, stream); err != nil {
		return "", fmt.Errorf("failed to read %s from gridfs: %w", key, err)
	}
	return contentType, nil
}
