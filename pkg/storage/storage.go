// Package storage stores uploaded media bytes and hands back a URL.
package storage

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
)

var ErrObjectNotFound = errors.New("object not found")

// BlobStore is the media backend used by the content store.
type BlobStore interface {
	// Put stores r under a name derived from filename and returns the key
	// to persist and the public URL to serve.
	Put(ctx context.Context, filename, contentType string, r io.Reader) (key, url string, err error)
	Delete(ctx context.Context, key string) error
}

// Reader is implemented by backends that serve their own bytes.
type Reader interface {
	Open(ctx context.Context, key string, w io.Writer) (contentType string, err error)
}

// ObjectName builds a collision-free object name that keeps the extension.
func ObjectName(filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	return "media/" + uuid.NewString() + ext
}
