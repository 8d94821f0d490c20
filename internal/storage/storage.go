package storage

import (
	"context"
	"io"
	"path/filepath"

	"github.com/google/uuid"
)

// BlobStore is the external image store. Objects are keyed by generated
// filename; callers never choose the key.
type BlobStore interface {
	Put(ctx context.Context, objectName string, r io.Reader, size int64, contentType string) error
	Remove(ctx context.Context, objectName string) error
	PublicURL(objectName string) string
}

// ObjectName generates a fresh store key, keeping the original file's
// extension so the served content type stays guessable.
func ObjectName(originalFilename string) string {
	return uuid.NewString() + filepath.Ext(originalFilename)
}
