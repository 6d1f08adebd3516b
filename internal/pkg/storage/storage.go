package storage

import (
	"context"
	"errors"
	"io"
)

var (
	ErrNotFound    = errors.New("stored object not found")
	ErrInvalidPath = errors.New("storage path escapes the storage root")
)

// Storage stores binary objects, such as uploaded images, by relative path.
type Storage interface {
	// Save writes content to path, replacing any existing object.
	Save(ctx context.Context, path string, content io.Reader) error

	// Get opens the object at path. It returns ErrNotFound when missing.
	Get(ctx context.Context, path string) (io.ReadCloser, error)

	// Delete removes the object at path. Missing objects are not an error.
	Delete(ctx context.Context, path string) error
}
