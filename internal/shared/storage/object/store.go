package object

import (
	"context"
	"errors"
	"io"
)

var (
	// ErrInvalidKey is returned for keys that are empty or escape the store root.
	ErrInvalidKey = errors.New("invalid storage key")
	// ErrNotFound is returned when no object exists under a key.
	ErrNotFound = errors.New("object not found")
)

// Store is the contract for saving and retrieving binary objects.
type Store interface {
	Put(ctx context.Context, key, contentType string, r io.Reader) (int64, error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}
