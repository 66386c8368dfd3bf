package object

import (
	"context"
	"io"
)

// BlobStore defines the contract for saving and retrieving binary objects.
// Keys are opaque strings chosen by the caller; the store never invents or
// rewrites them, which keeps compensating deletes and reconciliation exact.
type BlobStore interface {
	// Put writes the reader contents at key, overwriting any existing
	// object, and returns the number of bytes written.
	Put(ctx context.Context, key string, contentType string, r io.Reader) (int64, error)

	// Open opens a stored object for reading.
	Open(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes the object at key. Deleting a missing object is not an
	// error; callers use Delete for best-effort cleanup.
	Delete(ctx context.Context, key string) error

	// List returns all keys under the given prefix.
	List(ctx context.Context, prefix string) ([]string, error)
}
