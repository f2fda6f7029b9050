// Package persist provides snapshot persistence for statekit stores.
//
// A SnapshotStore is a keyed blob backend. Backends are provided for
// memory, SQL databases, Redis and S3. The Snapshotter ties a backend to a
// reducer store: it serializes committed state as JSON and can watch the
// store so every transition is written through.
package persist

import (
	"context"
	"errors"
	"fmt"

	ierrors "github.com/statekit-dev/statekit/internal/errors"
)

// SnapshotStore defines the interface for snapshot persistence backends.
// Implementations must be safe for concurrent use.
type SnapshotStore interface {
	// Save persists a snapshot under the given key, overwriting any
	// previous snapshot with the same key.
	Save(ctx context.Context, key string, data []byte) error

	// Load retrieves a snapshot by key.
	// Returns a NotFoundError if no snapshot exists under the key.
	Load(ctx context.Context, key string) ([]byte, error)

	// Delete removes a snapshot. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the store. Operations after
	// Close return ErrClosed.
	Close() error
}

// NotFoundError is returned by Load when no snapshot exists under the key.
type NotFoundError struct {
	Key string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: %q", ierrors.New("E060"), e.Key)
}

// Coded returns the registry entry for this failure.
func (e *NotFoundError) Coded() *ierrors.Error {
	return ierrors.New("E060").WithDetail("key: %q", e.Key)
}

// IsNotFound reports whether err is a snapshot miss.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// ErrClosed is returned when operations are attempted on a closed store.
var ErrClosed = ierrors.New("E061")
