package persist

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// FileStore keeps each snapshot as a JSON file under a directory. It is the
// backend the CLI uses: no external service, survives restarts.
type FileStore struct {
	dir string

	mu     sync.Mutex
	closed bool
}

// NewFileStore creates a file-backed snapshot store rooted at dir, creating
// the directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileStore{dir: dir}, nil
}

// path maps a key to a file name. Path separators in keys are flattened so
// a key cannot escape the store directory.
func (f *FileStore) path(key string) string {
	safe := strings.NewReplacer("/", "_", "\\", "_", "..", "_").Replace(key)
	return filepath.Join(f.dir, safe+".json")
}

func (f *FileStore) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

// Save writes the snapshot atomically via a temp file and rename.
func (f *FileStore) Save(_ context.Context, key string, data []byte) error {
	if f.isClosed() {
		return ErrClosed
	}

	path := f.path(key)
	tmp, err := os.CreateTemp(f.dir, ".snapshot-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), path)
}

// Load reads a snapshot file.
func (f *FileStore) Load(_ context.Context, key string) ([]byte, error) {
	if f.isClosed() {
		return nil, ErrClosed
	}

	data, err := os.ReadFile(f.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &NotFoundError{Key: key}
		}
		return nil, err
	}
	return data, nil
}

// Delete removes a snapshot file.
func (f *FileStore) Delete(_ context.Context, key string) error {
	if f.isClosed() {
		return ErrClosed
	}

	err := os.Remove(f.path(key))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Close marks the store as closed.
func (f *FileStore) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

// Dir returns the store directory.
// This is for testing/debugging purposes.
func (f *FileStore) Dir() string {
	return f.dir
}
