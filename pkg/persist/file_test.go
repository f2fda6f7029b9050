package persist

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	f, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, f.Save(ctx, "counter", []byte(`{"count":2}`)))

	data, err := f.Load(ctx, "counter")
	require.NoError(t, err)
	assert.JSONEq(t, `{"count":2}`, string(data))
}

func TestFileStoreSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	f, err := NewFileStore(dir)
	require.NoError(t, err)
	require.NoError(t, f.Save(ctx, "counter", []byte(`{"count":5}`)))
	require.NoError(t, f.Close())

	reopened, err := NewFileStore(dir)
	require.NoError(t, err)
	data, err := reopened.Load(ctx, "counter")
	require.NoError(t, err)
	assert.JSONEq(t, `{"count":5}`, string(data))
}

func TestFileStoreMiss(t *testing.T) {
	f, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	_, err = f.Load(context.Background(), "nope")
	assert.True(t, IsNotFound(err))
}

func TestFileStoreDelete(t *testing.T) {
	ctx := context.Background()
	f, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, f.Save(ctx, "counter", []byte("{}")))
	require.NoError(t, f.Delete(ctx, "counter"))
	require.NoError(t, f.Delete(ctx, "counter"), "deleting a missing key is not an error")

	_, err = f.Load(ctx, "counter")
	assert.True(t, IsNotFound(err))
}

func TestFileStoreKeySanitization(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	f, err := NewFileStore(dir)
	require.NoError(t, err)

	require.NoError(t, f.Save(ctx, "../escape", []byte("{}")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "snapshot must land inside the store directory")
	assert.Equal(t, filepath.Base(entries[0].Name()), entries[0].Name())
}

func TestFileStoreClosed(t *testing.T) {
	f, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, f.Close())

	assert.ErrorContains(t, f.Save(context.Background(), "k", nil), "E061")
}
