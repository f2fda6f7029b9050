package persist

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/statekit-dev/statekit/pkg/counter"
)

func TestSnapshotterSaveAndRestore(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryStore()

	s := counter.NewStore()
	for i := 0; i < 4; i++ {
		require.NoError(t, s.Dispatch(counter.Increment{}))
	}

	snap := NewSnapshotter(s, backend, "counter")
	require.NoError(t, snap.Save(ctx))

	restored, err := snap.Restore(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, restored.Count)
}

func TestSnapshotterRestoreMiss(t *testing.T) {
	snap := NewSnapshotter(counter.NewStore(), NewMemoryStore(), "counter")

	_, err := snap.Restore(context.Background())
	assert.True(t, IsNotFound(err), "missing snapshot should be reported as a miss")
}

func TestSnapshotterRestoreSeedsNewStore(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryStore()

	original := counter.NewStore()
	require.NoError(t, original.Dispatch(counter.Increment{}))
	require.NoError(t, original.Dispatch(counter.Increment{}))
	require.NoError(t, NewSnapshotter(original, backend, "counter").Save(ctx))

	state, err := NewSnapshotter(counter.NewStore(), backend, "counter").Restore(ctx)
	require.NoError(t, err)

	revived := counter.NewStoreFrom(state)
	require.NoError(t, revived.Dispatch(counter.Increment{}))
	assert.Equal(t, 3, revived.Peek().Count)
}

func TestSnapshotterWatchWritesThrough(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryStore()

	s := counter.NewStore()
	snap := NewSnapshotter(s, backend, "counter")

	cancel := snap.Watch()
	require.NoError(t, s.Dispatch(counter.Increment{}))
	require.NoError(t, s.Dispatch(counter.Increment{}))
	cancel() // drains pending writes before returning

	restored, err := snap.Restore(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, restored.Count)
}

func TestSnapshotterWatchCancelStopsWrites(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryStore()

	s := counter.NewStore()
	snap := NewSnapshotter(s, backend, "counter")

	cancel := snap.Watch()
	require.NoError(t, s.Dispatch(counter.Increment{}))
	cancel()

	require.NoError(t, s.Dispatch(counter.Increment{}))

	restored, err := snap.Restore(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, restored.Count, "writes after cancel must not reach the backend")
}
