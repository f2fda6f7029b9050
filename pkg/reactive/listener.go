package reactive

// Listener is anything that can be notified when a dependency changes.
// Effects and memos implement it; package store registers listeners for
// its consumer notifications.
type Listener interface {
	// MarkDirty notifies the listener that a dependency changed.
	// For effects this re-runs the effect; for memos it invalidates
	// the cached value.
	MarkDirty()

	// ID returns a unique identifier, used to deduplicate notifications
	// inside a batch.
	ID() uint64
}

// Cleanup is returned by effect bodies to release resources. It runs before
// the effect re-runs and when the effect is disposed.
type Cleanup func()
