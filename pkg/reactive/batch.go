package reactive

// Batch groups multiple signal updates into a single notification phase.
// Updates inside fn are collected, deduplicated by listener ID, and all
// affected listeners are notified once when the outermost batch completes.
//
// Example:
//
//	reactive.Batch(func() {
//	    first.Set("Ada")
//	    last.Set("Lovelace")
//	})
//	// Dependents are notified once, not twice.
func Batch(fn func()) {
	ts := tracking()
	ts.depth++

	defer func() {
		ts.depth--
		if ts.depth == 0 {
			processPendingUpdates()
			release(ts)
		}
	}()

	fn()
}

// processPendingUpdates deduplicates and fires all queued notifications.
func processPendingUpdates() {
	updates := drainPendingUpdates()
	if len(updates) == 0 {
		return
	}

	seen := make(map[uint64]bool, len(updates))
	for _, l := range updates {
		if seen[l.ID()] {
			continue
		}
		seen[l.ID()] = true
		l.MarkDirty()
	}
}

// Untracked runs fn without tracking signal reads as dependencies.
// For a single read, Signal.Peek is clearer.
func Untracked(fn func()) {
	old := setListener(nil)
	defer setListener(old)
	fn()
}
