package reactive

import (
	"sync"
	"sync/atomic"
)

// Effect is a reactive side effect. The body runs immediately on creation
// and re-runs whenever a signal or memo it read changes. Notification is
// synchronous: by the time the triggering Set returns, the effect has
// re-run (unless the update happened inside a Batch, in which case it
// re-runs when the batch completes).
type Effect struct {
	id uint64

	fn      func() Cleanup
	cleanup Cleanup

	sources   []*source
	sourcesMu sync.Mutex

	owner    *Owner
	running  atomic.Bool
	disposed atomic.Bool
}

// NewEffect creates and immediately runs an effect within the current owner
// scope. If the body returns a Cleanup, it is invoked before each re-run and
// on disposal.
//
// Example:
//
//	reactive.NewEffect(func() reactive.Cleanup {
//	    fmt.Println("count is", count.Get())
//	    return nil
//	})
func NewEffect(fn func() Cleanup) *Effect {
	e := &Effect{
		id:    nextID(),
		fn:    fn,
		owner: CurrentOwner(),
	}
	if e.owner != nil {
		e.owner.registerEffect(e)
	}
	e.run()
	return e
}

// MarkDirty re-runs the effect. Implements Listener.
func (e *Effect) MarkDirty() {
	if e.disposed.Load() {
		return
	}
	e.run()
}

// ID returns the unique identifier for this effect. Implements Listener.
func (e *Effect) ID() uint64 {
	return e.id
}

// run executes the body, re-tracking dependencies from scratch.
func (e *Effect) run() {
	if e.disposed.Load() {
		return
	}

	// A dependency written from inside the body would recurse forever;
	// drop the nested run instead.
	if !e.running.CompareAndSwap(false, true) {
		return
	}
	defer e.running.Store(false)

	if e.cleanup != nil {
		e.cleanup()
		e.cleanup = nil
	}

	e.sourcesMu.Lock()
	for _, src := range e.sources {
		src.unsubscribe(e)
	}
	e.sources = e.sources[:0]
	e.sourcesMu.Unlock()

	old := setListener(e)
	e.cleanup = e.fn()
	setListener(old)
}

// addSource records a dependency. Implements dependent; called by signals
// and memos read during the body.
func (e *Effect) addSource(src *source) {
	e.sourcesMu.Lock()
	defer e.sourcesMu.Unlock()
	for _, s := range e.sources {
		if s == src {
			return
		}
	}
	e.sources = append(e.sources, src)
}

// Dispose stops the effect, runs its cleanup, and unsubscribes it from all
// sources. Disposing twice is a no-op.
func (e *Effect) Dispose() {
	e.dispose()
}

func (e *Effect) dispose() {
	if e.disposed.Swap(true) {
		return
	}

	if e.cleanup != nil {
		e.cleanup()
		e.cleanup = nil
	}

	e.sourcesMu.Lock()
	for _, src := range e.sources {
		src.unsubscribe(e)
	}
	e.sources = nil
	e.sourcesMu.Unlock()
}

// OnMount runs fn once within the current scope. Equivalent to an effect
// with no reactive dependencies.
func OnMount(fn func()) {
	NewEffect(func() Cleanup {
		Untracked(fn)
		return nil
	})
}

// OnUnmount registers fn to run when the current owner is disposed.
func OnUnmount(fn func()) {
	if o := CurrentOwner(); o != nil {
		o.OnCleanup(fn)
	}
}
