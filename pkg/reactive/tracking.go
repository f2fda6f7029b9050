package reactive

import (
	"runtime"
	"sync"
)

// trackingState holds the reactive state for one goroutine: the owner that
// adopts newly created primitives, the listener that reads should subscribe,
// and the batch bookkeeping.
type trackingState struct {
	owner    *Owner
	listener Listener

	// depth tracks nested Batch() calls. While > 0, notifications queue in
	// pending instead of firing immediately.
	depth   int
	pending []Listener
}

// trackingStates stores per-goroutine tracking state.
var trackingStates sync.Map

// goroutineID extracts the current goroutine's ID from the runtime stack
// header ("goroutine <id> ..."). Implementation detail; not exposed.
func goroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)

	var id uint64
	for i := len("goroutine "); i < n; i++ {
		if buf[i] == ' ' {
			break
		}
		id = id*10 + uint64(buf[i]-'0')
	}
	return id
}

// tracking returns the tracking state for the current goroutine, creating
// it on first use. Mutating callers pair it with release so the entry is
// removed once the goroutine tracks nothing; read-only paths go through
// peekTracking and never create an entry at all. Together these keep the map
// from accumulating one entry per goroutine that ever touched a signal.
func tracking() *trackingState {
	gid := goroutineID()
	if ts, ok := trackingStates.Load(gid); ok {
		return ts.(*trackingState)
	}
	ts := &trackingState{}
	trackingStates.Store(gid, ts)
	return ts
}

// peekTracking returns the current goroutine's state without creating one.
func peekTracking() *trackingState {
	if ts, ok := trackingStates.Load(goroutineID()); ok {
		return ts.(*trackingState)
	}
	return nil
}

// release deletes the goroutine's entry once nothing is tracked anymore.
func release(ts *trackingState) {
	if ts.owner == nil && ts.listener == nil && ts.depth == 0 && len(ts.pending) == 0 {
		trackingStates.Delete(goroutineID())
	}
}

// currentListener returns the active listener, or nil when reads should not
// create subscriptions.
func currentListener() Listener {
	if ts := peekTracking(); ts != nil {
		return ts.listener
	}
	return nil
}

// setListener installs a listener and returns the previous one.
func setListener(l Listener) Listener {
	ts := peekTracking()
	if ts == nil {
		if l == nil {
			return nil
		}
		ts = tracking()
	}
	old := ts.listener
	ts.listener = l
	release(ts)
	return old
}

// CurrentOwner returns the owner scope active on this goroutine, or nil.
func CurrentOwner() *Owner {
	if ts := peekTracking(); ts != nil {
		return ts.owner
	}
	return nil
}

// setOwner installs an owner and returns the previous one.
func setOwner(o *Owner) *Owner {
	ts := peekTracking()
	if ts == nil {
		if o == nil {
			return nil
		}
		ts = tracking()
	}
	old := ts.owner
	ts.owner = o
	release(ts)
	return old
}

func batchDepth() int {
	if ts := peekTracking(); ts != nil {
		return ts.depth
	}
	return 0
}

func queuePendingUpdate(l Listener) {
	// Only reachable inside a batch, so the entry already exists.
	if ts := peekTracking(); ts != nil {
		ts.pending = append(ts.pending, l)
	}
}

func drainPendingUpdates() []Listener {
	ts := peekTracking()
	if ts == nil {
		return nil
	}
	pending := ts.pending
	ts.pending = nil
	return pending
}

// WithOwner runs fn with owner as the current scope. Signals, effects, and
// context values created inside fn belong to that owner. This is also how
// work on a fresh goroutine rejoins a component scope.
//
// Example:
//
//	go func() {
//	    reactive.WithOwner(scope, func() {
//	        status.Set("loaded")
//	    })
//	}()
func WithOwner(owner *Owner, fn func()) {
	old := setOwner(owner)
	defer setOwner(old)
	fn()
}

// WithListener runs fn with l installed for dependency tracking. Used
// internally by effects and memos; exposed for custom listener types.
func WithListener(l Listener, fn func()) {
	old := setListener(l)
	defer setListener(old)
	fn()
}
