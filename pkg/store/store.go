package store

import (
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/statekit-dev/statekit/pkg/reactive"
)

// Store owns one piece of state, mutated only through Dispatch. The state
// lives in a reactive signal, so effects and memos that read it re-run on
// every accepted transition; explicit observers registered with Subscribe
// are invoked synchronously in the same dispatch pass.
//
// A store has exactly one logical writer: dispatches are serialized by a
// mutex, and readers always observe a fully-formed state value. Stores are
// independent; two stores never share state or locks.
type Store[S any] struct {
	name    string
	signal  *reactive.Signal[S]
	reducer Reducer[S]

	// dispatch is the composed middleware chain ending in apply.
	dispatch DispatchFunc

	// mu serializes dispatches. dispatchGID holds the goroutine currently
	// inside apply so re-entrant dispatch fails instead of deadlocking.
	mu          sync.Mutex
	dispatchGID atomic.Uint64

	observers  map[uint64]func(S)
	observerID uint64
	obsMu      sync.RWMutex

	// notifyMu is held across an entire notification pass so a Subscribe
	// cancel can wait out a pass that already copied the observer list.
	notifyMu sync.Mutex
}

// Option configures a Store.
type Option[S any] func(*Store[S])

// WithName sets the store's name, used as a label by the observability
// middleware. Default: "store".
func WithName[S any](name string) Option[S] {
	return func(s *Store[S]) {
		s.name = name
	}
}

// WithMiddleware wraps dispatch with the given middleware, outermost first.
func WithMiddleware[S any](mw ...Middleware) Option[S] {
	return func(s *Store[S]) {
		for i := len(mw) - 1; i >= 0; i-- {
			s.dispatch = mw[i](s.dispatch)
		}
	}
}

// WithEquals sets a custom equality function on the underlying signal.
func WithEquals[S any](fn func(S, S) bool) Option[S] {
	return func(s *Store[S]) {
		s.signal.WithEquals(fn)
	}
}

// New creates a store with the given initial state and reducer.
func New[S any](initial S, reducer Reducer[S], opts ...Option[S]) *Store[S] {
	s := &Store[S]{
		name:      "store",
		signal:    reactive.NewSignal(initial),
		reducer:   reducer,
		observers: make(map[uint64]func(S)),
	}
	s.dispatch = s.apply

	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the store's name.
func (s *Store[S]) Name() string {
	return s.name
}

// State returns the current state and subscribes the current reactive
// listener, if any.
func (s *Store[S]) State() S {
	return s.signal.Get()
}

// Peek returns the current state without subscribing.
func (s *Store[S]) Peek() S {
	return s.signal.Peek()
}

// Signal exposes the underlying signal for memos and effects that want to
// derive from the state directly.
func (s *Store[S]) Signal() *reactive.Signal[S] {
	return s.signal
}

// Dispatch applies an action through the middleware chain and the reducer.
//
// On success the state is replaced and every subscriber — reactive listeners
// on the signal and observers registered with Subscribe — is notified before
// Dispatch returns. On failure the state is untouched, nobody is notified,
// and the reducer's error is returned.
//
// Calling Dispatch from inside an observer of the same store returns
// ErrReentrantDispatch.
func (s *Store[S]) Dispatch(action Action) error {
	return s.dispatch(action)
}

// apply is the terminal DispatchFunc: reduce, replace, notify.
func (s *Store[S]) apply(action Action) error {
	gid := goroutineID()
	if s.dispatchGID.Load() == gid {
		return ErrReentrantDispatch
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.dispatchGID.Store(gid)
	defer s.dispatchGID.Store(0)

	current := s.signal.Peek()
	next, err := s.reducer(current, action)
	if err != nil {
		return err
	}

	s.signal.Set(next)
	s.notifyObservers(next)
	return nil
}

// Subscribe registers an observer invoked synchronously after every accepted
// transition, with the new state. The returned cancel function removes the
// observer; calling it more than once is harmless.
//
// Cancel does not return while a notification pass that may still invoke the
// observer is in flight, so after cancel returns the observer never runs
// again. That makes teardown like cancel-then-close-channel safe.
func (s *Store[S]) Subscribe(fn func(S)) (cancel func()) {
	s.obsMu.Lock()
	s.observerID++
	id := s.observerID
	s.observers[id] = fn
	s.obsMu.Unlock()

	return func() {
		s.obsMu.Lock()
		delete(s.observers, id)
		s.obsMu.Unlock()

		// A pass that copied the observer list before the delete can still
		// invoke the observer. Skip the wait when cancel runs from inside
		// the dispatch pass itself; that pass holds notifyMu.
		if s.dispatchGID.Load() == goroutineID() {
			return
		}
		s.notifyMu.Lock()
		s.notifyMu.Unlock()
	}
}

// notifyObservers runs all observers with the new state. Observers are
// copied first so none is invoked under the registry lock.
func (s *Store[S]) notifyObservers(state S) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.obsMu.RLock()
	observers := make([]func(S), 0, len(s.observers))
	for _, fn := range s.observers {
		observers = append(observers, fn)
	}
	s.obsMu.RUnlock()

	for _, fn := range observers {
		fn(state)
	}
}

// goroutineID extracts the current goroutine's ID from the runtime stack
// header. Used for re-entrancy detection and the same-goroutine check in
// Subscribe's cancel.
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
