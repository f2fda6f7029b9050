package reactive

import (
	"sync"
	"sync/atomic"
)

// Memo is a cached computation that tracks its own dependencies. When any
// dependency changes the memo is invalidated and recomputes lazily on the
// next read. Memos can themselves be depended on, so derived values chain.
type Memo[T any] struct {
	src source

	compute func() T

	value   T
	valueMu sync.RWMutex

	// valid is false when the cached value is stale.
	valid atomic.Bool

	sources   []*source
	sourcesMu sync.Mutex

	equal func(T, T) bool

	// computing guards against recursion through circular dependencies.
	computing atomic.Bool
}

// NewMemo creates a memo for the given computation. The computation runs
// lazily on the first Get.
func NewMemo[T any](compute func() T) *Memo[T] {
	return &Memo[T]{
		src:     source{id: nextID()},
		compute: compute,
	}
}

// Get returns the memo's value, recomputing if stale, and subscribes the
// current listener.
func (m *Memo[T]) Get() T {
	if l := currentListener(); l != nil {
		m.src.subscribe(l)
		if d, ok := l.(dependent); ok {
			d.addSource(&m.src)
		}
	}

	if !m.valid.Load() {
		m.recompute()
	}

	m.valueMu.RLock()
	defer m.valueMu.RUnlock()
	return m.value
}

// Peek returns the value without subscribing. Still recomputes when stale.
func (m *Memo[T]) Peek() T {
	if !m.valid.Load() {
		m.recompute()
	}
	m.valueMu.RLock()
	defer m.valueMu.RUnlock()
	return m.value
}

// MarkDirty invalidates the cached value and propagates to subscribers.
// Implements Listener.
func (m *Memo[T]) MarkDirty() {
	if m.valid.CompareAndSwap(true, false) {
		m.src.notify()
	}
}

// ID returns the unique identifier for this memo. Implements Listener.
func (m *Memo[T]) ID() uint64 {
	return m.src.id
}

// addSource records a dependency. Implements dependent.
func (m *Memo[T]) addSource(src *source) {
	m.sourcesMu.Lock()
	defer m.sourcesMu.Unlock()
	for _, s := range m.sources {
		if s == src {
			return
		}
	}
	m.sources = append(m.sources, src)
}

// WithEquals configures a custom equality function.
func (m *Memo[T]) WithEquals(fn func(T, T) bool) *Memo[T] {
	m.equal = fn
	return m
}

func (m *Memo[T]) recompute() {
	if m.computing.Swap(true) {
		// Circular dependency; keep the stale value.
		return
	}
	defer m.computing.Store(false)

	m.sourcesMu.Lock()
	for _, src := range m.sources {
		src.unsubscribe(m)
	}
	m.sources = m.sources[:0]
	m.sourcesMu.Unlock()

	old := setListener(m)
	next := m.compute()
	setListener(old)

	m.valueMu.Lock()
	m.value = next
	m.valueMu.Unlock()

	m.valid.Store(true)
}

var _ dependent = (*Memo[int])(nil)
var _ dependent = (*Effect)(nil)
