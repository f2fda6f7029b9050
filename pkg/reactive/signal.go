package reactive

import (
	"reflect"
	"sync"
)

// source provides type-erased subscriber management. It is embedded in
// Signal[T] and Memo[T] so both can be depended on.
type source struct {
	id uint64

	subs   []Listener
	subsMu sync.RWMutex
}

// subscribe adds a listener, deduplicating by listener ID.
func (s *source) subscribe(l Listener) {
	if l == nil {
		return
	}

	s.subsMu.Lock()
	defer s.subsMu.Unlock()

	lid := l.ID()
	for _, existing := range s.subs {
		if existing.ID() == lid {
			return
		}
	}
	s.subs = append(s.subs, l)
}

// unsubscribe removes a listener. Order of the subscriber list is not
// significant, so removal swaps with the last element.
func (s *source) unsubscribe(l Listener) {
	if l == nil {
		return
	}

	s.subsMu.Lock()
	defer s.subsMu.Unlock()

	lid := l.ID()
	for i, existing := range s.subs {
		if existing.ID() == lid {
			s.subs[i] = s.subs[len(s.subs)-1]
			s.subs = s.subs[:len(s.subs)-1]
			return
		}
	}
}

// notify informs all subscribers of a change. Subscribers are copied before
// notification so no lock is held while listener code runs. Inside a batch,
// notifications are queued and deduplicated until the batch completes.
func (s *source) notify() {
	s.subsMu.RLock()
	subs := make([]Listener, len(s.subs))
	copy(subs, s.subs)
	s.subsMu.RUnlock()

	if batchDepth() > 0 {
		for _, sub := range subs {
			queuePendingUpdate(sub)
		}
		return
	}

	for _, sub := range subs {
		sub.MarkDirty()
	}
}

// Signal is a reactive value container. Reading a signal while a listener is
// active (effect run, memo computation) subscribes that listener to changes.
type Signal[T any] struct {
	src source

	value T
	mu    sync.RWMutex

	// equal overrides the default equality check when non-nil.
	equal func(T, T) bool
}

// NewSignal creates a signal holding the given initial value.
func NewSignal[T any](initial T) *Signal[T] {
	return &Signal[T]{
		src:   source{id: nextID()},
		value: initial,
	}
}

// Get returns the current value and subscribes the current listener, if any.
func (s *Signal[T]) Get() T {
	s.mu.RLock()
	value := s.value
	s.mu.RUnlock()

	// Dependency tracking happens after the value lock is released to
	// avoid lock-order inversion with listener internals.
	if l := currentListener(); l != nil {
		s.src.subscribe(l)
		if d, ok := l.(dependent); ok {
			d.addSource(&s.src)
		}
	}

	return value
}

// Peek returns the current value without subscribing.
func (s *Signal[T]) Peek() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value
}

// Set replaces the value and notifies subscribers if it changed.
func (s *Signal[T]) Set(value T) {
	s.mu.Lock()
	changed := !s.equals(s.value, value)
	if changed {
		s.value = value
	}
	s.mu.Unlock()

	if changed {
		s.src.notify()
	}
}

// Update atomically transforms the value with fn and notifies subscribers
// if the result differs from the current value.
func (s *Signal[T]) Update(fn func(T) T) {
	s.mu.Lock()
	next := fn(s.value)
	changed := !s.equals(s.value, next)
	if changed {
		s.value = next
	}
	s.mu.Unlock()

	if changed {
		s.src.notify()
	}
}

// WithEquals configures a custom equality function. Useful when
// reflect.DeepEqual is too expensive or has the wrong semantics for T.
func (s *Signal[T]) WithEquals(fn func(T, T) bool) *Signal[T] {
	s.equal = fn
	return s
}

// ID returns the unique identifier for this signal.
func (s *Signal[T]) ID() uint64 {
	return s.src.id
}

func (s *Signal[T]) equals(a, b T) bool {
	if s.equal != nil {
		return s.equal(a, b)
	}
	return defaultEquals(a, b)
}

// defaultEquals uses == for the common scalar types and falls back to
// reflect.DeepEqual for everything else.
func defaultEquals[T any](a, b T) bool {
	switch av := any(a).(type) {
	case int:
		return av == any(b).(int)
	case int64:
		return av == any(b).(int64)
	case uint64:
		return av == any(b).(uint64)
	case float64:
		return av == any(b).(float64)
	case string:
		return av == any(b).(string)
	case bool:
		return av == any(b).(bool)
	default:
		return reflect.DeepEqual(a, b)
	}
}

// dependent is implemented by listeners that track their sources so they can
// unsubscribe before re-running (effects and memos).
type dependent interface {
	Listener
	addSource(src *source)
}
