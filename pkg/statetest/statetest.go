// Package statetest provides helpers for testing code built on statekit
// stores: a harness that mounts a provider for the lifetime of a test,
// transition recording, and assertion helpers.
package statetest

import (
	"errors"
	"reflect"
	"sync"
	"testing"

	"github.com/statekit-dev/statekit/pkg/reactive"
	"github.com/statekit-dev/statekit/pkg/store"
)

// NewScope creates a root owner that is disposed when the test ends.
//
// Example:
//
//	root := statetest.NewScope(t)
//	scope := counter.Context.Mount(root, counter.NewStore())
func NewScope(t *testing.T) *reactive.Owner {
	t.Helper()
	root := reactive.NewOwner(nil)
	t.Cleanup(root.Dispose)
	return root
}

// Harness mounts a store behind its context for the lifetime of a test and
// records every committed transition.
type Harness[S any] struct {
	t     *testing.T
	Store *store.Store[S]

	// Scope is the provider scope. Consumers run in children of it.
	Scope *reactive.Owner

	mu     sync.Mutex
	states []S
}

// Mount builds a harness: a fresh root owner, the store provided through
// ctx, and transition recording. Everything is torn down via t.Cleanup.
//
// Example:
//
//	h := statetest.Mount(t, counter.Context, counter.NewStore())
//	h.Consume(func() {
//	    handle, err := counter.Use()
//	    ...
//	})
func Mount[S any](t *testing.T, ctx *store.StoreContext[S], s *store.Store[S]) *Harness[S] {
	t.Helper()

	root := NewScope(t)
	scope := ctx.Mount(root, s)
	t.Cleanup(scope.Dispose)

	h := &Harness[S]{
		t:     t,
		Store: s,
		Scope: scope,
	}

	cancel := s.Subscribe(func(state S) {
		h.mu.Lock()
		h.states = append(h.states, state)
		h.mu.Unlock()
	})
	t.Cleanup(cancel)

	return h
}

// Consume runs fn inside a fresh child scope of the provider, so accessors
// resolve the mounted store.
func (h *Harness[S]) Consume(fn func()) {
	h.t.Helper()
	child := reactive.NewOwner(h.Scope)
	defer child.Dispose()
	reactive.WithOwner(child, fn)
}

// Dispatch dispatches an action on the mounted store.
func (h *Harness[S]) Dispatch(a store.Action) error {
	return h.Store.Dispatch(a)
}

// States returns the committed transitions recorded so far.
func (h *Harness[S]) States() []S {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]S, len(h.states))
	copy(out, h.states)
	return out
}

// ExpectState asserts the store's current state.
//
// Example:
//
//	h.ExpectState(counter.State{Count: 3})
func (h *Harness[S]) ExpectState(want S) {
	h.t.Helper()
	got := h.Store.Peek()
	if !reflect.DeepEqual(got, want) {
		h.t.Errorf("state = %+v, want %+v", got, want)
	}
}

// ExpectTransitions asserts the exact sequence of committed transitions.
func (h *Harness[S]) ExpectTransitions(want ...S) {
	h.t.Helper()
	got := h.States()
	if len(got) != len(want) {
		h.t.Errorf("observed %d transitions, want %d: %+v", len(got), len(want), got)
		return
	}
	for i := range want {
		if !reflect.DeepEqual(got[i], want[i]) {
			h.t.Errorf("transition %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

// ExpectDispatchFails asserts that dispatching a matches the sentinel and
// leaves the state unchanged.
//
// Example:
//
//	h.ExpectDispatchFails(counter.DecodeAction("DECREMENT"), store.ErrUnhandledAction)
func (h *Harness[S]) ExpectDispatchFails(a store.Action, sentinel error) {
	h.t.Helper()
	before := h.Store.Peek()
	err := h.Dispatch(a)
	if !errors.Is(err, sentinel) {
		h.t.Errorf("dispatch error = %v, want %v", err, sentinel)
	}
	after := h.Store.Peek()
	if !reflect.DeepEqual(before, after) {
		h.t.Errorf("failed dispatch changed state: %+v -> %+v", before, after)
	}
}

// ExpectNoProvider asserts that using an accessor outside any provider
// fails with the missing-provider error naming the accessor.
//
// Example:
//
//	statetest.ExpectNoProvider(t, func() error {
//	    _, err := counter.Use()
//	    return err
//	}, "counter.Use")
func ExpectNoProvider(t *testing.T, use func() error, accessor string) {
	t.Helper()

	root := NewScope(t)
	reactive.WithOwner(root, func() {
		err := use()
		if !errors.Is(err, store.ErrNoProvider) {
			t.Errorf("expected ErrNoProvider, got %v", err)
			return
		}
		var detail *store.MissingProviderError
		if !errors.As(err, &detail) {
			t.Error("expected MissingProviderError detail")
			return
		}
		if detail.Accessor != accessor {
			t.Errorf("accessor = %q, want %q", detail.Accessor, accessor)
		}
	})
}

// Observe runs an effect in a child of the provider scope and returns a
// function producing every value fn observed so far, including the initial
// run.
//
// Example:
//
//	counts := statetest.Observe(t, h.Scope, func() int {
//	    return h.Store.State().Count
//	})
//	...
//	if got := counts(); got[len(got)-1] != 3 { ... }
func Observe[T any](t *testing.T, scope *reactive.Owner, fn func() T) func() []T {
	t.Helper()

	var mu sync.Mutex
	var observed []T

	child := reactive.NewOwner(scope)
	t.Cleanup(child.Dispose)

	reactive.WithOwner(child, func() {
		reactive.NewEffect(func() reactive.Cleanup {
			v := fn()
			mu.Lock()
			observed = append(observed, v)
			mu.Unlock()
			return nil
		})
	})

	return func() []T {
		mu.Lock()
		defer mu.Unlock()
		out := make([]T, len(observed))
		copy(out, observed)
		return out
	}
}
