package server

import (
	"encoding/json"

	"github.com/statekit-dev/statekit/pkg/store"
)

// SyncTarget is a store exposed over the wire. It erases the state type so
// the server can serve stores of different shapes side by side.
type SyncTarget interface {
	// Name is the identifier clients use in the hello frame.
	Name() string

	// StateJSON returns the current state serialized as JSON.
	StateJSON() ([]byte, error)

	// Subscribe registers an observer called with each committed state,
	// already serialized. The returned cancel removes the observer.
	Subscribe(fn func(stateJSON []byte)) (cancel func())

	// Dispatch decodes a wire tag and dispatches the resulting action.
	Dispatch(tag string) error
}

// ActionDecoder maps a wire tag to an action. Unrecognized tags should
// decode to a variant the reducer rejects.
type ActionDecoder func(tag string) store.Action

type target[S any] struct {
	store  *store.Store[S]
	decode ActionDecoder
}

// Target wraps a reducer store and its action decoder as a SyncTarget.
func Target[S any](s *store.Store[S], decode ActionDecoder) SyncTarget {
	return &target[S]{store: s, decode: decode}
}

func (t *target[S]) Name() string {
	return t.store.Name()
}

func (t *target[S]) StateJSON() ([]byte, error) {
	return json.Marshal(t.store.Peek())
}

func (t *target[S]) Subscribe(fn func(stateJSON []byte)) (cancel func()) {
	return t.store.Subscribe(func(state S) {
		data, err := json.Marshal(state)
		if err != nil {
			// State marshaled on registration; a later failure means the
			// state type changed shape at runtime, which JSON types don't.
			return
		}
		fn(data)
	})
}

func (t *target[S]) Dispatch(tag string) error {
	return t.store.Dispatch(t.decode(tag))
}
