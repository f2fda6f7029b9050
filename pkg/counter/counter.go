// Package counter is the canonical statekit example: a single-field state
// container driven by one action, shared through a provider scope.
//
// Mount a provider, then consume from anywhere in its subtree:
//
//	scope := counter.Context.Mount(root, counter.NewStore())
//	defer scope.Dispose()
//
//	reactive.WithOwner(scope, func() {
//	    h, err := counter.Use()
//	    if err != nil { ... }
//	    _ = h.Increment()
//	})
package counter

import (
	"github.com/statekit-dev/statekit/pkg/store"
)

// State is the counter's state. Count starts at 0 and only the reducer
// changes it.
type State struct {
	Count int `json:"count"`
}

// Increment is the only recognized action.
type Increment struct{}

// ActionType implements store.Action.
func (Increment) ActionType() string { return "INCREMENT" }

// wireAction carries an unrecognized tag from a process boundary into the
// reducer, where it is rejected with the unsupported-action error.
type wireAction string

func (a wireAction) ActionType() string { return string(a) }

// Reduce is the counter's transition function. Increment returns a new state
// with Count+1; any other variant fails and leaves the state unchanged.
func Reduce(s State, a store.Action) (State, error) {
	switch a.(type) {
	case Increment:
		return State{Count: s.Count + 1}, nil
	default:
		return s, store.NewUnhandledActionError(a)
	}
}

// Context is the counter's ambient channel. The accessor name shows up in
// the missing-provider error.
var Context = store.NewStoreContext[State]("counter.Use")

// NewStore creates a counter store with Count = 0.
func NewStore(opts ...store.Option[State]) *store.Store[State] {
	return NewStoreFrom(State{}, opts...)
}

// NewStoreFrom creates a counter store seeded with an initial state, e.g.
// one restored from a snapshot.
func NewStoreFrom(initial State, opts ...store.Option[State]) *store.Store[State] {
	base := []store.Option[State]{store.WithName[State]("counter")}
	return store.New(initial, Reduce, append(base, opts...)...)
}

// Handle is what consumers get back from Use: the state as of the access,
// the raw dispatch capability, and bound conveniences for each action.
type Handle struct {
	State    State
	Store    *store.Store[State]
	Dispatch store.DispatchFunc
}

// Increment dispatches the Increment action.
func (h Handle) Increment() error {
	return h.Dispatch(Increment{})
}

// Use reads the counter from the nearest provider scope. Outside any
// provider it returns a MissingProviderError naming counter.Use.
//
// Extending the action set means adding a reducer case and a corresponding
// bound convenience here; nothing else changes.
func Use() (Handle, error) {
	st, err := Context.Use()
	if err != nil {
		return Handle{}, err
	}
	return Handle{
		State:    st.State(),
		Store:    st,
		Dispatch: st.Dispatch,
	}, nil
}

// DecodeAction maps a wire tag to an action. Unrecognized tags decode to a
// variant the reducer rejects, so the unsupported-action failure surfaces
// through Dispatch exactly as it does for in-process misuse.
func DecodeAction(tag string) store.Action {
	switch tag {
	case "INCREMENT":
		return Increment{}
	default:
		return wireAction(tag)
	}
}
