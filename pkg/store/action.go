package store

// Action is a state transition request. Actions form a closed set of
// variants per store: each variant is its own type, and reducers switch on
// the concrete type rather than a string tag, so a missing case is visible
// at the switch instead of scattered through the codebase.
//
// ActionType returns the wire tag for the variant (e.g. "INCREMENT"). Tags
// only matter at process boundaries; in-process dispatch goes by type.
type Action interface {
	ActionType() string
}

// Reducer is a pure transition function: given the current state and an
// action it returns the next state, or an error when the action is not a
// recognized variant. Reducers must not mutate the state they receive and
// must not cause side effects; the store handles notification.
type Reducer[S any] func(state S, action Action) (S, error)

// DispatchFunc applies one action to a store.
type DispatchFunc func(Action) error

// Middleware wraps dispatch, running code before and after the reducer.
// Middleware composes outermost-first, like HTTP middleware:
//
//	store.New(initial, reduce,
//	    store.WithMiddleware(middleware.Prometheus(), middleware.OpenTelemetry()),
//	)
type Middleware func(next DispatchFunc) DispatchFunc
