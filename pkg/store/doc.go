// Package store implements reducer-driven state containers with tree-scoped
// sharing.
//
// A Store owns one piece of state and the only way to change it: Dispatch.
// Dispatch runs a pure reducer over the current state and the given action;
// on success the store replaces its state and synchronously notifies every
// subscriber before Dispatch returns. A failed reduction leaves the state
// untouched and notifies nobody.
//
// Actions are a closed set of variants: each implements the Action interface,
// and reducers match on the concrete type. The unsupported-action error
// remains for variants that arrive from outside the type system, e.g. decoded
// off the wire.
//
// A StoreContext pairs a store with a reactive context so a provider scope
// can publish the store to its subtree. Consumers call Use, which fails with
// a missing-provider error when no enclosing scope has provided the store.
//
//	var Ctx = store.NewStoreContext[State]("counter.Use")
//
//	scope := Ctx.Mount(root, store.New(State{}, Reduce))
//	defer scope.Dispose()
//
//	reactive.WithOwner(scope, func() {
//	    st, err := Ctx.Use()
//	    ...
//	})
package store
