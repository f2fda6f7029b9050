package store

import (
	"github.com/statekit-dev/statekit/pkg/reactive"
)

// StoreContext pairs a Store with a reactive context so a provider scope can
// publish the store to its subtree. The channel is tree-scoped: it exists
// for descendants of the providing scope and nobody else, and it is torn
// down when that scope is disposed.
type StoreContext[S any] struct {
	// accessor is the name reported by MissingProviderError, e.g.
	// "counter.Use".
	accessor string

	ctx *reactive.Context[*Store[S]]
}

// NewStoreContext creates a store context. The accessor name appears in the
// missing-provider error so the failing call site is identifiable.
func NewStoreContext[S any](accessor string) *StoreContext[S] {
	return &StoreContext[S]{
		accessor: accessor,
		ctx:      reactive.NewContext[*Store[S]](nil),
	}
}

// Provide publishes the store on the current owner scope.
func (c *StoreContext[S]) Provide(s *Store[S]) {
	c.ctx.Provide(s)
}

// ProvideOn publishes the store on a specific owner scope.
func (c *StoreContext[S]) ProvideOn(owner *reactive.Owner, s *Store[S]) {
	c.ctx.ProvideOn(owner, s)
}

// Mount creates a provider scope under parent carrying the store. Disposing
// the returned scope unmounts the provider: the channel disappears for the
// whole subtree.
func (c *StoreContext[S]) Mount(parent *reactive.Owner, s *Store[S]) *reactive.Owner {
	scope := reactive.NewOwner(parent)
	c.ctx.ProvideOn(scope, s)
	return scope
}

// Use returns the store provided by the nearest ancestor scope. With no
// enclosing provider it returns a MissingProviderError naming the accessor;
// there is no silent default, misuse fails loudly.
func (c *StoreContext[S]) Use() (*Store[S], error) {
	if s, ok := c.ctx.Lookup(); ok && s != nil {
		return s, nil
	}
	return nil, &MissingProviderError{Accessor: c.accessor}
}

// MustUse is Use for call sites where a missing provider is a programming
// error worth halting on.
func (c *StoreContext[S]) MustUse() *Store[S] {
	s, err := c.Use()
	if err != nil {
		panic(err)
	}
	return s
}
