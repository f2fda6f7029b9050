package store

import (
	"errors"
	"strings"
	"testing"

	"github.com/statekit-dev/statekit/pkg/reactive"
)

var todosCtx = NewStoreContext[todoState]("todos.Use")

func TestUseOutsideProviderFails(t *testing.T) {
	root := reactive.NewOwner(nil)

	reactive.WithOwner(root, func() {
		_, err := todosCtx.Use()
		if !errors.Is(err, ErrNoProvider) {
			t.Fatalf("expected ErrNoProvider, got %v", err)
		}

		var detail *MissingProviderError
		if !errors.As(err, &detail) {
			t.Fatal("expected MissingProviderError detail")
		}
		if detail.Accessor != "todos.Use" {
			t.Errorf("error should name the accessor, got %q", detail.Accessor)
		}
		if !strings.Contains(err.Error(), "todos.Use") {
			t.Errorf("error string should name the accessor: %s", err)
		}
	})
}

func TestUseWithNoOwnerFails(t *testing.T) {
	// Not even a scope on this goroutine.
	_, err := todosCtx.Use()
	if !errors.Is(err, ErrNoProvider) {
		t.Fatalf("expected ErrNoProvider, got %v", err)
	}
}

func TestMountAndUse(t *testing.T) {
	root := reactive.NewOwner(nil)
	s := New(todoState{}, reduceTodos)

	scope := todosCtx.Mount(root, s)
	defer scope.Dispose()

	child := reactive.NewOwner(scope)
	reactive.WithOwner(child, func() {
		got, err := todosCtx.Use()
		if err != nil {
			t.Fatalf("Use failed under provider: %v", err)
		}
		if got != s {
			t.Error("Use should return the mounted store")
		}
	})
}

func TestProvidersAreIsolated(t *testing.T) {
	root := reactive.NewOwner(nil)

	storeA := New(todoState{}, reduceTodos)
	storeB := New(todoState{}, reduceTodos)

	scopeA := todosCtx.Mount(root, storeA)
	scopeB := todosCtx.Mount(root, storeB)
	defer scopeA.Dispose()
	defer scopeB.Dispose()

	reactive.WithOwner(scopeA, func() {
		got, err := todosCtx.Use()
		if err != nil {
			t.Fatal(err)
		}
		_ = got.Dispatch(addItem{Text: "a"})
	})

	reactive.WithOwner(scopeB, func() {
		got, err := todosCtx.Use()
		if err != nil {
			t.Fatal(err)
		}
		if len(got.Peek().Items) != 0 {
			t.Error("second provider should not observe the first provider's state")
		}
	})
}

func TestUnmountTearsDownChannel(t *testing.T) {
	root := reactive.NewOwner(nil)
	s := New(todoState{}, reduceTodos)

	scope := todosCtx.Mount(root, s)
	scope.Dispose()

	reactive.WithOwner(scope, func() {
		_, err := todosCtx.Use()
		if !errors.Is(err, ErrNoProvider) {
			t.Errorf("unmounted provider should yield ErrNoProvider, got %v", err)
		}
	})
}

func TestMustUsePanicsOutsideProvider(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustUse should panic outside a provider")
		}
	}()

	root := reactive.NewOwner(nil)
	reactive.WithOwner(root, func() {
		_ = todosCtx.MustUse()
	})
}
