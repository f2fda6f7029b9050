package reactive

import "testing"

func TestContextDefault(t *testing.T) {
	theme := NewContext("light")

	owner := NewOwner(nil)
	WithOwner(owner, func() {
		if theme.Use() != "light" {
			t.Errorf("expected default 'light', got %q", theme.Use())
		}
		if _, ok := theme.Lookup(); ok {
			t.Error("Lookup should report no provider")
		}
	})
}

func TestContextProvideUse(t *testing.T) {
	theme := NewContext("light")

	parent := NewOwner(nil)
	child := NewOwner(parent)

	WithOwner(parent, func() {
		theme.Provide("dark")
	})

	WithOwner(child, func() {
		if theme.Use() != "dark" {
			t.Errorf("expected 'dark', got %q", theme.Use())
		}
		v, ok := theme.Lookup()
		if !ok || v != "dark" {
			t.Errorf("Lookup should find 'dark', got %q, %v", v, ok)
		}
	})
}

func TestContextScopedToSubtree(t *testing.T) {
	theme := NewContext("light")

	parent := NewOwner(nil)
	provider := NewOwner(parent)
	sibling := NewOwner(parent)

	theme.ProvideOn(provider, "dark")

	WithOwner(sibling, func() {
		if theme.Use() != "light" {
			t.Error("sibling of the provider should see the default")
		}
	})
}

func TestTwoContextsSameTypeDoNotCollide(t *testing.T) {
	a := NewContext("a-default")
	b := NewContext("b-default")

	owner := NewOwner(nil)
	WithOwner(owner, func() {
		a.Provide("a-value")

		if b.Use() != "b-default" {
			t.Error("providing on one context should not leak into another of the same type")
		}
	})
}

func TestContextUseWithNoOwner(t *testing.T) {
	c := NewContext(42)

	// No owner installed on this goroutine: Use falls back to the default.
	if c.Use() != 42 {
		t.Errorf("expected default 42, got %d", c.Use())
	}
}

func TestContextProvideAfterDispose(t *testing.T) {
	c := NewContext("default")

	owner := NewOwner(nil)
	c.ProvideOn(owner, "value")
	owner.Dispose()

	WithOwner(owner, func() {
		if c.Use() != "default" {
			t.Error("disposed provider scope should not yield a value")
		}
	})
}
