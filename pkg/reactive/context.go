package reactive

// Context provides dependency injection through the owner tree. Create one
// with NewContext, publish values with Provide inside an owner scope, and
// read them from descendant scopes with Use or Lookup.
//
// The context handle is an explicit value: callers hold a *Context[T] rather
// than addressing an implicit global by name, and the value travels only
// through the owner chain. Sibling scopes never observe each other's values.
//
// Example:
//
//	var Theme = reactive.NewContext("light")
//
//	reactive.WithOwner(appScope, func() {
//	    Theme.Provide("dark")
//	})
//
//	reactive.WithOwner(childScope, func() {
//	    theme := Theme.Use() // "dark"
//	})
type Context[T any] struct {
	// key uniquely identifies this context in owner value maps. The handle
	// itself is the key, so two contexts of the same type never collide.
	key any

	defaultValue T
}

// contextKey wraps the context pointer to give each handle a distinct key.
type contextKey[T any] struct {
	ctx *Context[T]
}

// NewContext creates a context with the given default value. Use returns
// the default when no scope in the ancestor chain has provided a value.
func NewContext[T any](defaultValue T) *Context[T] {
	c := &Context[T]{defaultValue: defaultValue}
	c.key = contextKey[T]{ctx: c}
	return c
}

// Provide publishes value on the current owner scope. Descendant scopes
// observe it via Use or Lookup until the owner is disposed. Providing with
// no current owner is a no-op.
func (c *Context[T]) Provide(value T) {
	if o := CurrentOwner(); o != nil {
		o.SetValue(c.key, value)
	}
}

// ProvideOn publishes value on a specific owner, for callers holding an
// explicit scope rather than relying on the goroutine's current one.
func (c *Context[T]) ProvideOn(owner *Owner, value T) {
	if owner != nil {
		owner.SetValue(c.key, value)
	}
}

// Use returns the value from the nearest providing ancestor scope, or the
// default when no provider is in scope.
func (c *Context[T]) Use() T {
	if v, ok := c.Lookup(); ok {
		return v
	}
	return c.defaultValue
}

// Lookup returns the provided value and true, or the zero value and false
// when no ancestor scope has provided one. Callers that must distinguish
// "no provider" from the default value use this form.
func (c *Context[T]) Lookup() (T, bool) {
	if o := CurrentOwner(); o != nil {
		if v := o.GetValue(c.key); v != nil {
			if typed, ok := v.(T); ok {
				return typed, true
			}
		}
	}
	var zero T
	return zero, false
}

// Default returns the context's default value.
func (c *Context[T]) Default() T {
	return c.defaultValue
}
