// Package reactive provides the reactive core for statekit.
//
// Dependencies are tracked automatically at runtime: reading a signal while
// a listener is active (an effect run or memo computation) subscribes that
// listener to the signal's changes.
//
// # Core Types
//
// Signal[T] is a reactive value container:
//
//	count := reactive.NewSignal(0)
//	value := count.Get()  // Read (subscribes current listener)
//	count.Set(5)          // Write (notifies subscribers)
//	count.Update(func(n int) int { return n + 1 })
//
// Memo[T] is a cached derived computation:
//
//	doubled := reactive.NewMemo(func() int { return count.Get() * 2 })
//
// Effect runs side effects when dependencies change:
//
//	reactive.NewEffect(func() reactive.Cleanup {
//	    fmt.Println("count is", count.Get())
//	    return nil
//	})
//
// # Scopes
//
// Owner forms a scope tree that mirrors a component tree. Context values set
// on an owner are visible to all descendant owners, which is the basis of the
// provider/consumer pattern in package store. Disposing an owner disposes its
// children, effects, and cleanups.
//
// # Thread Safety
//
// All reactive primitives are safe for concurrent use. The tracking context
// is per-goroutine, so work spawned on another goroutine must re-establish
// its scope with WithOwner.
package reactive
