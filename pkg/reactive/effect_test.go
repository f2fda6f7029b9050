package reactive

import "testing"

func TestEffectRunsImmediately(t *testing.T) {
	runs := 0
	NewEffect(func() Cleanup {
		runs++
		return nil
	})

	if runs != 1 {
		t.Errorf("effect should run on creation, runs = %d", runs)
	}
}

func TestEffectRerunsOnDependencyChange(t *testing.T) {
	count := NewSignal(0)

	var observed []int
	NewEffect(func() Cleanup {
		observed = append(observed, count.Get())
		return nil
	})

	count.Set(1)
	count.Set(2)

	if len(observed) != 3 {
		t.Fatalf("expected 3 runs, got %d", len(observed))
	}
	if observed[2] != 2 {
		t.Errorf("expected final observation 2, got %d", observed[2])
	}
}

func TestEffectNotificationIsSynchronous(t *testing.T) {
	count := NewSignal(0)

	latest := -1
	NewEffect(func() Cleanup {
		latest = count.Get()
		return nil
	})

	count.Set(7)
	// No scheduling: by the time Set returns, the effect has re-run.
	if latest != 7 {
		t.Errorf("expected 7 immediately after Set, got %d", latest)
	}
}

func TestEffectCleanupRunsBeforeRerun(t *testing.T) {
	count := NewSignal(0)

	var events []string
	NewEffect(func() Cleanup {
		n := count.Get()
		events = append(events, "run")
		_ = n
		return func() { events = append(events, "cleanup") }
	})

	count.Set(1)

	want := []string{"run", "cleanup", "run"}
	if len(events) != len(want) {
		t.Fatalf("expected %v, got %v", want, events)
	}
	for i := range want {
		if events[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, events)
		}
	}
}

func TestEffectDispose(t *testing.T) {
	count := NewSignal(0)

	runs := 0
	cleaned := false
	e := NewEffect(func() Cleanup {
		_ = count.Get()
		runs++
		return func() { cleaned = true }
	})

	e.Dispose()
	if !cleaned {
		t.Error("dispose should run the cleanup")
	}

	count.Set(1)
	if runs != 1 {
		t.Errorf("disposed effect should not re-run, runs = %d", runs)
	}
}

func TestEffectDisposedWithOwner(t *testing.T) {
	count := NewSignal(0)
	owner := NewOwner(nil)

	runs := 0
	WithOwner(owner, func() {
		NewEffect(func() Cleanup {
			_ = count.Get()
			runs++
			return nil
		})
	})

	owner.Dispose()
	count.Set(1)

	if runs != 1 {
		t.Errorf("effect owned by a disposed owner should not re-run, runs = %d", runs)
	}
}

func TestBatchCoalescesNotifications(t *testing.T) {
	a := NewSignal(0)
	b := NewSignal(0)

	runs := 0
	NewEffect(func() Cleanup {
		_ = a.Get()
		_ = b.Get()
		runs++
		return nil
	})

	Batch(func() {
		a.Set(1)
		b.Set(2)
	})

	if runs != 2 {
		t.Errorf("batch should coalesce to one re-run, runs = %d", runs)
	}
}

func TestNestedBatch(t *testing.T) {
	a := NewSignal(0)

	runs := 0
	NewEffect(func() Cleanup {
		_ = a.Get()
		runs++
		return nil
	})

	Batch(func() {
		a.Set(1)
		Batch(func() {
			a.Set(2)
		})
		// Inner batch completion must not flush early.
		if runs != 1 {
			t.Errorf("notification fired before outer batch completed, runs = %d", runs)
		}
	})

	if runs != 2 {
		t.Errorf("expected one re-run after outer batch, runs = %d", runs)
	}
}

func TestUntracked(t *testing.T) {
	a := NewSignal(0)

	runs := 0
	NewEffect(func() Cleanup {
		Untracked(func() {
			_ = a.Get()
		})
		runs++
		return nil
	})

	a.Set(1)
	if runs != 1 {
		t.Errorf("untracked read should not create a dependency, runs = %d", runs)
	}
}

func TestEffectDynamicDependencies(t *testing.T) {
	flag := NewSignal(true)
	a := NewSignal(0)
	b := NewSignal(0)

	runs := 0
	NewEffect(func() Cleanup {
		if flag.Get() {
			_ = a.Get()
		} else {
			_ = b.Get()
		}
		runs++
		return nil
	})

	flag.Set(false) // now depends on b, not a
	runsAfterSwitch := runs

	a.Set(1)
	if runs != runsAfterSwitch {
		t.Error("stale dependency on a should have been dropped")
	}

	b.Set(1)
	if runs != runsAfterSwitch+1 {
		t.Error("new dependency on b should trigger a re-run")
	}
}

func TestOnMountAndOnUnmount(t *testing.T) {
	owner := NewOwner(nil)

	mounted := false
	unmounted := false
	WithOwner(owner, func() {
		OnMount(func() { mounted = true })
		OnUnmount(func() { unmounted = true })
	})

	if !mounted {
		t.Error("OnMount should run immediately")
	}
	if unmounted {
		t.Error("OnUnmount should not run before dispose")
	}

	owner.Dispose()
	if !unmounted {
		t.Error("OnUnmount should run on dispose")
	}
}
