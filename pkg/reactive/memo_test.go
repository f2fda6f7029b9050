package reactive

import "testing"

func TestMemoIsLazy(t *testing.T) {
	computations := 0
	m := NewMemo(func() int {
		computations++
		return 42
	})

	if computations != 0 {
		t.Error("memo should not compute before first read")
	}

	if m.Get() != 42 {
		t.Errorf("expected 42, got %d", m.Get())
	}
	if computations != 1 {
		t.Errorf("expected 1 computation, got %d", computations)
	}
}

func TestMemoCaches(t *testing.T) {
	count := NewSignal(1)

	computations := 0
	m := NewMemo(func() int {
		computations++
		return count.Get() * 2
	})

	_ = m.Get()
	_ = m.Get()
	_ = m.Get()

	if computations != 1 {
		t.Errorf("repeated reads should hit the cache, computations = %d", computations)
	}
}

func TestMemoRecomputesOnDependencyChange(t *testing.T) {
	count := NewSignal(1)
	m := NewMemo(func() int { return count.Get() * 2 })

	if m.Get() != 2 {
		t.Errorf("expected 2, got %d", m.Get())
	}

	count.Set(5)
	if m.Get() != 10 {
		t.Errorf("expected 10 after change, got %d", m.Get())
	}
}

func TestMemoCoalescesMultipleChanges(t *testing.T) {
	count := NewSignal(1)

	computations := 0
	m := NewMemo(func() int {
		computations++
		return count.Get()
	})

	_ = m.Get()
	count.Set(2)
	count.Set(3)
	count.Set(4)
	_ = m.Get()

	// One initial computation plus one for the final read.
	if computations != 2 {
		t.Errorf("expected 2 computations, got %d", computations)
	}
}

func TestMemoChaining(t *testing.T) {
	count := NewSignal(1)
	doubled := NewMemo(func() int { return count.Get() * 2 })
	quadrupled := NewMemo(func() int { return doubled.Get() * 2 })

	if quadrupled.Get() != 4 {
		t.Errorf("expected 4, got %d", quadrupled.Get())
	}

	count.Set(3)
	if quadrupled.Get() != 12 {
		t.Errorf("expected 12, got %d", quadrupled.Get())
	}
}

func TestMemoNotifiesEffect(t *testing.T) {
	count := NewSignal(1)
	doubled := NewMemo(func() int { return count.Get() * 2 })

	var observed []int
	NewEffect(func() Cleanup {
		observed = append(observed, doubled.Get())
		return nil
	})

	count.Set(4)

	if len(observed) != 2 {
		t.Fatalf("expected 2 effect runs, got %d", len(observed))
	}
	if observed[1] != 8 {
		t.Errorf("expected effect to observe 8, got %d", observed[1])
	}
}
