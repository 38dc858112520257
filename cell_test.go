package sense

import (
	"slices"
	"sync"
	"testing"
)

func TestCell_GetSet(t *testing.T) {
	c := NewCell(DefaultSnapshot(3))
	if s := c.Get(); s.Support || s.Value != 3 {
		t.Fatalf("unexpected initial snapshot %+v", s)
	}
	c.Set(Snapshot[int]{Support: true, Value: 4})
	if s := c.Get(); !s.Support || s.Value != 4 {
		t.Errorf("unexpected snapshot %+v", s)
	}
}

func TestCell_Subscribe(t *testing.T) {
	c := NewCell(DefaultSnapshot(0))
	var got []int
	unsubscribe := c.Subscribe(func(s Snapshot[int]) { got = append(got, s.Value) })

	c.Set(Snapshot[int]{Support: true, Value: 1})
	c.Set(Snapshot[int]{Support: true, Value: 2})
	unsubscribe()
	c.Set(Snapshot[int]{Support: true, Value: 3})

	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Errorf("expected [1 2], got %v", got)
	}
}

func TestCell_StaleNotifySkipped(t *testing.T) {
	c := NewCell(DefaultSnapshot(0))
	var got []int
	c.Subscribe(func(s Snapshot[int]) { got = append(got, s.Value) })

	v1 := c.swap(Snapshot[int]{Support: true, Value: 1})
	v2 := c.swap(Snapshot[int]{Support: true, Value: 2})
	c.notify(v2)
	c.notify(v1)

	if len(got) != 1 || got[0] != 2 {
		t.Errorf("expected only the newest snapshot delivered, got %v", got)
	}
}

func TestCell_ObserverMayReadAndSubscribe(t *testing.T) {
	c := NewCell(DefaultSnapshot(0))
	var seen int
	c.Subscribe(func(s Snapshot[int]) {
		seen = c.Get().Value
		c.Subscribe(func(Snapshot[int]) {})
	})
	c.Set(Snapshot[int]{Support: true, Value: 9})
	if seen != 9 {
		t.Errorf("expected 9, got %d", seen)
	}
}

func TestCell_ObserverMaySet(t *testing.T) {
	c := NewCell(DefaultSnapshot(0))
	var got []int
	c.Subscribe(func(s Snapshot[int]) {
		got = append(got, s.Value)
		if s.Value < 3 {
			c.Set(Snapshot[int]{Support: true, Value: s.Value + 1})
		}
	})

	c.Set(Snapshot[int]{Support: true, Value: 1})

	if !slices.Equal(got, []int{1, 2, 3}) {
		t.Errorf("expected [1 2 3] in order, got %v", got)
	}
	if c.Get().Value != 3 {
		t.Errorf("expected 3, got %d", c.Get().Value)
	}
}

func TestCell_ObserverPanicReleasesDelivery(t *testing.T) {
	c := NewCell(DefaultSnapshot(0))
	var got []int
	c.Subscribe(func(s Snapshot[int]) {
		if s.Value == 1 {
			panic("observer exploded")
		}
		got = append(got, s.Value)
	})

	func() {
		defer func() { _ = recover() }()
		c.Set(Snapshot[int]{Support: true, Value: 1})
	}()
	c.Set(Snapshot[int]{Support: true, Value: 2})

	if !slices.Equal(got, []int{2}) {
		t.Errorf("expected [2], got %v", got)
	}
}

func TestCell_ConcurrentSetsDeliverNewest(t *testing.T) {
	c := NewCell(DefaultSnapshot(0))
	var mu sync.Mutex
	var last Snapshot[int]
	c.Subscribe(func(s Snapshot[int]) {
		mu.Lock()
		defer mu.Unlock()
		last = s
	})

	var wg sync.WaitGroup
	for i := 1; i <= 50; i++ {
		wg.Add(1)
		go func(v int) {
			defer wg.Done()
			c.Set(Snapshot[int]{Support: true, Value: v})
		}(i)
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	if last != c.Get() {
		t.Errorf("expected the last delivered snapshot %+v to match the cell %+v", last, c.Get())
	}
}
