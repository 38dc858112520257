package sense

import (
	"sync"
	"sync/atomic"
)

// Cell holds the published snapshot of a feature and notifies observers
// when it changes. It is the state container a UI layer reads from; the
// UI owns scheduling of its own re-render.
type Cell[T any] struct {
	current atomic.Pointer[versioned[T]]
	version atomic.Uint64

	mu         sync.Mutex
	observers  map[uint64]func(Snapshot[T])
	nextID     uint64
	notified   uint64
	delivering bool
}

type versioned[T any] struct {
	snapshot Snapshot[T]
	version  uint64
}

// NewCell creates a Cell holding initial.
func NewCell[T any](initial Snapshot[T]) *Cell[T] {
	c := &Cell[T]{observers: make(map[uint64]func(Snapshot[T]))}
	c.current.Store(&versioned[T]{snapshot: initial})
	return c
}

// Get returns the current snapshot.
func (c *Cell[T]) Get() Snapshot[T] {
	return c.current.Load().snapshot
}

// Set replaces the snapshot and notifies observers.
func (c *Cell[T]) Set(s Snapshot[T]) {
	c.notify(c.swap(s))
}

// Subscribe registers fn to receive every new snapshot. The returned
// function removes the observer.
func (c *Cell[T]) Subscribe(fn func(Snapshot[T])) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nextID++
	id := c.nextID
	c.observers[id] = fn
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.observers, id)
	}
}

// swap stores s without notifying and returns its version. Bridges call it
// while holding their own lock and notify once released.
func (c *Cell[T]) swap(s Snapshot[T]) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	v := c.version.Add(1)
	c.current.Store(&versioned[T]{snapshot: s, version: v})
	return v
}

// notify delivers the current snapshot to observers unless a newer version
// was already delivered. Only one goroutine delivers at a time; a notify that
// arrives while another is delivering, including one made from inside an
// observer, is picked up by the delivering goroutine once its observers
// return. No lock is held while observers run.
func (c *Cell[T]) notify(version uint64) {
	c.mu.Lock()
	if c.delivering || version <= c.notified {
		c.mu.Unlock()
		return
	}
	c.delivering = true

	done := false
	defer func() {
		if !done {
			c.mu.Lock()
			c.delivering = false
			c.mu.Unlock()
		}
	}()

	for {
		cur := c.current.Load()
		if cur.version <= c.notified {
			c.delivering = false
			done = true
			c.mu.Unlock()
			return
		}
		c.notified = cur.version
		observers := make([]func(Snapshot[T]), 0, len(c.observers))
		for _, fn := range c.observers {
			observers = append(observers, fn)
		}
		c.mu.Unlock()

		for _, fn := range observers {
			fn(cur.snapshot)
		}
		c.mu.Lock()
	}
}
