// Package testing provides test utilities and helpers for sense bridges and
// accessors.
package testing

import (
	"sync"
	"testing"
	"time"

	"github.com/zoobzio/sense"
)

// WaitFor polls a condition until it returns true or timeout is reached.
// Returns true if the condition was met, false if timeout occurred.
func WaitFor(t *testing.T, timeout time.Duration, condition func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return false
}

// WaitForState waits until the bridge reaches the expected state or timeout occurs.
func WaitForState[T any](t *testing.T, b *sense.Bridge[T], expected sense.State, timeout time.Duration) bool {
	t.Helper()
	return WaitFor(t, timeout, func() bool {
		return b.State() == expected
	})
}

// RequireState fails the test immediately if the bridge is not in the expected state.
func RequireState[T any](t *testing.T, b *sense.Bridge[T], expected sense.State) {
	t.Helper()
	if got := b.State(); got != expected {
		t.Fatalf("expected state %s, got %s", expected, got)
	}
}

// RequireSnapshot fails the test if the accessor's snapshot support flag
// differs from support or check rejects the value.
func RequireSnapshot[T any](t *testing.T, a *sense.Accessor[T], support bool, check func(T) bool) {
	t.Helper()
	s := a.Current()
	if s.Support != support {
		t.Fatalf("expected support %v, got %v (value %+v)", support, s.Support, s.Value)
	}
	if check != nil && !check(s.Value) {
		t.Fatalf("snapshot check failed: %+v", s.Value)
	}
}

// Recorder collects every snapshot published to an accessor.
type Recorder[T any] struct {
	mu        sync.Mutex
	snapshots []sense.Snapshot[T]
	stop      func()
}

// Record subscribes a Recorder to a. The subscription is removed when the
// test ends.
func Record[T any](t *testing.T, a *sense.Accessor[T]) *Recorder[T] {
	t.Helper()
	r := &Recorder[T]{}
	r.stop = a.OnChange(func(s sense.Snapshot[T]) {
		r.mu.Lock()
		r.snapshots = append(r.snapshots, s)
		r.mu.Unlock()
	})
	t.Cleanup(r.stop)
	return r
}

// Snapshots returns a copy of the recorded snapshots, oldest first.
func (r *Recorder[T]) Snapshots() []sense.Snapshot[T] {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]sense.Snapshot[T](nil), r.snapshots...)
}

// Count returns the number of recorded snapshots.
func (r *Recorder[T]) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.snapshots)
}

// Last returns the most recent snapshot and whether one was recorded.
func (r *Recorder[T]) Last() (sense.Snapshot[T], bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.snapshots) == 0 {
		var zero sense.Snapshot[T]
		return zero, false
	}
	return r.snapshots[len(r.snapshots)-1], true
}

// WaitForCount waits until at least n snapshots were recorded.
func (r *Recorder[T]) WaitForCount(t *testing.T, n int, timeout time.Duration) bool {
	t.Helper()
	return WaitFor(t, timeout, func() bool {
		return r.Count() >= n
	})
}

// Settle gives debouncer goroutines a moment to observe a fake clock advance.
func Settle() {
	time.Sleep(10 * time.Millisecond)
}
