package sense

import (
	"math"
	"sync"
	"time"

	"github.com/zoobzio/clockz"
)

// DefaultWait is the quiet window applied when no positive wait is configured.
const DefaultWait = 80 * time.Millisecond

// Debouncer coalesces bursts of calls into a single trailing invocation.
// At most one invocation is pending at any time; each Call replaces it.
type Debouncer struct {
	fn    func()
	wait  time.Duration
	clock clockz.Clock

	mu     sync.Mutex
	timer  clockz.Timer
	stop   chan struct{}
	gen    uint64
	closed bool
}

// Debounce wraps fn so that it runs once wait has elapsed since the most
// recent Call. A non-positive wait falls back to DefaultWait and a nil clock
// falls back to the real clock.
//
// fn takes no arguments: it is expected to read live state when it fires,
// not state captured at call time.
func Debounce(fn func(), wait time.Duration, clock clockz.Clock) *Debouncer {
	if wait <= 0 {
		wait = DefaultWait
	}
	if clock == nil {
		clock = clockz.RealClock
	}
	return &Debouncer{fn: fn, wait: wait, clock: clock}
}

// WaitFromMillis converts a millisecond count, as found in option documents,
// into a wait duration. Non-finite and non-positive values yield DefaultWait.
func WaitFromMillis(ms float64) time.Duration {
	if math.IsNaN(ms) || math.IsInf(ms, 0) || ms <= 0 {
		return DefaultWait
	}
	return time.Duration(ms * float64(time.Millisecond))
}

// Wait returns the effective quiet window.
func (d *Debouncer) Wait() time.Duration {
	return d.wait
}

// Call schedules fn after the quiet window, cancelling any pending invocation.
// Calls after Stop are ignored.
func (d *Debouncer) Call() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return
	}
	d.stopLocked()
	d.gen++
	timer := d.clock.NewTimer(d.wait)
	stop := make(chan struct{})
	d.timer, d.stop = timer, stop

	go d.await(d.gen, timer, stop)
}

// Cancel discards any pending invocation. Safe to call repeatedly.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopLocked()
}

// Stop discards any pending invocation and ignores every later Call.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	d.stopLocked()
}

// Pending reports whether an invocation is scheduled.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

func (d *Debouncer) stopLocked() {
	if d.timer == nil {
		return
	}
	d.timer.Stop()
	close(d.stop)
	d.timer, d.stop = nil, nil
}

// await fires fn if its generation is still the current one when the timer
// expires. fn runs outside the lock so it may call back into the Debouncer.
func (d *Debouncer) await(gen uint64, timer clockz.Timer, stop <-chan struct{}) {
	select {
	case <-stop:
		return
	case <-timer.C():
	}

	d.mu.Lock()
	if gen != d.gen || d.timer == nil {
		d.mu.Unlock()
		return
	}
	d.timer, d.stop = nil, nil
	d.mu.Unlock()

	d.fn()
}
