package sense

import "sync"

// errorLog keeps the most recent error and, when sized, a bounded history of
// earlier ones.
type errorLog struct {
	mu    sync.RWMutex
	last  error
	ring  []error
	head  int
	count int
}

// newErrorLog creates a log retaining up to size errors of history. A size
// of zero or less keeps only the last error.
func newErrorLog(size int) *errorLog {
	l := &errorLog{}
	if size > 0 {
		l.ring = make([]error, size)
	}
	return l
}

// record stores err as the latest error and appends it to the history.
func (l *errorLog) record(err error) {
	if err == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	l.last = err
	if len(l.ring) == 0 {
		return
	}
	l.ring[l.head] = err
	l.head = (l.head + 1) % len(l.ring)
	if l.count < len(l.ring) {
		l.count++
	}
}

// latest returns the most recent error, or nil.
func (l *errorLog) latest() error {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.last
}

// history returns the retained errors, oldest first. Nil when history is
// disabled or empty.
func (l *errorLog) history() []error {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.count == 0 {
		return nil
	}
	size := len(l.ring)
	result := make([]error, l.count)
	start := (l.head - l.count + size) % size
	for i := 0; i < l.count; i++ {
		result[i] = l.ring[(start+i)%size]
	}
	return result
}
