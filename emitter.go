package sense

import (
	"slices"
	"sync"
)

// EventTarget is an in-memory Emitter. Host adapters embed it to raise
// events; tests use it as a stand-in for platform objects.
//
// Adding the same handler twice for one event is ignored, matching the
// usual host semantics for listener registration.
type EventTarget struct {
	mu        sync.RWMutex
	listeners map[string][]*Handler
}

// NewEventTarget creates an empty EventTarget.
func NewEventTarget() *EventTarget {
	return &EventTarget{listeners: make(map[string][]*Handler)}
}

// AddListener registers h for event.
func (t *EventTarget) AddListener(event string, h *Handler) {
	if t == nil || h == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.listeners == nil {
		t.listeners = make(map[string][]*Handler)
	}
	for _, existing := range t.listeners[event] {
		if existing == h {
			return
		}
	}
	t.listeners[event] = append(t.listeners[event], h)
}

// RemoveListener unregisters h for event if h is the registered pointer.
func (t *EventTarget) RemoveListener(event string, h *Handler) {
	if t == nil || h == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	handlers := t.listeners[event]
	for i, existing := range handlers {
		if existing != h {
			continue
		}
		next := make([]*Handler, 0, len(handlers)-1)
		next = append(next, handlers[:i]...)
		next = append(next, handlers[i+1:]...)
		if len(next) == 0 {
			delete(t.listeners, event)
		} else {
			t.listeners[event] = next
		}
		return
	}
}

// Dispatch raises event to every registered handler and returns how many
// were invoked. Handlers run on the caller's goroutine, outside the lock.
func (t *EventTarget) Dispatch(event string, detail any) int {
	if t == nil {
		return 0
	}
	t.mu.RLock()
	handlers := t.listeners[event]
	t.mu.RUnlock()

	e := Event{Name: event, Detail: detail}
	for _, h := range handlers {
		h.Handle(e)
	}
	return len(handlers)
}

// ListenerCount returns the number of registrations for the given events,
// or across all events when none are named.
func (t *EventTarget) ListenerCount(events ...string) int {
	if t == nil {
		return 0
	}
	t.mu.RLock()
	defer t.mu.RUnlock()

	if len(events) == 0 {
		total := 0
		for _, handlers := range t.listeners {
			total += len(handlers)
		}
		return total
	}
	total := 0
	for _, name := range events {
		total += len(t.listeners[name])
	}
	return total
}

// routedEmitter attaches every event to primary and the events it names to
// extra as well.
type routedEmitter struct {
	primary Emitter
	extra   Emitter
	events  []string
}

func (r routedEmitter) AddListener(event string, h *Handler) {
	if !isNil(r.primary) {
		r.primary.AddListener(event, h)
	}
	if slices.Contains(r.events, event) {
		r.extra.AddListener(event, h)
	}
}

func (r routedEmitter) RemoveListener(event string, h *Handler) {
	if !isNil(r.primary) {
		r.primary.RemoveListener(event, h)
	}
	if slices.Contains(r.events, event) {
		r.extra.RemoveListener(event, h)
	}
}
