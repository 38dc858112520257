package sense

import "fmt"

// Event is delivered to handlers when an emitter raises a named event.
type Event struct {
	Name   string
	Detail any
}

// Handler is a listener registered on an Emitter. Registrations are keyed by
// the *Handler pointer: two handlers wrapping the same function are distinct,
// and removal only succeeds with the exact pointer that was added.
type Handler struct {
	fn func(Event)
}

// NewHandler creates a Handler that invokes fn for each event.
func NewHandler(fn func(Event)) *Handler {
	return &Handler{fn: fn}
}

// Handle invokes the handler. A nil handler ignores the event.
func (h *Handler) Handle(e Event) {
	if h == nil || h.fn == nil {
		return
	}
	h.fn(e)
}

// Emitter is any host object exposing named-event registration.
type Emitter interface {
	AddListener(event string, h *Handler)
	RemoveListener(event string, h *Handler)
}

// Attach registers h once per name in events. Any one of the events firing
// invokes h. A nil emitter or handler is a no-op. A panicking emitter is
// reported as ErrSubscriptionFailure and never propagated.
func Attach(e Emitter, events []string, h *Handler) (err error) {
	if isNil(e) || h == nil {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: attach: %v", ErrSubscriptionFailure, r)
		}
	}()
	for _, name := range events {
		e.AddListener(name, h)
	}
	return nil
}

// Detach removes the registrations made by Attach. Handlers that were never
// attached, or that differ by identity, are left alone.
func Detach(e Emitter, events []string, h *Handler) (err error) {
	if isNil(e) || h == nil {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: detach: %v", ErrSubscriptionFailure, r)
		}
	}()
	for _, name := range events {
		e.RemoveListener(name, h)
	}
	return nil
}
