// Package visibility provides an accessor for whether the host document is
// visible.
package visibility

import (
	"fmt"
	"time"

	"github.com/zoobzio/sense"
)

// Dialect paths, each paired with its change event.
const (
	HiddenPath       = "document.hidden"
	MSHiddenPath     = "document.msHidden"
	WebkitHiddenPath = "document.webkitHidden"
)

// Document is the standard dialect.
type Document interface {
	sense.Emitter
	Hidden() bool
}

// MSDocument is the legacy ms-prefixed dialect.
type MSDocument interface {
	sense.Emitter
	MSHidden() bool
}

// WebkitDocument is the legacy webkit-prefixed dialect.
type WebkitDocument interface {
	sense.Emitter
	WebkitHidden() bool
}

// StateReporter is implemented by documents that also report the textual
// visibility state ("visible", "hidden", "prerender").
type StateReporter interface {
	VisibilityState() string
}

// Status is the snapshot value.
type Status struct {
	Visible bool   `json:"visible" yaml:"visible"`
	State   string `json:"state,omitempty" yaml:"state,omitempty"`
}

type options struct {
	wait    time.Duration
	visible bool
}

// Option configures the visibility accessor.
type Option func(*options)

// WithWait sets the debounce window.
func WithWait(d time.Duration) Option {
	return func(o *options) { o.wait = d }
}

// WithDefault sets the visibility reported while unsupported. Default: true.
func WithDefault(visible bool) Option {
	return func(o *options) { o.visible = visible }
}

// Probe detects the first dialect present. Detection is by presence of the
// property, not by its value.
func Probe() sense.Probe {
	return sense.FirstOf(
		sense.WithEvents(sense.Implements[Document](HiddenPath), "visibilitychange"),
		sense.WithEvents(sense.Implements[MSDocument](MSHiddenPath), "msvisibilitychange"),
		sense.WithEvents(sense.Implements[WebkitDocument](WebkitHiddenPath), "webkitvisibilitychange"),
	)
}

// Config builds the bridge configuration for document visibility.
func Config(opts ...Option) sense.Config[Status] {
	o := options{visible: true}
	for _, opt := range opts {
		opt(&o)
	}
	return sense.Config[Status]{
		Probe:    Probe(),
		Events:   []string{"visibilitychange"},
		Extract:  extract,
		Wait:     o.wait,
		Defaults: Status{Visible: o.visible},
	}
}

// New creates a visibility accessor.
func New(opts ...Option) *sense.Accessor[Status] {
	return sense.NewAccessor(Config(opts...))
}

func extract(handle any, prev Status) (Status, error) {
	var hidden bool
	switch d := handle.(type) {
	case Document:
		hidden = d.Hidden()
	case MSDocument:
		hidden = d.MSHidden()
	case WebkitDocument:
		hidden = d.WebkitHidden()
	default:
		return prev, fmt.Errorf("handle %T reports no visibility", handle)
	}
	s := Status{Visible: !hidden}
	if r, ok := handle.(StateReporter); ok {
		s.State = r.VisibilityState()
	}
	return s, nil
}
