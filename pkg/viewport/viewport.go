// Package viewport provides an accessor for the host window's layout size.
package viewport

import (
	"fmt"
	"time"

	"github.com/zoobzio/sense"
)

// Path is the host path of the window.
const Path = "window"

// DocumentPath is the host path of the document, which also raises
// DOMContentLoaded.
const DocumentPath = "document"

// Events that trigger a re-read of the size.
var Events = []string{"DOMContentLoaded", "resize"}

// Window is the host window.
type Window interface {
	sense.Emitter
	// InnerSize returns the inner dimensions. Zero means unreported.
	InnerSize() (width, height int)
}

// Sizer reports a client area.
type Sizer interface {
	ClientSize() (width, height int)
}

// Layout is implemented by windows that expose their document's root and
// body elements. Either may be nil.
type Layout interface {
	DocumentElement() Sizer
	Body() Sizer
}

// Size is the snapshot value in layout pixels.
type Size struct {
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

type options struct {
	wait     time.Duration
	defaults Size
}

// Option configures the viewport accessor.
type Option func(*options)

// WithWait sets the debounce window.
func WithWait(d time.Duration) Option {
	return func(o *options) { o.wait = d }
}

// WithWidth sets the fallback width. Negative values are ignored.
func WithWidth(w int) Option {
	return func(o *options) {
		if w >= 0 {
			o.defaults.Width = w
		}
	}
}

// WithHeight sets the fallback height. Negative values are ignored.
func WithHeight(h int) Option {
	return func(o *options) {
		if h >= 0 {
			o.defaults.Height = h
		}
	}
}

// Config builds the bridge configuration for the viewport size.
func Config(opts ...Option) sense.Config[Size] {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return sense.Config[Size]{
		Probe:    sense.Also(sense.Implements[Window](Path), DocumentPath, "DOMContentLoaded"),
		Events:   Events,
		Extract:  extractor(o.defaults),
		Wait:     o.wait,
		Defaults: o.defaults,
	}
}

// New creates a viewport size accessor.
func New(opts ...Option) *sense.Accessor[Size] {
	return sense.NewAccessor(Config(opts...))
}

// extractor resolves each dimension independently: inner size, then the
// document element's client size, then the body's, then the fallback.
func extractor(fallback Size) sense.Extractor[Size] {
	return func(handle any, _ Size) (Size, error) {
		w, ok := handle.(Window)
		if !ok {
			return fallback, fmt.Errorf("handle %T is not a window", handle)
		}
		width, height := w.InnerSize()

		var candidates []Sizer
		if l, ok := w.(Layout); ok {
			candidates = append(candidates, l.DocumentElement(), l.Body())
		}
		for _, s := range candidates {
			if width > 0 && height > 0 {
				break
			}
			if s == nil {
				continue
			}
			cw, ch := s.ClientSize()
			if width <= 0 {
				width = cw
			}
			if height <= 0 {
				height = ch
			}
		}

		if width <= 0 {
			width = fallback.Width
		}
		if height <= 0 {
			height = fallback.Height
		}
		return Size{Width: width, Height: height}, nil
	}
}
