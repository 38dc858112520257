// Package screen provides accessors for the available screen area and the
// screen orientation.
package screen

import (
	"fmt"
	"time"

	"github.com/zoobzio/sense"
)

// Host paths read by this package.
const (
	Path       = "screen"
	WindowPath = "window"
)

// OrientationPaths lists the orientation dialects in probe order.
var OrientationPaths = []string{
	"screen.orientation",
	"screen.mozOrientation",
	"screen.msOrientation",
}

// Default orientation values.
const (
	DefaultOrientationType  = "portrait-primary"
	DefaultOrientationAngle = 0
)

// Screen is the host screen object.
type Screen interface {
	sense.Emitter
	AvailSize() (width, height int)
}

// ScreenOrientation is any orientation dialect.
type ScreenOrientation interface {
	Type() string
	Angle() int
}

// Dimensions is the available screen area in pixels.
type Dimensions struct {
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

// Orientation is the orientation snapshot value.
type Orientation struct {
	Type  string `json:"type" yaml:"type"`
	Angle int    `json:"angle" yaml:"angle"`
}

type options struct {
	wait        time.Duration
	dimensions  Dimensions
	orientation Orientation
}

// Option configures a screen accessor.
type Option func(*options)

// WithWait sets the debounce window.
func WithWait(d time.Duration) Option {
	return func(o *options) { o.wait = d }
}

// WithDimensions sets the area reported while unsupported.
func WithDimensions(d Dimensions) Option {
	return func(o *options) { o.dimensions = d }
}

// WithOrientation sets the orientation reported while unsupported.
func WithOrientation(or Orientation) Option {
	return func(o *options) { o.orientation = or }
}

func apply(opts []Option) options {
	o := options{orientation: Orientation{Type: DefaultOrientationType, Angle: DefaultOrientationAngle}}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// DimensionsConfig reads the available area on orientationchange.
func DimensionsConfig(opts ...Option) sense.Config[Dimensions] {
	o := apply(opts)
	return sense.Config[Dimensions]{
		Probe:    sense.Implements[Screen](Path),
		Events:   []string{"orientationchange"},
		Extract:  extractDimensions,
		Wait:     o.wait,
		Defaults: o.dimensions,
	}
}

// NewDimensions creates an accessor for the available screen area.
func NewDimensions(opts ...Option) *sense.Accessor[Dimensions] {
	return sense.NewAccessor(DimensionsConfig(opts...))
}

func extractDimensions(handle any, _ Dimensions) (Dimensions, error) {
	s, ok := handle.(Screen)
	if !ok {
		return Dimensions{}, fmt.Errorf("handle %T is not a screen", handle)
	}
	w, h := s.AvailSize()
	return Dimensions{Width: w, Height: h}, nil
}

// OrientationConfig reads the first orientation dialect present and listens
// on the window, since not every dialect raises its own events.
func OrientationConfig(opts ...Option) sense.Config[Orientation] {
	o := apply(opts)
	probes := make([]sense.Probe, len(OrientationPaths))
	for i, p := range OrientationPaths {
		probes[i] = sense.Implements[ScreenOrientation](p)
	}
	return sense.Config[Orientation]{
		Probe:    sense.Via(sense.FirstOf(probes...), WindowPath),
		Events:   []string{"orientationchange", "resize"},
		Extract:  extractOrientation,
		Wait:     o.wait,
		Defaults: o.orientation,
	}
}

// NewOrientation creates an accessor for the screen orientation.
func NewOrientation(opts ...Option) *sense.Accessor[Orientation] {
	return sense.NewAccessor(OrientationConfig(opts...))
}

func extractOrientation(handle any, prev Orientation) (Orientation, error) {
	so, ok := handle.(ScreenOrientation)
	if !ok {
		return prev, fmt.Errorf("handle %T is not a screen orientation", handle)
	}
	return Orientation{Type: so.Type(), Angle: so.Angle()}, nil
}
