// Package battery provides an accessor for the host's power status.
//
// The battery object is not available synchronously: the host exposes an
// acquirer at Path whose Acquire resolves to a Battery, or to nothing on
// hosts without one.
package battery

import (
	"fmt"
	"math"
	"time"

	"github.com/zoobzio/sense"
)

// Path is the host path of the battery acquirer.
const Path = "navigator.getBattery"

// Events raised by the battery object.
var Events = []string{"levelchange", "chargingchange", "chargingtimechange", "dischargingtimechange"}

// Battery is the live battery object.
type Battery interface {
	sense.Emitter
	Level() float64
	Charging() bool
	ChargingTime() float64
	DischargingTime() float64
}

// Status is the snapshot value. Times are in seconds and may be +Inf when
// the host cannot estimate them. Level is in [0, 1].
type Status struct {
	Charging        bool    `json:"charging" yaml:"charging"`
	ChargingTime    float64 `json:"charging_time" yaml:"charging_time"`
	DischargingTime float64 `json:"discharging_time" yaml:"discharging_time"`
	Level           float64 `json:"level" yaml:"level"`
}

type options struct {
	wait     time.Duration
	defaults Status
}

// Option configures the battery accessor.
type Option func(*options)

// WithWait sets the debounce window.
func WithWait(d time.Duration) Option {
	return func(o *options) { o.wait = d }
}

// WithDefaults sets the status reported while unsupported.
func WithDefaults(s Status) Option {
	return func(o *options) { o.defaults = s }
}

// Config builds the bridge configuration for the power status.
func Config(opts ...Option) sense.Config[Status] {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return sense.Config[Status]{
		Probe:    sense.Acquire(Path),
		Events:   Events,
		Extract:  extract,
		Wait:     o.wait,
		Defaults: o.defaults,
	}
}

// New creates a power status accessor.
func New(opts ...Option) *sense.Accessor[Status] {
	return sense.NewAccessor(Config(opts...))
}

func extract(handle any, prev Status) (Status, error) {
	b, ok := handle.(Battery)
	if !ok {
		return prev, fmt.Errorf("handle %T is not a battery", handle)
	}
	level := b.Level()
	if math.IsNaN(level) || level < 0 || level > 1 {
		return prev, fmt.Errorf("battery level %v out of range", level)
	}
	prev.Level = level
	prev.Charging = b.Charging()
	prev.ChargingTime = b.ChargingTime()
	prev.DischargingTime = b.DischargingTime()
	return prev, nil
}
