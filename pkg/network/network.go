// Package network provides accessors for the connection's effective type,
// the online status and the save-data preference.
package network

import (
	"fmt"
	"time"

	"github.com/zoobzio/sense"
)

// Host paths read by this package.
const (
	ConnectionPath = "navigator.connection"
	SaveDataPath   = "navigator.connection.saveData"
	OnLinePath     = "navigator.onLine"
	WindowPath     = "window"
)

// Connection is the host's network information object.
type Connection interface {
	sense.Emitter
	EffectiveType() string
}

// OnLineReporter exposes the host's reachability flag.
type OnLineReporter interface {
	OnLine() bool
}

// SaveDataReporter exposes the reduced-data preference.
type SaveDataReporter interface {
	sense.Emitter
	SaveData() bool
}

// ConnectionType is the snapshot value of the effective connection type:
// one of "slow-2g", "2g", "3g", "4g", or empty when unknown.
type ConnectionType struct {
	EffectiveType string `json:"effective_type" yaml:"effective_type"`
}

// Online is the snapshot value of the reachability flag.
type Online struct {
	OnLine bool `json:"online" yaml:"online"`
}

// SaveData is the snapshot value of the reduced-data preference.
type SaveData struct {
	SaveData bool `json:"save_data" yaml:"save_data"`
}

type options struct {
	wait          time.Duration
	effectiveType string
	onLine        bool
	saveData      bool
}

// Option configures a network accessor.
type Option func(*options)

// WithWait sets the debounce window.
func WithWait(d time.Duration) Option {
	return func(o *options) { o.wait = d }
}

// WithDefaultEffectiveType sets the effective type reported while unsupported.
func WithDefaultEffectiveType(t string) Option {
	return func(o *options) { o.effectiveType = t }
}

// WithDefaultStatus sets the online status reported while unsupported.
// Default: true.
func WithDefaultStatus(online bool) Option {
	return func(o *options) { o.onLine = online }
}

// WithDefaultSaveData sets the preference reported while unsupported.
func WithDefaultSaveData(v bool) Option {
	return func(o *options) { o.saveData = v }
}

func apply(opts []Option) options {
	o := options{onLine: true}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// ConnectionTypeConfig watches "change" on the connection object and
// publishes its scalar effective type.
func ConnectionTypeConfig(opts ...Option) sense.Config[ConnectionType] {
	o := apply(opts)
	return sense.Config[ConnectionType]{
		Probe:    sense.Reference(ConnectionPath),
		Events:   []string{"change"},
		Extract:  extractConnectionType,
		Wait:     o.wait,
		Defaults: ConnectionType{EffectiveType: o.effectiveType},
	}
}

// NewConnectionType creates an accessor for the effective connection type.
func NewConnectionType(opts ...Option) *sense.Accessor[ConnectionType] {
	return sense.NewAccessor(ConnectionTypeConfig(opts...))
}

func extractConnectionType(handle any, prev ConnectionType) (ConnectionType, error) {
	c, ok := handle.(Connection)
	if !ok {
		return prev, fmt.Errorf("connection %T has no effective type", handle)
	}
	prev.EffectiveType = c.EffectiveType()
	return prev, nil
}

// OnlineConfig reads the navigator's flag and listens for online/offline on
// the window.
func OnlineConfig(opts ...Option) sense.Config[Online] {
	o := apply(opts)
	return sense.Config[Online]{
		Probe:    sense.Via(sense.Implements[OnLineReporter](OnLinePath), WindowPath),
		Events:   []string{"online", "offline"},
		Extract:  extractOnline,
		Wait:     o.wait,
		Defaults: Online{OnLine: o.onLine},
	}
}

// NewOnline creates an accessor for the online status.
func NewOnline(opts ...Option) *sense.Accessor[Online] {
	return sense.NewAccessor(OnlineConfig(opts...))
}

func extractOnline(handle any, prev Online) (Online, error) {
	r, ok := handle.(OnLineReporter)
	if !ok {
		return prev, fmt.Errorf("navigator %T has no online flag", handle)
	}
	prev.OnLine = r.OnLine()
	return prev, nil
}

// SaveDataConfig watches "change" on the connection and publishes the
// save-data preference.
func SaveDataConfig(opts ...Option) sense.Config[SaveData] {
	o := apply(opts)
	return sense.Config[SaveData]{
		Probe:    sense.Implements[SaveDataReporter](SaveDataPath),
		Events:   []string{"change"},
		Extract:  extractSaveData,
		Wait:     o.wait,
		Defaults: SaveData{SaveData: o.saveData},
	}
}

// NewSaveData creates an accessor for the save-data preference.
func NewSaveData(opts ...Option) *sense.Accessor[SaveData] {
	return sense.NewAccessor(SaveDataConfig(opts...))
}

func extractSaveData(handle any, prev SaveData) (SaveData, error) {
	r, ok := handle.(SaveDataReporter)
	if !ok {
		return prev, fmt.Errorf("connection %T has no save-data flag", handle)
	}
	prev.SaveData = r.SaveData()
	return prev, nil
}
