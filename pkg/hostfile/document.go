package hostfile

import "math"

// Document is the on-disk description of a host. Each section is optional;
// an absent section makes the features it backs unsupported.
//
//	navigator:
//	  online: true
//	  connection:
//	    effective_type: 4g
//	    save_data: false
//	  battery:
//	    level: 0.8
//	    charging: true
//	window:
//	  inner_width: 1280
//	  inner_height: 720
//	document:
//	  hidden: false
//	  visibility_state: visible
//	screen:
//	  avail_width: 1920
//	  avail_height: 1080
//	  orientation:
//	    type: landscape-primary
//	    angle: 0
//	media:
//	  "(prefers-color-scheme: dark)": true
type Document struct {
	Navigator *Navigator      `yaml:"navigator" json:"navigator"`
	Window    *Window         `yaml:"window" json:"window"`
	Document  *Page           `yaml:"document" json:"document"`
	Screen    *Screen         `yaml:"screen" json:"screen"`
	Media     map[string]bool `yaml:"media" json:"media" validate:"omitempty,dive,keys,min=1,endkeys"`
}

// Navigator describes network and power state.
type Navigator struct {
	OnLine       *bool       `yaml:"online" json:"online"`
	Connection   *Connection `yaml:"connection" json:"connection"`
	Battery      *Battery    `yaml:"battery" json:"battery"`
	NoGetBattery bool        `yaml:"no_get_battery" json:"no_get_battery"`
}

// Connection describes the network information object.
type Connection struct {
	EffectiveType string `yaml:"effective_type" json:"effective_type" validate:"omitempty,oneof=slow-2g 2g 3g 4g"`
	SaveData      *bool  `yaml:"save_data" json:"save_data"`
}

// Battery describes the power source. Absent times read as +Inf.
type Battery struct {
	Level           float64  `yaml:"level" json:"level" validate:"gte=0,lte=1"`
	Charging        bool     `yaml:"charging" json:"charging"`
	ChargingTime    *float64 `yaml:"charging_time" json:"charging_time" validate:"omitempty,gte=0"`
	DischargingTime *float64 `yaml:"discharging_time" json:"discharging_time" validate:"omitempty,gte=0"`
}

// Window describes the layout viewport and its fallbacks.
type Window struct {
	InnerWidth   int `yaml:"inner_width" json:"inner_width" validate:"gte=0"`
	InnerHeight  int `yaml:"inner_height" json:"inner_height" validate:"gte=0"`
	ClientWidth  int `yaml:"client_width" json:"client_width" validate:"gte=0"`
	ClientHeight int `yaml:"client_height" json:"client_height" validate:"gte=0"`
	BodyWidth    int `yaml:"body_width" json:"body_width" validate:"gte=0"`
	BodyHeight   int `yaml:"body_height" json:"body_height" validate:"gte=0"`
}

// Page describes the document's visibility. Dialect selects which property
// and event the host exposes.
type Page struct {
	Hidden          bool   `yaml:"hidden" json:"hidden"`
	VisibilityState string `yaml:"visibility_state" json:"visibility_state" validate:"omitempty,oneof=visible hidden prerender"`
	Dialect         string `yaml:"dialect" json:"dialect" validate:"omitempty,oneof=standard ms webkit"`
}

// Screen describes the display.
type Screen struct {
	AvailWidth         int          `yaml:"avail_width" json:"avail_width" validate:"gte=0"`
	AvailHeight        int          `yaml:"avail_height" json:"avail_height" validate:"gte=0"`
	Orientation        *Orientation `yaml:"orientation" json:"orientation"`
	OrientationDialect string       `yaml:"orientation_dialect" json:"orientation_dialect" validate:"omitempty,oneof=standard moz ms"`
}

// Orientation describes the screen orientation.
type Orientation struct {
	Type  string `yaml:"type" json:"type" validate:"required,oneof=portrait-primary portrait-secondary landscape-primary landscape-secondary"`
	Angle int    `yaml:"angle" json:"angle" validate:"oneof=0 90 180 270"`
}

func (b *Battery) chargingTime() float64 {
	if b.ChargingTime == nil {
		return math.Inf(1)
	}
	return *b.ChargingTime
}

func (b *Battery) dischargingTime() float64 {
	if b.DischargingTime == nil {
		return math.Inf(1)
	}
	return *b.DischargingTime
}

func (p *Page) dialect() string {
	if p.Dialect == "" {
		return "standard"
	}
	return p.Dialect
}

func (p *Page) state() string {
	if p.VisibilityState != "" {
		return p.VisibilityState
	}
	if p.Hidden {
		return "hidden"
	}
	return "visible"
}

func (s *Screen) dialect() string {
	if s.OrientationDialect == "" {
		return "standard"
	}
	return s.OrientationDialect
}

func boolOr(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}
