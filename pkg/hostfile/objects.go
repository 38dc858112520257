package hostfile

import (
	"context"

	"github.com/zoobzio/sense"
	"github.com/zoobzio/sense/pkg/mediaquery"
	"github.com/zoobzio/sense/pkg/viewport"
)

// Host objects are live views: every read goes through the host's current
// document, so a handle obtained once keeps reporting fresh values.

type windowObject struct {
	*sense.EventTarget
	h *Host
}

func (w windowObject) InnerSize() (int, int) {
	d := w.h.snapshot()
	if d.Window == nil {
		return 0, 0
	}
	return d.Window.InnerWidth, d.Window.InnerHeight
}

func (w windowObject) DocumentElement() viewport.Sizer {
	d := w.h.snapshot()
	if d.Window == nil || (d.Window.ClientWidth == 0 && d.Window.ClientHeight == 0) {
		return nil
	}
	return clientSize{d.Window.ClientWidth, d.Window.ClientHeight}
}

func (w windowObject) Body() viewport.Sizer {
	d := w.h.snapshot()
	if d.Window == nil || (d.Window.BodyWidth == 0 && d.Window.BodyHeight == 0) {
		return nil
	}
	return clientSize{d.Window.BodyWidth, d.Window.BodyHeight}
}

type clientSize struct{ w, h int }

func (c clientSize) ClientSize() (int, int) { return c.w, c.h }

type navigatorObject struct{ h *Host }

func (n navigatorObject) OnLine() bool {
	d := n.h.snapshot()
	if d.Navigator == nil {
		return true
	}
	return boolOr(d.Navigator.OnLine, true)
}

type connectionObject struct {
	*sense.EventTarget
	h *Host
}

func (c connectionObject) EffectiveType() string {
	d := c.h.snapshot()
	if d.Navigator == nil || d.Navigator.Connection == nil {
		return ""
	}
	return d.Navigator.Connection.EffectiveType
}

func (c connectionObject) SaveData() bool {
	d := c.h.snapshot()
	if d.Navigator == nil || d.Navigator.Connection == nil {
		return false
	}
	return boolOr(d.Navigator.Connection.SaveData, false)
}

type batteryObject struct {
	*sense.EventTarget
	h *Host
}

func (b batteryObject) battery() *Battery {
	d := b.h.snapshot()
	if d.Navigator == nil || d.Navigator.Battery == nil {
		return &Battery{Level: 1}
	}
	return d.Navigator.Battery
}

func (b batteryObject) Level() float64           { return b.battery().Level }
func (b batteryObject) Charging() bool           { return b.battery().Charging }
func (b batteryObject) ChargingTime() float64    { return b.battery().chargingTime() }
func (b batteryObject) DischargingTime() float64 { return b.battery().dischargingTime() }

// batteryAcquirer resolves to nothing when the document has no battery,
// the way a host without a power source answers the request.
type batteryAcquirer struct{ h *Host }

func (a batteryAcquirer) Acquire(ctx context.Context) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d := a.h.snapshot()
	if d.Navigator == nil || d.Navigator.Battery == nil {
		return nil, nil
	}
	return batteryObject{EventTarget: a.h.battery, h: a.h}, nil
}

type screenObject struct {
	*sense.EventTarget
	h *Host
}

func (s screenObject) AvailSize() (int, int) {
	d := s.h.snapshot()
	if d.Screen == nil {
		return 0, 0
	}
	return d.Screen.AvailWidth, d.Screen.AvailHeight
}

type orientationObject struct{ h *Host }

func (o orientationObject) current() Orientation {
	d := o.h.snapshot()
	if d.Screen == nil || d.Screen.Orientation == nil {
		return Orientation{Type: "portrait-primary"}
	}
	return *d.Screen.Orientation
}

func (o orientationObject) Type() string { return o.current().Type }
func (o orientationObject) Angle() int   { return o.current().Angle }

type pageObject struct {
	*sense.EventTarget
	h *Host
}

func (p pageObject) hidden() bool {
	d := p.h.snapshot()
	return d.Document != nil && d.Document.Hidden
}

func (p pageObject) VisibilityState() string {
	d := p.h.snapshot()
	if d.Document == nil {
		return "visible"
	}
	return d.Document.state()
}

// Each visibility dialect exposes exactly one property, so the probe finds
// the one the document declares.
type standardPage struct{ pageObject }

func (p standardPage) Hidden() bool { return p.hidden() }

type msPage struct{ pageObject }

func (p msPage) MSHidden() bool { return p.hidden() }

type webkitPage struct{ pageObject }

func (p webkitPage) WebkitHidden() bool { return p.hidden() }

type matcherObject struct{ h *Host }

func (m matcherObject) MatchMedia(query string) mediaquery.List {
	return m.h.mediaList(query)
}

type mediaList struct {
	*sense.EventTarget
	h     *Host
	query string
}

func (l *mediaList) Matches() bool {
	return l.h.snapshot().Media[l.query]
}
