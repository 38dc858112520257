package hostfile

import "sort"

type targetName int

const (
	targetWindow targetName = iota
	targetDocument
	targetScreen
	targetConnection
	targetBattery
	targetMedia
)

type change struct {
	target targetName
	event  string
	query  string
}

// diff lists the events a host would raise moving from prev to next.
// The first document also raises DOMContentLoaded.
func diff(prev, next Document, first bool) []change {
	var out []change
	add := func(t targetName, event string) {
		out = append(out, change{target: t, event: event})
	}

	if first {
		add(targetDocument, "DOMContentLoaded")
		add(targetWindow, "DOMContentLoaded")
	}

	if windowSize(prev.Window) != windowSize(next.Window) {
		add(targetWindow, "resize")
	}

	prevOnline, nextOnline := onLine(prev.Navigator), onLine(next.Navigator)
	if prevOnline != nextOnline {
		if nextOnline {
			add(targetWindow, "online")
		} else {
			add(targetWindow, "offline")
		}
	}

	if connection(prev.Navigator) != connection(next.Navigator) {
		add(targetConnection, "change")
	}

	pb, nb := battery(prev.Navigator), battery(next.Navigator)
	if pb.Level != nb.Level {
		add(targetBattery, "levelchange")
	}
	if pb.Charging != nb.Charging {
		add(targetBattery, "chargingchange")
	}
	if pb.chargingTime() != nb.chargingTime() {
		add(targetBattery, "chargingtimechange")
	}
	if pb.dischargingTime() != nb.dischargingTime() {
		add(targetBattery, "dischargingtimechange")
	}

	po, no := orientation(prev.Screen), orientation(next.Screen)
	if screenSize(prev.Screen) != screenSize(next.Screen) || po != no {
		add(targetScreen, "orientationchange")
	}
	if po != no {
		add(targetWindow, "orientationchange")
	}

	if page(prev.Document) != page(next.Document) && next.Document != nil {
		add(targetDocument, visibilityEvents[next.Document.dialect()])
	}

	queries := make([]string, 0, len(next.Media))
	for q, v := range next.Media {
		if prev.Media[q] != v {
			queries = append(queries, q)
		}
	}
	for q, v := range prev.Media {
		if _, ok := next.Media[q]; !ok && v {
			queries = append(queries, q)
		}
	}
	sort.Strings(queries)
	for _, q := range queries {
		out = append(out, change{target: targetMedia, event: "change", query: q})
	}
	return out
}

func windowSize(w *Window) Window {
	if w == nil {
		return Window{}
	}
	return *w
}

func onLine(n *Navigator) bool {
	if n == nil {
		return true
	}
	return boolOr(n.OnLine, true)
}

type connectionState struct {
	effectiveType string
	saveData      bool
}

func connection(n *Navigator) connectionState {
	if n == nil || n.Connection == nil {
		return connectionState{}
	}
	return connectionState{
		effectiveType: n.Connection.EffectiveType,
		saveData:      boolOr(n.Connection.SaveData, false),
	}
}

func battery(n *Navigator) *Battery {
	if n == nil || n.Battery == nil {
		return &Battery{Level: 1}
	}
	return n.Battery
}

type size struct{ w, h int }

func screenSize(s *Screen) size {
	if s == nil {
		return size{}
	}
	return size{s.AvailWidth, s.AvailHeight}
}

func orientation(s *Screen) Orientation {
	if s == nil || s.Orientation == nil {
		return Orientation{Type: "portrait-primary"}
	}
	return *s.Orientation
}

type pageState struct {
	hidden  bool
	state   string
	dialect string
}

func page(p *Page) pageState {
	if p == nil {
		return pageState{state: "visible", dialect: "standard"}
	}
	return pageState{hidden: p.Hidden, state: p.state(), dialect: p.dialect()}
}
