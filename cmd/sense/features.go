package main

import (
	"context"

	"github.com/zoobzio/sense"
	"github.com/zoobzio/sense/pkg/battery"
	"github.com/zoobzio/sense/pkg/mediaquery"
	"github.com/zoobzio/sense/pkg/network"
	senseprom "github.com/zoobzio/sense/pkg/prometheus"
	"github.com/zoobzio/sense/pkg/screen"
	"github.com/zoobzio/sense/pkg/viewport"
	"github.com/zoobzio/sense/pkg/visibility"
)

// feature erases the snapshot type of an accessor so the commands can run
// them side by side.
type feature struct {
	name     string
	start    func(context.Context, sense.Environment) error
	stop     func()
	current  func() any
	onChange func(func(any)) func()
}

func bind[T any](name string, a *sense.Accessor[T], m *senseprom.Metrics) feature {
	if m != nil {
		a.Metrics(m.ForFeature(name))
	}
	return feature{
		name:    name,
		start:   a.Start,
		stop:    a.Stop,
		current: func() any { return a.Current() },
		onChange: func(fn func(any)) func() {
			return a.OnChange(func(s sense.Snapshot[T]) { fn(s) })
		},
	}
}

// buildFeatures creates one accessor per enabled feature, each with the
// wait its options resolve to.
func buildFeatures(opts sense.Options, media []string, m *senseprom.Metrics) []feature {
	var out []feature
	add := func(name string, f func(string) feature) {
		if opts.Enabled(name) {
			out = append(out, f(name))
		}
	}

	add("connection_type", func(n string) feature {
		return bind(n, network.NewConnectionType(network.WithWait(opts.Wait(n))), m)
	})
	add("online", func(n string) feature {
		return bind(n, network.NewOnline(network.WithWait(opts.Wait(n))), m)
	})
	add("save_data", func(n string) feature {
		return bind(n, network.NewSaveData(network.WithWait(opts.Wait(n))), m)
	})
	add("battery", func(n string) feature {
		return bind(n, battery.New(battery.WithWait(opts.Wait(n))), m)
	})
	add("viewport", func(n string) feature {
		return bind(n, viewport.New(viewport.WithWait(opts.Wait(n))), m)
	})
	add("screen_dimensions", func(n string) feature {
		return bind(n, screen.NewDimensions(screen.WithWait(opts.Wait(n))), m)
	})
	add("screen_orientation", func(n string) feature {
		return bind(n, screen.NewOrientation(screen.WithWait(opts.Wait(n))), m)
	})
	add("visibility", func(n string) feature {
		return bind(n, visibility.New(visibility.WithWait(opts.Wait(n))), m)
	})
	for _, q := range media {
		add("media:"+q, func(n string) feature {
			return bind(n, mediaquery.New(q, mediaquery.WithWait(opts.Wait(n))), m)
		})
	}
	return out
}
