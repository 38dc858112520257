// Package mediaquery provides an accessor for whether a media query
// currently matches.
package mediaquery

import (
	"context"
	"fmt"
	"time"

	"github.com/zoobzio/sense"
)

// MatcherPath is the host path of the query evaluator.
const MatcherPath = "window.matchMedia"

// Matcher evaluates media queries.
type Matcher interface {
	MatchMedia(query string) List
}

// List is a live query result that raises "change" when Matches flips.
type List interface {
	sense.Emitter
	Matches() bool
}

// Match is the snapshot value.
type Match struct {
	Query   string `json:"query" yaml:"query"`
	Matches bool   `json:"matches" yaml:"matches"`
}

type options struct {
	wait    time.Duration
	matches bool
}

// Option configures a media query accessor.
type Option func(*options)

// WithWait sets the debounce window.
func WithWait(d time.Duration) Option {
	return func(o *options) { o.wait = d }
}

// WithDefault sets the result reported while unsupported.
func WithDefault(matches bool) Option {
	return func(o *options) { o.matches = matches }
}

// Probe evaluates query through the host matcher. The resulting list is
// both the handle and the emitter.
func Probe(query string) sense.Probe {
	return sense.NewProbe("media("+query+")", func(_ context.Context, env sense.Environment) sense.Capability {
		if env == nil {
			return sense.Capability{}
		}
		obj, ok := env.Lookup(MatcherPath)
		if !ok {
			return sense.Capability{}
		}
		m, ok := obj.(Matcher)
		if !ok {
			return sense.Capability{}
		}
		list := m.MatchMedia(query)
		if list == nil {
			return sense.Capability{}
		}
		return sense.Capability{Supported: true, Handle: list, Emitter: list}
	})
}

// Config builds the bridge configuration for query.
func Config(query string, opts ...Option) sense.Config[Match] {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return sense.Config[Match]{
		Probe:    Probe(query),
		Events:   []string{"change"},
		Extract:  extractor(query),
		Wait:     o.wait,
		Defaults: Match{Query: query, Matches: o.matches},
	}
}

// New creates an accessor for query.
func New(query string, opts ...Option) *sense.Accessor[Match] {
	return sense.NewAccessor(Config(query, opts...))
}

func extractor(query string) sense.Extractor[Match] {
	return func(handle any, prev Match) (Match, error) {
		l, ok := handle.(List)
		if !ok {
			return prev, fmt.Errorf("handle %T is not a media query list", handle)
		}
		return Match{Query: query, Matches: l.Matches()}, nil
	}
}
