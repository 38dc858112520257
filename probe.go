package sense

import (
	"context"
	"fmt"
	"reflect"
	"strings"
)

// Capability is the settled outcome of a Probe.
type Capability struct {
	// Supported reports whether the feature is usable at all.
	Supported bool

	// Handle is the live object read by extractors. It may be nil while
	// Acquire is pending.
	Handle any

	// Emitter is the object events are attached to. When nil the Handle is
	// used if it implements Emitter.
	Emitter Emitter

	// Events overrides the configured event names, for dialects whose
	// events are named differently.
	Events []string

	// Acquire resolves the handle asynchronously. It may fail or return nil,
	// either of which degrades the feature to unsupported.
	Acquire func(ctx context.Context) (any, error)
}

// Acquirer is a host object whose live handle is obtained asynchronously.
type Acquirer interface {
	Acquire(ctx context.Context) (any, error)
}

// Probe determines whether a host feature is available. Probes never fail:
// absence yields an unsupported Capability. String identifies the probe
// target and participates in configuration identity.
type Probe interface {
	Probe(ctx context.Context, env Environment) Capability
	String() string
}

type probeFunc struct {
	name string
	fn   func(context.Context, Environment) Capability
}

func (p probeFunc) Probe(ctx context.Context, env Environment) Capability {
	return p.fn(ctx, env)
}

func (p probeFunc) String() string {
	return p.name
}

// NewProbe builds a Probe from a function. name must uniquely describe what
// the function inspects.
func NewProbe(name string, fn func(context.Context, Environment) Capability) Probe {
	return probeFunc{name: name, fn: fn}
}

// ready builds a supported Capability around handle.
func ready(handle any) Capability {
	c := Capability{Supported: true, Handle: handle}
	if e, ok := handle.(Emitter); ok {
		c.Emitter = e
	}
	return c
}

// Implements is supported when the object at path satisfies I. The object
// itself becomes the handle.
func Implements[I any](path string) Probe {
	name := fmt.Sprintf("implements(%s:%s)", path, reflect.TypeOf((*I)(nil)).Elem())
	return NewProbe(name, func(_ context.Context, env Environment) Capability {
		obj, ok := lookup(env, path)
		if !ok {
			return Capability{}
		}
		typed, ok := obj.(I)
		if !ok {
			return Capability{}
		}
		return ready(typed)
	})
}

// Reference is supported when a non-nil object exists at path. Support
// equals the presence of the reference and the handle is the reference.
func Reference(path string) Probe {
	return NewProbe("reference("+path+")", func(_ context.Context, env Environment) Capability {
		obj, ok := lookup(env, path)
		if !ok {
			return Capability{}
		}
		return ready(obj)
	})
}

// Acquire is supported when the object at path implements Acquirer. The
// handle is resolved later through Acquirer.Acquire.
func Acquire(path string) Probe {
	return NewProbe("acquire("+path+")", func(_ context.Context, env Environment) Capability {
		obj, ok := lookup(env, path)
		if !ok {
			return Capability{}
		}
		a, ok := obj.(Acquirer)
		if !ok {
			return Capability{}
		}
		return Capability{Supported: true, Acquire: a.Acquire}
	})
}

// FirstOf tries each probe in order and returns the first supported result.
// Use it for vendor dialects of the same feature.
func FirstOf(probes ...Probe) Probe {
	names := make([]string, len(probes))
	for i, p := range probes {
		names[i] = p.String()
	}
	return NewProbe("first-of("+strings.Join(names, "|")+")", func(ctx context.Context, env Environment) Capability {
		for _, p := range probes {
			if c := p.Probe(ctx, env); c.Supported {
				return c
			}
		}
		return Capability{}
	})
}

// Via keeps the result of p but attaches events to the emitter found at
// emitterPath. A missing emitter leaves the feature supported with nothing
// to subscribe to.
func Via(p Probe, emitterPath string) Probe {
	return NewProbe(p.String()+"@"+emitterPath, func(ctx context.Context, env Environment) Capability {
		c := p.Probe(ctx, env)
		if !c.Supported {
			return c
		}
		c.Emitter = nil
		if obj, ok := lookup(env, emitterPath); ok {
			if e, ok := obj.(Emitter); ok {
				c.Emitter = e
			}
		}
		return c
	})
}

// WithEvents overrides the event names for a supported result of p.
func WithEvents(p Probe, events ...string) Probe {
	return NewProbe(p.String()+"["+strings.Join(events, ",")+"]", func(ctx context.Context, env Environment) Capability {
		c := p.Probe(ctx, env)
		if c.Supported {
			c.Events = events
		}
		return c
	})
}

// Also keeps the result of p and additionally attaches the named events to
// the emitter found at emitterPath, so either object raising them triggers a
// refresh. A missing emitter leaves p's subscription unchanged. p must yield
// its handle synchronously when it has no explicit emitter.
func Also(p Probe, emitterPath string, events ...string) Probe {
	name := p.String() + "+" + emitterPath + "[" + strings.Join(events, ",") + "]"
	return NewProbe(name, func(ctx context.Context, env Environment) Capability {
		c := p.Probe(ctx, env)
		if !c.Supported {
			return c
		}
		obj, ok := lookup(env, emitterPath)
		if !ok {
			return c
		}
		extra, ok := obj.(Emitter)
		if !ok {
			return c
		}
		primary := c.Emitter
		if primary == nil {
			primary, _ = c.Handle.(Emitter)
		}
		c.Emitter = routedEmitter{primary: primary, extra: extra, events: events}
		return c
	})
}

// runProbe evaluates p, converting a panic into an unsupported result.
func runProbe(ctx context.Context, p Probe, env Environment) (c Capability, err error) {
	if p == nil {
		return Capability{}, nil
	}
	defer func() {
		if r := recover(); r != nil {
			c = Capability{}
			err = fmt.Errorf("%w: %s: %v", ErrProbeFailure, p, r)
		}
	}()
	return p.Probe(ctx, env), nil
}

// runAcquire resolves a deferred handle, converting panics, errors and empty
// results into ErrProbeFailure.
func runAcquire(ctx context.Context, acquire func(context.Context) (any, error)) (handle any, err error) {
	defer func() {
		if r := recover(); r != nil {
			handle = nil
			err = fmt.Errorf("%w: acquire: %v", ErrProbeFailure, r)
		}
	}()
	handle, err = acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: acquire: %w", ErrProbeFailure, err)
	}
	if isNil(handle) {
		return nil, fmt.Errorf("%w: acquire resolved empty", ErrProbeFailure)
	}
	return handle, nil
}
