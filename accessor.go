package sense

import (
	"context"
	"errors"
	"sync"

	"github.com/zoobzio/clockz"
	"github.com/zoobzio/pipz"
)

// Accessor is the caller-facing handle for one feature. It owns the Cell the
// UI reads and manages the Bridge lifecycle around it: a bridge is created on
// Start, replaced whenever the configuration identity changes, and torn down
// on Stop.
//
// Example:
//
//	online := sense.NewAccessor(network.OnlineConfig())
//	if err := online.Start(ctx, env); err != nil {
//	    return err
//	}
//	defer online.Stop()
//
//	online.OnChange(func(s sense.Snapshot[network.Online]) {
//	    ui.SetOffline(!s.Value.OnLine)
//	})
type Accessor[T any] struct {
	cell             *Cell[T]
	clock            clockz.Clock
	metrics          MetricsProvider
	middleware       []pipz.Chainable[*Refresh[T]]
	errorHistorySize int

	mu      sync.Mutex
	cfg     Config[T]
	ctx     context.Context
	env     Environment
	bridge  *Bridge[T]
	started bool
	stopped bool
}

// NewAccessor creates an Accessor whose cell starts at the unsupported
// default snapshot.
func NewAccessor[T any](cfg Config[T]) *Accessor[T] {
	return &Accessor[T]{
		cell:  NewCell(DefaultSnapshot(cfg.Defaults)),
		clock: clockz.RealClock,
		cfg:   cfg,
	}
}

// Clock sets the clock handed to every bridge. Must be called before Start().
func (a *Accessor[T]) Clock(clock clockz.Clock) *Accessor[T] {
	a.clock = clock
	return a
}

// Metrics sets the metrics provider handed to every bridge.
// Must be called before Start().
func (a *Accessor[T]) Metrics(provider MetricsProvider) *Accessor[T] {
	a.metrics = provider
	return a
}

// ErrorHistorySize sets the error history retained by every bridge.
// Must be called before Start().
func (a *Accessor[T]) ErrorHistorySize(n int) *Accessor[T] {
	a.errorHistorySize = n
	return a
}

// Use adds refresh middleware to every bridge. Must be called before Start().
func (a *Accessor[T]) Use(processors ...pipz.Chainable[*Refresh[T]]) *Accessor[T] {
	a.middleware = append(a.middleware, processors...)
	return a
}

// Start activates the first bridge against env. Start can only be called
// once. Subsequent calls return an error.
func (a *Accessor[T]) Start(ctx context.Context, env Environment) error {
	a.mu.Lock()
	if a.started {
		a.mu.Unlock()
		return errors.New("accessor already started")
	}
	a.started = true
	a.ctx = ctx
	a.env = env
	b := a.newBridge()
	a.bridge = b
	cfg := a.cfg
	a.mu.Unlock()

	b.Activate(ctx, env, cfg)
	return nil
}

// Reconfigure applies cfg. When its identity matches the current one the
// live subscription is kept; otherwise the current bridge is fully torn down
// before a new one activates. Before Start, cfg simply replaces the pending
// configuration.
//
// Observers may call Reconfigure, Stop or Bridge from inside OnChange.
func (a *Accessor[T]) Reconfigure(cfg Config[T]) {
	a.mu.Lock()
	if !a.started || a.stopped {
		a.cfg = cfg
		a.mu.Unlock()
		return
	}
	if cfg.Identity() == a.cfg.Identity() {
		a.mu.Unlock()
		return
	}
	a.bridge.Teardown()
	a.cfg = cfg
	b := a.newBridge()
	a.bridge = b
	ctx, env := a.ctx, a.env
	a.mu.Unlock()

	// A Stop or Reconfigure landing here tears b down while idle, which
	// turns Activate into a no-op.
	b.Activate(ctx, env, cfg)
}

// Stop permanently tears down the current bridge. Idempotent.
func (a *Accessor[T]) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.stopped {
		return
	}
	a.stopped = true
	if a.bridge != nil {
		a.bridge.Teardown()
	}
}

// Current returns the published snapshot.
func (a *Accessor[T]) Current() Snapshot[T] {
	return a.cell.Get()
}

// OnChange registers fn to receive each published snapshot. The returned
// function removes it.
func (a *Accessor[T]) OnChange(fn func(Snapshot[T])) func() {
	return a.cell.Subscribe(fn)
}

// Bridge returns the live bridge, or nil before Start.
func (a *Accessor[T]) Bridge() *Bridge[T] {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.bridge
}

// Config returns the active configuration.
func (a *Accessor[T]) Config() Config[T] {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.cfg
}

func (a *Accessor[T]) newBridge() *Bridge[T] {
	return NewBridge(a.cell).
		Clock(a.clock).
		Metrics(a.metrics).
		ErrorHistorySize(a.errorHistorySize).
		Use(a.middleware...)
}
