package sense

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/zoobzio/capitan"
	"github.com/zoobzio/clockz"
	"github.com/zoobzio/pipz"
)

// Config describes one feature activation.
type Config[T any] struct {
	// Probe decides whether the feature exists and yields its live handle.
	Probe Probe

	// Events are the event names that trigger a refresh. Any one firing
	// is enough. A dialect may override them through Capability.Events.
	Events []string

	// Extract reads the live handle. A nil Extract publishes the previous
	// value marked as supported.
	Extract Extractor[T]

	// Wait is the debounce window. Non-positive values, zero included, use
	// DefaultWait: the seed refresh never fires immediately.
	Wait time.Duration

	// Defaults is the value published while unsupported.
	Defaults T
}

// Identity describes what a change of configuration must re-subscribe for:
// the probe target and the effective wait.
func (c Config[T]) Identity() string {
	return fmt.Sprintf("%s@%s", probeName(c.Probe), effectiveWait(c.Wait))
}

func probeName(p Probe) string {
	if p == nil {
		return "<none>"
	}
	return p.String()
}

func effectiveWait(d time.Duration) time.Duration {
	if d <= 0 {
		return DefaultWait
	}
	return d
}

// Bridge connects one host emitter to one published snapshot for the span
// of a single activation. It is single use: once torn down it never
// publishes again, and reconfiguration means a new Bridge.
//
//	Idle -> Probing -> {Unsupported | Ready} -> Subscribed -> TornDown
//
// All failures are absorbed. They surface through LastError, ErrorHistory,
// capitan signals and the metrics provider.
type Bridge[T any] struct {
	id         string
	cell       *Cell[T]
	clock      clockz.Clock
	metrics    MetricsProvider
	middleware []pipz.Chainable[*Refresh[T]]

	state  atomic.Int32
	errors *errorLog

	mu        sync.Mutex
	cfg       Config[T]
	emitCtx   context.Context
	ctx       context.Context
	cancel    context.CancelFunc
	handle    any
	emitter   Emitter
	events    []string
	handler   *Handler
	debouncer *Debouncer
	pipeline  pipz.Chainable[*Refresh[T]]
}

// NewBridge creates an idle Bridge publishing into cell. A nil cell gets a
// fresh one.
func NewBridge[T any](cell *Cell[T]) *Bridge[T] {
	if cell == nil {
		var zero T
		cell = NewCell(DefaultSnapshot(zero))
	}
	b := &Bridge[T]{
		id:      uuid.NewString(),
		cell:    cell,
		clock:   clockz.RealClock,
		errors:  newErrorLog(0),
		emitCtx: context.Background(),
	}
	b.state.Store(int32(StateIdle))
	return b
}

// -----------------------------------------------------------------------------
// Chainable Instance Configuration
// -----------------------------------------------------------------------------

// Clock sets a custom clock for debounce timers.
// Use this with clockz.FakeClock for deterministic tests.
// Must be called before Activate().
func (b *Bridge[T]) Clock(clock clockz.Clock) *Bridge[T] {
	b.clock = clock
	return b
}

// Metrics sets a metrics provider for observability integration.
// Must be called before Activate().
func (b *Bridge[T]) Metrics(provider MetricsProvider) *Bridge[T] {
	b.metrics = provider
	return b
}

// ErrorHistorySize sets the number of recent errors to retain.
// Use 0 (default) to only retain the most recent error via LastError().
// Must be called before Activate().
func (b *Bridge[T]) ErrorHistorySize(n int) *Bridge[T] {
	b.errors = newErrorLog(n)
	return b
}

// Use inserts middleware between extraction and publication.
// Must be called before Activate().
func (b *Bridge[T]) Use(processors ...pipz.Chainable[*Refresh[T]]) *Bridge[T] {
	b.middleware = append(b.middleware, processors...)
	return b
}

// ID returns the unique id carried by this bridge's signals.
func (b *Bridge[T]) ID() string {
	return b.id
}

// State returns the current state of the Bridge.
func (b *Bridge[T]) State() State {
	return State(b.state.Load())
}

// Current returns the published snapshot.
func (b *Bridge[T]) Current() Snapshot[T] {
	return b.cell.Get()
}

// Cell returns the cell this bridge publishes into.
func (b *Bridge[T]) Cell() *Cell[T] {
	return b.cell
}

// Pending reports whether a refresh is scheduled.
func (b *Bridge[T]) Pending() bool {
	b.mu.Lock()
	d := b.debouncer
	b.mu.Unlock()
	return d != nil && d.Pending()
}

// LastError returns the last error encountered, or nil if no error occurred.
func (b *Bridge[T]) LastError() error {
	return b.errors.latest()
}

// ErrorHistory returns the recent error history, oldest first.
// Returns nil if error history is not enabled (see ErrorHistorySize).
func (b *Bridge[T]) ErrorHistory() []error {
	return b.errors.history()
}

// Activate probes env and, if the feature is usable, subscribes to its
// emitter and schedules the seed refresh. It never fails: an unsupported
// feature publishes {Support: false, Defaults} synchronously.
//
// An asynchronous acquisition leaves the bridge in StateProbing until the
// handle resolves. Cancelling ctx tears the bridge down.
//
// Only the first call has any effect.
func (b *Bridge[T]) Activate(ctx context.Context, env Environment, cfg Config[T]) {
	b.mu.Lock()
	if b.State() != StateIdle {
		b.mu.Unlock()
		return
	}

	b.cfg = cfg
	b.emitCtx = context.WithoutCancel(ctx)
	b.ctx, b.cancel = context.WithCancel(ctx)
	b.pipeline = b.buildPipeline()
	context.AfterFunc(b.ctx, b.Teardown)

	capitan.Emit(b.emitCtx, BridgeActivated,
		KeyBridge.Field(b.id),
		KeyProbe.Field(probeName(cfg.Probe)),
		KeyWait.Field(effectiveWait(cfg.Wait)),
	)
	b.transition(StateProbing)

	capability, err := runProbe(b.ctx, cfg.Probe, env)
	if err != nil {
		b.recordLocked(stageProbe, err)
	}

	var version uint64
	switch {
	case !capability.Supported:
		b.setError(ErrUnsupportedFeature)
		version = b.unsupportedLocked(ErrUnsupportedFeature)
	case isNil(capability.Handle) && capability.Acquire != nil:
		go b.acquire(b.ctx, capability)
	case isNil(capability.Handle):
		perr := fmt.Errorf("%w: %s yielded no handle", ErrProbeFailure, probeName(cfg.Probe))
		b.recordLocked(stageProbe, perr)
		version = b.unsupportedLocked(perr)
	default:
		b.subscribeLocked(capability, capability.Handle)
	}
	b.mu.Unlock()

	if version > 0 {
		b.cell.notify(version)
	}
}

// Teardown detaches the handler, cancels any pending refresh and any
// pending acquisition. Idempotent; safe before activation completes.
func (b *Bridge[T]) Teardown() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.State() == StateTornDown {
		return
	}
	if b.cancel != nil {
		b.cancel()
	}
	if b.debouncer != nil {
		b.debouncer.Stop()
	}
	if b.handler != nil {
		if err := Detach(b.emitter, b.events, b.handler); err != nil {
			b.recordLocked(stageSubscription, err)
		}
	}
	b.transition(StateTornDown)
	capitan.Emit(b.emitCtx, BridgeTornDown,
		KeyBridge.Field(b.id),
	)
}

// acquire resolves a deferred handle off the caller's goroutine.
func (b *Bridge[T]) acquire(ctx context.Context, c Capability) {
	handle, err := runAcquire(ctx, c.Acquire)

	b.mu.Lock()
	if b.State() != StateProbing {
		b.mu.Unlock()
		return
	}
	var version uint64
	if err != nil {
		b.recordLocked(stageProbe, err)
		version = b.unsupportedLocked(err)
	} else {
		b.subscribeLocked(c, handle)
	}
	b.mu.Unlock()

	if version > 0 {
		b.cell.notify(version)
	}
}

// unsupportedLocked publishes the default snapshot. Caller records the
// reason and notifies.
func (b *Bridge[T]) unsupportedLocked(reason error) uint64 {
	b.transition(StateUnsupported)
	capitan.Emit(b.emitCtx, BridgeUnsupported,
		KeyBridge.Field(b.id),
		KeyProbe.Field(probeName(b.cfg.Probe)),
		KeyError.Field(reason.Error()),
	)
	return b.cell.swap(DefaultSnapshot(b.cfg.Defaults))
}

// subscribeLocked attaches a fresh handler and schedules the seed refresh.
// The seed goes through the debouncer, so an event arriving inside the
// first window collapses with it.
func (b *Bridge[T]) subscribeLocked(c Capability, handle any) {
	b.transition(StateReady)

	emitter := c.Emitter
	if emitter == nil {
		emitter, _ = handle.(Emitter)
	}
	events := b.cfg.Events
	if len(c.Events) > 0 {
		events = c.Events
	}

	d := Debounce(b.refresh, b.cfg.Wait, b.clock)
	metrics := b.metrics
	h := NewHandler(func(e Event) {
		if metrics != nil {
			metrics.OnEventReceived(e.Name)
		}
		d.Call()
	})

	b.handle = handle
	b.emitter = emitter
	b.events = append([]string(nil), events...)
	b.debouncer = d
	b.handler = h

	if err := Attach(b.emitter, b.events, h); err != nil {
		b.recordLocked(stageSubscription, err)
	}
	b.transition(StateSubscribed)
	capitan.Emit(b.emitCtx, BridgeSubscribed,
		KeyBridge.Field(b.id),
		KeyProbe.Field(probeName(b.cfg.Probe)),
		KeyEvents.Field(len(b.events)),
	)

	d.Call()
}

// refresh runs on the debouncer goroutine. The bridge lock serializes it
// against other refreshes and against Teardown.
func (b *Bridge[T]) refresh() {
	b.mu.Lock()
	if b.State() != StateSubscribed {
		b.mu.Unlock()
		return
	}

	start := b.clock.Now()
	req := &Refresh[T]{Handle: b.handle, Previous: b.cell.Get()}
	_, err := b.pipeline.Process(b.ctx, req)

	var version uint64
	switch {
	case req.extractErr != nil:
		b.recordLocked(stageExtract, req.extractErr)
		if b.metrics != nil {
			b.metrics.OnRefreshFailure(stageExtract, b.clock.Since(start))
		}
	case err != nil:
		b.recordLocked(stageExtract, fmt.Errorf("%w: pipeline: %w", ErrExtractionFailure, err))
		if b.metrics != nil {
			b.metrics.OnRefreshFailure("pipeline", b.clock.Since(start))
		}
	default:
		version = req.version
		capitan.Emit(b.emitCtx, RefreshSucceeded,
			KeyBridge.Field(b.id),
		)
		if b.metrics != nil {
			b.metrics.OnRefreshSuccess(b.clock.Since(start))
		}
	}
	b.mu.Unlock()

	if version > 0 {
		b.cell.notify(version)
	}
}

// Pipeline stage identities.
var (
	refreshID = pipz.NewIdentity("sense:refresh", "Bridge refresh pipeline")
	extractID = pipz.NewIdentity("sense:extract", "Reads the live handle into the next snapshot")
	publishID = pipz.NewIdentity("sense:publish", "Stores the next snapshot in the cell")
)

func (b *Bridge[T]) buildPipeline() pipz.Chainable[*Refresh[T]] {
	stages := make([]pipz.Chainable[*Refresh[T]], 0, len(b.middleware)+2)
	stages = append(stages, pipz.Apply(extractID, b.extract))
	stages = append(stages, b.middleware...)
	stages = append(stages, pipz.Effect(publishID, b.publish))
	return pipz.NewSequence(refreshID, stages...)
}

// extract reads the live handle into req.Next. Errors and panics are kept on
// the request so refresh can tell them apart from middleware failures.
func (b *Bridge[T]) extract(_ context.Context, req *Refresh[T]) (out *Refresh[T], err error) {
	defer func() {
		if r := recover(); r != nil {
			req.extractErr = fmt.Errorf("%w: panic: %v", ErrExtractionFailure, r)
			out, err = req, req.extractErr
		}
	}()

	if b.cfg.Extract == nil {
		req.Next = req.Previous.Merge(req.Previous.Value)
		return req, nil
	}
	next, err := b.cfg.Extract(req.Handle, req.Previous.Value)
	if err != nil {
		req.extractErr = fmt.Errorf("%w: %w", ErrExtractionFailure, err)
		return req, req.extractErr
	}
	req.Next = req.Previous.Merge(next)
	return req, nil
}

func (b *Bridge[T]) publish(_ context.Context, req *Refresh[T]) error {
	req.version = b.cell.swap(req.Next)
	return nil
}

// transition updates the state and emits a state change event if changed.
func (b *Bridge[T]) transition(newState State) {
	oldState := b.State()
	if oldState == newState {
		return
	}
	b.state.Store(int32(newState))
	capitan.Emit(b.emitCtx, BridgeStateChanged,
		KeyBridge.Field(b.id),
		KeyOldState.Field(oldState.String()),
		KeyNewState.Field(newState.String()),
	)
	if b.metrics != nil {
		b.metrics.OnStateChange(oldState, newState)
	}
}

// Failure stages reported by recordLocked.
const (
	stageProbe        = "probe"
	stageSubscription = "subscription"
	stageExtract      = "extract"
)

func (b *Bridge[T]) recordLocked(stage string, err error) {
	b.setError(err)
	switch stage {
	case stageProbe:
		capitan.Emit(b.emitCtx, ProbeFailed, KeyBridge.Field(b.id), KeyError.Field(err.Error()))
	case stageSubscription:
		capitan.Emit(b.emitCtx, SubscriptionFailed, KeyBridge.Field(b.id), KeyError.Field(err.Error()))
	default:
		capitan.Emit(b.emitCtx, ExtractFailed, KeyBridge.Field(b.id), KeyError.Field(err.Error()))
	}
}

func (b *Bridge[T]) setError(err error) {
	b.errors.record(err)
}
