package prometheus

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/zoobzio/clockz"
	"github.com/zoobzio/sense"
	sensetest "github.com/zoobzio/sense/testing"
)

func newTestMetrics(t *testing.T) *Metrics {
	t.Helper()
	m, err := New(prometheus.NewRegistry())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return m
}

func TestNew_RegistersCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	if _, err := New(reg); err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if _, err := New(reg); err == nil {
		t.Error("expected duplicate registration to fail")
	}
}

func TestProvider_StateChange(t *testing.T) {
	m := newTestMetrics(t)
	p := m.ForFeature("online")

	p.OnStateChange(sense.StateIdle, sense.StateProbing)
	p.OnStateChange(sense.StateProbing, sense.StateReady)

	if v := testutil.ToFloat64(m.Transitions.WithLabelValues("online", "idle", "probing")); v != 1 {
		t.Errorf("transitions[idle,probing] = %f, want 1", v)
	}
	if v := testutil.ToFloat64(m.State.WithLabelValues("online", "ready")); v != 1 {
		t.Errorf("state[ready] = %f, want 1", v)
	}
	if v := testutil.ToFloat64(m.State.WithLabelValues("online", "probing")); v != 0 {
		t.Errorf("state[probing] = %f, want 0", v)
	}
}

func TestProvider_Refreshes(t *testing.T) {
	m := newTestMetrics(t)
	p := m.ForFeature("battery")

	p.OnRefreshSuccess(time.Millisecond)
	p.OnRefreshSuccess(time.Millisecond)
	p.OnRefreshFailure("extract", time.Millisecond)
	p.OnEventReceived("levelchange")

	if v := testutil.ToFloat64(m.Refreshes.WithLabelValues("battery", "success")); v != 2 {
		t.Errorf("refreshes[success] = %f, want 2", v)
	}
	if v := testutil.ToFloat64(m.Refreshes.WithLabelValues("battery", "extract")); v != 1 {
		t.Errorf("refreshes[extract] = %f, want 1", v)
	}
	if v := testutil.ToFloat64(m.Events.WithLabelValues("battery", "levelchange")); v != 1 {
		t.Errorf("events[levelchange] = %f, want 1", v)
	}
}

type reporter struct {
	*sense.EventTarget
}

func (reporter) Value() int { return 7 }

type valuer interface {
	sense.Emitter
	Value() int
}

func TestProvider_WiredIntoAccessor(t *testing.T) {
	m := newTestMetrics(t)
	clock := clockz.NewFakeClock()
	target := reporter{sense.NewEventTarget()}

	a := sense.NewAccessor(sense.Config[int]{
		Probe:  sense.Implements[valuer]("value"),
		Events: []string{"change"},
		Extract: func(handle any, _ int) (int, error) {
			return handle.(valuer).Value(), nil
		},
	}).Clock(clock).Metrics(m.ForFeature("value"))

	if err := a.Start(context.Background(), sense.Env{"value": target}); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer a.Stop()

	target.Dispatch("change", nil)
	clock.Advance(sense.DefaultWait)
	clock.BlockUntilReady()
	if !sensetest.WaitFor(t, time.Second, func() bool {
		return testutil.ToFloat64(m.Refreshes.WithLabelValues("value", "success")) == 1
	}) {
		t.Fatal("expected one successful refresh")
	}
	if v := testutil.ToFloat64(m.Events.WithLabelValues("value", "change")); v != 1 {
		t.Errorf("events[change] = %f, want 1", v)
	}
	if v := testutil.ToFloat64(m.State.WithLabelValues("value", "subscribed")); v != 1 {
		t.Errorf("state[subscribed] = %f, want 1", v)
	}
}
