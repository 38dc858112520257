package battery

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/zoobzio/clockz"
	"github.com/zoobzio/sense"
	sensetest "github.com/zoobzio/sense/testing"
)

type fakeBattery struct {
	*sense.EventTarget
	mu       sync.Mutex
	level    float64
	charging bool
}

func (b *fakeBattery) Level() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.level
}

func (b *fakeBattery) Charging() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.charging
}

func (b *fakeBattery) ChargingTime() float64    { return 0 }
func (b *fakeBattery) DischargingTime() float64 { return math.Inf(1) }

type acquirer struct {
	release chan struct{}
	battery Battery
	err     error
}

func (a *acquirer) Acquire(ctx context.Context) (any, error) {
	if a.release != nil {
		select {
		case <-a.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if a.err != nil {
		return nil, a.err
	}
	if a.battery == nil {
		return nil, nil
	}
	return a.battery, nil
}

func TestBattery_AcquiresAndRefreshes(t *testing.T) {
	clock := clockz.NewFakeClock()
	bat := &fakeBattery{EventTarget: sense.NewEventTarget(), level: 0.5}
	a := New().Clock(clock)
	if err := a.Start(context.Background(), sense.Env{Path: &acquirer{battery: bat}}); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer a.Stop()

	if !sensetest.WaitForState(t, a.Bridge(), sense.StateSubscribed, time.Second) {
		t.Fatalf("expected subscribed, got %s", a.Bridge().State())
	}
	if bat.ListenerCount(Events...) != len(Events) {
		t.Errorf("expected %d listeners, got %d", len(Events), bat.ListenerCount(Events...))
	}

	clock.Advance(sense.DefaultWait)
	clock.BlockUntilReady()
	if !sensetest.WaitFor(t, time.Second, func() bool { return a.Current().Support }) {
		t.Fatal("expected seed refresh")
	}
	s := a.Current().Value
	if s.Level != 0.5 || !math.IsInf(s.DischargingTime, 1) {
		t.Errorf("unexpected status %+v", s)
	}

	bat.mu.Lock()
	bat.charging = true
	bat.mu.Unlock()
	bat.Dispatch("chargingchange", nil)
	clock.Advance(sense.DefaultWait)
	clock.BlockUntilReady()
	if !sensetest.WaitFor(t, time.Second, func() bool { return a.Current().Value.Charging }) {
		t.Fatal("expected charging after chargingchange")
	}
}

func TestBattery_NoBatteryIsUnsupported(t *testing.T) {
	a := New(WithDefaults(Status{Level: 1}))
	if err := a.Start(context.Background(), sense.Env{Path: &acquirer{}}); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer a.Stop()

	if !sensetest.WaitForState(t, a.Bridge(), sense.StateUnsupported, time.Second) {
		t.Fatalf("expected unsupported, got %s", a.Bridge().State())
	}
	sensetest.RequireSnapshot(t, a, false, func(s Status) bool { return s.Level == 1 })
	if !errors.Is(a.Bridge().LastError(), sense.ErrProbeFailure) {
		t.Errorf("expected probe failure, got %v", a.Bridge().LastError())
	}
}

func TestBattery_AcquireError(t *testing.T) {
	a := New()
	if err := a.Start(context.Background(), sense.Env{Path: &acquirer{err: errors.New("denied")}}); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer a.Stop()

	if !sensetest.WaitForState(t, a.Bridge(), sense.StateUnsupported, time.Second) {
		t.Fatalf("expected unsupported, got %s", a.Bridge().State())
	}
}

func TestBattery_StopDuringAcquire(t *testing.T) {
	bat := &fakeBattery{EventTarget: sense.NewEventTarget(), level: 0.2}
	acq := &acquirer{release: make(chan struct{}), battery: bat}
	a := New()
	if err := a.Start(context.Background(), sense.Env{Path: acq}); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	sensetest.RequireState(t, a.Bridge(), sense.StateProbing)

	a.Stop()
	close(acq.release)
	sensetest.Settle()

	if bat.ListenerCount() != 0 {
		t.Errorf("expected no listeners after stop, got %d", bat.ListenerCount())
	}
	sensetest.RequireState(t, a.Bridge(), sense.StateTornDown)
}

func TestBattery_LevelOutOfRange(t *testing.T) {
	bat := &fakeBattery{EventTarget: sense.NewEventTarget(), level: 1.5}
	_, err := extract(bat, Status{Level: 0.3})
	if err == nil {
		t.Fatal("expected error for level above 1")
	}

	bat.level = math.NaN()
	prev := Status{Level: 0.3}
	got, err := extract(bat, prev)
	if err == nil {
		t.Fatal("expected error for NaN level")
	}
	if got != prev {
		t.Errorf("expected previous status back, got %+v", got)
	}
}
