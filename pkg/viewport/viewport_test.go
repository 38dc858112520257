package viewport

import (
	"context"
	"testing"
	"time"

	"github.com/zoobzio/clockz"
	"github.com/zoobzio/sense"
	sensetest "github.com/zoobzio/sense/testing"
)

type sizer struct{ w, h int }

func (s sizer) ClientSize() (int, int) { return s.w, s.h }

type window struct {
	*sense.EventTarget
	inner sizer
}

func (w *window) InnerSize() (int, int) { return w.inner.w, w.inner.h }

type layoutWindow struct {
	window
	doc  Sizer
	body Sizer
}

func (w *layoutWindow) DocumentElement() Sizer { return w.doc }
func (w *layoutWindow) Body() Sizer            { return w.body }

func TestExtract_Fallbacks(t *testing.T) {
	fallback := Size{Width: 1024, Height: 768}
	extract := extractor(fallback)

	tests := []struct {
		name   string
		handle Window
		want   Size
	}{
		{
			name:   "inner size",
			handle: &window{inner: sizer{800, 600}},
			want:   Size{800, 600},
		},
		{
			name:   "document element",
			handle: &layoutWindow{doc: sizer{640, 480}},
			want:   Size{640, 480},
		},
		{
			name:   "body after missing document element",
			handle: &layoutWindow{body: sizer{320, 200}},
			want:   Size{320, 200},
		},
		{
			name:   "per dimension",
			handle: &layoutWindow{window: window{inner: sizer{900, 0}}, doc: sizer{0, 0}, body: sizer{0, 300}},
			want:   Size{900, 300},
		},
		{
			name:   "defaults",
			handle: &window{},
			want:   fallback,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := extract(tt.handle, Size{})
			if err != nil {
				t.Fatalf("extract error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestWithWidth_IgnoresNegative(t *testing.T) {
	cfg := Config(WithWidth(-1), WithHeight(-5), WithWidth(300))
	if cfg.Defaults != (Size{Width: 300}) {
		t.Errorf("unexpected defaults %+v", cfg.Defaults)
	}
}

func TestViewport_ResizeBurst(t *testing.T) {
	clock := clockz.NewFakeClock()
	w := &window{EventTarget: sense.NewEventTarget(), inner: sizer{800, 600}}
	a := New(WithWait(100 * time.Millisecond)).Clock(clock)
	rec := sensetest.Record(t, a)

	if err := a.Start(context.Background(), sense.Env{Path: w}); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer a.Stop()

	for i := 0; i < 5; i++ {
		w.Dispatch("resize", nil)
		clock.Advance(20 * time.Millisecond)
		clock.BlockUntilReady()
	}
	sensetest.Settle()
	if rec.Count() != 0 {
		t.Fatalf("expected no refresh during the burst, got %d", rec.Count())
	}

	clock.Advance(100 * time.Millisecond)
	clock.BlockUntilReady()
	if !rec.WaitForCount(t, 1, time.Second) {
		t.Fatal("expected a refresh after the burst")
	}
	sensetest.Settle()
	if rec.Count() != 1 {
		t.Errorf("expected one refresh, got %d", rec.Count())
	}
	sensetest.RequireSnapshot(t, a, true, func(s Size) bool { return s == Size{800, 600} })
}

func TestViewport_DocumentLoaded(t *testing.T) {
	clock := clockz.NewFakeClock()
	w := &window{EventTarget: sense.NewEventTarget(), inner: sizer{800, 600}}
	doc := sense.NewEventTarget()
	a := New().Clock(clock)
	rec := sensetest.Record(t, a)

	if err := a.Start(context.Background(), sense.Env{Path: w, DocumentPath: doc}); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if n := doc.ListenerCount("DOMContentLoaded"); n != 1 {
		t.Fatalf("expected a document listener, got %d", n)
	}
	if n := doc.ListenerCount("resize"); n != 0 {
		t.Errorf("expected resize left on the window, got %d document listeners", n)
	}

	clock.Advance(sense.DefaultWait)
	clock.BlockUntilReady()
	if !rec.WaitForCount(t, 1, time.Second) {
		t.Fatal("expected the seed refresh")
	}

	w.inner = sizer{1024, 768}
	doc.Dispatch("DOMContentLoaded", nil)
	clock.Advance(sense.DefaultWait)
	clock.BlockUntilReady()
	if !rec.WaitForCount(t, 2, time.Second) {
		t.Fatal("expected a refresh from the document event")
	}
	sensetest.RequireSnapshot(t, a, true, func(s Size) bool { return s == Size{1024, 768} })

	a.Stop()
	if n := doc.ListenerCount() + w.ListenerCount(); n != 0 {
		t.Errorf("expected listeners removed, got %d", n)
	}
}

func TestViewport_Unsupported(t *testing.T) {
	a := New(WithWidth(1280), WithHeight(720))
	if err := a.Start(context.Background(), sense.Env{}); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer a.Stop()
	sensetest.RequireSnapshot(t, a, false, func(s Size) bool { return s == Size{1280, 720} })
}
