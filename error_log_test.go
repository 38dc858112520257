package sense

import (
	"errors"
	"testing"
)

func TestErrorLog_LastOnly(t *testing.T) {
	l := newErrorLog(0)
	if l.latest() != nil {
		t.Error("expected no error initially")
	}

	first, second := errors.New("first"), errors.New("second")
	l.record(first)
	l.record(second)
	l.record(nil)

	if !errors.Is(l.latest(), second) {
		t.Errorf("expected second, got %v", l.latest())
	}
	if h := l.history(); h != nil {
		t.Errorf("expected no history, got %v", h)
	}
}

func TestErrorLog_History(t *testing.T) {
	l := newErrorLog(3)
	errs := []error{errors.New("a"), errors.New("b"), errors.New("c"), errors.New("d")}

	l.record(errs[0])
	l.record(errs[1])
	if h := l.history(); len(h) != 2 || h[0] != errs[0] || h[1] != errs[1] {
		t.Fatalf("unexpected partial history %v", h)
	}

	l.record(errs[2])
	l.record(errs[3])
	h := l.history()
	if len(h) != 3 {
		t.Fatalf("expected 3 errors, got %d", len(h))
	}
	for i, want := range errs[1:] {
		if h[i] != want {
			t.Errorf("history[%d] = %v, want %v", i, h[i], want)
		}
	}
	if l.latest() != errs[3] {
		t.Errorf("expected latest d, got %v", l.latest())
	}
}
