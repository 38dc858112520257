package sense

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/zoobzio/pipz"
)

var (
	testClampID   = pipz.NewIdentity("test:clamp", "Clamps the next value")
	testRejectID  = pipz.NewIdentity("test:reject", "Rejects negative values")
	testObserveID = pipz.NewIdentity("test:observe", "Observes refreshes")
)

func TestUseTransform(t *testing.T) {
	clamp := UseTransform(testClampID, func(_ context.Context, r *Refresh[int]) *Refresh[int] {
		if r.Next.Value > 10 {
			r.Next.Value = 10
		}
		return r
	})

	out, err := clamp.Process(context.Background(), &Refresh[int]{Next: Snapshot[int]{Support: true, Value: 42}})
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if out.Next.Value != 10 {
		t.Errorf("expected 10, got %d", out.Next.Value)
	}
}

func TestUseApply(t *testing.T) {
	reject := UseApply(testRejectID, func(_ context.Context, r *Refresh[int]) (*Refresh[int], error) {
		if r.Next.Value < 0 {
			return r, errors.New("negative")
		}
		return r, nil
	})

	if _, err := reject.Process(context.Background(), &Refresh[int]{Next: Snapshot[int]{Value: 1}}); err != nil {
		t.Errorf("expected success, got %v", err)
	}
	if _, err := reject.Process(context.Background(), &Refresh[int]{Next: Snapshot[int]{Value: -1}}); err == nil {
		t.Error("expected rejection")
	}
}

func TestUseEffect(t *testing.T) {
	var seen []int
	observe := UseEffect(testObserveID, func(_ context.Context, r *Refresh[int]) error {
		seen = append(seen, r.Previous.Value)
		return nil
	})

	out, err := observe.Process(context.Background(), &Refresh[int]{Previous: Snapshot[int]{Value: 7}})
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if out.Previous.Value != 7 || len(seen) != 1 || seen[0] != 7 {
		t.Errorf("unexpected effect result %+v %v", out, seen)
	}
}

var (
	testMarkID    = pipz.NewIdentity("test:mark", "Marks odd values")
	testEnrichID  = pipz.NewIdentity("test:enrich", "Optional enrichment")
	testFlakyID   = pipz.NewIdentity("test:flaky", "Fails until the third attempt")
	testSlowID    = pipz.NewIdentity("test:slow", "Slow stage")
	testPrimaryID = pipz.NewIdentity("test:primary", "Failing primary")
	testBackupID  = pipz.NewIdentity("test:backup", "Backup stage")
	testOnlyBigID = pipz.NewIdentity("test:only-big", "Filters small values")
)

func refreshOf(v int) *Refresh[int] {
	return &Refresh[int]{Next: Snapshot[int]{Support: true, Value: v}}
}

func TestUseMutate(t *testing.T) {
	mark := UseMutate(testMarkID,
		func(_ context.Context, r *Refresh[int]) *Refresh[int] { r.Next.Value = -r.Next.Value; return r },
		func(_ context.Context, r *Refresh[int]) bool { return r.Next.Value%2 == 1 },
	)

	out, _ := mark.Process(context.Background(), refreshOf(3))
	if out.Next.Value != -3 {
		t.Errorf("expected odd value mutated, got %d", out.Next.Value)
	}
	out, _ = mark.Process(context.Background(), refreshOf(4))
	if out.Next.Value != 4 {
		t.Errorf("expected even value untouched, got %d", out.Next.Value)
	}
}

func TestUseEnrich_FailureIgnored(t *testing.T) {
	enrich := UseEnrich(testEnrichID, func(_ context.Context, r *Refresh[int]) (*Refresh[int], error) {
		return r, errors.New("lookup unavailable")
	})
	out, err := enrich.Process(context.Background(), refreshOf(5))
	if err != nil {
		t.Fatalf("expected enrichment failure to be ignored, got %v", err)
	}
	if out.Next.Value != 5 {
		t.Errorf("expected unmodified refresh, got %d", out.Next.Value)
	}
}

func TestUseRetry(t *testing.T) {
	attempts := 0
	flaky := UseApply(testFlakyID, func(_ context.Context, r *Refresh[int]) (*Refresh[int], error) {
		attempts++
		if attempts < 3 {
			return r, errors.New("transient")
		}
		return r, nil
	})

	if _, err := UseRetry(3, flaky).Process(context.Background(), refreshOf(1)); err != nil {
		t.Fatalf("expected success after retries, got %v", err)
	}
	if attempts != 3 {
		t.Errorf("expected 3 attempts, got %d", attempts)
	}
}

func TestUseTimeout(t *testing.T) {
	slow := UseApply(testSlowID, func(ctx context.Context, r *Refresh[int]) (*Refresh[int], error) {
		select {
		case <-time.After(time.Second):
			return r, nil
		case <-ctx.Done():
			return r, ctx.Err()
		}
	})

	if _, err := UseTimeout(10*time.Millisecond, slow).Process(context.Background(), refreshOf(1)); err == nil {
		t.Error("expected timeout")
	}
}

func TestUseFallback(t *testing.T) {
	primary := UseApply(testPrimaryID, func(_ context.Context, r *Refresh[int]) (*Refresh[int], error) {
		return r, errors.New("primary failed")
	})
	backup := UseTransform(testBackupID, func(_ context.Context, r *Refresh[int]) *Refresh[int] {
		r.Next.Value = 99
		return r
	})

	out, err := UseFallback(primary, backup).Process(context.Background(), refreshOf(1))
	if err != nil {
		t.Fatalf("expected fallback to succeed, got %v", err)
	}
	if out.Next.Value != 99 {
		t.Errorf("expected backup value, got %d", out.Next.Value)
	}
}

func TestUseFilter(t *testing.T) {
	double := UseTransform(testDoubleID, func(_ context.Context, r *Refresh[int]) *Refresh[int] {
		r.Next.Value *= 2
		return r
	})
	onlyBig := UseFilter(testOnlyBigID, func(_ context.Context, r *Refresh[int]) bool { return r.Next.Value > 10 }, double)

	out, _ := onlyBig.Process(context.Background(), refreshOf(20))
	if out.Next.Value != 40 {
		t.Errorf("expected big value doubled, got %d", out.Next.Value)
	}
	out, _ = onlyBig.Process(context.Background(), refreshOf(2))
	if out.Next.Value != 2 {
		t.Errorf("expected small value untouched, got %d", out.Next.Value)
	}
}
