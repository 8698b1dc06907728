package pipeline

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestRunBatch_IsolatesFailures(t *testing.T) {
	items := []string{"a", "bad", "c", "d"}
	var calls atomic.Int32
	errs := RunBatch(context.Background(), items, 2, func(_ context.Context, item string) error {
		calls.Add(1)
		if item == "bad" {
			return errors.New("boom")
		}
		return nil
	})

	if calls.Load() != 4 {
		t.Errorf("expected 4 calls, got %d", calls.Load())
	}
	if len(errs) != 4 {
		t.Fatalf("expected 4 results, got %d", len(errs))
	}
	for i, err := range errs {
		if (err != nil) != (items[i] == "bad") {
			t.Errorf("item %q: unexpected error state %v", items[i], err)
		}
	}
}

func TestRunBatch_BoundsConcurrency(t *testing.T) {
	var inFlight, peak atomic.Int32
	items := make([]string, 12)
	RunBatch(context.Background(), items, 3, func(context.Context, string) error {
		n := inFlight.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		inFlight.Add(-1)
		return nil
	})
	if peak.Load() > 3 {
		t.Errorf("expected at most 3 concurrent calls, got %d", peak.Load())
	}
}

func TestRunBatch_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	errs := RunBatch(ctx, []string{"a", "b"}, 0, func(context.Context, string) error {
		t.Error("expected no calls after cancel")
		return nil
	})
	for _, err := range errs {
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	}
}
