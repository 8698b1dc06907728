package stats

import (
	"sync"
	"testing"
	"time"
)

func TestLatencySnapshotPercentiles(t *testing.T) {
	stats := NewLatency(time.Hour)
	for _, ms := range []int64{100, 200, 300, 400, 500} {
		stats.RecordMs(ms)
	}

	snap := stats.Snapshot()
	if snap.Count != 5 {
		t.Fatalf("expected count=5, got %d", snap.Count)
	}
	if snap.MinMs != 100 {
		t.Fatalf("expected min=100, got %d", snap.MinMs)
	}
	if snap.MaxMs != 500 {
		t.Fatalf("expected max=500, got %d", snap.MaxMs)
	}
	if snap.AvgMs != 300 {
		t.Fatalf("expected avg=300, got %f", snap.AvgMs)
	}
	if snap.P50Ms != 300 {
		t.Fatalf("expected p50=300, got %f", snap.P50Ms)
	}
	if snap.P95Ms != 480 {
		t.Fatalf("expected p95=480, got %f", snap.P95Ms)
	}
	if snap.P99Ms != 496 {
		t.Fatalf("expected p99=496, got %f", snap.P99Ms)
	}
}

func TestLatencyRecordDuration(t *testing.T) {
	stats := NewLatency(time.Hour)
	stats.Record(1500 * time.Millisecond)
	snap := stats.Snapshot()
	if snap.MinMs != 1500 {
		t.Errorf("expected 1500ms, got %d", snap.MinMs)
	}
}

func TestLatencyPrunesExpiredSamples(t *testing.T) {
	stats := NewLatency(10 * time.Millisecond)
	stats.RecordMs(100)
	time.Sleep(25 * time.Millisecond)

	snap := stats.Snapshot()
	if snap.Count != 0 {
		t.Fatalf("expected count=0 after prune, got %d", snap.Count)
	}

	stats.RecordMs(200)
	snap = stats.Snapshot()
	if snap.Count != 1 {
		t.Fatalf("expected count=1 for fresh sample, got %d", snap.Count)
	}
	if snap.MinMs != 200 || snap.MaxMs != 200 {
		t.Fatalf("expected min=max=200, got min=%d max=%d", snap.MinMs, snap.MaxMs)
	}
}

func TestLatencyClampsNegativeDuration(t *testing.T) {
	stats := NewLatency(time.Hour)
	stats.RecordMs(-10)
	snap := stats.Snapshot()
	if snap.Count != 1 {
		t.Fatalf("expected count=1, got %d", snap.Count)
	}
	if snap.MinMs != 0 || snap.MaxMs != 0 {
		t.Fatalf("expected clamped duration=0, got min=%d max=%d", snap.MinMs, snap.MaxMs)
	}
}

func TestCounters(t *testing.T) {
	c := NewCounters()
	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Incr("completed")
		}()
	}
	wg.Wait()
	c.Incr("failed")

	if got := c.Get("completed"); got != 50 {
		t.Errorf("expected 50 completed, got %d", got)
	}
	snap := c.Snapshot()
	if snap["failed"] != 1 || len(snap) != 2 {
		t.Errorf("expected failed=1 and 2 keys, got %v", snap)
	}
	snap["failed"] = 99
	if c.Get("failed") != 1 {
		t.Error("expected snapshot to be a copy")
	}
}

func TestCountersEmptySnapshot(t *testing.T) {
	if NewCounters().Snapshot() == nil {
		t.Error("expected non-nil snapshot")
	}
}
