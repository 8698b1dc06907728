package pipeline

import (
	"testing"
	"time"

	"github.com/dgallion1/docoutline/internal/doctree"
)

func TestContentHashHex_Consistency(t *testing.T) {
	data := []byte("hello world")
	h1 := ContentHashHex(data)
	h2 := ContentHashHex(data)
	if h1 != h2 {
		t.Errorf("expected identical hashes, got %q and %q", h1, h2)
	}
	// SHA-256 of "hello world" is well-known.
	want := "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9"
	if h1 != want {
		t.Errorf("expected hash %q, got %q", want, h1)
	}
}

func TestContentHashHex_DifferentInputs(t *testing.T) {
	h1 := ContentHashHex([]byte("aaa"))
	h2 := ContentHashHex([]byte("bbb"))
	if h1 == h2 {
		t.Error("expected different hashes for different inputs")
	}
}

func TestContentHashHex_EmptyInput(t *testing.T) {
	h := ContentHashHex([]byte{})
	// SHA-256 of empty input is well-known.
	want := "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
	if h != want {
		t.Errorf("expected hash %q, got %q", want, h)
	}
}

func TestJob_StateTransitions(t *testing.T) {
	job := &Job{
		ID:        "test-1",
		Status:    StatusQueued,
		Phase:     "queued",
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	transitions := []struct {
		status JobStatus
		phase  string
		done   bool
	}{
		{StatusParsing, "parsing", false},
		{StatusAnalyzing, "analyzing", false},
		{StatusStoring, "storing", false},
		{StatusCompleted, "done", true},
	}

	for _, tr := range transitions {
		before := job.UpdatedAt
		// Small sleep to ensure time difference is detectable.
		time.Sleep(time.Millisecond)
		job.SetStatus(tr.status, tr.phase)

		if job.Status != tr.status {
			t.Errorf("expected status %q, got %q", tr.status, job.Status)
		}
		if job.Phase != tr.phase {
			t.Errorf("expected phase %q, got %q", tr.phase, job.Phase)
		}
		if job.Status.Done() != tr.done {
			t.Errorf("expected Done()=%v for %q", tr.done, tr.status)
		}
		if !job.UpdatedAt.After(before) {
			t.Errorf("expected UpdatedAt to advance after SetStatus(%q)", tr.status)
		}
	}
}

func TestJobStatus_Done(t *testing.T) {
	for _, s := range []JobStatus{StatusFailed, StatusCached, StatusCompleted} {
		if !s.Done() {
			t.Errorf("expected %q to be terminal", s)
		}
	}
	if StatusQueued.Done() {
		t.Error("expected queued to be non-terminal")
	}
}

func TestJob_AddError(t *testing.T) {
	job := &Job{ID: "err-test", UpdatedAt: time.Now()}
	job.AddError("parse: no text layer")
	job.AddError("store: status 503")

	snap := job.Snapshot()
	if len(snap.Progress.Errors) != 2 {
		t.Fatalf("expected 2 errors, got %d", len(snap.Progress.Errors))
	}
	if snap.Progress.Errors[0] != "parse: no text layer" {
		t.Errorf("expected first error %q, got %q", "parse: no text layer", snap.Progress.Errors[0])
	}
}

func TestJob_SetParsed(t *testing.T) {
	job := &Job{ID: "parsed-test", UpdatedAt: time.Now()}
	job.SetParsed(120, 4)

	snap := job.Snapshot()
	if snap.Progress.Lines != 120 || snap.Progress.Pages != 4 {
		t.Errorf("expected 120 lines on 4 pages, got %+v", snap.Progress)
	}
}

func TestJob_SetResult(t *testing.T) {
	job := &Job{ID: "result-test", UpdatedAt: time.Now()}
	if job.Result() != nil {
		t.Fatal("expected nil result before processing")
	}

	job.SetResult(doctree.OutlineResult{
		Title:   "Annual Report",
		Outline: []doctree.Heading{{Level: doctree.H1, Text: "Overview", Page: 0}},
	})
	snap := job.Snapshot()
	if snap.Title != "Annual Report" || snap.Progress.Headings != 1 {
		t.Errorf("expected title and heading count copied, got %+v", snap)
	}

	r := job.Result()
	r.Outline[0].Text = "mutated"
	if job.Result().Outline[0].Text != "Overview" {
		t.Error("expected Result to return a copy")
	}

	job.SetResult(doctree.OutlineResult{})
	if r := job.Result(); r.Outline == nil {
		t.Error("expected non-nil outline")
	}
}

func TestNewJob(t *testing.T) {
	data := []byte("hello world")
	job := NewJob("a.txt", data)
	if job.Status != StatusQueued || job.Filename != "a.txt" {
		t.Errorf("expected queued a.txt, got %q %q", job.Status, job.Filename)
	}
	if job.ContentHash != ContentHashHex(data) || job.DocID != job.ContentHash[:16] {
		t.Errorf("expected doc id from content hash, got %q", job.DocID)
	}
	if len(job.ID) != 26 {
		t.Errorf("expected 26-char ULID job id, got %q", job.ID)
	}
	if string(job.FileData()) != "hello world" {
		t.Errorf("expected file data, got %q", job.FileData())
	}
}

func TestJob_FileData(t *testing.T) {
	job := &Job{ID: "data-test"}
	data := []byte("file content here")
	job.SetFileData(data)
	got := job.FileData()
	if string(got) != string(data) {
		t.Errorf("expected file data %q, got %q", data, got)
	}
}

func TestJob_SnapshotErrorsNotNil(t *testing.T) {
	// Snapshot should always return non-nil errors slice.
	job := &Job{ID: "snap-test", UpdatedAt: time.Now()}
	snap := job.Snapshot()
	if snap.Progress.Errors == nil {
		t.Error("expected non-nil errors slice in snapshot")
	}
	if len(snap.Progress.Errors) != 0 {
		t.Errorf("expected empty errors, got %d", len(snap.Progress.Errors))
	}
}

func TestJobStore_PutGet(t *testing.T) {
	store := NewJobStore(time.Hour)
	job := &Job{ID: "store-1", UpdatedAt: time.Now()}
	store.Put(job)

	got := store.Get("store-1")
	if got == nil {
		t.Fatal("expected to get job back")
	}
	if got.ID != "store-1" {
		t.Errorf("expected ID %q, got %q", "store-1", got.ID)
	}
}

func TestJobStore_GetMissing(t *testing.T) {
	store := NewJobStore(time.Hour)
	if store.Get("nonexistent") != nil {
		t.Error("expected nil for missing job")
	}
}

func TestJobStore_TTLCleanup(t *testing.T) {
	store := NewJobStore(50 * time.Millisecond)

	expired := &Job{ID: "old", UpdatedAt: time.Now()}
	store.Put(expired)

	// Wait for the TTL to pass.
	time.Sleep(100 * time.Millisecond)

	// Add a fresh job.
	fresh := &Job{ID: "new", UpdatedAt: time.Now()}
	store.Put(fresh)

	store.Cleanup()

	if store.Get("old") != nil {
		t.Error("expected expired job to be cleaned up")
	}
	if store.Get("new") == nil {
		t.Error("expected fresh job to survive cleanup")
	}
}

func TestJobStore_CleanupEmpty(t *testing.T) {
	store := NewJobStore(time.Hour)
	// Should not panic on empty store.
	store.Cleanup()
}
