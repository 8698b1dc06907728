package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/dgallion1/docoutline/internal/doctree"
	"github.com/dgallion1/docoutline/internal/outline"
	"github.com/dgallion1/docoutline/internal/parser"
	"github.com/dgallion1/docoutline/internal/resultstore"
	"github.com/dgallion1/docoutline/internal/stats"
)

// ExtractFile parses one document and infers its outline. On error the
// result is the empty outline; the parsed document is nil only when parsing
// failed.
func ExtractFile(r io.Reader, filename string, opts parser.Options, cfg outline.Config) (doctree.OutlineResult, *doctree.Document, error) {
	doc, err := parseDocument(r, filename, opts)
	if err != nil {
		return doctree.Empty(), nil, err
	}
	return outline.Extract(doc.Lines, doc.PageCount, cfg), doc, nil
}

// parseDocument picks the collector for filename and runs it. Both the
// worker and the batch CLI go through here.
func parseDocument(r io.Reader, filename string, opts parser.Options) (*doctree.Document, error) {
	p, err := parser.ForFileWithOptions(filename, opts)
	if err != nil {
		return nil, err
	}
	doc, err := p.Parse(r, filename)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filename, err)
	}
	return doc, nil
}

// Worker processes a single document job.
type Worker struct {
	store      resultstore.Store
	log        *slog.Logger
	outlineCfg outline.Config
	parserOpts parser.Options
	latency    *stats.Latency
	counters   *stats.Counters

	// backoff is Backoff outside tests.
	backoff func(attempt int) time.Duration
}

func NewWorker(store resultstore.Store, log *slog.Logger, outlineCfg outline.Config, parserOpts parser.Options, latency *stats.Latency, counters *stats.Counters) *Worker {
	return &Worker{
		store:      store,
		log:        log,
		outlineCfg: outlineCfg,
		parserOpts: parserOpts,
		latency:    latency,
		counters:   counters,
		backoff:    Backoff,
	}
}

// Process runs the full outline pipeline for a job. It always leaves a
// result on the job, the empty outline when the document could not be read.
func (w *Worker) Process(ctx context.Context, job *Job) {
	start := time.Now()
	log := w.log.With("job_id", job.ID, "doc_id", job.DocID, "filename", job.Filename)
	data := job.FileData()
	defer job.SetFileData(nil)

	// Phase 1: Cache lookup by content hash.
	if !job.Force {
		cached, err := w.store.Get(ctx, job.DocID)
		if err != nil {
			log.Warn("cache lookup failed, proceeding", "error", err)
		} else if cached != nil {
			log.Info("outline served from store")
			job.SetResult(*cached)
			job.SetStatus(StatusCached, "done")
			w.counters.Incr(string(StatusCached))
			return
		}
	}

	// Phase 2: Parse
	job.SetStatus(StatusParsing, "parsing")
	doc, err := parseDocument(bytes.NewReader(data), job.Filename, w.parserOpts)
	if err != nil {
		w.fail(log, job, "parsing", err)
		return
	}
	job.SetParsed(len(doc.Lines), doc.PageCount)
	log.Debug("parsed document", "lines", len(doc.Lines), "pages", doc.PageCount)

	// Phase 3: Infer the outline.
	job.SetStatus(StatusAnalyzing, "analyzing")
	result := outline.Extract(doc.Lines, doc.PageCount, w.outlineCfg)
	job.SetResult(result)
	log.Info("outline inferred", "title", result.Title, "headings", len(result.Outline))

	// Phase 4: Store
	job.SetStatus(StatusStoring, "storing")
	if err := w.storeWithRetry(ctx, log, job.DocID, result); err != nil {
		log.Error("store failed", "error", err)
		job.AddError(fmt.Sprintf("store: %s", err))
		job.SetStatus(StatusFailed, "storing")
		w.counters.Incr(string(StatusFailed))
		return
	}

	job.SetStatus(StatusCompleted, "done")
	w.counters.Incr(string(StatusCompleted))
	w.latency.Record(time.Since(start))
}

func (w *Worker) fail(log *slog.Logger, job *Job, phase string, err error) {
	log.Error("job failed", "phase", phase, "error", err)
	job.AddError(err.Error())
	job.SetResult(doctree.Empty())
	job.SetStatus(StatusFailed, phase)
	w.counters.Incr(string(StatusFailed))
}

func (w *Worker) storeWithRetry(ctx context.Context, log *slog.Logger, key string, result doctree.OutlineResult) error {
	var lastErr error
	for attempt := range MaxRetries {
		lastErr = w.store.Put(ctx, key, result)
		if lastErr == nil || !IsRetryable(lastErr) {
			return lastErr
		}
		log.Warn("retryable store error", "attempt", attempt, "error", lastErr)
		select {
		case <-time.After(w.backoff(attempt)):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return lastErr
}
