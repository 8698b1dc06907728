package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dgallion1/docoutline/internal/config"
	"github.com/dgallion1/docoutline/internal/outline"
	"github.com/dgallion1/docoutline/internal/parser"
	"github.com/dgallion1/docoutline/internal/resultstore"
	"github.com/dgallion1/docoutline/internal/stats"
)

// ErrStopped is returned by Submit after Stop.
var ErrStopped = errors.New("pipeline is stopped")

// Orchestrator manages the document outline pipeline.
type Orchestrator struct {
	jobs     *JobStore
	queue    chan *Job
	store    resultstore.Store
	log      *slog.Logger
	cfg      config.Config
	latency  *stats.Latency
	counters *stats.Counters

	outlineCfg outline.Config
	parserOpts parser.Options

	mu      sync.Mutex
	stopped bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewOrchestrator creates the pipeline; call Start to launch workers.
func NewOrchestrator(cfg config.Config, store resultstore.Store, log *slog.Logger) *Orchestrator {
	outlineCfg := outline.DefaultConfig()
	outlineCfg.MaxPages = cfg.MaxPages
	outlineCfg.MaxLines = cfg.MaxLines

	return &Orchestrator{
		jobs:       NewJobStore(cfg.JobTTL),
		queue:      make(chan *Job, cfg.MaxQueueSize),
		store:      store,
		log:        log,
		cfg:        cfg,
		latency:    stats.NewLatency(cfg.StatsWindow),
		counters:   stats.NewCounters(),
		outlineCfg: outlineCfg,
		parserOpts: parser.Options{PDFFallbackPdftotext: cfg.PDFFallbackPdftotext},
	}
}

// Start launches worker goroutines.
func (o *Orchestrator) Start(ctx context.Context) {
	workerCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel

	for range o.cfg.WorkerCount {
		o.wg.Add(1)
		go func() {
			defer o.wg.Done()
			w := NewWorker(o.store, o.log, o.outlineCfg, o.parserOpts, o.latency, o.counters)
			for {
				select {
				case <-workerCtx.Done():
					return
				case job, ok := <-o.queue:
					if !ok {
						return
					}
					w.Process(workerCtx, job)
				}
			}
		}()
	}

	// Start job store cleanup.
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-workerCtx.Done():
				return
			case <-ticker.C:
				o.jobs.Cleanup()
			}
		}
	}()
}

// Stop gracefully shuts down the pipeline.
func (o *Orchestrator) Stop() {
	o.mu.Lock()
	if o.stopped {
		o.mu.Unlock()
		return
	}
	o.stopped = true
	close(o.queue)
	o.mu.Unlock()

	if o.cancel != nil {
		o.cancel()
	}
	o.wg.Wait()
}

// Submit queues a new job for processing.
func (o *Orchestrator) Submit(job *Job) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.stopped {
		return ErrStopped
	}
	o.jobs.Put(job)
	select {
	case o.queue <- job:
		return nil
	default:
		job.SetStatus(StatusFailed, "queue_full")
		return fmt.Errorf("job queue is full (%d)", o.cfg.MaxQueueSize)
	}
}

// GetJob returns a job by ID.
func (o *Orchestrator) GetJob(id string) *Job {
	return o.jobs.Get(id)
}

// QueueDepth returns current queue depth.
func (o *Orchestrator) QueueDepth() int {
	return len(o.queue)
}

// Store returns the result store for direct use by API handlers.
func (o *Orchestrator) Store() resultstore.Store {
	return o.store
}

// OutlineConfig returns the thresholds workers run with.
func (o *Orchestrator) OutlineConfig() outline.Config {
	return o.outlineCfg
}

// Latency returns the per-document latency window.
func (o *Orchestrator) Latency() stats.Snapshot {
	return o.latency.Snapshot()
}

// Counts returns documents processed per terminal status.
func (o *Orchestrator) Counts() map[string]int64 {
	return o.counters.Snapshot()
}
