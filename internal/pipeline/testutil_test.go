package pipeline

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/dgallion1/docoutline/internal/doctree"
	"github.com/dgallion1/docoutline/internal/outline"
	"github.com/dgallion1/docoutline/internal/parser"
	"github.com/dgallion1/docoutline/internal/resultstore"
	"github.com/dgallion1/docoutline/internal/stats"
)

const guideMarkdown = `# Field Guide

## Getting Started

This guide explains how the field kit is assembled and maintained.

Every volunteer should read the safety notes before heading outside.

The kit contains maps, a compass and enough water for one day.
`

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestWorker(store resultstore.Store) *Worker {
	w := NewWorker(store, discardLogger(), outline.DefaultConfig(), parser.Options{}, stats.NewLatency(time.Hour), stats.NewCounters())
	w.backoff = func(int) time.Duration { return 0 }
	return w
}

// flakyStore fails Put with the queued errors before delegating.
type flakyStore struct {
	*resultstore.MemoryStore
	mu     sync.Mutex
	errs   []error
	puts   int
	getErr error
}

func (s *flakyStore) Put(ctx context.Context, key string, r doctree.OutlineResult) error {
	s.mu.Lock()
	s.puts++
	if len(s.errs) > 0 {
		err := s.errs[0]
		s.errs = s.errs[1:]
		s.mu.Unlock()
		return err
	}
	s.mu.Unlock()
	return s.MemoryStore.Put(ctx, key, r)
}

func (s *flakyStore) Get(ctx context.Context, key string) (*doctree.OutlineResult, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.MemoryStore.Get(ctx, key)
}
