// Command outline writes the inferred title and heading outline of every
// supported document in a directory as <stem>.json.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/dgallion1/docoutline/internal/config"
	"github.com/dgallion1/docoutline/internal/doctree"
	"github.com/dgallion1/docoutline/internal/outline"
	"github.com/dgallion1/docoutline/internal/parser"
	"github.com/dgallion1/docoutline/internal/pipeline"
	"github.com/dgallion1/docoutline/internal/resultstore"
	"github.com/dgallion1/docoutline/internal/stats"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], os.Stderr))
}

func run(ctx context.Context, args []string, stderr io.Writer) int {
	fs := flag.NewFlagSet("outline", flag.ContinueOnError)
	fs.SetOutput(stderr)
	in := fs.String("in", "input", "directory of documents to read")
	out := fs.String("out", "output", "directory to write <stem>.json results to")
	workers := fs.Int("workers", runtime.NumCPU(), "documents processed in parallel")
	verbose := fs.Bool("v", false, "debug logging")
	fallback := fs.Bool("pdftotext", false, "retry PDFs without a text layer through pdftotext")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	if err := config.LoadEnvFile(); err != nil {
		log.Warn("env file not loaded", "error", err)
	}
	cfg := config.Load()
	outlineCfg := outline.DefaultConfig()
	outlineCfg.MaxPages = cfg.MaxPages
	outlineCfg.MaxLines = cfg.MaxLines
	opts := parser.Options{PDFFallbackPdftotext: *fallback}

	files, err := listDocuments(*in)
	if err != nil {
		log.Error("cannot read input", "dir", *in, "error", err)
		return 1
	}
	store, err := resultstore.NewFileStore(*out)
	if err != nil {
		log.Error("cannot create output", "dir", *out, "error", err)
		return 1
	}
	log.Info("processing documents", "count", len(files), "in", *in, "out", *out, "workers", *workers)

	latency := stats.NewLatency(24 * time.Hour)
	errs := pipeline.RunBatch(ctx, files, *workers, func(ctx context.Context, path string) error {
		start := time.Now()
		key := stem(path)
		result, doc, procErr := processFile(path, opts, outlineCfg)
		// A failed document still gets its empty result on disk.
		if err := store.Put(ctx, key, result); err != nil {
			return fmt.Errorf("write %s: %w", key, err)
		}
		if procErr != nil {
			return procErr
		}
		latency.Record(time.Since(start))
		log.Debug("document done", "file", filepath.Base(path), "lines", len(doc.Lines), "pages", doc.PageCount,
			"title", result.Title, "headings", len(result.Outline), "duration_ms", time.Since(start).Milliseconds())
		return nil
	})

	failed := 0
	for i, err := range errs {
		if err != nil {
			failed++
			log.Error("document failed", "file", filepath.Base(files[i]), "error", err)
		}
	}
	snap := latency.Snapshot()
	log.Info("done", "processed", len(files), "failed", failed, "avg_ms", snap.AvgMs, "p95_ms", snap.P95Ms)
	if failed > 0 {
		return 1
	}
	return 0
}

func processFile(path string, opts parser.Options, cfg outline.Config) (doctree.OutlineResult, *doctree.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return doctree.Empty(), nil, err
	}
	defer f.Close()
	return pipeline.ExtractFile(f, filepath.Base(path), opts, cfg)
}

// listDocuments returns the supported files directly inside dir, sorted.
func listDocuments(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") || !parser.IsSupportedExtension(e.Name()) {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	sort.Strings(files)
	return files, nil
}

func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
