package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/docoutline/internal/api"
	"github.com/dgallion1/docoutline/internal/config"
	"github.com/dgallion1/docoutline/internal/pipeline"
	"github.com/dgallion1/docoutline/internal/resultstore"
)

func main() {
	envErr := config.LoadEnvFile()
	cfg := config.Load()
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	if envErr != nil {
		log.Warn("env file not loaded", "error", envErr)
	}

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize result store.
	var store resultstore.Store
	switch {
	case cfg.ResultStoreURL != "":
		hs := resultstore.NewHTTPStore(cfg.ResultStoreURL, cfg.ResultStoreAPIKey)
		defer hs.Close()
		store = hs
		log.Info("using remote result store", "url", cfg.ResultStoreURL)
	case cfg.OutputDir != "":
		fs, err := resultstore.NewFileStore(cfg.OutputDir)
		if err != nil {
			log.Error("invalid output dir", "error", err)
			os.Exit(1)
		}
		store = fs
		log.Info("using file result store", "dir", cfg.OutputDir)
	default:
		store = resultstore.NewMemoryStore()
		log.Info("using in-memory result store")
	}

	// Initialize pipeline.
	orch := pipeline.NewOrchestrator(cfg, store, log)
	orch.Start(ctx)

	// Initialize HTTP server.
	srv := api.NewServer(orch, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		orch.Stop()
	}()

	log.Info("starting docoutline", "port", cfg.Port, "workers", cfg.WorkerCount)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
