// Command ingestd runs the catalogue ingestion service: it watches a spool
// inbox for uploaded earthquake catalogue files, parses and validates each
// one, and writes a quality-assessed result document to the outbox.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/couchcryptid/quake-catalogue-etl/internal/adapter/http"
	"github.com/couchcryptid/quake-catalogue-etl/internal/adapter/spool"
	"github.com/couchcryptid/quake-catalogue-etl/internal/config"
	"github.com/couchcryptid/quake-catalogue-etl/internal/observability"
	"github.com/couchcryptid/quake-catalogue-etl/internal/parser"
	"github.com/couchcryptid/quake-catalogue-etl/internal/pipeline"
	"github.com/couchcryptid/quake-catalogue-etl/internal/quality"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	p := pipeline.New(
		parser.New(cfg.MinConfidence),
		quality.New(cfg.Thresholds, cfg.MinQualityScore),
		logger,
		metrics,
	)

	watcher := spool.NewWatcher(cfg.InboxDir, cfg.OutboxDir, cfg.PollInterval, p, logger)
	srv := httpadapter.NewServer(cfg.HTTPAddr, p, p, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start spool watcher.
	go func() {
		if err := watcher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("spool watcher error", "error", err)
		}
	}()

	logger.Info("ingestd started",
		"inbox", cfg.InboxDir,
		"outbox", cfg.OutboxDir,
		"poll_interval", cfg.PollInterval,
		"min_confidence", cfg.MinConfidence,
		"min_quality_score", cfg.MinQualityScore,
	)

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
}
