// Package spool watches a filesystem inbox for catalogue uploads and writes
// ingest results to an outbox. Processed files are moved aside so a crashed
// run never re-ingests the same upload.
package spool

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/quake-catalogue-etl/internal/pipeline"
)

const (
	processedDir = "processed"
	failedDir    = "failed"
)

// Ingester runs the full parse-validate-assess flow over one file.
type Ingester interface {
	IngestFile(ctx context.Context, filename, content string) pipeline.Result
}

// Watcher polls an inbox directory and feeds new files to the ingester.
type Watcher struct {
	inbox    string
	outbox   string
	interval time.Duration
	ingester Ingester
	logger   *slog.Logger
	clock    clockwork.Clock
}

// NewWatcher creates a Watcher polling inbox every interval.
func NewWatcher(inbox, outbox string, interval time.Duration, ingester Ingester, logger *slog.Logger) *Watcher {
	return &Watcher{
		inbox:    inbox,
		outbox:   outbox,
		interval: interval,
		ingester: ingester,
		logger:   logger,
		clock:    clockwork.NewRealClock(),
	}
}

// Run polls the inbox until the context is cancelled. The first sweep
// happens immediately so files queued before startup are not delayed by a
// full interval.
func (w *Watcher) Run(ctx context.Context) error {
	if err := w.ensureDirs(); err != nil {
		return err
	}

	ticker := w.clock.NewTicker(w.interval)
	defer ticker.Stop()

	w.Sweep(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.Chan():
			w.Sweep(ctx)
		}
	}
}

// Sweep ingests every file currently in the inbox, oldest name first.
func (w *Watcher) Sweep(ctx context.Context) {
	entries, err := os.ReadDir(w.inbox)
	if err != nil {
		w.logger.Error("inbox read failed", "dir", w.inbox, "error", err)
		return
	}

	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		if err := w.processFile(ctx, entry.Name()); err != nil {
			w.logger.Error("file processing failed", "filename", entry.Name(), "error", err)
		}
		if ctx.Err() != nil {
			return
		}
	}
}

func (w *Watcher) processFile(ctx context.Context, name string) error {
	path := filepath.Join(w.inbox, name)
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", name, err)
	}

	result := w.ingester.IngestFile(ctx, name, string(data))

	if err := w.writeResult(name, result); err != nil {
		return err
	}

	dest := processedDir
	if !result.Parse.Success {
		dest = failedDir
	}
	if err := os.Rename(path, filepath.Join(w.inbox, dest, name)); err != nil {
		return fmt.Errorf("moving %s to %s: %w", name, dest, err)
	}
	return nil
}

func (w *Watcher) writeResult(name string, result pipeline.Result) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding result for %s: %w", name, err)
	}

	out := filepath.Join(w.outbox, name+".result.json")
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", out, err)
	}
	return nil
}

func (w *Watcher) ensureDirs() error {
	for _, dir := range []string{
		w.outbox,
		filepath.Join(w.inbox, processedDir),
		filepath.Join(w.inbox, failedDir),
	} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	return nil
}
