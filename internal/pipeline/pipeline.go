// Package pipeline orchestrates the parse → validate → assess flow for one
// uploaded catalogue file.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/couchcryptid/quake-catalogue-etl/internal/domain"
	"github.com/couchcryptid/quake-catalogue-etl/internal/observability"
	"github.com/couchcryptid/quake-catalogue-etl/internal/parser"
	"github.com/couchcryptid/quake-catalogue-etl/internal/quality"
	"github.com/couchcryptid/quake-catalogue-etl/internal/validation"
)

// Result is the complete outcome of ingesting one file: the raw parse, the
// valid/invalid partition, the quality assessment, and the acceptance
// decision handed to the persistence layer.
type Result struct {
	RunID    string        `json:"run_id"`
	Filename string        `json:"filename"`
	Format   parser.Format `json:"format"`

	Parse         domain.ParseResult        `json:"parse"`
	ValidEvents   []domain.EarthquakeEvent  `json:"valid_events"`
	InvalidEvents []validation.InvalidEvent `json:"invalid_events,omitempty"`
	Quality       domain.QualityCheckResult `json:"quality"`

	Accepted bool `json:"accepted"`

	// Partial-import accounting: every record seen, every record that
	// survived, and every record that did not.
	Submitted int `json:"submitted"`
	Imported  int `json:"imported"`
	Failed    int `json:"failed"`

	Elapsed time.Duration `json:"elapsed_ns"`
}

// Summary is the compact view of a Result exposed on the status endpoint.
type Summary struct {
	RunID     string    `json:"run_id"`
	Filename  string    `json:"filename"`
	Format    string    `json:"format"`
	Accepted  bool      `json:"accepted"`
	Score     float64   `json:"score"`
	Imported  int       `json:"imported"`
	Failed    int       `json:"failed"`
	Completed time.Time `json:"completed"`
}

// Pipeline wires the parser and quality engine together with logging and
// metrics. Safe for concurrent use; each ingestion works on its own input.
type Pipeline struct {
	parser  *parser.Parser
	engine  *quality.Engine
	logger  *slog.Logger
	metrics *observability.Metrics
	ready   atomic.Bool

	mu     sync.Mutex
	latest Summary
}

// New creates a Pipeline.
func New(p *parser.Parser, engine *quality.Engine, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		parser:  p,
		engine:  engine,
		logger:  logger,
		metrics: metrics,
	}
}

// CheckReadiness returns nil once the pipeline has ingested at least one
// file, or an error describing why the service is not yet ready.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("pipeline has not ingested any files yet")
	}
	return nil
}

// IngestFile runs the full flow over one materialized file: format
// detection, parsing, validation, and quality assessment. It never returns
// an error — every failure mode is represented inside the Result.
func (p *Pipeline) IngestFile(_ context.Context, filename, content string) Result {
	start := time.Now()

	result := Result{
		RunID:    uuid.NewString(),
		Filename: filename,
		Format:   parser.DetectFormat(content, filename),
	}
	log := p.logger.With("run_id", result.RunID, "filename", filename, "format", result.Format)

	result.Parse = p.parser.ParseFile(content, filename)
	result.ValidEvents, result.InvalidEvents = validation.ValidateEvents(result.Parse.Events)
	result.Quality = p.engine.PerformQualityCheck(result.ValidEvents)

	result.Submitted = len(result.Parse.Events) + countFailedRecords(result.Parse.Errors)
	result.Imported = len(result.ValidEvents)
	result.Failed = result.Submitted - result.Imported

	result.Accepted = result.Parse.Success && p.engine.MeetsMinimumQuality(result.Quality)
	result.Elapsed = time.Since(start)

	p.record(result)
	p.remember(result)
	p.ready.Store(true)

	log.Info("file ingested",
		"accepted", result.Accepted,
		"submitted", result.Submitted,
		"imported", result.Imported,
		"failed", result.Failed,
		"score", result.Quality.Score,
		"elapsed", result.Elapsed,
	)
	return result
}

// countFailedRecords counts distinct records that failed to parse. A record
// can violate several constraints at once and still fails only once;
// file-level errors describe the upload, not a record.
func countFailedRecords(errs []domain.ParseError) int {
	lines := make(map[int]bool)
	for _, e := range errs {
		if e.Line > 0 {
			lines[e.Line] = true
		}
	}
	return len(lines)
}

func (p *Pipeline) record(result Result) {
	outcome := "rejected"
	switch {
	case !result.Parse.Success:
		outcome = "failed"
	case result.Accepted:
		outcome = "accepted"
	}

	p.metrics.FilesProcessed.WithLabelValues(string(result.Format), outcome).Inc()
	p.metrics.EventsParsed.Add(float64(len(result.Parse.Events)))
	p.metrics.EventsInvalid.Add(float64(len(result.InvalidEvents)))
	p.metrics.ParseErrors.Add(float64(len(result.Parse.Errors)))
	p.metrics.QualityScore.Observe(result.Quality.Score)
	p.metrics.IngestDuration.Observe(result.Elapsed.Seconds())
}

func (p *Pipeline) remember(result Result) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.latest = Summary{
		RunID:     result.RunID,
		Filename:  result.Filename,
		Format:    string(result.Format),
		Accepted:  result.Accepted,
		Score:     result.Quality.Score,
		Imported:  result.Imported,
		Failed:    result.Failed,
		Completed: domain.Now(),
	}
}

// LatestSummary returns the most recent ingest summary and whether any
// ingest has completed yet.
func (p *Pipeline) LatestSummary() (Summary, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.latest, p.latest.RunID != ""
}
