// Package quality composes validation outputs into a scored, graded,
// recommendation-bearing report for one uploaded catalogue.
package quality

import (
	"fmt"

	"github.com/couchcryptid/quake-catalogue-etl/internal/domain"
	"github.com/couchcryptid/quake-catalogue-etl/internal/validation"
)

// Score weighting and penalties. The three sub-scores carry the bulk of the
// score; individual findings chip away at it so a catalogue riddled with
// warnings cannot coast on good averages.
const (
	completenessWeight = 0.4
	consistencyWeight  = 0.3
	accuracyWeight     = 0.3

	errorPenalty   = 5.0
	warningPenalty = 2.0

	// DefaultMinScore is the pass threshold for MeetsMinimumQuality.
	DefaultMinScore = 60.0
)

// Engine runs the composed quality assessment. Construct with New.
type Engine struct {
	thresholds validation.QualityThresholds
	minScore   float64
}

// New creates an Engine. Pass a negative minScore for the default.
func New(thresholds validation.QualityThresholds, minScore float64) *Engine {
	if minScore < 0 {
		minScore = DefaultMinScore
	}
	return &Engine{thresholds: thresholds, minScore: minScore}
}

// PerformQualityCheck assesses a batch end to end: aggregate report,
// anomaly scan, geographic-bounds check over the computed spatial extent,
// and per-event location-quality checks, reduced to a single score and
// pass/fail decision.
func (e *Engine) PerformQualityCheck(events []domain.EarthquakeEvent) domain.QualityCheckResult {
	report := validation.AssessDataQuality(events)

	var result domain.QualityCheckResult
	result.Anomalies = validation.DetectAnomalies(events)
	if len(events) > 0 {
		result.GeographicChecks = validation.ValidateGeographicBounds(report.Statistics.SpatialExtent)
	}

	for i := range events {
		report.Checks = append(report.Checks, validation.ValidateEventQuality(events[i], e.thresholds)...)
	}
	result.Report = report

	errors, warnings := countFindings(&result)
	score := completenessWeight*report.Completeness +
		consistencyWeight*report.Consistency +
		accuracyWeight*report.Accuracy
	score -= errorPenalty*float64(errors) + warningPenalty*float64(warnings)
	result.Score = clampScore(score)

	result.Passed = result.Score >= e.minScore && errors == 0
	result.Recommendations = e.recommend(&result, len(events))
	return result
}

// MeetsMinimumQuality re-derives the pass decision from the score and the
// absence of error-severity findings. It deliberately ignores result.Passed
// so callers can apply a stricter threshold than the one that produced the
// result.
func (e *Engine) MeetsMinimumQuality(result domain.QualityCheckResult) bool {
	errors, _ := countFindings(&result)
	return result.Score >= e.minScore && errors == 0
}

func countFindings(result *domain.QualityCheckResult) (errors, warnings int) {
	for _, group := range [][]domain.Check{
		result.Report.Checks,
		result.Anomalies,
		result.GeographicChecks,
	} {
		for _, c := range group {
			switch c.Severity {
			case domain.SeverityError:
				errors++
			case domain.SeverityWarning:
				warnings++
			}
		}
	}
	return errors, warnings
}

func (e *Engine) recommend(result *domain.QualityCheckResult, eventCount int) []string {
	var recs []string

	if eventCount == 0 {
		return []string{"Catalogue contains no valid events; nothing to import."}
	}
	if result.Report.Completeness < 90 {
		recs = append(recs, "Add missing required fields (time, latitude, longitude, magnitude) to improve completeness.")
	}
	if result.Report.Consistency < 90 {
		recs = append(recs, "Review events with implausible field combinations, such as very shallow depths paired with very large magnitudes.")
	}
	if result.Report.Accuracy < 90 {
		recs = append(recs, "Check values outside typical seismic ranges; depth columns in meters are a common cause.")
	}
	if n := len(result.Anomalies); n > 0 {
		recs = append(recs, fmt.Sprintf("Review %d flagged anomalies before accepting the import.", n))
	}
	for _, c := range result.GeographicChecks {
		if c.Severity == domain.SeverityError {
			recs = append(recs, "Fix inverted geographic bounds before import.")
			break
		}
	}
	if !result.Passed {
		recs = append(recs, fmt.Sprintf("Overall score %.0f is below the acceptance threshold %.0f.", result.Score, e.minScore))
	}
	return recs
}

func clampScore(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
