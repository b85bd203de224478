package quality_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/quake-catalogue-etl/internal/domain"
	"github.com/couchcryptid/quake-catalogue-etl/internal/quality"
	"github.com/couchcryptid/quake-catalogue-etl/internal/validation"
)

func ptr(v float64) *float64 { return &v }

func cleanEvents(n int) []domain.EarthquakeEvent {
	base := time.Date(2024, time.March, 5, 14, 30, 0, 0, time.UTC)
	events := make([]domain.EarthquakeEvent, n)
	for i := range events {
		events[i] = domain.EarthquakeEvent{
			Time:      base.Add(time.Duration(i) * time.Hour),
			Latitude:  -41.2 - float64(i)*0.05,
			Longitude: 174.7 + float64(i)*0.05,
			Magnitude: 3.5 + float64(i%3)*0.5,
			Depth:     ptr(20.0 + float64(i)),
		}
	}
	return events
}

func newEngine() *quality.Engine {
	return quality.New(validation.DefaultQualityThresholds(), -1)
}

func TestPerformQualityCheck_CleanCatalogue(t *testing.T) {
	result := newEngine().PerformQualityCheck(cleanEvents(10))

	assert.True(t, result.Passed)
	assert.InDelta(t, 100, result.Score, 1e-9)
	assert.Empty(t, result.Anomalies)
	assert.Empty(t, result.GeographicChecks)
	assert.Empty(t, result.Recommendations)
}

func TestPerformQualityCheck_EmptyBatch(t *testing.T) {
	result := newEngine().PerformQualityCheck(nil)

	assert.False(t, result.Passed)
	assert.Zero(t, result.Score)
	require.Len(t, result.Recommendations, 1)
	assert.Contains(t, result.Recommendations[0], "no valid events")
}

func TestPerformQualityCheck_WarningsLowerScore(t *testing.T) {
	events := cleanEvents(10)
	events[0].Magnitude = 8.7 // one extreme-magnitude anomaly warning

	result := newEngine().PerformQualityCheck(events)

	// 100 base, minus one warning penalty.
	assert.InDelta(t, 98, result.Score, 1e-9)
	require.Len(t, result.Anomalies, 1)
	assert.True(t, result.Passed)
	require.Len(t, result.Recommendations, 1)
	assert.Contains(t, result.Recommendations[0], "flagged anomalies")
}

func TestPerformQualityCheck_PoorlyConstrainedEvents(t *testing.T) {
	events := cleanEvents(4)
	for i := range events {
		events[i].HorizontalUncertainty = ptr(50.0)
	}

	result := newEngine().PerformQualityCheck(events)

	// Four per-event warnings at 2 points each.
	assert.InDelta(t, 92, result.Score, 1e-9)
	assert.True(t, result.Passed)
}

func TestMeetsMinimumQuality(t *testing.T) {
	engine := newEngine()

	t.Run("passing score without errors", func(t *testing.T) {
		result := domain.QualityCheckResult{Score: 75}
		assert.True(t, engine.MeetsMinimumQuality(result))
	})

	t.Run("score below threshold", func(t *testing.T) {
		result := domain.QualityCheckResult{Score: 59.9}
		assert.False(t, engine.MeetsMinimumQuality(result))
	})

	t.Run("error findings always fail", func(t *testing.T) {
		result := domain.QualityCheckResult{
			Score: 95,
			GeographicChecks: []domain.Check{
				{Severity: domain.SeverityError, Message: "inverted latitude bounds"},
			},
		}
		assert.False(t, engine.MeetsMinimumQuality(result))
	})

	t.Run("stricter engine overrides original pass", func(t *testing.T) {
		strict := quality.New(validation.DefaultQualityThresholds(), 90)
		result := domain.QualityCheckResult{Score: 75, Passed: true}
		assert.False(t, strict.MeetsMinimumQuality(result))
	})
}

func TestGradeForScore(t *testing.T) {
	tests := []struct {
		score float64
		grade string
		label string
	}{
		{100, "A+", "Excellent"},
		{96, "A+", "Excellent"},
		{95, "A+", "Excellent"},
		{94.9, "A", "Excellent"},
		{90, "A", "Excellent"},
		{85, "B", "Good"},
		{75, "C", "Fair"},
		{65, "D", "Poor"},
		{60, "D", "Poor"},
		{59, "F", "Failing"},
		{0, "F", "Failing"},
	}

	for _, tt := range tests {
		g := quality.GradeForScore(tt.score)
		assert.Equal(t, tt.grade, g.Grade, "score %.1f", tt.score)
		assert.Equal(t, tt.label, g.Label, "score %.1f", tt.score)
	}
}

func TestFormatResults(t *testing.T) {
	events := cleanEvents(5)
	events[0].Magnitude = 8.7

	result := newEngine().PerformQualityCheck(events)
	formatted := quality.FormatResults(result)

	assert.Contains(t, formatted.Summary, "PASSED")
	assert.Contains(t, formatted.Summary, "5 events")
	require.Len(t, formatted.Warnings, 1)
	assert.Contains(t, formatted.Warnings[0], "magnitude")

	details := strings.Join(formatted.Details, "\n")
	assert.Contains(t, details, "Completeness")
	assert.Contains(t, details, "Consistency")
	assert.Contains(t, details, "Accuracy")
}
