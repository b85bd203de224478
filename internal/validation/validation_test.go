package validation_test

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/quake-catalogue-etl/internal/domain"
	"github.com/couchcryptid/quake-catalogue-etl/internal/validation"
)

func ptr(v float64) *float64 { return &v }

func intPtr(v int) *int { return &v }

func baseEvent() domain.EarthquakeEvent {
	return domain.EarthquakeEvent{
		Time:      time.Date(2024, time.March, 5, 14, 30, 0, 0, time.UTC),
		Latitude:  -41.2865,
		Longitude: 174.7762,
		Magnitude: 4.5,
		Depth:     ptr(22.0),
	}
}

func withFakeClock(t *testing.T) {
	t.Helper()
	domain.SetClock(clockwork.NewFakeClockAt(time.Date(2024, time.November, 1, 0, 0, 0, 0, time.UTC)))
	t.Cleanup(func() { domain.SetClock(nil) })
}

func TestValidateEvent(t *testing.T) {
	withFakeClock(t)

	tests := []struct {
		name      string
		mutate    func(*domain.EarthquakeEvent)
		wantField string
	}{
		{"valid event", func(*domain.EarthquakeEvent) {}, ""},
		{"zero time", func(e *domain.EarthquakeEvent) { e.Time = time.Time{} }, domain.FieldTime},
		{"future time", func(e *domain.EarthquakeEvent) {
			e.Time = time.Date(2031, time.January, 1, 0, 0, 0, 0, time.UTC)
		}, domain.FieldTime},
		{"latitude just above max", func(e *domain.EarthquakeEvent) { e.Latitude = 90.0001 }, domain.FieldLatitude},
		{"latitude at max", func(e *domain.EarthquakeEvent) { e.Latitude = 90 }, ""},
		{"longitude just below min", func(e *domain.EarthquakeEvent) { e.Longitude = -180.0001 }, domain.FieldLongitude},
		{"longitude at min", func(e *domain.EarthquakeEvent) { e.Longitude = -180 }, ""},
		{"magnitude too large", func(e *domain.EarthquakeEvent) { e.Magnitude = 11.5 }, domain.FieldMagnitude},
		{"magnitude too small", func(e *domain.EarthquakeEvent) { e.Magnitude = -4.0 }, domain.FieldMagnitude},
		{"negative depth", func(e *domain.EarthquakeEvent) { e.Depth = ptr(-10.0) }, domain.FieldDepth},
		{"depth too large", func(e *domain.EarthquakeEvent) { e.Depth = ptr(1500.0) }, domain.FieldDepth},
		{"no depth is fine", func(e *domain.EarthquakeEvent) { e.Depth = nil }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event := baseEvent()
			tt.mutate(&event)

			checks := validation.ValidateEvent(event)
			if tt.wantField == "" {
				assert.Empty(t, checks)
				return
			}
			require.Len(t, checks, 1)
			assert.Equal(t, domain.SeverityError, checks[0].Severity)
			assert.Equal(t, tt.wantField, checks[0].Field)
		})
	}
}

func TestValidateEvents_PreservesIndices(t *testing.T) {
	withFakeClock(t)

	good := baseEvent()
	bad := baseEvent()
	bad.Latitude = 95

	valid, invalid := validation.ValidateEvents([]domain.EarthquakeEvent{good, bad, good})

	assert.Len(t, valid, 2)
	require.Len(t, invalid, 1)
	assert.Equal(t, 1, invalid[0].Index)
	require.Len(t, invalid[0].Errors, 1)
	assert.Equal(t, domain.FieldLatitude, invalid[0].Errors[0].Field)
}

func TestAssessDataQuality_CleanBatch(t *testing.T) {
	events := []domain.EarthquakeEvent{baseEvent(), baseEvent(), baseEvent()}
	events[1].Time = events[1].Time.Add(time.Hour)
	events[2].Time = events[2].Time.Add(2 * time.Hour)

	report := validation.AssessDataQuality(events)

	assert.InDelta(t, 100, report.Completeness, 1e-9)
	assert.InDelta(t, 100, report.Consistency, 1e-9)
	assert.InDelta(t, 100, report.Accuracy, 1e-9)
	assert.Empty(t, report.Checks)

	assert.Equal(t, 3, report.Statistics.TotalEvents)
	assert.Equal(t, 3, report.Statistics.EventsWithDepth)
	assert.InDelta(t, 4.5, report.Statistics.AverageMagnitude, 1e-9)
	assert.Equal(t, events[0].Time, report.Statistics.TimeRange.Start)
	assert.Equal(t, events[2].Time, report.Statistics.TimeRange.End)
}

func TestAssessDataQuality_EmptyBatch(t *testing.T) {
	report := validation.AssessDataQuality(nil)

	assert.Zero(t, report.Completeness)
	assert.Zero(t, report.Consistency)
	assert.Zero(t, report.Accuracy)
	require.Len(t, report.Checks, 1)
	assert.Equal(t, domain.SeverityWarning, report.Checks[0].Severity)
}

func TestAssessDataQuality_ShallowLargeMagnitudeInconsistency(t *testing.T) {
	consistent := baseEvent()
	inconsistent := baseEvent()
	inconsistent.Depth = ptr(2.0)
	inconsistent.Magnitude = 8.7

	report := validation.AssessDataQuality([]domain.EarthquakeEvent{consistent, inconsistent})

	assert.InDelta(t, 50, report.Consistency, 1e-9)
	require.NotEmpty(t, report.Checks)
	assert.Equal(t, domain.SeverityWarning, report.Checks[0].Severity)
}

func TestAssessDataQuality_AtypicalValuesLowerAccuracy(t *testing.T) {
	typical := baseEvent()
	deep := baseEvent()
	deep.Depth = ptr(850.0)

	report := validation.AssessDataQuality([]domain.EarthquakeEvent{typical, deep, typical, typical})

	assert.InDelta(t, 75, report.Accuracy, 1e-9)
}

func TestDetectAnomalies(t *testing.T) {
	t.Run("extreme magnitude", func(t *testing.T) {
		event := baseEvent()
		event.Magnitude = 9.2
		event.EventID = "2024p999999"

		checks := validation.DetectAnomalies([]domain.EarthquakeEvent{event})

		require.Len(t, checks, 1)
		assert.Equal(t, domain.FieldMagnitude, checks[0].Field)
		assert.Contains(t, checks[0].Message, "2024p999999")
	})

	t.Run("extreme depth", func(t *testing.T) {
		event := baseEvent()
		event.Depth = ptr(6371.0)

		checks := validation.DetectAnomalies([]domain.EarthquakeEvent{event})

		require.Len(t, checks, 1)
		assert.Equal(t, domain.FieldDepth, checks[0].Field)
		assert.Contains(t, checks[0].Suggestion, "meters")
	})

	t.Run("near-duplicate times", func(t *testing.T) {
		a := baseEvent()
		b := baseEvent()
		b.Time = a.Time.Add(500 * time.Millisecond)
		c := baseEvent()
		c.Time = a.Time.Add(time.Hour)

		checks := validation.DetectAnomalies([]domain.EarthquakeEvent{c, a, b})

		require.Len(t, checks, 1)
		assert.Equal(t, domain.FieldTime, checks[0].Field)
	})

	t.Run("clean batch", func(t *testing.T) {
		a := baseEvent()
		b := baseEvent()
		b.Time = a.Time.Add(time.Hour)

		assert.Empty(t, validation.DetectAnomalies([]domain.EarthquakeEvent{a, b}))
	})
}

func TestValidateGeographicBounds(t *testing.T) {
	t.Run("normal bounds", func(t *testing.T) {
		checks := validation.ValidateGeographicBounds(domain.GeographicBounds{
			MinLatitude: -41.5, MaxLatitude: -34.0,
			MinLongitude: 172.0, MaxLongitude: 179.0,
		})
		assert.Empty(t, checks)
	})

	t.Run("inverted latitude bounds", func(t *testing.T) {
		checks := validation.ValidateGeographicBounds(domain.GeographicBounds{
			MinLatitude: 10, MaxLatitude: -10,
			MinLongitude: 0, MaxLongitude: 1,
		})
		require.Len(t, checks, 1)
		assert.Equal(t, domain.SeverityError, checks[0].Severity)
		assert.Equal(t, domain.FieldLatitude, checks[0].Field)
	})

	t.Run("large extent", func(t *testing.T) {
		checks := validation.ValidateGeographicBounds(domain.GeographicBounds{
			MinLatitude: -80, MaxLatitude: 80,
			MinLongitude: -179, MaxLongitude: 179,
		})
		require.Len(t, checks, 1)
		assert.Equal(t, domain.SeverityWarning, checks[0].Severity)
		assert.Contains(t, checks[0].Message, "large")
	})

	t.Run("tiny extent", func(t *testing.T) {
		checks := validation.ValidateGeographicBounds(domain.GeographicBounds{
			MinLatitude: -41.2865, MaxLatitude: -41.2864,
			MinLongitude: 174.7762, MaxLongitude: 174.7763,
		})
		require.Len(t, checks, 1)
		assert.Contains(t, checks[0].Message, "small")
	})
}

func TestValidateEventQuality(t *testing.T) {
	thresholds := validation.DefaultQualityThresholds()

	t.Run("missing quality fields are not penalized", func(t *testing.T) {
		assert.Empty(t, validation.ValidateEventQuality(baseEvent(), thresholds))
	})

	t.Run("well constrained location", func(t *testing.T) {
		event := baseEvent()
		event.HorizontalUncertainty = ptr(2.5)
		event.DepthUncertainty = ptr(4.0)
		event.UsedStationCount = intPtr(15)
		event.AzimuthalGap = ptr(95.0)

		assert.Empty(t, validation.ValidateEventQuality(event, thresholds))
	})

	t.Run("poorly constrained location", func(t *testing.T) {
		event := baseEvent()
		event.HorizontalUncertainty = ptr(25.0)
		event.DepthUncertainty = ptr(30.0)
		event.UsedStationCount = intPtr(2)
		event.AzimuthalGap = ptr(270.0)

		checks := validation.ValidateEventQuality(event, thresholds)

		require.Len(t, checks, 4)
		fields := make([]string, len(checks))
		for i, c := range checks {
			fields[i] = c.Field
		}
		assert.Contains(t, fields, domain.FieldHorizontalUncertainty)
		assert.Contains(t, fields, domain.FieldDepthUncertainty)
		assert.Contains(t, fields, domain.FieldUsedStationCount)
		assert.Contains(t, fields, domain.FieldAzimuthalGap)
	})

	t.Run("custom thresholds", func(t *testing.T) {
		event := baseEvent()
		event.AzimuthalGap = ptr(150.0)

		strict := thresholds
		strict.MaxAzimuthalGapDegrees = 120

		checks := validation.ValidateEventQuality(event, strict)
		require.Len(t, checks, 1)
		assert.Equal(t, domain.FieldAzimuthalGap, checks[0].Field)
	})
}
