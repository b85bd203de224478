package validation

import (
	"fmt"
	"sort"
	"time"

	"github.com/couchcryptid/quake-catalogue-etl/internal/domain"
)

// Anomaly thresholds. Magnitude 8.5+ events happen roughly once a decade
// worldwide and deeper than 700 km is below the deepest observed
// seismicity, so either in an uploaded catalogue deserves a second look.
const (
	ExtremeMagnitude   = 8.5
	ExtremeDepthKm     = 700.0
	DuplicateTimeDelta = time.Second
)

// DetectAnomalies flags statistically suspicious events: extreme magnitude,
// extreme depth, and pairs of events within one second of each other
// (likely duplicates or split phases). All findings are warnings.
func DetectAnomalies(events []domain.EarthquakeEvent) []domain.Check {
	var anomalies []domain.Check

	for i := range events {
		e := &events[i]
		if e.Magnitude > ExtremeMagnitude {
			anomalies = append(anomalies, domain.Check{
				Severity:   domain.SeverityWarning,
				Field:      domain.FieldMagnitude,
				Message:    fmt.Sprintf("event %s: magnitude %.1f exceeds %.1f", eventLabel(e, i), e.Magnitude, ExtremeMagnitude),
				Suggestion: "verify against the source agency before import",
			})
		}
		if e.Depth != nil && *e.Depth > ExtremeDepthKm {
			anomalies = append(anomalies, domain.Check{
				Severity:   domain.SeverityWarning,
				Field:      domain.FieldDepth,
				Message:    fmt.Sprintf("event %s: depth %.0f km exceeds %.0f km", eventLabel(e, i), *e.Depth, ExtremeDepthKm),
				Suggestion: "depth may be in meters rather than kilometers",
			})
		}
	}

	anomalies = append(anomalies, detectNearDuplicateTimes(events)...)
	return anomalies
}

// detectNearDuplicateTimes sorts event times and flags adjacent pairs
// closer than DuplicateTimeDelta.
func detectNearDuplicateTimes(events []domain.EarthquakeEvent) []domain.Check {
	type stamped struct {
		index int
		t     time.Time
	}

	times := make([]stamped, 0, len(events))
	for i := range events {
		if !events[i].Time.IsZero() {
			times = append(times, stamped{index: i, t: events[i].Time})
		}
	}
	sort.Slice(times, func(i, j int) bool { return times[i].t.Before(times[j].t) })

	var checks []domain.Check
	for i := 1; i < len(times); i++ {
		if times[i].t.Sub(times[i-1].t) <= DuplicateTimeDelta {
			checks = append(checks, domain.Check{
				Severity: domain.SeverityWarning,
				Field:    domain.FieldTime,
				Message: fmt.Sprintf("events %s and %s occurred within %s of each other",
					eventLabel(&events[times[i-1].index], times[i-1].index),
					eventLabel(&events[times[i].index], times[i].index),
					DuplicateTimeDelta),
				Suggestion: "possible duplicate records; consider deduplication before import",
			})
		}
	}
	return checks
}

func eventLabel(e *domain.EarthquakeEvent, index int) string {
	if e.EventID != "" {
		return e.EventID
	}
	return fmt.Sprintf("#%d", index+1)
}
