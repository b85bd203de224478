// Package validation checks canonical earthquake events against the schema
// contract and derives aggregate data-quality measures.
//
// Validation never fails a batch outright: per-event range violations are
// local, and the batch partitions into valid and invalid subsets with
// original indices preserved so callers can report partial imports.
package validation

import (
	"fmt"

	"github.com/couchcryptid/quake-catalogue-etl/internal/domain"
)

// InvalidEvent pairs a rejected event's original batch index with the
// checks that failed it.
type InvalidEvent struct {
	Index  int            `json:"index"`
	Errors []domain.Check `json:"errors"`
}

// ValidateEvent checks one event's required fields, numeric ranges, and
// timestamp. An empty result means the event is valid.
func ValidateEvent(event domain.EarthquakeEvent) []domain.Check {
	var checks []domain.Check

	if event.Time.IsZero() {
		checks = append(checks, domain.Check{
			Severity:   domain.SeverityError,
			Field:      domain.FieldTime,
			Message:    "missing or unparseable event time",
			Suggestion: "provide an ISO 8601 timestamp",
		})
	} else if event.Time.After(domain.Now()) {
		checks = append(checks, domain.Check{
			Severity:   domain.SeverityError,
			Field:      domain.FieldTime,
			Message:    fmt.Sprintf("event time %s is in the future", event.Time.Format("2006-01-02T15:04:05Z07:00")),
			Suggestion: "check the source file's date convention",
		})
	}

	checks = rangeCheck(checks, domain.FieldLatitude, event.Latitude, domain.MinLatitude, domain.MaxLatitude, "degrees")
	checks = rangeCheck(checks, domain.FieldLongitude, event.Longitude, domain.MinLongitude, domain.MaxLongitude, "degrees")
	checks = rangeCheck(checks, domain.FieldMagnitude, event.Magnitude, domain.MinMagnitude, domain.MaxMagnitude, "")

	if event.Depth != nil {
		checks = rangeCheck(checks, domain.FieldDepth, *event.Depth, domain.MinDepthKm, domain.MaxDepthKm, "km")
	}

	return checks
}

// ValidateEvents partitions a batch into valid events and rejected events,
// preserving each rejected event's original index.
func ValidateEvents(events []domain.EarthquakeEvent) ([]domain.EarthquakeEvent, []InvalidEvent) {
	valid := make([]domain.EarthquakeEvent, 0, len(events))
	var invalid []InvalidEvent

	for i, event := range events {
		if checks := ValidateEvent(event); len(checks) > 0 {
			invalid = append(invalid, InvalidEvent{Index: i, Errors: checks})
			continue
		}
		valid = append(valid, event)
	}
	return valid, invalid
}

func rangeCheck(checks []domain.Check, field string, value, minVal, maxVal float64, unit string) []domain.Check {
	if value >= minVal && value <= maxVal {
		return checks
	}
	msg := fmt.Sprintf("%s %g outside valid range [%g, %g]", field, value, minVal, maxVal)
	if unit != "" {
		msg = fmt.Sprintf("%s %g %s outside valid range [%g, %g]", field, value, unit, minVal, maxVal)
	}
	return append(checks, domain.Check{
		Severity: domain.SeverityError,
		Field:    field,
		Message:  msg,
	})
}
