package validation

import (
	"time"

	"github.com/couchcryptid/quake-catalogue-etl/internal/domain"
)

// Heuristic constants for the consistency and accuracy sub-scores. These
// are tunable (see config.Thresholds); the defaults here are calibrated so
// a clean catalogue scores 100 on each axis.
const (
	// Shallow events above this magnitude are a cross-field inconsistency:
	// M8+ ruptures do not nucleate in the top few kilometers.
	shallowLargeMagDepthKm   = 5.0
	shallowLargeMagMagnitude = 8.0

	// Typical observed ranges; values outside count against accuracy.
	typicalMinMagnitude = -1.0
	typicalMaxMagnitude = 9.0
	typicalMaxDepthKm   = 700.0
)

// AssessDataQuality computes the aggregate quality report for a batch:
// completeness (required-field fill rate), consistency (cross-field
// plausibility), accuracy (values within typical ranges), and descriptive
// statistics. An empty batch scores zero across the board.
func AssessDataQuality(events []domain.EarthquakeEvent) domain.QualityReport {
	if len(events) == 0 {
		return domain.QualityReport{
			Checks: []domain.Check{{
				Severity: domain.SeverityWarning,
				Message:  "no events to assess",
			}},
		}
	}

	total := float64(len(events))
	var filled, inconsistent, atypical float64

	for i := range events {
		filled += requiredFillRatio(&events[i])
		if isInconsistent(&events[i]) {
			inconsistent++
		}
		if isAtypical(&events[i]) {
			atypical++
		}
	}

	report := domain.QualityReport{
		Completeness: 100 * filled / total,
		Consistency:  100 * (1 - inconsistent/total),
		Accuracy:     100 * (1 - atypical/total),
		Statistics:   computeStatistics(events),
	}

	if inconsistent > 0 {
		report.Checks = append(report.Checks, domain.Check{
			Severity:   domain.SeverityWarning,
			Message:    "batch contains cross-field inconsistencies (very shallow, very large magnitude events)",
			Suggestion: "verify depth and magnitude columns were not swapped",
		})
	}
	if atypical > 0 {
		report.Checks = append(report.Checks, domain.Check{
			Severity: domain.SeverityInfo,
			Message:  "batch contains values outside typical seismic ranges",
		})
	}
	return report
}

// requiredFillRatio counts how many of the four required fields carry a
// usable value: a non-zero time and in-range coordinates and magnitude.
func requiredFillRatio(e *domain.EarthquakeEvent) float64 {
	n := 0
	if !e.Time.IsZero() {
		n++
	}
	if e.Latitude >= domain.MinLatitude && e.Latitude <= domain.MaxLatitude {
		n++
	}
	if e.Longitude >= domain.MinLongitude && e.Longitude <= domain.MaxLongitude {
		n++
	}
	if e.Magnitude >= domain.MinMagnitude && e.Magnitude <= domain.MaxMagnitude {
		n++
	}
	return float64(n) / float64(len(domain.RequiredFields))
}

func isInconsistent(e *domain.EarthquakeEvent) bool {
	return e.Depth != nil &&
		*e.Depth < shallowLargeMagDepthKm &&
		e.Magnitude > shallowLargeMagMagnitude
}

func isAtypical(e *domain.EarthquakeEvent) bool {
	if e.Magnitude < typicalMinMagnitude || e.Magnitude > typicalMaxMagnitude {
		return true
	}
	return e.Depth != nil && *e.Depth > typicalMaxDepthKm
}

func computeStatistics(events []domain.EarthquakeEvent) domain.CatalogueStatistics {
	stats := domain.CatalogueStatistics{TotalEvents: len(events)}

	var magSum, depthSum float64
	var minTime, maxTime time.Time

	first := events[0]
	extent := domain.GeographicBounds{
		MinLatitude:  first.Latitude,
		MaxLatitude:  first.Latitude,
		MinLongitude: first.Longitude,
		MaxLongitude: first.Longitude,
	}

	for i := range events {
		e := &events[i]
		magSum += e.Magnitude

		if e.Depth != nil {
			depthSum += *e.Depth
			stats.EventsWithDepth++
		}

		if !e.Time.IsZero() {
			if minTime.IsZero() || e.Time.Before(minTime) {
				minTime = e.Time
			}
			if maxTime.IsZero() || e.Time.After(maxTime) {
				maxTime = e.Time
			}
		}

		extent.MinLatitude = min(extent.MinLatitude, e.Latitude)
		extent.MaxLatitude = max(extent.MaxLatitude, e.Latitude)
		extent.MinLongitude = min(extent.MinLongitude, e.Longitude)
		extent.MaxLongitude = max(extent.MaxLongitude, e.Longitude)
	}

	stats.AverageMagnitude = magSum / float64(len(events))
	if stats.EventsWithDepth > 0 {
		stats.AverageDepth = depthSum / float64(stats.EventsWithDepth)
	}
	stats.TimeRange = domain.TimeRange{Start: minTime, End: maxTime}
	stats.SpatialExtent = extent
	return stats
}
