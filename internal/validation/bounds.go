package validation

import (
	"fmt"

	"github.com/couchcryptid/quake-catalogue-etl/internal/domain"
)

// Extent thresholds for geographic sanity checks. A span above 180° usually
// means mixed-up hemispheres or a sign error; a span below 0.01° (~1 km)
// from a whole catalogue usually means a stuck column.
const (
	largeExtentDegrees = 180.0
	smallExtentDegrees = 0.01
)

// ValidateGeographicBounds sanity-checks a bounding box. Inverted bounds
// are errors; suspiciously large or small extents are warnings.
func ValidateGeographicBounds(bounds domain.GeographicBounds) []domain.Check {
	var checks []domain.Check

	if bounds.MinLatitude > bounds.MaxLatitude {
		checks = append(checks, domain.Check{
			Severity: domain.SeverityError,
			Field:    domain.FieldLatitude,
			Message: fmt.Sprintf("inverted latitude bounds: min %.4f > max %.4f",
				bounds.MinLatitude, bounds.MaxLatitude),
		})
	}
	if bounds.MinLongitude > bounds.MaxLongitude {
		checks = append(checks, domain.Check{
			Severity: domain.SeverityError,
			Field:    domain.FieldLongitude,
			Message: fmt.Sprintf("inverted longitude bounds: min %.4f > max %.4f",
				bounds.MinLongitude, bounds.MaxLongitude),
		})
	}
	if len(checks) > 0 {
		return checks
	}

	latRange := bounds.MaxLatitude - bounds.MinLatitude
	lonRange := bounds.MaxLongitude - bounds.MinLongitude

	if latRange > largeExtentDegrees || lonRange > largeExtentDegrees {
		checks = append(checks, domain.Check{
			Severity:   domain.SeverityWarning,
			Message:    fmt.Sprintf("unusually large spatial extent: %.1f° × %.1f°", latRange, lonRange),
			Suggestion: "a single catalogue rarely spans more than a hemisphere; check for sign errors",
		})
	}
	if latRange < smallExtentDegrees && lonRange < smallExtentDegrees {
		checks = append(checks, domain.Check{
			Severity:   domain.SeverityWarning,
			Message:    fmt.Sprintf("unusually small spatial extent: %.4f° × %.4f°", latRange, lonRange),
			Suggestion: "all events share nearly identical coordinates; check for a stuck column",
		})
	}
	return checks
}
