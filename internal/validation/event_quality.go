package validation

import (
	"fmt"

	"github.com/couchcryptid/quake-catalogue-etl/internal/domain"
)

// QualityThresholds tune the per-event location-quality warnings. The zero
// value is not meaningful; start from DefaultQualityThresholds.
type QualityThresholds struct {
	MaxHorizontalUncertaintyKm float64 `toml:"max_horizontal_uncertainty_km"`
	MaxDepthUncertaintyKm      float64 `toml:"max_depth_uncertainty_km"`
	MinStationCount            int     `toml:"min_station_count"`
	MaxAzimuthalGapDegrees     float64 `toml:"max_azimuthal_gap_degrees"`
}

// DefaultQualityThresholds reflect common agency review criteria: a
// well-constrained location has a gap under 180° and at least a handful of
// stations.
func DefaultQualityThresholds() QualityThresholds {
	return QualityThresholds{
		MaxHorizontalUncertaintyKm: 10,
		MaxDepthUncertaintyKm:      15,
		MinStationCount:            4,
		MaxAzimuthalGapDegrees:     180,
	}
}

// ValidateEventQuality produces per-event warnings for poorly constrained
// locations. Missing quality fields are not penalized — absence is common
// outside QuakeML sources.
func ValidateEventQuality(event domain.EarthquakeEvent, thresholds QualityThresholds) []domain.Check {
	var checks []domain.Check

	if u := event.HorizontalUncertainty; u != nil && *u > thresholds.MaxHorizontalUncertaintyKm {
		checks = append(checks, domain.Check{
			Severity: domain.SeverityWarning,
			Field:    domain.FieldHorizontalUncertainty,
			Message: fmt.Sprintf("horizontal uncertainty %.1f km exceeds %.1f km",
				*u, thresholds.MaxHorizontalUncertaintyKm),
		})
	}
	if u := event.DepthUncertainty; u != nil && *u > thresholds.MaxDepthUncertaintyKm {
		checks = append(checks, domain.Check{
			Severity: domain.SeverityWarning,
			Field:    domain.FieldDepthUncertainty,
			Message: fmt.Sprintf("depth uncertainty %.1f km exceeds %.1f km",
				*u, thresholds.MaxDepthUncertaintyKm),
		})
	}
	if n := event.UsedStationCount; n != nil && *n < thresholds.MinStationCount {
		checks = append(checks, domain.Check{
			Severity:   domain.SeverityWarning,
			Field:      domain.FieldUsedStationCount,
			Message:    fmt.Sprintf("only %d stations used (minimum %d)", *n, thresholds.MinStationCount),
			Suggestion: "location may be poorly constrained",
		})
	}
	if g := event.AzimuthalGap; g != nil && *g > thresholds.MaxAzimuthalGapDegrees {
		checks = append(checks, domain.Check{
			Severity:   domain.SeverityWarning,
			Field:      domain.FieldAzimuthalGap,
			Message:    fmt.Sprintf("azimuthal gap %.0f° exceeds %.0f°", *g, thresholds.MaxAzimuthalGapDegrees),
			Suggestion: "epicenter may be biased toward the station network",
		})
	}
	return checks
}
