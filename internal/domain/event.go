package domain

import "time"

// Canonical field names shared by the schema registry, the parsers, and the
// validation engine. Source files use whatever names they like; everything
// funnels into these.
const (
	FieldTime                  = "time"
	FieldLatitude              = "latitude"
	FieldLongitude             = "longitude"
	FieldMagnitude             = "magnitude"
	FieldDepth                 = "depth"
	FieldRegion                = "region"
	FieldSource                = "source"
	FieldMagnitudeType         = "magnitude_type"
	FieldEventID               = "event_id"
	FieldHorizontalUncertainty = "horizontal_uncertainty"
	FieldDepthUncertainty      = "depth_uncertainty"
	FieldMagnitudeUncertainty  = "magnitude_uncertainty"
	FieldTimeUncertainty       = "time_uncertainty"
	FieldAzimuthalGap          = "azimuthal_gap"
	FieldUsedPhaseCount        = "used_phase_count"
	FieldUsedStationCount      = "used_station_count"
	FieldStandardError         = "standard_error"
	FieldEvaluationMode        = "evaluation_mode"
	FieldEvaluationStatus      = "evaluation_status"
	FieldAgency                = "agency"
	FieldComment               = "comment"
)

// RequiredFields is the minimal field set every catalogue event must carry.
var RequiredFields = []string{FieldTime, FieldLatitude, FieldLongitude, FieldMagnitude}

// Legal value ranges for the required numeric fields, plus depth.
const (
	MinLatitude  = -90.0
	MaxLatitude  = 90.0
	MinLongitude = -180.0
	MaxLongitude = 180.0
	MinMagnitude = -3.0
	MaxMagnitude = 10.0
	MinDepthKm   = 0.0
	MaxDepthKm   = 1000.0
)

// QuakeMLRefs carries the publicID attributes captured from a QuakeML
// document so downstream consumers can reference the source record.
type QuakeMLRefs struct {
	EventPublicID     string `json:"event_public_id,omitempty"`
	OriginPublicID    string `json:"origin_public_id,omitempty"`
	MagnitudePublicID string `json:"magnitude_public_id,omitempty"`
}

// EarthquakeEvent is the canonical event record produced by the parsers.
// Required fields are plain values; optional numeric fields are pointers so
// "absent" and "zero" stay distinguishable. Events are immutable once
// produced — ownership passes to the persistence layer.
type EarthquakeEvent struct {
	EventID   string    `json:"event_id,omitempty"`
	Time      time.Time `json:"time"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Magnitude float64   `json:"magnitude"`

	Depth         *float64 `json:"depth,omitempty"` // kilometers
	Region        string   `json:"region,omitempty"`
	Source        string   `json:"source,omitempty"`
	MagnitudeType string   `json:"magnitude_type,omitempty"`

	HorizontalUncertainty *float64 `json:"horizontal_uncertainty,omitempty"` // kilometers
	DepthUncertainty      *float64 `json:"depth_uncertainty,omitempty"`      // kilometers
	MagnitudeUncertainty  *float64 `json:"magnitude_uncertainty,omitempty"`
	TimeUncertainty       *float64 `json:"time_uncertainty,omitempty"` // seconds

	AzimuthalGap     *float64 `json:"azimuthal_gap,omitempty"` // degrees
	UsedPhaseCount   *int     `json:"used_phase_count,omitempty"`
	UsedStationCount *int     `json:"used_station_count,omitempty"`
	StandardError    *float64 `json:"standard_error,omitempty"` // RMS residual, seconds

	EvaluationMode   string `json:"evaluation_mode,omitempty"`
	EvaluationStatus string `json:"evaluation_status,omitempty"`
	Agency           string `json:"agency,omitempty"`
	Comment          string `json:"comment,omitempty"`

	QuakeML *QuakeMLRefs `json:"quakeml,omitempty"`

	ProcessedAt time.Time `json:"processed_at,omitempty"`
}

// HasDepth reports whether the event carries a depth value.
func (e *EarthquakeEvent) HasDepth() bool { return e.Depth != nil }

// ParseError is a structured parse failure. Line is the 1-based source line
// (CSV) or record number (JSON); 0 means the error is file-level.
type ParseError struct {
	Line    int    `json:"line,omitempty"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

func (e ParseError) Error() string { return e.Message }

// ParseResult is the transient outcome of parsing one uploaded file. It is
// produced per upload and never persisted by this subsystem.
type ParseResult struct {
	Success        bool              `json:"success"`
	Events         []EarthquakeEvent `json:"events"`
	Errors         []ParseError      `json:"errors,omitempty"`
	DetectedFields []string          `json:"detected_fields,omitempty"`
}

// Severity classifies a quality check or anomaly finding.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Check is a single quality-check or anomaly finding. Checks are
// informational signals, never thrown failures.
type Check struct {
	Severity   Severity `json:"severity"`
	Field      string   `json:"field,omitempty"`
	Message    string   `json:"message"`
	Suggestion string   `json:"suggestion,omitempty"`
}

// GeographicBounds is a lat/lon bounding box in WGS-84 degrees.
type GeographicBounds struct {
	MinLatitude  float64 `json:"min_latitude"`
	MaxLatitude  float64 `json:"max_latitude"`
	MinLongitude float64 `json:"min_longitude"`
	MaxLongitude float64 `json:"max_longitude"`
}

// TimeRange is the min/max event time observed across a batch.
type TimeRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// CatalogueStatistics are aggregate figures over one parsed batch.
type CatalogueStatistics struct {
	TotalEvents      int              `json:"total_events"`
	EventsWithDepth  int              `json:"events_with_depth"`
	AverageMagnitude float64          `json:"average_magnitude"`
	AverageDepth     float64          `json:"average_depth"`
	TimeRange        TimeRange        `json:"time_range"`
	SpatialExtent    GeographicBounds `json:"spatial_extent"`
}

// QualityReport is the aggregate data-quality assessment for a batch.
// Completeness, consistency, and accuracy are 0–100 sub-scores.
type QualityReport struct {
	Completeness float64             `json:"completeness"`
	Consistency  float64             `json:"consistency"`
	Accuracy     float64             `json:"accuracy"`
	Checks       []Check             `json:"checks,omitempty"`
	Statistics   CatalogueStatistics `json:"statistics"`
}

// QualityCheckResult is the full scored assessment for one batch, computed
// on demand and handed to the upload flow or an import-acceptance policy.
type QualityCheckResult struct {
	Passed           bool          `json:"passed"`
	Score            float64       `json:"score"` // 0–100
	Report           QualityReport `json:"report"`
	Anomalies        []Check       `json:"anomalies,omitempty"`
	GeographicChecks []Check       `json:"geographic_checks,omitempty"`
	Recommendations  []string      `json:"recommendations,omitempty"`
}
