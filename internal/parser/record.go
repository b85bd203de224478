package parser

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/quake-catalogue-etl/internal/dateformat"
	"github.com/couchcryptid/quake-catalogue-etl/internal/domain"
)

// record holds one event's raw values keyed by canonical field name, after
// alias resolution but before type coercion.
type record map[string]any

// buildEvent coerces a record into a canonical event. Coercion failures and
// missing required fields come back as ParseErrors with the field set; the
// caller stamps the line number. An event is only returned when all four
// required fields coerced cleanly.
func buildEvent(rec record, hint dateformat.Format) (domain.EarthquakeEvent, []domain.ParseError) {
	var event domain.EarthquakeEvent
	var errs []domain.ParseError

	event.Time, errs = coerceTime(rec, hint, errs)
	event.Latitude, errs = requireFloat(rec, domain.FieldLatitude, errs)
	event.Longitude, errs = requireFloat(rec, domain.FieldLongitude, errs)
	event.Magnitude, errs = requireFloat(rec, domain.FieldMagnitude, errs)
	if len(errs) > 0 {
		return domain.EarthquakeEvent{}, errs
	}

	event.Depth = optionalFloat(rec, domain.FieldDepth)
	event.EventID = optionalString(rec, domain.FieldEventID)
	event.Region = optionalString(rec, domain.FieldRegion)
	event.Source = optionalString(rec, domain.FieldSource)
	event.MagnitudeType = optionalString(rec, domain.FieldMagnitudeType)

	event.HorizontalUncertainty = optionalFloat(rec, domain.FieldHorizontalUncertainty)
	event.DepthUncertainty = optionalFloat(rec, domain.FieldDepthUncertainty)
	event.MagnitudeUncertainty = optionalFloat(rec, domain.FieldMagnitudeUncertainty)
	event.TimeUncertainty = optionalFloat(rec, domain.FieldTimeUncertainty)

	event.AzimuthalGap = optionalFloat(rec, domain.FieldAzimuthalGap)
	event.UsedPhaseCount = optionalInt(rec, domain.FieldUsedPhaseCount)
	event.UsedStationCount = optionalInt(rec, domain.FieldUsedStationCount)
	event.StandardError = optionalFloat(rec, domain.FieldStandardError)

	event.EvaluationMode = optionalString(rec, domain.FieldEvaluationMode)
	event.EvaluationStatus = optionalString(rec, domain.FieldEvaluationStatus)
	event.Agency = optionalString(rec, domain.FieldAgency)
	event.Comment = optionalString(rec, domain.FieldComment)

	event.ProcessedAt = domain.Now()
	return event, nil
}

func coerceTime(rec record, hint dateformat.Format, errs []domain.ParseError) (time.Time, []domain.ParseError) {
	raw, present := rec[domain.FieldTime]
	if !present {
		return time.Time{}, append(errs, domain.ParseError{
			Field:   domain.FieldTime,
			Message: "missing required field \"time\"",
		})
	}

	switch v := raw.(type) {
	case time.Time:
		return v, errs
	case string:
		if t, ok := dateformat.Parse(v, hint); ok {
			return t, errs
		}
	case float64:
		// USGS GeoJSON encodes time as epoch milliseconds.
		if v > 1e11 {
			return time.UnixMilli(int64(v)).UTC(), errs
		}
		if v > 0 {
			return time.Unix(int64(v), 0).UTC(), errs
		}
	}
	return time.Time{}, append(errs, domain.ParseError{
		Field:   domain.FieldTime,
		Message: fmt.Sprintf("unparseable timestamp %q", stringify(raw)),
	})
}

func requireFloat(rec record, field string, errs []domain.ParseError) (float64, []domain.ParseError) {
	raw, present := rec[field]
	if !present {
		return 0, append(errs, domain.ParseError{
			Field:   field,
			Message: fmt.Sprintf("missing required field %q", field),
		})
	}
	v, ok := toFloat(raw)
	if !ok {
		return 0, append(errs, domain.ParseError{
			Field:   field,
			Message: fmt.Sprintf("%s: non-numeric value %q", field, stringify(raw)),
		})
	}
	return v, errs
}

func optionalFloat(rec record, field string) *float64 {
	raw, present := rec[field]
	if !present {
		return nil
	}
	v, ok := toFloat(raw)
	if !ok {
		return nil
	}
	return &v
}

func optionalInt(rec record, field string) *int {
	raw, present := rec[field]
	if !present {
		return nil
	}
	v, ok := toFloat(raw)
	if !ok {
		return nil
	}
	n := int(v)
	return &n
}

func optionalString(rec record, field string) string {
	raw, present := rec[field]
	if !present {
		return ""
	}
	return strings.TrimSpace(stringify(raw))
}

// toFloat coerces JSON numbers, typed numerics, and numeric strings.
// NaN and infinities are rejected — they are sentinels, not measurements.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, !math.IsNaN(n) && !math.IsInf(n, 0)
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

func stringify(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", s)
	}
}

// timeStrings pulls the raw time values out of a record set for date-format
// detection. Non-string values are skipped; they need no disambiguation.
func timeStrings(recs []record) []string {
	out := make([]string, 0, len(recs))
	for _, rec := range recs {
		if s, ok := rec[domain.FieldTime].(string); ok {
			out = append(out, s)
		}
	}
	return out
}
