package parser

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/couchcryptid/quake-catalogue-etl/internal/dateformat"
	"github.com/couchcryptid/quake-catalogue-etl/internal/domain"
	"github.com/couchcryptid/quake-catalogue-etl/internal/schema"
)

// geoJSONTypes are the top-level type tags that route a JSON document to the
// GeoJSON parser.
var geoJSONTypes = map[string]bool{
	"Feature":            true,
	"FeatureCollection":  true,
	"Point":              true,
	"GeometryCollection": true,
}

// ParseJSON parses a JSON catalogue. Three shapes are accepted: a top-level
// array of event objects, a catalogue envelope {"events": [...]}, and a
// GeoJSON document (delegated to ParseGeoJSON). Anything else is a
// file-level error.
func (p *Parser) ParseJSON(text string) domain.ParseResult {
	var root any
	if err := json.Unmarshal([]byte(text), &root); err != nil {
		return fileError("Invalid JSON")
	}

	switch v := root.(type) {
	case []any:
		return p.parseJSONRecords(v, "")
	case map[string]any:
		if t, ok := v["type"].(string); ok && geoJSONTypes[t] {
			return p.parseGeoJSONValue(v)
		}
		if events, ok := v["events"].([]any); ok {
			region, _ := v["region"].(string)
			return p.parseJSONRecords(events, region)
		}
		return fileError(`Invalid JSON: expected an event array, an "events" envelope, or a GeoJSON object`)
	default:
		return fileError("Invalid JSON: top-level value is not an object or array")
	}
}

// parseJSONRecords maps and builds events from a slice of flat JSON objects.
// defaultRegion, when non-empty, fills events that carry no region of their
// own (catalogue envelopes name their region once, at the top).
func (p *Parser) parseJSONRecords(items []any, defaultRegion string) domain.ParseResult {
	mappings := schema.DetectAllFieldMappings(unionKeys(items), p.minConfidence)
	result := domain.ParseResult{DetectedFields: detectedFields(mappings)}

	if complete, missing := schema.CheckRequiredFieldsMapped(mappings); !complete {
		result.Errors = append(result.Errors, domain.ParseError{
			Message: fmt.Sprintf("required fields not found in records: %s", strings.Join(missing, ", ")),
		})
		return finalize(result)
	}

	recs := make([]record, len(items))
	for i, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		recs[i] = mapObject(obj, mappings)
	}

	hint := dateformat.Detect(timeStrings(recs), 0).Format

	for i, rec := range recs {
		if rec == nil {
			result.Errors = append(result.Errors, domain.ParseError{
				Line:    i + 1,
				Message: "record is not a JSON object",
			})
			continue
		}
		event, buildErrs := buildEvent(rec, hint)
		if len(buildErrs) > 0 {
			result.Errors = append(result.Errors, stampLine(buildErrs, i+1)...)
			continue
		}
		if event.Region == "" {
			event.Region = defaultRegion
		}
		result.Events = append(result.Events, event)
	}

	return finalize(result)
}

// mapObject projects a raw JSON object onto canonical fields using the
// resolved mappings. Null values are treated as absent.
func mapObject(obj map[string]any, mappings map[string]schema.FieldMapping) record {
	rec := make(record, len(mappings))
	for key, value := range obj {
		m, ok := mappings[key]
		if !ok || value == nil {
			continue
		}
		rec[m.TargetField] = value
	}
	return rec
}

// unionKeys collects the distinct keys across all record objects, sorted for
// deterministic mapping resolution.
func unionKeys(items []any) []string {
	seen := make(map[string]bool)
	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		for key := range obj {
			seen[key] = true
		}
	}
	keys := make([]string, 0, len(seen))
	for key := range seen {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
