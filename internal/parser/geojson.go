package parser

import (
	"encoding/json"
	"fmt"

	"github.com/couchcryptid/quake-catalogue-etl/internal/dateformat"
	"github.com/couchcryptid/quake-catalogue-etl/internal/domain"
	"github.com/couchcryptid/quake-catalogue-etl/internal/schema"
)

// ParseGeoJSON parses a GeoJSON earthquake catalogue (USGS-style). Only
// Feature and FeatureCollection documents are accepted, and every feature
// must carry Point geometry with [lon, lat, depth?] coordinates.
func (p *Parser) ParseGeoJSON(text string) domain.ParseResult {
	var root map[string]any
	if err := json.Unmarshal([]byte(text), &root); err != nil {
		return fileError("Invalid JSON")
	}
	return p.parseGeoJSONValue(root)
}

func (p *Parser) parseGeoJSONValue(root map[string]any) domain.ParseResult {
	typeTag, ok := root["type"].(string)
	if !ok {
		return fileError(`Invalid GeoJSON: missing "type" field`)
	}

	var features []map[string]any
	switch typeTag {
	case "FeatureCollection":
		raw, _ := root["features"].([]any)
		for _, f := range raw {
			if obj, ok := f.(map[string]any); ok {
				features = append(features, obj)
			}
		}
	case "Feature":
		features = []map[string]any{root}
	default:
		return fileError(fmt.Sprintf("Unsupported GeoJSON type: %q", typeTag))
	}

	// Non-Point geometry is a format violation that fails the whole file,
	// not just the offending feature.
	for _, feature := range features {
		if geometry, ok := feature["geometry"].(map[string]any); ok {
			if geomType, _ := geometry["type"].(string); geomType != "Point" {
				return fileError(fmt.Sprintf("unsupported geometry type %q: only Point geometry is supported", geomType))
			}
		}
	}

	mappings := schema.DetectAllFieldMappings(unionPropertyKeys(features), p.minConfidence)
	result := domain.ParseResult{
		DetectedFields: mergeFields(structuralGeoJSONFields(features), detectedFields(mappings)),
	}

	recs := make([]record, len(features))
	for i, feature := range features {
		rec, err := geoJSONRecord(feature, mappings)
		if err != nil {
			result.Errors = append(result.Errors, domain.ParseError{Line: i + 1, Message: err.Error()})
			continue
		}
		recs[i] = rec
	}

	hint := dateformat.Detect(timeStrings(recs), 0).Format

	for i, rec := range recs {
		if rec == nil {
			continue
		}
		event, buildErrs := buildEvent(rec, hint)
		if len(buildErrs) > 0 {
			result.Errors = append(result.Errors, stampLine(buildErrs, i+1)...)
			continue
		}
		result.Events = append(result.Events, event)
	}

	return finalize(result)
}

// geoJSONRecord flattens one feature into a canonical record. Geometry
// coordinates win over any coordinate-looking properties; depth falls back
// to properties.depth when the coordinate array has only two elements.
func geoJSONRecord(feature map[string]any, mappings map[string]schema.FieldMapping) (record, error) {
	geometry, ok := feature["geometry"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("feature has no geometry")
	}

	coords, _ := geometry["coordinates"].([]any)
	if len(coords) < 2 {
		return nil, fmt.Errorf("Point geometry needs [longitude, latitude] coordinates")
	}

	rec := make(record)
	if props, ok := feature["properties"].(map[string]any); ok {
		rec = mapObject(props, mappings)
	}

	rec[domain.FieldLongitude] = coords[0]
	rec[domain.FieldLatitude] = coords[1]
	if len(coords) >= 3 {
		rec[domain.FieldDepth] = coords[2]
	}

	if id, ok := feature["id"]; ok {
		if s := stringify(id); s != "" {
			rec[domain.FieldEventID] = s
		}
	}
	return rec, nil
}

// structuralGeoJSONFields lists the canonical fields the geometry and
// feature envelope supply regardless of property mappings, mirroring the
// fixed structural set the QuakeML parser reports.
func structuralGeoJSONFields(features []map[string]any) []string {
	fields := []string{domain.FieldLatitude, domain.FieldLongitude}
	hasDepth, hasID := false, false
	for _, f := range features {
		if geometry, ok := f["geometry"].(map[string]any); ok {
			if coords, ok := geometry["coordinates"].([]any); ok && len(coords) >= 3 {
				hasDepth = true
			}
		}
		if id, ok := f["id"]; ok && stringify(id) != "" {
			hasID = true
		}
	}
	if hasDepth {
		fields = append(fields, domain.FieldDepth)
	}
	if hasID {
		fields = append(fields, domain.FieldEventID)
	}
	return fields
}

func mergeFields(structural, mapped []string) []string {
	seen := make(map[string]bool, len(structural))
	merged := append([]string(nil), structural...)
	for _, f := range structural {
		seen[f] = true
	}
	for _, f := range mapped {
		if !seen[f] {
			seen[f] = true
			merged = append(merged, f)
		}
	}
	return merged
}

func unionPropertyKeys(features []map[string]any) []string {
	props := make([]any, 0, len(features))
	for _, f := range features {
		if p, ok := f["properties"].(map[string]any); ok {
			props = append(props, any(p))
		}
	}
	return unionKeys(props)
}
