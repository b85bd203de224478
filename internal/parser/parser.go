// Package parser turns raw catalogue files (CSV, JSON, GeoJSON, QuakeML)
// into canonical earthquake events.
//
// Parsers never return Go errors for malformed content: every failure is a
// structured entry in the ParseResult. File-level problems (unparseable
// document, unsupported type tag, unmapped required columns) abort the file
// with a single error; record-level problems are local to one row and never
// block sibling rows.
package parser

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/couchcryptid/quake-catalogue-etl/internal/domain"
	"github.com/couchcryptid/quake-catalogue-etl/internal/schema"
)

// Format tags the wire format of an uploaded file. It is decided once, by
// DetectFormat, rather than re-sniffed throughout parsing.
type Format string

const (
	FormatUnknown Format = "unknown"
	FormatCSV     Format = "csv"
	FormatJSON    Format = "json"
	FormatGeoJSON Format = "geojson"
	FormatQuakeML Format = "quakeml"
)

// Parser parses catalogue files. The zero value is not usable; construct
// with New.
type Parser struct {
	minConfidence float64
}

// New creates a Parser. minConfidence is the schema-mapping threshold; pass
// a negative value for the default.
func New(minConfidence float64) *Parser {
	if minConfidence < 0 {
		minConfidence = schema.DefaultMinConfidence
	}
	return &Parser{minConfidence: minConfidence}
}

// DetectFormat chooses a parser from the filename extension, falling back
// to content sniffing when the extension is unhelpful.
func DetectFormat(text, filename string) Format {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv", ".txt":
		return FormatCSV
	case ".xml", ".qml", ".quakeml":
		return FormatQuakeML
	case ".geojson":
		return FormatGeoJSON
	case ".json":
		return FormatJSON
	}

	trimmed := strings.TrimLeft(text, " \t\r\n\uFEFF")
	switch {
	case strings.HasPrefix(trimmed, "<"):
		return FormatQuakeML
	case strings.HasPrefix(trimmed, "{"), strings.HasPrefix(trimmed, "["):
		return FormatJSON
	case trimmed != "":
		return FormatCSV
	}
	return FormatUnknown
}

// ParseFile detects the file's format and dispatches to the matching parser.
func (p *Parser) ParseFile(text, filename string) domain.ParseResult {
	switch DetectFormat(text, filename) {
	case FormatCSV:
		return p.ParseCSV(text)
	case FormatQuakeML:
		return p.ParseQuakeML(text)
	case FormatGeoJSON:
		return p.ParseGeoJSON(text)
	case FormatJSON:
		return p.ParseJSON(text)
	default:
		return fileError("unrecognized file format")
	}
}

// fileError builds a failed ParseResult carrying exactly one file-level error.
func fileError(message string) domain.ParseResult {
	return domain.ParseResult{
		Success: false,
		Events:  []domain.EarthquakeEvent{},
		Errors:  []domain.ParseError{{Message: message}},
	}
}

// finalize computes the success flag shared by all parsers: a file succeeds
// when it produced events, or produced no errors (an empty but well-formed
// catalogue).
func finalize(result domain.ParseResult) domain.ParseResult {
	result.Success = len(result.Events) > 0 || len(result.Errors) == 0
	if result.Events == nil {
		result.Events = []domain.EarthquakeEvent{}
	}
	return result
}

// detectedFields lists the canonical fields a mapping resolved, in registry
// priority order.
func detectedFields(mappings map[string]schema.FieldMapping) []string {
	resolved := make([]schema.FieldMapping, 0, len(mappings))
	for _, m := range mappings {
		resolved = append(resolved, m)
	}
	sort.Slice(resolved, func(i, j int) bool { return resolved[i].Priority < resolved[j].Priority })

	fields := make([]string, len(resolved))
	for i, m := range resolved {
		fields[i] = m.TargetField
	}
	return fields
}
