// Package schema maps source-specific field names onto the canonical
// earthquake event schema.
//
// Matching is a prioritized cascade: exact known names, then curated
// aliases, then fuzzy string similarity. Sources covered by the alias table
// include GeoNet CSV exports, ISC/SAC abbreviations (evla, evlo, evdp),
// USGS GeoJSON properties (mag, place), and QuakeML element names. The
// table is read-only after process start, so matching is safe to call from
// concurrent uploads without synchronization.
package schema

import (
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/couchcryptid/quake-catalogue-etl/internal/domain"
)

// MatchType records which stage of the cascade produced a mapping.
type MatchType string

const (
	MatchExact MatchType = "exact"
	MatchAlias MatchType = "alias"
	MatchFuzzy MatchType = "fuzzy"
)

// Confidence levels per cascade stage. Fuzzy confidence is the raw
// similarity score, so unrecognized fields naturally land below 0.7.
const (
	exactConfidence = 0.98
	aliasConfidence = 0.9

	// DefaultMinConfidence is the threshold below which DetectAllFieldMappings
	// drops a candidate mapping.
	DefaultMinConfidence = 0.6
)

// FieldMapping is one resolved source-field → canonical-field mapping.
type FieldMapping struct {
	SourcePattern string    `json:"source_pattern"`
	TargetField   string    `json:"target_field"`
	MatchType     MatchType `json:"match_type"`
	Confidence    float64   `json:"confidence"`
	Priority      int       `json:"priority"`
}

// canonicalField describes one target field: its exact known spellings and
// looser aliases, all stored pre-normalized. Priority is the field's rank in
// the registry; required fields come first.
type canonicalField struct {
	name    string
	exact   []string
	aliases []string
}

// registry is the static canonical-field table. Order matters: earlier
// entries win fuzzy ties and carry higher priority.
var registry = []canonicalField{
	{
		name:    domain.FieldTime,
		exact:   []string{"time", "origintime", "datetime", "eventtime", "date"},
		aliases: []string{"ot", "otime", "timestamp", "occurredat", "origindate", "eventdate"},
	},
	{
		name:    domain.FieldLatitude,
		exact:   []string{"latitude", "lat"},
		aliases: []string{"evla", "ylat", "latdeg", "eventlatitude", "epicenterlat"},
	},
	{
		name:    domain.FieldLongitude,
		exact:   []string{"longitude", "lon", "long", "lng"},
		aliases: []string{"evlo", "xlon", "londeg", "eventlongitude", "epicenterlon"},
	},
	{
		name:    domain.FieldMagnitude,
		exact:   []string{"magnitude", "mag"},
		aliases: []string{"ml", "mw", "mb", "prefmag", "magnitudevalue", "magvalue"},
	},
	{
		name:    domain.FieldDepth,
		exact:   []string{"depth", "depthkm"},
		aliases: []string{"evdp", "focaldepth", "hypodepth", "z"},
	},
	{
		name:    domain.FieldRegion,
		exact:   []string{"region", "place", "location"},
		aliases: []string{"flynnregion", "locality", "area", "regionname"},
	},
	{
		name:    domain.FieldSource,
		exact:   []string{"source", "network"},
		aliases: []string{"catalog", "catalogue", "provider", "datasource", "net"},
	},
	{
		name:    domain.FieldMagnitudeType,
		exact:   []string{"magnitudetype", "magtype"},
		aliases: []string{"mtyp", "magscale", "magnitudescale"},
	},
	{
		name:    domain.FieldEventID,
		exact:   []string{"eventid", "publicid", "id"},
		aliases: []string{"evid", "quakeid", "eventcode"},
	},
	{
		name:    domain.FieldHorizontalUncertainty,
		exact:   []string{"horizontaluncertainty"},
		aliases: []string{"horizunc", "herr", "horizontalerror", "locationuncertainty", "epicentralerror"},
	},
	{
		name:    domain.FieldDepthUncertainty,
		exact:   []string{"depthuncertainty"},
		aliases: []string{"depthunc", "zerr", "deptherror", "verticalerror", "verticaluncertainty"},
	},
	{
		name:    domain.FieldMagnitudeUncertainty,
		exact:   []string{"magnitudeuncertainty"},
		aliases: []string{"magunc", "magerr", "magnitudeerror"},
	},
	{
		name:    domain.FieldTimeUncertainty,
		exact:   []string{"timeuncertainty"},
		aliases: []string{"timeunc", "terr", "timeerror"},
	},
	{
		name:    domain.FieldAzimuthalGap,
		exact:   []string{"azimuthalgap", "gap"},
		aliases: []string{"azgap", "azimuthgap"},
	},
	{
		name:    domain.FieldUsedPhaseCount,
		exact:   []string{"usedphasecount", "phasecount"},
		aliases: []string{"nph", "nphases", "numphases", "phases"},
	},
	{
		name:    domain.FieldUsedStationCount,
		exact:   []string{"usedstationcount", "stationcount"},
		aliases: []string{"nst", "nsta", "numstations", "stations"},
	},
	{
		name:    domain.FieldStandardError,
		exact:   []string{"standarderror", "rms"},
		aliases: []string{"stderr", "residual", "rmsresidual", "standarderrorrms"},
	},
	{
		name:    domain.FieldEvaluationMode,
		exact:   []string{"evaluationmode"},
		aliases: []string{"evalmode", "mode"},
	},
	{
		name:    domain.FieldEvaluationStatus,
		exact:   []string{"evaluationstatus"},
		aliases: []string{"evalstatus", "status"},
	},
	{
		name:    domain.FieldAgency,
		exact:   []string{"agency", "agencyid"},
		aliases: []string{"author", "contributor"},
	},
	{
		name:    domain.FieldComment,
		exact:   []string{"comment", "comments"},
		aliases: []string{"note", "notes", "remarks", "description"},
	},
}

// NormalizeFieldName lowercases a field name and strips underscores,
// hyphens, whitespace, and surrounding quotes, so "Origin_Time", "origin
// time", and "origin-time" all compare equal.
func NormalizeFieldName(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = strings.Trim(s, `"'`)
	return strings.Map(func(r rune) rune {
		switch r {
		case '_', '-', ' ', '\t':
			return -1
		}
		return r
	}, s)
}

// CalculateSimilarity returns a symmetric similarity score in [0,1] based on
// normalized Levenshtein distance. Identical strings score 1.
func CalculateSimilarity(a, b string) float64 {
	if a == b {
		return 1
	}
	la := len([]rune(a))
	lb := len([]rune(b))
	if la == 0 || lb == 0 {
		return 0
	}
	longest := la
	if lb > longest {
		longest = lb
	}
	dist := levenshtein.ComputeDistance(a, b)
	score := 1 - float64(dist)/float64(longest)
	if score < 0 {
		return 0
	}
	return score
}

// DetectFieldMapping resolves one source field name through the cascade:
// exact names, then aliases, then best fuzzy similarity across all canonical
// names. The fuzzy stage always produces a candidate; callers filter by
// confidence.
func DetectFieldMapping(sourceField string) FieldMapping {
	norm := NormalizeFieldName(sourceField)

	for priority, cf := range registry {
		for _, name := range cf.exact {
			if norm == name {
				return FieldMapping{
					SourcePattern: sourceField,
					TargetField:   cf.name,
					MatchType:     MatchExact,
					Confidence:    exactConfidence,
					Priority:      priority,
				}
			}
		}
	}

	for priority, cf := range registry {
		for _, alias := range cf.aliases {
			if norm == alias {
				return FieldMapping{
					SourcePattern: sourceField,
					TargetField:   cf.name,
					MatchType:     MatchAlias,
					Confidence:    aliasConfidence,
					Priority:      priority,
				}
			}
		}
	}

	best := FieldMapping{
		SourcePattern: sourceField,
		MatchType:     MatchFuzzy,
	}
	for priority, cf := range registry {
		for _, name := range append([]string{NormalizeFieldName(cf.name)}, cf.exact...) {
			if score := CalculateSimilarity(norm, name); score > best.Confidence {
				best.TargetField = cf.name
				best.Confidence = score
				best.Priority = priority
			}
		}
	}
	return best
}

// DetectAllFieldMappings resolves every source field, drops candidates below
// minConfidence (pass a negative value for the default), and enforces the
// one-source-per-target invariant: when two source fields claim the same
// target, the higher confidence wins and ties keep the first occurrence.
// The result is keyed by source field name.
func DetectAllFieldMappings(sourceFields []string, minConfidence float64) map[string]FieldMapping {
	if minConfidence < 0 {
		minConfidence = DefaultMinConfidence
	}

	mappings := make(map[string]FieldMapping, len(sourceFields))
	byTarget := make(map[string]string) // target field → winning source field

	for _, field := range sourceFields {
		m := DetectFieldMapping(field)
		if m.TargetField == "" || m.Confidence < minConfidence {
			continue
		}

		prev, claimed := byTarget[m.TargetField]
		if claimed {
			if mappings[prev].Confidence >= m.Confidence {
				continue
			}
			delete(mappings, prev)
		}
		byTarget[m.TargetField] = field
		mappings[field] = m
	}

	return mappings
}

// CheckRequiredFieldsMapped reports whether every required canonical field
// has a mapping, and lists the ones that do not.
func CheckRequiredFieldsMapped(mappings map[string]FieldMapping) (bool, []string) {
	mapped := make(map[string]bool, len(mappings))
	for _, m := range mappings {
		mapped[m.TargetField] = true
	}

	var missing []string
	for _, required := range domain.RequiredFields {
		if !mapped[required] {
			missing = append(missing, required)
		}
	}
	return len(missing) == 0, missing
}
