// Package domain models canonical seismic catalogue events.
//
// # Data Sources
//
// Catalogue files arrive from an external upload flow in four wire formats:
// CSV, flat JSON, GeoJSON, and QuakeML 1.2 XML. Field names vary wildly by
// producer — GeoNet exports say "origintime" and "depth", ISC-style exports
// use SAC abbreviations ("evla", "evlo", "evdp"), USGS GeoJSON uses "mag"
// and "place", QuakeML nests everything under origin/magnitude elements.
// The schema registry maps all of them onto the canonical field constants
// defined in this package.
//
// # Unit Conventions
//
// Depth:
//
//	Canonical unit is kilometers. QuakeML encodes origin depth in meters,
//	so the QuakeML parser divides by 1000 on ingest. This conversion is
//	load-bearing: a QuakeML <depth><value>10000</value></depth> must come
//	out as 10 km.
//
// Coordinates:
//
//	WGS-84 decimal degrees. Latitude -90..90, longitude -180..180.
//
// Magnitude:
//
//	Dimensionless, -3..10. The magnitude scale (ML, Mw, mb, ...) travels
//	separately in MagnitudeType.
//
// Time:
//
//	UTC instants. Source files mix ISO 8601 with ambiguous numeric dates
//	("03/04/2024" — March 4th or April 3rd?); the dateformat package
//	disambiguates per file before parsing. Event times in the future are
//	rejected by validation.
//
// Location quality:
//
//	AzimuthalGap (degrees, lower is better), UsedPhaseCount,
//	UsedStationCount, and StandardError (RMS travel-time residual in
//	seconds) describe how well an event was located. They are optional and
//	feed the per-event quality checks, not validity.
//
// # Event Identifiers
//
// GeoNet-style public IDs look like "2024p123456". QuakeML publicID URIs
// are preserved verbatim in QuakeMLRefs; the trailing path segment becomes
// the EventID when no explicit identifier column exists.
package domain
