// Command genmock generates earthquake catalogue fixtures for the ingestion
// test suites: three New Zealand regional catalogues as JSON envelopes, plus
// CSV, GeoJSON, and QuakeML renditions of the North Island catalogue. A
// configurable share of events is intentionally invalid to stress-test
// validation and quality assessment.
//
// Usage:
//
//	go run ./cmd/genmock -out testdata/generated -events 1000 -invalid-ratio 0.7
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/quake-catalogue-etl/internal/domain"
)

var (
	rangeStart = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	rangeEnd   = time.Date(2024, time.October, 29, 0, 0, 0, 0, time.UTC)
)

var invalidCases = []string{
	"missing_time",
	"missing_latitude",
	"missing_longitude",
	"missing_magnitude",
	"out_of_range_coords",
	"out_of_range_magnitude",
	"out_of_range_depth",
	"invalid_timestamp",
	"future_timestamp",
}

// mockEvent is a loosely typed event so invalid cases can drop or corrupt
// fields the way real uploads do.
type mockEvent map[string]any

type catalogueDef struct {
	name      string
	region    string
	bounds    domain.GeographicBounds
	deep      bool
	outPrefix string
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	outDir := flag.String("out", "testdata/generated", "output directory for fixtures")
	numEvents := flag.Int("events", 1000, "events per catalogue")
	invalidRatio := flag.Float64("invalid-ratio", 0.7, "share of intentionally invalid events")
	anomalyRatio := flag.Float64("anomaly-ratio", 0.15, "share of valid events given cross-field anomalies")
	seed := flag.Int64("seed", 42, "random seed for reproducible fixtures")
	flag.Parse()

	if *invalidRatio < 0 || *invalidRatio > 1 {
		return fmt.Errorf("invalid -invalid-ratio %g: must be between 0 and 1", *invalidRatio)
	}

	// Fixed clock for reproducible generation timestamps.
	domain.SetClock(clockwork.NewFakeClockAt(
		time.Date(2024, time.November, 1, 6, 0, 0, 0, time.UTC),
	))
	defer domain.SetClock(nil)

	rng := rand.New(rand.NewSource(*seed))

	defs := []catalogueDef{
		{
			name:      "North Island Seismic Events",
			region:    "New Zealand - North Island",
			bounds:    domain.GeographicBounds{MinLatitude: -41.5, MaxLatitude: -34.0, MinLongitude: 172.0, MaxLongitude: 179.0},
			outPrefix: "north-island",
		},
		{
			name:      "South Island Seismic Events",
			region:    "New Zealand - South Island",
			bounds:    domain.GeographicBounds{MinLatitude: -47.0, MaxLatitude: -40.5, MinLongitude: 166.0, MaxLongitude: 174.5},
			outPrefix: "south-island",
		},
		{
			name:      "NZ Deep Seismic Events",
			region:    "New Zealand - Deep Events",
			bounds:    domain.GeographicBounds{MinLatitude: -47.0, MaxLatitude: -34.0, MinLongitude: 166.0, MaxLongitude: 179.0},
			deep:      true,
			outPrefix: "deep-events",
		},
	}

	for i, def := range defs {
		events, invalidCount := generateEvents(rng, def, *numEvents, *invalidRatio, *anomalyRatio)
		envelope := buildEnvelope(def, events, invalidCount)

		jsonPath := filepath.Join(*outDir, def.outPrefix+"-catalogue.json")
		if err := writeJSON(jsonPath, envelope); err != nil {
			return fmt.Errorf("writing %s: %w", jsonPath, err)
		}
		log.Printf("%s: %d events (%d invalid)", def.name, len(events), invalidCount)

		// Alternative format renditions of the first catalogue exercise
		// every parser.
		if i == 0 {
			if err := writeCSV(filepath.Join(*outDir, def.outPrefix+".csv"), events); err != nil {
				return err
			}
			if err := writeGeoJSON(filepath.Join(*outDir, def.outPrefix+".geojson"), events); err != nil {
				return err
			}
			if err := writeQuakeML(filepath.Join(*outDir, def.outPrefix+".xml"), events); err != nil {
				return err
			}
		}
	}

	log.Printf("fixtures written to %s", *outDir)
	return nil
}

func generateEvents(rng *rand.Rand, def catalogueDef, n int, invalidRatio, anomalyRatio float64) ([]mockEvent, int) {
	span := rangeEnd.Sub(rangeStart)
	invalidCount := int(float64(n) * invalidRatio)
	invalid := pickIndices(rng, n, invalidCount)

	events := make([]mockEvent, 0, n)
	for i := 0; i < n; i++ {
		mag := gutenbergRichterMagnitude(rng, 1.0, 7.5, 2.5)
		when := rangeStart.Add(time.Duration(rng.Float64() * float64(span)))

		event := mockEvent{
			"publicID":  fmt.Sprintf("%s_2024p%06d", strings.ReplaceAll(strings.ToLower(def.region), " ", "_"), i+1),
			"time":      when.Format("2006-01-02T15:04:05.000Z"),
			"latitude":  round4(def.bounds.MinLatitude + rng.Float64()*(def.bounds.MaxLatitude-def.bounds.MinLatitude)),
			"longitude": round4(def.bounds.MinLongitude + rng.Float64()*(def.bounds.MaxLongitude-def.bounds.MinLongitude)),
			"depth":     generateDepth(rng, def.deep, mag),
			"magnitude": mag,
		}

		switch {
		case invalid[i]:
			corruptEvent(rng, event, when)
		case rng.Float64() < anomalyRatio:
			// Valid ranges but physically implausible together.
			event["depth"] = round1(0.1 + rng.Float64()*4.8)
			event["magnitude"] = round1(8.1 + rng.Float64()*1.5)
			event["validation_note"] = "anomaly:shallow_large_magnitude"
		}

		events = append(events, event)
	}

	sort.Slice(events, func(i, j int) bool {
		ti, _ := events[i]["time"].(string)
		tj, _ := events[j]["time"].(string)
		return ti < tj
	})
	return events, invalidCount
}

func corruptEvent(rng *rand.Rand, event mockEvent, when time.Time) {
	c := invalidCases[rng.Intn(len(invalidCases))]
	switch c {
	case "missing_time":
		delete(event, "time")
	case "missing_latitude":
		delete(event, "latitude")
	case "missing_longitude":
		delete(event, "longitude")
	case "missing_magnitude":
		delete(event, "magnitude")
	case "out_of_range_coords":
		event["latitude"] = pickFloat(rng, 95, -95, 120)
		event["longitude"] = pickFloat(rng, 190, -190, 250)
	case "out_of_range_magnitude":
		event["magnitude"] = pickFloat(rng, 11.5, -4.0, 12.0)
	case "out_of_range_depth":
		event["depth"] = pickFloat(rng, -10.0, -50.0, 1500.0)
	case "invalid_timestamp":
		choices := []string{"not-a-date", "2024-13-40T25:61:00Z", "2024/99/99"}
		event["time"] = choices[rng.Intn(len(choices))]
	case "future_timestamp":
		future := when.AddDate(0, 0, 365+rng.Intn(3285))
		event["time"] = future.Format("2006-01-02T15:04:05.000Z")
	}
	event["validation_note"] = "invalid:" + c
}

// gutenbergRichterMagnitude draws magnitudes following the Gutenberg-Richter
// power law: many small events, few large ones.
func gutenbergRichterMagnitude(rng *rand.Rand, minMag, maxMag, bValue float64) float64 {
	u := rng.Float64()
	mag := minMag + (maxMag-minMag)*(1-math.Pow(u, 1/bValue))
	return round1(mag)
}

func generateDepth(rng *rand.Rand, deep bool, magnitude float64) float64 {
	switch {
	case deep:
		return round1(100 + rng.Float64()*500)
	case magnitude < 4.0:
		return round1(5 + rng.Float64()*20)
	default:
		return round1(10 + rng.Float64()*30)
	}
}

func buildEnvelope(def catalogueDef, events []mockEvent, invalidCount int) map[string]any {
	var minMag, maxMag float64
	seen := false
	for _, e := range events {
		mag, ok := e["magnitude"].(float64)
		if !ok {
			continue
		}
		if !seen || mag < minMag {
			minMag = mag
		}
		if !seen || mag > maxMag {
			maxMag = mag
		}
		seen = true
	}

	return map[string]any{
		"catalogue_name": def.name,
		"region":         def.region,
		"description":    fmt.Sprintf("Realistic earthquake catalogue for %s with %d events", def.region, len(events)),
		"geographic_bounds": map[string]float64{
			"minLatitude":  def.bounds.MinLatitude,
			"maxLatitude":  def.bounds.MaxLatitude,
			"minLongitude": def.bounds.MinLongitude,
			"maxLongitude": def.bounds.MaxLongitude,
		},
		"time_range": map[string]string{
			"start": rangeStart.Format(time.RFC3339),
			"end":   rangeEnd.Format(time.RFC3339),
		},
		"statistics": map[string]any{
			"total_events":   len(events),
			"invalid_events": invalidCount,
			"magnitude_range": map[string]float64{
				"min": minMag,
				"max": maxMag,
			},
		},
		"events": events,
	}
}

func writeCSV(path string, events []mockEvent) error {
	var b strings.Builder
	b.WriteString("event_id,time,latitude,longitude,depth,magnitude\n")
	for _, e := range events {
		fmt.Fprintf(&b, "%s,%s,%s,%s,%s,%s\n",
			csvField(e["publicID"]), csvField(e["time"]),
			csvField(e["latitude"]), csvField(e["longitude"]),
			csvField(e["depth"]), csvField(e["magnitude"]))
	}
	return writeFile(path, []byte(b.String()))
}

func writeGeoJSON(path string, events []mockEvent) error {
	features := make([]map[string]any, 0, len(events))
	for _, e := range events {
		lon, lonOK := e["longitude"].(float64)
		lat, latOK := e["latitude"].(float64)
		if !lonOK || !latOK {
			continue
		}
		coords := []any{lon, lat}
		if depth, ok := e["depth"].(float64); ok {
			coords = append(coords, depth)
		}
		features = append(features, map[string]any{
			"type": "Feature",
			"id":   e["publicID"],
			"geometry": map[string]any{
				"type":        "Point",
				"coordinates": coords,
			},
			"properties": map[string]any{
				"time":      e["time"],
				"magnitude": e["magnitude"],
			},
		})
	}
	return writeJSON(path, map[string]any{
		"type":     "FeatureCollection",
		"features": features,
	})
}

func writeQuakeML(path string, events []mockEvent) error {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	b.WriteString(`<quakeml xmlns="http://quakeml.org/xmlns/quakeml/1.2">` + "\n")
	b.WriteString("  <eventParameters>\n")
	for _, e := range events {
		id, _ := e["publicID"].(string)
		fmt.Fprintf(&b, "    <event publicID=%q>\n", "smi:nz/"+id)
		if t, lat, lon, ok := originFields(e); ok {
			b.WriteString("      <origin>\n")
			fmt.Fprintf(&b, "        <time><value>%s</value></time>\n", t)
			fmt.Fprintf(&b, "        <latitude><value>%g</value></latitude>\n", lat)
			fmt.Fprintf(&b, "        <longitude><value>%g</value></longitude>\n", lon)
			if depth, ok := e["depth"].(float64); ok {
				// QuakeML depths are expressed in meters.
				fmt.Fprintf(&b, "        <depth><value>%g</value></depth>\n", depth*1000)
			}
			b.WriteString("      </origin>\n")
		}
		if mag, ok := e["magnitude"].(float64); ok {
			b.WriteString("      <magnitude>\n")
			fmt.Fprintf(&b, "        <mag><value>%g</value></mag>\n", mag)
			b.WriteString("        <type>ML</type>\n")
			b.WriteString("      </magnitude>\n")
		}
		b.WriteString("    </event>\n")
	}
	b.WriteString("  </eventParameters>\n")
	b.WriteString("</quakeml>\n")
	return writeFile(path, []byte(b.String()))
}

func originFields(e mockEvent) (string, float64, float64, bool) {
	t, tOK := e["time"].(string)
	lat, latOK := e["latitude"].(float64)
	lon, lonOK := e["longitude"].(float64)
	if !tOK || !latOK || !lonOK {
		return "", 0, 0, false
	}
	return t, lat, lon, true
}

func csvField(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return fmt.Sprintf("%g", x)
	default:
		return fmt.Sprintf("%v", x)
	}
}

func pickIndices(rng *rand.Rand, n, k int) map[int]bool {
	perm := rng.Perm(n)
	picked := make(map[int]bool, k)
	for _, i := range perm[:k] {
		picked[i] = true
	}
	return picked
}

func pickFloat(rng *rand.Rand, choices ...float64) float64 {
	return choices[rng.Intn(len(choices))]
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round4(v float64) float64 { return math.Round(v*10000) / 10000 }

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return writeFile(path, data)
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
