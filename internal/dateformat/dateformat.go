// Package dateformat disambiguates numeric date conventions in catalogue
// files.
//
// A string like "03/04/2024" means March 4th in a US export and April 3rd in
// an international one. Single values are often unresolvable, but a whole
// file usually contains at least one giveaway ("25/12/2024" cannot be
// month-first), so detection samples many values and takes a majority vote
// among the unambiguous ones. Parsing then applies the detected convention
// to every ambiguous value in the file.
package dateformat

import (
	"strconv"
	"strings"
	"time"
)

// Format names a date-ordering convention.
type Format string

const (
	FormatUS            Format = "US"            // month first: MM/DD/YYYY
	FormatInternational Format = "International" // day first: DD/MM/YYYY
	FormatISO           Format = "ISO"           // YYYY-MM-DD, unambiguous
	FormatUnknown       Format = "Unknown"
)

// Detection summarizes a format-detection pass over a sample of date strings.
type Detection struct {
	Format             Format  `json:"format"`
	Confidence         float64 `json:"confidence"`
	TotalDatesAnalyzed int     `json:"total_dates_analyzed"`
	AmbiguousCount     int     `json:"ambiguous_count"`
}

// DefaultMaxSamples bounds the detection sample size. Catalogue files run to
// tens of thousands of rows; a few hundred samples settle the vote.
const DefaultMaxSamples = 200

// isoMinConfidence is the floor applied when ISO dominates a sample; the
// ISO shape cannot be confused with either numeric ordering.
const isoMinConfidence = 0.95

// isoLayouts are tried in order for ISO-shaped strings.
var isoLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// Detect samples up to maxSamples strings (non-positive means
// DefaultMaxSamples) and resolves the file's date convention.
//
// ISO-shaped strings short-circuit: a file dominated by ISO dates reports
// FormatISO with confidence above 0.9. For A/B/YYYY shapes, a first
// component above 12 is unambiguously day-first and a second component above
// 12 unambiguously month-first. The majority among unambiguous samples wins;
// when every sample is ambiguous the detector defaults to International with
// confidence below 0.5. Empty input yields FormatUnknown.
func Detect(dateStrings []string, maxSamples int) Detection {
	if maxSamples <= 0 {
		maxSamples = DefaultMaxSamples
	}

	var (
		analyzed  int
		iso       int
		usVotes   int
		intlVotes int
		ambiguous int
	)

	for _, s := range dateStrings {
		if analyzed >= maxSamples {
			break
		}
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		analyzed++

		if looksISO(s) {
			iso++
			continue
		}

		first, second, ok := splitNumericDate(s)
		if !ok {
			ambiguous++
			continue
		}
		switch {
		case first > 12:
			intlVotes++
		case second > 12:
			usVotes++
		default:
			ambiguous++
		}
	}

	if analyzed == 0 {
		return Detection{Format: FormatUnknown}
	}

	d := Detection{
		TotalDatesAnalyzed: analyzed,
		AmbiguousCount:     ambiguous,
	}

	// ISO wins outright when it is the dominant shape in the sample. The
	// shape itself is unambiguous, so confidence stays high even when
	// ambiguous dates dilute the share of ISO samples.
	if iso > usVotes && iso > intlVotes && iso*2 > analyzed {
		d.Format = FormatISO
		d.Confidence = float64(iso) / float64(analyzed)
		if d.Confidence < isoMinConfidence {
			d.Confidence = isoMinConfidence
		}
		return d
	}

	switch {
	case usVotes > intlVotes:
		d.Format = FormatUS
		d.Confidence = float64(usVotes) / float64(analyzed)
	case intlVotes > usVotes:
		d.Format = FormatInternational
		d.Confidence = float64(intlVotes) / float64(analyzed)
	default:
		// Tie or all-ambiguous: day-first is the safer global default.
		d.Format = FormatInternational
		d.Confidence = float64(intlVotes) / float64(analyzed)
		if d.Confidence >= 0.5 {
			d.Confidence = 0.49
		}
	}
	return d
}

// Parse interprets a date string under the given format hint and reports
// whether parsing succeeded. ISO-shaped strings always parse as ISO
// regardless of the hint. Date-only values default to midnight UTC.
// Unparseable input returns ok=false; Parse never panics.
func Parse(dateString string, format Format) (time.Time, bool) {
	s := strings.TrimSpace(dateString)
	if s == "" {
		return time.Time{}, false
	}

	if looksISO(s) {
		for _, layout := range isoLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t.UTC(), true
			}
		}
		return time.Time{}, false
	}

	datePart := s
	timePart := ""
	if i := strings.IndexAny(s, " T"); i > 0 {
		datePart, timePart = s[:i], s[i+1:]
	}

	first, second, year, ok := splitNumericDateParts(datePart)
	if !ok {
		return time.Time{}, false
	}

	var month, day int
	switch format {
	case FormatUS:
		month, day = first, second
	default:
		// International and Unknown both read day-first.
		day, month = first, second
	}

	// A component above 12 overrides the hint; only one ordering can be valid.
	if month > 12 && day <= 12 {
		month, day = day, month
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}

	hour, minute, sec, nsec, ok := parseClock(timePart)
	if !ok {
		return time.Time{}, false
	}

	t := time.Date(year, time.Month(month), day, hour, minute, sec, nsec, time.UTC)
	// time.Date normalizes overflow (Feb 30 → Mar 2); reject those.
	if t.Day() != day || int(t.Month()) != month {
		return time.Time{}, false
	}
	return t, true
}

// looksISO reports whether the string starts with a YYYY-MM-DD shape.
func looksISO(s string) bool {
	if len(s) < 10 {
		return false
	}
	for i := range 4 {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return s[4] == '-' && isDigit(s[5]) && isDigit(s[6]) && s[7] == '-' && isDigit(s[8]) && isDigit(s[9])
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

// splitNumericDate extracts the first two components of an A/B/YYYY or
// A-B-YYYY date.
func splitNumericDate(s string) (first, second int, ok bool) {
	datePart := s
	if i := strings.IndexAny(s, " T"); i > 0 {
		datePart = s[:i]
	}
	first, second, _, ok = splitNumericDateParts(datePart)
	return first, second, ok
}

// splitNumericDateParts splits "A/B/YYYY" (slash or dash separated) into its
// numeric components. The year must be four digits.
func splitNumericDateParts(datePart string) (first, second, year int, ok bool) {
	sep := "/"
	if !strings.Contains(datePart, "/") {
		sep = "-"
	}
	parts := strings.Split(datePart, sep)
	if len(parts) != 3 || len(parts[2]) != 4 {
		return 0, 0, 0, false
	}

	var err error
	if first, err = strconv.Atoi(parts[0]); err != nil {
		return 0, 0, 0, false
	}
	if second, err = strconv.Atoi(parts[1]); err != nil {
		return 0, 0, 0, false
	}
	if year, err = strconv.Atoi(parts[2]); err != nil {
		return 0, 0, 0, false
	}
	return first, second, year, true
}

// parseClock parses an optional HH:MM[:SS[.fff]] suffix. An empty string is
// midnight.
func parseClock(s string) (hour, minute, sec, nsec int, ok bool) {
	s = strings.TrimSpace(strings.TrimSuffix(s, "Z"))
	if s == "" {
		return 0, 0, 0, 0, true
	}

	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, 0, 0, 0, false
	}

	var err error
	if hour, err = strconv.Atoi(parts[0]); err != nil || hour < 0 || hour > 23 {
		return 0, 0, 0, 0, false
	}
	if minute, err = strconv.Atoi(parts[1]); err != nil || minute < 0 || minute > 59 {
		return 0, 0, 0, 0, false
	}
	if len(parts) == 3 {
		secPart := parts[2]
		if i := strings.IndexByte(secPart, '.'); i >= 0 {
			frac := secPart[i+1:]
			secPart = secPart[:i]
			for len(frac) < 9 {
				frac += "0"
			}
			if nsec, err = strconv.Atoi(frac[:9]); err != nil {
				return 0, 0, 0, 0, false
			}
		}
		if sec, err = strconv.Atoi(secPart); err != nil || sec < 0 || sec > 59 {
			return 0, 0, 0, 0, false
		}
	}
	return hour, minute, sec, nsec, true
}
