package parser

import (
	"encoding/xml"
	"strings"

	"github.com/couchcryptid/quake-catalogue-etl/internal/dateformat"
	"github.com/couchcryptid/quake-catalogue-etl/internal/domain"
)

// QuakeML 1.2 document skeleton. Tags are matched by local name, so the
// usual quakeml/bed namespace prefixes are irrelevant.
type quakeMLDocument struct {
	XMLName         xml.Name
	EventParameters struct {
		PublicID string         `xml:"publicID,attr"`
		Events   []quakeMLEvent `xml:"event"`
	} `xml:"eventParameters"`
}

type quakeMLEvent struct {
	PublicID             string `xml:"publicID,attr"`
	Type                 string `xml:"type"`
	PreferredOriginID    string `xml:"preferredOriginID"`
	PreferredMagnitudeID string `xml:"preferredMagnitudeID"`
	Description          struct {
		Text string `xml:"text"`
	} `xml:"description"`
	Origins    []quakeMLOrigin    `xml:"origin"`
	Magnitudes []quakeMLMagnitude `xml:"magnitude"`
	Comments   []struct {
		Text string `xml:"text"`
	} `xml:"comment"`
	CreationInfo quakeMLCreationInfo `xml:"creationInfo"`
}

type quakeMLOrigin struct {
	PublicID         string          `xml:"publicID,attr"`
	Time             quakeMLQuantity `xml:"time"`
	Latitude         quakeMLQuantity `xml:"latitude"`
	Longitude        quakeMLQuantity `xml:"longitude"`
	Depth            quakeMLQuantity `xml:"depth"` // meters in QuakeML
	EvaluationMode   string          `xml:"evaluationMode"`
	EvaluationStatus string          `xml:"evaluationStatus"`
	Quality          struct {
		AzimuthalGap     *float64 `xml:"azimuthalGap"`
		UsedPhaseCount   *int     `xml:"usedPhaseCount"`
		UsedStationCount *int     `xml:"usedStationCount"`
		StandardError    *float64 `xml:"standardError"`
	} `xml:"quality"`
	OriginUncertainty struct {
		HorizontalUncertainty *float64 `xml:"horizontalUncertainty"` // meters
	} `xml:"originUncertainty"`
}

type quakeMLMagnitude struct {
	PublicID     string              `xml:"publicID,attr"`
	Mag          quakeMLQuantity     `xml:"mag"`
	Type         string              `xml:"type"`
	CreationInfo quakeMLCreationInfo `xml:"creationInfo"`
}

// quakeMLQuantity is the value/uncertainty pair QuakeML wraps every
// measurement in. Value stays a string until coercion so a junk element
// degrades to a record-level error instead of failing the whole document.
type quakeMLQuantity struct {
	Value       string   `xml:"value"`
	Uncertainty *float64 `xml:"uncertainty"`
}

type quakeMLCreationInfo struct {
	AgencyID string `xml:"agencyID"`
}

// ParseQuakeML parses a QuakeML 1.2 XML document. Origin depth (and the
// depth/horizontal uncertainties) are converted from meters to kilometers.
// publicID attributes are preserved on each event. A document that cannot
// be parsed, or parses to zero events, fails with a single error.
func (p *Parser) ParseQuakeML(text string) domain.ParseResult {
	var doc quakeMLDocument
	if err := xml.Unmarshal([]byte(text), &doc); err != nil {
		return fileError("Invalid QuakeML: malformed XML")
	}
	if len(doc.EventParameters.Events) == 0 {
		return fileError("no events found in QuakeML document")
	}

	result := domain.ParseResult{
		DetectedFields: []string{
			domain.FieldTime, domain.FieldLatitude, domain.FieldLongitude,
			domain.FieldMagnitude, domain.FieldDepth, domain.FieldEventID,
		},
	}

	for i, ev := range doc.EventParameters.Events {
		event, buildErrs := quakeMLRecord(ev)
		if len(buildErrs) > 0 {
			result.Errors = append(result.Errors, stampLine(buildErrs, i+1)...)
			continue
		}
		result.Events = append(result.Events, event)
	}

	return finalize(result)
}

// quakeMLRecord flattens one QuakeML event into a canonical record and
// builds it. The preferred origin and magnitude are used when the event
// names them; otherwise the first of each wins.
func quakeMLRecord(ev quakeMLEvent) (domain.EarthquakeEvent, []domain.ParseError) {
	origin := pickOrigin(ev)
	magnitude := pickMagnitude(ev)

	rec := record{}
	if origin != nil {
		putQuantity(rec, domain.FieldTime, origin.Time)
		putQuantity(rec, domain.FieldLatitude, origin.Latitude)
		putQuantity(rec, domain.FieldLongitude, origin.Longitude)
		putQuantity(rec, domain.FieldDepth, origin.Depth)
		if origin.EvaluationMode != "" {
			rec[domain.FieldEvaluationMode] = origin.EvaluationMode
		}
		if origin.EvaluationStatus != "" {
			rec[domain.FieldEvaluationStatus] = origin.EvaluationStatus
		}
	}
	if magnitude != nil {
		putQuantity(rec, domain.FieldMagnitude, magnitude.Mag)
		if magnitude.Type != "" {
			rec[domain.FieldMagnitudeType] = magnitude.Type
		}
	}
	if ev.Description.Text != "" {
		rec[domain.FieldRegion] = ev.Description.Text
	}
	if len(ev.Comments) > 0 {
		rec[domain.FieldComment] = ev.Comments[0].Text
	}
	if id := publicIDTail(ev.PublicID); id != "" {
		rec[domain.FieldEventID] = id
	}

	event, errs := buildEvent(rec, dateformat.FormatISO)
	if len(errs) > 0 {
		return domain.EarthquakeEvent{}, errs
	}

	// QuakeML measures depth and location uncertainty in meters; the
	// canonical schema uses kilometers throughout.
	if event.Depth != nil {
		*event.Depth /= 1000
	}
	if origin != nil {
		event.TimeUncertainty = origin.Time.Uncertainty
		if u := origin.Depth.Uncertainty; u != nil {
			km := *u / 1000
			event.DepthUncertainty = &km
		}
		if u := origin.OriginUncertainty.HorizontalUncertainty; u != nil {
			km := *u / 1000
			event.HorizontalUncertainty = &km
		}
		event.AzimuthalGap = origin.Quality.AzimuthalGap
		event.UsedPhaseCount = origin.Quality.UsedPhaseCount
		event.UsedStationCount = origin.Quality.UsedStationCount
		event.StandardError = origin.Quality.StandardError
	}
	if magnitude != nil {
		event.MagnitudeUncertainty = magnitude.Mag.Uncertainty
		if event.Agency == "" {
			event.Agency = magnitude.CreationInfo.AgencyID
		}
	}
	if ev.CreationInfo.AgencyID != "" {
		event.Agency = ev.CreationInfo.AgencyID
	}

	refs := &domain.QuakeMLRefs{EventPublicID: ev.PublicID}
	if origin != nil {
		refs.OriginPublicID = origin.PublicID
	}
	if magnitude != nil {
		refs.MagnitudePublicID = magnitude.PublicID
	}
	event.QuakeML = refs

	return event, nil
}

func pickOrigin(ev quakeMLEvent) *quakeMLOrigin {
	if len(ev.Origins) == 0 {
		return nil
	}
	for i := range ev.Origins {
		if ev.Origins[i].PublicID != "" && ev.Origins[i].PublicID == ev.PreferredOriginID {
			return &ev.Origins[i]
		}
	}
	return &ev.Origins[0]
}

func pickMagnitude(ev quakeMLEvent) *quakeMLMagnitude {
	if len(ev.Magnitudes) == 0 {
		return nil
	}
	for i := range ev.Magnitudes {
		if ev.Magnitudes[i].PublicID != "" && ev.Magnitudes[i].PublicID == ev.PreferredMagnitudeID {
			return &ev.Magnitudes[i]
		}
	}
	return &ev.Magnitudes[0]
}

func putQuantity(rec record, field string, q quakeMLQuantity) {
	if v := strings.TrimSpace(q.Value); v != "" {
		rec[field] = v
	}
}

// publicIDTail extracts the event code from a QuakeML publicID URI, e.g.
// "smi:nz.org.geonet/2024p123456" → "2024p123456".
func publicIDTail(publicID string) string {
	if publicID == "" {
		return ""
	}
	if i := strings.LastIndexAny(publicID, "/#"); i >= 0 && i+1 < len(publicID) {
		return publicID[i+1:]
	}
	return publicID
}
