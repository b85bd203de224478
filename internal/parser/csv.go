package parser

import (
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/couchcryptid/quake-catalogue-etl/internal/dateformat"
	"github.com/couchcryptid/quake-catalogue-etl/internal/domain"
	"github.com/couchcryptid/quake-catalogue-etl/internal/schema"
	"github.com/couchcryptid/quake-catalogue-etl/internal/validation"
)

// ParseCSV parses an RFC 4180-style CSV catalogue. The first non-empty line
// is the header; each header is resolved through the schema registry before
// any row is processed. Rows are validated independently — a bad row is
// recorded with its 1-based line number and never aborts the file.
func (p *Parser) ParseCSV(text string) domain.ParseResult {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")

	headerIdx := -1
	for i, line := range lines {
		if strings.TrimSpace(line) != "" {
			headerIdx = i
			break
		}
	}
	if headerIdx < 0 {
		return fileError("empty CSV input")
	}

	header, err := splitCSVLine(lines[headerIdx])
	if err != nil {
		return fileError(fmt.Sprintf("malformed CSV header: %v", err))
	}

	mappings := schema.DetectAllFieldMappings(header, p.minConfidence)
	result := domain.ParseResult{DetectedFields: detectedFields(mappings)}

	if complete, missing := schema.CheckRequiredFieldsMapped(mappings); !complete {
		result.Errors = append(result.Errors, domain.ParseError{
			Message: fmt.Sprintf("required fields not found in header: %s", strings.Join(missing, ", ")),
		})
		return finalize(result)
	}

	// column index → canonical field, for row extraction.
	columns := make(map[int]string, len(mappings))
	for i, h := range header {
		if m, ok := mappings[h]; ok {
			columns[i] = m.TargetField
		}
	}

	recs, lineNums, rowErrs := readCSVRows(lines, headerIdx, columns)
	result.Errors = append(result.Errors, rowErrs...)

	hint := dateformat.Detect(timeStrings(recs), 0).Format

	for i, rec := range recs {
		event, buildErrs := buildEvent(rec, hint)
		if len(buildErrs) > 0 {
			result.Errors = append(result.Errors, stampLine(buildErrs, lineNums[i])...)
			continue
		}
		if checks := validation.ValidateEvent(event); len(checks) > 0 {
			for _, c := range checks {
				result.Errors = append(result.Errors, domain.ParseError{
					Line:    lineNums[i],
					Field:   c.Field,
					Message: c.Message,
				})
			}
			continue
		}
		result.Events = append(result.Events, event)
	}

	return finalize(result)
}

// readCSVRows parses every data row after the header, returning records
// keyed by canonical field alongside their 1-based source line numbers.
func readCSVRows(lines []string, headerIdx int, columns map[int]string) ([]record, []int, []domain.ParseError) {
	var (
		recs     []record
		lineNums []int
		errs     []domain.ParseError
	)

	for i := headerIdx + 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "" {
			continue
		}
		lineNum := i + 1

		row, err := splitCSVLine(lines[i])
		if err != nil {
			errs = append(errs, domain.ParseError{
				Line:    lineNum,
				Message: fmt.Sprintf("malformed CSV row: %v", err),
			})
			continue
		}

		rec := make(record, len(columns))
		for col, field := range columns {
			if col >= len(row) {
				continue
			}
			if v := strings.TrimSpace(row[col]); v != "" {
				rec[field] = v
			}
		}
		recs = append(recs, rec)
		lineNums = append(lineNums, lineNum)
	}
	return recs, lineNums, errs
}

// splitCSVLine parses a single line with quoted-field support.
func splitCSVLine(line string) ([]string, error) {
	r := csv.NewReader(strings.NewReader(line))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	return r.Read()
}

func stampLine(errs []domain.ParseError, line int) []domain.ParseError {
	for i := range errs {
		errs[i].Line = line
	}
	return errs
}
