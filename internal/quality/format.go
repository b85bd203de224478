package quality

import (
	"fmt"

	"github.com/couchcryptid/quake-catalogue-etl/internal/domain"
)

// FormattedResult is a human-readable projection of a QualityCheckResult
// for display. It is purely derived; no new computation happens here.
type FormattedResult struct {
	Summary  string   `json:"summary"`
	Details  []string `json:"details"`
	Warnings []string `json:"warnings"`
	Errors   []string `json:"errors"`
}

// FormatResults renders a QualityCheckResult for the upload flow.
func FormatResults(result domain.QualityCheckResult) FormattedResult {
	grade := GradeForScore(result.Score)
	verdict := "FAILED"
	if result.Passed {
		verdict = "PASSED"
	}

	out := FormattedResult{
		Summary: fmt.Sprintf("Quality check %s: score %.1f/100 (grade %s, %s), %d events",
			verdict, result.Score, grade.Grade, grade.Label, result.Report.Statistics.TotalEvents),
		Details: []string{
			fmt.Sprintf("Completeness: %.1f%%", result.Report.Completeness),
			fmt.Sprintf("Consistency: %.1f%%", result.Report.Consistency),
			fmt.Sprintf("Accuracy: %.1f%%", result.Report.Accuracy),
			fmt.Sprintf("Average magnitude: %.2f", result.Report.Statistics.AverageMagnitude),
			fmt.Sprintf("Average depth: %.1f km", result.Report.Statistics.AverageDepth),
		},
	}

	for _, group := range [][]domain.Check{
		result.Report.Checks,
		result.Anomalies,
		result.GeographicChecks,
	} {
		for _, c := range group {
			line := c.Message
			if c.Suggestion != "" {
				line = fmt.Sprintf("%s (%s)", c.Message, c.Suggestion)
			}
			switch c.Severity {
			case domain.SeverityError:
				out.Errors = append(out.Errors, line)
			case domain.SeverityWarning:
				out.Warnings = append(out.Warnings, line)
			default:
				out.Details = append(out.Details, line)
			}
		}
	}

	out.Details = append(out.Details, result.Recommendations...)
	return out
}
