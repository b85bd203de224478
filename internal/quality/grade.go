package quality

// Grade is a letter-grade projection of a quality score, with a display
// color for the upload-flow UI.
type Grade struct {
	Grade string `json:"grade"`
	Label string `json:"label"`
	Color string `json:"color"`
}

// GradeForScore maps a 0–100 score to its letter grade at fixed
// breakpoints.
func GradeForScore(score float64) Grade {
	switch {
	case score >= 95:
		return Grade{Grade: "A+", Label: "Excellent", Color: "green"}
	case score >= 90:
		return Grade{Grade: "A", Label: "Excellent", Color: "green"}
	case score >= 80:
		return Grade{Grade: "B", Label: "Good", Color: "lightgreen"}
	case score >= 70:
		return Grade{Grade: "C", Label: "Fair", Color: "yellow"}
	case score >= 60:
		return Grade{Grade: "D", Label: "Poor", Color: "orange"}
	default:
		return Grade{Grade: "F", Label: "Failing", Color: "red"}
	}
}
