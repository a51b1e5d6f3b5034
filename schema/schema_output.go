package schema

import (
	"strconv"
	"time"
)

// Share label constants.
const (
	PrimaryValue = "Primary" // Primary value
	MajorValue   = "Major"   // Major value
	MinorValue   = "Minor"   // Minor value
	TraceValue   = "Trace"   // Trace value
)

// ReportRow is one line of the report: a contributor with raw and relative counts.
type ReportRow struct {
	Author  ContributorIdentity `json:"author"`
	Lines   LineCount           `json:"lines"`
	Percent string              `json:"percent"`
}

// Report is the complete result of one run.
type Report struct {
	RepoPath    string      `json:"repo_path"`
	Revision    string      `json:"revision"`
	Commit      string      `json:"commit"`
	Files       int         `json:"files"`
	Skipped     []string    `json:"skipped,omitempty"`
	TotalLines  LineCount   `json:"total_lines"`
	Rows        []ReportRow `json:"rows"`
	GeneratedAt time.Time   `json:"generated_at"`
}

// Record returns the row as CSV fields in header order.
func (r ReportRow) Record() []string {
	return []string{string(r.Author), strconv.Itoa(int(r.Lines)), r.Percent}
}

// PercentValue parses the formatted percentage back into a float.
func (r ReportRow) PercentValue() float64 {
	v, err := strconv.ParseFloat(r.Percent, 64)
	if err != nil {
		return 0
	}
	return v
}

// FormatPercent formats a share with exactly two decimal digits.
func FormatPercent(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// GetPlainLabel returns a plain text label describing how large a share is.
func GetPlainLabel(percent float64) string {
	switch {
	case percent >= 50:
		return PrimaryValue
	case percent >= 20:
		return MajorValue
	case percent >= 5:
		return MinorValue
	default:
		return TraceValue
	}
}
