package schema

import "time"

// ReportRunRecord represents a row from the blameshare_report_runs table.
type ReportRunRecord struct {
	RunID         int64
	RepoPath      string
	CommitHash    string
	StartTime     time.Time
	EndTime       *time.Time
	RunDurationMs *int32
	TotalFiles    int32
	TotalLines    int64
	ConfigParams  *string
}

// AuthorShareRecord represents a row from the blameshare_author_shares table.
type AuthorShareRecord struct {
	RunID   int64
	Author  string
	Lines   int64
	Percent float64
}
