// Package parquet provides data structures and functions for exporting blameshare
// reports and report history to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/huangsam/blameshare/schema"
)

// ShareRow is one report row: a contributor and their share of the tree.
type ShareRow struct {
	// Author is the contributor identity (an email address)
	Author string `parquet:"author,snappy,dict"`

	// Lines is the number of lines attributed to the author
	Lines int64 `parquet:"lines,snappy"`

	// Percent is the share of all attributed lines, rounded to two decimals
	Percent float64 `parquet:"percent,snappy"`
}

// ReportRun represents a single recorded report run.
// This struct maps to the blameshare_report_runs database table.
type ReportRun struct {
	RunID      int64  `parquet:"run_id,snappy"`
	RepoPath   string `parquet:"repo_path,snappy,dict"`
	CommitHash string `parquet:"commit_hash,snappy"`

	// StartTime is when the run began (stored as TIMESTAMP with nanosecond precision)
	StartTime time.Time `parquet:"start_time,snappy"`

	// EndTime is when the run completed (nullable)
	EndTime *time.Time `parquet:"end_time,optional,snappy"`

	// RunDurationMs is the duration of the run in milliseconds (nullable)
	RunDurationMs *int32 `parquet:"run_duration_ms,optional,snappy"`

	TotalFiles int32 `parquet:"total_files,snappy"`
	TotalLines int64 `parquet:"total_lines,snappy"`

	// ConfigParams contains the JSON-encoded configuration parameters (nullable)
	ConfigParams *string `parquet:"config_params,optional,snappy"`
}

// AuthorShare represents one author's share within a recorded run.
// This struct maps to the blameshare_author_shares database table.
type AuthorShare struct {
	RunID   int64   `parquet:"run_id,snappy"`
	Author  string  `parquet:"author,snappy,dict"`
	Lines   int64   `parquet:"lines,snappy"`
	Percent float64 `parquet:"percent,snappy"`
}

// WriteRows writes records of any supported type to w as a single Parquet file.
func WriteRows[T any](w io.Writer, data []T) error {
	writer := parquet.NewGenericWriter[T](w)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet data: %w", err)
	}
	return nil
}

// WriteFile writes records to a new Parquet file at outputPath.
func WriteFile[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := WriteRows(file, data); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

// ReadFile reads all records of type T from a Parquet file.
func ReadFile[T any](path string) ([]T, error) {
	return parquet.ReadFile[T](path)
}

// ConvertReportRows converts report rows into Parquet rows.
func ConvertReportRows(rows []schema.ReportRow) []ShareRow {
	out := make([]ShareRow, len(rows))
	for i, row := range rows {
		out[i] = ShareRow{
			Author:  string(row.Author),
			Lines:   int64(row.Lines),
			Percent: row.PercentValue(),
		}
	}
	return out
}

// ConvertReportRunRecords converts stored report runs into Parquet rows.
func ConvertReportRunRecords(records []schema.ReportRunRecord) []ReportRun {
	out := make([]ReportRun, len(records))
	for i, r := range records {
		out[i] = ReportRun{
			RunID:         r.RunID,
			RepoPath:      r.RepoPath,
			CommitHash:    r.CommitHash,
			StartTime:     r.StartTime,
			EndTime:       r.EndTime,
			RunDurationMs: r.RunDurationMs,
			TotalFiles:    r.TotalFiles,
			TotalLines:    r.TotalLines,
			ConfigParams:  r.ConfigParams,
		}
	}
	return out
}

// ConvertAuthorShareRecords converts stored author shares into Parquet rows.
func ConvertAuthorShareRecords(records []schema.AuthorShareRecord) []AuthorShare {
	out := make([]AuthorShare, len(records))
	for i, r := range records {
		out[i] = AuthorShare(r)
	}
	return out
}
