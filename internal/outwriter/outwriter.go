// Package outwriter has output and writer logic.
package outwriter

import (
	"fmt"
	"io"

	"github.com/huangsam/blameshare/internal/contract"
	"github.com/huangsam/blameshare/internal/parquet"
	"github.com/huangsam/blameshare/schema"
)

// WriteReport writes the report to cfg.OutputFile in the configured format.
// The destination is replaced atomically; "-" writes to stdout.
// Failures are returned as *schema.OutputWriteError.
func WriteReport(report *schema.Report, cfg *contract.Config) error {
	var render func(io.Writer) error
	var successMsg string

	switch cfg.Output {
	case schema.JSONOut:
		render = func(w io.Writer) error { return writeJSON(w, report) }
		successMsg = "Wrote JSON"
	case schema.TextOut:
		render = func(w io.Writer) error { return writeReportTable(w, report, cfg) }
		successMsg = "Wrote table"
	case schema.ParquetOut:
		render = func(w io.Writer) error { return parquet.WriteRows(w, parquet.ConvertReportRows(report.Rows)) }
		successMsg = "Wrote Parquet"
	case schema.CSVOut, "":
		render = func(w io.Writer) error { return writeReportCSV(w, report) }
		successMsg = "Wrote CSV"
	default:
		return &schema.OutputWriteError{Path: cfg.OutputFile, Err: fmt.Errorf("unsupported output format: %s", cfg.Output)}
	}

	return writeWithFile(cfg.OutputFile, render, successMsg, cfg.Quiet)
}
