package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/huangsam/blameshare/internal/contract"
	"github.com/huangsam/blameshare/schema"
)

// shortHashLength is how much of the commit hash the table summary shows.
const shortHashLength = 12

// writeReportCSV writes the header row followed by one record per contributor.
func writeReportCSV(w io.Writer, report *schema.Report) error {
	return writeCSVWithHeader(w, schema.ReportHeader, func(cw *csv.Writer) error {
		for _, row := range report.Rows {
			if err := cw.Write(row.Record()); err != nil {
				return fmt.Errorf("failed to write CSV row for %s: %w", row.Author, err)
			}
		}
		return nil
	})
}

// writeReportTable generates and writes the human-readable table.
func writeReportTable(w io.Writer, report *schema.Report, cfg *contract.Config) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Rank", "Author", "Lines", "Percent", "Label"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	maxWidth := GetMaxTableAuthorWidth(cfg)
	data := make([][]string, 0, len(report.Rows))
	for i, row := range report.Rows {
		percent := row.PercentValue()
		label := schema.GetPlainLabel(percent)
		if cfg.UseColors {
			label = contract.GetColorLabel(percent)
		}
		data = append(data, []string{
			humanize.Comma(int64(i + 1)),
			contract.TruncateText(string(row.Author), maxWidth),
			humanize.Comma(int64(row.Lines)),
			row.Percent,
			label,
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	commit := report.Commit
	if len(commit) > shortHashLength {
		commit = commit[:shortHashLength]
	}
	if _, err := fmt.Fprintf(w, "Blamed %s files with %s lines by %s authors at %s (%s)\n",
		humanize.Comma(int64(report.Files)),
		humanize.Comma(int64(report.TotalLines)),
		humanize.Comma(int64(len(report.Rows))),
		report.Revision, commit); err != nil {
		return err
	}
	if len(report.Skipped) > 0 {
		if _, err := fmt.Fprintf(w, "Skipped %s files that could not be blamed\n", humanize.Comma(int64(len(report.Skipped)))); err != nil {
			return err
		}
	}
	return nil
}
