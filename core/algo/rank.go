package algo

import (
	"cmp"
	"slices"

	"github.com/huangsam/blameshare/schema"
)

// BuildReportRows joins the count and percent tables on the contributors present
// in both and returns the rows in the requested order.
func BuildReportRows(counts schema.AuthorCountTable, percents schema.AuthorPercentTable, order schema.SortOrder) []schema.ReportRow {
	rows := make([]schema.ReportRow, 0, len(counts))
	for author, n := range counts {
		percent, ok := percents[author]
		if !ok {
			continue
		}
		rows = append(rows, schema.ReportRow{Author: author, Lines: n, Percent: percent})
	}
	SortRows(rows, order)
	return rows
}

// SortRows orders rows by contributor, or by lines descending with the
// contributor as a tie-breaker. Both orders are total, so output is deterministic.
func SortRows(rows []schema.ReportRow, order schema.SortOrder) {
	switch order {
	case schema.SortByLines:
		slices.SortFunc(rows, func(a, b schema.ReportRow) int {
			if c := cmp.Compare(b.Lines, a.Lines); c != 0 {
				return c
			}
			return cmp.Compare(a.Author, b.Author)
		})
	default:
		slices.SortFunc(rows, func(a, b schema.ReportRow) int {
			return cmp.Compare(a.Author, b.Author)
		})
	}
}
