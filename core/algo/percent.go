// Package algo has the pure computations that turn line counts into a report.
package algo

import "github.com/huangsam/blameshare/schema"

// CalculatePercentages converts a tree-wide table into each contributor's share of
// all attributed lines, formatted with exactly two decimal digits. Shares are not
// adjusted to make the rounded values sum to 100.
// A table with no attributed lines returns *schema.EmptyAttributionError.
func CalculatePercentages(counts schema.AuthorCountTable) (schema.AuthorPercentTable, error) {
	total := counts.Total()
	if total == 0 {
		return nil, &schema.EmptyAttributionError{}
	}

	percents := make(schema.AuthorPercentTable, len(counts))
	for author, n := range counts {
		percents[author] = schema.FormatPercent(100.0 * float64(n) / float64(total))
	}
	return percents, nil
}
