// Package schema has configs, models and errors shared by all parts of blameshare.
package schema

import (
	"maps"
	"slices"
)

// ContributorIdentity identifies an author in blame output (an email address).
// Two identities are the same contributor only if the strings are equal.
type ContributorIdentity string

// LineCount is a non-negative number of attributed lines.
type LineCount int

// AuthorCountTable maps each contributor to the number of lines attributed to them,
// either within one file or across the whole tree.
type AuthorCountTable map[ContributorIdentity]LineCount

// AuthorPercentTable maps each contributor to their share of all attributed lines,
// formatted as text with exactly two decimal digits.
type AuthorPercentTable map[ContributorIdentity]string

// BlameHunk is one contiguous run of lines attributed to a single commit and author.
type BlameHunk struct {
	Commit string              // Full commit hash that last touched the lines
	Author ContributorIdentity // Author email of that commit
	Lines  int                 // Number of lines in the run
}

// NewAuthorCountTable returns an empty table.
func NewAuthorCountTable() AuthorCountTable {
	return make(AuthorCountTable)
}

// Add credits n lines to the given contributor.
func (t AuthorCountTable) Add(author ContributorIdentity, n LineCount) {
	t[author] += n
}

// Merge sums every entry of other into t.
func (t AuthorCountTable) Merge(other AuthorCountTable) {
	for author, n := range other {
		t[author] += n
	}
}

// Total returns the sum of all line counts.
func (t AuthorCountTable) Total() LineCount {
	var total LineCount
	for _, n := range t {
		total += n
	}
	return total
}

// Authors returns the contributors in the table sorted by identity.
func (t AuthorCountTable) Authors() []ContributorIdentity {
	return slices.Sorted(maps.Keys(t))
}

// Clone returns a copy of the table.
func (t AuthorCountTable) Clone() AuthorCountTable {
	return maps.Clone(t)
}
