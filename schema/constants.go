package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the report.
	OutputMode string

	// DatabaseBackend represents the database backend for caching and history.
	DatabaseBackend string

	// BlameBackend represents the engine used to compute blame.
	BlameBackend string

	// TreeSource represents how the list of files to blame is produced.
	TreeSource string

	// BlameErrorPolicy represents what happens when one file cannot be blamed.
	BlameErrorPolicy string

	// SortOrder represents the order of rows in the report.
	SortOrder string
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv" // default
	TextOut    OutputMode = "text"
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All database backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// All blame backends supported.
const (
	GitBlame   BlameBackend = "git" // default
	GoGitBlame BlameBackend = "gogit"
)

// All tree sources supported.
const (
	WalkSource    TreeSource = "walk" // default
	TrackedSource TreeSource = "tracked"
)

// All blame error policies supported.
const (
	SkipOnError  BlameErrorPolicy = "skip" // default
	AbortOnError BlameErrorPolicy = "abort"
)

// All sort orders supported.
const (
	SortByAuthor SortOrder = "author" // default
	SortByLines  SortOrder = "lines"
)

// GitMetadataDir is the version-control directory that is never traversed.
const GitMetadataDir = ".git"

// BinaryImageExtensions lists the file suffixes that are never blamed.
var BinaryImageExtensions = []string{".jpg", ".jpeg", ".gif", ".png"}

// ReportHeader is the fixed header row of tabular reports.
var ReportHeader = []string{"author", "lines", "percent"}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidDatabaseBackends lists all valid database backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ValidBlameBackends lists all valid blame backends.
var ValidBlameBackends = map[BlameBackend]struct{}{
	GitBlame:   {},
	GoGitBlame: {},
}

// ValidTreeSources lists all valid tree sources.
var ValidTreeSources = map[TreeSource]struct{}{
	WalkSource:    {},
	TrackedSource: {},
}

// ValidBlameErrorPolicies lists all valid blame error policies.
var ValidBlameErrorPolicies = map[BlameErrorPolicy]struct{}{
	SkipOnError:  {},
	AbortOnError: {},
}

// ValidSortOrders lists all valid sort orders.
var ValidSortOrders = map[SortOrder]struct{}{
	SortByAuthor: {},
	SortByLines:  {},
}
