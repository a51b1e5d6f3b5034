// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/huangsam/blameshare/schema"
)

// GitClient defines the git operations needed to attribute lines to authors.
// This allows the core aggregation logic to be tested without needing a real git executable.
type GitClient interface {
	// --- Generic / Low-Level ---

	// Run executes a git command and returns its output.
	// Its use should be minimized in favor of the explicit methods below.
	Run(ctx context.Context, repoPath string, args ...string) ([]byte, error)

	// --- Reference Resolution ---

	// GetRepoRoot returns the absolute path to the root of the Git repository
	// containing the given context path.
	GetRepoRoot(ctx context.Context, contextPath string) (string, error)

	// ResolveRevision returns the full commit hash a revision points to.
	ResolveRevision(ctx context.Context, repoPath string, rev string) (string, error)

	// --- File State / Content ---

	// ListFilesAtRef returns a list of all tracked files in the repository at a specific reference.
	ListFilesAtRef(ctx context.Context, repoPath string, ref string) ([]string, error)

	// Blame returns the line attribution of one file at a revision, in file order.
	Blame(ctx context.Context, repoPath string, rev string, path string) ([]schema.BlameHunk, error)
}

// CacheManager defines the interface for managing cache stores.
// This allows the cache layer to be mocked for testing.
type CacheManager interface {
	GetBlameStore() CacheStore
	GetHistoryStore() HistoryStore
}

// CacheStore defines the interface for cache data storage.
// This allows mocking the store for testing.
type CacheStore interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	GetStatus() (schema.CacheStatus, error)
	Close() error
}

// HistoryStore defines the interface for tracking report runs and their author shares.
type HistoryStore interface {
	// BeginRun creates a new report run and returns its unique ID
	BeginRun(repoPath, commitHash string, startTime time.Time, configParams map[string]any) (int64, error)

	// EndRun updates the report run with completion data
	EndRun(runID int64, endTime time.Time, totalFiles int, totalLines int) error

	// RecordAuthorShares stores every row of a finished report
	RecordAuthorShares(runID int64, rows []schema.ReportRow) error

	// GetAllRuns returns all recorded runs ordered by ID
	GetAllRuns() ([]schema.ReportRunRecord, error)

	// GetAllAuthorShares returns all recorded author shares ordered by run and author
	GetAllAuthorShares() ([]schema.AuthorShareRecord, error)

	// GetStatus returns status information about the history store
	GetStatus() (schema.HistoryStatus, error)

	// Close closes the underlying connection
	Close() error
}
