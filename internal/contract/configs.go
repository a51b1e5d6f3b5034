package contract

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/huangsam/blameshare/schema"
)

// Default values for configuration.
const (
	DefaultRevision = "HEAD"
	DefaultWorkers  = 1
	MaxWorkers      = 256
)

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// Config holds the runtime configuration for one report.
// This struct is the "final, validated" config.
type Config struct {
	RepoPath   string // Absolute repository root
	PathFilter string // Slash-separated subtree prefix when a subdirectory was given
	Revision   string
	OutputFile string // "-" writes to stdout
	Output     schema.OutputMode
	Sort       schema.SortOrder
	Workers    int
	Excludes   []string
	Width      int // Terminal width override (0 = auto-detect)

	BlameBackend schema.BlameBackend
	Source       schema.TreeSource
	OnBlameError schema.BlameErrorPolicy

	CacheBackend   schema.DatabaseBackend
	CacheDBConnect string // Please use env var as this is plaintext

	HistoryBackend   schema.DatabaseBackend
	HistoryDBConnect string // Please use env var as this is plaintext

	UseColors bool // Enable colored labels in table output
	Quiet     bool // Suppress the run header
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// These are set manually from positional args, so no tag
	RepoPathStr   string
	OutputFileStr string

	Rev              string `mapstructure:"rev"`
	Format           string `mapstructure:"format"`
	Sort             string `mapstructure:"sort"`
	Workers          int    `mapstructure:"workers"`
	BlameBackend     string `mapstructure:"blame-backend"`
	Source           string `mapstructure:"source"`
	OnBlameError     string `mapstructure:"on-blame-error"`
	Exclude          string `mapstructure:"exclude"`
	Color            string `mapstructure:"color"`
	Width            int    `mapstructure:"width"`
	Quiet            bool   `mapstructure:"quiet"`
	CacheBackend     string `mapstructure:"cache-backend"`
	CacheDBConnect   string `mapstructure:"cache-db-connect"`
	HistoryBackend   string `mapstructure:"history-backend"`
	HistoryDBConnect string `mapstructure:"history-db-connect"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	if c.Excludes != nil {
		clone.Excludes = make([]string, len(c.Excludes))
		copy(clone.Excludes, c.Excludes)
	}
	return &clone
}

// ConfigParams returns the settings that shape a report, for recording alongside its history.
func (c *Config) ConfigParams() map[string]any {
	return map[string]any{
		"rev":            c.Revision,
		"path_filter":    c.PathFilter,
		"sort":           string(c.Sort),
		"blame_backend":  string(c.BlameBackend),
		"source":         string(c.Source),
		"on_blame_error": string(c.OnBlameError),
		"excludes":       c.Excludes,
	}
}

// NewGitClient returns the GitClient implementation for a blame backend.
// Unknown backends fall back to the local git binary; validation rejects them separately.
func NewGitClient(backend schema.BlameBackend) GitClient {
	if backend == schema.GoGitBlame {
		return NewGoGitClient()
	}
	return NewLocalGitClient()
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(ctx context.Context, cfg *Config, client GitClient, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfigs(cfg, input); err != nil {
		return err
	}
	if err := resolveGitPathAndFilter(ctx, cfg, client, input); err != nil {
		return err
	}
	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// ProcessProfilingConfig handles the profiling flag and sets up profiling configuration.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) error {
	if profilePrefix != "" {
		profile.Enabled = true
		profile.Prefix = profilePrefix
	}
	return nil
}

// validateSimpleInputs processes and validates all non-path, non-storage fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.OutputFile = strings.TrimSpace(input.OutputFileStr)
	if cfg.OutputFile == "" {
		return errors.New("output file must not be empty (use - for stdout)")
	}
	cfg.Width = input.Width
	cfg.Quiet = input.Quiet

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	cfg.Revision = strings.TrimSpace(input.Rev)
	if cfg.Revision == "" {
		cfg.Revision = DefaultRevision
	}
	if strings.HasPrefix(cfg.Revision, "-") {
		return fmt.Errorf("invalid revision '%s'", cfg.Revision)
	}

	if input.Workers <= 0 || input.Workers > MaxWorkers {
		return fmt.Errorf("workers must be greater than 0 and cannot exceed %d (received %d)", MaxWorkers, input.Workers)
	}
	cfg.Workers = input.Workers

	cfg.Output = schema.OutputMode(strings.ToLower(input.Format))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be csv, json, text, parquet", input.Format)
	}

	cfg.Sort = schema.SortOrder(strings.ToLower(input.Sort))
	if _, ok := schema.ValidSortOrders[cfg.Sort]; !ok {
		return fmt.Errorf("invalid sort order '%s'. must be author, lines", input.Sort)
	}

	cfg.BlameBackend = schema.BlameBackend(strings.ToLower(input.BlameBackend))
	if _, ok := schema.ValidBlameBackends[cfg.BlameBackend]; !ok {
		return fmt.Errorf("invalid blame backend '%s'. must be git, gogit", input.BlameBackend)
	}

	cfg.Source = schema.TreeSource(strings.ToLower(input.Source))
	if _, ok := schema.ValidTreeSources[cfg.Source]; !ok {
		return fmt.Errorf("invalid source '%s'. must be walk, tracked", input.Source)
	}

	cfg.OnBlameError = schema.BlameErrorPolicy(strings.ToLower(input.OnBlameError))
	if _, ok := schema.ValidBlameErrorPolicies[cfg.OnBlameError]; !ok {
		return fmt.Errorf("invalid blame error policy '%s'. must be skip, abort", input.OnBlameError)
	}

	cfg.Excludes = nil
	if input.Exclude != "" {
		for p := range strings.SplitSeq(input.Exclude, ",") {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				cfg.Excludes = append(cfg.Excludes, trimmed)
			}
		}
	}

	return nil
}

// validateBackendConfigs validates cache and history backend configurations.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	// --- Cache Backend Validation ---
	cfg.CacheBackend = schema.DatabaseBackend(strings.ToLower(input.CacheBackend))
	if _, ok := schema.ValidDatabaseBackends[cfg.CacheBackend]; !ok {
		return fmt.Errorf("invalid cache backend '%s'. must be sqlite, mysql, postgresql, none", input.CacheBackend)
	}
	cfg.CacheDBConnect = input.CacheDBConnect
	if err := ValidateDatabaseConnectionString(cfg.CacheBackend, cfg.CacheDBConnect); err != nil {
		return fmt.Errorf("cache backend: %w", err)
	}

	// --- History Backend Validation ---
	cfg.HistoryBackend = schema.DatabaseBackend(strings.ToLower(input.HistoryBackend))
	if cfg.HistoryBackend == "" {
		return nil
	}
	if _, ok := schema.ValidDatabaseBackends[cfg.HistoryBackend]; !ok {
		return fmt.Errorf("invalid history backend '%s'. must be sqlite, mysql, postgresql, none", input.HistoryBackend)
	}
	cfg.HistoryDBConnect = input.HistoryDBConnect
	if err := ValidateDatabaseConnectionString(cfg.HistoryBackend, cfg.HistoryDBConnect); err != nil {
		return fmt.Errorf("history backend: %w", err)
	}

	// Cache and history must not share one SQLite file
	if cfg.CacheBackend == schema.SQLiteBackend && cfg.HistoryBackend == schema.SQLiteBackend {
		cacheDBPath := cfg.CacheDBConnect
		if cacheDBPath == "" {
			cacheDBPath = GetCacheDBFilePath()
		}
		historyDBPath := cfg.HistoryDBConnect
		if historyDBPath == "" {
			historyDBPath = GetHistoryDBFilePath()
		}
		if cacheDBPath == historyDBPath {
			return fmt.Errorf("cache and history storage must use different SQLite database files. Both resolve to %q", cacheDBPath)
		}
	}
	return nil
}

// resolveGitPathAndFilter resolves the Git repository root and the implicit subtree filter.
func resolveGitPathAndFilter(ctx context.Context, cfg *Config, client GitClient, input *ConfigRawInput) error {
	searchPath := input.RepoPathStr
	if strings.TrimSpace(searchPath) == "" {
		return &schema.RepositoryAccessError{Path: searchPath, Err: errors.New("repository path must not be empty")}
	}
	absSearchPath, err := filepath.Abs(searchPath)
	if err != nil {
		return &schema.RepositoryAccessError{Path: searchPath, Err: err}
	}
	absSearchPath = filepath.Clean(absSearchPath)

	info, err := os.Stat(absSearchPath)
	if err != nil {
		return &schema.RepositoryAccessError{Path: searchPath, Err: err}
	}
	if !info.IsDir() {
		return &schema.RepositoryAccessError{Path: searchPath, Err: errors.New("not a directory")}
	}

	gitRoot, err := client.GetRepoRoot(ctx, absSearchPath)
	if err != nil {
		return &schema.RepositoryAccessError{Path: searchPath, Err: err}
	}
	gitRoot = filepath.Clean(gitRoot)
	if resolved, err := filepath.EvalSymlinks(gitRoot); err == nil {
		gitRoot = resolved
	}
	if resolved, err := filepath.EvalSymlinks(absSearchPath); err == nil {
		absSearchPath = resolved
	}
	cfg.RepoPath = gitRoot
	cfg.PathFilter = ""

	if absSearchPath != gitRoot {
		relativePath, err := filepath.Rel(gitRoot, absSearchPath)
		if err != nil {
			return &schema.RepositoryAccessError{Path: searchPath, Err: err}
		}
		if relativePath != "." && !strings.HasPrefix(relativePath, "..") {
			cfg.PathFilter = filepath.ToSlash(relativePath) + "/"
		}
	}

	return nil
}

// RevalidateReport applies per-request overrides to a cloned config and validates them.
// Empty values keep the current setting. A new repoPath is resolved to its git root
// and subtree filter exactly like the positional argument.
func RevalidateReport(ctx context.Context, cfg *Config, client GitClient, repoPath, rev, sort string) error {
	if rev = strings.TrimSpace(rev); rev != "" {
		if strings.HasPrefix(rev, "-") {
			return fmt.Errorf("invalid revision '%s'", rev)
		}
		cfg.Revision = rev
	}

	if sort != "" {
		order := schema.SortOrder(strings.ToLower(sort))
		if _, ok := schema.ValidSortOrders[order]; !ok {
			return fmt.Errorf("invalid sort order '%s'. must be author, lines", sort)
		}
		cfg.Sort = order
	}

	if repoPath != "" {
		return resolveGitPathAndFilter(ctx, cfg, client, &ConfigRawInput{RepoPathStr: repoPath})
	}
	return nil
}
