package contract

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/huangsam/blameshare/schema"
)

// validInput returns raw input matching the CLI defaults.
func validInput(repoPath string) *ConfigRawInput {
	return &ConfigRawInput{
		RepoPathStr:   repoPath,
		OutputFileStr: "out.csv",
		Rev:           "HEAD",
		Format:        "csv",
		Sort:          "author",
		Workers:       1,
		BlameBackend:  "git",
		Source:        "walk",
		OnBlameError:  "skip",
		Color:         "yes",
		CacheBackend:  "none",
	}
}

func TestProcessAndValidate(t *testing.T) {
	repoDir := t.TempDir()
	realRepoDir, err := filepath.EvalSymlinks(repoDir)
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Join(repoDir, "sub", "pkg"), 0o755))

	tests := []struct {
		name        string
		modify      func(*ConfigRawInput)
		expectError bool
		rootErr     error
		check       func(*testing.T, *Config)
	}{
		{
			name: "valid minimal config",
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, realRepoDir, cfg.RepoPath)
				assert.Empty(t, cfg.PathFilter)
				assert.Equal(t, "HEAD", cfg.Revision)
				assert.Equal(t, schema.CSVOut, cfg.Output)
				assert.Equal(t, schema.SortByAuthor, cfg.Sort)
				assert.Equal(t, schema.GitBlame, cfg.BlameBackend)
				assert.Equal(t, schema.WalkSource, cfg.Source)
				assert.Equal(t, schema.SkipOnError, cfg.OnBlameError)
				assert.True(t, cfg.UseColors)
				assert.Nil(t, cfg.Excludes)
			},
		},
		{
			name:   "empty revision defaults to HEAD",
			modify: func(in *ConfigRawInput) { in.Rev = "  " },
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, DefaultRevision, cfg.Revision)
			},
		},
		{
			name:        "revision looking like a flag",
			modify:      func(in *ConfigRawInput) { in.Rev = "--output=/tmp/x" },
			expectError: true,
		},
		{
			name:   "uppercase enums are normalized",
			modify: func(in *ConfigRawInput) { in.Format = "JSON"; in.Sort = "Lines"; in.BlameBackend = "GoGit" },
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, schema.JSONOut, cfg.Output)
				assert.Equal(t, schema.SortByLines, cfg.Sort)
				assert.Equal(t, schema.GoGitBlame, cfg.BlameBackend)
			},
		},
		{
			name:   "excludes are split and trimmed",
			modify: func(in *ConfigRawInput) { in.Exclude = " vendor/ , ,*.min.js" },
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, []string{"vendor/", "*.min.js"}, cfg.Excludes)
			},
		},
		{
			name:   "subdirectory becomes a path filter",
			modify: func(in *ConfigRawInput) { in.RepoPathStr = filepath.Join(repoDir, "sub", "pkg") },
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, realRepoDir, cfg.RepoPath)
				assert.Equal(t, "sub/pkg/", cfg.PathFilter)
			},
		},
		{name: "invalid format", modify: func(in *ConfigRawInput) { in.Format = "xml" }, expectError: true},
		{name: "invalid sort", modify: func(in *ConfigRawInput) { in.Sort = "percent" }, expectError: true},
		{name: "invalid blame backend", modify: func(in *ConfigRawInput) { in.BlameBackend = "svn" }, expectError: true},
		{name: "invalid source", modify: func(in *ConfigRawInput) { in.Source = "index" }, expectError: true},
		{name: "invalid policy", modify: func(in *ConfigRawInput) { in.OnBlameError = "retry" }, expectError: true},
		{name: "invalid color", modify: func(in *ConfigRawInput) { in.Color = "maybe" }, expectError: true},
		{name: "zero workers", modify: func(in *ConfigRawInput) { in.Workers = 0 }, expectError: true},
		{name: "too many workers", modify: func(in *ConfigRawInput) { in.Workers = MaxWorkers + 1 }, expectError: true},
		{name: "empty output file", modify: func(in *ConfigRawInput) { in.OutputFileStr = "" }, expectError: true},
		{name: "invalid cache backend", modify: func(in *ConfigRawInput) { in.CacheBackend = "redis" }, expectError: true},
		{
			name:        "mysql cache without connection string",
			modify:      func(in *ConfigRawInput) { in.CacheBackend = "mysql" },
			expectError: true,
		},
		{
			name: "history on a different sqlite file",
			modify: func(in *ConfigRawInput) {
				in.CacheBackend = "sqlite"
				in.HistoryBackend = "sqlite"
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, schema.SQLiteBackend, cfg.HistoryBackend)
			},
		},
		{
			name: "history on the same sqlite file",
			modify: func(in *ConfigRawInput) {
				in.CacheBackend = "sqlite"
				in.CacheDBConnect = "/tmp/shared.db"
				in.HistoryBackend = "sqlite"
				in.HistoryDBConnect = "/tmp/shared.db"
			},
			expectError: true,
		},
		{name: "invalid history backend", modify: func(in *ConfigRawInput) { in.HistoryBackend = "redis" }, expectError: true},
		{name: "not a git repository", rootErr: errors.New("not a git repository"), expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := new(MockGitClient)
			client.On("GetRepoRoot", mock.Anything, mock.Anything).Return(repoDir, tt.rootErr).Maybe()

			input := validInput(repoDir)
			if tt.modify != nil {
				tt.modify(input)
			}
			cfg := &Config{}
			err := ProcessAndValidate(context.Background(), cfg, client, input)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.check != nil {
				tt.check(t, cfg)
			}
		})
	}
}

func TestProcessAndValidate_RepositoryAccess(t *testing.T) {
	client := new(MockGitClient)

	t.Run("missing path", func(t *testing.T) {
		err := ProcessAndValidate(context.Background(), &Config{}, client, validInput("/definitely/not/here"))
		var target *schema.RepositoryAccessError
		require.ErrorAs(t, err, &target)
		assert.Equal(t, "/definitely/not/here", target.Path)
	})

	t.Run("file instead of directory", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "f.txt")
		require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))
		err := ProcessAndValidate(context.Background(), &Config{}, client, validInput(file))
		var target *schema.RepositoryAccessError
		assert.ErrorAs(t, err, &target)
	})

	t.Run("git root lookup fails", func(t *testing.T) {
		failing := new(MockGitClient)
		failing.On("GetRepoRoot", mock.Anything, mock.Anything).Return("", errors.New("fatal: not a git repository"))
		err := ProcessAndValidate(context.Background(), &Config{}, failing, validInput(t.TempDir()))
		var target *schema.RepositoryAccessError
		assert.ErrorAs(t, err, &target)
		failing.AssertExpectations(t)
	})
}

func TestRevalidateReport(t *testing.T) {
	ctx := context.Background()
	base := &Config{RepoPath: "/repo", Revision: "HEAD", Sort: schema.SortByAuthor}

	t.Run("empty overrides keep settings", func(t *testing.T) {
		cfg := base.Clone()
		require.NoError(t, RevalidateReport(ctx, cfg, new(MockGitClient), "", "", ""))
		assert.Equal(t, base, cfg)
	})

	t.Run("rev and sort", func(t *testing.T) {
		cfg := base.Clone()
		require.NoError(t, RevalidateReport(ctx, cfg, new(MockGitClient), "", " v1.2.0 ", "LINES"))
		assert.Equal(t, "v1.2.0", cfg.Revision)
		assert.Equal(t, schema.SortByLines, cfg.Sort)
	})

	t.Run("option-like rev", func(t *testing.T) {
		assert.Error(t, RevalidateReport(ctx, base.Clone(), new(MockGitClient), "", "--output=x", ""))
	})

	t.Run("bad sort", func(t *testing.T) {
		assert.ErrorContains(t, RevalidateReport(ctx, base.Clone(), new(MockGitClient), "", "", "size"), "invalid sort order")
	})

	t.Run("repo path resolves root and filter", func(t *testing.T) {
		repoDir := t.TempDir()
		realRepoDir, err := filepath.EvalSymlinks(repoDir)
		require.NoError(t, err)
		sub := filepath.Join(repoDir, "pkg")
		require.NoError(t, os.MkdirAll(sub, 0o755))

		client := new(MockGitClient)
		client.On("GetRepoRoot", ctx, sub).Return(repoDir, nil)

		cfg := base.Clone()
		require.NoError(t, RevalidateReport(ctx, cfg, client, sub, "", ""))
		assert.Equal(t, realRepoDir, cfg.RepoPath)
		assert.Equal(t, "pkg/", cfg.PathFilter)
	})

	t.Run("missing repo path", func(t *testing.T) {
		err := RevalidateReport(ctx, base.Clone(), new(MockGitClient), "/definitely/not/here", "", "")
		var target *schema.RepositoryAccessError
		assert.ErrorAs(t, err, &target)
	})
}

func TestValidateDatabaseConnectionString(t *testing.T) {
	tests := []struct {
		name    string
		backend schema.DatabaseBackend
		connStr string
		wantErr bool
	}{
		{"sqlite needs nothing", schema.SQLiteBackend, "", false},
		{"none needs nothing", schema.NoneBackend, "", false},
		{"mysql valid", schema.MySQLBackend, "user:pass@tcp(localhost:3306)/blameshare", false},
		{"mysql empty", schema.MySQLBackend, "", true},
		{"mysql without tcp", schema.MySQLBackend, "user:pass@localhost/db", true},
		{"postgres valid", schema.PostgreSQLBackend, "host=localhost port=5432 user=u password=p dbname=blameshare", false},
		{"postgres empty", schema.PostgreSQLBackend, "", true},
		{"postgres without host", schema.PostgreSQLBackend, "dbname=blameshare", true},
		{"postgres without dbname", schema.PostgreSQLBackend, "host=localhost", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDatabaseConnectionString(tt.backend, tt.connStr)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfigClone(t *testing.T) {
	cfg := &Config{RepoPath: "/repo", Excludes: []string{"vendor/"}}
	clone := cfg.Clone()
	clone.Excludes[0] = "changed"
	clone.RepoPath = "/other"
	assert.Equal(t, "vendor/", cfg.Excludes[0])
	assert.Equal(t, "/repo", cfg.RepoPath)
}

func TestConfigParams(t *testing.T) {
	cfg := &Config{Revision: "main", Sort: schema.SortByLines, BlameBackend: schema.GitBlame, Source: schema.WalkSource}
	params := cfg.ConfigParams()
	assert.Equal(t, "main", params["rev"])
	assert.Equal(t, "lines", params["sort"])
}

func TestNewGitClient(t *testing.T) {
	assert.IsType(t, &GoGitClient{}, NewGitClient(schema.GoGitBlame))
	assert.IsType(t, &LocalGitClient{}, NewGitClient(schema.GitBlame))
	assert.IsType(t, &LocalGitClient{}, NewGitClient("unknown"))
}

func TestProcessProfilingConfig(t *testing.T) {
	var profile ProfileConfig
	require.NoError(t, ProcessProfilingConfig(&profile, ""))
	assert.False(t, profile.Enabled)
	require.NoError(t, ProcessProfilingConfig(&profile, "blameshare"))
	assert.True(t, profile.Enabled)
	assert.Equal(t, "blameshare", profile.Prefix)
}
