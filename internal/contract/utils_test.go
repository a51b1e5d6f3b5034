package contract

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huangsam/blameshare/schema"
)

func TestGetColorLabel(t *testing.T) {
	tests := []struct {
		name    string
		percent float64
		label   string
	}{
		{"trace", 1, schema.TraceValue},
		{"minor", 10, schema.MinorValue},
		{"major", 30, schema.MajorValue},
		{"primary", 75, schema.PrimaryValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, GetColorLabel(tt.percent), tt.label)
		})
	}
}

func TestIsMetadataPath(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{".git/config", true},
		{"vendor/lib/.git/HEAD", true},
		{".git", true},
		{".github/workflows/ci.yml", false},
		{".gitignore", false},
		{"src/git/file.go", false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, IsMetadataPath(tt.path))
		})
	}
}

func TestIsBinaryImage(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"logo.png", true},
		{"img/photo.jpg", true},
		{"img/photo.jpeg", true},
		{"anim.gif", true},
		{"LOGO.PNG", false}, // case-sensitive
		{"icon.svg", false},
		{"png.go", false},
		{"notes.txt", false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, IsBinaryImage(tt.path))
		})
	}
}

func TestShouldIgnore(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		excludes   []string
		wantIgnore bool
	}{
		{
			name:       "empty excludes",
			path:       "src/main.go",
			excludes:   []string{},
			wantIgnore: false,
		},
		{
			name:       "prefix match",
			path:       "vendor/github.com/lib/file.go",
			excludes:   []string{"vendor/"},
			wantIgnore: true,
		},
		{
			name:       "suffix match",
			path:       "dist/bundle.min.js",
			excludes:   []string{".min.js"},
			wantIgnore: true,
		},
		{
			name:       "glob match basename",
			path:       "src/file.min.js",
			excludes:   []string{"*.min.js"},
			wantIgnore: true,
		},
		{
			name:       "substring match",
			path:       "src/generated/code.go",
			excludes:   []string{"generated"},
			wantIgnore: true,
		},
		{
			name:       "no match",
			path:       "src/core/engine.go",
			excludes:   []string{"vendor/", "node_modules/", ".min.js"},
			wantIgnore: false,
		},
		{
			name:       "blank patterns are skipped",
			path:       "src/core/engine.go",
			excludes:   []string{"", "  "},
			wantIgnore: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantIgnore, ShouldIgnore(tt.path, tt.excludes))
		})
	}
}

func TestLogReportHeader(t *testing.T) {
	var buf bytes.Buffer
	LogReportHeader(&buf, &Config{
		RepoPath:     "/work/project",
		Revision:     "HEAD",
		BlameBackend: schema.GitBlame,
		Source:       schema.WalkSource,
		Workers:      4,
		OnBlameError: schema.SkipOnError,
	})
	out := buf.String()
	assert.Contains(t, out, "Repo: project")
	assert.Contains(t, out, "Workers: 4")
	assert.Equal(t, 2, strings.Count(out, "\n"))
}

func TestDBFilePaths(t *testing.T) {
	homeDir, err := os.UserHomeDir()
	require.NoError(t, err)

	cache := GetCacheDBFilePath()
	history := GetHistoryDBFilePath()
	assert.Contains(t, cache, ".blameshare_cache.db")
	assert.Contains(t, history, ".blameshare_history.db")
	assert.True(t, strings.HasPrefix(cache, homeDir))
	assert.NotEqual(t, cache, history)
}

func TestTruncateText(t *testing.T) {
	assert.Equal(t, "short@x.com", TruncateText("short@x.com", 20))
	assert.Equal(t, "averylo...", TruncateText("averylongname@example.com", 10))
	assert.Equal(t, "abcdef", TruncateText("abcdef", 3), "too small widths are ignored")
	assert.Equal(t, "ü...", TruncateText("üüüüüü", 4))
}

func TestParseBoolString(t *testing.T) {
	for _, s := range []string{"yes", "TRUE", "1"} {
		v, err := ParseBoolString(s)
		require.NoError(t, err)
		assert.True(t, v, s)
	}
	for _, s := range []string{"no", "False", "0"} {
		v, err := ParseBoolString(s)
		require.NoError(t, err)
		assert.False(t, v, s)
	}
	_, err := ParseBoolString("maybe")
	assert.Error(t, err)
}
