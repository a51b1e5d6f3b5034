package contract

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/fatih/color"

	"github.com/huangsam/blameshare/schema"
)

// Color variables for console output.
var (
	PrimaryColor = color.New(color.FgGreen, color.Bold) // PrimaryColor marks the dominant contributors.
	MajorColor   = color.New(color.FgCyan, color.Bold)  // MajorColor marks substantial contributors.
	MinorColor   = color.New(color.FgYellow)            // MinorColor marks occasional contributors.
	TraceColor   = color.New(color.FgHiBlack)           // TraceColor marks drive-by contributors.
)

// GetColorLabel returns a colored text label for console output (table).
// It uses schema.GetPlainLabel to determine the string, and then applies the appropriate color.
func GetColorLabel(percent float64) string {
	text := schema.GetPlainLabel(percent)

	switch text {
	case schema.PrimaryValue:
		return PrimaryColor.Sprint(text)
	case schema.MajorValue:
		return MajorColor.Sprint(text)
	case schema.MinorValue:
		return MinorColor.Sprint(text)
	default:
		return TraceColor.Sprint(text)
	}
}

// IsMetadataPath reports whether a slash-separated path lies inside a git metadata directory.
func IsMetadataPath(path string) bool {
	return slices.Contains(strings.Split(path, "/"), schema.GitMetadataDir)
}

// IsBinaryImage reports whether a path ends with one of the binary image extensions.
// The comparison is case-sensitive.
func IsBinaryImage(path string) bool {
	for _, ext := range schema.BinaryImageExtensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

// ShouldIgnore returns true if the given path matches any of the exclude patterns.
// It supports simple glob patterns (using filepath.Match) when the pattern
// contains wildcard characters (*, ?, [ ]). Patterns ending with '/' are treated
// as prefixes. Patterns starting with '.' are treated as suffix (extension) matches.
// A user can provide patterns like "vendor/", "node_modules/", "*.min.js".
func ShouldIgnore(path string, excludes []string) bool {
	for _, ex := range excludes {
		ex = strings.TrimSpace(ex)
		if ex == "" {
			continue
		}

		if strings.ContainsAny(ex, "*?[") {
			pat := strings.ReplaceAll(ex, "**", "*")
			if ok, err := filepath.Match(pat, path); err == nil && ok {
				return true
			}
			// Also try matching against the base filename (e.g. *.min.js)
			if ok, err := filepath.Match(pat, filepath.Base(path)); err == nil && ok {
				return true
			}
			continue
		}

		switch {
		case strings.HasSuffix(ex, "/"):
			if strings.HasPrefix(path, ex) {
				return true
			}
		case strings.HasPrefix(ex, "."):
			if strings.HasSuffix(path, ex) {
				return true
			}
		case strings.Contains(path, ex):
			return true
		}
	}
	return false
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// LogReportHeader prints a concise, 2-line header describing the run.
func LogReportHeader(w io.Writer, cfg *Config) {
	repoName := filepath.Base(cfg.RepoPath)
	if repoName == "" || repoName == "." {
		repoName = "current"
	}
	_, _ = fmt.Fprintf(w, "🔎 Repo: %s (Rev: %s, Blame: %s)\n", repoName, cfg.Revision, cfg.BlameBackend)
	_, _ = fmt.Fprintf(w, "📂 Source: %s (Workers: %d, On error: %s)\n", cfg.Source, cfg.Workers, cfg.OnBlameError)
}

// GetCacheDBFilePath returns the path to the SQLite DB file for the blame cache.
func GetCacheDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".blameshare_cache.db"
	}
	return filepath.Join(homeDir, ".blameshare_cache.db")
}

// GetHistoryDBFilePath returns the path to the SQLite DB file for report history.
func GetHistoryDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".blameshare_history.db"
	}
	return filepath.Join(homeDir, ".blameshare_history.db")
}

// TruncateText truncates text to a maximum width with an ellipsis suffix.
// Requires maxWidth > 3 so there is room for the "..." suffix and at least one character.
func TruncateText(text string, maxWidth int) string {
	runes := []rune(text)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return text
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
