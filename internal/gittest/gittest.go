// Package gittest builds throwaway git repositories for tests.
package gittest

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"
)

// Commit describes one commit: who authored it and which files it writes.
type Commit struct {
	Email string
	Files map[string]string // slash-separated path -> full content
}

// baseTime keeps commit hashes stable across runs.
var baseTime = time.Date(2024, time.January, 1, 12, 0, 0, 0, time.UTC)

// InitRepo creates a repository in a temporary directory, applies the commits
// in order and returns the repository root.
func InitRepo(t testing.TB, commits ...Commit) string {
	t.Helper()

	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	wt, err := repo.Worktree()
	require.NoError(t, err)

	for i, c := range commits {
		for name, content := range c.Files {
			full := filepath.Join(dir, filepath.FromSlash(name))
			require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
			require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
			_, err := wt.Add(name)
			require.NoError(t, err)
		}
		sig := &object.Signature{
			Name:  c.Email,
			Email: c.Email,
			When:  baseTime.Add(time.Duration(i) * time.Minute),
		}
		_, err := wt.Commit("commit by "+c.Email, &git.CommitOptions{Author: sig, Committer: sig})
		require.NoError(t, err)
	}
	return dir
}

// Lines returns n newline-terminated lines with the given prefix.
func Lines(prefix string, n int) string {
	var out []byte
	for i := range n {
		out = append(out, prefix...)
		out = append(out, byte('a'+i%26))
		out = append(out, '\n')
	}
	return string(out)
}
