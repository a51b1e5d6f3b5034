package contract

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/huangsam/blameshare/schema"
)

// LocalGitClient implements the GitClient interface by executing the
// local 'git' binary installed on the machine.
type LocalGitClient struct{}

var _ GitClient = &LocalGitClient{} // Compile-time check

// NewLocalGitClient creates a new instance of the local Git client.
func NewLocalGitClient() *LocalGitClient {
	return &LocalGitClient{}
}

// Run executes a git command and returns its stdout output.
func (c *LocalGitClient) Run(ctx context.Context, repoPath string, args ...string) ([]byte, error) {
	fullArgs := append([]string{"-C", repoPath}, args...)
	cmd := exec.CommandContext(ctx, "git", fullArgs...)
	out, err := cmd.Output()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		stderr := strings.TrimSpace(string(exitErr.Stderr))
		return nil, fmt.Errorf("git command failed in %q: %s", repoPath, stderr)
	} else if err != nil {
		return nil, fmt.Errorf("git command failed: %w. Ensure Git is installed and available on your PATH", err)
	}
	return out, nil
}

// GetRepoRoot implements the GitClient interface.
func (c *LocalGitClient) GetRepoRoot(ctx context.Context, contextPath string) (string, error) {
	out, err := c.Run(ctx, contextPath, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// ResolveRevision implements the GitClient interface.
func (c *LocalGitClient) ResolveRevision(ctx context.Context, repoPath string, rev string) (string, error) {
	out, err := c.Run(ctx, repoPath, "rev-parse", "--verify", "--end-of-options", rev+"^{commit}")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// ListFilesAtRef implements the GitClient interface.
func (c *LocalGitClient) ListFilesAtRef(ctx context.Context, repoPath string, ref string) ([]string, error) {
	// -z keeps paths verbatim; without it git C-quotes non-ASCII names
	args := []string{
		"ls-tree", "-r", "-z", "--name-only",
		ref,
	}
	out, err := c.Run(ctx, repoPath, args...)
	if err != nil {
		return nil, err
	}
	files := []string{}
	for name := range strings.SplitSeq(string(out), "\x00") {
		if name != "" {
			files = append(files, name)
		}
	}
	return files, nil
}

// Blame implements the GitClient interface.
func (c *LocalGitClient) Blame(ctx context.Context, repoPath string, rev string, path string) ([]schema.BlameHunk, error) {
	out, err := c.Run(ctx, repoPath, "blame", "--line-porcelain", rev, "--", path)
	if err != nil {
		return nil, err
	}
	return ParseBlamePorcelain(out)
}

// ParseBlamePorcelain folds the output of 'git blame --line-porcelain' into hunks.
// Every blamed line carries its own header block, so consecutive lines from the
// same commit are collapsed into one hunk.
func ParseBlamePorcelain(data []byte) ([]schema.BlameHunk, error) {
	var (
		hunks  []schema.BlameHunk
		commit string
		author string
		inLine bool
	)

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := scanner.Text()

		// Content lines are prefixed with a tab and close the current entry
		if strings.HasPrefix(line, "\t") {
			if !inLine {
				return nil, errors.New("blame content line without header")
			}
			n := len(hunks)
			if n > 0 && hunks[n-1].Commit == commit && string(hunks[n-1].Author) == author {
				hunks[n-1].Lines++
			} else {
				hunks = append(hunks, schema.BlameHunk{
					Commit: commit,
					Author: schema.ContributorIdentity(author),
					Lines:  1,
				})
			}
			inLine = false
			continue
		}

		if !inLine {
			fields := strings.Fields(line)
			if len(fields) < 3 || !isHexHash(fields[0]) {
				return nil, fmt.Errorf("unexpected blame header %q", line)
			}
			commit = fields[0]
			author = ""
			inLine = true
			continue
		}

		if mail, ok := strings.CutPrefix(line, "author-mail "); ok {
			author = strings.TrimSuffix(strings.TrimPrefix(mail, "<"), ">")
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if inLine {
		return nil, errors.New("truncated blame output")
	}
	return hunks, nil
}

// isHexHash reports whether s looks like a full SHA-1 or SHA-256 object name.
func isHexHash(s string) bool {
	if len(s) != 40 && len(s) != 64 {
		return false
	}
	for _, r := range s {
		if (r < '0' || r > '9') && (r < 'a' || r > 'f') {
			return false
		}
	}
	return true
}
