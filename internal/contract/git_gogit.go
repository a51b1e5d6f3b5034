package contract

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/huangsam/blameshare/schema"
)

// GoGitClient implements the GitClient interface in-process with go-git.
// Blame, revision resolution and tree listing never shell out; Run still
// delegates to the local git binary for commands go-git does not cover.
type GoGitClient struct {
	local *LocalGitClient
}

var _ GitClient = &GoGitClient{} // Compile-time check

// NewGoGitClient creates a new instance of the go-git client.
func NewGoGitClient() *GoGitClient {
	return &GoGitClient{local: NewLocalGitClient()}
}

// Run implements the GitClient interface.
func (c *GoGitClient) Run(ctx context.Context, repoPath string, args ...string) ([]byte, error) {
	return c.local.Run(ctx, repoPath, args...)
}

// GetRepoRoot implements the GitClient interface.
func (c *GoGitClient) GetRepoRoot(_ context.Context, contextPath string) (string, error) {
	repo, err := openRepository(contextPath)
	if err != nil {
		return "", err
	}
	wt, err := repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("repository %q has no worktree: %w", contextPath, err)
	}
	return filepath.Abs(wt.Filesystem.Root())
}

// ResolveRevision implements the GitClient interface.
func (c *GoGitClient) ResolveRevision(_ context.Context, repoPath string, rev string) (string, error) {
	repo, err := openRepository(repoPath)
	if err != nil {
		return "", err
	}
	commit, err := resolveCommit(repo, rev)
	if err != nil {
		return "", err
	}
	return commit.Hash.String(), nil
}

// ListFilesAtRef implements the GitClient interface.
func (c *GoGitClient) ListFilesAtRef(ctx context.Context, repoPath string, ref string) ([]string, error) {
	repo, err := openRepository(repoPath)
	if err != nil {
		return nil, err
	}
	commit, err := resolveCommit(repo, ref)
	if err != nil {
		return nil, err
	}
	iter, err := commit.Files()
	if err != nil {
		return nil, fmt.Errorf("cannot read tree of %s: %w", ref, err)
	}
	defer iter.Close()

	files := []string{}
	err = iter.ForEach(func(f *object.File) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		files = append(files, f.Name)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

// Blame implements the GitClient interface.
func (c *GoGitClient) Blame(ctx context.Context, repoPath string, rev string, path string) ([]schema.BlameHunk, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	repo, err := openRepository(repoPath)
	if err != nil {
		return nil, err
	}
	commit, err := resolveCommit(repo, rev)
	if err != nil {
		return nil, err
	}
	result, err := git.Blame(commit, filepath.ToSlash(path))
	if err != nil {
		return nil, fmt.Errorf("go-git blame of %q failed: %w", path, err)
	}

	var hunks []schema.BlameHunk
	for _, line := range result.Lines {
		hash := line.Hash.String()
		n := len(hunks)
		if n > 0 && hunks[n-1].Commit == hash && string(hunks[n-1].Author) == line.Author {
			hunks[n-1].Lines++
			continue
		}
		hunks = append(hunks, schema.BlameHunk{
			Commit: hash,
			Author: schema.ContributorIdentity(line.Author),
			Lines:  1,
		})
	}
	return hunks, nil
}

func openRepository(path string) (*git.Repository, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("cannot open git repository at %q: %w", path, err)
	}
	return repo, nil
}

func resolveCommit(repo *git.Repository, rev string) (*object.Commit, error) {
	hash, err := repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return nil, fmt.Errorf("cannot resolve revision %q: %w", rev, err)
	}
	commit, err := repo.CommitObject(*hash)
	if err != nil {
		return nil, fmt.Errorf("revision %q is not a commit: %w", rev, err)
	}
	return commit, nil
}
