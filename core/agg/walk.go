package agg

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/huangsam/blameshare/internal/contract"
	"github.com/huangsam/blameshare/schema"
)

// CollectFiles returns the slash-separated, repository-relative paths to blame.
// Git metadata and binary images are always dropped, then the subtree filter and
// the user's exclude patterns are applied.
func CollectFiles(ctx context.Context, cfg *contract.Config, client contract.GitClient, commit string) ([]string, error) {
	var files []string
	var err error

	switch cfg.Source {
	case schema.TrackedSource:
		files, err = client.ListFilesAtRef(ctx, cfg.RepoPath, commit)
		if err != nil {
			return nil, fmt.Errorf("failed to list files at %s: %w", commit, err)
		}
	default:
		files, err = walkTree(ctx, cfg.RepoPath, cfg.PathFilter)
		if err != nil {
			return nil, fmt.Errorf("failed to walk %s: %w", cfg.RepoPath, err)
		}
	}

	return filterFiles(cfg, files), nil
}

// walkTree lists the files under root, starting at the pathFilter subtree.
// Metadata directories are pruned and never descended into.
func walkTree(ctx context.Context, root, pathFilter string) ([]string, error) {
	start := filepath.Join(root, filepath.FromSlash(pathFilter))

	var files []string
	err := filepath.WalkDir(start, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == schema.GitMetadataDir {
				return filepath.SkipDir
			}
			return nil
		}
		// Regular files and symlinks only
		if !d.Type().IsRegular() && d.Type()&fs.ModeSymlink == 0 {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

// filterFiles drops every path that must never reach the blame backend.
func filterFiles(cfg *contract.Config, files []string) []string {
	filtered := make([]string, 0, len(files))
	for _, f := range files {
		if contract.IsMetadataPath(f) || contract.IsBinaryImage(f) {
			continue
		}
		if cfg.PathFilter != "" && !strings.HasPrefix(f, cfg.PathFilter) {
			continue
		}
		if contract.ShouldIgnore(f, cfg.Excludes) {
			continue
		}
		filtered = append(filtered, f)
	}
	return filtered
}
