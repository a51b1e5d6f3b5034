// Package agg has per-file blame counting and tree-wide aggregation of line ownership.
package agg

import (
	"context"
	"errors"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/huangsam/blameshare/internal/contract"
	"github.com/huangsam/blameshare/schema"
)

// TreeResult is the outcome of blaming every selected file of a tree.
type TreeResult struct {
	Counts  schema.AuthorCountTable // Tree-wide lines per contributor
	Files   int                     // Files blamed successfully
	Skipped []string                // Files whose blame failed under the skip policy
}

// CountFileAuthors blames one file at rev and folds the hunks into a fresh table.
// The sum of the returned counts equals the sum of the hunk line counts.
func CountFileAuthors(ctx context.Context, client contract.GitClient, repoPath, rev, path string) (schema.AuthorCountTable, error) {
	hunks, err := client.Blame(ctx, repoPath, rev, path)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, &schema.BlameUnavailableError{Path: path, Rev: rev, Err: err}
	}

	counts := schema.NewAuthorCountTable()
	for _, hunk := range hunks {
		counts.Add(hunk.Author, schema.LineCount(hunk.Lines))
	}
	return counts, nil
}

// AggregateTree blames every file at commit and sums the per-file tables.
// Up to cfg.Workers files are blamed at once. A file that cannot be blamed is
// skipped with a warning, or stops the whole run when cfg.OnBlameError is abort.
func AggregateTree(ctx context.Context, cfg *contract.Config, client contract.GitClient, mgr contract.CacheManager, commit string, files []string) (*TreeResult, error) {
	result := &TreeResult{Counts: schema.NewAuthorCountTable()}

	var store contract.CacheStore
	if mgr != nil {
		store = mgr.GetBlameStore()
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(cfg.Workers, 1))

	for _, path := range files {
		if gctx.Err() != nil {
			break // an aborted file already failed the group
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			counts, err := cachedCountFileAuthors(gctx, cfg, client, store, commit, path)
			if err != nil {
				var blameErr *schema.BlameUnavailableError
				if cfg.OnBlameError == schema.AbortOnError || !errors.As(err, &blameErr) {
					return err
				}
				contract.LogWarn("Skipping file", err)
				mu.Lock()
				result.Skipped = append(result.Skipped, path)
				mu.Unlock()
				return nil
			}

			mu.Lock()
			defer mu.Unlock()
			result.Counts.Merge(counts)
			result.Files++
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	slices.Sort(result.Skipped)
	return result, nil
}
