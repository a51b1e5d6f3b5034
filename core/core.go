// Package core has core logic for computing each contributor's share of a repository.
package core

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/huangsam/blameshare/core/agg"
	"github.com/huangsam/blameshare/core/algo"
	"github.com/huangsam/blameshare/internal/contract"
	"github.com/huangsam/blameshare/internal/outwriter"
	"github.com/huangsam/blameshare/schema"
)

// ExecuteReport builds the report for cfg and writes it to cfg.OutputFile.
// It serves as the main entry point of the CLI. No output is written when
// the report cannot be built.
func ExecuteReport(ctx context.Context, cfg *contract.Config, client contract.GitClient, mgr contract.CacheManager) error {
	report, err := BuildReport(ctx, cfg, client, mgr)
	if err != nil {
		return err
	}
	return outwriter.WriteReport(report, cfg)
}

// BuildReport blames every selected file at the resolved revision, sums the
// lines per contributor and computes each contributor's share.
func BuildReport(ctx context.Context, cfg *contract.Config, client contract.GitClient, mgr contract.CacheManager) (*schema.Report, error) {
	start := time.Now()
	if !cfg.Quiet && !shouldSuppressHeader(ctx) {
		contract.LogReportHeader(os.Stderr, cfg)
	}

	// --- 1. Pin the revision so every file is blamed at the same commit ---
	commit, err := client.ResolveRevision(ctx, cfg.RepoPath, cfg.Revision)
	if err != nil {
		return nil, &schema.RepositoryAccessError{Path: cfg.RepoPath, Err: err}
	}

	run := beginHistoryRun(cfg, mgr, commit, start)

	// --- 2. File selection ---
	files, err := agg.CollectFiles(ctx, cfg, client, commit)
	if err != nil {
		return nil, err
	}

	// --- 3. Per-file blame summed over the tree ---
	tree, err := agg.AggregateTree(ctx, cfg, client, mgr, commit, files)
	if err != nil {
		return nil, err
	}

	// --- 4. Shares ---
	percents, err := algo.CalculatePercentages(tree.Counts)
	if err != nil {
		var emptyErr *schema.EmptyAttributionError
		if errors.As(err, &emptyErr) {
			emptyErr.Files = tree.Files
		}
		return nil, err
	}

	report := &schema.Report{
		RepoPath:    cfg.RepoPath,
		Revision:    cfg.Revision,
		Commit:      commit,
		Files:       tree.Files,
		Skipped:     tree.Skipped,
		TotalLines:  tree.Counts.Total(),
		Rows:        algo.BuildReportRows(tree.Counts, percents, cfg.Sort),
		GeneratedAt: time.Now().UTC(),
	}

	run.finish(report)
	return report, nil
}
