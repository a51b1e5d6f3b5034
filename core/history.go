package core

import (
	"time"

	"github.com/huangsam/blameshare/internal/contract"
	"github.com/huangsam/blameshare/schema"
)

// historyRun tracks one report in the history store, if one is configured.
type historyRun struct {
	store contract.HistoryStore
	id    int64
}

// beginHistoryRun records the start of a report. Tracking failures only warn.
func beginHistoryRun(cfg *contract.Config, mgr contract.CacheManager, commit string, start time.Time) *historyRun {
	run := &historyRun{}
	if mgr == nil {
		return run
	}
	store := mgr.GetHistoryStore()
	if store == nil {
		return run
	}

	id, err := store.BeginRun(cfg.RepoPath, commit, start, cfg.ConfigParams())
	if err != nil {
		contract.LogWarn("Report history initialization failed", err)
		return run
	}
	if id > 0 {
		run.store = store
		run.id = id
	}
	return run
}

// finish stores the rows of a completed report and closes the run.
func (r *historyRun) finish(report *schema.Report) {
	if r.store == nil {
		return
	}
	if err := r.store.RecordAuthorShares(r.id, report.Rows); err != nil {
		contract.LogWarn("Failed to record author shares", err)
	}
	if err := r.store.EndRun(r.id, time.Now(), report.Files, int(report.TotalLines)); err != nil {
		contract.LogWarn("Failed to finalize report history", err)
	}
}
