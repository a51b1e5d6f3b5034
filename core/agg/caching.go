package agg

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"time"

	"github.com/huangsam/blameshare/internal/contract"
	"github.com/huangsam/blameshare/schema"
)

// currentCacheVersion defines the version of the cached blame tables.
const currentCacheVersion = 1

// cachedCountFileAuthors serves a per-file table from the blame cache when possible.
// Blame at a fixed commit never changes, so entries do not go stale.
func cachedCountFileAuthors(ctx context.Context, cfg *contract.Config, client contract.GitClient, store contract.CacheStore, commit, path string) (schema.AuthorCountTable, error) {
	if store == nil {
		return CountFileAuthors(ctx, client, cfg.RepoPath, commit, path)
	}

	key := generateCacheKey(cfg.RepoPath, commit, cfg.BlameBackend, path)
	if counts := checkCacheHit(store, key); counts != nil {
		return counts, nil
	}
	return computeAndStore(ctx, cfg, client, store, key, commit, path)
}

// checkCacheHit attempts to retrieve and validate a cached table.
func checkCacheHit(store contract.CacheStore, key string) schema.AuthorCountTable {
	data, version, _, err := store.Get(key)
	if err != nil || version != currentCacheVersion {
		return nil // Cache miss
	}

	var counts schema.AuthorCountTable
	if err := json.Unmarshal(data, &counts); err != nil || counts == nil {
		return nil
	}
	return counts
}

// computeAndStore blames the file and stores the table in the cache.
func computeAndStore(ctx context.Context, cfg *contract.Config, client contract.GitClient, store contract.CacheStore, key, commit, path string) (schema.AuthorCountTable, error) {
	counts, err := CountFileAuthors(ctx, client, cfg.RepoPath, commit, path)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(counts); err == nil {
		_ = store.Set(key, data, currentCacheVersion, time.Now().Unix())
	}
	return counts, nil
}

// generateCacheKey creates a unique key for one file blamed at one commit.
func generateCacheKey(repoPath, commit string, backend schema.BlameBackend, path string) string {
	key := fmt.Sprintf("%s:%s:%s:%s", repoPath, commit, backend, path)
	return fmt.Sprintf("%x", sha256.Sum256([]byte(key)))
}
