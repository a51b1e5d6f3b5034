package iocache

import (
	"bytes"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huangsam/blameshare/schema"
)

func newSQLiteCacheStore(t *testing.T) *CacheStoreImpl {
	t.Helper()
	store, err := NewCacheStore(blameTable, schema.SQLiteBackend, filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store.(*CacheStoreImpl)
}

func TestCacheStoreSQLite(t *testing.T) {
	t.Run("get missing key", func(t *testing.T) {
		store := newSQLiteCacheStore(t)
		_, _, _, err := store.Get("missing")
		assert.ErrorIs(t, err, sql.ErrNoRows)
	})

	t.Run("set then get", func(t *testing.T) {
		store := newSQLiteCacheStore(t)
		require.NoError(t, store.Set("k1", []byte(`{"a":1}`), 1, 1700000000))

		value, version, ts, err := store.Get("k1")
		require.NoError(t, err)
		assert.Equal(t, []byte(`{"a":1}`), value)
		assert.Equal(t, 1, version)
		assert.Equal(t, int64(1700000000), ts)
	})

	t.Run("set replaces", func(t *testing.T) {
		store := newSQLiteCacheStore(t)
		require.NoError(t, store.Set("k1", []byte("old"), 1, 1))
		require.NoError(t, store.Set("k1", []byte("new"), 2, 2))

		value, version, ts, err := store.Get("k1")
		require.NoError(t, err)
		assert.Equal(t, []byte("new"), value)
		assert.Equal(t, 2, version)
		assert.Equal(t, int64(2), ts)
	})

	t.Run("large value", func(t *testing.T) {
		store := newSQLiteCacheStore(t)
		big := bytes.Repeat([]byte("x"), 1<<20)
		require.NoError(t, store.Set("big", big, 1, 1))
		value, _, _, err := store.Get("big")
		require.NoError(t, err)
		assert.Len(t, value, 1<<20)
	})

	t.Run("status", func(t *testing.T) {
		store := newSQLiteCacheStore(t)
		status, err := store.GetStatus()
		require.NoError(t, err)
		assert.True(t, status.Connected)
		assert.Equal(t, "sqlite", status.Backend)
		assert.Zero(t, status.TotalEntries)

		require.NoError(t, store.Set("a", []byte("1"), 1, 1000))
		require.NoError(t, store.Set("b", []byte("2"), 1, 2000))

		status, err = store.GetStatus()
		require.NoError(t, err)
		assert.Equal(t, 2, status.TotalEntries)
		assert.Equal(t, time.Unix(2000, 0), status.LastEntryTime)
		assert.Equal(t, time.Unix(1000, 0), status.OldestEntryTime)
		assert.Positive(t, status.TableSizeBytes)
	})

	t.Run("reopen keeps data", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "cache.db")
		store, err := NewCacheStore(blameTable, schema.SQLiteBackend, path)
		require.NoError(t, err)
		require.NoError(t, store.Set("k", []byte("v"), 1, 1))
		require.NoError(t, store.Close())

		store, err = NewCacheStore(blameTable, schema.SQLiteBackend, path)
		require.NoError(t, err)
		defer func() { _ = store.Close() }()
		value, _, _, err := store.Get("k")
		require.NoError(t, err)
		assert.Equal(t, []byte("v"), value)
	})
}

func TestCacheStoreNone(t *testing.T) {
	store, err := NewCacheStore("test_table", schema.NoneBackend, "")
	require.NoError(t, err)

	_, _, _, err = store.Get("k")
	assert.Error(t, err)
	assert.NoError(t, store.Set("k", []byte("v"), 1, 1))
	_, _, _, err = store.Get("k")
	assert.Error(t, err, "none backend never stores")

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, "none", status.Backend)
	assert.False(t, status.Connected)
	assert.NoError(t, store.Close())
}

func TestCacheStoreInvalidTable(t *testing.T) {
	_, err := NewCacheStore("bad name", schema.SQLiteBackend, "")
	assert.ErrorContains(t, err, "invalid table name")
}

func TestCreateTableQuery(t *testing.T) {
	assert.Contains(t, getCreateTableQuery("t", schema.MySQLBackend), "BLOB")
	assert.Contains(t, getCreateTableQuery("t", schema.PostgreSQLBackend), "BYTEA")
	assert.Contains(t, getCreateTableQuery("t", schema.SQLiteBackend), "INTEGER NOT NULL")
}
