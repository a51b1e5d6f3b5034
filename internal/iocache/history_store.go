package iocache

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/huangsam/blameshare/internal/contract"
	"github.com/huangsam/blameshare/schema"
)

// Table names for report history.
const (
	reportRunsTable   = "blameshare_report_runs"
	authorSharesTable = "blameshare_author_shares"
)

// HistoryTables lists every table owned by the history store.
var HistoryTables = []string{reportRunsTable, authorSharesTable}

// HistoryStoreImpl implements the HistoryStore interface.
type HistoryStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.HistoryStore = &HistoryStoreImpl{} // Compile-time check

// NewHistoryStore creates a new HistoryStore with the specified backend.
// The schema is brought to the latest migration before the store is returned.
func NewHistoryStore(backend schema.DatabaseBackend, connStr string) (contract.HistoryStore, error) {
	if backend == schema.NoneBackend {
		// No-op store for disabled tracking
		return &HistoryStoreImpl{backend: backend}, nil
	}

	if _, err := migrateHistory(backend, connStr, -1); err != nil {
		return nil, fmt.Errorf("history store: %w", err)
	}

	db, err := openDatabase(backend, connStr, GetHistoryDBFilePath())
	if err != nil {
		return nil, fmt.Errorf("history store: %w", err)
	}
	return &HistoryStoreImpl{db: db, backend: backend}, nil
}

func (hs *HistoryStoreImpl) disabled() bool {
	return hs.backend == schema.NoneBackend || hs.db == nil
}

// BeginRun creates a new report run and returns its unique ID.
func (hs *HistoryStoreImpl) BeginRun(repoPath, commitHash string, startTime time.Time, configParams map[string]any) (int64, error) {
	if hs.disabled() {
		return 0, nil
	}

	configJSON, err := json.Marshal(configParams)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal config params: %w", err)
	}

	quotedTableName := quoteTableName(reportRunsTable, hs.backend)
	args := []any{repoPath, commitHash, formatTime(startTime, hs.backend), string(configJSON)}

	var runID int64
	switch hs.backend {
	case schema.PostgreSQLBackend:
		query := fmt.Sprintf(`INSERT INTO %s (repo_path, commit_hash, start_time, config_params) VALUES ($1, $2, $3, $4) RETURNING run_id`, quotedTableName)
		err = hs.db.QueryRow(query, args...).Scan(&runID)
	default: // SQLite and MySQL
		query := fmt.Sprintf(`INSERT INTO %s (repo_path, commit_hash, start_time, config_params) VALUES (?, ?, ?, ?)`, quotedTableName)
		var result sql.Result
		result, err = hs.db.Exec(query, args...)
		if err == nil {
			runID, err = result.LastInsertId()
		}
	}
	if err != nil {
		return 0, fmt.Errorf("failed to insert report run: %w", err)
	}
	return runID, nil
}

// EndRun updates the report run with completion data.
func (hs *HistoryStoreImpl) EndRun(runID int64, endTime time.Time, totalFiles int, totalLines int) error {
	if hs.disabled() {
		return nil
	}

	quotedTableName := quoteTableName(reportRunsTable, hs.backend)
	query := fmt.Sprintf(`SELECT start_time FROM %s WHERE run_id = %s`, quotedTableName, placeholder(hs.backend, 1))
	startTime, err := hs.scanTime(hs.db.QueryRow(query, runID))
	if err != nil {
		return fmt.Errorf("failed to get start_time for run %d: %w", runID, err)
	}

	durationMs := endTime.Sub(startTime).Milliseconds()
	updateQuery := fmt.Sprintf(`UPDATE %s SET end_time = %s, run_duration_ms = %s, total_files = %s, total_lines = %s WHERE run_id = %s`,
		quotedTableName,
		placeholder(hs.backend, 1), placeholder(hs.backend, 2), placeholder(hs.backend, 3),
		placeholder(hs.backend, 4), placeholder(hs.backend, 5))
	if _, err := hs.db.Exec(updateQuery, formatTime(endTime, hs.backend), durationMs, totalFiles, totalLines, runID); err != nil {
		return fmt.Errorf("failed to update report run: %w", err)
	}
	return nil
}

// RecordAuthorShares stores every row of a finished report in one transaction.
func (hs *HistoryStoreImpl) RecordAuthorShares(runID int64, rows []schema.ReportRow) error {
	if hs.disabled() {
		return nil
	}

	query := fmt.Sprintf(`INSERT INTO %s (run_id, author, line_count, share_percent) VALUES (%s, %s, %s, %s)`,
		quoteTableName(authorSharesTable, hs.backend),
		placeholder(hs.backend, 1), placeholder(hs.backend, 2), placeholder(hs.backend, 3), placeholder(hs.backend, 4))

	tx, err := hs.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	stmt, err := tx.Prepare(query)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to prepare author share insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, row := range rows {
		if _, err := stmt.Exec(runID, string(row.Author), int64(row.Lines), row.PercentValue()); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to insert author share for %s: %w", row.Author, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit author shares: %w", err)
	}
	return nil
}

// Close closes the underlying connection.
func (hs *HistoryStoreImpl) Close() error {
	if hs.db != nil {
		return hs.db.Close()
	}
	return nil
}

// GetStatus returns status information about the history store.
func (hs *HistoryStoreImpl) GetStatus() (schema.HistoryStatus, error) {
	status := schema.HistoryStatus{
		Backend:    string(hs.backend),
		Connected:  hs.db != nil,
		TableSizes: make(map[string]int64),
	}
	if hs.disabled() {
		return status, nil
	}

	runsTable := quoteTableName(reportRunsTable, hs.backend)
	if err := hs.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", runsTable)).Scan(&status.TotalRuns); err != nil {
		return status, fmt.Errorf("failed to get total runs: %w", err)
	}

	if status.TotalRuns > 0 {
		row := hs.db.QueryRow(fmt.Sprintf("SELECT run_id FROM %s ORDER BY run_id DESC LIMIT 1", runsTable))
		if err := row.Scan(&status.LastRunID); err != nil {
			return status, fmt.Errorf("failed to get last run id: %w", err)
		}

		lastRunTime, err := hs.scanTime(hs.db.QueryRow(fmt.Sprintf("SELECT start_time FROM %s ORDER BY run_id DESC LIMIT 1", runsTable)))
		if err != nil {
			return status, fmt.Errorf("failed to get last run time: %w", err)
		}
		status.LastRunTime = lastRunTime

		oldestRunTime, err := hs.scanTime(hs.db.QueryRow(fmt.Sprintf("SELECT start_time FROM %s ORDER BY run_id ASC LIMIT 1", runsTable)))
		if err != nil {
			return status, fmt.Errorf("failed to get oldest run time: %w", err)
		}
		status.OldestRunTime = oldestRunTime

		filesQuery := fmt.Sprintf("SELECT COALESCE(SUM(total_files), 0) FROM %s", runsTable)
		if err := hs.db.QueryRow(filesQuery).Scan(&status.TotalFiles); err != nil {
			return status, fmt.Errorf("failed to get total files: %w", err)
		}
	}

	for _, table := range HistoryTables {
		var count int64
		query := fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(table, hs.backend))
		if err := hs.db.QueryRow(query).Scan(&count); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}

	return status, nil
}

// GetAllRuns retrieves all report runs from the store.
func (hs *HistoryStoreImpl) GetAllRuns() ([]schema.ReportRunRecord, error) {
	if hs.disabled() {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, repo_path, commit_hash, start_time, end_time, run_duration_ms,
		total_files, total_lines, config_params FROM %s ORDER BY run_id`, quoteTableName(reportRunsTable, hs.backend))
	rows, err := hs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query report runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.ReportRunRecord
	for rows.Next() {
		var record schema.ReportRunRecord

		switch hs.backend {
		case schema.SQLiteBackend:
			var startTimeStr string
			var endTimeStr *string
			if err := rows.Scan(&record.RunID, &record.RepoPath, &record.CommitHash, &startTimeStr, &endTimeStr,
				&record.RunDurationMs, &record.TotalFiles, &record.TotalLines, &record.ConfigParams); err != nil {
				return nil, fmt.Errorf("failed to scan report run: %w", err)
			}
			startTime, err := time.Parse(time.RFC3339Nano, startTimeStr)
			if err != nil {
				return nil, fmt.Errorf("failed to parse start_time: %w", err)
			}
			record.StartTime = startTime
			if endTimeStr != nil {
				endTime, err := time.Parse(time.RFC3339Nano, *endTimeStr)
				if err != nil {
					return nil, fmt.Errorf("failed to parse end_time: %w", err)
				}
				record.EndTime = &endTime
			}
		default: // MySQL and PostgreSQL store native datetimes
			if err := rows.Scan(&record.RunID, &record.RepoPath, &record.CommitHash, &record.StartTime, &record.EndTime,
				&record.RunDurationMs, &record.TotalFiles, &record.TotalLines, &record.ConfigParams); err != nil {
				return nil, fmt.Errorf("failed to scan report run: %w", err)
			}
		}

		results = append(results, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating report runs: %w", err)
	}
	return results, nil
}

// GetAllAuthorShares retrieves all author shares from the store.
func (hs *HistoryStoreImpl) GetAllAuthorShares() ([]schema.AuthorShareRecord, error) {
	if hs.disabled() {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, author, line_count, share_percent FROM %s ORDER BY run_id, author`,
		quoteTableName(authorSharesTable, hs.backend))
	rows, err := hs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query author shares: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.AuthorShareRecord
	for rows.Next() {
		var record schema.AuthorShareRecord
		if err := rows.Scan(&record.RunID, &record.Author, &record.Lines, &record.Percent); err != nil {
			return nil, fmt.Errorf("failed to scan author share: %w", err)
		}
		results = append(results, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating author shares: %w", err)
	}
	return results, nil
}

// scanTime reads a single timestamp column, handling the SQLite text representation.
func (hs *HistoryStoreImpl) scanTime(row *sql.Row) (time.Time, error) {
	if hs.backend == schema.SQLiteBackend {
		var s string
		if err := row.Scan(&s); err != nil {
			return time.Time{}, err
		}
		return time.Parse(time.RFC3339Nano, s)
	}
	var t time.Time
	err := row.Scan(&t)
	return t, err
}
