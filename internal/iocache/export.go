package iocache

import (
	"errors"
	"fmt"
	"io"

	"github.com/huangsam/blameshare/internal/contract"
	"github.com/huangsam/blameshare/internal/parquet"
)

// ExportHistory writes the report runs and author shares of a history store
// to two Parquet files named after outputPrefix, and reports progress to w.
func ExportHistory(w io.Writer, store contract.HistoryStore, outputPrefix string) error {
	if outputPrefix == "" {
		return errors.New("an output file prefix is required for export")
	}
	if store == nil {
		return errors.New("history store is not configured. Set --history-backend")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get history status: %w", err)
	}
	if status.TotalRuns == 0 {
		return errors.New("no report history found to export")
	}

	_, _ = fmt.Fprintf(w, "Exporting data from %s backend...\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Total report runs: %d\n", status.TotalRuns)
	_, _ = fmt.Fprintf(w, "Total author shares: %d\n", status.TableSizes[authorSharesTable])

	runs, err := store.GetAllRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve report runs: %w", err)
	}
	shares, err := store.GetAllAuthorShares()
	if err != nil {
		return fmt.Errorf("failed to retrieve author shares: %w", err)
	}

	runsFile := outputPrefix + ".report_runs.parquet"
	parquetRuns := parquet.ConvertReportRunRecords(runs)
	if err := parquet.WriteFile(parquetRuns, runsFile); err != nil {
		return fmt.Errorf("failed to write report runs: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d report runs to: %s\n", len(parquetRuns), runsFile)

	sharesFile := outputPrefix + ".author_shares.parquet"
	parquetShares := parquet.ConvertAuthorShareRecords(shares)
	if err := parquet.WriteFile(parquetShares, sharesFile); err != nil {
		return fmt.Errorf("failed to write author shares: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d author shares to: %s\n", len(parquetShares), sharesFile)

	return nil
}
