package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/huangsam/blameshare/internal/contract"
	"github.com/huangsam/blameshare/internal/iocache"
	"github.com/huangsam/blameshare/schema"
)

// historyBackendFromConfig reads the history backend settings. An empty backend means none.
func historyBackendFromConfig() (schema.DatabaseBackend, string, error) {
	if err := loadConfigFile(); err != nil {
		return "", "", err
	}

	backend := schema.DatabaseBackend(viper.GetString("history-backend"))
	if backend == "" {
		backend = schema.NoneBackend
	}
	connStr := viper.GetString("history-db-connect")

	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return "", "", err
	}
	return backend, connStr, nil
}

// historySetup loads minimal configuration needed for history operations.
func historySetup() error {
	backend, connStr, err := historyBackendFromConfig()
	if err != nil {
		return err
	}

	// No blame caching for history commands
	if err := iocache.InitStores(schema.NoneBackend, "", backend, connStr); err != nil {
		return fmt.Errorf("failed to initialize history: %w", err)
	}

	cfg.HistoryBackend = backend
	cfg.HistoryDBConnect = connStr
	return nil
}

// historySetupWrapper wraps historySetup to provide PreRunE for history commands.
func historySetupWrapper(_ *cobra.Command, _ []string) error {
	return historySetup()
}

// historyMigrateSetupWrapper loads configuration for migrations without opening the store,
// so migrations can run against a fresh or downgraded database.
func historyMigrateSetupWrapper(_ *cobra.Command, _ []string) error {
	backend, connStr, err := historyBackendFromConfig()
	if err != nil {
		return err
	}
	cfg.HistoryBackend = backend
	cfg.HistoryDBConnect = connStr
	return nil
}

// historyCmd focused on report history management.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage recorded report history and exports",
	Long: `Manage the history of past reports used for ownership trend tracking.

When --history-backend is set, every report run is recorded with:
- Run metadata (repository, commit, timestamps, configuration, duration)
- Every author row with its line count and share

Supported backends: SQLite, MySQL, PostgreSQL, or None (disabled, default)

Subcommands:
  status  - Show history statistics
  export  - Export data to Parquet for analytics
  clear   - Remove all history
  migrate - Run database schema migrations

Examples:
  # Check history status
  blameshare history status --history-backend sqlite

  # Export for analysis in pandas/DuckDB
  blameshare history export shares --history-backend sqlite`,
}

// historyClearCmd clears the history data.
var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all recorded report history",
	Long: `Delete all stored report runs and author shares.

WARNING: This action cannot be undone. Consider exporting data first.

Examples:
  # Export before clearing
  blameshare history export backup --history-backend sqlite
  blameshare history clear --history-backend sqlite`,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		iocache.CloseStores()
		dbFile := sqliteFilePath(cfg.HistoryDBConnect, contract.GetHistoryDBFilePath())
		if err := iocache.ClearHistory(cfg.HistoryBackend, dbFile, cfg.HistoryDBConnect); err != nil {
			contract.LogFatal("Failed to clear history", err)
		}
		fmt.Println("Report history cleared successfully.")
	},
}

// historyStatusCmd shows history status.
var historyStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display report history statistics and connection details",
	Long: `Show detailed information about recorded report history.

Displays:
- Backend type and connection status
- Total number of report runs stored
- Last and oldest run timestamps
- Total files blamed across all runs
- Database table sizes

Examples:
  blameshare history status --history-backend sqlite`,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := iocache.Manager.GetHistoryStore().GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get history status", err)
		}
		iocache.PrintHistoryStatus(os.Stdout, status)
	},
}

// historyExportCmd exports history data to Parquet files.
var historyExportCmd = &cobra.Command{
	Use:   "export <output-prefix>",
	Short: "Export report history to Parquet for BI tools and analytics",
	Long: `Export all stored report history to Parquet format.

Writes two files:
- <output-prefix>.report_runs.parquet   - metadata about each report run
- <output-prefix>.author_shares.parquet - every author row of every run

Examples:
  blameshare history export shares --history-backend sqlite
  duckdb -c "SELECT author, AVG(percent) FROM read_parquet('shares.author_shares.parquet') GROUP BY author"`,
	Args:    cobra.ExactArgs(1),
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		if err := iocache.ExportHistory(os.Stdout, iocache.Manager.GetHistoryStore(), args[0]); err != nil {
			contract.LogFatal("Failed to export history", err)
		}
	},
}

// historyMigrateCmd runs database migrations for the history store.
var historyMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the report history store.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  blameshare history migrate --history-backend sqlite

  # Rollback to initial state
  blameshare history migrate --history-backend sqlite --target-version 0`,
	PreRunE: historyMigrateSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := iocache.MigrateHistory(os.Stdout, cfg.HistoryBackend, cfg.HistoryDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
