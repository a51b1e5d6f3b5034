package iocache

import (
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/mysql"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/huangsam/blameshare/schema"
)

//go:embed migrations/*/*.sql
var migrationsFS embed.FS

// migrationsTable keeps golang-migrate bookkeeping apart from other tools sharing the database.
const migrationsTable = "blameshare_schema_migrations"

// MigrationResult describes what a migration run did.
type MigrationResult struct {
	FromVersion uint
	ToVersion   uint
	Changed     bool
}

// MigrateHistory runs database migrations for the history store and reports the outcome to w.
// - If targetVersion < 0, it migrates to the latest version.
// - If targetVersion == 0, it rolls back all migrations (to initial state).
// - If targetVersion > 0, it migrates to the specified version.
func MigrateHistory(w io.Writer, backend schema.DatabaseBackend, connStr string, targetVersion int) error {
	result, err := migrateHistory(backend, connStr, targetVersion)
	if err != nil {
		return err
	}
	if !result.Changed {
		_, _ = fmt.Fprintf(w, "No migration needed. Database is already at version %d\n", result.ToVersion)
		return nil
	}
	_, _ = fmt.Fprintf(w, "Successfully migrated from version %d to version %d\n", result.FromVersion, result.ToVersion)
	return nil
}

// migrateHistory applies the embedded migrations for a backend on a dedicated connection.
func migrateHistory(backend schema.DatabaseBackend, connStr string, targetVersion int) (MigrationResult, error) {
	var result MigrationResult
	if backend == schema.NoneBackend {
		return result, errors.New("migrations are not supported for the none backend")
	}

	if backend == schema.MySQLBackend {
		// migration files hold several statements each
		var err error
		if connStr, err = enableMultiStatements(connStr); err != nil {
			return result, err
		}
	}

	db, err := openDatabase(backend, connStr, GetHistoryDBFilePath())
	if err != nil {
		return result, err
	}
	defer func() { _ = db.Close() }()

	var driver database.Driver
	var sourceDir string
	switch backend {
	case schema.SQLiteBackend:
		sourceDir = "migrations/sqlite"
		driver, err = sqlite.WithInstance(db, &sqlite.Config{MigrationsTable: migrationsTable})
	case schema.MySQLBackend:
		sourceDir = "migrations/mysql"
		driver, err = mysql.WithInstance(db, &mysql.Config{MigrationsTable: migrationsTable})
	case schema.PostgreSQLBackend:
		sourceDir = "migrations/postgres"
		driver, err = postgres.WithInstance(db, &postgres.Config{MigrationsTable: migrationsTable, MultiStatementEnabled: true})
	default:
		return result, fmt.Errorf("unsupported backend: %s", backend)
	}
	if err != nil {
		return result, fmt.Errorf("failed to create %s migrate driver: %w", backend, err)
	}

	migrationFS, err := fs.Sub(migrationsFS, sourceDir)
	if err != nil {
		return result, fmt.Errorf("failed to access migrations directory: %w", err)
	}
	sourceDriver, err := iofs.New(migrationFS, ".")
	if err != nil {
		return result, fmt.Errorf("failed to create migration source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "blameshare", driver)
	if err != nil {
		return result, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer func() { _, _ = m.Close() }()

	currentVersion, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return result, fmt.Errorf("failed to get current migration version: %w", err)
	}
	if dirty {
		return result, fmt.Errorf("database is in a dirty state at version %d. Please fix manually or force version", currentVersion)
	}
	result.FromVersion = currentVersion

	switch {
	case targetVersion < 0:
		err = m.Up()
	case targetVersion == 0:
		err = m.Down()
	default:
		err = m.Migrate(uint(targetVersion))
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return result, fmt.Errorf("failed to migrate history store: %w", err)
	}
	result.Changed = err == nil

	newVersion, _, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return result, fmt.Errorf("failed to read migrated version: %w", err)
	}
	result.ToVersion = newVersion
	return result, nil
}

// enableMultiStatements returns a MySQL DSN that allows multi-statement queries.
func enableMultiStatements(dsn string) (string, error) {
	cfg, err := mysqldriver.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("invalid mysql connection string: %w", err)
	}
	cfg.MultiStatements = true
	return cfg.FormatDSN(), nil
}
