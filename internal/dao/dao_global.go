package dao

import (
	"database/sql"
	"fmt"
	"os"
	"sync"

	"github.com/huangsam/clearance/internal/contract"
	"github.com/huangsam/clearance/schema"
)

// Table names of the clearing store, children before parents.
const (
	clearingDecisionLicensesTable = "clearing_decision_licenses"
	clearingDecisionsTable        = "clearing_decisions"
	decisionEventsTable           = "license_decision_events"
	licenseMatchesTable           = "license_matches"
	agentResultsTable             = "agent_results"
	agentsTable                   = "agents"
	uploadTreeTable               = "upload_tree"
	uploadsTable                  = "uploads"
	licensesTable                 = "licenses"
	migrationsTable               = "schema_migrations"
)

// storeTables lists every table in drop order.
var storeTables = []string{
	clearingDecisionLicensesTable,
	clearingDecisionsTable,
	decisionEventsTable,
	licenseMatchesTable,
	agentResultsTable,
	agentsTable,
	uploadTreeTable,
	uploadsTable,
	licensesTable,
}

// Global Manager instance for main logic.
var (
	Manager   = &ClearingStoreManager{}
	initOnce  sync.Once
	closeOnce sync.Once
)

// GetDBFilePath returns the path to the SQLite DB file for the clearing store.
func GetDBFilePath() string {
	return contract.GetDBFilePath()
}

// InitStore initializes the global manager with a clearing store for the backend.
func InitStore(backend schema.DatabaseBackend, connStr string) error {
	var initErr error

	initOnce.Do(func() {
		store, err := NewClearingStore(backend, connStr)
		if err != nil {
			initErr = fmt.Errorf("failed to initialize clearing store: %w", err)
			return
		}

		Manager.Lock()
		defer Manager.Unlock()
		Manager.store = store
	})

	return initErr
}

// CloseStore should be called on application shutdown.
func CloseStore() { // called in main defer
	closeOnce.Do(func() {
		Manager.Lock()
		defer Manager.Unlock()
		if Manager.store != nil {
			_ = Manager.store.Close()
		}
	})
}

// ClearStore removes all clearing data for the specified backend.
// For SQLite, it deletes the database file.
// For SQL backends (MySQL/PostgreSQL), it drops the store tables and the migration table.
func ClearStore(backend schema.DatabaseBackend, dbFilePath, connStr string) error {
	switch backend {
	case schema.SQLiteBackend:
		if dbFilePath == "" {
			return fmt.Errorf("dbFilePath cannot be empty for SQLite backend")
		}
		// Remove the file; ignore if it doesn't exist
		if err := os.Remove(dbFilePath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove SQLite database file %s: %w", dbFilePath, err)
		}
		return nil

	case schema.MySQLBackend:
		return clearSQLTables("mysql", backend, connStr)

	case schema.PostgreSQLBackend:
		return clearSQLTables("pgx", backend, connStr)

	default:
		return fmt.Errorf("unsupported store backend for clearing: %s", backend)
	}
}

// clearSQLTables connects to the SQL database and drops every store table if it exists.
func clearSQLTables(driverName string, backend schema.DatabaseBackend, connStr string) error {
	db, err := sql.Open(driverName, connStr)
	if err != nil {
		return fmt.Errorf("failed to connect to %s database: %w", driverName, err)
	}
	defer func() { _ = db.Close() }()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping %s database: %w", driverName, err)
	}

	for _, table := range append(storeTables, migrationsTable) {
		query := fmt.Sprintf("DROP TABLE IF EXISTS %s", quoteTableName(table, backend))
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("failed to drop table %s: %w", table, err)
		}
	}

	return nil
}
