package cmd

import (
	"fmt"

	"github.com/huangsam/clearance/internal/contract"
	"github.com/huangsam/clearance/internal/dao"
	"github.com/huangsam/clearance/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// dbConfigSetup loads the minimal configuration needed for store maintenance.
// It validates the backend settings without opening the store.
func dbConfigSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	backend := schema.DatabaseBackend(viper.GetString("db-backend"))
	connStr := viper.GetString("db-connect")
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return fmt.Errorf("invalid db backend '%s'. must be sqlite, mysql, postgresql", backend)
	}
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	cfg.Backend = backend
	cfg.DBConnect = connStr
	cfg.OutputFile = viper.GetString("output-file")
	return nil
}

// dbSetup loads the minimal configuration and opens the store.
func dbSetup() error {
	if err := dbConfigSetup(); err != nil {
		return err
	}
	if err := dao.InitStore(cfg.Backend, cfg.DBConnect); err != nil {
		return fmt.Errorf("failed to initialize store: %w", err)
	}
	return nil
}

// dbConfigSetupWrapper wraps dbConfigSetup to provide PreRunE for db commands.
func dbConfigSetupWrapper(_ *cobra.Command, _ []string) error {
	return dbConfigSetup()
}

// dbSetupWrapper wraps dbSetup to provide PreRunE for db commands.
func dbSetupWrapper(_ *cobra.Command, _ []string) error {
	return dbSetup()
}

// dbCmd focused on store management.
//
// Note: db subcommands use minimal initialization instead of the full sharedSetup
// used by decision commands. User and decision flags are irrelevant here.
var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Manage the clearing store",
	Long: `Manage the store holding licenses, agent findings, events and clearing decisions.

Supported backends: SQLite (default), MySQL, PostgreSQL

Subcommands:
  status  - Show store statistics and connection info
  clear   - Remove all stored data
  migrate - Run schema migrations
  export  - Write decisions and events to Parquet files

Examples:
  clearance db status
  clearance db export --output-file clearing`,
}

// dbStatusCmd shows store status.
var dbStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display store statistics and connection details",
	Long: `Show detailed information about the clearing store.

Displays:
- Backend type and connection status
- Schema version
- Row counts per table
- Timestamps of the latest event and clearing decision

Examples:
  clearance db status`,
	PreRunE: dbSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := storeManager.GetClearingStore().GetStatus(rootCtx)
		if err != nil {
			contract.LogFatal("Failed to get store status", err)
		}
		dao.PrintStoreStatus(status)
	},
}

// dbClearCmd clears the store.
var dbClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all stored clearing data",
	Long: `Delete every license, finding, event and decision from the configured backend.

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Drops the clearing tables and the migration table

Examples:
  # Clear SQLite store (default)
  clearance db clear

  # Clear MySQL store (set connection string via env variable)
  CLEARANCE_DB_BACKEND=mysql CLEARANCE_DB_CONNECT="..." clearance db clear`,
	PreRunE: dbConfigSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := dao.ClearStore(cfg.Backend, dao.GetDBFilePath(), cfg.DBConnect); err != nil {
			contract.LogFatal("Failed to clear store", err)
		}
		fmt.Println("Store cleared successfully.")
	},
}

// dbMigrateCmd runs schema migrations.
var dbMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage schema versions of the clearing store.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  clearance db migrate

  # Migrate to specific version
  clearance db migrate --target-version 1

  # Rollback to initial state
  clearance db migrate --target-version 0`,
	PreRunE: dbConfigSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := dao.Migrate(cfg.Backend, cfg.DBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}

// dbExportCmd exports the store to Parquet files.
var dbExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export clearing decisions and events to Parquet files",
	Long: `Write every clearing decision and license event to Parquet files.

The --output-file value is used as a prefix:
  <prefix>.clearing_decisions.parquet
  <prefix>.decision_events.parquet

Examples:
  clearance db export --output-file clearing`,
	PreRunE: dbSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := dao.ExecuteExport(rootCtx, storeManager.GetClearingStore(), cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export store", err)
		}
	},
}
