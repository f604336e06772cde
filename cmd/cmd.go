// Package cmd has the command-line interface for clearance.
package cmd

import (
	"github.com/huangsam/clearance/internal/contract"
	"github.com/huangsam/clearance/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Initialize Viper and configuration
	cobra.OnInitialize(initConfig)

	// Add all commands to the root command
	rootCmd.AddCommand(decisionsCmd)
	rootCmd.AddCommand(decideCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(eventCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(dbCmd)
	rootCmd.AddCommand(versionCmd)
	eventCmd.AddCommand(eventAddCmd)
	eventCmd.AddCommand(eventRemoveCmd)
	dbCmd.AddCommand(dbStatusCmd)
	dbCmd.AddCommand(dbClearCmd)
	dbCmd.AddCommand(dbMigrateCmd)
	dbCmd.AddCommand(dbExportCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().Int64P("user", "u", contract.DefaultUserID, "User id that owns events and decisions")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json (csv applies to decisions and history)")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("db-backend", string(schema.SQLiteBackend), "Store backend: sqlite or mysql or postgresql")
	rootCmd.PersistentFlags().String("db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("emoji", "no", "Enable emojis in section titles (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("global", "yes", "Apply events and decisions to every upload containing the item (yes/no)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of decideCmd to Viper
	decideCmd.Flags().StringP("type", "t", contract.DefaultDecisionType.String(), "Decision type: identified, no-license-known, to-be-discussed, irrelevant, to-be-determined")
	if err := viper.BindPFlags(decideCmd.Flags()); err != nil {
		contract.LogFatal("Error binding decide flags", err)
	}

	// Bind all flags of dbMigrateCmd to Viper
	dbMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(dbMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding db migrate flags", err)
	}
}
