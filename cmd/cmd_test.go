package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/huangsam/clearance/core"
	"github.com/huangsam/clearance/internal/contract"
	"github.com/huangsam/clearance/internal/dao"
	"github.com/huangsam/clearance/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCommandTree(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"decisions", "decide", "history", "event", "import", "db", "mcp", "version"} {
		assert.True(t, names[want], "missing command %s", want)
	}

	var dbNames []string
	for _, c := range dbCmd.Commands() {
		dbNames = append(dbNames, c.Name())
	}
	assert.ElementsMatch(t, []string{"status", "clear", "migrate", "export"}, dbNames)
	assert.Len(t, eventCmd.Commands(), 2)
}

func TestPersistentFlagsBound(t *testing.T) {
	for _, name := range []string{"user", "output", "output-file", "width", "db-backend", "db-connect", "emoji", "color", "global", "config"} {
		assert.NotNil(t, rootCmd.PersistentFlags().Lookup(name), "missing flag %s", name)
	}
	assert.NotNil(t, decideCmd.Flags().Lookup("type"))
	assert.NotNil(t, dbMigrateCmd.Flags().Lookup("target-version"))
}

func TestDBConfigSetup(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Cleanup(viper.Reset)

	t.Run("sqlite defaults", func(t *testing.T) {
		viper.Set("db-backend", "sqlite")
		viper.Set("db-connect", "")
		viper.Set("output-file", "clearing")
		require.NoError(t, dbConfigSetup())
		assert.Equal(t, "sqlite", string(cfg.Backend))
		assert.Equal(t, "clearing", cfg.OutputFile)
	})

	t.Run("unknown backend", func(t *testing.T) {
		viper.Set("db-backend", "oracle")
		err := dbConfigSetup()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid db backend")
	})

	t.Run("mysql without connection", func(t *testing.T) {
		viper.Set("db-backend", "mysql")
		viper.Set("db-connect", "")
		err := dbConfigSetup()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "db-connect is required")
	})
}

func TestSummaryCommandsRejectCSV(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Set("output", "CSV")

	for _, c := range []*cobra.Command{decideCmd, importCmd} {
		err := c.PreRunE(c, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "csv output is not supported by '"+c.Name()+"'")
	}
	assert.Contains(t, rootCmd.PersistentFlags().Lookup("output").Usage, "csv applies to decisions and history")
}

func TestLoadConfigFileInvalid(t *testing.T) {
	t.Cleanup(viper.Reset)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("user: [unterminated"), 0o644))
	viper.Set("config", path)

	err := loadConfigFile()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestItemCommandUsesStoreManager(t *testing.T) {
	store := &dao.MockClearingStore{}
	mgr := &dao.MockStoreManager{}
	mgr.On("GetClearingStore").Return(store)
	store.On("GetItemTreeBounds", mock.Anything, int64(42)).
		Return(schema.ItemTreeBounds{ItemID: 42, UploadID: 3, Left: 1, Right: 2}, nil)
	store.On("GetRelevantLicenseDecisionEvents", mock.Anything, int64(7), int64(42)).
		Return([]schema.LicenseDecisionEvent{}, nil)
	store.On("GetRelevantClearingDecision", mock.Anything, int64(7), int64(42)).
		Return(nil, nil)

	previousMgr, previousCfg := storeManager, cfg
	SetStoreManager(mgr)
	t.Cleanup(func() {
		SetStoreManager(previousMgr)
		cfg = previousCfg
	})

	outputFile := filepath.Join(t.TempDir(), "history.json")
	cfg = &contract.Config{UserID: 7, Output: schema.JSONOut, OutputFile: outputFile, Backend: schema.SQLiteBackend}

	runItemCommand(core.ExecuteHistory, "Cannot load history")(historyCmd, []string{"42"})

	content, err := os.ReadFile(outputFile)
	require.NoError(t, err)
	assert.Contains(t, string(content), `"item_id": 42`)
	assert.Contains(t, string(content), `"user_id": 7`)
	mgr.AssertExpectations(t)
	store.AssertExpectations(t)
}
