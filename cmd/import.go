package cmd

import (
	"github.com/huangsam/clearance/core"
	"github.com/huangsam/clearance/internal/contract"
	"github.com/huangsam/clearance/internal/dao"
	"github.com/spf13/cobra"
)

// importCmd loads an upload description into the store.
var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Load an upload tree with agent findings from a YAML file.",
	Long: `Import an upload description into the configured store.

The YAML document names the upload, its item tree, the licenses it refers to,
the scanner runs with their findings and optional human license events.
Everything is written in one transaction; existing licenses and runs are reused.

Examples:
  clearance import upload.yaml
  CLEARANCE_DB_BACKEND=postgresql CLEARANCE_DB_CONNECT="..." clearance import upload.yaml`,
	Args:    cobra.ExactArgs(1),
	PreRunE: summarySetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		doc, err := dao.LoadImportDocument(args[0])
		if err != nil {
			contract.LogFatal("Cannot read import file", err)
		}
		if err := core.ExecuteImport(rootCtx, cfg, storeManager, doc); err != nil {
			contract.LogFatal("Cannot import upload", err)
		}
	},
}
