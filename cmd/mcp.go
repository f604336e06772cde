package cmd

import (
	"github.com/huangsam/clearance/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the Clearance MCP server",
	Long:  `Launch an MCP server that allows AI agents to inspect and record license decisions via standard tools.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		// Nothing may be printed here since stdio carries the protocol.
		return sharedSetup(rootCtx, cmd, args)
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, storeManager)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
