package cmd

import (
	"github.com/huangsam/clearance/core"
	"github.com/huangsam/clearance/internal/contract"
	"github.com/spf13/cobra"
)

// runEventCommand records an add or remove event for an item and license.
func runEventCommand(remove bool) func(*cobra.Command, []string) {
	return func(_ *cobra.Command, args []string) {
		itemID, err := contract.ParseItemID(args[0])
		if err != nil {
			contract.LogFatal("Invalid item", err)
		}
		if err := core.ExecuteEvent(rootCtx, cfg, storeManager, itemID, args[1], remove); err != nil {
			contract.LogFatal("Cannot record license event", err)
		}
	}
}

// eventCmd groups the manual license event commands.
var eventCmd = &cobra.Command{
	Use:   "event",
	Short: "Add or remove a license on an item by hand",
	Long: `Record human license events on an upload tree item.

Subcommands:
  add    - Conclude a license for the item
  remove - Reject a license for the item

Examples:
  clearance event add 42 MIT
  clearance event remove 42 GPL-2.0 --global no`,
}

// eventAddCmd records a license addition.
var eventAddCmd = &cobra.Command{
	Use:     "add <item-id> <license>",
	Short:   "Conclude a license for an item",
	Args:    cobra.ExactArgs(2),
	PreRunE: sharedSetupWrapper,
	Run:     runEventCommand(false),
}

// eventRemoveCmd records a license removal.
var eventRemoveCmd = &cobra.Command{
	Use:     "remove <item-id> <license>",
	Short:   "Reject a license for an item",
	Args:    cobra.ExactArgs(2),
	PreRunE: sharedSetupWrapper,
	Run:     runEventCommand(true),
}
