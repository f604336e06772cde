package cmd

import (
	"github.com/huangsam/clearance/core"
	"github.com/huangsam/clearance/internal/contract"
	"github.com/spf13/cobra"
)

// runItemCommand parses the item argument and hands it to an executor.
func runItemCommand(executor core.ExecutorFunc, failure string) func(*cobra.Command, []string) {
	return func(_ *cobra.Command, args []string) {
		itemID, err := contract.ParseItemID(args[0])
		if err != nil {
			contract.LogFatal("Invalid item", err)
		}
		if err := executor(rootCtx, cfg, storeManager, itemID); err != nil {
			contract.LogFatal(failure, err)
		}
	}
}

// decisionsCmd shows the current license decisions of an item.
var decisionsCmd = &cobra.Command{
	Use:   "decisions <item-id>",
	Short: "Show the current license decisions of an upload tree item.",
	Long: `Merge the latest scanner findings with the human license events of an item.

For every license the output shows whether it was detected by an agent,
added manually, confirmed by both, or removed by a human event. Findings of
every file below a directory item are folded into the directory.

Examples:
  # Show decisions for item 42 as the default user
  clearance decisions 42

  # Show decisions as user 7 and export them to CSV
  clearance decisions 42 --user 7 --output csv --output-file decisions.csv`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run:     runItemCommand(core.ExecuteDecisions, "Cannot load decisions"),
}

// decideCmd records a clearing decision snapshot.
var decideCmd = &cobra.Command{
	Use:   "decide <item-id>",
	Short: "Record a clearing decision from the latest events of an item.",
	Long: `Snapshot the current license decisions of an item into a clearing decision.

Nothing is recorded when the type is not actionable or when no license event
changed since the last clearing decision. The no-license-known type removes
every added license before the snapshot is written.

Examples:
  # Mark item 42 as identified for every upload
  clearance decide 42

  # Record a local irrelevant decision
  clearance decide 42 --type irrelevant --global no`,
	Args:    cobra.ExactArgs(1),
	PreRunE: summarySetupWrapper,
	Run:     runItemCommand(core.ExecuteDecide, "Cannot record decision"),
}

// historyCmd shows the decision events of an item.
var historyCmd = &cobra.Command{
	Use:   "history <item-id>",
	Short: "Show the license events and last clearing decision of an item.",
	Long: `List every human license event visible for an item in chronological order,
followed by the last clearing decision recorded for it.

Examples:
  clearance history 42
  clearance history 42 --output json`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run:     runItemCommand(core.ExecuteHistory, "Cannot load history"),
}
