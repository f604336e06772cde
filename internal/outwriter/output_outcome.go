package outwriter

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/huangsam/clearance/internal/contract"
	"github.com/huangsam/clearance/schema"
)

// PrintDecisionOutcome outputs what a decide run did.
func PrintDecisionOutcome(outcome schema.DecisionOutcome, cfg *contract.Config, duration time.Duration) error {
	if cfg.Output == schema.JSONOut {
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, outcome)
		}, "Wrote JSON")
	}
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return WriteDecisionOutcome(w, outcome, cfg, duration)
	}, "Wrote summary")
}

// WriteDecisionOutcome writes a short human-readable summary of a decide run.
func WriteDecisionOutcome(w io.Writer, outcome schema.DecisionOutcome, cfg *contract.Config, duration time.Duration) error {
	if !outcome.Type.IsActionable() {
		_, err := fmt.Fprintf(w, "Decision type %s is not actionable, nothing recorded for item %d\n", outcome.Type, outcome.ItemID)
		return err
	}
	if !outcome.Inserted {
		_, err := fmt.Fprintf(w, "No changes since the last clearing decision for item %d\n", outcome.ItemID)
		return err
	}

	lines := []string{
		sectionTitle("✅", fmt.Sprintf("Recorded %s clearing decision for item %d (%s, user %d)",
			outcome.Type, outcome.ItemID, formatScope(outcome.IsGlobal), outcome.UserID), cfg),
		"  Added:   " + formatNames(outcome.Added),
		"  Removed: " + formatNames(outcome.Removed),
		fmt.Sprintf("Completed in %v. Store backend: %s", duration, cfg.Backend),
	}
	_, err := fmt.Fprintln(w, strings.Join(lines, "\n"))
	return err
}

// PrintImportSummary outputs the counts of an import run.
func PrintImportSummary(summary schema.ImportSummary, cfg *contract.Config, duration time.Duration) error {
	if cfg.Output == schema.JSONOut {
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, summary)
		}, "Wrote JSON")
	}
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		_, err := fmt.Fprintf(w, "%s\n  Items: %d\n  Licenses: %d\n  Agent runs: %d\n  Matches: %d\n  Events: %d\nCompleted in %v. Store backend: %s\n",
			sectionTitle("📦", fmt.Sprintf("Imported upload %d", summary.UploadID), cfg),
			summary.Items, summary.Licenses, summary.Runs, summary.Matches, summary.Events,
			duration, cfg.Backend)
		return err
	}, "Wrote summary")
}

// formatNames joins license short names, or "-" when empty.
func formatNames(names []string) string {
	if len(names) == 0 {
		return "-"
	}
	return strings.Join(names, ", ")
}
