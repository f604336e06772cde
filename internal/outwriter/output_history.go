package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/huangsam/clearance/internal/contract"
	"github.com/huangsam/clearance/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintDecisionHistory outputs the decision events of an item, dispatching on the configured format.
func PrintDecisionHistory(history schema.DecisionHistory, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, history)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeHistoryCSV(w, history)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return WriteHistoryTable(w, history, cfg)
		}, "Wrote table")
	}
	return nil
}

// WriteHistoryTable writes the events table followed by the last clearing decision.
func WriteHistoryTable(w io.Writer, history schema.DecisionHistory, cfg *contract.Config) error {
	if _, err := fmt.Fprintln(w, sectionTitle("📜", fmt.Sprintf("Decision history for item %d", history.ItemID), cfg)); err != nil {
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Event", "Date", "License", "Action", "Scope", "Origin", "User", "Comment"})
	table.Configure(func(c *tablewriter.Config) {
		c.Row.Alignment.Global = tw.AlignLeft
	})

	nameWidth := getMaxTableNameWidth(cfg)
	var data [][]string
	for _, ev := range history.Events {
		data = append(data, []string{
			strconv.FormatInt(ev.EventID, 10),
			ev.DateTime.Format(contract.DateTimeFormat),
			contract.TruncateText(ev.LicenseShortName(), nameWidth),
			formatAction(ev.IsRemoved),
			formatScope(ev.IsGlobal),
			ev.EventType.String(),
			strconv.FormatInt(ev.UserID, 10),
			contract.TruncateText(ev.Comment, 30),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	last := history.LastDecision
	if last == nil {
		_, err := fmt.Fprintln(w, "No clearing decision recorded yet")
		return err
	}
	_, err := fmt.Fprintf(w, "Last clearing decision #%d: %s (%s) at %s by user %d, added: %s, removed: %s\n",
		last.DecisionID,
		last.Type,
		formatScope(last.IsGlobal),
		last.DateAdded.Format(contract.DateTimeFormat),
		last.UserID,
		formatLicenseList(last.Added),
		formatLicenseList(last.Removed),
	)
	return err
}

// writeHistoryCSV writes one CSV record per decision event.
func writeHistoryCSV(w io.Writer, history schema.DecisionHistory) error {
	header := []string{"event_id", "item_id", "user_id", "license", "action", "scope", "event_type", "date", "comment"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, ev := range history.Events {
			rec := []string{
				strconv.FormatInt(ev.EventID, 10),
				strconv.FormatInt(ev.ItemID, 10),
				strconv.FormatInt(ev.UserID, 10),
				ev.LicenseShortName(),
				formatAction(ev.IsRemoved),
				formatScope(ev.IsGlobal),
				strconv.Itoa(int(ev.EventType)),
				ev.DateTime.Format(contract.DateTimeFormat),
				ev.Comment,
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

// formatAction renders whether an event added or removed its license.
func formatAction(removed bool) string {
	if removed {
		return "remove"
	}
	return "add"
}

// formatLicenseList joins license short names, or "-" when empty.
func formatLicenseList(refs []schema.LicenseRef) string {
	if len(refs) == 0 {
		return "-"
	}
	names := make([]string, len(refs))
	for i, ref := range refs {
		names[i] = ref.ShortName
	}
	return strings.Join(names, ", ")
}
