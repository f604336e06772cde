package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/huangsam/clearance/internal/contract"
	"github.com/huangsam/clearance/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintDecisionReport outputs the current decisions of an item, dispatching on the configured format.
func PrintDecisionReport(report schema.DecisionReport, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, report)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeDecisionCSV(w, report)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return WriteDecisionTable(w, report, cfg, duration)
		}, "Wrote table")
	}
	return nil
}

// WriteDecisionTable writes the human-readable decision table.
func WriteDecisionTable(w io.Writer, report schema.DecisionReport, cfg *contract.Config, duration time.Duration) error {
	if _, err := fmt.Fprintln(w, sectionTitle("⚖️", fmt.Sprintf("License decisions for item %d", report.ItemID), cfg)); err != nil {
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"#", "License", "Status", "Scope", "Decided", "Agents", "Match"})
	table.Configure(func(c *tablewriter.Config) {
		c.Row.Alignment.Global = tw.AlignLeft
	})

	nameWidth := getMaxTableNameWidth(cfg)
	var data [][]string
	current, removed := 0, 0
	for i, row := range report.Rows {
		if row.Removed {
			removed++
		} else {
			current++
		}
		decided := row.DecidedAt
		if decided == "" {
			decided = "-"
		}
		data = append(data, []string{
			strconv.Itoa(i + 1),
			contract.TruncateText(row.ShortName, nameWidth),
			statusLabel(row.Status, cfg),
			formatScope(row.Global),
			decided,
			schema.FormatAgents(row.Agents),
			formatPercent(row.MaxPercent),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Showing %d licenses for upload %d, user %d (current: %d, removed: %d)\n",
		len(report.Rows), report.UploadID, report.UserID, current, removed); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Computed in %v. Store backend: %s\n", duration, cfg.Backend); err != nil {
		return err
	}
	return nil
}

// writeDecisionCSV writes one CSV record per decision row.
func writeDecisionCSV(w io.Writer, report schema.DecisionReport) error {
	header := []string{
		"item_id",
		"license",
		"license_id",
		"status",
		"removed",
		"scope",
		"decided_at",
		"agents",
		"max_percentage",
		"agent_events",
	}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, row := range report.Rows {
			percent := ""
			if row.MaxPercent != nil {
				percent = strconv.Itoa(*row.MaxPercent)
			}
			rec := []string{
				strconv.FormatInt(report.ItemID, 10),
				row.ShortName,
				strconv.FormatInt(row.LicenseID, 10),
				row.Status,
				strconv.FormatBool(row.Removed),
				formatScope(row.Global),
				row.DecidedAt,
				schema.FormatAgents(row.Agents),
				percent,
				strconv.Itoa(row.AgentEvents),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}
