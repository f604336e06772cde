package dao

import (
	"context"
	"errors"
	"fmt"

	"github.com/huangsam/clearance/internal/contract"
	"github.com/huangsam/clearance/internal/parquet"
)

// ExecuteExport writes clearing decisions and decision events to Parquet files
// named after the outputFile prefix.
func ExecuteExport(ctx context.Context, store contract.ClearingStore, outputFile string) error {
	// Validate that output file is specified
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}

	// Check if there's any data to export
	status, err := store.GetStatus(ctx)
	if err != nil {
		return fmt.Errorf("failed to get store status: %w", err)
	}

	if status.TotalDecisions == 0 && status.TotalEvents == 0 {
		return errors.New("no clearing data found to export")
	}

	fmt.Printf("Exporting data from %s backend...\n", status.Backend)
	fmt.Printf("Total clearing decisions: %d\n", status.TotalDecisions)
	fmt.Printf("Total decision events: %d\n", status.TotalEvents)

	decisions, err := store.ListClearingDecisions(ctx)
	if err != nil {
		return fmt.Errorf("failed to retrieve clearing decisions: %w", err)
	}

	events, err := store.ListDecisionEvents(ctx)
	if err != nil {
		return fmt.Errorf("failed to retrieve decision events: %w", err)
	}

	decisionsFile := outputFile + ".clearing_decisions.parquet"
	parquetDecisions := parquet.ConvertClearingDecisions(decisions)
	if err := parquet.WriteClearingDecisionsParquet(parquetDecisions, decisionsFile); err != nil {
		return fmt.Errorf("failed to write clearing decisions: %w", err)
	}
	fmt.Printf("Exported %d clearing decisions to: %s\n", len(parquetDecisions), decisionsFile)

	eventsFile := outputFile + ".decision_events.parquet"
	parquetEvents := parquet.ConvertDecisionEvents(events)
	if err := parquet.WriteDecisionEventsParquet(parquetEvents, eventsFile); err != nil {
		return fmt.Errorf("failed to write decision events: %w", err)
	}
	fmt.Printf("Exported %d decision events to: %s\n", len(parquetEvents), eventsFile)

	fmt.Println("\nExport complete! The Parquet files can be used with:")
	fmt.Println("  - Apache Spark")
	fmt.Println("  - Apache Arrow")
	fmt.Println("  - Pandas (via pyarrow)")
	fmt.Println("  - DuckDB")
	fmt.Println("  - Any other Parquet-compatible tool")

	return nil
}
