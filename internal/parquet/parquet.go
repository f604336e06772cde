// Package parquet provides data structures and functions for exporting clearing
// data to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/huangsam/clearance/schema"
	"github.com/parquet-go/parquet-go"
)

// ClearingDecision represents one clearing decision snapshot.
// This struct maps to the clearing_decisions table joined with its licenses.
type ClearingDecision struct {
	// DecisionID is the unique identifier of the snapshot
	DecisionID int64 `parquet:"decision_id,snappy"`

	ItemID int64 `parquet:"item_id,snappy"`
	UserID int64 `parquet:"user_id,snappy"`

	// DecisionType is the numeric decision type, DecisionTypeName its CLI name
	DecisionType     int32  `parquet:"decision_type,snappy"`
	DecisionTypeName string `parquet:"decision_type_name,snappy"`

	IsGlobal bool `parquet:"is_global,snappy"`

	// DateAdded is when the snapshot was recorded (stored as TIMESTAMP with nanosecond precision)
	DateAdded time.Time `parquet:"date_added,snappy"`

	// AddedLicenses and RemovedLicenses are comma-separated short names (nullable when empty)
	AddedLicenses   *string `parquet:"added_licenses,optional,snappy"`
	RemovedLicenses *string `parquet:"removed_licenses,optional,snappy"`
}

// DecisionEvent represents one license decision event.
// This struct maps to the license_decision_events table.
type DecisionEvent struct {
	EventID          int64     `parquet:"event_id,snappy"`
	ItemID           int64     `parquet:"item_id,snappy"`
	UserID           int64     `parquet:"user_id,snappy"`
	LicenseID        int64     `parquet:"license_id,snappy"`
	LicenseShortName string    `parquet:"license_short_name,snappy"`
	EventType        int32     `parquet:"event_type,snappy"`
	IsGlobal         bool      `parquet:"is_global,snappy"`
	IsRemoved        bool      `parquet:"is_removed,snappy"`
	DateAdded        time.Time `parquet:"date_added,snappy"`

	// Comment is the free-form note of the user (nullable)
	Comment *string `parquet:"comment,optional,snappy"`
}

// WriteClearingDecisionsParquet writes a slice of ClearingDecision structs to a Parquet file.
func WriteClearingDecisionsParquet(data []ClearingDecision, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteDecisionEventsParquet writes a slice of DecisionEvent structs to a Parquet file.
func WriteDecisionEventsParquet(data []DecisionEvent, outputPath string) error {
	return writeParquet(data, outputPath)
}

// writeParquet writes rows using struct schema inference from the parquet tags of T.
func writeParquet[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	// Close flushes the row groups and the footer
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// ConvertClearingDecisions converts schema.ClearingDecision to ClearingDecision for Parquet export.
func ConvertClearingDecisions(decisions []schema.ClearingDecision) []ClearingDecision {
	result := make([]ClearingDecision, len(decisions))
	for i, d := range decisions {
		result[i] = ClearingDecision{
			DecisionID:       d.DecisionID,
			ItemID:           d.ItemID,
			UserID:           d.UserID,
			DecisionType:     int32(d.Type),
			DecisionTypeName: d.Type.String(),
			IsGlobal:         d.IsGlobal,
			DateAdded:        d.DateAdded,
			AddedLicenses:    joinLicenses(d.Added),
			RemovedLicenses:  joinLicenses(d.Removed),
		}
	}
	return result
}

// ConvertDecisionEvents converts schema.LicenseDecisionEvent to DecisionEvent for Parquet export.
func ConvertDecisionEvents(events []schema.LicenseDecisionEvent) []DecisionEvent {
	result := make([]DecisionEvent, len(events))
	for i, e := range events {
		var comment *string
		if e.Comment != "" {
			c := e.Comment
			comment = &c
		}
		result[i] = DecisionEvent{
			EventID:          e.EventID,
			ItemID:           e.ItemID,
			UserID:           e.UserID,
			LicenseID:        e.License.ID,
			LicenseShortName: e.License.ShortName,
			EventType:        int32(e.EventType),
			IsGlobal:         e.IsGlobal,
			IsRemoved:        e.IsRemoved,
			DateAdded:        e.DateTime,
			Comment:          comment,
		}
	}
	return result
}

func joinLicenses(refs []schema.LicenseRef) *string {
	if len(refs) == 0 {
		return nil
	}
	names := make([]string, len(refs))
	for i, ref := range refs {
		names[i] = ref.ShortName
	}
	joined := strings.Join(names, ",")
	return &joined
}
