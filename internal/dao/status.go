package dao

import (
	"context"
	"fmt"

	"github.com/huangsam/clearance/schema"
)

// GetStatus returns row counts, the latest activity and the schema version of the store.
func (s *ClearingStoreImpl) GetStatus(ctx context.Context) (schema.StoreStatus, error) {
	status := schema.StoreStatus{
		Backend:    string(s.backend),
		Connected:  s.db != nil,
		TableSizes: make(map[string]int64),
	}

	if s.db == nil {
		return status, nil
	}

	for _, table := range storeTables {
		var count int64
		query := fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(table, s.backend))
		if err := s.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
			return status, fmt.Errorf("failed to count rows in %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}
	status.TotalDecisions = int(status.TableSizes[clearingDecisionsTable])
	status.TotalEvents = int(status.TableSizes[decisionEventsTable])

	if status.TotalDecisions > 0 {
		var last dbTime
		query := fmt.Sprintf("SELECT MAX(date_added) FROM %s", quoteTableName(clearingDecisionsTable, s.backend))
		if err := s.db.QueryRowContext(ctx, query).Scan(&last); err != nil {
			return status, fmt.Errorf("failed to get last decision time: %w", err)
		}
		status.LastDecisionTime = last.Time
	}

	if status.TotalEvents > 0 {
		var last dbTime
		query := fmt.Sprintf("SELECT MAX(date_added) FROM %s", quoteTableName(decisionEventsTable, s.backend))
		if err := s.db.QueryRowContext(ctx, query).Scan(&last); err != nil {
			return status, fmt.Errorf("failed to get last event time: %w", err)
		}
		status.LastEventTime = last.Time
	}

	var version int64
	query := fmt.Sprintf("SELECT version FROM %s LIMIT 1", quoteTableName(migrationsTable, s.backend))
	if err := s.db.QueryRowContext(ctx, query).Scan(&version); err != nil {
		return status, fmt.Errorf("failed to get schema version: %w", err)
	}
	status.SchemaVersion = uint(version)

	return status, nil
}

// PrintStoreStatus prints clearing store status information.
func PrintStoreStatus(status schema.StoreStatus) {
	fmt.Printf("Store Backend: %s\n", status.Backend)
	fmt.Printf("Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	fmt.Printf("Schema Version: %d\n", status.SchemaVersion)
	fmt.Printf("Total Decisions: %d\n", status.TotalDecisions)
	if status.TotalDecisions > 0 {
		fmt.Printf("Last Decision: %s\n", status.LastDecisionTime.Format("2006-01-02 15:04:05"))
	}
	fmt.Printf("Total Events: %d\n", status.TotalEvents)
	if status.TotalEvents > 0 {
		fmt.Printf("Last Event: %s\n", status.LastEventTime.Format("2006-01-02 15:04:05"))
	}
	fmt.Println("Table Sizes:")
	for _, table := range schema.SortedKeys(status.TableSizes) {
		fmt.Printf("  %s: %d rows\n", table, status.TableSizes[table])
	}
}
