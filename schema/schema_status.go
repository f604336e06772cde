package schema

import "time"

// StoreStatus represents the status of the clearing store.
type StoreStatus struct {
	Backend          string           `json:"backend"`
	Connected        bool             `json:"connected"`
	SchemaVersion    uint             `json:"schema_version"`
	TotalDecisions   int              `json:"total_decisions"`
	LastDecisionTime time.Time        `json:"last_decision_time"`
	TotalEvents      int              `json:"total_events"`
	LastEventTime    time.Time        `json:"last_event_time"`
	TableSizes       map[string]int64 `json:"table_sizes"`
}
