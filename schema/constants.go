package schema

import (
	"fmt"
	"strconv"
	"strings"
)

// Custom types for type safety.
type (
	// DecisionType is the kind of clearing decision recorded for an item.
	DecisionType int

	// EventType is the origin of a license decision event.
	EventType int

	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for the clearing store.
	DatabaseBackend string
)

// NoLicenseFound is the short name agents report when nothing was detected.
// It is never treated as a real detection.
const NoLicenseFound = "No_license_found"

// All decision types supported. Types up to DecisionToBeDetermined are not actionable.
const (
	DecisionUnset          DecisionType = 0
	DecisionToBeDetermined DecisionType = 1
	DecisionNoLicenseKnown DecisionType = 2
	DecisionToBeDiscussed  DecisionType = 3
	DecisionIrrelevant     DecisionType = 4
	DecisionIdentified     DecisionType = 5
)

// All event types supported.
const (
	UserEvent  EventType = 1 // entered by a person
	BulkEvent  EventType = 2 // produced by a bulk recognition pass
	AgentEvent EventType = 3 // derived from scanner matches
)

// All output modes supported.
const (
	CSVOut  OutputMode = "csv"
	TextOut OutputMode = "text" // default
	JSONOut OutputMode = "json"
)

// All store backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
)

// decisionTypeNames maps decision types to their CLI names.
var decisionTypeNames = map[DecisionType]string{
	DecisionUnset:          "unset",
	DecisionToBeDetermined: "to-be-determined",
	DecisionNoLicenseKnown: "no-license-known",
	DecisionToBeDiscussed:  "to-be-discussed",
	DecisionIrrelevant:     "irrelevant",
	DecisionIdentified:     "identified",
}

// eventTypeNames maps event types to the names used in import files and output.
var eventTypeNames = map[EventType]string{
	UserEvent:  "user",
	BulkEvent:  "bulk",
	AgentEvent: "agent",
}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:  {},
	TextOut: {},
	JSONOut: {},
}

// ValidDatabaseBackends lists all valid store backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
}

// String returns the CLI name of the decision type.
func (t DecisionType) String() string {
	if name, ok := decisionTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("type-%d", int(t))
}

// IsActionable reports whether a snapshot may be recorded for the type.
func (t DecisionType) IsActionable() bool {
	return t > DecisionToBeDetermined
}

// ParseDecisionType accepts either a CLI name (e.g. "identified") or a numeric value.
func ParseDecisionType(s string) (DecisionType, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for t, name := range decisionTypeNames {
		if name == s {
			return t, nil
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return DecisionUnset, fmt.Errorf("invalid decision type %q. must be one of unset, to-be-determined, no-license-known, to-be-discussed, irrelevant, identified", s)
	}
	t := DecisionType(n)
	if _, ok := decisionTypeNames[t]; !ok {
		return DecisionUnset, fmt.Errorf("unknown decision type %d", n)
	}
	return t, nil
}

// String returns the name of the event type.
func (t EventType) String() string {
	if name, ok := eventTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("event-%d", int(t))
}

// ParseEventType accepts an event type name (user, bulk, agent) or a numeric value.
// An empty string means a user event.
func ParseEventType(s string) (EventType, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return UserEvent, nil
	}
	for t, name := range eventTypeNames {
		if name == s {
			return t, nil
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return UserEvent, fmt.Errorf("invalid event type %q. must be one of user, bulk, agent", s)
	}
	t := EventType(n)
	if _, ok := eventTypeNames[t]; !ok {
		return UserEvent, fmt.Errorf("unknown event type %d", n)
	}
	return t, nil
}
