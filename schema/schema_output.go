package schema

import (
	"sort"
	"strings"
)

// Decision status labels.
const (
	StatusConfirmed = "Confirmed" // human event and agent findings
	StatusManual    = "Manual"    // human event only
	StatusDetected  = "Detected"  // agent findings only
	StatusRemoved   = "Removed"   // human removal overrides the findings
)

// DecisionRow is the flattened presentation of one LicenseDecisionResult.
type DecisionRow struct {
	ShortName   string   `json:"short_name"`
	LicenseID   int64    `json:"license_id"`
	Status      string   `json:"status"`
	Removed     bool     `json:"removed"`
	Global      bool     `json:"global"`
	DecidedAt   string   `json:"decided_at,omitempty"`
	Agents      []string `json:"agents,omitempty"`
	MaxPercent  *int     `json:"max_percentage,omitempty"`
	HumanEvent  bool     `json:"human_event"`
	AgentEvents int      `json:"agent_events"`
}

// GetStatusLabel returns the plain status label of a decision result.
func GetStatusLabel(result LicenseDecisionResult, removed bool) string {
	switch {
	case removed:
		return StatusRemoved
	case result.HasLicenseDecisionEvent() && result.HasAgentDecisionEvents():
		return StatusConfirmed
	case result.HasLicenseDecisionEvent():
		return StatusManual
	default:
		return StatusDetected
	}
}

// BuildDecisionRows flattens current and removed decisions into rows sorted by short name,
// current decisions first.
func BuildDecisionRows(current, removed map[string]LicenseDecisionResult, dateFormat string) []DecisionRow {
	rows := make([]DecisionRow, 0, len(current)+len(removed))
	for _, name := range SortedKeys(current) {
		rows = append(rows, newDecisionRow(name, current[name], false, dateFormat))
	}
	for _, name := range SortedKeys(removed) {
		rows = append(rows, newDecisionRow(name, removed[name], true, dateFormat))
	}
	return rows
}

// newDecisionRow builds a single DecisionRow.
func newDecisionRow(name string, result LicenseDecisionResult, removed bool, dateFormat string) DecisionRow {
	row := DecisionRow{
		ShortName:   name,
		LicenseID:   result.LicenseID(),
		Status:      GetStatusLabel(result, removed),
		Removed:     removed,
		Global:      result.IsGlobal(),
		HumanEvent:  result.HasLicenseDecisionEvent(),
		AgentEvents: len(result.AgentEvents),
	}
	if result.Event != nil {
		row.DecidedAt = result.Event.DateTime.Format(dateFormat)
	}

	seen := make(map[string]struct{})
	for _, ev := range result.AgentEvents {
		if _, ok := seen[ev.Agent.AgentName]; !ok {
			seen[ev.Agent.AgentName] = struct{}{}
			row.Agents = append(row.Agents, ev.Agent.AgentName)
		}
		if ev.Percentage != nil && (row.MaxPercent == nil || *ev.Percentage > *row.MaxPercent) {
			row.MaxPercent = IntPtr(*ev.Percentage)
		}
	}
	sort.Strings(row.Agents)
	return row
}

// FormatAgents joins agent names for table and CSV output.
func FormatAgents(agents []string) string {
	if len(agents) == 0 {
		return "-"
	}
	return strings.Join(agents, ", ")
}

// DecisionReport is the current decision state of a tree item for one user.
type DecisionReport struct {
	ItemID   int64         `json:"item_id"`
	UploadID int64         `json:"upload_id"`
	UserID   int64         `json:"user_id"`
	Rows     []DecisionRow `json:"decisions"`
}

// DecisionHistory lists the decision events of a tree item with its latest clearing decision.
type DecisionHistory struct {
	ItemID       int64                  `json:"item_id"`
	UserID       int64                  `json:"user_id"`
	Events       []LicenseDecisionEvent `json:"events"`
	LastDecision *ClearingDecision      `json:"last_decision,omitempty"`
}
