package schema_test

import (
	"testing"
	"time"

	"github.com/huangsam/clearance/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetStatusLabel(t *testing.T) {
	event := &schema.LicenseDecisionEvent{License: schema.LicenseRef{ID: 1, ShortName: "MIT"}}
	agentEvents := []schema.AgentLicenseDecisionEvent{{License: schema.LicenseRef{ID: 1, ShortName: "MIT"}}}

	tests := []struct {
		name     string
		result   schema.LicenseDecisionResult
		removed  bool
		expected string
	}{
		{"Human and agent", schema.LicenseDecisionResult{Event: event, AgentEvents: agentEvents}, false, schema.StatusConfirmed},
		{"Human only", schema.LicenseDecisionResult{Event: event}, false, schema.StatusManual},
		{"Agent only", schema.LicenseDecisionResult{AgentEvents: agentEvents}, false, schema.StatusDetected},
		{"Removed wins", schema.LicenseDecisionResult{Event: event, AgentEvents: agentEvents}, true, schema.StatusRemoved},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, schema.GetStatusLabel(tt.result, tt.removed))
		})
	}
}

func TestBuildDecisionRows(t *testing.T) {
	decided := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	mit := schema.LicenseRef{ID: 1, ShortName: "MIT"}
	apache := schema.LicenseRef{ID: 2, ShortName: "Apache-2.0"}
	gpl := schema.LicenseRef{ID: 3, ShortName: "GPL-2.0"}

	current := map[string]schema.LicenseDecisionResult{
		"MIT": {
			Event: &schema.LicenseDecisionEvent{License: mit, DateTime: decided, IsGlobal: false},
		},
		"Apache-2.0": {
			AgentEvents: []schema.AgentLicenseDecisionEvent{
				{License: apache, Agent: schema.AgentRef{AgentID: 7, AgentName: "nomos"}, Percentage: schema.IntPtr(40)},
				{License: apache, Agent: schema.AgentRef{AgentID: 9, AgentName: "monk"}, Percentage: schema.IntPtr(95)},
				{License: apache, Agent: schema.AgentRef{AgentID: 7, AgentName: "nomos"}},
			},
		},
	}
	removed := map[string]schema.LicenseDecisionResult{
		"GPL-2.0": {
			Event:       &schema.LicenseDecisionEvent{License: gpl, DateTime: decided, IsGlobal: true},
			AgentEvents: []schema.AgentLicenseDecisionEvent{{License: gpl, Agent: schema.AgentRef{AgentID: 7, AgentName: "nomos"}}},
		},
	}

	rows := schema.BuildDecisionRows(current, removed, time.RFC3339)
	require.Len(t, rows, 3)

	assert.Equal(t, "Apache-2.0", rows[0].ShortName)
	assert.Equal(t, schema.StatusDetected, rows[0].Status)
	assert.Equal(t, []string{"monk", "nomos"}, rows[0].Agents)
	require.NotNil(t, rows[0].MaxPercent)
	assert.Equal(t, 95, *rows[0].MaxPercent)
	assert.True(t, rows[0].Global, "agent-only results default to global")
	assert.Empty(t, rows[0].DecidedAt)

	assert.Equal(t, "MIT", rows[1].ShortName)
	assert.Equal(t, schema.StatusManual, rows[1].Status)
	assert.False(t, rows[1].Global)
	assert.Equal(t, "2024-03-01T12:00:00Z", rows[1].DecidedAt)
	assert.Nil(t, rows[1].MaxPercent)

	assert.Equal(t, "GPL-2.0", rows[2].ShortName)
	assert.True(t, rows[2].Removed)
	assert.Equal(t, schema.StatusRemoved, rows[2].Status)
	assert.Equal(t, int64(3), rows[2].LicenseID)
}

func TestFormatAgents(t *testing.T) {
	assert.Equal(t, "-", schema.FormatAgents(nil))
	assert.Equal(t, "monk, nomos", schema.FormatAgents([]string{"monk", "nomos"}))
}
