package mcp_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/huangsam/clearance/internal/contract"
	"github.com/huangsam/clearance/internal/dao"
	mcp_internal "github.com/huangsam/clearance/internal/mcp"
	"github.com/huangsam/clearance/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func baseConfig() *contract.Config {
	return &contract.Config{
		UserID:       1,
		DecisionType: schema.DecisionIdentified,
		Global:       true,
		Backend:      schema.SQLiteBackend,
	}
}

func callTool(t *testing.T, mgr contract.StoreManager, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	s := mcp_internal.NewMCPServer(baseConfig(), mgr)
	tool := s.GetTool(name)
	require.NotNil(t, tool, "Tool %s should exist", name)

	res, err := tool.Handler(context.Background(), mcp.CallToolRequest{
		Params: mcp.CallToolParams{Name: name, Arguments: args},
	})
	require.NoError(t, err, "The MCP handler should not return a raw error for tool logic failures")
	require.NotNil(t, res)
	return res
}

func resultText(res *mcp.CallToolResult) string {
	return res.Content[0].(mcp.TextContent).Text
}

// newStoreManager returns a manager over an in-memory store holding one file with an MIT finding.
func newStoreManager(t *testing.T) contract.StoreManager {
	t.Helper()
	store, err := dao.NewClearingStore(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	_, err = store.Import(context.Background(), schema.ImportDocument{
		Upload: schema.ImportUpload{ID: 1, Root: schema.ImportItem{ID: 10, Name: "pkg", Children: []schema.ImportItem{{ID: 11, Name: "COPYING"}}}},
		Licenses: []schema.LicenseRef{
			{ID: 1, ShortName: "MIT"},
			{ID: 2, ShortName: "GPL-2.0"},
		},
		Runs: []schema.ImportRun{
			{AgentID: 7, Agent: "nomos", Matches: []schema.ImportMatch{{Item: 11, License: "MIT"}}},
		},
	})
	require.NoError(t, err)

	mgr := &dao.MockStoreManager{}
	mgr.On("GetClearingStore").Return(store)
	return mgr
}

func TestMCPServerHandlers_ValidationErrors(t *testing.T) {
	// No store call is expected because every request fails validation first
	mgr := &dao.MockStoreManager{}

	tests := []struct {
		name     string
		tool     string
		args     map[string]any
		contains string
	}{
		{"missing item", "get_current_decisions", map[string]any{}, "item_id must be a positive integer"},
		{"negative user", "get_decision_history", map[string]any{"item_id": 3.0, "user_id": -2.0}, "user_id must be a positive integer"},
		{"bad type", "make_decision", map[string]any{"item_id": 3.0, "type": "approved"}, "invalid decision type"},
		{"missing license", "record_license_event", map[string]any{"item_id": 3.0, "action": "add"}, "license is required"},
		{"bad action", "record_license_event", map[string]any{"item_id": 3.0, "license": "MIT", "action": "toggle"}, "action must be add or remove"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := callTool(t, mgr, tt.tool, tt.args)
			assert.True(t, res.IsError, "The response should indicate an error state")
			assert.Contains(t, resultText(res), tt.contains)
		})
	}
	mgr.AssertNotCalled(t, "GetClearingStore")
}

func TestMCPServerHandlers_StoreErrors(t *testing.T) {
	store := &dao.MockClearingStore{}
	store.On("GetItemTreeBounds", mock.Anything, int64(404)).Return(schema.ItemTreeBounds{}, assert.AnError)
	mgr := &dao.MockStoreManager{}
	mgr.On("GetClearingStore").Return(store)

	res := callTool(t, mgr, "get_current_decisions", map[string]any{"item_id": 404.0})
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(res), "failed to resolve item 404")

	res = callTool(t, mgr, "make_decision", map[string]any{"item_id": 404.0})
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(res), "decision failed")
}

func TestMCPServerHandlers_DecisionFlow(t *testing.T) {
	mgr := newStoreManager(t)

	res := callTool(t, mgr, "get_current_decisions", map[string]any{"item_id": 10.0})
	require.False(t, res.IsError, resultText(res))
	var report schema.DecisionReport
	require.NoError(t, json.Unmarshal([]byte(resultText(res)), &report))
	require.Len(t, report.Rows, 1)
	assert.Equal(t, "MIT", report.Rows[0].ShortName)
	assert.Equal(t, schema.StatusDetected, report.Rows[0].Status)

	res = callTool(t, mgr, "record_license_event", map[string]any{"item_id": 11.0, "license": "GPL-2.0", "action": "add", "global": false})
	require.False(t, res.IsError, resultText(res))
	assert.Contains(t, resultText(res), `"is_global": false`)

	res = callTool(t, mgr, "make_decision", map[string]any{"item_id": 11.0, "type": "identified"})
	require.False(t, res.IsError, resultText(res))
	var outcome schema.DecisionOutcome
	require.NoError(t, json.Unmarshal([]byte(resultText(res)), &outcome))
	assert.True(t, outcome.Inserted)
	assert.Equal(t, []string{"GPL-2.0", "MIT"}, outcome.Added)

	res = callTool(t, mgr, "get_decision_history", map[string]any{"item_id": 11.0})
	require.False(t, res.IsError, resultText(res))
	var history schema.DecisionHistory
	require.NoError(t, json.Unmarshal([]byte(resultText(res)), &history))
	require.Len(t, history.Events, 1)
	assert.False(t, history.Events[0].IsGlobal)
	require.NotNil(t, history.LastDecision)
	assert.Len(t, history.LastDecision.Added, 2)
}

func TestMCPServerHandlers_NotActionable(t *testing.T) {
	mgr := newStoreManager(t)

	res := callTool(t, mgr, "make_decision", map[string]any{"item_id": 11.0, "type": "to-be-determined"})
	require.False(t, res.IsError, resultText(res))
	var outcome schema.DecisionOutcome
	require.NoError(t, json.Unmarshal([]byte(resultText(res)), &outcome))
	assert.False(t, outcome.Inserted)
	assert.Equal(t, schema.DecisionToBeDetermined, outcome.Type)
}
