// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/clearance/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// decisionTypeNames lists the values accepted by the type argument.
var decisionTypeNames = []string{"to-be-determined", "no-license-known", "to-be-discussed", "irrelevant", "identified"}

// NewMCPServer initializes and configures the Clearance MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.StoreManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Clearance Decision Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	// --- 1. Tool: get_current_decisions ---
	s.AddTool(mcp.NewTool("get_current_decisions",
		mcp.WithDescription("Merge human license decisions with the latest agent findings for an upload tree item."),
		mcp.WithNumber("item_id", mcp.Description("Upload tree item id (file or directory)."), mcp.Required()),
		mcp.WithNumber("user_id", mcp.Description("User whose decisions are merged. Defaults to the configured user.")),
	), h.handleGetCurrentDecisions)

	// --- 2. Tool: make_decision ---
	s.AddTool(mcp.NewTool("make_decision",
		mcp.WithDescription("Record a clearing decision snapshot for an item when its decisions changed since the last snapshot."),
		mcp.WithNumber("item_id", mcp.Description("Upload tree item id."), mcp.Required()),
		mcp.WithString("type", mcp.Description("Decision type. Defaults to the configured type."), mcp.Enum(decisionTypeNames...)),
		mcp.WithBoolean("global", mcp.Description("Whether the decision applies to every upload containing the file.")),
		mcp.WithNumber("user_id", mcp.Description("Acting user. Defaults to the configured user.")),
	), h.handleMakeDecision)

	// --- 3. Tool: get_decision_history ---
	s.AddTool(mcp.NewTool("get_decision_history",
		mcp.WithDescription("List the license decision events and the last clearing decision of an item."),
		mcp.WithNumber("item_id", mcp.Description("Upload tree item id."), mcp.Required()),
		mcp.WithNumber("user_id", mcp.Description("User whose history is listed. Defaults to the configured user.")),
	), h.handleGetDecisionHistory)

	// --- 4. Tool: record_license_event ---
	s.AddTool(mcp.NewTool("record_license_event",
		mcp.WithDescription("Add or remove a license on an item as a human decision event."),
		mcp.WithNumber("item_id", mcp.Description("Upload tree item id."), mcp.Required()),
		mcp.WithString("license", mcp.Description("License short name, e.g. 'MIT'."), mcp.Required()),
		mcp.WithString("action", mcp.Description("Whether to add or remove the license."), mcp.Enum("add", "remove"), mcp.Required()),
		mcp.WithBoolean("global", mcp.Description("Whether the event applies to every upload containing the file.")),
		mcp.WithNumber("user_id", mcp.Description("Acting user. Defaults to the configured user.")),
	), h.handleRecordLicenseEvent)

	return s
}

// StartMCPServer starts the Clearance MCP server.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.StoreManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
