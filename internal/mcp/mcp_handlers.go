package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/huangsam/clearance/core"
	"github.com/huangsam/clearance/internal/contract"
	"github.com/huangsam/clearance/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.StoreManager
}

// requestConfig clones the base config and applies the item, user and scope arguments.
func (h *toolHandler) requestConfig(request mcp.CallToolRequest) (*contract.Config, int64, error) {
	cfg := h.baseCfg.Clone()

	itemID := int64(request.GetInt("item_id", 0))
	if itemID <= 0 {
		return nil, 0, errors.New("item_id must be a positive integer")
	}
	if u := request.GetInt("user_id", 0); u != 0 {
		if u < 0 {
			return nil, 0, errors.New("user_id must be a positive integer")
		}
		cfg.UserID = int64(u)
	}
	cfg.Global = request.GetBool("global", cfg.Global)
	return cfg, itemID, nil
}

func (h *toolHandler) handleGetCurrentDecisions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, itemID, err := h.requestConfig(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}

	report, err := core.GetDecisionReport(ctx, cfg, h.mgr, itemID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("decision lookup failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(report, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleMakeDecision(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, itemID, err := h.requestConfig(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}
	if t := request.GetString("type", ""); t != "" {
		decisionType, err := schema.ParseDecisionType(t)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
		}
		cfg.DecisionType = decisionType
	}

	outcome, err := core.MakeDecision(ctx, cfg, h.mgr, itemID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("decision failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(outcome, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetDecisionHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, itemID, err := h.requestConfig(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}

	history, err := core.GetDecisionHistory(ctx, cfg, h.mgr, itemID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("history lookup failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(history, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleRecordLicenseEvent(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, itemID, err := h.requestConfig(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}
	license := request.GetString("license", "")
	if license == "" {
		return mcp.NewToolResultError("invalid parameters: license is required"), nil
	}
	action := request.GetString("action", "")
	if action != "add" && action != "remove" {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: action must be add or remove, got %q", action)), nil
	}

	ref, err := core.RecordLicenseEvent(ctx, cfg, h.mgr, itemID, license, action == "remove")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("event failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(map[string]any{
		"item_id":   itemID,
		"user_id":   cfg.UserID,
		"license":   ref,
		"action":    action,
		"is_global": cfg.Global,
	}, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
