// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"

	"github.com/huangsam/clearance/schema"
)

// LicenseDao reads the license catalog and agent license matches.
// This allows the decision processor to be tested without a real database.
type LicenseDao interface {
	// GetAgentFileLicenseMatches returns every agent match on files inside the bounds.
	GetAgentFileLicenseMatches(ctx context.Context, bounds schema.ItemTreeBounds) ([]schema.LicenseMatch, error)

	// GetLicenseByShortName resolves a license by its short name.
	GetLicenseByShortName(ctx context.Context, shortName string) (schema.LicenseRef, error)
}

// AgentsDao reads agent run bookkeeping.
type AgentsDao interface {
	// GetLatestAgentResultForUpload returns, per agent name, the id of the latest
	// successful run on the upload. Agents without a successful run are absent.
	GetLatestAgentResultForUpload(ctx context.Context, uploadID int64, agentNames []string) (map[string]int64, error)
}

// ClearingDao reads and writes license decision events and clearing decisions.
type ClearingDao interface {
	// --- Reads ---

	// GetCurrentLicenseDecisions returns the effective per-license state for the
	// user and item, split into added and removed events keyed by short name.
	GetCurrentLicenseDecisions(ctx context.Context, userID int64, itemID int64) (added, removed map[string]schema.LicenseDecisionEvent, err error)

	// GetRelevantLicenseDecisionEvents returns the decision events for the item in ascending time order.
	GetRelevantLicenseDecisionEvents(ctx context.Context, userID int64, itemID int64) ([]schema.LicenseDecisionEvent, error)

	// GetRelevantClearingDecision returns the latest clearing decision, or nil when none exists.
	GetRelevantClearingDecision(ctx context.Context, userID int64, itemID int64) (*schema.ClearingDecision, error)

	// --- Writes ---

	// AddLicenseDecision records that the user added the license to the item.
	AddLicenseDecision(ctx context.Context, itemID, userID, licenseID int64, isGlobal bool) error

	// RemoveLicenseDecision records that the license was removed from the item.
	// decisionType is the clearing decision type that caused the removal, or DecisionUnset for a manual one.
	RemoveLicenseDecision(ctx context.Context, itemID, userID, licenseID int64, decisionType schema.DecisionType, isGlobal bool) error

	// InsertClearingDecision persists a snapshot of the item's decisions.
	InsertClearingDecision(
		ctx context.Context,
		itemID, userID int64,
		decisionType schema.DecisionType,
		isGlobal bool,
		added map[string]schema.LicenseDecisionResult,
		removed map[string]schema.LicenseDecisionEvent,
	) error
}

// TreeDao resolves upload tree items.
type TreeDao interface {
	// GetItemTreeBounds returns the nested-set bounds of a tree item.
	GetItemTreeBounds(ctx context.Context, itemID int64) (schema.ItemTreeBounds, error)
}

// ClearingStore is the full persistence surface used by the CLI and the MCP server.
type ClearingStore interface {
	LicenseDao
	AgentsDao
	ClearingDao
	TreeDao

	// Import loads an upload description into the store.
	Import(ctx context.Context, doc schema.ImportDocument) (schema.ImportSummary, error)

	// ListClearingDecisions returns every clearing decision ordered by id.
	ListClearingDecisions(ctx context.Context) ([]schema.ClearingDecision, error)

	// ListDecisionEvents returns every license decision event ordered by id.
	ListDecisionEvents(ctx context.Context) ([]schema.LicenseDecisionEvent, error)

	// GetStatus returns status information about the store.
	GetStatus(ctx context.Context) (schema.StoreStatus, error)

	// Close closes the underlying connection.
	Close() error
}

// StoreManager defines the interface for managing the clearing store.
// This allows the store layer to be mocked for testing.
type StoreManager interface {
	GetClearingStore() ClearingStore
}
