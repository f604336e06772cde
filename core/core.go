// Package core has core logic for license decisions and clearing snapshots.
package core

import (
	"context"
	"fmt"
	"time"

	"github.com/huangsam/clearance/internal/contract"
	"github.com/huangsam/clearance/internal/outwriter"
	"github.com/huangsam/clearance/schema"
)

// ExecutorFunc defines the function signature for executing item-level commands.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager, itemID int64) error

// newProcessor builds a DecisionProcessor over the managed clearing store.
func newProcessor(store contract.ClearingStore) *DecisionProcessor {
	return NewDecisionProcessor(store, store, store)
}

// GetDecisionReport computes the current license decisions of an item for the configured user.
func GetDecisionReport(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager, itemID int64) (schema.DecisionReport, error) {
	store := mgr.GetClearingStore()
	bounds, err := store.GetItemTreeBounds(ctx, itemID)
	if err != nil {
		return schema.DecisionReport{}, fmt.Errorf("failed to resolve item %d: %w", itemID, err)
	}

	current, removed, err := newProcessor(store).CurrentLicenseDecisions(ctx, bounds, cfg.UserID)
	if err != nil {
		return schema.DecisionReport{}, err
	}

	return schema.DecisionReport{
		ItemID:   bounds.ItemID,
		UploadID: bounds.UploadID,
		UserID:   cfg.UserID,
		Rows:     schema.BuildDecisionRows(current, removed, contract.DateTimeFormat),
	}, nil
}

// ExecuteDecisions prints the current license decisions of an item.
// It serves as the main entry point for the 'decisions' command.
func ExecuteDecisions(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager, itemID int64) error {
	start := time.Now()
	report, err := GetDecisionReport(ctx, cfg, mgr, itemID)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteDecisions(report, cfg, time.Since(start))
}

// MakeDecision records a clearing decision snapshot for an item with the configured type and scope.
func MakeDecision(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager, itemID int64) (schema.DecisionOutcome, error) {
	store := mgr.GetClearingStore()
	bounds, err := store.GetItemTreeBounds(ctx, itemID)
	if err != nil {
		return schema.DecisionOutcome{}, fmt.Errorf("failed to resolve item %d: %w", itemID, err)
	}
	return newProcessor(store).MakeDecisionFromLastEvents(ctx, bounds, cfg.UserID, cfg.DecisionType, cfg.Global)
}

// ExecuteDecide records a clearing decision snapshot and prints the outcome.
// It serves as the main entry point for the 'decide' command.
func ExecuteDecide(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager, itemID int64) error {
	start := time.Now()
	outcome, err := MakeDecision(ctx, cfg, mgr, itemID)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteOutcome(outcome, cfg, time.Since(start))
}

// GetDecisionHistory loads the decision events and the last clearing decision of an item.
func GetDecisionHistory(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager, itemID int64) (schema.DecisionHistory, error) {
	store := mgr.GetClearingStore()
	if _, err := store.GetItemTreeBounds(ctx, itemID); err != nil {
		return schema.DecisionHistory{}, fmt.Errorf("failed to resolve item %d: %w", itemID, err)
	}

	events, err := store.GetRelevantLicenseDecisionEvents(ctx, cfg.UserID, itemID)
	if err != nil {
		return schema.DecisionHistory{}, fmt.Errorf("failed to load decision events: %w", err)
	}
	last, err := store.GetRelevantClearingDecision(ctx, cfg.UserID, itemID)
	if err != nil {
		return schema.DecisionHistory{}, fmt.Errorf("failed to load last clearing decision: %w", err)
	}

	return schema.DecisionHistory{
		ItemID:       itemID,
		UserID:       cfg.UserID,
		Events:       events,
		LastDecision: last,
	}, nil
}

// ExecuteHistory prints the decision history of an item.
// It serves as the main entry point for the 'history' command.
func ExecuteHistory(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager, itemID int64) error {
	history, err := GetDecisionHistory(ctx, cfg, mgr, itemID)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteHistory(history, cfg)
}

// RecordLicenseEvent adds or removes a license on an item as the configured user.
func RecordLicenseEvent(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager, itemID int64, shortName string, remove bool) (schema.LicenseRef, error) {
	store := mgr.GetClearingStore()
	if _, err := store.GetItemTreeBounds(ctx, itemID); err != nil {
		return schema.LicenseRef{}, fmt.Errorf("failed to resolve item %d: %w", itemID, err)
	}
	license, err := store.GetLicenseByShortName(ctx, shortName)
	if err != nil {
		return schema.LicenseRef{}, fmt.Errorf("failed to resolve license %q: %w", shortName, err)
	}

	if remove {
		err = store.RemoveLicenseDecision(ctx, itemID, cfg.UserID, license.ID, schema.DecisionUnset, cfg.Global)
	} else {
		err = store.AddLicenseDecision(ctx, itemID, cfg.UserID, license.ID, cfg.Global)
	}
	if err != nil {
		return schema.LicenseRef{}, fmt.Errorf("failed to record event for %s on item %d: %w", shortName, itemID, err)
	}
	return license, nil
}

// ExecuteEvent records a manual license event and prints a confirmation line.
// It serves as the main entry point for the 'event add' and 'event remove' commands.
func ExecuteEvent(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager, itemID int64, shortName string, remove bool) error {
	license, err := RecordLicenseEvent(ctx, cfg, mgr, itemID, shortName, remove)
	if err != nil {
		return err
	}
	action := "Added"
	if remove {
		action = "Removed"
	}
	scope := "global"
	if !cfg.Global {
		scope = "local"
	}
	fmt.Printf("%s %s (license %d) on item %d as user %d (%s)\n", action, license.ShortName, license.ID, itemID, cfg.UserID, scope)
	return nil
}

// ExecuteImport loads an upload description into the store and prints a summary.
// It serves as the main entry point for the 'import' command.
func ExecuteImport(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager, doc schema.ImportDocument) error {
	start := time.Now()
	summary, err := mgr.GetClearingStore().Import(ctx, doc)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}
	return outwriter.NewOutWriter().WriteImport(summary, cfg, time.Since(start))
}
