package core

import (
	"context"
	"fmt"
	"time"

	"github.com/huangsam/clearance/internal/contract"
	"github.com/huangsam/clearance/schema"
)

// DecisionProcessor merges agent findings with human license decisions for a tree item
// and records clearing decision snapshots when that merged state changes.
type DecisionProcessor struct {
	licenseDao  contract.LicenseDao
	agentsDao   contract.AgentsDao
	clearingDao contract.ClearingDao
}

// NewDecisionProcessor creates a DecisionProcessor over the given collaborators.
func NewDecisionProcessor(licenseDao contract.LicenseDao, agentsDao contract.AgentsDao, clearingDao contract.ClearingDao) *DecisionProcessor {
	return &DecisionProcessor{
		licenseDao:  licenseDao,
		agentsDao:   agentsDao,
		clearingDao: clearingDao,
	}
}

// LatestAgentDetectedLicenses groups the agent matches under bounds and keeps
// only those produced by the latest run of each agent.
func (p *DecisionProcessor) LatestAgentDetectedLicenses(ctx context.Context, bounds schema.ItemTreeBounds) (schema.LatestDetections, error) {
	matches, err := p.licenseDao.GetAgentFileLicenseMatches(ctx, bounds)
	if err != nil {
		return nil, fmt.Errorf("failed to load agent license matches: %w", err)
	}

	detections := schema.AgentDetections{}
	for _, match := range matches {
		if match.License.ShortName == schema.NoLicenseFound {
			continue
		}
		detections.Add(schema.MatchProperty{
			LicenseID:  match.License.ID,
			License:    match.License,
			Agent:      match.Agent,
			MatchID:    match.LicenseFileID,
			Percentage: match.Percentage,
		})
	}

	latest, err := p.agentsDao.GetLatestAgentResultForUpload(ctx, bounds.UploadID, detections.AgentNames())
	if err != nil {
		return nil, fmt.Errorf("failed to load latest agent results: %w", err)
	}
	return FilterDetectedLicenses(detections, latest), nil
}

// FilterDetectedLicenses reshapes agent -> run -> license detections into
// license -> agent detections, keeping only each agent's latest run.
// Agents missing from latest, or whose latest run has no matches, contribute nothing.
func FilterDetectedLicenses(detections schema.AgentDetections, latest map[string]int64) schema.LatestDetections {
	result := schema.LatestDetections{}
	for agentName, runs := range detections {
		latestID, ok := latest[agentName]
		if !ok {
			continue
		}
		licenses, ok := runs[latestID]
		if !ok {
			continue
		}
		for shortName, properties := range licenses {
			byAgent, ok := result[shortName]
			if !ok {
				byAgent = make(map[string][]schema.MatchProperty)
				result[shortName] = byAgent
			}
			byAgent[agentName] = properties
		}
	}
	return result
}

// CurrentLicenseDecisions computes the licenses in effect for the item and user.
// Results whose license was removed by a person are returned separately in removed.
func (p *DecisionProcessor) CurrentLicenseDecisions(
	ctx context.Context,
	bounds schema.ItemTreeBounds,
	userID int64,
) (current, removed map[string]schema.LicenseDecisionResult, err error) {
	detected, err := p.LatestAgentDetectedLicenses(ctx, bounds)
	if err != nil {
		return nil, nil, err
	}

	addedEvents, removedEvents, err := p.clearingDao.GetCurrentLicenseDecisions(ctx, userID, bounds.ItemID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load license decisions for item %d: %w", bounds.ItemID, err)
	}

	names := make(map[string]struct{}, len(addedEvents)+len(detected))
	for name := range addedEvents {
		names[name] = struct{}{}
	}
	for name := range detected {
		names[name] = struct{}{}
	}

	current = make(map[string]schema.LicenseDecisionResult)
	removed = make(map[string]schema.LicenseDecisionResult)
	for _, name := range schema.SortedKeys(names) {
		var result schema.LicenseDecisionResult
		if event, ok := addedEvents[name]; ok {
			result.Event = &event
		}

		byAgent := detected[name]
		for _, agentName := range schema.SortedKeys(byAgent) {
			for _, property := range byAgent[agentName] {
				result.AgentEvents = append(result.AgentEvents, schema.AgentLicenseDecisionEvent{
					License:    property.License,
					Agent:      property.Agent,
					MatchID:    property.MatchID,
					Percentage: property.Percentage,
				})
			}
		}

		if !result.HasLicenseDecisionEvent() && !result.HasAgentDecisionEvents() {
			continue
		}
		if _, ok := removedEvents[name]; ok {
			removed[name] = result
		} else {
			current[name] = result
		}
	}
	return current, removed, nil
}

// MakeDecisionFromLastEvents records a clearing decision snapshot for the item when the
// merged state changed since the last snapshot. Types up to DecisionToBeDetermined are ignored.
// DecisionNoLicenseKnown removes every current license and records the snapshot as identified.
func (p *DecisionProcessor) MakeDecisionFromLastEvents(
	ctx context.Context,
	bounds schema.ItemTreeBounds,
	userID int64,
	decisionType schema.DecisionType,
	isGlobal bool,
) (schema.DecisionOutcome, error) {
	itemID := bounds.ItemID
	outcome := schema.DecisionOutcome{ItemID: itemID, UserID: userID, Type: decisionType, IsGlobal: isGlobal}
	if !decisionType.IsActionable() {
		return outcome, nil
	}

	events, err := p.clearingDao.GetRelevantLicenseDecisionEvents(ctx, userID, itemID)
	if err != nil {
		return outcome, fmt.Errorf("failed to load decision events for item %d: %w", itemID, err)
	}
	lastClearing, err := p.clearingDao.GetRelevantClearingDecision(ctx, userID, itemID)
	if err != nil {
		return outcome, fmt.Errorf("failed to load last clearing decision for item %d: %w", itemID, err)
	}

	added, removed, err := p.CurrentLicenseDecisions(ctx, bounds, userID)
	if err != nil {
		return outcome, err
	}

	var lastDecision *time.Time
	if lastClearing != nil {
		lastDecision = &lastClearing.DateAdded
	}
	newerThanLast := func(t time.Time) bool {
		return lastDecision == nil || lastDecision.Before(t)
	}

	insert := changedSinceLastDecision(added, newerThanLast) || changedSinceLastDecision(removed, newerThanLast)

	removedSinceLast := make(map[string]schema.LicenseDecisionEvent)
	for _, event := range events {
		name := event.LicenseShortName()
		if _, stillAdded := added[name]; event.IsRemoved && !stillAdded && newerThanLast(event.DateTime) {
			removedSinceLast[name] = event
			insert = true
		}
	}

	if decisionType == schema.DecisionNoLicenseKnown {
		insert = true
		removedSinceLast = make(map[string]schema.LicenseDecisionEvent, len(added))
		for _, name := range schema.SortedKeys(added) {
			result := added[name]
			if err := p.clearingDao.RemoveLicenseDecision(ctx, itemID, userID, result.LicenseID(), decisionType, result.IsGlobal()); err != nil {
				return outcome, fmt.Errorf("failed to remove license %s from item %d: %w", name, itemID, err)
			}
			removedSinceLast[name] = schema.NewLicenseDecisionEventBuilder().
				SetLicenseRef(result.LicenseRef()).
				Build()
		}
		added = map[string]schema.LicenseDecisionResult{}
		decisionType = schema.DecisionIdentified
		outcome.Type = decisionType
	}

	if !insert {
		return outcome, nil
	}
	if err := p.clearingDao.InsertClearingDecision(ctx, itemID, userID, decisionType, isGlobal, added, removedSinceLast); err != nil {
		return outcome, fmt.Errorf("failed to insert clearing decision for item %d: %w", itemID, err)
	}

	outcome.Inserted = true
	outcome.Added = schema.SortedKeys(added)
	outcome.Removed = schema.SortedKeys(removedSinceLast)
	return outcome, nil
}

// changedSinceLastDecision reports whether any result lacks a human event
// or carries one newer than the last decision.
func changedSinceLastDecision(results map[string]schema.LicenseDecisionResult, newerThanLast func(time.Time) bool) bool {
	for _, result := range results {
		if !result.HasLicenseDecisionEvent() || newerThanLast(result.Event.DateTime) {
			return true
		}
	}
	return false
}
