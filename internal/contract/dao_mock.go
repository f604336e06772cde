package contract

import (
	"context"

	"github.com/huangsam/clearance/schema"
	"github.com/stretchr/testify/mock"
)

// MockLicenseDao is a mock implementation of LicenseDao for testing.
type MockLicenseDao struct {
	mock.Mock
}

var _ LicenseDao = &MockLicenseDao{} // Compile-time check

// GetAgentFileLicenseMatches implements the LicenseDao interface.
func (m *MockLicenseDao) GetAgentFileLicenseMatches(ctx context.Context, bounds schema.ItemTreeBounds) ([]schema.LicenseMatch, error) {
	args := m.Called(ctx, bounds)
	matches, _ := args.Get(0).([]schema.LicenseMatch)
	return matches, args.Error(1)
}

// GetLicenseByShortName implements the LicenseDao interface.
func (m *MockLicenseDao) GetLicenseByShortName(ctx context.Context, shortName string) (schema.LicenseRef, error) {
	args := m.Called(ctx, shortName)
	return args.Get(0).(schema.LicenseRef), args.Error(1)
}

// MockAgentsDao is a mock implementation of AgentsDao for testing.
type MockAgentsDao struct {
	mock.Mock
}

var _ AgentsDao = &MockAgentsDao{} // Compile-time check

// GetLatestAgentResultForUpload implements the AgentsDao interface.
func (m *MockAgentsDao) GetLatestAgentResultForUpload(ctx context.Context, uploadID int64, agentNames []string) (map[string]int64, error) {
	args := m.Called(ctx, uploadID, agentNames)
	latest, _ := args.Get(0).(map[string]int64)
	return latest, args.Error(1)
}

// MockClearingDao is a mock implementation of ClearingDao for testing.
type MockClearingDao struct {
	mock.Mock
}

var _ ClearingDao = &MockClearingDao{} // Compile-time check

// GetCurrentLicenseDecisions implements the ClearingDao interface.
func (m *MockClearingDao) GetCurrentLicenseDecisions(ctx context.Context, userID int64, itemID int64) (map[string]schema.LicenseDecisionEvent, map[string]schema.LicenseDecisionEvent, error) {
	args := m.Called(ctx, userID, itemID)
	added, _ := args.Get(0).(map[string]schema.LicenseDecisionEvent)
	removed, _ := args.Get(1).(map[string]schema.LicenseDecisionEvent)
	return added, removed, args.Error(2)
}

// GetRelevantLicenseDecisionEvents implements the ClearingDao interface.
func (m *MockClearingDao) GetRelevantLicenseDecisionEvents(ctx context.Context, userID int64, itemID int64) ([]schema.LicenseDecisionEvent, error) {
	args := m.Called(ctx, userID, itemID)
	events, _ := args.Get(0).([]schema.LicenseDecisionEvent)
	return events, args.Error(1)
}

// GetRelevantClearingDecision implements the ClearingDao interface.
func (m *MockClearingDao) GetRelevantClearingDecision(ctx context.Context, userID int64, itemID int64) (*schema.ClearingDecision, error) {
	args := m.Called(ctx, userID, itemID)
	decision, _ := args.Get(0).(*schema.ClearingDecision)
	return decision, args.Error(1)
}

// AddLicenseDecision implements the ClearingDao interface.
func (m *MockClearingDao) AddLicenseDecision(ctx context.Context, itemID, userID, licenseID int64, isGlobal bool) error {
	args := m.Called(ctx, itemID, userID, licenseID, isGlobal)
	return args.Error(0)
}

// RemoveLicenseDecision implements the ClearingDao interface.
func (m *MockClearingDao) RemoveLicenseDecision(ctx context.Context, itemID, userID, licenseID int64, decisionType schema.DecisionType, isGlobal bool) error {
	args := m.Called(ctx, itemID, userID, licenseID, decisionType, isGlobal)
	return args.Error(0)
}

// InsertClearingDecision implements the ClearingDao interface.
func (m *MockClearingDao) InsertClearingDecision(
	ctx context.Context,
	itemID, userID int64,
	decisionType schema.DecisionType,
	isGlobal bool,
	added map[string]schema.LicenseDecisionResult,
	removed map[string]schema.LicenseDecisionEvent,
) error {
	args := m.Called(ctx, itemID, userID, decisionType, isGlobal, added, removed)
	return args.Error(0)
}
