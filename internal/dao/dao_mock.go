package dao

import (
	"context"

	"github.com/huangsam/clearance/internal/contract"
	"github.com/huangsam/clearance/schema"
	"github.com/stretchr/testify/mock"
)

// MockStoreManager is a mock implementation of StoreManager for testing.
type MockStoreManager struct {
	mock.Mock
}

var _ contract.StoreManager = &MockStoreManager{} // Compile-time check

// GetClearingStore implements the StoreManager interface.
func (m *MockStoreManager) GetClearingStore() contract.ClearingStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.ClearingStore)
	return store
}

// MockClearingStore is a mock implementation of ClearingStore for testing.
type MockClearingStore struct {
	mock.Mock
}

var _ contract.ClearingStore = &MockClearingStore{} // Compile-time check

// GetAgentFileLicenseMatches implements the LicenseDao interface.
func (m *MockClearingStore) GetAgentFileLicenseMatches(ctx context.Context, bounds schema.ItemTreeBounds) ([]schema.LicenseMatch, error) {
	args := m.Called(ctx, bounds)
	matches, _ := args.Get(0).([]schema.LicenseMatch)
	return matches, args.Error(1)
}

// GetLicenseByShortName implements the LicenseDao interface.
func (m *MockClearingStore) GetLicenseByShortName(ctx context.Context, shortName string) (schema.LicenseRef, error) {
	args := m.Called(ctx, shortName)
	return args.Get(0).(schema.LicenseRef), args.Error(1)
}

// GetLatestAgentResultForUpload implements the AgentsDao interface.
func (m *MockClearingStore) GetLatestAgentResultForUpload(ctx context.Context, uploadID int64, agentNames []string) (map[string]int64, error) {
	args := m.Called(ctx, uploadID, agentNames)
	latest, _ := args.Get(0).(map[string]int64)
	return latest, args.Error(1)
}

// GetCurrentLicenseDecisions implements the ClearingDao interface.
func (m *MockClearingStore) GetCurrentLicenseDecisions(ctx context.Context, userID int64, itemID int64) (map[string]schema.LicenseDecisionEvent, map[string]schema.LicenseDecisionEvent, error) {
	args := m.Called(ctx, userID, itemID)
	added, _ := args.Get(0).(map[string]schema.LicenseDecisionEvent)
	removed, _ := args.Get(1).(map[string]schema.LicenseDecisionEvent)
	return added, removed, args.Error(2)
}

// GetRelevantLicenseDecisionEvents implements the ClearingDao interface.
func (m *MockClearingStore) GetRelevantLicenseDecisionEvents(ctx context.Context, userID int64, itemID int64) ([]schema.LicenseDecisionEvent, error) {
	args := m.Called(ctx, userID, itemID)
	events, _ := args.Get(0).([]schema.LicenseDecisionEvent)
	return events, args.Error(1)
}

// GetRelevantClearingDecision implements the ClearingDao interface.
func (m *MockClearingStore) GetRelevantClearingDecision(ctx context.Context, userID int64, itemID int64) (*schema.ClearingDecision, error) {
	args := m.Called(ctx, userID, itemID)
	decision, _ := args.Get(0).(*schema.ClearingDecision)
	return decision, args.Error(1)
}

// AddLicenseDecision implements the ClearingDao interface.
func (m *MockClearingStore) AddLicenseDecision(ctx context.Context, itemID, userID, licenseID int64, isGlobal bool) error {
	args := m.Called(ctx, itemID, userID, licenseID, isGlobal)
	return args.Error(0)
}

// RemoveLicenseDecision implements the ClearingDao interface.
func (m *MockClearingStore) RemoveLicenseDecision(ctx context.Context, itemID, userID, licenseID int64, decisionType schema.DecisionType, isGlobal bool) error {
	args := m.Called(ctx, itemID, userID, licenseID, decisionType, isGlobal)
	return args.Error(0)
}

// InsertClearingDecision implements the ClearingDao interface.
func (m *MockClearingStore) InsertClearingDecision(
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

// GetItemTreeBounds implements the TreeDao interface.
func (m *MockClearingStore) GetItemTreeBounds(ctx context.Context, itemID int64) (schema.ItemTreeBounds, error) {
	args := m.Called(ctx, itemID)
	return args.Get(0).(schema.ItemTreeBounds), args.Error(1)
}

// Import implements the ClearingStore interface.
func (m *MockClearingStore) Import(ctx context.Context, doc schema.ImportDocument) (schema.ImportSummary, error) {
	args := m.Called(ctx, doc)
	return args.Get(0).(schema.ImportSummary), args.Error(1)
}

// ListClearingDecisions implements the ClearingStore interface.
func (m *MockClearingStore) ListClearingDecisions(ctx context.Context) ([]schema.ClearingDecision, error) {
	args := m.Called(ctx)
	decisions, _ := args.Get(0).([]schema.ClearingDecision)
	return decisions, args.Error(1)
}

// ListDecisionEvents implements the ClearingStore interface.
func (m *MockClearingStore) ListDecisionEvents(ctx context.Context) ([]schema.LicenseDecisionEvent, error) {
	args := m.Called(ctx)
	events, _ := args.Get(0).([]schema.LicenseDecisionEvent)
	return events, args.Error(1)
}

// GetStatus implements the ClearingStore interface.
func (m *MockClearingStore) GetStatus(ctx context.Context) (schema.StoreStatus, error) {
	args := m.Called(ctx)
	return args.Get(0).(schema.StoreStatus), args.Error(1)
}

// Close implements the ClearingStore interface.
func (m *MockClearingStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
