package dao

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/huangsam/clearance/core"
	"github.com/huangsam/clearance/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClearingStore_UnsupportedBackend(t *testing.T) {
	_, err := NewClearingStore("oracle", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported backend")
}

func TestClearingStore_ItemTreeBounds(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	root, err := store.GetItemTreeBounds(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, schema.ItemTreeBounds{ItemID: 100, UploadID: 1, Left: 1, Right: 8}, root)

	file, err := store.GetItemTreeBounds(ctx, 103)
	require.NoError(t, err)
	assert.True(t, file.IsFile())
	assert.True(t, root.ContainsBounds(file))

	_, err = store.GetItemTreeBounds(ctx, 999)
	require.Error(t, err)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestClearingStore_LicenseMatches(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	root, err := store.GetItemTreeBounds(ctx, 100)
	require.NoError(t, err)
	matches, err := store.GetAgentFileLicenseMatches(ctx, root)
	require.NoError(t, err)
	require.Len(t, matches, 4)
	assert.Equal(t, "GPL-2.0", matches[0].License.ShortName)
	assert.Equal(t, int64(10), matches[0].Agent.AgentID)
	assert.Equal(t, "4.0", matches[0].Agent.AgentRevision)
	assert.Nil(t, matches[0].Percentage)

	dir, err := store.GetItemTreeBounds(ctx, 102)
	require.NoError(t, err)
	matches, err = store.GetAgentFileLicenseMatches(ctx, dir)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, schema.NoLicenseFound, matches[0].License.ShortName)
	assert.Equal(t, "Apache-2.0", matches[1].License.ShortName)
	require.NotNil(t, matches[1].Percentage)
	assert.Equal(t, 88, *matches[1].Percentage)
}

func TestClearingStore_LicenseByShortName(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	ref, err := store.GetLicenseByShortName(ctx, "MIT")
	require.NoError(t, err)
	assert.Equal(t, schema.LicenseRef{ID: 1, ShortName: "MIT", FullName: "MIT License"}, ref)

	_, err = store.GetLicenseByShortName(ctx, "BSD-4-Clause")
	require.Error(t, err)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestClearingStore_LatestAgentResults(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	latest, err := store.GetLatestAgentResultForUpload(ctx, 1, []string{"monk", "nomos"})
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"nomos": 11}, latest)

	latest, err = store.GetLatestAgentResultForUpload(ctx, 1, nil)
	require.NoError(t, err)
	assert.Empty(t, latest)

	latest, err = store.GetLatestAgentResultForUpload(ctx, 2, []string{"nomos"})
	require.NoError(t, err)
	assert.Empty(t, latest)
}

func TestClearingStore_DecisionEvents(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	events, err := store.GetRelevantLicenseDecisionEvents(ctx, 1, 100)
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, "Apache-2.0", events[0].LicenseShortName())
	assert.True(t, events[2].IsRemoved)
	assert.Equal(t, "not shipped", events[2].Comment)
	assert.Equal(t, time.Date(2024, 1, 3, 10, 0, 0, 0, time.UTC), events[2].DateTime)
	assert.True(t, events[0].IsGlobal)
	assert.Equal(t, schema.UserEvent, events[0].EventType)

	added, removed, err := store.GetCurrentLicenseDecisions(ctx, 1, 100)
	require.NoError(t, err)
	assert.Equal(t, []string{"Apache-2.0"}, schema.SortedKeys(added))
	assert.Equal(t, []string{"GPL-2.0"}, schema.SortedKeys(removed))

	events, err = store.GetRelevantLicenseDecisionEvents(ctx, 2, 100)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestClearingStore_AddAndRemoveLicenseDecision(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.AddLicenseDecision(ctx, 103, 1, 1, false))
	added, removed, err := store.GetCurrentLicenseDecisions(ctx, 1, 103)
	require.NoError(t, err)
	require.Contains(t, added, "MIT")
	assert.False(t, added["MIT"].IsGlobal)
	assert.Empty(t, removed)

	require.NoError(t, store.RemoveLicenseDecision(ctx, 103, 1, 1, schema.DecisionUnset, true))
	added, removed, err = store.GetCurrentLicenseDecisions(ctx, 1, 103)
	require.NoError(t, err)
	assert.Empty(t, added)
	assert.Contains(t, removed, "MIT")

	events, err := store.GetRelevantLicenseDecisionEvents(ctx, 1, 103)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.False(t, events[0].IsRemoved)
	assert.True(t, events[1].IsRemoved)
}

func TestClearingStore_InsertClearingDecision(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	last, err := store.GetRelevantClearingDecision(ctx, 1, 100)
	require.NoError(t, err)
	assert.Nil(t, last)

	added := map[string]schema.LicenseDecisionResult{
		"MIT": {AgentEvents: []schema.AgentLicenseDecisionEvent{{License: schema.LicenseRef{ID: 1, ShortName: "MIT"}}}},
	}
	removed := map[string]schema.LicenseDecisionEvent{
		"GPL-2.0": {License: schema.LicenseRef{ID: 2, ShortName: "GPL-2.0"}},
	}
	before := time.Now().Add(-time.Second)
	require.NoError(t, store.InsertClearingDecision(ctx, 100, 1, schema.DecisionIdentified, true, added, removed))

	last, err = store.GetRelevantClearingDecision(ctx, 1, 100)
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.Equal(t, schema.DecisionIdentified, last.Type)
	assert.True(t, last.IsGlobal)
	assert.True(t, last.DateAdded.After(before))
	assert.Equal(t, []schema.LicenseRef{{ID: 1, ShortName: "MIT", FullName: "MIT License"}}, last.Added)
	require.Len(t, last.Removed, 1)
	assert.Equal(t, "GPL-2.0", last.Removed[0].ShortName)

	require.NoError(t, store.InsertClearingDecision(ctx, 100, 1, schema.DecisionIrrelevant, false, nil, nil))
	last, err = store.GetRelevantClearingDecision(ctx, 1, 100)
	require.NoError(t, err)
	assert.Equal(t, schema.DecisionIrrelevant, last.Type)
	assert.Empty(t, last.Added)

	decisions, err := store.ListClearingDecisions(ctx)
	require.NoError(t, err)
	require.Len(t, decisions, 2)
	assert.Len(t, decisions[0].Added, 1)
	assert.Len(t, decisions[0].Removed, 1)
	assert.Empty(t, decisions[1].Added)
}

func TestClearingStore_ProcessorRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	processor := core.NewDecisionProcessor(store, store, store)

	root, err := store.GetItemTreeBounds(ctx, 100)
	require.NoError(t, err)

	current, removed, err := processor.CurrentLicenseDecisions(ctx, root, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"Apache-2.0", "MIT"}, schema.SortedKeys(current))
	// GPL-2.0 was only detected by the superseded nomos run and never added, so it is skipped.
	assert.Empty(t, removed)
	require.Len(t, current["MIT"].AgentEvents, 1)
	assert.Equal(t, int64(11), current["MIT"].AgentEvents[0].Agent.AgentID)

	outcome, err := processor.MakeDecisionFromLastEvents(ctx, root, 1, schema.DecisionIdentified, true)
	require.NoError(t, err)
	assert.True(t, outcome.Inserted)
	assert.Equal(t, []string{"Apache-2.0", "MIT"}, outcome.Added)
	assert.Equal(t, []string{"GPL-2.0"}, outcome.Removed)

	last, err := store.GetRelevantClearingDecision(ctx, 1, 100)
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.Len(t, last.Added, 2)
	assert.Len(t, last.Removed, 1)
}

func TestClearingStore_ProcessorSkipsUnchanged(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	processor := core.NewDecisionProcessor(store, store, store)

	file, err := store.GetItemTreeBounds(ctx, 103)
	require.NoError(t, err)
	require.NoError(t, store.AddLicenseDecision(ctx, 103, 1, 1, true))

	outcome, err := processor.MakeDecisionFromLastEvents(ctx, file, 1, schema.DecisionIdentified, true)
	require.NoError(t, err)
	assert.True(t, outcome.Inserted)
	assert.Equal(t, []string{"MIT"}, outcome.Added)

	outcome, err = processor.MakeDecisionFromLastEvents(ctx, file, 1, schema.DecisionIdentified, true)
	require.NoError(t, err)
	assert.False(t, outcome.Inserted)

	decisions, err := store.ListClearingDecisions(ctx)
	require.NoError(t, err)
	assert.Len(t, decisions, 1)
}

func TestClearingStore_ProcessorNoLicenseKnown(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	processor := core.NewDecisionProcessor(store, store, store)

	root, err := store.GetItemTreeBounds(ctx, 100)
	require.NoError(t, err)

	outcome, err := processor.MakeDecisionFromLastEvents(ctx, root, 1, schema.DecisionNoLicenseKnown, true)
	require.NoError(t, err)
	assert.True(t, outcome.Inserted)
	assert.Equal(t, schema.DecisionIdentified, outcome.Type)
	assert.Empty(t, outcome.Added)
	assert.Equal(t, []string{"Apache-2.0", "MIT"}, outcome.Removed)

	added, removed, err := store.GetCurrentLicenseDecisions(ctx, 1, 100)
	require.NoError(t, err)
	assert.Empty(t, added)
	assert.Equal(t, []string{"Apache-2.0", "GPL-2.0", "MIT"}, schema.SortedKeys(removed))

	last, err := store.GetRelevantClearingDecision(ctx, 1, 100)
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.Equal(t, schema.DecisionIdentified, last.Type)
	assert.Empty(t, last.Added)
	assert.Len(t, last.Removed, 2)
}

func TestClearingStore_GetStatus(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	status, err := store.GetStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", status.Backend)
	assert.True(t, status.Connected)
	assert.Equal(t, uint(2), status.SchemaVersion)
	assert.Equal(t, 0, status.TotalDecisions)
	assert.Equal(t, 3, status.TotalEvents)
	assert.Equal(t, time.Date(2024, 1, 3, 10, 0, 0, 0, time.UTC), status.LastEventTime)
	assert.Equal(t, int64(4), status.TableSizes[licensesTable])
	assert.Equal(t, int64(4), status.TableSizes[uploadTreeTable])
	assert.Equal(t, int64(3), status.TableSizes[agentsTable])
	assert.Equal(t, int64(4), status.TableSizes[licenseMatchesTable])
	assert.Len(t, status.TableSizes, len(storeTables))
}

func TestRebind(t *testing.T) {
	pg := &ClearingStoreImpl{backend: schema.PostgreSQLBackend}
	assert.Equal(t, "SELECT * FROM t WHERE a = $1 AND b IN ($2, $3)", pg.rebind("SELECT * FROM t WHERE a = ? AND b IN (?, ?)"))

	lite := &ClearingStoreImpl{backend: schema.SQLiteBackend}
	assert.Equal(t, "SELECT ? ", lite.rebind("SELECT ? "))
}

func TestInClause(t *testing.T) {
	assert.Equal(t, "?", inClause(1))
	assert.Equal(t, "?, ?, ?", inClause(3))
}

func TestQuoteTableName(t *testing.T) {
	assert.Equal(t, "`licenses`", quoteTableName("licenses", schema.MySQLBackend))
	assert.Equal(t, `"licenses"`, quoteTableName("licenses", schema.PostgreSQLBackend))
	assert.Equal(t, `"licenses"`, quoteTableName("licenses", schema.SQLiteBackend))
}

func TestFormatTimeAndScan(t *testing.T) {
	at := time.Date(2024, 2, 3, 4, 5, 6, 123456789, time.FixedZone("CET", 3600))

	text := formatTime(at, schema.SQLiteBackend)
	assert.Equal(t, "2024-02-03T03:05:06.123456Z", text)

	native, ok := formatTime(at, schema.PostgreSQLBackend).(time.Time)
	require.True(t, ok)
	assert.Equal(t, time.UTC, native.Location())
	assert.Equal(t, 123456000, native.Nanosecond())

	var d dbTime
	require.NoError(t, d.Scan(text))
	assert.True(t, d.Time.Equal(at.Truncate(time.Microsecond)))

	require.NoError(t, d.Scan([]byte("2024-02-03 03:05:06.5")))
	assert.Equal(t, 500000000, d.Time.Nanosecond())

	require.NoError(t, d.Scan(nil))
	assert.True(t, d.Time.IsZero())

	assert.Error(t, d.Scan(42))
	assert.Error(t, d.Scan("yesterday"))
}

func TestMySQLDSN(t *testing.T) {
	dsn, err := mysqlDSN("user:pass@tcp(localhost:3306)/clearance")
	require.NoError(t, err)
	assert.Contains(t, dsn, "parseTime=true")
	assert.Contains(t, dsn, "multiStatements=true")

	_, err = mysqlDSN("not a dsn")
	assert.Error(t, err)
}
