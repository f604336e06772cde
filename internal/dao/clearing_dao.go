package dao

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/huangsam/clearance/schema"
)

// eventColumns is the select list understood by scanEvents.
const eventColumns = `
	e.event_id, e.item_id, e.user_id, l.license_id, l.short_name, l.full_name,
	e.event_type, e.is_global, e.is_removed, e.report_info, e.comment_text, e.date_added`

// eventRecord is one row to write into license_decision_events.
type eventRecord struct {
	ItemID       int64
	UserID       int64
	LicenseID    int64
	EventType    schema.EventType
	DecisionType schema.DecisionType
	IsGlobal     bool
	IsRemoved    bool
	Comment      string
	DateTime     time.Time
}

// GetCurrentLicenseDecisions returns the latest event per license for the user and item,
// split by whether that event added or removed the license.
func (s *ClearingStoreImpl) GetCurrentLicenseDecisions(ctx context.Context, userID int64, itemID int64) (map[string]schema.LicenseDecisionEvent, map[string]schema.LicenseDecisionEvent, error) {
	events, err := s.GetRelevantLicenseDecisionEvents(ctx, userID, itemID)
	if err != nil {
		return nil, nil, err
	}

	latest := make(map[string]schema.LicenseDecisionEvent)
	for _, event := range events {
		latest[event.LicenseShortName()] = event
	}

	added := make(map[string]schema.LicenseDecisionEvent)
	removed := make(map[string]schema.LicenseDecisionEvent)
	for name, event := range latest {
		if event.IsRemoved {
			removed[name] = event
		} else {
			added[name] = event
		}
	}
	return added, removed, nil
}

// GetRelevantLicenseDecisionEvents returns the user's events on the item, oldest first.
func (s *ClearingStoreImpl) GetRelevantLicenseDecisionEvents(ctx context.Context, userID int64, itemID int64) ([]schema.LicenseDecisionEvent, error) {
	query := s.rebind(`
		SELECT ` + eventColumns + `
		FROM license_decision_events e
		JOIN licenses l ON l.license_id = e.license_id
		WHERE e.user_id = ? AND e.item_id = ?
		ORDER BY e.date_added, e.event_id
	`)

	return s.queryEvents(ctx, query, userID, itemID)
}

// ListDecisionEvents returns every license decision event ordered by id.
func (s *ClearingStoreImpl) ListDecisionEvents(ctx context.Context) ([]schema.LicenseDecisionEvent, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM license_decision_events e
		JOIN licenses l ON l.license_id = e.license_id
		ORDER BY e.event_id
	`
	return s.queryEvents(ctx, query)
}

func (s *ClearingStoreImpl) queryEvents(ctx context.Context, query string, args ...any) ([]schema.LicenseDecisionEvent, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query decision events: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var events []schema.LicenseDecisionEvent
	for rows.Next() {
		var e schema.LicenseDecisionEvent
		var at dbTime
		if err := rows.Scan(
			&e.EventID, &e.ItemID, &e.UserID, &e.License.ID, &e.License.ShortName, &e.License.FullName,
			&e.EventType, &e.IsGlobal, &e.IsRemoved, &e.ReportInfo, &e.Comment, &at,
		); err != nil {
			return nil, fmt.Errorf("failed to scan decision event: %w", err)
		}
		e.DateTime = at.Time
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read decision events: %w", err)
	}
	return events, nil
}

// GetRelevantClearingDecision returns the user's latest clearing decision on the item, or nil.
func (s *ClearingStoreImpl) GetRelevantClearingDecision(ctx context.Context, userID int64, itemID int64) (*schema.ClearingDecision, error) {
	query := s.rebind(`
		SELECT decision_id, item_id, user_id, decision_type, is_global, date_added
		FROM clearing_decisions
		WHERE user_id = ? AND item_id = ?
		ORDER BY date_added DESC, decision_id DESC
		LIMIT 1
	`)

	var d schema.ClearingDecision
	var at dbTime
	err := s.db.QueryRowContext(ctx, query, userID, itemID).Scan(&d.DecisionID, &d.ItemID, &d.UserID, &d.Type, &d.IsGlobal, &at)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query clearing decision: %w", err)
	}
	d.DateAdded = at.Time

	licenses, err := s.decisionLicenses(ctx, s.rebind(`WHERE cdl.decision_id = ?`), d.DecisionID)
	if err != nil {
		return nil, err
	}
	d.Added = licenses[d.DecisionID].added
	d.Removed = licenses[d.DecisionID].removed
	return &d, nil
}

// ListClearingDecisions returns every clearing decision ordered by id.
func (s *ClearingStoreImpl) ListClearingDecisions(ctx context.Context) ([]schema.ClearingDecision, error) {
	query := `
		SELECT decision_id, item_id, user_id, decision_type, is_global, date_added
		FROM clearing_decisions
		ORDER BY decision_id
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query clearing decisions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var decisions []schema.ClearingDecision
	for rows.Next() {
		var d schema.ClearingDecision
		var at dbTime
		if err := rows.Scan(&d.DecisionID, &d.ItemID, &d.UserID, &d.Type, &d.IsGlobal, &at); err != nil {
			return nil, fmt.Errorf("failed to scan clearing decision: %w", err)
		}
		d.DateAdded = at.Time
		decisions = append(decisions, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read clearing decisions: %w", err)
	}

	licenses, err := s.decisionLicenses(ctx, "")
	if err != nil {
		return nil, err
	}
	for i := range decisions {
		decisions[i].Added = licenses[decisions[i].DecisionID].added
		decisions[i].Removed = licenses[decisions[i].DecisionID].removed
	}
	return decisions, nil
}

// decisionLicenseSet holds the licenses recorded with one clearing decision.
type decisionLicenseSet struct {
	added   []schema.LicenseRef
	removed []schema.LicenseRef
}

// decisionLicenses loads snapshot licenses keyed by decision id, filtered by where.
func (s *ClearingStoreImpl) decisionLicenses(ctx context.Context, where string, args ...any) (map[int64]decisionLicenseSet, error) {
	query := `
		SELECT cdl.decision_id, l.license_id, l.short_name, l.full_name, cdl.is_removed
		FROM clearing_decision_licenses cdl
		JOIN licenses l ON l.license_id = cdl.license_id
		` + where + `
		ORDER BY cdl.decision_id, l.short_name
	`
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query clearing decision licenses: %w", err)
	}
	defer func() { _ = rows.Close() }()

	sets := make(map[int64]decisionLicenseSet)
	for rows.Next() {
		var decisionID int64
		var ref schema.LicenseRef
		var removed bool
		if err := rows.Scan(&decisionID, &ref.ID, &ref.ShortName, &ref.FullName, &removed); err != nil {
			return nil, fmt.Errorf("failed to scan clearing decision license: %w", err)
		}
		set := sets[decisionID]
		if removed {
			set.removed = append(set.removed, ref)
		} else {
			set.added = append(set.added, ref)
		}
		sets[decisionID] = set
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read clearing decision licenses: %w", err)
	}
	return sets, nil
}

// AddLicenseDecision records that the user added the license to the item.
func (s *ClearingStoreImpl) AddLicenseDecision(ctx context.Context, itemID, userID, licenseID int64, isGlobal bool) error {
	return s.insertEvent(ctx, s.db, eventRecord{
		ItemID:    itemID,
		UserID:    userID,
		LicenseID: licenseID,
		EventType: schema.UserEvent,
		IsGlobal:  isGlobal,
		DateTime:  time.Now(),
	})
}

// RemoveLicenseDecision records that the license was removed from the item.
func (s *ClearingStoreImpl) RemoveLicenseDecision(ctx context.Context, itemID, userID, licenseID int64, decisionType schema.DecisionType, isGlobal bool) error {
	return s.insertEvent(ctx, s.db, eventRecord{
		ItemID:       itemID,
		UserID:       userID,
		LicenseID:    licenseID,
		EventType:    schema.UserEvent,
		DecisionType: decisionType,
		IsGlobal:     isGlobal,
		IsRemoved:    true,
		DateTime:     time.Now(),
	})
}

func (s *ClearingStoreImpl) insertEvent(ctx context.Context, q queryer, rec eventRecord) error {
	query := s.rebind(`
		INSERT INTO license_decision_events
			(item_id, user_id, license_id, event_type, decision_type, is_global, is_removed, report_info, comment_text, date_added)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	_, err := q.ExecContext(ctx, query,
		rec.ItemID, rec.UserID, rec.LicenseID, int(rec.EventType), int(rec.DecisionType),
		rec.IsGlobal, rec.IsRemoved, "", rec.Comment, formatTime(rec.DateTime, s.backend),
	)
	if err != nil {
		return fmt.Errorf("failed to insert decision event for license %d on item %d: %w", rec.LicenseID, rec.ItemID, err)
	}
	return nil
}

// InsertClearingDecision persists a snapshot with its added and removed licenses in one transaction.
func (s *ClearingStoreImpl) InsertClearingDecision(
	ctx context.Context,
	itemID, userID int64,
	decisionType schema.DecisionType,
	isGlobal bool,
	added map[string]schema.LicenseDecisionResult,
	removed map[string]schema.LicenseDecisionEvent,
) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		decisionID, err := s.insertReturningID(ctx, tx, `
			INSERT INTO clearing_decisions (item_id, user_id, decision_type, is_global, date_added)
			VALUES (?, ?, ?, ?, ?)`,
			"decision_id",
			itemID, userID, int(decisionType), isGlobal, formatTime(time.Now(), s.backend),
		)
		if err != nil {
			return fmt.Errorf("failed to insert clearing decision for item %d: %w", itemID, err)
		}

		query := s.rebind(`INSERT INTO clearing_decision_licenses (decision_id, license_id, is_removed) VALUES (?, ?, ?)`)
		for _, name := range schema.SortedKeys(added) {
			licenseID := added[name].LicenseID()
			if licenseID == 0 {
				continue
			}
			if _, err := tx.ExecContext(ctx, query, decisionID, licenseID, false); err != nil {
				return fmt.Errorf("failed to record added license %s: %w", name, err)
			}
		}
		for _, name := range schema.SortedKeys(removed) {
			licenseID := removed[name].License.ID
			if licenseID == 0 {
				continue
			}
			if _, err := tx.ExecContext(ctx, query, decisionID, licenseID, true); err != nil {
				return fmt.Errorf("failed to record removed license %s: %w", name, err)
			}
		}
		return nil
	})
}
