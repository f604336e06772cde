package dao

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/huangsam/clearance/schema"
)

// GetAgentFileLicenseMatches returns every agent match on items inside the bounds.
func (s *ClearingStoreImpl) GetAgentFileLicenseMatches(ctx context.Context, bounds schema.ItemTreeBounds) ([]schema.LicenseMatch, error) {
	query := s.rebind(`
		SELECT lm.match_id, l.license_id, l.short_name, l.full_name,
		       a.agent_id, a.agent_name, a.agent_revision, lm.percentage
		FROM license_matches lm
		JOIN upload_tree ut ON ut.item_id = lm.item_id
		JOIN licenses l ON l.license_id = lm.license_id
		JOIN agents a ON a.agent_id = lm.agent_id
		WHERE ut.upload_id = ? AND ut.lft >= ? AND ut.rgt <= ?
		ORDER BY lm.match_id
	`)

	rows, err := s.db.QueryContext(ctx, query, bounds.UploadID, bounds.Left, bounds.Right)
	if err != nil {
		return nil, fmt.Errorf("failed to query license matches: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var matches []schema.LicenseMatch
	for rows.Next() {
		var m schema.LicenseMatch
		var percentage sql.NullInt64
		if err := rows.Scan(
			&m.LicenseFileID, &m.License.ID, &m.License.ShortName, &m.License.FullName,
			&m.Agent.AgentID, &m.Agent.AgentName, &m.Agent.AgentRevision, &percentage,
		); err != nil {
			return nil, fmt.Errorf("failed to scan license match: %w", err)
		}
		if percentage.Valid {
			m.Percentage = schema.IntPtr(int(percentage.Int64))
		}
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read license matches: %w", err)
	}
	return matches, nil
}

// GetLicenseByShortName resolves a license by its short name.
func (s *ClearingStoreImpl) GetLicenseByShortName(ctx context.Context, shortName string) (schema.LicenseRef, error) {
	return s.licenseByShortName(ctx, s.db, shortName)
}

func (s *ClearingStoreImpl) licenseByShortName(ctx context.Context, q queryer, shortName string) (schema.LicenseRef, error) {
	query := s.rebind(`SELECT license_id, short_name, full_name FROM licenses WHERE short_name = ?`)

	var ref schema.LicenseRef
	err := q.QueryRowContext(ctx, query, shortName).Scan(&ref.ID, &ref.ShortName, &ref.FullName)
	if errors.Is(err, sql.ErrNoRows) {
		return schema.LicenseRef{}, fmt.Errorf("license %q not found: %w", shortName, err)
	}
	if err != nil {
		return schema.LicenseRef{}, fmt.Errorf("failed to query license %q: %w", shortName, err)
	}
	return ref, nil
}

// GetLatestAgentResultForUpload returns the highest successful run id per agent name.
func (s *ClearingStoreImpl) GetLatestAgentResultForUpload(ctx context.Context, uploadID int64, agentNames []string) (map[string]int64, error) {
	latest := make(map[string]int64)
	if len(agentNames) == 0 {
		return latest, nil
	}

	query := s.rebind(`
		SELECT a.agent_name, MAX(a.agent_id)
		FROM agent_results ar
		JOIN agents a ON a.agent_id = ar.agent_id
		WHERE ar.upload_id = ? AND ar.success = ? AND a.agent_name IN (` + inClause(len(agentNames)) + `)
		GROUP BY a.agent_name
	`)

	args := make([]any, 0, len(agentNames)+2)
	args = append(args, uploadID, true)
	for _, name := range agentNames {
		args = append(args, name)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query agent results: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var name string
		var agentID int64
		if err := rows.Scan(&name, &agentID); err != nil {
			return nil, fmt.Errorf("failed to scan agent result: %w", err)
		}
		latest[name] = agentID
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read agent results: %w", err)
	}
	return latest, nil
}

// GetItemTreeBounds returns the nested-set bounds of a tree item.
func (s *ClearingStoreImpl) GetItemTreeBounds(ctx context.Context, itemID int64) (schema.ItemTreeBounds, error) {
	query := s.rebind(`SELECT item_id, upload_id, lft, rgt FROM upload_tree WHERE item_id = ?`)

	var b schema.ItemTreeBounds
	err := s.db.QueryRowContext(ctx, query, itemID).Scan(&b.ItemID, &b.UploadID, &b.Left, &b.Right)
	if errors.Is(err, sql.ErrNoRows) {
		return schema.ItemTreeBounds{}, fmt.Errorf("item %d not found: %w", itemID, err)
	}
	if err != nil {
		return schema.ItemTreeBounds{}, fmt.Errorf("failed to query item %d: %w", itemID, err)
	}
	return b, nil
}
