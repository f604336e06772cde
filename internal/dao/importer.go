package dao

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/huangsam/clearance/internal/contract"
	"github.com/huangsam/clearance/schema"
	"gopkg.in/yaml.v3"
)

// treeRow is one upload tree item with its computed nested-set bounds.
type treeRow struct {
	ItemID   int64
	ParentID int64
	Name     string
	Left     int64
	Right    int64
}

// LoadImportDocument reads an upload description from a YAML file.
func LoadImportDocument(path string) (schema.ImportDocument, error) {
	f, err := os.Open(path)
	if err != nil {
		return schema.ImportDocument{}, fmt.Errorf("failed to open import file: %w", err)
	}
	defer func() { _ = f.Close() }()
	return ReadImportDocument(f)
}

// ReadImportDocument decodes an upload description and checks it for consistency.
func ReadImportDocument(r io.Reader) (schema.ImportDocument, error) {
	var doc schema.ImportDocument
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&doc); err != nil {
		return schema.ImportDocument{}, fmt.Errorf("failed to decode import document: %w", err)
	}
	if err := validateImportDocument(doc); err != nil {
		return schema.ImportDocument{}, err
	}
	return doc, nil
}

// validateImportDocument checks ids and references before anything is written.
func validateImportDocument(doc schema.ImportDocument) error {
	if doc.Upload.ID <= 0 {
		return errors.New("upload id must be a positive integer")
	}

	items := make(map[int64]struct{})
	var walk func(item schema.ImportItem) error
	walk = func(item schema.ImportItem) error {
		if item.ID <= 0 {
			return fmt.Errorf("item %q must have a positive id", item.Name)
		}
		if _, ok := items[item.ID]; ok {
			return fmt.Errorf("duplicate item id %d", item.ID)
		}
		items[item.ID] = struct{}{}
		for _, child := range item.Children {
			if err := walk(child); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(doc.Upload.Root); err != nil {
		return err
	}

	for _, license := range doc.Licenses {
		if license.ID <= 0 || license.ShortName == "" {
			return fmt.Errorf("license %q needs a positive id and a short name", license.ShortName)
		}
	}

	for _, run := range doc.Runs {
		if run.AgentID <= 0 || run.Agent == "" {
			return fmt.Errorf("agent run %q needs a positive agent_id and an agent name", run.Agent)
		}
		for _, match := range run.Matches {
			if _, ok := items[match.Item]; !ok {
				return fmt.Errorf("match of %s references unknown item %d", match.License, match.Item)
			}
			if match.License == "" {
				return fmt.Errorf("match on item %d has no license", match.Item)
			}
		}
	}

	for _, event := range doc.Events {
		if _, ok := items[event.Item]; !ok {
			return fmt.Errorf("event for %s references unknown item %d", event.License, event.Item)
		}
		if event.License == "" {
			return fmt.Errorf("event on item %d has no license", event.Item)
		}
		if _, err := schema.ParseEventType(event.Type); err != nil {
			return fmt.Errorf("event for %s on item %d: %w", event.License, event.Item, err)
		}
		if event.User < 0 {
			return fmt.Errorf("event on item %d has invalid user %d", event.Item, event.User)
		}
	}
	return nil
}

// flattenTree numbers the tree depth-first, giving every item its nested-set bounds.
func flattenTree(root schema.ImportItem) []treeRow {
	var rows []treeRow
	var counter int64
	var visit func(item schema.ImportItem, parentID int64)
	visit = func(item schema.ImportItem, parentID int64) {
		counter++
		idx := len(rows)
		rows = append(rows, treeRow{ItemID: item.ID, ParentID: parentID, Name: item.Name, Left: counter})
		for _, child := range item.Children {
			visit(child, item.ID)
		}
		counter++
		rows[idx].Right = counter
	}
	visit(root, 0)
	return rows
}

// Import loads an upload description into the store in a single transaction.
func (s *ClearingStoreImpl) Import(ctx context.Context, doc schema.ImportDocument) (schema.ImportSummary, error) {
	if err := validateImportDocument(doc); err != nil {
		return schema.ImportSummary{}, err
	}

	summary := schema.ImportSummary{UploadID: doc.Upload.ID}
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		licenseIDs := make(map[string]int64)
		for _, license := range doc.Licenses {
			inserted, err := s.ensureLicense(ctx, tx, license)
			if err != nil {
				return err
			}
			if inserted {
				summary.Licenses++
			}
			licenseIDs[license.ShortName] = license.ID
		}
		resolve := func(shortName string) (int64, error) {
			if id, ok := licenseIDs[shortName]; ok {
				return id, nil
			}
			ref, err := s.licenseByShortName(ctx, tx, shortName)
			if err != nil {
				return 0, err
			}
			licenseIDs[shortName] = ref.ID
			return ref.ID, nil
		}

		if _, err := tx.ExecContext(ctx, s.rebind(`INSERT INTO uploads (upload_id, upload_name) VALUES (?, ?)`),
			doc.Upload.ID, doc.Upload.Name); err != nil {
			return fmt.Errorf("failed to insert upload %d: %w", doc.Upload.ID, err)
		}

		treeQuery := s.rebind(`INSERT INTO upload_tree (item_id, upload_id, parent_id, item_name, lft, rgt) VALUES (?, ?, ?, ?, ?, ?)`)
		for _, row := range flattenTree(doc.Upload.Root) {
			parent := sql.NullInt64{Int64: row.ParentID, Valid: row.ParentID > 0}
			if _, err := tx.ExecContext(ctx, treeQuery, row.ItemID, doc.Upload.ID, parent, row.Name, row.Left, row.Right); err != nil {
				return fmt.Errorf("failed to insert tree item %d: %w", row.ItemID, err)
			}
			summary.Items++
		}

		matchQuery := s.rebind(`INSERT INTO license_matches (item_id, agent_id, license_id, percentage) VALUES (?, ?, ?, ?)`)
		for _, run := range doc.Runs {
			if err := s.ensureAgent(ctx, tx, run); err != nil {
				return err
			}
			success := run.Success == nil || *run.Success
			if _, err := tx.ExecContext(ctx, s.rebind(`INSERT INTO agent_results (upload_id, agent_id, success) VALUES (?, ?, ?)`),
				doc.Upload.ID, run.AgentID, success); err != nil {
				return fmt.Errorf("failed to insert result of agent run %d: %w", run.AgentID, err)
			}
			summary.Runs++

			for _, match := range run.Matches {
				licenseID, err := resolve(match.License)
				if err != nil {
					return err
				}
				var percentage sql.NullInt64
				if match.Percentage != nil {
					percentage = sql.NullInt64{Int64: int64(*match.Percentage), Valid: true}
				}
				if _, err := tx.ExecContext(ctx, matchQuery, match.Item, run.AgentID, licenseID, percentage); err != nil {
					return fmt.Errorf("failed to insert match of %s on item %d: %w", match.License, match.Item, err)
				}
				summary.Matches++
			}
		}

		for _, event := range doc.Events {
			licenseID, err := resolve(event.License)
			if err != nil {
				return err
			}
			eventType, err := schema.ParseEventType(event.Type)
			if err != nil {
				return err
			}
			rec := eventRecord{
				ItemID:    event.Item,
				UserID:    event.User,
				LicenseID: licenseID,
				EventType: eventType,
				IsGlobal:  event.Global == nil || *event.Global,
				IsRemoved: event.Removed,
				Comment:   event.Comment,
				DateTime:  event.DateTime,
			}
			if rec.UserID == 0 {
				rec.UserID = contract.DefaultUserID
			}
			if rec.DateTime.IsZero() {
				rec.DateTime = time.Now()
			}
			if err := s.insertEvent(ctx, tx, rec); err != nil {
				return err
			}
			summary.Events++
		}
		return nil
	})
	if err != nil {
		return schema.ImportSummary{}, err
	}
	return summary, nil
}

// ensureLicense inserts the license unless a license with the same short name exists.
func (s *ClearingStoreImpl) ensureLicense(ctx context.Context, tx *sql.Tx, license schema.LicenseRef) (bool, error) {
	var existingID int64
	err := tx.QueryRowContext(ctx, s.rebind(`SELECT license_id FROM licenses WHERE short_name = ?`), license.ShortName).Scan(&existingID)
	switch {
	case err == nil:
		if existingID != license.ID {
			return false, fmt.Errorf("license %s already exists with id %d, not %d", license.ShortName, existingID, license.ID)
		}
		return false, nil
	case !errors.Is(err, sql.ErrNoRows):
		return false, fmt.Errorf("failed to query license %s: %w", license.ShortName, err)
	}

	if _, err := tx.ExecContext(ctx, s.rebind(`INSERT INTO licenses (license_id, short_name, full_name) VALUES (?, ?, ?)`),
		license.ID, license.ShortName, license.FullName); err != nil {
		return false, fmt.Errorf("failed to insert license %s: %w", license.ShortName, err)
	}
	return true, nil
}

// ensureAgent inserts the agent run unless it is already known under the same agent name.
func (s *ClearingStoreImpl) ensureAgent(ctx context.Context, tx *sql.Tx, run schema.ImportRun) error {
	var existingName string
	err := tx.QueryRowContext(ctx, s.rebind(`SELECT agent_name FROM agents WHERE agent_id = ?`), run.AgentID).Scan(&existingName)
	switch {
	case err == nil:
		if existingName != run.Agent {
			return fmt.Errorf("agent run %d already exists for %s, not %s", run.AgentID, existingName, run.Agent)
		}
		return nil
	case !errors.Is(err, sql.ErrNoRows):
		return fmt.Errorf("failed to query agent run %d: %w", run.AgentID, err)
	}

	if _, err := tx.ExecContext(ctx, s.rebind(`INSERT INTO agents (agent_id, agent_name, agent_revision) VALUES (?, ?, ?)`),
		run.AgentID, run.Agent, run.Revision); err != nil {
		return fmt.Errorf("failed to insert agent run %d: %w", run.AgentID, err)
	}
	return nil
}
