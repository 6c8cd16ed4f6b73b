package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
)

// paidDateLayout is how paid dates are stored in the splits table.
const paidDateLayout = time.RFC3339Nano

// CreateEntry persists a new entry and its splits.
func (s *SQLiteStore) CreateEntry(ctx context.Context, entry *models.Entry) error {
	// Generate IDs if not set
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.CreatedAt == 0 {
		entry.CreatedAt = time.Now().Unix()
	}
	if entry.SplitType == "" {
		entry.SplitType = models.SplitTypeNone
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := groupExists(ctx, tx, entry.GroupID); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO entries (id, group_id, title, amount, split_type, created_by, created_at, version)
		 VALUES (?, ?, ?, ?, ?, ?, ?, 1)`,
		entry.ID, entry.GroupID, entry.Title, entry.Amount, string(entry.SplitType), entry.CreatedBy, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert entry: %w", err)
	}

	if err := insertSplits(ctx, tx, entry.ID, entry.Splits); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	entry.Version = 1
	return nil
}

// GetEntry retrieves an entry by ID, including its splits in allocation order.
func (s *SQLiteStore) GetEntry(ctx context.Context, entryID string) (*models.Entry, error) {
	entry := &models.Entry{}
	var splitType string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, group_id, title, amount, split_type, created_by, created_at, version
		 FROM entries WHERE id = ?`,
		entryID,
	).Scan(&entry.ID, &entry.GroupID, &entry.Title, &entry.Amount, &splitType,
		&entry.CreatedBy, &entry.CreatedAt, &entry.Version)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &models.NotFoundError{Kind: "entry", ID: entryID}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get entry: %w", err)
	}
	entry.SplitType = models.SplitType(splitType)

	splits, err := s.loadSplits(ctx, []string{entry.ID})
	if err != nil {
		return nil, err
	}
	entry.Splits = splits[entry.ID]

	return entry, nil
}

// ListEntriesByGroup retrieves all entries of a group with their splits,
// oldest first.
func (s *SQLiteStore) ListEntriesByGroup(ctx context.Context, groupID string) ([]*models.Entry, error) {
	if err := groupExists(ctx, s.db, groupID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, group_id, title, amount, split_type, created_by, created_at, version
		 FROM entries WHERE group_id = ? ORDER BY created_at, rowid`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries by group: %w", err)
	}
	defer rows.Close()

	var entries []*models.Entry
	var ids []string
	for rows.Next() {
		entry := &models.Entry{}
		var splitType string
		if err := rows.Scan(&entry.ID, &entry.GroupID, &entry.Title, &entry.Amount, &splitType,
			&entry.CreatedBy, &entry.CreatedAt, &entry.Version); err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		entry.SplitType = models.SplitType(splitType)
		entries = append(entries, entry)
		ids = append(ids, entry.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate entries: %w", err)
	}

	splits, err := s.loadSplits(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, entry := range entries {
		entry.Splits = splits[entry.ID]
	}

	return entries, nil
}

// SaveEntry writes entry and replaces its splits, guarded by entry.Version.
func (s *SQLiteStore) SaveEntry(ctx context.Context, entry *models.Entry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`UPDATE entries SET title = ?, amount = ?, split_type = ?, version = version + 1
		 WHERE id = ? AND version = ?`,
		entry.Title, entry.Amount, string(entry.SplitType), entry.ID, entry.Version,
	)
	if err != nil {
		return fmt.Errorf("failed to update entry: %w", err)
	}
	updated, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if updated == 0 {
		var exists int
		err := tx.QueryRowContext(ctx, "SELECT 1 FROM entries WHERE id = ?", entry.ID).Scan(&exists)
		if errors.Is(err, sql.ErrNoRows) {
			return &models.NotFoundError{Kind: "entry", ID: entry.ID}
		}
		if err != nil {
			return fmt.Errorf("failed to check entry existence: %w", err)
		}
		return fmt.Errorf("entry %s at version %d: %w", entry.ID, entry.Version, storage.ErrConflict)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM splits WHERE entry_id = ?", entry.ID); err != nil {
		return fmt.Errorf("failed to clear splits: %w", err)
	}
	if err := insertSplits(ctx, tx, entry.ID, entry.Splits); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	entry.Version++
	return nil
}

// DeleteEntry removes an entry by ID. Splits cascade.
func (s *SQLiteStore) DeleteEntry(ctx context.Context, entryID string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM entries WHERE id = ?", entryID)
	if err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if deleted == 0 {
		return &models.NotFoundError{Kind: "entry", ID: entryID}
	}
	return nil
}

func insertSplits(ctx context.Context, tx *sql.Tx, entryID string, splits []models.Split) error {
	for i, split := range splits {
		var paidDate any
		if split.PaidDate != nil {
			paidDate = split.PaidDate.UTC().Format(paidDateLayout)
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO splits (entry_id, position, user_id, amount, paid, paid_date)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			entryID, i, split.UserID, split.Amount, split.Paid, paidDate,
		)
		if err != nil {
			return fmt.Errorf("failed to insert split: %w", err)
		}
	}
	return nil
}

// loadSplits fetches splits for the given entries keyed by entry ID.
func (s *SQLiteStore) loadSplits(ctx context.Context, entryIDs []string) (map[string][]models.Split, error) {
	result := make(map[string][]models.Split, len(entryIDs))
	if len(entryIDs) == 0 {
		return result, nil
	}

	query := `
		SELECT entry_id, user_id, amount, paid, paid_date
		FROM splits
		WHERE entry_id IN (?` + repeatPlaceholder(len(entryIDs)-1) + `)
		ORDER BY entry_id, position`

	args := make([]any, len(entryIDs))
	for i, id := range entryIDs {
		args[i] = id
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get splits: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			entryID  string
			split    models.Split
			paidDate sql.NullString
		)
		if err := rows.Scan(&entryID, &split.UserID, &split.Amount, &split.Paid, &paidDate); err != nil {
			return nil, fmt.Errorf("failed to scan split: %w", err)
		}
		if paidDate.Valid {
			t, err := time.Parse(paidDateLayout, paidDate.String)
			if err != nil {
				return nil, fmt.Errorf("failed to parse paid date %q: %w", paidDate.String, err)
			}
			split.PaidDate = &t
		}
		result[entryID] = append(result[entryID], split)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate splits: %w", err)
	}

	return result, nil
}

// queryRower is satisfied by both *sql.DB and *sql.Tx.
type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func groupExists(ctx context.Context, q queryRower, groupID string) error {
	var exists int
	err := q.QueryRowContext(ctx, "SELECT 1 FROM groups WHERE id = ?", groupID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return &models.NotFoundError{Kind: "group", ID: groupID}
	}
	if err != nil {
		return fmt.Errorf("failed to check group existence: %w", err)
	}
	return nil
}
