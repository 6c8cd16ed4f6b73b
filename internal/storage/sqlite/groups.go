package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/splitledger/internal/models"
)

const groupColumns = "id, name, owner_id, public, password_hash, created_at"

// CreateGroup persists a new group and its initial members.
func (s *SQLiteStore) CreateGroup(ctx context.Context, group *models.Group) error {
	if group.ID == "" {
		group.ID = uuid.New().String()
	}
	if group.CreatedAt == 0 {
		group.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO groups ("+groupColumns+") VALUES (?, ?, ?, ?, ?, ?)",
		group.ID, group.Name, group.OwnerID, group.Public, nullable(group.PasswordHash), group.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert group: %w", err)
	}

	for i, userID := range group.MemberIDs {
		// joined_at is offset by position so insertion order survives reads.
		_, err = tx.ExecContext(ctx,
			"INSERT OR IGNORE INTO group_members (group_id, user_id, joined_at) VALUES (?, ?, ?)",
			group.ID, userID, group.CreatedAt*1000+int64(i),
		)
		if err != nil {
			return fmt.Errorf("failed to insert group member: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetGroup retrieves a group by ID with its members.
func (s *SQLiteStore) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+groupColumns+" FROM groups WHERE id = ?", groupID)
	group, err := scanGroup(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &models.NotFoundError{Kind: "group", ID: groupID}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}

	if err := s.attachMembers(ctx, []*models.Group{group}); err != nil {
		return nil, err
	}
	return group, nil
}

// ListGroupsByMember returns every group userID belongs to, newest first.
func (s *SQLiteStore) ListGroupsByMember(ctx context.Context, userID string) ([]*models.Group, error) {
	return s.queryGroups(ctx,
		`SELECT `+groupColumns+` FROM groups
		 WHERE id IN (SELECT group_id FROM group_members WHERE user_id = ?)
		 ORDER BY created_at DESC, rowid DESC`,
		userID,
	)
}

// SearchGroupsByName finds groups whose name contains name, ignoring case.
func (s *SQLiteStore) SearchGroupsByName(ctx context.Context, name string) ([]*models.Group, error) {
	pattern := "%" + escapeLike(strings.ToLower(name)) + "%"
	return s.queryGroups(ctx,
		`SELECT `+groupColumns+` FROM groups
		 WHERE lower(name) LIKE ? ESCAPE '\'
		 ORDER BY name`,
		pattern,
	)
}

// AddGroupMember adds userID to the group. Adding an existing member is a no-op.
func (s *SQLiteStore) AddGroupMember(ctx context.Context, groupID, userID string) error {
	if err := groupExists(ctx, s.db, groupID); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT OR IGNORE INTO group_members (group_id, user_id, joined_at) VALUES (?, ?, ?)",
		groupID, userID, time.Now().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("failed to add group member: %w", err)
	}
	return nil
}

// RemoveGroupMember removes userID from the group.
func (s *SQLiteStore) RemoveGroupMember(ctx context.Context, groupID, userID string) error {
	result, err := s.db.ExecContext(ctx,
		"DELETE FROM group_members WHERE group_id = ? AND user_id = ?",
		groupID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to remove group member: %w", err)
	}
	removed, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if removed == 0 {
		return &models.NotFoundError{Kind: "member", ID: userID}
	}
	return nil
}

// UpdateGroupPassword switches a group between public and password protected.
func (s *SQLiteStore) UpdateGroupPassword(ctx context.Context, groupID string, public bool, passwordHash string) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE groups SET public = ?, password_hash = ? WHERE id = ?",
		public, nullable(passwordHash), groupID,
	)
	if err != nil {
		return fmt.Errorf("failed to update group password: %w", err)
	}
	updated, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if updated == 0 {
		return &models.NotFoundError{Kind: "group", ID: groupID}
	}
	return nil
}

// DeleteGroup removes a group. Members and entries cascade.
func (s *SQLiteStore) DeleteGroup(ctx context.Context, groupID string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM groups WHERE id = ?", groupID)
	if err != nil {
		return fmt.Errorf("failed to delete group: %w", err)
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if deleted == 0 {
		return &models.NotFoundError{Kind: "group", ID: groupID}
	}
	return nil
}

func (s *SQLiteStore) queryGroups(ctx context.Context, query string, args ...any) ([]*models.Group, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	defer rows.Close()

	var groups []*models.Group
	for rows.Next() {
		group, err := scanGroup(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		groups = append(groups, group)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate groups: %w", err)
	}

	if err := s.attachMembers(ctx, groups); err != nil {
		return nil, err
	}
	return groups, nil
}

// attachMembers loads member IDs for all groups in one query.
func (s *SQLiteStore) attachMembers(ctx context.Context, groups []*models.Group) error {
	if len(groups) == 0 {
		return nil
	}

	byID := make(map[string]*models.Group, len(groups))
	args := make([]any, len(groups))
	for i, g := range groups {
		byID[g.ID] = g
		args[i] = g.ID
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT group_id, user_id FROM group_members
		 WHERE group_id IN (?`+repeatPlaceholder(len(groups)-1)+`)
		 ORDER BY joined_at, rowid`,
		args...,
	)
	if err != nil {
		return fmt.Errorf("failed to get group members: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var groupID, userID string
		if err := rows.Scan(&groupID, &userID); err != nil {
			return fmt.Errorf("failed to scan group member: %w", err)
		}
		g := byID[groupID]
		g.MemberIDs = append(g.MemberIDs, userID)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate group members: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGroup(row rowScanner) (*models.Group, error) {
	group := &models.Group{}
	var passwordHash sql.NullString
	if err := row.Scan(&group.ID, &group.Name, &group.OwnerID, &group.Public, &passwordHash, &group.CreatedAt); err != nil {
		return nil, err
	}
	group.PasswordHash = passwordHash.String
	return group, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
