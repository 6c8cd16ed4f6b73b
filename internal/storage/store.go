// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/splitledger/internal/models"
)

// ErrConflict is returned by SaveEntry when the entry was changed by another
// writer since it was read. The caller should re-read and retry.
var ErrConflict = errors.New("entry was modified concurrently")

// EntryStore persists entries together with their splits.
type EntryStore interface {
	// CreateEntry persists a new entry. ID, CreatedAt and Version are
	// populated by the store.
	CreateEntry(ctx context.Context, entry *models.Entry) error

	// GetEntry retrieves an entry and its splits by ID.
	// Returns a *models.NotFoundError if the entry does not exist.
	GetEntry(ctx context.Context, entryID string) (*models.Entry, error)

	// ListEntriesByGroup returns the group's entries in creation order.
	// Returns a *models.NotFoundError if the group does not exist.
	ListEntriesByGroup(ctx context.Context, groupID string) ([]*models.Entry, error)

	// SaveEntry writes the full entry, replacing its splits. It succeeds only
	// if the stored version still matches entry.Version and bumps it;
	// otherwise it returns ErrConflict.
	SaveEntry(ctx context.Context, entry *models.Entry) error

	// DeleteEntry removes an entry and its splits.
	DeleteEntry(ctx context.Context, entryID string) error
}

// GroupStore persists groups and their membership.
type GroupStore interface {
	CreateGroup(ctx context.Context, group *models.Group) error
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)

	// ListGroupsByMember returns every group userID belongs to.
	ListGroupsByMember(ctx context.Context, userID string) ([]*models.Group, error)

	// SearchGroupsByName matches name case-insensitively anywhere in the group name.
	SearchGroupsByName(ctx context.Context, name string) ([]*models.Group, error)

	AddGroupMember(ctx context.Context, groupID, userID string) error
	RemoveGroupMember(ctx context.Context, groupID, userID string) error
	UpdateGroupPassword(ctx context.Context, groupID string, public bool, passwordHash string) error
	DeleteGroup(ctx context.Context, groupID string) error
}

// UserStore persists user accounts.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// GetUsersByIDs returns the users that exist among ids, keyed by ID.
	GetUsersByIDs(ctx context.Context, ids []string) (map[string]*models.User, error)
}

// Store combines every storage capability.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type Store interface {
	EntryStore
	GroupStore
	UserStore

	// Close releases any resources held by the store.
	Close() error
}
