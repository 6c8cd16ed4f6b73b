// Package service implements the splitledger Connect services on top of the
// calculator engine and a storage.Store.
package service

import (
	"context"
	"errors"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/internal/auth"
	"github.com/mmynk/splitledger/internal/middleware"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
	"github.com/mmynk/splitledger/pkg/api"
)

// maxSaveAttempts bounds the read-modify-write loop when SaveEntry reports
// a concurrent change.
const maxSaveAttempts = 3

var (
	errAuthRequired = errors.New("authentication required")
	errNotMember    = errors.New("you must be a member of this group")
	errNotOwner     = errors.New("only the group owner can do this")
)

// toConnectError maps domain and storage errors to Connect codes.
func toConnectError(err error) error {
	var connectErr *connect.Error
	if errors.As(err, &connectErr) {
		return err
	}
	switch {
	case errors.Is(err, models.ErrValidation),
		errors.Is(err, auth.ErrWeakPassword),
		errors.Is(err, auth.ErrPasswordRequired):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, models.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, storage.ErrConflict):
		return connect.NewError(connect.CodeAborted, err)
	case errors.Is(err, auth.ErrGroupPassword):
		return connect.NewError(connect.CodePermissionDenied, err)
	case errors.Is(err, auth.ErrEmailExists):
		return connect.NewError(connect.CodeAlreadyExists, err)
	case errors.Is(err, context.Canceled):
		return connect.NewError(connect.CodeCanceled, err)
	case errors.Is(err, context.DeadlineExceeded):
		return connect.NewError(connect.CodeDeadlineExceeded, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}

// callerID returns the authenticated user set by the auth interceptor.
func callerID(ctx context.Context) (string, error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return "", connect.NewError(connect.CodeUnauthenticated, errAuthRequired)
	}
	return userID, nil
}

// memberGroup loads a group and checks that userID belongs to it.
func memberGroup(ctx context.Context, groups storage.GroupStore, groupID, userID string) (*models.Group, error) {
	group, err := groups.GetGroup(ctx, groupID)
	if err != nil {
		return nil, toConnectError(err)
	}
	if !group.HasMember(userID) {
		return nil, connect.NewError(connect.CodePermissionDenied, errNotMember)
	}
	return group, nil
}

// memberEntry loads an entry and checks that userID belongs to its group.
func memberEntry(ctx context.Context, store storage.Store, entryID, userID string) (*models.Entry, *models.Group, error) {
	entry, err := store.GetEntry(ctx, entryID)
	if err != nil {
		return nil, nil, toConnectError(err)
	}
	group, err := memberGroup(ctx, store, entry.GroupID, userID)
	if err != nil {
		return nil, nil, err
	}
	return entry, group, nil
}

// updateEntry re-reads the entry, applies mutate and saves it, retrying when
// another writer got there first. mutate must be safe to run more than once.
func updateEntry(ctx context.Context, store storage.Store, entryID, userID string, mutate func(*models.Entry, *models.Group) error) (*models.Entry, error) {
	var lastErr error
	for range maxSaveAttempts {
		entry, group, err := memberEntry(ctx, store, entryID, userID)
		if err != nil {
			return nil, err
		}
		if err := mutate(entry, group); err != nil {
			return nil, toConnectError(err)
		}
		lastErr = store.SaveEntry(ctx, entry)
		if lastErr == nil {
			return entry, nil
		}
		if !errors.Is(lastErr, storage.ErrConflict) {
			return nil, toConnectError(lastErr)
		}
	}
	return nil, toConnectError(lastErr)
}

// zonelessLayout is accepted for paid dates sent without an offset; they are
// read as UTC.
const zonelessLayout = "2006-01-02T15:04:05"

// parsePaidDate returns now when s is empty.
func parsePaidDate(s string, now time.Time) (time.Time, error) {
	if s == "" {
		return now, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation(zonelessLayout, s, time.UTC); err == nil {
		return t, nil
	}
	return time.Time{}, models.Invalid("paid_date", "expected RFC 3339 timestamp, got %q", s)
}

func toAPIEntry(e *models.Entry) *api.Entry {
	splits := make([]api.Split, len(e.Splits))
	for i, s := range e.Splits {
		splits[i] = toAPISplit(s)
	}
	return &api.Entry{
		ID:        e.ID,
		GroupID:   e.GroupID,
		Title:     e.Title,
		Amount:    e.Amount,
		SplitType: string(e.SplitType),
		Splits:    splits,
		CreatedBy: e.CreatedBy,
		CreatedAt: e.CreatedAt,
		Version:   e.Version,
	}
}

func toAPISplit(s models.Split) api.Split {
	out := api.Split{UserID: s.UserID, Amount: s.Amount, Paid: s.Paid}
	if s.PaidDate != nil {
		out.PaidDate = s.PaidDate.UTC().Format(time.RFC3339)
	}
	return out
}

func toAPIUser(u *models.User) *api.User {
	return &api.User{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		CreatedAt:   u.CreatedAt,
	}
}

// toAPIGroup converts a group; names may be nil or partial.
func toAPIGroup(g *models.Group, names map[string]*models.User) *api.Group {
	members := make([]api.Member, len(g.MemberIDs))
	for i, id := range g.MemberIDs {
		members[i] = api.Member{UserID: id}
		if u, ok := names[id]; ok {
			members[i].DisplayName = u.DisplayName
		}
	}
	return &api.Group{
		ID:        g.ID,
		Name:      g.Name,
		OwnerID:   g.OwnerID,
		Members:   members,
		Public:    g.Public,
		CreatedAt: g.CreatedAt,
	}
}
