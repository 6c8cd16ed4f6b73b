package service

import (
	"context"
	"log/slog"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
	"github.com/mmynk/splitledger/pkg/api"
	"github.com/mmynk/splitledger/pkg/api/apiconnect"
)

var _ apiconnect.EntryServiceHandler = (*EntryService)(nil)

// EntryService implements the Connect EntryService.
type EntryService struct {
	store  storage.Store
	logger *slog.Logger
}

func NewEntryService(store storage.Store, logger *slog.Logger) *EntryService {
	if logger == nil {
		logger = slog.Default()
	}
	return &EntryService{store: store, logger: logger}
}

// CreateEntry records an expense without splits.
func (s *EntryService) CreateEntry(ctx context.Context, req *connect.Request[api.CreateEntryRequest]) (*connect.Response[api.EntryResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := memberGroup(ctx, s.store, req.Msg.GroupID, userID); err != nil {
		return nil, err
	}

	entry := &models.Entry{
		GroupID:   req.Msg.GroupID,
		Title:     strings.TrimSpace(req.Msg.Title),
		Amount:    req.Msg.Amount,
		SplitType: models.SplitTypeNone,
		CreatedBy: userID,
	}
	if err := s.store.CreateEntry(ctx, entry); err != nil {
		s.logger.Error("CreateEntry failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, toConnectError(err)
	}

	s.logger.Info("Entry created", "entry_id", entry.ID, "group_id", entry.GroupID, "amount", entry.Amount)
	return connect.NewResponse(&api.EntryResponse{Entry: toAPIEntry(entry)}), nil
}

func (s *EntryService) GetEntry(ctx context.Context, req *connect.Request[api.GetEntryRequest]) (*connect.Response[api.EntryResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	entry, _, err := memberEntry(ctx, s.store, req.Msg.EntryID, userID)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&api.EntryResponse{Entry: toAPIEntry(entry)}), nil
}

// ListEntries returns a group's entries in creation order.
func (s *EntryService) ListEntries(ctx context.Context, req *connect.Request[api.ListEntriesRequest]) (*connect.Response[api.ListEntriesResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := memberGroup(ctx, s.store, req.Msg.GroupID, userID); err != nil {
		return nil, err
	}

	entries, err := s.store.ListEntriesByGroup(ctx, req.Msg.GroupID)
	if err != nil {
		s.logger.Error("ListEntries failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, toConnectError(err)
	}

	out := make([]*api.Entry, len(entries))
	for i, e := range entries {
		out[i] = toAPIEntry(e)
	}
	return connect.NewResponse(&api.ListEntriesResponse{Entries: out}), nil
}

// UpdateEntry renames an entry. Splits are untouched.
func (s *EntryService) UpdateEntry(ctx context.Context, req *connect.Request[api.UpdateEntryRequest]) (*connect.Response[api.EntryResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	title := strings.TrimSpace(req.Msg.Title)
	entry, err := updateEntry(ctx, s.store, req.Msg.EntryID, userID, func(e *models.Entry, _ *models.Group) error {
		e.Title = title
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Entry updated", "entry_id", entry.ID, "version", entry.Version)
	return connect.NewResponse(&api.EntryResponse{Entry: toAPIEntry(entry)}), nil
}

// DeleteEntry removes an entry and its splits.
func (s *EntryService) DeleteEntry(ctx context.Context, req *connect.Request[api.DeleteEntryRequest]) (*connect.Response[api.Empty], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	if _, _, err := memberEntry(ctx, s.store, req.Msg.EntryID, userID); err != nil {
		return nil, err
	}

	if err := s.store.DeleteEntry(ctx, req.Msg.EntryID); err != nil {
		s.logger.Error("DeleteEntry failed", "entry_id", req.Msg.EntryID, "error", err)
		return nil, toConnectError(err)
	}

	s.logger.Info("Entry deleted", "entry_id", req.Msg.EntryID, "by", userID)
	return connect.NewResponse(&api.Empty{}), nil
}
