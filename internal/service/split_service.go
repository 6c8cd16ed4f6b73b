package service

import (
	"context"
	"log/slog"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/middleware"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
	"github.com/mmynk/splitledger/pkg/api"
	"github.com/mmynk/splitledger/pkg/api/apiconnect"
)

var _ apiconnect.SplitServiceHandler = (*SplitService)(nil)

// SplitService implements the Connect SplitService: split computation,
// payment bookkeeping and balances.
type SplitService struct {
	store   storage.Store
	metrics *middleware.Metrics
	logger  *slog.Logger
	now     func() time.Time
}

// NewSplitService creates a new SplitService with the given storage backend.
// metrics may be nil.
func NewSplitService(store storage.Store, metrics *middleware.Metrics, logger *slog.Logger) *SplitService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SplitService{store: store, metrics: metrics, logger: logger, now: time.Now}
}

// allocate computes splits for an entry and persists them in one save.
func (s *SplitService) allocate(ctx context.Context, entryID string, req calculator.AllocationRequest) (*connect.Response[api.EntryResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	alloc, err := calculator.Allocate(req)
	if err != nil {
		s.logger.Warn("Allocation rejected", "entry_id", entryID, "split_type", req.Type, "error", err)
		return nil, toConnectError(err)
	}

	entry, err := updateEntry(ctx, s.store, entryID, userID, func(e *models.Entry, g *models.Group) error {
		for _, id := range req.UserIDs {
			if !g.HasMember(id) {
				return models.Invalid("user_ids", "%s is not a member of the group", id)
			}
		}
		calculator.Apply(e, alloc)
		return nil
	})
	if err != nil {
		s.logger.Error("Failed to save splits", "entry_id", entryID, "error", err)
		return nil, err
	}

	s.metrics.SplitsAllocated(alloc.Type)
	s.logger.Info("Splits allocated",
		"entry_id", entry.ID,
		"split_type", alloc.Type,
		"total", alloc.Total,
		"members", len(alloc.Splits),
	)
	return connect.NewResponse(&api.EntryResponse{Entry: toAPIEntry(entry)}), nil
}

// CreateEqualSplits divides the total equally among the given members.
func (s *SplitService) CreateEqualSplits(ctx context.Context, req *connect.Request[api.CreateEqualSplitsRequest]) (*connect.Response[api.EntryResponse], error) {
	return s.allocate(ctx, req.Msg.EntryID, calculator.AllocationRequest{
		Type:    models.SplitTypeEqual,
		UserIDs: req.Msg.UserIDs,
		Total:   req.Msg.TotalAmount,
	})
}

// CreatePercentageSplits divides the total by percentage.
func (s *SplitService) CreatePercentageSplits(ctx context.Context, req *connect.Request[api.CreatePercentageSplitsRequest]) (*connect.Response[api.EntryResponse], error) {
	return s.allocate(ctx, req.Msg.EntryID, calculator.AllocationRequest{
		Type:        models.SplitTypePercentage,
		UserIDs:     req.Msg.UserIDs,
		Percentages: req.Msg.Percentages,
		Total:       req.Msg.TotalAmount,
	})
}

// CreateManualSplits stores the given amounts; the entry total becomes their sum.
func (s *SplitService) CreateManualSplits(ctx context.Context, req *connect.Request[api.CreateManualSplitsRequest]) (*connect.Response[api.EntryResponse], error) {
	return s.allocate(ctx, req.Msg.EntryID, calculator.AllocationRequest{
		Type:    models.SplitTypeManual,
		UserIDs: req.Msg.UserIDs,
		Amounts: req.Msg.Amounts,
	})
}

// MarkSplitPaid records a member's payment on an entry.
func (s *SplitService) MarkSplitPaid(ctx context.Context, req *connect.Request[api.MarkSplitPaidRequest]) (*connect.Response[api.EntryResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	paidAt, err := parsePaidDate(req.Msg.PaidDate, s.now())
	if err != nil {
		return nil, toConnectError(err)
	}

	entry, err := updateEntry(ctx, s.store, req.Msg.EntryID, userID, func(e *models.Entry, _ *models.Group) error {
		return calculator.MarkPaid(e, req.Msg.UserID, paidAt)
	})
	if err != nil {
		s.logger.Warn("MarkSplitPaid failed", "entry_id", req.Msg.EntryID, "user_id", req.Msg.UserID, "error", err)
		return nil, err
	}

	s.metrics.SplitPaid()
	s.logger.Info("Split marked paid", "entry_id", entry.ID, "user_id", req.Msg.UserID, "by", userID)
	return connect.NewResponse(&api.EntryResponse{Entry: toAPIEntry(entry)}), nil
}

// MarkSplitUnpaid reverts a payment recorded by mistake.
func (s *SplitService) MarkSplitUnpaid(ctx context.Context, req *connect.Request[api.MarkSplitUnpaidRequest]) (*connect.Response[api.EntryResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	entry, err := updateEntry(ctx, s.store, req.Msg.EntryID, userID, func(e *models.Entry, _ *models.Group) error {
		return calculator.MarkUnpaid(e, req.Msg.UserID)
	})
	if err != nil {
		s.logger.Warn("MarkSplitUnpaid failed", "entry_id", req.Msg.EntryID, "user_id", req.Msg.UserID, "error", err)
		return nil, err
	}

	s.logger.Info("Split marked unpaid", "entry_id", entry.ID, "user_id", req.Msg.UserID, "by", userID)
	return connect.NewResponse(&api.EntryResponse{Entry: toAPIEntry(entry)}), nil
}

// groupEntries loads a group's entries after checking the caller's membership.
func (s *SplitService) groupEntries(ctx context.Context, groupID string) ([]*models.Entry, string, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, "", err
	}
	if _, err := memberGroup(ctx, s.store, groupID, userID); err != nil {
		return nil, "", err
	}
	entries, err := s.store.ListEntriesByGroup(ctx, groupID)
	if err != nil {
		s.logger.Error("Failed to list entries", "group_id", groupID, "error", err)
		return nil, "", toConnectError(err)
	}
	return entries, userID, nil
}

// GetBalance returns a member's outstanding debt in a group.
func (s *SplitService) GetBalance(ctx context.Context, req *connect.Request[api.GetBalanceRequest]) (*connect.Response[api.GetBalanceResponse], error) {
	entries, _, err := s.groupEntries(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&api.GetBalanceResponse{
		UserID:  req.Msg.UserID,
		Balance: calculator.Balance(entries, req.Msg.UserID),
	}), nil
}

// GetMyBalance returns the caller's outstanding debt in a group.
func (s *SplitService) GetMyBalance(ctx context.Context, req *connect.Request[api.GetMyBalanceRequest]) (*connect.Response[api.GetMyBalanceResponse], error) {
	entries, userID, err := s.groupEntries(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, err
	}

	resp := &api.GetMyBalanceResponse{
		UserID:  userID,
		Balance: calculator.Balance(entries, userID),
	}
	// The balance is still useful without the profile.
	if user, err := s.store.GetUserByID(ctx, userID); err == nil {
		resp.UserInfo = toAPIUser(user)
	} else {
		s.logger.Warn("GetMyBalance: failed to load user", "user_id", userID, "error", err)
	}
	return connect.NewResponse(resp), nil
}

// ListUnpaidSplits lists a member's unpaid splits in entry order.
func (s *SplitService) ListUnpaidSplits(ctx context.Context, req *connect.Request[api.ListUnpaidSplitsRequest]) (*connect.Response[api.ListUnpaidSplitsResponse], error) {
	entries, _, err := s.groupEntries(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, err
	}

	splits := []api.UnpaidSplit{}
	for _, e := range entries {
		for split := range calculator.UnpaidSplits([]*models.Entry{e}, req.Msg.UserID) {
			splits = append(splits, api.UnpaidSplit{
				EntryID:    e.ID,
				EntryTitle: e.Title,
				Split:      toAPISplit(split),
			})
		}
	}
	return connect.NewResponse(&api.ListUnpaidSplitsResponse{Splits: splits}), nil
}

// GetGroupBalances summarizes every member holding a split in the group.
func (s *SplitService) GetGroupBalances(ctx context.Context, req *connect.Request[api.GetGroupBalancesRequest]) (*connect.Response[api.GetGroupBalancesResponse], error) {
	entries, _, err := s.groupEntries(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, err
	}

	rows := calculator.GroupBalances(entries)
	balances := make([]api.MemberBalance, len(rows))
	for i, b := range rows {
		balances[i] = api.MemberBalance{
			UserID:      b.UserID,
			TotalShare:  b.TotalShare,
			TotalPaid:   b.TotalPaid,
			Outstanding: b.Outstanding,
			Balance:     b.Balance,
		}
	}
	return connect.NewResponse(&api.GetGroupBalancesResponse{Balances: balances}), nil
}
