package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/internal/auth"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
	"github.com/mmynk/splitledger/pkg/api"
	"github.com/mmynk/splitledger/pkg/api/apiconnect"
)

var _ apiconnect.GroupServiceHandler = (*GroupService)(nil)

var (
	errAlreadyMember = errors.New("already a member of this group")
	errOwnerLeave    = errors.New("the owner cannot leave the group; delete it instead")
	errRemoveOwner   = errors.New("the owner cannot be removed from the group")
)

// GroupPasswordHasher hashes join passwords for private groups.
type GroupPasswordHasher interface {
	HashGroupPassword(password string) (string, error)
}

// GroupService implements the Connect GroupService
type GroupService struct {
	store  storage.Store
	hasher GroupPasswordHasher
	logger *slog.Logger
}

// NewGroupService creates a new GroupService with the given storage backend.
func NewGroupService(store storage.Store, hasher GroupPasswordHasher, logger *slog.Logger) *GroupService {
	if logger == nil {
		logger = slog.Default()
	}
	return &GroupService{store: store, hasher: hasher, logger: logger}
}

// ownedGroup loads a group and checks that userID owns it.
func (s *GroupService) ownedGroup(ctx context.Context, groupID, userID string) (*models.Group, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, toConnectError(err)
	}
	if group.OwnerID != userID {
		return nil, connect.NewError(connect.CodePermissionDenied, errNotOwner)
	}
	return group, nil
}

// withNames converts a group, filling in member display names.
func (s *GroupService) withNames(ctx context.Context, group *models.Group) *api.Group {
	users, err := s.store.GetUsersByIDs(ctx, group.MemberIDs)
	if err != nil {
		s.logger.Warn("Failed to load member names", "group_id", group.ID, "error", err)
	}
	return toAPIGroup(group, users)
}

func (s *GroupService) hashPassword(public bool, password string) (string, error) {
	if public || password == "" {
		return "", nil
	}
	return s.hasher.HashGroupPassword(password)
}

// CreateGroup creates a group owned by, and containing, the caller.
func (s *GroupService) CreateGroup(ctx context.Context, req *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.GroupResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Info("CreateGroup request received", "name", req.Msg.Name, "public", req.Msg.Public)

	hash, err := s.hashPassword(req.Msg.Public, req.Msg.Password)
	if err != nil {
		s.logger.Error("CreateGroup: failed to hash password", "error", err)
		return nil, toConnectError(err)
	}

	group := &models.Group{
		Name:         strings.TrimSpace(req.Msg.Name),
		OwnerID:      userID,
		MemberIDs:    []string{userID},
		Public:       req.Msg.Public,
		PasswordHash: hash,
	}
	if err := s.store.CreateGroup(ctx, group); err != nil {
		s.logger.Error("CreateGroup failed", "error", err)
		return nil, toConnectError(err)
	}

	s.logger.Info("Group created", "group_id", group.ID, "owner_id", userID)
	return connect.NewResponse(&api.GroupResponse{Group: s.withNames(ctx, group)}), nil
}

// GetGroup returns a group the caller belongs to.
func (s *GroupService) GetGroup(ctx context.Context, req *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GroupResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	group, err := memberGroup(ctx, s.store, req.Msg.GroupID, userID)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&api.GroupResponse{Group: s.withNames(ctx, group)}), nil
}

// ListMyGroups lists the caller's groups, newest first.
func (s *GroupService) ListMyGroups(ctx context.Context, req *connect.Request[api.ListMyGroupsRequest]) (*connect.Response[api.ListGroupsResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	groups, err := s.store.ListGroupsByMember(ctx, userID)
	if err != nil {
		s.logger.Error("ListMyGroups failed", "user_id", userID, "error", err)
		return nil, toConnectError(err)
	}

	out := make([]*api.Group, len(groups))
	for i, g := range groups {
		out[i] = toAPIGroup(g, nil)
	}
	s.logger.Debug("ListMyGroups successful", "user_id", userID, "count", len(groups))
	return connect.NewResponse(&api.ListGroupsResponse{Groups: out}), nil
}

// SearchGroups finds groups by name so a user can join them. Membership
// lists are omitted for groups the caller is not in.
func (s *GroupService) SearchGroups(ctx context.Context, req *connect.Request[api.SearchGroupsRequest]) (*connect.Response[api.ListGroupsResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	groups, err := s.store.SearchGroupsByName(ctx, strings.TrimSpace(req.Msg.Name))
	if err != nil {
		s.logger.Error("SearchGroups failed", "name", req.Msg.Name, "error", err)
		return nil, toConnectError(err)
	}

	out := make([]*api.Group, len(groups))
	for i, g := range groups {
		if !g.HasMember(userID) {
			g.MemberIDs = nil
		}
		out[i] = toAPIGroup(g, nil)
	}
	return connect.NewResponse(&api.ListGroupsResponse{Groups: out}), nil
}

// JoinGroup adds the caller to a group, checking the password of private groups.
func (s *GroupService) JoinGroup(ctx context.Context, req *connect.Request[api.JoinGroupRequest]) (*connect.Response[api.GroupResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	group, err := s.store.GetGroup(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError(err)
	}
	if group.HasMember(userID) {
		return nil, connect.NewError(connect.CodeAlreadyExists, errAlreadyMember)
	}
	if err := auth.CheckGroupPassword(group, req.Msg.Password); err != nil {
		s.logger.Warn("JoinGroup rejected", "group_id", group.ID, "user_id", userID, "error", err)
		if errors.Is(err, auth.ErrPasswordRequired) {
			return nil, connect.NewError(connect.CodePermissionDenied, err)
		}
		return nil, toConnectError(err)
	}

	if err := s.store.AddGroupMember(ctx, group.ID, userID); err != nil {
		s.logger.Error("JoinGroup failed", "group_id", group.ID, "error", err)
		return nil, toConnectError(err)
	}
	group.MemberIDs = append(group.MemberIDs, userID)

	s.logger.Info("User joined group", "group_id", group.ID, "user_id", userID)
	return connect.NewResponse(&api.GroupResponse{Group: s.withNames(ctx, group)}), nil
}

// LeaveGroup removes the caller from a group. Entries keep their splits.
func (s *GroupService) LeaveGroup(ctx context.Context, req *connect.Request[api.LeaveGroupRequest]) (*connect.Response[api.Empty], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	group, err := memberGroup(ctx, s.store, req.Msg.GroupID, userID)
	if err != nil {
		return nil, err
	}
	if group.OwnerID == userID {
		return nil, connect.NewError(connect.CodeFailedPrecondition, errOwnerLeave)
	}

	if err := s.store.RemoveGroupMember(ctx, group.ID, userID); err != nil {
		s.logger.Error("LeaveGroup failed", "group_id", group.ID, "error", err)
		return nil, toConnectError(err)
	}

	s.logger.Info("User left group", "group_id", group.ID, "user_id", userID)
	return connect.NewResponse(&api.Empty{}), nil
}

// RemoveMember removes another member from a group. Owner only.
func (s *GroupService) RemoveMember(ctx context.Context, req *connect.Request[api.RemoveMemberRequest]) (*connect.Response[api.GroupResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	group, err := s.ownedGroup(ctx, req.Msg.GroupID, userID)
	if err != nil {
		return nil, err
	}
	if req.Msg.UserID == group.OwnerID {
		return nil, connect.NewError(connect.CodeInvalidArgument, errRemoveOwner)
	}

	if err := s.store.RemoveGroupMember(ctx, group.ID, req.Msg.UserID); err != nil {
		s.logger.Warn("RemoveMember failed", "group_id", group.ID, "member", req.Msg.UserID, "error", err)
		return nil, toConnectError(err)
	}
	group.MemberIDs = removeID(group.MemberIDs, req.Msg.UserID)

	s.logger.Info("Member removed", "group_id", group.ID, "member", req.Msg.UserID, "by", userID)
	return connect.NewResponse(&api.GroupResponse{Group: s.withNames(ctx, group)}), nil
}

// UpdateGroupPassword changes the join password. An empty password makes
// the group public. Owner only.
func (s *GroupService) UpdateGroupPassword(ctx context.Context, req *connect.Request[api.UpdateGroupPasswordRequest]) (*connect.Response[api.GroupResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	group, err := s.ownedGroup(ctx, req.Msg.GroupID, userID)
	if err != nil {
		return nil, err
	}

	public := req.Msg.Password == ""
	hash, err := s.hashPassword(public, req.Msg.Password)
	if err != nil {
		s.logger.Error("UpdateGroupPassword: failed to hash password", "error", err)
		return nil, toConnectError(err)
	}
	if err := s.store.UpdateGroupPassword(ctx, group.ID, public, hash); err != nil {
		s.logger.Error("UpdateGroupPassword failed", "group_id", group.ID, "error", err)
		return nil, toConnectError(err)
	}
	group.Public = public
	group.PasswordHash = hash

	s.logger.Info("Group password updated", "group_id", group.ID, "public", public)
	return connect.NewResponse(&api.GroupResponse{Group: s.withNames(ctx, group)}), nil
}

// DeleteGroup removes a group with its entries. Owner only.
func (s *GroupService) DeleteGroup(ctx context.Context, req *connect.Request[api.DeleteGroupRequest]) (*connect.Response[api.Empty], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := s.ownedGroup(ctx, req.Msg.GroupID, userID); err != nil {
		return nil, err
	}

	if err := s.store.DeleteGroup(ctx, req.Msg.GroupID); err != nil {
		s.logger.Error("DeleteGroup failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, toConnectError(err)
	}

	s.logger.Info("Group deleted", "group_id", req.Msg.GroupID, "by", userID)
	return connect.NewResponse(&api.Empty{}), nil
}

func removeID(ids []string, id string) []string {
	out := ids[:0:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
