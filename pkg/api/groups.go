package api

import (
	"errors"
	"strings"
)

// CreateGroupRequest creates a group owned by the caller. A non-public group
// requires a password to join.
type CreateGroupRequest struct {
	Name     string `json:"name"`
	Public   bool   `json:"public"`
	Password string `json:"password,omitempty"`
}

func (r *CreateGroupRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return errors.New("name required")
	}
	if !r.Public && r.Password == "" {
		return errors.New("password required for private groups")
	}
	return nil
}

// GetGroupRequest fetches a group the caller belongs to.
type GetGroupRequest struct {
	GroupID string `json:"group_id"`
}

func (r *GetGroupRequest) Validate() error {
	if r.GroupID == "" {
		return errGroupIDRequired
	}
	return nil
}

// ListMyGroupsRequest lists the groups the caller belongs to.
type ListMyGroupsRequest struct{}

// SearchGroupsRequest finds groups whose name contains name.
type SearchGroupsRequest struct {
	Name string `json:"name"`
}

// ListGroupsResponse holds the groups matched by a list or search.
type ListGroupsResponse struct {
	Groups []*Group `json:"groups"`
}

// JoinGroupRequest adds the caller to group_id. Private groups need the password.
type JoinGroupRequest struct {
	GroupID  string `json:"group_id"`
	Password string `json:"password,omitempty"`
}

func (r *JoinGroupRequest) Validate() error {
	if r.GroupID == "" {
		return errGroupIDRequired
	}
	return nil
}

// LeaveGroupRequest removes the caller from group_id.
type LeaveGroupRequest struct {
	GroupID string `json:"group_id"`
}

func (r *LeaveGroupRequest) Validate() error {
	if r.GroupID == "" {
		return errGroupIDRequired
	}
	return nil
}

// RemoveMemberRequest removes another member. Owner only.
type RemoveMemberRequest struct {
	GroupID string `json:"group_id"`
	UserID  string `json:"user_id"`
}

func (r *RemoveMemberRequest) Validate() error {
	if r.GroupID == "" {
		return errGroupIDRequired
	}
	if r.UserID == "" {
		return errUserIDRequired
	}
	return nil
}

// UpdateGroupPasswordRequest sets a new join password. An empty password
// makes the group public. Owner only.
type UpdateGroupPasswordRequest struct {
	GroupID  string `json:"group_id"`
	Password string `json:"password,omitempty"`
}

func (r *UpdateGroupPasswordRequest) Validate() error {
	if r.GroupID == "" {
		return errGroupIDRequired
	}
	return nil
}

// DeleteGroupRequest deletes a group and its entries. Owner only.
type DeleteGroupRequest struct {
	GroupID string `json:"group_id"`
}

func (r *DeleteGroupRequest) Validate() error {
	if r.GroupID == "" {
		return errGroupIDRequired
	}
	return nil
}
