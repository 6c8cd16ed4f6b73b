package apiconnect

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/pkg/api"
)

const GroupServiceName = "splitledger.v1.GroupService"

var (
	GroupServiceCreateGroupProcedure         = procedure(GroupServiceName, "CreateGroup")
	GroupServiceGetGroupProcedure            = procedure(GroupServiceName, "GetGroup")
	GroupServiceListMyGroupsProcedure        = procedure(GroupServiceName, "ListMyGroups")
	GroupServiceSearchGroupsProcedure        = procedure(GroupServiceName, "SearchGroups")
	GroupServiceJoinGroupProcedure           = procedure(GroupServiceName, "JoinGroup")
	GroupServiceLeaveGroupProcedure          = procedure(GroupServiceName, "LeaveGroup")
	GroupServiceRemoveMemberProcedure        = procedure(GroupServiceName, "RemoveMember")
	GroupServiceUpdateGroupPasswordProcedure = procedure(GroupServiceName, "UpdateGroupPassword")
	GroupServiceDeleteGroupProcedure         = procedure(GroupServiceName, "DeleteGroup")
)

// GroupServiceHandler manages groups and their membership.
type GroupServiceHandler interface {
	CreateGroup(context.Context, *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.GroupResponse], error)
	GetGroup(context.Context, *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GroupResponse], error)
	ListMyGroups(context.Context, *connect.Request[api.ListMyGroupsRequest]) (*connect.Response[api.ListGroupsResponse], error)
	SearchGroups(context.Context, *connect.Request[api.SearchGroupsRequest]) (*connect.Response[api.ListGroupsResponse], error)
	JoinGroup(context.Context, *connect.Request[api.JoinGroupRequest]) (*connect.Response[api.GroupResponse], error)
	LeaveGroup(context.Context, *connect.Request[api.LeaveGroupRequest]) (*connect.Response[api.Empty], error)
	RemoveMember(context.Context, *connect.Request[api.RemoveMemberRequest]) (*connect.Response[api.GroupResponse], error)
	UpdateGroupPassword(context.Context, *connect.Request[api.UpdateGroupPasswordRequest]) (*connect.Response[api.GroupResponse], error)
	DeleteGroup(context.Context, *connect.Request[api.DeleteGroupRequest]) (*connect.Response[api.Empty], error)
}

func NewGroupServiceHandler(svc GroupServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	mux := http.NewServeMux()
	mux.Handle(GroupServiceCreateGroupProcedure, connect.NewUnaryHandler(GroupServiceCreateGroupProcedure, svc.CreateGroup, opts...))
	mux.Handle(GroupServiceGetGroupProcedure, connect.NewUnaryHandler(GroupServiceGetGroupProcedure, svc.GetGroup, opts...))
	mux.Handle(GroupServiceListMyGroupsProcedure, connect.NewUnaryHandler(GroupServiceListMyGroupsProcedure, svc.ListMyGroups, opts...))
	mux.Handle(GroupServiceSearchGroupsProcedure, connect.NewUnaryHandler(GroupServiceSearchGroupsProcedure, svc.SearchGroups, opts...))
	mux.Handle(GroupServiceJoinGroupProcedure, connect.NewUnaryHandler(GroupServiceJoinGroupProcedure, svc.JoinGroup, opts...))
	mux.Handle(GroupServiceLeaveGroupProcedure, connect.NewUnaryHandler(GroupServiceLeaveGroupProcedure, svc.LeaveGroup, opts...))
	mux.Handle(GroupServiceRemoveMemberProcedure, connect.NewUnaryHandler(GroupServiceRemoveMemberProcedure, svc.RemoveMember, opts...))
	mux.Handle(GroupServiceUpdateGroupPasswordProcedure, connect.NewUnaryHandler(GroupServiceUpdateGroupPasswordProcedure, svc.UpdateGroupPassword, opts...))
	mux.Handle(GroupServiceDeleteGroupProcedure, connect.NewUnaryHandler(GroupServiceDeleteGroupProcedure, svc.DeleteGroup, opts...))
	return "/" + GroupServiceName + "/", mux
}

type GroupServiceClient interface {
	CreateGroup(context.Context, *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.GroupResponse], error)
	GetGroup(context.Context, *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GroupResponse], error)
	ListMyGroups(context.Context, *connect.Request[api.ListMyGroupsRequest]) (*connect.Response[api.ListGroupsResponse], error)
	SearchGroups(context.Context, *connect.Request[api.SearchGroupsRequest]) (*connect.Response[api.ListGroupsResponse], error)
	JoinGroup(context.Context, *connect.Request[api.JoinGroupRequest]) (*connect.Response[api.GroupResponse], error)
	LeaveGroup(context.Context, *connect.Request[api.LeaveGroupRequest]) (*connect.Response[api.Empty], error)
	RemoveMember(context.Context, *connect.Request[api.RemoveMemberRequest]) (*connect.Response[api.GroupResponse], error)
	UpdateGroupPassword(context.Context, *connect.Request[api.UpdateGroupPasswordRequest]) (*connect.Response[api.GroupResponse], error)
	DeleteGroup(context.Context, *connect.Request[api.DeleteGroupRequest]) (*connect.Response[api.Empty], error)
}

func NewGroupServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) GroupServiceClient {
	baseURL = trimBaseURL(baseURL)
	opts = clientOptions(opts)
	return &groupServiceClient{
		createGroup:         connect.NewClient[api.CreateGroupRequest, api.GroupResponse](httpClient, baseURL+GroupServiceCreateGroupProcedure, opts...),
		getGroup:            connect.NewClient[api.GetGroupRequest, api.GroupResponse](httpClient, baseURL+GroupServiceGetGroupProcedure, opts...),
		listMyGroups:        connect.NewClient[api.ListMyGroupsRequest, api.ListGroupsResponse](httpClient, baseURL+GroupServiceListMyGroupsProcedure, opts...),
		searchGroups:        connect.NewClient[api.SearchGroupsRequest, api.ListGroupsResponse](httpClient, baseURL+GroupServiceSearchGroupsProcedure, opts...),
		joinGroup:           connect.NewClient[api.JoinGroupRequest, api.GroupResponse](httpClient, baseURL+GroupServiceJoinGroupProcedure, opts...),
		leaveGroup:          connect.NewClient[api.LeaveGroupRequest, api.Empty](httpClient, baseURL+GroupServiceLeaveGroupProcedure, opts...),
		removeMember:        connect.NewClient[api.RemoveMemberRequest, api.GroupResponse](httpClient, baseURL+GroupServiceRemoveMemberProcedure, opts...),
		updateGroupPassword: connect.NewClient[api.UpdateGroupPasswordRequest, api.GroupResponse](httpClient, baseURL+GroupServiceUpdateGroupPasswordProcedure, opts...),
		deleteGroup:         connect.NewClient[api.DeleteGroupRequest, api.Empty](httpClient, baseURL+GroupServiceDeleteGroupProcedure, opts...),
	}
}

type groupServiceClient struct {
	createGroup         *connect.Client[api.CreateGroupRequest, api.GroupResponse]
	getGroup            *connect.Client[api.GetGroupRequest, api.GroupResponse]
	listMyGroups        *connect.Client[api.ListMyGroupsRequest, api.ListGroupsResponse]
	searchGroups        *connect.Client[api.SearchGroupsRequest, api.ListGroupsResponse]
	joinGroup           *connect.Client[api.JoinGroupRequest, api.GroupResponse]
	leaveGroup          *connect.Client[api.LeaveGroupRequest, api.Empty]
	removeMember        *connect.Client[api.RemoveMemberRequest, api.GroupResponse]
	updateGroupPassword *connect.Client[api.UpdateGroupPasswordRequest, api.GroupResponse]
	deleteGroup         *connect.Client[api.DeleteGroupRequest, api.Empty]
}

func (c *groupServiceClient) CreateGroup(ctx context.Context, req *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.GroupResponse], error) {
	return c.createGroup.CallUnary(ctx, req)
}

func (c *groupServiceClient) GetGroup(ctx context.Context, req *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GroupResponse], error) {
	return c.getGroup.CallUnary(ctx, req)
}

func (c *groupServiceClient) ListMyGroups(ctx context.Context, req *connect.Request[api.ListMyGroupsRequest]) (*connect.Response[api.ListGroupsResponse], error) {
	return c.listMyGroups.CallUnary(ctx, req)
}

func (c *groupServiceClient) SearchGroups(ctx context.Context, req *connect.Request[api.SearchGroupsRequest]) (*connect.Response[api.ListGroupsResponse], error) {
	return c.searchGroups.CallUnary(ctx, req)
}

func (c *groupServiceClient) JoinGroup(ctx context.Context, req *connect.Request[api.JoinGroupRequest]) (*connect.Response[api.GroupResponse], error) {
	return c.joinGroup.CallUnary(ctx, req)
}

func (c *groupServiceClient) LeaveGroup(ctx context.Context, req *connect.Request[api.LeaveGroupRequest]) (*connect.Response[api.Empty], error) {
	return c.leaveGroup.CallUnary(ctx, req)
}

func (c *groupServiceClient) RemoveMember(ctx context.Context, req *connect.Request[api.RemoveMemberRequest]) (*connect.Response[api.GroupResponse], error) {
	return c.removeMember.CallUnary(ctx, req)
}

func (c *groupServiceClient) UpdateGroupPassword(ctx context.Context, req *connect.Request[api.UpdateGroupPasswordRequest]) (*connect.Response[api.GroupResponse], error) {
	return c.updateGroupPassword.CallUnary(ctx, req)
}

func (c *groupServiceClient) DeleteGroup(ctx context.Context, req *connect.Request[api.DeleteGroupRequest]) (*connect.Response[api.Empty], error) {
	return c.deleteGroup.CallUnary(ctx, req)
}
