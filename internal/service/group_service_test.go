package service

import (
	"context"
	"testing"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/splitledger/pkg/api"
)

func memberIDs(g *api.Group) []string {
	ids := make([]string, len(g.Members))
	for i, m := range g.Members {
		ids[i] = m.UserID
	}
	return ids
}

func TestCreateGroup(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register(t, "alice")

	resp, err := env.groups.CreateGroup(context.Background(), as(alice, &api.CreateGroupRequest{
		Name:   " Roommates ",
		Public: true,
	}))
	require.NoError(t, err)

	group := resp.Msg.Group
	assert.NotEmpty(t, group.ID)
	assert.Equal(t, "Roommates", group.Name)
	assert.Equal(t, alice.ID, group.OwnerID)
	assert.True(t, group.Public)
	require.Len(t, group.Members, 1)
	assert.Equal(t, api.Member{UserID: alice.ID, DisplayName: "alice"}, group.Members[0])
}

func TestCreateGroupValidation(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register(t, "alice")
	ctx := context.Background()

	_, err := env.groups.CreateGroup(ctx, as(alice, &api.CreateGroupRequest{Name: "", Public: true}))
	assertCode(t, connect.CodeInvalidArgument, err)

	_, err = env.groups.CreateGroup(ctx, as(alice, &api.CreateGroupRequest{Name: "Secret"}))
	assertCode(t, connect.CodeInvalidArgument, err)
}

func TestJoinPrivateGroup(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register(t, "alice")
	bob := env.register(t, "bob")
	ctx := context.Background()

	created, err := env.groups.CreateGroup(ctx, as(alice, &api.CreateGroupRequest{Name: "Ski Trip", Password: "hunter22"}))
	require.NoError(t, err)
	groupID := created.Msg.Group.ID
	assert.False(t, created.Msg.Group.Public)

	_, err = env.groups.JoinGroup(ctx, as(bob, &api.JoinGroupRequest{GroupID: groupID}))
	assertCode(t, connect.CodePermissionDenied, err)

	_, err = env.groups.JoinGroup(ctx, as(bob, &api.JoinGroupRequest{GroupID: groupID, Password: "wrong"}))
	assertCode(t, connect.CodePermissionDenied, err)

	joined, err := env.groups.JoinGroup(ctx, as(bob, &api.JoinGroupRequest{GroupID: groupID, Password: "hunter22"}))
	require.NoError(t, err)
	assert.Equal(t, []string{alice.ID, bob.ID}, memberIDs(joined.Msg.Group))

	_, err = env.groups.JoinGroup(ctx, as(bob, &api.JoinGroupRequest{GroupID: groupID, Password: "hunter22"}))
	assertCode(t, connect.CodeAlreadyExists, err)

	_, err = env.groups.JoinGroup(ctx, as(bob, &api.JoinGroupRequest{GroupID: "missing"}))
	assertCode(t, connect.CodeNotFound, err)
}

func TestListAndSearchGroups(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register(t, "alice")
	bob := env.register(t, "bob")
	ctx := context.Background()

	for _, name := range []string{"Ski Trip", "Roommates", "skiing club"} {
		_, err := env.groups.CreateGroup(ctx, as(alice, &api.CreateGroupRequest{Name: name, Public: true}))
		require.NoError(t, err)
	}

	mine, err := env.groups.ListMyGroups(ctx, as(alice, &api.ListMyGroupsRequest{}))
	require.NoError(t, err)
	assert.Len(t, mine.Msg.Groups, 3)

	none, err := env.groups.ListMyGroups(ctx, as(bob, &api.ListMyGroupsRequest{}))
	require.NoError(t, err)
	assert.Empty(t, none.Msg.Groups)

	found, err := env.groups.SearchGroups(ctx, as(bob, &api.SearchGroupsRequest{Name: "SKI"}))
	require.NoError(t, err)
	require.Len(t, found.Msg.Groups, 2)
	for _, g := range found.Msg.Groups {
		assert.Contains(t, []string{"Ski Trip", "skiing club"}, g.Name)
		assert.Empty(t, g.Members, "non-members must not see member lists")
	}
}

func TestGetGroupRequiresMembership(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register(t, "alice")
	bob := env.register(t, "bob")
	groupID := env.group(t, alice)
	ctx := context.Background()

	_, err := env.groups.GetGroup(ctx, as(bob, &api.GetGroupRequest{GroupID: groupID}))
	assertCode(t, connect.CodePermissionDenied, err)

	resp, err := env.groups.GetGroup(ctx, as(alice, &api.GetGroupRequest{GroupID: groupID}))
	require.NoError(t, err)
	assert.Equal(t, groupID, resp.Msg.Group.ID)
}

func TestLeaveGroup(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register(t, "alice")
	bob := env.register(t, "bob")
	groupID := env.group(t, alice, bob)
	ctx := context.Background()

	_, err := env.groups.LeaveGroup(ctx, as(alice, &api.LeaveGroupRequest{GroupID: groupID}))
	assertCode(t, connect.CodeFailedPrecondition, err)

	_, err = env.groups.LeaveGroup(ctx, as(bob, &api.LeaveGroupRequest{GroupID: groupID}))
	require.NoError(t, err)

	_, err = env.groups.LeaveGroup(ctx, as(bob, &api.LeaveGroupRequest{GroupID: groupID}))
	assertCode(t, connect.CodePermissionDenied, err)

	resp, err := env.groups.GetGroup(ctx, as(alice, &api.GetGroupRequest{GroupID: groupID}))
	require.NoError(t, err)
	assert.Equal(t, []string{alice.ID}, memberIDs(resp.Msg.Group))
}

func TestOwnerOnlyOperations(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register(t, "alice")
	bob := env.register(t, "bob")
	carol := env.register(t, "carol")
	groupID := env.group(t, alice, bob, carol)
	ctx := context.Background()

	t.Run("remove member", func(t *testing.T) {
		_, err := env.groups.RemoveMember(ctx, as(bob, &api.RemoveMemberRequest{GroupID: groupID, UserID: carol.ID}))
		assertCode(t, connect.CodePermissionDenied, err)

		_, err = env.groups.RemoveMember(ctx, as(alice, &api.RemoveMemberRequest{GroupID: groupID, UserID: alice.ID}))
		assertCode(t, connect.CodeInvalidArgument, err)

		resp, err := env.groups.RemoveMember(ctx, as(alice, &api.RemoveMemberRequest{GroupID: groupID, UserID: carol.ID}))
		require.NoError(t, err)
		assert.Equal(t, []string{alice.ID, bob.ID}, memberIDs(resp.Msg.Group))

		_, err = env.groups.RemoveMember(ctx, as(alice, &api.RemoveMemberRequest{GroupID: groupID, UserID: carol.ID}))
		assertCode(t, connect.CodeNotFound, err)
	})

	t.Run("update password", func(t *testing.T) {
		_, err := env.groups.UpdateGroupPassword(ctx, as(bob, &api.UpdateGroupPasswordRequest{GroupID: groupID, Password: "x"}))
		assertCode(t, connect.CodePermissionDenied, err)

		resp, err := env.groups.UpdateGroupPassword(ctx, as(alice, &api.UpdateGroupPasswordRequest{GroupID: groupID, Password: "letmein1"}))
		require.NoError(t, err)
		assert.False(t, resp.Msg.Group.Public)

		_, err = env.groups.JoinGroup(ctx, as(carol, &api.JoinGroupRequest{GroupID: groupID, Password: "nope"}))
		assertCode(t, connect.CodePermissionDenied, err)
		_, err = env.groups.JoinGroup(ctx, as(carol, &api.JoinGroupRequest{GroupID: groupID, Password: "letmein1"}))
		require.NoError(t, err)

		resp, err = env.groups.UpdateGroupPassword(ctx, as(alice, &api.UpdateGroupPasswordRequest{GroupID: groupID}))
		require.NoError(t, err)
		assert.True(t, resp.Msg.Group.Public)
	})

	t.Run("delete group", func(t *testing.T) {
		entry := env.entry(t, bob, groupID, "Dinner", "10")

		_, err := env.groups.DeleteGroup(ctx, as(bob, &api.DeleteGroupRequest{GroupID: groupID}))
		assertCode(t, connect.CodePermissionDenied, err)

		_, err = env.groups.DeleteGroup(ctx, as(alice, &api.DeleteGroupRequest{GroupID: groupID}))
		require.NoError(t, err)

		_, err = env.groups.GetGroup(ctx, as(alice, &api.GetGroupRequest{GroupID: groupID}))
		assertCode(t, connect.CodeNotFound, err)

		_, err = env.store.GetEntry(ctx, entry.ID)
		assert.Error(t, err, "entries must be deleted with their group")
	})
}
