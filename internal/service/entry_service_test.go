package service

import (
	"context"
	"testing"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/splitledger/pkg/api"
)

func TestCreateAndListEntries(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register(t, "alice")
	bob := env.register(t, "bob")
	groupID := env.group(t, alice, bob)
	ctx := context.Background()

	first := env.entry(t, alice, groupID, "  Groceries ", "12.50")
	assert.Equal(t, "Groceries", first.Title)
	assert.Equal(t, "NONE", first.SplitType)
	assert.Equal(t, alice.ID, first.CreatedBy)
	assert.Equal(t, int64(1), first.Version)
	second := env.entry(t, bob, groupID, "Internet", "40")

	resp, err := env.entries.ListEntries(ctx, as(bob, &api.ListEntriesRequest{GroupID: groupID}))
	require.NoError(t, err)
	require.Len(t, resp.Msg.Entries, 2)
	assert.Equal(t, first.ID, resp.Msg.Entries[0].ID)
	assert.Equal(t, second.ID, resp.Msg.Entries[1].ID)
	assert.Equal(t, "12.50", resp.Msg.Entries[0].Amount.StringFixed(2))
}

func TestCreateEntryValidation(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register(t, "alice")
	groupID := env.group(t, alice)
	ctx := context.Background()

	tests := []struct {
		name string
		req  *api.CreateEntryRequest
		want connect.Code
	}{
		{"missing title", &api.CreateEntryRequest{GroupID: groupID, Title: " ", Amount: dec("1")}, connect.CodeInvalidArgument},
		{"negative amount", &api.CreateEntryRequest{GroupID: groupID, Title: "x", Amount: dec("-1")}, connect.CodeInvalidArgument},
		{"missing group", &api.CreateEntryRequest{Title: "x", Amount: dec("1")}, connect.CodeInvalidArgument},
		{"unknown group", &api.CreateEntryRequest{GroupID: "nope", Title: "x", Amount: dec("1")}, connect.CodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.entries.CreateEntry(ctx, as(alice, tt.req))
			assertCode(t, tt.want, err)
		})
	}
}

func TestUpdateEntryKeepsSplits(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register(t, "alice")
	bob := env.register(t, "bob")
	groupID := env.group(t, alice, bob)
	ctx := context.Background()

	entry := env.entry(t, alice, groupID, "Dinner", "9.00")
	_, err := env.splits.CreateEqualSplits(ctx, as(alice, &api.CreateEqualSplitsRequest{
		EntryID: entry.ID, UserIDs: []string{alice.ID, bob.ID}, TotalAmount: dec("9.00"),
	}))
	require.NoError(t, err)

	resp, err := env.entries.UpdateEntry(ctx, as(bob, &api.UpdateEntryRequest{EntryID: entry.ID, Title: "Birthday dinner"}))
	require.NoError(t, err)
	assert.Equal(t, "Birthday dinner", resp.Msg.Entry.Title)
	assert.Equal(t, []string{"4.50", "4.50"}, splitAmounts(resp.Msg.Entry.Splits))
	assert.Equal(t, "EQUAL", resp.Msg.Entry.SplitType)
	assert.Equal(t, int64(3), resp.Msg.Entry.Version)
}

func TestDeleteEntry(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register(t, "alice")
	mallory := env.register(t, "mallory")
	groupID := env.group(t, alice)
	ctx := context.Background()

	entry := env.entry(t, alice, groupID, "Dinner", "9.00")

	_, err := env.entries.DeleteEntry(ctx, as(mallory, &api.DeleteEntryRequest{EntryID: entry.ID}))
	assertCode(t, connect.CodePermissionDenied, err)

	_, err = env.entries.DeleteEntry(ctx, as(alice, &api.DeleteEntryRequest{EntryID: entry.ID}))
	require.NoError(t, err)

	_, err = env.entries.GetEntry(ctx, as(alice, &api.GetEntryRequest{EntryID: entry.ID}))
	assertCode(t, connect.CodeNotFound, err)

	_, err = env.entries.DeleteEntry(ctx, as(alice, &api.DeleteEntryRequest{EntryID: entry.ID}))
	assertCode(t, connect.CodeNotFound, err)
}

func TestEntriesAreScopedToMembers(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register(t, "alice")
	mallory := env.register(t, "mallory")
	groupID := env.group(t, alice)
	entry := env.entry(t, alice, groupID, "Dinner", "9.00")
	ctx := context.Background()

	_, err := env.entries.GetEntry(ctx, as(mallory, &api.GetEntryRequest{EntryID: entry.ID}))
	assertCode(t, connect.CodePermissionDenied, err)

	_, err = env.entries.ListEntries(ctx, as(mallory, &api.ListEntriesRequest{GroupID: groupID}))
	assertCode(t, connect.CodePermissionDenied, err)

	_, err = env.entries.CreateEntry(ctx, as(mallory, &api.CreateEntryRequest{GroupID: groupID, Title: "x", Amount: dec("1")}))
	assertCode(t, connect.CodePermissionDenied, err)
}
