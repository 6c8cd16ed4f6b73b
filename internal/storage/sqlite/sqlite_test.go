package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
)

// StoreTestSuite runs every test against a fresh database file.
type StoreTestSuite struct {
	suite.Suite
	store *SQLiteStore
	ctx   context.Context
}

func TestStoreTestSuite(t *testing.T) {
	suite.Run(t, new(StoreTestSuite))
}

func (s *StoreTestSuite) SetupTest() {
	store, err := New(filepath.Join(s.T().TempDir(), "nested", "test.db"))
	require.NoError(s.T(), err, "failed to create test database")
	s.store = store
	s.ctx = context.Background()
}

func (s *StoreTestSuite) TearDownTest() {
	if s.store != nil {
		s.store.Close()
	}
}

func (s *StoreTestSuite) TestNewCreatesParentDirectories() {
	path := filepath.Join(s.T().TempDir(), "data", "ledger", "splitledger.db")
	store, err := New(path)
	require.NoError(s.T(), err)
	defer store.Close()

	assert.FileExists(s.T(), path)
}

func (s *StoreTestSuite) createGroup(members ...string) *models.Group {
	group := &models.Group{Name: "Roommates", OwnerID: members[0], MemberIDs: members, Public: true}
	require.NoError(s.T(), s.store.CreateGroup(s.ctx, group))
	return group
}

func dec(v string) decimal.Decimal { return decimal.RequireFromString(v) }

func (s *StoreTestSuite) TestCreateEntryGeneratesIDs() {
	group := s.createGroup("alice", "bob")
	entry := &models.Entry{GroupID: group.ID, Title: "Groceries", Amount: dec("12.34"), CreatedBy: "alice"}

	require.NoError(s.T(), s.store.CreateEntry(s.ctx, entry))

	assert.NotEmpty(s.T(), entry.ID)
	assert.NotZero(s.T(), entry.CreatedAt)
	assert.Equal(s.T(), int64(1), entry.Version)
	assert.Equal(s.T(), models.SplitTypeNone, entry.SplitType)
}

func (s *StoreTestSuite) TestCreateEntryUnknownGroup() {
	err := s.store.CreateEntry(s.ctx, &models.Entry{GroupID: "missing", Title: "x", Amount: dec("1")})
	assert.ErrorIs(s.T(), err, models.ErrNotFound)
}

func (s *StoreTestSuite) TestEntryRoundTripPreservesSplits() {
	group := s.createGroup("alice", "bob", "carol")
	paidAt := time.Date(2026, 5, 17, 9, 30, 0, 123000000, time.UTC)
	original := &models.Entry{
		GroupID:   group.ID,
		Title:     "Dinner",
		Amount:    dec("10.00"),
		SplitType: models.SplitTypeEqual,
		CreatedBy: "alice",
		Splits: []models.Split{
			{UserID: "carol", Amount: dec("3.34")},
			{UserID: "alice", Amount: dec("3.33"), Paid: true, PaidDate: &paidAt},
			{UserID: "bob", Amount: dec("3.33")},
		},
	}
	require.NoError(s.T(), s.store.CreateEntry(s.ctx, original))

	got, err := s.store.GetEntry(s.ctx, original.ID)
	require.NoError(s.T(), err)

	assert.Equal(s.T(), original.Title, got.Title)
	assert.True(s.T(), original.Amount.Equal(got.Amount))
	assert.Equal(s.T(), models.SplitTypeEqual, got.SplitType)
	require.Len(s.T(), got.Splits, 3)

	// Order is allocation order, not alphabetical.
	assert.Equal(s.T(), "carol", got.Splits[0].UserID)
	assert.Equal(s.T(), "alice", got.Splits[1].UserID)
	assert.Equal(s.T(), "bob", got.Splits[2].UserID)

	assert.Equal(s.T(), "3.34", got.Splits[0].Amount.StringFixed(2))
	assert.False(s.T(), got.Splits[0].Paid)
	assert.Nil(s.T(), got.Splits[0].PaidDate)

	assert.True(s.T(), got.Splits[1].Paid)
	require.NotNil(s.T(), got.Splits[1].PaidDate)
	assert.True(s.T(), paidAt.Equal(*got.Splits[1].PaidDate))
}

func (s *StoreTestSuite) TestGetEntryNotFound() {
	_, err := s.store.GetEntry(s.ctx, "nonexistent-id")
	var nf *models.NotFoundError
	require.ErrorAs(s.T(), err, &nf)
	assert.Equal(s.T(), "entry", nf.Kind)
}

func (s *StoreTestSuite) TestSaveEntryReplacesSplitsAndBumpsVersion() {
	group := s.createGroup("alice", "bob")
	entry := &models.Entry{GroupID: group.ID, Title: "Taxi", Amount: dec("0"), CreatedBy: "alice"}
	require.NoError(s.T(), s.store.CreateEntry(s.ctx, entry))

	entry.Amount = dec("20.00")
	entry.SplitType = models.SplitTypeManual
	entry.Splits = []models.Split{
		{UserID: "alice", Amount: dec("12.50")},
		{UserID: "bob", Amount: dec("7.50")},
	}
	require.NoError(s.T(), s.store.SaveEntry(s.ctx, entry))
	assert.Equal(s.T(), int64(2), entry.Version)

	entry.Splits = []models.Split{{UserID: "bob", Amount: dec("20.00")}}
	require.NoError(s.T(), s.store.SaveEntry(s.ctx, entry))

	got, err := s.store.GetEntry(s.ctx, entry.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), int64(3), got.Version)
	assert.Equal(s.T(), models.SplitTypeManual, got.SplitType)
	require.Len(s.T(), got.Splits, 1)
	assert.Equal(s.T(), "bob", got.Splits[0].UserID)
}

func (s *StoreTestSuite) TestSaveEntryStaleVersionConflicts() {
	group := s.createGroup("alice", "bob")
	entry := &models.Entry{GroupID: group.ID, Title: "Taxi", Amount: dec("5"), CreatedBy: "alice"}
	require.NoError(s.T(), s.store.CreateEntry(s.ctx, entry))

	first, err := s.store.GetEntry(s.ctx, entry.ID)
	require.NoError(s.T(), err)
	second, err := s.store.GetEntry(s.ctx, entry.ID)
	require.NoError(s.T(), err)

	first.Title = "Taxi home"
	require.NoError(s.T(), s.store.SaveEntry(s.ctx, first))

	second.Title = "Taxi to airport"
	err = s.store.SaveEntry(s.ctx, second)
	assert.ErrorIs(s.T(), err, storage.ErrConflict)

	got, err := s.store.GetEntry(s.ctx, entry.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "Taxi home", got.Title)
}

func (s *StoreTestSuite) TestSaveEntryMissing() {
	err := s.store.SaveEntry(s.ctx, &models.Entry{ID: "gone", Version: 1})
	assert.ErrorIs(s.T(), err, models.ErrNotFound)
}

func (s *StoreTestSuite) TestListEntriesByGroup() {
	group := s.createGroup("alice", "bob")
	other := s.createGroup("carol")

	for _, title := range []string{"first", "second", "third"} {
		e := &models.Entry{
			GroupID: group.ID, Title: title, Amount: dec("2"), SplitType: models.SplitTypeEqual, CreatedBy: "alice",
			Splits: []models.Split{{UserID: "alice", Amount: dec("1")}, {UserID: "bob", Amount: dec("1")}},
		}
		require.NoError(s.T(), s.store.CreateEntry(s.ctx, e))
	}
	require.NoError(s.T(), s.store.CreateEntry(s.ctx, &models.Entry{GroupID: other.ID, Title: "elsewhere", Amount: dec("1")}))

	entries, err := s.store.ListEntriesByGroup(s.ctx, group.ID)
	require.NoError(s.T(), err)
	require.Len(s.T(), entries, 3)
	assert.Equal(s.T(), "first", entries[0].Title)
	assert.Equal(s.T(), "third", entries[2].Title)
	for _, e := range entries {
		assert.Len(s.T(), e.Splits, 2)
	}

	empty := s.createGroup("dave")
	entries, err = s.store.ListEntriesByGroup(s.ctx, empty.ID)
	require.NoError(s.T(), err)
	assert.Empty(s.T(), entries)

	_, err = s.store.ListEntriesByGroup(s.ctx, "missing")
	assert.ErrorIs(s.T(), err, models.ErrNotFound)
}

func (s *StoreTestSuite) TestDeleteEntry() {
	group := s.createGroup("alice")
	entry := &models.Entry{GroupID: group.ID, Title: "x", Amount: dec("1"),
		Splits: []models.Split{{UserID: "alice", Amount: dec("1")}}}
	require.NoError(s.T(), s.store.CreateEntry(s.ctx, entry))

	require.NoError(s.T(), s.store.DeleteEntry(s.ctx, entry.ID))

	_, err := s.store.GetEntry(s.ctx, entry.ID)
	assert.ErrorIs(s.T(), err, models.ErrNotFound)
	assert.ErrorIs(s.T(), s.store.DeleteEntry(s.ctx, entry.ID), models.ErrNotFound)
}

func (s *StoreTestSuite) TestGroupMembership() {
	group := s.createGroup("alice", "bob")

	got, err := s.store.GetGroup(s.ctx, group.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), []string{"alice", "bob"}, got.MemberIDs)
	assert.Equal(s.T(), "alice", got.OwnerID)
	assert.True(s.T(), got.Public)

	require.NoError(s.T(), s.store.AddGroupMember(s.ctx, group.ID, "carol"))
	require.NoError(s.T(), s.store.AddGroupMember(s.ctx, group.ID, "carol"))
	got, err = s.store.GetGroup(s.ctx, group.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), []string{"alice", "bob", "carol"}, got.MemberIDs)

	require.NoError(s.T(), s.store.RemoveGroupMember(s.ctx, group.ID, "bob"))
	assert.ErrorIs(s.T(), s.store.RemoveGroupMember(s.ctx, group.ID, "bob"), models.ErrNotFound)

	groups, err := s.store.ListGroupsByMember(s.ctx, "carol")
	require.NoError(s.T(), err)
	require.Len(s.T(), groups, 1)
	assert.Equal(s.T(), []string{"alice", "carol"}, groups[0].MemberIDs)

	groups, err = s.store.ListGroupsByMember(s.ctx, "bob")
	require.NoError(s.T(), err)
	assert.Empty(s.T(), groups)

	assert.ErrorIs(s.T(), s.store.AddGroupMember(s.ctx, "missing", "x"), models.ErrNotFound)
}

func (s *StoreTestSuite) TestSearchGroupsByName() {
	for _, name := range []string{"Ski Trip 2026", "Roommates", "ski club", "100% Fun"} {
		require.NoError(s.T(), s.store.CreateGroup(s.ctx, &models.Group{Name: name, OwnerID: "o", MemberIDs: []string{"o"}, Public: true}))
	}

	groups, err := s.store.SearchGroupsByName(s.ctx, "SKI")
	require.NoError(s.T(), err)
	require.Len(s.T(), groups, 2)
	assert.Equal(s.T(), "Ski Trip 2026", groups[0].Name)
	assert.Equal(s.T(), "ski club", groups[1].Name)

	groups, err = s.store.SearchGroupsByName(s.ctx, "%")
	require.NoError(s.T(), err)
	require.Len(s.T(), groups, 1)
	assert.Equal(s.T(), "100% Fun", groups[0].Name)
}

func (s *StoreTestSuite) TestGroupPasswordAndDelete() {
	group := s.createGroup("alice")
	require.NoError(s.T(), s.store.UpdateGroupPassword(s.ctx, group.ID, false, "hash"))

	got, err := s.store.GetGroup(s.ctx, group.ID)
	require.NoError(s.T(), err)
	assert.False(s.T(), got.Public)
	assert.Equal(s.T(), "hash", got.PasswordHash)

	entry := &models.Entry{GroupID: group.ID, Title: "x", Amount: dec("1")}
	require.NoError(s.T(), s.store.CreateEntry(s.ctx, entry))

	require.NoError(s.T(), s.store.DeleteGroup(s.ctx, group.ID))
	_, err = s.store.GetGroup(s.ctx, group.ID)
	assert.ErrorIs(s.T(), err, models.ErrNotFound)

	// Entries cascade with the group.
	_, err = s.store.GetEntry(s.ctx, entry.ID)
	assert.ErrorIs(s.T(), err, models.ErrNotFound)

	assert.ErrorIs(s.T(), s.store.UpdateGroupPassword(s.ctx, group.ID, true, ""), models.ErrNotFound)
}

func (s *StoreTestSuite) TestUsers() {
	user := models.NewUser("alice@example.com", "Alice", "hash")
	require.NoError(s.T(), s.store.CreateUser(s.ctx, user))

	byEmail, err := s.store.GetUserByEmail(s.ctx, "alice@example.com")
	require.NoError(s.T(), err)
	assert.Equal(s.T(), user.ID, byEmail.ID)

	byID, err := s.store.GetUserByID(s.ctx, user.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "Alice", byID.DisplayName)

	_, err = s.store.GetUserByEmail(s.ctx, "nobody@example.com")
	assert.ErrorIs(s.T(), err, models.ErrNotFound)

	// Email is unique.
	assert.Error(s.T(), s.store.CreateUser(s.ctx, models.NewUser("alice@example.com", "Other", "hash")))

	users, err := s.store.GetUsersByIDs(s.ctx, []string{user.ID, "missing"})
	require.NoError(s.T(), err)
	assert.Len(s.T(), users, 1)
	assert.Contains(s.T(), users, user.ID)
}

func TestRepeatPlaceholder(t *testing.T) {
	assert.Equal(t, "", repeatPlaceholder(0))
	assert.Equal(t, ", ?, ?", repeatPlaceholder(2))
}
