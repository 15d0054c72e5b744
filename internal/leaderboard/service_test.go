package leaderboard

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	global    []Entry
	community map[int][]Entry
}

func (f *fakeRepo) GlobalEntries(_ context.Context) ([]Entry, error) {
	return append([]Entry(nil), f.global...), nil
}

func (f *fakeRepo) CommunityEntries(_ context.Context, communityID int) ([]Entry, error) {
	return append([]Entry(nil), f.community[communityID]...), nil
}

type fakeMembers map[int]map[int]bool

func (f fakeMembers) IsMember(_ context.Context, communityID, userID int) (bool, error) {
	return f[communityID][userID], nil
}

func TestGlobal_RanksByStreakThenRecency(t *testing.T) {
	repo := &fakeRepo{global: []Entry{
		{UserID: 1, DisplayName: "A", CurrentStreak: 5, LastReadLocalDate: "2024-02-01"},
		{UserID: 2, DisplayName: "B", CurrentStreak: 5, LastReadLocalDate: "2024-02-02"},
		{UserID: 3, DisplayName: "C", CurrentStreak: 3, LastReadLocalDate: "2024-02-02"},
	}}
	svc := NewService(repo, fakeMembers{})

	result, err := svc.Global(context.Background(), 1)
	require.NoError(t, err)

	require.Len(t, result.Entries, 3)
	assert.Equal(t, 2, result.Entries[0].UserID, "more recent read wins the tie")
	assert.Equal(t, 1, result.Entries[0].Rank)
	assert.Equal(t, 1, result.Entries[1].UserID)
	assert.Equal(t, 2, result.Entries[1].Rank)
	assert.Equal(t, 3, result.Entries[2].UserID)
	assert.Equal(t, 3, result.Entries[2].Rank)

	require.NotNil(t, result.CurrentUser)
	assert.Equal(t, 1, result.CurrentUser.UserID)
	assert.Equal(t, 2, result.CurrentUser.Rank)
	assert.Equal(t, 3, result.TotalUsers)
}

func TestGlobal_FullTiesGetDistinctRanks(t *testing.T) {
	repo := &fakeRepo{global: []Entry{
		{UserID: 1, CurrentStreak: 4, LastReadLocalDate: "2024-02-02"},
		{UserID: 2, CurrentStreak: 4, LastReadLocalDate: "2024-02-02"},
		{UserID: 3, CurrentStreak: 2, LastReadLocalDate: "2024-02-02"},
	}}
	svc := NewService(repo, fakeMembers{})

	result, err := svc.Global(context.Background(), 3)
	require.NoError(t, err)

	// Rank is always position+1: ties keep their sorted order and get
	// consecutive ranks, never a shared one.
	for i, e := range result.Entries {
		assert.Equal(t, i+1, e.Rank)
	}
	assert.Equal(t, 1, result.Entries[0].UserID, "first-sorted wins the tie")
	assert.Equal(t, 2, result.Entries[1].UserID)
}

func TestGlobal_PinsUserOutsideTopSlice(t *testing.T) {
	var entries []Entry
	for i := 1; i <= TopLimit+5; i++ {
		entries = append(entries, Entry{
			UserID:            i,
			DisplayName:       fmt.Sprintf("user-%d", i),
			CurrentStreak:     1000 - i,
			LastReadLocalDate: "2024-02-02",
		})
	}
	repo := &fakeRepo{global: entries}
	svc := NewService(repo, fakeMembers{})

	last := TopLimit + 5
	result, err := svc.Global(context.Background(), last)
	require.NoError(t, err)

	assert.Len(t, result.Entries, TopLimit)
	require.NotNil(t, result.CurrentUser)
	assert.Equal(t, last, result.CurrentUser.UserID)
	assert.Equal(t, last, result.CurrentUser.Rank, "pinned entry keeps its true rank")
	assert.Equal(t, last, result.TotalUsers)
}

func TestGlobal_EmptyBoard(t *testing.T) {
	svc := NewService(&fakeRepo{}, fakeMembers{})

	result, err := svc.Global(context.Background(), 1)
	require.NoError(t, err)

	assert.Empty(t, result.Entries)
	assert.Nil(t, result.CurrentUser)
	assert.Zero(t, result.TotalUsers)
}

func TestGlobal_UserWithoutStreakRanksLast(t *testing.T) {
	repo := &fakeRepo{global: []Entry{
		{UserID: 1, CurrentStreak: 2, LastReadLocalDate: "2024-02-02"},
		{UserID: 2, CurrentStreak: 0, LastReadLocalDate: ""},
	}}
	svc := NewService(repo, fakeMembers{})

	result, err := svc.Global(context.Background(), 2)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Entries[1].UserID)
	assert.Equal(t, 2, result.CurrentUser.Rank)
}

func TestCommunity_RequiresMembership(t *testing.T) {
	repo := &fakeRepo{community: map[int][]Entry{
		7: {{UserID: 1, CurrentStreak: 3, LastReadLocalDate: "2024-02-02"}},
	}}
	svc := NewService(repo, fakeMembers{7: {1: true}})

	_, err := svc.Community(context.Background(), 7, 99)
	assert.ErrorIs(t, err, ErrNotMember)

	result, err := svc.Community(context.Background(), 7, 1)
	require.NoError(t, err)
	require.Len(t, result.Entries, 1)
	assert.Equal(t, 1, result.Entries[0].Rank)
}
