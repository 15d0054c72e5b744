package leaderboard

import (
	"context"
	"errors"
	"sort"
)

var ErrNotMember = errors.New("user is not a member of this community")

// MembershipChecker answers whether a user belongs to a community.
// Satisfied by the communities repository.
type MembershipChecker interface {
	IsMember(ctx context.Context, communityID, userID int) (bool, error)
}

type Service struct {
	repo    Repository
	members MembershipChecker
}

func NewService(repo Repository, members MembershipChecker) Service {
	return Service{repo: repo, members: members}
}

// Global ranks every user by current streak and pins the requester.
func (s *Service) Global(ctx context.Context, currentUserID int) (*Result, error) {
	entries, err := s.repo.GlobalEntries(ctx)
	if err != nil {
		return nil, err
	}
	return rank(entries, currentUserID), nil
}

// Community ranks the members of one community. The requester must be a
// member.
func (s *Service) Community(ctx context.Context, communityID, currentUserID int) (*Result, error) {
	member, err := s.members.IsMember(ctx, communityID, currentUserID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, ErrNotMember
	}

	entries, err := s.repo.CommunityEntries(ctx, communityID)
	if err != nil {
		return nil, err
	}
	return rank(entries, currentUserID), nil
}

// rank orders by streak descending, breaking ties by the most recent
// read date. Rank is the 1-based sorted position: no gaps, no shared
// ranks, full ties resolved by sort stability. The result carries at
// most TopLimit rows plus the requester with their true rank.
func rank(entries []Entry, currentUserID int) *Result {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].CurrentStreak != entries[j].CurrentStreak {
			return entries[i].CurrentStreak > entries[j].CurrentStreak
		}
		// YYYY-MM-DD strings order lexicographically; later date first.
		return entries[i].LastReadLocalDate > entries[j].LastReadLocalDate
	})

	result := &Result{
		Entries:    []Entry{},
		TotalUsers: len(entries),
	}

	for i := range entries {
		entries[i].Rank = i + 1

		if i < TopLimit {
			result.Entries = append(result.Entries, entries[i])
		}
		if entries[i].UserID == currentUserID {
			pinned := entries[i]
			result.CurrentUser = &pinned
		}
	}

	return result
}
