package communities

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memberKey struct {
	communityID int
	userID      int
}

type fakeRepo struct {
	communities map[int]*Community
	members     map[memberKey]string
	active      map[int]int
	nextID      int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		communities: make(map[int]*Community),
		members:     make(map[memberKey]string),
		active:      make(map[int]int),
		nextID:      1,
	}
}

func (f *fakeRepo) Create(_ context.Context, c *Community) error {
	c.ID = f.nextID
	f.nextID++
	cp := *c
	f.communities[c.ID] = &cp
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id int) (*Community, error) {
	c, ok := f.communities[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeRepo) GetByInviteCode(_ context.Context, code string) (*Community, error) {
	for _, c := range f.communities {
		if c.InviteCode == code {
			cp := *c
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeRepo) ListPublic(_ context.Context) ([]Community, error) {
	var out []Community
	for _, c := range f.communities {
		if c.Type == TypePublic {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListForUser(_ context.Context, userID int) ([]Community, error) {
	var out []Community
	for key := range f.members {
		if key.userID == userID {
			out = append(out, *f.communities[key.communityID])
		}
	}
	return out, nil
}

func (f *fakeRepo) AddMember(_ context.Context, communityID, userID int, role string) error {
	f.members[memberKey{communityID, userID}] = role
	return nil
}

func (f *fakeRepo) RemoveMember(_ context.Context, communityID, userID int) error {
	delete(f.members, memberKey{communityID, userID})
	return nil
}

func (f *fakeRepo) MemberRole(_ context.Context, communityID, userID int) (string, error) {
	role, ok := f.members[memberKey{communityID, userID}]
	if !ok {
		return "", ErrNotFound
	}
	return role, nil
}

func (f *fakeRepo) IsMember(_ context.Context, communityID, userID int) (bool, error) {
	_, ok := f.members[memberKey{communityID, userID}]
	return ok, nil
}

func (f *fakeRepo) Members(_ context.Context, communityID int) ([]Member, error) {
	var out []Member
	for key, role := range f.members {
		if key.communityID == communityID {
			out = append(out, Member{UserID: key.userID, Role: role})
		}
	}
	return out, nil
}

func (f *fakeRepo) SetActive(_ context.Context, userID, communityID int) error {
	f.active[userID] = communityID
	return nil
}

func (f *fakeRepo) GetActive(_ context.Context, userID int) (*Community, error) {
	communityID, ok := f.active[userID]
	if !ok {
		return nil, ErrNotFound
	}
	return f.GetByID(context.Background(), communityID)
}

func (f *fakeRepo) ClearActiveIf(_ context.Context, userID, communityID int) error {
	if f.active[userID] == communityID {
		delete(f.active, userID)
	}
	return nil
}

func TestCreate_EnrollsOwnerAndSetsActive(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	community, err := svc.Create(context.Background(), 1, CreateRequest{Name: "  Morning Readers  ", Type: TypePublic})
	require.NoError(t, err)

	assert.Equal(t, "Morning Readers", community.Name, "name is trimmed before validation")
	assert.Equal(t, RoleOwner, repo.members[memberKey{community.ID, 1}])
	assert.Equal(t, community.ID, repo.active[1])
	assert.Equal(t, 1, community.MemberCount)

	assert.Len(t, community.InviteCode, inviteCodeLength)
	for _, c := range community.InviteCode {
		assert.Contains(t, inviteAlphabet, string(c))
	}
}

func TestCreate_RejectsBadNames(t *testing.T) {
	svc := NewService(newFakeRepo())
	ctx := context.Background()

	_, err := svc.Create(ctx, 1, CreateRequest{Name: "ab", Type: TypePublic})
	assert.Error(t, err, "too short")

	_, err = svc.Create(ctx, 1, CreateRequest{Name: strings.Repeat("x", 31), Type: TypePublic})
	assert.Error(t, err, "too long")

	_, err = svc.Create(ctx, 1, CreateRequest{Name: "   ", Type: TypePublic})
	assert.Error(t, err, "whitespace only")

	_, err = svc.Create(ctx, 1, CreateRequest{Name: "Fine Name", Type: "secret"})
	assert.Error(t, err, "unknown type")
}

func TestJoinPublic(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	ctx := context.Background()

	community, err := svc.Create(ctx, 1, CreateRequest{Name: "Readers", Type: TypePublic})
	require.NoError(t, err)

	joined, err := svc.JoinPublic(ctx, 2, community.ID)
	require.NoError(t, err)
	assert.Equal(t, RoleMember, repo.members[memberKey{community.ID, 2}])
	assert.Equal(t, community.ID, repo.active[2])
	assert.Equal(t, 2, joined.MemberCount)

	_, err = svc.JoinPublic(ctx, 2, community.ID)
	assert.ErrorIs(t, err, ErrAlreadyMember)

	_, err = svc.JoinPublic(ctx, 3, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestJoinPublic_RejectsPrivate(t *testing.T) {
	svc := NewService(newFakeRepo())
	ctx := context.Background()

	community, err := svc.Create(ctx, 1, CreateRequest{Name: "Inner Circle", Type: TypePrivate})
	require.NoError(t, err)

	_, err = svc.JoinPublic(ctx, 2, community.ID)
	assert.ErrorIs(t, err, ErrPrivateCommunity)
}

func TestJoinByInviteCode(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	ctx := context.Background()

	community, err := svc.Create(ctx, 1, CreateRequest{Name: "Inner Circle", Type: TypePrivate})
	require.NoError(t, err)

	// Codes match case-insensitively with surrounding whitespace ignored.
	sloppy := "  " + strings.ToLower(community.InviteCode) + " "
	joined, err := svc.JoinByInviteCode(ctx, 2, sloppy)
	require.NoError(t, err)
	assert.Equal(t, community.ID, joined.ID)
	assert.Equal(t, RoleMember, repo.members[memberKey{community.ID, 2}])

	_, err = svc.JoinByInviteCode(ctx, 3, "XXXXXX")
	assert.ErrorIs(t, err, ErrInvalidInviteCode)
}

func TestLeave(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	ctx := context.Background()

	community, err := svc.Create(ctx, 1, CreateRequest{Name: "Readers", Type: TypePublic})
	require.NoError(t, err)
	_, err = svc.JoinPublic(ctx, 2, community.ID)
	require.NoError(t, err)

	require.NoError(t, svc.Leave(ctx, 2, community.ID))
	assert.NotContains(t, repo.members, memberKey{community.ID, 2})
	assert.NotContains(t, repo.active, 2, "leaving the active community clears it")

	assert.ErrorIs(t, svc.Leave(ctx, 2, community.ID), ErrNotMember)
	assert.ErrorIs(t, svc.Leave(ctx, 1, community.ID), ErrOwnerCannotLeave)
}

func TestMembers_RequiresMembership(t *testing.T) {
	svc := NewService(newFakeRepo())
	ctx := context.Background()

	community, err := svc.Create(ctx, 1, CreateRequest{Name: "Readers", Type: TypePublic})
	require.NoError(t, err)

	_, err = svc.Members(ctx, 2, community.ID)
	assert.ErrorIs(t, err, ErrNotMember)

	members, err := svc.Members(ctx, 1, community.ID)
	require.NoError(t, err)
	assert.Len(t, members, 1)
}

func TestSetActiveAndGetActive(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	ctx := context.Background()

	first, err := svc.Create(ctx, 1, CreateRequest{Name: "First", Type: TypePublic})
	require.NoError(t, err)
	second, err := svc.Create(ctx, 1, CreateRequest{Name: "Second", Type: TypePublic})
	require.NoError(t, err)

	// Creation switched active to the newest; switch back.
	require.NoError(t, svc.SetActive(ctx, 1, first.ID))

	active, err := svc.GetActive(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, first.ID, active.ID)

	assert.ErrorIs(t, svc.SetActive(ctx, 2, second.ID), ErrNotMember)

	none, err := svc.GetActive(ctx, 2)
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestInviteCodesAreUnique(t *testing.T) {
	svc := NewService(newFakeRepo())
	ctx := context.Background()

	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		c, err := svc.Create(ctx, 1, CreateRequest{Name: "Readers", Type: TypePrivate})
		require.NoError(t, err)
		assert.False(t, seen[c.InviteCode])
		seen[c.InviteCode] = true
	}
}
