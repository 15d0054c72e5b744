package communities

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
)

var (
	ErrAlreadyMember     = errors.New("user is already a member")
	ErrNotMember         = errors.New("user is not a member")
	ErrOwnerCannotLeave  = errors.New("owner cannot leave their community")
	ErrPrivateCommunity  = errors.New("private community requires an invite code")
	ErrInvalidInviteCode = errors.New("invalid invite code")
)

// inviteAlphabet omits I, O, 0 and 1 to keep codes unambiguous when
// shared by voice or handwriting.
const inviteAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const inviteCodeLength = 6

type Service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return Service{repo: repo}
}

// Create makes a community, enrolls the creator as owner and switches
// their active community to it. Every community gets an invite code;
// for public ones it is just a shortcut past browsing.
func (s *Service) Create(ctx context.Context, userID int, req CreateRequest) (*Community, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := req.Validate(); err != nil {
		return nil, err
	}

	code, err := s.uniqueInviteCode(ctx)
	if err != nil {
		return nil, err
	}

	community := &Community{
		Name:       req.Name,
		Type:       req.Type,
		InviteCode: code,
		CreatedBy:  userID,
	}
	if err := s.repo.Create(ctx, community); err != nil {
		return nil, err
	}

	if err := s.repo.AddMember(ctx, community.ID, userID, RoleOwner); err != nil {
		return nil, err
	}
	if err := s.repo.SetActive(ctx, userID, community.ID); err != nil {
		return nil, err
	}

	community.MemberCount = 1
	return community, nil
}

// JoinPublic adds the user to a public community. Private communities
// are only joinable through their invite code.
func (s *Service) JoinPublic(ctx context.Context, userID, communityID int) (*Community, error) {
	community, err := s.repo.GetByID(ctx, communityID)
	if err != nil {
		return nil, err
	}
	if community.Type != TypePublic {
		return nil, ErrPrivateCommunity
	}
	return s.join(ctx, userID, community)
}

// JoinByInviteCode resolves a code and joins its community regardless
// of type. Codes are matched case-insensitively.
func (s *Service) JoinByInviteCode(ctx context.Context, userID int, code string) (*Community, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	community, err := s.repo.GetByInviteCode(ctx, code)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidInviteCode
		}
		return nil, err
	}
	return s.join(ctx, userID, community)
}

func (s *Service) join(ctx context.Context, userID int, community *Community) (*Community, error) {
	member, err := s.repo.IsMember(ctx, community.ID, userID)
	if err != nil {
		return nil, err
	}
	if member {
		return nil, ErrAlreadyMember
	}

	if err := s.repo.AddMember(ctx, community.ID, userID, RoleMember); err != nil {
		return nil, err
	}
	if err := s.repo.SetActive(ctx, userID, community.ID); err != nil {
		return nil, err
	}

	community.MemberCount++
	return community, nil
}

// Leave removes the user from a community. The owner cannot leave; they
// would orphan it.
func (s *Service) Leave(ctx context.Context, userID, communityID int) error {
	role, err := s.repo.MemberRole(ctx, communityID, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotMember
		}
		return err
	}
	if role == RoleOwner {
		return ErrOwnerCannotLeave
	}

	if err := s.repo.RemoveMember(ctx, communityID, userID); err != nil {
		return err
	}
	return s.repo.ClearActiveIf(ctx, userID, communityID)
}

func (s *Service) ListPublic(ctx context.Context) ([]Community, error) {
	return s.repo.ListPublic(ctx)
}

func (s *Service) ListMine(ctx context.Context, userID int) ([]Community, error) {
	return s.repo.ListForUser(ctx, userID)
}

// Members lists a community's roster; the requester must belong to it.
func (s *Service) Members(ctx context.Context, userID, communityID int) ([]Member, error) {
	member, err := s.repo.IsMember(ctx, communityID, userID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, ErrNotMember
	}
	return s.repo.Members(ctx, communityID)
}

// SetActive switches which community's leaderboard the user sees by
// default.
func (s *Service) SetActive(ctx context.Context, userID, communityID int) error {
	member, err := s.repo.IsMember(ctx, communityID, userID)
	if err != nil {
		return err
	}
	if !member {
		return ErrNotMember
	}
	return s.repo.SetActive(ctx, userID, communityID)
}

// GetActive returns the user's active community, or nil when none is
// set.
func (s *Service) GetActive(ctx context.Context, userID int) (*Community, error) {
	community, err := s.repo.GetActive(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return community, nil
}

// uniqueInviteCode draws random codes until one is unused. Collisions
// are vanishingly rare at 32^6 but cheap to handle.
func (s *Service) uniqueInviteCode(ctx context.Context) (string, error) {
	for attempt := 0; attempt < 5; attempt++ {
		code, err := generateInviteCode()
		if err != nil {
			return "", err
		}
		_, err = s.repo.GetByInviteCode(ctx, code)
		if errors.Is(err, ErrNotFound) {
			return code, nil
		}
		if err != nil {
			return "", err
		}
	}
	return "", fmt.Errorf("failed to generate a unique invite code")
}

func generateInviteCode() (string, error) {
	code := make([]byte, inviteCodeLength)
	max := big.NewInt(int64(len(inviteAlphabet)))
	for i := range code {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		code[i] = inviteAlphabet[n.Int64()]
	}
	return string(code), nil
}
