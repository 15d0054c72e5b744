package communities

import (
	"context"
	"database/sql"
	"errors"

	"github.com/gitadaily/gita-daily-api/internal/database"
)

var ErrNotFound = errors.New("community not found")

type Repository interface {
	Create(ctx context.Context, c *Community) error
	GetByID(ctx context.Context, id int) (*Community, error)
	GetByInviteCode(ctx context.Context, code string) (*Community, error)
	ListPublic(ctx context.Context) ([]Community, error)
	ListForUser(ctx context.Context, userID int) ([]Community, error)

	AddMember(ctx context.Context, communityID, userID int, role string) error
	RemoveMember(ctx context.Context, communityID, userID int) error
	// MemberRole returns ErrNotFound when the user is not a member.
	MemberRole(ctx context.Context, communityID, userID int) (string, error)
	IsMember(ctx context.Context, communityID, userID int) (bool, error)
	Members(ctx context.Context, communityID int) ([]Member, error)

	SetActive(ctx context.Context, userID, communityID int) error
	GetActive(ctx context.Context, userID int) (*Community, error)
	// ClearActiveIf unsets the user's active community only when it still
	// points at the given one.
	ClearActiveIf(ctx context.Context, userID, communityID int) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(dbService database.Service) Repository {
	return &repository{db: dbService.DB()}
}

const communityColumns = `
	c.id, c.name, c.type, COALESCE(c.invite_code, ''), c.created_by, c.created_at,
	(SELECT COUNT(*) FROM community_members m WHERE m.community_id = c.id)
`

func (r *repository) Create(ctx context.Context, c *Community) error {
	var inviteCode sql.NullString
	if c.InviteCode != "" {
		inviteCode = sql.NullString{String: c.InviteCode, Valid: true}
	}
	return r.db.QueryRowContext(ctx, `
		INSERT INTO communities (name, type, invite_code, created_by)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, c.Name, c.Type, inviteCode, c.CreatedBy).Scan(&c.ID, &c.CreatedAt)
}

func (r *repository) GetByID(ctx context.Context, id int) (*Community, error) {
	return r.getOne(ctx, `SELECT `+communityColumns+` FROM communities c WHERE c.id = $1`, id)
}

func (r *repository) GetByInviteCode(ctx context.Context, code string) (*Community, error) {
	return r.getOne(ctx, `SELECT `+communityColumns+` FROM communities c WHERE c.invite_code = $1`, code)
}

func (r *repository) getOne(ctx context.Context, query string, arg any) (*Community, error) {
	var c Community
	err := r.db.QueryRowContext(ctx, query, arg).
		Scan(&c.ID, &c.Name, &c.Type, &c.InviteCode, &c.CreatedBy, &c.CreatedAt, &c.MemberCount)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *repository) ListPublic(ctx context.Context) ([]Community, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+communityColumns+`
		FROM communities c
		WHERE c.type = 'public'
		ORDER BY c.created_at DESC
		LIMIT 50
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCommunities(rows)
}

func (r *repository) ListForUser(ctx context.Context, userID int) ([]Community, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+communityColumns+`
		FROM communities c
		JOIN community_members cm ON cm.community_id = c.id
		WHERE cm.user_id = $1
		ORDER BY cm.joined_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCommunities(rows)
}

func scanCommunities(rows *sql.Rows) ([]Community, error) {
	var out []Community
	for rows.Next() {
		var c Community
		if err := rows.Scan(&c.ID, &c.Name, &c.Type, &c.InviteCode, &c.CreatedBy, &c.CreatedAt, &c.MemberCount); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *repository) AddMember(ctx context.Context, communityID, userID int, role string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO community_members (community_id, user_id, role)
		VALUES ($1, $2, $3)
		ON CONFLICT (community_id, user_id) DO NOTHING
	`, communityID, userID, role)
	return err
}

func (r *repository) RemoveMember(ctx context.Context, communityID, userID int) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM community_members WHERE community_id = $1 AND user_id = $2
	`, communityID, userID)
	return err
}

func (r *repository) MemberRole(ctx context.Context, communityID, userID int) (string, error) {
	var role string
	err := r.db.QueryRowContext(ctx, `
		SELECT role FROM community_members WHERE community_id = $1 AND user_id = $2
	`, communityID, userID).Scan(&role)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}
	return role, nil
}

func (r *repository) IsMember(ctx context.Context, communityID, userID int) (bool, error) {
	_, err := r.MemberRole(ctx, communityID, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *repository) Members(ctx context.Context, communityID int) ([]Member, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT u.id, u.display_name, u.avatar_url, cm.role, cm.joined_at
		FROM community_members cm
		JOIN users u ON u.id = cm.user_id
		WHERE cm.community_id = $1
		ORDER BY cm.joined_at
	`, communityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []Member
	for rows.Next() {
		var m Member
		if err := rows.Scan(&m.UserID, &m.DisplayName, &m.AvatarURL, &m.Role, &m.JoinedAt); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

func (r *repository) SetActive(ctx context.Context, userID, communityID int) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO active_communities (user_id, community_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET community_id = EXCLUDED.community_id
	`, userID, communityID)
	return err
}

func (r *repository) GetActive(ctx context.Context, userID int) (*Community, error) {
	return r.getOne(ctx, `
		SELECT `+communityColumns+`
		FROM communities c
		JOIN active_communities ac ON ac.community_id = c.id
		WHERE ac.user_id = $1
	`, userID)
}

func (r *repository) ClearActiveIf(ctx context.Context, userID, communityID int) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM active_communities WHERE user_id = $1 AND community_id = $2
	`, userID, communityID)
	return err
}
