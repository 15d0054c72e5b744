package leaderboard

import (
	"context"
	"database/sql"

	"github.com/gitadaily/gita-daily-api/internal/database"
)

type Repository interface {
	// GlobalEntries returns one unranked row per user. Users without a
	// streak row yet appear with a zero streak.
	GlobalEntries(ctx context.Context) ([]Entry, error)
	// CommunityEntries returns one unranked row per member of the
	// community.
	CommunityEntries(ctx context.Context, communityID int) ([]Entry, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(dbService database.Service) Repository {
	return &repository{db: dbService.DB()}
}

func (r *repository) GlobalEntries(ctx context.Context) ([]Entry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT u.id, u.display_name, COALESCE(u.avatar_url, ''),
		       COALESCE(s.current_streak, 0),
		       COALESCE(NULLIF(s.last_read_local_date, ''), s.last_completed_local_date, '')
		FROM users u
		LEFT JOIN streaks s ON s.user_id = u.id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEntries(rows)
}

func (r *repository) CommunityEntries(ctx context.Context, communityID int) ([]Entry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT u.id, u.display_name, COALESCE(u.avatar_url, ''),
		       COALESCE(s.current_streak, 0),
		       COALESCE(NULLIF(s.last_read_local_date, ''), s.last_completed_local_date, '')
		FROM community_members cm
		JOIN users u ON u.id = cm.user_id
		LEFT JOIN streaks s ON s.user_id = u.id
		WHERE cm.community_id = $1
	`, communityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEntries(rows)
}

func scanEntries(rows *sql.Rows) ([]Entry, error) {
	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.UserID, &e.DisplayName, &e.AvatarURL, &e.CurrentStreak, &e.LastReadLocalDate); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
