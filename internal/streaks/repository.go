package streaks

import (
	"context"
	"database/sql"
	"errors"

	"github.com/gitadaily/gita-daily-api/internal/database"
)

var ErrNotFound = errors.New("streak not found")

type Repository interface {
	Get(ctx context.Context, userID int) (*Streak, error)
	Create(ctx context.Context, s *Streak) error
	Save(ctx context.Context, s *Streak) error
	CountCompletedSets(ctx context.Context, userID int) (int, error)
	CountReadDays(ctx context.Context, userID int) (int, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(dbService database.Service) Repository {
	return &repository{db: dbService.DB()}
}

func (r *repository) Get(ctx context.Context, userID int) (*Streak, error) {
	var s Streak
	err := r.db.QueryRowContext(ctx, `
		SELECT user_id, current_streak, longest_streak, last_completed_local_date, last_read_local_date, updated_at
		FROM streaks
		WHERE user_id = $1
	`, userID).Scan(&s.UserID, &s.CurrentStreak, &s.LongestStreak, &s.LastCompletedLocalDate, &s.LastReadLocalDate, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *repository) Create(ctx context.Context, s *Streak) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO streaks (user_id, current_streak, longest_streak, last_completed_local_date, last_read_local_date)
		VALUES ($1, $2, $3, $4, $5)
	`, s.UserID, s.CurrentStreak, s.LongestStreak, s.LastCompletedLocalDate, s.LastReadLocalDate)
	return err
}

func (r *repository) Save(ctx context.Context, s *Streak) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE streaks
		SET current_streak = $2,
		    longest_streak = $3,
		    last_completed_local_date = $4,
		    last_read_local_date = $5,
		    updated_at = now()
		WHERE user_id = $1
	`, s.UserID, s.CurrentStreak, s.LongestStreak, s.LastCompletedLocalDate, s.LastReadLocalDate)
	return err
}

func (r *repository) CountCompletedSets(ctx context.Context, userID int) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM daily_sets
		WHERE user_id = $1 AND completed_at IS NOT NULL
	`, userID).Scan(&count)
	return count, err
}

// CountReadDays counts the distinct local dates of daily sets that have at
// least one read event of any kind.
func (r *repository) CountReadDays(ctx context.Context, userID int) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(DISTINCT ds.local_date)
		FROM daily_sets ds
		JOIN read_events re ON re.daily_set_id = ds.id
		WHERE ds.user_id = $1
	`, userID).Scan(&count)
	return count, err
}
