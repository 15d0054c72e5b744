package reminders

import (
	"context"
	"database/sql"

	"github.com/gitadaily/gita-daily-api/internal/database"
)

// Recipient is a user with a reminder configured and an address to send
// it to.
type Recipient struct {
	UserID            int
	Email             string
	DisplayName       string
	Timezone          string
	ReminderTime      string
	CurrentStreak     int
	LastReadLocalDate string
}

type Repository interface {
	// Recipients returns every user with a reminder time and an email
	// address. Whether a reminder is actually due is decided per sweep.
	Recipients(ctx context.Context) ([]Recipient, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(dbService database.Service) Repository {
	return &repository{db: dbService.DB()}
}

func (r *repository) Recipients(ctx context.Context) ([]Recipient, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT u.id, u.email, u.display_name, u.timezone, rs.reminder_time,
		       COALESCE(s.current_streak, 0),
		       COALESCE(NULLIF(s.last_read_local_date, ''), s.last_completed_local_date, '')
		FROM users u
		JOIN user_reading_state rs ON rs.user_id = u.id
		LEFT JOIN streaks s ON s.user_id = u.id
		WHERE rs.reminder_time IS NOT NULL AND u.email <> ''
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recipients []Recipient
	for rows.Next() {
		var rec Recipient
		if err := rows.Scan(&rec.UserID, &rec.Email, &rec.DisplayName, &rec.Timezone, &rec.ReminderTime, &rec.CurrentStreak, &rec.LastReadLocalDate); err != nil {
			return nil, err
		}
		recipients = append(recipients, rec)
	}
	return recipients, rows.Err()
}
