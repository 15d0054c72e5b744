package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/gitadaily/gita-daily-api/internal/database"
)

var ErrNotFound = errors.New("user not found")

type Repository interface {
	GetByID(ctx context.Context, id int) (*User, error)
	GetByAuthID(ctx context.Context, authID string) (*User, error)
	// Create provisions the user together with its reading-state and
	// streak rows so the reading entry points never see a half-set-up user.
	Create(ctx context.Context, req SyncRequest) (*User, error)
	UpdateProfile(ctx context.Context, id int, req UpdateProfileRequest) (*User, error)
	Timezone(ctx context.Context, id int) (string, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(dbService database.Service) Repository {
	return &repository{db: dbService.DB()}
}

const userColumns = `id, auth_id, email, display_name, avatar_url, timezone, created_at, updated_at`

func scanUser(row *sql.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.AuthID, &u.Email, &u.DisplayName, &u.AvatarURL, &u.Timezone, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

func (r *repository) GetByAuthID(ctx context.Context, authID string) (*User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE auth_id = $1`, authID)
	return scanUser(row)
}

func (r *repository) Create(ctx context.Context, req SyncRequest) (*User, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	displayName := req.DisplayName
	if displayName == "" {
		displayName = "Reader"
	}
	timezone := req.Timezone
	if timezone == "" {
		timezone = "UTC"
	}

	var u User
	err = tx.QueryRowContext(ctx, `
		INSERT INTO users (auth_id, email, display_name, avatar_url, timezone)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+userColumns+`
	`, req.AuthID, req.Email, displayName, req.AvatarURL, timezone).
		Scan(&u.ID, &u.AuthID, &u.Email, &u.DisplayName, &u.AvatarURL, &u.Timezone, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO user_reading_state (user_id, mode, sequential_pointer, last_daily_date, current_daily_set_id)
		VALUES ($1, 'sequential', 0, '', NULL)
	`, u.ID); err != nil {
		return nil, fmt.Errorf("failed to create reading state: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO streaks (user_id, current_streak, longest_streak, last_completed_local_date, last_read_local_date)
		VALUES ($1, 0, 0, '', '')
	`, u.ID); err != nil {
		return nil, fmt.Errorf("failed to create streak: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *repository) UpdateProfile(ctx context.Context, id int, req UpdateProfileRequest) (*User, error) {
	row := r.db.QueryRowContext(ctx, `
		UPDATE users
		SET display_name = COALESCE($2, display_name),
		    avatar_url   = COALESCE($3, avatar_url),
		    timezone     = COALESCE($4, timezone),
		    updated_at   = now()
		WHERE id = $1
		RETURNING `+userColumns+`
	`, id, req.DisplayName, req.AvatarURL, req.Timezone)

	u, err := scanUser(row)
	if err != nil {
		return nil, err
	}

	if req.ReminderTime != nil {
		var reminder interface{}
		if *req.ReminderTime != "" {
			reminder = *req.ReminderTime
		}
		if _, err := r.db.ExecContext(ctx, `
			UPDATE user_reading_state SET reminder_time = $2 WHERE user_id = $1
		`, id, reminder); err != nil {
			return nil, fmt.Errorf("failed to update reminder time: %w", err)
		}
	}

	return u, nil
}

func (r *repository) Timezone(ctx context.Context, id int) (string, error) {
	var tz string
	err := r.db.QueryRowContext(ctx, `SELECT timezone FROM users WHERE id = $1`, id).Scan(&tz)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}
	return tz, nil
}
