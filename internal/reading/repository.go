package reading

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/gitadaily/gita-daily-api/internal/database"
)

var (
	ErrStateNotFound = errors.New("user reading state not found")
	ErrSetNotFound   = errors.New("daily set not found")
)

type Repository interface {
	GetState(ctx context.Context, userID int) (*ReadingState, error)
	SavePointer(ctx context.Context, userID, pointer int) error
	// MarkSequenceInitialized flips the one-time initialization flag and
	// records the reconciled pointer in the same statement.
	MarkSequenceInitialized(ctx context.Context, userID, pointer int) error
	SetCurrentSet(ctx context.Context, userID, setID int, localDate string) error

	GetSet(ctx context.Context, setID int) (*DailySet, error)
	CreateSet(ctx context.Context, userID int, localDate string, verseIDs []int) (*DailySet, error)
	CompleteSet(ctx context.Context, setID int) error

	EventsForSet(ctx context.Context, setID int) ([]ReadEvent, error)
	// InsertSequenceEvent reports false when a sequence event for this
	// (set, verse) already exists; the partial unique index makes the
	// check-and-insert race-safe.
	InsertSequenceEvent(ctx context.Context, userID, setID, verseID int) (bool, error)
	InsertRereadEvent(ctx context.Context, userID, setID, verseID int) error
	// SequenceReadVerseIDs returns every verse id the user has ever
	// consumed as forward progress. Used by the one-time pointer scan.
	SequenceReadVerseIDs(ctx context.Context, userID int) (map[int]struct{}, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(dbService database.Service) Repository {
	return &repository{db: dbService.DB()}
}

func (r *repository) GetState(ctx context.Context, userID int) (*ReadingState, error) {
	var s ReadingState
	err := r.db.QueryRowContext(ctx, `
		SELECT user_id, mode, sequential_pointer, last_daily_date, current_daily_set_id, reminder_time, sequence_initialized
		FROM user_reading_state
		WHERE user_id = $1
	`, userID).Scan(&s.UserID, &s.Mode, &s.SequentialPointer, &s.LastDailyDate, &s.CurrentDailySetID, &s.ReminderTime, &s.SequenceInitialized)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrStateNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *repository) SavePointer(ctx context.Context, userID, pointer int) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE user_reading_state SET sequential_pointer = $2 WHERE user_id = $1
	`, userID, pointer)
	return err
}

func (r *repository) MarkSequenceInitialized(ctx context.Context, userID, pointer int) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE user_reading_state
		SET sequential_pointer = $2, sequence_initialized = TRUE
		WHERE user_id = $1 AND sequence_initialized = FALSE
	`, userID, pointer)
	return err
}

func (r *repository) SetCurrentSet(ctx context.Context, userID, setID int, localDate string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE user_reading_state
		SET current_daily_set_id = $2, last_daily_date = $3
		WHERE user_id = $1
	`, userID, setID, localDate)
	return err
}

func (r *repository) GetSet(ctx context.Context, setID int) (*DailySet, error) {
	var s DailySet
	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, local_date, created_at, completed_at
		FROM daily_sets
		WHERE id = $1
	`, setID).Scan(&s.ID, &s.UserID, &s.LocalDate, &s.CreatedAt, &s.CompletedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSetNotFound
		}
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT verse_id FROM daily_set_verses
		WHERE daily_set_id = $1
		ORDER BY position
	`, setID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var verseID int
		if err := rows.Scan(&verseID); err != nil {
			return nil, err
		}
		s.VerseIDs = append(s.VerseIDs, verseID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &s, nil
}

func (r *repository) CreateSet(ctx context.Context, userID int, localDate string, verseIDs []int) (*DailySet, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var s DailySet
	err = tx.QueryRowContext(ctx, `
		INSERT INTO daily_sets (user_id, local_date)
		VALUES ($1, $2)
		RETURNING id, user_id, local_date, created_at, completed_at
	`, userID, localDate).Scan(&s.ID, &s.UserID, &s.LocalDate, &s.CreatedAt, &s.CompletedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create daily set: %w", err)
	}

	for i, verseID := range verseIDs {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO daily_set_verses (daily_set_id, position, verse_id)
			VALUES ($1, $2, $3)
		`, s.ID, i, verseID); err != nil {
			return nil, fmt.Errorf("failed to attach verse to set: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	s.VerseIDs = verseIDs
	return &s, nil
}

// CompleteSet stamps completed_at exactly once; a second call is a no-op.
func (r *repository) CompleteSet(ctx context.Context, setID int) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE daily_sets SET completed_at = now()
		WHERE id = $1 AND completed_at IS NULL
	`, setID)
	return err
}

func (r *repository) EventsForSet(ctx context.Context, setID int) ([]ReadEvent, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, daily_set_id, verse_id, kind, read_at
		FROM read_events
		WHERE daily_set_id = $1
		ORDER BY read_at, id
	`, setID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []ReadEvent
	for rows.Next() {
		var e ReadEvent
		if err := rows.Scan(&e.ID, &e.UserID, &e.DailySetID, &e.VerseID, &e.Kind, &e.ReadAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *repository) InsertSequenceEvent(ctx context.Context, userID, setID, verseID int) (bool, error) {
	var id int
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO read_events (user_id, daily_set_id, verse_id, kind)
		VALUES ($1, $2, $3, 'sequence')
		ON CONFLICT (daily_set_id, verse_id) WHERE kind = 'sequence' DO NOTHING
		RETURNING id
	`, userID, setID, verseID).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Lost the race: a sequence event already exists.
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *repository) InsertRereadEvent(ctx context.Context, userID, setID, verseID int) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO read_events (user_id, daily_set_id, verse_id, kind)
		VALUES ($1, $2, $3, 'reread')
	`, userID, setID, verseID)
	return err
}

func (r *repository) SequenceReadVerseIDs(ctx context.Context, userID int) (map[int]struct{}, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT DISTINCT verse_id FROM read_events
		WHERE user_id = $1 AND kind = 'sequence'
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	read := make(map[int]struct{})
	for rows.Next() {
		var verseID int
		if err := rows.Scan(&verseID); err != nil {
			return nil, err
		}
		read[verseID] = struct{}{}
	}
	return read, rows.Err()
}
