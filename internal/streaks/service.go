package streaks

import (
	"context"
	"errors"

	"github.com/gitadaily/gita-daily-api/pkg/dateutil"
)

// TimezoneSource resolves a user's IANA timezone. Satisfied by the users
// repository.
type TimezoneSource interface {
	Timezone(ctx context.Context, userID int) (string, error)
}

type Service struct {
	repo      Repository
	timezones TimezoneSource
}

func NewService(repo Repository, timezones TimezoneSource) Service {
	return Service{repo: repo, timezones: timezones}
}

// UpdateOnRead runs the streak transition for the first read of a day.
// localDate is the daily set's local date, not a freshly computed "now",
// so a read that straddles midnight lands on the day its set belongs to.
func (s *Service) UpdateOnRead(ctx context.Context, userID int, localDate string) (*Update, error) {
	record, err := s.repo.Get(ctx, userID)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			return nil, err
		}
		record = &Streak{
			UserID:            userID,
			CurrentStreak:     1,
			LongestStreak:     1,
			LastReadLocalDate: localDate,
		}
		if err := s.repo.Create(ctx, record); err != nil {
			return nil, err
		}
		return &Update{CurrentStreak: 1, LongestStreak: 1, IsNewRecord: true}, nil
	}

	// Legacy rows carry only the completion date. Promote it so the
	// adjacency check below can still continue the streak.
	if record.LastReadLocalDate == "" && record.LastCompletedLocalDate != "" {
		record.LastReadLocalDate = record.LastCompletedLocalDate
	}

	if record.LastReadLocalDate == localDate {
		return &Update{
			CurrentStreak: record.CurrentStreak,
			LongestStreak: record.LongestStreak,
			IsNewRecord:   false,
		}, nil
	}

	newCurrent := 1
	if record.LastReadLocalDate == dateutil.PreviousCalendarDate(localDate) {
		newCurrent = record.CurrentStreak + 1
	}

	isNewRecord := newCurrent > record.LongestStreak
	if isNewRecord {
		record.LongestStreak = newCurrent
	}
	record.CurrentStreak = newCurrent
	record.LastReadLocalDate = localDate

	if err := s.repo.Save(ctx, record); err != nil {
		return nil, err
	}

	return &Update{
		CurrentStreak: record.CurrentStreak,
		LongestStreak: record.LongestStreak,
		IsNewRecord:   isNewRecord,
	}, nil
}

// MarkCompleted stamps the perfect-day date when a full set is finished.
// The counter transition already happened on the day's first read.
func (s *Service) MarkCompleted(ctx context.Context, userID int, localDate string) error {
	record, err := s.repo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			record = &Streak{
				UserID:                 userID,
				CurrentStreak:          1,
				LongestStreak:          1,
				LastCompletedLocalDate: localDate,
				LastReadLocalDate:      localDate,
			}
			return s.repo.Create(ctx, record)
		}
		return err
	}

	if record.LastCompletedLocalDate == localDate {
		return nil
	}

	record.LastCompletedLocalDate = localDate
	return s.repo.Save(ctx, record)
}

// CheckAndReset lazily corrects a streak that expired while the app was
// closed. Invoked on app foreground; safe to call repeatedly.
func (s *Service) CheckAndReset(ctx context.Context, userID int) (*CheckResult, error) {
	timezone, err := s.timezones.Timezone(ctx, userID)
	if err != nil {
		return nil, err
	}

	record, err := s.repo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return &CheckResult{}, nil
		}
		return nil, err
	}

	lastRead := record.LastReadLocalDate
	if lastRead == "" {
		lastRead = record.LastCompletedLocalDate
	}

	today := dateutil.TodayLocalDate(timezone)
	yesterday := dateutil.YesterdayLocalDate(timezone)

	if lastRead == today || lastRead == yesterday {
		return &CheckResult{
			CurrentStreak: record.CurrentStreak,
			LongestStreak: record.LongestStreak,
			NeedsReset:    false,
		}, nil
	}

	if record.CurrentStreak == 0 {
		// Nothing to reset; do not touch the row again.
		return &CheckResult{LongestStreak: record.LongestStreak}, nil
	}

	record.CurrentStreak = 0
	if err := s.repo.Save(ctx, record); err != nil {
		return nil, err
	}

	return &CheckResult{
		CurrentStreak: 0,
		LongestStreak: record.LongestStreak,
		NeedsReset:    true,
	}, nil
}

// Get returns the streak row, or a zeroed value when none exists yet.
func (s *Service) Get(ctx context.Context, userID int) (*Streak, error) {
	record, err := s.repo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return &Streak{UserID: userID}, nil
		}
		return nil, err
	}
	return record, nil
}

func (s *Service) GetStats(ctx context.Context, userID int) (*Stats, error) {
	record, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	perfectDays, err := s.repo.CountCompletedSets(ctx, userID)
	if err != nil {
		return nil, err
	}

	readDays, err := s.repo.CountReadDays(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &Stats{
		CurrentStreak: record.CurrentStreak,
		LongestStreak: record.LongestStreak,
		PerfectDays:   perfectDays,
		ReadDays:      readDays,
	}, nil
}
