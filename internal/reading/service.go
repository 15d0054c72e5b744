package reading

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/gitadaily/gita-daily-api/internal/streaks"
	"github.com/gitadaily/gita-daily-api/internal/verses"
	"github.com/gitadaily/gita-daily-api/pkg/dateutil"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrVerseNotFound = errors.New("verse not found")
	ErrNotYourSet    = errors.New("daily set does not belong to this user")
	ErrOutOfSequence = errors.New("verse is not next in sequence")
	ErrEmptyCatalog  = errors.New("verse catalog is empty")
)

// TimezoneSource resolves a user's IANA timezone. Satisfied by the users
// repository.
type TimezoneSource interface {
	Timezone(ctx context.Context, userID int) (string, error)
}

// StreakRecorder is the streak engine surface the daily-set engine needs.
// Satisfied by *streaks.Service.
type StreakRecorder interface {
	UpdateOnRead(ctx context.Context, userID int, localDate string) (*streaks.Update, error)
	MarkCompleted(ctx context.Context, userID int, localDate string) error
}

type Service struct {
	repo      Repository
	catalog   verses.Repository
	timezones TimezoneSource
	streaks   StreakRecorder
}

func NewService(repo Repository, catalog verses.Repository, timezones TimezoneSource, streakSvc StreakRecorder) Service {
	return Service{
		repo:      repo,
		catalog:   catalog,
		timezones: timezones,
		streaks:   streakSvc,
	}
}

// GetOrCreateTodaySet returns the user's daily set for today in their
// timezone, creating it lazily on the first call of the day. The pointer
// is captured, not advanced; advancement happens per confirmed read.
func (s *Service) GetOrCreateTodaySet(ctx context.Context, userID int) (*TodaySetResult, error) {
	timezone, err := s.timezones.Timezone(ctx, userID)
	if err != nil {
		return nil, ErrUserNotFound
	}
	today := dateutil.TodayLocalDate(timezone)

	state, err := s.repo.GetState(ctx, userID)
	if err != nil {
		return nil, err
	}

	if !state.SequenceInitialized {
		if err := s.initializeSequence(ctx, state); err != nil {
			return nil, err
		}
	}

	// Reuse today's set if one is already assigned.
	if state.CurrentDailySetID != nil && state.LastDailyDate == today {
		existing, err := s.repo.GetSet(ctx, *state.CurrentDailySetID)
		if err == nil {
			return s.buildTodayResult(ctx, existing)
		}
		if !errors.Is(err, ErrSetNotFound) {
			return nil, err
		}
	}

	orderedIDs, err := s.catalog.OrderedIDs(ctx)
	if err != nil {
		return nil, err
	}
	total := len(orderedIDs)
	if total == 0 {
		return nil, ErrEmptyCatalog
	}

	selected := make([]int, 0, DailyVerseCount)
	for i := 0; i < DailyVerseCount; i++ {
		// Wrap around at the end of the catalog so the set always has
		// exactly DailyVerseCount entries.
		selected = append(selected, orderedIDs[(state.SequentialPointer+i)%total])
	}

	set, err := s.repo.CreateSet(ctx, userID, today, selected)
	if err != nil {
		return nil, err
	}

	if err := s.repo.SetCurrentSet(ctx, userID, set.ID, today); err != nil {
		return nil, err
	}

	return s.buildTodayResult(ctx, set)
}

// MarkVerseRead records one in-order read. Strictly sequential: the verse
// must be the next unread one of the set. Idempotent on repeat calls.
func (s *Service) MarkVerseRead(ctx context.Context, userID, dailySetID, verseID int) (*MarkReadResult, error) {
	set, err := s.repo.GetSet(ctx, dailySetID)
	if err != nil {
		return nil, err
	}
	if set.UserID != userID {
		return nil, ErrNotYourSet
	}

	events, err := s.repo.EventsForSet(ctx, set.ID)
	if err != nil {
		return nil, err
	}

	seqCount := 0
	alreadyRead := false
	for _, e := range events {
		if e.Kind != KindSequence {
			continue
		}
		seqCount++
		if e.VerseID == verseID {
			alreadyRead = true
		}
	}

	totalVerses := len(set.VerseIDs)

	if alreadyRead {
		return &MarkReadResult{
			AlreadyRead: true,
			VersesRead:  seqCount,
			TotalVerses: totalVerses,
			IsComplete:  set.CompletedAt != nil || seqCount >= totalVerses,
		}, nil
	}

	if seqCount >= totalVerses || set.VerseIDs[seqCount] != verseID {
		return nil, ErrOutOfSequence
	}

	firstEventOfDay := len(events) == 0

	inserted, err := s.repo.InsertSequenceEvent(ctx, userID, set.ID, verseID)
	if err != nil {
		return nil, err
	}
	if !inserted {
		// A concurrent call won the race; observe its result.
		return &MarkReadResult{
			AlreadyRead: true,
			VersesRead:  seqCount + 1,
			TotalVerses: totalVerses,
			IsComplete:  seqCount+1 >= totalVerses,
		}, nil
	}

	var streakUpdate *streaks.Update
	if firstEventOfDay {
		// Anchor the streak to the set's local date, not a fresh "now",
		// so a read straddling midnight lands on the right day.
		streakUpdate, err = s.streaks.UpdateOnRead(ctx, userID, set.LocalDate)
		if err != nil {
			return nil, err
		}
	}

	if err := s.advancePointer(ctx, userID); err != nil {
		return nil, err
	}

	versesRead := seqCount + 1
	isComplete := versesRead >= totalVerses

	if isComplete && set.CompletedAt == nil {
		if err := s.repo.CompleteSet(ctx, set.ID); err != nil {
			return nil, err
		}
		if err := s.streaks.MarkCompleted(ctx, userID, set.LocalDate); err != nil {
			log.Printf("failed to stamp completion for user %d: %v", userID, err)
		}
	}

	return &MarkReadResult{
		AlreadyRead:  false,
		VersesRead:   versesRead,
		TotalVerses:  totalVerses,
		IsComplete:   isComplete,
		StreakUpdate: streakUpdate,
	}, nil
}

// LogReread counts re-reading a verse from history toward streak liveness
// without touching pointer or completion state.
func (s *Service) LogReread(ctx context.Context, userID, verseID int) (*RereadResult, error) {
	found, err := s.catalog.ByIDs(ctx, []int{verseID})
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, ErrVerseNotFound
	}

	// A reread needs today's set to attach to; create it if the user has
	// not opened today's reading yet.
	today, err := s.GetOrCreateTodaySet(ctx, userID)
	if err != nil {
		return nil, err
	}
	set := today.DailySet

	events, err := s.repo.EventsForSet(ctx, set.ID)
	if err != nil {
		return nil, err
	}
	firstEventOfDay := len(events) == 0

	if err := s.repo.InsertRereadEvent(ctx, userID, set.ID, verseID); err != nil {
		return nil, err
	}

	var streakUpdate *streaks.Update
	if firstEventOfDay {
		streakUpdate, err = s.streaks.UpdateOnRead(ctx, userID, set.LocalDate)
		if err != nil {
			return nil, err
		}
	}

	return &RereadResult{StreakUpdate: streakUpdate}, nil
}

// GetTodayProgress reports sequence-read progress for the current set.
func (s *Service) GetTodayProgress(ctx context.Context, userID int) (*Progress, error) {
	state, err := s.repo.GetState(ctx, userID)
	if err != nil {
		return nil, err
	}

	if state.CurrentDailySetID == nil {
		return &Progress{VersesRead: 0, TotalVerses: DailyVerseCount, IsComplete: false}, nil
	}

	set, err := s.repo.GetSet(ctx, *state.CurrentDailySetID)
	if err != nil {
		if errors.Is(err, ErrSetNotFound) {
			return &Progress{VersesRead: 0, TotalVerses: DailyVerseCount, IsComplete: false}, nil
		}
		return nil, err
	}

	events, err := s.repo.EventsForSet(ctx, set.ID)
	if err != nil {
		return nil, err
	}
	seqCount := 0
	for _, e := range events {
		if e.Kind == KindSequence {
			seqCount++
		}
	}

	return &Progress{
		VersesRead:  seqCount,
		TotalVerses: len(set.VerseIDs),
		IsComplete:  set.CompletedAt != nil,
	}, nil
}

// initializeSequence reconciles the pointer against read history once per
// user: the pointer becomes the first canonical index with no sequence
// read. Covers users whose history pre-dates pointer tracking.
func (s *Service) initializeSequence(ctx context.Context, state *ReadingState) error {
	orderedIDs, err := s.catalog.OrderedIDs(ctx)
	if err != nil {
		return err
	}
	if len(orderedIDs) == 0 {
		return ErrEmptyCatalog
	}

	read, err := s.repo.SequenceReadVerseIDs(ctx, state.UserID)
	if err != nil {
		return err
	}

	pointer := 0
	for i, id := range orderedIDs {
		if _, ok := read[id]; !ok {
			pointer = i
			break
		}
	}

	if err := s.repo.MarkSequenceInitialized(ctx, state.UserID, pointer); err != nil {
		return err
	}

	state.SequentialPointer = pointer
	state.SequenceInitialized = true
	return nil
}

func (s *Service) advancePointer(ctx context.Context, userID int) error {
	total, err := s.catalog.Count(ctx)
	if err != nil {
		return err
	}
	if total == 0 {
		return ErrEmptyCatalog
	}

	state, err := s.repo.GetState(ctx, userID)
	if err != nil {
		return err
	}

	return s.repo.SavePointer(ctx, userID, (state.SequentialPointer+1)%total)
}

func (s *Service) buildTodayResult(ctx context.Context, set *DailySet) (*TodaySetResult, error) {
	verseList, err := s.catalog.ByIDs(ctx, set.VerseIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load set verses: %w", err)
	}

	events, err := s.repo.EventsForSet(ctx, set.ID)
	if err != nil {
		return nil, err
	}

	readVerseIDs := make([]int, 0, len(events))
	for _, e := range events {
		if e.Kind == KindSequence {
			readVerseIDs = append(readVerseIDs, e.VerseID)
		}
	}

	return &TodaySetResult{
		DailySet:     set,
		Verses:       verseList,
		ReadVerseIDs: readVerseIDs,
		IsComplete:   set.CompletedAt != nil,
	}, nil
}
