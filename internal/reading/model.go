package reading

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/gitadaily/gita-daily-api/internal/streaks"
	"github.com/gitadaily/gita-daily-api/internal/verses"
)

// DailyVerseCount is the fixed size of a daily set.
const DailyVerseCount = 7

const (
	// KindSequence marks canonical forward progress.
	KindSequence = "sequence"
	// KindReread marks re-reading already-passed material; counts toward
	// streak liveness, never toward pointer advancement or completion.
	KindReread = "reread"
)

// ReadingState is the per-user cursor into the verse catalog.
// SequentialPointer is the canonical index of the next verse the user has
// not yet consumed; it advances by one per confirmed read, never at set
// creation.
type ReadingState struct {
	UserID              int     `json:"user_id"`
	Mode                string  `json:"mode"`
	SequentialPointer   int     `json:"sequential_pointer"`
	LastDailyDate       string  `json:"last_daily_date"`
	CurrentDailySetID   *int    `json:"current_daily_set_id"`
	ReminderTime        *string `json:"reminder_time,omitempty"`
	SequenceInitialized bool    `json:"sequence_initialized"`
}

type DailySet struct {
	ID          int        `json:"id"`
	UserID      int        `json:"user_id"`
	LocalDate   string     `json:"local_date"`
	VerseIDs    []int      `json:"verse_ids"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at"`
}

type ReadEvent struct {
	ID         int       `json:"id"`
	UserID     int       `json:"user_id"`
	DailySetID int       `json:"daily_set_id"`
	VerseID    int       `json:"verse_id"`
	Kind       string    `json:"kind"`
	ReadAt     time.Time `json:"read_at"`
}

type TodaySetResult struct {
	DailySet     *DailySet      `json:"daily_set"`
	Verses       []verses.Verse `json:"verses"`
	ReadVerseIDs []int          `json:"read_verse_ids"`
	IsComplete   bool           `json:"is_complete"`
}

type MarkReadResult struct {
	AlreadyRead  bool            `json:"already_read"`
	VersesRead   int             `json:"verses_read"`
	TotalVerses  int             `json:"total_verses"`
	IsComplete   bool            `json:"is_complete"`
	StreakUpdate *streaks.Update `json:"streak_update"`
}

type RereadResult struct {
	StreakUpdate *streaks.Update `json:"streak_update"`
}

type Progress struct {
	VersesRead  int  `json:"verses_read"`
	TotalVerses int  `json:"total_verses"`
	IsComplete  bool `json:"is_complete"`
}

type MarkReadRequest struct {
	DailySetID int `json:"daily_set_id"`
	VerseID    int `json:"verse_id"`
}

func (r MarkReadRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.DailySetID, validation.Required),
		validation.Field(&r.VerseID, validation.Required),
	)
}

type RereadRequest struct {
	VerseID int `json:"verse_id"`
}

func (r RereadRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.VerseID, validation.Required),
	)
}
