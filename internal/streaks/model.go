package streaks

import "time"

// Streak is one row per user. Dates are YYYY-MM-DD strings in the user's
// local timezone; comparisons are calendar-day equality/adjacency, never
// elapsed hours.
type Streak struct {
	UserID                 int       `json:"user_id"`
	CurrentStreak          int       `json:"current_streak"`
	LongestStreak          int       `json:"longest_streak"`
	LastCompletedLocalDate string    `json:"last_completed_local_date"`
	LastReadLocalDate      string    `json:"last_read_local_date"`
	UpdatedAt              time.Time `json:"updated_at"`
}

// Update is the result surfaced to the client after a read counted
// toward the streak.
type Update struct {
	CurrentStreak int  `json:"current_streak"`
	LongestStreak int  `json:"longest_streak"`
	IsNewRecord   bool `json:"is_new_record"`
}

type CheckResult struct {
	CurrentStreak int  `json:"current_streak"`
	LongestStreak int  `json:"longest_streak"`
	NeedsReset    bool `json:"needs_reset"`
}

type Stats struct {
	CurrentStreak int `json:"current_streak"`
	LongestStreak int `json:"longest_streak"`
	PerfectDays   int `json:"perfect_days"`
	ReadDays      int `json:"read_days"`
}
