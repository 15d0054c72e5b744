package leaderboard

// TopLimit caps how many ranked entries a leaderboard response carries.
const TopLimit = 50

// Entry is one ranked row. LastReadLocalDate breaks streak ties: the
// user who read more recently ranks higher.
type Entry struct {
	UserID            int    `json:"user_id"`
	DisplayName       string `json:"display_name"`
	AvatarURL         string `json:"avatar_url,omitempty"`
	CurrentStreak     int    `json:"current_streak"`
	LastReadLocalDate string `json:"last_read_local_date,omitempty"`
	Rank              int    `json:"rank"`
}

// Result is a ranked board plus the requesting user pinned with their
// true rank, even when they fall outside the top slice.
type Result struct {
	Entries     []Entry `json:"entries"`
	CurrentUser *Entry  `json:"current_user"`
	TotalUsers  int     `json:"total_users"`
}
