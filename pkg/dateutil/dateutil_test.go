package dateutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLocalDate_Timezones(t *testing.T) {
	// 2024-03-10 02:30 UTC is still 2024-03-09 in Los Angeles.
	ts := time.Date(2024, 3, 10, 2, 30, 0, 0, time.UTC)

	assert.Equal(t, "2024-03-10", LocalDate(ts, "UTC"))
	assert.Equal(t, "2024-03-09", LocalDate(ts, "America/Los_Angeles"))
	assert.Equal(t, "2024-03-10", LocalDate(ts, "Asia/Kolkata"))
}

func TestLocalDate_InvalidTimezoneFallsBackToUTC(t *testing.T) {
	ts := time.Date(2024, 3, 10, 2, 30, 0, 0, time.UTC)

	assert.Equal(t, "2024-03-10", LocalDate(ts, "Not/AZone"))
	assert.Equal(t, "2024-03-10", LocalDate(ts, ""))
}

func TestLocalClock(t *testing.T) {
	ts := time.Date(2024, 3, 11, 9, 5, 0, 0, time.UTC)

	assert.Equal(t, "09:05", LocalClock(ts, "UTC"))
	assert.Equal(t, "02:05", LocalClock(ts, "America/Los_Angeles"))
	assert.Equal(t, "14:35", LocalClock(ts, "Asia/Kolkata"))
	assert.Equal(t, "09:05", LocalClock(ts, "Not/AZone"))
}

func TestPreviousCalendarDate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"mid month", "2024-01-15", "2024-01-14"},
		{"month boundary", "2024-03-01", "2024-02-29"},
		{"year boundary", "2024-01-01", "2023-12-31"},
		{"non leap year", "2023-03-01", "2023-02-28"},
		{"malformed", "yesterday", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PreviousCalendarDate(tt.in))
		})
	}
}

func TestNextCalendarDate(t *testing.T) {
	assert.Equal(t, "2024-03-01", NextCalendarDate("2024-02-29"))
	assert.Equal(t, "2025-01-01", NextCalendarDate("2024-12-31"))
	assert.Equal(t, "", NextCalendarDate("not-a-date"))
}

func TestPreviousThenNextRoundTrips(t *testing.T) {
	d := "2024-06-15"
	assert.Equal(t, d, NextCalendarDate(PreviousCalendarDate(d)))
}

func TestTodayAndYesterdayAreAdjacent(t *testing.T) {
	// Re-derive if the test happens to straddle midnight.
	for i := 0; i < 2; i++ {
		today := TodayLocalDate("UTC")
		yesterday := YesterdayLocalDate("UTC")
		if today == TodayLocalDate("UTC") {
			assert.Equal(t, yesterday, PreviousCalendarDate(today))
			return
		}
	}
}
