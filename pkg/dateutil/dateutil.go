// Calendar-date helpers. All dates are YYYY-MM-DD strings in a user's
// IANA timezone; an unknown timezone falls back to UTC instead of erroring.
package dateutil

import "time"

const Layout = "2006-01-02"

// TodayLocalDate returns the current calendar date in the given timezone.
func TodayLocalDate(timezone string) string {
	return LocalDate(time.Now(), timezone)
}

// YesterdayLocalDate returns yesterday's calendar date in the given timezone.
func YesterdayLocalDate(timezone string) string {
	loc := loadLocation(timezone)
	return time.Now().In(loc).AddDate(0, 0, -1).Format(Layout)
}

// LocalDate formats a timestamp as a calendar date in the given timezone.
func LocalDate(t time.Time, timezone string) string {
	return t.In(loadLocation(timezone)).Format(Layout)
}

// PreviousCalendarDate moves one day back from a date string. Pure date
// arithmetic, no timezone involved. A malformed input yields "" so it can
// never compare equal to a real date.
func PreviousCalendarDate(date string) string {
	d, err := time.ParseInLocation(Layout, date, time.UTC)
	if err != nil {
		return ""
	}
	return d.AddDate(0, 0, -1).Format(Layout)
}

// NextCalendarDate moves one day forward from a date string.
func NextCalendarDate(date string) string {
	d, err := time.ParseInLocation(Layout, date, time.UTC)
	if err != nil {
		return ""
	}
	return d.AddDate(0, 0, 1).Format(Layout)
}

// LocalClock formats a timestamp as HH:MM wall-clock time in the given
// timezone.
func LocalClock(t time.Time, timezone string) string {
	return t.In(loadLocation(timezone)).Format("15:04")
}

func loadLocation(timezone string) *time.Location {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
