package timezone

import "time"

const DefaultTimezone = "Europe/Paris"

func IsValid(tz string) bool {
	if tz == "" {
		return false
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}

// Location falls back to DefaultTimezone, then UTC.
func Location(tz string) *time.Location {
	if IsValid(tz) {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}

	if loc, err := time.LoadLocation(DefaultTimezone); err == nil {
		return loc
	}
	return time.UTC
}

func NowIn(tz string) time.Time {
	return time.Now().In(Location(tz))
}

// PreviousMonth returns [start, end] of the calendar month before t, in
// t's location. end is the last instant of the month.
func PreviousMonth(t time.Time) (time.Time, time.Time) {
	firstOfThis := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	start := firstOfThis.AddDate(0, -1, 0)
	end := firstOfThis.Add(-time.Nanosecond)
	return start, end
}

// MonthsAgo returns t shifted back by n calendar months.
func MonthsAgo(t time.Time, n int) time.Time {
	return t.AddDate(0, -n, 0)
}
