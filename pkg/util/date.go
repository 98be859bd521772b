package util

import "time"

const dayLayout = "2006-01-02"

// ParseDay parses a YYYY-MM-DD date in UTC. Returns (t, true) on success.
func ParseDay(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(dayLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// FormatDay renders t as YYYY-MM-DD.
func FormatDay(t time.Time) string { return t.Format(dayLayout) }

// TruncateDay drops the clock part of t, keeping its calendar date in UTC.
func TruncateDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// IsWeekend reports whether t falls on Saturday or Sunday.
func IsWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// RecentWeekdays returns up to n weekday dates walking backward from the day
// before now, most recent first.
func RecentWeekdays(now time.Time, n int) []time.Time {
	out := make([]time.Time, 0, n)
	d := TruncateDay(now)
	for len(out) < n {
		d = d.AddDate(0, 0, -1)
		if IsWeekend(d) {
			continue
		}
		out = append(out, d)
	}
	return out
}

// DaysBetween returns the whole number of days from a to b.
func DaysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}
