package scheduler

import "time"

// NormalizeWeekStart returns the Monday of t's week at midnight UTC.
// Week-start parameters from the admin trigger and the cron jobs are
// normalised through this before any store access, so every component
// agrees on what "week" means.
func NormalizeWeekStart(t time.Time) time.Time {
	t = t.UTC()
	// time.Weekday puts Sunday at 0; shift so Monday is 0.
	offset := (int(t.Weekday()) + 6) % 7
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return day.AddDate(0, 0, -offset)
}

// NextWeekStart returns the Monday after now's week at midnight UTC.  The
// scheduled triggers generate the upcoming week, never the running one.
func NextWeekStart(now time.Time) time.Time {
	return NormalizeWeekStart(now).AddDate(0, 0, 7)
}
