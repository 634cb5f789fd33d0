package treatment

import "time"

// Stats holds the aggregate counts over a caller's scope. The status counts
// partition Total; ThisMonth and ThisWeek overlap both.
type Stats struct {
	Total     int64 `json:"total"`
	Pending   int64 `json:"pending"`
	Completed int64 `json:"completed"`
	Cancelled int64 `json:"cancelled"`
	ThisMonth int64 `json:"thisMonth"`
	ThisWeek  int64 `json:"thisWeek"`
}

// startOfMonth returns midnight on the first day of t's calendar month.
func startOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// startOfWeek returns midnight on the Monday of t's calendar week.
// Weeks start on Monday.
func startOfWeek(t time.Time) time.Time {
	daysSinceMonday := (int(t.Weekday()) + 6) % 7
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return day.AddDate(0, 0, -daysSinceMonday)
}
