package availability

import (
	"time"
)

// Status classifies a blockout window relative to a reference day
type Status string

const (
	StatusActive   Status = "active"
	StatusPast     Status = "past"
	StatusUpcoming Status = "upcoming"
)

// Window is a user's unavailability interval, inclusive on both ends.
// Bounds are compared at calendar-day granularity so sub-day precision on
// stored timestamps cannot shift coverage by a day.
type Window struct {
	ID     string
	UserID string
	Start  time.Time
	End    time.Time
}

// Occurrence is the minimal shape of something scheduled at a point in time
type Occurrence struct {
	ID   string
	Date time.Time
}

// DateAvailability is the advisory decision surface for event scheduling
type DateAvailability struct {
	Available        bool     `json:"available"`
	ConflictingUsers []string `json:"conflicting_users"`
}

// Day truncates t to its calendar day in t's location
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// SameDay reports whether a and b fall on the same calendar day
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// Classify returns exactly one of active/past/upcoming for a well-formed
// window. Boundary days count as covered. A malformed window (start after
// end) is treated as active so bad data reads as blocked, never as free.
func Classify(w Window, now time.Time) Status {
	start, end := Day(w.Start), Day(w.End)
	if start.After(end) {
		return StatusActive
	}
	day := Day(now)
	switch {
	case day.After(end):
		return StatusPast
	case day.Before(start):
		return StatusUpcoming
	default:
		return StatusActive
	}
}

// Covers reports whether the window covers the given calendar day.
// Malformed windows cover every day (fail safe toward blocked).
func Covers(w Window, date time.Time) bool {
	start, end := Day(w.Start), Day(w.End)
	if start.After(end) {
		return true
	}
	day := Day(date)
	return !day.Before(start) && !day.After(end)
}

// WindowsCovering filters windows covering date, preserving input order
func WindowsCovering(windows []Window, date time.Time) []Window {
	covering := make([]Window, 0, len(windows))
	for _, w := range windows {
		if Covers(w, date) {
			covering = append(covering, w)
		}
	}
	return covering
}

// EventsOn filters occurrences to those on the same calendar day as date,
// preserving input order
func EventsOn(events []Occurrence, date time.Time) []Occurrence {
	on := make([]Occurrence, 0, len(events))
	for _, e := range events {
		if SameDay(e.Date, date) {
			on = append(on, e)
		}
	}
	return on
}

// ForDate reduces the covering windows for a date to the availability
// answer: available iff nothing covers the date, plus the distinct set of
// conflicting user IDs (first-seen order, one entry per user)
func ForDate(date time.Time, windows []Window) DateAvailability {
	covering := WindowsCovering(windows, date)
	seen := make(map[string]struct{}, len(covering))
	users := make([]string, 0, len(covering))
	for _, w := range covering {
		if _, ok := seen[w.UserID]; ok {
			continue
		}
		seen[w.UserID] = struct{}{}
		users = append(users, w.UserID)
	}
	return DateAvailability{
		Available:        len(covering) == 0,
		ConflictingUsers: users,
	}
}

// MonthGrid returns every date needed to render the month as a week-aligned
// grid: from the Sunday on/before the 1st through the Saturday on/after the
// last day. The result length is always a multiple of 7.
func MonthGrid(year int, month time.Month) []time.Time {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)

	start := first.AddDate(0, 0, -int(first.Weekday()))
	end := last.AddDate(0, 0, int(time.Saturday-last.Weekday()))

	var days []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}
