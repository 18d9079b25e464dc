package domain

import (
	"strings"
	"time"
)

// Date buckets accepted by EventFilter.Date.
const (
	DateToday       = "today"
	DateTomorrow    = "tomorrow"
	DateThisWeek    = "this-week"
	DateThisWeekend = "this-weekend"
	DateNextWeek    = "next-week"
	DateThisMonth   = "this-month"
)

// EventFilter narrows ListEvents. Zero-valued fields do not filter; set fields
// are combined with AND.
type EventFilter struct {
	Category    Category
	Search      string
	Date        string
	OrganizerID int64
}

// DateWindow is a half-open [From, To) range of instants, optionally restricted
// to Saturdays and Sundays.
type DateWindow struct {
	From        time.Time
	To          time.Time
	WeekendOnly bool
}

// Contains reports whether t falls inside the window.
func (w DateWindow) Contains(t time.Time) bool {
	t = t.In(w.From.Location())
	if t.Before(w.From) || !t.Before(w.To) {
		return false
	}
	if w.WeekendOnly {
		wd := t.Weekday()
		return wd == time.Saturday || wd == time.Sunday
	}
	return true
}

// DateWindowFor maps a bucket name to its window relative to now, in now's
// location. Days are whole calendar days; the week ends on the Sunday computed
// as today + (7 - weekday), Sunday being 0. ok is false for unknown buckets.
func DateWindowFor(bucket string, now time.Time) (w DateWindow, ok bool) {
	loc := now.Location()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	weekEnd := today.AddDate(0, 0, 7-int(today.Weekday()))

	switch bucket {
	case DateToday:
		return DateWindow{From: today, To: today.AddDate(0, 0, 1)}, true
	case DateTomorrow:
		return DateWindow{From: today.AddDate(0, 0, 1), To: today.AddDate(0, 0, 2)}, true
	case DateThisWeek:
		return DateWindow{From: today, To: weekEnd.AddDate(0, 0, 1)}, true
	case DateThisWeekend:
		return DateWindow{From: today, To: weekEnd.AddDate(0, 0, 1), WeekendOnly: true}, true
	case DateNextWeek:
		return DateWindow{From: weekEnd.AddDate(0, 0, 1), To: weekEnd.AddDate(0, 0, 8)}, true
	case DateThisMonth:
		firstOfNext := time.Date(today.Year(), today.Month()+1, 1, 0, 0, 0, 0, loc)
		return DateWindow{From: today, To: firstOfNext}, true
	}
	return DateWindow{}, false
}

// Window returns the date window of f relative to now, if f filters by date.
func (f EventFilter) Window(now time.Time) (DateWindow, bool) {
	if f.Date == "" {
		return DateWindow{}, false
	}
	return DateWindowFor(f.Date, now)
}

// MatchesSearch reports whether title, description or location contains the
// search string, ignoring case.
func (f EventFilter) MatchesSearch(e *Event) bool {
	if f.Search == "" {
		return true
	}
	s := strings.ToLower(f.Search)
	return strings.Contains(strings.ToLower(e.Title), s) ||
		strings.Contains(strings.ToLower(e.Description), s) ||
		strings.Contains(strings.ToLower(e.Location), s)
}

// Matches reports whether e satisfies every dimension of f, evaluating date
// buckets relative to now.
func (f EventFilter) Matches(e *Event, now time.Time) bool {
	if f.Category != "" && e.Category != f.Category {
		return false
	}
	if !f.MatchesSearch(e) {
		return false
	}
	if w, ok := f.Window(now); ok && !w.Contains(e.StartDate) {
		return false
	}
	if f.OrganizerID != 0 && e.OrganizerID != f.OrganizerID {
		return false
	}
	return true
}
