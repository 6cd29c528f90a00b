package pace

import (
	"cmp"
	"math"
	"slices"
	"time"

	"github.com/mtlprog/budgetpace/internal/domain"
)

// WindowLabel identifies which history window produced a pace estimate.
type WindowLabel string

const (
	WindowRecentDays     WindowLabel = "recent-days"
	WindowRecentSessions WindowLabel = "recent-sessions"
)

// Reasons reported when no pace can be estimated.
const (
	ReasonInsufficientHistory = "insufficient history"
	ReasonPaceNotComputable   = "pace not computable"
)

// Estimate is the outcome of a pace estimation.
type Estimate struct {
	Available          bool
	PacePerCalendarDay float64
	WindowLabel        WindowLabel
	Reason             string
}

func unavailable(label WindowLabel, reason string) Estimate {
	return Estimate{WindowLabel: label, Reason: reason}
}

// window is a recency-ordered (newest first) subset of qualifying entries.
type window struct {
	label   WindowLabel
	entries []domain.TimeEntry
}

func (w window) valid(minEntries int) bool {
	return len(w.entries) >= minEntries
}

func (w window) workDays() float64 {
	var days float64
	for i := range w.entries {
		days += w.entries[i].WorkDays()
	}
	return days
}

// calendarSpan counts calendar days from the oldest entry through now, inclusive.
// Entries stamped after now extend the span to the newest entry instead.
func (w window) calendarSpan(now time.Time) int {
	oldest := w.entries[len(w.entries)-1].StartTime
	end := w.entries[0].StartTime
	if now.After(end) {
		end = now
	}
	return max(1, daysBetween(oldest, end)+1)
}

func (w window) pace(now time.Time) float64 {
	return w.workDays() / float64(w.calendarSpan(now))
}

// EstimatePace derives the project-wide work rate in work-days per calendar day.
// It compares a recent-days window against a recent-sessions window and keeps
// the one holding strictly more entries, preferring recent-sessions on a tie.
func EstimatePace(entries []domain.TimeEntry, now time.Time, th Thresholds) Estimate {
	recent := byRecency(entries)

	days := window{
		label:   WindowRecentDays,
		entries: since(recent, now.AddDate(0, 0, -th.RecentDays)),
	}
	sessions := window{
		label:   WindowRecentSessions,
		entries: newest(recent, th.RecentSessions),
	}

	selected, ok := selectWindow(days, sessions, th.MinWindowEntries)
	if !ok {
		return unavailable("", ReasonInsufficientHistory)
	}

	rate := selected.pace(now)
	if rate <= 0 || math.IsNaN(rate) {
		return unavailable(selected.label, ReasonPaceNotComputable)
	}

	return Estimate{
		Available:          true,
		PacePerCalendarDay: rate,
		WindowLabel:        selected.label,
	}
}

// EstimateItemPace derives the work rate of a single work item from its own
// most recent sessions only. Rates at or below the item epsilon are rejected.
func EstimateItemPace(entries []domain.TimeEntry, workItemID string, now time.Time, th Thresholds) Estimate {
	scoped := make([]domain.TimeEntry, 0, len(entries))
	for i := range entries {
		if entries[i].WorkItemID == workItemID {
			scoped = append(scoped, entries[i])
		}
	}

	sessions := window{
		label:   WindowRecentSessions,
		entries: newest(byRecency(scoped), th.RecentSessions),
	}
	if !sessions.valid(th.MinWindowEntries) {
		return unavailable(sessions.label, ReasonInsufficientHistory)
	}

	rate := sessions.pace(now)
	if rate <= th.ItemPaceEpsilon || math.IsNaN(rate) {
		return unavailable(sessions.label, ReasonPaceNotComputable)
	}

	return Estimate{
		Available:          true,
		PacePerCalendarDay: rate,
		WindowLabel:        sessions.label,
	}
}

func selectWindow(days, sessions window, minEntries int) (window, bool) {
	daysValid := days.valid(minEntries)
	sessionsValid := sessions.valid(minEntries)

	switch {
	case daysValid && sessionsValid:
		if len(days.entries) > len(sessions.entries) {
			return days, true
		}
		return sessions, true
	case daysValid:
		return days, true
	case sessionsValid:
		return sessions, true
	default:
		return window{}, false
	}
}

// byRecency returns the pace-qualifying entries sorted newest first.
// Entries sharing a start time are ordered by ID so the result is stable.
func byRecency(entries []domain.TimeEntry) []domain.TimeEntry {
	out := make([]domain.TimeEntry, 0, len(entries))
	for i := range entries {
		if entries[i].CountsTowardPace() {
			out = append(out, entries[i])
		}
	}
	slices.SortFunc(out, func(a, b domain.TimeEntry) int {
		if c := b.StartTime.Compare(a.StartTime); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out
}

// since returns the prefix of a newest-first slice starting at or after cutoff.
func since(recent []domain.TimeEntry, cutoff time.Time) []domain.TimeEntry {
	n := 0
	for n < len(recent) && !recent[n].StartTime.Before(cutoff) {
		n++
	}
	return recent[:n]
}

func newest(recent []domain.TimeEntry, n int) []domain.TimeEntry {
	if len(recent) < n {
		return recent
	}
	return recent[:n]
}

// daysBetween counts the calendar days (UTC) from one instant to another.
func daysBetween(from, to time.Time) int {
	return int(math.Round(civilDate(to).Sub(civilDate(from)).Hours() / 24))
}

func civilDate(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
