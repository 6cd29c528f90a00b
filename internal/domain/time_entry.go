package domain

import "time"

// WorkDaySeconds is the length of one normalized work-day (8 hours).
const WorkDaySeconds = 28800

// TimeEntry represents a logged work session.
type TimeEntry struct {
	ID         string
	WorkItemID string // empty for uncategorized time
	StartTime  time.Time
	// DurationSeconds is nil while the session is still open.
	DurationSeconds *int64
}

// IsClosed returns true if the session has a recorded duration.
func (e *TimeEntry) IsClosed() bool {
	return e.DurationSeconds != nil
}

// CountsTowardBudget returns true if the entry contributes logged time.
// Open sessions and non-positive durations never count.
func (e *TimeEntry) CountsTowardBudget() bool {
	return e.DurationSeconds != nil && *e.DurationSeconds > 0
}

// CountsTowardPace returns true if the entry can be placed on a pace window.
func (e *TimeEntry) CountsTowardPace() bool {
	return e.CountsTowardBudget() && !e.StartTime.IsZero()
}

// IsUncategorized returns true if the entry is not attributed to a work item.
func (e *TimeEntry) IsUncategorized() bool {
	return e.WorkItemID == ""
}

// Seconds returns the logged duration, or 0 for entries that do not count.
func (e *TimeEntry) Seconds() int64 {
	if !e.CountsTowardBudget() {
		return 0
	}
	return *e.DurationSeconds
}

// WorkDays returns the logged duration in work-days, or 0 for entries that do not count.
func (e *TimeEntry) WorkDays() float64 {
	return float64(e.Seconds()) / WorkDaySeconds
}
