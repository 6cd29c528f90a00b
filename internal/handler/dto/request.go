package dto

import (
	"fmt"
	"time"

	"github.com/mtlprog/budgetpace/internal/domain"
	"github.com/mtlprog/budgetpace/internal/pace"
)

// DateLayout is the wire format of calendar dates.
const DateLayout = "2006-01-02"

// EvaluatePaceRequest represents the request body for POST /pace.
type EvaluatePaceRequest struct {
	ProjectID         string           `json:"projectId"`
	Now               *time.Time       `json:"now,omitempty"`
	EstimatedWorkDays float64          `json:"estimatedWorkDays"`
	TimeEntries       []TimeEntryInput `json:"timeEntries"`
	WorkItems         []WorkItemInput  `json:"workItems"`
	Deadline          string           `json:"deadline,omitempty"`
}

// TimeEntryInput is one logged session. A missing durationSeconds marks an open session.
type TimeEntryInput struct {
	ID              string     `json:"id"`
	WorkItemID      string     `json:"workItemId,omitempty"`
	StartTime       *time.Time `json:"startTime"`
	DurationSeconds *int64     `json:"durationSeconds"`
}

// WorkItemInput is one budgeted scope item.
type WorkItemInput struct {
	ID                string  `json:"id"`
	Label             string  `json:"label,omitempty"`
	EstimatedWorkDays float64 `json:"estimatedWorkDays"`
}

// ToPaceRequest converts the body into an engine request. fallbackNow is used
// when the body carries no evaluation instant.
func (r EvaluatePaceRequest) ToPaceRequest(fallbackNow time.Time) (pace.Request, error) {
	req := pace.Request{
		ProjectID:         r.ProjectID,
		Now:               fallbackNow,
		EstimatedWorkDays: r.EstimatedWorkDays,
		TimeEntries:       make([]domain.TimeEntry, 0, len(r.TimeEntries)),
		WorkItems:         make([]domain.WorkItemBudget, 0, len(r.WorkItems)),
	}
	if r.Now != nil {
		req.Now = *r.Now
	}

	if r.Deadline != "" {
		deadline, err := ParseDate(r.Deadline)
		if err != nil {
			return pace.Request{}, err
		}
		req.Deadline = &deadline
	}

	for i, item := range r.WorkItems {
		req.WorkItems = append(req.WorkItems, domain.WorkItemBudget{
			ID:                item.ID,
			ProjectID:         r.ProjectID,
			Label:             item.Label,
			EstimatedWorkDays: item.EstimatedWorkDays,
			Position:          i,
		})
	}

	for _, e := range r.TimeEntries {
		entry := domain.TimeEntry{
			ID:              e.ID,
			WorkItemID:      e.WorkItemID,
			DurationSeconds: e.DurationSeconds,
		}
		if e.StartTime != nil {
			entry.StartTime = *e.StartTime
		}
		req.TimeEntries = append(req.TimeEntries, entry)
	}

	return req, nil
}

// ParseDate accepts a calendar date or a full RFC 3339 timestamp.
func ParseDate(raw string) (time.Time, error) {
	if t, err := time.Parse(DateLayout, raw); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: deadline must be YYYY-MM-DD or RFC 3339, got %q", domain.ErrInvalidRequest, raw)
	}
	return t, nil
}
