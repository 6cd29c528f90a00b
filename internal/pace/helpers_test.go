package pace_test

import (
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mtlprog/budgetpace/internal/domain"
	"github.com/mtlprog/budgetpace/internal/pace"
)

// now is the fixed evaluation instant used across tests (day 0).
var now = time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)

var entrySeq int

// entry builds a closed time entry that started daysAgo calendar days before now.
func entry(workItemID string, daysAgo int, hours float64) domain.TimeEntry {
	entrySeq++
	d := int64(math.Round(hours * 3600))
	return domain.TimeEntry{
		ID:              fmt.Sprintf("e-%04d", entrySeq),
		WorkItemID:      workItemID,
		StartTime:       now.AddDate(0, 0, -daysAgo),
		DurationSeconds: &d,
	}
}

// openEntry builds a running session without a duration.
func openEntry(workItemID string, daysAgo int) domain.TimeEntry {
	entrySeq++
	return domain.TimeEntry{
		ID:         fmt.Sprintf("e-%04d", entrySeq),
		WorkItemID: workItemID,
		StartTime:  now.AddDate(0, 0, -daysAgo),
	}
}

func item(id string, days float64) domain.WorkItemBudget {
	return domain.WorkItemBudget{ID: id, Label: "Item " + id, EstimatedWorkDays: days}
}

// wd converts work-days to hours for entry().
func wd(workDays float64) float64 {
	return workDays * 8
}

// evaluate runs the engine with default thresholds, filling in project id and now.
func evaluate(t *testing.T, req pace.Request) *pace.Report {
	t.Helper()
	if req.ProjectID == "" {
		req.ProjectID = "p-1"
	}
	if req.Now.IsZero() {
		req.Now = now
	}
	report, err := pace.Evaluate(req, pace.DefaultThresholds())
	require.NoError(t, err)
	return report
}

func recommendationIDs(r *pace.Report) []string {
	ids := make([]string, 0, len(r.Recommendations))
	for _, rec := range r.Recommendations {
		ids = append(ids, rec.ID)
	}
	return ids
}

func findRecommendation(t *testing.T, r *pace.Report, id string) pace.Recommendation {
	t.Helper()
	for _, rec := range r.Recommendations {
		if rec.ID == id {
			return rec
		}
	}
	require.Failf(t, "recommendation not found", "id %s in %v", id, recommendationIDs(r))
	return pace.Recommendation{}
}
