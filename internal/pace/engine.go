package pace

import (
	"fmt"
	"math"
	"time"

	"github.com/mtlprog/budgetpace/internal/domain"
)

// Request is the input snapshot of one evaluation.
type Request struct {
	ProjectID string
	Now       time.Time
	// EstimatedWorkDays is the project-level budget, used only when WorkItems is empty.
	EstimatedWorkDays float64
	TimeEntries       []domain.TimeEntry
	WorkItems         []domain.WorkItemBudget
	Deadline          *time.Time
}

// Report is the full analysis of a project's time budget.
type Report struct {
	ProjectID        string
	Now              time.Time
	Consumption      Consumption
	Pace             Estimate
	Projection       Projection
	PerItem          []ItemProjection
	ProjectedOverage float64
	Trajectory       Trajectory
	Recommendations  []Recommendation
}

// Evaluate runs the whole pipeline: consumption, pace, projections, trajectory
// and recommendations. Only contract violations in req or th return an error.
func Evaluate(req Request, th Thresholds) (*Report, error) {
	if err := th.Validate(); err != nil {
		return nil, err
	}
	if err := Validate(req); err != nil {
		return nil, err
	}

	budget := domain.TotalBudget(req.WorkItems, req.EstimatedWorkDays)

	consumption := Measure(req.TimeEntries, budget)
	estimate := EstimatePace(req.TimeEntries, req.Now, th)
	projection := ProjectGlobal(consumption, estimate, req.Now)
	items := ProjectItems(req.TimeEntries, req.WorkItems, req.Now, th)
	overage := ReconcileOverage(items, consumption, estimate, req.Deadline, req.Now)
	trajectory := Classify(consumption, estimate, projection, items, overage, th)
	recs := Recommend(consumption, estimate, projection, items, ConsumedUncategorized(req.TimeEntries), th)

	return &Report{
		ProjectID:        req.ProjectID,
		Now:              req.Now,
		Consumption:      consumption,
		Pace:             estimate,
		Projection:       projection,
		PerItem:          items,
		ProjectedOverage: overage,
		Trajectory:       trajectory,
		Recommendations:  recs,
	}, nil
}

// Validate rejects malformed request shapes. Data-quality problems inside
// individual entries (open sessions, negative durations, missing start times)
// are not errors; those entries are simply excluded from aggregation.
func Validate(req Request) error {
	if req.ProjectID == "" {
		return fmt.Errorf("%w: project id is required", domain.ErrInvalidRequest)
	}
	if req.Now.IsZero() {
		return fmt.Errorf("%w: now is required for project %s", domain.ErrInvalidRequest, req.ProjectID)
	}
	if !validDays(req.EstimatedWorkDays) {
		return fmt.Errorf("%w: estimated work-days must be a non-negative number, got %v",
			domain.ErrInvalidRequest, req.EstimatedWorkDays)
	}

	items := make(map[string]struct{}, len(req.WorkItems))
	for _, item := range req.WorkItems {
		if item.ID == "" {
			return fmt.Errorf("%w: work item id is required", domain.ErrInvalidRequest)
		}
		if _, dup := items[item.ID]; dup {
			return fmt.Errorf("%w: duplicate work item %s", domain.ErrInvalidRequest, item.ID)
		}
		if !validDays(item.EstimatedWorkDays) {
			return fmt.Errorf("%w: work item %s estimated work-days must be a non-negative number, got %v",
				domain.ErrInvalidRequest, item.ID, item.EstimatedWorkDays)
		}
		items[item.ID] = struct{}{}
	}

	entries := make(map[string]struct{}, len(req.TimeEntries))
	for _, entry := range req.TimeEntries {
		if entry.ID == "" {
			return fmt.Errorf("%w: time entry id is required", domain.ErrInvalidRequest)
		}
		if _, dup := entries[entry.ID]; dup {
			return fmt.Errorf("%w: duplicate time entry %s", domain.ErrInvalidRequest, entry.ID)
		}
		entries[entry.ID] = struct{}{}
	}

	return nil
}

func validDays(v float64) bool {
	return v >= 0 && !math.IsNaN(v) && !math.IsInf(v, 0)
}
