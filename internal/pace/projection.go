package pace

import (
	"math"
	"time"

	"github.com/mtlprog/budgetpace/internal/domain"
)

// ReasonNoBudget is reported when budget-relative projections are not applicable.
const ReasonNoBudget = "no budget configured"

// ceilTolerance absorbs floating point noise so exact quotients are not rounded up.
const ceilTolerance = 1e-9

// MaxProjectionDays caps every projected day count (about a century).
const MaxProjectionDays = 36600

// Projection is the forward-looking completion estimate for a whole project.
type Projection struct {
	Available          bool
	AlreadyExceeded    bool
	ExceededBy         float64
	CalendarDaysNeeded int
	EstimatedEndDate   *time.Time
	Reason             string
}

// ProjectGlobal extrapolates the project completion date from the global pace.
// An exhausted budget is reported as already exceeded whatever the pace.
func ProjectGlobal(c Consumption, estimate Estimate, now time.Time) Projection {
	if !c.HasBudget() {
		return Projection{Reason: ReasonNoBudget}
	}

	remaining := c.Remaining()
	if remaining <= 0 {
		return Projection{
			Available:       true,
			AlreadyExceeded: true,
			ExceededBy:      math.Abs(remaining),
		}
	}

	if !estimate.Available {
		return Projection{Reason: estimate.Reason}
	}

	days := ceilDays(remaining / estimate.PacePerCalendarDay)
	end := now.AddDate(0, 0, days)
	return Projection{
		Available:          true,
		CalendarDaysNeeded: days,
		EstimatedEndDate:   &end,
	}
}

// ItemProjection is the risk projection of a single budgeted work item.
type ItemProjection struct {
	WorkItemID         string
	Label              string
	EstimatedWorkDays  float64
	ConsumedWorkDays   float64
	RemainingWorkDays  float64
	ConsumptionPercent *float64

	NotApplicable    bool
	Exceeded         bool
	ExceededBy       float64
	InsufficientData bool
	IsCritical       bool
	IsWarning        bool

	Pace                Estimate
	DaysToExceed        *int
	ProjectedExceedDate *time.Time
}

// ProjectItems reprojects every work item against its own recent pace.
// The result preserves the order of items.
func ProjectItems(entries []domain.TimeEntry, items []domain.WorkItemBudget, now time.Time, th Thresholds) []ItemProjection {
	projections := make([]ItemProjection, 0, len(items))
	for i := range items {
		projections = append(projections, projectItem(entries, &items[i], now, th))
	}
	return projections
}

func projectItem(entries []domain.TimeEntry, item *domain.WorkItemBudget, now time.Time, th Thresholds) ItemProjection {
	consumed := ConsumedByItem(entries, item.ID)
	p := ItemProjection{
		WorkItemID:         item.ID,
		Label:              item.Label,
		EstimatedWorkDays:  item.EstimatedWorkDays,
		ConsumedWorkDays:   consumed,
		ConsumptionPercent: ConsumptionPercent(consumed, item.EstimatedWorkDays),
	}

	if !item.HasBudget() {
		p.NotApplicable = true
		return p
	}

	p.RemainingWorkDays = item.EstimatedWorkDays - consumed
	if p.RemainingWorkDays <= 0 {
		p.Exceeded = true
		p.ExceededBy = math.Abs(p.RemainingWorkDays)
		return p
	}

	p.Pace = EstimateItemPace(entries, item.ID, now, th)
	if !p.Pace.Available {
		p.InsufficientData = true
		return p
	}

	days := ceilDays(p.RemainingWorkDays / p.Pace.PacePerCalendarDay)
	exceedAt := now.AddDate(0, 0, days)
	p.DaysToExceed = &days
	p.ProjectedExceedDate = &exceedAt

	atRisk := *p.ConsumptionPercent > th.ItemRiskPercent
	p.IsCritical = atRisk && days < th.CriticalHorizonDays
	p.IsWarning = atRisk && days < th.WarningHorizonDays && !p.IsCritical

	return p
}

// ReconcileOverage combines overage already incurred by exceeded items with the
// overage implied by the remaining capacity before the deadline.
func ReconcileOverage(items []ItemProjection, c Consumption, estimate Estimate, deadline *time.Time, now time.Time) float64 {
	var actual float64
	for i := range items {
		if items[i].Exceeded {
			actual += items[i].ExceededBy
		}
	}

	if deadline == nil || !estimate.Available || !c.HasBudget() {
		return actual
	}

	daysToDeadline := max(0, daysBetween(now, *deadline))
	capacity := float64(daysToDeadline) * estimate.PacePerCalendarDay
	deadlineOverage := max(0, c.Remaining()-capacity)

	return max(actual, deadlineOverage)
}

// ceilDays rounds a positive day count up to whole calendar days, never below
// one and never above MaxProjectionDays.
func ceilDays(x float64) int {
	if x <= 0 {
		return 0
	}
	if math.IsNaN(x) || x > MaxProjectionDays {
		return MaxProjectionDays
	}
	return max(1, int(math.Ceil(x-ceilTolerance)))
}
