package pace

import (
	"fmt"
	"strings"
)

// Horizon tells when a recommendation should be acted upon.
type Horizon string

const (
	HorizonImmediate  Horizon = "immediate"
	HorizonAdjustment Horizon = "adjustment"
	HorizonLearning   Horizon = "learning"
)

// Severity ranks how urgent a recommendation is.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Recommendation IDs.
const (
	RecDriftAnticipation = "drift-anticipation"
	RecImminentOverflow  = "imminent-overflow"
	RecBudgetExceeded    = "budget-exceeded"
	RecAheadOfSchedule   = "ahead-of-schedule"
	RecItemImbalance     = "item-imbalance"
	RecUncategorizedTime = "uncategorized-time"
	RecItemsCritical     = "items-critical"
	RecItemsWarning      = "items-warning"
	RecGoodTrajectory    = "good-trajectory"
)

// Recommendation is one actionable, human-readable warning.
type Recommendation struct {
	ID          string
	Horizon     Horizon
	Severity    Severity
	Title       string
	Description string
}

// recommendationState is the read-only input every rule is evaluated against.
type recommendationState struct {
	consumption   Consumption
	estimate      Estimate
	projection    Projection
	items         []ItemProjection
	uncategorized float64
	th            Thresholds
}

func (s *recommendationState) percent() (float64, bool) {
	if s.consumption.Percent == nil {
		return 0, false
	}
	return *s.consumption.Percent, true
}

type recommendationRule func(s *recommendationState) (Recommendation, bool)

// stateRules are independent: each matching rule contributes one recommendation.
var stateRules = []recommendationRule{
	driftAnticipation,
	imminentOverflow,
	budgetExceeded,
	aheadOfSchedule,
	itemImbalance,
	uncategorizedTime,
}

// Recommend evaluates the rule table in order and returns every matching recommendation.
func Recommend(
	c Consumption,
	estimate Estimate,
	projection Projection,
	items []ItemProjection,
	uncategorizedWorkDays float64,
	th Thresholds,
) []Recommendation {
	s := &recommendationState{
		consumption:   c,
		estimate:      estimate,
		projection:    projection,
		items:         items,
		uncategorized: uncategorizedWorkDays,
		th:            th,
	}

	recs := make([]Recommendation, 0, len(stateRules)+1)
	for _, rule := range stateRules {
		if rec, ok := rule(s); ok {
			recs = append(recs, rec)
		}
	}

	if rec, ok := trajectoryRecommendation(s, len(recs) > 0); ok {
		recs = append(recs, rec)
	}

	return recs
}

func driftAnticipation(s *recommendationState) (Recommendation, bool) {
	pct, ok := s.percent()
	if !ok || pct < s.th.DriftPercent || pct >= 100 {
		return Recommendation{}, false
	}
	return Recommendation{
		ID:       RecDriftAnticipation,
		Horizon:  HorizonImmediate,
		Severity: SeverityWarning,
		Title:    "Budget drift ahead",
		Description: fmt.Sprintf("%.1f%% of the time budget is consumed. Review the remaining scope before the budget runs out.",
			pct),
	}, true
}

func imminentOverflow(s *recommendationState) (Recommendation, bool) {
	if !s.consumption.HasBudget() {
		return Recommendation{}, false
	}
	remaining := s.consumption.Remaining()
	if remaining < 0 || remaining >= s.th.ImminentWorkDays {
		return Recommendation{}, false
	}
	return Recommendation{
		ID:       RecImminentOverflow,
		Horizon:  HorizonImmediate,
		Severity: SeverityCritical,
		Title:    "Budget overflow imminent",
		Description: fmt.Sprintf("Only %.2f work-days remain in the budget. Agree on scope or budget changes now.",
			remaining),
	}, true
}

func budgetExceeded(s *recommendationState) (Recommendation, bool) {
	pct, ok := s.percent()
	if !ok || pct <= 100 {
		return Recommendation{}, false
	}
	return Recommendation{
		ID:       RecBudgetExceeded,
		Horizon:  HorizonImmediate,
		Severity: SeverityCritical,
		Title:    "Budget exceeded",
		Description: fmt.Sprintf("Logged time is %.1f%% over the estimated budget (%.2f of %.2f work-days).",
			pct-100, s.consumption.ConsumedWorkDays, s.consumption.EstimatedWorkDays),
	}, true
}

func aheadOfSchedule(s *recommendationState) (Recommendation, bool) {
	pct, ok := s.percent()
	if !ok || pct <= 0 || pct >= s.th.AheadPercent {
		return Recommendation{}, false
	}
	return Recommendation{
		ID:       RecAheadOfSchedule,
		Horizon:  HorizonLearning,
		Severity: SeverityInfo,
		Title:    "Comfortable budget margin",
		Description: fmt.Sprintf("Only %.1f%% of the budget is consumed. Keep logging time to refine the projection.",
			pct),
	}, true
}

func itemImbalance(s *recommendationState) (Recommendation, bool) {
	var over []string
	for i := range s.items {
		pct := s.items[i].ConsumptionPercent
		if pct != nil && *pct > 100 {
			over = append(over, itemName(&s.items[i]))
		}
	}
	if len(over) == 0 {
		return Recommendation{}, false
	}
	return Recommendation{
		ID:       RecItemImbalance,
		Horizon:  HorizonAdjustment,
		Severity: SeverityWarning,
		Title:    "Work items over budget",
		Description: fmt.Sprintf("Over budget: %s. Rebalance estimates across the remaining items.",
			nameList(over, s.th.MaxNamedItems)),
	}, true
}

func uncategorizedTime(s *recommendationState) (Recommendation, bool) {
	consumed := s.consumption.ConsumedWorkDays
	if consumed <= 0 {
		return Recommendation{}, false
	}
	share := s.uncategorized / consumed * 100
	if share <= s.th.UncategorizedPercent {
		return Recommendation{}, false
	}
	return Recommendation{
		ID:       RecUncategorizedTime,
		Horizon:  HorizonAdjustment,
		Severity: SeverityInfo,
		Title:    "Uncategorized time",
		Description: fmt.Sprintf("%.1f%% of logged time is not attached to a work item. Attribute entries to improve item projections.",
			share),
	}, true
}

// trajectoryRecommendation cascades from critical items to warning items to a
// positive note, emitting at most one recommendation.
func trajectoryRecommendation(s *recommendationState, anyFired bool) (Recommendation, bool) {
	if !s.consumption.HasBudget() || !s.estimate.Available || s.projection.AlreadyExceeded {
		return Recommendation{}, false
	}

	var critical, warning []string
	for i := range s.items {
		switch {
		case s.items[i].IsCritical:
			critical = append(critical, itemName(&s.items[i]))
		case s.items[i].IsWarning:
			warning = append(warning, itemName(&s.items[i]))
		}
	}

	switch {
	case len(critical) > 0:
		return Recommendation{
			ID:       RecItemsCritical,
			Horizon:  HorizonImmediate,
			Severity: SeverityCritical,
			Title:    "Work items about to exceed their budget",
			Description: fmt.Sprintf("At the current pace %s will exceed the estimate within %d days.",
				nameList(critical, s.th.MaxNamedItems), s.th.CriticalHorizonDays),
		}, true
	case len(warning) > 0:
		return Recommendation{
			ID:       RecItemsWarning,
			Horizon:  HorizonAdjustment,
			Severity: SeverityWarning,
			Title:    "Work items trending over budget",
			Description: fmt.Sprintf("At the current pace %s will exceed the estimate within %d days.",
				nameList(warning, s.th.MaxNamedItems), s.th.WarningHorizonDays),
		}, true
	case !anyFired && s.consumption.ConsumedWorkDays > 0 && s.projection.EstimatedEndDate != nil:
		return Recommendation{
			ID:       RecGoodTrajectory,
			Horizon:  HorizonLearning,
			Severity: SeverityInfo,
			Title:    "On track",
			Description: fmt.Sprintf("At the current pace the budget lasts until %s (%d calendar days).",
				s.projection.EstimatedEndDate.Format("2006-01-02"), s.projection.CalendarDaysNeeded),
		}, true
	default:
		return Recommendation{}, false
	}
}

func itemName(p *ItemProjection) string {
	if p.Label != "" {
		return p.Label
	}
	return p.WorkItemID
}

// nameList joins up to limit names and summarises the rest.
func nameList(names []string, limit int) string {
	if len(names) <= limit {
		return strings.Join(names, ", ")
	}
	return fmt.Sprintf("%s and %d more", strings.Join(names[:limit], ", "), len(names)-limit)
}
