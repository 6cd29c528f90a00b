// Package pace computes time-budget consumption, recent work pace, completion
// projections, risk trajectory and recommendations from a project's time ledger.
//
// Every function is pure: inputs are never modified, the clock is never read
// (callers pass now explicitly) and identical inputs give identical outputs.
package pace

import (
	"github.com/mtlprog/budgetpace/internal/domain"
)

// Consumed returns the logged work-days across all qualifying entries.
// Sums are taken in work-days so arbitrarily large durations cannot wrap.
func Consumed(entries []domain.TimeEntry) float64 {
	var days float64
	for i := range entries {
		days += entries[i].WorkDays()
	}
	return days
}

// ConsumedByItem returns the logged work-days attributed to one work item.
func ConsumedByItem(entries []domain.TimeEntry, workItemID string) float64 {
	var days float64
	for i := range entries {
		if entries[i].WorkItemID == workItemID {
			days += entries[i].WorkDays()
		}
	}
	return days
}

// ConsumedUncategorized returns the logged work-days not attributed to any work item.
func ConsumedUncategorized(entries []domain.TimeEntry) float64 {
	var days float64
	for i := range entries {
		if entries[i].IsUncategorized() {
			days += entries[i].WorkDays()
		}
	}
	return days
}

// ConsumptionPercent returns consumed/estimated*100, or nil when no budget is configured.
func ConsumptionPercent(consumedWorkDays, estimatedWorkDays float64) *float64 {
	if estimatedWorkDays <= 0 {
		return nil
	}
	pct := consumedWorkDays / estimatedWorkDays * 100
	return &pct
}

// Consumption is the budget-relative view of logged time.
type Consumption struct {
	ConsumedWorkDays  float64
	EstimatedWorkDays float64
	// RemainingWorkDays and Percent are nil when no budget is configured.
	RemainingWorkDays *float64
	Percent           *float64
}

// HasBudget returns true if budget-relative metrics are applicable.
func (c Consumption) HasBudget() bool {
	return c.EstimatedWorkDays > 0
}

// Remaining returns the remaining work-days, or 0 when no budget is configured.
func (c Consumption) Remaining() float64 {
	if c.RemainingWorkDays == nil {
		return 0
	}
	return *c.RemainingWorkDays
}

// Measure computes the global consumption of a project.
func Measure(entries []domain.TimeEntry, estimatedWorkDays float64) Consumption {
	consumed := Consumed(entries)
	c := Consumption{
		ConsumedWorkDays:  consumed,
		EstimatedWorkDays: estimatedWorkDays,
		Percent:           ConsumptionPercent(consumed, estimatedWorkDays),
	}
	if estimatedWorkDays > 0 {
		remaining := estimatedWorkDays - consumed
		c.RemainingWorkDays = &remaining
	}
	return c
}
