package domain

import "time"

// Project represents a budgeted project whose time ledger is analysed.
type Project struct {
	ID   string
	Name string
	// FallbackWorkDays is used as the total budget when the project has no scope items.
	FallbackWorkDays float64
	Deadline         *time.Time
	CreatedAt        time.Time
}

// TotalBudget returns the project's estimated work-days: the sum of its scope
// items when any exist, otherwise the project-level fallback.
func TotalBudget(items []WorkItemBudget, fallbackWorkDays float64) float64 {
	if len(items) == 0 {
		return fallbackWorkDays
	}
	var total float64
	for _, item := range items {
		total += item.EstimatedWorkDays
	}
	return total
}
