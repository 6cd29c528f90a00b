package domain

// WorkItemBudget is one budgeted unit of scope within a project.
type WorkItemBudget struct {
	ID                string
	ProjectID         string
	Label             string
	EstimatedWorkDays float64
	Position          int
}

// HasBudget returns true if an estimate is configured for the item.
func (w *WorkItemBudget) HasBudget() bool {
	return w.EstimatedWorkDays > 0
}
