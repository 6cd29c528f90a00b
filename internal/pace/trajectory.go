package pace

// Trajectory is the overall risk classification of a project's time budget.
type Trajectory string

const (
	TrajectoryUnknown  Trajectory = "unknown"
	TrajectoryExceeded Trajectory = "exceeded"
	TrajectoryCritical Trajectory = "critical"
	TrajectoryWarning  Trajectory = "warning"
	TrajectoryOK       Trajectory = "ok"
)

// IsAtRisk returns true if the trajectory needs immediate attention.
func (t Trajectory) IsAtRisk() bool {
	return t == TrajectoryCritical || t == TrajectoryExceeded
}

// Classify maps the current projection state onto a trajectory.
// Rules are checked in order and the first match wins.
func Classify(
	c Consumption,
	estimate Estimate,
	projection Projection,
	items []ItemProjection,
	projectedOverage float64,
	th Thresholds,
) Trajectory {
	if !estimate.Available {
		return TrajectoryUnknown
	}
	if projection.AlreadyExceeded {
		return TrajectoryExceeded
	}

	var overagePercent float64
	if c.HasBudget() {
		overagePercent = projectedOverage / c.EstimatedWorkDays * 100
	}

	anyCritical, anyWarning := itemFlags(items)

	switch {
	case c.HasBudget() && overagePercent > th.CriticalOveragePercent, anyCritical:
		return TrajectoryCritical
	case c.HasBudget() && overagePercent > th.WarningOveragePercent, anyWarning:
		return TrajectoryWarning
	default:
		return TrajectoryOK
	}
}

func itemFlags(items []ItemProjection) (anyCritical, anyWarning bool) {
	for i := range items {
		anyCritical = anyCritical || items[i].IsCritical
		anyWarning = anyWarning || items[i].IsWarning
	}
	return anyCritical, anyWarning
}
