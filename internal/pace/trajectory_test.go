package pace_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mtlprog/budgetpace/internal/pace"
)

func TestClassify(t *testing.T) {
	th := pace.DefaultThresholds()
	budget := pace.Measure(scenarioEntries(), 10)
	noBudget := pace.Measure(scenarioEntries(), 0)
	available := pace.Estimate{Available: true, PacePerCalendarDay: 0.5, WindowLabel: pace.WindowRecentSessions}
	exceeded := pace.Projection{Available: true, AlreadyExceeded: true, ExceededBy: 1}
	onTrack := pace.Projection{Available: true, CalendarDaysNeeded: 10}

	tests := []struct {
		name       string
		c          pace.Consumption
		estimate   pace.Estimate
		projection pace.Projection
		items      []pace.ItemProjection
		overage    float64
		want       pace.Trajectory
	}{
		{
			name:       "pace unavailable wins over exceeded",
			c:          budget,
			estimate:   pace.Estimate{Reason: pace.ReasonInsufficientHistory},
			projection: exceeded,
			want:       pace.TrajectoryUnknown,
		},
		{
			name:       "already exceeded",
			c:          budget,
			estimate:   available,
			projection: exceeded,
			items:      []pace.ItemProjection{{IsCritical: true}},
			overage:    5,
			want:       pace.TrajectoryExceeded,
		},
		{
			name:       "overage above critical ratio",
			c:          budget,
			estimate:   available,
			projection: onTrack,
			overage:    2.5,
			want:       pace.TrajectoryCritical,
		},
		{
			name:       "critical item",
			c:          budget,
			estimate:   available,
			projection: onTrack,
			items:      []pace.ItemProjection{{IsWarning: true}, {IsCritical: true}},
			want:       pace.TrajectoryCritical,
		},
		{
			name:       "overage at critical ratio is only a warning",
			c:          budget,
			estimate:   available,
			projection: onTrack,
			overage:    2,
			want:       pace.TrajectoryWarning,
		},
		{
			name:       "warning item",
			c:          budget,
			estimate:   available,
			projection: onTrack,
			items:      []pace.ItemProjection{{IsWarning: true}},
			want:       pace.TrajectoryWarning,
		},
		{
			name:       "overage at warning ratio is ok",
			c:          budget,
			estimate:   available,
			projection: onTrack,
			overage:    1,
			want:       pace.TrajectoryOK,
		},
		{
			name:       "no budget ignores overage ratios",
			c:          noBudget,
			estimate:   available,
			projection: pace.Projection{Reason: pace.ReasonNoBudget},
			overage:    3,
			want:       pace.TrajectoryOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := pace.Classify(tt.c, tt.estimate, tt.projection, tt.items, tt.overage, th)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTrajectory_IsAtRisk(t *testing.T) {
	assert.True(t, pace.TrajectoryCritical.IsAtRisk())
	assert.True(t, pace.TrajectoryExceeded.IsAtRisk())
	assert.False(t, pace.TrajectoryWarning.IsAtRisk())
	assert.False(t, pace.TrajectoryOK.IsAtRisk())
	assert.False(t, pace.TrajectoryUnknown.IsAtRisk())
}
