package pace_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mtlprog/budgetpace/internal/domain"
	"github.com/mtlprog/budgetpace/internal/pace"
)

func scenarioEntries() []domain.TimeEntry {
	return []domain.TimeEntry{
		entry("", 6, 8),
		entry("", 4, 8),
		entry("", 1, 4),
	}
}

func TestProjectGlobal_AlreadyExceededRegardlessOfPace(t *testing.T) {
	th := pace.DefaultThresholds()

	// single entry: no pace available
	single := []domain.TimeEntry{entry("", 1, wd(6))}
	c := pace.Measure(single, 5)
	est := pace.EstimatePace(single, now, th)
	require.False(t, est.Available)

	p := pace.ProjectGlobal(c, est, now)
	assert.True(t, p.Available)
	assert.True(t, p.AlreadyExceeded)
	assert.InDelta(t, 1.0, p.ExceededBy, 1e-9)
	assert.Nil(t, p.EstimatedEndDate)

	// same overrun with a pace available
	several := []domain.TimeEntry{entry("", 2, wd(3)), entry("", 1, wd(3))}
	c = pace.Measure(several, 5)
	est = pace.EstimatePace(several, now, th)
	require.True(t, est.Available)

	p = pace.ProjectGlobal(c, est, now)
	assert.True(t, p.AlreadyExceeded)
	assert.InDelta(t, 1.0, p.ExceededBy, 1e-9)
}

func TestProjectGlobal_ExactlyConsumedIsExceeded(t *testing.T) {
	entries := []domain.TimeEntry{entry("", 2, wd(1)), entry("", 1, wd(1))}
	c := pace.Measure(entries, 2)

	p := pace.ProjectGlobal(c, pace.EstimatePace(entries, now, pace.DefaultThresholds()), now)

	assert.True(t, p.AlreadyExceeded)
	assert.Zero(t, p.ExceededBy)
}

func TestProjectGlobal_ThreeEntryScenario(t *testing.T) {
	entries := scenarioEntries()
	c := pace.Measure(entries, 10)
	est := pace.EstimatePace(entries, now, pace.DefaultThresholds())

	p := pace.ProjectGlobal(c, est, now)

	require.True(t, p.Available)
	assert.False(t, p.AlreadyExceeded)
	assert.Equal(t, 21, p.CalendarDaysNeeded)
	require.NotNil(t, p.EstimatedEndDate)
	assert.Equal(t, now.AddDate(0, 0, 21), *p.EstimatedEndDate)
}

func TestProjectGlobal_UnavailableWithoutPace(t *testing.T) {
	entries := []domain.TimeEntry{entry("", 1, 8)}
	c := pace.Measure(entries, 10)

	p := pace.ProjectGlobal(c, pace.EstimatePace(entries, now, pace.DefaultThresholds()), now)

	assert.False(t, p.Available)
	assert.Equal(t, pace.ReasonInsufficientHistory, p.Reason)
}

func TestProjectGlobal_NoBudget(t *testing.T) {
	entries := scenarioEntries()
	c := pace.Measure(entries, 0)

	p := pace.ProjectGlobal(c, pace.EstimatePace(entries, now, pace.DefaultThresholds()), now)

	assert.False(t, p.Available)
	assert.False(t, p.AlreadyExceeded)
	assert.Equal(t, pace.ReasonNoBudget, p.Reason)
}

func TestProjectItems_CriticalItem(t *testing.T) {
	entries := []domain.TimeEntry{
		entry("a", 1, wd(0.95)),
		entry("a", 0, wd(0.95)),
	}

	items := pace.ProjectItems(entries, []domain.WorkItemBudget{item("a", 2)}, now, pace.DefaultThresholds())

	require.Len(t, items, 1)
	p := items[0]
	require.NotNil(t, p.ConsumptionPercent)
	assert.InDelta(t, 95.0, *p.ConsumptionPercent, 1e-6)
	require.NotNil(t, p.DaysToExceed)
	assert.Equal(t, 1, *p.DaysToExceed)
	assert.Equal(t, now.AddDate(0, 0, 1), *p.ProjectedExceedDate)
	assert.True(t, p.IsCritical)
	assert.False(t, p.IsWarning)
}

func TestProjectItems_WarningItem(t *testing.T) {
	entries := []domain.TimeEntry{
		entry("a", 3, wd(1.5)),
		entry("a", 2, wd(1.5)),
		entry("a", 1, wd(1.5)),
		entry("a", 0, wd(1.5)),
	}

	items := pace.ProjectItems(entries, []domain.WorkItemBudget{item("a", 10)}, now, pace.DefaultThresholds())

	p := items[0]
	require.NotNil(t, p.DaysToExceed)
	assert.Equal(t, 3, *p.DaysToExceed)
	assert.False(t, p.IsCritical)
	assert.True(t, p.IsWarning)
}

func TestProjectItems_LowConsumptionNeverFlagged(t *testing.T) {
	entries := []domain.TimeEntry{
		entry("a", 1, wd(2)),
		entry("a", 0, wd(2)),
	}

	items := pace.ProjectItems(entries, []domain.WorkItemBudget{item("a", 10)}, now, pace.DefaultThresholds())

	p := items[0]
	require.NotNil(t, p.DaysToExceed)
	assert.Equal(t, 3, *p.DaysToExceed)
	assert.False(t, p.IsCritical)
	assert.False(t, p.IsWarning)
}

func TestProjectItems_States(t *testing.T) {
	entries := []domain.TimeEntry{
		entry("over", 2, wd(1)),
		entry("over", 1, wd(0.5)),
		entry("sparse", 1, wd(0.5)),
		entry("free", 1, wd(1)),
	}
	budgets := []domain.WorkItemBudget{
		item("sparse", 5),
		item("over", 1),
		item("free", 0),
	}

	items := pace.ProjectItems(entries, budgets, now, pace.DefaultThresholds())

	require.Len(t, items, 3)
	assert.Equal(t, "sparse", items[0].WorkItemID)
	assert.Equal(t, "over", items[1].WorkItemID)
	assert.Equal(t, "free", items[2].WorkItemID)

	assert.True(t, items[0].InsufficientData)
	assert.Nil(t, items[0].DaysToExceed)

	assert.True(t, items[1].Exceeded)
	assert.InDelta(t, 0.5, items[1].ExceededBy, 1e-9)

	assert.True(t, items[2].NotApplicable)
	assert.Nil(t, items[2].ConsumptionPercent)
	assert.InDelta(t, 1.0, items[2].ConsumedWorkDays, 1e-9)
}

func TestReconcileOverage_SumsExceededItems(t *testing.T) {
	entries := []domain.TimeEntry{
		entry("a", 1, wd(1.5)),
		entry("b", 1, wd(3)),
	}
	budgets := []domain.WorkItemBudget{item("a", 1), item("b", 2)}
	items := pace.ProjectItems(entries, budgets, now, pace.DefaultThresholds())
	c := pace.Measure(entries, 3)

	overage := pace.ReconcileOverage(items, c, pace.Estimate{}, nil, now)

	assert.InDelta(t, 1.5, overage, 1e-9)
}

func TestReconcileOverage_Deadline(t *testing.T) {
	entries := scenarioEntries()
	th := pace.DefaultThresholds()
	c := pace.Measure(entries, 10)
	est := pace.EstimatePace(entries, now, th)
	require.True(t, est.Available)

	inAWeek := now.AddDate(0, 0, 7)
	// capacity 7 * 2.5/7 = 2.5, remaining 7.5
	assert.InDelta(t, 5.0, pace.ReconcileOverage(nil, c, est, &inAWeek, now), 1e-9)

	past := now.AddDate(0, 0, -3)
	assert.InDelta(t, 7.5, pace.ReconcileOverage(nil, c, est, &past, now), 1e-9)

	farAway := now.AddDate(0, 0, 60)
	assert.Zero(t, pace.ReconcileOverage(nil, c, est, &farAway, now))

	assert.Zero(t, pace.ReconcileOverage(nil, c, pace.Estimate{}, &inAWeek, now))
}

func TestProjectGlobal_HugeRemainderIsCapped(t *testing.T) {
	tiny := func(daysAgo int) domain.TimeEntry {
		e := entry("", daysAgo, 0)
		d := int64(1)
		e.DurationSeconds = &d
		return e
	}
	entries := []domain.TimeEntry{tiny(2), tiny(1)}
	c := pace.Measure(entries, 1e300)
	est := pace.EstimatePace(entries, now, pace.DefaultThresholds())
	require.True(t, est.Available)

	p := pace.ProjectGlobal(c, est, now)

	require.True(t, p.Available)
	assert.Equal(t, pace.MaxProjectionDays, p.CalendarDaysNeeded)
	require.NotNil(t, p.EstimatedEndDate)
	assert.Equal(t, now.AddDate(0, 0, pace.MaxProjectionDays), *p.EstimatedEndDate)
}

func TestProjectItems_HugeRemainderIsCapped(t *testing.T) {
	entries := []domain.TimeEntry{entry("a", 1, 1), entry("a", 0, 1)}

	items := pace.ProjectItems(entries, []domain.WorkItemBudget{item("a", 1e300)}, now, pace.DefaultThresholds())

	require.NotNil(t, items[0].DaysToExceed)
	assert.Equal(t, pace.MaxProjectionDays, *items[0].DaysToExceed)
	assert.False(t, items[0].IsCritical)
	assert.False(t, items[0].IsWarning)
}
