package pace_test

import (
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mtlprog/budgetpace/internal/domain"
	"github.com/mtlprog/budgetpace/internal/pace"
)

// EngineTestSuite exercises the full evaluation pipeline.
type EngineTestSuite struct {
	suite.Suite
	th pace.Thresholds
}

func (s *EngineTestSuite) SetupTest() {
	s.th = pace.DefaultThresholds()
}

func TestEngineTestSuite(t *testing.T) {
	suite.Run(t, new(EngineTestSuite))
}

func (s *EngineTestSuite) evaluate(req pace.Request) *pace.Report {
	if req.ProjectID == "" {
		req.ProjectID = "p-1"
	}
	if req.Now.IsZero() {
		req.Now = now
	}
	report, err := pace.Evaluate(req, s.th)
	s.Require().NoError(err)
	return report
}

// TestThreeEntryScenario walks the documented three-entry example end to end.
func (s *EngineTestSuite) TestThreeEntryScenario() {
	r := s.evaluate(pace.Request{EstimatedWorkDays: 10, TimeEntries: scenarioEntries()})

	s.InDelta(2.5, r.Consumption.ConsumedWorkDays, 1e-9)
	s.Require().NotNil(r.Consumption.RemainingWorkDays)
	s.InDelta(7.5, *r.Consumption.RemainingWorkDays, 1e-9)
	s.Require().NotNil(r.Consumption.Percent)
	s.InDelta(25.0, *r.Consumption.Percent, 1e-9)

	s.True(r.Pace.Available)
	s.Equal(pace.WindowRecentSessions, r.Pace.WindowLabel)
	s.InDelta(0.357, r.Pace.PacePerCalendarDay, 1e-3)

	s.True(r.Projection.Available)
	s.Equal(21, r.Projection.CalendarDaysNeeded)
	s.Zero(r.ProjectedOverage)
	s.Equal(pace.TrajectoryOK, r.Trajectory)
}

func (s *EngineTestSuite) TestDeterministic() {
	deadline := now.AddDate(0, 0, 10)
	req := pace.Request{
		WorkItems: []domain.WorkItemBudget{item("a", 3), item("b", 4), item("c", 0)},
		TimeEntries: []domain.TimeEntry{
			entry("a", 9, 6),
			entry("b", 5, 7),
			entry("a", 2, 8),
			entry("", 2, 3),
			entry("b", 1, 5),
			openEntry("c", 0),
		},
		Deadline: &deadline,
	}

	first := s.evaluate(req)
	second := s.evaluate(req)

	s.Equal(first, second)
}

func (s *EngineTestSuite) TestConcurrentEvaluations() {
	req := pace.Request{EstimatedWorkDays: 10, TimeEntries: scenarioEntries()}
	want := s.evaluate(req)

	var wg sync.WaitGroup
	results := make(chan *pace.Report, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r, err := pace.Evaluate(pace.Request{
				ProjectID:         "p-1",
				Now:               now,
				EstimatedWorkDays: 10,
				TimeEntries:       req.TimeEntries,
			}, s.th)
			if err == nil {
				results <- r
			}
		}()
	}
	wg.Wait()
	close(results)

	count := 0
	for r := range results {
		s.Equal(want, r)
		count++
	}
	s.Equal(8, count)
}

func (s *EngineTestSuite) TestNoBudgetGuard() {
	r := s.evaluate(pace.Request{TimeEntries: scenarioEntries()})

	s.False(r.Consumption.HasBudget())
	s.Nil(r.Consumption.Percent)
	s.Nil(r.Consumption.RemainingWorkDays)
	s.False(r.Projection.Available)
	s.Equal(pace.ReasonNoBudget, r.Projection.Reason)
	s.Equal(pace.TrajectoryOK, r.Trajectory)
	s.False(math.IsNaN(r.ProjectedOverage))

	for _, id := range budgetRelative {
		s.NotContains(recommendationIDs(r), id)
	}
}

func (s *EngineTestSuite) TestEmptyLedger() {
	r := s.evaluate(pace.Request{EstimatedWorkDays: 10})

	s.Zero(r.Consumption.ConsumedWorkDays)
	s.False(r.Pace.Available)
	s.Equal(pace.ReasonInsufficientHistory, r.Pace.Reason)
	s.Equal(pace.TrajectoryUnknown, r.Trajectory)
	s.Empty(r.Recommendations)
}

func (s *EngineTestSuite) TestItemsOverrideFallbackBudget() {
	r := s.evaluate(pace.Request{
		EstimatedWorkDays: 100,
		WorkItems:         []domain.WorkItemBudget{item("a", 4), item("b", 6)},
		TimeEntries:       scenarioEntries(),
	})

	s.Equal(10.0, r.Consumption.EstimatedWorkDays)
	s.Len(r.PerItem, 2)
}

func (s *EngineTestSuite) TestDeadlineOverageDrivesTrajectory() {
	deadline := now.AddDate(0, 0, 7)
	r := s.evaluate(pace.Request{
		EstimatedWorkDays: 10,
		TimeEntries:       scenarioEntries(),
		Deadline:          &deadline,
	})

	s.InDelta(5.0, r.ProjectedOverage, 1e-9)
	s.Equal(pace.TrajectoryCritical, r.Trajectory)
}

func (s *EngineTestSuite) TestThresholdOverrides() {
	s.th.RecentSessions = 2

	r := s.evaluate(pace.Request{EstimatedWorkDays: 10, TimeEntries: scenarioEntries()})

	s.Equal(pace.WindowRecentDays, r.Pace.WindowLabel)
}

func (s *EngineTestSuite) TestInvalidRequests() {
	dup := entry("", 1, 1)
	tests := []struct {
		name string
		req  pace.Request
	}{
		{"missing project", pace.Request{Now: now}},
		{"missing now", pace.Request{ProjectID: "p-1"}},
		{"negative budget", pace.Request{ProjectID: "p-1", Now: now, EstimatedWorkDays: -1}},
		{"nan budget", pace.Request{ProjectID: "p-1", Now: now, EstimatedWorkDays: math.NaN()}},
		{"empty item id", pace.Request{ProjectID: "p-1", Now: now, WorkItems: []domain.WorkItemBudget{{EstimatedWorkDays: 1}}}},
		{"duplicate item", pace.Request{ProjectID: "p-1", Now: now, WorkItems: []domain.WorkItemBudget{item("a", 1), item("a", 2)}}},
		{"negative item budget", pace.Request{ProjectID: "p-1", Now: now, WorkItems: []domain.WorkItemBudget{item("a", -2)}}},
		{"empty entry id", pace.Request{ProjectID: "p-1", Now: now, TimeEntries: []domain.TimeEntry{{}}}},
		{"duplicate entry", pace.Request{ProjectID: "p-1", Now: now, TimeEntries: []domain.TimeEntry{dup, dup}}},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			_, err := pace.Evaluate(tt.req, s.th)
			s.ErrorIs(err, domain.ErrInvalidRequest)
		})
	}
}

func (s *EngineTestSuite) TestInvalidThresholds() {
	s.th.RecentSessions = 0

	_, err := pace.Evaluate(pace.Request{ProjectID: "p-1", Now: now}, s.th)

	s.ErrorIs(err, domain.ErrInvalidThresholds)
}

func (s *EngineTestSuite) TestMalformedEntriesAreExcluded() {
	negative := entry("", 1, 0)
	d := int64(-7200)
	negative.DurationSeconds = &d

	clean := s.evaluate(pace.Request{EstimatedWorkDays: 10, TimeEntries: scenarioEntries()})
	noisy := s.evaluate(pace.Request{
		EstimatedWorkDays: 10,
		TimeEntries:       append(scenarioEntries(), negative, openEntry("", 0)),
	})

	s.InDelta(clean.Consumption.ConsumedWorkDays, noisy.Consumption.ConsumedWorkDays, 1e-9)
	s.InDelta(clean.Pace.PacePerCalendarDay, noisy.Pace.PacePerCalendarDay, 1e-9)
	s.Equal(clean.Projection.CalendarDaysNeeded, noisy.Projection.CalendarDaysNeeded)
}
