package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mtlprog/budgetpace/internal/pace"
	"github.com/mtlprog/budgetpace/internal/repository"
)

// scanConcurrency bounds how many projects a scan evaluates at once.
const scanConcurrency = 4

// PaceService loads project snapshots from the ledger and runs the pace engine on them.
type PaceService struct {
	projectRepo  *repository.ProjectRepository
	workItemRepo *repository.WorkItemRepository
	entryRepo    *repository.TimeEntryRepository
	thresholds   pace.Thresholds
}

// NewPaceService creates a new PaceService.
func NewPaceService(
	projectRepo *repository.ProjectRepository,
	workItemRepo *repository.WorkItemRepository,
	entryRepo *repository.TimeEntryRepository,
	thresholds pace.Thresholds,
) *PaceService {
	return &PaceService{
		projectRepo:  projectRepo,
		workItemRepo: workItemRepo,
		entryRepo:    entryRepo,
		thresholds:   thresholds,
	}
}

// Thresholds returns the thresholds every evaluation runs with.
func (s *PaceService) Thresholds() pace.Thresholds {
	return s.thresholds
}

// Snapshot loads everything the engine needs for one stored project.
func (s *PaceService) Snapshot(ctx context.Context, projectID string, now time.Time) (pace.Request, error) {
	if err := ValidateProjectID(projectID); err != nil {
		return pace.Request{}, err
	}

	project, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return pace.Request{}, err
	}

	req := pace.Request{
		ProjectID:         project.ID,
		Now:               now,
		EstimatedWorkDays: project.FallbackWorkDays,
		Deadline:          project.Deadline,
	}

	// Items and entries are independent reads.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		items, err := s.workItemRepo.ListByProject(gctx, projectID)
		if err != nil {
			return fmt.Errorf("load work items: %w", err)
		}
		req.WorkItems = items
		return nil
	})
	g.Go(func() error {
		entries, err := s.entryRepo.ListByProject(gctx, projectID)
		if err != nil {
			return fmt.Errorf("load time entries: %w", err)
		}
		req.TimeEntries = entries
		return nil
	})
	if err := g.Wait(); err != nil {
		return pace.Request{}, fmt.Errorf("project %s: %w", projectID, err)
	}

	return req, nil
}

// Evaluate analyses a stored project as of now.
func (s *PaceService) Evaluate(ctx context.Context, projectID string, now time.Time) (*pace.Report, error) {
	req, err := s.Snapshot(ctx, projectID, now)
	if err != nil {
		return nil, err
	}

	report, err := s.EvaluateSnapshot(req)
	if err != nil {
		return nil, fmt.Errorf("evaluate project %s: %w", projectID, err)
	}

	slog.Info("project evaluated",
		"project_id", projectID,
		"trajectory", report.Trajectory,
		"consumed_work_days", report.Consumption.ConsumedWorkDays,
		"recommendations", len(report.Recommendations),
	)

	return report, nil
}

// EvaluateSnapshot runs the engine on a caller-supplied snapshot without touching the ledger.
func (s *PaceService) EvaluateSnapshot(req pace.Request) (*pace.Report, error) {
	return pace.Evaluate(req, s.thresholds)
}

// ScanResult is the outcome of evaluating every project in the ledger.
type ScanResult struct {
	Now       time.Time
	Evaluated int
	Skipped   int
	AtRisk    []*pace.Report
}

// ScanProjects evaluates every project with logged time and collects the ones
// whose trajectory is critical or exceeded. Projects that fail to evaluate are
// logged and reported in the returned error; the others still make it into the result.
func (s *PaceService) ScanProjects(ctx context.Context, now time.Time) (*ScanResult, error) {
	summaries, err := s.projectRepo.ListLedgerSummaries(ctx)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}

	result := &ScanResult{Now: now}

	var active []repository.LedgerSummary
	for _, summary := range summaries {
		if !summary.HasActivity() {
			result.Skipped++
			continue
		}
		active = append(active, summary)
	}

	reports := make([]*pace.Report, len(active))
	errs := make([]error, len(active))

	var g errgroup.Group
	g.SetLimit(scanConcurrency)
	for i, summary := range active {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				errs[i] = fmt.Errorf("project %s: %w", summary.ProjectID, err)
				return nil
			}
			report, err := s.Evaluate(ctx, summary.ProjectID, now)
			if err != nil {
				slog.Error("failed to evaluate project",
					"project_id", summary.ProjectID,
					"error", err,
				)
				errs[i] = fmt.Errorf("project %s: %w", summary.ProjectID, err)
				return nil
			}
			reports[i] = report
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for i, report := range reports {
		if errs[i] != nil {
			failed++
			continue
		}
		result.Evaluated++
		if report.Trajectory.IsAtRisk() {
			result.AtRisk = append(result.AtRisk, report)
		}
	}

	slog.Info("scanned projects",
		"total", len(summaries),
		"evaluated", result.Evaluated,
		"skipped", result.Skipped,
		"at_risk", len(result.AtRisk),
		"failed", failed,
	)

	if failed > 0 {
		return result, fmt.Errorf("evaluated %d/%d projects, %d failures: %w",
			result.Evaluated, len(active), failed, errors.Join(errs...))
	}

	return result, nil
}
