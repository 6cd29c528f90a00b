package dto

import (
	"time"

	"github.com/mtlprog/budgetpace/internal/pace"
)

// PaceReportResponse is the full analysis of a project's time budget.
type PaceReportResponse struct {
	ProjectID        string                   `json:"projectId"`
	Now              time.Time                `json:"now"`
	Consumption      ConsumptionResponse      `json:"consumption"`
	Pace             PaceResponse             `json:"pace"`
	Projection       ProjectionResponse       `json:"projection"`
	PerItem          []ItemProjectionResponse `json:"perItem"`
	ProjectedOverage float64                  `json:"projectedOverage"`
	Trajectory       string                   `json:"trajectory"`
	Recommendations  []RecommendationResponse `json:"recommendations"`
}

// ConsumptionResponse reports consumed versus estimated work-days.
type ConsumptionResponse struct {
	ConsumedWorkDays   float64  `json:"consumedWorkDays"`
	EstimatedWorkDays  float64  `json:"estimatedWorkDays"`
	RemainingWorkDays  *float64 `json:"remainingWorkDays"`
	ConsumptionPercent *float64 `json:"consumptionPercent"`
}

// PaceResponse is the recent working pace.
type PaceResponse struct {
	Available          bool     `json:"available"`
	PacePerCalendarDay *float64 `json:"pacePerCalendarDay,omitempty"`
	WindowLabel        string   `json:"windowLabel,omitempty"`
	Reason             string   `json:"reason,omitempty"`
}

// ProjectionResponse is the projected end of the global budget.
type ProjectionResponse struct {
	Available          bool     `json:"available"`
	AlreadyExceeded    *bool    `json:"alreadyExceeded,omitempty"`
	ExceededBy         *float64 `json:"exceededBy,omitempty"`
	EstimatedEndDate   *string  `json:"estimatedEndDate,omitempty"`
	CalendarDaysNeeded *int     `json:"calendarDaysNeeded,omitempty"`
	Reason             string   `json:"reason,omitempty"`
}

// ItemProjectionResponse is the risk projection of one work item.
type ItemProjectionResponse struct {
	WorkItemID          string   `json:"workItemId"`
	Label               string   `json:"label,omitempty"`
	ConsumedWorkDays    float64  `json:"consumedWorkDays"`
	EstimatedWorkDays   float64  `json:"estimatedWorkDays"`
	ConsumptionPercent  *float64 `json:"consumptionPercent"`
	NotApplicable       bool     `json:"notApplicable"`
	Exceeded            bool     `json:"exceeded"`
	ExceededBy          *float64 `json:"exceededBy,omitempty"`
	InsufficientData    bool     `json:"insufficientData"`
	IsCritical          *bool    `json:"isCritical,omitempty"`
	IsWarning           *bool    `json:"isWarning,omitempty"`
	DaysToExceed        *int     `json:"daysToExceed,omitempty"`
	ProjectedExceedDate *string  `json:"projectedExceedDate,omitempty"`
}

// RecommendationResponse is one actionable suggestion.
type RecommendationResponse struct {
	ID          string `json:"id"`
	Horizon     string `json:"horizon"`
	Severity    string `json:"severity"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// AtRiskResponse represents the response for GET /pace/at-risk.
type AtRiskResponse struct {
	Now       time.Time             `json:"now"`
	Evaluated int                   `json:"evaluated"`
	Skipped   int                   `json:"skipped"`
	Projects  []ProjectRiskResponse `json:"projects"`
}

// ProjectRiskResponse summarizes one at-risk project.
type ProjectRiskResponse struct {
	ProjectID          string   `json:"projectId"`
	Trajectory         string   `json:"trajectory"`
	ConsumptionPercent *float64 `json:"consumptionPercent"`
	ProjectedOverage   float64  `json:"projectedOverage"`
}

// NewPaceReportResponse renders an engine report.
func NewPaceReportResponse(r *pace.Report) PaceReportResponse {
	resp := PaceReportResponse{
		ProjectID: r.ProjectID,
		Now:       r.Now,
		Consumption: ConsumptionResponse{
			ConsumedWorkDays:   r.Consumption.ConsumedWorkDays,
			EstimatedWorkDays:  r.Consumption.EstimatedWorkDays,
			RemainingWorkDays:  r.Consumption.RemainingWorkDays,
			ConsumptionPercent: r.Consumption.Percent,
		},
		Pace:             newPaceResponse(r.Pace),
		Projection:       newProjectionResponse(r.Projection),
		PerItem:          make([]ItemProjectionResponse, 0, len(r.PerItem)),
		ProjectedOverage: r.ProjectedOverage,
		Trajectory:       string(r.Trajectory),
		Recommendations:  make([]RecommendationResponse, 0, len(r.Recommendations)),
	}

	for _, item := range r.PerItem {
		resp.PerItem = append(resp.PerItem, newItemProjectionResponse(item))
	}
	for _, rec := range r.Recommendations {
		resp.Recommendations = append(resp.Recommendations, RecommendationResponse{
			ID:          rec.ID,
			Horizon:     string(rec.Horizon),
			Severity:    string(rec.Severity),
			Title:       rec.Title,
			Description: rec.Description,
		})
	}

	return resp
}

// NewAtRiskResponse renders a scan result.
func NewAtRiskResponse(now time.Time, evaluated, skipped int, reports []*pace.Report) AtRiskResponse {
	resp := AtRiskResponse{
		Now:       now,
		Evaluated: evaluated,
		Skipped:   skipped,
		Projects:  make([]ProjectRiskResponse, 0, len(reports)),
	}
	for _, r := range reports {
		resp.Projects = append(resp.Projects, ProjectRiskResponse{
			ProjectID:          r.ProjectID,
			Trajectory:         string(r.Trajectory),
			ConsumptionPercent: r.Consumption.Percent,
			ProjectedOverage:   r.ProjectedOverage,
		})
	}
	return resp
}

func newPaceResponse(e pace.Estimate) PaceResponse {
	if !e.Available {
		return PaceResponse{Reason: e.Reason}
	}
	return PaceResponse{
		Available:          true,
		PacePerCalendarDay: ptr(e.PacePerCalendarDay),
		WindowLabel:        string(e.WindowLabel),
	}
}

func newProjectionResponse(p pace.Projection) ProjectionResponse {
	if !p.Available {
		return ProjectionResponse{Reason: p.Reason}
	}
	resp := ProjectionResponse{
		Available:       true,
		AlreadyExceeded: ptr(p.AlreadyExceeded),
	}
	if p.AlreadyExceeded {
		resp.ExceededBy = ptr(p.ExceededBy)
		return resp
	}
	resp.CalendarDaysNeeded = ptr(p.CalendarDaysNeeded)
	resp.EstimatedEndDate = formatDate(p.EstimatedEndDate)
	return resp
}

func newItemProjectionResponse(p pace.ItemProjection) ItemProjectionResponse {
	resp := ItemProjectionResponse{
		WorkItemID:          p.WorkItemID,
		Label:               p.Label,
		ConsumedWorkDays:    p.ConsumedWorkDays,
		EstimatedWorkDays:   p.EstimatedWorkDays,
		ConsumptionPercent:  p.ConsumptionPercent,
		NotApplicable:       p.NotApplicable,
		Exceeded:            p.Exceeded,
		InsufficientData:    p.InsufficientData,
		DaysToExceed:        p.DaysToExceed,
		ProjectedExceedDate: formatDate(p.ProjectedExceedDate),
	}
	if p.Exceeded {
		resp.ExceededBy = ptr(p.ExceededBy)
	}
	// Risk flags only exist once a projection was computed.
	if p.DaysToExceed != nil {
		resp.IsCritical = ptr(p.IsCritical)
		resp.IsWarning = ptr(p.IsWarning)
	}
	return resp
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	return ptr(t.Format(DateLayout))
}

func ptr[T any](v T) *T {
	return &v
}
