package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/BurntSushi/toml"

	"github.com/mtlprog/budgetpace/internal/handler/dto"
	"github.com/mtlprog/budgetpace/internal/middleware"
)

// handleProjectPace handles GET /api/v1/projects/{id}/pace
func (h *Handler) handleProjectPace(w http.ResponseWriter, r *http.Request) {
	projectID, ok := extractProjectID(w, r)
	if !ok {
		return
	}
	now, ok := h.extractNow(w, r)
	if !ok {
		return
	}
	if !h.requireDatabase(w) {
		return
	}

	report, err := h.paceService.Evaluate(r.Context(), projectID, now)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewPaceReportResponse(report))
}

// handleEvaluatePace handles POST /api/v1/pace
func (h *Handler) handleEvaluatePace(w http.ResponseWriter, r *http.Request) {
	var body dto.EvaluatePaceRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&body); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(w, http.StatusRequestEntityTooLarge, "INVALID_REQUEST", "request body too large")
			return
		}
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	req, err := body.ToPaceRequest(h.clock().UTC())
	if err != nil {
		respondDomainError(w, err)
		return
	}

	report, err := h.paceService.EvaluateSnapshot(req)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	slog.Debug("snapshot evaluated",
		"project_id", report.ProjectID,
		"trajectory", report.Trajectory,
		"request_id", middleware.GetRequestID(r.Context()),
	)

	respondJSON(w, http.StatusOK, dto.NewPaceReportResponse(report))
}

// handleAtRisk handles GET /api/v1/pace/at-risk
func (h *Handler) handleAtRisk(w http.ResponseWriter, r *http.Request) {
	now, ok := h.extractNow(w, r)
	if !ok {
		return
	}
	if !h.requireDatabase(w) {
		return
	}

	result, err := h.paceService.ScanProjects(r.Context(), now)
	if err != nil && result == nil {
		respondDomainError(w, err)
		return
	}
	if err != nil {
		// Partial scans still answer; failures are already logged per project.
		slog.Warn("at-risk scan incomplete", "error", err)
	}

	respondJSON(w, http.StatusOK, dto.NewAtRiskResponse(result.Now, result.Evaluated, result.Skipped, result.AtRisk))
}

// handleThresholds handles GET /api/v1/pace/thresholds
func (h *Handler) handleThresholds(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/toml; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if err := toml.NewEncoder(w).Encode(h.paceService.Thresholds()); err != nil {
		slog.Error("failed to encode thresholds", "error", err)
	}
}
