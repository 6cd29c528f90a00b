package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mtlprog/budgetpace/internal/handler/dto"
	"github.com/mtlprog/budgetpace/internal/middleware"
	"github.com/mtlprog/budgetpace/internal/pace"
	"github.com/mtlprog/budgetpace/internal/repository"
	"github.com/mtlprog/budgetpace/internal/service"
	"github.com/mtlprog/budgetpace/internal/static"
)

// maxBodyBytes caps the size of an inline snapshot.
const maxBodyBytes = 4 << 20

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	pool        *pgxpool.Pool
	paceService *service.PaceService
	clock       func() time.Time
}

// New creates a new Handler instance with all dependencies.
// A nil pool leaves only the inline evaluation endpoints usable.
func New(pool *pgxpool.Pool, thresholds pace.Thresholds) *Handler {
	paceService := service.NewPaceService(
		repository.NewProjectRepository(pool),
		repository.NewWorkItemRepository(pool),
		repository.NewTimeEntryRepository(pool),
		thresholds,
	)

	return &Handler{
		pool:        pool,
		paceService: paceService,
		clock:       time.Now,
	}
}

// RegisterRoutes registers all HTTP routes.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", h.handleHealthz)
	mux.HandleFunc("GET /api.md", h.handleAPIMd)

	mux.HandleFunc("GET /api/v1/projects/{id}/pace", h.handleProjectPace)
	mux.HandleFunc("POST /api/v1/pace", h.handleEvaluatePace)
	mux.HandleFunc("GET /api/v1/pace/at-risk", h.handleAtRisk)
	mux.HandleFunc("GET /api/v1/pace/thresholds", h.handleThresholds)
}

// Routes returns the mux with every route and the shared middleware applied.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)
	return middleware.Chain(mux)
}

// handleHealthz returns 200 OK if the database is reachable.
func (h *Handler) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if err := h.Ping(r.Context()); err != nil {
		slog.Error("database health check failed", "error", err)
		http.Error(w, "database unavailable", http.StatusServiceUnavailable)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// handleAPIMd serves the embedded API guide.
func (h *Handler) handleAPIMd(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(static.APIMd))
}

var errNoDatabase = errors.New("database not configured")

// Ping checks if the database is reachable.
func (h *Handler) Ping(ctx context.Context) error {
	if h.pool == nil {
		return errNoDatabase
	}
	return h.pool.Ping(ctx)
}

// respondJSON writes a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

// respondError writes a standard error response.
func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, dto.NewErrorResponse(code, message))
}

// respondDomainError maps err through dto.MapDomainError.
func respondDomainError(w http.ResponseWriter, err error) {
	status, code, message := dto.MapDomainError(err)
	respondError(w, status, code, message)
}

// requireDatabase answers 503 when the handler was built without a pool.
// Returns true if the ledger can be queried.
func (h *Handler) requireDatabase(w http.ResponseWriter) bool {
	if h.pool == nil {
		respondError(w, http.StatusServiceUnavailable, "DATABASE_UNAVAILABLE", errNoDatabase.Error())
		return false
	}
	return true
}

// extractProjectID extracts and validates project ID from path parameter.
// Returns (projectID, true) if valid, ("", false) if invalid (error already sent to client).
func extractProjectID(w http.ResponseWriter, r *http.Request) (string, bool) {
	projectID := r.PathValue("id")
	if projectID == "" {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "project id is required")
		return "", false
	}

	if _, err := uuid.Parse(projectID); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "project id must be a valid UUID")
		return "", false
	}

	return projectID, true
}

// extractNow reads the optional ?now= query parameter.
func (h *Handler) extractNow(w http.ResponseWriter, r *http.Request) (time.Time, bool) {
	now, err := service.ResolveNow(r.URL.Query().Get("now"), h.clock().UTC())
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return time.Time{}, false
	}
	return now, true
}
