package dto

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/mtlprog/budgetpace/internal/domain"
)

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error code and message.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewErrorResponse creates a new error response.
func NewErrorResponse(code, message string) ErrorResponse {
	return ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	}
}

// MapDomainError maps domain errors to HTTP status codes and error codes.
func MapDomainError(err error) (status int, code string, message string) {
	message = err.Error()

	switch {
	case errors.Is(err, domain.ErrProjectNotFound):
		return http.StatusNotFound, "PROJECT_NOT_FOUND", message

	case errors.Is(err, domain.ErrInvalidProjectID):
		return http.StatusBadRequest, "INVALID_REQUEST", message
	case errors.Is(err, domain.ErrInvalidRequest):
		return http.StatusUnprocessableEntity, "INVALID_REQUEST", message

	default:
		// Thresholds are validated at startup, so anything reaching here is unexpected.
		slog.Error("unmapped domain error returned to client",
			"error", err,
			"error_type", fmt.Sprintf("%T", err),
		)
		return http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error"
	}
}
