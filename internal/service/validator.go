package service

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mtlprog/budgetpace/internal/domain"
)

// ValidateProjectID checks that a stored project id is a UUID.
func ValidateProjectID(projectID string) error {
	if projectID == "" {
		return fmt.Errorf("%w: project id is required", domain.ErrInvalidProjectID)
	}
	if _, err := uuid.Parse(projectID); err != nil {
		return fmt.Errorf("%w: %q is not a UUID", domain.ErrInvalidProjectID, projectID)
	}
	return nil
}

// ResolveNow parses an RFC 3339 evaluation instant. An empty value yields fallback.
func ResolveNow(raw string, fallback time.Time) (time.Time, error) {
	if raw == "" {
		return fallback, nil
	}
	now, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: now must be an RFC 3339 timestamp, got %q", domain.ErrInvalidRequest, raw)
	}
	return now, nil
}
