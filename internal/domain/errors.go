package domain

import "errors"

// Domain-specific errors for business logic validation.
var (
	// Project errors
	ErrProjectNotFound = errors.New("project not found")

	// Validation errors
	ErrInvalidRequest    = errors.New("invalid pace request")
	ErrInvalidThresholds = errors.New("invalid pace thresholds")
	ErrInvalidProjectID  = errors.New("invalid project id")
)
