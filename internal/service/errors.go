package service

import "fmt"

// Error handling principles:
// 1. Validation failures are returned as *domain.ValidationError and leave state untouched
// 2. Storage failures are wrapped in PlannerServiceError and keep store.ErrPersistence reachable
// 3. Callers use errors.Is/errors.As to check for specific error conditions
// 4. The API layer maps service errors to appropriate HTTP status codes

// PlannerServiceError is a custom error type for planner service errors.
type PlannerServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for PlannerServiceError.
func (e *PlannerServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("planner service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("planner service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *PlannerServiceError) Unwrap() error {
	return e.Err
}

// NewPlannerServiceError creates a new PlannerServiceError.
func NewPlannerServiceError(operation, message string, err error) *PlannerServiceError {
	return &PlannerServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
