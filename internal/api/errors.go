package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/study-planner/internal/api/shared"
	"github.com/phrazzld/study-planner/internal/backup"
	"github.com/phrazzld/study-planner/internal/domain"
	"github.com/phrazzld/study-planner/internal/platform/blob"
	"github.com/phrazzld/study-planner/internal/store"
)

// ErrInvalidRequestBody is returned when a request body is not valid JSON
// for the expected shape.
var ErrInvalidRequestBody = errors.New("invalid request body")

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	var fieldErrs validator.ValidationErrors

	switch {
	// Corrupt imports also match ErrValidation, so they are checked first.
	case errors.Is(err, store.ErrCorruptState):
		return http.StatusBadRequest

	case errors.Is(err, shared.ErrBodyTooLarge):
		return http.StatusRequestEntityTooLarge

	case errors.Is(err, ErrInvalidRequestBody),
		errors.Is(err, backup.ErrInvalidName):
		return http.StatusBadRequest

	case errors.Is(err, domain.ErrValidation),
		errors.As(err, &fieldErrs):
		return http.StatusUnprocessableEntity

	case errors.Is(err, domain.ErrInvalidFormat):
		return http.StatusBadRequest

	case errors.Is(err, backup.ErrNotFound):
		return http.StatusNotFound

	case errors.Is(err, blob.ErrExists):
		return http.StatusConflict

	case errors.Is(err, backup.ErrNoSink):
		return http.StatusNotImplemented

	case errors.Is(err, store.ErrPersistence):
		return http.StatusServiceUnavailable

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	var fieldErrs validator.ValidationErrors
	var verr *domain.ValidationError

	switch {
	case errors.Is(err, store.ErrCorruptState):
		return "Backup is not a valid planner document"

	case errors.Is(err, shared.ErrBodyTooLarge):
		return "Request body too large"

	case errors.Is(err, ErrInvalidRequestBody):
		return "Invalid request format"

	case errors.Is(err, backup.ErrInvalidName):
		return "Invalid backup name"

	case errors.As(err, &fieldErrs):
		return SanitizeValidationError(fieldErrs)

	case errors.As(err, &verr):
		return fmt.Sprintf("Invalid %s: %s", verr.Field, verr.Message)

	case errors.Is(err, domain.ErrInvalidFormat):
		return "Invalid parameter format"

	case errors.Is(err, backup.ErrNotFound):
		return "Backup not found"

	case errors.Is(err, blob.ErrExists):
		return "Backup already exists"

	case errors.Is(err, backup.ErrNoSink):
		return "Backups are not configured"

	case errors.Is(err, store.ErrPersistence):
		return "Failed to save planner data"

	default:
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError turns validator field errors into a short message
// naming the first failing field.
func SanitizeValidationError(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return "Validation error"
	}

	fe := fieldErrs[0]
	return fmt.Sprintf("Invalid %s: %s", jsonFieldName(fe.Field()), getValidationTagMessage(fe.Tag()))
}

// jsonFieldName lower-cases the first letter so messages use the wire name.
func jsonFieldName(field string) string {
	if field == "" {
		return field
	}
	return strings.ToLower(field[:1]) + field[1:]
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "min", "gte":
		return "too small"
	case "max", "lte":
		return "too long"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}

// HandleAPIError writes the status and safe message for err and logs the
// redacted detail. fallback replaces the generic message for unmapped errors.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)
	if status == http.StatusInternalServerError && fallback != "" {
		message = fallback
	}

	var opts []shared.ResponseOption
	if errors.Is(err, store.ErrCorruptState) {
		opts = append(opts, shared.WithElevatedLogLevel())
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err, opts...)
}
