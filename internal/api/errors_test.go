package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/study-planner/internal/api/shared"
	"github.com/phrazzld/study-planner/internal/backup"
	"github.com/phrazzld/study-planner/internal/domain"
	"github.com/phrazzld/study-planner/internal/platform/blob"
	"github.com/phrazzld/study-planner/internal/service"
	"github.com/phrazzld/study-planner/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func persistenceFailure() error {
	return service.NewPlannerServiceError(service.OpSetTheme, "failed to persist document",
		store.NewStoreError("document", "save", "write record",
			fmt.Errorf("%w: %w", store.ErrPersistence, errors.New("connection refused"))))
}

func TestMapErrorToStatusCode(t *testing.T) {
	corrupt := fmt.Errorf("%w: %w", store.ErrCorruptState,
		domain.NewValidationError("subjects", "contain duplicate ids", domain.ErrDuplicateID))

	tests := []struct {
		name           string
		err            error
		expectedStatus int
	}{
		{"nil error", nil, http.StatusInternalServerError},
		{"corrupt import wins over validation", corrupt, http.StatusBadRequest},
		{"body too large", shared.ErrBodyTooLarge, http.StatusRequestEntityTooLarge},
		{"malformed body", fmt.Errorf("%w: EOF", ErrInvalidRequestBody), http.StatusBadRequest},
		{"domain validation", domain.NewValidationError("name", "cannot be empty", domain.ErrEmptyName), http.StatusUnprocessableEntity},
		{"invalid format", fmt.Errorf("%w: filter", domain.ErrInvalidFormat), http.StatusBadRequest},
		{"invalid backup name", backup.ErrInvalidName, http.StatusBadRequest},
		{"backup not found", fmt.Errorf("%w: x", backup.ErrNotFound), http.StatusNotFound},
		{"backup exists", fmt.Errorf("archive: %w", blob.ErrExists), http.StatusConflict},
		{"no backup sink", backup.ErrNoSink, http.StatusNotImplemented},
		{"persistence failure", persistenceFailure(), http.StatusServiceUnavailable},
		{"unknown error", errors.New("unknown error"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expectedStatus, MapErrorToStatusCode(tt.err))
		})
	}
}

func TestGetSafeErrorMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"nil error", nil, "An unexpected error occurred"},
		{"domain validation", domain.NewValidationError("title", "cannot be empty", domain.ErrEmptyTaskTitle), "Invalid title: cannot be empty"},
		{"persistence failure", persistenceFailure(), "Failed to save planner data"},
		{"no backup sink", backup.ErrNoSink, "Backups are not configured"},
		{"unknown error", errors.New("dial tcp 10.0.0.5:5432: connection refused"), "An unexpected error occurred"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetSafeErrorMessage(tt.err))
		})
	}
}

func TestSanitizeValidationError(t *testing.T) {
	v := validator.New()

	err := v.Struct(AddScheduleEntryRequest{Time: "10:00"})
	require.Error(t, err)
	assert.Equal(t, "Invalid day: required field", SanitizeValidationError(err))

	err = v.Struct(SetThemeRequest{Theme: "sepia"})
	require.Error(t, err)
	assert.Equal(t, "Invalid theme: invalid value", SanitizeValidationError(err))

	err = v.Struct(AddScheduleEntryRequest{Day: "Monday", Time: "10:00", Duration: -1})
	require.Error(t, err)
	assert.Equal(t, "Invalid duration: too small", SanitizeValidationError(err))

	assert.Equal(t, "Validation error", SanitizeValidationError(errors.New("Key: 'X' Error: secret")))
}
