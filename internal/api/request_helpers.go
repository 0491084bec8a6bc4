package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/study-planner/internal/domain"
)

// getPathID extracts an entity ID from the URL path parameters.
func getPathID(r *http.Request, paramName string) (domain.ID, error) {
	id, err := domain.ParseID(chi.URLParam(r, paramName))
	if err != nil {
		return "", domain.NewValidationError(paramName, "is required", domain.ErrInvalidID)
	}
	return id, nil
}

// parseNow reads the optional ?now= RFC 3339 timestamp. Without it the
// handler's clock is used.
func parseNow(r *http.Request, clock func() time.Time) (time.Time, error) {
	raw := r.URL.Query().Get("now")
	if raw == "" {
		return clock(), nil
	}
	now, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: now %q must be an RFC 3339 timestamp", domain.ErrInvalidFormat, raw)
	}
	return now, nil
}
