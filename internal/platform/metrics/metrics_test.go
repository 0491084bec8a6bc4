package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveMutation(t *testing.T) {
	m := New()

	m.ObserveMutation("add_task", "ok")
	m.ObserveMutation("add_task", "ok")
	m.ObserveMutation("add_task", "invalid")

	assert.Equal(t, float64(2), testutil.ToFloat64(m.mutations.WithLabelValues("add_task", "ok")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.mutations.WithLabelValues("add_task", "invalid")))
	assert.Equal(t, float64(0), testutil.ToFloat64(m.mutations.WithLabelValues("delete_task", "ok")))
}

func TestSetDocumentSize(t *testing.T) {
	m := New()
	m.SetDocumentSize(2, 5, 3)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.items.WithLabelValues("subjects")))
	assert.Equal(t, float64(5), testutil.ToFloat64(m.items.WithLabelValues("tasks")))
	assert.Equal(t, float64(3), testutil.ToFloat64(m.items.WithLabelValues("schedule")))
}

func TestHandlerExposesPlannerMetrics(t *testing.T) {
	m := New()
	m.ObserveMutation("toggle_task", "noop")
	m.ObservePersistence("save", 3*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `studyplanner_mutations_total{operation="toggle_task",result="noop"} 1`)
	assert.Contains(t, string(body), `studyplanner_persistence_seconds_count{operation="save"} 1`)
}

func TestInstancesDoNotShareRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		New()
		New()
	})
}
