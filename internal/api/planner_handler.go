package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/study-planner/internal/api/shared"
	"github.com/phrazzld/study-planner/internal/backup"
	"github.com/phrazzld/study-planner/internal/domain"
	"github.com/phrazzld/study-planner/internal/domain/insights"
	"github.com/phrazzld/study-planner/internal/platform/logger"
	"github.com/phrazzld/study-planner/internal/service"
)

// PlannerHandler serves the planner document, its derived views and backups.
type PlannerHandler struct {
	planner   service.PlannerService
	archiver  *backup.Archiver
	validator *validator.Validate
	now       func() time.Time
	logger    *slog.Logger
}

// HandlerOption configures a PlannerHandler.
type HandlerOption func(*PlannerHandler)

// WithHandlerClock replaces time.Now for views that depend on the current time.
func WithHandlerClock(now func() time.Time) HandlerOption {
	return func(h *PlannerHandler) {
		if now != nil {
			h.now = now
		}
	}
}

// NewPlannerHandler creates a new PlannerHandler. archiver may be nil, in
// which case the backup archive endpoints answer 501.
func NewPlannerHandler(
	planner service.PlannerService,
	archiver *backup.Archiver,
	logger *slog.Logger,
	opts ...HandlerOption,
) *PlannerHandler {
	if logger == nil {
		logger = slog.Default()
	}
	h := &PlannerHandler{
		planner:   planner,
		archiver:  archiver,
		validator: validator.New(),
		now:       time.Now,
		logger:    logger.With(slog.String("component", "planner_handler")),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// RegisterRoutes mounts every planner endpoint on r.
func (h *PlannerHandler) RegisterRoutes(r chi.Router) {
	r.Get("/document", h.GetDocument)
	r.Get("/dashboard", h.GetDashboard)
	r.Get("/analytics", h.GetAnalytics)

	r.Get("/subjects", h.ListSubjects)
	r.Post("/subjects", h.AddSubject)
	r.Delete("/subjects/{id}", h.DeleteSubject)

	r.Get("/tasks", h.ListTasks)
	r.Post("/tasks", h.AddTask)
	r.Post("/tasks/{id}/toggle", h.ToggleTask)
	r.Delete("/tasks/{id}", h.DeleteTask)

	r.Get("/schedule", h.GetSchedule)
	r.Post("/schedule", h.AddScheduleEntry)
	r.Delete("/schedule/{id}", h.DeleteScheduleEntry)

	r.Put("/settings/theme", h.SetTheme)
	r.Post("/settings/theme/toggle", h.ToggleTheme)
	r.Put("/settings/user", h.SetUser)

	r.Get("/export", h.Export)
	r.Post("/import", h.Import)
	r.Post("/reset", h.Reset)

	r.Get("/backups", h.ListBackups)
	r.Post("/backups", h.ArchiveBackup)
	r.Post("/backups/{name}/restore", h.RestoreBackup)
}

// GetDocument handles GET /api/document
func (h *PlannerHandler) GetDocument(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, h.planner.Snapshot(r.Context()))
}

// GetDashboard handles GET /api/dashboard. ?now= overrides the current time
// and ?limit= the number of upcoming tasks.
func (h *PlannerHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	now, err := parseNow(r, h.now)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	limit := insights.DefaultUpcomingLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 0 {
			HandleAPIError(w, r, fmt.Errorf("%w: limit %q must be a non-negative integer", domain.ErrInvalidFormat, raw), "")
			return
		}
	}

	doc := h.planner.Snapshot(r.Context())
	shared.RespondWithJSON(w, r, http.StatusOK, insights.Dashboard(doc, now, limit))
}

// GetAnalytics handles GET /api/analytics
func (h *PlannerHandler) GetAnalytics(w http.ResponseWriter, r *http.Request) {
	doc := h.planner.Snapshot(r.Context())
	shared.RespondWithJSON(w, r, http.StatusOK, insights.Analytics(doc))
}

// ListSubjects handles GET /api/subjects
func (h *PlannerHandler) ListSubjects(w http.ResponseWriter, r *http.Request) {
	doc := h.planner.Snapshot(r.Context())
	shared.RespondWithJSON(w, r, http.StatusOK, insights.SubjectSummaries(doc))
}

// AddSubject handles POST /api/subjects
func (h *PlannerHandler) AddSubject(w http.ResponseWriter, r *http.Request) {
	var req AddSubjectRequest
	if err := h.decode(r, &req); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	subject, err := h.planner.AddSubject(r.Context(), req.Name, req.Color)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to add subject")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, subject)
}

// DeleteSubject handles DELETE /api/subjects/{id}. Its tasks and classes are
// deleted with it.
func (h *PlannerHandler) DeleteSubject(w http.ResponseWriter, r *http.Request) {
	h.applyByID(w, r, h.planner.DeleteSubject, "Failed to delete subject")
}

// ListTasks handles GET /api/tasks?filter=all|pending|completed
func (h *PlannerHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	filter, err := insights.ParseTaskFilter(r.URL.Query().Get("filter"))
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	now, err := parseNow(r, h.now)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	doc := h.planner.Snapshot(r.Context())
	shared.RespondWithJSON(w, r, http.StatusOK, insights.DecorateTasks(doc, insights.FilterTasks(doc, filter), now))
}

// AddTask handles POST /api/tasks
func (h *PlannerHandler) AddTask(w http.ResponseWriter, r *http.Request) {
	var req AddTaskRequest
	if err := h.decode(r, &req); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	due, err := domain.ParseDate(req.DueDate)
	if err != nil {
		HandleAPIError(w, r, domain.NewValidationError("dueDate", "must be YYYY-MM-DD", err), "")
		return
	}

	task, err := h.planner.AddTask(r.Context(), req.Title, req.Description, domain.ID(req.SubjectID), due)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to add task")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, task)
}

// ToggleTask handles POST /api/tasks/{id}/toggle
func (h *PlannerHandler) ToggleTask(w http.ResponseWriter, r *http.Request) {
	h.applyByID(w, r, h.planner.ToggleTask, "Failed to toggle task")
}

// DeleteTask handles DELETE /api/tasks/{id}
func (h *PlannerHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	h.applyByID(w, r, h.planner.DeleteTask, "Failed to delete task")
}

// GetSchedule handles GET /api/schedule
func (h *PlannerHandler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	doc := h.planner.Snapshot(r.Context())
	shared.RespondWithJSON(w, r, http.StatusOK, insights.ScheduleByDay(doc))
}

// AddScheduleEntry handles POST /api/schedule
func (h *PlannerHandler) AddScheduleEntry(w http.ResponseWriter, r *http.Request) {
	var req AddScheduleEntryRequest
	if err := h.decode(r, &req); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	entry, err := h.planner.AddScheduleEntry(r.Context(), domain.ID(req.SubjectID), req.Day, req.Time, req.Duration)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to add class")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, entry)
}

// DeleteScheduleEntry handles DELETE /api/schedule/{id}
func (h *PlannerHandler) DeleteScheduleEntry(w http.ResponseWriter, r *http.Request) {
	h.applyByID(w, r, h.planner.DeleteScheduleEntry, "Failed to delete class")
}

// SetTheme handles PUT /api/settings/theme
func (h *PlannerHandler) SetTheme(w http.ResponseWriter, r *http.Request) {
	var req SetThemeRequest
	if err := h.decode(r, &req); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	theme := domain.Theme(req.Theme)
	if err := h.planner.SetTheme(r.Context(), theme); err != nil {
		HandleAPIError(w, r, err, "Failed to set theme")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, ThemeResponse{Theme: theme})
}

// ToggleTheme handles POST /api/settings/theme/toggle
func (h *PlannerHandler) ToggleTheme(w http.ResponseWriter, r *http.Request) {
	theme, err := h.planner.ToggleTheme(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to toggle theme")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, ThemeResponse{Theme: theme})
}

// SetUser handles PUT /api/settings/user
func (h *PlannerHandler) SetUser(w http.ResponseWriter, r *http.Request) {
	var req SetUserRequest
	if err := h.decode(r, &req); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if err := h.planner.SetUserName(r.Context(), req.User); err != nil {
		HandleAPIError(w, r, err, "Failed to set user name")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Export handles GET /api/export. The body is byte-for-byte the persisted
// record format.
func (h *PlannerHandler) Export(w http.ResponseWriter, r *http.Request) {
	payload, err := backup.Export(h.planner.Snapshot(r.Context()))
	if err != nil {
		HandleAPIError(w, r, err, "Failed to export planner data")
		return
	}
	shared.RespondWithAttachment(w, r, backup.ExportFilename, backup.ContentType, payload)
}

// Import handles POST /api/import. The body is a file produced by Export; it
// replaces the whole document.
func (h *PlannerHandler) Import(w http.ResponseWriter, r *http.Request) {
	payload, err := shared.ReadBody(r)
	if err != nil {
		if !errors.Is(err, shared.ErrBodyTooLarge) {
			err = fmt.Errorf("%w: %w", ErrInvalidRequestBody, err)
		}
		HandleAPIError(w, r, err, "")
		return
	}

	doc, err := backup.Import(payload)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	h.replace(w, r, doc, "import")
}

// Reset handles POST /api/reset
func (h *PlannerHandler) Reset(w http.ResponseWriter, r *http.Request) {
	if err := h.planner.Reset(r.Context()); err != nil {
		HandleAPIError(w, r, err, "Failed to reset planner")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, h.planner.Snapshot(r.Context()))
}

// ListBackups handles GET /api/backups
func (h *PlannerHandler) ListBackups(w http.ResponseWriter, r *http.Request) {
	entries, err := h.archiver.List(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list backups")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, BackupListResponse{Backups: entries})
}

// ArchiveBackup handles POST /api/backups by writing the current document
// to the backup sink.
func (h *PlannerHandler) ArchiveBackup(w http.ResponseWriter, r *http.Request) {
	entry, err := h.archiver.Archive(r.Context(), h.planner.Snapshot(r.Context()))
	if err != nil {
		HandleAPIError(w, r, err, "Failed to archive backup")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, entry)
}

// RestoreBackup handles POST /api/backups/{name}/restore
func (h *PlannerHandler) RestoreBackup(w http.ResponseWriter, r *http.Request) {
	doc, err := h.archiver.Load(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load backup")
		return
	}
	h.replace(w, r, doc, "restore")
}

// replace imports doc and answers with the new document.
func (h *PlannerHandler) replace(w http.ResponseWriter, r *http.Request, doc *domain.Document, source string) {
	if err := h.planner.Import(r.Context(), doc); err != nil {
		HandleAPIError(w, r, err, "Failed to import planner data")
		return
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Info("planner document replaced",
		slog.String("source", source),
		slog.Int("subjects", len(doc.Subjects)),
		slog.Int("tasks", len(doc.Tasks)),
		slog.Int("schedule", len(doc.Schedule)))
	shared.RespondWithJSON(w, r, http.StatusOK, h.planner.Snapshot(r.Context()))
}

// applyByID parses the {id} path parameter and applies op. Unknown ids
// succeed without changing anything.
func (h *PlannerHandler) applyByID(
	w http.ResponseWriter,
	r *http.Request,
	op func(ctx context.Context, id domain.ID) error,
	failure string,
) {
	id, err := getPathID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	if err := op(r.Context(), id); err != nil {
		HandleAPIError(w, r, err, failure)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// decode reads a JSON body into v and checks its validate tags.
func (h *PlannerHandler) decode(r *http.Request, v interface{}) error {
	if err := shared.DecodeJSON(r, v); err != nil {
		if errors.Is(err, shared.ErrBodyTooLarge) {
			return err
		}
		return fmt.Errorf("%w: %w", ErrInvalidRequestBody, err)
	}
	return h.validator.Struct(v)
}
