package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hiroki-koketsu/taskcore/internal/model"
	"github.com/hiroki-koketsu/taskcore/internal/store"
	"github.com/hiroki-koketsu/taskcore/internal/telemetry"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("github.com/hiroki-koketsu/taskcore/internal/handler")

// TaskHandler handles HTTP requests for tasks.
type TaskHandler struct {
	store   *store.Store
	logger  *slog.Logger
	metrics *telemetry.Metrics
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(st *store.Store, logger *slog.Logger, metrics *telemetry.Metrics) *TaskHandler {
	return &TaskHandler{
		store:   st,
		logger:  logger,
		metrics: metrics,
	}
}

// Routes returns the chi router with task routes.
func (h *TaskHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Post("/bulk-delete", h.BulkDelete)
	r.Delete("/completed", h.ClearCompleted)
	r.Post("/archive", h.Archive)
	r.Get("/escalations", h.Escalations)
	r.Get("/{id}", h.GetByID)
	r.Patch("/{id}", h.Update)
	r.Post("/{id}/toggle", h.Toggle)
	r.Delete("/{id}", h.Delete)

	return r
}

// List returns the filtered view. Query parameters override the store's
// view for this request only.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	const route = "/api/v1/tasks"
	ctx, span := tracer.Start(r.Context(), "TaskHandler.List")
	defer span.End()
	start := time.Now()

	q, overridden, err := queryFromRequest(r, h.store.View())
	if err != nil {
		h.logger.WarnContext(ctx, "invalid query", slog.Any("error", err))
		h.fail(ctx, w, r, route, start, http.StatusBadRequest, err.Error())
		return
	}

	var tasks []*model.Task
	if overridden {
		tasks = h.store.Query(q)
	} else {
		tasks = h.store.FilteredTasks()
	}

	span.SetAttributes(attribute.Int("task.count", len(tasks)))
	h.logger.InfoContext(ctx, "tasks listed", slog.Int("count", len(tasks)))

	h.ok(ctx, w, r, route, start, http.StatusOK, tasks)
}

// Create adds a new task. An empty title is accepted.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	const route = "/api/v1/tasks"
	ctx, span := tracer.Start(r.Context(), "TaskHandler.Create")
	defer span.End()
	start := time.Now()

	var req model.CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "invalid request body", slog.Any("error", err))
		h.fail(ctx, w, r, route, start, http.StatusBadRequest, "invalid request body")
		return
	}

	task := h.store.AddTask(ctx, req.Title, req.Options()...)

	span.SetAttributes(attribute.String("task.id", task.ID))
	h.logger.InfoContext(ctx, "task created", slog.String("id", task.ID))

	h.ok(ctx, w, r, route, start, http.StatusCreated, task)
}

// GetByID returns a task by ID.
func (h *TaskHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	const route = "/api/v1/tasks/{id}"
	id := chi.URLParam(r, "id")
	ctx, span := tracer.Start(r.Context(), "TaskHandler.GetByID",
		trace.WithAttributes(attribute.String("task.id", id)),
	)
	defer span.End()
	start := time.Now()

	task, found := h.store.Get(id)
	if !found {
		h.notFound(ctx, w, r, route, start, id)
		return
	}

	h.ok(ctx, w, r, route, start, http.StatusOK, task)
}

// Update applies a partial update to a task.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	const route = "/api/v1/tasks/{id}"
	id := chi.URLParam(r, "id")
	ctx, span := tracer.Start(r.Context(), "TaskHandler.Update",
		trace.WithAttributes(attribute.String("task.id", id)),
	)
	defer span.End()
	start := time.Now()

	var patch model.TaskPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		h.logger.WarnContext(ctx, "invalid request body", slog.Any("error", err))
		h.fail(ctx, w, r, route, start, http.StatusBadRequest, "invalid request body")
		return
	}

	task, found := h.store.UpdateTask(ctx, id, patch)
	if !found {
		h.notFound(ctx, w, r, route, start, id)
		return
	}

	h.logger.InfoContext(ctx, "task updated", slog.String("id", id))
	h.ok(ctx, w, r, route, start, http.StatusOK, task)
}

// Toggle flips a task between pending and completed.
func (h *TaskHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	const route = "/api/v1/tasks/{id}/toggle"
	id := chi.URLParam(r, "id")
	ctx, span := tracer.Start(r.Context(), "TaskHandler.Toggle",
		trace.WithAttributes(attribute.String("task.id", id)),
	)
	defer span.End()
	start := time.Now()

	task, found := h.store.ToggleTask(ctx, id)
	if !found {
		h.notFound(ctx, w, r, route, start, id)
		return
	}

	h.logger.InfoContext(ctx, "task toggled", slog.String("id", id), slog.Bool("completed", task.IsCompleted))
	h.ok(ctx, w, r, route, start, http.StatusOK, task)
}

// Delete removes a task.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	const route = "/api/v1/tasks/{id}"
	id := chi.URLParam(r, "id")
	ctx, span := tracer.Start(r.Context(), "TaskHandler.Delete",
		trace.WithAttributes(attribute.String("task.id", id)),
	)
	defer span.End()
	start := time.Now()

	if !h.store.DeleteTask(ctx, id) {
		h.notFound(ctx, w, r, route, start, id)
		return
	}

	h.logger.InfoContext(ctx, "task deleted", slog.String("id", id))
	h.ok(ctx, w, r, route, start, http.StatusNoContent, nil)
}

// BulkDelete removes the tasks at positions of the store's current view.
func (h *TaskHandler) BulkDelete(w http.ResponseWriter, r *http.Request) {
	const route = "/api/v1/tasks/bulk-delete"
	ctx, span := tracer.Start(r.Context(), "TaskHandler.BulkDelete")
	defer span.End()
	start := time.Now()

	var req model.BulkDeleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "invalid request body", slog.Any("error", err))
		h.fail(ctx, w, r, route, start, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		h.logger.WarnContext(ctx, "validation failed", slog.Any("error", err))
		h.fail(ctx, w, r, route, start, http.StatusBadRequest, err.Error())
		return
	}

	deleted := h.store.DeleteTasksAt(ctx, req.Positions)

	span.SetAttributes(attribute.Int("task.deleted", deleted))
	h.ok(ctx, w, r, route, start, http.StatusOK, map[string]int{"deleted": deleted})
}

// ClearCompleted removes every completed task.
func (h *TaskHandler) ClearCompleted(w http.ResponseWriter, r *http.Request) {
	const route = "/api/v1/tasks/completed"
	ctx, span := tracer.Start(r.Context(), "TaskHandler.ClearCompleted")
	defer span.End()
	start := time.Now()

	deleted := h.store.ClearCompletedTasks(ctx)
	h.ok(ctx, w, r, route, start, http.StatusOK, map[string]int{"deleted": deleted})
}

// Archive removes completed tasks older than older_than_days (default 30).
func (h *TaskHandler) Archive(w http.ResponseWriter, r *http.Request) {
	const route = "/api/v1/tasks/archive"
	ctx, span := tracer.Start(r.Context(), "TaskHandler.Archive")
	defer span.End()
	start := time.Now()

	days := 30
	if raw := r.URL.Query().Get("older_than_days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			h.logger.WarnContext(ctx, "invalid older_than_days", slog.String("value", raw))
			h.fail(ctx, w, r, route, start, http.StatusBadRequest, "older_than_days must be a non-negative integer")
			return
		}
		days = n
	}

	archived := h.store.ArchiveCompletedTasks(ctx, days)
	h.ok(ctx, w, r, route, start, http.StatusOK, map[string]int{"archived": archived})
}

// Escalations returns tasks that should be escalated now.
func (h *TaskHandler) Escalations(w http.ResponseWriter, r *http.Request) {
	const route = "/api/v1/tasks/escalations"
	ctx, span := tracer.Start(r.Context(), "TaskHandler.Escalations")
	defer span.End()
	start := time.Now()

	tasks := h.store.EscalatedTasks()
	if tasks == nil {
		tasks = []*model.Task{}
	}
	span.SetAttributes(attribute.Int("task.count", len(tasks)))
	h.ok(ctx, w, r, route, start, http.StatusOK, tasks)
}

// Health returns a health check response.
func (h *TaskHandler) Health(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *TaskHandler) ok(ctx context.Context, w http.ResponseWriter, r *http.Request, route string, start time.Time, status int, data any) {
	h.respondJSON(w, status, data)
	h.metrics.RecordRequest(ctx, r.Method, route, status, start)
}

func (h *TaskHandler) fail(ctx context.Context, w http.ResponseWriter, r *http.Request, route string, start time.Time, status int, message string) {
	h.respondError(w, status, message)
	h.metrics.RecordRequest(ctx, r.Method, route, status, start)
}

func (h *TaskHandler) notFound(ctx context.Context, w http.ResponseWriter, r *http.Request, route string, start time.Time, id string) {
	trace.SpanFromContext(ctx).SetAttributes(attribute.Bool("task.found", false))
	h.logger.WarnContext(ctx, "task not found", slog.String("id", id))
	h.fail(ctx, w, r, route, start, http.StatusNotFound, model.ErrTaskNotFound.Error())
}

func (h *TaskHandler) respondJSON(w http.ResponseWriter, status int, data any) {
	if data == nil {
		w.WriteHeader(status)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", slog.Any("error", err))
	}
}

func (h *TaskHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}

// queryFromRequest overlays the search, filter, category and sort query
// parameters on base. It reports whether any parameter was present.
func queryFromRequest(r *http.Request, base model.Query) (model.Query, bool, error) {
	values := r.URL.Query()
	q := base
	overridden := false

	if values.Has("search") {
		q.Search = values.Get("search")
		overridden = true
	}
	if raw := values.Get("filter"); raw != "" {
		f, err := model.ParseFilter(raw)
		if err != nil {
			return q, false, err
		}
		q.Filter = f
		overridden = true
	}
	if values.Has("category") {
		overridden = true
		q.Category = nil
		if raw := values.Get("category"); raw != "" {
			c, err := model.ParseCategory(raw)
			if err != nil {
				return q, false, err
			}
			q.Category = &c
		}
	}
	if raw := values.Get("sort"); raw != "" {
		o, err := model.ParseSortOption(raw)
		if err != nil {
			return q, false, err
		}
		q.Sort = o
		overridden = true
	}
	return q, overridden, nil
}
