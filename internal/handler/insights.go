package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hiroki-koketsu/taskcore/internal/model"
)

// StatsResponse is the body of GET /stats.
type StatsResponse struct {
	model.TaskStatistics
	ProductivityScore float64 `json:"productivityScore"`
}

// Stats returns aggregate statistics over the whole collection.
func (h *TaskHandler) Stats(w http.ResponseWriter, r *http.Request) {
	const route = "/api/v1/stats"
	ctx, span := tracer.Start(r.Context(), "TaskHandler.Stats")
	defer span.End()
	start := time.Now()

	resp := StatsResponse{
		TaskStatistics:    h.store.Statistics(),
		ProductivityScore: h.store.ProductivityScore(),
	}
	h.ok(ctx, w, r, route, start, http.StatusOK, resp)
}

// Schedule returns pending task ids in suggested working order.
func (h *TaskHandler) Schedule(w http.ResponseWriter, r *http.Request) {
	const route = "/api/v1/schedule"
	ctx, span := tracer.Start(r.Context(), "TaskHandler.Schedule")
	defer span.End()
	start := time.Now()

	h.ok(ctx, w, r, route, start, http.StatusOK, map[string][]string{"taskIds": h.store.SuggestTaskSchedule()})
}

// GetView returns the store's current view state.
func (h *TaskHandler) GetView(w http.ResponseWriter, r *http.Request) {
	const route = "/api/v1/view"
	ctx, span := tracer.Start(r.Context(), "TaskHandler.GetView")
	defer span.End()
	start := time.Now()

	h.ok(ctx, w, r, route, start, http.StatusOK, h.store.View())
}

// PutView replaces the store's view state. Omitted fields take their reset
// values.
func (h *TaskHandler) PutView(w http.ResponseWriter, r *http.Request) {
	const route = "/api/v1/view"
	ctx, span := tracer.Start(r.Context(), "TaskHandler.PutView")
	defer span.End()
	start := time.Now()

	q := model.DefaultQuery()
	if err := json.NewDecoder(r.Body).Decode(&q); err != nil {
		h.logger.WarnContext(ctx, "invalid request body", slog.Any("error", err))
		h.fail(ctx, w, r, route, start, http.StatusBadRequest, "invalid request body")
		return
	}

	h.store.SetView(q)
	h.logger.InfoContext(ctx, "view updated",
		slog.String("filter", string(q.Filter)),
		slog.String("sort", string(q.Sort)),
	)
	h.ok(ctx, w, r, route, start, http.StatusOK, h.store.View())
}

// ResetView restores the default view state.
func (h *TaskHandler) ResetView(w http.ResponseWriter, r *http.Request) {
	const route = "/api/v1/view"
	ctx, span := tracer.Start(r.Context(), "TaskHandler.ResetView")
	defer span.End()
	start := time.Now()

	h.store.ResetFilters()
	h.ok(ctx, w, r, route, start, http.StatusOK, h.store.View())
}

// APIRoutes returns the /api/v1 subtree.
func (h *TaskHandler) APIRoutes() chi.Router {
	r := chi.NewRouter()

	r.Mount("/tasks", h.Routes())
	r.Get("/stats", h.Stats)
	r.Get("/schedule", h.Schedule)
	r.Get("/view", h.GetView)
	r.Put("/view", h.PutView)
	r.Delete("/view", h.ResetView)

	return r
}
