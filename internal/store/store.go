// Package store owns the task collection. It applies mutations, saves after
// each one, and derives the filtered view and statistics from live state.
//
// A Store is safe for concurrent use: one lock guards the collection and the
// view state so every read sees a consistent snapshot.
package store

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/hiroki-koketsu/taskcore/internal/model"
	"github.com/hiroki-koketsu/taskcore/internal/repository"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("github.com/hiroki-koketsu/taskcore/internal/store")

// Persister loads and saves the whole collection. Load returns
// repository.ErrNoData when nothing has been saved yet.
type Persister interface {
	Load(ctx context.Context) ([]*model.Task, error)
	Save(ctx context.Context, tasks []*model.Task) error
}

// Store manages tasks and the current view over them.
type Store struct {
	mu        sync.RWMutex
	tasks     []*model.Task
	view      model.Query
	persister Persister
	logger    *slog.Logger
	now       func() time.Time

	seed       func(now time.Time) []*model.Task
	seedOnLoad bool

	obsMu     sync.Mutex
	observers map[int]Observer
	nextObs   int
}

// Option configures a Store.
type Option func(*Store)

// WithClock replaces time.Now for every temporal computation.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithSampleData controls whether an empty or unreadable backend is
// populated with sample tasks. Enabled by default.
func WithSampleData(enabled bool) Option {
	return func(s *Store) { s.seedOnLoad = enabled }
}

// WithSeed replaces the sample data generator.
func WithSeed(seed func(now time.Time) []*model.Task) Option {
	return func(s *Store) { s.seed = seed }
}

// New creates a Store and loads the saved collection. If nothing usable is
// saved, the store starts from sample data (or empty when disabled).
func New(ctx context.Context, persister Persister, logger *slog.Logger, opts ...Option) *Store {
	s := &Store{
		view:       model.DefaultQuery(),
		persister:  persister,
		logger:     logger,
		now:        time.Now,
		seed:       SampleTasks,
		seedOnLoad: true,
		observers:  make(map[int]Observer),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.load(ctx)
	return s
}

func (s *Store) load(ctx context.Context) {
	ctx, span := tracer.Start(ctx, "Store.load")
	defer span.End()

	s.mu.Lock()
	tasks, err := s.persister.Load(ctx)
	switch {
	case errors.Is(err, repository.ErrNoData):
		s.logger.InfoContext(ctx, "no saved tasks")
	case err != nil:
		s.logger.WarnContext(ctx, "failed to load tasks, starting fresh", slog.Any("error", err))
	case len(tasks) == 0:
		s.logger.InfoContext(ctx, "no saved tasks")
	default:
		s.tasks = tasks
	}

	seeded := false
	if len(s.tasks) == 0 && s.seedOnLoad {
		s.tasks = s.seed(s.now())
		seeded = true
		s.saveLocked(ctx)
	}
	count := len(s.tasks)
	s.mu.Unlock()

	span.SetAttributes(attribute.Int("task.count", count), attribute.Bool("store.seeded", seeded))
	s.logger.InfoContext(ctx, "tasks loaded", slog.Int("count", count), slog.Bool("seeded", seeded))
	s.notify(Event{Type: EventLoaded})
}

// saveLocked persists the collection. Failures are logged and never undo
// the in-memory change. Callers hold s.mu.
func (s *Store) saveLocked(ctx context.Context) {
	if err := s.persister.Save(ctx, s.tasks); err != nil {
		trace.SpanFromContext(ctx).RecordError(err)
		s.logger.WarnContext(ctx, "failed to save tasks", slog.Any("error", err), slog.Int("count", len(s.tasks)))
	}
}

// Now returns the current time from the store's clock.
func (s *Store) Now() time.Time {
	return s.now()
}

func (s *Store) indexOf(id string) int {
	return slices.IndexFunc(s.tasks, func(t *model.Task) bool { return t.ID == id })
}

// AddTask appends a new task and returns a copy of it.
func (s *Store) AddTask(ctx context.Context, title string, opts ...model.TaskOption) *model.Task {
	ctx, span := tracer.Start(ctx, "Store.AddTask",
		trace.WithAttributes(attribute.String("task.title", title)),
	)
	defer span.End()

	s.mu.Lock()
	task := model.NewTaskAt(s.now(), title, opts...)
	s.tasks = append(s.tasks, task)
	s.saveLocked(ctx)
	out := task.Clone()
	s.mu.Unlock()

	span.SetAttributes(attribute.String("task.id", out.ID))
	s.logger.InfoContext(ctx, "task added", slog.String("id", out.ID))
	s.notify(Event{Type: EventAdded, TaskIDs: []string{out.ID}})
	return out
}

// UpdateTask applies patch to the task with id. A missing id is a no-op and
// reports false.
func (s *Store) UpdateTask(ctx context.Context, id string, patch model.TaskPatch) (*model.Task, bool) {
	ctx, span := tracer.Start(ctx, "Store.UpdateTask",
		trace.WithAttributes(attribute.String("task.id", id)),
	)
	defer span.End()

	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		span.SetAttributes(attribute.Bool("task.found", false))
		return nil, false
	}
	patch.Apply(s.tasks[i])
	s.saveLocked(ctx)
	out := s.tasks[i].Clone()
	s.mu.Unlock()

	span.SetAttributes(attribute.Bool("task.found", true))
	s.notify(Event{Type: EventUpdated, TaskIDs: []string{id}})
	return out, true
}

// ToggleTask flips the completion state of the task with id. A missing id is
// a no-op and reports false.
func (s *Store) ToggleTask(ctx context.Context, id string) (*model.Task, bool) {
	ctx, span := tracer.Start(ctx, "Store.ToggleTask",
		trace.WithAttributes(attribute.String("task.id", id)),
	)
	defer span.End()

	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		span.SetAttributes(attribute.Bool("task.found", false))
		return nil, false
	}
	t := s.tasks[i]
	if t.IsCompleted {
		t.Uncomplete()
	} else {
		t.CompleteAt(s.now())
	}
	s.saveLocked(ctx)
	out := t.Clone()
	s.mu.Unlock()

	span.SetAttributes(attribute.Bool("task.found", true), attribute.Bool("task.completed", out.IsCompleted))
	s.notify(Event{Type: EventToggled, TaskIDs: []string{id}})
	return out, true
}

// DeleteTask removes the task with id. A missing id is a no-op and reports
// false.
func (s *Store) DeleteTask(ctx context.Context, id string) bool {
	ctx, span := tracer.Start(ctx, "Store.DeleteTask",
		trace.WithAttributes(attribute.String("task.id", id)),
	)
	defer span.End()

	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		span.SetAttributes(attribute.Bool("task.found", false))
		return false
	}
	s.tasks = slices.Delete(s.tasks, i, i+1)
	s.saveLocked(ctx)
	s.mu.Unlock()

	span.SetAttributes(attribute.Bool("task.found", true))
	s.notify(Event{Type: EventDeleted, TaskIDs: []string{id}})
	return true
}

// DeleteTasksAt deletes the tasks at positions of the current filtered view.
// Positions are resolved to ids before anything is removed; positions out of
// range are ignored. It returns the number of tasks deleted.
func (s *Store) DeleteTasksAt(ctx context.Context, positions []int) int {
	ctx, span := tracer.Start(ctx, "Store.DeleteTasksAt",
		trace.WithAttributes(attribute.IntSlice("view.positions", positions)),
	)
	defer span.End()

	s.mu.Lock()
	view := s.view.Apply(s.tasks, s.now())
	doomed := make(map[string]bool, len(positions))
	for _, p := range positions {
		if p >= 0 && p < len(view) {
			doomed[view[p].ID] = true
		}
	}
	ids := s.removeLocked(func(t *model.Task) bool { return doomed[t.ID] })
	if len(ids) > 0 {
		s.saveLocked(ctx)
	}
	s.mu.Unlock()

	span.SetAttributes(attribute.Int("task.deleted", len(ids)))
	if len(ids) > 0 {
		s.notify(Event{Type: EventDeleted, TaskIDs: ids})
	}
	return len(ids)
}

// ClearCompletedTasks removes every completed task and returns how many
// were removed.
func (s *Store) ClearCompletedTasks(ctx context.Context) int {
	ctx, span := tracer.Start(ctx, "Store.ClearCompletedTasks")
	defer span.End()

	s.mu.Lock()
	ids := s.removeLocked(func(t *model.Task) bool { return t.IsCompleted })
	s.saveLocked(ctx)
	s.mu.Unlock()

	span.SetAttributes(attribute.Int("task.deleted", len(ids)))
	s.logger.InfoContext(ctx, "completed tasks cleared", slog.Int("count", len(ids)))
	s.notify(Event{Type: EventCleared, TaskIDs: ids})
	return len(ids)
}

// ArchiveCompletedTasks removes completed tasks whose completion is older
// than olderThanDays days and returns how many were removed.
func (s *Store) ArchiveCompletedTasks(ctx context.Context, olderThanDays int) int {
	ctx, span := tracer.Start(ctx, "Store.ArchiveCompletedTasks",
		trace.WithAttributes(attribute.Int("archive.older_than_days", olderThanDays)),
	)
	defer span.End()

	s.mu.Lock()
	cutoff := s.now().AddDate(0, 0, -olderThanDays)
	ids := s.removeLocked(func(t *model.Task) bool {
		return t.IsCompleted && t.CompletedAt != nil && t.CompletedAt.Before(cutoff)
	})
	s.saveLocked(ctx)
	s.mu.Unlock()

	span.SetAttributes(attribute.Int("task.archived", len(ids)))
	s.logger.InfoContext(ctx, "completed tasks archived",
		slog.Int("count", len(ids)),
		slog.Int("older_than_days", olderThanDays),
	)
	s.notify(Event{Type: EventArchived, TaskIDs: ids})
	return len(ids)
}

// removeLocked drops matching tasks, keeping order, and returns their ids.
func (s *Store) removeLocked(match func(*model.Task) bool) []string {
	var ids []string
	kept := s.tasks[:0]
	for _, t := range s.tasks {
		if match(t) {
			ids = append(ids, t.ID)
			continue
		}
		kept = append(kept, t)
	}
	clear(s.tasks[len(kept):])
	s.tasks = kept
	return ids
}

// Tasks returns the collection in insertion order.
func (s *Store) Tasks() []*model.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneAll(s.tasks)
}

// Get returns the task with id.
func (s *Store) Get(id string) (*model.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.indexOf(id)
	if i < 0 {
		return nil, false
	}
	return s.tasks[i].Clone(), true
}

// Count returns the current number of tasks.
func (s *Store) Count() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.tasks))
}

// CompletionRate returns completed/total, or 0 for an empty collection.
func (s *Store) CompletionRate() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.tasks) == 0 {
		return 0
	}
	completed := 0
	for _, t := range s.tasks {
		if t.IsCompleted {
			completed++
		}
	}
	return float64(completed) / float64(len(s.tasks))
}

// FilteredTasks applies the current view to the collection.
func (s *Store) FilteredTasks() []*model.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneAll(s.view.Apply(s.tasks, s.now()))
}

// Query applies q to the collection without touching the current view.
func (s *Store) Query(q model.Query) []*model.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneAll(q.Apply(s.tasks, s.now()))
}

// Statistics aggregates over the whole collection, ignoring the view.
func (s *Store) Statistics() model.TaskStatistics {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return model.ComputeStatistics(s.tasks, s.now())
}

// ProductivityScore scores the collection in [0, 1].
func (s *Store) ProductivityScore() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return model.ProductivityScore(s.tasks, s.now())
}

// SuggestTaskSchedule returns pending task ids, most urgent first.
func (s *Store) SuggestTaskSchedule() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return model.SuggestSchedule(s.tasks, s.now())
}

// EscalatedTasks returns the tasks that should be escalated now, in
// collection order.
func (s *Store) EscalatedTasks() []*model.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	now := s.now()
	var out []*model.Task
	for _, t := range s.tasks {
		if t.ShouldEscalateAt(now) {
			out = append(out, t.Clone())
		}
	}
	return out
}

func cloneAll(tasks []*model.Task) []*model.Task {
	out := make([]*model.Task, len(tasks))
	for i, t := range tasks {
		out[i] = t.Clone()
	}
	return out
}
