package model

import (
	"time"

	"github.com/google/uuid"
)

// dueSoonWindow is how far ahead of now a due date counts as "due soon".
const dueSoonWindow = 2 * 24 * time.Hour

// Task represents a todo item in the system.
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	IsCompleted bool       `json:"isCompleted"`
	Priority    Priority   `json:"priority"`
	Category    Category   `json:"category"`
	CreatedAt   time.Time  `json:"createdAt"`
	DueDate     *time.Time `json:"dueDate"`
	CompletedAt *time.Time `json:"completedAt"`
}

// TaskOption customizes a task at construction.
type TaskOption func(*Task)

// WithDescription sets the task description.
func WithDescription(description string) TaskOption {
	return func(t *Task) { t.Description = description }
}

// WithPriority sets the task priority.
func WithPriority(p Priority) TaskOption {
	return func(t *Task) { t.Priority = p }
}

// WithCategory sets the task category.
func WithCategory(c Category) TaskOption {
	return func(t *Task) { t.Category = c }
}

// WithDueDate sets the task due date.
func WithDueDate(due time.Time) TaskOption {
	return func(t *Task) { t.DueDate = utcPtr(due) }
}

// NewTask creates a pending task stamped with the current time.
func NewTask(title string, opts ...TaskOption) *Task {
	return NewTaskAt(time.Now(), title, opts...)
}

// NewTaskAt creates a pending task stamped with now.
// An empty title is accepted.
func NewTaskAt(now time.Time, title string, opts ...TaskOption) *Task {
	t := &Task{
		ID:        uuid.New().String(),
		Title:     title,
		Priority:  PriorityMedium,
		Category:  CategoryPersonal,
		CreatedAt: now.UTC(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Complete marks the task completed now.
func (t *Task) Complete() {
	t.CompleteAt(time.Now())
}

// CompleteAt marks the task completed at now. Calling it again refreshes
// CompletedAt.
func (t *Task) CompleteAt(now time.Time) {
	t.IsCompleted = true
	t.CompletedAt = utcPtr(now)
}

// Uncomplete returns the task to pending.
func (t *Task) Uncomplete() {
	t.IsCompleted = false
	t.CompletedAt = nil
}

// IsOverdue reports whether the task is past due and still pending.
func (t *Task) IsOverdue() bool {
	return t.IsOverdueAt(time.Now())
}

// IsOverdueAt reports whether the task is past due at now.
func (t *Task) IsOverdueAt(now time.Time) bool {
	if t.DueDate == nil || t.IsCompleted {
		return false
	}
	return now.After(*t.DueDate)
}

// IsDueSoon reports whether the task falls due within the next two days.
func (t *Task) IsDueSoon() bool {
	return t.IsDueSoonAt(time.Now())
}

// IsDueSoonAt reports whether the task is due in (now, now+2d].
func (t *Task) IsDueSoonAt(now time.Time) bool {
	if t.DueDate == nil || t.IsCompleted {
		return false
	}
	due := *t.DueDate
	return due.After(now) && !due.After(now.Add(dueSoonWindow))
}

// ShouldEscalate reports whether an overdue task needs attention, given
// its priority.
func (t *Task) ShouldEscalate() bool {
	return t.ShouldEscalateAt(time.Now())
}

// ShouldEscalateAt evaluates escalation at now. High priority escalates as
// soon as it is overdue, medium after more than 2 whole days, low after more
// than 7.
func (t *Task) ShouldEscalateAt(now time.Time) bool {
	if !t.IsOverdueAt(now) {
		return false
	}
	switch t.Priority {
	case PriorityHigh:
		return true
	case PriorityMedium:
		return daysOverdue(*t.DueDate, now) > 2
	case PriorityLow:
		return daysOverdue(*t.DueDate, now) > 7
	default:
		return false
	}
}

// Clone returns a deep copy of the task.
func (t *Task) Clone() *Task {
	c := *t
	if t.DueDate != nil {
		d := *t.DueDate
		c.DueDate = &d
	}
	if t.CompletedAt != nil {
		d := *t.CompletedAt
		c.CompletedAt = &d
	}
	return &c
}

// daysOverdue counts whole elapsed days between due and now.
func daysOverdue(due, now time.Time) int {
	return int(now.Sub(due) / (24 * time.Hour))
}

func utcPtr(t time.Time) *time.Time {
	u := t.UTC()
	return &u
}
