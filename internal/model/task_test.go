package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)

func TestNewTask_Defaults(t *testing.T) {
	task := NewTaskAt(baseTime, "Write report")

	assert.NotEmpty(t, task.ID)
	assert.Equal(t, "Write report", task.Title)
	assert.Equal(t, "", task.Description)
	assert.False(t, task.IsCompleted)
	assert.Equal(t, PriorityMedium, task.Priority)
	assert.Equal(t, CategoryPersonal, task.Category)
	assert.Equal(t, baseTime, task.CreatedAt)
	assert.Nil(t, task.DueDate)
	assert.Nil(t, task.CompletedAt)
}

func TestNewTask_Options(t *testing.T) {
	due := baseTime.Add(48 * time.Hour)
	task := NewTaskAt(baseTime, "",
		WithDescription("quarterly"),
		WithPriority(PriorityHigh),
		WithCategory(CategoryWork),
		WithDueDate(due),
	)

	assert.Equal(t, "", task.Title, "empty title is accepted")
	assert.Equal(t, "quarterly", task.Description)
	assert.Equal(t, PriorityHigh, task.Priority)
	assert.Equal(t, CategoryWork, task.Category)
	require.NotNil(t, task.DueDate)
	assert.True(t, due.Equal(*task.DueDate))
}

func TestNewTask_UniqueIDs(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := NewTask("t").ID
		require.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

func TestTask_CompleteUncomplete(t *testing.T) {
	task := NewTaskAt(baseTime, "Laundry")

	task.CompleteAt(baseTime.Add(time.Hour))
	assert.True(t, task.IsCompleted)
	require.NotNil(t, task.CompletedAt)
	assert.Equal(t, baseTime.Add(time.Hour), *task.CompletedAt)

	// completing again refreshes the timestamp
	task.CompleteAt(baseTime.Add(2 * time.Hour))
	assert.True(t, task.IsCompleted)
	assert.Equal(t, baseTime.Add(2*time.Hour), *task.CompletedAt)

	task.Uncomplete()
	assert.False(t, task.IsCompleted)
	assert.Nil(t, task.CompletedAt)
}

func TestTask_IsOverdueAndDueSoon(t *testing.T) {
	now := baseTime
	tests := []struct {
		name      string
		due       *time.Time
		completed bool
		overdue   bool
		dueSoon   bool
	}{
		{name: "no due date"},
		{name: "one hour past", due: ptr(now.Add(-time.Hour)), overdue: true},
		{name: "one hour ahead", due: ptr(now.Add(time.Hour)), dueSoon: true},
		{name: "exactly two days ahead", due: ptr(now.Add(48 * time.Hour)), dueSoon: true},
		{name: "just over two days ahead", due: ptr(now.Add(48*time.Hour + time.Second))},
		{name: "due exactly now", due: ptr(now)},
		{name: "completed past due", due: ptr(now.Add(-72 * time.Hour)), completed: true},
		{name: "completed due soon", due: ptr(now.Add(time.Hour)), completed: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := NewTaskAt(now.Add(-240*time.Hour), "task")
			task.DueDate = tt.due
			if tt.completed {
				task.CompleteAt(now)
			}

			assert.Equal(t, tt.overdue, task.IsOverdueAt(now), "IsOverdueAt")
			assert.Equal(t, tt.dueSoon, task.IsDueSoonAt(now), "IsDueSoonAt")
			assert.False(t, task.IsOverdueAt(now) && task.IsDueSoonAt(now), "overdue and due soon are exclusive")
		})
	}
}

func TestTask_LiveClock(t *testing.T) {
	task := NewTask("live", WithDueDate(time.Now().Add(-time.Hour)))
	assert.True(t, task.IsOverdue())
	assert.False(t, task.IsDueSoon())

	task.Complete()
	assert.False(t, task.IsOverdue())
	assert.False(t, task.IsDueSoon())
	assert.False(t, task.ShouldEscalate())
}

func TestTask_ShouldEscalate(t *testing.T) {
	now := baseTime
	tests := []struct {
		name     string
		priority Priority
		due      *time.Time
		want     bool
	}{
		{name: "high overdue by an hour", priority: PriorityHigh, due: ptr(now.Add(-time.Hour)), want: true},
		{name: "high not yet due", priority: PriorityHigh, due: ptr(now.Add(time.Hour))},
		{name: "high without due date", priority: PriorityHigh},
		{name: "medium overdue 2 days", priority: PriorityMedium, due: ptr(now.Add(-50 * time.Hour))},
		{name: "medium overdue 3 days", priority: PriorityMedium, due: ptr(now.Add(-72 * time.Hour)), want: true},
		{name: "medium without due date", priority: PriorityMedium},
		{name: "low overdue 7 days", priority: PriorityLow, due: ptr(now.Add(-7*24*time.Hour - time.Hour))},
		{name: "low overdue 8 days", priority: PriorityLow, due: ptr(now.Add(-8 * 24 * time.Hour)), want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := NewTaskAt(now.Add(-30*24*time.Hour), "task", WithPriority(tt.priority))
			task.DueDate = tt.due
			assert.Equal(t, tt.want, task.ShouldEscalateAt(now))
		})
	}

	t.Run("completed never escalates", func(t *testing.T) {
		task := NewTaskAt(now, "done", WithPriority(PriorityHigh), WithDueDate(now.Add(-240*time.Hour)))
		task.CompleteAt(now)
		assert.False(t, task.ShouldEscalateAt(now))
	})
}

func TestTask_Clone(t *testing.T) {
	task := NewTaskAt(baseTime, "orig", WithDueDate(baseTime.Add(time.Hour)))
	task.CompleteAt(baseTime)

	c := task.Clone()
	assert.Equal(t, task, c)

	*c.DueDate = c.DueDate.Add(time.Hour)
	c.Title = "changed"
	assert.Equal(t, baseTime.Add(time.Hour), *task.DueDate)
	assert.Equal(t, "orig", task.Title)
}

func TestTaskPatch_Apply(t *testing.T) {
	due := baseTime.Add(24 * time.Hour)
	task := NewTaskAt(baseTime, "old", WithDescription("keep me"), WithDueDate(due))

	patch := TaskPatch{}.SetTitle("new").SetPriority(PriorityLow)
	require.False(t, patch.IsEmpty())
	patch.Apply(task)

	assert.Equal(t, "new", task.Title)
	assert.Equal(t, "keep me", task.Description)
	assert.Equal(t, PriorityLow, task.Priority)
	assert.Equal(t, CategoryPersonal, task.Category)
	require.NotNil(t, task.DueDate, "an unset due date leaves the existing one")
	assert.Equal(t, due, *task.DueDate)

	assert.True(t, TaskPatch{}.IsEmpty())
}

func TestParseEnums(t *testing.T) {
	p, err := ParsePriority("high")
	require.NoError(t, err)
	assert.Equal(t, PriorityHigh, p)
	assert.Equal(t, 3, p.Rank())

	_, err = ParsePriority("urgent")
	assert.ErrorIs(t, err, ErrInvalidValue)

	c, err := ParseCategory("education")
	require.NoError(t, err)
	assert.Equal(t, CategoryEducation, c)

	_, err = ParseCategory("hobby")
	assert.ErrorIs(t, err, ErrInvalidValue)

	f, err := ParseFilter("dueSoon")
	require.NoError(t, err)
	assert.Equal(t, FilterDueSoon, f)

	_, err = ParseSortOption("random")
	assert.ErrorIs(t, err, ErrInvalidValue)

	assert.Len(t, Categories(), 5)
	assert.Len(t, Priorities(), 3)
}

func ptr(t time.Time) *time.Time {
	return &t
}
