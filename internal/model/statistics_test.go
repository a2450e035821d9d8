package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestComputeStatistics(t *testing.T) {
	now := baseTime
	s := ComputeStatistics(fixture(now), now)

	assert.Equal(t, 4, s.TotalTasks)
	assert.Equal(t, 1, s.CompletedTasks)
	assert.Equal(t, 3, s.PendingTasks)
	assert.Equal(t, 1, s.OverdueTasks)
	assert.Equal(t, 1, s.DueSoonTasks)
	assert.InDelta(t, 0.25, s.CompletionRate, 1e-9)
	assert.Equal(t, 25, s.CompletionPercentage)

	assert.Equal(t, map[Category]int{
		CategoryShopping:  1,
		CategoryWork:      1,
		CategoryHealth:    1,
		CategoryEducation: 1,
	}, s.TasksByCategory, "personal has no tasks and is omitted")
	assert.Equal(t, map[Priority]int{PriorityLow: 1, PriorityHigh: 1, PriorityMedium: 2}, s.TasksByPriority)

	var byCategory, byPriority int
	for _, n := range s.TasksByCategory {
		byCategory += n
	}
	for _, n := range s.TasksByPriority {
		byPriority += n
	}
	assert.Equal(t, s.TotalTasks, byCategory)
	assert.Equal(t, s.TotalTasks, byPriority)
}

func TestComputeStatistics_Empty(t *testing.T) {
	s := ComputeStatistics(nil, baseTime)

	assert.Zero(t, s.TotalTasks)
	assert.Zero(t, s.CompletionRate)
	assert.Zero(t, s.CompletionPercentage)
	assert.Empty(t, s.TasksByCategory)
	assert.Empty(t, s.TasksByPriority)
}

func TestComputeStatistics_PercentageIsFloored(t *testing.T) {
	now := baseTime
	tasks := []*Task{NewTaskAt(now, "a"), NewTaskAt(now, "b"), NewTaskAt(now, "c")}
	tasks[0].CompleteAt(now)
	tasks[1].CompleteAt(now)

	s := ComputeStatistics(tasks, now)
	assert.Equal(t, 66, s.CompletionPercentage)
}

func TestProductivityScore(t *testing.T) {
	now := baseTime

	t.Run("empty", func(t *testing.T) {
		assert.Zero(t, ProductivityScore(nil, now))
	})

	t.Run("all completed", func(t *testing.T) {
		tasks := []*Task{NewTaskAt(now, "a"), NewTaskAt(now, "b")}
		for _, task := range tasks {
			task.CompleteAt(now)
		}
		assert.InDelta(t, 0.7, ProductivityScore(tasks, now), 1e-9)
	})

	t.Run("mixed", func(t *testing.T) {
		// 1/4 completed, 1/4 overdue: 0.175 - 0.075
		assert.InDelta(t, 0.1, ProductivityScore(fixture(now), now), 1e-9)
	})

	t.Run("clamped at zero", func(t *testing.T) {
		tasks := []*Task{NewTaskAt(now, "late", WithDueDate(now.Add(-time.Hour)))}
		assert.Zero(t, ProductivityScore(tasks, now))
	})
}

func TestSuggestSchedule(t *testing.T) {
	now := baseTime
	lowUndated := NewTaskAt(now, "low undated", WithPriority(PriorityLow))
	highUndated := NewTaskAt(now, "high undated", WithPriority(PriorityHigh))
	mediumTomorrow := NewTaskAt(now, "medium tomorrow", WithDueDate(now.Add(24*time.Hour)))
	lowOverdue := NewTaskAt(now, "low overdue", WithPriority(PriorityLow), WithDueDate(now.Add(-48*time.Hour)))
	highNextMonth := NewTaskAt(now, "high next month", WithPriority(PriorityHigh), WithDueDate(now.Add(30*24*time.Hour)))
	done := NewTaskAt(now, "done", WithPriority(PriorityHigh), WithDueDate(now))
	done.CompleteAt(now)

	tasks := []*Task{lowUndated, highUndated, mediumTomorrow, lowOverdue, highNextMonth, done}

	// scores: medium tomorrow 19, low overdue 12, high next month 0, undated -Inf
	got := SuggestSchedule(tasks, now)
	assert.Equal(t, []string{
		mediumTomorrow.ID,
		lowOverdue.ID,
		highNextMonth.ID,
		lowUndated.ID,
		highUndated.ID,
	}, got)
}
