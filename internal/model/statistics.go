package model

import (
	"cmp"
	"math"
	"slices"
	"time"
)

// TaskStatistics is a snapshot of aggregate counts over a collection.
type TaskStatistics struct {
	TotalTasks           int              `json:"totalTasks"`
	CompletedTasks       int              `json:"completedTasks"`
	PendingTasks         int              `json:"pendingTasks"`
	OverdueTasks         int              `json:"overdueTasks"`
	DueSoonTasks         int              `json:"dueSoonTasks"`
	CompletionRate       float64          `json:"completionRate"`
	CompletionPercentage int              `json:"completionPercentage"`
	TasksByCategory      map[Category]int `json:"tasksByCategory"`
	TasksByPriority      map[Priority]int `json:"tasksByPriority"`
}

// ComputeStatistics aggregates tasks at now. Categories and priorities with
// no tasks are absent from the maps.
func ComputeStatistics(tasks []*Task, now time.Time) TaskStatistics {
	s := TaskStatistics{
		TotalTasks:      len(tasks),
		TasksByCategory: make(map[Category]int),
		TasksByPriority: make(map[Priority]int),
	}
	for _, t := range tasks {
		if t.IsCompleted {
			s.CompletedTasks++
		}
		if t.IsOverdueAt(now) {
			s.OverdueTasks++
		}
		if t.IsDueSoonAt(now) {
			s.DueSoonTasks++
		}
		s.TasksByCategory[t.Category]++
		s.TasksByPriority[t.Priority]++
	}
	s.PendingTasks = s.TotalTasks - s.CompletedTasks
	if s.TotalTasks > 0 {
		s.CompletionRate = float64(s.CompletedTasks) / float64(s.TotalTasks)
	}
	s.CompletionPercentage = int(math.Floor(s.CompletionRate * 100))
	return s
}

// ProductivityScore blends completion and overdue rates into [0, 1]:
// 0.7*completionRate - 0.3*overdueRate. An empty collection scores 0.
func ProductivityScore(tasks []*Task, now time.Time) float64 {
	if len(tasks) == 0 {
		return 0
	}
	var completed, overdue int
	for _, t := range tasks {
		if t.IsCompleted {
			completed++
		}
		if t.IsOverdueAt(now) {
			overdue++
		}
	}
	total := float64(len(tasks))
	score := float64(completed)/total*0.7 - float64(overdue)/total*0.3
	return min(1, max(0, score))
}

// SuggestSchedule orders pending tasks by priority rank*10 minus days until
// due and returns their ids. Undated tasks score -Inf.
func SuggestSchedule(tasks []*Task, now time.Time) []string {
	type scored struct {
		id    string
		score float64
	}
	pending := make([]scored, 0, len(tasks))
	for _, t := range tasks {
		if t.IsCompleted {
			continue
		}
		untilDue := math.Inf(1)
		if t.DueDate != nil {
			untilDue = t.DueDate.Sub(now).Seconds()
		}
		pending = append(pending, scored{
			id:    t.ID,
			score: float64(t.Priority.Rank()*10) - untilDue/86400,
		})
	}
	slices.SortStableFunc(pending, func(a, b scored) int {
		return cmp.Compare(b.score, a.score)
	})
	ids := make([]string, len(pending))
	for i, p := range pending {
		ids[i] = p.id
	}
	return ids
}
