package store

import (
	"time"

	"github.com/hiroki-koketsu/taskcore/internal/model"
)

// SampleTasks returns a small demo collection relative to now: one task
// overdue, two due soon, one undated and completed.
func SampleTasks(now time.Time) []*model.Task {
	study := model.NewTaskAt(now, "Study Go generics",
		model.WithDescription("Finish the type parameters tutorial"),
		model.WithCategory(model.CategoryEducation),
	)
	study.CompleteAt(now)

	return []*model.Task{
		model.NewTaskAt(now, "Review pending PRs",
			model.WithDescription("Review the team's open pull requests"),
			model.WithPriority(model.PriorityHigh),
			model.WithCategory(model.CategoryWork),
			model.WithDueDate(now.AddDate(0, 0, 1)),
		),
		model.NewTaskAt(now, "Buy groceries for dinner",
			model.WithDescription("Stop by the supermarket"),
			model.WithCategory(model.CategoryShopping),
			model.WithDueDate(now.Add(3*time.Hour)),
		),
		model.NewTaskAt(now, "Morning workout",
			model.WithDescription("30 minutes of cardio"),
			model.WithPriority(model.PriorityLow),
			model.WithCategory(model.CategoryHealth),
			model.WithDueDate(now.AddDate(0, 0, -1)),
		),
		study,
		model.NewTaskAt(now, "Call mom",
			model.WithPriority(model.PriorityHigh),
			model.WithCategory(model.CategoryPersonal),
			model.WithDueDate(now.AddDate(0, 0, 2)),
		),
	}
}
