package model

import (
	"cmp"
	"slices"
	"strings"
	"time"
)

// Query is the set of view axes applied to a task collection: search text,
// category, status filter and sort order.
type Query struct {
	Search   string     `json:"search"`
	Filter   Filter     `json:"filter"`
	Category *Category  `json:"category"`
	Sort     SortOption `json:"sort"`
}

// DefaultQuery returns the reset view: no search, all tasks, any category,
// newest first.
func DefaultQuery() Query {
	return Query{Filter: FilterAll, Sort: SortByCreatedDate}
}

// Apply runs search, category, status and sort in that order. The input
// slice is left untouched.
func (q Query) Apply(tasks []*Task, now time.Time) []*Task {
	out := make([]*Task, 0, len(tasks))
	needle := strings.ToLower(q.Search)
	for _, t := range tasks {
		if needle != "" && !matchesSearch(t, needle) {
			continue
		}
		if q.Category != nil && t.Category != *q.Category {
			continue
		}
		if !q.matchesFilter(t, now) {
			continue
		}
		out = append(out, t)
	}
	slices.SortStableFunc(out, q.compare())
	return out
}

func matchesSearch(t *Task, needle string) bool {
	return strings.Contains(strings.ToLower(t.Title), needle) ||
		strings.Contains(strings.ToLower(t.Description), needle)
}

func (q Query) matchesFilter(t *Task, now time.Time) bool {
	switch q.Filter {
	case FilterPending:
		return !t.IsCompleted
	case FilterCompleted:
		return t.IsCompleted
	case FilterOverdue:
		return t.IsOverdueAt(now)
	case FilterDueSoon:
		return t.IsDueSoonAt(now)
	default:
		return true
	}
}

func (q Query) compare() func(a, b *Task) int {
	switch q.Sort {
	case SortByDueDate:
		return compareDueDate
	case SortByPriority:
		return func(a, b *Task) int {
			return cmp.Compare(b.Priority.Rank(), a.Priority.Rank())
		}
	case SortByTitle:
		return func(a, b *Task) int {
			return strings.Compare(a.Title, b.Title)
		}
	default:
		return newestFirst
	}
}

func newestFirst(a, b *Task) int {
	return b.CreatedAt.Compare(a.CreatedAt)
}

// compareDueDate orders by due date ascending; undated tasks go last, newest
// first among themselves.
func compareDueDate(a, b *Task) int {
	switch {
	case a.DueDate == nil && b.DueDate == nil:
		return newestFirst(a, b)
	case a.DueDate == nil:
		return 1
	case b.DueDate == nil:
		return -1
	default:
		return a.DueDate.Compare(*b.DueDate)
	}
}
