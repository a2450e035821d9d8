package model

import "fmt"

// Priority ranks how important a task is.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Priorities returns every priority, lowest first.
func Priorities() []Priority {
	return []Priority{PriorityLow, PriorityMedium, PriorityHigh}
}

// Rank orders priorities: high=3, medium=2, low=1.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

// ParsePriority validates a wire value.
func ParsePriority(s string) (Priority, error) {
	switch p := Priority(s); p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return p, nil
	}
	return "", fmt.Errorf("%w: priority %q", ErrInvalidValue, s)
}

func (p *Priority) UnmarshalText(text []byte) error {
	v, err := ParsePriority(string(text))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// Category groups tasks by life area.
type Category string

const (
	CategoryWork      Category = "work"
	CategoryPersonal  Category = "personal"
	CategoryHealth    Category = "health"
	CategoryShopping  Category = "shopping"
	CategoryEducation Category = "education"
)

// Categories returns every category in declaration order.
func Categories() []Category {
	return []Category{CategoryWork, CategoryPersonal, CategoryHealth, CategoryShopping, CategoryEducation}
}

// ParseCategory validates a wire value.
func ParseCategory(s string) (Category, error) {
	switch c := Category(s); c {
	case CategoryWork, CategoryPersonal, CategoryHealth, CategoryShopping, CategoryEducation:
		return c, nil
	}
	return "", fmt.Errorf("%w: category %q", ErrInvalidValue, s)
}

func (c *Category) UnmarshalText(text []byte) error {
	v, err := ParseCategory(string(text))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// Filter selects tasks by completion or due state.
type Filter string

const (
	FilterAll       Filter = "all"
	FilterPending   Filter = "pending"
	FilterCompleted Filter = "completed"
	FilterOverdue   Filter = "overdue"
	FilterDueSoon   Filter = "dueSoon"
)

// ParseFilter validates a filter name.
func ParseFilter(s string) (Filter, error) {
	switch f := Filter(s); f {
	case FilterAll, FilterPending, FilterCompleted, FilterOverdue, FilterDueSoon:
		return f, nil
	}
	return "", fmt.Errorf("%w: filter %q", ErrInvalidValue, s)
}

func (f *Filter) UnmarshalText(text []byte) error {
	v, err := ParseFilter(string(text))
	if err != nil {
		return err
	}
	*f = v
	return nil
}

// SortOption orders the filtered view.
type SortOption string

const (
	SortByCreatedDate SortOption = "createdDate"
	SortByDueDate     SortOption = "dueDate"
	SortByPriority    SortOption = "priority"
	SortByTitle       SortOption = "title"
)

// ParseSortOption validates a sort option name.
func ParseSortOption(s string) (SortOption, error) {
	switch o := SortOption(s); o {
	case SortByCreatedDate, SortByDueDate, SortByPriority, SortByTitle:
		return o, nil
	}
	return "", fmt.Errorf("%w: sort option %q", ErrInvalidValue, s)
}

func (o *SortOption) UnmarshalText(text []byte) error {
	v, err := ParseSortOption(string(text))
	if err != nil {
		return err
	}
	*o = v
	return nil
}
