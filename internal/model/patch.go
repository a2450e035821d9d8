package model

import "time"

// TaskPatch carries a partial update. A nil field leaves the task's value
// unchanged. DueDate can be replaced but not cleared.
type TaskPatch struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Priority    *Priority  `json:"priority,omitempty"`
	Category    *Category  `json:"category,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
}

// IsEmpty reports whether the patch sets no field.
func (p TaskPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Priority == nil &&
		p.Category == nil && p.DueDate == nil
}

// Apply overwrites the fields the patch sets.
func (p TaskPatch) Apply(t *Task) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.Category != nil {
		t.Category = *p.Category
	}
	if p.DueDate != nil {
		t.DueDate = utcPtr(*p.DueDate)
	}
}

// SetTitle returns a copy of the patch with Title set.
func (p TaskPatch) SetTitle(title string) TaskPatch {
	p.Title = &title
	return p
}

// SetDescription returns a copy of the patch with Description set.
func (p TaskPatch) SetDescription(description string) TaskPatch {
	p.Description = &description
	return p
}

// SetPriority returns a copy of the patch with Priority set.
func (p TaskPatch) SetPriority(priority Priority) TaskPatch {
	p.Priority = &priority
	return p
}

// SetCategory returns a copy of the patch with Category set.
func (p TaskPatch) SetCategory(category Category) TaskPatch {
	p.Category = &category
	return p
}

// SetDueDate returns a copy of the patch with DueDate set.
func (p TaskPatch) SetDueDate(due time.Time) TaskPatch {
	p.DueDate = &due
	return p
}
