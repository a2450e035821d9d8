package model

import "time"

// CreateTaskRequest represents the request body for creating a task.
// Zero-valued priority and category fall back to the task defaults.
type CreateTaskRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Priority    Priority   `json:"priority,omitempty"`
	Category    Category   `json:"category,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
}

// Options converts the request into construction options.
func (r *CreateTaskRequest) Options() []TaskOption {
	opts := []TaskOption{WithDescription(r.Description)}
	if r.Priority != "" {
		opts = append(opts, WithPriority(r.Priority))
	}
	if r.Category != "" {
		opts = append(opts, WithCategory(r.Category))
	}
	if r.DueDate != nil {
		opts = append(opts, WithDueDate(*r.DueDate))
	}
	return opts
}

// BulkDeleteRequest represents positions in the current view to delete.
type BulkDeleteRequest struct {
	Positions []int `json:"positions"`
}

// Validate checks if the BulkDeleteRequest is valid.
func (r *BulkDeleteRequest) Validate() error {
	if len(r.Positions) == 0 {
		return ErrPositionsRequired
	}
	return nil
}
