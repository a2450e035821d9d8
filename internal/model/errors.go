package model

// TaskError represents a domain error for tasks.
type TaskError struct {
	Message string
}

func (e TaskError) Error() string {
	return e.Message
}

var (
	ErrTaskNotFound      = TaskError{Message: "task not found"}
	ErrInvalidValue      = TaskError{Message: "invalid value"}
	ErrPositionsRequired = TaskError{Message: "positions are required"}
)
