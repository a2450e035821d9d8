package model

import (
	"encoding/json"
	"fmt"
)

// EncodeTasks serializes an ordered collection.
func EncodeTasks(tasks []*Task) ([]byte, error) {
	if tasks == nil {
		tasks = []*Task{}
	}
	data, err := json.Marshal(tasks)
	if err != nil {
		return nil, fmt.Errorf("failed to encode tasks: %w", err)
	}
	return data, nil
}

// DecodeTasks parses a collection written by EncodeTasks. Entries that fail
// ValidateTasks reject the whole collection.
func DecodeTasks(data []byte) ([]*Task, error) {
	var tasks []*Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, fmt.Errorf("failed to decode tasks: %w", err)
	}
	if err := ValidateTasks(tasks); err != nil {
		return nil, fmt.Errorf("failed to decode tasks: %w", err)
	}
	return tasks, nil
}

// ValidateTasks checks a loaded collection: no null entries, every task has
// an id, a creation time, known enum values and a completion timestamp that
// matches its state, and ids are unique.
func ValidateTasks(tasks []*Task) error {
	seen := make(map[string]struct{}, len(tasks))
	for i, t := range tasks {
		if t == nil {
			return fmt.Errorf("null entry at %d", i)
		}
		if t.ID == "" {
			return fmt.Errorf("entry at %d has no id", i)
		}
		if _, dup := seen[t.ID]; dup {
			return fmt.Errorf("duplicate task id %s", t.ID)
		}
		seen[t.ID] = struct{}{}
		if t.CreatedAt.IsZero() {
			return fmt.Errorf("task %s has no creation time", t.ID)
		}
		if _, err := ParsePriority(string(t.Priority)); err != nil {
			return fmt.Errorf("task %s: %w", t.ID, err)
		}
		if _, err := ParseCategory(string(t.Category)); err != nil {
			return fmt.Errorf("task %s: %w", t.ID, err)
		}
		if t.IsCompleted != (t.CompletedAt != nil) {
			return fmt.Errorf("task %s has inconsistent completion state", t.ID)
		}
	}
	return nil
}
