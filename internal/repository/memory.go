package repository

import (
	"context"
	"sync"

	"github.com/hiroki-koketsu/taskcore/internal/model"
	"go.opentelemetry.io/otel/attribute"
)

// MemoryRepository keeps encoded collections in process memory, one per
// storage key. Snapshots are encoded so callers never share task pointers
// with the repository.
type MemoryRepository struct {
	mu   sync.RWMutex
	key  string
	data map[string][]byte
}

// NewMemoryRepository creates a new MemoryRepository.
func NewMemoryRepository(key string) *MemoryRepository {
	return &MemoryRepository{
		key:  key,
		data: make(map[string][]byte),
	}
}

// Load returns the collection saved under the repository's key.
func (r *MemoryRepository) Load(ctx context.Context) (tasks []*model.Task, err error) {
	_, span := startSpan(ctx, "MemoryRepository.Load", "memory", r.key)
	defer func() { endSpan(span, err) }()

	r.mu.RLock()
	raw, ok := r.data[r.key]
	r.mu.RUnlock()

	if !ok {
		span.SetAttributes(attribute.Bool("storage.found", false))
		return nil, ErrNoData
	}

	tasks, err = decode(raw)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("task.count", len(tasks)))
	return tasks, nil
}

// Save replaces the collection stored under the repository's key.
func (r *MemoryRepository) Save(ctx context.Context, tasks []*model.Task) (err error) {
	_, span := startSpan(ctx, "MemoryRepository.Save", "memory", r.key)
	defer func() { endSpan(span, err) }()

	raw, err := model.EncodeTasks(tasks)
	if err != nil {
		return err
	}

	r.mu.Lock()
	r.data[r.key] = raw
	r.mu.Unlock()

	span.SetAttributes(attribute.Int("task.count", len(tasks)))
	return nil
}

// Put stores raw bytes under the key, bypassing encoding.
func (r *MemoryRepository) Put(raw []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[r.key] = append([]byte(nil), raw...)
}

// Close is a no-op.
func (r *MemoryRepository) Close() error {
	return nil
}
