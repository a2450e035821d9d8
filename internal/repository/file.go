package repository

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/hiroki-koketsu/taskcore/internal/model"
	"go.opentelemetry.io/otel/attribute"
)

// FileRepository stores each key as a JSON document in a directory.
type FileRepository struct {
	path string
	key  string
}

// NewFileRepository creates the directory if needed.
func NewFileRepository(dir, key string) (*FileRepository, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &FileRepository{
		path: filepath.Join(dir, key+".json"),
		key:  key,
	}, nil
}

// Path returns the document location.
func (r *FileRepository) Path() string {
	return r.path
}

// Load reads and decodes the document.
func (r *FileRepository) Load(ctx context.Context) (tasks []*model.Task, err error) {
	_, span := startSpan(ctx, "FileRepository.Load", "file", r.key)
	defer func() { endSpan(span, err) }()

	raw, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNoData
		}
		return nil, fmt.Errorf("failed to read %s: %w", r.path, err)
	}

	tasks, err = decode(raw)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("task.count", len(tasks)))
	return tasks, nil
}

// Save writes the document through a temp file and rename so readers never
// see a partial write.
func (r *FileRepository) Save(ctx context.Context, tasks []*model.Task) (err error) {
	_, span := startSpan(ctx, "FileRepository.Save", "file", r.key)
	defer func() { endSpan(span, err) }()

	raw, err := model.EncodeTasks(tasks)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(r.path), "."+r.key+"-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), r.path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", r.path, err)
	}

	span.SetAttributes(attribute.Int("task.count", len(tasks)))
	return nil
}

// Close is a no-op.
func (r *FileRepository) Close() error {
	return nil
}
