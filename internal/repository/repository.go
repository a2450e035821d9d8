// Package repository persists task collections. Every backend stores one
// ordered collection per storage key and is used through Load and Save.
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/hiroki-koketsu/taskcore/internal/config"
	"github.com/hiroki-koketsu/taskcore/internal/model"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("github.com/hiroki-koketsu/taskcore/internal/repository")

var (
	// ErrNoData is returned by Load when nothing has been saved under the key.
	ErrNoData = errors.New("no saved tasks")
	// ErrCorrupt wraps failures to decode saved data.
	ErrCorrupt = errors.New("saved tasks are corrupt")
)

// Repository loads and saves an ordered task collection.
type Repository interface {
	Load(ctx context.Context) ([]*model.Task, error)
	Save(ctx context.Context, tasks []*model.Task) error
	Close() error
}

// Open returns the backend selected by cfg.Driver.
func Open(ctx context.Context, cfg config.StorageConfig) (Repository, error) {
	switch cfg.Driver {
	case config.DriverMemory:
		return NewMemoryRepository(cfg.Key), nil
	case config.DriverFile:
		return NewFileRepository(cfg.Path, cfg.Key)
	case config.DriverSQLite:
		return OpenSQLiteRepository(cfg.Path, cfg.Key)
	case config.DriverRedis:
		return OpenRedisRepository(ctx, cfg.RedisAddr, cfg.RedisDB, cfg.Key)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

func decode(data []byte) ([]*model.Task, error) {
	tasks, err := model.DecodeTasks(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	return tasks, nil
}

func startSpan(ctx context.Context, name, backend, key string) (context.Context, trace.Span) {
	return tracer.Start(ctx, name,
		trace.WithAttributes(
			attribute.String("storage.backend", backend),
			attribute.String("storage.key", key),
		),
	)
}

// endSpan records err on the span, if any, and returns it unchanged.
func endSpan(span trace.Span, err error) error {
	if err != nil && !errors.Is(err, ErrNoData) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
	return err
}
