package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/hiroki-koketsu/taskcore/internal/model"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/attribute"
)

// RedisRepository stores each collection as a JSON document under a Redis key.
type RedisRepository struct {
	client *redis.Client
	key    string
}

// OpenRedisRepository connects to addr and verifies the connection.
func OpenRedisRepository(ctx context.Context, addr string, db int, key string) (*RedisRepository, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}
	return NewRedisRepository(client, key), nil
}

// NewRedisRepository wraps an existing client.
func NewRedisRepository(client *redis.Client, key string) *RedisRepository {
	return &RedisRepository{client: client, key: key}
}

// Load fetches and decodes the document.
func (r *RedisRepository) Load(ctx context.Context) (tasks []*model.Task, err error) {
	ctx, span := startSpan(ctx, "RedisRepository.Load", "redis", r.key)
	defer func() { endSpan(span, err) }()

	raw, err := r.client.Get(ctx, r.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNoData
		}
		return nil, fmt.Errorf("failed to get %s: %w", r.key, err)
	}

	tasks, err = decode(raw)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("task.count", len(tasks)))
	return tasks, nil
}

// Save overwrites the document. Saved collections do not expire.
func (r *RedisRepository) Save(ctx context.Context, tasks []*model.Task) (err error) {
	ctx, span := startSpan(ctx, "RedisRepository.Save", "redis", r.key)
	defer func() { endSpan(span, err) }()

	raw, err := model.EncodeTasks(tasks)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, r.key, raw, 0).Err(); err != nil {
		return fmt.Errorf("failed to set %s: %w", r.key, err)
	}

	span.SetAttributes(attribute.Int("task.count", len(tasks)))
	return nil
}

// Close closes the client.
func (r *RedisRepository) Close() error {
	return r.client.Close()
}
