package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/hiroki-koketsu/taskcore/internal/model"
	"go.opentelemetry.io/otel/attribute"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// taskRecord is the row layout of a task in SQLite.
type taskRecord struct {
	StorageKey  string `gorm:"primaryKey;size:128"`
	ID          string `gorm:"primaryKey;size:36"`
	Position    int    `gorm:"not null;index"`
	Title       string `gorm:"not null"`
	Description string `gorm:"not null;default:''"`
	IsCompleted bool   `gorm:"not null;default:false"`
	Priority    string `gorm:"size:16;not null"`
	Category    string `gorm:"size:16;not null"`
	CreatedAt   time.Time
	DueDate     *time.Time
	CompletedAt *time.Time
}

// TableName returns the table name for taskRecord.
func (taskRecord) TableName() string {
	return "tasks"
}

// SQLiteRepository stores collections as rows in a SQLite database via GORM.
type SQLiteRepository struct {
	db  *gorm.DB
	key string
}

// OpenSQLiteRepository opens (or creates) the database at dsn and migrates it.
// Use ":memory:" for a throwaway database.
func OpenSQLiteRepository(dsn, key string) (*SQLiteRepository, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	return NewSQLiteRepository(db, key)
}

// NewSQLiteRepository wraps an open database and migrates the schema.
func NewSQLiteRepository(db *gorm.DB, key string) (*SQLiteRepository, error) {
	if err := db.AutoMigrate(&taskRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate tasks table: %w", err)
	}
	return &SQLiteRepository{db: db, key: key}, nil
}

// Load returns the rows for the key in saved order.
func (r *SQLiteRepository) Load(ctx context.Context) (tasks []*model.Task, err error) {
	ctx, span := startSpan(ctx, "SQLiteRepository.Load", "sqlite", r.key)
	defer func() { endSpan(span, err) }()

	var records []taskRecord
	if err := r.db.WithContext(ctx).
		Where("storage_key = ?", r.key).
		Order("position").
		Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to load tasks: %w", err)
	}
	if len(records) == 0 {
		return nil, ErrNoData
	}

	tasks = make([]*model.Task, 0, len(records))
	for _, rec := range records {
		t, err := rec.toModel()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
		}
		tasks = append(tasks, t)
	}
	if err := model.ValidateTasks(tasks); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	span.SetAttributes(attribute.Int("task.count", len(tasks)))
	return tasks, nil
}

// Save replaces every row for the key in one transaction.
func (r *SQLiteRepository) Save(ctx context.Context, tasks []*model.Task) (err error) {
	ctx, span := startSpan(ctx, "SQLiteRepository.Save", "sqlite", r.key)
	defer func() { endSpan(span, err) }()

	records := make([]taskRecord, len(tasks))
	for i, t := range tasks {
		records[i] = newTaskRecord(r.key, i, t)
	}

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("storage_key = ?", r.key).Delete(&taskRecord{}).Error; err != nil {
			return err
		}
		if len(records) == 0 {
			return nil
		}
		return tx.CreateInBatches(records, 100).Error
	})
	if err != nil {
		return fmt.Errorf("failed to save tasks: %w", err)
	}

	span.SetAttributes(attribute.Int("task.count", len(tasks)))
	return nil
}

// Close releases the underlying connection pool.
func (r *SQLiteRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func newTaskRecord(key string, position int, t *model.Task) taskRecord {
	return taskRecord{
		StorageKey:  key,
		ID:          t.ID,
		Position:    position,
		Title:       t.Title,
		Description: t.Description,
		IsCompleted: t.IsCompleted,
		Priority:    string(t.Priority),
		Category:    string(t.Category),
		CreatedAt:   t.CreatedAt,
		DueDate:     t.DueDate,
		CompletedAt: t.CompletedAt,
	}
}

func (rec taskRecord) toModel() (*model.Task, error) {
	priority, err := model.ParsePriority(rec.Priority)
	if err != nil {
		return nil, err
	}
	category, err := model.ParseCategory(rec.Category)
	if err != nil {
		return nil, err
	}
	if rec.IsCompleted != (rec.CompletedAt != nil) {
		return nil, fmt.Errorf("task %s has inconsistent completion state", rec.ID)
	}
	return &model.Task{
		ID:          rec.ID,
		Title:       rec.Title,
		Description: rec.Description,
		IsCompleted: rec.IsCompleted,
		Priority:    priority,
		Category:    category,
		CreatedAt:   rec.CreatedAt.UTC(),
		DueDate:     utc(rec.DueDate),
		CompletedAt: utc(rec.CompletedAt),
	}, nil
}

func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
