package repository

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/hiroki-koketsu/taskcore/internal/config"
	"github.com/hiroki-koketsu/taskcore/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleCollection() []*model.Task {
	now := time.Date(2025, 6, 1, 12, 30, 0, 123456789, time.UTC)

	a := model.NewTaskAt(now, "Pay rent", model.WithCategory(model.CategoryPersonal), model.WithPriority(model.PriorityHigh),
		model.WithDueDate(now.Add(72*time.Hour)))
	b := model.NewTaskAt(now.Add(time.Minute), "Dentist", model.WithDescription("bring x-rays"), model.WithCategory(model.CategoryHealth))
	b.CompleteAt(now.Add(time.Hour))
	c := model.NewTaskAt(now.Add(2*time.Minute), "", model.WithPriority(model.PriorityLow), model.WithCategory(model.CategoryShopping))
	return []*model.Task{a, b, c}
}

// assertSameTasks compares field by field, using time equality for timestamps.
func assertSameTasks(t *testing.T, want, got []*model.Task) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		w, g := want[i], got[i]
		assert.Equal(t, w.ID, g.ID)
		assert.Equal(t, w.Title, g.Title)
		assert.Equal(t, w.Description, g.Description)
		assert.Equal(t, w.IsCompleted, g.IsCompleted)
		assert.Equal(t, w.Priority, g.Priority)
		assert.Equal(t, w.Category, g.Category)
		assert.True(t, w.CreatedAt.Equal(g.CreatedAt), "createdAt %v != %v", w.CreatedAt, g.CreatedAt)
		assertSameOptionalTime(t, w.DueDate, g.DueDate)
		assertSameOptionalTime(t, w.CompletedAt, g.CompletedAt)
	}
}

func assertSameOptionalTime(t *testing.T, want, got *time.Time) {
	t.Helper()
	if want == nil {
		assert.Nil(t, got)
		return
	}
	require.NotNil(t, got)
	assert.True(t, want.Equal(*got), "%v != %v", *want, *got)
}

type backend struct {
	name string
	open func(t *testing.T, key string) Repository
}

func backends(t *testing.T) []backend {
	dir := t.TempDir()
	list := []backend{
		{name: "memory", open: func(t *testing.T, key string) Repository {
			return NewMemoryRepository(key)
		}},
		{name: "file", open: func(t *testing.T, key string) Repository {
			r, err := NewFileRepository(filepath.Join(dir, "files"), key)
			require.NoError(t, err)
			return r
		}},
		{name: "sqlite", open: func(t *testing.T, key string) Repository {
			r, err := OpenSQLiteRepository(filepath.Join(dir, "tasks.db"), key)
			require.NoError(t, err)
			t.Cleanup(func() { r.Close() })
			return r
		}},
	}
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		list = append(list, backend{name: "redis", open: func(t *testing.T, key string) Repository {
			r, err := OpenRedisRepository(context.Background(), addr, 0, "taskcore-test:"+key)
			require.NoError(t, err)
			t.Cleanup(func() {
				r.client.Del(context.Background(), r.key)
				r.Close()
			})
			return r
		}})
	}
	return list
}

func TestRepositories(t *testing.T) {
	ctx := context.Background()

	for _, b := range backends(t) {
		t.Run(b.name, func(t *testing.T) {
			t.Run("load before save", func(t *testing.T) {
				r := b.open(t, "empty")
				_, err := r.Load(ctx)
				assert.ErrorIs(t, err, ErrNoData)
			})

			t.Run("round trip preserves order and optionals", func(t *testing.T) {
				r := b.open(t, "roundtrip")
				tasks := sampleCollection()

				require.NoError(t, r.Save(ctx, tasks))
				got, err := r.Load(ctx)
				require.NoError(t, err)
				assertSameTasks(t, tasks, got)
			})

			t.Run("save replaces previous collection", func(t *testing.T) {
				r := b.open(t, "replace")
				tasks := sampleCollection()

				require.NoError(t, r.Save(ctx, tasks))
				require.NoError(t, r.Save(ctx, tasks[1:2]))

				got, err := r.Load(ctx)
				require.NoError(t, err)
				assertSameTasks(t, tasks[1:2], got)
			})

			t.Run("keys are isolated", func(t *testing.T) {
				first := b.open(t, "first")
				second := b.open(t, "second")

				require.NoError(t, first.Save(ctx, sampleCollection()))
				_, err := second.Load(ctx)
				assert.ErrorIs(t, err, ErrNoData)
			})
		})
	}
}

func TestMemoryRepository_CorruptData(t *testing.T) {
	r := NewMemoryRepository("savedTasks")
	r.Put([]byte(`{not json`))

	_, err := r.Load(context.Background())
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestFileRepository_CorruptData(t *testing.T) {
	r, err := NewFileRepository(t.TempDir(), "savedTasks")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(r.Path(), []byte(`[{"priority":"urgent"}]`), 0o644))

	_, err = r.Load(context.Background())
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestFileRepository_LeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	r, err := NewFileRepository(dir, "savedTasks")
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		require.NoError(t, r.Save(context.Background(), sampleCollection()))
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "savedTasks.json", entries[0].Name())
}

func TestSQLiteRepository_EmptySaveClearsRows(t *testing.T) {
	r, err := OpenSQLiteRepository(filepath.Join(t.TempDir(), "tasks.db"), "savedTasks")
	require.NoError(t, err)
	defer r.Close()

	ctx := context.Background()
	require.NoError(t, r.Save(ctx, sampleCollection()))
	require.NoError(t, r.Save(ctx, nil))

	var count int64
	require.NoError(t, r.db.Model(&taskRecord{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestSQLiteRepository_CorruptRows(t *testing.T) {
	r, err := OpenSQLiteRepository(filepath.Join(t.TempDir(), "tasks.db"), "savedTasks")
	require.NoError(t, err)
	defer r.Close()

	tests := map[string]taskRecord{
		"empty id":         {ID: "", Title: "t", Priority: "low", Category: "work"},
		"unknown priority": {ID: "x", Title: "t", Priority: "", Category: "work"},
	}

	for name, rec := range tests {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, r.Save(ctx, nil))
			rec.StorageKey = "savedTasks"
			require.NoError(t, r.db.Create(&rec).Error)

			_, err := r.Load(ctx)
			assert.ErrorIs(t, err, ErrCorrupt)
		})
	}
}

func TestMemoryRepository_MissingFields(t *testing.T) {
	r := NewMemoryRepository("savedTasks")
	r.Put([]byte(`[{"title":"no id, no enums, no createdAt"},{"title":"same empty id"}]`))

	_, err := r.Load(context.Background())
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	tests := []struct {
		driver  string
		want    any
		wantErr bool
	}{
		{driver: config.DriverMemory, want: &MemoryRepository{}},
		{driver: config.DriverFile, want: &FileRepository{}},
		{driver: config.DriverSQLite, want: &SQLiteRepository{}},
		{driver: "tape", wantErr: true},
	}

	for i, tt := range tests {
		t.Run(tt.driver, func(t *testing.T) {
			path := dir
			if tt.driver == config.DriverSQLite {
				path = filepath.Join(dir, "open-"+strconv.Itoa(i)+".db")
			}
			r, err := Open(ctx, config.StorageConfig{Driver: tt.driver, Path: path, Key: "savedTasks"})
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			defer r.Close()
			assert.IsType(t, tt.want, r)
		})
	}
}
