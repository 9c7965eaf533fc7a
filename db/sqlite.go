package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"todo-api/models"
)

// taskRecord is the SQLite row. Timestamps are unix nanoseconds so that
// ordering by created_at is numeric.
type taskRecord struct {
	ID          string     `gorm:"primarykey;size:36"`
	Title       string     `gorm:"size:255;not null"`
	Color       string     `gorm:"size:50;not null"`
	Description *string    `gorm:"size:1000"`
	DueDate     *time.Time
	Priority    string `gorm:"size:20;not null;default:medium"`
	Completed   bool   `gorm:"not null;default:false;index:idx_tasks_completed_created,priority:1"`
	CreatedAt   int64  `gorm:"not null;autoCreateTime:false;index;index:idx_tasks_completed_created,priority:2"`
	UpdatedAt   int64  `gorm:"not null;autoUpdateTime:false"`
}

func (taskRecord) TableName() string {
	return "tasks"
}

func (rec taskRecord) toTask() models.Task {
	return models.Task{
		ID:          rec.ID,
		Title:       rec.Title,
		Color:       rec.Color,
		Description: rec.Description,
		DueDate:     rec.DueDate,
		Priority:    rec.Priority,
		Completed:   rec.Completed,
		CreatedAt:   time.Unix(0, rec.CreatedAt).UTC(),
		UpdatedAt:   time.Unix(0, rec.UpdatedAt).UTC(),
	}
}

const newestFirst = "created_at DESC, rowid DESC"

// SQLiteRepository stores tasks in SQLite through GORM.
type SQLiteRepository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewSQLiteRepository opens (or creates) the SQLite database at path and
// migrates the tasks table. Use ":memory:" for a throwaway store.
func NewSQLiteRepository(path string) (*SQLiteRepository, error) {
	gdb, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	// One connection: SQLite has a single writer, and ":memory:" is per connection.
	sqlDB.SetMaxOpenConns(1)

	if err := gdb.AutoMigrate(&taskRecord{}); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return &SQLiteRepository{db: gdb, now: time.Now}, nil
}

func (r *SQLiteRepository) FindAll(ctx context.Context) ([]models.Task, error) {
	var records []taskRecord
	if err := r.db.WithContext(ctx).Order(newestFirst).Find(&records).Error; err != nil {
		return nil, &models.StoreError{Op: "find all", Err: err}
	}
	return toTasks(records), nil
}

func (r *SQLiteRepository) FindByID(ctx context.Context, id string) (*models.Task, error) {
	var rec taskRecord
	if err := r.db.WithContext(ctx).First(&rec, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, &models.StoreError{Op: "find by id", Err: err}
	}
	task := rec.toTask()
	return &task, nil
}

func (r *SQLiteRepository) FindByStatus(ctx context.Context, completed bool) ([]models.Task, error) {
	var records []taskRecord
	err := r.db.WithContext(ctx).Where("completed = ?", completed).Order(newestFirst).Find(&records).Error
	if err != nil {
		return nil, &models.StoreError{Op: "find by status", Err: err}
	}
	return toTasks(records), nil
}

func (r *SQLiteRepository) Create(ctx context.Context, t models.NewTask) (*models.Task, error) {
	now := r.now().UnixNano()
	rec := taskRecord{
		ID:          uuid.New().String(),
		Title:       t.Title,
		Color:       t.Color,
		Description: t.Description,
		DueDate:     t.DueDate,
		Priority:    t.Priority,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return nil, &models.StoreError{Op: "create", Err: err}
	}
	task := rec.toTask()
	return &task, nil
}

func (r *SQLiteRepository) Update(ctx context.Context, id string, c models.TaskChanges) (*models.Task, error) {
	var rec taskRecord
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&rec, "id = ?", id).Error; err != nil {
			return err
		}
		if c.Title != nil {
			rec.Title = *c.Title
		}
		if c.Color != nil {
			rec.Color = *c.Color
		}
		if c.Description != nil {
			rec.Description = c.Description
		}
		if c.DueDate != nil {
			rec.DueDate = c.DueDate
		}
		if c.Priority != nil {
			rec.Priority = *c.Priority
		}
		if c.Completed != nil {
			rec.Completed = *c.Completed
		}
		rec.UpdatedAt = max(r.now().UnixNano(), rec.UpdatedAt+1)
		return tx.Save(&rec).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, &models.StoreError{Op: "update", Err: err}
	}
	task := rec.toTask()
	return &task, nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&taskRecord{}, "id = ?", id)
	if err := result.Error; err != nil {
		return &models.StoreError{Op: "delete", Err: err}
	}
	if result.RowsAffected == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *SQLiteRepository) Count(ctx context.Context, filter models.TaskFilter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&taskRecord{})
	if filter.Completed != nil {
		query = query.Where("completed = ?", *filter.Completed)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, &models.StoreError{Op: "count", Err: err}
	}
	return count, nil
}

func (r *SQLiteRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (r *SQLiteRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}
	return sqlDB.Close()
}

func toTasks(records []taskRecord) []models.Task {
	tasks := make([]models.Task, 0, len(records))
	for _, rec := range records {
		tasks = append(tasks, rec.toTask())
	}
	return tasks
}
