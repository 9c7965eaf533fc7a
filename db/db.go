package db

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/charmbracelet/log"

	"todo-api/models"
)

// TaskRepository is the storage contract the task service is built on.
// List operations return tasks newest first. Operations on a missing id
// return models.ErrNotFound; other failures are *models.StoreError.
type TaskRepository interface {
	FindAll(ctx context.Context) ([]models.Task, error)
	FindByID(ctx context.Context, id string) (*models.Task, error)
	FindByStatus(ctx context.Context, completed bool) ([]models.Task, error)
	Create(ctx context.Context, task models.NewTask) (*models.Task, error)
	Update(ctx context.Context, id string, changes models.TaskChanges) (*models.Task, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context, filter models.TaskFilter) (int64, error)
	Ping(ctx context.Context) error
	Close() error
}

// Compile-time interface checks.
var (
	_ TaskRepository = (*PostgresRepository)(nil)
	_ TaskRepository = (*SQLiteRepository)(nil)
)

// Schemes accepted in DATABASE_URL.
var Schemes = []string{"postgres", "postgresql", "sqlite"}

// Open connects to the store named by databaseURL and prepares its schema.
func Open(ctx context.Context, databaseURL string, logger *log.Logger) (TaskRepository, error) {
	scheme, rest, ok := strings.Cut(databaseURL, "://")
	if !ok {
		return nil, fmt.Errorf("database url has no scheme")
	}

	switch scheme {
	case "postgres", "postgresql":
		repo, err := NewPostgresRepository(ctx, databaseURL)
		if err != nil {
			return nil, err
		}
		logger.Info("Connected to PostgreSQL", "host", Host(databaseURL))
		return repo, nil
	case "sqlite":
		repo, err := NewSQLiteRepository(rest)
		if err != nil {
			return nil, err
		}
		logger.Info("Opened SQLite database", "path", rest)
		return repo, nil
	}
	return nil, fmt.Errorf("unsupported database scheme %q", scheme)
}

// Host returns the host part of a database url without credentials, for logs.
func Host(databaseURL string) string {
	u, err := url.Parse(databaseURL)
	if err != nil || u.Host == "" {
		return "configured"
	}
	return u.Host
}
