package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"todo-api/models"
)

const schema = `
CREATE TABLE IF NOT EXISTS tasks (
	id          UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	title       VARCHAR(255) NOT NULL CHECK (title <> ''),
	color       VARCHAR(50) NOT NULL,
	description VARCHAR(1000),
	due_date    TIMESTAMPTZ,
	priority    VARCHAR(20) NOT NULL DEFAULT 'medium',
	completed   BOOLEAN NOT NULL DEFAULT FALSE,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	CHECK (updated_at >= created_at)
);
CREATE INDEX IF NOT EXISTS tasks_created_at_idx ON tasks (created_at DESC);
CREATE INDEX IF NOT EXISTS tasks_completed_created_at_idx ON tasks (completed, created_at DESC);
`

const taskColumns = "id::text, title, color, description, due_date, priority, completed, created_at, updated_at"

// PostgresRepository stores tasks in PostgreSQL through a pgx pool.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository connects to databaseURL and creates the tasks table if needed.
func NewPostgresRepository(ctx context.Context, databaseURL string) (*PostgresRepository, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return &PostgresRepository{pool: pool}, nil
}

func (r *PostgresRepository) FindAll(ctx context.Context) ([]models.Task, error) {
	rows, err := r.pool.Query(ctx, "SELECT "+taskColumns+" FROM tasks ORDER BY created_at DESC")
	if err != nil {
		return nil, &models.StoreError{Op: "find all", Err: err}
	}
	return collectTasks(rows, "find all")
}

func (r *PostgresRepository) FindByID(ctx context.Context, id string) (*models.Task, error) {
	row := r.pool.QueryRow(ctx, "SELECT "+taskColumns+" FROM tasks WHERE id = $1", id)
	task, err := scanTask(row)
	if err != nil {
		return nil, notFoundOr("find by id", err)
	}
	return &task, nil
}

func (r *PostgresRepository) FindByStatus(ctx context.Context, completed bool) ([]models.Task, error) {
	rows, err := r.pool.Query(ctx,
		"SELECT "+taskColumns+" FROM tasks WHERE completed = $1 ORDER BY created_at DESC", completed)
	if err != nil {
		return nil, &models.StoreError{Op: "find by status", Err: err}
	}
	return collectTasks(rows, "find by status")
}

func (r *PostgresRepository) Create(ctx context.Context, t models.NewTask) (*models.Task, error) {
	row := r.pool.QueryRow(ctx,
		"INSERT INTO tasks (title, color, description, due_date, priority) VALUES ($1, $2, $3, $4, $5) RETURNING "+taskColumns,
		t.Title, t.Color, t.Description, t.DueDate, t.Priority,
	)
	task, err := scanTask(row)
	if err != nil {
		return nil, &models.StoreError{Op: "create", Err: err}
	}
	return &task, nil
}

func (r *PostgresRepository) Update(ctx context.Context, id string, c models.TaskChanges) (*models.Task, error) {
	var (
		sets []string
		args []any
	)
	set := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if c.Title != nil {
		set("title", *c.Title)
	}
	if c.Color != nil {
		set("color", *c.Color)
	}
	if c.Description != nil {
		set("description", *c.Description)
	}
	if c.DueDate != nil {
		set("due_date", *c.DueDate)
	}
	if c.Priority != nil {
		set("priority", *c.Priority)
	}
	if c.Completed != nil {
		set("completed", *c.Completed)
	}
	// updated_at must move forward even if two writes land in the same microsecond.
	sets = append(sets, "updated_at = GREATEST(now(), updated_at + interval '1 microsecond')")
	args = append(args, id)

	query := fmt.Sprintf("UPDATE tasks SET %s WHERE id = $%d RETURNING %s",
		strings.Join(sets, ", "), len(args), taskColumns)

	task, err := scanTask(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, notFoundOr("update", err)
	}
	return &task, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	commandTag, err := r.pool.Exec(ctx, "DELETE FROM tasks WHERE id = $1", id)
	if err != nil {
		return notFoundOr("delete", err)
	}
	if commandTag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) Count(ctx context.Context, filter models.TaskFilter) (int64, error) {
	var (
		count int64
		err   error
	)
	if filter.Completed != nil {
		err = r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM tasks WHERE completed = $1", *filter.Completed).Scan(&count)
	} else {
		err = r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM tasks").Scan(&count)
	}
	if err != nil {
		return 0, &models.StoreError{Op: "count", Err: err}
	}
	return count, nil
}

func (r *PostgresRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

func (r *PostgresRepository) Close() error {
	r.pool.Close()
	return nil
}

func scanTask(row pgx.Row) (models.Task, error) {
	var t models.Task
	err := row.Scan(&t.ID, &t.Title, &t.Color, &t.Description, &t.DueDate,
		&t.Priority, &t.Completed, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

func collectTasks(rows pgx.Rows, op string) ([]models.Task, error) {
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, &models.StoreError{Op: op, Err: err}
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, &models.StoreError{Op: op, Err: err}
	}
	return tasks, nil
}

// notFoundOr maps "no row" and malformed-uuid errors to models.ErrNotFound.
func notFoundOr(op string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return models.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "22P02" {
		return models.ErrNotFound
	}
	return &models.StoreError{Op: op, Err: err}
}
