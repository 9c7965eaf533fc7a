package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"todo-api/db"
	"todo-api/models"
)

// TaskService holds the task business operations. Inputs are expected to
// have passed models.ValidateCreate / models.ValidateUpdate already.
type TaskService struct {
	repo db.TaskRepository
}

// NewTaskService creates a new instance of TaskService.
func NewTaskService(repo db.TaskRepository) *TaskService {
	return &TaskService{repo: repo}
}

// GetAllTasks returns every task, newest first.
func (s *TaskService) GetAllTasks(ctx context.Context) ([]models.Task, error) {
	return s.repo.FindAll(ctx)
}

// GetTaskByID returns the task, or nil without an error when it does not exist.
func (s *TaskService) GetTaskByID(ctx context.Context, id string) (*models.Task, error) {
	task, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, models.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return task, nil
}

// CreateTask stores a new task, defaulting the priority to medium.
func (s *TaskService) CreateTask(ctx context.Context, in models.CreateTaskInput) (*models.Task, error) {
	in = in.Normalize()

	newTask := models.NewTask{
		Title:       in.Title,
		Color:       in.Color,
		Description: in.Description,
		Priority:    models.DefaultPriority,
	}
	if in.Priority != nil && *in.Priority != "" {
		newTask.Priority = *in.Priority
	}
	if in.DueDate != nil {
		due, err := parseDueDate(*in.DueDate)
		if err != nil {
			return nil, err
		}
		newTask.DueDate = &due
	}

	task, err := s.repo.Create(ctx, newTask)
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	return task, nil
}

// UpdateTask applies a partial update. It returns models.ErrNotFound when
// the task does not exist.
func (s *TaskService) UpdateTask(ctx context.Context, id string, in models.UpdateTaskInput) (*models.Task, error) {
	in = in.Normalize()

	changes := models.TaskChanges{
		Title:       in.Title,
		Color:       in.Color,
		Description: in.Description,
		Priority:    in.Priority,
		Completed:   in.Completed,
	}
	if in.DueDate != nil {
		due, err := parseDueDate(*in.DueDate)
		if err != nil {
			return nil, err
		}
		changes.DueDate = &due
	}

	task, err := s.repo.Update(ctx, id, changes)
	if err != nil {
		return nil, fmt.Errorf("failed to update task %s: %w", id, err)
	}
	return task, nil
}

// DeleteTask permanently removes a task. It returns models.ErrNotFound when
// the task does not exist.
func (s *TaskService) DeleteTask(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete task %s: %w", id, err)
	}
	return nil
}

// ToggleTaskCompletion flips the completed flag of a task.
//
// The read and the write are separate store calls, so two concurrent
// toggles of the same task can both read the same value and one flip is
// lost. Last writer wins.
func (s *TaskService) ToggleTaskCompletion(ctx context.Context, id string) (*models.Task, error) {
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to toggle task %s: %w", id, err)
	}

	completed := !current.Completed
	task, err := s.repo.Update(ctx, id, models.TaskChanges{Completed: &completed})
	if err != nil {
		return nil, fmt.Errorf("failed to toggle task %s: %w", id, err)
	}
	return task, nil
}

// GetTasksByStatus returns the completed or pending tasks, newest first.
func (s *TaskService) GetTasksByStatus(ctx context.Context, completed bool) ([]models.Task, error) {
	return s.repo.FindByStatus(ctx, completed)
}

// GetTaskStats counts total and completed tasks. The two counts are taken
// independently and are not a consistent snapshot under concurrent writes.
func (s *TaskService) GetTaskStats(ctx context.Context) (models.TaskStats, error) {
	var total, completed int64

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		total, err = s.repo.Count(gctx, models.TaskFilter{})
		return err
	})
	g.Go(func() error {
		done := true
		var err error
		completed, err = s.repo.Count(gctx, models.TaskFilter{Completed: &done})
		return err
	})
	if err := g.Wait(); err != nil {
		return models.TaskStats{}, fmt.Errorf("failed to count tasks: %w", err)
	}

	// Writes landing between the two counts can make completed exceed total.
	completed = min(completed, total)
	return models.TaskStats{
		Total:     total,
		Completed: completed,
		Pending:   total - completed,
	}, nil
}

func parseDueDate(s string) (time.Time, error) {
	due, err := models.ParseDueDate(s)
	if err != nil {
		return time.Time{}, models.NewValidationError("Due date must be a valid date")
	}
	return due, nil
}
