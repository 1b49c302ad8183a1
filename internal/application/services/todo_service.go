package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/taskboard/core/internal/domain/entities"
	"github.com/taskboard/core/internal/infrastructure/logger"
	"github.com/taskboard/core/internal/ports"
)

// TodoService handles server-side task operations for the todos API.
type TodoService struct {
	taskRepo ports.TaskRepository
	logger   *logger.Logger
}

// NewTodoService creates a new todo service
func NewTodoService(taskRepo ports.TaskRepository, logger *logger.Logger) *TodoService {
	return &TodoService{
		taskRepo: taskRepo,
		logger:   logger,
	}
}

// ListTodos returns the user's full collection in stored order.
func (s *TodoService) ListTodos(ctx context.Context, userID uuid.UUID) ([]entities.TaskRecord, error) {
	recs, err := s.taskRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list todos: %w", err)
	}
	return recs, nil
}

// CreateTodo validates and stores a new task owned by the user.
func (s *TodoService) CreateTodo(ctx context.Context, userID uuid.UUID, draft ports.DraftTask) (*entities.TaskRecord, error) {
	rec := entities.TaskRecord{
		Title:       draft.Title,
		Description: draft.Description,
		Status:      draft.Status,
		Priority:    draft.Priority,
		DueDate:     draft.DueDate,
	}
	if !rec.HasValidTitle() {
		return nil, entities.ErrTitleRequired
	}
	if rec.Status == "" {
		rec.Status = entities.StatusTodo
	}
	if !rec.Status.IsValid() {
		return nil, entities.ErrInvalidStatus
	}
	if rec.Priority == "" {
		rec.Priority = entities.PriorityMedium
	}
	if !rec.Priority.IsValid() {
		return nil, entities.ErrInvalidPriority
	}

	now := time.Now()
	rec.ID = entities.NewTaskID()
	rec.CreatedAt = now
	rec.UpdatedAt = now

	if err := s.taskRepo.Create(ctx, userID, &rec); err != nil {
		return nil, fmt.Errorf("failed to create todo: %w", err)
	}

	s.logger.Info("Todo created", "task_id", rec.ID, "user_id", userID)
	return &rec, nil
}

// UpdateTodo merges the patch onto the stored record, keeping completed and
// status in lockstep, and refreshes the update timestamp.
func (s *TodoService) UpdateTodo(ctx context.Context, userID uuid.UUID, id string, patch ports.TaskPatch) (*entities.TaskRecord, error) {
	existing, err := s.taskRepo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, fmt.Errorf("todo not found: %w", err)
	}

	if patch.Title != nil {
		existing.Title = *patch.Title
	}
	if patch.Description != nil {
		existing.Description = *patch.Description
	}
	switch {
	case patch.Status != nil:
		existing.Status = *patch.Status
	case patch.Completed != nil:
		// Status-less toggle: keep the redundant boolean and the status in
		// lockstep without clobbering a non-completed column.
		if *patch.Completed {
			existing.Status = entities.StatusCompleted
		} else if existing.Status == entities.StatusCompleted {
			existing.Status = entities.StatusTodo
		}
	}
	if patch.Priority != nil {
		existing.Priority = *patch.Priority
	}
	if patch.DueDate != nil {
		existing.DueDate = patch.DueDate
	}

	if !existing.HasValidTitle() {
		return nil, entities.ErrTitleRequired
	}
	if !existing.Status.IsValid() {
		return nil, entities.ErrInvalidStatus
	}
	if !existing.Priority.IsValid() {
		return nil, entities.ErrInvalidPriority
	}

	existing.UpdatedAt = time.Now()

	if err := s.taskRepo.Update(ctx, userID, existing); err != nil {
		return nil, fmt.Errorf("failed to update todo: %w", err)
	}

	s.logger.Info("Todo updated", "task_id", existing.ID, "user_id", userID)
	return existing, nil
}

// DeleteTodo removes the user's task.
func (s *TodoService) DeleteTodo(ctx context.Context, userID uuid.UUID, id string) error {
	if err := s.taskRepo.Delete(ctx, userID, id); err != nil {
		return fmt.Errorf("failed to delete todo: %w", err)
	}

	s.logger.Info("Todo deleted", "task_id", id, "user_id", userID)
	return nil
}
