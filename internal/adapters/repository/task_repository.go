package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/taskboard/core/internal/domain/entities"
	"github.com/taskboard/core/internal/ports"
)

// TaskRepositoryImpl implements the TaskRepository interface
type TaskRepositoryImpl struct {
	db *sqlx.DB
}

// NewTaskRepository creates a new task repository
func NewTaskRepository(db *sqlx.DB) ports.TaskRepository {
	return &TaskRepositoryImpl{db: db}
}

func (r *TaskRepositoryImpl) ListByUser(ctx context.Context, userID uuid.UUID) ([]entities.TaskRecord, error) {
	query := `
		SELECT id, title, description, status, priority, due_date, created_at, updated_at
		FROM todos
		WHERE user_id = $1
		ORDER BY created_at, id`

	recs := []entities.TaskRecord{}
	if err := r.db.SelectContext(ctx, &recs, query, userID); err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}

	return recs, nil
}

func (r *TaskRepositoryImpl) GetByID(ctx context.Context, userID uuid.UUID, id string) (*entities.TaskRecord, error) {
	query := `
		SELECT id, title, description, status, priority, due_date, created_at, updated_at
		FROM todos
		WHERE user_id = $1 AND id = $2`

	var rec entities.TaskRecord
	err := r.db.GetContext(ctx, &rec, query, userID, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entities.ErrTaskNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get todo: %w", err)
	}

	return &rec, nil
}

func (r *TaskRepositoryImpl) Create(ctx context.Context, userID uuid.UUID, rec *entities.TaskRecord) error {
	query := `
		INSERT INTO todos (id, user_id, title, description, status, priority, due_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.db.ExecContext(ctx, query,
		rec.ID, userID, rec.Title, rec.Description, rec.Status, rec.Priority,
		rec.DueDate, rec.CreatedAt, rec.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create todo: %w", err)
	}

	return nil
}

func (r *TaskRepositoryImpl) Update(ctx context.Context, userID uuid.UUID, rec *entities.TaskRecord) error {
	query := `
		UPDATE todos
		SET title = $3, description = $4, status = $5, priority = $6, due_date = $7, updated_at = $8
		WHERE user_id = $1 AND id = $2`

	result, err := r.db.ExecContext(ctx, query,
		userID, rec.ID, rec.Title, rec.Description, rec.Status, rec.Priority,
		rec.DueDate, rec.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update todo: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update todo: %w", err)
	}
	if rows == 0 {
		return entities.ErrTaskNotFound
	}

	return nil
}

func (r *TaskRepositoryImpl) Delete(ctx context.Context, userID uuid.UUID, id string) error {
	query := `DELETE FROM todos WHERE user_id = $1 AND id = $2`

	result, err := r.db.ExecContext(ctx, query, userID, id)
	if err != nil {
		return fmt.Errorf("delete todo: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete todo: %w", err)
	}
	if rows == 0 {
		return entities.ErrTaskNotFound
	}

	return nil
}
