package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskboard/core/internal/domain/entities"
	"github.com/taskboard/core/internal/infrastructure/logger"
	"github.com/taskboard/core/internal/ports"
)

// memoryTaskRepo is an in-memory ports.TaskRepository scoped per user.
type memoryTaskRepo struct {
	tasks map[uuid.UUID][]entities.TaskRecord
}

func newMemoryTaskRepo() *memoryTaskRepo {
	return &memoryTaskRepo{tasks: make(map[uuid.UUID][]entities.TaskRecord)}
}

func (r *memoryTaskRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]entities.TaskRecord, error) {
	return append([]entities.TaskRecord(nil), r.tasks[userID]...), nil
}

func (r *memoryTaskRepo) GetByID(ctx context.Context, userID uuid.UUID, id string) (*entities.TaskRecord, error) {
	for _, rec := range r.tasks[userID] {
		if rec.ID == id {
			cp := rec
			return &cp, nil
		}
	}
	return nil, entities.ErrTaskNotFound
}

func (r *memoryTaskRepo) Create(ctx context.Context, userID uuid.UUID, rec *entities.TaskRecord) error {
	r.tasks[userID] = append(r.tasks[userID], *rec)
	return nil
}

func (r *memoryTaskRepo) Update(ctx context.Context, userID uuid.UUID, rec *entities.TaskRecord) error {
	for i := range r.tasks[userID] {
		if r.tasks[userID][i].ID == rec.ID {
			r.tasks[userID][i] = *rec
			return nil
		}
	}
	return entities.ErrTaskNotFound
}

func (r *memoryTaskRepo) Delete(ctx context.Context, userID uuid.UUID, id string) error {
	recs := r.tasks[userID]
	for i := range recs {
		if recs[i].ID == id {
			r.tasks[userID] = append(recs[:i], recs[i+1:]...)
			return nil
		}
	}
	return entities.ErrTaskNotFound
}

func newTestTodoService() (*TodoService, uuid.UUID) {
	return NewTodoService(newMemoryTaskRepo(), logger.NewNop()), uuid.New()
}

func TestCreateTodoDefaults(t *testing.T) {
	svc, userID := newTestTodoService()

	rec, err := svc.CreateTodo(context.Background(), userID, ports.DraftTask{Title: "ship release"})
	require.NoError(t, err)

	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, entities.StatusTodo, rec.Status)
	assert.Equal(t, entities.PriorityMedium, rec.Priority)

	recs, err := svc.ListTodos(context.Background(), userID)
	require.NoError(t, err)
	assert.Len(t, recs, 1)
}

func TestCreateTodoRejectsBlankTitle(t *testing.T) {
	svc, userID := newTestTodoService()

	_, err := svc.CreateTodo(context.Background(), userID, ports.DraftTask{Title: "  "})
	assert.ErrorIs(t, err, entities.ErrTitleRequired)
}

func TestCreateTodoRejectsInvalidStatus(t *testing.T) {
	svc, userID := newTestTodoService()

	_, err := svc.CreateTodo(context.Background(), userID, ports.DraftTask{Title: "x", Status: "done"})
	assert.ErrorIs(t, err, entities.ErrInvalidStatus)
}

func TestUpdateTodoStatusWinsOverCompleted(t *testing.T) {
	svc, userID := newTestTodoService()
	rec, err := svc.CreateTodo(context.Background(), userID, ports.DraftTask{Title: "x"})
	require.NoError(t, err)

	status := entities.StatusReview
	completed := true
	updated, err := svc.UpdateTodo(context.Background(), userID, rec.ID, ports.TaskPatch{
		Status:    &status,
		Completed: &completed,
	})
	require.NoError(t, err)

	// An explicit status always wins over the redundant boolean.
	assert.Equal(t, entities.StatusReview, updated.Status)
	assert.False(t, updated.Completed())
}

func TestUpdateTodoCompletedToggle(t *testing.T) {
	svc, userID := newTestTodoService()
	rec, err := svc.CreateTodo(context.Background(), userID, ports.DraftTask{
		Title:  "x",
		Status: entities.StatusInProgress,
	})
	require.NoError(t, err)

	completed := true
	updated, err := svc.UpdateTodo(context.Background(), userID, rec.ID, ports.TaskPatch{Completed: &completed})
	require.NoError(t, err)
	assert.Equal(t, entities.StatusCompleted, updated.Status)

	completed = false
	updated, err = svc.UpdateTodo(context.Background(), userID, rec.ID, ports.TaskPatch{Completed: &completed})
	require.NoError(t, err)
	assert.Equal(t, entities.StatusTodo, updated.Status)
}

func TestUpdateTodoUncompleteKeepsNonCompletedColumn(t *testing.T) {
	svc, userID := newTestTodoService()
	rec, err := svc.CreateTodo(context.Background(), userID, ports.DraftTask{
		Title:  "x",
		Status: entities.StatusReview,
	})
	require.NoError(t, err)

	// completed=false against a record that is not completed leaves its
	// column alone.
	completed := false
	updated, err := svc.UpdateTodo(context.Background(), userID, rec.ID, ports.TaskPatch{Completed: &completed})
	require.NoError(t, err)
	assert.Equal(t, entities.StatusReview, updated.Status)
}

func TestUpdateTodoUnknownID(t *testing.T) {
	svc, userID := newTestTodoService()

	_, err := svc.UpdateTodo(context.Background(), userID, "ghost", ports.TaskPatch{})
	assert.ErrorIs(t, err, entities.ErrTaskNotFound)
}

func TestDeleteTodo(t *testing.T) {
	svc, userID := newTestTodoService()
	rec, err := svc.CreateTodo(context.Background(), userID, ports.DraftTask{Title: "x"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteTodo(context.Background(), userID, rec.ID))

	recs, err := svc.ListTodos(context.Background(), userID)
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestTodosScopedPerUser(t *testing.T) {
	repo := newMemoryTaskRepo()
	svc := NewTodoService(repo, logger.NewNop())
	alice, bob := uuid.New(), uuid.New()

	_, err := svc.CreateTodo(context.Background(), alice, ports.DraftTask{Title: "alice's task"})
	require.NoError(t, err)

	recs, err := svc.ListTodos(context.Background(), bob)
	require.NoError(t, err)
	assert.Empty(t, recs)
}
