package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/taskboard/core/internal/domain/entities"
	"github.com/taskboard/core/internal/infrastructure/logger"
	"github.com/taskboard/core/internal/ports"
)

// TaskStore owns the canonical in-memory task collection. Mutations apply
// optimistically, then confirm or roll back against the persistence adapter.
// The mutex guards only in-memory state; adapter calls run outside it, so
// operations on different record ids can be in flight simultaneously. The
// last completion to apply wins when the same id races.
type TaskStore struct {
	mu      sync.Mutex
	records []entities.TaskRecord

	adapter  ports.CollectionStore
	notifier ports.Notifier
	logger   *logger.Logger

	now   func() time.Time
	newID func() string
}

// NewTaskStore creates a task store over the given persistence adapter.
func NewTaskStore(adapter ports.CollectionStore, notifier ports.Notifier, log *logger.Logger) *TaskStore {
	return &TaskStore{
		adapter:  adapter,
		notifier: notifier,
		logger:   log,
		now:      time.Now,
		newID:    entities.NewTaskID,
	}
}

// Load replaces the in-memory collection with the adapter's contents.
func (s *TaskStore) Load(ctx context.Context) error {
	recs, err := s.adapter.List(ctx)
	if err != nil {
		s.notify(entities.SeverityError, "Failed to load tasks")
		return fmt.Errorf("load collection: %w", err)
	}

	s.mu.Lock()
	s.records = recs
	s.mu.Unlock()

	s.logger.Info("Collection loaded", "count", len(recs))
	return nil
}

// Create validates the draft, appends the record optimistically and persists
// it. When the adapter is authoritative (remote variant) a failure rolls the
// append back, because the real id only exists server-side; the local
// variant keeps the record so the user's input is not lost.
func (s *TaskStore) Create(ctx context.Context, draft ports.DraftTask) (entities.TaskRecord, error) {
	if strings.TrimSpace(draft.Title) == "" {
		s.notify(entities.SeverityError, "Task title cannot be empty")
		return entities.TaskRecord{}, entities.ErrTitleRequired
	}

	status := draft.Status
	if status == "" {
		status = entities.StatusTodo
	}
	if !status.IsValid() {
		s.notify(entities.SeverityError, "Invalid task status")
		return entities.TaskRecord{}, entities.ErrInvalidStatus
	}

	priority := draft.Priority
	if priority == "" {
		priority = entities.PriorityMedium
	}
	if !priority.IsValid() {
		s.notify(entities.SeverityError, "Invalid task priority")
		return entities.TaskRecord{}, entities.ErrInvalidPriority
	}

	now := s.now()
	rec := entities.TaskRecord{
		ID:          s.newID(),
		Title:       draft.Title,
		Description: draft.Description,
		Status:      status,
		Priority:    priority,
		DueDate:     draft.DueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	s.mu.Lock()
	s.records = append(s.records, rec)
	s.mu.Unlock()

	stored, err := s.adapter.Create(ctx, rec)
	if err != nil {
		s.mu.Lock()
		kept := rec
		if s.adapter.Authoritative() {
			if i := s.indexOf(rec.ID); i >= 0 {
				s.records = slices.Delete(s.records, i, i+1)
			}
			kept = entities.TaskRecord{}
		}
		s.mu.Unlock()

		s.logger.Errorw("Create task failed", "task_id", rec.ID, "error", err)
		s.notify(entities.SeverityError, "Failed to create task")
		return kept, fmt.Errorf("create task: %w", err)
	}

	s.mu.Lock()
	// The authoritative store may have replaced the placeholder id. If the
	// record was deleted while the request was in flight, drop the result.
	if i := s.indexOf(rec.ID); i >= 0 {
		s.records[i] = stored
	}
	s.mu.Unlock()

	s.logger.Info("Task created", "task_id", stored.ID, "title", stored.Title)
	s.notify(entities.SeveritySuccess, "Task created successfully!")
	return stored, nil
}

// Update merges the patch onto the existing record and persists it, reverting
// to the pre-patch snapshot on adapter failure.
func (s *TaskStore) Update(ctx context.Context, id string, patch ports.TaskPatch) (entities.TaskRecord, error) {
	if patch.Status != nil && !patch.Status.IsValid() {
		s.notify(entities.SeverityError, "Invalid task status")
		return entities.TaskRecord{}, entities.ErrInvalidStatus
	}
	if patch.Priority != nil && !patch.Priority.IsValid() {
		s.notify(entities.SeverityError, "Invalid task priority")
		return entities.TaskRecord{}, entities.ErrInvalidPriority
	}
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		s.notify(entities.SeverityError, "Task title cannot be empty")
		return entities.TaskRecord{}, entities.ErrTitleRequired
	}

	s.mu.Lock()
	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		s.notify(entities.SeverityError, "Task not found")
		return entities.TaskRecord{}, entities.ErrTaskNotFound
	}

	prev := s.records[idx]
	merged := prev
	if patch.Title != nil {
		merged.Title = *patch.Title
	}
	if patch.Description != nil {
		merged.Description = *patch.Description
	}
	if patch.Status != nil {
		merged.Status = *patch.Status
	}
	if patch.Priority != nil {
		merged.Priority = *patch.Priority
	}
	if patch.DueDate != nil {
		merged.DueDate = patch.DueDate
	}
	merged.UpdatedAt = s.now()
	s.records[idx] = merged
	s.mu.Unlock()

	stored, err := s.adapter.Update(ctx, merged)
	if err != nil {
		s.mu.Lock()
		if i := s.indexOf(id); i >= 0 {
			s.records[i] = prev
		}
		s.mu.Unlock()

		s.logger.Errorw("Update task failed", "task_id", id, "error", err)
		s.notify(entities.SeverityError, "Failed to update task")
		return entities.TaskRecord{}, fmt.Errorf("update task: %w", err)
	}

	s.mu.Lock()
	if i := s.indexOf(stored.ID); i >= 0 {
		s.records[i] = stored
	}
	s.mu.Unlock()

	s.logger.Info("Task updated", "task_id", stored.ID, "title", stored.Title)
	s.notify(entities.SeveritySuccess, "Task updated successfully!")
	return stored, nil
}

// Delete removes the record and persists the removal; on adapter failure the
// record is reinserted at its original position.
func (s *TaskStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		s.notify(entities.SeverityError, "Task not found")
		return entities.ErrTaskNotFound
	}
	removed := s.records[idx]
	s.records = slices.Delete(s.records, idx, idx+1)
	s.mu.Unlock()

	err := s.adapter.Delete(ctx, id)
	if err != nil && !errors.Is(err, entities.ErrTaskNotFound) {
		s.mu.Lock()
		pos := idx
		if pos > len(s.records) {
			pos = len(s.records)
		}
		s.records = slices.Insert(s.records, pos, removed)
		s.mu.Unlock()

		s.logger.Errorw("Delete task failed", "task_id", id, "error", err)
		s.notify(entities.SeverityError, "Failed to delete task")
		return fmt.Errorf("delete task: %w", err)
	}
	// An adapter NotFound means the record is already gone remotely; the
	// local removal stands either way.

	s.logger.Info("Task deleted", "task_id", id)
	s.notify(entities.SeveritySuccess, "Task deleted successfully!")
	return nil
}

// Move handles a drop onto a board column. A drop into the record's current
// column reorders it among its siblings using the supplied geometry; a drop
// into another column changes only that record's status. A missing id, an
// unknown status, or a same-column drop with no visible siblings is a no-op.
func (s *TaskStore) Move(ctx context.Context, id string, newStatus entities.Status, ictx ports.InsertionContext) error {
	if !newStatus.IsValid() {
		return nil
	}

	s.mu.Lock()
	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		return nil
	}
	rec := s.records[idx]

	if rec.Status == newStatus {
		if len(ictx.Boxes) == 0 {
			s.mu.Unlock()
			return nil
		}
		prev := slices.Clone(s.records)
		s.reorderLocked(rec, ictx)
		snap := slices.Clone(s.records)
		s.mu.Unlock()

		if err := s.adapter.SaveOrder(ctx, snap); err != nil {
			s.mu.Lock()
			s.records = prev
			s.mu.Unlock()

			s.logger.Errorw("Save task order failed", "task_id", id, "error", err)
			s.notify(entities.SeverityError, "Failed to save task order")
			return fmt.Errorf("save order: %w", err)
		}

		s.notify(entities.SeveritySuccess, fmt.Sprintf("Task reordered in %q", newStatus.Label()))
		return nil
	}

	prev := rec
	moved := rec
	moved.Status = newStatus
	moved.UpdatedAt = s.now()
	s.records[idx] = moved
	s.mu.Unlock()

	stored, err := s.adapter.Update(ctx, moved)
	if err != nil {
		s.mu.Lock()
		if i := s.indexOf(id); i >= 0 {
			s.records[i] = prev
		}
		s.mu.Unlock()

		s.logger.Errorw("Move task failed", "task_id", id, "status", newStatus, "error", err)
		s.notify(entities.SeverityError, "Failed to move task")
		return fmt.Errorf("move task: %w", err)
	}

	s.mu.Lock()
	if i := s.indexOf(stored.ID); i >= 0 {
		s.records[i] = stored
	}
	s.mu.Unlock()

	s.logger.Info("Task moved", "task_id", id, "status", newStatus)
	s.notify(entities.SeveritySuccess, fmt.Sprintf("Task moved to %q", newStatus.Label()))
	return nil
}

// reorderLocked splices rec among its same-status siblings. The insertion
// index is the first supplied box whose vertical midpoint sits below the
// pointer; no qualifying box means insert at the end. Records of other
// statuses keep their exact positions in the collection.
func (s *TaskStore) reorderLocked(rec entities.TaskRecord, ictx ports.InsertionContext) {
	var column []entities.TaskRecord
	for _, r := range s.records {
		if r.Status == rec.Status && r.ID != rec.ID {
			column = append(column, r)
		}
	}

	insertIdx := len(column)
	seen := 0
	for _, box := range ictx.Boxes {
		if box.RecordID == rec.ID {
			continue
		}
		if ictx.PointerY < box.TopY+box.Height/2 {
			insertIdx = seen
			break
		}
		seen++
	}
	if insertIdx > len(column) {
		insertIdx = len(column)
	}
	column = slices.Insert(column, insertIdx, rec)

	// Refill the status group's slots in place so unrelated records never
	// move.
	next := make([]entities.TaskRecord, 0, len(s.records))
	ci := 0
	for _, r := range s.records {
		if r.Status == rec.Status {
			next = append(next, column[ci])
			ci++
		} else {
			next = append(next, r)
		}
	}
	s.records = next
}

// View returns a filtered read-only copy of the collection in its current
// order.
func (s *TaskStore) View(filter ports.ViewFilter) []entities.TaskRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]entities.TaskRecord, 0, len(s.records))
	for _, r := range s.records {
		if recordMatches(r, filter) {
			out = append(out, r)
		}
	}
	return out
}

func recordMatches(r entities.TaskRecord, f ports.ViewFilter) bool {
	if f.Search != "" {
		q := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(r.Title), q) &&
			!strings.Contains(strings.ToLower(r.Description), q) {
			return false
		}
	}
	if f.DueOn != nil {
		if r.DueDate == nil || !entities.SameDay(*r.DueDate, *f.DueOn) {
			return false
		}
	}
	return true
}

// indexOf requires s.mu to be held.
func (s *TaskStore) indexOf(id string) int {
	for i := range s.records {
		if s.records[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *TaskStore) notify(severity entities.Severity, message string) {
	if s.notifier != nil {
		s.notifier.Publish(severity, message)
	}
}
