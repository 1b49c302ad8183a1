package ports

import (
	"time"

	"github.com/taskboard/core/internal/domain/entities"
)

// DraftTask carries the user-supplied fields for a new task. Zero-value
// status and priority fall back to todo and medium.
type DraftTask struct {
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Status      entities.Status   `json:"status"`
	Priority    entities.Priority `json:"priority"`
	DueDate     *time.Time        `json:"due_date,omitempty"`
}

// TaskPatch carries partial updates; nil fields are left untouched.
// Completed is wire-level compatibility: when status is absent it is
// resolved against the record's current status so the two fields stay in
// lockstep.
type TaskPatch struct {
	Title       *string            `json:"title,omitempty"`
	Description *string            `json:"description,omitempty"`
	Status      *entities.Status   `json:"status,omitempty"`
	Priority    *entities.Priority `json:"priority,omitempty"`
	DueDate     *time.Time         `json:"due_date,omitempty"`
	Completed   *bool              `json:"completed,omitempty"`
}

// ViewFilter selects records for both the board and calendar projections.
// A record passes when the search term is empty or matches title or
// description case-insensitively, and when no date is selected or the due
// date falls on the selected calendar day.
type ViewFilter struct {
	Search string
	DueOn  *time.Time
}

// RecordBox is the rendered bounding box of one visible record, supplied by
// the UI layer as an opaque geometric input to same-status reordering.
type RecordBox struct {
	RecordID string
	TopY     float64
	Height   float64
}

// InsertionContext is the geometry driving a drop: the pointer's vertical
// position and the visible same-status boxes in their rendered order.
type InsertionContext struct {
	PointerY float64
	Boxes    []RecordBox
}

// RegisterRequest is the payload for account creation.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginRequest is the payload for authentication.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResult is returned by register and login.
type AuthResult struct {
	Token string         `json:"token"`
	User  *entities.User `json:"user"`
}
