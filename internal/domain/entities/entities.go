package entities

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Common errors
var (
	ErrTaskNotFound       = errors.New("task not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrTitleRequired      = errors.New("task title is required")
	ErrInvalidStatus      = errors.New("invalid status")
	ErrInvalidPriority    = errors.New("invalid priority")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email is already registered")
	ErrUsernameTaken      = errors.New("username is already taken")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrNetwork            = errors.New("network error")
	ErrStorage            = errors.New("storage error")
)

// Enums and types
type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "inprogress"
	StatusReview     Status = "review"
	StatusCompleted  Status = "completed"
)

// Statuses lists all statuses in board-column order.
var Statuses = []Status{StatusTodo, StatusInProgress, StatusReview, StatusCompleted}

type Priority string

const (
	PriorityHighest Priority = "highest"
	PriorityHigh    Priority = "high"
	PriorityMedium  Priority = "medium"
	PriorityLow     Priority = "low"
	PriorityLowest  Priority = "lowest"
)

var Priorities = []Priority{PriorityHighest, PriorityHigh, PriorityMedium, PriorityLow, PriorityLowest}

type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// TaskRecord is the canonical shape of a task. The id is assigned once at
// creation and never changes afterwards; when the collection is remote-backed
// the server-assigned id replaces the optimistic placeholder on confirmation.
type TaskRecord struct {
	ID          string     `json:"id" db:"id"`
	Title       string     `json:"title" db:"title"`
	Description string     `json:"description" db:"description"`
	Status      Status     `json:"status" db:"status"`
	Priority    Priority   `json:"priority" db:"priority"`
	DueDate     *time.Time `json:"due_date,omitempty" db:"due_date"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

// User represents an account that owns a task collection.
type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// Completed reports whether the record sits in the completed column. The
// wire format carries this as a separate boolean; it is always derived from
// Status so the two can never disagree.
func (t *TaskRecord) Completed() bool {
	return t.Status == StatusCompleted
}

// HasValidTitle rejects empty and whitespace-only titles.
func (t *TaskRecord) HasValidTitle() bool {
	return strings.TrimSpace(t.Title) != ""
}

// dateOnly strips the time-of-day so comparisons work at calendar-day
// granularity regardless of location or DST.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SameDay reports calendar-date equality, ignoring time of day.
func SameDay(a, b time.Time) bool {
	return dateOnly(a).Equal(dateOnly(b))
}

// IsOverdue reports whether due falls on a calendar day strictly before ref.
// A nil due date is never overdue.
func IsOverdue(due *time.Time, ref time.Time) bool {
	if due == nil {
		return false
	}
	return dateOnly(*due).Before(dateOnly(ref))
}

// IsDueSoon reports whether due falls within the next three calendar days of
// ref, inclusive of today. Past dates and nil due dates are not "soon".
func IsDueSoon(due *time.Time, ref time.Time) bool {
	if due == nil {
		return false
	}
	days := int(dateOnly(*due).Sub(dateOnly(ref)).Hours() / 24)
	return days >= 0 && days <= 3
}

// NewTaskID generates a collection-unique task identifier.
func NewTaskID() string {
	return uuid.NewString()
}

func (s Status) IsValid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusReview, StatusCompleted:
		return true
	default:
		return false
	}
}

// Label returns the board-column title for the status.
func (s Status) Label() string {
	switch s {
	case StatusTodo:
		return "To-Do"
	case StatusInProgress:
		return "In Progress"
	case StatusReview:
		return "In Review"
	case StatusCompleted:
		return "Completed"
	default:
		return string(s)
	}
}

func (p Priority) IsValid() bool {
	switch p {
	case PriorityHighest, PriorityHigh, PriorityMedium, PriorityLow, PriorityLowest:
		return true
	default:
		return false
	}
}

// Color returns the indicator color for the priority.
func (p Priority) Color() string {
	switch p {
	case PriorityHighest:
		return "#dc2626"
	case PriorityHigh:
		return "#ea580c"
	case PriorityMedium:
		return "#ca8a04"
	case PriorityLow:
		return "#16a34a"
	case PriorityLowest:
		return "#64748b"
	default:
		return "#ca8a04"
	}
}

func (s Severity) IsValid() bool {
	switch s {
	case SeveritySuccess, SeverityError, SeverityWarning, SeverityInfo:
		return true
	default:
		return false
	}
}
