package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/taskboard/core/internal/domain/entities"
)

// CollectionStore abstracts durable storage of the task collection. Two
// variants implement it: a local store that snapshots the whole collection
// under one key, and a remote store that issues per-record requests against
// the todos API. The variant is selected at configuration time; the task
// store never forks on it beyond the Authoritative flag.
type CollectionStore interface {
	// List loads the full collection. The local variant returns an empty
	// collection when the slot is missing or unreadable.
	List(ctx context.Context) ([]entities.TaskRecord, error)
	// Create persists a new record and returns the stored version. An
	// authoritative store replaces the record's id with its own.
	Create(ctx context.Context, rec entities.TaskRecord) (entities.TaskRecord, error)
	// Update persists a fully merged record, matched by id.
	Update(ctx context.Context, rec entities.TaskRecord) (entities.TaskRecord, error)
	// Delete removes the record with the given id.
	Delete(ctx context.Context, id string) error
	// SaveOrder persists the collection ordering after a same-status
	// reorder. The remote variant treats ordering as presentation-local
	// and implements this as a no-op.
	SaveOrder(ctx context.Context, recs []entities.TaskRecord) error
	// Authoritative reports whether record ids are assigned by the store
	// rather than by the caller. Drives the create rollback policy.
	Authoritative() bool
}

// Session holds the bearer credential for the remote variant. It is explicit
// state: established on login, cleared on logout or any 401 response.
type Session interface {
	Token() (string, bool)
	Establish(token string, user *entities.User)
	CurrentUser() (*entities.User, bool)
	Clear()
}

// TaskRepository defines server-side task storage, scoped per owning user.
type TaskRepository interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]entities.TaskRecord, error)
	GetByID(ctx context.Context, userID uuid.UUID, id string) (*entities.TaskRecord, error)
	Create(ctx context.Context, userID uuid.UUID, rec *entities.TaskRecord) error
	Update(ctx context.Context, userID uuid.UUID, rec *entities.TaskRecord) error
	Delete(ctx context.Context, userID uuid.UUID, id string) error
}

// UserRepository defines server-side account storage.
type UserRepository interface {
	Create(ctx context.Context, user *entities.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error)
	GetByEmail(ctx context.Context, email string) (*entities.User, error)
	GetByUsername(ctx context.Context, username string) (*entities.User, error)
}

// Notifier publishes ephemeral user-facing feedback about operation
// outcomes. Implementations replace the visible message, never queue.
type Notifier interface {
	Publish(severity entities.Severity, message string)
}
