package collection

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/taskboard/core/internal/domain/entities"
	"github.com/taskboard/core/internal/infrastructure/logger"
	"github.com/taskboard/core/internal/ports"
)

// LocalStore is the local persistence variant: the whole collection is
// serialized as one JSON array under a single durable key, rewritten on
// every collection change. Unreadable content falls back to an empty
// collection instead of failing the load.
type LocalStore struct {
	client *redis.Client
	key    string
	logger *logger.Logger
}

// NewLocalStore creates a local collection store over the given key.
func NewLocalStore(client *redis.Client, key string, log *logger.Logger) *LocalStore {
	return &LocalStore{
		client: client,
		key:    key,
		logger: log,
	}
}

var _ ports.CollectionStore = (*LocalStore)(nil)

// List loads the snapshot. A missing slot or malformed content yields an
// empty collection, never an error.
func (s *LocalStore) List(ctx context.Context) ([]entities.TaskRecord, error) {
	raw, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return []entities.TaskRecord{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read collection: %v", entities.ErrStorage, err)
	}

	var recs []entities.TaskRecord
	if err := json.Unmarshal(raw, &recs); err != nil {
		s.logger.Warnw("Discarding unreadable collection snapshot", "key", s.key, "error", err)
		return []entities.TaskRecord{}, nil
	}
	return recs, nil
}

// Create appends the record and rewrites the snapshot.
func (s *LocalStore) Create(ctx context.Context, rec entities.TaskRecord) (entities.TaskRecord, error) {
	recs, err := s.List(ctx)
	if err != nil {
		return entities.TaskRecord{}, err
	}

	recs = append(recs, rec)
	if err := s.save(ctx, recs); err != nil {
		return entities.TaskRecord{}, err
	}
	return rec, nil
}

// Update replaces the record matched by id and rewrites the snapshot.
func (s *LocalStore) Update(ctx context.Context, rec entities.TaskRecord) (entities.TaskRecord, error) {
	recs, err := s.List(ctx)
	if err != nil {
		return entities.TaskRecord{}, err
	}

	found := false
	for i := range recs {
		if recs[i].ID == rec.ID {
			recs[i] = rec
			found = true
			break
		}
	}
	if !found {
		return entities.TaskRecord{}, entities.ErrTaskNotFound
	}

	if err := s.save(ctx, recs); err != nil {
		return entities.TaskRecord{}, err
	}
	return rec, nil
}

// Delete removes the record matched by id and rewrites the snapshot.
func (s *LocalStore) Delete(ctx context.Context, id string) error {
	recs, err := s.List(ctx)
	if err != nil {
		return err
	}

	idx := -1
	for i := range recs {
		if recs[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return entities.ErrTaskNotFound
	}

	recs = append(recs[:idx], recs[idx+1:]...)
	return s.save(ctx, recs)
}

// SaveOrder rewrites the snapshot with the supplied ordering.
func (s *LocalStore) SaveOrder(ctx context.Context, recs []entities.TaskRecord) error {
	return s.save(ctx, recs)
}

// Authoritative is false: ids are assigned by the caller.
func (s *LocalStore) Authoritative() bool {
	return false
}

func (s *LocalStore) save(ctx context.Context, recs []entities.TaskRecord) error {
	raw, err := json.Marshal(recs)
	if err != nil {
		return fmt.Errorf("%w: encode collection: %v", entities.ErrStorage, err)
	}

	if err := s.client.Set(ctx, s.key, raw, 0).Err(); err != nil {
		return fmt.Errorf("%w: write collection: %v", entities.ErrStorage, err)
	}
	return nil
}
