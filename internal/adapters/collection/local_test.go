package collection

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskboard/core/internal/domain/entities"
	"github.com/taskboard/core/internal/infrastructure/logger"
)

const testKey = "taskboard-tasks"

func newTestLocalStore(t *testing.T) (*LocalStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewLocalStore(client, testKey, logger.NewNop()), mr
}

func sampleRecord(id string) entities.TaskRecord {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	return entities.TaskRecord{
		ID:        id,
		Title:     "task " + id,
		Status:    entities.StatusTodo,
		Priority:  entities.PriorityMedium,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestLocalStoreEmptySlot(t *testing.T) {
	store, _ := newTestLocalStore(t)

	recs, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestLocalStoreCreateAndList(t *testing.T) {
	store, _ := newTestLocalStore(t)
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		_, err := store.Create(ctx, sampleRecord(id))
		require.NoError(t, err)
	}

	recs, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, "a", recs[0].ID)
	assert.Equal(t, "c", recs[2].ID)
}

func TestLocalStoreUpdate(t *testing.T) {
	store, _ := newTestLocalStore(t)
	ctx := context.Background()

	_, err := store.Create(ctx, sampleRecord("a"))
	require.NoError(t, err)

	changed := sampleRecord("a")
	changed.Title = "renamed"
	changed.Status = entities.StatusCompleted
	_, err = store.Update(ctx, changed)
	require.NoError(t, err)

	recs, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "renamed", recs[0].Title)
	assert.Equal(t, entities.StatusCompleted, recs[0].Status)
}

func TestLocalStoreUpdateUnknownID(t *testing.T) {
	store, _ := newTestLocalStore(t)

	_, err := store.Update(context.Background(), sampleRecord("ghost"))
	assert.ErrorIs(t, err, entities.ErrTaskNotFound)
}

func TestLocalStoreDelete(t *testing.T) {
	store, _ := newTestLocalStore(t)
	ctx := context.Background()

	_, err := store.Create(ctx, sampleRecord("a"))
	require.NoError(t, err)
	_, err = store.Create(ctx, sampleRecord("b"))
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, "a"))

	recs, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "b", recs[0].ID)
}

func TestLocalStoreDeleteUnknownID(t *testing.T) {
	store, _ := newTestLocalStore(t)
	assert.ErrorIs(t, store.Delete(context.Background(), "ghost"), entities.ErrTaskNotFound)
}

func TestLocalStoreSaveOrder(t *testing.T) {
	store, _ := newTestLocalStore(t)
	ctx := context.Background()

	_, err := store.Create(ctx, sampleRecord("a"))
	require.NoError(t, err)
	_, err = store.Create(ctx, sampleRecord("b"))
	require.NoError(t, err)

	require.NoError(t, store.SaveOrder(ctx, []entities.TaskRecord{sampleRecord("b"), sampleRecord("a")}))

	recs, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "b", recs[0].ID)
	assert.Equal(t, "a", recs[1].ID)
}

func TestLocalStoreUnreadableSnapshot(t *testing.T) {
	store, mr := newTestLocalStore(t)

	require.NoError(t, mr.Set(testKey, "{not json"))

	// Corrupt content falls back to an empty collection instead of failing.
	recs, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestLocalStoreNotAuthoritative(t *testing.T) {
	store, _ := newTestLocalStore(t)
	assert.False(t, store.Authoritative())
}
