package collection

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskboard/core/internal/domain/entities"
	"github.com/taskboard/core/internal/infrastructure/logger"
	"github.com/taskboard/core/internal/ports"
)

func newTestRemoteStore(handler http.Handler) (*RemoteStore, *MemorySession, *httptest.Server) {
	srv := httptest.NewServer(handler)
	session := NewMemorySession()
	session.Establish("test-token", &entities.User{Username: "alice"})
	store := NewRemoteStore(srv.URL, 5*time.Second, session, logger.NewNop())
	return store, session, srv
}

func TestRemoteStoreListMapsWireFormat(t *testing.T) {
	var gotAuth string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/todos", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data": [
			{"_id": "srv-1", "title": "first", "completed": false, "status": "inprogress", "priority": "high"},
			{"_id": "srv-2", "title": "second", "completed": true, "status": "", "priority": ""}
		]}`))
	})

	store, _, srv := newTestRemoteStore(handler)
	defer srv.Close()

	recs, err := store.List(context.Background())
	require.NoError(t, err)
	require.Len(t, recs, 2)

	assert.Equal(t, "srv-1", recs[0].ID)
	assert.Equal(t, entities.StatusInProgress, recs[0].Status)
	assert.Equal(t, entities.PriorityHigh, recs[0].Priority)

	// A DTO with no usable status resolves from the completed boolean, and
	// an unusable priority falls back to medium.
	assert.Equal(t, entities.StatusCompleted, recs[1].Status)
	assert.Equal(t, entities.PriorityMedium, recs[1].Priority)

	assert.Equal(t, "Bearer test-token", gotAuth)
}

func TestRemoteStoreCreateReturnsServerRecord(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)

		var payload map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "new task", payload["title"])
		assert.Equal(t, false, payload["completed"])
		assert.Equal(t, "todo", payload["status"])
		// The client's placeholder id never goes on the wire.
		assert.NotContains(t, payload, "_id")

		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"data": {"_id": "srv-9", "title": "new task", "status": "todo", "priority": "medium"}}`))
	})

	store, _, srv := newTestRemoteStore(handler)
	defer srv.Close()

	rec := entities.TaskRecord{
		ID:       "local-placeholder",
		Title:    "new task",
		Status:   entities.StatusTodo,
		Priority: entities.PriorityMedium,
	}
	stored, err := store.Create(context.Background(), rec)
	require.NoError(t, err)
	assert.Equal(t, "srv-9", stored.ID)
}

func TestRemoteStoreUpdateWritesCompletedInLockstep(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/todos/srv-1", r.URL.Path)

		var payload map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "completed", payload["status"])
		assert.Equal(t, true, payload["completed"])

		w.Write([]byte(`{"data": {"_id": "srv-1", "title": "x", "status": "completed", "priority": "medium"}}`))
	})

	store, _, srv := newTestRemoteStore(handler)
	defer srv.Close()

	rec := entities.TaskRecord{ID: "srv-1", Title: "x", Status: entities.StatusCompleted, Priority: entities.PriorityMedium}
	stored, err := store.Update(context.Background(), rec)
	require.NoError(t, err)
	assert.True(t, stored.Completed())
}

func TestRemoteStoreNotFound(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": "Todo not found"}`, http.StatusNotFound)
	})

	store, _, srv := newTestRemoteStore(handler)
	defer srv.Close()

	err := store.Delete(context.Background(), "ghost")
	assert.ErrorIs(t, err, entities.ErrTaskNotFound)
}

func TestRemoteStoreUnauthorizedClearsSession(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": "Invalid token"}`, http.StatusUnauthorized)
	})

	store, session, srv := newTestRemoteStore(handler)
	defer srv.Close()

	_, err := store.List(context.Background())
	assert.ErrorIs(t, err, entities.ErrUnauthorized)

	_, ok := session.Token()
	assert.False(t, ok, "session should be cleared after a 401")
	_, ok = session.CurrentUser()
	assert.False(t, ok)
}

func TestRemoteStoreTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close() // refuse connections

	session := NewMemorySession()
	store := NewRemoteStore(srv.URL, time.Second, session, logger.NewNop())

	_, err := store.List(context.Background())
	assert.ErrorIs(t, err, entities.ErrNetwork)
}

func TestRemoteStoreServerErrorMapsToNetwork(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message": "boom"}`, http.StatusInternalServerError)
	})

	store, _, srv := newTestRemoteStore(handler)
	defer srv.Close()

	_, err := store.List(context.Background())
	assert.ErrorIs(t, err, entities.ErrNetwork)
}

func TestRemoteStoreSaveOrderIsNoOp(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})

	store, _, srv := newTestRemoteStore(handler)
	defer srv.Close()

	assert.NoError(t, store.SaveOrder(context.Background(), nil))
	assert.True(t, store.Authoritative())
}

func TestAuthClientLoginEstablishesSession(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/login", r.URL.Path)
		w.Write([]byte(`{"success": true, "data": {"token": "issued-token", "user": {"username": "alice", "email": "alice@example.com"}}}`))
	})
	srv := httptest.NewServer(handler)
	defer srv.Close()

	session := NewMemorySession()
	client := NewAuthClient(srv.URL, time.Second, session, logger.NewNop())

	user, err := client.Login(context.Background(), ports.LoginRequest{Email: "alice@example.com", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)

	token, ok := session.Token()
	require.True(t, ok)
	assert.Equal(t, "issued-token", token)
}

func TestAuthClientLoginRejected(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success": false, "data": {}}`))
	})
	srv := httptest.NewServer(handler)
	defer srv.Close()

	session := NewMemorySession()
	client := NewAuthClient(srv.URL, time.Second, session, logger.NewNop())

	_, err := client.Login(context.Background(), ports.LoginRequest{Email: "a@b.c", Password: "pw"})
	assert.ErrorIs(t, err, entities.ErrUnauthorized)

	_, ok := session.Token()
	assert.False(t, ok)
}

func TestAuthClientLogout(t *testing.T) {
	session := NewMemorySession()
	session.Establish("token", &entities.User{Username: "alice"})

	client := NewAuthClient("http://localhost", time.Second, session, logger.NewNop())
	client.Logout()

	_, ok := session.Token()
	assert.False(t, ok)
}
