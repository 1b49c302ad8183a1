package collection

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/taskboard/core/internal/domain/entities"
	"github.com/taskboard/core/internal/infrastructure/logger"
	"github.com/taskboard/core/internal/ports"
)

// todoDTO is the wire shape of a task on the todos API. The identifier key
// differs from the canonical model, and the redundant completed boolean is
// always written in lockstep with status.
type todoDTO struct {
	ID          string     `json:"_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Completed   bool       `json:"completed"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// todoPayload is the request body for create and update.
type todoPayload struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Completed   bool       `json:"completed"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
}

type dataEnvelope struct {
	Data json.RawMessage `json:"data"`
}

type errorEnvelope struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// apiClient issues authenticated JSON requests against the API. Any 401
// response invalidates the session so the caller re-authenticates.
type apiClient struct {
	baseURL string
	client  *http.Client
	session ports.Session
	logger  *logger.Logger
}

func newAPIClient(baseURL string, timeout time.Duration, session ports.Session, log *logger.Logger) *apiClient {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &apiClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		session: session,
		logger:  log,
	}
}

func (c *apiClient) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token, ok := c.session.Token(); ok {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", entities.ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		// The credential is no longer valid; drop the session so the UI
		// layer forces re-authentication.
		c.session.Clear()
		c.logger.Warnw("Session invalidated by API", "path", path)
		return fmt.Errorf("%w: %s", entities.ErrUnauthorized, apiError(resp))
	}
	if resp.StatusCode == http.StatusNotFound {
		return entities.ErrTaskNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: %s returned %d: %s", entities.ErrNetwork, path, resp.StatusCode, apiError(resp))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("%w: decode response: %v", entities.ErrNetwork, err)
		}
	}
	return nil
}

func apiError(resp *http.Response) string {
	var env errorEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err == nil {
		if env.Error != "" {
			return env.Error
		}
		if env.Message != "" {
			return env.Message
		}
	}
	return http.StatusText(resp.StatusCode)
}

// RemoteStore is the remote persistence variant: individual requests against
// the todos API, authenticated with the session's bearer credential.
type RemoteStore struct {
	api *apiClient
}

// NewRemoteStore creates a remote collection store for the given API base
// URL, for example "http://localhost:5000/api".
func NewRemoteStore(baseURL string, timeout time.Duration, session ports.Session, log *logger.Logger) *RemoteStore {
	return &RemoteStore{api: newAPIClient(baseURL, timeout, session, log)}
}

var _ ports.CollectionStore = (*RemoteStore)(nil)

// List fetches the full collection.
func (s *RemoteStore) List(ctx context.Context) ([]entities.TaskRecord, error) {
	var env dataEnvelope
	if err := s.api.do(ctx, http.MethodGet, "/todos", nil, &env); err != nil {
		return nil, err
	}

	var dtos []todoDTO
	if err := json.Unmarshal(env.Data, &dtos); err != nil {
		return nil, fmt.Errorf("%w: decode todos: %v", entities.ErrNetwork, err)
	}

	recs := make([]entities.TaskRecord, 0, len(dtos))
	for _, dto := range dtos {
		recs = append(recs, recordFromDTO(dto))
	}
	return recs, nil
}

// Create posts the record and returns the server's version, including the
// server-assigned identifier.
func (s *RemoteStore) Create(ctx context.Context, rec entities.TaskRecord) (entities.TaskRecord, error) {
	var env dataEnvelope
	if err := s.api.do(ctx, http.MethodPost, "/todos", payloadFromRecord(rec), &env); err != nil {
		return entities.TaskRecord{}, err
	}
	return recordFromEnvelope(env)
}

// Update puts the fully merged record by id.
func (s *RemoteStore) Update(ctx context.Context, rec entities.TaskRecord) (entities.TaskRecord, error) {
	var env dataEnvelope
	if err := s.api.do(ctx, http.MethodPut, "/todos/"+rec.ID, payloadFromRecord(rec), &env); err != nil {
		return entities.TaskRecord{}, err
	}
	return recordFromEnvelope(env)
}

// Delete removes the record by id.
func (s *RemoteStore) Delete(ctx context.Context, id string) error {
	return s.api.do(ctx, http.MethodDelete, "/todos/"+id, nil, nil)
}

// SaveOrder is a no-op: the API has no ordering concept, so same-column
// order stays presentation-local.
func (s *RemoteStore) SaveOrder(ctx context.Context, recs []entities.TaskRecord) error {
	return nil
}

// Authoritative is true: record ids are assigned server-side.
func (s *RemoteStore) Authoritative() bool {
	return true
}

func recordFromEnvelope(env dataEnvelope) (entities.TaskRecord, error) {
	var dto todoDTO
	if err := json.Unmarshal(env.Data, &dto); err != nil {
		return entities.TaskRecord{}, fmt.Errorf("%w: decode todo: %v", entities.ErrNetwork, err)
	}
	return recordFromDTO(dto), nil
}

// recordFromDTO resolves the status/completed duality in favor of a valid
// status; a DTO carrying only the boolean falls back to completed or todo.
func recordFromDTO(dto todoDTO) entities.TaskRecord {
	status := entities.Status(dto.Status)
	if !status.IsValid() {
		if dto.Completed {
			status = entities.StatusCompleted
		} else {
			status = entities.StatusTodo
		}
	}

	priority := entities.Priority(dto.Priority)
	if !priority.IsValid() {
		priority = entities.PriorityMedium
	}

	return entities.TaskRecord{
		ID:          dto.ID,
		Title:       dto.Title,
		Description: dto.Description,
		Status:      status,
		Priority:    priority,
		DueDate:     dto.DueDate,
		CreatedAt:   dto.CreatedAt,
		UpdatedAt:   dto.UpdatedAt,
	}
}

func payloadFromRecord(rec entities.TaskRecord) todoPayload {
	return todoPayload{
		Title:       rec.Title,
		Description: rec.Description,
		Completed:   rec.Completed(),
		Status:      string(rec.Status),
		Priority:    string(rec.Priority),
		DueDate:     rec.DueDate,
	}
}
