package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/taskboard/core/internal/application/services"
	"github.com/taskboard/core/internal/domain/entities"
	"github.com/taskboard/core/internal/infrastructure/logger"
	"github.com/taskboard/core/internal/ports"
)

// todoResponse is the wire shape of a task, with the legacy identifier key
// and the completed boolean derived from status.
type todoResponse struct {
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

// todoRequest is the create/update body; absent fields are left untouched
// on update.
type todoRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Completed   *bool      `json:"completed"`
	Status      *string    `json:"status"`
	Priority    *string    `json:"priority"`
	DueDate     *time.Time `json:"dueDate"`
}

type dataResponse struct {
	Data interface{} `json:"data"`
}

type authResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
}

// MessageResponse is a plain message payload
type MessageResponse struct {
	Message string `json:"message"`
}

// TodoHandler handles todo collection requests
type TodoHandler struct {
	todoService *services.TodoService
	logger      *logger.Logger
}

// NewTodoHandler creates a new todo handler
func NewTodoHandler(todoService *services.TodoService, logger *logger.Logger) *TodoHandler {
	return &TodoHandler{
		todoService: todoService,
		logger:      logger,
	}
}

// List handles GET /todos
func (h *TodoHandler) List(c echo.Context) error {
	userID := getUserIDFromContext(c)

	recs, err := h.todoService.ListTodos(c.Request().Context(), userID)
	if err != nil {
		h.logger.Error("List todos failed", "error", err, "user_id", userID)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to list todos")
	}

	dtos := make([]todoResponse, 0, len(recs))
	for i := range recs {
		dtos = append(dtos, toTodoResponse(&recs[i]))
	}
	return c.JSON(http.StatusOK, dataResponse{Data: dtos})
}

// Create handles POST /todos
func (h *TodoHandler) Create(c echo.Context) error {
	userID := getUserIDFromContext(c)

	var req todoRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	draft := ports.DraftTask{DueDate: req.DueDate}
	if req.Title != nil {
		draft.Title = *req.Title
	}
	if req.Description != nil {
		draft.Description = *req.Description
	}
	if req.Status != nil {
		draft.Status = entities.Status(*req.Status)
	} else if req.Completed != nil && *req.Completed {
		draft.Status = entities.StatusCompleted
	}
	if req.Priority != nil {
		draft.Priority = entities.Priority(*req.Priority)
	}

	rec, err := h.todoService.CreateTodo(c.Request().Context(), userID, draft)
	if err != nil {
		h.logger.Error("Create todo failed", "error", err, "user_id", userID)
		return todoError(err)
	}

	return c.JSON(http.StatusCreated, dataResponse{Data: toTodoResponse(rec)})
}

// Update handles PUT /todos/:id
func (h *TodoHandler) Update(c echo.Context) error {
	userID := getUserIDFromContext(c)
	id := c.Param("id")

	var req todoRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	patch := ports.TaskPatch{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		Completed:   req.Completed,
	}
	if req.Status != nil {
		status := entities.Status(*req.Status)
		patch.Status = &status
	}
	if req.Priority != nil {
		priority := entities.Priority(*req.Priority)
		patch.Priority = &priority
	}

	rec, err := h.todoService.UpdateTodo(c.Request().Context(), userID, id, patch)
	if err != nil {
		h.logger.Error("Update todo failed", "error", err, "user_id", userID, "task_id", id)
		return todoError(err)
	}

	return c.JSON(http.StatusOK, dataResponse{Data: toTodoResponse(rec)})
}

// Delete handles DELETE /todos/:id
func (h *TodoHandler) Delete(c echo.Context) error {
	userID := getUserIDFromContext(c)
	id := c.Param("id")

	if err := h.todoService.DeleteTodo(c.Request().Context(), userID, id); err != nil {
		h.logger.Error("Delete todo failed", "error", err, "user_id", userID, "task_id", id)
		return todoError(err)
	}

	return c.NoContent(http.StatusNoContent)
}

// AuthHandler handles authentication requests
type AuthHandler struct {
	authService *services.AuthService
	logger      *logger.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *services.AuthService, logger *logger.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// Register handles POST /auth/register
func (h *AuthHandler) Register(c echo.Context) error {
	var req ports.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.authService.Register(c.Request().Context(), req)
	if err != nil {
		h.logger.Error("Registration failed", "error", err, "email", req.Email)
		if errors.Is(err, entities.ErrEmailTaken) || errors.Is(err, entities.ErrUsernameTaken) {
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}
		return echo.NewHTTPError(http.StatusBadRequest, "Registration failed")
	}

	return c.JSON(http.StatusCreated, authResponse{Success: true, Data: result})
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(c echo.Context) error {
	var req ports.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.authService.Login(c.Request().Context(), req)
	if err != nil {
		h.logger.Warn("Login failed", "error", err, "email", req.Email)
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid credentials")
	}

	return c.JSON(http.StatusOK, authResponse{Success: true, Data: result})
}

// Me handles GET /auth/me
func (h *AuthHandler) Me(c echo.Context) error {
	userID := getUserIDFromContext(c)

	user, err := h.authService.GetUser(c.Request().Context(), userID)
	if err != nil {
		h.logger.Error("Get current user failed", "error", err, "user_id", userID)
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}

	return c.JSON(http.StatusOK, dataResponse{Data: user})
}

func toTodoResponse(rec *entities.TaskRecord) todoResponse {
	return todoResponse{
		ID:          rec.ID,
		Title:       rec.Title,
		Description: rec.Description,
		Completed:   rec.Completed(),
		Status:      string(rec.Status),
		Priority:    string(rec.Priority),
		DueDate:     rec.DueDate,
		CreatedAt:   rec.CreatedAt,
		UpdatedAt:   rec.UpdatedAt,
	}
}

func getUserIDFromContext(c echo.Context) uuid.UUID {
	user := c.Get("user")
	if user == nil {
		return uuid.Nil
	}

	if userStr, ok := user.(string); ok {
		userID, _ := uuid.Parse(userStr)
		return userID
	}

	return uuid.Nil
}

func todoError(err error) error {
	switch {
	case errors.Is(err, entities.ErrTaskNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Todo not found")
	case errors.Is(err, entities.ErrTitleRequired),
		errors.Is(err, entities.ErrInvalidStatus),
		errors.Is(err, entities.ErrInvalidPriority):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "Operation failed")
	}
}
