package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"tasktrack/internal/model"
	"tasktrack/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Store is the slice of the task store the handlers consume.
type Store interface {
	Add(ctx context.Context, task *model.Task) error
	GetAll(ctx context.Context) ([]*model.Task, error)
	GetByID(ctx context.Context, id string) (*model.Task, error)
	Update(ctx context.Context, id string, patch repository.TaskPatch) (*model.Task, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
	CompletedCount(ctx context.Context) (int64, error)
}

type TaskHandler struct {
	store Store
}

func NewTaskHandler(store Store) *TaskHandler {
	return &TaskHandler{store: store}
}

// TaskCreateRequest is the body of POST /tasks.
type TaskCreateRequest struct {
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"due_date"`
}

// OptionalTime distinguishes an absent field from an explicit null: its
// UnmarshalJSON only runs when the key is present in the body.
type OptionalTime struct {
	Set   bool
	Value *time.Time
}

func (o *OptionalTime) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Value = nil
		return nil
	}
	return json.Unmarshal(data, &o.Value)
}

// TaskUpdateRequest is the body of PUT /tasks/:id. Every field is optional;
// a null due_date clears the due date.
type TaskUpdateRequest struct {
	Title       *string      `json:"title"`
	Description *string      `json:"description"`
	Completed   *bool        `json:"completed"`
	DueDate     OptionalTime `json:"due_date"`
}

// TaskResponse is the wire representation of one task.
type TaskResponse struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Completed   bool    `json:"completed"`
	CreatedAt   string  `json:"created_at"`
	DueDate     *string `json:"due_date,omitempty"`
	Overdue     bool    `json:"overdue"`
}

// StatsResponse is the body of GET /stats.
type StatsResponse struct {
	Total     int64 `json:"total"`
	Completed int64 `json:"completed"`
}

func taskResponse(t *model.Task) TaskResponse {
	resp := TaskResponse{
		ID:          t.ID(),
		Title:       t.Title(),
		Description: t.Description(),
		Completed:   t.Completed(),
		CreatedAt:   t.CreatedAt().Format(time.RFC3339Nano),
		Overdue:     t.IsOverdue(),
	}
	if due := t.DueDate(); due != nil {
		formatted := due.Format(time.RFC3339)
		resp.DueDate = &formatted
	}
	return resp
}

// Create handles POST /tasks. The id is assigned here, before the entity
// is constructed.
func (h *TaskHandler) Create(c *gin.Context) {
	var req TaskCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	task, err := model.New(model.Params{
		ID:          uuid.NewString(),
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.store.Add(c.Request.Context(), task); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create task"})
		return
	}

	c.JSON(http.StatusCreated, taskResponse(task))
}

// List handles GET /tasks and returns the full listing, newest first.
func (h *TaskHandler) List(c *gin.Context) {
	tasks, err := h.store.GetAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve tasks"})
		return
	}

	out := make([]TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		out = append(out, taskResponse(task))
	}
	c.JSON(http.StatusOK, out)
}

// GetByID handles GET /tasks/:id.
func (h *TaskHandler) GetByID(c *gin.Context) {
	task, err := h.store.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve task"})
		return
	}
	if task == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return
	}
	c.JSON(http.StatusOK, taskResponse(task))
}

// Update handles PUT /tasks/:id with a partial body.
func (h *TaskHandler) Update(c *gin.Context) {
	var req TaskUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	patch := repository.TaskPatch{
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
		DueDate:     req.DueDate.Value,
		DueDateSet:  req.DueDate.Set,
	}

	task, err := h.store.Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrTaskNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		case model.IsValidation(err):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update task"})
		}
		return
	}
	c.JSON(http.StatusOK, taskResponse(task))
}

// Delete handles DELETE /tasks/:id. An unknown id still returns 200: the
// store treats absence as success.
func (h *TaskHandler) Delete(c *gin.Context) {
	if err := h.store.Delete(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete task"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Task deleted"})
}

// Stats handles GET /stats.
func (h *TaskHandler) Stats(c *gin.Context) {
	total, err := h.store.Count(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count tasks"})
		return
	}
	completed, err := h.store.CompletedCount(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count tasks"})
		return
	}
	c.JSON(http.StatusOK, StatsResponse{Total: total, Completed: completed})
}
