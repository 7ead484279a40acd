package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"tasktrack/internal/middleware"
	"tasktrack/internal/model"
	"tasktrack/internal/repository"
	"tasktrack/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type TaskHandler struct {
	service *service.TaskService
	query   *service.TaskQuery
	users   repository.UserRepositoryInterface
}

func NewTaskHandler(svc *service.TaskService, query *service.TaskQuery, users repository.UserRepositoryInterface) *TaskHandler {
	return &TaskHandler{service: svc, query: query, users: users}
}

// TaskResponse is the single-task projection. The creator appears as a
// directory summary, never as the raw user record.
type TaskResponse struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"task_description"`
	AssignTo    []string    `json:"assign_to"`
	CreatedBy   string      `json:"created_by"`
	StartDate   string      `json:"start_date"`
	EndDate     string      `json:"end_date"`
	Flag        string      `json:"flag"`
	Priority    string      `json:"priority"`
	Status      string      `json:"status"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
	Creator     UserSummary `json:"creator"`
}

func toTaskResponse(t *model.Task) TaskResponse {
	assignees := t.AssigneeIDs()
	ids := make([]string, len(assignees))
	for i, id := range assignees {
		ids[i] = id.String()
	}

	// The creator id comes from the task row even when the directory record
	// is gone.
	creator := toUserSummary(&t.Creator, false)
	creator.ID = t.CreatedBy.String()

	return TaskResponse{
		ID:          t.ID.String(),
		Title:       t.Title,
		Description: t.Description,
		AssignTo:    ids,
		CreatedBy:   t.CreatedBy.String(),
		StartDate:   t.StartDate.Format(service.DateLayout),
		EndDate:     t.EndDate.Format(service.DateLayout),
		Flag:        t.Flag,
		Priority:    t.Priority,
		Status:      string(t.Status),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
		Creator:     creator,
	}
}

// actingUser pulls the authenticated user's id placed by the auth
// middleware.
func actingUser(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(middleware.UserIDKey)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

// Form returns the data the create/edit form consumes: every assignable user.
// @Summary Task form bootstrap
// @Tags Tasks
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /tasks/form [get]
func (h *TaskHandler) Form(c *gin.Context) {
	users, err := h.users.ListAll(c.Request.Context())
	if err != nil {
		h.internalError(c, "list users for form", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": toUserSummaries(users)})
}

// Table returns the listing page bootstrap: column metadata plus the
// assignable users.
// @Summary Task table bootstrap
// @Tags Tasks
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /tasks/table [get]
func (h *TaskHandler) Table(c *gin.Context) {
	users, err := h.users.ListAll(c.Request.Context())
	if err != nil {
		h.internalError(c, "list users for table", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"columns": service.Columns(),
		"users":   toUserSummaries(users),
	})
}

// Create stores a new task owned by the acting user.
// @Summary Create a task
// @Tags Tasks
// @Accept json
// @Produce json
// @Param task body service.TaskPayload true "Task fields"
// @Success 200 {object} map[string]interface{}
// @Failure 422 {object} map[string]interface{}
// @Security BearerAuth
// @Router /tasks [post]
func (h *TaskHandler) Create(c *gin.Context) {
	userID, ok := actingUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var payload service.TaskPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.malformedBody(c)
		return
	}

	task, err := h.service.Submit(c.Request.Context(), payload, userID)
	if err != nil {
		h.writeError(c, "create task", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":       "success",
		"message":      "Task created successfully!",
		"redirect_url": "/tasks/" + task.ID.String(),
	})
}

// List serves one page of the task table.
// @Summary List tasks
// @Tags Tasks
// @Produce json
// @Param start query int false "Zero-based row offset"
// @Param length query int false "Page length"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /tasks [get]
func (h *TaskHandler) List(c *gin.Context) {
	start := intQuery(c, "start", 0)
	length := intQuery(c, "length", 0)

	page, err := h.query.ListPage(c.Request.Context(), start, length)
	if err != nil {
		h.internalError(c, "list tasks", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"recordsTotal":    page.Total,
		"recordsFiltered": page.Filtered,
		"data":            page.Rows,
		"status":          "success",
	})
}

// GetByID returns a single task with its creator attached. Soft-deleted
// tasks are still viewable.
// @Summary Get a task
// @Tags Tasks
// @Produce json
// @Param id path string true "Task ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Security BearerAuth
// @Router /tasks/{id} [get]
func (h *TaskHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.notFound(c)
		return
	}

	task, err := h.service.Fetch(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, "fetch task", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": toTaskResponse(task)})
}

// Update overwrites a task's mutable fields. Creator-only.
// @Summary Update a task
// @Tags Tasks
// @Accept json
// @Produce json
// @Param id path string true "Task ID"
// @Param task body service.TaskPayload true "Task fields"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 422 {object} map[string]interface{}
// @Security BearerAuth
// @Router /tasks/{id} [put]
func (h *TaskHandler) Update(c *gin.Context) {
	userID, ok := actingUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.notFound(c)
		return
	}

	var payload service.TaskPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.malformedBody(c)
		return
	}

	if _, err := h.service.Edit(c.Request.Context(), id, payload, userID); err != nil {
		h.writeError(c, "update task", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Task updated successfully!",
	})
}

// Delete soft-deletes a task. Creator-only; deleting twice is a conflict.
// @Summary Soft-delete a task
// @Tags Tasks
// @Produce json
// @Param id path string true "Task ID"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Security BearerAuth
// @Router /tasks/{id} [delete]
func (h *TaskHandler) Delete(c *gin.Context) {
	userID, ok := actingUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.notFound(c)
		return
	}

	task, err := h.service.SoftDelete(c.Request.Context(), id, userID)
	if err != nil {
		if errors.Is(err, service.ErrStatusConflict) {
			c.JSON(http.StatusConflict, gin.H{
				"status":  "failed",
				"message": "Task is already deleted",
				"code":    "STATUS_CONFLICT",
			})
			return
		}
		h.writeError(c, "delete task", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Task status updated to " + string(task.Status),
	})
}

// Restore reactivates a soft-deleted task. Creator-only; restoring an
// already-active task succeeds unless the restore guard is on.
// @Summary Restore a task
// @Tags Tasks
// @Produce json
// @Param id path string true "Task ID"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Security BearerAuth
// @Router /tasks/{id}/restore [post]
func (h *TaskHandler) Restore(c *gin.Context) {
	userID, ok := actingUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.notFound(c)
		return
	}

	if _, err := h.service.Restore(c.Request.Context(), id, userID); err != nil {
		if errors.Is(err, service.ErrStatusConflict) {
			c.JSON(http.StatusConflict, gin.H{
				"status":  "failed",
				"message": "Task is already active",
				"code":    "STATUS_CONFLICT",
			})
			return
		}
		h.writeError(c, "restore task", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Task restored successfully",
	})
}

// writeError maps domain errors onto the response envelope.
func (h *TaskHandler) writeError(c *gin.Context, op string, err error) {
	var vErr *service.ValidationError
	switch {
	case errors.As(err, &vErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status":  "failed",
			"message": "All Fields Required",
			"errors":  vErr.Fields,
			"code":    "VALIDATION_ERROR",
		})
	case errors.Is(err, service.ErrNotTaskCreator):
		c.JSON(http.StatusForbidden, gin.H{
			"status":  "failed",
			"message": "Only the task creator can modify this task",
			"code":    "NOT_TASK_CREATOR",
		})
	case errors.Is(err, repository.ErrTaskNotFound):
		h.notFound(c)
	default:
		h.internalError(c, op, err)
	}
}

func (h *TaskHandler) malformedBody(c *gin.Context) {
	c.JSON(http.StatusUnprocessableEntity, gin.H{
		"status":  "failed",
		"message": "All Fields Required",
		"errors":  gin.H{"body": []string{"The request body is not valid JSON."}},
		"code":    "VALIDATION_ERROR",
	})
}

func (h *TaskHandler) notFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{
		"status":  "failed",
		"message": "Task not found",
		"code":    "TASK_NOT_FOUND",
	})
}

// internalError keeps the upstream contract of answering unexpected
// failures with HTTP 200 and a terminate directive for the client.
func (h *TaskHandler) internalError(c *gin.Context, op string, err error) {
	slog.Error("task handler failure", "op", op, "error", err)
	c.JSON(http.StatusOK, gin.H{
		"status":  "failed",
		"message": "Something went wrong",
		"act":     "TERMINATE",
		"code":    "INTERNAL_ERROR",
	})
}

func intQuery(c *gin.Context, name string, fallback int) int {
	n, err := strconv.Atoi(c.Query(name))
	if err != nil {
		return fallback
	}
	return n
}
