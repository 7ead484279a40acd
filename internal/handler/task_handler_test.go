package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"tasktrack/internal/handler"
	"tasktrack/internal/middleware"
	"tasktrack/internal/model"
	"tasktrack/internal/repository"
	"tasktrack/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubTaskRepo is a minimal in-memory task store for handler tests.
type stubTaskRepo struct {
	tasks map[uuid.UUID]model.Task
	order []uuid.UUID
}

func newStubTaskRepo() *stubTaskRepo {
	return &stubTaskRepo{tasks: make(map[uuid.UUID]model.Task)}
}

func (r *stubTaskRepo) Create(_ context.Context, task *model.Task) error {
	if task.ID == uuid.Nil {
		task.ID = uuid.New()
	}
	task.CreatedAt = time.Now()
	r.tasks[task.ID] = *task
	r.order = append(r.order, task.ID)
	return nil
}

func (r *stubTaskRepo) GetByID(_ context.Context, id uuid.UUID) (*model.Task, error) {
	task, ok := r.tasks[id]
	if !ok {
		return nil, repository.ErrTaskNotFound
	}
	return &task, nil
}

func (r *stubTaskRepo) Update(_ context.Context, task *model.Task) error {
	if _, ok := r.tasks[task.ID]; !ok {
		return repository.ErrTaskNotFound
	}
	r.tasks[task.ID] = *task
	return nil
}

func (r *stubTaskRepo) SetStatus(_ context.Context, id uuid.UUID, status model.Status) error {
	task, ok := r.tasks[id]
	if !ok {
		return repository.ErrTaskNotFound
	}
	task.Status = status
	r.tasks[id] = task
	return nil
}

func (r *stubTaskRepo) ListPage(_ context.Context, offset, limit int) ([]model.Task, error) {
	if offset >= len(r.order) {
		return nil, nil
	}
	end := offset + limit
	if end > len(r.order) {
		end = len(r.order)
	}
	page := make([]model.Task, 0, end-offset)
	for _, id := range r.order[offset:end] {
		page = append(page, r.tasks[id])
	}
	return page, nil
}

func (r *stubTaskRepo) CountAll(_ context.Context) (int64, error) {
	return int64(len(r.order)), nil
}

// stubUserRepo serves directory lookups from a fixed set.
type stubUserRepo struct {
	users map[uuid.UUID]model.User
}

func newStubUserRepo(users ...model.User) *stubUserRepo {
	r := &stubUserRepo{users: make(map[uuid.UUID]model.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *stubUserRepo) Create(_ context.Context, user *model.User) error {
	r.users[user.ID] = *user
	return nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, nil
}

func (r *stubUserRepo) GetByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *stubUserRepo) GetByIDs(_ context.Context, ids []uuid.UUID) ([]model.User, error) {
	var found []model.User
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			found = append(found, u)
		}
	}
	return found, nil
}

func (r *stubUserRepo) Search(_ context.Context, _ string, _ int) ([]model.User, error) {
	return nil, nil
}

func (r *stubUserRepo) ListAll(_ context.Context) ([]model.User, error) {
	var all []model.User
	for _, u := range r.users {
		all = append(all, u)
	}
	return all, nil
}

// testAuth stands in for the JWT middleware: the acting user comes from the
// X-Test-User header.
func testAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw := c.GetHeader("X-Test-User"); raw != "" {
			if id, err := uuid.Parse(raw); err == nil {
				c.Set(middleware.UserIDKey, id)
			}
		}
		c.Next()
	}
}

func setupTaskRouter(users ...model.User) (*gin.Engine, *stubTaskRepo) {
	gin.SetMode(gin.TestMode)
	r := gin.Default()

	taskRepo := newStubTaskRepo()
	userRepo := newStubUserRepo(users...)
	svc := service.NewTaskService(taskRepo, userRepo, false)
	query := service.NewTaskQuery(taskRepo, userRepo)
	taskHandler := handler.NewTaskHandler(svc, query, userRepo)

	authorized := r.Group("/")
	authorized.Use(testAuth())
	{
		authorized.GET("/tasks/form", taskHandler.Form)
		authorized.GET("/tasks/table", taskHandler.Table)
		authorized.POST("/tasks", taskHandler.Create)
		authorized.GET("/tasks", taskHandler.List)
		authorized.GET("/tasks/:id", taskHandler.GetByID)
		authorized.PUT("/tasks/:id", taskHandler.Update)
		authorized.DELETE("/tasks/:id", taskHandler.Delete)
		authorized.POST("/tasks/:id/restore", taskHandler.Restore)
	}

	return r, taskRepo
}

func taskBody(assignees ...uuid.UUID) map[string]interface{} {
	ids := make([]string, len(assignees))
	for i, id := range assignees {
		ids[i] = id.String()
	}
	return map[string]interface{}{
		"title":            "Write report",
		"task_description": "Quarterly numbers",
		"assign_to":        ids,
		"start_date":       "2026-01-10",
		"end_date":         "2026-01-20",
		"flag":             "important",
		"priority":         "high",
	}
}

func doJSON(router *gin.Engine, method, path string, body interface{}, actingUser uuid.UUID) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if actingUser != uuid.Nil {
		req.Header.Set("X-Test-User", actingUser.String())
	}
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestTaskHandler_Create_Success(t *testing.T) {
	router, _ := setupTaskRouter()
	creator := uuid.New()

	resp := doJSON(router, "POST", "/tasks", taskBody(uuid.New()), creator)

	assert.Equal(t, http.StatusOK, resp.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, "success", body["status"])
	assert.Equal(t, "Task created successfully!", body["message"])
	assert.Contains(t, body["redirect_url"], "/tasks/")
}

func TestTaskHandler_Create_ValidationErrors(t *testing.T) {
	router, _ := setupTaskRouter()

	resp := doJSON(router, "POST", "/tasks", map[string]interface{}{}, uuid.New())

	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)

	var body struct {
		Status  string              `json:"status"`
		Message string              `json:"message"`
		Errors  map[string][]string `json:"errors"`
		Code    string              `json:"code"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, "failed", body.Status)
	assert.Equal(t, "All Fields Required", body.Message)
	assert.Equal(t, "VALIDATION_ERROR", body.Code)
	assert.Contains(t, body.Errors, "title")
	assert.Contains(t, body.Errors, "assign_to")
}

func TestTaskHandler_GetByID_Envelope(t *testing.T) {
	alice := model.User{
		ID:             uuid.New(),
		Name:           "Alice",
		Email:          "alice@example.com",
		HashedPassword: "$2a$10$secretbcrypt",
		UserType:       "manager",
	}
	bob := model.User{ID: uuid.New(), Name: "Bob"}
	router, repo := setupTaskRouter(alice, bob)

	createResp := doJSON(router, "POST", "/tasks", taskBody(bob.ID), alice.ID)
	require.Equal(t, http.StatusOK, createResp.Code)
	taskID := repo.order[0]

	resp := doJSON(router, "GET", "/tasks/"+taskID.String(), nil, alice.ID)

	assert.Equal(t, http.StatusOK, resp.Code)

	// The creator appears as a directory summary only
	raw := resp.Body.String()
	assert.NotContains(t, raw, "$2a$10$secretbcrypt")
	assert.NotContains(t, raw, "alice@example.com")
	assert.NotContains(t, raw, "HashedPassword")

	var body struct {
		Data handler.TaskResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, taskID.String(), body.Data.ID)
	assert.Equal(t, "Write report", body.Data.Title)
	assert.Equal(t, "Quarterly numbers", body.Data.Description)
	assert.Equal(t, []string{bob.ID.String()}, body.Data.AssignTo)
	assert.Equal(t, alice.ID.String(), body.Data.CreatedBy)
	assert.Equal(t, "2026-01-10", body.Data.StartDate)
	assert.Equal(t, "2026-01-20", body.Data.EndDate)
	assert.Equal(t, "active", body.Data.Status)
	assert.Equal(t, "Alice", body.Data.Creator.Name)
	assert.Equal(t, "manager", body.Data.Creator.UserType)
	assert.Empty(t, body.Data.Creator.Email)
}

func TestTaskHandler_GetByID_NotFound(t *testing.T) {
	router, _ := setupTaskRouter()

	resp := doJSON(router, "GET", "/tasks/"+uuid.New().String(), nil, uuid.New())

	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.Contains(t, resp.Body.String(), "TASK_NOT_FOUND")
}

func TestTaskHandler_Update_NotCreator(t *testing.T) {
	router, repo := setupTaskRouter()
	creator := uuid.New()

	createResp := doJSON(router, "POST", "/tasks", taskBody(uuid.New()), creator)
	require.Equal(t, http.StatusOK, createResp.Code)
	taskID := repo.order[0]

	resp := doJSON(router, "PUT", "/tasks/"+taskID.String(), taskBody(uuid.New()), uuid.New())

	assert.Equal(t, http.StatusForbidden, resp.Code)
	assert.Contains(t, resp.Body.String(), "NOT_TASK_CREATOR")
}

func TestTaskHandler_DeleteTwice_Conflicts(t *testing.T) {
	router, repo := setupTaskRouter()
	creator := uuid.New()

	createResp := doJSON(router, "POST", "/tasks", taskBody(uuid.New()), creator)
	require.Equal(t, http.StatusOK, createResp.Code)
	taskID := repo.order[0]

	first := doJSON(router, "DELETE", "/tasks/"+taskID.String(), nil, creator)
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Contains(t, first.Body.String(), "Task status updated to deleted")

	second := doJSON(router, "DELETE", "/tasks/"+taskID.String(), nil, creator)
	assert.Equal(t, http.StatusConflict, second.Code)
	assert.Contains(t, second.Body.String(), "Task is already deleted")
}

func TestTaskHandler_Restore(t *testing.T) {
	router, repo := setupTaskRouter()
	creator := uuid.New()

	createResp := doJSON(router, "POST", "/tasks", taskBody(uuid.New()), creator)
	require.Equal(t, http.StatusOK, createResp.Code)
	taskID := repo.order[0]

	deleteResp := doJSON(router, "DELETE", "/tasks/"+taskID.String(), nil, creator)
	require.Equal(t, http.StatusOK, deleteResp.Code)

	resp := doJSON(router, "POST", "/tasks/"+taskID.String()+"/restore", nil, creator)

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "Task restored successfully")

	// Restore of an already-active task is still a success by default
	again := doJSON(router, "POST", "/tasks/"+taskID.String()+"/restore", nil, creator)
	assert.Equal(t, http.StatusOK, again.Code)
}

func TestTaskHandler_List_Envelope(t *testing.T) {
	alice := model.User{ID: uuid.New(), Name: "Alice"}
	router, _ := setupTaskRouter(alice)

	for i := 0; i < 3; i++ {
		body := taskBody(alice.ID)
		body["title"] = fmt.Sprintf("Task %d", i+1)
		resp := doJSON(router, "POST", "/tasks", body, alice.ID)
		require.Equal(t, http.StatusOK, resp.Code)
	}

	resp := doJSON(router, "GET", "/tasks?start=0&length=2", nil, alice.ID)

	assert.Equal(t, http.StatusOK, resp.Code)

	var body struct {
		RecordsTotal    int64             `json:"recordsTotal"`
		RecordsFiltered int64             `json:"recordsFiltered"`
		Data            []service.TaskRow `json:"data"`
		Status          string            `json:"status"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, int64(3), body.RecordsTotal)
	assert.Equal(t, int64(3), body.RecordsFiltered)
	assert.Equal(t, "success", body.Status)
	require.Len(t, body.Data, 2)
	assert.Equal(t, "Task 1", body.Data[0].Title)
	assert.Equal(t, "Alice", body.Data[0].CreatedByName)
	assert.Equal(t, "Alice", body.Data[0].AssignToNames)
}

func TestTaskHandler_Table_Bootstrap(t *testing.T) {
	alice := model.User{ID: uuid.New(), Name: "Alice"}
	router, _ := setupTaskRouter(alice)

	resp := doJSON(router, "GET", "/tasks/table", nil, alice.ID)

	assert.Equal(t, http.StatusOK, resp.Code)

	var body struct {
		Columns []service.Column      `json:"columns"`
		Users   []handler.UserSummary `json:"users"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Len(t, body.Columns, 11)
	require.Len(t, body.Users, 1)
	assert.Equal(t, "Alice", body.Users[0].Name)
}

func TestTaskHandler_Form_ListsUsers(t *testing.T) {
	alice := model.User{ID: uuid.New(), Name: "Alice"}
	bob := model.User{ID: uuid.New(), Name: "Bob"}
	router, _ := setupTaskRouter(alice, bob)

	resp := doJSON(router, "GET", "/tasks/form", nil, alice.ID)

	assert.Equal(t, http.StatusOK, resp.Code)

	var body struct {
		Users []handler.UserSummary `json:"users"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Len(t, body.Users, 2)
}
