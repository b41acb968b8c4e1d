package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/nhle/release-planner/internal/model"
)

// CreateTaskRequest is the body of POST /api/todos.
type CreateTaskRequest struct {
	Text     string         `json:"text"`
	Priority model.Priority `json:"priority"`
	DueDate  string         `json:"dueDate"`
}

// UpdateTaskRequest is the body of PUT /api/todos/{id}.
type UpdateTaskRequest struct {
	Text     string         `json:"text"`
	Priority model.Priority `json:"priority"`
}

// TodoClient wraps the task and dashboard endpoints.
type TodoClient struct {
	api Doer
}

// NewTodoClient returns a TodoClient issuing requests through api.
func NewTodoClient(api Doer) *TodoClient {
	return &TodoClient{api: api}
}

// ListByDate returns the tasks due on date (YYYY-MM-DD).
func (c *TodoClient) ListByDate(ctx context.Context, date string) ([]model.Task, error) {
	var tasks []model.Task
	path := "/api/todos?" + url.Values{"date": {date}}.Encode()
	if err := c.api.Do(ctx, http.MethodGet, path, nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// Create adds a task and returns the server's copy with its assigned ID.
func (c *TodoClient) Create(ctx context.Context, req CreateTaskRequest) (model.Task, error) {
	var task model.Task
	if err := c.api.Do(ctx, http.MethodPost, "/api/todos", req, &task); err != nil {
		return model.Task{}, err
	}
	return task, nil
}

// Update changes a task's text and priority.
func (c *TodoClient) Update(ctx context.Context, id int64, req UpdateTaskRequest) (model.Task, error) {
	var task model.Task
	if err := c.api.Do(ctx, http.MethodPut, fmt.Sprintf("/api/todos/%d", id), req, &task); err != nil {
		return model.Task{}, err
	}
	return task, nil
}

// Toggle flips a task's completion flag on the server.
func (c *TodoClient) Toggle(ctx context.Context, id int64) (model.Task, error) {
	var task model.Task
	if err := c.api.Do(ctx, http.MethodPut, fmt.Sprintf("/api/todos/%d/toggle", id), nil, &task); err != nil {
		return model.Task{}, err
	}
	return task, nil
}

// Delete removes a task.
func (c *TodoClient) Delete(ctx context.Context, id int64) error {
	return c.api.Do(ctx, http.MethodDelete, fmt.Sprintf("/api/todos/%d", id), nil, nil)
}

// Dashboard fetches the aggregate dashboard snapshot.
func (c *TodoClient) Dashboard(ctx context.Context) (model.DashboardSnapshot, error) {
	var snap model.DashboardSnapshot
	if err := c.api.Do(ctx, http.MethodGet, "/api/dashboard", nil, &snap); err != nil {
		return model.DashboardSnapshot{}, err
	}
	return snap, nil
}
