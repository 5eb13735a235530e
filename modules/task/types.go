package task

import (
	"time"

	"github.com/example/task-manager/domain/apperr"
	domain "github.com/example/task-manager/domain/task"
)

// CreateTaskRequest represents a create-task request.
type CreateTaskRequest struct {
	Owner string             `json:"owner"`
	Input domain.CreateInput `json:"input"`
}

// TaskRefRequest addresses one task of an owner. It is the request for
// get-task, toggle-task and delete-task.
type TaskRefRequest struct {
	Owner  string `json:"owner"`
	TaskID string `json:"task_id"`
}

// UpdateTaskRequest represents an update-task request.
type UpdateTaskRequest struct {
	Owner  string       `json:"owner"`
	TaskID string       `json:"task_id"`
	Patch  domain.Patch `json:"patch"`
}

// ListTasksRequest represents a list-tasks request.
type ListTasksRequest struct {
	Owner  string            `json:"owner"`
	Params domain.ListParams `json:"params"`
}

// ListDueTasksRequest asks for pending tasks due in (After, Until].
type ListDueTasksRequest struct {
	After time.Time `json:"after"`
	Until time.Time `json:"until"`
}

// TaskResponse is the reply carrying a single task.
type TaskResponse struct {
	Task    *domain.Task  `json:"task,omitempty"`
	Failure *apperr.Error `json:"failure,omitempty"`
}

// ListTasksResponse is the reply to list-tasks.
type ListTasksResponse struct {
	Page    *domain.Page  `json:"page,omitempty"`
	Failure *apperr.Error `json:"failure,omitempty"`
}

// TasksResponse is the reply to list-due-tasks.
type TasksResponse struct {
	Tasks   []domain.Task `json:"tasks"`
	Failure *apperr.Error `json:"failure,omitempty"`
}
