package task

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	domain "github.com/example/task-manager/domain/task"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// TaskPort is what other modules use to reach the task module.
// Domain failures come back as *apperr.Error.
type TaskPort interface {
	CreateTask(ctx context.Context, owner string, in domain.CreateInput) (*domain.Task, error)
	GetTask(ctx context.Context, owner, taskID string) (*domain.Task, error)
	ListTasks(ctx context.Context, owner string, params domain.ListParams) (*domain.Page, error)
	UpdateTask(ctx context.Context, owner, taskID string, patch domain.Patch) (*domain.Task, error)
	ToggleTask(ctx context.Context, owner, taskID string) (*domain.Task, error)
	DeleteTask(ctx context.Context, owner, taskID string) error
	ListDueTasks(ctx context.Context, after, until time.Time) ([]domain.Task, error)
}

// taskAdapter wraps ServiceContainer for type-safe cross-module communication.
type taskAdapter struct {
	container mono.ServiceContainer
}

// NewTaskAdapter creates a new adapter for task services.
// container is the ServiceContainer from the task module received via SetDependencyServiceContainer.
func NewTaskAdapter(container mono.ServiceContainer) TaskPort {
	if container == nil {
		panic("task adapter requires non-nil ServiceContainer")
	}
	return &taskAdapter{container: container}
}

func (a *taskAdapter) CreateTask(ctx context.Context, owner string, in domain.CreateInput) (*domain.Task, error) {
	req := CreateTaskRequest{Owner: owner, Input: in}
	return callTask(ctx, a.container, "create-task", &req)
}

func (a *taskAdapter) GetTask(ctx context.Context, owner, taskID string) (*domain.Task, error) {
	req := TaskRefRequest{Owner: owner, TaskID: taskID}
	return callTask(ctx, a.container, "get-task", &req)
}

func (a *taskAdapter) ListTasks(ctx context.Context, owner string, params domain.ListParams) (*domain.Page, error) {
	req := ListTasksRequest{Owner: owner, Params: params}
	var resp ListTasksResponse
	if err := callService(ctx, a.container, "list-tasks", &req, &resp); err != nil {
		return nil, err
	}
	if resp.Failure != nil {
		return nil, resp.Failure
	}
	return resp.Page, nil
}

func (a *taskAdapter) UpdateTask(ctx context.Context, owner, taskID string, patch domain.Patch) (*domain.Task, error) {
	req := UpdateTaskRequest{Owner: owner, TaskID: taskID, Patch: patch}
	return callTask(ctx, a.container, "update-task", &req)
}

func (a *taskAdapter) ToggleTask(ctx context.Context, owner, taskID string) (*domain.Task, error) {
	req := TaskRefRequest{Owner: owner, TaskID: taskID}
	return callTask(ctx, a.container, "toggle-task", &req)
}

func (a *taskAdapter) DeleteTask(ctx context.Context, owner, taskID string) error {
	req := TaskRefRequest{Owner: owner, TaskID: taskID}
	_, err := callTask(ctx, a.container, "delete-task", &req)
	return err
}

func (a *taskAdapter) ListDueTasks(ctx context.Context, after, until time.Time) ([]domain.Task, error) {
	req := ListDueTasksRequest{After: after, Until: until}
	var resp TasksResponse
	if err := callService(ctx, a.container, "list-due-tasks", &req, &resp); err != nil {
		return nil, err
	}
	if resp.Failure != nil {
		return nil, resp.Failure
	}
	return resp.Tasks, nil
}

// callTask calls a service whose reply is a TaskResponse.
func callTask[Req any](ctx context.Context, container mono.ServiceContainer, service string, req *Req) (*domain.Task, error) {
	var resp TaskResponse
	if err := callService(ctx, container, service, req, &resp); err != nil {
		return nil, err
	}
	if resp.Failure != nil {
		return nil, resp.Failure
	}
	return resp.Task, nil
}

// callService performs a request-reply call and wraps transport failures.
func callService[Req, Resp any](ctx context.Context, container mono.ServiceContainer, service string, req *Req, resp *Resp) error {
	if err := helper.CallRequestReplyService(
		ctx,
		container,
		service,
		json.Marshal,
		json.Unmarshal,
		req,
		resp,
	); err != nil {
		return fmt.Errorf("%s service call failed: %w", service, err)
	}
	return nil
}
