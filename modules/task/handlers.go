package task

import (
	"context"

	"github.com/example/task-manager/domain/apperr"
	domain "github.com/example/task-manager/domain/task"
	"github.com/example/task-manager/events"
	"github.com/go-monolith/mono"
)

func (m *TaskModule) createTask(ctx context.Context, req CreateTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	task, err := m.service.Create(ctx, req.Owner, req.Input)
	if err != nil {
		return TaskResponse{Failure: m.failure("create-task", err)}, nil
	}

	m.publish("TaskCreated", task.ID, func() error {
		return events.TaskCreatedV1.Publish(m.eventBus, events.TaskCreatedEvent{
			TaskID:    task.ID,
			Owner:     task.Owner,
			Title:     task.Title,
			Priority:  string(task.Priority),
			DueDate:   task.DueDate,
			CreatedAt: task.CreatedAt,
		}, nil)
	})
	return TaskResponse{Task: task}, nil
}

func (m *TaskModule) getTask(ctx context.Context, req TaskRefRequest, _ *mono.Msg) (TaskResponse, error) {
	task, err := m.service.Get(ctx, req.Owner, req.TaskID)
	if err != nil {
		return TaskResponse{Failure: m.failure("get-task", err)}, nil
	}
	return TaskResponse{Task: task}, nil
}

func (m *TaskModule) listTasks(ctx context.Context, req ListTasksRequest, _ *mono.Msg) (ListTasksResponse, error) {
	page, err := m.service.List(ctx, req.Owner, req.Params)
	if err != nil {
		return ListTasksResponse{Failure: m.failure("list-tasks", err)}, nil
	}
	return ListTasksResponse{Page: page}, nil
}

func (m *TaskModule) updateTask(ctx context.Context, req UpdateTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	task, err := m.service.Update(ctx, req.Owner, req.TaskID, req.Patch)
	if err != nil {
		return TaskResponse{Failure: m.failure("update-task", err)}, nil
	}

	if fields := req.Patch.Fields(); len(fields) > 0 {
		m.publish("TaskUpdated", task.ID, func() error {
			return events.TaskUpdatedV1.Publish(m.eventBus, events.TaskUpdatedEvent{
				TaskID:    task.ID,
				Owner:     task.Owner,
				Title:     task.Title,
				Fields:    fields,
				UpdatedAt: task.UpdatedAt,
			}, nil)
		})
	}
	return TaskResponse{Task: task}, nil
}

func (m *TaskModule) toggleTask(ctx context.Context, req TaskRefRequest, _ *mono.Msg) (TaskResponse, error) {
	task, err := m.service.Toggle(ctx, req.Owner, req.TaskID)
	if err != nil {
		return TaskResponse{Failure: m.failure("toggle-task", err)}, nil
	}

	m.publish("TaskToggled", task.ID, func() error {
		return events.TaskToggledV1.Publish(m.eventBus, events.TaskToggledEvent{
			TaskID:    task.ID,
			Owner:     task.Owner,
			Title:     task.Title,
			Status:    string(task.Status),
			ToggledAt: task.UpdatedAt,
		}, nil)
	})
	return TaskResponse{Task: task}, nil
}

func (m *TaskModule) deleteTask(ctx context.Context, req TaskRefRequest, _ *mono.Msg) (TaskResponse, error) {
	task, err := m.service.Delete(ctx, req.Owner, req.TaskID)
	if err != nil {
		return TaskResponse{Failure: m.failure("delete-task", err)}, nil
	}

	m.publish("TaskDeleted", task.ID, func() error {
		return events.TaskDeletedV1.Publish(m.eventBus, events.TaskDeletedEvent{
			TaskID:    task.ID,
			Owner:     task.Owner,
			Title:     task.Title,
			DeletedAt: m.service.now(),
		}, nil)
	})
	return TaskResponse{Task: task}, nil
}

func (m *TaskModule) listDueTasks(ctx context.Context, req ListDueTasksRequest, _ *mono.Msg) (TasksResponse, error) {
	tasks, err := m.service.ListDue(ctx, req.After, req.Until)
	if err != nil {
		return TasksResponse{Failure: m.failure("list-due-tasks", err)}, nil
	}
	if tasks == nil {
		tasks = []domain.Task{}
	}
	return TasksResponse{Tasks: tasks}, nil
}

// failure converts err for the reply, logging anything that is not a
// client-facing domain error.
func (m *TaskModule) failure(service string, err error) *apperr.Error {
	failure := apperr.From(err)
	if failure.Code == apperr.CodeServerError {
		m.logger.Error("Service failed", "service", service, "err", err)
	}
	return failure
}

// publish emits an event best-effort; a failed publish never fails the request.
func (m *TaskModule) publish(event, taskID string, send func() error) {
	if m.eventBus == nil {
		return
	}
	if err := send(); err != nil {
		m.logger.Warn("Failed to publish event", "event", event, "task_id", taskID, "err", err)
	}
}
