package events

import (
	"time"

	"github.com/go-monolith/mono/pkg/helper"
)

// UserRegisteredEvent is emitted after a new account is stored.
type UserRegisteredEvent struct {
	UserID       string    `json:"user_id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	RegisteredAt time.Time `json:"registered_at"`
}

// UserRegisteredV1 is the typed event definition for registrations.
// Subject: events.user.v1.user-registered
var UserRegisteredV1 = helper.EventDefinition[UserRegisteredEvent](
	"user", "UserRegistered", "v1",
)

// TaskCreatedEvent is emitted when a task is created.
type TaskCreatedEvent struct {
	TaskID    string     `json:"task_id"`
	Owner     string     `json:"owner"`
	Title     string     `json:"title"`
	Priority  string     `json:"priority"`
	DueDate   *time.Time `json:"due_date,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// TaskCreatedV1 is the typed event definition for task creation.
// Subject: events.task.v1.task-created
var TaskCreatedV1 = helper.EventDefinition[TaskCreatedEvent](
	"task", "TaskCreated", "v1",
)

// TaskUpdatedEvent is emitted after a partial update. Fields lists the
// attributes the patch touched.
type TaskUpdatedEvent struct {
	TaskID    string    `json:"task_id"`
	Owner     string    `json:"owner"`
	Title     string    `json:"title"`
	Fields    []string  `json:"fields"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TaskUpdatedV1 is the typed event definition for task updates.
// Subject: events.task.v1.task-updated
var TaskUpdatedV1 = helper.EventDefinition[TaskUpdatedEvent](
	"task", "TaskUpdated", "v1",
)

// TaskToggledEvent is emitted when a task flips between pending and completed.
type TaskToggledEvent struct {
	TaskID    string    `json:"task_id"`
	Owner     string    `json:"owner"`
	Title     string    `json:"title"`
	Status    string    `json:"status"`
	ToggledAt time.Time `json:"toggled_at"`
}

// TaskToggledV1 is the typed event definition for status toggles.
// Subject: events.task.v1.task-toggled
var TaskToggledV1 = helper.EventDefinition[TaskToggledEvent](
	"task", "TaskToggled", "v1",
)

// TaskDeletedEvent is emitted when a task is deleted.
type TaskDeletedEvent struct {
	TaskID    string    `json:"task_id"`
	Owner     string    `json:"owner"`
	Title     string    `json:"title"`
	DeletedAt time.Time `json:"deleted_at"`
}

// TaskDeletedV1 is the typed event definition for task deletion.
// Subject: events.task.v1.task-deleted
var TaskDeletedV1 = helper.EventDefinition[TaskDeletedEvent](
	"task", "TaskDeleted", "v1",
)

// TaskOverdueEvent is emitted once when a pending task passes its due date.
type TaskOverdueEvent struct {
	TaskID     string    `json:"task_id"`
	Owner      string    `json:"owner"`
	Title      string    `json:"title"`
	DueDate    time.Time `json:"due_date"`
	DetectedAt time.Time `json:"detected_at"`
}

// TaskOverdueV1 is the typed event definition for overdue reminders.
// Subject: events.task.v1.task-overdue
var TaskOverdueV1 = helper.EventDefinition[TaskOverdueEvent](
	"task", "TaskOverdue", "v1",
)
