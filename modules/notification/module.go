package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/example/task-manager/domain/apperr"
	"github.com/example/task-manager/events"
	"github.com/example/task-manager/internal/logging"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/google/uuid"
)

// NotificationModule turns user and task events into per-user activity feeds.
type NotificationModule struct {
	feed   *Feed
	logger *log.Logger
	now    func() time.Time
}

var _ mono.Module = (*NotificationModule)(nil)
var _ mono.EventConsumerModule = (*NotificationModule)(nil)
var _ mono.ServiceProviderModule = (*NotificationModule)(nil)
var _ mono.HealthCheckableModule = (*NotificationModule)(nil)

func NewModule(feedSize int) *NotificationModule {
	return &NotificationModule{
		feed:   NewFeed(feedSize),
		logger: logging.For("notification"),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (m *NotificationModule) Name() string {
	return "notification"
}

func (m *NotificationModule) RegisterEventConsumers(registry mono.EventRegistry) error {
	if err := helper.RegisterTypedEventConsumer(registry, events.UserRegisteredV1, m.handleUserRegistered, m); err != nil {
		return fmt.Errorf("failed to register UserRegistered consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.TaskCreatedV1, m.handleTaskCreated, m); err != nil {
		return fmt.Errorf("failed to register TaskCreated consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.TaskUpdatedV1, m.handleTaskUpdated, m); err != nil {
		return fmt.Errorf("failed to register TaskUpdated consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.TaskToggledV1, m.handleTaskToggled, m); err != nil {
		return fmt.Errorf("failed to register TaskToggled consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.TaskDeletedV1, m.handleTaskDeleted, m); err != nil {
		return fmt.Errorf("failed to register TaskDeleted consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.TaskOverdueV1, m.handleTaskOverdue, m); err != nil {
		return fmt.Errorf("failed to register TaskOverdue consumer: %w", err)
	}

	m.logger.Info("Registered event consumers",
		"events", "UserRegistered, TaskCreated, TaskUpdated, TaskToggled, TaskDeleted, TaskOverdue")
	return nil
}

func (m *NotificationModule) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, "list-activity", json.Unmarshal, json.Marshal, m.listActivity,
	); err != nil {
		return fmt.Errorf("failed to register list-activity service: %w", err)
	}
	return nil
}

func (m *NotificationModule) handleUserRegistered(_ context.Context, event events.UserRegisteredEvent, _ *mono.Msg) error {
	m.record(event.UserID, "user_registered", "", fmt.Sprintf("Welcome, %s!", event.Name), event.RegisteredAt)
	return nil
}

func (m *NotificationModule) handleTaskCreated(_ context.Context, event events.TaskCreatedEvent, _ *mono.Msg) error {
	m.record(event.Owner, "task_created", event.TaskID,
		fmt.Sprintf("Task '%s' created with %s priority", event.Title, event.Priority), event.CreatedAt)
	return nil
}

func (m *NotificationModule) handleTaskUpdated(_ context.Context, event events.TaskUpdatedEvent, _ *mono.Msg) error {
	m.record(event.Owner, "task_updated", event.TaskID,
		fmt.Sprintf("Task '%s' updated: %s", event.Title, strings.Join(event.Fields, ", ")), event.UpdatedAt)
	return nil
}

func (m *NotificationModule) handleTaskToggled(_ context.Context, event events.TaskToggledEvent, _ *mono.Msg) error {
	m.record(event.Owner, "task_toggled", event.TaskID,
		fmt.Sprintf("Task '%s' marked %s", event.Title, event.Status), event.ToggledAt)
	return nil
}

func (m *NotificationModule) handleTaskDeleted(_ context.Context, event events.TaskDeletedEvent, _ *mono.Msg) error {
	m.record(event.Owner, "task_deleted", event.TaskID,
		fmt.Sprintf("Task '%s' deleted", event.Title), event.DeletedAt)
	return nil
}

func (m *NotificationModule) handleTaskOverdue(_ context.Context, event events.TaskOverdueEvent, _ *mono.Msg) error {
	m.record(event.Owner, "task_overdue", event.TaskID,
		fmt.Sprintf("Task '%s' is overdue (was due %s)", event.Title, event.DueDate.Format(time.RFC3339)), event.DetectedAt)
	return nil
}

func (m *NotificationModule) listActivity(_ context.Context, req ListActivityRequest, _ *mono.Msg) (ListActivityResponse, error) {
	if req.UserID == "" {
		return ListActivityResponse{Failure: apperr.Unauthorized("Missing user")}, nil
	}
	return ListActivityResponse{Activities: m.feed.List(req.UserID, req.Limit)}, nil
}

func (m *NotificationModule) record(user, kind, taskID, message string, at time.Time) {
	if at.IsZero() {
		at = m.now()
	}
	m.feed.Add(user, Activity{
		ID:      uuid.New().String(),
		Type:    kind,
		TaskID:  taskID,
		Message: message,
		At:      at,
	})
	m.logger.Debug(message, "user_id", user, "type", kind)
}

// Activities returns the feed for user, newest first.
func (m *NotificationModule) Activities(user string) []Activity {
	return m.feed.List(user, 0)
}

func (m *NotificationModule) Start(_ context.Context) error {
	m.logger.Info("Module started - listening for user and task events")
	return nil
}

func (m *NotificationModule) Stop(_ context.Context) error {
	m.logger.Info("Module stopped")
	return nil
}

func (m *NotificationModule) Health(_ context.Context) mono.HealthStatus {
	users, total := m.feed.Stats()
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"users":      users,
			"activities": total,
		},
	}
}
