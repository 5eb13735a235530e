package task

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/log"
	domain "github.com/example/task-manager/domain/task"
	"github.com/example/task-manager/events"
	"github.com/example/task-manager/internal/database"
	"github.com/example/task-manager/internal/logging"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"gorm.io/gorm"
)

// Config configures the task module.
type Config struct {
	DBPath  string
	DBDebug bool
}

// TaskModule owns the task store and exposes the task services.
type TaskModule struct {
	config   Config
	db       *gorm.DB
	service  *TaskService
	eventBus mono.EventBus
	logger   *log.Logger
}

var _ mono.Module = (*TaskModule)(nil)
var _ mono.ServiceProviderModule = (*TaskModule)(nil)
var _ mono.EventEmitterModule = (*TaskModule)(nil)
var _ mono.HealthCheckableModule = (*TaskModule)(nil)

func NewModule(config Config) *TaskModule {
	return &TaskModule{
		config: config,
		logger: logging.For("task"),
	}
}

func (m *TaskModule) Name() string {
	return "task"
}

func (m *TaskModule) SetEventBus(bus mono.EventBus) {
	m.eventBus = bus
}

func (m *TaskModule) EmitEvents() []mono.BaseEventDefinition {
	return []mono.BaseEventDefinition{
		events.TaskCreatedV1.ToBase(),
		events.TaskUpdatedV1.ToBase(),
		events.TaskToggledV1.ToBase(),
		events.TaskDeletedV1.ToBase(),
	}
}

func (m *TaskModule) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, "create-task", json.Unmarshal, json.Marshal, m.createTask,
	); err != nil {
		return fmt.Errorf("failed to register create-task service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "get-task", json.Unmarshal, json.Marshal, m.getTask,
	); err != nil {
		return fmt.Errorf("failed to register get-task service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "list-tasks", json.Unmarshal, json.Marshal, m.listTasks,
	); err != nil {
		return fmt.Errorf("failed to register list-tasks service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "update-task", json.Unmarshal, json.Marshal, m.updateTask,
	); err != nil {
		return fmt.Errorf("failed to register update-task service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "toggle-task", json.Unmarshal, json.Marshal, m.toggleTask,
	); err != nil {
		return fmt.Errorf("failed to register toggle-task service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "delete-task", json.Unmarshal, json.Marshal, m.deleteTask,
	); err != nil {
		return fmt.Errorf("failed to register delete-task service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "list-due-tasks", json.Unmarshal, json.Marshal, m.listDueTasks,
	); err != nil {
		return fmt.Errorf("failed to register list-due-tasks service: %w", err)
	}

	m.logger.Info("Registered services",
		"services", "create-task, get-task, list-tasks, update-task, toggle-task, delete-task, list-due-tasks")
	return nil
}

func (m *TaskModule) Start(_ context.Context) error {
	db, err := database.Open(m.config.DBPath, m.config.DBDebug, &domain.Task{})
	if err != nil {
		return err
	}
	m.db = db
	m.service = NewTaskService(NewTaskRepository(db))

	if m.eventBus == nil {
		m.logger.Warn("eventBus not set, events will not be published")
	}
	m.logger.Info("Module started", "database", m.config.DBPath)
	return nil
}

func (m *TaskModule) Stop(_ context.Context) error {
	if err := database.Close(m.db); err != nil {
		m.logger.Warn("Failed to close database", "err", err)
	}
	m.logger.Info("Module stopped")
	return nil
}

// Health returns the health status of the module.
func (m *TaskModule) Health(ctx context.Context) mono.HealthStatus {
	return database.Health(ctx, m.db, m.config.DBPath)
}
