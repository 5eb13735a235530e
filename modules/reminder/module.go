package reminder

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/example/task-manager/events"
	"github.com/example/task-manager/internal/logging"
	"github.com/example/task-manager/modules/task"
	"github.com/go-monolith/mono"
	"github.com/robfig/cron/v3"
)

// DefaultInterval is how often due tasks are checked.
const DefaultInterval = time.Minute

// ReminderModule periodically looks for pending tasks whose due date has
// passed and emits a TaskOverdue event for each.
type ReminderModule struct {
	interval time.Duration
	tasks    task.TaskPort
	eventBus mono.EventBus
	cron     *cron.Cron
	logger   *log.Logger
	now      func() time.Time

	// sweepMu serializes sweeps. lastRun is read by Health without it, so a
	// slow ListDueTasks call never blocks a health check.
	sweepMu sync.Mutex
	lastRun atomic.Pointer[time.Time]

	sweeps   atomic.Int64
	notified atomic.Int64
	failures atomic.Int64
}

var _ mono.Module = (*ReminderModule)(nil)
var _ mono.DependentModule = (*ReminderModule)(nil)
var _ mono.EventEmitterModule = (*ReminderModule)(nil)
var _ mono.HealthCheckableModule = (*ReminderModule)(nil)

func NewModule(interval time.Duration) *ReminderModule {
	if interval < time.Second {
		interval = DefaultInterval
	}
	return &ReminderModule{
		interval: interval,
		logger:   logging.For("reminder"),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (m *ReminderModule) Name() string {
	return "reminder"
}

func (m *ReminderModule) Dependencies() []string {
	return []string{"task"}
}

func (m *ReminderModule) SetDependencyServiceContainer(dependency string, container mono.ServiceContainer) {
	switch dependency {
	case "task":
		m.tasks = task.NewTaskAdapter(container)
	}
}

func (m *ReminderModule) SetEventBus(bus mono.EventBus) {
	m.eventBus = bus
}

func (m *ReminderModule) EmitEvents() []mono.BaseEventDefinition {
	return []mono.BaseEventDefinition{
		events.TaskOverdueV1.ToBase(),
	}
}

func (m *ReminderModule) Start(_ context.Context) error {
	if m.tasks == nil {
		return fmt.Errorf("task dependency not set")
	}

	m.setLastRun(m.now())

	m.cron = cron.New(cron.WithLocation(time.UTC))
	if _, err := m.cron.AddFunc("@every "+m.interval.String(), m.run); err != nil {
		return fmt.Errorf("failed to schedule reminder sweep: %w", err)
	}
	m.cron.Start()

	m.logger.Info("Module started", "interval", m.interval)
	return nil
}

func (m *ReminderModule) Stop(ctx context.Context) error {
	if m.cron == nil {
		return nil
	}

	select {
	case <-m.cron.Stop().Done():
		m.logger.Info("Module stopped")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("reminder sweep did not finish: %w", ctx.Err())
	}
}

func (m *ReminderModule) Health(_ context.Context) mono.HealthStatus {
	var lastRun time.Time
	if p := m.lastRun.Load(); p != nil {
		lastRun = *p
	}

	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"interval": m.interval.String(),
			"last_run": lastRun,
			"sweeps":   m.sweeps.Load(),
			"notified": m.notified.Load(),
			"failures": m.failures.Load(),
		},
	}
}

func (m *ReminderModule) setLastRun(t time.Time) {
	m.lastRun.Store(&t)
}

func (m *ReminderModule) run() {
	ctx, cancel := context.WithTimeout(context.Background(), m.interval)
	defer cancel()

	if _, err := m.sweep(ctx); err != nil {
		m.failures.Add(1)
		m.logger.Error("Reminder sweep failed", "err", err)
	}
}

// sweep emits TaskOverdue for every pending task that fell due since the
// previous successful sweep. The window only advances on success so a failed
// sweep is retried on the next tick.
func (m *ReminderModule) sweep(ctx context.Context) (int, error) {
	m.sweepMu.Lock()
	defer m.sweepMu.Unlock()

	var after time.Time
	if p := m.lastRun.Load(); p != nil {
		after = *p
	}
	now := m.now()
	if !now.After(after) {
		return 0, nil
	}

	due, err := m.tasks.ListDueTasks(ctx, after, now)
	if err != nil {
		return 0, err
	}
	m.setLastRun(now)
	m.sweeps.Add(1)

	for _, t := range due {
		if t.DueDate == nil {
			continue
		}
		m.notified.Add(1)
		m.logger.Info("Task overdue", "task_id", t.ID, "owner", t.Owner, "due", t.DueDate.Format(time.RFC3339))

		if m.eventBus == nil {
			continue
		}
		if err := events.TaskOverdueV1.Publish(m.eventBus, events.TaskOverdueEvent{
			TaskID:     t.ID,
			Owner:      t.Owner,
			Title:      t.Title,
			DueDate:    *t.DueDate,
			DetectedAt: now,
		}, nil); err != nil {
			m.logger.Warn("Failed to publish event", "event", "TaskOverdue", "task_id", t.ID, "err", err)
		}
	}
	return len(due), nil
}
