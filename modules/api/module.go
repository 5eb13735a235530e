package api

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/example/task-manager/internal/logging"
	"github.com/example/task-manager/modules/auth"
	"github.com/example/task-manager/modules/notification"
	"github.com/example/task-manager/modules/ratelimit"
	"github.com/example/task-manager/modules/task"
	"github.com/go-monolith/mono"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

// Config configures the HTTP server.
type Config struct {
	Port        int
	BasePath    string
	CORSOrigins string
}

// APIModule is the driving adapter that exposes the REST API.
type APIModule struct {
	config   Config
	app      *fiber.App
	auth     auth.AuthPort
	tasks    task.TaskPort
	activity notification.ActivityPort
	limiter  fiber.Handler
	checks   []healthCheck
	logger   *log.Logger
}

type healthCheck struct {
	name   string
	module mono.HealthCheckableModule
}

var _ mono.Module = (*APIModule)(nil)
var _ mono.DependentModule = (*APIModule)(nil)
var _ mono.HealthCheckableModule = (*APIModule)(nil)

func NewModule(config Config) *APIModule {
	if config.Port == 0 {
		config.Port = 5000
	}
	config.BasePath = normalizeBasePath(config.BasePath)
	return &APIModule{
		config: config,
		logger: logging.For("api"),
	}
}

func (m *APIModule) Name() string {
	return "api"
}

func (m *APIModule) Dependencies() []string {
	return []string{"auth", "task", "notification"}
}

func (m *APIModule) SetDependencyServiceContainer(dependency string, container mono.ServiceContainer) {
	switch dependency {
	case "auth":
		m.auth = auth.NewAuthAdapter(container)
	case "task":
		m.tasks = task.NewTaskAdapter(container)
	case "notification":
		m.activity = notification.NewActivityAdapter(container)
	}
}

// SetRateLimitModule puts the per-IP limiter in front of register and login.
func (m *APIModule) SetRateLimitModule(rl *ratelimit.Module) {
	if rl != nil {
		m.limiter = rl.Middleware()
	}
}

// AddHealthCheck includes a module in the GET /health report.
func (m *APIModule) AddHealthCheck(name string, module mono.HealthCheckableModule) {
	m.checks = append(m.checks, healthCheck{name: name, module: module})
}

func (m *APIModule) Start(_ context.Context) error {
	if m.auth == nil {
		return fmt.Errorf("auth dependency not set")
	}
	if m.tasks == nil {
		return fmt.Errorf("task dependency not set")
	}
	if m.activity == nil {
		return fmt.Errorf("notification dependency not set")
	}

	m.app = m.newApp()

	addr := fmt.Sprintf(":%d", m.config.Port)
	go func() {
		if err := m.app.Listen(addr); err != nil {
			m.logger.Error("HTTP server error", "err", err)
		}
	}()

	m.logger.Info("HTTP server started", "addr", addr, "base_path", m.config.BasePath)
	return nil
}

func (m *APIModule) Stop(ctx context.Context) error {
	if m.app == nil {
		return nil
	}
	m.logger.Info("Shutting down HTTP server...")
	return m.app.ShutdownWithContext(ctx)
}

func (m *APIModule) Health(_ context.Context) mono.HealthStatus {
	return mono.HealthStatus{
		Healthy: m.app != nil,
		Message: "operational",
		Details: map[string]any{
			"port":      m.config.Port,
			"base_path": m.config.BasePath,
		},
	}
}

func (m *APIModule) newApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "task-manager",
		DisableStartupMessage: true,
		ErrorHandler:          m.errorHandler,
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: m.config.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PATCH,DELETE,OPTIONS",
	}))

	m.setupRoutes(app)
	return app
}

func normalizeBasePath(p string) string {
	p = strings.TrimRight(strings.TrimSpace(p), "/")
	if p != "" && !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return p
}
