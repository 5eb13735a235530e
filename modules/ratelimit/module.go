package ratelimit

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/example/task-manager/internal/logging"
	"github.com/go-monolith/mono"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// Config configures the Redis connection and the per-IP limit.
type Config struct {
	Addr      string
	Password  string
	DB        int
	Limit     int
	Window    time.Duration
	KeyPrefix string
}

// Module owns the Redis client used for rate limiting.
type Module struct {
	config  Config
	client  *redis.Client
	limiter *SlidingWindowLimiter
	logger  *log.Logger
}

var _ mono.Module = (*Module)(nil)
var _ mono.HealthCheckableModule = (*Module)(nil)

func NewModule(config Config) *Module {
	if config.Limit <= 0 {
		config.Limit = 20
	}
	if config.Window <= 0 {
		config.Window = time.Minute
	}
	if config.KeyPrefix == "" {
		config.KeyPrefix = "taskmanager:ratelimit:ip:"
	}

	client := redis.NewClient(&redis.Options{
		Addr:         config.Addr,
		Password:     config.Password,
		DB:           config.DB,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
		PoolSize:     10,
	})

	return &Module{
		config:  config,
		client:  client,
		limiter: NewSlidingWindowLimiter(client, config.Limit, config.Window, config.KeyPrefix),
		logger:  logging.For("ratelimit"),
	}
}

func (m *Module) Name() string {
	return "ratelimit"
}

// Start checks the connection. An unreachable Redis is logged and not fatal
// since the middleware lets requests through when checks fail.
func (m *Module) Start(ctx context.Context) error {
	if err := m.client.Ping(ctx).Err(); err != nil {
		m.logger.Warn("Redis unreachable, rate limiting will fail open", "addr", m.config.Addr, "err", err)
		return nil
	}
	m.logger.Info("Module started", "addr", m.config.Addr, "limit", m.config.Limit, "window", m.config.Window)
	return nil
}

func (m *Module) Stop(_ context.Context) error {
	if err := m.client.Close(); err != nil {
		m.logger.Error("Error closing Redis connection", "err", err)
	}
	m.logger.Info("Module stopped")
	return nil
}

func (m *Module) Health(ctx context.Context) mono.HealthStatus {
	details := map[string]any{
		"addr":   m.config.Addr,
		"limit":  m.config.Limit,
		"window": m.config.Window.String(),
	}
	if err := m.client.Ping(ctx).Err(); err != nil {
		details["error"] = err.Error()
		return mono.HealthStatus{Healthy: false, Message: "redis unreachable", Details: details}
	}
	return mono.HealthStatus{Healthy: true, Message: "operational", Details: details}
}

// Middleware returns the per-IP limiter for the public auth routes.
func (m *Module) Middleware() fiber.Handler {
	return IPMiddleware(m.limiter, m.logger)
}
