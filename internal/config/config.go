// Package config loads service configuration from defaults, an optional
// .env file, an optional TOML file and the environment, in that order.
package config

import "time"

const (
	DefaultConfigFile = "taskmanager.toml"
	DefaultJWTSecret  = "change-me-in-production"
)

// Config is the complete service configuration.
type Config struct {
	HTTP            HTTPConfig      `toml:"http"`
	Auth            AuthConfig      `toml:"auth"`
	Tasks           TasksConfig     `toml:"tasks"`
	Redis           RedisConfig     `toml:"redis"`
	RateLimit       RateLimitConfig `toml:"ratelimit"`
	Reminder        ReminderConfig  `toml:"reminder"`
	Log             LogConfig       `toml:"log"`
	ShutdownTimeout time.Duration   `toml:"shutdown_timeout"`
}

// HTTPConfig configures the API server.
type HTTPConfig struct {
	Port        int    `toml:"port"`
	BasePath    string `toml:"base_path"`
	CORSOrigins string `toml:"cors_origins"`
}

// AuthConfig configures credentials and tokens.
type AuthConfig struct {
	JWTSecret  string        `toml:"jwt_secret"`
	TokenTTL   time.Duration `toml:"token_ttl"`
	BcryptCost int           `toml:"bcrypt_cost"`
	DBPath     string        `toml:"db_path"`
	DBDebug    bool          `toml:"db_debug"`
}

// TasksConfig configures the task store.
type TasksConfig struct {
	DBPath  string `toml:"db_path"`
	DBDebug bool   `toml:"db_debug"`
}

// RedisConfig configures the optional Redis connection. An empty Addr
// disables everything that needs Redis.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// Enabled reports whether a Redis address is configured.
func (c RedisConfig) Enabled() bool {
	return c.Addr != ""
}

// RateLimitConfig configures the per-IP limit on the public auth routes.
type RateLimitConfig struct {
	Limit  int           `toml:"limit"`
	Window time.Duration `toml:"window"`
}

// ReminderConfig configures the overdue sweep.
type ReminderConfig struct {
	Enabled  bool          `toml:"enabled"`
	Interval time.Duration `toml:"interval"`
}

// LogConfig selects log level and output format.
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Port:        5000,
			BasePath:    "/api",
			CORSOrigins: "*",
		},
		Auth: AuthConfig{
			JWTSecret:  DefaultJWTSecret,
			TokenTTL:   48 * time.Hour,
			BcryptCost: 10,
			DBPath:     "auth.db",
		},
		Tasks: TasksConfig{
			DBPath: "tasks.db",
		},
		RateLimit: RateLimitConfig{
			Limit:  20,
			Window: time.Minute,
		},
		Reminder: ReminderConfig{
			Enabled:  true,
			Interval: time.Minute,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		ShutdownTimeout: 30 * time.Second,
	}
}
