package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// loadFromEnv overrides cfg from environment variables. Malformed numbers,
// booleans and durations are reported rather than ignored.
func loadFromEnv(cfg *Config) error {
	r := envReader{}

	r.setInt("PORT", &cfg.HTTP.Port)
	r.setString("API_BASE_PATH", &cfg.HTTP.BasePath)
	r.setString("CORS_ORIGINS", &cfg.HTTP.CORSOrigins)

	r.setString("JWT_SECRET", &cfg.Auth.JWTSecret)
	r.setDuration("JWT_EXPIRES_IN", &cfg.Auth.TokenTTL)
	r.setInt("BCRYPT_COST", &cfg.Auth.BcryptCost)
	r.setString("AUTH_DB_PATH", &cfg.Auth.DBPath)
	r.setBool("AUTH_DB_DEBUG", &cfg.Auth.DBDebug)

	r.setString("TASKS_DB_PATH", &cfg.Tasks.DBPath)
	r.setBool("TASKS_DB_DEBUG", &cfg.Tasks.DBDebug)

	r.setString("REDIS_ADDR", &cfg.Redis.Addr)
	r.setString("REDIS_PASSWORD", &cfg.Redis.Password)
	r.setInt("REDIS_DB", &cfg.Redis.DB)
	r.setInt("RATE_LIMIT", &cfg.RateLimit.Limit)
	r.setDuration("RATE_LIMIT_WINDOW", &cfg.RateLimit.Window)

	r.setBool("REMINDER_ENABLED", &cfg.Reminder.Enabled)
	r.setDuration("REMINDER_INTERVAL", &cfg.Reminder.Interval)

	r.setString("LOG_LEVEL", &cfg.Log.Level)
	r.setString("LOG_FORMAT", &cfg.Log.Format)
	r.setDuration("SHUTDOWN_TIMEOUT", &cfg.ShutdownTimeout)

	return r.err
}

// envReader applies variables that are set and remembers the first parse error.
type envReader struct {
	err error
}

func (r *envReader) lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}

func (r *envReader) fail(key, value string, err error) {
	if r.err == nil {
		r.err = fmt.Errorf("%s=%q: %w", key, value, err)
	}
}

func (r *envReader) setString(key string, dst *string) {
	if v, ok := r.lookup(key); ok {
		*dst = v
	}
}

func (r *envReader) setInt(key string, dst *int) {
	v, ok := r.lookup(key)
	if !ok {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		r.fail(key, v, err)
		return
	}
	*dst = n
}

func (r *envReader) setBool(key string, dst *bool) {
	v, ok := r.lookup(key)
	if !ok {
		return
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		r.fail(key, v, err)
		return
	}
	*dst = b
}

// setDuration accepts Go durations ("90m") and whole days ("2d"), the latter
// because token lifetimes are commonly written that way.
func (r *envReader) setDuration(key string, dst *time.Duration) {
	v, ok := r.lookup(key)
	if !ok {
		return
	}
	d, err := parseDuration(v)
	if err != nil {
		r.fail(key, v, err)
		return
	}
	*dst = d
}

func parseDuration(s string) (time.Duration, error) {
	if days, ok := strings.CutSuffix(s, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil {
			return 0, fmt.Errorf("invalid day count: %w", err)
		}
		return time.Duration(n) * 24 * time.Hour, nil
	}
	return time.ParseDuration(s)
}
