package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load builds the configuration:
// 1. Defaults
// 2. .env in the working directory (never overrides the real environment)
// 3. TOML file at $TASKMANAGER_CONFIG, or taskmanager.toml if present
// 4. Environment variables
func Load() (*Config, error) {
	cfg := Default()

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	path, required := configFilePath()
	if path != "" {
		if err := loadConfigFile(cfg, path); err != nil {
			if required || !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("loading config file %s: %w", path, err)
			}
		}
	}

	if err := loadFromEnv(cfg); err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// configFilePath returns the file to read and whether it was named explicitly.
func configFilePath() (string, bool) {
	if p := os.Getenv("TASKMANAGER_CONFIG"); p != "" {
		return p, true
	}
	return DefaultConfigFile, false
}

func loadConfigFile(cfg *Config, path string) error {
	_, err := toml.DecodeFile(path, cfg)
	return err
}

// Validate rejects values no component can run with.
func (c *Config) Validate() error {
	var errs []error
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		errs = append(errs, fmt.Errorf("http.port out of range: %d", c.HTTP.Port))
	}
	if c.HTTP.BasePath != "" && !strings.HasPrefix(c.HTTP.BasePath, "/") {
		errs = append(errs, fmt.Errorf("http.base_path must start with /: %q", c.HTTP.BasePath))
	}
	if c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("auth.jwt_secret is required"))
	}
	if c.Auth.TokenTTL <= 0 {
		errs = append(errs, fmt.Errorf("auth.token_ttl must be positive: %s", c.Auth.TokenTTL))
	}
	if c.Auth.BcryptCost < 4 || c.Auth.BcryptCost > 31 {
		errs = append(errs, fmt.Errorf("auth.bcrypt_cost must be between 4 and 31: %d", c.Auth.BcryptCost))
	}
	if c.RateLimit.Limit <= 0 || c.RateLimit.Window <= 0 {
		errs = append(errs, errors.New("ratelimit.limit and ratelimit.window must be positive"))
	}
	if c.Reminder.Enabled && c.Reminder.Interval < time.Second {
		errs = append(errs, fmt.Errorf("reminder.interval must be at least 1s: %s", c.Reminder.Interval))
	}
	if c.ShutdownTimeout <= 0 {
		errs = append(errs, errors.New("shutdown_timeout must be positive"))
	}
	return errors.Join(errs...)
}
