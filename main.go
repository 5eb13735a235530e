package main

import (
	"context"
	"os"

	"github.com/charmbracelet/log"
	"github.com/example/task-manager/internal/config"
	"github.com/example/task-manager/internal/logging"
	"github.com/example/task-manager/modules/api"
	"github.com/example/task-manager/modules/auth"
	"github.com/example/task-manager/modules/notification"
	"github.com/example/task-manager/modules/ratelimit"
	"github.com/example/task-manager/modules/reminder"
	"github.com/example/task-manager/modules/task"
	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-monolith/mono"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Invalid configuration", "err", err)
	}

	logger := logging.Setup(cfg.Log.Level, cfg.Log.Format)
	if cfg.Auth.JWTSecret == config.DefaultJWTSecret {
		logger.Warn("JWT_SECRET is not set, using the development default")
	}

	monoLevel := mono.LogLevelInfo
	if lvl := logging.ParseLevel(cfg.Log.Level); lvl >= log.WarnLevel {
		monoLevel = mono.LogLevelError
	}

	app, err := mono.NewMonoApplication(
		mono.WithShutdownTimeout(cfg.ShutdownTimeout),
		mono.WithLogLevel(monoLevel),
		mono.WithLogFormat(mono.LogFormatText),
	)
	if err != nil {
		logger.Fatal("Failed to create application", "err", err)
	}

	authModule := auth.NewModule(auth.Config{
		DBPath:     cfg.Auth.DBPath,
		DBDebug:    cfg.Auth.DBDebug,
		BcryptCost: cfg.Auth.BcryptCost,
		Token: auth.TokenConfig{
			Secret: cfg.Auth.JWTSecret,
			TTL:    cfg.Auth.TokenTTL,
		},
	})
	taskModule := task.NewModule(task.Config{
		DBPath:  cfg.Tasks.DBPath,
		DBDebug: cfg.Tasks.DBDebug,
	})
	notificationModule := notification.NewModule(notification.DefaultFeedSize)
	apiModule := api.NewModule(api.Config{
		Port:        cfg.HTTP.Port,
		BasePath:    cfg.HTTP.BasePath,
		CORSOrigins: cfg.HTTP.CORSOrigins,
	})

	apiModule.AddHealthCheck("auth", authModule)
	apiModule.AddHealthCheck("task", taskModule)
	apiModule.AddHealthCheck("notification", notificationModule)

	// Order: independent modules first, then modules with dependencies.
	app.Register(authModule)
	app.Register(taskModule)
	app.Register(notificationModule)

	if cfg.Reminder.Enabled {
		reminderModule := reminder.NewModule(cfg.Reminder.Interval)
		apiModule.AddHealthCheck("reminder", reminderModule)
		app.Register(reminderModule)
	}

	if cfg.Redis.Enabled() {
		rateLimitModule := ratelimit.NewModule(ratelimit.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Limit:    cfg.RateLimit.Limit,
			Window:   cfg.RateLimit.Window,
		})
		apiModule.SetRateLimitModule(rateLimitModule)
		apiModule.AddHealthCheck("ratelimit", rateLimitModule)
		app.Register(rateLimitModule)
	} else {
		logger.Info("REDIS_ADDR not set, rate limiting disabled")
	}

	app.Register(apiModule)

	if err := app.Start(context.Background()); err != nil {
		logger.Fatal("Failed to start application", "err", err)
	}

	logger.Info("Task manager started",
		"port", cfg.HTTP.Port,
		"base_path", cfg.HTTP.BasePath,
		"reminder", cfg.Reminder.Enabled,
		"rate_limit", cfg.Redis.Enabled(),
	)

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		cfg.ShutdownTimeout,
		map[string]gfshutdown.Operation{
			"mono-app": func(ctx context.Context) error {
				logger.Info("Graceful shutdown initiated...")
				return app.Stop(ctx)
			},
		},
	)

	exitCode := <-wait
	logger.Info("Application exited", "code", exitCode)
	os.Exit(exitCode)
}
