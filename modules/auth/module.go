package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/example/task-manager/domain/apperr"
	domain "github.com/example/task-manager/domain/user"
	"github.com/example/task-manager/events"
	"github.com/example/task-manager/internal/database"
	"github.com/example/task-manager/internal/logging"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"gorm.io/gorm"
)

// Config configures the auth module.
type Config struct {
	DBPath     string
	DBDebug    bool
	BcryptCost int
	Token      TokenConfig
}

// AuthModule owns the credential store and the token service.
type AuthModule struct {
	config   Config
	db       *gorm.DB
	service  *AuthService
	eventBus mono.EventBus
	logger   *log.Logger
}

// Compile-time interface checks.
var _ mono.Module = (*AuthModule)(nil)
var _ mono.ServiceProviderModule = (*AuthModule)(nil)
var _ mono.HealthCheckableModule = (*AuthModule)(nil)
var _ mono.EventEmitterModule = (*AuthModule)(nil)

// NewModule creates a new AuthModule.
func NewModule(config Config) *AuthModule {
	if config.Token.Issuer == "" {
		config.Token.Issuer = "task-manager"
	}
	return &AuthModule{
		config: config,
		logger: logging.For("auth"),
	}
}

// Name returns the module name.
func (m *AuthModule) Name() string {
	return "auth"
}

func (m *AuthModule) SetEventBus(bus mono.EventBus) {
	m.eventBus = bus
}

func (m *AuthModule) EmitEvents() []mono.BaseEventDefinition {
	return []mono.BaseEventDefinition{
		events.UserRegisteredV1.ToBase(),
	}
}

// Start opens the credential store.
func (m *AuthModule) Start(_ context.Context) error {
	db, err := database.Open(m.config.DBPath, m.config.DBDebug, &domain.User{})
	if err != nil {
		return err
	}
	m.db = db

	m.service = NewAuthService(
		NewUserRepository(db),
		NewPasswordHasher(m.config.BcryptCost),
		NewTokenManager(m.config.Token),
	)

	m.logger.Info("Module started", "database", m.config.DBPath, "token_ttl", m.config.Token.TTL)
	return nil
}

// Stop closes the credential store.
func (m *AuthModule) Stop(_ context.Context) error {
	if err := database.Close(m.db); err != nil {
		m.logger.Warn("Failed to close database", "err", err)
	}
	m.logger.Info("Module stopped")
	return nil
}

// Health returns the health status of the module.
func (m *AuthModule) Health(ctx context.Context) mono.HealthStatus {
	return database.Health(ctx, m.db, m.config.DBPath)
}

// RegisterServices registers request-reply services in the service container.
func (m *AuthModule) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, "register", json.Unmarshal, json.Marshal, m.handleRegister,
	); err != nil {
		return fmt.Errorf("failed to register register service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "login", json.Unmarshal, json.Marshal, m.handleLogin,
	); err != nil {
		return fmt.Errorf("failed to register login service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "validate-token", json.Unmarshal, json.Marshal, m.handleValidateToken,
	); err != nil {
		return fmt.Errorf("failed to register validate-token service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "get-user", json.Unmarshal, json.Marshal, m.handleGetUser,
	); err != nil {
		return fmt.Errorf("failed to register get-user service: %w", err)
	}

	m.logger.Info("Registered services", "services", "register, login, validate-token, get-user")
	return nil
}

func (m *AuthModule) handleRegister(ctx context.Context, req RegisterRequest, _ *mono.Msg) (AuthResponse, error) {
	user, token, err := m.service.Register(ctx, req.Name, req.Email, req.Password)
	if err != nil {
		return AuthResponse{Failure: m.failure("register", err)}, nil
	}

	m.publishRegistered(user)
	return AuthResponse{Token: token, User: user.Identity()}, nil
}

func (m *AuthModule) handleLogin(ctx context.Context, req LoginRequest, _ *mono.Msg) (AuthResponse, error) {
	user, token, err := m.service.Login(ctx, req.Email, req.Password)
	if err != nil {
		return AuthResponse{Failure: m.failure("login", err)}, nil
	}
	return AuthResponse{Token: token, User: user.Identity()}, nil
}

func (m *AuthModule) handleValidateToken(ctx context.Context, req ValidateTokenRequest, _ *mono.Msg) (UserResponse, error) {
	user, err := m.service.ResolveToken(ctx, req.Token)
	if err != nil {
		return UserResponse{Failure: m.failure("validate-token", err)}, nil
	}
	return UserResponse{User: user.Identity()}, nil
}

func (m *AuthModule) handleGetUser(ctx context.Context, req GetUserRequest, _ *mono.Msg) (UserResponse, error) {
	user, err := m.service.GetUser(ctx, req.UserID)
	if err != nil {
		return UserResponse{Failure: m.failure("get-user", err)}, nil
	}
	return UserResponse{User: user.Identity()}, nil
}

// failure converts err for the reply, logging anything that is not a
// client-facing domain error.
func (m *AuthModule) failure(service string, err error) *apperr.Error {
	failure := apperr.From(err)
	if failure.Code == apperr.CodeServerError {
		m.logger.Error("Service failed", "service", service, "err", err)
	}
	return failure
}

func (m *AuthModule) publishRegistered(user *domain.User) {
	if m.eventBus == nil {
		return
	}
	event := events.UserRegisteredEvent{
		UserID:       user.ID,
		Name:         user.Name,
		Email:        user.Email,
		RegisteredAt: time.Now().UTC(),
	}
	if err := events.UserRegisteredV1.Publish(m.eventBus, event, nil); err != nil {
		m.logger.Warn("Failed to publish UserRegistered event", "user_id", user.ID, "err", err)
	}
}
