package api

import (
	"context"
	"errors"
	"testing"
	"time"

	taskdomain "github.com/example/task-manager/domain/task"
	"github.com/example/task-manager/domain/user"
	"github.com/example/task-manager/internal/database"
	"github.com/example/task-manager/modules/auth"
	"github.com/example/task-manager/modules/notification"
	"github.com/example/task-manager/modules/task"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// serviceAuth serves AuthPort straight from an AuthService.
type serviceAuth struct {
	svc *auth.AuthService
}

func (s *serviceAuth) Register(ctx context.Context, req auth.RegisterRequest) (*auth.AuthResult, error) {
	u, token, err := s.svc.Register(ctx, req.Name, req.Email, req.Password)
	if err != nil {
		return nil, err
	}
	return &auth.AuthResult{Token: token, User: u.Identity()}, nil
}

func (s *serviceAuth) Login(ctx context.Context, req auth.LoginRequest) (*auth.AuthResult, error) {
	u, token, err := s.svc.Login(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}
	return &auth.AuthResult{Token: token, User: u.Identity()}, nil
}

func (s *serviceAuth) ValidateToken(ctx context.Context, token string) (*user.Identity, error) {
	u, err := s.svc.ResolveToken(ctx, token)
	if err != nil {
		return nil, err
	}
	identity := u.Identity()
	return &identity, nil
}

func (s *serviceAuth) GetUser(ctx context.Context, userID string) (*user.Identity, error) {
	u, err := s.svc.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	identity := u.Identity()
	return &identity, nil
}

// serviceTasks serves TaskPort straight from a TaskService.
type serviceTasks struct {
	svc *task.TaskService
}

func (s *serviceTasks) CreateTask(ctx context.Context, owner string, in taskdomain.CreateInput) (*taskdomain.Task, error) {
	return s.svc.Create(ctx, owner, in)
}

func (s *serviceTasks) GetTask(ctx context.Context, owner, taskID string) (*taskdomain.Task, error) {
	return s.svc.Get(ctx, owner, taskID)
}

func (s *serviceTasks) ListTasks(ctx context.Context, owner string, params taskdomain.ListParams) (*taskdomain.Page, error) {
	return s.svc.List(ctx, owner, params)
}

func (s *serviceTasks) UpdateTask(ctx context.Context, owner, taskID string, patch taskdomain.Patch) (*taskdomain.Task, error) {
	return s.svc.Update(ctx, owner, taskID, patch)
}

func (s *serviceTasks) ToggleTask(ctx context.Context, owner, taskID string) (*taskdomain.Task, error) {
	return s.svc.Toggle(ctx, owner, taskID)
}

func (s *serviceTasks) DeleteTask(ctx context.Context, owner, taskID string) error {
	_, err := s.svc.Delete(ctx, owner, taskID)
	return err
}

func (s *serviceTasks) ListDueTasks(ctx context.Context, after, until time.Time) ([]taskdomain.Task, error) {
	return s.svc.ListDue(ctx, after, until)
}

// mockActivity implements notification.ActivityPort with a fixed answer.
type mockActivity struct {
	activities []notification.Activity
	err        error
}

func (m *mockActivity) ListActivity(_ context.Context, _ string, limit int) ([]notification.Activity, error) {
	if m.err != nil {
		return nil, m.err
	}
	if limit > 0 && limit < len(m.activities) {
		return m.activities[:limit], nil
	}
	return m.activities, nil
}

// mockAuth implements auth.AuthPort with per-method funcs.
type mockAuth struct {
	validateTokenFunc func(ctx context.Context, token string) (*user.Identity, error)
}

func (m *mockAuth) Register(context.Context, auth.RegisterRequest) (*auth.AuthResult, error) {
	return nil, errors.New("not implemented")
}

func (m *mockAuth) Login(context.Context, auth.LoginRequest) (*auth.AuthResult, error) {
	return nil, errors.New("not implemented")
}

func (m *mockAuth) ValidateToken(ctx context.Context, token string) (*user.Identity, error) {
	if m.validateTokenFunc != nil {
		return m.validateTokenFunc(ctx, token)
	}
	return nil, errors.New("not implemented")
}

func (m *mockAuth) GetUser(context.Context, string) (*user.Identity, error) {
	return nil, errors.New("not implemented")
}

// newServiceApp wires the API to in-memory auth and task services.
func newServiceApp(t *testing.T, activity notification.ActivityPort) *fiber.App {
	t.Helper()

	userDB, err := database.Open(database.Memory, false, &user.User{})
	require.NoError(t, err)
	t.Cleanup(func() { database.Close(userDB) })

	taskDB, err := database.Open(database.Memory, false, &taskdomain.Task{})
	require.NoError(t, err)
	t.Cleanup(func() { database.Close(taskDB) })

	authSvc := auth.NewAuthService(
		auth.NewUserRepository(userDB),
		auth.NewPasswordHasher(bcrypt.MinCost),
		auth.NewTokenManager(auth.TokenConfig{Secret: "test-secret", TTL: 48 * time.Hour, Issuer: "test"}),
	)

	if activity == nil {
		activity = &mockActivity{}
	}

	m := NewModule(Config{BasePath: "/api"})
	m.auth = &serviceAuth{svc: authSvc}
	m.tasks = &serviceTasks{svc: task.NewTaskService(task.NewTaskRepository(taskDB))}
	m.activity = activity
	return m.newApp()
}
