package auth

import (
	"context"
	"encoding/json"
	"fmt"

	domain "github.com/example/task-manager/domain/user"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// AuthPort is what other modules use to reach the auth module.
// Domain failures come back as *apperr.Error.
type AuthPort interface {
	Register(ctx context.Context, req RegisterRequest) (*AuthResult, error)
	Login(ctx context.Context, req LoginRequest) (*AuthResult, error)
	ValidateToken(ctx context.Context, token string) (*domain.Identity, error)
	GetUser(ctx context.Context, userID string) (*domain.Identity, error)
}

// authAdapter implements AuthPort over the auth module's service container.
type authAdapter struct {
	container mono.ServiceContainer
}

// NewAuthAdapter creates a new adapter for auth services.
func NewAuthAdapter(container mono.ServiceContainer) AuthPort {
	if container == nil {
		panic("auth adapter requires non-nil ServiceContainer")
	}
	return &authAdapter{container: container}
}

func (a *authAdapter) Register(ctx context.Context, req RegisterRequest) (*AuthResult, error) {
	var resp AuthResponse
	if err := callService(ctx, a.container, "register", &req, &resp); err != nil {
		return nil, err
	}
	if resp.Failure != nil {
		return nil, resp.Failure
	}
	return &AuthResult{Token: resp.Token, User: resp.User}, nil
}

func (a *authAdapter) Login(ctx context.Context, req LoginRequest) (*AuthResult, error) {
	var resp AuthResponse
	if err := callService(ctx, a.container, "login", &req, &resp); err != nil {
		return nil, err
	}
	if resp.Failure != nil {
		return nil, resp.Failure
	}
	return &AuthResult{Token: resp.Token, User: resp.User}, nil
}

func (a *authAdapter) ValidateToken(ctx context.Context, token string) (*domain.Identity, error) {
	req := ValidateTokenRequest{Token: token}
	var resp UserResponse
	if err := callService(ctx, a.container, "validate-token", &req, &resp); err != nil {
		return nil, err
	}
	if resp.Failure != nil {
		return nil, resp.Failure
	}
	return &resp.User, nil
}

func (a *authAdapter) GetUser(ctx context.Context, userID string) (*domain.Identity, error) {
	req := GetUserRequest{UserID: userID}
	var resp UserResponse
	if err := callService(ctx, a.container, "get-user", &req, &resp); err != nil {
		return nil, err
	}
	if resp.Failure != nil {
		return nil, resp.Failure
	}
	return &resp.User, nil
}

// callService performs a request-reply call and wraps transport failures.
func callService[Req, Resp any](ctx context.Context, container mono.ServiceContainer, service string, req *Req, resp *Resp) error {
	if err := helper.CallRequestReplyService(
		ctx,
		container,
		service,
		json.Marshal,
		json.Unmarshal,
		req,
		resp,
	); err != nil {
		return fmt.Errorf("%s service call failed: %w", service, err)
	}
	return nil
}
