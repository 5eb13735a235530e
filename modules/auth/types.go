package auth

import (
	"github.com/example/task-manager/domain/apperr"
	domain "github.com/example/task-manager/domain/user"
)

// RegisterRequest represents a user registration request.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest represents a user login request.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is the reply to register and login.
type AuthResponse struct {
	Token   string          `json:"token,omitempty"`
	User    domain.Identity `json:"user"`
	Failure *apperr.Error   `json:"failure,omitempty"`
}

// ValidateTokenRequest represents a token validation request.
type ValidateTokenRequest struct {
	Token string `json:"token"`
}

// GetUserRequest represents a get user request.
type GetUserRequest struct {
	UserID string `json:"user_id"`
}

// UserResponse is the reply to validate-token and get-user.
type UserResponse struct {
	User    domain.Identity `json:"user"`
	Failure *apperr.Error   `json:"failure,omitempty"`
}

// AuthResult is what callers get back from a successful register or login.
type AuthResult struct {
	Token string
	User  domain.Identity
}
