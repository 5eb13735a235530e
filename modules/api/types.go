package api

import (
	"github.com/example/task-manager/domain/apperr"
	domain "github.com/example/task-manager/domain/task"
	"github.com/example/task-manager/domain/user"
	"github.com/example/task-manager/modules/notification"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error *apperr.Error `json:"error"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	Message string        `json:"message"`
	Token   string        `json:"token"`
	User    user.Identity `json:"user"`
}

// UserResponse is returned by GET /auth/me.
type UserResponse struct {
	User user.Identity `json:"user"`
}

// MessageResponse carries a plain confirmation.
type MessageResponse struct {
	Message string `json:"message"`
}

// TaskResponse wraps a single task.
type TaskResponse struct {
	Task *domain.Task `json:"task"`
}

// ActivityResponse lists activity feed entries, newest first.
type ActivityResponse struct {
	Data []notification.Activity `json:"data"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status  string                  `json:"status"`
	Modules map[string]ModuleHealth `json:"modules,omitempty"`
}

// ModuleHealth is one module's entry in the health report.
type ModuleHealth struct {
	Healthy bool           `json:"healthy"`
	Message string         `json:"message,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}
