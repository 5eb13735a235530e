package notification

import "github.com/example/task-manager/domain/apperr"

// ListActivityRequest represents a list-activity request.
type ListActivityRequest struct {
	UserID string `json:"user_id"`
	Limit  int    `json:"limit,omitempty"`
}

// ListActivityResponse is the reply to list-activity.
type ListActivityResponse struct {
	Activities []Activity    `json:"activities"`
	Failure    *apperr.Error `json:"failure,omitempty"`
}
