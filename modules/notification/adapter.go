package notification

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// ActivityPort reads activity feeds from the notification module.
type ActivityPort interface {
	ListActivity(ctx context.Context, userID string, limit int) ([]Activity, error)
}

type activityAdapter struct {
	container mono.ServiceContainer
}

// NewActivityAdapter creates a new adapter for notification services.
func NewActivityAdapter(container mono.ServiceContainer) ActivityPort {
	if container == nil {
		panic("activity adapter requires non-nil ServiceContainer")
	}
	return &activityAdapter{container: container}
}

func (a *activityAdapter) ListActivity(ctx context.Context, userID string, limit int) ([]Activity, error) {
	req := ListActivityRequest{UserID: userID, Limit: limit}
	var resp ListActivityResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"list-activity",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("list-activity service call failed: %w", err)
	}
	if resp.Failure != nil {
		return nil, resp.Failure
	}
	return resp.Activities, nil
}
