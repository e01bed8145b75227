package activity

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// Port defines the activity queries available to other modules.
type Port interface {
	Stats(ctx context.Context) (StatsResponse, error)
}

// Adapter implements Port using the service container.
type Adapter struct {
	container mono.ServiceContainer
}

// NewAdapter creates a new activity adapter.
func NewAdapter(container mono.ServiceContainer) Port {
	if container == nil {
		panic("activity: ServiceContainer is nil")
	}
	return &Adapter{container: container}
}

// Stats returns the current activity counters.
func (a *Adapter) Stats(ctx context.Context) (StatsResponse, error) {
	req := StatsRequest{}
	var resp StatsResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		ServiceGetStats,
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return StatsResponse{}, fmt.Errorf("failed to get stats: %w", err)
	}
	return resp, nil
}
