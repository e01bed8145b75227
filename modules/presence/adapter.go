package presence

import (
	"context"
	"encoding/json"
	"fmt"

	domain "github.com/example/realtime-chat/domain/chat"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// Port defines the presence queries available to other modules.
type Port interface {
	ListUsers(ctx context.Context) ([]domain.User, error)
	ListRooms(ctx context.Context) ([]string, error)
}

// Adapter implements Port using the service container.
type Adapter struct {
	container mono.ServiceContainer
}

// NewAdapter creates a new presence adapter.
func NewAdapter(container mono.ServiceContainer) Port {
	if container == nil {
		panic("presence: ServiceContainer is nil")
	}
	return &Adapter{container: container}
}

// ListUsers returns the current presence list.
func (a *Adapter) ListUsers(ctx context.Context) ([]domain.User, error) {
	req := ListUsersRequest{}
	var resp ListUsersResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		ServiceListUsers,
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return resp.Users, nil
}

// ListRooms returns all room names in creation order.
func (a *Adapter) ListRooms(ctx context.Context) ([]string, error) {
	req := ListRoomsRequest{}
	var resp ListRoomsResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		ServiceListRooms,
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	return resp.Rooms, nil
}
