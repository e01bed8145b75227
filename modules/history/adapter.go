package history

import (
	"context"
	"encoding/json"
	"fmt"

	domain "github.com/example/realtime-chat/domain/chat"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// Port defines the history queries available to other modules.
type Port interface {
	RoomPage(ctx context.Context, room string, page int) ([]domain.Message, error)
	ListMessages(ctx context.Context, limit int) ([]domain.Message, error)
}

// Adapter implements Port using the service container.
type Adapter struct {
	container mono.ServiceContainer
}

// NewAdapter creates a new history adapter.
func NewAdapter(container mono.ServiceContainer) Port {
	if container == nil {
		panic("history: ServiceContainer is nil")
	}
	return &Adapter{container: container}
}

// RoomPage returns one page of a room's history.
func (a *Adapter) RoomPage(ctx context.Context, room string, page int) ([]domain.Message, error) {
	req := RoomPageRequest{Room: room, Page: page}
	var resp RoomPageResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		ServiceRoomPage,
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("failed to get room page: %w", err)
	}
	return resp.Messages, nil
}

// ListMessages returns the message log, newest-bounded by limit when positive.
func (a *Adapter) ListMessages(ctx context.Context, limit int) ([]domain.Message, error) {
	req := ListMessagesRequest{Limit: limit}
	var resp ListMessagesResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		ServiceListMessages,
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return resp.Messages, nil
}
