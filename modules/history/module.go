package history

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// Module owns the message store and exposes the GUI history queries as
// request-reply services.
type Module struct {
	store *Store
}

// Compile-time interface checks.
var (
	_ mono.Module                = (*Module)(nil)
	_ mono.ServiceProviderModule = (*Module)(nil)
)

// NewModule creates a new history module.
func NewModule() *Module {
	return &Module{store: NewStore()}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "history"
}

// Store returns the message store.
func (m *Module) Store() *Store {
	return m.store
}

// RegisterServices registers request-reply services in the service container.
func (m *Module) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container,
		ServiceRoomPage,
		json.Unmarshal,
		json.Marshal,
		m.getRoomPage,
	); err != nil {
		return fmt.Errorf("failed to register %s service: %w", ServiceRoomPage, err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container,
		ServiceListMessages,
		json.Unmarshal,
		json.Marshal,
		m.listMessages,
	); err != nil {
		return fmt.Errorf("failed to register %s service: %w", ServiceListMessages, err)
	}

	log.Printf("[history] Registered services: %s, %s", ServiceRoomPage, ServiceListMessages)
	return nil
}

// getRoomPage handles the get-room-page service request.
func (m *Module) getRoomPage(_ context.Context, req RoomPageRequest, _ *mono.Msg) (RoomPageResponse, error) {
	return RoomPageResponse{Messages: m.store.RoomPage(req.Room, req.Page)}, nil
}

// listMessages handles the list-messages service request.
func (m *Module) listMessages(_ context.Context, req ListMessagesRequest, _ *mono.Msg) (ListMessagesResponse, error) {
	return ListMessagesResponse{Messages: m.store.All(req.Limit)}, nil
}

// Start initializes the module.
func (m *Module) Start(_ context.Context) error {
	log.Println("[history] Module started")
	return nil
}

// Stop shuts down the module.
func (m *Module) Stop(_ context.Context) error {
	log.Printf("[history] Module stopped - %d messages in log", m.store.Len())
	return nil
}
