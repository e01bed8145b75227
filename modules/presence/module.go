package presence

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	domain "github.com/example/realtime-chat/domain/chat"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// Module bundles the connection registry, room directory and typing tracker
// and exposes the read-only presence queries as request-reply services.
type Module struct {
	registry *Registry
	rooms    *Directory
	typing   *TypingTracker
}

// Compile-time interface checks.
var (
	_ mono.Module                = (*Module)(nil)
	_ mono.ServiceProviderModule = (*Module)(nil)
)

// NewModule creates the presence module with the default rooms pre-created.
func NewModule() *Module {
	return &Module{
		registry: NewRegistry(),
		rooms:    NewDirectory(domain.DefaultRooms...),
		typing:   NewTypingTracker(),
	}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "presence"
}

// Registry returns the connection registry.
func (m *Module) Registry() *Registry {
	return m.registry
}

// Rooms returns the room directory.
func (m *Module) Rooms() *Directory {
	return m.rooms
}

// Typing returns the typing tracker.
func (m *Module) Typing() *TypingTracker {
	return m.typing
}

// RegisterServices registers request-reply services in the service container.
func (m *Module) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container,
		ServiceListUsers,
		json.Unmarshal,
		json.Marshal,
		m.listUsers,
	); err != nil {
		return fmt.Errorf("failed to register %s service: %w", ServiceListUsers, err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container,
		ServiceListRooms,
		json.Unmarshal,
		json.Marshal,
		m.listRooms,
	); err != nil {
		return fmt.Errorf("failed to register %s service: %w", ServiceListRooms, err)
	}

	log.Printf("[presence] Registered services: %s, %s", ServiceListUsers, ServiceListRooms)
	return nil
}

// listUsers handles the list-users service request.
func (m *Module) listUsers(_ context.Context, _ ListUsersRequest, _ *mono.Msg) (ListUsersResponse, error) {
	return ListUsersResponse{Users: m.registry.ListAll()}, nil
}

// listRooms handles the list-rooms service request.
func (m *Module) listRooms(_ context.Context, _ ListRoomsRequest, _ *mono.Msg) (ListRoomsResponse, error) {
	return ListRoomsResponse{Rooms: m.rooms.RoomNames()}, nil
}

// Start initializes the module.
func (m *Module) Start(_ context.Context) error {
	log.Printf("[presence] Module started with rooms: %v", m.rooms.RoomNames())
	return nil
}

// Stop shuts down the module.
func (m *Module) Stop(_ context.Context) error {
	log.Printf("[presence] Module stopped - %d connections were registered", m.registry.Count())
	return nil
}
