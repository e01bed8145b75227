package router

import (
	"context"
	"log"

	"github.com/example/realtime-chat/events"
	"github.com/example/realtime-chat/modules/history"
	"github.com/example/realtime-chat/modules/presence"
	"github.com/go-monolith/mono"
)

// Module wraps the Router for the framework: it receives the event bus and
// declares the domain events the router emits.
type Module struct {
	router *Router
}

// Compile-time interface checks.
var (
	_ mono.Module              = (*Module)(nil)
	_ mono.EventBusAwareModule = (*Module)(nil)
	_ mono.EventEmitterModule  = (*Module)(nil)
)

// NewModule creates the router module over the presence and history modules.
func NewModule(presenceModule *presence.Module, historyModule *history.Module) *Module {
	return &Module{
		router: New(
			presenceModule.Registry(),
			presenceModule.Rooms(),
			presenceModule.Typing(),
			historyModule.Store(),
		),
	}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "router"
}

// Router returns the event router.
func (m *Module) Router() *Router {
	return m.router
}

// SetEventBus receives the EventBus from the framework.
func (m *Module) SetEventBus(bus mono.EventBus) {
	m.router.setEventBus(bus)
}

// EmitEvents declares the events this module can emit.
func (m *Module) EmitEvents() []mono.BaseEventDefinition {
	return []mono.BaseEventDefinition{
		events.MessageSentV1.ToBase(),
		events.UserJoinedV1.ToBase(),
		events.UserLeftV1.ToBase(),
		events.FileSharedV1.ToBase(),
	}
}

// Start initializes the module.
func (m *Module) Start(_ context.Context) error {
	if m.router.sink == nil {
		log.Println("[router] Warning: starting without a fan-out sink")
	}
	log.Println("[router] Module started")
	return nil
}

// Stop shuts down the module.
func (m *Module) Stop(_ context.Context) error {
	log.Println("[router] Module stopped")
	return nil
}
