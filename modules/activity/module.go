package activity

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/example/realtime-chat/events"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// ServiceGetStats is the request-reply service name for activity counters.
const ServiceGetStats = "get-stats"

// StatsRequest is the (empty) request for get-stats.
type StatsRequest struct{}

// StatsResponse is the counter snapshot returned by get-stats.
type StatsResponse struct {
	MessagesTotal   int64            `json:"messagesTotal"`
	PrivateMessages int64            `json:"privateMessages"`
	FilesShared     int64            `json:"filesShared"`
	Joins           int64            `json:"joins"`
	Leaves          int64            `json:"leaves"`
	MessagesByRoom  map[string]int64 `json:"messagesByRoom"`
	LastEventAt     *time.Time       `json:"lastEventAt,omitempty"`
}

// Module tallies chat activity by consuming the domain events the router
// publishes. It observes delivery, it never participates in it.
type Module struct {
	mu              sync.RWMutex
	messagesTotal   int64
	privateMessages int64
	filesShared     int64
	joins           int64
	leaves          int64
	messagesByRoom  map[string]int64
	lastEventAt     time.Time
}

var _ mono.Module = (*Module)(nil)
var _ mono.EventConsumerModule = (*Module)(nil)
var _ mono.ServiceProviderModule = (*Module)(nil)
var _ mono.HealthCheckableModule = (*Module)(nil)

func NewModule() *Module {
	return &Module{messagesByRoom: make(map[string]int64)}
}

func (m *Module) Name() string {
	return "activity"
}

func (m *Module) RegisterEventConsumers(registry mono.EventRegistry) error {
	if err := helper.RegisterTypedEventConsumer(registry, events.MessageSentV1, m.handleMessageSent, m); err != nil {
		return fmt.Errorf("failed to register MessageSent consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.UserJoinedV1, m.handleUserJoined, m); err != nil {
		return fmt.Errorf("failed to register UserJoined consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.UserLeftV1, m.handleUserLeft, m); err != nil {
		return fmt.Errorf("failed to register UserLeft consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.FileSharedV1, m.handleFileShared, m); err != nil {
		return fmt.Errorf("failed to register FileShared consumer: %w", err)
	}

	log.Printf("[activity] Registered event consumers: MessageSent, UserJoined, UserLeft, FileShared")
	return nil
}

func (m *Module) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container,
		ServiceGetStats,
		json.Unmarshal,
		json.Marshal,
		m.getStats,
	); err != nil {
		return fmt.Errorf("failed to register %s service: %w", ServiceGetStats, err)
	}

	log.Printf("[activity] Registered services: %s", ServiceGetStats)
	return nil
}

func (m *Module) handleMessageSent(_ context.Context, event events.MessageSentEvent, _ *mono.Msg) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.messagesTotal++
	if event.Private {
		m.privateMessages++
	} else {
		m.messagesByRoom[event.Room]++
	}
	m.lastEventAt = time.Now()
	return nil
}

func (m *Module) handleUserJoined(_ context.Context, event events.UserJoinedEvent, _ *mono.Msg) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.joins++
	m.lastEventAt = time.Now()
	log.Printf("[activity] %s joined %s", event.Username, event.Room)
	return nil
}

func (m *Module) handleUserLeft(_ context.Context, event events.UserLeftEvent, _ *mono.Msg) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.leaves++
	m.lastEventAt = time.Now()
	log.Printf("[activity] %s left", event.Username)
	return nil
}

func (m *Module) handleFileShared(_ context.Context, _ events.FileSharedEvent, _ *mono.Msg) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.filesShared++
	m.lastEventAt = time.Now()
	return nil
}

func (m *Module) getStats(_ context.Context, _ StatsRequest, _ *mono.Msg) (StatsResponse, error) {
	return m.Stats(), nil
}

// Stats returns a snapshot of the counters.
func (m *Module) Stats() StatsResponse {
	m.mu.RLock()
	defer m.mu.RUnlock()

	byRoom := make(map[string]int64, len(m.messagesByRoom))
	for room, n := range m.messagesByRoom {
		byRoom[room] = n
	}

	resp := StatsResponse{
		MessagesTotal:   m.messagesTotal,
		PrivateMessages: m.privateMessages,
		FilesShared:     m.filesShared,
		Joins:           m.joins,
		Leaves:          m.leaves,
		MessagesByRoom:  byRoom,
	}
	if !m.lastEventAt.IsZero() {
		at := m.lastEventAt
		resp.LastEventAt = &at
	}
	return resp
}

func (m *Module) Start(_ context.Context) error {
	log.Println("[activity] Module started - listening for chat events")
	return nil
}

func (m *Module) Stop(_ context.Context) error {
	log.Println("[activity] Module stopped")
	return nil
}

func (m *Module) Health(_ context.Context) mono.HealthStatus {
	stats := m.Stats()
	return mono.HealthStatus{
		Healthy: true,
		Message: "tracking",
		Details: map[string]any{
			"messages_total": stats.MessagesTotal,
			"joins":          stats.Joins,
			"leaves":         stats.Leaves,
		},
	}
}
