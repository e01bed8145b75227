package attachments

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/go-monolith/mono"
)

// Module owns attachment storage. With NATS_URL set it persists uploads to a
// JetStream Object Store bucket; without it, uploads live in memory for the
// lifetime of the process.
type Module struct {
	service *Service
	js      *JetStreamObjectStore
	natsURL string
	bucket  string
}

// Compile-time interface checks.
var _ mono.Module = (*Module)(nil)
var _ mono.HealthCheckableModule = (*Module)(nil)

// NewModule creates the attachments module from environment configuration.
func NewModule() *Module {
	bucket := os.Getenv("NATS_BUCKET")
	if bucket == "" {
		bucket = "attachments"
	}
	return &Module{
		natsURL: os.Getenv("NATS_URL"),
		bucket:  bucket,
	}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "attachments"
}

// Start selects the backend and prepares the service.
func (m *Module) Start(ctx context.Context) error {
	var store ObjectStore
	if m.natsURL != "" {
		js, err := NewJetStreamObjectStore(m.natsURL, m.bucket)
		if err != nil {
			return fmt.Errorf("failed to create object store: %w", err)
		}
		if err := js.Init(ctx); err != nil {
			js.Close()
			return fmt.Errorf("failed to initialize object store: %w", err)
		}
		m.js = js
		store = js
		log.Printf("[attachments] Module started (NATS: %s, bucket: %s)", m.natsURL, m.bucket)
	} else {
		store = NewMemoryObjectStore()
		log.Println("[attachments] Module started (in-memory storage)")
	}

	service, err := NewService(store)
	if err != nil {
		return err
	}
	m.service = service
	return nil
}

// Stop closes the backend connection.
func (m *Module) Stop(_ context.Context) error {
	if m.js != nil {
		m.js.Close()
	}
	log.Println("[attachments] Module stopped")
	return nil
}

// Health reports backend connectivity.
func (m *Module) Health(_ context.Context) mono.HealthStatus {
	backend := "memory"
	healthy := m.service != nil
	if m.natsURL != "" {
		backend = "jetstream"
		healthy = m.js != nil && m.js.Connected()
	}

	message := "connected"
	if !healthy {
		message = "disconnected"
	}
	return mono.HealthStatus{
		Healthy: healthy,
		Message: message,
		Details: map[string]any{
			"backend": backend,
			"bucket":  m.bucket,
		},
	}
}

// Service returns the attachment service. Nil before Start.
func (m *Module) Service() *Service {
	return m.service
}
