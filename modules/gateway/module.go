package gateway

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/go-monolith/mono"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/example/realtime-chat/modules/activity"
	"github.com/example/realtime-chat/modules/attachments"
	"github.com/example/realtime-chat/modules/history"
	"github.com/example/realtime-chat/modules/presence"
	"github.com/example/realtime-chat/modules/router"
)

// Module is the transport adapter: a Fiber app serving the WebSocket
// endpoint, the REST query API and attachment upload/download.
type Module struct {
	app      *fiber.App
	handlers *Handlers
	hub      *Hub
	rt       *router.Router
	files    *attachments.Module

	presencePort presence.Port
	historyPort  history.Port
	activityPort activity.Port

	port    string
	hubStop context.CancelFunc
}

// Compile-time interface checks.
var _ mono.Module = (*Module)(nil)
var _ mono.DependentModule = (*Module)(nil)
var _ mono.HealthCheckableModule = (*Module)(nil)

// NewModule creates the gateway over the router and attachment modules.
func NewModule(rt *router.Router, files *attachments.Module) *Module {
	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}
	return &Module{
		hub:   NewHub(),
		rt:    rt,
		files: files,
		port:  port,
	}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "gateway"
}

// Dependencies returns the modules whose services the REST API queries.
func (m *Module) Dependencies() []string {
	return []string{"presence", "history", "activity"}
}

// SetDependencyServiceContainer receives service containers from dependencies.
func (m *Module) SetDependencyServiceContainer(dependency string, container mono.ServiceContainer) {
	switch dependency {
	case "presence":
		m.presencePort = presence.NewAdapter(container)
	case "history":
		m.historyPort = history.NewAdapter(container)
	case "activity":
		m.activityPort = activity.NewAdapter(container)
	}
}

// Hub returns the hub so the router sink can be attached before start.
func (m *Module) Hub() *Hub {
	return m.hub
}

// Start brings up the Fiber server and the hub.
func (m *Module) Start(_ context.Context) error {
	if m.presencePort == nil || m.historyPort == nil || m.activityPort == nil {
		return fmt.Errorf("gateway dependencies not set")
	}

	hubCtx, cancel := context.WithCancel(context.Background())
	m.hubStop = cancel
	go m.hub.Run(hubCtx)

	m.app = fiber.New(fiber.Config{
		AppName:               "Realtime Chat",
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
		BodyLimit:             attachments.MaxFileSize + 1<<20,
		ReadTimeout:           30 * time.Second,
		IdleTimeout:           120 * time.Second,
	})

	m.app.Use(recover.New())
	m.app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} ${method} ${path} ${latency}\n",
		Next: func(c *fiber.Ctx) bool {
			// WebSocket upgrades hold the connection open; logging them
			// as one request is noise.
			return c.Get("Upgrade") == "websocket"
		},
	}))

	allowedOrigins := os.Getenv("CORS_ALLOWED_ORIGINS")
	if allowedOrigins == "" {
		allowedOrigins = "http://localhost:3000,http://localhost:8080"
	}
	m.app.Use(cors.New(cors.Config{
		AllowOrigins: allowedOrigins,
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Content-Type,Authorization",
	}))

	m.handlers = NewHandlers(m.rt, m.hub, m.files.Service(), m.presencePort, m.historyPort, m.activityPort)
	m.registerRoutes()

	// Catch immediate bind failures before declaring the module started.
	errCh := make(chan error, 1)
	go func() {
		if err := m.app.Listen(":" + m.port); err != nil {
			errCh <- err
		}
	}()
	select {
	case err := <-errCh:
		return fmt.Errorf("gateway failed to start: %w", err)
	case <-time.After(100 * time.Millisecond):
	}

	log.Printf("[gateway] HTTP server started on :%s", m.port)
	return nil
}

// Stop shuts the server down, then the hub.
func (m *Module) Stop(ctx context.Context) error {
	if m.app != nil {
		if err := m.app.ShutdownWithContext(ctx); err != nil {
			return fmt.Errorf("failed to shutdown server: %w", err)
		}
	}
	if m.hubStop != nil {
		m.hubStop()
		m.hub.Wait()
	}
	log.Println("[gateway] Module stopped")
	return nil
}

// Health returns the health status.
func (m *Module) Health(_ context.Context) mono.HealthStatus {
	return mono.HealthStatus{
		Healthy: m.app != nil,
		Message: "operational",
		Details: map[string]any{
			"port":              m.port,
			"connected_clients": m.hub.ClientCount(),
		},
	}
}

func (m *Module) registerRoutes() {
	m.app.Get("/health", m.handlers.HealthCheck)

	m.app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	m.app.Get("/ws", websocket.New(m.handlers.HandleWebSocket))

	api := m.app.Group("/api")
	api.Get("/messages", m.handlers.ListMessages)
	api.Get("/messages/:room/:page", m.handlers.GetRoomPage)
	api.Get("/users", m.handlers.ListUsers)
	api.Get("/rooms", m.handlers.ListRooms)
	api.Get("/stats", m.handlers.GetStats)

	m.app.Post("/upload", m.handlers.Upload)
	m.app.Get("/uploads/:code/:name", m.handlers.ServeUpload)
}

// errorHandler handles Fiber errors globally.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(ErrorResponse{
		Error:   "server_error",
		Message: message,
	})
}
