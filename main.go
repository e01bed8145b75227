package main

import (
	"context"
	"log"
	"os"
	"time"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-monolith/mono"

	"github.com/example/realtime-chat/modules/activity"
	"github.com/example/realtime-chat/modules/attachments"
	"github.com/example/realtime-chat/modules/gateway"
	"github.com/example/realtime-chat/modules/history"
	"github.com/example/realtime-chat/modules/presence"
	"github.com/example/realtime-chat/modules/router"
)

const shutdownTimeout = 30 * time.Second

func main() {
	log.Println("=== Realtime Chat - Presence, Rooms & Messaging ===")

	app, err := mono.NewMonoApplication(
		mono.WithShutdownTimeout(shutdownTimeout),
		mono.WithLogLevel(mono.LogLevelInfo),
		mono.WithLogFormat(mono.LogFormatText),
	)
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}

	// Create modules
	presenceModule := presence.NewModule()
	historyModule := history.NewModule()
	activityModule := activity.NewModule()
	routerModule := router.NewModule(presenceModule, historyModule)
	attachmentsModule := attachments.NewModule()
	gatewayModule := gateway.NewModule(routerModule.Router(), attachmentsModule)

	// The router fans out through the gateway hub. This is wired manually
	// because the hub is a live object, not a request-reply service.
	routerModule.Router().SetSink(gatewayModule.Hub())

	// Register modules with the framework.
	// Order: state holders first, then the router over them, then transport.
	app.Register(presenceModule)    // Connection registry, room directory, typing tracker
	app.Register(historyModule)     // Append-only message store
	app.Register(activityModule)    // Event consumer tallying chat activity
	app.Register(routerModule)      // Central event router + event emitter
	app.Register(attachmentsModule) // Attachment storage (memory or JetStream)
	app.Register(gatewayModule)     // Fiber HTTP/WebSocket transport

	if err := app.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}

	printStartupInfo()

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		shutdownTimeout,
		map[string]gfshutdown.Operation{
			"mono-app": func(ctx context.Context) error {
				log.Println("Graceful shutdown initiated...")
				return app.Stop(ctx)
			},
		},
	)

	exitCode := <-wait
	log.Printf("Application exited with code: %d", exitCode)
	os.Exit(exitCode)
}

func printStartupInfo() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}

	log.Println("")
	log.Println("Application started successfully!")
	log.Println("")
	log.Printf("REST API Endpoints (http://localhost:%s):", port)
	log.Println("  GET    /health                    - Health check")
	log.Println("  GET    /api/messages              - Message log (optional ?limit=)")
	log.Println("  GET    /api/messages/:room/:page  - Room history page (page 0 = newest)")
	log.Println("  GET    /api/users                 - Online users")
	log.Println("  GET    /api/rooms                 - Room names")
	log.Println("  GET    /api/stats                 - Activity counters")
	log.Println("  POST   /upload                    - Attachment upload (multipart)")
	log.Println("  GET    /uploads/:code/:name       - Attachment download")
	log.Println("")
	log.Printf("WebSocket Endpoint: ws://localhost:%s/ws", port)
	log.Println("  Inbound events: user_join, join_room, send_message, private_message,")
	log.Println("                  message_read, typing, add_reaction")
	log.Println("")
	if os.Getenv("NATS_URL") == "" {
		log.Println("Attachment storage: in-memory (set NATS_URL for JetStream persistence)")
	} else {
		log.Printf("Attachment storage: NATS JetStream at %s", os.Getenv("NATS_URL"))
	}
	log.Println("")
	log.Println("Press Ctrl+C to shutdown gracefully")
}
