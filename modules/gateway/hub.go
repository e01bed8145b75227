package gateway

import (
	"context"
	"encoding/json"
	"log"
	"log/slog"
	"sync"

	"github.com/gofiber/contrib/websocket"

	"github.com/example/realtime-chat/modules/router"
)

// sendBuffer is the per-connection outbound queue depth. A connection that
// falls this far behind is cut off rather than allowed to stall dispatch.
const sendBuffer = 64

// client is one WebSocket connection with its outbound queue. A dedicated
// writer goroutine drains the queue so fan-out never blocks on the socket.
type client struct {
	connID string
	conn   *websocket.Conn

	mu     sync.Mutex
	send   chan []byte
	closed bool
}

func (c *client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// enqueue reports false when the queue is full. Events for a closed client
// are silently dropped.
func (c *client) enqueue(data []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return true
	}
	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}

// writeLoop drains the outbound queue onto the socket.
func (c *client) writeLoop() {
	for data := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			slog.Debug("Failed to write to client", "connID", c.connID, "error", err)
		}
	}
}

// Hub tracks live WebSocket connections and delivers the router's fan-out to
// them. It implements the router sink: sends are best-effort, a connection
// that is gone or too slow simply misses the event.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*client
	done    chan struct{}
}

var _ router.Sink = (*Hub)(nil)

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]*client),
		done:    make(chan struct{}),
	}
}

// Run blocks until the context is cancelled, then closes every connection.
func (h *Hub) Run(ctx context.Context) {
	<-ctx.Done()
	log.Println("[hub] Shutting down...")
	h.closeAllClients()
	close(h.done)
}

// Wait blocks until the hub has stopped.
func (h *Hub) Wait() {
	<-h.done
}

func (h *Hub) closeAllClients() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, cl := range h.clients {
		cl.close()
		_ = cl.conn.Close()
	}
	h.clients = make(map[string]*client)
}

// Register adds a connection and starts its writer.
func (h *Hub) Register(connID string, conn *websocket.Conn) {
	cl := &client{
		connID: connID,
		conn:   conn,
		send:   make(chan []byte, sendBuffer),
	}

	h.mu.Lock()
	h.clients[connID] = cl
	h.mu.Unlock()

	go cl.writeLoop()
	log.Printf("[hub] Client %s registered", connID)
}

// Unregister removes a connection and stops its writer.
func (h *Hub) Unregister(connID string) {
	h.mu.Lock()
	cl, ok := h.clients[connID]
	if ok {
		delete(h.clients, connID)
	}
	h.mu.Unlock()

	if ok {
		cl.close()
		log.Printf("[hub] Client %s unregistered", connID)
	}
}

// Send queues one event for a single connection. Unknown connections are
// ignored. A full queue closes the socket: the read loop then tears the
// connection down through the normal disconnect path.
func (h *Hub) Send(connID string, event router.Outbound) {
	data, err := json.Marshal(event)
	if err != nil {
		slog.Error("Failed to marshal event", "event", event.Event, "error", err)
		return
	}

	h.mu.RLock()
	cl, ok := h.clients[connID]
	h.mu.RUnlock()
	if !ok {
		return
	}

	h.enqueue(cl, data)
}

// Broadcast queues one event for every connection.
func (h *Hub) Broadcast(event router.Outbound) {
	data, err := json.Marshal(event)
	if err != nil {
		slog.Error("Failed to marshal event", "event", event.Event, "error", err)
		return
	}

	h.mu.RLock()
	clients := make([]*client, 0, len(h.clients))
	for _, cl := range h.clients {
		clients = append(clients, cl)
	}
	h.mu.RUnlock()

	for _, cl := range clients {
		h.enqueue(cl, data)
	}
}

func (h *Hub) enqueue(cl *client, data []byte) {
	if !cl.enqueue(data) {
		slog.Warn("Dropping slow client", "connID", cl.connID)
		_ = cl.conn.Close()
	}
}

// ClientCount returns the number of live connections.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
