package gateway

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/example/realtime-chat/modules/activity"
	"github.com/example/realtime-chat/modules/attachments"
	"github.com/example/realtime-chat/modules/history"
	"github.com/example/realtime-chat/modules/presence"
	"github.com/example/realtime-chat/modules/router"
)

// Handlers contains the WebSocket and REST handlers. Live traffic goes
// through the router; REST queries go through the module adapters.
type Handlers struct {
	rt       *router.Router
	hub      *Hub
	files    *attachments.Service
	presence presence.Port
	history  history.Port
	activity activity.Port
	logger   *slog.Logger
}

// NewHandlers creates a handlers instance.
func NewHandlers(rt *router.Router, hub *Hub, files *attachments.Service, presencePort presence.Port, historyPort history.Port, activityPort activity.Port) *Handlers {
	return &Handlers{
		rt:       rt,
		hub:      hub,
		files:    files,
		presence: presencePort,
		history:  historyPort,
		activity: activityPort,
		logger:   slog.Default(),
	}
}

// HandleWebSocket runs one connection's session: register with the hub, read
// and dispatch envelopes until the socket dies, then tear everything down.
func (h *Handlers) HandleWebSocket(c *websocket.Conn) {
	connID := uuid.New().String()
	h.hub.Register(connID, c)

	defer func() {
		h.hub.Unregister(connID)
		h.rt.Dispatch(connID, router.Disconnect{})
		c.Close()
	}()

	h.logger.Info("WebSocket connected", "connID", connID)

	for {
		_, raw, err := c.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.logger.Error("WebSocket error", "connID", connID, "error", err)
			}
			break
		}

		var env envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			h.sendError(connID, "Invalid message format")
			continue
		}

		ev, err := decodeInbound(env)
		if err != nil {
			h.sendError(connID, err.Error())
			continue
		}

		h.rt.Dispatch(connID, ev)
	}

	h.logger.Info("WebSocket disconnected", "connID", connID)
}

// decodeInbound maps a wire envelope onto a router event.
func decodeInbound(env envelope) (router.Inbound, error) {
	switch env.Event {
	case "user_join":
		var username string
		if err := json.Unmarshal(env.Data, &username); err != nil {
			return nil, fmt.Errorf("invalid user_join payload")
		}
		return router.Join{Username: username}, nil

	case "join_room":
		var room string
		if err := json.Unmarshal(env.Data, &room); err != nil {
			return nil, fmt.Errorf("invalid join_room payload")
		}
		return router.SwitchRoom{Room: room}, nil

	case "send_message":
		var p sendMessagePayload
		if err := json.Unmarshal(env.Data, &p); err != nil {
			return nil, fmt.Errorf("invalid send_message payload")
		}
		return router.SendRoomMessage{Body: p.Message}, nil

	case "private_message":
		var p privateMessagePayload
		if err := json.Unmarshal(env.Data, &p); err != nil {
			return nil, fmt.Errorf("invalid private_message payload")
		}
		return router.SendPrivateMessage{TargetID: p.To, Body: p.Message}, nil

	case "message_read":
		var id int64
		if err := json.Unmarshal(env.Data, &id); err != nil {
			return nil, fmt.Errorf("invalid message_read payload")
		}
		return router.MarkRead{MessageID: id}, nil

	case "typing":
		var typing bool
		if err := json.Unmarshal(env.Data, &typing); err != nil {
			return nil, fmt.Errorf("invalid typing payload")
		}
		return router.SetTyping{Typing: typing}, nil

	case "add_reaction":
		var p addReactionPayload
		if err := json.Unmarshal(env.Data, &p); err != nil {
			return nil, fmt.Errorf("invalid add_reaction payload")
		}
		return router.AddReaction{MessageID: p.MessageID, Symbol: p.Reaction}, nil

	default:
		return nil, fmt.Errorf("unknown event: %s", env.Event)
	}
}

// sendError echoes a wire-level error back to one connection.
func (h *Handlers) sendError(connID, message string) {
	h.hub.Send(connID, router.Outbound{Event: "error", Data: message})
}

// REST Handlers

// ListMessages handles GET /api/messages.
func (h *Handlers) ListMessages(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 0)
	messages, err := h.history.ListMessages(c.Context(), limit)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(messages)
}

// ListUsers handles GET /api/users.
func (h *Handlers) ListUsers(c *fiber.Ctx) error {
	users, err := h.presence.ListUsers(c.Context())
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(users)
}

// GetRoomPage handles GET /api/messages/:room/:page.
func (h *Handlers) GetRoomPage(c *fiber.Ctx) error {
	room, err := url.PathUnescape(c.Params("room"))
	if err != nil || room == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Room is required")
	}

	page, err := c.ParamsInt("page")
	if err != nil || page < 0 {
		return fiber.NewError(fiber.StatusBadRequest, "Page must be a non-negative number")
	}

	messages, err := h.history.RoomPage(c.Context(), room, page)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(messages)
}

// ListRooms handles GET /api/rooms.
func (h *Handlers) ListRooms(c *fiber.Ctx) error {
	rooms, err := h.presence.ListRooms(c.Context())
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(fiber.Map{
		"rooms": rooms,
		"total": len(rooms),
	})
}

// GetStats handles GET /api/stats.
func (h *Handlers) GetStats(c *fiber.Ctx) error {
	stats, err := h.activity.Stats(c.Context())
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(stats)
}

// Upload handles POST /upload: store the file, record an attachment message
// and fan out file_shared.
func (h *Handlers) Upload(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "bad_request",
			Message: "A file is required",
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to open upload")
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to read upload")
	}

	stored, err := h.files.Store(c.Context(), fileHeader.Filename, data, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		if errors.Is(err, attachments.ErrUnsupportedFileType) ||
			errors.Is(err, attachments.ErrEmptyFile) ||
			errors.Is(err, attachments.ErrFileTooLarge) {
			return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
				Error:   "invalid_file",
				Message: err.Error(),
			})
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	h.rt.Dispatch("", router.ShareAttachment{
		Sender:   c.FormValue("sender"),
		FileURL:  stored.URL,
		TargetID: c.FormValue("to"),
	})

	return c.JSON(UploadResponse{
		Message: "File uploaded",
		FileURL: stored.URL,
	})
}

// ServeUpload handles GET /uploads/:code/:name.
func (h *Handlers) ServeUpload(c *fiber.Ctx) error {
	code := c.Params("code")
	name, err := url.PathUnescape(c.Params("name"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid file name")
	}

	data, contentType, err := h.files.Open(c.Context(), code, name)
	if err != nil {
		if errors.Is(err, attachments.ErrAttachmentNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Attachment not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	c.Set(fiber.HeaderContentType, contentType)
	return c.Send(data)
}

// HealthCheck handles GET /health.
func (h *Handlers) HealthCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":            "healthy",
		"service":           "realtime-chat",
		"connected_clients": h.hub.ClientCount(),
	})
}
