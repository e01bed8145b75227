package history

import domain "github.com/example/realtime-chat/domain/chat"

// Service names provided by this module.
const (
	ServiceRoomPage     = "get-room-page"
	ServiceListMessages = "list-messages"
)

// RoomPageRequest is the request for the get-room-page service.
type RoomPageRequest struct {
	Room string `json:"room"`
	Page int    `json:"page"`
}

// RoomPageResponse is the response for the get-room-page service.
type RoomPageResponse struct {
	Messages []domain.Message `json:"messages"`
}

// ListMessagesRequest is the request for the list-messages service. A zero
// limit returns the full log.
type ListMessagesRequest struct {
	Limit int `json:"limit"`
}

// ListMessagesResponse is the response for the list-messages service.
type ListMessagesResponse struct {
	Messages []domain.Message `json:"messages"`
}
