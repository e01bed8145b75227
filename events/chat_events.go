package events

import (
	"time"

	"github.com/go-monolith/mono/pkg/helper"
)

// MessageSentEvent is emitted after a message is appended to the log.
type MessageSentEvent struct {
	MessageID int64     `json:"message_id"`
	Room      string    `json:"room,omitempty"`
	Sender    string    `json:"sender"`
	Private   bool      `json:"private"`
	Timestamp time.Time `json:"timestamp"`
}

// UserJoinedEvent is emitted when a connection registers.
type UserJoinedEvent struct {
	ConnID    string    `json:"conn_id"`
	Username  string    `json:"username"`
	Room      string    `json:"room"`
	Timestamp time.Time `json:"timestamp"`
}

// UserLeftEvent is emitted when a connection disconnects.
type UserLeftEvent struct {
	ConnID    string    `json:"conn_id"`
	Username  string    `json:"username"`
	Timestamp time.Time `json:"timestamp"`
}

// FileSharedEvent is emitted after an attachment message is appended.
type FileSharedEvent struct {
	MessageID int64     `json:"message_id"`
	FileURL   string    `json:"file_url"`
	Sender    string    `json:"sender"`
	Private   bool      `json:"private"`
	Timestamp time.Time `json:"timestamp"`
}

// Event definitions for the chat domain.
var (
	MessageSentV1 = helper.EventDefinition[MessageSentEvent](
		"chat",
		"MessageSent",
		"v1",
	)

	UserJoinedV1 = helper.EventDefinition[UserJoinedEvent](
		"chat",
		"UserJoined",
		"v1",
	)

	UserLeftV1 = helper.EventDefinition[UserLeftEvent](
		"chat",
		"UserLeft",
		"v1",
	)

	FileSharedV1 = helper.EventDefinition[FileSharedEvent](
		"chat",
		"FileShared",
		"v1",
	)
)
