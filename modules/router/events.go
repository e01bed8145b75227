package router

// Outbound event names (wire contract with the GUI client).
const (
	EventRoomList         = "room_list"
	EventUserList         = "user_list"
	EventUserJoined       = "user_joined"
	EventUserLeft         = "user_left"
	EventRoomJoined       = "room_joined"
	EventRoomNotification = "room_notification"
	EventReceiveMessage   = "receive_message"
	EventPrivateMessage   = "private_message"
	EventMessageDelivered = "message_delivered"
	EventUpdateRead       = "update_read"
	EventUpdateReaction   = "update_reaction"
	EventTypingUsers      = "typing_users"
	EventFileShared       = "file_shared"
)

// Outbound is one event addressed to a computed recipient set.
type Outbound struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// UserRef identifies a user in join/leave notices.
type UserRef struct {
	Username string `json:"username"`
	ID       string `json:"id"`
}

// ReadUpdate carries the updated read-by set of a message.
type ReadUpdate struct {
	MessageID int64    `json:"messageId"`
	ReadBy    []string `json:"readBy"`
}

// ReactionUpdate carries the updated reaction tally of a message.
type ReactionUpdate struct {
	MessageID int64          `json:"messageId"`
	Reactions map[string]int `json:"reactions"`
}

// Sink receives the fan-out computed by the router. Sends are best-effort: a
// send to a connection that has since disconnected is dropped, not queued.
type Sink interface {
	Send(connID string, event Outbound)
	Broadcast(event Outbound)
}

// Inbound is the closed set of client events the router dispatches on.
type Inbound interface {
	inboundEvent()
}

// Join registers a connection under a display name.
type Join struct {
	Username string
}

// SwitchRoom moves the connection to another room.
type SwitchRoom struct {
	Room string
}

// SendRoomMessage posts a chat message to the sender's current room.
type SendRoomMessage struct {
	Body string
}

// SendPrivateMessage posts a message visible only to the target and sender.
type SendPrivateMessage struct {
	TargetID string
	Body     string
}

// MarkRead acknowledges a message as read by the sender of this event.
type MarkRead struct {
	MessageID int64
}

// SetTyping toggles the typing indicator in the sender's current room.
type SetTyping struct {
	Typing bool
}

// AddReaction increments a reaction tally on a message.
type AddReaction struct {
	MessageID int64
	Symbol    string
}

// ShareAttachment records an uploaded file and fans it out. It arrives via
// the upload endpoint, so the sender is a display name rather than a
// connection.
type ShareAttachment struct {
	Sender   string
	FileURL  string
	TargetID string
}

// Disconnect tears down every trace of the connection.
type Disconnect struct{}

func (Join) inboundEvent()               {}
func (SwitchRoom) inboundEvent()         {}
func (SendRoomMessage) inboundEvent()    {}
func (SendPrivateMessage) inboundEvent() {}
func (MarkRead) inboundEvent()           {}
func (SetTyping) inboundEvent()          {}
func (AddReaction) inboundEvent()        {}
func (ShareAttachment) inboundEvent()    {}
func (Disconnect) inboundEvent()         {}
