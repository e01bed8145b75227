package router

import (
	"fmt"
	"log"
	"log/slog"
	"sync"
	"time"

	domain "github.com/example/realtime-chat/domain/chat"
	"github.com/example/realtime-chat/events"
	"github.com/example/realtime-chat/modules/history"
	"github.com/example/realtime-chat/modules/presence"
	"github.com/go-monolith/mono"
)

// Router turns each inbound client event into one transaction against the
// presence and history components followed by a fan-out through the sink.
// Every mutation and the recipients it notifies are defined here and nowhere
// else.
//
// Dispatch serializes events under a single mutex, so a multi-component
// transition such as a disconnect is atomic with respect to every other
// event. The components stay individually lock-protected for the read-only
// REST queries that bypass the router.
type Router struct {
	mu       sync.Mutex
	registry *presence.Registry
	rooms    *presence.Directory
	typing   *presence.TypingTracker
	store    *history.Store
	sink     Sink
	eventBus mono.EventBus
}

// New creates a router over the given components. The sink is attached later
// via SetSink, once the transport exists.
func New(reg *presence.Registry, rooms *presence.Directory, typing *presence.TypingTracker, store *history.Store) *Router {
	return &Router{
		registry: reg,
		rooms:    rooms,
		typing:   typing,
		store:    store,
	}
}

// SetSink attaches the fan-out sink.
func (r *Router) SetSink(sink Sink) {
	r.sink = sink
}

// setEventBus is called by the module when the framework hands the bus over.
func (r *Router) setEventBus(bus mono.EventBus) {
	r.eventBus = bus
}

// Dispatch routes one inbound event from connID. Component errors are
// absorbed here: a malformed or stale event is ignored rather than allowed
// to break any other connection's session.
func (r *Router) Dispatch(connID string, ev Inbound) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("[router] Recovered from panic dispatching %T for %s: %v", ev, connID, rec)
		}
	}()

	r.mu.Lock()
	defer r.mu.Unlock()

	switch ev := ev.(type) {
	case Join:
		r.handleJoin(connID, ev)
	case SwitchRoom:
		r.handleSwitchRoom(connID, ev)
	case SendRoomMessage:
		r.handleSendRoomMessage(connID, ev)
	case SendPrivateMessage:
		r.handleSendPrivateMessage(connID, ev)
	case MarkRead:
		r.handleMarkRead(connID, ev)
	case SetTyping:
		r.handleSetTyping(connID, ev)
	case AddReaction:
		r.handleAddReaction(connID, ev)
	case ShareAttachment:
		r.handleShareAttachment(ev)
	case Disconnect:
		r.handleDisconnect(connID)
	default:
		log.Printf("[router] Unhandled inbound event %T from %s", ev, connID)
	}
}

func (r *Router) handleJoin(connID string, ev Join) {
	if err := domain.ValidateUsername(ev.Username); err != nil {
		slog.Debug("Rejected join", "connID", connID, "error", err)
		return
	}

	user, err := r.registry.Register(connID, ev.Username)
	if err != nil {
		// A re-join on a live connection id would corrupt the presence
		// list; reject it and leave the existing record untouched.
		slog.Warn("Rejected duplicate join", "connID", connID, "error", err)
		return
	}
	r.rooms.Join(connID, domain.DefaultRoom)

	r.sink.Send(connID, Outbound{Event: EventRoomList, Data: r.rooms.RoomNames()})
	r.sink.Broadcast(Outbound{Event: EventUserList, Data: r.registry.ListAll()})
	r.sink.Broadcast(Outbound{Event: EventUserJoined, Data: UserRef{Username: ev.Username, ID: connID}})

	r.publishUserJoined(user)
}

func (r *Router) handleSwitchRoom(connID string, ev SwitchRoom) {
	user, ok := r.registry.Lookup(connID)
	if !ok {
		return
	}
	if err := domain.ValidateRoomName(ev.Room); err != nil {
		slog.Debug("Rejected room switch", "connID", connID, "error", err)
		return
	}

	// A typing indicator never outlives the room it was raised in.
	r.typing.Clear(connID)
	r.rooms.Join(connID, ev.Room)
	if err := r.registry.SetRoom(connID, ev.Room); err != nil {
		return
	}

	r.sink.Send(connID, Outbound{Event: EventRoomJoined, Data: ev.Room})
	notice := fmt.Sprintf("%s joined %s", user.Username, ev.Room)
	r.sendToRoom(ev.Room, Outbound{Event: EventRoomNotification, Data: notice})
}

func (r *Router) handleSendRoomMessage(connID string, ev SendRoomMessage) {
	user, ok := r.registry.Lookup(connID)
	if !ok {
		return
	}
	if err := domain.ValidateMessage(ev.Body); err != nil {
		slog.Debug("Rejected message", "connID", connID, "error", err)
		return
	}

	msg := r.store.AppendRoomMessage(user, ev.Body)

	r.sendToRoom(user.Room, Outbound{Event: EventReceiveMessage, Data: msg})
	r.sink.Send(connID, Outbound{Event: EventMessageDelivered, Data: msg.ID})

	r.publishMessageSent(msg)
}

func (r *Router) handleSendPrivateMessage(connID string, ev SendPrivateMessage) {
	user, ok := r.registry.Lookup(connID)
	if !ok {
		return
	}
	if err := domain.ValidateMessage(ev.Body); err != nil {
		slog.Debug("Rejected private message", "connID", connID, "error", err)
		return
	}

	msg := r.store.AppendPrivateMessage(user, ev.TargetID, ev.Body)

	if ev.TargetID != connID {
		r.sink.Send(ev.TargetID, Outbound{Event: EventPrivateMessage, Data: msg})
	}
	r.sink.Send(connID, Outbound{Event: EventPrivateMessage, Data: msg})
	r.sink.Send(connID, Outbound{Event: EventMessageDelivered, Data: msg.ID})

	r.publishMessageSent(msg)
}

func (r *Router) handleMarkRead(connID string, ev MarkRead) {
	user, ok := r.registry.Lookup(connID)
	if !ok {
		return
	}

	msg, err := r.store.MarkRead(ev.MessageID, user.Username)
	if err != nil {
		return
	}

	update := Outbound{Event: EventUpdateRead, Data: ReadUpdate{MessageID: msg.ID, ReadBy: msg.ReadBy}}
	if msg.Room != "" {
		r.sendToRoom(msg.Room, update)
		return
	}
	r.sendToParties(msg, connID, update)
}

func (r *Router) handleSetTyping(connID string, ev SetTyping) {
	user, ok := r.registry.Lookup(connID)
	if !ok {
		return
	}

	r.typing.SetTyping(connID, user.Room, ev.Typing)
	names := r.typing.TypingNamesFor(user.Room, func(id string) (string, bool) {
		u, ok := r.registry.Lookup(id)
		if !ok {
			return "", false
		}
		return u.Username, true
	})

	r.sendToRoom(user.Room, Outbound{Event: EventTypingUsers, Data: names})
}

func (r *Router) handleAddReaction(connID string, ev AddReaction) {
	if _, ok := r.registry.Lookup(connID); !ok {
		return
	}

	msg, err := r.store.AddReaction(ev.MessageID, ev.Symbol)
	if err != nil {
		return
	}

	update := Outbound{Event: EventUpdateReaction, Data: ReactionUpdate{MessageID: msg.ID, Reactions: msg.Reactions}}
	if msg.Room != "" {
		r.sendToRoom(msg.Room, update)
		return
	}
	r.sendToParties(msg, connID, update)
}

func (r *Router) handleShareAttachment(ev ShareAttachment) {
	msg := r.store.AppendAttachmentMessage(ev.Sender, ev.FileURL, ev.TargetID)

	out := Outbound{Event: EventFileShared, Data: msg}
	if ev.TargetID != "" {
		r.sink.Send(ev.TargetID, out)
	} else {
		r.sink.Broadcast(out)
	}

	r.publishFileShared(msg)
}

func (r *Router) handleDisconnect(connID string) {
	user, ok := r.registry.Lookup(connID)

	// Remove the connection from every component that references it before
	// anything else can observe it.
	r.typing.Clear(connID)
	r.rooms.Leave(connID)
	r.registry.Remove(connID)

	if !ok {
		return
	}

	r.sink.Broadcast(Outbound{Event: EventUserLeft, Data: UserRef{Username: user.Username, ID: connID}})
	r.sink.Broadcast(Outbound{Event: EventUserList, Data: r.registry.ListAll()})

	r.publishUserLeft(user)
}

// sendToRoom fans an event out to every current member of a room.
func (r *Router) sendToRoom(roomName string, out Outbound) {
	for _, connID := range r.rooms.MembersOf(roomName) {
		r.sink.Send(connID, out)
	}
}

// sendToParties fans an event out to the two parties of a private message.
func (r *Router) sendToParties(msg *domain.Message, connID string, out Outbound) {
	if msg.SenderID != "" && msg.SenderID != connID {
		r.sink.Send(msg.SenderID, out)
	}
	r.sink.Send(connID, out)
}

// EventBus publications: a secondary observer channel for activity tracking.
// Delivery to clients never rides the bus.

func (r *Router) publishMessageSent(msg *domain.Message) {
	if r.eventBus == nil {
		return
	}
	event := events.MessageSentEvent{
		MessageID: msg.ID,
		Room:      msg.Room,
		Sender:    msg.Sender,
		Private:   msg.Private,
		Timestamp: msg.Timestamp,
	}
	if err := events.MessageSentV1.Publish(r.eventBus, event, nil); err != nil {
		slog.Warn("Failed to publish MessageSent event", "error", err)
	}
}

func (r *Router) publishUserJoined(user *domain.User) {
	if r.eventBus == nil {
		return
	}
	event := events.UserJoinedEvent{
		ConnID:    user.ID,
		Username:  user.Username,
		Room:      user.Room,
		Timestamp: time.Now(),
	}
	if err := events.UserJoinedV1.Publish(r.eventBus, event, nil); err != nil {
		slog.Warn("Failed to publish UserJoined event", "error", err)
	}
}

func (r *Router) publishUserLeft(user *domain.User) {
	if r.eventBus == nil {
		return
	}
	event := events.UserLeftEvent{
		ConnID:    user.ID,
		Username:  user.Username,
		Timestamp: time.Now(),
	}
	if err := events.UserLeftV1.Publish(r.eventBus, event, nil); err != nil {
		slog.Warn("Failed to publish UserLeft event", "error", err)
	}
}

func (r *Router) publishFileShared(msg *domain.Message) {
	if r.eventBus == nil {
		return
	}
	event := events.FileSharedEvent{
		MessageID: msg.ID,
		FileURL:   msg.FileURL,
		Sender:    msg.Sender,
		Private:   msg.Private,
		Timestamp: msg.Timestamp,
	}
	if err := events.FileSharedV1.Publish(r.eventBus, event, nil); err != nil {
		slog.Warn("Failed to publish FileShared event", "error", err)
	}
}
