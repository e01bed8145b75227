package history

import (
	"sync"
	"time"

	domain "github.com/example/realtime-chat/domain/chat"
)

// Store is the append-only message log. Messages are never deleted; only the
// reaction tally and the read-by set of an existing message are mutated.
type Store struct {
	mu     sync.RWMutex
	all    []*domain.Message
	byID   map[int64]*domain.Message
	byRoom map[string][]*domain.Message
	nextID int64
}

// NewStore creates an empty message store.
func NewStore() *Store {
	return &Store{
		byID:   make(map[int64]*domain.Message),
		byRoom: make(map[string][]*domain.Message),
		nextID: 1,
	}
}

func (s *Store) appendLocked(msg *domain.Message) *domain.Message {
	msg.ID = s.nextID
	s.nextID++
	msg.Timestamp = time.Now()

	s.all = append(s.all, msg)
	s.byID[msg.ID] = msg
	if msg.Room != "" {
		s.byRoom[msg.Room] = append(s.byRoom[msg.Room], msg)
	}
	return msg.Clone()
}

// AppendRoomMessage appends a chat message to the sender's room. The sender
// counts as having read their own message.
func (s *Store) AppendRoomMessage(sender *domain.User, body string) *domain.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.appendLocked(&domain.Message{
		Sender:    sender.Username,
		SenderID:  sender.ID,
		Body:      body,
		Room:      sender.Room,
		Reactions: map[string]int{},
		ReadBy:    []string{sender.Username},
	})
}

// AppendPrivateMessage appends a private message with no room association.
// Unlike room messages the read-by set starts empty; the recipient has to
// acknowledge explicitly.
func (s *Store) AppendPrivateMessage(sender *domain.User, targetID, body string) *domain.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.appendLocked(&domain.Message{
		Sender:    sender.Username,
		SenderID:  sender.ID,
		Body:      body,
		Private:   true,
		Reactions: map[string]int{},
		ReadBy:    []string{},
	})
}

// AppendAttachmentMessage appends a file-share message. The message is
// private iff a target connection is given.
func (s *Store) AppendAttachmentMessage(senderName, fileURL, targetID string) *domain.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.appendLocked(&domain.Message{
		Sender:    senderName,
		FileURL:   fileURL,
		File:      true,
		Private:   targetID != "",
		Reactions: map[string]int{},
		ReadBy:    []string{},
	})
}

// MarkRead adds username to the message's read-by set. Adding a name that is
// already present is a no-op.
func (s *Store) MarkRead(id int64, username string) (*domain.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg, exists := s.byID[id]
	if !exists {
		return nil, ErrMessageNotFound
	}
	if !msg.HasRead(username) {
		msg.ReadBy = append(msg.ReadBy, username)
	}
	return msg.Clone(), nil
}

// AddReaction increments the tally for the given symbol, creating the entry
// at 1 if absent. The tally is a raw counter; repeated reactions from the
// same user keep incrementing it.
func (s *Store) AddReaction(id int64, symbol string) (*domain.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg, exists := s.byID[id]
	if !exists {
		return nil, ErrMessageNotFound
	}
	msg.Reactions[symbol]++
	return msg.Clone(), nil
}

// Get returns a copy of the message with the given id.
func (s *Store) Get(id int64) (*domain.Message, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	msg, exists := s.byID[id]
	if !exists {
		return nil, false
	}
	return msg.Clone(), true
}

// RoomPage returns one page of the room's history, most-recent-first
// pagination: page 0 covers the newest PageSize messages, page 1 the next
// older ones. Messages within a page stay in chronological order. A page
// beyond the available history is empty, never an error.
func (s *Store) RoomPage(roomName string, page int) []domain.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	msgs := s.byRoom[roomName]
	if page < 0 {
		page = 0
	}

	end := len(msgs) - page*domain.PageSize
	if end <= 0 {
		return []domain.Message{}
	}
	start := end - domain.PageSize
	if start < 0 {
		start = 0
	}

	result := make([]domain.Message, 0, end-start)
	for _, msg := range msgs[start:end] {
		result = append(result, *msg.Clone())
	}
	return result
}

// All returns the full message log in append order. A positive limit bounds
// the result to the newest limit messages.
func (s *Store) All(limit int) []domain.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	msgs := s.all
	if limit > 0 && limit < len(msgs) {
		msgs = msgs[len(msgs)-limit:]
	}
	result := make([]domain.Message, 0, len(msgs))
	for _, msg := range msgs {
		result = append(result, *msg.Clone())
	}
	return result
}

// Len returns the number of stored messages.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.all)
}
