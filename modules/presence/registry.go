package presence

import (
	"sync"

	domain "github.com/example/realtime-chat/domain/chat"
)

// Registry owns the presence record of every active connection. Records are
// created on join, mutated only through SetRoom, and destroyed on disconnect.
type Registry struct {
	mu    sync.RWMutex
	users map[string]*domain.User // connID -> record
}

// NewRegistry creates an empty connection registry.
func NewRegistry() *Registry {
	return &Registry{
		users: make(map[string]*domain.User),
	}
}

// Register creates a presence record for a new connection. A connection id
// that is already active is rejected, not overwritten.
func (r *Registry) Register(connID, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.users[connID]; exists {
		return nil, ErrDuplicateConnection
	}

	user := &domain.User{
		ID:       connID,
		Username: username,
		Room:     domain.DefaultRoom,
	}
	r.users[connID] = user

	u := *user
	return &u, nil
}

// Lookup returns a copy of the presence record for connID.
func (r *Registry) Lookup(connID string) (*domain.User, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, exists := r.users[connID]
	if !exists {
		return nil, false
	}
	u := *user
	return &u, true
}

// SetRoom updates the connection's current room.
func (r *Registry) SetRoom(connID, room string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, exists := r.users[connID]
	if !exists {
		return ErrUnknownConnection
	}
	user.Room = room
	return nil
}

// Remove deletes the presence record. Removing an absent id is a no-op.
func (r *Registry) Remove(connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, connID)
}

// ListAll returns a snapshot of every presence record.
func (r *Registry) ListAll() []domain.User {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.User, 0, len(r.users))
	for _, user := range r.users {
		result = append(result, *user)
	}
	return result
}

// Count returns the number of registered connections.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.users)
}
