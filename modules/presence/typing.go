package presence

import "sync"

// TypingTracker keeps the ephemeral per-room set of connections currently
// typing. Entries are removed by an explicit stop or by Clear on disconnect;
// nothing is filtered at read time.
type TypingTracker struct {
	mu     sync.RWMutex
	byRoom map[string]map[string]struct{} // room -> set of connIDs
	byConn map[string]string              // connID -> room it is typing in
}

// NewTypingTracker creates an empty typing tracker.
func NewTypingTracker() *TypingTracker {
	return &TypingTracker{
		byRoom: make(map[string]map[string]struct{}),
		byConn: make(map[string]string),
	}
}

// SetTyping adds or removes the connection from the room's typing set.
func (t *TypingTracker) SetTyping(connID, roomName string, isTyping bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.clearLocked(connID)
	if !isTyping {
		return
	}

	set, exists := t.byRoom[roomName]
	if !exists {
		set = make(map[string]struct{})
		t.byRoom[roomName] = set
	}
	set[connID] = struct{}{}
	t.byConn[connID] = roomName
}

// Clear removes the connection's typing entry wherever it is. Called on
// disconnect and on room switch so a stale "typing" entry never survives the
// connection that produced it.
func (t *TypingTracker) Clear(connID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.clearLocked(connID)
}

func (t *TypingTracker) clearLocked(connID string) {
	room, ok := t.byConn[connID]
	if !ok {
		return
	}
	if set := t.byRoom[room]; set != nil {
		delete(set, connID)
		if len(set) == 0 {
			delete(t.byRoom, room)
		}
	}
	delete(t.byConn, connID)
}

// TypingNamesFor returns the display names of connections typing in roomName,
// resolved through the supplied lookup at query time.
func (t *TypingTracker) TypingNamesFor(roomName string, resolve func(connID string) (string, bool)) []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	set := t.byRoom[roomName]
	names := make([]string, 0, len(set))
	for connID := range set {
		if name, ok := resolve(connID); ok {
			names = append(names, name)
		}
	}
	return names
}
