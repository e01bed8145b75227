package presence

import "sync"

// Directory tracks which connections belong to which named room. A connection
// belongs to at most one room at a time; joining a new room removes it from
// the previous one in the same operation.
type Directory struct {
	mu      sync.RWMutex
	rooms   map[string]map[string]struct{} // room -> set of connIDs
	current map[string]string              // connID -> room
	order   []string                       // room names in creation order
}

// NewDirectory creates a room directory pre-seeded with the given rooms.
func NewDirectory(rooms ...string) *Directory {
	d := &Directory{
		rooms:   make(map[string]map[string]struct{}),
		current: make(map[string]string),
	}
	for _, name := range rooms {
		d.rooms[name] = make(map[string]struct{})
		d.order = append(d.order, name)
	}
	return d
}

// Join moves the connection into roomName, creating the room if it does not
// exist yet, and returns the room joined.
func (d *Directory) Join(connID, roomName string) string {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.leaveLocked(connID)

	members, exists := d.rooms[roomName]
	if !exists {
		members = make(map[string]struct{})
		d.rooms[roomName] = members
		d.order = append(d.order, roomName)
	}
	members[connID] = struct{}{}
	d.current[connID] = roomName
	return roomName
}

// Leave removes the connection from whatever room it occupies. No-op if the
// connection is in no room.
func (d *Directory) Leave(connID string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.leaveLocked(connID)
}

func (d *Directory) leaveLocked(connID string) {
	room, ok := d.current[connID]
	if !ok {
		return
	}
	if members := d.rooms[room]; members != nil {
		delete(members, connID)
	}
	delete(d.current, connID)
}

// MembersOf returns a snapshot of the connection ids in roomName.
func (d *Directory) MembersOf(roomName string) []string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	members, exists := d.rooms[roomName]
	if !exists {
		return nil
	}
	result := make([]string, 0, len(members))
	for connID := range members {
		result = append(result, connID)
	}
	return result
}

// RoomOf returns the room the connection currently occupies.
func (d *Directory) RoomOf(connID string) (string, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	room, ok := d.current[connID]
	return room, ok
}

// RoomNames returns all room names in creation order.
func (d *Directory) RoomNames() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	result := make([]string, len(d.order))
	copy(result, d.order)
	return result
}

// MemberCount returns the total membership across all rooms.
func (d *Directory) MemberCount() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.current)
}
