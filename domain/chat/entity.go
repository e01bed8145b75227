package chat

import "time"

// DefaultRoom is the room every connection is placed in on join.
const DefaultRoom = "General"

// DefaultRooms are pre-created at startup.
var DefaultRooms = []string{"General", "Tech", "Random"}

// PageSize is the number of messages per history page.
const PageSize = 20

// User is the presence record for one active connection.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Room     string `json:"room"`
}

// Message is one entry in the message log. Sender, body, room and timestamp
// are fixed at creation; only Reactions and ReadBy are ever mutated, and only
// by increment/append.
type Message struct {
	ID        int64          `json:"id"`
	Sender    string         `json:"sender"`
	SenderID  string         `json:"senderId,omitempty"`
	Body      string         `json:"message,omitempty"`
	FileURL   string         `json:"fileUrl,omitempty"`
	Room      string         `json:"room,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
	Private   bool           `json:"isPrivate,omitempty"`
	File      bool           `json:"isFile,omitempty"`
	Reactions map[string]int `json:"reactions"`
	ReadBy    []string       `json:"readBy"`
}

// Clone returns a deep copy so the store can hand messages out without
// exposing its mutable reaction and read-by fields.
func (m *Message) Clone() *Message {
	c := *m
	c.Reactions = make(map[string]int, len(m.Reactions))
	for k, v := range m.Reactions {
		c.Reactions[k] = v
	}
	c.ReadBy = make([]string, len(m.ReadBy))
	copy(c.ReadBy, m.ReadBy)
	return &c
}

// HasRead reports whether username already acknowledged the message.
func (m *Message) HasRead(username string) bool {
	for _, name := range m.ReadBy {
		if name == username {
			return true
		}
	}
	return false
}
