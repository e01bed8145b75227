package history

import (
	"fmt"
	"testing"

	domain "github.com/example/realtime-chat/domain/chat"
)

func alice() *domain.User {
	return &domain.User{ID: "conn-a", Username: "Alice", Room: "General"}
}

func TestStore_AppendRoomMessage(t *testing.T) {
	s := NewStore()

	msg := s.AppendRoomMessage(alice(), "hi")

	if msg.ID == 0 {
		t.Error("Expected a non-zero message id")
	}
	if msg.Sender != "Alice" || msg.SenderID != "conn-a" {
		t.Errorf("Unexpected sender fields: %q/%q", msg.Sender, msg.SenderID)
	}
	if msg.Room != "General" {
		t.Errorf("Expected room 'General', got %q", msg.Room)
	}
	if msg.Timestamp.IsZero() {
		t.Error("Expected a creation timestamp")
	}
	if len(msg.Reactions) != 0 {
		t.Errorf("Expected empty reactions, got %v", msg.Reactions)
	}
	// Self-read-on-send.
	if len(msg.ReadBy) != 1 || msg.ReadBy[0] != "Alice" {
		t.Errorf("Expected readBy [Alice], got %v", msg.ReadBy)
	}
}

func TestStore_IDsStrictlyIncrease(t *testing.T) {
	s := NewStore()

	var last int64
	for i := 0; i < 5; i++ {
		msg := s.AppendRoomMessage(alice(), fmt.Sprintf("msg %d", i))
		if msg.ID <= last {
			t.Fatalf("Expected strictly increasing ids, got %d after %d", msg.ID, last)
		}
		last = msg.ID
	}
}

func TestStore_AppendPrivateMessage(t *testing.T) {
	s := NewStore()

	msg := s.AppendPrivateMessage(alice(), "conn-b", "psst")

	if !msg.Private {
		t.Error("Expected isPrivate to be set")
	}
	if msg.Room != "" {
		t.Errorf("Expected no room association, got %q", msg.Room)
	}
	// Private messages start unread, unlike room messages.
	if len(msg.ReadBy) != 0 {
		t.Errorf("Expected empty readBy, got %v", msg.ReadBy)
	}
}

func TestStore_AppendAttachmentMessage(t *testing.T) {
	tests := []struct {
		name        string
		targetID    string
		wantPrivate bool
	}{
		{"broadcast attachment", "", false},
		{"private attachment", "conn-b", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStore()
			msg := s.AppendAttachmentMessage("Alice", "/uploads/abc/report.pdf", tt.targetID)

			if !msg.File {
				t.Error("Expected isFile to be set")
			}
			if msg.Private != tt.wantPrivate {
				t.Errorf("Private = %v, want %v", msg.Private, tt.wantPrivate)
			}
			if msg.FileURL != "/uploads/abc/report.pdf" {
				t.Errorf("Unexpected fileUrl %q", msg.FileURL)
			}
			if msg.Body != "" {
				t.Errorf("Attachment message must carry no body, got %q", msg.Body)
			}
		})
	}
}

func TestStore_MarkReadIdempotent(t *testing.T) {
	s := NewStore()
	msg := s.AppendRoomMessage(alice(), "hi")

	first, err := s.MarkRead(msg.ID, "Bob")
	if err != nil {
		t.Fatalf("MarkRead() unexpected error: %v", err)
	}
	second, err := s.MarkRead(msg.ID, "Bob")
	if err != nil {
		t.Fatalf("MarkRead() unexpected error: %v", err)
	}

	if len(first.ReadBy) != 2 || len(second.ReadBy) != 2 {
		t.Errorf("Expected readBy of size 2 after both calls, got %v then %v", first.ReadBy, second.ReadBy)
	}
}

func TestStore_MarkReadUnknownMessage(t *testing.T) {
	s := NewStore()
	if _, err := s.MarkRead(42, "Bob"); err != ErrMessageNotFound {
		t.Errorf("MarkRead() error = %v, want ErrMessageNotFound", err)
	}
}

func TestStore_AddReaction(t *testing.T) {
	s := NewStore()
	msg := s.AppendRoomMessage(alice(), "hi")

	s.AddReaction(msg.ID, "👍")
	s.AddReaction(msg.ID, "👍")
	updated, err := s.AddReaction(msg.ID, "👍")
	if err != nil {
		t.Fatalf("AddReaction() unexpected error: %v", err)
	}

	if updated.Reactions["👍"] != 3 {
		t.Errorf("Expected tally 3 for 👍, got %d", updated.Reactions["👍"])
	}
	if len(updated.Reactions) != 1 {
		t.Errorf("Expected other symbols untouched, got %v", updated.Reactions)
	}

	if _, err := s.AddReaction(999, "👍"); err != ErrMessageNotFound {
		t.Errorf("AddReaction() error = %v, want ErrMessageNotFound", err)
	}
}

func TestStore_RoomPagePagination(t *testing.T) {
	s := NewStore()
	for i := 1; i <= 45; i++ {
		s.AppendRoomMessage(alice(), fmt.Sprintf("msg %d", i))
	}

	tests := []struct {
		page      int
		wantLen   int
		wantFirst int64 // id of first message on the page, 0 for empty
		wantLast  int64
	}{
		{0, 20, 26, 45}, // newest 20, chronological within the page
		{1, 20, 6, 25},
		{2, 5, 1, 5}, // the oldest 5
		{3, 0, 0, 0}, // beyond history: empty, not an error
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("page %d", tt.page), func(t *testing.T) {
			page := s.RoomPage("General", tt.page)
			if len(page) != tt.wantLen {
				t.Fatalf("RoomPage() len = %d, want %d", len(page), tt.wantLen)
			}
			if tt.wantLen == 0 {
				return
			}
			if page[0].ID != tt.wantFirst || page[len(page)-1].ID != tt.wantLast {
				t.Errorf("page span = [%d..%d], want [%d..%d]",
					page[0].ID, page[len(page)-1].ID, tt.wantFirst, tt.wantLast)
			}
		})
	}
}

func TestStore_PrivateMessagesAbsentFromRoomPages(t *testing.T) {
	s := NewStore()
	s.AppendRoomMessage(alice(), "public")
	s.AppendPrivateMessage(alice(), "conn-b", "secret")

	for _, room := range []string{"General", "Tech", ""} {
		for _, msg := range s.RoomPage(room, 0) {
			if msg.Private {
				t.Errorf("private message leaked into room %q page", room)
			}
		}
	}

	if len(s.All(0)) != 2 {
		t.Errorf("Expected both messages in the full log, got %d", len(s.All(0)))
	}
}

func TestStore_AllLimit(t *testing.T) {
	s := NewStore()
	for i := 1; i <= 10; i++ {
		s.AppendRoomMessage(alice(), fmt.Sprintf("msg %d", i))
	}

	bounded := s.All(3)
	if len(bounded) != 3 {
		t.Fatalf("All(3) len = %d, want 3", len(bounded))
	}
	if bounded[0].ID != 8 || bounded[2].ID != 10 {
		t.Errorf("All(3) span = [%d..%d], want [8..10]", bounded[0].ID, bounded[2].ID)
	}
}

func TestStore_ClonesDoNotAliasStore(t *testing.T) {
	s := NewStore()
	msg := s.AppendRoomMessage(alice(), "hi")

	msg.Reactions["🔥"] = 99
	msg.ReadBy = append(msg.ReadBy, "Eve")

	stored, _ := s.Get(msg.ID)
	if len(stored.Reactions) != 0 {
		t.Errorf("store reactions mutated through a returned copy: %v", stored.Reactions)
	}
	if len(stored.ReadBy) != 1 {
		t.Errorf("store readBy mutated through a returned copy: %v", stored.ReadBy)
	}
}
