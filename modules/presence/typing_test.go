package presence

import "testing"

func resolveVia(r *Registry) func(string) (string, bool) {
	return func(connID string) (string, bool) {
		u, ok := r.Lookup(connID)
		if !ok {
			return "", false
		}
		return u.Username, true
	}
}

func TestTypingTracker_SetAndClear(t *testing.T) {
	r := NewRegistry()
	r.Register("conn-1", "Alice")
	tr := NewTypingTracker()

	tr.SetTyping("conn-1", "General", true)
	names := tr.TypingNamesFor("General", resolveVia(r))
	if len(names) != 1 || names[0] != "Alice" {
		t.Fatalf("Expected typing names [Alice], got %v", names)
	}

	tr.SetTyping("conn-1", "General", false)
	if names := tr.TypingNamesFor("General", resolveVia(r)); len(names) != 0 {
		t.Errorf("Expected no typing names after stop, got %v", names)
	}
}

func TestTypingTracker_ClearOnDisconnect(t *testing.T) {
	r := NewRegistry()
	r.Register("conn-1", "Alice")
	tr := NewTypingTracker()

	// Typing start with no stop before disconnect must not leak an entry.
	tr.SetTyping("conn-1", "General", true)
	tr.Clear("conn-1")
	r.Remove("conn-1")

	if names := tr.TypingNamesFor("General", resolveVia(r)); len(names) != 0 {
		t.Errorf("Expected no typing names after disconnect, got %v", names)
	}
}

func TestTypingTracker_MovesWithRoom(t *testing.T) {
	r := NewRegistry()
	r.Register("conn-1", "Alice")
	tr := NewTypingTracker()

	tr.SetTyping("conn-1", "General", true)
	tr.SetTyping("conn-1", "Tech", true)

	if names := tr.TypingNamesFor("General", resolveVia(r)); len(names) != 0 {
		t.Errorf("Expected General typing set to be empty, got %v", names)
	}
	names := tr.TypingNamesFor("Tech", resolveVia(r))
	if len(names) != 1 || names[0] != "Alice" {
		t.Errorf("Expected Tech typing names [Alice], got %v", names)
	}
}

func TestTypingTracker_StopIsIdempotent(t *testing.T) {
	tr := NewTypingTracker()
	tr.SetTyping("conn-1", "General", false)
	tr.Clear("conn-1")

	if names := tr.TypingNamesFor("General", func(string) (string, bool) { return "", false }); len(names) != 0 {
		t.Errorf("Expected no typing names, got %v", names)
	}
}
