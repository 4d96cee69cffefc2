package room

import (
	"testing"
	"time"

	"github.com/wfunc/colorparty/mixer"
	"github.com/wfunc/colorparty/models"
)

func newTestManager() *Manager {
	return NewManager(6, testSettings(), &MockBroadcaster{}, mixer.NewSolver(95))
}

func TestManager_CreateAndLookup(t *testing.T) {
	m := newTestManager()
	alice := newTestSession("alice")

	r := m.CreateRoom(alice, "Alice", "", nil)
	if r == nil {
		t.Fatal("CreateRoom should not return nil")
	}
	if len(r.Code()) != 6 {
		t.Errorf("room code %q should be 6 characters", r.Code())
	}

	got, exists := m.GetRoom(r.Code())
	if !exists || got != r {
		t.Fatal("GetRoom should find the created room")
	}
	if m.Count() != 1 {
		t.Errorf("expected 1 room, got %d", m.Count())
	}
}

func TestManager_LookupIsCaseInsensitive(t *testing.T) {
	m := newTestManager()
	r := m.CreateRoom(newTestSession("alice"), "Alice", "", nil)

	for _, code := range []string{r.Code(), "  " + r.Code() + " "} {
		if _, exists := m.GetRoom(code); !exists {
			t.Errorf("GetRoom(%q) should find the room", code)
		}
	}

	lower := ""
	for _, c := range r.Code() {
		if c >= 'A' && c <= 'Z' {
			lower += string(c + 32)
		} else {
			lower += string(c)
		}
	}
	if _, exists := m.GetRoom(lower); !exists {
		t.Errorf("GetRoom(%q) should match %q case-insensitively", lower, r.Code())
	}
}

func TestManager_UniqueCodes(t *testing.T) {
	m := newTestManager()
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		r := m.CreateRoom(newTestSession("p"), "P", "", nil)
		if seen[r.Code()] {
			t.Fatalf("duplicate room code allocated: %s", r.Code())
		}
		seen[r.Code()] = true
	}
}

func TestManager_SettingsOverrideDefaults(t *testing.T) {
	m := newTestManager()
	r := m.CreateRoom(newTestSession("alice"), "Alice", "", &models.RoomSettings{
		MaxPlayers: 2,
		MaxRounds:  1,
		GuessTime:  60,
	})

	info := r.Snapshot()
	if info.MaxPlayers != 2 || info.MaxRounds != 1 || info.GuessTime != 60 {
		t.Errorf("settings not applied: %+v", info)
	}

	// Zero-valued settings fall back to defaults.
	r = m.CreateRoom(newTestSession("bob"), "Bob", "", &models.RoomSettings{})
	info = r.Snapshot()
	if info.MaxPlayers != 4 || info.MaxRounds != 5 || info.GuessTime != 30 {
		t.Errorf("defaults not applied: %+v", info)
	}
}

func TestManager_SweepRemovesIdleRooms(t *testing.T) {
	m := newTestManager()
	alice := newTestSession("alice")
	r := m.CreateRoom(alice, "Alice", "", nil)
	occupied := m.CreateRoom(newTestSession("bob"), "Bob", "", nil)

	r.Leave(alice.GetID(), true)

	if removed := m.Sweep(time.Hour); removed != 0 {
		t.Errorf("Sweep inside grace period removed %d rooms, want 0", removed)
	}
	if removed := m.Sweep(0); removed != 1 {
		t.Errorf("Sweep removed %d rooms, want 1", removed)
	}
	if _, exists := m.GetRoom(r.Code()); exists {
		t.Error("idle room should be destroyed by the sweep")
	}
	if _, exists := m.GetRoom(occupied.Code()); !exists {
		t.Error("occupied room must survive the sweep")
	}
}
