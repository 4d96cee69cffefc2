package rotation

import "testing"

func TestRotation_RoundRobin(t *testing.T) {
	r := New()
	r.Add("a")
	r.Add("b")
	r.Add("c")

	if r.Current() != "a" {
		t.Fatalf("expected first player to start as denner, got %q", r.Current())
	}

	seen := map[string]int{"a": 1}
	for i := 0; i < 2; i++ {
		seen[r.Advance()]++
	}
	for _, id := range []string{"a", "b", "c"} {
		if seen[id] != 1 {
			t.Errorf("player %q was denner %d times over one full cycle, want 1", id, seen[id])
		}
	}

	if r.Advance() != "a" {
		t.Error("rotation should wrap back to the first player")
	}
}

func TestRotation_RemoveCurrentReassigns(t *testing.T) {
	r := New()
	r.Add("a")
	r.Add("b")
	r.Add("c")

	if changed := r.Remove("a"); !changed {
		t.Fatal("removing the current denner should report a denner change")
	}
	if r.Current() != "b" {
		t.Errorf("expected denner to pass to %q, got %q", "b", r.Current())
	}
}

func TestRotation_RemoveLastWraps(t *testing.T) {
	r := New()
	r.Add("a")
	r.Add("b")
	r.Advance() // denner = b

	if changed := r.Remove("b"); !changed {
		t.Fatal("removing the current denner should report a denner change")
	}
	if r.Current() != "a" {
		t.Errorf("expected denner to wrap to %q, got %q", "a", r.Current())
	}
}

func TestRotation_RemoveOtherKeepsDenner(t *testing.T) {
	r := New()
	r.Add("a")
	r.Add("b")
	r.Add("c")
	r.Advance() // denner = b

	if changed := r.Remove("a"); changed {
		t.Fatal("removing a non-denner should not report a denner change")
	}
	if r.Current() != "b" {
		t.Errorf("denner should remain %q, got %q", "b", r.Current())
	}
	if r.Advance() != "c" {
		t.Error("rotation order should be preserved after removal")
	}
}

func TestRotation_Empty(t *testing.T) {
	r := New()
	if r.Current() != "" || r.Advance() != "" {
		t.Error("empty rotation should have no denner")
	}

	r.Add("a")
	r.Remove("a")
	if r.Current() != "" {
		t.Error("rotation emptied by removal should have no denner")
	}
}
