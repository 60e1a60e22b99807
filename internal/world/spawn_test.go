package world

import (
	"testing"

	"github.com/vovakirdan/tilequest/internal/core"
)

func TestSpawnTimersUpdate(t *testing.T) {
	s := NewSpawnTimers()
	s.Schedule(Respawn{ObjectID: 2, Pos: core.Pt(1, 1), RemainingMs: 300})
	s.Schedule(Respawn{ObjectID: 1, Pos: core.Pt(2, 2), RemainingMs: 100})
	s.Schedule(Respawn{ObjectID: 3, Pos: core.Pt(3, 3), RemainingMs: 1000})

	if due := s.Update(50); len(due) != 0 {
		t.Fatalf("Update(50) returned %v", due)
	}

	due := s.Update(250)
	if len(due) != 2 {
		t.Fatalf("Update(250) returned %d entries, expected 2", len(due))
	}
	// Schedule order, not timer order.
	if due[0].ObjectID != 2 || due[1].ObjectID != 1 {
		t.Errorf("due order = %d, %d; expected 2, 1", due[0].ObjectID, due[1].ObjectID)
	}
	if s.Len() != 1 || !s.Has(3) {
		t.Errorf("remaining timers = %v", s.Pending())
	}
}

func TestSpawnTimersReschedule(t *testing.T) {
	s := NewSpawnTimers()
	s.Schedule(Respawn{ObjectID: 1, RemainingMs: 100})
	s.Schedule(Respawn{ObjectID: 1, RemainingMs: 500})

	if s.Len() != 1 {
		t.Fatalf("Len() = %d, expected 1", s.Len())
	}
	if due := s.Update(200); len(due) != 0 {
		t.Errorf("replaced timer fired early: %v", due)
	}
	if due := s.Update(300); len(due) != 1 {
		t.Errorf("replaced timer did not fire: %v", due)
	}
}

func TestSpawnTimersCancel(t *testing.T) {
	s := NewSpawnTimers()
	s.Schedule(Respawn{ObjectID: 1, RemainingMs: 100})

	if !s.Cancel(1) {
		t.Error("Cancel should report true for a pending timer")
	}
	if s.Cancel(1) {
		t.Error("Cancel should report false once removed")
	}
	if due := s.Update(1000); len(due) != 0 {
		t.Errorf("cancelled timer fired: %v", due)
	}
}

func TestSpawnTimersIgnoreZeroElapsed(t *testing.T) {
	s := NewSpawnTimers()
	s.Schedule(Respawn{ObjectID: 1, RemainingMs: 0})
	if due := s.Update(0); len(due) != 0 {
		t.Error("Update(0) should not advance timers")
	}
	if due := s.Update(1); len(due) != 1 {
		t.Error("zero-length timer should fire on the next update")
	}
}
