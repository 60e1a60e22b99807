package world

import (
	"sort"

	"github.com/vovakirdan/tilequest/internal/core"
)

// Respawn is a depleted object waiting to come back.
type Respawn struct {
	ObjectID    OccupantID `json:"object"`
	Pos         core.Point `json:"pos"`
	RemainingMs int        `json:"remaining_ms"`

	seq uint64
}

// SpawnTimers counts down respawns. Timers advance only when Update is
// called, so they follow game ticks rather than wall time.
type SpawnTimers struct {
	timers map[OccupantID]*Respawn
	seq    uint64
}

// NewSpawnTimers returns an empty timer set.
func NewSpawnTimers() *SpawnTimers {
	return &SpawnTimers{timers: make(map[OccupantID]*Respawn)}
}

// Schedule adds a timer. An existing timer for the same object is replaced.
func (s *SpawnTimers) Schedule(r Respawn) {
	s.seq++
	r.seq = s.seq
	s.timers[r.ObjectID] = &r
}

// Update subtracts elapsed time from every timer and returns the ones that
// finished, in the order they were scheduled.
func (s *SpawnTimers) Update(elapsedMs int) []Respawn {
	if elapsedMs <= 0 || len(s.timers) == 0 {
		return nil
	}

	var due []Respawn
	for id, r := range s.timers {
		r.RemainingMs -= elapsedMs
		if r.RemainingMs <= 0 {
			due = append(due, *r)
			delete(s.timers, id)
		}
	}
	sort.Slice(due, func(i, j int) bool { return due[i].seq < due[j].seq })
	return due
}

// Cancel drops the timer for an object.
func (s *SpawnTimers) Cancel(id OccupantID) bool {
	if _, ok := s.timers[id]; !ok {
		return false
	}
	delete(s.timers, id)
	return true
}

// Has reports whether an object is waiting to respawn.
func (s *SpawnTimers) Has(id OccupantID) bool {
	_, ok := s.timers[id]
	return ok
}

// Pending returns every waiting respawn in schedule order.
func (s *SpawnTimers) Pending() []Respawn {
	out := make([]Respawn, 0, len(s.timers))
	for _, r := range s.timers {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].seq < out[j].seq })
	return out
}

// Len returns the number of waiting respawns.
func (s *SpawnTimers) Len() int {
	return len(s.timers)
}
