package quest

import "github.com/vovakirdan/tilequest/internal/skills"

// Snapshot captures the game state for determinism testing.
type Snapshot struct {
	Tick        uint64
	Map         string
	PlayerX     int
	PlayerY     int
	Facing      string
	Mode        string
	Paused      bool
	Woodcutting int // XP
	Mining      int
	Fishing     int
	BagUsed     int
	Depleted    int // Objects waiting to respawn on every map
	Messages    int
}

// Snapshot returns the current game snapshot for determinism verification.
func (g *Game) Snapshot() Snapshot {
	s := Snapshot{
		Tick:   g.tick,
		Map:    g.MapID(),
		Mode:   g.mode.String(),
		Paused: g.paused,
	}
	if g.log != nil {
		s.Messages = g.log.Len()
	}
	for _, a := range g.areas {
		s.Depleted += a.timers.Len()
	}
	if p := g.player; p != nil {
		s.PlayerX = p.Pos.X
		s.PlayerY = p.Pos.Y
		s.Facing = p.Facing.String()
		s.Woodcutting = p.Skills.XP(skills.Woodcutting)
		s.Mining = p.Skills.XP(skills.Mining)
		s.Fishing = p.Skills.XP(skills.Fishing)
		s.BagUsed = p.Inventory.Size() - p.Inventory.FreeSlots()
	}
	return s
}
