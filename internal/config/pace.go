package config

import "fmt"

// PacePreset represents a named progression speed.
type PacePreset string

const (
	PaceRelaxed  PacePreset = "relaxed"
	PaceNormal   PacePreset = "normal"
	PaceHardcore PacePreset = "hardcore"
)

// Paces returns every preset in menu order.
func Paces() []PacePreset {
	return []PacePreset{PaceRelaxed, PaceNormal, PaceHardcore}
}

// ParsePace validates a preset name. Empty means normal.
func ParsePace(name string) (PacePreset, error) {
	switch PacePreset(name) {
	case "", PaceNormal:
		return PaceNormal, nil
	case PaceRelaxed:
		return PaceRelaxed, nil
	case PaceHardcore:
		return PaceHardcore, nil
	default:
		return "", fmt.Errorf("unknown pace %q (relaxed, normal, hardcore)", name)
	}
}

// PaceMultipliers are the scale factors a preset applies.
type PaceMultipliers struct {
	XP      float64
	Respawn float64
	Chance  float64 // Added to base_chance
}

// MultipliersForPace returns the scale factors for a preset.
func MultipliersForPace(preset PacePreset) PaceMultipliers {
	switch preset {
	case PaceRelaxed:
		return PaceMultipliers{XP: 2.0, Respawn: 0.5, Chance: 0.15}
	case PaceHardcore:
		return PaceMultipliers{XP: 0.5, Respawn: 2.0, Chance: -0.1}
	default:
		return PaceMultipliers{XP: 1.0, Respawn: 1.0}
	}
}

// ApplyPacePreset modifies the config based on a pace preset.
func ApplyPacePreset(cfg *QuestConfig, preset PacePreset) {
	m := MultipliersForPace(preset)
	cfg.Gathering.XPMultiplier *= m.XP
	cfg.World.RespawnMultiplier *= m.Respawn
	cfg.Gathering.BaseChance += m.Chance

	// Adjust gameplay based on pace
	switch preset {
	case PaceRelaxed:
		cfg.Player.MoveCooldownTicks = max(1, cfg.Player.MoveCooldownTicks-1)
	case PaceHardcore:
		cfg.Player.InventorySlots = min(cfg.Player.InventorySlots, 20)
	}
}
