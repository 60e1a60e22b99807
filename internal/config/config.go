// Package config provides YAML-based game configuration loading and pace
// presets for Tile Quest.
package config

// QuestConfig contains all tunable game parameters.
type QuestConfig struct {
	World     WorldConfig     `yaml:"world"`
	Player    PlayerConfig    `yaml:"player"`
	Gathering GatheringConfig `yaml:"gathering"`
	UI        UIConfig        `yaml:"ui"`
}

// WorldConfig defines map and respawn parameters.
type WorldConfig struct {
	StartMap          string  `yaml:"start_map"`
	MapDir            string  `yaml:"map_dir"`            // Extra map directory, empty for built-ins only
	RespawnMultiplier float64 `yaml:"respawn_multiplier"` // Scales every object's respawn_ms
	RespawnRetryMs    int     `yaml:"respawn_retry_ms"`   // Delay when a respawn tile is occupied
}

// PlayerConfig defines the player character.
type PlayerConfig struct {
	Name              string   `yaml:"name"`
	InventorySlots    int      `yaml:"inventory_slots"`
	MaxStack          int      `yaml:"max_stack"`
	MoveCooldownTicks int      `yaml:"move_cooldown_ticks"`
	StarterTools      []string `yaml:"starter_tools"`
}

// GatheringConfig defines the attempt timing and success curve.
type GatheringConfig struct {
	AttemptTicks   int     `yaml:"attempt_ticks"`    // Ticks between attempts with no tool bonus
	TierSpeedBonus int     `yaml:"tier_speed_bonus"` // Ticks removed per tool tier
	BaseChance     float64 `yaml:"base_chance"`
	PerLevel       float64 `yaml:"per_level"`  // Chance added per level above the requirement
	TierBonus      float64 `yaml:"tier_bonus"` // Chance added per tool tier
	MinChance      float64 `yaml:"min_chance"`
	MaxChance      float64 `yaml:"max_chance"`
	XPMultiplier   float64 `yaml:"xp_multiplier"`
}

// UIConfig defines presentation parameters.
type UIConfig struct {
	LogLines   int  `yaml:"log_lines"` // Messages kept in the log
	ShowCoords bool `yaml:"show_coords"`
}
