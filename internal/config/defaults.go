package config

import (
	_ "embed"
)

//go:embed defaults/quest.yaml
var defaultQuestYAML []byte

// DefaultQuestConfig returns the default game configuration.
func DefaultQuestConfig() QuestConfig {
	return QuestConfig{
		World: WorldConfig{
			StartMap:          "meadow",
			RespawnMultiplier: 1.0,
			RespawnRetryMs:    1000,
		},
		Player: PlayerConfig{
			Name:              "Adventurer",
			InventorySlots:    28,
			MaxStack:          1000,
			MoveCooldownTicks: 3,
			StarterTools:      []string{"bronze_axe", "bronze_pickaxe", "small_net"},
		},
		Gathering: GatheringConfig{
			AttemptTicks:   60,
			TierSpeedBonus: 10,
			BaseChance:     0.35,
			PerLevel:       0.01,
			TierBonus:      0.05,
			MinChance:      0.05,
			MaxChance:      0.95,
			XPMultiplier:   1.0,
		},
		UI: UIConfig{
			LogLines: 6,
		},
	}
}

// withDefaults replaces values that would leave the game unplayable.
func (c QuestConfig) withDefaults() QuestConfig {
	d := DefaultQuestConfig()
	if c.World.StartMap == "" {
		c.World.StartMap = d.World.StartMap
	}
	if c.World.RespawnMultiplier <= 0 {
		c.World.RespawnMultiplier = d.World.RespawnMultiplier
	}
	if c.World.RespawnRetryMs <= 0 {
		c.World.RespawnRetryMs = d.World.RespawnRetryMs
	}
	if c.Player.Name == "" {
		c.Player.Name = d.Player.Name
	}
	if c.Player.InventorySlots <= 0 {
		c.Player.InventorySlots = d.Player.InventorySlots
	}
	if c.Player.MaxStack <= 0 {
		c.Player.MaxStack = d.Player.MaxStack
	}
	if c.Player.MoveCooldownTicks < 0 {
		c.Player.MoveCooldownTicks = 0
	}
	if c.Player.StarterTools == nil {
		c.Player.StarterTools = d.Player.StarterTools
	}
	if c.Gathering.AttemptTicks <= 0 {
		c.Gathering.AttemptTicks = d.Gathering.AttemptTicks
	}
	if c.Gathering.MaxChance <= 0 {
		c.Gathering.MaxChance = d.Gathering.MaxChance
	}
	if c.Gathering.MinChance < 0 {
		c.Gathering.MinChance = 0
	}
	if c.Gathering.MinChance > c.Gathering.MaxChance {
		c.Gathering.MinChance = c.Gathering.MaxChance
	}
	if c.Gathering.XPMultiplier <= 0 {
		c.Gathering.XPMultiplier = d.Gathering.XPMultiplier
	}
	if c.UI.LogLines <= 0 {
		c.UI.LogLines = d.UI.LogLines
	}
	return c
}
