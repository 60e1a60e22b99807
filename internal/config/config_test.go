package config

import (
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestEmbeddedDefaultsMatchHardcoded(t *testing.T) {
	var cfg QuestConfig
	if err := yaml.Unmarshal(defaultQuestYAML, &cfg); err != nil {
		t.Fatalf("embedded defaults do not parse: %v", err)
	}
	d := DefaultQuestConfig()

	if cfg.World.StartMap != d.World.StartMap {
		t.Errorf("StartMap = %q, expected %q", cfg.World.StartMap, d.World.StartMap)
	}
	if cfg.Gathering != d.Gathering {
		t.Errorf("Gathering = %+v, expected %+v", cfg.Gathering, d.Gathering)
	}
	if cfg.Player.InventorySlots != d.Player.InventorySlots {
		t.Errorf("InventorySlots = %d, expected %d", cfg.Player.InventorySlots, d.Player.InventorySlots)
	}
	if len(cfg.Player.StarterTools) != 3 {
		t.Errorf("StarterTools = %v", cfg.Player.StarterTools)
	}
}

func TestLoadCustomPathFillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quest.yaml")
	data := []byte("gathering:\n  attempt_ticks: 12\n  xp_multiplier: 3\nui:\n  show_coords: true\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadQuest(path)
	if err != nil {
		t.Fatalf("LoadQuest failed: %v", err)
	}
	want := DefaultQuestConfig().Gathering
	want.AttemptTicks = 12
	want.XPMultiplier = 3
	if cfg.Gathering != want {
		t.Errorf("Gathering = %+v, expected %+v", cfg.Gathering, want)
	}
	if !cfg.UI.ShowCoords {
		t.Error("ShowCoords should be true")
	}
	if cfg.Player.InventorySlots != 28 || cfg.World.StartMap != "meadow" || cfg.UI.LogLines != 6 {
		t.Errorf("defaults not filled: %+v", cfg)
	}
}

func TestLoadCustomPathKeepsExplicitZero(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quest.yaml")
	data := []byte("gathering:\n  attempt_ticks: 30\n  tier_bonus: 0\nplayer:\n  move_cooldown_ticks: 0\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadQuest(path)
	if err != nil {
		t.Fatalf("LoadQuest failed: %v", err)
	}
	d := DefaultQuestConfig()
	if cfg.Gathering.TierBonus != 0 || cfg.Player.MoveCooldownTicks != 0 {
		t.Errorf("explicit zeros lost: %+v / %+v", cfg.Gathering, cfg.Player)
	}
	if cfg.Gathering.BaseChance != d.Gathering.BaseChance || cfg.Gathering.MinChance != d.Gathering.MinChance {
		t.Errorf("base/min chance = %v/%v, expected defaults", cfg.Gathering.BaseChance, cfg.Gathering.MinChance)
	}
	if cfg.Gathering.TierSpeedBonus != d.Gathering.TierSpeedBonus || cfg.Gathering.PerLevel != d.Gathering.PerLevel {
		t.Errorf("Gathering = %+v", cfg.Gathering)
	}
}

func TestLoadCustomPathErrors(t *testing.T) {
	if _, err := LoadQuest(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing custom config")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	os.WriteFile(path, []byte("world: [unclosed"), 0o644)
	if _, err := LoadQuest(path); err == nil {
		t.Error("expected error for malformed custom config")
	}
}

func TestParsePace(t *testing.T) {
	tests := []struct {
		in      string
		want    PacePreset
		wantErr bool
	}{
		{"", PaceNormal, false},
		{"normal", PaceNormal, false},
		{"relaxed", PaceRelaxed, false},
		{"hardcore", PaceHardcore, false},
		{"nightmare", "", true},
	}
	for _, tt := range tests {
		got, err := ParsePace(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParsePace(%q) = %q, %v", tt.in, got, err)
		}
	}
}

func TestApplyPacePreset(t *testing.T) {
	relaxed := DefaultQuestConfig()
	ApplyPacePreset(&relaxed, PaceRelaxed)
	if relaxed.Gathering.XPMultiplier != 2.0 || relaxed.World.RespawnMultiplier != 0.5 {
		t.Errorf("relaxed = %+v / %+v", relaxed.Gathering, relaxed.World)
	}
	if relaxed.Player.MoveCooldownTicks != 2 {
		t.Errorf("relaxed cooldown = %d, expected 2", relaxed.Player.MoveCooldownTicks)
	}

	hard := DefaultQuestConfig()
	ApplyPacePreset(&hard, PaceHardcore)
	if hard.Gathering.BaseChance >= DefaultQuestConfig().Gathering.BaseChance {
		t.Error("hardcore should lower the base chance")
	}
	if hard.Player.InventorySlots != 20 {
		t.Errorf("hardcore slots = %d, expected 20", hard.Player.InventorySlots)
	}

	normal := DefaultQuestConfig()
	ApplyPacePreset(&normal, PaceNormal)
	if normal.Gathering != DefaultQuestConfig().Gathering {
		t.Error("normal pace should not change gathering")
	}
}
