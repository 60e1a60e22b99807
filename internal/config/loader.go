package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// AppDir is the per-user data directory name under $HOME.
const AppDir = ".tilequest"

// LoadQuest loads the game configuration.
// Search order: customPath -> ~/.tilequest/configs/quest.yaml -> ./configs/quest.yaml -> embedded default
func LoadQuest(customPath string) (QuestConfig, error) {
	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return DefaultQuestConfig(), fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		cfg, err := parseQuest(data)
		if err != nil {
			return DefaultQuestConfig(), fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath("quest.yaml"); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if cfg, err := parseQuest(data); err == nil {
				return cfg, nil
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile("configs/quest.yaml"); err == nil {
		if cfg, err := parseQuest(data); err == nil {
			return cfg, nil
		}
	}

	// Use embedded default YAML
	cfg, err := parseQuest(defaultQuestYAML)
	if err != nil {
		return DefaultQuestConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// parseQuest decodes data over the defaults, so keys missing from a partial
// file keep their default values.
func parseQuest(data []byte) (QuestConfig, error) {
	cfg := DefaultQuestConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return QuestConfig{}, err
	}
	return cfg.withDefaults(), nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, AppDir, "configs", filename)
}

// DataPath returns a path inside ~/.tilequest, or filename itself if home is
// unavailable.
func DataPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filename
	}
	return filepath.Join(home, AppDir, filename)
}
