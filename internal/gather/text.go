package gather

import (
	"strings"

	"github.com/vovakirdan/tilequest/internal/content"
	"github.com/vovakirdan/tilequest/internal/skills"
)

func displayName(def content.ObjectDef) string {
	if def.Name != "" {
		return lower(def.Name)
	}
	return strings.ReplaceAll(def.Kind, "_", " ")
}

func lower(s string) string {
	return strings.ToLower(s)
}

func toolNoun(toolType string) string {
	switch toolType {
	case "net":
		return "fishing net"
	case "rod":
		return "fishing rod"
	default:
		return toolType
	}
}

func startText(def content.ObjectDef) string {
	switch def.Skill {
	case skills.Woodcutting:
		return "You swing your axe at the " + displayName(def) + "."
	case skills.Mining:
		return "You swing your pickaxe at the " + displayName(def) + "."
	case skills.Fishing:
		return "You attempt to catch something."
	default:
		return "You begin gathering."
	}
}

func depletedText(def content.ObjectDef) string {
	switch def.Skill {
	case skills.Woodcutting:
		return "The " + displayName(def) + " falls, leaving a stump."
	case skills.Mining:
		return "The " + displayName(def) + " is now empty."
	case skills.Fishing:
		return "The fish have moved on."
	default:
		return "The " + displayName(def) + " is exhausted."
	}
}
