// Package content provides the item and resource object tables that drive
// gathering. The built-in tables are embedded YAML; custom tables use the same
// format.
package content

import (
	_ "embed"
	"errors"
	"fmt"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/tilequest/internal/skills"
)

//go:embed catalog.yaml
var defaultCatalogYAML []byte

// ItemKind classifies items.
type ItemKind string

const (
	KindResource  ItemKind = "resource"
	KindTool      ItemKind = "tool"
	KindEquipment ItemKind = "equipment"
)

// Slot is an equipment slot name.
type Slot string

const (
	SlotNone   Slot = ""
	SlotHead   Slot = "head"
	SlotBody   Slot = "body"
	SlotLegs   Slot = "legs"
	SlotFeet   Slot = "feet"
	SlotHands  Slot = "hands"
	SlotWeapon Slot = "weapon"
	SlotShield Slot = "shield"
)

// Slots returns every equipment slot in display order.
func Slots() []Slot {
	return []Slot{SlotHead, SlotBody, SlotLegs, SlotFeet, SlotHands, SlotWeapon, SlotShield}
}

// ItemDef describes one item type.
type ItemDef struct {
	ID        string   `yaml:"id"`
	Name      string   `yaml:"name"`
	Kind      ItemKind `yaml:"kind"`
	Stackable bool     `yaml:"stackable"`
	Slot      Slot     `yaml:"slot"`
	ToolType  string   `yaml:"tool_type"`
	ToolTier  int      `yaml:"tool_tier"`
	Value     int      `yaml:"value"`
}

// IsTool reports whether the item can go on the toolbelt.
func (d ItemDef) IsTool() bool {
	return d.Kind == KindTool && d.ToolType != ""
}

// ObjectDef describes a gatherable resource object such as a tree or rock.
type ObjectDef struct {
	Kind          string       `yaml:"kind"`
	Name          string       `yaml:"name"`
	Glyph         string       `yaml:"glyph"`
	Color         string       `yaml:"color"`
	Skill         skills.Skill `yaml:"skill"`
	Level         int          `yaml:"level"`
	ToolType      string       `yaml:"tool_type"`
	Yield         string       `yaml:"yield"`
	XP            int          `yaml:"xp"`
	DepleteChance float64      `yaml:"deplete_chance"`
	DepletedGlyph string       `yaml:"depleted_glyph"`
	DepletedColor string       `yaml:"depleted_color"`
	RespawnMs     int          `yaml:"respawn_ms"`
	Difficulty    float64      `yaml:"difficulty"`
	// Terrain lists the tile kinds the object may stand on. Empty means any
	// passable land tile.
	Terrain []string `yaml:"terrain"`
}

// Rune returns the map glyph as a rune.
func (d ObjectDef) Rune() rune {
	for _, r := range d.Glyph {
		return r
	}
	return '?'
}

// DepletedRune returns the glyph drawn while the object waits to respawn.
// ok is false when nothing is drawn.
func (d ObjectDef) DepletedRune() (rune, bool) {
	for _, r := range d.DepletedGlyph {
		return r, true
	}
	return 0, false
}

// Catalog indexes item and object definitions.
type Catalog struct {
	items   map[string]ItemDef
	objects map[string]ObjectDef
}

type catalogFile struct {
	Items   []ItemDef   `yaml:"items"`
	Objects []ObjectDef `yaml:"objects"`
}

var (
	ErrUnknownItem   = errors.New("content: unknown item")
	ErrUnknownObject = errors.New("content: unknown object kind")
)

// Parse decodes a YAML catalog and validates it.
func Parse(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("content: yaml unmarshal: %w", err)
	}

	c := &Catalog{
		items:   make(map[string]ItemDef, len(f.Items)),
		objects: make(map[string]ObjectDef, len(f.Objects)),
	}
	for _, it := range f.Items {
		if it.ID == "" {
			return nil, errors.New("content: item with empty id")
		}
		if _, dup := c.items[it.ID]; dup {
			return nil, fmt.Errorf("content: duplicate item %q", it.ID)
		}
		c.items[it.ID] = it
	}
	for _, obj := range f.Objects {
		if obj.Kind == "" {
			return nil, errors.New("content: object with empty kind")
		}
		if _, dup := c.objects[obj.Kind]; dup {
			return nil, fmt.Errorf("content: duplicate object %q", obj.Kind)
		}
		c.objects[obj.Kind] = obj
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Default returns the embedded catalog. It panics if the embedded data is
// invalid, which the package tests rule out.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := Parse(defaultCatalogYAML)
		if err != nil {
			panic(err)
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

// Validate checks cross references between objects and items.
func (c *Catalog) Validate() error {
	var errs []error
	toolTypes := make(map[string]bool)
	for _, it := range c.items {
		if it.Kind == KindTool && it.ToolType == "" {
			errs = append(errs, fmt.Errorf("item %q: tool without tool_type", it.ID))
		}
		if it.Kind == KindEquipment && it.Slot == SlotNone {
			errs = append(errs, fmt.Errorf("item %q: equipment without slot", it.ID))
		}
		if it.ToolType != "" {
			toolTypes[it.ToolType] = true
		}
	}

	for _, kind := range c.ObjectKinds() {
		obj := c.objects[kind]
		if _, ok := c.items[obj.Yield]; !ok {
			errs = append(errs, fmt.Errorf("object %q: yield %q: %w", kind, obj.Yield, ErrUnknownItem))
		}
		if !skills.Valid(obj.Skill) {
			errs = append(errs, fmt.Errorf("object %q: unknown skill %q", kind, obj.Skill))
		}
		if obj.ToolType != "" && !toolTypes[obj.ToolType] {
			errs = append(errs, fmt.Errorf("object %q: no item provides tool type %q", kind, obj.ToolType))
		}
		if obj.DepleteChance < 0 || obj.DepleteChance > 1 {
			errs = append(errs, fmt.Errorf("object %q: deplete_chance %v outside [0,1]", kind, obj.DepleteChance))
		}
		if obj.RespawnMs < 0 {
			errs = append(errs, fmt.Errorf("object %q: negative respawn_ms", kind))
		}
	}

	return errors.Join(errs...)
}

// Item looks up an item definition.
func (c *Catalog) Item(id string) (ItemDef, bool) {
	it, ok := c.items[id]
	return it, ok
}

// Object looks up an object definition.
func (c *Catalog) Object(kind string) (ObjectDef, bool) {
	obj, ok := c.objects[kind]
	return obj, ok
}

// ItemName returns the display name of an item, falling back to its ID.
func (c *Catalog) ItemName(id string) string {
	if it, ok := c.items[id]; ok && it.Name != "" {
		return it.Name
	}
	return id
}

// ObjectKinds returns every object kind, sorted.
func (c *Catalog) ObjectKinds() []string {
	kinds := make([]string, 0, len(c.objects))
	for k := range c.objects {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

// ItemIDs returns every item ID, sorted.
func (c *Catalog) ItemIDs() []string {
	ids := make([]string, 0, len(c.items))
	for id := range c.items {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
