// Package entity defines the player character: position, facing, skills and
// belongings.
package entity

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/tilequest/internal/content"
	"github.com/vovakirdan/tilequest/internal/core"
	"github.com/vovakirdan/tilequest/internal/items"
	"github.com/vovakirdan/tilequest/internal/skills"
)

// StarterTools is the kit a new character carries.
var StarterTools = []string{"bronze_axe", "bronze_pickaxe", "small_net"}

// Character is a player on the map.
type Character struct {
	Name      string
	Pos       core.Point
	Facing    core.Dir
	Skills    *skills.Set
	Inventory *items.Inventory
	Equipment *items.Equipment
	Toolbelt  *items.Toolbelt

	catalog *content.Catalog
}

// Options configures a new character.
type Options struct {
	Name           string
	InventorySlots int
	MaxStack       int
	// Tools hung on the toolbelt. Nil means StarterTools.
	Tools []string
}

// New creates a character at pos with the starter kit.
func New(catalog *content.Catalog, pos core.Point, opts Options) (*Character, error) {
	c := &Character{
		Name:      opts.Name,
		Pos:       pos,
		Facing:    core.DirDown,
		Skills:    skills.NewSet(),
		Inventory: items.NewInventory(catalog, opts.InventorySlots, opts.MaxStack),
		Equipment: items.NewEquipment(),
		Toolbelt:  items.NewToolbelt(catalog),
		catalog:   catalog,
	}
	if c.Name == "" {
		c.Name = "Adventurer"
	}

	tools := opts.Tools
	if tools == nil {
		tools = StarterTools
	}
	for _, id := range tools {
		if _, err := c.Toolbelt.Add(id); err != nil {
			return nil, fmt.Errorf("entity: starter kit: %w", err)
		}
	}
	return c, nil
}

// Face turns the character. Move attempts call this even when blocked.
func (c *Character) Face(d core.Dir) {
	c.Facing = d
}

// FacingTile returns the tile in front of the character.
func (c *Character) FacingTile() core.Point {
	return c.Pos.Add(c.Facing.Delta())
}

// ToolTier returns the best tier the character can use for a tool type.
func (c *Character) ToolTier(toolType string) int {
	return items.BestToolTier(toolType, c.Toolbelt, c.Equipment, c.catalog)
}

// Catalog returns the content catalog the character's items refer to.
func (c *Character) Catalog() *content.Catalog {
	return c.catalog
}

// EquipFromInventory moves slot i of the inventory onto the character.
// Tools go on the toolbelt unless they fit an equipment slot; anything
// displaced goes back into the bag.
func (c *Character) EquipFromInventory(i int) (string, error) {
	stack := c.Inventory.Slot(i)
	if stack.Empty() {
		return "", items.ErrEmptySlot
	}
	def, ok := c.catalog.Item(stack.ItemID)
	if !ok {
		return "", fmt.Errorf("entity: equip %q: %w", stack.ItemID, content.ErrUnknownItem)
	}

	switch {
	case def.Slot != content.SlotNone:
		if _, err := c.Inventory.Take(i); err != nil {
			return "", err
		}
		prev, err := c.Equipment.Equip(def)
		if err != nil {
			c.Inventory.Add(def.ID, 1) //nolint:errcheck // slot was just freed
			return "", err
		}
		if prev != "" {
			c.Inventory.Add(prev, 1) //nolint:errcheck // slot was just freed
		}
		return fmt.Sprintf("You equip the %s.", c.catalog.ItemName(def.ID)), nil
	case def.IsTool():
		added, err := c.Toolbelt.Add(def.ID)
		if err != nil {
			return "", err
		}
		if !added {
			return fmt.Sprintf("Your toolbelt already holds a %s.", c.catalog.ItemName(def.ID)), nil
		}
		if err := c.Inventory.Remove(def.ID, 1); err != nil {
			c.Toolbelt.Remove(def.ID)
			return "", err
		}
		return fmt.Sprintf("You hang the %s on your toolbelt.", c.catalog.ItemName(def.ID)), nil
	default:
		return "", fmt.Errorf("entity: equip %q: %w", def.ID, items.ErrNotEquippable)
	}
}

// UnequipToInventory moves an equipped item back into the bag.
func (c *Character) UnequipToInventory(slot content.Slot) (string, error) {
	id := c.Equipment.Get(slot)
	if id == "" {
		return "", items.ErrEmptySlot
	}
	if !c.Inventory.CanAccept(id) {
		return "", items.ErrInventoryFull
	}
	if _, err := c.Equipment.Unequip(slot); err != nil {
		return "", err
	}
	if _, err := c.Inventory.Add(id, 1); err != nil {
		return "", err
	}
	return fmt.Sprintf("You remove the %s.", c.catalog.ItemName(id)), nil
}

// Save is the serialized form of a character.
type Save struct {
	Name      string            `json:"name"`
	X         int               `json:"x"`
	Y         int               `json:"y"`
	Facing    string            `json:"facing"`
	XP        map[string]int    `json:"xp"`
	Inventory []items.Stack     `json:"inventory"`
	Equipment map[string]string `json:"equipment"`
	Toolbelt  []string          `json:"toolbelt"`
}

// Snapshot captures the character for saving.
func (c *Character) Snapshot() Save {
	return Save{
		Name:      c.Name,
		X:         c.Pos.X,
		Y:         c.Pos.Y,
		Facing:    c.Facing.String(),
		XP:        c.Skills.Snapshot(),
		Inventory: c.Inventory.Slots(),
		Equipment: c.Equipment.Snapshot(),
		Toolbelt:  c.Toolbelt.Tools(),
	}
}

// Restore replaces the character's state from a save. Inventory sizing and
// stack limits are kept from the current character.
func (c *Character) Restore(s Save) error {
	var errs []error
	c.Name = s.Name
	c.Pos = core.Pt(s.X, s.Y)
	c.Facing = core.ParseDir(s.Facing)

	c.Skills = skills.NewSet()
	for name, xp := range s.XP {
		skill := skills.Skill(name)
		if !skills.Valid(skill) {
			errs = append(errs, fmt.Errorf("entity: unknown skill %q", name))
			continue
		}
		c.Skills.SetXP(skill, xp)
	}

	if err := c.Inventory.Restore(s.Inventory); err != nil {
		errs = append(errs, err)
	}
	c.Equipment.Restore(s.Equipment)

	c.Toolbelt = items.NewToolbelt(c.catalog)
	for _, id := range s.Toolbelt {
		if _, err := c.Toolbelt.Add(id); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
