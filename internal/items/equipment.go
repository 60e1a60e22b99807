package items

import (
	"fmt"
	"sort"

	"github.com/vovakirdan/tilequest/internal/content"
)

// Equipment holds at most one item per slot.
type Equipment struct {
	slots map[content.Slot]string
}

// NewEquipment returns an empty set of equipment slots.
func NewEquipment() *Equipment {
	return &Equipment{slots: make(map[content.Slot]string)}
}

// Equip puts def into its slot and returns the item ID it displaced, or "".
func (e *Equipment) Equip(def content.ItemDef) (string, error) {
	if def.Slot == content.SlotNone {
		return "", fmt.Errorf("items: equip %q: %w", def.ID, ErrNotEquippable)
	}
	prev := e.slots[def.Slot]
	e.slots[def.Slot] = def.ID
	return prev, nil
}

// Unequip clears a slot and returns what was there.
func (e *Equipment) Unequip(slot content.Slot) (string, error) {
	id, ok := e.slots[slot]
	if !ok {
		return "", ErrEmptySlot
	}
	delete(e.slots, slot)
	return id, nil
}

// Get returns the item in a slot, or "".
func (e *Equipment) Get(slot content.Slot) string {
	return e.slots[slot]
}

// Snapshot returns a copy of the slot map keyed by slot name.
func (e *Equipment) Snapshot() map[string]string {
	out := make(map[string]string, len(e.slots))
	for k, v := range e.slots {
		out[string(k)] = v
	}
	return out
}

// Restore replaces every slot from a snapshot.
func (e *Equipment) Restore(snap map[string]string) {
	e.slots = make(map[content.Slot]string, len(snap))
	for k, v := range snap {
		if v != "" {
			e.slots[content.Slot(k)] = v
		}
	}
}

// Toolbelt holds gathering tools outside the inventory. Each tool item is
// held at most once.
type Toolbelt struct {
	catalog *content.Catalog
	tools   map[string]bool
}

// NewToolbelt returns an empty toolbelt.
func NewToolbelt(catalog *content.Catalog) *Toolbelt {
	return &Toolbelt{catalog: catalog, tools: make(map[string]bool)}
}

// Add hangs a tool on the belt. It reports false if the tool was already there.
func (t *Toolbelt) Add(id string) (bool, error) {
	def, ok := t.catalog.Item(id)
	if !ok {
		return false, fmt.Errorf("items: toolbelt %q: %w", id, content.ErrUnknownItem)
	}
	if !def.IsTool() {
		return false, fmt.Errorf("items: toolbelt %q: %w", id, ErrNotTool)
	}
	if t.tools[id] {
		return false, nil
	}
	t.tools[id] = true
	return true, nil
}

// Remove takes a tool off the belt.
func (t *Toolbelt) Remove(id string) bool {
	if !t.tools[id] {
		return false
	}
	delete(t.tools, id)
	return true
}

// Has reports whether the tool is on the belt.
func (t *Toolbelt) Has(id string) bool {
	return t.tools[id]
}

// Tools returns the tool IDs, sorted.
func (t *Toolbelt) Tools() []string {
	out := make([]string, 0, len(t.tools))
	for id := range t.tools {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// BestTier returns the best tier on the belt for a tool type, 0 if none.
func (t *Toolbelt) BestTier(toolType string) int {
	best := 0
	for id := range t.tools {
		def, ok := t.catalog.Item(id)
		if ok && def.ToolType == toolType && def.ToolTier > best {
			best = def.ToolTier
		}
	}
	return best
}

// BestToolTier returns the best tier available for a tool type across the
// toolbelt and the equipped weapon.
func BestToolTier(toolType string, belt *Toolbelt, eq *Equipment, catalog *content.Catalog) int {
	if toolType == "" {
		return 0
	}
	best := 0
	if belt != nil {
		best = belt.BestTier(toolType)
	}
	if eq != nil {
		if def, ok := catalog.Item(eq.Get(content.SlotWeapon)); ok && def.ToolType == toolType {
			best = max(best, def.ToolTier)
		}
	}
	return best
}
