// Package items implements the player's inventory, equipment slots and
// toolbelt on top of the content catalog.
package items

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/tilequest/internal/content"
)

const (
	DefaultSlots    = 28
	DefaultMaxStack = 1000
)

var (
	ErrInventoryFull = errors.New("items: inventory full")
	ErrInsufficient  = errors.New("items: not enough items")
	ErrEmptySlot     = errors.New("items: slot is empty")
	ErrNotTool       = errors.New("items: item is not a tool")
	ErrNotEquippable = errors.New("items: item cannot be equipped")
)

// Stack is the content of one inventory slot.
type Stack struct {
	ItemID string `json:"item"`
	Count  int    `json:"count"`
}

// Empty reports whether the slot holds nothing.
func (s Stack) Empty() bool {
	return s.ItemID == "" || s.Count <= 0
}

// Inventory is a fixed number of slots. Non-stackable items take one slot
// each; stackable items share a slot up to MaxStack.
type Inventory struct {
	catalog  *content.Catalog
	slots    []Stack
	maxStack int
}

// NewInventory creates an empty inventory.
func NewInventory(catalog *content.Catalog, slots, maxStack int) *Inventory {
	if slots <= 0 {
		slots = DefaultSlots
	}
	if maxStack <= 0 {
		maxStack = DefaultMaxStack
	}
	return &Inventory{
		catalog:  catalog,
		slots:    make([]Stack, slots),
		maxStack: maxStack,
	}
}

func (inv *Inventory) stackable(id string) bool {
	def, ok := inv.catalog.Item(id)
	return ok && def.Stackable
}

// Size returns the number of slots.
func (inv *Inventory) Size() int {
	return len(inv.slots)
}

// Slots returns a copy of every slot, empty ones included.
func (inv *Inventory) Slots() []Stack {
	out := make([]Stack, len(inv.slots))
	copy(out, inv.slots)
	return out
}

// Slot returns the stack at index i.
func (inv *Inventory) Slot(i int) Stack {
	if i < 0 || i >= len(inv.slots) {
		return Stack{}
	}
	return inv.slots[i]
}

// FreeSlots counts empty slots.
func (inv *Inventory) FreeSlots() int {
	n := 0
	for _, s := range inv.slots {
		if s.Empty() {
			n++
		}
	}
	return n
}

// IsFull reports whether no slot is empty.
func (inv *Inventory) IsFull() bool {
	return inv.FreeSlots() == 0
}

// Count returns how many of an item are held.
func (inv *Inventory) Count(id string) int {
	n := 0
	for _, s := range inv.slots {
		if s.ItemID == id {
			n += s.Count
		}
	}
	return n
}

// Has reports whether at least n of an item are held.
func (inv *Inventory) Has(id string, n int) bool {
	return inv.Count(id) >= n
}

// CanAccept reports whether one more of the item would fit.
func (inv *Inventory) CanAccept(id string) bool {
	if inv.stackable(id) {
		for _, s := range inv.slots {
			if s.ItemID == id && s.Count < inv.maxStack {
				return true
			}
		}
	}
	return !inv.IsFull()
}

// Add puts up to n items into the inventory and returns how many were added.
// If not everything fit, the error is ErrInventoryFull.
func (inv *Inventory) Add(id string, n int) (int, error) {
	if n <= 0 {
		return 0, nil
	}
	if _, ok := inv.catalog.Item(id); !ok {
		return 0, fmt.Errorf("items: add %q: %w", id, content.ErrUnknownItem)
	}

	added := 0
	if inv.stackable(id) {
		// Top up existing stacks first.
		for i := range inv.slots {
			if added == n {
				break
			}
			if inv.slots[i].ItemID != id {
				continue
			}
			room := inv.maxStack - inv.slots[i].Count
			take := min(room, n-added)
			inv.slots[i].Count += take
			added += take
		}
		for i := range inv.slots {
			if added == n {
				break
			}
			if !inv.slots[i].Empty() {
				continue
			}
			take := min(inv.maxStack, n-added)
			inv.slots[i] = Stack{ItemID: id, Count: take}
			added += take
		}
	} else {
		for i := range inv.slots {
			if added == n {
				break
			}
			if inv.slots[i].Empty() {
				inv.slots[i] = Stack{ItemID: id, Count: 1}
				added++
			}
		}
	}

	if added < n {
		return added, ErrInventoryFull
	}
	return added, nil
}

// Remove takes n items out of the inventory. Nothing is removed unless all n
// are present.
func (inv *Inventory) Remove(id string, n int) error {
	if n <= 0 {
		return nil
	}
	if inv.Count(id) < n {
		return fmt.Errorf("items: remove %d %q: %w", n, id, ErrInsufficient)
	}

	// Remove from the back so the front of the bag stays stable.
	for i := len(inv.slots) - 1; i >= 0 && n > 0; i-- {
		if inv.slots[i].ItemID != id {
			continue
		}
		take := min(inv.slots[i].Count, n)
		inv.slots[i].Count -= take
		n -= take
		if inv.slots[i].Count == 0 {
			inv.slots[i] = Stack{}
		}
	}
	return nil
}

// Take empties slot i and returns what it held.
func (inv *Inventory) Take(i int) (Stack, error) {
	if i < 0 || i >= len(inv.slots) || inv.slots[i].Empty() {
		return Stack{}, ErrEmptySlot
	}
	s := inv.slots[i]
	inv.slots[i] = Stack{}
	return s, nil
}

// Restore replaces the slot contents, used when loading saves. Extra stacks
// beyond the slot count are dropped and reported.
func (inv *Inventory) Restore(stacks []Stack) error {
	for i := range inv.slots {
		inv.slots[i] = Stack{}
	}
	if len(stacks) > len(inv.slots) {
		copy(inv.slots, stacks[:len(inv.slots)])
		return fmt.Errorf("items: restore %d stacks into %d slots: %w", len(stacks), len(inv.slots), ErrInventoryFull)
	}
	copy(inv.slots, stacks)
	return nil
}
