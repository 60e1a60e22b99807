package core

// Action represents a semantic game action, abstracted from physical key presses.
type Action int

const (
	ActionNone      Action = iota
	ActionUp               // W, Up arrow
	ActionDown             // S, Down arrow
	ActionLeft             // A, Left arrow
	ActionRight            // D, Right arrow
	ActionInteract         // E, Space - gather from the faced object
	ActionInventory        // I - toggle the inventory panel
	ActionEquipment        // O - toggle the equipment panel
	ActionConfirm          // Enter - use the selected slot
	ActionBack             // B, Escape - close panel or stop gathering
	ActionDrop             // X - drop the selected stack
	ActionPause            // P
	ActionSave             // Ctrl+S
	ActionQuit             // Q, Ctrl+C
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionUp:
		return "Up"
	case ActionDown:
		return "Down"
	case ActionLeft:
		return "Left"
	case ActionRight:
		return "Right"
	case ActionInteract:
		return "Interact"
	case ActionInventory:
		return "Inventory"
	case ActionEquipment:
		return "Equipment"
	case ActionConfirm:
		return "Confirm"
	case ActionBack:
		return "Back"
	case ActionDrop:
		return "Drop"
	case ActionPause:
		return "Pause"
	case ActionSave:
		return "Save"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// MoveDir returns the facing for a movement action.
// ok is false for actions that are not movement.
func (a Action) MoveDir() (d Dir, ok bool) {
	switch a {
	case ActionUp:
		return DirUp, true
	case ActionDown:
		return DirDown, true
	case ActionLeft:
		return DirLeft, true
	case ActionRight:
		return DirRight, true
	}
	return DirDown, false
}

// movementOrder fixes which direction wins when several are pressed in one tick.
var movementOrder = []Action{ActionUp, ActionDown, ActionLeft, ActionRight}

// InputFrame represents the input state during one simulation tick.
type InputFrame struct {
	// Actions maps action types to whether they were triggered this frame.
	Actions map[Action]bool
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{
		Actions: make(map[Action]bool),
	}
}

// Set marks an action as triggered for this frame.
func (f *InputFrame) Set(a Action) {
	if f.Actions == nil {
		f.Actions = make(map[Action]bool)
	}
	f.Actions[a] = true
}

// Has returns true if the given action was triggered this frame.
func (f InputFrame) Has(a Action) bool {
	if f.Actions == nil {
		return false
	}
	return f.Actions[a]
}

// Movement returns the first movement action in the frame, if any.
func (f InputFrame) Movement() (Dir, bool) {
	for _, a := range movementOrder {
		if f.Has(a) {
			return a.MoveDir()
		}
	}
	return DirDown, false
}

// Clear resets all actions for the next frame.
func (f *InputFrame) Clear() {
	for k := range f.Actions {
		delete(f.Actions, k)
	}
}
