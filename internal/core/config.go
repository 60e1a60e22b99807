package core

// RuntimeConfig contains configuration passed to the game at initialization.
type RuntimeConfig struct {
	ScreenW  int   // Screen width in characters
	ScreenH  int   // Screen height in characters
	TickRate int   // Simulation ticks per second (default 30)
	Seed     int64 // RNG seed for deterministic gameplay
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 30,
		Seed:     0, // 0 means use current time in platform layer
	}
}

// MaxTickRate is the highest tick rate with at least one millisecond per tick.
const MaxTickRate = 1000

// ElapsedMillis returns the simulated milliseconds that tick n (counting from
// 1) adds. Ticks alternate between the floor and ceiling of 1000/TickRate so
// the total after n ticks is n*1000/TickRate, rounded down.
func (c RuntimeConfig) ElapsedMillis(n uint64) int {
	if n == 0 {
		return 0
	}
	rate := uint64(c.TickRate)
	if c.TickRate <= 0 {
		rate = uint64(DefaultConfig().TickRate)
	}
	return int(n*1000/rate - (n-1)*1000/rate)
}

// GameState is the status the platform needs from the game each tick.
type GameState struct {
	Paused    bool // Whether the game is paused
	Gathering bool // Whether a gather session is running
	TooSmall  bool // Whether the terminal is too small to draw
}

// StepResult is returned by Game.Step() after each simulation tick.
type StepResult struct {
	State GameState
	// Events lists gameplay events emitted this tick, oldest first.
	Events []Event
}

// EventKind classifies gameplay events surfaced to the platform.
type EventKind string

const (
	EventMessage    EventKind = "message"
	EventGatherDone EventKind = "gather"
	EventLevelUp    EventKind = "level_up"
	EventMapChange  EventKind = "map_change"
	EventRespawn    EventKind = "respawn"
)

// Event is a platform-visible gameplay event.
type Event struct {
	Kind  EventKind
	Text  string
	Item  string // item gathered, for EventGatherDone
	Skill string // skill involved, if any
	XP    int
}
