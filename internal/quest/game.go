// Package quest implements the overworld game: walking between maps,
// gathering from resource objects, managing the inventory and saving.
package quest

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/vovakirdan/tilequest/internal/config"
	"github.com/vovakirdan/tilequest/internal/content"
	"github.com/vovakirdan/tilequest/internal/core"
	"github.com/vovakirdan/tilequest/internal/entity"
	"github.com/vovakirdan/tilequest/internal/gather"
	"github.com/vovakirdan/tilequest/internal/world"
)

// Mode is what the player is currently doing.
type Mode int

const (
	ModeExploring Mode = iota
	ModeGathering
	ModeInventory
	ModeEquipment
)

func (m Mode) String() string {
	switch m {
	case ModeGathering:
		return "gathering"
	case ModeInventory:
		return "inventory"
	case ModeEquipment:
		return "equipment"
	default:
		return "exploring"
	}
}

// inventoryColumns is the width of the inventory grid.
const inventoryColumns = 4

// Options configures a new game.
type Options struct {
	Config  config.QuestConfig
	Catalog *content.Catalog
	// Maps keyed by ID. Nil means the built-in maps.
	Maps map[string]world.MapFile
}

// Game is the Tile Quest overworld.
type Game struct {
	cfg     config.QuestConfig
	catalog *content.Catalog
	maps    map[string]world.MapFile

	rng       *rand.Rand
	tick      uint64
	clock     core.RuntimeConfig
	screenW   int
	screenH   int
	paused    bool
	tooSmall  bool
	mode      Mode
	moveTimer int

	areas   map[string]*area
	current *area
	player  *entity.Character
	session *gather.Session
	log     *MessageLog

	invCursor int
	eqCursor  int
}

// New creates a game. Call Reset or Restore before stepping it.
func New(opts Options) (*Game, error) {
	g := &Game{
		cfg:     opts.Config,
		catalog: opts.Catalog,
		maps:    opts.Maps,
	}
	if g.catalog == nil {
		g.catalog = content.Default()
	}
	if g.maps == nil {
		index, err := world.NewLoader("").LoadIndex()
		if err != nil {
			return nil, fmt.Errorf("quest: built-in maps: %w", err)
		}
		g.maps = index
	}
	if _, ok := g.maps[g.startMap()]; !ok {
		return nil, fmt.Errorf("quest: start map %q not found", g.startMap())
	}
	return g, nil
}

func (g *Game) startMap() string {
	if g.cfg.World.StartMap != "" {
		return g.cfg.World.StartMap
	}
	return world.DefaultMap
}

// ID returns the game identifier.
func (g *Game) ID() string {
	return "tilequest"
}

// Title returns the display name.
func (g *Game) Title() string {
	return "Tile Quest"
}

// Reset starts a new character on the start map.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	g.resetRuntime(cfg)
	if err := g.buildAreas(); err != nil {
		// Maps were checked in New; a failure here means the files changed.
		g.log.Add(err.Error())
		return
	}

	start := g.areas[g.startMap()]
	player, err := entity.New(g.catalog, start.m.Spawn, entity.Options{
		Name:           g.cfg.Player.Name,
		InventorySlots: g.cfg.Player.InventorySlots,
		MaxStack:       g.cfg.Player.MaxStack,
		Tools:          g.cfg.Player.StarterTools,
	})
	if err != nil {
		g.log.Add(err.Error())
		return
	}
	g.player = player
	g.enter(start, start.m.Spawn)
	g.log.Add(fmt.Sprintf("Welcome to %s.", start.file.Name))
}

func (g *Game) resetRuntime(cfg core.RuntimeConfig) {
	g.rng = rand.New(rand.NewSource(cfg.Seed))
	g.tick = 0
	g.clock = cfg
	g.paused = false
	g.mode = ModeExploring
	g.moveTimer = 0
	g.session = nil
	g.current = nil
	g.invCursor = 0
	g.eqCursor = 0
	g.log = NewMessageLog(g.cfg.UI.LogLines)
	g.Resize(cfg.ScreenW, cfg.ScreenH)
}

func (g *Game) buildAreas() error {
	ids := make([]string, 0, len(g.maps))
	for id := range g.maps {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	g.areas = make(map[string]*area, len(ids))
	for _, id := range ids {
		a, err := newArea(g.maps[id], g.catalog)
		if err != nil {
			return err
		}
		g.areas[id] = a
	}
	return nil
}

// enter places the player on an area. If p is taken the map spawn is used.
func (g *Game) enter(a *area, p core.Point) {
	if g.current != nil {
		g.current.m.Remove(PlayerID) //nolint:errcheck // not placed on first entry
	}
	if a.m.IsBlocked(p) {
		p = a.m.Spawn
	}
	if err := a.m.Place(PlayerID, p); err != nil {
		g.log.Add(fmt.Sprintf("Cannot enter %s: %v", a.file.Name, err))
	}
	g.current = a
	g.player.Pos = p
}

// Resize updates the screen size the game renders into.
func (g *Game) Resize(w, h int) {
	g.screenW = w
	g.screenH = h
	g.tooSmall = w < MinScreenW || h < MinScreenH
}

// Step advances the game by one tick.
func (g *Game) Step(input core.InputFrame) core.StepResult {
	if g.player == nil {
		return core.StepResult{State: g.State()}
	}
	g.tick++

	// Handle pause toggle
	if input.Has(core.ActionPause) {
		g.paused = !g.paused
	}
	if g.paused || g.tooSmall {
		return core.StepResult{State: g.State()}
	}

	var events []core.Event
	events = append(events, g.advanceRespawns()...)

	if g.moveTimer > 0 {
		g.moveTimer--
	}

	switch g.mode {
	case ModeExploring:
		events = append(events, g.stepExploring(input)...)
	case ModeGathering:
		events = append(events, g.stepGathering(input)...)
	case ModeInventory:
		events = append(events, g.stepInventory(input)...)
	case ModeEquipment:
		events = append(events, g.stepEquipment(input)...)
	}

	for _, ev := range events {
		g.log.Add(ev.Text)
	}
	return core.StepResult{State: g.State(), Events: events}
}

func (g *Game) advanceRespawns() []core.Event {
	var events []core.Event
	elapsed := g.clock.ElapsedMillis(g.tick)
	ids := make([]string, 0, len(g.areas))
	for id := range g.areas {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		for _, obj := range g.areas[id].advance(elapsed, g.cfg.World.RespawnRetryMs) {
			events = append(events, core.Event{
				Kind:  core.EventRespawn,
				Skill: string(obj.Def.Skill),
			})
		}
	}
	return events
}

func (g *Game) stepExploring(input core.InputFrame) []core.Event {
	switch {
	case input.Has(core.ActionInventory):
		g.mode = ModeInventory
		return nil
	case input.Has(core.ActionEquipment):
		g.mode = ModeEquipment
		return nil
	case input.Has(core.ActionInteract):
		return g.interact()
	}
	if dir, ok := input.Movement(); ok {
		return g.move(dir)
	}
	return nil
}

func (g *Game) stepGathering(input core.InputFrame) []core.Event {
	if _, moving := input.Movement(); moving || input.Has(core.ActionBack) {
		events := g.stopGathering()
		if dir, ok := input.Movement(); ok {
			events = append(events, g.move(dir)...)
		}
		return events
	}

	events := g.convert(g.session.Step(g.rng))
	if !g.session.Active() {
		g.session = nil
		g.mode = ModeExploring
	}
	return events
}

func (g *Game) stopGathering() []core.Event {
	var events []core.Event
	if g.session != nil {
		events = g.convert(g.session.Cancel())
	}
	g.session = nil
	g.mode = ModeExploring
	return events
}

// move turns the player and walks one tile if the cooldown allows.
func (g *Game) move(dir core.Dir) []core.Event {
	g.player.Face(dir)
	if g.moveTimer > 0 {
		return nil
	}

	to := g.player.Pos.Add(dir.Delta())
	if err := g.current.m.Move(PlayerID, to); err != nil {
		return nil
	}
	g.player.Pos = to
	g.moveTimer = g.cfg.Player.MoveCooldownTicks

	if portal, ok := g.current.file.PortalAt(to); ok {
		return g.travel(portal)
	}
	return nil
}

func (g *Game) travel(portal world.Portal) []core.Event {
	dest, ok := g.areas[portal.To]
	if !ok {
		return []core.Event{{Kind: core.EventMessage, Text: "The way is shut."}}
	}
	g.enter(dest, portal.Target())
	return []core.Event{{
		Kind: core.EventMapChange,
		Text: fmt.Sprintf("You enter %s.", dest.file.Name),
	}}
}

func (g *Game) interact() []core.Event {
	obj, ok := g.current.objectAt(g.player.FacingTile())
	if !ok {
		return nil
	}
	session, ev := gather.Start(g.player, obj.target(), g.cfg.Gathering)
	if session != nil {
		g.session = session
		g.mode = ModeGathering
	}
	return g.convert([]gather.Event{ev})
}

// convert turns gather events into platform events, applying depletion to
// the map.
func (g *Game) convert(evs []gather.Event) []core.Event {
	out := make([]core.Event, 0, len(evs))
	for _, ev := range evs {
		ce := core.Event{Kind: core.EventMessage, Text: ev.Text, Skill: string(ev.Skill)}
		switch ev.Kind {
		case gather.EventYield:
			ce.Kind = core.EventGatherDone
			ce.Item = ev.Item
			ce.XP = ev.XP
		case gather.EventLevelUp:
			ce.Kind = core.EventLevelUp
		case gather.EventDepleted:
			if obj, ok := g.current.objects[ev.Object]; ok {
				respawn := int(float64(obj.Def.RespawnMs) * g.cfg.World.RespawnMultiplier)
				g.current.deplete(obj, respawn)
			}
		case gather.EventCancelled:
			if ce.Text == "" {
				ce.Text = "You stop."
			}
		}
		out = append(out, ce)
	}
	return out
}

func (g *Game) stepInventory(input core.InputFrame) []core.Event {
	size := g.player.Inventory.Size()
	switch {
	case input.Has(core.ActionBack), input.Has(core.ActionInventory):
		g.mode = ModeExploring
		return nil
	case input.Has(core.ActionEquipment):
		g.mode = ModeEquipment
		return nil
	case input.Has(core.ActionConfirm):
		msg, err := g.player.EquipFromInventory(g.invCursor)
		if err != nil {
			msg = "You can't use that."
		}
		return []core.Event{{Kind: core.EventMessage, Text: msg}}
	case input.Has(core.ActionDrop):
		stack, err := g.player.Inventory.Take(g.invCursor)
		if err != nil {
			return nil
		}
		return []core.Event{{Kind: core.EventMessage, Text: fmt.Sprintf("You drop the %s.", g.catalog.ItemName(stack.ItemID))}}
	}

	if dir, ok := input.Movement(); ok {
		d := dir.Delta()
		next := g.invCursor + d.X + d.Y*inventoryColumns
		if next >= 0 && next < size {
			g.invCursor = next
		}
	}
	return nil
}

func (g *Game) stepEquipment(input core.InputFrame) []core.Event {
	slots := content.Slots()
	switch {
	case input.Has(core.ActionBack), input.Has(core.ActionEquipment):
		g.mode = ModeExploring
		return nil
	case input.Has(core.ActionInventory):
		g.mode = ModeInventory
		return nil
	case input.Has(core.ActionConfirm):
		msg, err := g.player.UnequipToInventory(slots[g.eqCursor])
		if err != nil {
			if g.player.Equipment.Get(slots[g.eqCursor]) == "" {
				return nil
			}
			msg = "You don't have enough inventory space."
		}
		return []core.Event{{Kind: core.EventMessage, Text: msg}}
	}

	if dir, ok := input.Movement(); ok {
		next := g.eqCursor + dir.Delta().Y
		if next >= 0 && next < len(slots) {
			g.eqCursor = next
		}
	}
	return nil
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	return core.GameState{
		Paused:    g.paused,
		Gathering: g.mode == ModeGathering,
		TooSmall:  g.tooSmall,
	}
}

// Mode returns what the player is doing.
func (g *Game) Mode() Mode {
	return g.mode
}

// Player returns the player character.
func (g *Game) Player() *entity.Character {
	return g.player
}

// MapID returns the current map's ID.
func (g *Game) MapID() string {
	if g.current == nil {
		return ""
	}
	return g.current.file.ID
}

// MapName returns the current map's display name.
func (g *Game) MapName() string {
	if g.current == nil {
		return ""
	}
	return g.current.file.Name
}

// Messages returns the message log, oldest first.
func (g *Game) Messages() []string {
	return g.log.Lines()
}

// Notify adds a platform message to the log, such as a save confirmation.
func (g *Game) Notify(msg string) {
	g.log.Add(msg)
}

// Ticks returns the number of simulated ticks.
func (g *Game) Ticks() uint64 {
	return g.tick
}
