package quest

import (
	"errors"
	"strings"
	"testing"

	"github.com/vovakirdan/tilequest/internal/config"
	"github.com/vovakirdan/tilequest/internal/content"
	"github.com/vovakirdan/tilequest/internal/core"
	"github.com/vovakirdan/tilequest/internal/world"
)

const groveYAML = `id: grove
name: Test Grove
spawn: {x: 1, y: 1}
rows:
  - "########"
  - "#......#"
  - "#......#"
  - "#..~...#"
  - "#......#"
  - "########"
objects:
  - {kind: copper_rock, x: 1, y: 2}
  - {kind: tree, x: 5, y: 4}
portals:
  - {x: 6, y: 1, to: camp, to_x: 1, to_y: 1}
`

const campYAML = `id: camp
name: Camp
spawn: {x: 2, y: 1}
rows:
  - "#####"
  - "#...#"
  - "#####"
portals:
  - {x: 3, y: 1, to: grove, to_x: 5, to_y: 1}
`

var runtimeCfg = core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 10, Seed: 7}

func testMaps(t *testing.T) map[string]world.MapFile {
	t.Helper()
	maps := make(map[string]world.MapFile)
	for _, src := range []string{groveYAML, campYAML} {
		f, err := world.ParseYAML([]byte(src))
		if err != nil {
			t.Fatal(err)
		}
		maps[f.ID] = f
	}
	return maps
}

func testConfig() config.QuestConfig {
	cfg := config.DefaultQuestConfig()
	cfg.World.StartMap = "grove"
	cfg.Player.MoveCooldownTicks = 0
	cfg.Gathering = config.GatheringConfig{
		AttemptTicks: 2,
		BaseChance:   1,
		MinChance:    1,
		MaxChance:    1,
		XPMultiplier: 1,
	}
	return cfg
}

func newGame(t *testing.T, cfg config.QuestConfig) *Game {
	t.Helper()
	g, err := New(Options{Config: cfg, Catalog: content.Default(), Maps: testMaps(t)})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	g.Reset(runtimeCfg)
	return g
}

func press(g *Game, actions ...core.Action) core.StepResult {
	input := core.NewInputFrame()
	for _, a := range actions {
		input.Set(a)
	}
	return g.Step(input)
}

func idle(g *Game, n int) {
	for i := 0; i < n; i++ {
		press(g)
	}
}

// mineCopper faces the rock below the spawn and mines until it depletes.
func mineCopper(t *testing.T, g *Game) {
	t.Helper()
	press(g, core.ActionDown)
	press(g, core.ActionInteract)
	if g.Mode() != ModeGathering {
		t.Fatalf("mode = %s after interact, messages %v", g.Mode(), g.Messages())
	}
	for i := 0; i < 10 && g.Mode() == ModeGathering; i++ {
		press(g)
	}
	if g.Mode() != ModeExploring {
		t.Fatal("copper rock should deplete on the first ore")
	}
}

func TestNewRejectsMissingStartMap(t *testing.T) {
	cfg := testConfig()
	cfg.World.StartMap = "nowhere"
	if _, err := New(Options{Config: cfg, Maps: testMaps(t)}); err == nil {
		t.Error("expected error for missing start map")
	}
}

func TestBuiltinMapsLoad(t *testing.T) {
	g, err := New(Options{Config: config.DefaultQuestConfig()})
	if err != nil {
		t.Fatal(err)
	}
	g.Reset(runtimeCfg)
	if g.MapID() != world.DefaultMap {
		t.Errorf("MapID() = %q, expected %q", g.MapID(), world.DefaultMap)
	}
	for id, a := range g.areas {
		if err := a.m.CheckIndex(); err != nil {
			t.Errorf("map %s: %v", id, err)
		}
	}
}

func TestDeterminism(t *testing.T) {
	cfg := config.DefaultQuestConfig()
	cfg.World.StartMap = "grove"

	script := func(g *Game) {
		for i := 0; i < 400; i++ {
			input := core.NewInputFrame()
			switch {
			case i == 5:
				input.Set(core.ActionDown)
			case i == 10:
				input.Set(core.ActionInteract)
			case i > 300 && i%4 == 0:
				input.Set(core.ActionRight)
			}
			g.Step(input)
		}
	}

	g1, g2 := newGame(t, cfg), newGame(t, cfg)
	script(g1)
	script(g2)

	if s1, s2 := g1.Snapshot(), g2.Snapshot(); s1 != s2 {
		t.Errorf("snapshots differ:\n%+v\n%+v", s1, s2)
	}
}

func TestMovementAndFacing(t *testing.T) {
	g := newGame(t, testConfig())

	// Wall above: position stays, facing turns.
	press(g, core.ActionUp)
	if g.player.Pos != core.Pt(1, 1) || g.player.Facing != core.DirUp {
		t.Errorf("after blocked move pos=%v facing=%v", g.player.Pos, g.player.Facing)
	}

	press(g, core.ActionRight)
	if g.player.Pos != core.Pt(2, 1) {
		t.Errorf("after move right pos=%v", g.player.Pos)
	}
	if id, _ := g.current.m.OccupantAt(core.Pt(2, 1)); id != PlayerID {
		t.Error("occupancy should follow the player")
	}

	// Rock below the spawn blocks.
	press(g, core.ActionLeft)
	press(g, core.ActionDown)
	if g.player.Pos != core.Pt(1, 1) || g.player.Facing != core.DirDown {
		t.Errorf("rock should block: pos=%v facing=%v", g.player.Pos, g.player.Facing)
	}
	if err := g.current.m.CheckIndex(); err != nil {
		t.Fatal(err)
	}
}

func TestMoveCooldown(t *testing.T) {
	cfg := testConfig()
	cfg.Player.MoveCooldownTicks = 3
	g := newGame(t, cfg)

	var xs []int
	for i := 0; i < 4; i++ {
		press(g, core.ActionRight)
		xs = append(xs, g.player.Pos.X)
	}
	want := []int{2, 2, 2, 3}
	for i := range want {
		if xs[i] != want[i] {
			t.Fatalf("x positions = %v, expected %v", xs, want)
		}
	}
}

func TestGatherDepletesAndFreesTile(t *testing.T) {
	g := newGame(t, testConfig())
	mineCopper(t, g)

	if g.player.Inventory.Count("copper_ore") != 1 {
		t.Errorf("copper_ore = %d", g.player.Inventory.Count("copper_ore"))
	}
	if g.current.m.IsBlocked(core.Pt(1, 2)) {
		t.Error("depleted rock should free its tile")
	}
	if g.Snapshot().Depleted != 1 {
		t.Errorf("pending respawns = %d", g.Snapshot().Depleted)
	}

	// Interacting with the empty rock reports it.
	press(g, core.ActionInteract)
	msgs := g.Messages()
	if last := msgs[len(msgs)-1]; !strings.Contains(last, "nothing left") {
		t.Errorf("last message = %q", last)
	}
}

func TestRespawnTiming(t *testing.T) {
	g := newGame(t, testConfig())
	mineCopper(t, g)

	// copper_rock respawns after 4000ms; ticks are 100ms.
	idle(g, 39)
	if _, ok := g.current.m.OccupantAt(core.Pt(1, 2)); ok {
		t.Fatal("rock respawned early")
	}
	idle(g, 1)
	if id, ok := g.current.m.OccupantAt(core.Pt(1, 2)); !ok || id != firstObjectID {
		t.Fatal("rock should be back after 4000ms")
	}
}

func TestRespawnTimingAtUnevenTickRate(t *testing.T) {
	g := newGame(t, testConfig())
	g.Reset(core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 30, Seed: 7})
	mineCopper(t, g)

	// 4000ms at 30 ticks per second is 120 ticks, give or take rounding.
	idle(g, 119)
	if _, ok := g.current.m.OccupantAt(core.Pt(1, 2)); ok {
		t.Fatal("rock respawned early")
	}
	idle(g, 2)
	if _, ok := g.current.m.OccupantAt(core.Pt(1, 2)); !ok {
		t.Fatal("rock should be back after 121 ticks at 30 ticks per second")
	}
}

func TestRespawnWaitsForOccupiedTile(t *testing.T) {
	g := newGame(t, testConfig())
	mineCopper(t, g)

	press(g, core.ActionDown)
	if g.player.Pos != core.Pt(1, 2) {
		t.Fatalf("player should stand on the empty rock tile, at %v", g.player.Pos)
	}

	idle(g, 60)
	if obj := g.current.objects[firstObjectID]; !obj.Depleted {
		t.Fatal("rock must not respawn under the player")
	}
	if g.current.timers.Len() != 1 {
		t.Fatal("respawn should be retried, not dropped")
	}

	press(g, core.ActionUp)
	respawned := false
	for i := 0; i < 11 && !respawned; i++ {
		press(g)
		respawned = !g.current.objects[firstObjectID].Depleted
	}
	if !respawned {
		t.Error("rock should respawn within one retry delay of the tile freeing")
	}
	if err := g.current.m.CheckIndex(); err != nil {
		t.Fatal(err)
	}
}

func TestMovementCancelsGathering(t *testing.T) {
	cfg := testConfig()
	cfg.Gathering.AttemptTicks = 50
	g := newGame(t, cfg)

	press(g, core.ActionDown)
	press(g, core.ActionInteract)
	if g.Mode() != ModeGathering {
		t.Fatal("should be gathering")
	}
	if !g.State().Gathering {
		t.Error("State().Gathering should be set")
	}

	press(g, core.ActionRight)
	if g.Mode() != ModeExploring || g.player.Pos != core.Pt(2, 1) {
		t.Errorf("mode=%s pos=%v", g.Mode(), g.player.Pos)
	}
	if g.player.Inventory.Count("copper_ore") != 0 {
		t.Error("cancelled session should yield nothing")
	}
}

func TestPortalTravel(t *testing.T) {
	g := newGame(t, testConfig())

	var changed bool
	for i := 0; i < 5; i++ {
		res := press(g, core.ActionRight)
		for _, ev := range res.Events {
			if ev.Kind == core.EventMapChange {
				changed = true
			}
		}
	}
	if !changed || g.MapID() != "camp" {
		t.Fatalf("map = %s, changed = %v", g.MapID(), changed)
	}
	if g.player.Pos != core.Pt(1, 1) {
		t.Errorf("arrival = %v, expected (1,1)", g.player.Pos)
	}
	if _, ok := g.areas["grove"].m.PositionOf(PlayerID); ok {
		t.Error("player should leave the old map's occupancy")
	}

	// And back again.
	press(g, core.ActionRight)
	press(g, core.ActionRight)
	if g.MapID() != "grove" || g.player.Pos != core.Pt(5, 1) {
		t.Errorf("back on %s at %v", g.MapID(), g.player.Pos)
	}
}

func TestDepletionSurvivesTravel(t *testing.T) {
	g := newGame(t, testConfig())
	mineCopper(t, g)

	for i := 0; i < 5; i++ {
		press(g, core.ActionRight)
	}
	if g.MapID() != "camp" {
		t.Fatal("expected to reach camp")
	}
	// Remote maps keep counting down.
	idle(g, 50)
	if g.areas["grove"].objects[firstObjectID].Depleted {
		t.Error("grove rock should respawn while the player is away")
	}
}

func TestInventoryOverlay(t *testing.T) {
	g := newGame(t, testConfig())
	g.player.Inventory.Add("leather_cap", 1)
	g.player.Inventory.Add("logs", 1)

	press(g, core.ActionInventory)
	if g.Mode() != ModeInventory {
		t.Fatal("inventory should open")
	}

	press(g, core.ActionConfirm)
	if g.player.Equipment.Get(content.SlotHead) != "leather_cap" {
		t.Error("confirm should equip the cap")
	}

	press(g, core.ActionRight)
	press(g, core.ActionDrop)
	if g.player.Inventory.Count("logs") != 0 {
		t.Error("drop should destroy the logs")
	}

	// Movement keys move the cursor, not the player.
	if g.player.Pos != core.Pt(1, 1) {
		t.Errorf("player moved to %v while in the inventory", g.player.Pos)
	}

	press(g, core.ActionBack)
	if g.Mode() != ModeExploring {
		t.Error("back should close the inventory")
	}
}

func TestEquipmentOverlay(t *testing.T) {
	g := newGame(t, testConfig())
	hat, _ := content.Default().Item("leather_cap")
	g.player.Equipment.Equip(hat)

	press(g, core.ActionEquipment)
	press(g, core.ActionConfirm) // head is the first slot
	if g.player.Equipment.Get(content.SlotHead) != "" || !g.player.Inventory.Has("leather_cap", 1) {
		t.Error("confirm should move the cap back into the bag")
	}
	press(g, core.ActionEquipment)
	if g.Mode() != ModeExploring {
		t.Error("equipment key should close the panel")
	}
}

func TestPauseStopsTimers(t *testing.T) {
	g := newGame(t, testConfig())
	mineCopper(t, g)

	press(g, core.ActionPause)
	if !g.State().Paused {
		t.Fatal("should be paused")
	}
	idle(g, 100)
	if !g.current.objects[firstObjectID].Depleted {
		t.Error("respawn timers should not run while paused")
	}
	press(g, core.ActionPause)
	if g.State().Paused {
		t.Error("second pause should resume")
	}
}

func TestSaveRestore(t *testing.T) {
	g := newGame(t, testConfig())
	mineCopper(t, g)
	press(g, core.ActionRight)
	idle(g, 5)

	save := g.Save()
	if save.Version != SaveVersion || save.Map != "grove" || len(save.Depleted) != 1 {
		t.Fatalf("save = %+v", save)
	}

	g2, _ := New(Options{Config: testConfig(), Maps: testMaps(t)})
	if err := g2.Restore(save, runtimeCfg); err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	if g2.player.Pos != g.player.Pos || g2.player.Inventory.Count("copper_ore") != 1 {
		t.Errorf("player = %v with %d ore", g2.player.Pos, g2.player.Inventory.Count("copper_ore"))
	}
	if g2.Ticks() != g.Ticks() {
		t.Errorf("ticks = %d, expected %d", g2.Ticks(), g.Ticks())
	}
	pending := g2.areas["grove"].timers.Pending()
	if len(pending) != 1 || pending[0].RemainingMs != save.Depleted[0].RemainingMs {
		t.Errorf("pending = %+v", pending)
	}
	if g2.current.m.IsBlocked(core.Pt(1, 2)) {
		t.Error("depleted rock should stay off the map after restore")
	}
	if err := g2.current.m.CheckIndex(); err != nil {
		t.Fatal(err)
	}
}

func TestRestoreRejectsBadSaves(t *testing.T) {
	g, _ := New(Options{Config: testConfig(), Maps: testMaps(t)})

	if err := g.Restore(SaveGame{Version: 99, Map: "grove"}, runtimeCfg); !errors.Is(err, ErrSaveVersion) {
		t.Errorf("version 99 = %v", err)
	}
	if err := g.Restore(SaveGame{Version: SaveVersion, Map: "atlantis"}, runtimeCfg); !errors.Is(err, ErrUnknownMap) {
		t.Errorf("unknown map = %v", err)
	}
}

func TestRender(t *testing.T) {
	g := newGame(t, testConfig())
	screen := core.NewScreen(80, 24)
	g.Render(screen)

	out := screen.String()
	for _, want := range []string{"Test Grove", "Skills", "Toolbelt", "Welcome"} {
		if !strings.Contains(out, want) {
			t.Errorf("render missing %q", want)
		}
	}
	if !strings.ContainsRune(out, playerRune) {
		t.Error("render should draw the player")
	}

	small := core.NewScreen(30, 10)
	g.Render(small)
	if !strings.Contains(small.String(), "Window too small") {
		t.Error("small screen should show the too-small message")
	}
}

func TestTooSmallPausesSimulation(t *testing.T) {
	g := newGame(t, testConfig())
	g.Resize(20, 10)
	press(g, core.ActionRight)
	if g.player.Pos != core.Pt(1, 1) || !g.State().TooSmall {
		t.Error("a too-small window should hold the simulation")
	}
	g.Resize(80, 24)
	press(g, core.ActionRight)
	if g.player.Pos != core.Pt(2, 1) {
		t.Error("simulation should resume after resize")
	}
}

func TestMessageLogBounded(t *testing.T) {
	l := NewMessageLog(3)
	for _, m := range []string{"a", "b", "", "c", "d"} {
		l.Add(m)
	}
	got := l.Lines()
	if len(got) != 3 || got[0] != "b" || got[2] != "d" {
		t.Errorf("Lines() = %v", got)
	}
}
