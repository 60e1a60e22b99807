package quest

import (
	"errors"
	"fmt"
	"sort"

	"github.com/vovakirdan/tilequest/internal/core"
	"github.com/vovakirdan/tilequest/internal/entity"
	"github.com/vovakirdan/tilequest/internal/world"
)

// SaveVersion is the current save format version.
const SaveVersion = 1

var (
	ErrSaveVersion = errors.New("quest: unsupported save version")
	ErrUnknownMap  = errors.New("quest: save refers to an unknown map")
)

// SaveGame is the persisted game state.
type SaveGame struct {
	Version  int              `json:"version"`
	Map      string           `json:"map"`
	Ticks    uint64           `json:"ticks"`
	Player   entity.Save      `json:"player"`
	Depleted []DepletedObject `json:"depleted,omitempty"`
}

// DepletedObject is an object waiting to respawn when the game was saved.
type DepletedObject struct {
	Map         string `json:"map"`
	Object      uint32 `json:"object"`
	RemainingMs int    `json:"remaining_ms"`
}

// Save captures the current state.
func (g *Game) Save() SaveGame {
	s := SaveGame{
		Version: SaveVersion,
		Map:     g.MapID(),
		Ticks:   g.tick,
	}
	if g.player != nil {
		s.Player = g.player.Snapshot()
	}

	ids := make([]string, 0, len(g.areas))
	for id := range g.areas {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		for _, r := range g.areas[id].timers.Pending() {
			s.Depleted = append(s.Depleted, DepletedObject{
				Map:         id,
				Object:      uint32(r.ObjectID),
				RemainingMs: r.RemainingMs,
			})
		}
	}
	return s
}

// Restore replaces the game state with a save. Problems with individual
// entries, such as an object that no longer exists on its map, are skipped
// and reported together after the rest of the save is applied.
func (g *Game) Restore(s SaveGame, cfg core.RuntimeConfig) error {
	if s.Version != SaveVersion {
		return fmt.Errorf("%w: %d", ErrSaveVersion, s.Version)
	}
	if _, ok := g.maps[s.Map]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownMap, s.Map)
	}

	g.resetRuntime(cfg)
	if err := g.buildAreas(); err != nil {
		return err
	}

	player, err := entity.New(g.catalog, core.Point{}, entity.Options{
		InventorySlots: g.cfg.Player.InventorySlots,
		MaxStack:       g.cfg.Player.MaxStack,
		Tools:          []string{},
	})
	if err != nil {
		return err
	}
	var errs []error
	if err := player.Restore(s.Player); err != nil {
		errs = append(errs, err)
	}
	g.player = player
	g.tick = s.Ticks

	for _, d := range s.Depleted {
		a, ok := g.areas[d.Map]
		if !ok {
			errs = append(errs, fmt.Errorf("%w: %q", ErrUnknownMap, d.Map))
			continue
		}
		obj, ok := a.objects[world.OccupantID(d.Object)]
		if !ok {
			errs = append(errs, fmt.Errorf("quest: map %s has no object %d", d.Map, d.Object))
			continue
		}
		a.deplete(obj, d.RemainingMs)
	}

	g.enter(g.areas[s.Map], player.Pos)
	g.log.Add(fmt.Sprintf("Welcome back to %s.", g.current.file.Name))
	return errors.Join(errs...)
}
