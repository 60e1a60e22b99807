package quest

import (
	"fmt"

	"github.com/vovakirdan/tilequest/internal/content"
	"github.com/vovakirdan/tilequest/internal/core"
	"github.com/vovakirdan/tilequest/internal/gather"
	"github.com/vovakirdan/tilequest/internal/world"
)

// PlayerID is the player's occupant ID on every map.
const PlayerID world.OccupantID = 1

// firstObjectID is the ID given to a map's first object; later objects
// follow in map file order.
const firstObjectID world.OccupantID = 16

// object is a resource object placed on a map.
type object struct {
	ID       world.OccupantID
	Pos      core.Point
	Def      content.ObjectDef
	Depleted bool
}

func (o *object) target() gather.Target {
	return gather.Target{ID: o.ID, Pos: o.Pos, Def: o.Def, Depleted: o.Depleted}
}

// area is the live state of one map: terrain, occupancy and its objects.
type area struct {
	file    world.MapFile
	m       *world.Map
	objects map[world.OccupantID]*object
	order   []world.OccupantID
	timers  *world.SpawnTimers
}

func newArea(f world.MapFile, catalog *content.Catalog) (*area, error) {
	m, err := f.Build()
	if err != nil {
		return nil, fmt.Errorf("quest: map %s: %w", f.ID, err)
	}
	a := &area{
		file:    f,
		m:       m,
		objects: make(map[world.OccupantID]*object, len(f.Objects)),
		timers:  world.NewSpawnTimers(),
	}
	for i, placement := range f.Objects {
		def, ok := catalog.Object(placement.Kind)
		if !ok {
			return nil, fmt.Errorf("quest: map %s object %d: %q: %w", f.ID, i, placement.Kind, content.ErrUnknownObject)
		}
		id := firstObjectID + world.OccupantID(i)
		if err := m.Place(id, placement.Pos()); err != nil {
			return nil, fmt.Errorf("quest: map %s object %d: %w", f.ID, i, err)
		}
		a.objects[id] = &object{ID: id, Pos: placement.Pos(), Def: def}
		a.order = append(a.order, id)
	}
	return a, nil
}

// objectAt returns the object on p, standing or depleted.
func (a *area) objectAt(p core.Point) (*object, bool) {
	if id, ok := a.m.OccupantAt(p); ok {
		obj, ok := a.objects[id]
		return obj, ok
	}
	for _, id := range a.order {
		if obj := a.objects[id]; obj.Depleted && obj.Pos == p {
			return obj, true
		}
	}
	return nil, false
}

// deplete takes an object off the map and starts its respawn timer.
func (a *area) deplete(obj *object, respawnMs int) {
	if obj.Depleted {
		return
	}
	if err := a.m.Remove(obj.ID); err != nil {
		return
	}
	obj.Depleted = true
	a.timers.Schedule(world.Respawn{ObjectID: obj.ID, Pos: obj.Pos, RemainingMs: respawnMs})
}

// advance runs the respawn timers. Objects whose tile is taken wait another
// retryMs. It returns the objects that came back.
func (a *area) advance(elapsedMs, retryMs int) []*object {
	var back []*object
	for _, r := range a.timers.Update(elapsedMs) {
		obj, ok := a.objects[r.ObjectID]
		if !ok {
			continue
		}
		if err := a.m.Place(obj.ID, obj.Pos); err != nil {
			r.RemainingMs = retryMs
			a.timers.Schedule(r)
			continue
		}
		obj.Depleted = false
		back = append(back, obj)
	}
	return back
}
