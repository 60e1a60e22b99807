package world

import (
	"errors"
	"fmt"
	"sort"

	"github.com/kamstrup/intmap"

	"github.com/vovakirdan/tilequest/internal/core"
)

// OccupantID identifies something that occupies a tile: a resource object or
// a walker. Zero is never a valid ID.
type OccupantID uint32

var (
	ErrMalformedGrid = errors.New("world: malformed grid")
	ErrUnknownGlyph  = errors.New("world: unknown tile glyph")
	ErrOutOfBounds   = errors.New("world: position out of bounds")
	ErrOccupied      = errors.New("world: tile occupied")
	ErrAlreadyPlaced = errors.New("world: occupant already placed")
	ErrNotPlaced     = errors.New("world: occupant not placed")
	ErrImpassable    = errors.New("world: tile impassable")
	ErrInvalidID     = errors.New("world: invalid occupant id")
)

// Map is a rectangular grid of tiles plus an occupancy index. Every occupant
// holds exactly one tile and every tile holds at most one occupant.
type Map struct {
	ID     string
	Name   string
	Width  int
	Height int
	Spawn  core.Point

	tiles []Tile

	// occupants maps tile index to occupant, positions is the reverse.
	occupants *intmap.Map[int, OccupantID]
	positions map[OccupantID]core.Point
}

// NewMap builds a map from glyph rows. Rows must be non-empty, all the same
// width, and use only known tile glyphs.
func NewMap(id, name string, rows []string) (*Map, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("map %s: no rows: %w", id, ErrMalformedGrid)
	}

	width := len([]rune(rows[0]))
	if width == 0 {
		return nil, fmt.Errorf("map %s: empty first row: %w", id, ErrMalformedGrid)
	}

	m := &Map{
		ID:        id,
		Name:      name,
		Width:     width,
		Height:    len(rows),
		tiles:     make([]Tile, 0, width*len(rows)),
		occupants: intmap.New[int, OccupantID](64),
		positions: make(map[OccupantID]core.Point),
	}

	for y, row := range rows {
		runes := []rune(row)
		if len(runes) != width {
			return nil, fmt.Errorf("map %s: row %d has width %d, expected %d: %w", id, y, len(runes), width, ErrMalformedGrid)
		}
		for x, r := range runes {
			kind, ok := KindForGlyph(r)
			if !ok {
				return nil, fmt.Errorf("map %s: %q at row %d col %d: %w", id, r, y, x, ErrUnknownGlyph)
			}
			m.tiles = append(m.tiles, Tile{Kind: kind, Passable: kind.Passable()})
		}
	}

	return m, nil
}

func (m *Map) index(p core.Point) int {
	return p.Y*m.Width + p.X
}

// InBounds reports whether p lies on the map.
func (m *Map) InBounds(p core.Point) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < m.Width && p.Y < m.Height
}

// TileAt returns the tile at p. Out-of-bounds points read as wall.
func (m *Map) TileAt(p core.Point) Tile {
	if !m.InBounds(p) {
		return Tile{Kind: TileWall}
	}
	return m.tiles[m.index(p)]
}

// IsPassable reports whether p is on the map and its terrain can be walked.
func (m *Map) IsPassable(p core.Point) bool {
	return m.InBounds(p) && m.tiles[m.index(p)].Passable
}

// IsBlocked reports whether a walker cannot enter p, either because of the
// terrain or because something stands there.
func (m *Map) IsBlocked(p core.Point) bool {
	if !m.IsPassable(p) {
		return true
	}
	_, occupied := m.occupants.Get(m.index(p))
	return occupied
}

// Place puts an occupant on a free tile. Terrain is not checked.
func (m *Map) Place(id OccupantID, p core.Point) error {
	if id == 0 {
		return ErrInvalidID
	}
	if !m.InBounds(p) {
		return fmt.Errorf("place %d at %v: %w", id, p, ErrOutOfBounds)
	}
	if _, ok := m.positions[id]; ok {
		return fmt.Errorf("place %d: %w", id, ErrAlreadyPlaced)
	}
	idx := m.index(p)
	if other, ok := m.occupants.Get(idx); ok {
		return fmt.Errorf("place %d at %v held by %d: %w", id, p, other, ErrOccupied)
	}
	m.occupants.Put(idx, id)
	m.positions[id] = p
	return nil
}

// Remove frees the tile held by an occupant.
func (m *Map) Remove(id OccupantID) error {
	p, ok := m.positions[id]
	if !ok {
		return fmt.Errorf("remove %d: %w", id, ErrNotPlaced)
	}
	m.occupants.Del(m.index(p))
	delete(m.positions, id)
	return nil
}

// Move relocates a placed occupant to a free, passable tile. On error the
// occupant stays where it was.
func (m *Map) Move(id OccupantID, to core.Point) error {
	from, ok := m.positions[id]
	if !ok {
		return fmt.Errorf("move %d: %w", id, ErrNotPlaced)
	}
	if !m.InBounds(to) {
		return fmt.Errorf("move %d to %v: %w", id, to, ErrOutOfBounds)
	}
	if !m.tiles[m.index(to)].Passable {
		return fmt.Errorf("move %d to %v: %w", id, to, ErrImpassable)
	}
	if from == to {
		return nil
	}
	idx := m.index(to)
	if other, ok := m.occupants.Get(idx); ok {
		return fmt.Errorf("move %d to %v held by %d: %w", id, to, other, ErrOccupied)
	}
	m.occupants.Del(m.index(from))
	m.occupants.Put(idx, id)
	m.positions[id] = to
	return nil
}

// OccupantAt returns the occupant standing on p.
func (m *Map) OccupantAt(p core.Point) (OccupantID, bool) {
	if !m.InBounds(p) {
		return 0, false
	}
	return m.occupants.Get(m.index(p))
}

// PositionOf returns where an occupant stands.
func (m *Map) PositionOf(id OccupantID) (core.Point, bool) {
	p, ok := m.positions[id]
	return p, ok
}

// Occupants returns every placed occupant, sorted by ID.
func (m *Map) Occupants() []OccupantID {
	ids := make([]OccupantID, 0, len(m.positions))
	for id := range m.positions {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// OccupantCount returns the number of placed occupants.
func (m *Map) OccupantCount() int {
	return len(m.positions)
}

// CheckIndex verifies that the tile index and the position index describe
// the same placement.
func (m *Map) CheckIndex() error {
	if m.occupants.Len() != len(m.positions) {
		return fmt.Errorf("world: index size mismatch: %d tiles, %d positions", m.occupants.Len(), len(m.positions))
	}
	for id, p := range m.positions {
		if !m.InBounds(p) {
			return fmt.Errorf("world: occupant %d out of bounds at %v", id, p)
		}
		got, ok := m.occupants.Get(m.index(p))
		if !ok || got != id {
			return fmt.Errorf("world: occupant %d at %v but tile holds %d", id, p, got)
		}
	}
	return nil
}
