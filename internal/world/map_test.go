package world

import (
	"errors"
	"testing"

	"github.com/vovakirdan/tilequest/internal/core"
)

func testMap(t *testing.T) *Map {
	t.Helper()
	m, err := NewMap("test", "Test", []string{
		"#####",
		"#..~#",
		"#.:_#",
		"#####",
	})
	if err != nil {
		t.Fatalf("NewMap failed: %v", err)
	}
	return m
}

func TestNewMapErrors(t *testing.T) {
	tests := []struct {
		name string
		rows []string
		want error
	}{
		{"no rows", nil, ErrMalformedGrid},
		{"empty row", []string{""}, ErrMalformedGrid},
		{"ragged", []string{"...", ".."}, ErrMalformedGrid},
		{"unknown glyph", []string{"..", ".Q"}, ErrUnknownGlyph},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewMap("bad", "Bad", tt.rows)
			if !errors.Is(err, tt.want) {
				t.Errorf("NewMap() error = %v, expected %v", err, tt.want)
			}
		})
	}
}

func TestMapTerrain(t *testing.T) {
	m := testMap(t)

	if m.Width != 5 || m.Height != 4 {
		t.Fatalf("size = %dx%d, expected 5x4", m.Width, m.Height)
	}

	tests := []struct {
		p        core.Point
		kind     TileKind
		passable bool
	}{
		{core.Pt(0, 0), TileWall, false},
		{core.Pt(1, 1), TileGrass, true},
		{core.Pt(3, 1), TileWater, false},
		{core.Pt(2, 2), TilePath, true},
		{core.Pt(3, 2), TileSand, true},
		{core.Pt(-1, 2), TileWall, false},
		{core.Pt(5, 0), TileWall, false},
	}
	for _, tt := range tests {
		tile := m.TileAt(tt.p)
		if tile.Kind != tt.kind {
			t.Errorf("TileAt(%v) = %v, expected %v", tt.p, tile.Kind, tt.kind)
		}
		if m.IsPassable(tt.p) != tt.passable {
			t.Errorf("IsPassable(%v) = %v, expected %v", tt.p, !tt.passable, tt.passable)
		}
	}
}

func TestPlaceAndRemove(t *testing.T) {
	m := testMap(t)
	p := core.Pt(1, 1)

	if err := m.Place(1, p); err != nil {
		t.Fatalf("Place failed: %v", err)
	}
	if !m.IsBlocked(p) {
		t.Error("occupied tile should be blocked")
	}
	if id, ok := m.OccupantAt(p); !ok || id != 1 {
		t.Errorf("OccupantAt = %d, %v", id, ok)
	}

	if err := m.Place(2, p); !errors.Is(err, ErrOccupied) {
		t.Errorf("Place on occupied = %v, expected ErrOccupied", err)
	}
	if err := m.Place(1, core.Pt(2, 1)); !errors.Is(err, ErrAlreadyPlaced) {
		t.Errorf("Place twice = %v, expected ErrAlreadyPlaced", err)
	}
	if err := m.Place(3, core.Pt(9, 9)); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("Place out of bounds = %v, expected ErrOutOfBounds", err)
	}
	if err := m.Place(0, core.Pt(2, 1)); !errors.Is(err, ErrInvalidID) {
		t.Errorf("Place(0) = %v, expected ErrInvalidID", err)
	}

	// Water accepts objects; terrain rules live in Validate.
	if err := m.Place(4, core.Pt(3, 1)); err != nil {
		t.Errorf("Place on water failed: %v", err)
	}

	if err := m.CheckIndex(); err != nil {
		t.Fatal(err)
	}

	if err := m.Remove(1); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if m.IsBlocked(p) {
		t.Error("tile should be free after Remove")
	}
	if err := m.Remove(1); !errors.Is(err, ErrNotPlaced) {
		t.Errorf("Remove twice = %v, expected ErrNotPlaced", err)
	}
	if err := m.CheckIndex(); err != nil {
		t.Fatal(err)
	}
}

func TestMove(t *testing.T) {
	m := testMap(t)
	m.Place(1, core.Pt(1, 1))
	m.Place(2, core.Pt(2, 1))

	tests := []struct {
		name string
		to   core.Point
		want error
	}{
		{"occupied", core.Pt(2, 1), ErrOccupied},
		{"wall", core.Pt(0, 1), ErrImpassable},
		{"water", core.Pt(3, 1), ErrImpassable},
		{"outside", core.Pt(-1, 1), ErrOutOfBounds},
		{"free", core.Pt(1, 2), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before, _ := m.PositionOf(1)
			err := m.Move(1, tt.to)
			if !errors.Is(err, tt.want) {
				t.Fatalf("Move(%v) = %v, expected %v", tt.to, err, tt.want)
			}
			after, _ := m.PositionOf(1)
			if tt.want != nil && after != before {
				t.Errorf("failed move changed position %v -> %v", before, after)
			}
			if err := m.CheckIndex(); err != nil {
				t.Fatal(err)
			}
		})
	}

	if _, ok := m.OccupantAt(core.Pt(1, 1)); ok {
		t.Error("old tile should be free after move")
	}
	if err := m.Move(9, core.Pt(1, 1)); !errors.Is(err, ErrNotPlaced) {
		t.Errorf("Move unplaced = %v, expected ErrNotPlaced", err)
	}
}

func TestOccupantsSorted(t *testing.T) {
	m := testMap(t)
	m.Place(7, core.Pt(1, 1))
	m.Place(3, core.Pt(2, 1))
	m.Place(5, core.Pt(1, 2))

	got := m.Occupants()
	want := []OccupantID{3, 5, 7}
	if len(got) != len(want) {
		t.Fatalf("Occupants() = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Occupants()[%d] = %d, expected %d", i, got[i], want[i])
		}
	}
}

func TestIndexStaysConsistent(t *testing.T) {
	m := testMap(t)
	free := []core.Point{core.Pt(1, 1), core.Pt(2, 1), core.Pt(1, 2), core.Pt(2, 2), core.Pt(3, 2)}

	// Shuffle two walkers and an object around the free tiles.
	m.Place(100, free[4])
	m.Place(1, free[0])
	m.Place(2, free[1])
	for i := 0; i < 40; i++ {
		id := OccupantID(1 + i%2)
		m.Move(id, free[(i*3)%len(free)])
		if i%7 == 0 {
			m.Remove(100)
			m.Place(100, free[i%len(free)])
		}
		if err := m.CheckIndex(); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}
}
