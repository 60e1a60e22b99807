// Package world holds the tile map, the occupancy index for objects and
// walkers, respawn timers, and the YAML map format.
package world

import "github.com/vovakirdan/tilequest/internal/core"

// TileKind is a terrain type.
type TileKind uint8

const (
	TileGrass TileKind = iota
	TilePath
	TileSand
	TileWater
	TileWall
	TileFloor
	TileBridge
)

// Tile is one map cell's terrain.
type Tile struct {
	Kind     TileKind
	Passable bool
}

type tileInfo struct {
	name     string
	glyph    rune
	draw     rune
	color    core.Color
	passable bool
}

var tileTable = [...]tileInfo{
	TileGrass:  {"grass", '.', '.', core.ColorGreen, true},
	TilePath:   {"path", ':', '·', core.ColorBrown, true},
	TileSand:   {"sand", '_', '░', core.ColorYellow, true},
	TileWater:  {"water", '~', '~', core.ColorBlue, false},
	TileWall:   {"wall", '#', '█', core.ColorGray, false},
	TileFloor:  {"floor", '+', '▒', core.ColorBrown, true},
	TileBridge: {"bridge", 'H', '=', core.ColorBrown, true},
}

var glyphKinds = func() map[rune]TileKind {
	m := make(map[rune]TileKind, len(tileTable))
	for k, info := range tileTable {
		m[info.glyph] = TileKind(k)
	}
	return m
}()

// String returns the tile kind's name as used in object terrain lists.
func (k TileKind) String() string {
	if int(k) < len(tileTable) {
		return tileTable[k].name
	}
	return "unknown"
}

// Glyph returns the rune used for this kind in map files.
func (k TileKind) Glyph() rune {
	return tileTable[k].glyph
}

// DrawRune returns the rune drawn on screen for this kind.
func (k TileKind) DrawRune() rune {
	return tileTable[k].draw
}

// Color returns the draw color for this kind.
func (k TileKind) Color() core.Color {
	return tileTable[k].color
}

// Passable reports whether walkers may enter tiles of this kind.
func (k TileKind) Passable() bool {
	return tileTable[k].passable
}

// KindForGlyph maps a map file glyph to a tile kind.
func KindForGlyph(r rune) (TileKind, bool) {
	k, ok := glyphKinds[r]
	return k, ok
}
