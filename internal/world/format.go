package world

import (
	"errors"
	"fmt"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/tilequest/internal/content"
	"github.com/vovakirdan/tilequest/internal/core"
)

// XY is a map file coordinate.
type XY struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

// Point converts to a core.Point.
func (c XY) Point() core.Point {
	return core.Pt(c.X, c.Y)
}

// ObjectPlacement puts a resource object on the map.
type ObjectPlacement struct {
	Kind string `yaml:"kind"`
	X    int    `yaml:"x"`
	Y    int    `yaml:"y"`
}

// Pos returns the placement's tile.
func (o ObjectPlacement) Pos() core.Point {
	return core.Pt(o.X, o.Y)
}

// Portal moves the player to another map when stepped on.
type Portal struct {
	X   int    `yaml:"x"`
	Y   int    `yaml:"y"`
	To  string `yaml:"to"`
	ToX int    `yaml:"to_x"`
	ToY int    `yaml:"to_y"`
}

// Pos returns the tile that triggers the portal.
func (p Portal) Pos() core.Point {
	return core.Pt(p.X, p.Y)
}

// Target returns the arrival tile on the destination map.
func (p Portal) Target() core.Point {
	return core.Pt(p.ToX, p.ToY)
}

// MapFile is the YAML representation of a map.
type MapFile struct {
	ID      string            `yaml:"id"`
	Name    string            `yaml:"name"`
	Spawn   XY                `yaml:"spawn"`
	Rows    []string          `yaml:"rows"`
	Objects []ObjectPlacement `yaml:"objects"`
	Portals []Portal          `yaml:"portals"`

	// FilePath is set by the loader, empty for built-in maps.
	FilePath string `yaml:"-"`
}

// ParseYAML decodes a map file.
func ParseYAML(data []byte) (MapFile, error) {
	var f MapFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return MapFile{}, fmt.Errorf("yaml unmarshal: %w", err)
	}
	if f.ID == "" {
		return MapFile{}, errors.New("missing required field: id")
	}
	if len(f.Rows) == 0 {
		return MapFile{}, errors.New("missing required field: rows")
	}
	if f.Name == "" {
		f.Name = f.ID
	}
	return f, nil
}

// Build creates the tile map. Objects are placed by the caller, which owns
// their IDs.
func (f MapFile) Build() (*Map, error) {
	m, err := NewMap(f.ID, f.Name, f.Rows)
	if err != nil {
		return nil, err
	}
	m.Spawn = f.Spawn.Point()
	return m, nil
}

// PortalAt returns the portal on p, if any.
func (f MapFile) PortalAt(p core.Point) (Portal, bool) {
	for _, portal := range f.Portals {
		if portal.Pos() == p {
			return portal, true
		}
	}
	return Portal{}, false
}

// Validate reports every problem with a map file. Portal destinations are
// only checked for bounds when the destination map is among known.
func Validate(f MapFile, catalog *content.Catalog, known map[string]MapFile) []error {
	m, err := f.Build()
	if err != nil {
		return []error{err}
	}

	var errs []error
	spawn := f.Spawn.Point()
	if !m.IsPassable(spawn) {
		errs = append(errs, fmt.Errorf("spawn %v is not on a passable tile", spawn))
	}

	seen := make(map[core.Point]string, len(f.Objects))
	for i, obj := range f.Objects {
		p := obj.Pos()
		def, ok := catalog.Object(obj.Kind)
		if !ok {
			errs = append(errs, fmt.Errorf("object %d: %q: %w", i, obj.Kind, content.ErrUnknownObject))
			continue
		}
		if !m.InBounds(p) {
			errs = append(errs, fmt.Errorf("object %d (%s) at %v: %w", i, obj.Kind, p, ErrOutOfBounds))
			continue
		}
		if prev, dup := seen[p]; dup {
			errs = append(errs, fmt.Errorf("object %d (%s) at %v shares the tile with %s", i, obj.Kind, p, prev))
		}
		seen[p] = obj.Kind

		tile := m.TileAt(p)
		if len(def.Terrain) > 0 {
			if !slices.Contains(def.Terrain, tile.Kind.String()) {
				errs = append(errs, fmt.Errorf("object %d (%s) at %v on %s, needs one of %v", i, obj.Kind, p, tile.Kind, def.Terrain))
			}
		} else if !tile.Passable {
			errs = append(errs, fmt.Errorf("object %d (%s) at %v on impassable %s", i, obj.Kind, p, tile.Kind))
		}
		if p == spawn {
			errs = append(errs, fmt.Errorf("object %d (%s) blocks the spawn", i, obj.Kind))
		}
	}

	for i, portal := range f.Portals {
		p := portal.Pos()
		if !m.InBounds(p) {
			errs = append(errs, fmt.Errorf("portal %d at %v: %w", i, p, ErrOutOfBounds))
			continue
		}
		if !m.IsPassable(p) {
			errs = append(errs, fmt.Errorf("portal %d at %v on impassable %s", i, p, m.TileAt(p).Kind))
		}
		if kind, ok := seen[p]; ok {
			errs = append(errs, fmt.Errorf("portal %d at %v sits under %s", i, p, kind))
		}
		if portal.To == "" {
			errs = append(errs, fmt.Errorf("portal %d at %v has no destination", i, p))
			continue
		}
		if known == nil {
			continue
		}
		dest, ok := known[portal.To]
		if !ok {
			errs = append(errs, fmt.Errorf("portal %d at %v leads to unknown map %q", i, p, portal.To))
			continue
		}
		dm, err := dest.Build()
		if err != nil {
			continue
		}
		if !dm.IsPassable(portal.Target()) {
			errs = append(errs, fmt.Errorf("portal %d at %v arrives on blocked tile %v of %s", i, p, portal.Target(), portal.To))
		}
	}

	return errs
}
