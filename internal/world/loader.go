package world

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

//go:embed maps/*.yaml
var builtinFS embed.FS

// DefaultMap is the map new characters start on.
const DefaultMap = "meadow"

// Loader reads map files from a directory tree. An empty Root means the
// built-in maps.
type Loader struct {
	Root string
}

// NewLoader creates a loader for root.
func NewLoader(root string) *Loader {
	return &Loader{Root: root}
}

// LoadAll loads every map file under Root, sorted by ID. Files that fail to
// parse are skipped; use LoadFile to see why.
func (l *Loader) LoadAll() ([]MapFile, error) {
	var fsys fs.FS
	if l.Root == "" {
		sub, err := fs.Sub(builtinFS, "maps")
		if err != nil {
			return nil, err
		}
		fsys = sub
	} else {
		fsys = os.DirFS(l.Root)
	}

	var maps []MapFile
	err := fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !IsMapFile(path) {
			return nil
		}
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return nil
		}
		f, err := ParseYAML(data)
		if err != nil {
			return nil
		}
		if l.Root != "" {
			f.FilePath = filepath.Join(l.Root, filepath.FromSlash(path))
		}
		maps = append(maps, f)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking directory %s: %w", l.Root, err)
	}

	sort.Slice(maps, func(i, j int) bool {
		return maps[i].ID < maps[j].ID
	})
	return maps, nil
}

// LoadFile loads a single map file from disk.
func (l *Loader) LoadFile(path string) (MapFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return MapFile{}, fmt.Errorf("reading file %s: %w", path, err)
	}
	f, err := ParseYAML(data)
	if err != nil {
		return MapFile{}, fmt.Errorf("parsing file %s: %w", path, err)
	}
	f.FilePath = path
	return f, nil
}

// LoadByID finds a map by ID.
func (l *Loader) LoadByID(id string) (MapFile, error) {
	maps, err := l.LoadAll()
	if err != nil {
		return MapFile{}, err
	}
	for _, m := range maps {
		if m.ID == id {
			return m, nil
		}
	}
	return MapFile{}, fmt.Errorf("map not found: %s", id)
}

// LoadIndex loads every map keyed by ID.
func (l *Loader) LoadIndex() (map[string]MapFile, error) {
	maps, err := l.LoadAll()
	if err != nil {
		return nil, err
	}
	index := make(map[string]MapFile, len(maps))
	for _, m := range maps {
		index[m.ID] = m
	}
	return index, nil
}

// IsMapFile reports whether a path has a map file extension.
func IsMapFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}
