// Package storage persists save slots and the gathering log.
// SQLite is the default backend; a postgres:// DSN selects PostgreSQL.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DefaultPath is the SQLite database used when no DSN is given.
const DefaultPath = "~/.tilequest/saves.db"

// ErrNotFound is returned when a slot has no save.
var ErrNotFound = errors.New("storage: save not found")

// Store is a save backend.
type Store interface {
	// SaveGame writes a save to its slot and returns the save ID. Saving over
	// an existing slot keeps the slot's original ID and creation time.
	SaveGame(rec SaveRecord) (string, error)
	LoadGame(slot string) (SaveRecord, error)
	// ListSaves returns every save, most recently updated first.
	ListSaves() ([]SaveRecord, error)
	DeleteSave(slot string) error

	RecordGather(rec GatherRecord) error
	GatherTotals(slot string) ([]GatherTotal, error)

	Close() error
}

// SaveRecord is one save slot.
type SaveRecord struct {
	ID         string          `json:"id"`
	Slot       string          `json:"slot"`
	Player     string          `json:"player"`
	Map        string          `json:"map"`
	TotalLevel int             `json:"total_level"`
	Ticks      uint64          `json:"ticks"`
	Data       json.RawMessage `json:"data"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// GatherRecord is one successful gather attempt.
type GatherRecord struct {
	Slot  string
	Skill string
	Item  string
	XP    int
	At    time.Time
}

// GatherTotal aggregates the gather log for one item.
type GatherTotal struct {
	Skill string
	Item  string
	Count int
	XP    int
}

// Open connects to the backend named by dsn. DSNs starting with postgres://
// or postgresql:// use PostgreSQL. Anything else is a SQLite file path, and
// an empty DSN means DefaultPath.
func Open(dsn string) (Store, error) {
	if IsPostgresDSN(dsn) {
		store, err := OpenPostgres(dsn)
		if err != nil {
			return nil, err
		}
		return store, nil
	}
	if dsn == "" {
		dsn = DefaultPath
	}
	store, err := OpenSQLite(dsn)
	if err != nil {
		return nil, err
	}
	return store, nil
}

// IsPostgresDSN reports whether dsn selects the PostgreSQL backend.
func IsPostgresDSN(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) (string, error) {
	if path == "" || path[0] != '~' {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("storage: cannot expand home directory: %w", err)
	}
	return filepath.Join(home, path[1:]), nil
}

func validateSave(rec SaveRecord) error {
	if strings.TrimSpace(rec.Slot) == "" {
		return errors.New("storage: save has no slot")
	}
	if len(rec.Data) == 0 || !json.Valid(rec.Data) {
		return fmt.Errorf("storage: save %q has no valid data", rec.Slot)
	}
	return nil
}
