package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// sqlStore implements Store over database/sql. Queries are written with ?
// placeholders and rebound for drivers that number them.
type sqlStore struct {
	db       *sql.DB
	numbered bool
}

func (s *sqlStore) q(query string) string {
	if !s.numbered {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Close closes the database connection.
func (s *sqlStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveGame upserts a save by slot.
func (s *sqlStore) SaveGame(rec SaveRecord) (string, error) {
	if err := validateSave(rec); err != nil {
		return "", err
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	now := time.Now()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = now
	}

	_, err := s.db.Exec(s.q(
		`INSERT INTO saves (id, slot, player, map, total_level, ticks, data, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (slot) DO UPDATE SET
			player = excluded.player,
			map = excluded.map,
			total_level = excluded.total_level,
			ticks = excluded.ticks,
			data = excluded.data,
			updated_at = excluded.updated_at`),
		rec.ID, rec.Slot, rec.Player, rec.Map, rec.TotalLevel, int64(rec.Ticks),
		string(rec.Data), rec.CreatedAt.UnixMilli(), rec.UpdatedAt.UnixMilli(),
	)
	if err != nil {
		return "", fmt.Errorf("storage: cannot save slot %q: %w", rec.Slot, err)
	}

	var id string
	if err := s.db.QueryRow(s.q("SELECT id FROM saves WHERE slot = ?"), rec.Slot).Scan(&id); err != nil {
		return "", fmt.Errorf("storage: cannot read back slot %q: %w", rec.Slot, err)
	}
	return id, nil
}

const saveColumns = "id, slot, player, map, total_level, ticks, data, created_at, updated_at"

type scanner interface {
	Scan(dest ...any) error
}

func scanSave(row scanner) (SaveRecord, error) {
	var (
		rec              SaveRecord
		ticks            int64
		data             []byte
		created, updated int64
	)
	if err := row.Scan(&rec.ID, &rec.Slot, &rec.Player, &rec.Map, &rec.TotalLevel, &ticks, &data, &created, &updated); err != nil {
		return SaveRecord{}, err
	}
	rec.Ticks = uint64(ticks)
	rec.Data = data
	rec.CreatedAt = time.UnixMilli(created)
	rec.UpdatedAt = time.UnixMilli(updated)
	return rec, nil
}

// LoadGame reads one slot.
func (s *sqlStore) LoadGame(slot string) (SaveRecord, error) {
	rec, err := scanSave(s.db.QueryRow(s.q("SELECT "+saveColumns+" FROM saves WHERE slot = ?"), slot))
	if errors.Is(err, sql.ErrNoRows) {
		return SaveRecord{}, fmt.Errorf("%w: %q", ErrNotFound, slot)
	}
	if err != nil {
		return SaveRecord{}, fmt.Errorf("storage: cannot load slot %q: %w", slot, err)
	}
	return rec, nil
}

// ListSaves returns all saves, most recent first.
func (s *sqlStore) ListSaves() ([]SaveRecord, error) {
	rows, err := s.db.Query("SELECT " + saveColumns + " FROM saves ORDER BY updated_at DESC, slot")
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query saves: %w", err)
	}
	defer rows.Close()

	var saves []SaveRecord
	for rows.Next() {
		rec, err := scanSave(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		saves = append(saves, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return saves, nil
}

// DeleteSave removes a slot and its gather log.
func (s *sqlStore) DeleteSave(slot string) error {
	res, err := s.db.Exec(s.q("DELETE FROM saves WHERE slot = ?"), slot)
	if err != nil {
		return fmt.Errorf("storage: cannot delete slot %q: %w", slot, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %q", ErrNotFound, slot)
	}
	if _, err := s.db.Exec(s.q("DELETE FROM gather_log WHERE slot = ?"), slot); err != nil {
		return fmt.Errorf("storage: cannot clear gather log for %q: %w", slot, err)
	}
	return nil
}

// RecordGather appends to the gather log.
func (s *sqlStore) RecordGather(rec GatherRecord) error {
	if rec.At.IsZero() {
		rec.At = time.Now()
	}
	_, err := s.db.Exec(s.q(
		"INSERT INTO gather_log (slot, skill, item, xp, gathered_at) VALUES (?, ?, ?, ?, ?)"),
		rec.Slot, rec.Skill, rec.Item, rec.XP, rec.At.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("storage: cannot record gather: %w", err)
	}
	return nil
}

// GatherTotals sums the gather log of a slot per item.
func (s *sqlStore) GatherTotals(slot string) ([]GatherTotal, error) {
	rows, err := s.db.Query(s.q(
		`SELECT skill, item, COUNT(*), COALESCE(SUM(xp), 0)
		 FROM gather_log
		 WHERE slot = ?
		 GROUP BY skill, item
		 ORDER BY skill, item`),
		slot,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query gather log: %w", err)
	}
	defer rows.Close()

	var totals []GatherTotal
	for rows.Next() {
		var t GatherTotal
		if err := rows.Scan(&t.Skill, &t.Item, &t.Count, &t.XP); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		totals = append(totals, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return totals, nil
}
