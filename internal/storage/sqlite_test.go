package storage

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("OpenSQLite() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleSave(slot string) SaveRecord {
	return SaveRecord{
		Slot:       slot,
		Player:     "Adventurer",
		Map:        "meadow",
		TotalLevel: 3,
		Ticks:      1200,
		Data:       json.RawMessage(`{"version":1,"map":"meadow"}`),
	}
}

func TestStoreOpenClose(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "subdir", "deep", "test.db")

	store, err := OpenSQLite(dbPath)
	if err != nil {
		t.Fatalf("OpenSQLite() with nested path failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
	if store.Path() != dbPath {
		t.Errorf("Path() = %q, expected %q", store.Path(), dbPath)
	}
}

func TestOpenDispatch(t *testing.T) {
	tests := []struct {
		dsn      string
		postgres bool
	}{
		{"postgres://user@localhost/quest", true},
		{"postgresql://localhost/quest?sslmode=disable", true},
		{"~/.tilequest/saves.db", false},
		{"/tmp/saves.db", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsPostgresDSN(tt.dsn); got != tt.postgres {
			t.Errorf("IsPostgresDSN(%q) = %v, expected %v", tt.dsn, got, tt.postgres)
		}
	}

	store, err := Open(filepath.Join(t.TempDir(), "open.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()
	if _, ok := store.(*SQLiteStore); !ok {
		t.Errorf("Open() on a file path returned %T", store)
	}
}

func TestStoreSaveAndLoad(t *testing.T) {
	store := openTestStore(t)

	id, err := store.SaveGame(sampleSave("main"))
	if err != nil {
		t.Fatalf("SaveGame() failed: %v", err)
	}
	if id == "" {
		t.Fatal("SaveGame() should assign an ID")
	}

	rec, err := store.LoadGame("main")
	if err != nil {
		t.Fatalf("LoadGame() failed: %v", err)
	}
	if rec.ID != id || rec.Player != "Adventurer" || rec.Map != "meadow" || rec.Ticks != 1200 || rec.TotalLevel != 3 {
		t.Errorf("loaded %+v", rec)
	}
	if string(rec.Data) != `{"version":1,"map":"meadow"}` {
		t.Errorf("Data = %s", rec.Data)
	}
	if rec.CreatedAt.IsZero() || rec.UpdatedAt.IsZero() {
		t.Error("timestamps should be set")
	}
}

func TestStoreUpsertKeepsID(t *testing.T) {
	store := openTestStore(t)

	first, err := store.SaveGame(sampleSave("main"))
	if err != nil {
		t.Fatal(err)
	}
	created, _ := store.LoadGame("main")

	next := sampleSave("main")
	next.Map = "quarry"
	next.Ticks = 5000
	next.UpdatedAt = time.Now().Add(time.Minute)
	second, err := store.SaveGame(next)
	if err != nil {
		t.Fatal(err)
	}
	if second != first {
		t.Errorf("upsert changed ID from %s to %s", first, second)
	}

	rec, _ := store.LoadGame("main")
	if rec.Map != "quarry" || rec.Ticks != 5000 {
		t.Errorf("upsert did not update: %+v", rec)
	}
	if !rec.CreatedAt.Equal(created.CreatedAt) {
		t.Error("upsert should keep the creation time")
	}

	saves, _ := store.ListSaves()
	if len(saves) != 1 {
		t.Errorf("expected 1 save after upsert, got %d", len(saves))
	}
}

func TestStoreListOrder(t *testing.T) {
	store := openTestStore(t)
	base := time.Now()

	for i, slot := range []string{"old", "newest", "middle"} {
		rec := sampleSave(slot)
		rec.UpdatedAt = base.Add(time.Duration([]int{0, 2, 1}[i]) * time.Hour)
		if _, err := store.SaveGame(rec); err != nil {
			t.Fatal(err)
		}
	}

	saves, err := store.ListSaves()
	if err != nil {
		t.Fatalf("ListSaves() failed: %v", err)
	}
	want := []string{"newest", "middle", "old"}
	if len(saves) != len(want) {
		t.Fatalf("expected %d saves, got %d", len(want), len(saves))
	}
	for i, slot := range want {
		if saves[i].Slot != slot {
			t.Errorf("saves[%d] = %s, expected %s", i, saves[i].Slot, slot)
		}
	}
}

func TestStoreRejectsBadSaves(t *testing.T) {
	store := openTestStore(t)

	if _, err := store.SaveGame(SaveRecord{Data: json.RawMessage(`{}`)}); err == nil {
		t.Error("save without a slot should fail")
	}
	if _, err := store.SaveGame(SaveRecord{Slot: "x", Data: json.RawMessage(`{`)}); err == nil {
		t.Error("save with broken data should fail")
	}
}

func TestStoreNotFound(t *testing.T) {
	store := openTestStore(t)

	if _, err := store.LoadGame("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("LoadGame(missing) = %v, expected ErrNotFound", err)
	}
	if err := store.DeleteSave("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("DeleteSave(missing) = %v, expected ErrNotFound", err)
	}
}

func TestStoreGatherLog(t *testing.T) {
	store := openTestStore(t)
	store.SaveGame(sampleSave("main"))
	store.SaveGame(sampleSave("alt"))

	for _, rec := range []GatherRecord{
		{Slot: "main", Skill: "woodcutting", Item: "logs", XP: 25},
		{Slot: "main", Skill: "woodcutting", Item: "logs", XP: 25},
		{Slot: "main", Skill: "fishing", Item: "raw_shrimps", XP: 10},
		{Slot: "alt", Skill: "mining", Item: "copper_ore", XP: 17},
	} {
		if err := store.RecordGather(rec); err != nil {
			t.Fatalf("RecordGather() failed: %v", err)
		}
	}

	totals, err := store.GatherTotals("main")
	if err != nil {
		t.Fatalf("GatherTotals() failed: %v", err)
	}
	want := []GatherTotal{
		{Skill: "fishing", Item: "raw_shrimps", Count: 1, XP: 10},
		{Skill: "woodcutting", Item: "logs", Count: 2, XP: 50},
	}
	if len(totals) != len(want) {
		t.Fatalf("totals = %+v", totals)
	}
	for i := range want {
		if totals[i] != want[i] {
			t.Errorf("totals[%d] = %+v, expected %+v", i, totals[i], want[i])
		}
	}

	// Deleting a slot clears its log but not other slots'.
	if err := store.DeleteSave("main"); err != nil {
		t.Fatalf("DeleteSave() failed: %v", err)
	}
	if totals, _ := store.GatherTotals("main"); len(totals) != 0 {
		t.Errorf("main log should be empty, got %+v", totals)
	}
	if totals, _ := store.GatherTotals("alt"); len(totals) != 1 {
		t.Error("alt log should be untouched")
	}
}

func TestRebindPlaceholders(t *testing.T) {
	s := &sqlStore{numbered: true}
	got := s.q("SELECT a FROM t WHERE b = ? AND c = ?")
	if got != "SELECT a FROM t WHERE b = $1 AND c = $2" {
		t.Errorf("q() = %q", got)
	}
	plain := &sqlStore{}
	if got := plain.q("b = ?"); got != "b = ?" {
		t.Errorf("q() without numbering = %q", got)
	}
}

func TestExportImport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "main.json")
	rec := sampleSave("main")
	rec.ID = "3f1b2c9e-0000-4000-8000-000000000001"

	if err := ExportFile(path, rec); err != nil {
		t.Fatalf("ExportFile() failed: %v", err)
	}
	raw, _ := os.ReadFile(path)
	if !json.Valid(raw) {
		t.Fatal("export should be valid JSON")
	}

	got, err := ImportFile(path)
	if err != nil {
		t.Fatalf("ImportFile() failed: %v", err)
	}
	if got.ID != rec.ID || got.Slot != "main" || got.Ticks != rec.Ticks {
		t.Errorf("imported %+v", got)
	}
	var payload map[string]any
	if err := json.Unmarshal(got.Data, &payload); err != nil || payload["map"] != "meadow" {
		t.Errorf("payload = %v (%v)", payload, err)
	}

	bad := filepath.Join(t.TempDir(), "bad.json")
	os.WriteFile(bad, []byte(`{"slot":""}`), 0o644)
	if _, err := ImportFile(bad); err == nil {
		t.Error("import without a slot should fail")
	}
}
