package storage

import (
	"errors"
	"os"
	"testing"

	"github.com/google/uuid"
)

func TestPostgresStore(t *testing.T) {
	dsn := os.Getenv("TILEQUEST_TEST_POSTGRES")
	if dsn == "" {
		t.Skip("TILEQUEST_TEST_POSTGRES not set")
	}

	store, err := Open(dsn)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()
	if _, ok := store.(*PostgresStore); !ok {
		t.Fatalf("Open() returned %T", store)
	}

	slot := "test-" + uuid.NewString()
	defer store.DeleteSave(slot)

	id, err := store.SaveGame(sampleSave(slot))
	if err != nil {
		t.Fatalf("SaveGame() failed: %v", err)
	}
	again, err := store.SaveGame(sampleSave(slot))
	if err != nil || again != id {
		t.Fatalf("upsert = %s, %v; expected %s", again, err, id)
	}

	rec, err := store.LoadGame(slot)
	if err != nil {
		t.Fatalf("LoadGame() failed: %v", err)
	}
	if rec.Map != "meadow" || rec.Ticks != 1200 {
		t.Errorf("loaded %+v", rec)
	}

	if err := store.RecordGather(GatherRecord{Slot: slot, Skill: "mining", Item: "tin_ore", XP: 17}); err != nil {
		t.Fatal(err)
	}
	totals, err := store.GatherTotals(slot)
	if err != nil || len(totals) != 1 || totals[0].XP != 17 {
		t.Errorf("totals = %+v, %v", totals, err)
	}

	if err := store.DeleteSave(slot); err != nil {
		t.Fatal(err)
	}
	if _, err := store.LoadGame(slot); !errors.Is(err, ErrNotFound) {
		t.Errorf("LoadGame after delete = %v", err)
	}
}
