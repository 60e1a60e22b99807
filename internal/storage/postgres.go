package storage

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq" // PostgreSQL driver
)

// PostgresStore keeps saves in PostgreSQL, for servers shared by many
// players.
type PostgresStore struct {
	sqlStore
}

var _ Store = (*PostgresStore)(nil)

// OpenPostgres connects to PostgreSQL and initializes the schema.
func OpenPostgres(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &PostgresStore{sqlStore: sqlStore{db: db, numbered: true}}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot initialize schema: %w", err)
	}
	return store, nil
}

func (s *PostgresStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS saves (
		id TEXT PRIMARY KEY,
		slot TEXT NOT NULL UNIQUE,
		player TEXT NOT NULL,
		map TEXT NOT NULL,
		total_level INTEGER NOT NULL DEFAULT 0,
		ticks BIGINT NOT NULL DEFAULT 0,
		data JSONB NOT NULL,
		created_at BIGINT NOT NULL,
		updated_at BIGINT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_saves_updated ON saves(updated_at DESC);

	CREATE TABLE IF NOT EXISTS gather_log (
		id BIGSERIAL PRIMARY KEY,
		slot TEXT NOT NULL,
		skill TEXT NOT NULL,
		item TEXT NOT NULL,
		xp INTEGER NOT NULL DEFAULT 0,
		gathered_at BIGINT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_gather_log_slot ON gather_log(slot);
	`

	_, err := s.db.Exec(schema)
	return err
}
