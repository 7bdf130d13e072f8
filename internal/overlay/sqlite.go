package overlay

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

var sqlitePragmas = []string{
	"PRAGMA journal_mode = WAL",
	"PRAGMA synchronous = NORMAL",
	"PRAGMA busy_timeout = 5000",
}

// SQLiteStore persists entries in a single-table SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite store requires a path")
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	for _, pragma := range sqlitePragmas {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, err)
		}
	}
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS fatigue (
			actor_id   TEXT PRIMARY KEY,
			score      REAL NOT NULL,
			updated_at INTEGER NOT NULL
		)`)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create table: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Load() (map[string]Entry, error) {
	rows, err := s.db.Query(`SELECT actor_id, score, updated_at FROM fatigue`)
	if err != nil {
		return nil, fmt.Errorf("query fatigue: %w", err)
	}
	defer rows.Close()

	out := make(map[string]Entry)
	for rows.Next() {
		var id string
		var score float64
		var updated int64
		if err := rows.Scan(&id, &score, &updated); err != nil {
			// A bad row is dropped, not fatal.
			continue
		}
		out[id] = Entry{Score: score, UpdatedAt: time.UnixMilli(updated)}
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Put(actorID string, e Entry) error {
	_, err := s.db.Exec(`
		INSERT INTO fatigue (actor_id, score, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(actor_id) DO UPDATE SET
			score = excluded.score,
			updated_at = excluded.updated_at
	`, actorID, e.Score, e.UpdatedAt.UnixMilli())
	return err
}

func (s *SQLiteStore) Close() error { return s.db.Close() }
