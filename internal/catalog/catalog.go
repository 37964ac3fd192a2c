// Package catalog persists analyzed sources and selection runs in a
// local SQLite database so repeated invocations can skip work and the
// export commands can query past results.
package catalog

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS sources (
	id          TEXT PRIMARY KEY,
	path        TEXT NOT NULL UNIQUE,
	duration    REAL NOT NULL,
	width       INTEGER NOT NULL,
	height      INTEGER NOT NULL,
	has_audio   INTEGER NOT NULL,
	analyzed_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS runs (
	id                TEXT PRIMARY KEY,
	source_id         TEXT NOT NULL REFERENCES sources(id) ON DELETE CASCADE,
	total_segments    INTEGER NOT NULL,
	selected_duration REAL NOT NULL,
	rejected_duration REAL NOT NULL,
	created_at        TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS segments (
	run_id      TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	segment_id  INTEGER NOT NULL,
	start_time  REAL NOT NULL,
	end_time    REAL NOT NULL,
	duration    REAL NOT NULL,
	confidence  REAL NOT NULL,
	reason_tags TEXT NOT NULL,
	notes       TEXT NOT NULL,
	PRIMARY KEY (run_id, segment_id)
);
`

// Store wraps the SQLite connection used by the catalog
type Store struct {
	db     *sql.DB
	logger zerolog.Logger
}

// Open creates or opens the catalog database at dbPath, applying pragmas
// and schema. The connection is limited to a single writer.
func Open(dbPath string, logger zerolog.Logger) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create catalog directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping catalog: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to execute %s: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply catalog schema: %w", err)
	}

	log := logger.With().Str("component", "catalog").Logger()
	log.Debug().Str("path", dbPath).Msg("catalog opened")

	return &Store{db: db, logger: log}, nil
}

// Close releases the underlying database connection
func (s *Store) Close() error {
	return s.db.Close()
}
