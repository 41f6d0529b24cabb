package storage

import (
	"context"
	"fmt"
)

type migration struct {
	version string
	sql     string
}

// Migrations run in order inside a single transaction. Dimension id columns
// in invocation_history deliberately carry no foreign keys: 0 (entity ids)
// and -1 (page) are in-band markers for unused dimensions, so the unique key
// stays NULL-free and replace-latest recording can use a plain upsert.
var migrations = []migration{
	{version: "0001_initial", sql: schemaInitial},
}

const schemaInitial = `
CREATE TABLE IF NOT EXISTS artists (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    folded_name TEXT NOT NULL UNIQUE,
    created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS albums (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    artist_id INTEGER NOT NULL REFERENCES artists(id) ON DELETE CASCADE,
    name TEXT NOT NULL,
    folded_name TEXT NOT NULL,
    created_at TEXT NOT NULL,
    UNIQUE (artist_id, folded_name)
);

CREATE TABLE IF NOT EXISTS tracks (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    artist_id INTEGER NOT NULL REFERENCES artists(id) ON DELETE CASCADE,
    name TEXT NOT NULL,
    folded_name TEXT NOT NULL,
    created_at TEXT NOT NULL,
    UNIQUE (artist_id, folded_name)
);

CREATE TABLE IF NOT EXISTS library_files (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    track_id INTEGER NOT NULL REFERENCES tracks(id) ON DELETE CASCADE,
    path TEXT NOT NULL UNIQUE,
    added_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_library_files_track ON library_files(track_id);

CREATE TABLE IF NOT EXISTS invocation_history (
    calltype_id INTEGER NOT NULL,
    artist_id INTEGER NOT NULL DEFAULT 0,
    album_id INTEGER NOT NULL DEFAULT 0,
    track_id INTEGER NOT NULL DEFAULT 0,
    page INTEGER NOT NULL DEFAULT -1,
    invoked_at TEXT NOT NULL,
    UNIQUE (calltype_id, artist_id, album_id, track_id, page)
);

CREATE INDEX IF NOT EXISTS idx_invocation_history_calltype
    ON invocation_history(calltype_id, invoked_at);
`

func (d *DB) applyMigrations(ctx context.Context) error {
	tx, err := d.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin migration tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, "CREATE TABLE IF NOT EXISTS schema_migrations (version TEXT PRIMARY KEY)"); err != nil {
		return fmt.Errorf("ensure schema_migrations: %w", err)
	}

	for _, m := range migrations {
		var count int
		row := tx.QueryRowContext(ctx, "SELECT COUNT(1) FROM schema_migrations WHERE version = ?", m.version)
		if err := row.Scan(&count); err != nil {
			return fmt.Errorf("scan migration version: %w", err)
		}
		if count > 0 {
			continue
		}
		if _, err := tx.ExecContext(ctx, m.sql); err != nil {
			return fmt.Errorf("apply migration %s: %w", m.version, err)
		}
		if _, err := tx.ExecContext(ctx, "INSERT INTO schema_migrations (version) VALUES (?)", m.version); err != nil {
			return fmt.Errorf("record migration %s: %w", m.version, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit migrations: %w", err)
	}
	return nil
}
