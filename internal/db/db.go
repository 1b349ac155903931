package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB with socialite-specific helpers.
type DB struct {
	*sql.DB
	path string
}

// Open creates or opens a SQLite database at the given path.
func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	sqlDB, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	d := &DB{DB: sqlDB, path: path}
	if err := d.migrate(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return d, nil
}

// OpenMemory creates an in-memory SQLite database (useful for testing).
func OpenMemory() (*DB, error) {
	sqlDB, err := sql.Open("sqlite", ":memory:?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("opening in-memory database: %w", err)
	}
	// Every connection to :memory: is a separate database.
	sqlDB.SetMaxOpenConns(1)

	d := &DB{DB: sqlDB, path: ":memory:"}
	if err := d.migrate(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return d, nil
}

// Path returns the database location.
func (d *DB) Path() string { return d.path }

// migrate runs all schema migrations.
func (d *DB) migrate() error {
	_, err := d.Exec(schema)
	return err
}

// schema contains the full database schema. New tables are added here.
const schema = `
CREATE TABLE IF NOT EXISTS renders (
    id TEXT PRIMARY KEY,
    page TEXT NOT NULL,
    mode TEXT NOT NULL CHECK(mode IN ('load','process')),
    instances INTEGER NOT NULL DEFAULT 0,
    networks TEXT NOT NULL DEFAULT '[]',
    rendered_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_renders_page ON renders(page);
CREATE INDEX IF NOT EXISTS idx_renders_time ON renders(rendered_at);

CREATE TABLE IF NOT EXISTS activity_events (
    id TEXT PRIMARY KEY,
    render_id TEXT NOT NULL REFERENCES renders(id) ON DELETE CASCADE,
    seq INTEGER NOT NULL,
    kind TEXT NOT NULL CHECK(kind IN (
        'instance_created','instance_initialized','instance_activated',
        'network_appended','network_loaded','network_removed'
    )),
    network TEXT NOT NULL DEFAULT '',
    widget TEXT NOT NULL DEFAULT '',
    instance_uid INTEGER,
    UNIQUE(render_id, seq)
);

CREATE INDEX IF NOT EXISTS idx_activity_render ON activity_events(render_id);
CREATE INDEX IF NOT EXISTS idx_activity_kind ON activity_events(kind);
CREATE INDEX IF NOT EXISTS idx_activity_network ON activity_events(network);
`
