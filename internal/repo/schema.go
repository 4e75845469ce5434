package repo

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS notes (
	id         INTEGER PRIMARY KEY,
	author     TEXT NOT NULL DEFAULT 'Anonymous',
	title      TEXT NOT NULL DEFAULT 'Untitled',
	body       TEXT NOT NULL,
	class_code TEXT NOT NULL DEFAULT 'General',
	created    DATETIME NOT NULL,
	tags       TEXT NOT NULL DEFAULT '[]',
	hashtags   TEXT NOT NULL DEFAULT '[]',
	likes      INTEGER NOT NULL DEFAULT 0,
	owner_id   TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS attachments (
	id            INTEGER PRIMARY KEY,
	note_id       INTEGER NOT NULL REFERENCES notes(id) ON DELETE CASCADE,
	filename      TEXT NOT NULL,
	original_name TEXT NOT NULL,
	file_type     TEXT NOT NULL,
	checksum      TEXT NOT NULL DEFAULT '',
	uploaded_at   DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS comments (
	id      INTEGER PRIMARY KEY,
	note_id INTEGER NOT NULL REFERENCES notes(id) ON DELETE CASCADE,
	author  TEXT NOT NULL DEFAULT 'Anonymous',
	body    TEXT NOT NULL,
	created DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_attachments_note ON attachments(note_id);
CREATE INDEX IF NOT EXISTS idx_comments_note ON comments(note_id);
`

// DB is the SQLite-backed Repository.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database and applies the schema.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("repo: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("repo: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("repo: apply schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}
