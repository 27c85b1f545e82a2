// Package sqlite implements the store interfaces on an embedded SQLite
// database. modernc.org/sqlite is a pure Go driver, so the binary stays
// free of CGo; use ":memory:" as the path for throwaway test databases.
package sqlite

import (
	"database/sql"
	"fmt"
	"sync"

	"github.com/sakif/snipvault/internal/model"

	// Registers the "sqlite" driver with database/sql.
	_ "modernc.org/sqlite"
)

// DB wraps the connection pool and implements store.SnippetStore,
// store.SnippetWatcher and store.UserStore.
type DB struct {
	conn *sql.DB

	mu          sync.Mutex
	nextSubID   int
	subscribers map[string]map[int]func([]model.Snippet) // userID → subID → callback
	deliveries  map[string]*sync.Mutex                   // userID → lock serializing snapshot fetch+delivery
}

// New opens (creating if needed) the database at dbPath and runs
// migrations. The caller owns the returned DB and must Close it.
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL keeps reads concurrent with writes; foreign keys are off by
	// default in SQLite and we rely on users → snippets integrity.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	db := &DB{
		conn:        conn,
		subscribers: make(map[string]map[int]func([]model.Snippet)),
		deliveries:  make(map[string]*sync.Mutex),
	}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the connection pool. Pending subscription callbacks may
// still be in flight; subscribers should cancel before closing.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates the schema. CREATE TABLE IF NOT EXISTS keeps this safe
// to run on every startup.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id            TEXT PRIMARY KEY,
			google_id     TEXT UNIQUE,
			email         TEXT NOT NULL UNIQUE,
			display_name  TEXT NOT NULL DEFAULT '',
			avatar_url    TEXT NOT NULL DEFAULT '',
			password_hash TEXT NOT NULL DEFAULT '',
			created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("creating users table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS snippets (
			id          TEXT PRIMARY KEY,
			user_id     TEXT NOT NULL REFERENCES users(id),
			title       TEXT NOT NULL,
			content     TEXT NOT NULL,
			language    TEXT NOT NULL DEFAULT 'plaintext',
			tags        TEXT NOT NULL DEFAULT '[]',
			description TEXT NOT NULL DEFAULT '',
			favorite    INTEGER NOT NULL DEFAULT 0,
			created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_snippets_user_id ON snippets(user_id);
		CREATE INDEX IF NOT EXISTS idx_snippets_created_at ON snippets(created_at);
	`)
	if err != nil {
		return fmt.Errorf("creating snippets table: %w", err)
	}

	return nil
}
