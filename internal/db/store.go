package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const schema = `
	CREATE TABLE IF NOT EXISTS meditation_sessions (
		id TEXT PRIMARY KEY,
		startedAt REAL NOT NULL,
		completedAt REAL,
		durationSeconds INTEGER NOT NULL DEFAULT 0,
		breathCycles INTEGER NOT NULL DEFAULT 0,
		completed INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS conversations (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL DEFAULT '',
		createdAt REAL NOT NULL,
		updatedAt REAL NOT NULL
	);

	CREATE TABLE IF NOT EXISTS messages (
		id TEXT PRIMARY KEY,
		conversationId TEXT NOT NULL REFERENCES conversations(id) ON DELETE CASCADE,
		role TEXT NOT NULL,
		content TEXT NOT NULL,
		createdAt REAL NOT NULL,
		sequenceNumber INTEGER NOT NULL,
		UNIQUE(conversationId, sequenceNumber)
	);

	CREATE INDEX IF NOT EXISTS idx_messages_conversation ON messages(conversationId, sequenceNumber);
`

// Store provides access to the local SQLite database.
type Store struct {
	db    *sql.DB
	now   func() time.Time
	newID func() string

	// Sessions created but not yet finalized, keyed by id.
	mu      sync.Mutex
	pending map[string]time.Time
}

// DefaultDBPath returns the default database path.
func DefaultDBPath() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, "mukthiguru", "mukthiguru.sqlite")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "mukthiguru", "mukthiguru.sqlite")
}

// Open opens (creating if needed) the database with WAL and foreign keys.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create database dir: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// One writer; keeps pragmas consistent across the pool.
	db.SetMaxOpenConns(1)

	// Verify connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Store{
		db:      db,
		now:     time.Now,
		newID:   uuid.NewString,
		pending: make(map[string]time.Time),
	}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping verifies the database is reachable.
func (s *Store) Ping() error {
	return s.db.Ping()
}

func timeFromUnix(ts float64) time.Time {
	sec := int64(ts)
	nsec := int64((ts - float64(sec)) * 1e9)
	return time.Unix(sec, nsec)
}

func unixFromTime(t time.Time) float64 {
	return float64(t.UnixNano()) / 1e9
}

func nullableTime(v sql.NullFloat64) *time.Time {
	if !v.Valid {
		return nil
	}
	t := timeFromUnix(v.Float64)
	return &t
}
