package index

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/codealchemy/organizer/internal/events"
)

// SQLiteStore persists the duplicate index in a SQLite database. Entries are
// loaded into memory at open so per-file lookups never touch the database;
// Flush upserts the additions in one transaction.
type SQLiteStore struct {
	db     *sql.DB
	logger *events.Logger

	mu       sync.RWMutex
	entries  map[string]Entry
	added    map[string]Entry
	warnings []string
}

// NewSQLiteStore opens (or creates) a SQLite index at dbPath.
func NewSQLiteStore(dbPath string, logger *events.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal=WAL&_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	s := &SQLiteStore{
		db:      db,
		logger:  logger.WithField("component", "sqlite_index"),
		entries: make(map[string]Entry),
		added:   make(map[string]Entry),
	}

	if err := s.initialize(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize database: %w", err)
	}

	if err := s.load(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

func (s *SQLiteStore) initialize() error {
	schema := `
    CREATE TABLE IF NOT EXISTS hashes (
        hash TEXT PRIMARY KEY,
        path TEXT NOT NULL,
        size_bytes INTEGER NOT NULL DEFAULT 0,
        first_seen TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
    );

    CREATE TABLE IF NOT EXISTS schema_info (
        version INTEGER PRIMARY KEY
    );

    INSERT OR IGNORE INTO schema_info (version) VALUES (?);
    `

	if _, err := s.db.Exec(schema, CurrentSchemaVersion); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	return nil
}

func (s *SQLiteStore) load() error {
	rows, err := s.db.Query(`SELECT hash, path, size_bytes, first_seen FROM hashes`)
	if err != nil {
		return fmt.Errorf("query hashes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var hash string
		var entry Entry
		var firstSeen sql.NullTime

		if err := rows.Scan(&hash, &entry.Path, &entry.SizeBytes, &firstSeen); err != nil {
			return fmt.Errorf("scan hash row: %w", err)
		}
		if firstSeen.Valid {
			entry.FirstSeen = firstSeen.Time
		}

		s.entries[hash] = entry
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate hash rows: %w", err)
	}

	s.logger.WithField("hashes", len(s.entries)).Debug("Loaded duplicate index")
	return nil
}

// Lookup returns the canonical entry for a hash.
func (s *SQLiteStore) Lookup(hash string) (Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[hash]
	return entry, ok
}

// Add records a hash, keeping any existing entry.
func (s *SQLiteStore) Add(hash string, entry Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[hash]; exists {
		return
	}
	if entry.FirstSeen.IsZero() {
		entry.FirstSeen = time.Now().UTC()
	}

	s.entries[hash] = entry
	s.added[hash] = entry
}

// Len returns the number of known hashes.
func (s *SQLiteStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.entries)
}

// Warnings returns load-time problems for the run report.
func (s *SQLiteStore) Warnings() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]string(nil), s.warnings...)
}

// Flush upserts entries added since load in a single transaction.
func (s *SQLiteStore) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.added) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(`
        INSERT INTO hashes (hash, path, size_bytes, first_seen)
        VALUES (?, ?, ?, ?)
        ON CONFLICT(hash) DO NOTHING
    `)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for hash, entry := range s.added {
		if _, err := stmt.Exec(hash, entry.Path, entry.SizeBytes, entry.FirstSeen); err != nil {
			return fmt.Errorf("insert hash %s: %w", hash, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	s.logger.WithField("added", len(s.added)).Debug("Flushed duplicate index")
	s.added = make(map[string]Entry)
	return nil
}

// Reset removes all entries from memory and the database.
func (s *SQLiteStore) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec(`DELETE FROM hashes`); err != nil {
		return fmt.Errorf("clear hashes: %w", err)
	}

	s.entries = make(map[string]Entry)
	s.added = make(map[string]Entry)
	return nil
}

// Close flushes pending entries and closes the database.
func (s *SQLiteStore) Close() error {
	if err := s.Flush(); err != nil {
		return err
	}
	return s.db.Close()
}
