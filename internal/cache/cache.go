// Package cache persists computed fingerprints between runs so unchanged
// files are not rehashed. Entries are keyed by (path, kind) and validated
// against file size and modification time; a mismatch means the file
// changed and the entry is recomputed.
package cache

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS fingerprints (
	path     TEXT    NOT NULL,
	kind     TEXT    NOT NULL,
	size     INTEGER NOT NULL,
	mtime_ns INTEGER NOT NULL,
	value    TEXT    NOT NULL,
	PRIMARY KEY (path, kind)
);`

// Cache is a SQLite-backed fingerprint store.
type Cache struct {
	db *sql.DB
}

// Open opens or creates the cache database at path.
func Open(path string) (*Cache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating cache schema: %w", err)
	}
	return &Cache{db: db}, nil
}

// Get returns the cached value for the file if the stored size and mtime
// still match. A stale or missing entry reports ok=false.
func (c *Cache) Get(path, kind string, size, mtimeNS int64) (string, bool) {
	var (
		storedSize  int64
		storedMtime int64
		value       string
	)
	err := c.db.QueryRow(
		`SELECT size, mtime_ns, value FROM fingerprints WHERE path = ? AND kind = ?`,
		path, kind,
	).Scan(&storedSize, &storedMtime, &value)
	if err != nil {
		return "", false
	}
	if storedSize != size || storedMtime != mtimeNS {
		return "", false
	}
	return value, true
}

// Put stores or replaces the cached value for the file.
func (c *Cache) Put(path, kind string, size, mtimeNS int64, value string) error {
	_, err := c.db.Exec(
		`INSERT OR REPLACE INTO fingerprints (path, kind, size, mtime_ns, value) VALUES (?, ?, ?, ?, ?)`,
		path, kind, size, mtimeNS, value,
	)
	if err != nil {
		return fmt.Errorf("storing cache entry for %s: %w", path, err)
	}
	return nil
}

// Count returns the number of stored entries.
func (c *Cache) Count() (int, error) {
	var n int
	if err := c.db.QueryRow(`SELECT COUNT(*) FROM fingerprints`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting cache entries: %w", err)
	}
	return n, nil
}

// Close closes the underlying database.
func (c *Cache) Close() error {
	return c.db.Close()
}
