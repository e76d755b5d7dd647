// Package sqlite provides an auto-rebuilding SQLite cache of dedup results.
// The cache is expendable and always rebuildable from the ADIF log.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"os"

	"github.com/cespare/xxhash/v2"
	_ "github.com/mattn/go-sqlite3"

	"github.com/leeovery/finddups/internal/dedup"
)

const hashKey = "log_hash"

const schema = `
CREATE TABLE IF NOT EXISTS qso_groups (
  id INTEGER PRIMARY KEY,
  call TEXT NOT NULL,
  qso_date TEXT NOT NULL,
  time_on TEXT NOT NULL,
  band TEXT NOT NULL,
  rx_band TEXT NOT NULL,
  mode TEXT NOT NULL,
  size INTEGER NOT NULL,
  confirmed INTEGER NOT NULL,
  choice INTEGER NOT NULL,
  kept INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS qsos (
  idx INTEGER PRIMARY KEY,
  group_id INTEGER NOT NULL,
  call TEXT NOT NULL,
  qso_date TEXT NOT NULL,
  time_on TEXT NOT NULL,
  band TEXT NOT NULL,
  rx_band TEXT NOT NULL,
  mode TEXT NOT NULL,
  freq TEXT NOT NULL,
  qsl_rcvd TEXT NOT NULL,
  confirmed INTEGER NOT NULL,
  keep INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS metadata (
  key TEXT PRIMARY KEY,
  value TEXT
);

CREATE INDEX IF NOT EXISTS idx_groups_size ON qso_groups(size);
CREATE INDEX IF NOT EXISTS idx_qsos_group ON qsos(group_id);
`

// BuildFunc computes the result to cache. It is only called when the cache
// is stale.
type BuildFunc func() (*dedup.Result, error)

// Status describes what EnsureFresh had to do.
type Status int

const (
	// StatusFresh means the cache already matched the log.
	StatusFresh Status = iota
	// StatusRebuilt means the cache was stale and was rebuilt in place.
	StatusRebuilt
	// StatusRecreated means the cache file was missing or unusable and was
	// created from scratch.
	StatusRecreated
)

func (s Status) String() string {
	switch s {
	case StatusFresh:
		return "fresh"
	case StatusRebuilt:
		return "rebuilt"
	case StatusRecreated:
		return "recreated"
	}
	return "unknown"
}

// Cache wraps a SQLite database holding the groups and QSOs of one log.
type Cache struct {
	db     *sql.DB
	dbPath string
}

// NewCache opens or creates a SQLite cache at the given path and initializes the schema.
func NewCache(dbPath string) (*Cache, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache db: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize cache schema: %w", err)
	}

	return &Cache{db: db, dbPath: dbPath}, nil
}

// DB returns the underlying *sql.DB for direct queries.
func (c *Cache) DB() *sql.DB {
	return c.db
}

// Close closes the underlying database connection.
func (c *Cache) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// Rebuild replaces the cached groups and QSOs with res and records the hash
// of raw. It runs in a single transaction.
func (c *Cache) Rebuild(res *dedup.Result, raw []byte) error {
	tx, err := c.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin rebuild transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM qsos"); err != nil {
		return fmt.Errorf("failed to clear qsos: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM qso_groups"); err != nil {
		return fmt.Errorf("failed to clear qso_groups: %w", err)
	}

	groupStmt, err := tx.Prepare(`INSERT INTO qso_groups
		(id, call, qso_date, time_on, band, rx_band, mode, size, confirmed, choice, kept)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare group insert: %w", err)
	}
	defer groupStmt.Close()

	qsoStmt, err := tx.Prepare(`INSERT INTO qsos
		(idx, group_id, call, qso_date, time_on, band, rx_band, mode, freq, qsl_rcvd, confirmed, keep)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare qso insert: %w", err)
	}
	defer qsoStmt.Close()

	for id, g := range res.Groups.All() {
		k := g.Key
		_, err := groupStmt.Exec(id, k.Call, k.QSODate, k.TimeOn, k.Band, k.RXBand, k.Mode,
			g.Len(), g.ConfirmedCount(), g.Choice, len(g.Kept()))
		if err != nil {
			return fmt.Errorf("failed to insert group %s: %w", k, err)
		}

		for _, e := range g.Entries {
			q := e.QSO
			_, err := qsoStmt.Exec(e.Index, id, q.Call, q.QSODate, q.TimeOn, q.Band, q.RXBand, q.Mode,
				q.Freq, q.QSLRcvd, e.Confirmed, e.Keep)
			if err != nil {
				return fmt.Errorf("failed to insert qso %d: %w", e.Index+1, err)
			}
		}
	}

	_, err = tx.Exec("INSERT OR REPLACE INTO metadata (key, value) VALUES (?, ?)", hashKey, Hash(raw))
	if err != nil {
		return fmt.Errorf("failed to store %s: %w", hashKey, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit rebuild transaction: %w", err)
	}

	return nil
}

// IsFresh reports whether the stored hash matches raw. A cache with no
// stored hash is stale.
func (c *Cache) IsFresh(raw []byte) (bool, error) {
	var stored string
	err := c.db.QueryRow("SELECT value FROM metadata WHERE key = ?", hashKey).Scan(&stored)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to query %s: %w", hashKey, err)
	}

	return stored == Hash(raw), nil
}

// Open opens an existing cache without creating it, and checks that every
// table is usable.
func Open(dbPath string) (*Cache, error) {
	if _, err := os.Stat(dbPath); err != nil {
		return nil, fmt.Errorf("cache db unavailable: %w", err)
	}

	cache, err := NewCache(dbPath)
	if err != nil {
		return nil, err
	}

	for _, table := range []string{"qso_groups", "qsos", "metadata"} {
		if _, err := cache.db.Exec("SELECT 1 FROM " + table + " LIMIT 0"); err != nil {
			cache.Close()
			return nil, fmt.Errorf("%s table unusable: %w", table, err)
		}
	}

	return cache, nil
}

// EnsureFresh opens the cache at dbPath and rebuilds it with build if it does
// not match raw. A missing or corrupted cache file is deleted and recreated.
func EnsureFresh(dbPath string, raw []byte, build BuildFunc) (*Cache, Status, error) {
	cache, err := Open(dbPath)
	if err != nil {
		return recreate(dbPath, raw, build)
	}

	fresh, err := cache.IsFresh(raw)
	if err != nil {
		cache.Close()
		return recreate(dbPath, raw, build)
	}
	if fresh {
		return cache, StatusFresh, nil
	}

	res, err := build()
	if err != nil {
		cache.Close()
		return nil, StatusFresh, err
	}
	if err := cache.Rebuild(res, raw); err != nil {
		cache.Close()
		return nil, StatusFresh, fmt.Errorf("failed to rebuild cache: %w", err)
	}

	return cache, StatusRebuilt, nil
}

// Recreate deletes any cache at dbPath and writes res into a new one.
func Recreate(dbPath string, res *dedup.Result, raw []byte) (*Cache, error) {
	os.Remove(dbPath)

	cache, err := NewCache(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create new cache: %w", err)
	}

	if err := cache.Rebuild(res, raw); err != nil {
		cache.Close()
		return nil, fmt.Errorf("failed to rebuild new cache: %w", err)
	}

	return cache, nil
}

func recreate(dbPath string, raw []byte, build BuildFunc) (*Cache, Status, error) {
	res, err := build()
	if err != nil {
		return nil, StatusRecreated, err
	}
	cache, err := Recreate(dbPath, res, raw)
	if err != nil {
		return nil, StatusRecreated, err
	}
	return cache, StatusRecreated, nil
}

// Hash returns the xxhash hex digest of the given data.
func Hash(data []byte) string {
	return fmt.Sprintf("%016x", xxhash.Sum64(data))
}
