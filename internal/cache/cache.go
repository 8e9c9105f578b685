// Package cache keeps the last fetched record set for each criteria in
// SQLite so atlas can show something when the API is unreachable.
package cache

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/five82/atlas/internal/restcountries"
)

// Cache is safe for concurrent use.
type Cache struct {
	db *sql.DB
	mu sync.RWMutex
}

// Open opens or creates the cache database at path. ":memory:" gives a
// throwaway database.
func Open(path string) (*Cache, error) {
	memory := path == ":memory:"
	connStr := path
	if memory {
		connStr = "file::memory:?cache=shared"
	} else if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}

	db, err := sql.Open("sqlite", connStr)
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	if memory {
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping cache: %w", err)
	}
	if !memory {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("enable WAL mode: %w", err)
		}
	}

	c := &Cache{db: db}
	if err := c.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}
	return c, nil
}

func (c *Cache) createTables() error {
	const schema = `
	CREATE TABLE IF NOT EXISTS record_sets (
		key TEXT PRIMARY KEY,
		payload TEXT NOT NULL,
		record_count INTEGER NOT NULL,
		fetched_at INTEGER NOT NULL
	);`
	if _, err := c.db.Exec(schema); err != nil {
		return fmt.Errorf("execute schema: %w", err)
	}
	return nil
}

// Close closes the database.
func (c *Cache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.db.Close()
}

// Put stores records under key, replacing what was there.
func (c *Cache) Put(key string, records []restcountries.Country, fetchedAt time.Time) error {
	payload, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode records: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	_, err = c.db.Exec(`
		INSERT INTO record_sets (key, payload, record_count, fetched_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			payload = excluded.payload,
			record_count = excluded.record_count,
			fetched_at = excluded.fetched_at
	`, key, string(payload), len(records), fetchedAt.Unix())
	if err != nil {
		return fmt.Errorf("store %s: %w", key, err)
	}
	return nil
}

// Get returns the records stored under key and when they were fetched.
// ok is false when nothing is stored.
func (c *Cache) Get(key string) (records []restcountries.Country, fetchedAt time.Time, ok bool, err error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var payload string
	var unix int64
	err = c.db.QueryRow(`SELECT payload, fetched_at FROM record_sets WHERE key = ?`, key).Scan(&payload, &unix)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, time.Time{}, false, nil
	}
	if err != nil {
		return nil, time.Time{}, false, fmt.Errorf("load %s: %w", key, err)
	}
	if err := json.Unmarshal([]byte(payload), &records); err != nil {
		return nil, time.Time{}, false, fmt.Errorf("decode %s: %w", key, err)
	}
	return records, time.Unix(unix, 0), true, nil
}

// Count reports how many record sets are stored.
func (c *Cache) Count() (int, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var n int
	if err := c.db.QueryRow(`SELECT COUNT(*) FROM record_sets`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count record sets: %w", err)
	}
	return n, nil
}
