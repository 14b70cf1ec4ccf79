// Package sqlite provides a SQLite-backed cache.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/papercomputeco/manifest/pkg/cache"
)

// Cache implements cache.Cache using SQLite as the storage backend.
type Cache struct {
	db *sql.DB
}

// NewCache creates a new SQLite-backed cache.
// The dbPath can be a file path or ":memory:" for an in-memory database.
func NewCache(dbPath string) (*Cache, error) {
	// Open the database using the github.com/mattn/go-sqlite3 driver (registered as "sqlite3")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Each pooled connection to ":memory:" would get its own database.
	db.SetMaxOpenConns(1)

	c := &Cache{db: db}
	if err := c.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return c, nil
}

func (c *Cache) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS responses (
		key TEXT PRIMARY KEY,
		value BLOB NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`

	_, err := c.db.Exec(schema)
	return err
}

func (c *Cache) Get(ctx context.Context, key string) ([]byte, error) {
	row := c.db.QueryRowContext(ctx, `SELECT value FROM responses WHERE key = ?`, key)

	var value []byte
	err := row.Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, cache.ErrNotFound{Key: key}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan cache entry: %w", err)
	}

	return value, nil
}

func (c *Cache) Set(ctx context.Context, key string, value []byte) error {
	_, err := c.db.ExecContext(ctx, `INSERT OR REPLACE INTO responses (key, value) VALUES (?, ?)`, key, value)
	if err != nil {
		return fmt.Errorf("failed to store cache entry: %w", err)
	}
	return nil
}

func (c *Cache) Close() error {
	return c.db.Close()
}
