package assist

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

const sqliteCacheSchema = `
CREATE TABLE IF NOT EXISTS assist_cache (
	cache_key  TEXT PRIMARY KEY,
	comments   TEXT NOT NULL,
	stored_at  INTEGER NOT NULL
);`

// SQLiteCache is a Cache persisted in a local SQLite file, so identical lint
// requests survive restarts.
type SQLiteCache struct {
	db  *sql.DB
	ttl time.Duration
	now func() time.Time
}

// OpenSQLiteCache opens (or creates) the cache database at path.
func OpenSQLiteCache(ctx context.Context, path string, ttl time.Duration) (*SQLiteCache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open assist cache %s: %w", path, err)
	}
	// one writer at a time
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, sqliteCacheSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create assist cache table: %w", err)
	}

	return &SQLiteCache{db: db, ttl: ttl, now: time.Now}, nil
}

// Get loads comments for key, treating expired rows as missing.
func (c *SQLiteCache) Get(ctx context.Context, key string) (Comments, bool, error) {
	var raw string
	var storedAt int64
	err := c.db.QueryRowContext(ctx,
		`SELECT comments, stored_at FROM assist_cache WHERE cache_key = ?`, key,
	).Scan(&raw, &storedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read assist cache: %w", err)
	}

	if c.ttl > 0 && c.now().Sub(time.Unix(storedAt, 0)) > c.ttl {
		return nil, false, nil
	}

	comments := CoerceComments(json.RawMessage(raw))
	return comments, true, nil
}

// Set upserts comments for key.
func (c *SQLiteCache) Set(ctx context.Context, key string, comments Comments) error {
	raw, err := json.Marshal(comments)
	if err != nil {
		return fmt.Errorf("failed to encode comments: %w", err)
	}
	_, err = c.db.ExecContext(ctx, `
		INSERT INTO assist_cache (cache_key, comments, stored_at) VALUES (?, ?, ?)
		ON CONFLICT(cache_key) DO UPDATE SET comments = excluded.comments, stored_at = excluded.stored_at`,
		key, string(raw), c.now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to write assist cache: %w", err)
	}
	return nil
}

// Purge deletes expired rows and returns how many were removed.
func (c *SQLiteCache) Purge(ctx context.Context) (int64, error) {
	if c.ttl <= 0 {
		return 0, nil
	}
	cutoff := c.now().Add(-c.ttl).Unix()
	res, err := c.db.ExecContext(ctx, `DELETE FROM assist_cache WHERE stored_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to purge assist cache: %w", err)
	}
	return res.RowsAffected()
}

// Close closes the underlying database.
func (c *SQLiteCache) Close() error {
	return c.db.Close()
}
