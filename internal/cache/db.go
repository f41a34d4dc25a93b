package cache

import (
	"context"
	"time"

	"github.com/muratoffalex/tgchecker/internal/database"
)

// DBCache stores entries in the cache table so they survive restarts.
type DBCache struct {
	db  database.Database
	now func() time.Time
}

func NewDBCache(db database.Database) *DBCache {
	return &DBCache{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}
}

func (c *DBCache) Get(key string) ([]byte, bool) {
	data, _, ok := c.lookup(key)
	return data, ok
}

// lookup also returns the expiry, so upper levels can keep the same lifetime.
func (c *DBCache) lookup(key string) ([]byte, time.Time, bool) {
	var (
		data      []byte
		expiresAt time.Time
	)
	err := c.db.QueryRow(
		"SELECT data, expires_at FROM cache WHERE key = ? AND expires_at > ?",
		key, c.now(),
	).Scan(&data, &expiresAt)
	if err != nil {
		return nil, time.Time{}, false
	}
	return data, expiresAt, true
}

func (c *DBCache) Set(key string, data []byte, ttl time.Duration) error {
	_, err := c.db.ExecWithRetry(context.Background(), `
		INSERT INTO cache (key, data, expires_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET data = excluded.data, expires_at = excluded.expires_at
	`, key, data, c.now().Add(ttl))
	return err
}

func (c *DBCache) Delete(key string) error {
	_, err := c.db.ExecWithRetry(context.Background(), "DELETE FROM cache WHERE key = ?", key)
	return err
}

// PurgeExpired deletes expired rows and returns how many were removed.
func (c *DBCache) PurgeExpired(ctx context.Context) (int64, error) {
	res, err := c.db.ExecWithRetry(ctx, "DELETE FROM cache WHERE expires_at <= ?", c.now())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
