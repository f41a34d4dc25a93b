package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/muratoffalex/tgchecker/internal/logger"
)

// Tiered reads through process memory to the database. Values found only in
// the database are copied to memory for the rest of their lifetime. Keys made
// with LocalKey never reach the database.
type Tiered struct {
	memory *MemoryCache
	db     *DBCache
	logger logger.Logger
}

func NewTiered(memory *MemoryCache, db *DBCache, l logger.Logger) *Tiered {
	return &Tiered{
		memory: memory,
		db:     db,
		logger: l.WithField("component", "cache"),
	}
}

func (c *Tiered) Get(key string) ([]byte, bool) {
	if data, ok := c.memory.Get(key); ok {
		return data, true
	}
	if isLocal(key) {
		return nil, false
	}

	data, expiresAt, ok := c.db.lookup(key)
	if !ok {
		return nil, false
	}
	_ = c.memory.Set(key, data, time.Until(expiresAt))
	return data, true
}

func (c *Tiered) Set(key string, data []byte, ttl time.Duration) error {
	_ = c.memory.Set(key, data, ttl)
	if isLocal(key) {
		return nil
	}
	if err := c.db.Set(key, data, ttl); err != nil {
		return fmt.Errorf("persist cache entry: %w", err)
	}
	return nil
}

func (c *Tiered) Delete(key string) error {
	_ = c.memory.Delete(key)
	if isLocal(key) {
		return nil
	}
	return c.db.Delete(key)
}

// PurgeExpired removes expired entries from both levels.
func (c *Tiered) PurgeExpired(ctx context.Context) error {
	swept := c.memory.Sweep()
	purged, err := c.db.PurgeExpired(ctx)
	if err != nil {
		return err
	}
	c.logger.WithFields(logger.Fields{
		"memory": swept,
		"db":     purged,
	}).Debug("Purged expired cache entries")
	return nil
}
