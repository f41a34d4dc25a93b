package cache

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Cache keeps results of external lookups for a while.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, data []byte, ttl time.Duration) error
	Delete(key string) error
}

const localPrefix = "local:"

// Key names the cached value of kind for id.
func Key(kind string, id int64) string {
	return kind + ":" + strconv.FormatInt(id, 10)
}

// LocalKey is like Key, but the tiered cache never writes it to the database.
func LocalKey(kind string, id int64) string {
	return localPrefix + Key(kind, id)
}

func isLocal(key string) bool {
	return strings.HasPrefix(key, localPrefix)
}

// GetJSON decodes the cached value of key into v. Undecodable entries are
// dropped and reported as a miss.
func GetJSON(c Cache, key string, v any) bool {
	data, ok := c.Get(key)
	if !ok {
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		_ = c.Delete(key)
		return false
	}
	return true
}

func SetJSON(c Cache, key string, v any, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.Set(key, data, ttl)
}
