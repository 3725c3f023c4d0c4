package ticketsource

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Cache stores raw export bodies on disk so repeated runs within the TTL
// do not hit the ticket source. Keys are derived from the request
// parameters, so different searches cache independently.
type Cache struct {
	dir string
	ttl time.Duration
}

// NewCache creates a Cache rooted at dir.
func NewCache(dir string, ttl time.Duration) *Cache {
	return &Cache{dir: dir, ttl: ttl}
}

// Key derives the cache key for a set of export options.
func (c *Cache) Key(opts ExportOptions) string {
	params, _ := json.Marshal(struct {
		Order   string   `json:"order"`
		Reverse bool     `json:"reverse"`
		Search  []Filter `json:"search"`
	}{opts.Order, opts.Reverse, opts.Search})

	sum := sha256.Sum256(params)
	return hex.EncodeToString(sum[:])
}

// Get returns the cached body for key, or ok=false when missing or stale.
func (c *Cache) Get(key string) ([]byte, bool) {
	path := c.path(key)

	info, err := os.Stat(path)
	if err != nil {
		return nil, false
	}
	if time.Since(info.ModTime()) > c.ttl {
		return nil, false
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}
	return data, true
}

// Put stores a body under key.
func (c *Cache) Put(key string, data []byte) error {
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create cache dir: %w", err)
	}
	if err := os.WriteFile(c.path(key), data, 0o644); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}
	return nil
}

func (c *Cache) path(key string) string {
	return filepath.Join(c.dir, "tickets-"+key+".json")
}
