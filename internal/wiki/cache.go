package wiki

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/cespare/xxhash/v2"
	"go.uber.org/zap"
)

// DefaultTTL is how long a cached page stays fresh unless configured
// otherwise (7 days).
const DefaultTTL = 7 * 24 * time.Hour

// Cache is a content-addressable on-disk store for fetched pages, keyed by
// page URL. Each entry lives in its own <key>.json file; index.json maps
// keys to lightweight metadata so expiry checks never read entry bodies.
//
// Expiry is lazy: Get evicts stale entries as it finds them. ClearExpired
// performs an eager sweep for maintenance. The cache assumes a single
// in-process caller; concurrent writers sharing one directory race
// last-write-wins on the index and must serialize externally.
type Cache struct {
	dir    string
	ttl    time.Duration
	index  map[string]indexEntry
	logger *zap.Logger

	now func() time.Time
}

// indexEntry summarizes one cached page without its body.
type indexEntry struct {
	URL       string    `json:"url"`
	Timestamp time.Time `json:"timestamp"`
	Title     string    `json:"title"`
}

// CacheStats reports cache diagnostics.
type CacheStats struct {
	Entries   int
	SizeBytes int64
	Dir       string
}

// CacheKey returns the deterministic key for a page URL. Two title spellings
// resolving to the same URL share one entry.
func CacheKey(url string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(url))
}

// NewCache opens (or creates) a cache directory. A corrupt or unreadable
// index file is treated as an empty cache rather than an error.
func NewCache(dir string, ttl time.Duration, logger *zap.Logger) (*Cache, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}

	c := &Cache{
		dir:    dir,
		ttl:    ttl,
		index:  make(map[string]indexEntry),
		logger: logger,
		now:    time.Now,
	}
	c.loadIndex()
	return c, nil
}

func (c *Cache) indexPath() string {
	return filepath.Join(c.dir, "index.json")
}

func (c *Cache) entryPath(key string) string {
	return filepath.Join(c.dir, key+".json")
}

// loadIndex reads index.json, failing open to an empty index.
func (c *Cache) loadIndex() {
	data, err := os.ReadFile(c.indexPath())
	if err != nil {
		if !os.IsNotExist(err) {
			c.logger.Warn("cache index unreadable, starting empty", zap.Error(err))
		}
		return
	}
	if err := json.Unmarshal(data, &c.index); err != nil {
		c.logger.Warn("cache index corrupt, starting empty", zap.Error(err))
		c.index = make(map[string]indexEntry)
	}
}

// saveIndex persists the index atomically (write temp file, rename) so a
// crash mid-write never leaves a truncated index.
func (c *Cache) saveIndex() error {
	data, err := json.MarshalIndent(c.index, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal cache index: %w", err)
	}
	tmp := c.indexPath() + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write cache index: %w", err)
	}
	if err := os.Rename(tmp, c.indexPath()); err != nil {
		return fmt.Errorf("rename cache index: %w", err)
	}
	return nil
}

// Get returns the cached page for a URL, or false if absent or expired.
// Expired entries are evicted before returning. An indexed key with a
// missing body file is a miss; its dangling index record is dropped.
func (c *Cache) Get(url string) (*Page, bool) {
	key := CacheKey(url)

	entry, ok := c.index[key]
	if !ok {
		return nil, false
	}

	if c.now().Sub(entry.Timestamp) > c.ttl {
		if err := c.Delete(url); err != nil {
			c.logger.Warn("evict expired cache entry", zap.String("url", url), zap.Error(err))
		}
		return nil, false
	}

	data, err := os.ReadFile(c.entryPath(key))
	if err != nil {
		c.logger.Warn("cache body missing for indexed key, dropping record",
			zap.String("key", key), zap.Error(err))
		delete(c.index, key)
		if err := c.saveIndex(); err != nil {
			c.logger.Warn("save cache index", zap.Error(err))
		}
		return nil, false
	}

	var page Page
	if err := json.Unmarshal(data, &page); err != nil {
		c.logger.Warn("cache body corrupt, treating as miss", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return &page, true
}

// Set stores a page under its URL key. The body is written before the index
// record so a crash between the two leaves an orphaned body file at worst,
// never an index pointer to a missing body.
func (c *Cache) Set(url string, page *Page) error {
	key := CacheKey(url)

	data, err := json.MarshalIndent(page, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal cache entry: %w", err)
	}
	if err := os.WriteFile(c.entryPath(key), data, 0644); err != nil {
		return fmt.Errorf("write cache entry: %w", err)
	}

	c.index[key] = indexEntry{
		URL:       url,
		Timestamp: c.now(),
		Title:     page.Title,
	}
	return c.saveIndex()
}

// Delete removes a cached page. Deleting an absent key is a no-op.
func (c *Cache) Delete(url string) error {
	key := CacheKey(url)

	if _, ok := c.index[key]; ok {
		delete(c.index, key)
		if err := c.saveIndex(); err != nil {
			return err
		}
	}

	if err := os.Remove(c.entryPath(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove cache entry: %w", err)
	}
	return nil
}

// ClearExpired eagerly evicts every entry older than the TTL and returns
// the number removed.
func (c *Cache) ClearExpired() (int, error) {
	var expired []string
	for key, entry := range c.index {
		if c.now().Sub(entry.Timestamp) > c.ttl {
			expired = append(expired, key)
		}
	}

	for _, key := range expired {
		if err := os.Remove(c.entryPath(key)); err != nil && !os.IsNotExist(err) {
			c.logger.Warn("remove expired cache entry", zap.String("key", key), zap.Error(err))
		}
		delete(c.index, key)
	}

	if len(expired) > 0 {
		if err := c.saveIndex(); err != nil {
			return len(expired), err
		}
		c.logger.Info("cleared expired cache entries", zap.Int("count", len(expired)))
	}
	return len(expired), nil
}

// Stats returns the live entry count and total on-disk size of body files.
func (c *Cache) Stats() CacheStats {
	var size int64
	for key := range c.index {
		if fi, err := os.Stat(c.entryPath(key)); err == nil {
			size += fi.Size()
		}
	}
	return CacheStats{
		Entries:   len(c.index),
		SizeBytes: size,
		Dir:       c.dir,
	}
}
