package assets

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const indexFile = "asset_cache.json"

// Key derives the cache identity for a generation request. The hash
// covers prompt text, category and stored size, so a reworded prompt or
// a resized category naturally misses instead of serving stale art.
func Key(prompt string, cat Category) string {
	w, h := TargetSize(cat)
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%s|%dx%d", prompt, cat, w, h)))
	return hex.EncodeToString(sum[:])
}

// Cache is a content-addressed image store under a single directory.
// The index is rewritten after every store, so a crash loses at most
// the write in flight. There is no eviction; the cache only grows.
// Safe for concurrent use.
type Cache struct {
	dir string
	log zerolog.Logger

	mu    sync.Mutex
	index map[string]cacheEntry
}

type cacheEntry struct {
	Path      string    `json:"path"`
	Category  Category  `json:"category"`
	CreatedAt time.Time `json:"created_at"`
}

// OpenCache ensures dir exists and loads the index left by previous
// runs. A corrupt index is discarded with a warning rather than
// failing the open; the artwork behind it is regenerated on demand.
func OpenCache(dir string, log zerolog.Logger) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}

	c := &Cache{dir: dir, log: log, index: make(map[string]cacheEntry)}

	raw, err := os.ReadFile(filepath.Join(dir, indexFile))
	if errors.Is(err, os.ErrNotExist) {
		return c, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read cache index: %w", err)
	}
	if err := json.Unmarshal(raw, &c.index); err != nil {
		log.Warn().Err(err).Msg("discarding corrupt asset cache index")
		c.index = make(map[string]cacheEntry)
	}
	return c, nil
}

// Get returns the image stored under key. An index entry whose file has
// gone missing or no longer decodes counts as a miss, so callers always
// regenerate rather than crash on a half-deleted cache directory.
func (c *Cache) Get(key string) (image.Image, bool) {
	c.mu.Lock()
	entry, ok := c.index[key]
	c.mu.Unlock()
	if !ok {
		return nil, false
	}

	f, err := os.Open(filepath.Join(c.dir, entry.Path))
	if err != nil {
		c.log.Warn().Str("key", key).Err(err).Msg("cached artwork missing, treating as miss")
		return nil, false
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		c.log.Warn().Str("key", key).Err(err).Msg("cached artwork unreadable, treating as miss")
		return nil, false
	}
	return img, true
}

// Put stores img under key and persists the index immediately.
func (c *Cache) Put(key string, cat Category, img image.Image) error {
	name := key + ".png"

	f, err := os.Create(filepath.Join(c.dir, name))
	if err != nil {
		return fmt.Errorf("create cache file: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode cache file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close cache file: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.index[key] = cacheEntry{Path: name, Category: cat, CreatedAt: time.Now().UTC()}
	return c.saveIndex()
}

func (c *Cache) saveIndex() error {
	raw, err := json.MarshalIndent(c.index, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal cache index: %w", err)
	}
	if err := os.WriteFile(filepath.Join(c.dir, indexFile), raw, 0o644); err != nil {
		return fmt.Errorf("write cache index: %w", err)
	}
	return nil
}

// Len reports how many artifacts the index tracks.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.index)
}

// Dir returns the directory backing the cache.
func (c *Cache) Dir() string { return c.dir }

// Clear removes every stored artifact and the index, leaving an empty
// but usable cache directory behind.
func (c *Cache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := os.RemoveAll(c.dir); err != nil {
		return fmt.Errorf("clear cache: %w", err)
	}
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return fmt.Errorf("recreate cache dir: %w", err)
	}
	c.index = make(map[string]cacheEntry)
	return nil
}
