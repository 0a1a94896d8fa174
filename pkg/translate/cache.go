package translate

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"sync"

	"github.com/gardar/ocrtranslate/pkg/layout"
)

// Cache stores translations on disk, one file per request, keyed by a hash of
// the request.
type Cache struct {
	dir string
	mu  sync.RWMutex
}

// NewCache creates the cache directory if needed.
func NewCache(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &Cache{dir: dir}, nil
}

// Get returns the cached value for key.
func (c *Cache) Get(key string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	data, err := os.ReadFile(c.path(key))
	if err != nil {
		return "", false
	}
	return string(data), true
}

// Set stores value under key.
func (c *Cache) Set(key, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return os.WriteFile(c.path(key), []byte(value), 0644)
}

func (c *Cache) path(key string) string {
	hash := sha256.Sum256([]byte(key))
	return filepath.Join(c.dir, hex.EncodeToString(hash[:])+".txt")
}

// WithCache serves repeated requests to t from cache. Entries are scoped by
// namespace. Failed translations are not cached, and a failing cache write
// does not fail the translation.
func WithCache(t layout.Translator, cache *Cache, namespace string) layout.Translator {
	return layout.TranslatorFunc(func(ctx context.Context, text string) (string, error) {
		key := namespace + "\x00" + text
		if out, ok := cache.Get(key); ok {
			return out, nil
		}
		out, err := t.Translate(ctx, text)
		if err != nil {
			return "", err
		}
		_ = cache.Set(key, out)
		return out, nil
	})
}
