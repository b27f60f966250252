// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package explain

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/jpreyes/paperradarai-bot/pkg/types"
)

// Cache persists generative explanations as a flat key-to-record JSON
// object on disk. Entries are immutable once written; the file is loaded
// once at construction and rewritten after every insert. Losing the file
// only costs cache hits, never correctness. Per prd003-explanation R4.1-R4.4.
type Cache struct {
	path string

	mu      sync.Mutex
	entries map[string]types.Explanation
}

// OpenCache loads the cache at path. A missing or corrupt file starts an
// empty cache with a warning; it is never an error.
func OpenCache(path string) *Cache {
	c := &Cache{
		path:    path,
		entries: make(map[string]types.Explanation),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "warning: could not read explanation cache %s: %v\n", path, err)
		}
		return c
	}
	if err := json.Unmarshal(data, &c.entries); err != nil {
		fmt.Fprintf(os.Stderr, "warning: corrupt explanation cache %s, starting empty: %v\n", path, err)
		c.entries = make(map[string]types.Explanation)
	}
	return c
}

// Get returns the cached explanation for key, if any. Safe on a nil cache.
func (c *Cache) Get(key string) (types.Explanation, bool) {
	if c == nil {
		return types.Explanation{}, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	return e, ok
}

// Put inserts an explanation and flushes the cache to disk. Existing
// entries are never overwritten. A write failure is logged, not fatal.
// Safe on a nil cache, which discards the entry.
func (c *Cache) Put(key string, e types.Explanation) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[key]; ok {
		return
	}
	c.entries[key] = e

	data, err := json.Marshal(c.entries)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not encode explanation cache: %v\n", err)
		return
	}
	if dir := filepath.Dir(c.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not create cache directory %s: %v\n", dir, err)
			return
		}
	}
	if err := os.WriteFile(c.path, data, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not write explanation cache %s: %v\n", c.path, err)
	}
}

// Len returns the number of cached explanations.
func (c *Cache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// cacheKey hashes the explanation inputs into a stable cache key.
func cacheKey(profileSummary string, topics []string, title, abstract string) string {
	h := sha256.New()
	for _, s := range []string{profileSummary, strings.Join(topics, " "), title, abstract} {
		h.Write([]byte(s))
	}
	return hex.EncodeToString(h.Sum(nil))
}
