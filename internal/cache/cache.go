// Package cache keeps engine recommendations keyed by snapshot version so
// repeated reads of an unchanged draft skip the scoring work.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"
)

// AdviceCache stores JSON-encodable recommendations
type AdviceCache interface {
	// Get decodes the entry at key into dst and reports whether it was found
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, value any) error
	Close() error
}

// Key builds "advice:{kind}:v{version}[:{part}...]". The snapshot version is
// monotonic, so entries for an older snapshot are never read again.
func Key(kind string, version int, parts ...string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "advice:%s:v%d", kind, version)
	for _, p := range parts {
		b.WriteByte(':')
		b.WriteString(p)
	}
	return b.String()
}

const memoryMaxEntries = 1024

type memoryEntry struct {
	data    []byte
	expires time.Time
}

// MemoryAdviceCache is the single-instance cache used when Redis is not
// configured
type MemoryAdviceCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryAdviceCache creates an in-process cache
func NewMemoryAdviceCache(ttl time.Duration) *MemoryAdviceCache {
	return &MemoryAdviceCache{
		ttl:     ttl,
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (c *MemoryAdviceCache) Get(_ context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	e, ok := c.entries[key]
	if ok && c.now().After(e.expires) {
		delete(c.entries, key)
		ok = false
	}
	c.mu.Unlock()
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(e.data, dst); err != nil {
		return false, fmt.Errorf("memory cache: unmarshal %s: %w", key, err)
	}
	return true, nil
}

func (c *MemoryAdviceCache) Set(_ context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("memory cache: marshal %s: %w", key, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	if len(c.entries) >= memoryMaxEntries {
		for k, e := range c.entries {
			if now.After(e.expires) {
				delete(c.entries, k)
			}
		}
		// still full: start over rather than track recency
		if len(c.entries) >= memoryMaxEntries {
			c.entries = make(map[string]memoryEntry)
		}
	}
	c.entries[key] = memoryEntry{data: data, expires: now.Add(c.ttl)}
	return nil
}

// Len returns the number of stored entries, expired ones included
func (c *MemoryAdviceCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *MemoryAdviceCache) Close() error {
	return nil
}

var _ AdviceCache = (*MemoryAdviceCache)(nil)
