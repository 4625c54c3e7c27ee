package assist

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sync"
	"time"
)

// Cache stores filtered model comments by request key.
type Cache interface {
	Get(ctx context.Context, key string) (Comments, bool, error)
	Set(ctx context.Context, key string, comments Comments) error
}

// CacheKey derives a key from the five fields and the reviewed lines. Requests with
// identical content share a key.
func CacheKey(req Request) string {
	payload, _ := json.Marshal(struct {
		Fields [5]string `json:"f"`
		Lines  []Line    `json:"l"`
	}{
		Fields: [5]string{req.A, req.B, req.C, req.D, req.Dprime},
		Lines:  req.Lines,
	})
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}

type memoryEntry struct {
	comments Comments
	storedAt time.Time
}

// MemoryCache is an in-process Cache with a TTL and a size bound. When full, the
// oldest entry is evicted.
type MemoryCache struct {
	mu         sync.Mutex
	entries    map[string]memoryEntry
	ttl        time.Duration
	maxEntries int
	now        func() time.Time
}

// NewMemoryCache creates a MemoryCache. A zero ttl keeps entries until evicted.
func NewMemoryCache(ttl time.Duration, maxEntries int) *MemoryCache {
	if maxEntries <= 0 {
		maxEntries = 1000
	}
	return &MemoryCache{
		entries:    make(map[string]memoryEntry),
		ttl:        ttl,
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

// Get returns a copy of the cached comments.
func (c *MemoryCache) Get(_ context.Context, key string) (Comments, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false, nil
	}
	if c.expired(e) {
		delete(c.entries, key)
		return nil, false, nil
	}
	return cloneComments(e.comments), true, nil
}

// Set stores a copy of comments under key.
func (c *MemoryCache) Set(_ context.Context, key string, comments Comments) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.maxEntries {
		c.evictOldest()
	}
	c.entries[key] = memoryEntry{comments: cloneComments(comments), storedAt: c.now()}
	return nil
}

// Len returns the number of stored entries, expired ones included.
func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *MemoryCache) expired(e memoryEntry) bool {
	return c.ttl > 0 && c.now().Sub(e.storedAt) > c.ttl
}

func (c *MemoryCache) evictOldest() {
	var oldestKey string
	var oldest time.Time
	for k, e := range c.entries {
		if oldestKey == "" || e.storedAt.Before(oldest) {
			oldestKey, oldest = k, e.storedAt
		}
	}
	delete(c.entries, oldestKey)
}

func cloneComments(src Comments) Comments {
	out := make(Comments, len(src))
	for k, v := range src {
		out[k] = append([]Comment(nil), v...)
		if out[k] == nil {
			out[k] = []Comment{}
		}
	}
	return out
}
