package pricing

import (
	"sync"
	"time"

	"isktrack/internal/model"
)

// quoteCache holds resolved quotes keyed by normalized item name with a
// fixed time-based expiry.
type quoteCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]quoteEntry
}

type quoteEntry struct {
	quote   model.PriceQuote
	expires time.Time
}

func newQuoteCache(ttl time.Duration) *quoteCache {
	return &quoteCache{
		ttl:     ttl,
		entries: make(map[string]quoteEntry),
	}
}

func (c *quoteCache) get(key string, now time.Time) (model.PriceQuote, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[key]
	if !ok || now.After(entry.expires) {
		return model.PriceQuote{}, false
	}
	return entry.quote, true
}

func (c *quoteCache) put(key string, quote model.PriceQuote, now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = quoteEntry{quote: quote, expires: now.Add(c.ttl)}
}

func (c *quoteCache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]quoteEntry)
}

// typeIDCache holds resolved name to type-identifier mappings. Identifiers
// never change, but entries still expire so a bad candidate match heals.
type typeIDCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]typeIDEntry
}

type typeIDEntry struct {
	typeID  int64
	expires time.Time
}

func newTypeIDCache(ttl time.Duration) *typeIDCache {
	return &typeIDCache{
		ttl:     ttl,
		entries: make(map[string]typeIDEntry),
	}
}

func (c *typeIDCache) get(key string, now time.Time) (int64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[key]
	if !ok || now.After(entry.expires) {
		return 0, false
	}
	return entry.typeID, true
}

func (c *typeIDCache) put(key string, typeID int64, now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = typeIDEntry{typeID: typeID, expires: now.Add(c.ttl)}
}
