package client

import (
	"strconv"
	"strings"
	"sync"
	"time"
)

// listingTTL is how long a cached feed listing is served. The expiry is
// fixed at store time and is not extended by reads.
const listingTTL = 30 * time.Minute

type listingEntry struct {
	page     *FeedPage
	storedAt time.Time
}

// listingCache holds first pages of the feed keyed by interest.
type listingCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]listingEntry
}

func newListingCache(ttl time.Duration, now func() time.Time) *listingCache {
	return &listingCache{ttl: ttl, now: now, entries: make(map[string]listingEntry)}
}

func listingKey(interest string, limit int) string {
	return strings.ToLower(strings.TrimSpace(interest)) + "|" + strconv.Itoa(limit)
}

func (lc *listingCache) get(key string) (*FeedPage, bool) {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	e, ok := lc.entries[key]
	if !ok {
		return nil, false
	}
	if lc.now().Sub(e.storedAt) >= lc.ttl {
		delete(lc.entries, key)
		return nil, false
	}
	return e.page, true
}

func (lc *listingCache) put(key string, page *FeedPage) {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	lc.entries[key] = listingEntry{page: page, storedAt: lc.now()}
}

func (lc *listingCache) clear() {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	clear(lc.entries)
}

// InvalidateListings drops every cached feed listing.
func (c *Client) InvalidateListings() {
	c.listings.clear()
}
